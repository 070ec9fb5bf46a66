// Package engine provides the Patty Hop runtime: the frame clock, the
// render surface with its device lifecycle, and the runtime loop that
// drives game sessions. It is platform-agnostic; the terminal layer feeds
// it callback timestamps and display events.
package engine

import "math"

// Tier selects the frame-rate/quality class of the active device.
// It is computed exactly once at surface construction and threaded
// through explicitly; nothing re-derives it afterward.
type Tier int

const (
	// TierFull targets the full 60 Hz rate with all visual effects.
	TierFull Tier = iota
	// TierConstrained targets 30 Hz with fog and soft shadows disabled.
	TierConstrained
)

// IntervalMs returns the target frame interval for the tier in
// milliseconds.
func (t Tier) IntervalMs() float64 {
	if t == TierConstrained {
		return 1000.0 / 30.0
	}
	return 1000.0 / 60.0
}

// maxDeltaSeconds caps the delta handed to gameplay after a stall or
// suspend, so one giant step cannot tunnel the player through geometry.
const maxDeltaSeconds = 0.25

// FrameClock throttles raw callback invocations to a fixed target rate
// and computes the wall-clock delta handed to gameplay. It is pure
// computation over two timestamps and cannot fail.
//
// Timestamps are milliseconds from an arbitrary monotonic origin; zero is
// reserved as the "first tick" sentinel.
type FrameClock struct {
	lastTick  float64 // timestamp of the last advanced tick
	lastFrame float64 // pacing reference timestamp
	interval  float64 // target frame interval in ms, fixed at construction
}

// NewFrameClock creates a clock targeting the tier's frame interval.
// The interval never changes afterward.
func NewFrameClock(tier Tier) *FrameClock {
	return &FrameClock{interval: tier.IntervalMs()}
}

// IntervalMs returns the fixed target frame interval.
func (c *FrameClock) IntervalMs() float64 {
	return c.interval
}

// Reset clears both timestamps to the first-tick sentinel, so the next
// advanced tick reports a zero delta. Called when a session (re)starts.
func (c *FrameClock) Reset() {
	c.lastTick = 0
	c.lastFrame = 0
}

// ShouldTick applies frame pacing to a raw callback timestamp. When the
// target interval has not yet elapsed it reports advance=false and the
// caller skips all tick work (while still keeping the callback chain
// scheduled). Otherwise it reports advance=true with the delta, in
// seconds, to hand to gameplay.
//
// Pacing is phase-preserving: the reference timestamp advances by whole
// intervals (lastFrame = ts - elapsed mod interval) instead of snapping
// to ts, so the tick phase does not drift over long runs.
func (c *FrameClock) ShouldTick(tsMs float64) (advance bool, deltaSeconds float64) {
	if c.lastFrame != 0 {
		elapsed := tsMs - c.lastFrame
		if elapsed < c.interval {
			return false, 0
		}
		c.lastFrame = tsMs - math.Mod(elapsed, c.interval)
	} else {
		c.lastFrame = tsMs
	}

	if c.lastTick != 0 {
		deltaSeconds = (tsMs - c.lastTick) / 1000.0
	}
	c.lastTick = tsMs

	// Guard against stalls and clock weirdness; gameplay never sees a
	// negative or runaway step.
	if deltaSeconds < 0 {
		deltaSeconds = 0
	}
	if deltaSeconds > maxDeltaSeconds {
		deltaSeconds = maxDeltaSeconds
	}
	return true, deltaSeconds
}
