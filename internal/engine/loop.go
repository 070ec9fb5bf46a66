package engine

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/dkarpov/pattyhop/internal/core"
)

// Game is the contract between the runtime loop and a game instance.
// The loop guarantees Dispose is called exactly once before the
// reference is dropped.
type Game interface {
	// Update advances gameplay by delta seconds.
	Update(delta float64)

	// Dispose releases everything the game owns, including its scene
	// nodes. Called on session stop.
	Dispose()
}

// Resizer is optionally implemented by games that want viewport resize
// notifications.
type Resizer interface {
	OnResize(w, h int)
}

// Scheduler abstracts the display's continuous callback signal (the
// vsync analogue). Schedule arms one callback carrying a millisecond
// timestamp; the returned function cancels it if it has not fired yet.
type Scheduler interface {
	Schedule(fn func(tsMs float64)) (cancel func())
}

// RuntimeLoop drives game sessions: Idle, then Running while exactly one
// game instance is active, back to Idle on stop. Sessions never overlap;
// starting over an active session disposes it first.
type RuntimeLoop struct {
	surface *Surface
	clock   *FrameClock
	input   *core.InputState
	sched   Scheduler
	logger  *log.Logger

	game     Game
	running  bool
	disposed bool
	cancel   func()
}

// NewRuntimeLoop wires a loop over a surface, shared input state and a
// scheduler. The frame clock is paced by the surface's tier.
func NewRuntimeLoop(surface *Surface, input *core.InputState, sched Scheduler, logger *log.Logger) *RuntimeLoop {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &RuntimeLoop{
		surface: surface,
		clock:   NewFrameClock(surface.Tier()),
		input:   input,
		sched:   sched,
		logger:  logger,
	}
}

// Game returns the active game instance, or nil when idle.
func (l *RuntimeLoop) Game() Game {
	return l.game
}

// Running reports whether a session is active.
func (l *RuntimeLoop) Running() bool {
	return l.running
}

// Start begins a session for g. If a session is already active it is
// fully stopped first - its disposal hook runs and its scheduling is
// cancelled before g ever ticks. Both clock timestamps are cleared so
// the first tick of the new session reports a zero delta.
func (l *RuntimeLoop) Start(g Game) {
	if l.game != nil {
		l.logger.Warn("starting a session while one is active; stopping previous game")
		l.Stop()
	}
	l.clock.Reset()
	l.game = g
	l.running = true
	l.schedule()
}

// schedule arms the next callback.
func (l *RuntimeLoop) schedule() {
	l.cancel = l.sched.Schedule(l.Tick)
}

// Tick is the continuous callback body. It re-schedules the next
// callback first, so a failure mid-tick never stops future frames, then
// runs the tick sequence: loss checks, frame pacing, game update, input
// reset, background guard, guarded render.
func (l *RuntimeLoop) Tick(tsMs float64) {
	if !l.running {
		return
	}
	l.schedule()

	// While the device is lost (or found dead on recheck) the whole
	// tick is skipped; the world freezes until restoration.
	if !l.surface.CheckAlive() {
		return
	}

	advance, delta := l.clock.ShouldTick(tsMs)
	if !advance {
		return // next callback already armed
	}

	if l.game != nil {
		l.game.Update(delta)
	}

	// Each tick must observe only input accumulated since the previous
	// one.
	l.input.ResetDeltas()

	// Guard against gameplay code accidentally clearing the background.
	l.surface.Scene().EnsureBackground()

	l.surface.Render()
}

// Resize propagates a viewport change immediately, independent of the
// tick cadence: the surface resizes first, then the active game's
// resize hook runs if it has one.
func (l *RuntimeLoop) Resize(w, h int) {
	l.surface.Resize(w, h)
	if r, ok := l.game.(Resizer); ok {
		r.OnResize(w, h)
	}
}

// Stop cancels the pending callback, disposes the active game and
// clears the reference. Idempotent. The surface itself survives.
func (l *RuntimeLoop) Stop() {
	l.running = false
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	if l.game != nil {
		l.game.Dispose()
		l.game = nil
	}
}

// Dispose stops the session and releases input state and the surface
// device. Terminal; the loop is not reusable afterwards.
func (l *RuntimeLoop) Dispose() {
	if l.disposed {
		return
	}
	l.Stop()
	l.input.ResetDeltas()
	l.surface.Dispose()
	l.disposed = true
}
