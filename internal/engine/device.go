package engine

import (
	"errors"
	"sync/atomic"

	"github.com/dkarpov/pattyhop/internal/core"
)

// Device is the display a surface draws to. For the terminal build this
// is a styled-string presenter; tests substitute fakes that simulate
// device death.
//
// A device can die at any time without promptly firing its loss listener,
// so callers re-check Alive immediately before presenting.
type Device interface {
	// Alive reports whether the device can currently accept frames.
	Alive() bool

	// Present displays a completed frame buffer.
	Present(frame *core.Screen) error

	// OnLoss registers a listener fired when the device is lost.
	// The returned function deregisters it.
	OnLoss(fn func()) (remove func())

	// OnRestore registers a listener fired when a lost device becomes
	// usable again. The returned function deregisters it.
	OnRestore(fn func()) (remove func())

	// Release frees the device. Terminal; the device is unusable after.
	Release()
}

// ErrDeviceReleased is returned by Present after Release.
var ErrDeviceReleased = errors.New("engine: device released")

// TermDevice presents frames as a styled terminal string for the
// platform layer to display. Suspend and Resume model the tty going away
// and coming back (Ctrl+Z, detach): the terminal analogue of a GPU
// context loss, including the reset-to-defaults behavior of the alternate
// screen on resume.
type TermDevice struct {
	styler    func(*core.Screen) string
	output    atomic.Value // string: last presented frame
	alive     bool
	released  bool
	listeners listenerSet
}

// NewTermDevice creates a live terminal device. styler converts a frame
// buffer into the string handed to the terminal; pass nil for plain
// unstyled output.
func NewTermDevice(styler func(*core.Screen) string) *TermDevice {
	if styler == nil {
		styler = func(s *core.Screen) string { return s.String() }
	}
	d := &TermDevice{styler: styler, alive: true}
	d.output.Store("")
	return d
}

// Alive reports whether the tty is attached.
func (d *TermDevice) Alive() bool {
	return d.alive && !d.released
}

// Present styles and stores the frame for the platform's view function.
func (d *TermDevice) Present(frame *core.Screen) error {
	if d.released {
		return ErrDeviceReleased
	}
	if !d.alive {
		return errors.New("engine: terminal detached")
	}
	d.output.Store(d.styler(frame))
	return nil
}

// Output returns the most recently presented frame string.
func (d *TermDevice) Output() string {
	return d.output.Load().(string)
}

// Suspend marks the tty as gone and fires loss listeners.
func (d *TermDevice) Suspend() {
	if !d.alive || d.released {
		return
	}
	d.alive = false
	d.listeners.fireLoss()
}

// Resume marks the tty as back and fires restore listeners. The terminal
// state was reset while away, so listeners reapply their configuration.
func (d *TermDevice) Resume() {
	if d.alive || d.released {
		return
	}
	d.alive = true
	d.listeners.fireRestore()
}

// OnLoss registers a loss listener.
func (d *TermDevice) OnLoss(fn func()) func() {
	return d.listeners.addLoss(fn)
}

// OnRestore registers a restore listener.
func (d *TermDevice) OnRestore(fn func()) func() {
	return d.listeners.addRestore(fn)
}

// Release frees the device.
func (d *TermDevice) Release() {
	d.released = true
	d.listeners = listenerSet{}
}

// listenerSet holds loss/restore listener registrations with stable
// removal handles.
type listenerSet struct {
	nextID  int
	loss    map[int]func()
	restore map[int]func()
}

func (l *listenerSet) addLoss(fn func()) func() {
	if l.loss == nil {
		l.loss = make(map[int]func())
	}
	id := l.nextID
	l.nextID++
	l.loss[id] = fn
	return func() { delete(l.loss, id) }
}

func (l *listenerSet) addRestore(fn func()) func() {
	if l.restore == nil {
		l.restore = make(map[int]func())
	}
	id := l.nextID
	l.nextID++
	l.restore[id] = fn
	return func() { delete(l.restore, id) }
}

func (l *listenerSet) fireLoss() {
	for _, fn := range l.loss {
		fn()
	}
}

func (l *listenerSet) fireRestore() {
	for _, fn := range l.restore {
		fn()
	}
}
