package engine

import (
	"errors"
	"testing"

	"github.com/dkarpov/pattyhop/internal/core"
)

// fakeDevice simulates display death and restoration for surface tests.
type fakeDevice struct {
	alive      bool
	released   bool
	presents   int
	presentErr error
	listeners  listenerSet
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{alive: true}
}

func (d *fakeDevice) Alive() bool { return d.alive && !d.released }

func (d *fakeDevice) Present(*core.Screen) error {
	if d.presentErr != nil {
		return d.presentErr
	}
	d.presents++
	return nil
}

func (d *fakeDevice) OnLoss(fn func()) func()    { return d.listeners.addLoss(fn) }
func (d *fakeDevice) OnRestore(fn func()) func() { return d.listeners.addRestore(fn) }
func (d *fakeDevice) Release()                   { d.released = true }

// die simulates a quiet death: no loss signal fires.
func (d *fakeDevice) die() { d.alive = false }

// lose simulates the environment's loss signal.
func (d *fakeDevice) lose() {
	d.alive = false
	d.listeners.fireLoss()
}

// restore simulates the environment's restoration signal.
func (d *fakeDevice) restore() {
	d.alive = true
	d.listeners.fireRestore()
}

func TestTierSelection(t *testing.T) {
	full := New(newFakeDevice(), RenderConfig{Antialiasing: true, ShadowsEnabled: true}, nil)
	if full.Tier() != TierFull {
		t.Error("no cell-ratio cap should select the full tier")
	}
	if full.CellRatio() != 2.0 {
		t.Errorf("antialiased full tier ratio = %v, expected 2.0", full.CellRatio())
	}

	cap := 1.0
	constrained := New(newFakeDevice(), RenderConfig{Antialiasing: true, MaxCellRatio: &cap}, nil)
	if constrained.Tier() != TierConstrained {
		t.Error("a cell-ratio cap must select the constrained tier")
	}
	if constrained.CellRatio() != 1.0 {
		t.Errorf("constrained ratio = %v, expected clamp to 1.0", constrained.CellRatio())
	}

	// The tier drives the target frame interval.
	if NewFrameClock(constrained.Tier()).IntervalMs() != 1000.0/30.0 {
		t.Error("constrained tier must target 1000/30 ms")
	}
	if NewFrameClock(full.Tier()).IntervalMs() != 1000.0/60.0 {
		t.Error("full tier must target 1000/60 ms")
	}
}

func TestConstrainedTierQuality(t *testing.T) {
	cap := 1.0
	s := New(newFakeDevice(), RenderConfig{MaxCellRatio: &cap, ShadowsEnabled: true}, nil)

	var got *RenderPass
	s.scene.Add(drawFunc(func(p *RenderPass) { got = p }))
	s.Render()

	if got == nil {
		t.Fatal("scene was not drawn")
	}
	if got.Fog {
		t.Error("fog must be disabled on the constrained tier")
	}
	if got.SoftShadows {
		t.Error("shadow softening must be disabled on the constrained tier")
	}
	if !got.Shadows {
		t.Error("hard shadows stay enabled when configured")
	}
}

// drawFunc adapts a function to the Drawable interface.
type drawFunc func(p *RenderPass)

func (f drawFunc) Draw(p *RenderPass) { f(p) }

func TestRenderNoOpWhileLost(t *testing.T) {
	dev := newFakeDevice()
	s := New(dev, RenderConfig{}, nil)

	dev.lose()
	if !s.Lost() {
		t.Fatal("loss signal should set the lost flag")
	}

	s.Render()
	s.Render()
	if dev.presents != 0 {
		t.Errorf("rendered %d frames while lost, expected 0", dev.presents)
	}
}

func TestDeadOnRecheck(t *testing.T) {
	dev := newFakeDevice()
	s := New(dev, RenderConfig{}, nil)

	// Device dies without firing its loss listener.
	dev.die()
	s.Render()

	if !s.Lost() {
		t.Error("render should detect a quietly dead device and mark it lost")
	}
	if dev.presents != 0 {
		t.Error("no frame should be presented to a dead device")
	}
}

func TestRestoreReappliesConfiguration(t *testing.T) {
	dev := newFakeDevice()
	s := New(dev, RenderConfig{ShadowsEnabled: true}, nil)
	s.Resize(100, 40)

	aspectBefore := s.Camera().Aspect()
	ratioBefore := s.CellRatio()

	dev.lose()
	dev.restore()

	if s.Lost() {
		t.Fatal("restore signal should clear the lost flag")
	}
	if s.Camera().Aspect() != aspectBefore {
		t.Errorf("aspect after restore = %v, expected %v", s.Camera().Aspect(), aspectBefore)
	}
	if s.CellRatio() != ratioBefore {
		t.Errorf("cell ratio after restore = %v, expected %v", s.CellRatio(), ratioBefore)
	}
	if w, h := s.Viewport(); w != 100 || h != 40 {
		t.Errorf("viewport after restore = %dx%d, expected 100x40", w, h)
	}
	if !s.ShadowsEnabled() {
		t.Error("shadow setting lost across restore")
	}

	s.Render()
	if dev.presents != 1 {
		t.Errorf("render after restore presented %d frames, expected 1", dev.presents)
	}
}

func TestTransientRenderFailure(t *testing.T) {
	dev := newFakeDevice()
	s := New(dev, RenderConfig{}, nil)

	// Present fails while the device is still alive: logged, swallowed,
	// loop keeps going.
	dev.presentErr = errors.New("transient")
	s.Render()
	if s.Lost() {
		t.Error("a transient failure on a live device must not mark it lost")
	}

	dev.presentErr = nil
	s.Render()
	if dev.presents != 1 {
		t.Errorf("presents = %d, expected recovery on next frame", dev.presents)
	}
}

func TestDrawPanicTreatedAsFailure(t *testing.T) {
	dev := newFakeDevice()
	s := New(dev, RenderConfig{}, nil)

	s.scene.Add(drawFunc(func(*RenderPass) { panic("bad node") }))

	s.Render() // must not propagate
	if s.Lost() {
		t.Error("panic on a live device must not mark it lost")
	}

	// If the device died behind the panic, it is a loss, not an error.
	dev.die()
	s.scene.Clear()
	s.scene.Add(drawFunc(func(*RenderPass) { panic("dead device") }))
	s.Render()
	if !s.Lost() {
		t.Error("panic with a dead device should flip the lost flag")
	}
}

func TestResizeIdempotent(t *testing.T) {
	dev := newFakeDevice()
	s := New(dev, RenderConfig{}, nil)

	hookCalls := 0
	s.SetResizeHook(func(w, h int) { hookCalls++ })

	s.Resize(120, 30)
	aspect := s.Camera().Aspect()

	s.Resize(120, 30)
	s.Resize(120, 30)

	if s.Camera().Aspect() != aspect {
		t.Error("identical resize changed the camera aspect")
	}
	if w, h := s.Viewport(); w != 120 || h != 30 {
		t.Errorf("viewport = %dx%d, expected 120x30", w, h)
	}
	if hookCalls != 3 {
		t.Errorf("hook calls = %d, expected one per resize", hookCalls)
	}
}

func TestDisposeReleasesDeviceAndListeners(t *testing.T) {
	dev := newFakeDevice()
	s := New(dev, RenderConfig{}, nil)

	s.Dispose()
	if !dev.released {
		t.Error("dispose must release the device")
	}
	if len(dev.listeners.loss) != 0 || len(dev.listeners.restore) != 0 {
		t.Error("dispose must deregister loss/restore listeners")
	}

	// Terminal: render and resize become no-ops, not panics.
	s.Render()
	s.Resize(10, 10)
	s.Dispose()
}

func TestEnsureBackground(t *testing.T) {
	s := NewScene()

	s.ClearBackground()
	if _, ok := s.Background(); ok {
		t.Fatal("background should be cleared")
	}

	s.EnsureBackground()
	bg, ok := s.Background()
	if !ok || bg != DefaultBackground {
		t.Errorf("EnsureBackground gave (%v, %v), expected default", bg, ok)
	}
}

func TestSceneDisposesNodes(t *testing.T) {
	s := NewScene()

	disposed := 0
	n := &disposableNode{onDispose: func() { disposed++ }}
	s.Add(n)
	s.Add(drawFunc(func(*RenderPass) {}))

	s.Clear()
	if disposed != 1 {
		t.Errorf("disposed = %d, expected 1", disposed)
	}
	if s.Len() != 0 {
		t.Errorf("scene length = %d after Clear, expected 0", s.Len())
	}
}

type disposableNode struct {
	onDispose func()
}

func (n *disposableNode) Draw(*RenderPass) {}
func (n *disposableNode) Dispose()         { n.onDispose() }
