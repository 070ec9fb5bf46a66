package engine

import (
	"testing"

	"github.com/dkarpov/pattyhop/internal/core"
)

// manualScheduler lets tests fire the callback chain with synthetic
// timestamps.
type manualScheduler struct {
	pending   func(tsMs float64)
	scheduled int
	cancelled int
}

func (m *manualScheduler) Schedule(fn func(tsMs float64)) func() {
	m.pending = fn
	m.scheduled++
	return func() {
		if m.pending != nil {
			m.pending = nil
			m.cancelled++
		}
	}
}

func (m *manualScheduler) fire(tsMs float64) {
	fn := m.pending
	m.pending = nil
	if fn != nil {
		fn(tsMs)
	}
}

// recordGame records the loop's dispatches for ordering assertions.
type recordGame struct {
	name     string
	events   *[]string
	deltas   []float64
	disposed int
	resizes  [][2]int
	onUpdate func()
}

func (g *recordGame) Update(delta float64) {
	g.deltas = append(g.deltas, delta)
	*g.events = append(*g.events, g.name+":update")
	if g.onUpdate != nil {
		g.onUpdate()
	}
}

func (g *recordGame) Dispose() {
	g.disposed++
	*g.events = append(*g.events, g.name+":dispose")
}

func (g *recordGame) OnResize(w, h int) {
	g.resizes = append(g.resizes, [2]int{w, h})
}

func newLoopFixture() (*RuntimeLoop, *manualScheduler, *fakeDevice, *core.InputState) {
	dev := newFakeDevice()
	surface := New(dev, RenderConfig{}, nil)
	input := core.NewInputState()
	sched := &manualScheduler{}
	return NewRuntimeLoop(surface, input, sched, nil), sched, dev, input
}

func TestStartDisposesPreviousSession(t *testing.T) {
	loop, sched, _, _ := newLoopFixture()

	var events []string
	gameA := &recordGame{name: "a", events: &events}
	gameB := &recordGame{name: "b", events: &events}

	loop.Start(gameA)
	sched.fire(1000)
	sched.fire(1100)

	loop.Start(gameB)
	sched.fire(1200)

	if gameA.disposed != 1 {
		t.Errorf("gameA disposed %d times, expected exactly 1", gameA.disposed)
	}

	// gameA's disposal must precede any gameB update.
	sawDispose := false
	for _, e := range events {
		if e == "a:dispose" {
			sawDispose = true
		}
		if e == "b:update" && !sawDispose {
			t.Fatal("gameB updated before gameA was disposed")
		}
	}
	if len(gameB.deltas) == 0 {
		t.Error("gameB never ticked")
	}
}

func TestFirstTickOfSessionHasZeroDelta(t *testing.T) {
	loop, sched, _, _ := newLoopFixture()

	var events []string
	gameA := &recordGame{name: "a", events: &events}
	loop.Start(gameA)
	sched.fire(123456)

	if len(gameA.deltas) != 1 || gameA.deltas[0] != 0 {
		t.Errorf("first tick deltas = %v, expected [0]", gameA.deltas)
	}

	// A restarted session sees a fresh zero delta too.
	gameB := &recordGame{name: "b", events: &events}
	loop.Start(gameB)
	sched.fire(999999)
	if len(gameB.deltas) != 1 || gameB.deltas[0] != 0 {
		t.Errorf("restarted session deltas = %v, expected [0]", gameB.deltas)
	}
}

func TestTickOrderUpdateThenInputResetThenRender(t *testing.T) {
	loop, sched, dev, input := newLoopFixture()

	var events []string
	sawJump := false
	game := &recordGame{name: "g", events: &events}
	game.onUpdate = func() {
		// Input set before the tick must still be visible during update.
		sawJump = input.Has(core.ActionJump)
	}

	loop.Start(game)
	input.Set(core.ActionJump)
	sched.fire(1000)

	if !sawJump {
		t.Error("update should observe input accumulated before the tick")
	}
	if input.Has(core.ActionJump) {
		t.Error("input must be reset after update")
	}
	if dev.presents != 1 {
		t.Errorf("presents = %d, expected render after update", dev.presents)
	}
}

func TestReschedulesBeforeTickWork(t *testing.T) {
	loop, sched, _, _ := newLoopFixture()

	var events []string
	game := &recordGame{name: "g", events: &events}
	pendingDuringUpdate := false
	game.onUpdate = func() {
		pendingDuringUpdate = sched.pending != nil
	}

	loop.Start(game)
	sched.fire(1000)

	if !pendingDuringUpdate {
		t.Error("next callback must be armed before the game update runs")
	}
}

func TestPacingSkipKeepsChainAlive(t *testing.T) {
	loop, sched, dev, _ := newLoopFixture()

	var events []string
	game := &recordGame{name: "g", events: &events}
	loop.Start(game)

	sched.fire(1000) // advances
	sched.fire(1001) // throttled

	if len(game.deltas) != 1 {
		t.Errorf("updates = %d, expected throttled tick to skip gameplay", len(game.deltas))
	}
	if dev.presents != 1 {
		t.Errorf("presents = %d, expected throttled tick to skip render", dev.presents)
	}
	if sched.pending == nil {
		t.Error("throttled tick must leave the next callback armed")
	}
}

func TestLostDeviceFreezesWorld(t *testing.T) {
	loop, sched, dev, _ := newLoopFixture()

	var events []string
	game := &recordGame{name: "g", events: &events}
	loop.Start(game)
	sched.fire(1000)

	dev.lose()
	sched.fire(1100)
	sched.fire(1200)

	if len(game.deltas) != 1 {
		t.Errorf("updates while lost = %d, expected frozen world", len(game.deltas)-1)
	}
	if sched.pending == nil {
		t.Error("loss must not stop the callback chain")
	}

	dev.restore()
	sched.fire(1300)
	if len(game.deltas) != 2 {
		t.Error("world should resume after restoration")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	loop, sched, _, _ := newLoopFixture()

	var events []string
	game := &recordGame{name: "g", events: &events}
	loop.Start(game)

	loop.Stop()
	loop.Stop()

	if game.disposed != 1 {
		t.Errorf("disposed %d times, expected 1", game.disposed)
	}
	if loop.Game() != nil {
		t.Error("active game reference should be cleared")
	}

	// Pending callback was cancelled; a stray fire is a no-op.
	sched.fire(5000)
	if len(game.deltas) != 0 {
		t.Error("stopped loop must not tick")
	}
}

func TestResizeDispatch(t *testing.T) {
	loop, _, _, _ := newLoopFixture()

	var events []string
	game := &recordGame{name: "g", events: &events}
	loop.Start(game)

	loop.Resize(100, 40)
	loop.Resize(100, 40)

	if len(game.resizes) != 2 {
		t.Fatalf("resize hook calls = %d, expected 2", len(game.resizes))
	}
	if game.resizes[0] != [2]int{100, 40} {
		t.Errorf("resize hook got %v, expected (100, 40)", game.resizes[0])
	}
}

func TestDisposeIsTerminal(t *testing.T) {
	loop, sched, dev, _ := newLoopFixture()

	var events []string
	game := &recordGame{name: "g", events: &events}
	loop.Start(game)

	loop.Dispose()

	if game.disposed != 1 {
		t.Errorf("disposed %d times, expected 1", game.disposed)
	}
	if !dev.released {
		t.Error("dispose must release the surface device")
	}

	sched.fire(1000)
	loop.Dispose() // idempotent
}
