package delivery

import (
	"math/rand"
	"testing"

	"github.com/dkarpov/pattyhop/internal/config"
	"github.com/dkarpov/pattyhop/internal/core"
	"github.com/dkarpov/pattyhop/internal/engine"
	"github.com/dkarpov/pattyhop/internal/registry"
)

func newTestGame(endless bool) *Game {
	dev := engine.NewTermDevice(nil)
	surface := engine.New(dev, engine.RenderConfig{}, nil)
	env := registry.Env{
		Surface: surface,
		Input:   core.NewInputState(),
		Runtime: core.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 7},
	}
	if endless {
		return NewEndless(env)
	}
	return New(env)
}

func TestWorldGenerationDeterministic(t *testing.T) {
	cfg := config.DefaultDeliveryConfig().World

	w1 := GenerateWorld(cfg, 42)
	w2 := GenerateWorld(cfg, 42)

	if len(w1.Platforms) != cfg.PlatformCount {
		t.Fatalf("Expected %d platforms, got %d", cfg.PlatformCount, len(w1.Platforms))
	}
	if len(w1.Platforms) != len(w2.Platforms) {
		t.Fatalf("Same seed produced different platform counts: %d vs %d",
			len(w1.Platforms), len(w2.Platforms))
	}
	for i := range w1.Platforms {
		if w1.Platforms[i].Volume != w2.Platforms[i].Volume {
			t.Errorf("Platform %d differs between identical seeds", i)
		}
	}

	// Start platform surface is the spawn point.
	if w1.Platforms[0].Top() != cfg.MinHeight {
		t.Errorf("Start platform top = %v, expected %v", w1.Platforms[0].Top(), cfg.MinHeight)
	}
	if w1.Spawn.Y != cfg.MinHeight {
		t.Errorf("Spawn height = %v, expected %v", w1.Spawn.Y, cfg.MinHeight)
	}
}

func TestWorldPlatformsDoNotOverlap(t *testing.T) {
	cfg := config.DefaultDeliveryConfig().World
	w := GenerateWorld(cfg, 3)

	for i := 0; i < len(w.Platforms); i++ {
		for j := i + 1; j < len(w.Platforms); j++ {
			if w.Platforms[i].Volume.Overlaps(w.Platforms[j].Volume) {
				t.Errorf("Platforms %d and %d overlap", i, j)
			}
		}
	}
}

func TestPlayerLandsOnPlatform(t *testing.T) {
	cfg := config.DefaultDeliveryConfig()
	world := GenerateWorld(cfg.World, 1)

	// Drop the player from above the start platform.
	p := NewPlayer(world.Spawn.Add(core.NewVec3(0, 3, 0)), cfg.Player)
	in := core.NewInputState()

	for i := 0; i < 120; i++ {
		p.Step(1.0/60, in, cfg.Physics, world)
	}

	if !p.Grounded {
		t.Fatal("Player should be grounded after falling onto the start platform")
	}
	if diff := p.Pos.Y - world.Spawn.Y; diff < -0.01 || diff > 0.1 {
		t.Errorf("Player feet at %v, expected platform surface %v", p.Pos.Y, world.Spawn.Y)
	}
}

func TestPlayerJumpAndReturn(t *testing.T) {
	cfg := config.DefaultDeliveryConfig()
	world := GenerateWorld(cfg.World, 1)

	p := NewPlayer(world.Spawn, cfg.Player)
	in := core.NewInputState()

	// Settle onto the platform first.
	for i := 0; i < 30; i++ {
		p.Step(1.0/60, in, cfg.Physics, world)
	}
	if !p.Grounded {
		t.Fatal("Player should be grounded before jumping")
	}

	in.Set(core.ActionJump)
	p.Step(1.0/60, in, cfg.Physics, world)
	in.ResetDeltas()

	if p.Grounded {
		t.Error("Player should be airborne right after jumping")
	}
	if p.Vel.Y <= 0 {
		t.Errorf("Jump velocity = %v, expected positive", p.Vel.Y)
	}

	// Gravity brings the player back down.
	for i := 0; i < 180; i++ {
		p.Step(1.0/60, in, cfg.Physics, world)
	}
	if !p.Grounded {
		t.Error("Player should land back on the platform")
	}
}

func TestPickupCollection(t *testing.T) {
	cfg := config.DefaultDeliveryConfig()
	world := GenerateWorld(cfg.World, 5)
	diff := config.NewDifficultyManager(cfg.Difficulty)
	rng := rand.New(rand.NewSource(5))

	book := NewOrderBook(cfg.Orders, cfg.Player.PickupRange, diff, world, rng)

	needed, ok := book.NextNeeded(nil)
	if !ok {
		t.Fatal("Fresh order should need an ingredient")
	}
	if needed != IngredientBun {
		t.Errorf("Orders start with a bun, got %v", needed)
	}

	// Find the needed pickup and stand on it.
	var target *Pickup
	for _, p := range book.Pickups {
		if p.Kind == needed {
			target = p
		}
	}
	if target == nil {
		t.Fatal("No pickup for the needed ingredient")
	}

	kind, collected := book.TryCollect(target.Pos, nil)
	if !collected {
		t.Fatal("Collection within range should succeed")
	}
	if kind != needed {
		t.Errorf("Collected %v, expected %v", kind, needed)
	}
	if target.Active {
		t.Error("Collected pickup should be inactive until respawn")
	}

	// The wrong ingredient is refused even when standing on it.
	carried := []IngredientKind{kind}
	next, _ := book.NextNeeded(carried)
	var nextPickup *Pickup
	for _, p := range book.Pickups {
		if p.Kind == next {
			nextPickup = p
		}
	}
	for _, p := range book.Pickups {
		if p.Kind == next || !p.Active {
			continue
		}
		// Skip spots that happen to be in reach of the needed pickup.
		if nextPickup.Zone.WithinRange(p.Pos) {
			continue
		}
		if _, ok := book.TryCollect(p.Pos, carried); ok {
			t.Errorf("Collected %v while the order needs %v", p.Kind, next)
		}
	}
}

func TestPickupRespawns(t *testing.T) {
	cfg := config.DefaultDeliveryConfig()
	world := GenerateWorld(cfg.World, 5)
	diff := config.NewDifficultyManager(cfg.Difficulty)
	rng := rand.New(rand.NewSource(5))

	book := NewOrderBook(cfg.Orders, cfg.Player.PickupRange, diff, world, rng)

	target := book.Pickups[0]
	if _, ok := book.TryCollect(target.Pos, nil); !ok {
		t.Fatal("Collection should succeed")
	}

	// Tick past the respawn window.
	book.Update(cfg.Orders.RespawnSeconds + 0.1)

	if !target.Active {
		t.Error("Pickup should respawn after the respawn delay")
	}
}

func TestDeliveryScoring(t *testing.T) {
	cfg := config.DefaultDeliveryConfig()
	world := GenerateWorld(cfg.World, 5)
	diff := config.NewDifficultyManager(cfg.Difficulty)
	rng := rand.New(rand.NewSource(5))

	book := NewOrderBook(cfg.Orders, cfg.Player.PickupRange, diff, world, rng)

	carried := append([]IngredientKind(nil), book.Current.Items...)

	// Out of range: refused.
	far := book.Customer.Pos.Add(core.NewVec3(100, 0, 0))
	if _, ok := book.TryDeliver(far, carried); ok {
		t.Error("Delivery far from the customer should be refused")
	}

	// Incomplete stack: refused.
	if _, ok := book.TryDeliver(book.Customer.Pos, carried[:1]); ok {
		t.Error("Incomplete stack should be refused")
	}

	// Wrong stack of the right length: refused.
	wrong := append([]IngredientKind(nil), carried...)
	wrong[1] = (wrong[1]+1)%(ingredientCount-1) + 1
	if _, ok := book.TryDeliver(book.Customer.Pos, wrong); ok {
		t.Error("Wrong stack should be refused")
	}

	// Correct stack in range: accepted with at least the base points.
	points, ok := book.TryDeliver(book.Customer.Pos, carried)
	if !ok {
		t.Fatal("Matching delivery in range should be accepted")
	}
	base := 20 * len(book.Current.Items)
	if points < base {
		t.Errorf("Points = %d, expected at least base %d", points, base)
	}
}

func TestOrderDeadlineExpires(t *testing.T) {
	cfg := config.DefaultDeliveryConfig()
	world := GenerateWorld(cfg.World, 5)
	diff := config.NewDifficultyManager(cfg.Difficulty)
	rng := rand.New(rand.NewSource(5))

	book := NewOrderBook(cfg.Orders, cfg.Player.PickupRange, diff, world, rng)

	if expired := book.Update(0.016); expired {
		t.Error("Fresh order should not expire immediately")
	}
	if expired := book.Update(book.Current.Deadline + 1); !expired {
		t.Error("Order should expire once the deadline elapses")
	}
}

func TestTimedModeEndsAfterMisses(t *testing.T) {
	g := newTestGame(false)

	allowed := g.cfg.Orders.MissesAllowed
	for i := 0; i < allowed; i++ {
		g.orders.Current.Deadline = 0.001
		g.Update(0.016)
		g.env.Input.ResetDeltas()
	}

	if !g.State().GameOver {
		t.Errorf("Timed mode should end after %d misses, got %d misses and no game over",
			allowed, g.misses)
	}
}

func TestEndlessModeSurvivesMisses(t *testing.T) {
	g := newTestGame(true)

	for i := 0; i < 10; i++ {
		g.orders.Current.Deadline = 0.001
		g.Update(0.016)
		g.env.Input.ResetDeltas()
	}

	if g.State().GameOver {
		t.Error("Endless mode should never end on missed orders")
	}
	if g.Misses() != 10 {
		t.Errorf("Misses = %d, expected 10", g.Misses())
	}
}

func TestFallRespawnDropsStack(t *testing.T) {
	g := newTestGame(false)

	g.player.Carried = append(g.player.Carried, IngredientBun, IngredientPatty)
	g.player.Pos = core.NewVec3(0, g.world.KillDepth-50, 0)

	g.Update(0.016)

	if g.Falls() != 1 {
		t.Errorf("Falls = %d, expected 1", g.Falls())
	}
	if g.player.Pos != g.world.Spawn {
		t.Errorf("Player at %v after fall, expected spawn %v", g.player.Pos, g.world.Spawn)
	}
	if len(g.player.Carried) != 0 {
		t.Error("Carried stack should be dropped on a void fall")
	}
}

func TestPauseFreezesClock(t *testing.T) {
	g := newTestGame(false)

	g.env.Input.Set(core.ActionPause)
	g.Update(0.016)
	g.env.Input.ResetDeltas()

	if !g.State().Paused {
		t.Fatal("Game should be paused after the pause action")
	}

	before := g.Elapsed()
	deadline := g.orders.Current.Deadline
	g.Update(1.0)
	if g.Elapsed() != before {
		t.Error("Elapsed time should not advance while paused")
	}
	if g.orders.Current.Deadline != deadline {
		t.Error("Order deadline should not tick while paused")
	}

	// Unpause resumes the clock.
	g.env.Input.Set(core.ActionPause)
	g.Update(0.016)
	g.env.Input.ResetDeltas()
	if g.State().Paused {
		t.Error("Second pause action should unpause")
	}
}

func TestRestartResetsRun(t *testing.T) {
	g := newTestGame(false)

	g.score = 150
	g.deliveries = 3
	g.gameOver = true

	g.env.Input.Set(core.ActionRestart)
	g.Update(0.016)
	g.env.Input.ResetDeltas()

	if g.State().GameOver {
		t.Error("Restart should clear game over")
	}
	if g.State().Score != 0 {
		t.Errorf("Score = %d after restart, expected 0", g.State().Score)
	}
	if g.Deliveries() != 0 {
		t.Errorf("Deliveries = %d after restart, expected 0", g.Deliveries())
	}
}

func TestGameIdentity(t *testing.T) {
	timed := newTestGame(false)
	endless := newTestGame(true)

	if timed.ID() != "delivery" {
		t.Errorf("ID() = %q, expected %q", timed.ID(), "delivery")
	}
	if endless.ID() != "delivery_endless" {
		t.Errorf("ID() = %q, expected %q", endless.ID(), "delivery_endless")
	}
	if timed.Title() == endless.Title() {
		t.Error("Timed and endless titles should differ")
	}
}

func TestDisposeDetachesNodes(t *testing.T) {
	g := newTestGame(false)
	scene := g.env.Surface.Scene()

	if scene.Len() == 0 {
		t.Fatal("Game should populate the scene")
	}

	g.Dispose()
	if scene.Len() != 0 {
		t.Errorf("Scene has %d nodes after dispose, expected 0", scene.Len())
	}
}
