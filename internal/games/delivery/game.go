// Package delivery implements the burger courier game: hop across
// floating platforms, collect the ingredients an order calls for, and
// deliver the finished stack to the customer before the clock runs out.
package delivery

import (
	"math/rand"

	"github.com/dkarpov/pattyhop/internal/config"
	"github.com/dkarpov/pattyhop/internal/core"
	"github.com/dkarpov/pattyhop/internal/engine"
	"github.com/dkarpov/pattyhop/internal/registry"
)

// Mode represents the game mode.
type Mode int

const (
	ModeTimed   Mode = iota // Limited misses, race the deadlines
	ModeEndless             // Play forever, score until you quit
)

// Minimum viewport for playable rendering.
const (
	minScreenW = 40
	minScreenH = 12
)

// configPath stores the custom config path set via CLI
var configPath string

// difficultyPreset stores the difficulty preset set via CLI
var difficultyPreset config.DifficultyPreset

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset.
func SetDifficultyPreset(preset string) {
	switch preset {
	case "easy":
		difficultyPreset = config.DifficultyEasy
	case "normal":
		difficultyPreset = config.DifficultyNormal
	case "hard":
		difficultyPreset = config.DifficultyHard
	case "fixed":
		difficultyPreset = config.DifficultyFixed
	default:
		difficultyPreset = ""
	}
}

func init() {
	registry.Register("delivery", "Patty Hop", func(env registry.Env) registry.Game {
		return New(env)
	})
	registry.Register("delivery_endless", "Patty Hop (Endless)", func(env registry.Env) registry.Game {
		return NewEndless(env)
	})
}

// Game implements the burger delivery game logic.
type Game struct {
	mode Mode
	env  registry.Env

	cfg        config.DeliveryConfig
	difficulty *config.DifficultyManager
	rng        *rand.Rand

	world  *World
	player *Player
	orders *OrderBook

	score      int
	deliveries int
	misses     int
	falls      int
	elapsed    float64

	paused         bool
	gameOver       bool
	screenTooSmall bool

	nodes []engine.Drawable
}

// New creates a delivery game in timed mode.
func New(env registry.Env) *Game {
	g := &Game{mode: ModeTimed, env: env}
	g.reset()
	return g
}

// NewEndless creates a delivery game in endless mode.
func NewEndless(env registry.Env) *Game {
	g := &Game{mode: ModeEndless, env: env}
	g.reset()
	return g
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	if g.mode == ModeEndless {
		return "delivery_endless"
	}
	return "delivery"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	if g.mode == ModeEndless {
		return "Patty Hop (Endless)"
	}
	return "Patty Hop"
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.score,
		GameOver: g.gameOver,
		Paused:   g.paused,
	}
}

// Deliveries returns the number of completed orders this run.
func (g *Game) Deliveries() int { return g.deliveries }

// Misses returns the number of expired orders this run.
func (g *Game) Misses() int { return g.misses }

// Falls returns the number of void falls this run.
func (g *Game) Falls() int { return g.falls }

// Elapsed returns seconds of active play this run.
func (g *Game) Elapsed() float64 { return g.elapsed }

// reset initializes or restarts the game.
func (g *Game) reset() {
	cfg, err := config.LoadDelivery(configPath)
	if err != nil {
		cfg = config.DefaultDeliveryConfig()
	}
	if difficultyPreset != "" {
		config.ApplyDeliveryPreset(&cfg, difficultyPreset)
	}
	g.cfg = cfg

	g.difficulty = config.NewDifficultyManager(cfg.Difficulty)
	g.rng = rand.New(rand.NewSource(g.env.Runtime.Seed))

	g.world = GenerateWorld(cfg.World, g.env.Runtime.Seed)
	g.player = NewPlayer(g.world.Spawn, cfg.Player)
	g.orders = NewOrderBook(cfg.Orders, cfg.Player.PickupRange, g.difficulty, g.world, g.rng)

	g.score = 0
	g.deliveries = 0
	g.misses = 0
	g.falls = 0
	g.elapsed = 0
	g.paused = false
	g.gameOver = false

	w, h := g.env.Surface.Viewport()
	g.screenTooSmall = w < minScreenW || h < minScreenH

	g.buildScene()
	g.updateCamera()
}

// buildScene replaces the game's scene nodes. World geometry draws
// first, entities over it, HUD last.
func (g *Game) buildScene() {
	scene := g.env.Surface.Scene()
	for _, n := range g.nodes {
		scene.Remove(n)
	}
	g.nodes = nil

	customer := &entityNode{
		world: g.world,
		pos:   func() core.Vec3 { return g.orders.Customer.Pos.Add(core.NewVec3(0, 0.8, 0)) },
		glyph: func() rune { return CustomerChar },
		color: func() core.Color { return core.ColorBrightMagenta },
	}

	g.nodes = []engine.Drawable{
		&worldNode{world: g.world},
		&pickupsNode{world: g.world, book: g.orders},
		customer,
		&playerNode{world: g.world, player: g.player},
		&hudNode{game: g},
	}
	for _, n := range g.nodes {
		scene.Add(n)
	}
}

// Update advances the game by delta seconds.
func (g *Game) Update(delta float64) {
	in := g.env.Input

	if in.Has(core.ActionRestart) && g.gameOver {
		g.reset()
		return
	}

	if in.Has(core.ActionPause) && !g.gameOver {
		g.paused = !g.paused
	}

	if g.paused || g.gameOver || g.screenTooSmall {
		return
	}

	g.elapsed += delta

	g.player.Step(delta, in, g.cfg.Physics, g.world)

	// Fell into the void: respawn and drop the stack.
	if g.player.Pos.Y < g.world.KillDepth {
		g.falls++
		g.player.Respawn(g.world.Spawn)
	}

	if in.Has(core.ActionGrab) {
		g.handleGrab()
	}

	if expired := g.orders.Update(delta); expired {
		g.missOrder()
	}

	g.updateCamera()
}

// handleGrab delivers a complete stack when in range of the customer,
// otherwise tries to collect the next needed ingredient.
func (g *Game) handleGrab() {
	at := g.player.Center()

	if points, ok := g.orders.TryDeliver(at, g.player.Carried); ok {
		g.score += points
		g.deliveries++
		g.player.Carried = g.player.Carried[:0]
		g.orders.NextOrder(g.score, g.elapsed)
		return
	}

	if k, ok := g.orders.TryCollect(at, g.player.Carried); ok {
		g.player.Carried = append(g.player.Carried, k)
	}
}

// missOrder handles an expired deadline: the customer leaves, the
// carried stack is wasted, and in timed mode the run may end.
func (g *Game) missOrder() {
	g.misses++
	g.player.Carried = g.player.Carried[:0]
	g.orders.NextOrder(g.score, g.elapsed)

	if g.mode == ModeTimed && g.misses >= g.cfg.Orders.MissesAllowed {
		g.gameOver = true
	}
}

// updateCamera keeps the chase camera behind and above the player.
func (g *Game) updateCamera() {
	cam := g.env.Surface.Camera()
	eye := g.player.Pos.Add(core.NewVec3(0, 7, -13))
	target := g.player.Pos.Add(core.NewVec3(0, 1, 2))
	cam.LookAt(eye, target)
}

// OnResize re-evaluates whether the viewport is playable.
func (g *Game) OnResize(w, h int) {
	g.screenTooSmall = w < minScreenW || h < minScreenH
}

// Dispose detaches the game's nodes from the scene.
func (g *Game) Dispose() {
	scene := g.env.Surface.Scene()
	for _, n := range g.nodes {
		scene.Remove(n)
	}
	g.nodes = nil
}
