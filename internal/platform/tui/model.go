package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dkarpov/pattyhop/internal/core"
	"github.com/dkarpov/pattyhop/internal/engine"
	"github.com/dkarpov/pattyhop/internal/registry"
	"github.com/dkarpov/pattyhop/internal/storage"
)

// teaScheduler adapts Bubble Tea's tick messages to the engine's
// continuous callback signal. Schedule arms one callback; the model
// fires it when the next TickMsg arrives.
type teaScheduler struct {
	pending func(tsMs float64)
	seq     int
}

// Schedule arms fn as the next callback, replacing any pending one.
func (s *teaScheduler) Schedule(fn func(tsMs float64)) func() {
	s.pending = fn
	s.seq++
	seq := s.seq
	return func() {
		if s.seq == seq {
			s.pending = nil
		}
	}
}

// fire runs and clears the pending callback, if any. Returns whether a
// new callback was armed during the run.
func (s *teaScheduler) fire(tsMs float64) bool {
	fn := s.pending
	if fn == nil {
		return false
	}
	s.pending = nil
	fn(tsMs)
	return s.pending != nil
}

// runReporter is implemented by games that track per-run details worth
// persisting alongside the score.
type runReporter interface {
	Deliveries() int
	Misses() int
	Falls() int
	Elapsed() float64
}

// GameModel is the Bubble Tea model for running one game session. It
// owns the terminal device, the render surface and the runtime loop.
type GameModel struct {
	loop    *engine.RuntimeLoop
	dev     *engine.TermDevice
	surface *engine.Surface
	input   *core.InputState
	sched   *teaScheduler
	store   *storage.Store
	game    registry.Game
	keys    *KeyMapper
	cfg     core.RuntimeConfig

	quitting   bool
	backToMenu bool
	scoreSaved bool
}

// NewGameModel builds the device/surface/loop stack and instantiates
// the requested game.
func NewGameModel(gameID string, store *storage.Store, cfg core.RuntimeConfig, render engine.RenderConfig) (GameModel, error) {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	dev := engine.NewTermDevice(RenderScreen)
	surface := engine.New(dev, render, nil)
	surface.Resize(cfg.ScreenW, cfg.ScreenH)

	input := core.NewInputState()
	sched := &teaScheduler{}
	loop := engine.NewRuntimeLoop(surface, input, sched, nil)

	game, err := registry.Create(gameID, registry.Env{
		Surface: surface,
		Input:   input,
		Runtime: cfg,
	})
	if err != nil {
		loop.Dispose()
		return GameModel{}, err
	}

	return GameModel{
		loop:    loop,
		dev:     dev,
		surface: surface,
		input:   input,
		sched:   sched,
		store:   store,
		game:    game,
		keys:    NewKeyMapper(),
		cfg:     cfg,
	}, nil
}

// Init starts the session and arms the tick loop.
func (m GameModel) Init() tea.Cmd {
	m.loop.Start(m.game)
	return tickCmd()
}

// Update handles messages.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.cfg.ScreenW = msg.Width
		m.cfg.ScreenH = msg.Height
		// Resizes apply immediately, independent of the tick cadence.
		m.loop.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		return m.handleTick(time.Time(msg))

	case tea.SuspendMsg:
		// The tty is going away: the display context is lost.
		m.dev.Suspend()
		return m, nil

	case tea.ResumeMsg:
		// The tty is back with its state reset; the surface reapplies
		// its configuration via the restore listener.
		m.dev.Resume()
		return m, tickCmd()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+z" {
		return m, tea.Suspend
	}

	if m.keys.MapKeyToState(msg, m.input) {
		m.quitting = true
		m.loop.Dispose()
		return m, tea.Quit
	}

	// Back to menu from the pause or game over screen.
	state := m.game.State()
	if m.input.Has(core.ActionMenu) && (state.GameOver || state.Paused) {
		m.backToMenu = true
		m.loop.Dispose()
	}

	return m, nil
}

// handleTick fires the pending engine callback with the message's
// timestamp and persists the score once per game over.
func (m GameModel) handleTick(t time.Time) (tea.Model, tea.Cmd) {
	if m.quitting || m.backToMenu {
		return m, nil
	}

	tsMs := float64(t.UnixNano()) / 1e6
	rearmed := m.sched.fire(tsMs)

	state := m.game.State()
	if state.GameOver && !m.scoreSaved && state.Score > 0 {
		m.saveScore(state.Score)
		m.scoreSaved = true
	}
	if !state.GameOver {
		m.scoreSaved = false
	}

	if !rearmed {
		return m, nil
	}
	return m, tickCmd()
}

// saveScore persists the score and, when the game reports run details,
// the full run record. Best-effort; failures never interrupt play.
func (m GameModel) saveScore(score int) {
	if m.store == nil {
		return
	}
	//nolint:errcheck // Best-effort save, game continues regardless
	m.store.SaveScore(m.game.ID(), score)

	if r, ok := m.game.(runReporter); ok {
		//nolint:errcheck // Best-effort save
		m.store.SaveRun(storage.RunRecord{
			GameID:       m.game.ID(),
			Score:        score,
			Deliveries:   r.Deliveries(),
			MissedOrders: r.Misses(),
			Falls:        r.Falls(),
			Duration:     int(r.Elapsed()),
		})
	}
}

// View renders the most recently presented frame.
func (m GameModel) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}
	return m.dev.Output()
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Config returns the current runtime config (may have been updated by resize).
func (m GameModel) Config() core.RuntimeConfig {
	return m.cfg
}

// Run starts a Bubble Tea program for a single game session.
func Run(gameID string, store *storage.Store, cfg core.RuntimeConfig, render engine.RenderConfig) error {
	model, err := NewGameModel(gameID, store, cfg, render)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err = p.Run()
	return err
}
