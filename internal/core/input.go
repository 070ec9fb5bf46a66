package core

// Action represents a semantic game action, abstracted from physical key
// presses. This allows gameplay code to work with high-level intents
// rather than raw input.
type Action int

const (
	ActionNone    Action = iota
	ActionForward        // W, Up arrow - move away from the camera
	ActionBack           // S, Down arrow - move toward the camera
	ActionLeft           // A, Left arrow - strafe left
	ActionRight          // D, Right arrow - strafe right
	ActionJump           // Space - jump
	ActionGrab           // E, Enter - pick up ingredient / deliver stack
	ActionConfirm        // Enter - confirm selection in menu
	ActionMenu           // B, Escape - go back to menu
	ActionRestart        // R key - restart game after game over
	ActionQuit           // Q, Ctrl+C - exit game/session
	ActionPause          // P - pause/unpause game
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionForward:
		return "Forward"
	case ActionBack:
		return "Back"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionJump:
		return "Jump"
	case ActionGrab:
		return "Grab"
	case ActionConfirm:
		return "Confirm"
	case ActionMenu:
		return "Menu"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	case ActionPause:
		return "Pause"
	default:
		return "Unknown"
	}
}

// InputState accumulates input between ticks: actions triggered since the
// previous tick plus pointer drag deltas. The runtime loop resets it once
// per tick after the update dispatch, so each tick observes only input
// that arrived since the last one.
type InputState struct {
	actions map[Action]bool

	// DragDX and DragDY accumulate pointer movement since the last tick,
	// in cells. Consumed by camera orbit controls.
	DragDX, DragDY float64
}

// NewInputState creates an empty input state.
func NewInputState() *InputState {
	return &InputState{
		actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered since the last tick.
func (s *InputState) Set(a Action) {
	if s.actions == nil {
		s.actions = make(map[Action]bool)
	}
	s.actions[a] = true
}

// Has returns true if the given action was triggered since the last tick.
func (s *InputState) Has(a Action) bool {
	if s.actions == nil {
		return false
	}
	return s.actions[a]
}

// AddDrag accumulates pointer drag movement.
func (s *InputState) AddDrag(dx, dy float64) {
	s.DragDX += dx
	s.DragDY += dy
}

// ResetDeltas clears all per-tick state: triggered actions and drag
// deltas. Called exactly once per tick, after the game update.
func (s *InputState) ResetDeltas() {
	for k := range s.actions {
		delete(s.actions, k)
	}
	s.DragDX = 0
	s.DragDY = 0
}
