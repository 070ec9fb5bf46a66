package config

// DifficultyManager calculates dynamic game parameters based on
// score or elapsed play time.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: cfg.InitialLevel,
	}
}

// SetInitialLevel overrides the initial difficulty level (0.0 to 1.0).
func (d *DifficultyManager) SetInitialLevel(level float64) {
	d.initialLevel = clampF(level, 0.0, 1.0)
}

// SetEnabled enables or disables difficulty progression.
func (d *DifficultyManager) SetEnabled(enabled bool) {
	d.cfg.Enabled = enabled
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type != "none"
}

// Level returns the current difficulty level (0.0 to 1.0) based on the
// score and seconds played.
func (d *DifficultyManager) Level(score int, elapsedSeconds float64) float64 {
	if !d.cfg.Enabled || d.cfg.Progression.Type == "none" {
		return d.initialLevel
	}

	maxAt := d.cfg.Progression.MaxAt
	if maxAt <= 0 {
		maxAt = 1 // Prevent division by zero
	}

	var progress float64
	switch d.cfg.Progression.Type {
	case "score":
		progress = float64(score) / maxAt
	case "time":
		progress = elapsedSeconds / maxAt
	default:
		return d.initialLevel
	}

	progress = clampF(progress, 0.0, 1.0)

	// Interpolate from initial level to 1.0
	return d.initialLevel + progress*(1.0-d.initialLevel)
}

// OrderWeight returns a bias toward longer orders as difficulty rises.
// 0.0 keeps order lengths at the configured minimum distribution; 1.0
// weights them fully toward the maximum.
func (d *DifficultyManager) OrderWeight(score int, elapsedSeconds float64) float64 {
	level := d.Level(score, elapsedSeconds)
	return clampF(level*d.cfg.Scaling.SpeedMultiplier, 0.0, 1.0)
}

// Deadline returns the current order deadline in seconds.
func (d *DifficultyManager) Deadline(base float64, score int, elapsedSeconds float64) float64 {
	level := d.Level(score, elapsedSeconds)
	result := base - level*d.cfg.Scaling.DeadlineReduction
	if result < 10 { // Minimum playable deadline
		result = 10
	}
	return result
}

func clampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
