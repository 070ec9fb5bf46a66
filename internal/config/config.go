// Package config provides YAML-based game configuration loading and
// difficulty management for Patty Hop.
package config

// DeliveryConfig contains all configuration for the burger delivery game.
type DeliveryConfig struct {
	Physics    DeliveryPhysics  `yaml:"physics"`
	Player     DeliveryPlayer   `yaml:"player"`
	World      DeliveryWorld    `yaml:"world"`
	Orders     DeliveryOrders   `yaml:"orders"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// DeliveryPhysics defines movement parameters, in world units and seconds.
type DeliveryPhysics struct {
	Gravity      float64 `yaml:"gravity"`
	JumpImpulse  float64 `yaml:"jump_impulse"`
	MaxFallSpeed float64 `yaml:"max_fall_speed"`
	MoveSpeed    float64 `yaml:"move_speed"`
	AirControl   float64 `yaml:"air_control"`
}

// DeliveryPlayer defines the player's collision box and reach.
type DeliveryPlayer struct {
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
	Depth       float64 `yaml:"depth"`
	PickupRange float64 `yaml:"pickup_range"`
}

// DeliveryWorld defines the floating platform field.
type DeliveryWorld struct {
	PlatformCount     int     `yaml:"platform_count"`
	Spread            float64 `yaml:"spread"`
	MinHeight         float64 `yaml:"min_height"`
	MaxHeight         float64 `yaml:"max_height"`
	PlatformSizeMin   float64 `yaml:"platform_size_min"`
	PlatformSizeMax   float64 `yaml:"platform_size_max"`
	PlatformThickness float64 `yaml:"platform_thickness"`
	KillDepth         float64 `yaml:"kill_depth"`
}

// DeliveryOrders defines order generation and timing.
type DeliveryOrders struct {
	MinLength       int     `yaml:"min_length"`
	MaxLength       int     `yaml:"max_length"`
	DeadlineSeconds float64 `yaml:"deadline_seconds"`
	RespawnSeconds  float64 `yaml:"respawn_seconds"`
	CustomerRange   float64 `yaml:"customer_range"`
	MissesAllowed   int     `yaml:"misses_allowed"`
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string  `yaml:"type"`   // "score", "time", or "none"
	MaxAt float64 `yaml:"max_at"` // Score/seconds at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier   float64 `yaml:"speed_multiplier"`   // Order-length weight added at max difficulty
	DeadlineReduction float64 `yaml:"deadline_reduction"` // Seconds removed from deadlines at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}
