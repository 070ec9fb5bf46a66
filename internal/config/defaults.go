package config

import (
	_ "embed"
)

//go:embed defaults/delivery.yaml
var defaultDeliveryYAML []byte

// DefaultDeliveryConfig returns the default delivery game configuration.
func DefaultDeliveryConfig() DeliveryConfig {
	return DeliveryConfig{
		Physics: DeliveryPhysics{
			Gravity:      22.0,
			JumpImpulse:  9.5,
			MaxFallSpeed: 24.0,
			MoveSpeed:    6.5,
			AirControl:   0.6,
		},
		Player: DeliveryPlayer{
			Width:       0.8,
			Height:      1.7,
			Depth:       0.8,
			PickupRange: 2.5,
		},
		World: DeliveryWorld{
			PlatformCount:     14,
			Spread:            22.0,
			MinHeight:         0.0,
			MaxHeight:         6.0,
			PlatformSizeMin:   3.0,
			PlatformSizeMax:   6.0,
			PlatformThickness: 1.0,
			KillDepth:         -12.0,
		},
		Orders: DeliveryOrders{
			MinLength:       2,
			MaxLength:       5,
			DeadlineSeconds: 45,
			RespawnSeconds:  6.0,
			CustomerRange:   2.5,
			MissesAllowed:   3,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 400,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier:   1.0,
				DeadlineReduction: 20,
			},
		},
	}
}

// GetDefaultYAML returns the embedded default YAML for a game mode.
func GetDefaultYAML(gameID string) []byte {
	switch gameID {
	case "delivery", "delivery_endless":
		return defaultDeliveryYAML
	default:
		return nil
	}
}
