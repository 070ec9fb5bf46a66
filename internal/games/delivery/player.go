package delivery

import (
	"github.com/dkarpov/pattyhop/internal/config"
	"github.com/dkarpov/pattyhop/internal/core"
)

// Player is the courier. Pos is the feet position; the collision box
// extends upward from it.
type Player struct {
	Pos      core.Vec3
	Vel      core.Vec3
	Grounded bool

	// Carried is the ingredient stack, bottom first.
	Carried []IngredientKind

	width, height, depth float64
}

// NewPlayer creates a player standing at the spawn point.
func NewPlayer(spawn core.Vec3, cfg config.DeliveryPlayer) *Player {
	return &Player{
		Pos:    spawn,
		width:  cfg.Width,
		height: cfg.Height,
		depth:  cfg.Depth,
	}
}

// Volume returns the player's current collision box.
func (p *Player) Volume() core.BoundsVolume {
	center := p.Pos.Add(core.NewVec3(0, p.height/2, 0))
	return core.NewBoundsVolume(center, core.NewVec3(p.width, p.height, p.depth))
}

// Center returns the middle of the player's body, used for range checks.
func (p *Player) Center() core.Vec3 {
	return p.Pos.Add(core.NewVec3(0, p.height/2, 0))
}

// Step advances player physics by delta seconds against the world.
func (p *Player) Step(delta float64, in *core.InputState, phys config.DeliveryPhysics, world *World) {
	// Movement intent on the ground plane.
	var dirX, dirZ float64
	if in.Has(core.ActionForward) {
		dirZ += 1
	}
	if in.Has(core.ActionBack) {
		dirZ -= 1
	}
	if in.Has(core.ActionLeft) {
		dirX -= 1
	}
	if in.Has(core.ActionRight) {
		dirX += 1
	}
	if dirX != 0 && dirZ != 0 {
		// Normalize diagonal movement.
		n := core.NewVec3(dirX, 0, dirZ).Normalize()
		dirX, dirZ = n.X, n.Z
	}

	targetX := dirX * phys.MoveSpeed
	targetZ := dirZ * phys.MoveSpeed

	// Full steering on the ground, reduced while airborne.
	control := 1.0
	if !p.Grounded {
		control = phys.AirControl
	}
	blend := core.ClampF(control*12*delta, 0, 1)
	p.Vel.X += (targetX - p.Vel.X) * blend
	p.Vel.Z += (targetZ - p.Vel.Z) * blend

	if p.Grounded && in.Has(core.ActionJump) {
		p.Vel.Y = phys.JumpImpulse
		p.Grounded = false
	}

	p.Vel.Y -= phys.Gravity * delta
	if p.Vel.Y < -phys.MaxFallSpeed {
		p.Vel.Y = -phys.MaxFallSpeed
	}

	p.Pos = p.Pos.Add(p.Vel.Scale(delta))

	p.resolveCollisions(world)
}

// resolveCollisions pushes the player out of any platform it sank into
// and updates grounded state.
func (p *Player) resolveCollisions(world *World) {
	p.Grounded = false

	reach := p.height + p.width
	volumes := world.NearbyVolumes(p.Center(), reach)

	for _, v := range volumes {
		correction, hit := v.ResolvePenetration(p.Volume())
		if !hit {
			continue
		}
		p.Pos = p.Pos.Add(correction)

		// Kill velocity along the axis that was blocked.
		switch {
		case correction.Y > 0:
			p.Grounded = true
			if p.Vel.Y < 0 {
				p.Vel.Y = 0
			}
		case correction.Y < 0:
			if p.Vel.Y > 0 {
				p.Vel.Y = 0
			}
		case correction.X != 0:
			p.Vel.X = 0
		case correction.Z != 0:
			p.Vel.Z = 0
		}
	}
}

// Respawn returns the player to the spawn point and drops the carried
// stack.
func (p *Player) Respawn(spawn core.Vec3) {
	p.Pos = spawn
	p.Vel = core.Vec3{}
	p.Grounded = false
	p.Carried = p.Carried[:0]
}
