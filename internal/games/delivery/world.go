package delivery

import (
	"math/rand"

	"github.com/dkarpov/pattyhop/internal/config"
	"github.com/dkarpov/pattyhop/internal/core"
)

// Platform colors cycled during generation.
var platformColors = []core.Color{
	core.ColorGreen,
	core.ColorCyan,
	core.ColorMagenta,
	core.ColorBrightGreen,
	core.ColorBrightCyan,
}

// Platform is a floating slab the player can stand on.
type Platform struct {
	Volume core.BoundsVolume
	Color  core.Color
}

// Top returns the Y coordinate of the platform's walkable surface.
func (p Platform) Top() float64 {
	return p.Volume.Max.Y
}

// World holds the generated platform field.
type World struct {
	Platforms []Platform
	KillDepth float64
	Spawn     core.Vec3 // Player spawn point (on the start platform)
}

// GenerateWorld builds a deterministic platform field from a seed.
// The first platform always sits at the origin so the spawn point is
// stable across configurations.
func GenerateWorld(cfg config.DeliveryWorld, seed int64) *World {
	rng := rand.New(rand.NewSource(seed))

	w := &World{
		Platforms: make([]Platform, 0, cfg.PlatformCount),
		KillDepth: cfg.KillDepth,
	}

	// Start platform: generous size, top surface at min height.
	startSize := core.NewVec3(cfg.PlatformSizeMax, cfg.PlatformThickness, cfg.PlatformSizeMax)
	startCenter := core.NewVec3(0, cfg.MinHeight-cfg.PlatformThickness/2, 0)
	w.Platforms = append(w.Platforms, Platform{
		Volume: core.NewBoundsVolume(startCenter, startSize),
		Color:  platformColors[0],
	})
	w.Spawn = core.NewVec3(0, cfg.MinHeight, 0)

	// Scatter the rest, rejecting overlaps with already placed slabs.
	for len(w.Platforms) < cfg.PlatformCount {
		size := core.NewVec3(
			randRange(rng, cfg.PlatformSizeMin, cfg.PlatformSizeMax),
			cfg.PlatformThickness,
			randRange(rng, cfg.PlatformSizeMin, cfg.PlatformSizeMax),
		)
		top := randRange(rng, cfg.MinHeight, cfg.MaxHeight)
		center := core.NewVec3(
			randRange(rng, -cfg.Spread, cfg.Spread),
			top-cfg.PlatformThickness/2,
			randRange(rng, -cfg.Spread, cfg.Spread),
		)
		vol := core.NewBoundsVolume(center, size)

		if w.overlapsAny(vol) {
			continue
		}

		w.Platforms = append(w.Platforms, Platform{
			Volume: vol,
			Color:  platformColors[len(w.Platforms)%len(platformColors)],
		})
	}

	return w
}

// overlapsAny reports whether a candidate volume intersects an existing
// platform, with horizontal padding so slabs keep a walkable gap.
func (w *World) overlapsAny(vol core.BoundsVolume) bool {
	padded := core.BoundsVolume{
		Min: vol.Min.Sub(core.NewVec3(1, 0, 1)),
		Max: vol.Max.Add(core.NewVec3(1, 0, 1)),
	}
	for _, p := range w.Platforms {
		if padded.Overlaps(p.Volume) {
			return true
		}
	}
	return false
}

// NearbyVolumes returns the collision volumes of platforms whose bounds
// intersect a sphere around the given point. The platform count is small
// enough that a linear scan beats any spatial index.
func (w *World) NearbyVolumes(center core.Vec3, radius float64) []core.BoundsVolume {
	var out []core.BoundsVolume
	for _, p := range w.Platforms {
		if p.Volume.IntersectsSphere(center, radius) {
			out = append(out, p.Volume)
		}
	}
	return out
}

// RandomPlatform returns a random platform index, excluding the given index.
// Used to place pickups and customers away from each other.
func (w *World) RandomPlatform(rng *rand.Rand, exclude int) int {
	if len(w.Platforms) <= 1 {
		return 0
	}
	for {
		i := rng.Intn(len(w.Platforms))
		if i != exclude {
			return i
		}
	}
}

// SurfacePoint returns a point on the walkable surface of platform i,
// jittered inside its bounds.
func (w *World) SurfacePoint(rng *rand.Rand, i int) core.Vec3 {
	p := w.Platforms[i]
	size := p.Volume.Size()
	center := p.Volume.Center()
	return core.NewVec3(
		center.X+randRange(rng, -size.X/3, size.X/3),
		p.Top(),
		center.Z+randRange(rng, -size.Z/3, size.Z/3),
	)
}

// HighestTopBelow returns the highest platform surface directly under a
// point, used to anchor drop shadows. ok is false over the void.
func (w *World) HighestTopBelow(p core.Vec3) (float64, bool) {
	best := w.KillDepth
	found := false
	for _, plat := range w.Platforms {
		v := plat.Volume
		if p.X < v.Min.X || p.X > v.Max.X || p.Z < v.Min.Z || p.Z > v.Max.Z {
			continue
		}
		if v.Max.Y <= p.Y && v.Max.Y > best {
			best = v.Max.Y
			found = true
		}
	}
	return best, found
}

func randRange(rng *rand.Rand, min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + rng.Float64()*(max-min)
}
