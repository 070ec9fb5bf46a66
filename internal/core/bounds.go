package core

// BoundsVolume is an axis-aligned box in world space used for solid
// collision. It is computed once from a center and a size and never
// mutated afterward; entities that move must be rebuilt. Queries borrow
// the volume read-only.
type BoundsVolume struct {
	Min, Max Vec3
}

// NewBoundsVolume builds a volume centered on center with the given size,
// so min = center - size/2 and max = center + size/2 componentwise.
func NewBoundsVolume(center, size Vec3) BoundsVolume {
	half := size.Scale(0.5)
	return BoundsVolume{
		Min: center.Sub(half),
		Max: center.Add(half),
	}
}

// Center returns the midpoint of the volume.
func (b BoundsVolume) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the edge lengths of the volume.
func (b BoundsVolume) Size() Vec3 {
	return b.Max.Sub(b.Min)
}

// ContainsPoint reports whether p lies inside the volume (inclusive of
// the faces).
func (b BoundsVolume) ContainsPoint(p Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// IntersectsSphere reports whether a sphere at center with the given
// radius touches the volume.
func (b BoundsVolume) IntersectsSphere(center Vec3, radius float64) bool {
	closest := Vec3{
		X: ClampF(center.X, b.Min.X, b.Max.X),
		Y: ClampF(center.Y, b.Min.Y, b.Max.Y),
		Z: ClampF(center.Z, b.Min.Z, b.Max.Z),
	}
	return closest.Dist(center) <= radius
}

// Overlaps reports whether two volumes share any interior space. Touching
// faces do not count as overlap.
func (b BoundsVolume) Overlaps(o BoundsVolume) bool {
	if b.Min.X >= o.Max.X || o.Min.X >= b.Max.X {
		return false
	}
	if b.Min.Y >= o.Max.Y || o.Min.Y >= b.Max.Y {
		return false
	}
	if b.Min.Z >= o.Max.Z || o.Min.Z >= b.Max.Z {
		return false
	}
	return true
}

// ResolvePenetration computes the smallest axis-aligned translation that
// pushes moving out of this volume. Returns false when the boxes do not
// overlap. Movers collect corrections from each nearby volume and apply
// them; the volume itself never moves.
func (b BoundsVolume) ResolvePenetration(moving BoundsVolume) (Vec3, bool) {
	if !b.Overlaps(moving) {
		return Vec3{}, false
	}

	// Penetration depth per axis; the sign pushes the mover away from
	// this volume's center.
	dx := penetration(b.Min.X, b.Max.X, moving.Min.X, moving.Max.X)
	dy := penetration(b.Min.Y, b.Max.Y, moving.Min.Y, moving.Max.Y)
	dz := penetration(b.Min.Z, b.Max.Z, moving.Min.Z, moving.Max.Z)

	ax, ay, az := absF(dx), absF(dy), absF(dz)
	switch {
	case ay <= ax && ay <= az:
		return Vec3{Y: dy}, true
	case ax <= az:
		return Vec3{X: dx}, true
	default:
		return Vec3{Z: dz}, true
	}
}

// penetration returns the signed depth along one axis by which the moving
// interval [mMin, mMax] must shift to clear the solid interval [sMin, sMax].
func penetration(sMin, sMax, mMin, mMax float64) float64 {
	pushPos := sMax - mMin // shift mover toward +axis
	pushNeg := sMin - mMax // shift mover toward -axis
	if pushPos < -pushNeg {
		return pushPos
	}
	return pushNeg
}

func absF(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// Zone is a spherical interaction region used for pickups and customer
// proximity. It is cheaper than a BoundsVolume: a straight-line distance
// comparison against a radius.
type Zone struct {
	Center Vec3
	Radius float64
}

// NewZone creates an interaction zone.
func NewZone(center Vec3, radius float64) Zone {
	return Zone{Center: center, Radius: radius}
}

// WithinRange reports whether p lies within the zone's radius.
func (z Zone) WithinRange(p Vec3) bool {
	return z.Center.Dist(p) <= z.Radius
}
