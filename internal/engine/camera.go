package engine

import (
	"math"

	"github.com/dkarpov/pattyhop/internal/core"
)

// cellAspect compensates for terminal cells being roughly twice as tall
// as they are wide.
const cellAspect = 0.5

// Camera is a perspective camera projecting world space onto the cell
// grid. A surface owns exactly one camera and keeps its aspect ratio in
// sync with the viewport.
type Camera struct {
	Position core.Vec3
	Target   core.Vec3
	FOV      float64 // vertical field of view in radians

	aspect  float64
	tanHalf float64

	// cached view basis, rebuilt when position/target change
	right, up, forward core.Vec3
	basisValid         bool
}

// NewCamera creates a camera with a default field of view.
func NewCamera() *Camera {
	c := &Camera{
		Position: core.NewVec3(0, 6, -14),
		Target:   core.NewVec3(0, 0, 0),
		FOV:      math.Pi / 3,
	}
	c.SetAspect(80, 24)
	return c
}

// SetAspect recomputes the projection for a viewport of w by h cells.
// Idempotent; safe to call with identical dimensions repeatedly.
func (c *Camera) SetAspect(w, h int) {
	if h <= 0 {
		h = 1
	}
	c.aspect = float64(w) * cellAspect / float64(h)
	c.tanHalf = math.Tan(c.FOV / 2)
}

// Aspect returns the current projection aspect ratio.
func (c *Camera) Aspect() float64 {
	return c.aspect
}

// LookAt repositions the camera and invalidates the cached view basis.
func (c *Camera) LookAt(position, target core.Vec3) {
	c.Position = position
	c.Target = target
	c.basisValid = false
}

// rebuildBasis derives the orthonormal view axes from position/target.
func (c *Camera) rebuildBasis() {
	c.forward = c.Target.Sub(c.Position).Normalize()
	worldUp := core.NewVec3(0, 1, 0)
	c.right = c.forward.Cross(worldUp).Normalize()
	if c.right.Length() == 0 {
		// Looking straight up or down; pick an arbitrary right axis.
		c.right = core.NewVec3(1, 0, 0)
	}
	c.up = c.right.Cross(c.forward)
	c.basisValid = true
}

// Project maps a world point to cell coordinates on a w-by-h grid.
// Returns ok=false for points at or behind the camera plane. depth is
// the view-space distance along the camera's forward axis, suitable for
// painter-order and fog.
func (c *Camera) Project(p core.Vec3, w, h int) (x, y int, depth float64, ok bool) {
	if !c.basisValid {
		c.rebuildBasis()
	}

	rel := p.Sub(c.Position)
	vz := rel.Dot(c.forward)
	if vz < 0.1 {
		return 0, 0, 0, false
	}
	vx := rel.Dot(c.right)
	vy := rel.Dot(c.up)

	ndcX := vx / (vz * c.tanHalf * c.aspect)
	ndcY := vy / (vz * c.tanHalf)

	x = int(math.Round((ndcX*0.5 + 0.5) * float64(w-1)))
	y = int(math.Round((0.5 - ndcY*0.5) * float64(h-1)))
	return x, y, vz, true
}
