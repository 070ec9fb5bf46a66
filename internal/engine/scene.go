package engine

import "github.com/dkarpov/pattyhop/internal/core"

// RenderPass carries everything a drawable needs for one frame: the
// target buffer, the camera, and the quality settings selected by the
// surface's tier.
type RenderPass struct {
	Screen *core.Screen
	Camera *Camera

	// Fog dims geometry by view depth. Off on the constrained tier.
	Fog bool
	// FogStart is the view depth at which fog dimming begins.
	FogStart float64
	// Shadows enables drop shadows under entities.
	Shadows bool
	// SoftShadows draws faded drop shadows instead of hard ones.
	// Always false on the constrained tier.
	SoftShadows bool
	// Detail is the clamped cell-ratio; drawables above 1.0 may plot
	// sub-cell shading glyphs at edges.
	Detail float64
}

// FogColor applies depth fog to a color when fog is enabled.
func (p *RenderPass) FogColor(c core.Color, depth float64) core.Color {
	if !p.Fog || depth < p.FogStart {
		return c
	}
	return c.Dim()
}

// Drawable is a scene node that can render itself into a pass.
type Drawable interface {
	Draw(p *RenderPass)
}

// Disposable is implemented by scene nodes owning resources that must be
// released when the node leaves the scene. Disposal walks this
// capability interface; node kinds are never inspected dynamically.
type Disposable interface {
	Dispose()
}

// DefaultBackground is the background color restored by
// EnsureBackground when gameplay code clears it.
const DefaultBackground = core.ColorBlue

// Scene is the graph root owned by a render surface: a background plus
// an ordered list of drawable nodes.
type Scene struct {
	nodes         []Drawable
	background    core.Color
	hasBackground bool
}

// NewScene creates an empty scene with the default background.
func NewScene() *Scene {
	return &Scene{
		background:    DefaultBackground,
		hasBackground: true,
	}
}

// Add appends a node to the scene.
func (s *Scene) Add(n Drawable) {
	s.nodes = append(s.nodes, n)
}

// Remove detaches a node, disposing it if it owns resources.
func (s *Scene) Remove(n Drawable) {
	for i, node := range s.nodes {
		if node == n {
			s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
			if d, ok := n.(Disposable); ok {
				d.Dispose()
			}
			return
		}
	}
}

// Clear disposes and detaches every node. The background is kept.
func (s *Scene) Clear() {
	for _, n := range s.nodes {
		if d, ok := n.(Disposable); ok {
			d.Dispose()
		}
	}
	s.nodes = nil
}

// Len returns the number of attached nodes.
func (s *Scene) Len() int {
	return len(s.nodes)
}

// Background returns the current background color and whether one is set.
func (s *Scene) Background() (core.Color, bool) {
	return s.background, s.hasBackground
}

// SetBackground sets the scene background color.
func (s *Scene) SetBackground(c core.Color) {
	s.background = c
	s.hasBackground = true
}

// ClearBackground removes the background. EnsureBackground will restore
// the default on the next tick.
func (s *Scene) ClearBackground() {
	s.hasBackground = false
}

// EnsureBackground restores the default background if gameplay code
// accidentally cleared it. Called by the runtime loop every tick.
func (s *Scene) EnsureBackground() {
	if !s.hasBackground {
		s.background = DefaultBackground
		s.hasBackground = true
	}
}

// Draw renders every node into the pass in insertion order; the per-cell
// depth channel resolves occlusion between projected geometry.
func (s *Scene) Draw(p *RenderPass) {
	for _, n := range s.nodes {
		n.Draw(p)
	}
}
