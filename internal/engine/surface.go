package engine

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/dkarpov/pattyhop/internal/core"
)

// RenderConfig is the surface configuration chosen once at startup.
type RenderConfig struct {
	// Antialiasing enables sub-cell edge shading at cell ratio 2.0.
	Antialiasing bool

	// MaxCellRatio caps the cell ratio. Its presence is the sole signal
	// that we are on a constrained device class: the surface then
	// targets the reduced frame rate, disables fog and shadow
	// softening, and clamps the ratio to the cap.
	MaxCellRatio *float64

	// ShadowsEnabled draws drop shadows under entities.
	ShadowsEnabled bool
}

// fogStartDepth is the view depth at which fog dimming begins.
const fogStartDepth = 18.0

// Surface owns exactly one device, one scene and one camera, and runs
// the context-loss protocol: while the device is lost every render is a
// no-op, and on restore the last known configuration is reapplied
// because the underlying display state resets to defaults.
type Surface struct {
	dev    Device
	scene  *Scene
	cam    *Camera
	logger *log.Logger

	cfg       RenderConfig
	tier      Tier
	cellRatio float64

	frame         *core.Screen
	width, height int
	resizeHook    func(w, h int)

	lost     bool
	disposed bool

	removeLoss    func()
	removeRestore func()
}

// New creates a surface on the given device. The quality tier is derived
// from cfg here, exactly once; callers thread the resulting tier around
// instead of re-deriving device class heuristics.
func New(dev Device, cfg RenderConfig, logger *log.Logger) *Surface {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	tier := TierFull
	ratio := 1.0
	if cfg.Antialiasing {
		ratio = 2.0
	}
	if cfg.MaxCellRatio != nil {
		tier = TierConstrained
		ratio = core.ClampF(ratio, 0, *cfg.MaxCellRatio)
	}

	s := &Surface{
		dev:       dev,
		scene:     NewScene(),
		cam:       NewCamera(),
		logger:    logger,
		cfg:       cfg,
		tier:      tier,
		cellRatio: ratio,
		frame:     core.NewScreen(80, 24),
		width:     80,
		height:    24,
	}

	s.removeLoss = dev.OnLoss(func() {
		s.lost = true
		s.logger.Warn("display device lost, suspending rendering")
	})
	s.removeRestore = dev.OnRestore(func() {
		s.lost = false
		s.reapply()
		s.logger.Info("display device restored",
			"width", s.width, "height", s.height, "cellRatio", s.cellRatio)
	})
	return s
}

// Tier returns the frame-rate/quality tier fixed at construction.
func (s *Surface) Tier() Tier {
	return s.tier
}

// CellRatio returns the clamped cell ratio.
func (s *Surface) CellRatio() float64 {
	return s.cellRatio
}

// ShadowsEnabled reports whether drop shadows are drawn.
func (s *Surface) ShadowsEnabled() bool {
	return s.cfg.ShadowsEnabled
}

// Scene returns the scene graph root.
func (s *Surface) Scene() *Scene {
	return s.scene
}

// Camera returns the surface's camera.
func (s *Surface) Camera() *Camera {
	return s.cam
}

// Lost reports whether the device is currently marked lost.
func (s *Surface) Lost() bool {
	return s.lost
}

// SetResizeHook registers a callback invoked after each viewport resize,
// typically the active game's resize hook. Pass nil to clear.
func (s *Surface) SetResizeHook(fn func(w, h int)) {
	s.resizeHook = fn
}

// CheckAlive re-checks live device validity. A device can die between
// frames without promptly firing its loss listener; when that is
// detected here the sticky lost flag is set. Returns false while lost.
func (s *Surface) CheckAlive() bool {
	if s.disposed || s.lost {
		return false
	}
	if !s.dev.Alive() {
		s.lost = true
		s.logger.Warn("display device found dead on recheck")
		return false
	}
	return true
}

// Render draws the scene and presents the frame. No-op while the device
// is lost. A failure during drawing is treated as a possible device
// death: if the device is in fact dead the lost flag is set silently;
// otherwise the error is logged and the frame skipped. Rendering is
// best-effort and never blocks gameplay updates.
func (s *Surface) Render() {
	if !s.CheckAlive() {
		return
	}

	if err := s.draw(); err != nil {
		if !s.dev.Alive() {
			s.lost = true
			return
		}
		s.logger.Warn("render failed, skipping frame", "error", err)
	}
}

// draw composes one frame. Panics from scene nodes are converted to
// errors so a bad drawable cannot take down the loop.
func (s *Surface) draw() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("draw panic: %v", r)
		}
	}()

	s.frame.Clear()
	pass := &RenderPass{
		Screen:      s.frame,
		Camera:      s.cam,
		Fog:         s.tier == TierFull,
		FogStart:    fogStartDepth,
		Shadows:     s.cfg.ShadowsEnabled,
		SoftShadows: s.cfg.ShadowsEnabled && s.tier == TierFull,
		Detail:      s.cellRatio,
	}
	s.scene.Draw(pass)
	return s.dev.Present(s.frame)
}

// Resize updates the camera aspect ratio, recomputes its projection and
// resizes the frame buffer, then notifies the resize hook if one is set.
// Idempotent and safe to call with identical dimensions repeatedly.
func (s *Surface) Resize(w, h int) {
	if s.disposed || w <= 0 || h <= 0 {
		return
	}
	s.width, s.height = w, h
	s.cam.SetAspect(w, h)
	s.frame.Resize(w, h)
	if s.resizeHook != nil {
		s.resizeHook(w, h)
	}
}

// Viewport returns the current viewport dimensions.
func (s *Surface) Viewport() (w, h int) {
	return s.width, s.height
}

// reapply restores the last known configuration after a device restore:
// the display state was reset to defaults while the device was away.
func (s *Surface) reapply() {
	s.cam.SetAspect(s.width, s.height)
	s.frame.Resize(s.width, s.height)
}

// Dispose removes listener registrations and releases the device.
// Terminal; the surface is unusable afterwards.
func (s *Surface) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true
	if s.removeLoss != nil {
		s.removeLoss()
	}
	if s.removeRestore != nil {
		s.removeRestore()
	}
	s.scene.Clear()
	s.dev.Release()
}
