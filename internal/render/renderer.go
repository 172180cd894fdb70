package render

import "time"

// Spanner splits [0, n) into disjoint ranges and runs fn on each of them,
// returning once all ranges are done.
type Spanner interface {
	Span(n int, fn func(lo, hi int))
}

// StageTimer measures named pipeline stages.
type StageTimer interface {
	ProfiledFunction(name string, fn func()) time.Duration
}

// Stage names reported to the StageTimer.
const (
	StageFloor   = "floor"
	StageWalls   = "walls"
	StageSprites = "sprites"
	StagePortals = "portals"
)

// Options tunes a Renderer. Zero values select the defaults.
type Options struct {
	PortalThreshold float64
	BorderWidth     int
}

// Renderer runs the frame pipeline: floor and ceiling, walls, sprites,
// then portals. Each stage completes before the next one starts.
type Renderer struct {
	opts    Options
	spans   Spanner
	timer   StageTimer
	targets map[int]*portalTarget

	// OnTeleport is called when a portal moves the camera.
	OnTeleport func(Teleport)
}

// FrameResult is the outcome of Render.
type FrameResult struct {
	// Camera is the pose to use from now on. It differs from the input
	// pose only when Teleported is set.
	Camera       Camera
	Teleported   bool
	PortalID     int
	Sprites      CompositeStats
	Portals      CompositeStats
	PortalStates map[int]PortalState
}

// NewRenderer creates a renderer. spans and timer may be nil, in which case
// stages run on the calling goroutine and are not timed.
func NewRenderer(opts Options, spans Spanner, timer StageTimer) *Renderer {
	if opts.PortalThreshold <= 0 {
		opts.PortalThreshold = DefaultPortalThreshold
	}
	if opts.BorderWidth <= 0 {
		opts.BorderWidth = DefaultBorderWidth
	}
	return &Renderer{
		opts:    opts,
		spans:   spans,
		timer:   timer,
		targets: make(map[int]*portalTarget),
	}
}

// Options returns the effective options.
func (r *Renderer) Options() Options { return r.opts }

// Render draws one frame of scene seen from cam into fb. The scene must have
// passed Validate. The camera is not modified; a teleport is reported in
// the result.
func (r *Renderer) Render(fb *FrameBuffer, scene *Scene, cam Camera, tick int) FrameResult {
	res := FrameResult{
		Camera:       cam,
		PortalID:     -1,
		PortalStates: make(map[int]PortalState, len(scene.Portals)),
	}
	res.Sprites = r.renderScene(fb, scene, cam, 0, tick, r.timer)
	if len(scene.Portals) > 0 {
		r.stage(r.timer, StagePortals, func() {
			r.renderPortals(fb, scene, cam, tick, &res)
		})
	}
	return res
}

// renderScene runs floor, walls and sprites. minDist hides walls nearer
// than the given perpendicular distance.
func (r *Renderer) renderScene(fb *FrameBuffer, scene *Scene, cam Camera, minDist float64, tick int, timer StageTimer) CompositeStats {
	fb.ResetDepth()

	r.stage(timer, StageFloor, func() {
		horizon := fb.Height / 2
		r.span(fb.Height-horizon, func(lo, hi int) {
			castFloorRows(fb, scene.Walls, scene.FloorSlot, scene.CeilingSlot, cam, horizon+lo, horizon+hi)
		})
	})
	r.stage(timer, StageWalls, func() {
		r.span(fb.Width, func(lo, hi int) {
			castColumns(fb, scene.Grid, scene.Walls, cam, minDist, lo, hi)
		})
	})

	var stats CompositeStats
	r.stage(timer, StageSprites, func() {
		stats = Composite(fb, cam, scene.Groups, tick)
	})
	return stats
}

func (r *Renderer) span(n int, fn func(lo, hi int)) {
	if r.spans == nil {
		fn(0, n)
		return
	}
	r.spans.Span(n, fn)
}

func (r *Renderer) stage(timer StageTimer, name string, fn func()) {
	if timer == nil {
		fn()
		return
	}
	timer.ProfiledFunction(name, fn)
}
