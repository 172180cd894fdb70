package render

import "github.com/yazgoo/blockish-raycasting/internal/world"

// DefaultPortalThreshold is the camera distance under which a portal is
// rendered.
const DefaultPortalThreshold = 7.0

// PortalState is the per-frame state of a portal.
type PortalState int

const (
	// PortalDormant portals are too far away to be rendered.
	PortalDormant PortalState = iota
	// PortalActive portals were rendered and composited this frame.
	PortalActive
	// PortalTriggered portals filled the view and moved the camera.
	PortalTriggered
)

func (s PortalState) String() string {
	switch s {
	case PortalDormant:
		return "dormant"
	case PortalActive:
		return "active"
	case PortalTriggered:
		return "triggered"
	default:
		return "unknown"
	}
}

// Teleport is emitted when a portal fills the view.
type Teleport struct {
	PortalID int
	From     Camera
	To       Camera
}

// portalTarget is the private offscreen buffer pair and dynamic texture of
// one portal. Both are fully overwritten every active frame.
type portalTarget struct {
	fb      *FrameBuffer
	texture *DynamicTexture
}

func newPortalTarget(w, h int) *portalTarget {
	return &portalTarget{
		fb:      NewFrameBuffer(w, h),
		texture: NewDynamicTexture(w, h),
	}
}

// DestinationPose places the camera at the destination with the same
// offset it has from the portal. Orientation is unchanged.
func DestinationPose(cam Camera, p world.Portal) Camera {
	return cam.At(p.DestX+(cam.PosX-p.X), p.DestY+(cam.PosY-p.Y))
}

// target returns the offscreen target of a portal sized w×h, reallocating
// it when the frame size changed.
func (r *Renderer) target(id, w, h int) *portalTarget {
	t, ok := r.targets[id]
	if !ok || t.fb.Width != w || t.fb.Height != h {
		t = newPortalTarget(w, h)
		r.targets[id] = t
	}
	return t
}

// renderPortals renders every portal closer than the threshold into its
// texture and composites it over fb. The first portal that fills the view
// moves the camera to its destination and ends the pass.
func (r *Renderer) renderPortals(fb *FrameBuffer, scene *Scene, cam Camera, tick int, res *FrameResult) {
	nested := *scene
	nested.Portals = nil

	for _, p := range scene.Portals {
		dist := cam.DistanceTo(p.X, p.Y)
		if dist >= r.opts.PortalThreshold {
			res.PortalStates[p.ID] = PortalDormant
			continue
		}

		t := r.target(p.ID, fb.Width, fb.Height)
		r.renderScene(t.fb, &nested, DestinationPose(cam, p), dist, tick, nil)
		t.fb.WriteRGBA(t.texture.Pix)

		group := NewPortalGroup(
			[]world.Sprite{{X: p.X, Y: p.Y, Texture: 0}},
			[]*DynamicTexture{t.texture},
			r.opts.BorderWidth,
		)
		stats := compositeGroup(fb, cam, &group, tick)
		res.Portals.Add(stats)
		res.PortalStates[p.ID] = PortalActive

		if stats.FullScreen() {
			res.PortalStates[p.ID] = PortalTriggered
			res.Teleported = true
			res.PortalID = p.ID
			res.Camera = cam.At(p.DestX, p.DestY)
			if r.OnTeleport != nil {
				r.OnTeleport(Teleport{PortalID: p.ID, From: cam, To: res.Camera})
			}
			return
		}
	}
}
