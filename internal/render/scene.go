package render

import (
	"errors"
	"fmt"

	"github.com/yazgoo/blockish-raycasting/internal/world"
)

// ErrBadScene is returned by Scene.Validate.
var ErrBadScene = errors.New("render: invalid scene")

// Scene is everything drawn for one frame besides the camera.
type Scene struct {
	Grid        *world.Grid
	Walls       *Atlas
	FloorSlot   int
	CeilingSlot int
	Groups      []SpriteGroup
	Portals     []world.Portal
}

// Validate checks that every index the renderer will follow exists. The
// render path itself does not check and may panic on a scene that fails
// Validate.
func (s *Scene) Validate() error {
	if s.Grid == nil || s.Grid.Width() == 0 || s.Grid.Height() == 0 {
		return fmt.Errorf("%w: no grid", ErrBadScene)
	}
	if s.Walls == nil {
		return fmt.Errorf("%w: no wall atlas", ErrBadScene)
	}
	if m := int(s.Grid.MaxMaterial()); m > s.Walls.Len() {
		return fmt.Errorf("%w: material %d but only %d wall textures", ErrBadScene, m, s.Walls.Len())
	}
	if s.FloorSlot < 0 || s.FloorSlot >= s.Walls.Len() {
		return fmt.Errorf("%w: floor slot %d outside atlas of %d", ErrBadScene, s.FloorSlot, s.Walls.Len())
	}
	if s.CeilingSlot < 0 || s.CeilingSlot >= s.Walls.Len() {
		return fmt.Errorf("%w: ceiling slot %d outside atlas of %d", ErrBadScene, s.CeilingSlot, s.Walls.Len())
	}
	for gi, g := range s.Groups {
		n := 0
		switch g.mode {
		case modePortal:
			n = len(g.dynamic)
		default:
			if g.atlas == nil {
				return fmt.Errorf("%w: %s group %d has no atlas", ErrBadScene, g.mode, gi)
			}
			if g.mode == modeAlpha && g.atlas.Format != FormatRGBA {
				return fmt.Errorf("%w: alpha group %d needs an rgba atlas, got %s", ErrBadScene, gi, g.atlas.Format)
			}
			n = g.atlas.Len()
		}
		for si, sp := range g.sprites {
			if sp.Texture < 0 || sp.Texture >= n {
				return fmt.Errorf("%w: %s group %d sprite %d uses texture %d of %d",
					ErrBadScene, g.mode, gi, si, sp.Texture, n)
			}
		}
	}
	seen := make(map[int]bool, len(s.Portals))
	for _, p := range s.Portals {
		if seen[p.ID] {
			return fmt.Errorf("%w: duplicate portal id %d", ErrBadScene, p.ID)
		}
		seen[p.ID] = true
	}
	return nil
}
