package world

import (
	"errors"
	"fmt"
)

var (
	// ErrCameraInWall is returned when a spawn or destination lies on a wall.
	ErrCameraInWall = errors.New("world: position is inside a wall")
	// ErrOutOfGrid is returned when an entity lies outside the grid.
	ErrOutOfGrid = errors.New("world: position is outside the grid")
	// ErrBadMaterial is returned when a material or texture index has no atlas slot.
	ErrBadMaterial = errors.New("world: material has no texture")
)

// Level is everything the server ships to a client for one map.
type Level struct {
	Name           string
	Textures       string
	FloorTexture   int
	CeilingTexture int
	Spawn          Spawn
	Grid           *Grid
	Layer          *Grid
	Sprites        []Sprite
	Lights         []Sprite
	Portals        []Portal
	Actions        []Action
}

// Validate rejects levels the renderer cannot draw. wallTextures is the
// number of slots in the wall atlas; ambient sprites and the floor/ceiling
// slots index that same atlas.
func (l *Level) Validate(wallTextures int) error {
	if l.Grid == nil || l.Grid.Width() == 0 || l.Grid.Height() == 0 {
		return ErrEmptyGrid
	}
	if l.Layer != nil && (l.Layer.Width() != l.Grid.Width() || l.Layer.Height() != l.Grid.Height()) {
		return fmt.Errorf("world: layer is %dx%d, grid is %dx%d",
			l.Layer.Width(), l.Layer.Height(), l.Grid.Width(), l.Grid.Height())
	}
	if m := int(l.Grid.MaxMaterial()); m > wallTextures {
		return fmt.Errorf("%w: material %d, atlas has %d textures", ErrBadMaterial, m, wallTextures)
	}
	for name, slot := range map[string]int{"floor": l.FloorTexture, "ceiling": l.CeilingTexture} {
		if slot < 0 || slot >= wallTextures {
			return fmt.Errorf("%w: %s texture %d, atlas has %d textures", ErrBadMaterial, name, slot, wallTextures)
		}
	}
	if err := l.checkWalkable("spawn", l.Spawn.X, l.Spawn.Y); err != nil {
		return err
	}
	for i, s := range l.Sprites {
		if err := l.checkInside(fmt.Sprintf("sprite %d", i), s.X, s.Y); err != nil {
			return err
		}
		if s.Texture < 0 || s.Texture >= wallTextures {
			return fmt.Errorf("%w: sprite %d texture %d, atlas has %d textures", ErrBadMaterial, i, s.Texture, wallTextures)
		}
	}
	for i, s := range l.Lights {
		if err := l.checkInside(fmt.Sprintf("light %d", i), s.X, s.Y); err != nil {
			return err
		}
	}
	seen := make(map[int]bool, len(l.Portals))
	for _, p := range l.Portals {
		if seen[p.ID] {
			return fmt.Errorf("world: duplicate portal id %d", p.ID)
		}
		seen[p.ID] = true
		if err := l.checkInside(fmt.Sprintf("portal %d", p.ID), p.X, p.Y); err != nil {
			return err
		}
		if err := l.checkWalkable(fmt.Sprintf("portal %d destination", p.ID), p.DestX, p.DestY); err != nil {
			return err
		}
	}
	for i, a := range l.Actions {
		if a.Kind == ActionToggleDoor && l.Layer == nil {
			return fmt.Errorf("world: action %d: toggle_door needs a layer", i)
		}
		if err := a.validate(l.Grid, wallTextures); err != nil {
			return fmt.Errorf("world: action %d: %w", i, err)
		}
	}
	return nil
}

func (l *Level) checkInside(what string, x, y float64) error {
	c := CellOf(x, y)
	if !l.Grid.InBounds(c.X, c.Y) {
		return fmt.Errorf("%w: %s at (%.2f,%.2f)", ErrOutOfGrid, what, x, y)
	}
	return nil
}

func (l *Level) checkWalkable(what string, x, y float64) error {
	if err := l.checkInside(what, x, y); err != nil {
		return err
	}
	if !l.Grid.IsEmptyAt(x, y) {
		return fmt.Errorf("%w: %s at (%.2f,%.2f)", ErrCameraInWall, what, x, y)
	}
	return nil
}

// Trigger fires every action whose trigger cell is (x, y) and reports
// whether the wall grid changed.
func (l *Level) Trigger(x, y int, occupied Occupied) bool {
	changed := false
	for _, a := range l.Actions {
		if a.Trigger.X != x || a.Trigger.Y != y {
			continue
		}
		if a.apply(l.Grid, l.Layer, occupied) {
			changed = true
		}
	}
	return changed
}
