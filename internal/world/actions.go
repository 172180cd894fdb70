package world

import "fmt"

// ActionKind selects the behaviour of a level action. The set is closed so
// that actions stay plain data when levels travel over the network.
type ActionKind string

const (
	ActionNone       ActionKind = "none"
	ActionToggleDoor ActionKind = "toggle_door"
)

// Action is a grid mutation fired when a player acts while standing on
// Trigger.
//
// toggle_door: when LayerCell holds ClosedLayer the door opens (LayerCell
// becomes OpenLayer, WallCell becomes empty), otherwise it closes
// (LayerCell becomes ClosedLayer, WallCell becomes WallMaterial).
type Action struct {
	Kind         ActionKind `yaml:"kind" json:"kind"`
	Trigger      Cell       `yaml:"trigger" json:"trigger"`
	LayerCell    Cell       `yaml:"layer_cell" json:"layer_cell"`
	WallCell     Cell       `yaml:"wall_cell" json:"wall_cell"`
	OpenLayer    Material   `yaml:"open_layer" json:"open_layer"`
	ClosedLayer  Material   `yaml:"closed_layer" json:"closed_layer"`
	WallMaterial Material   `yaml:"wall_material" json:"wall_material"`
}

// Occupied reports whether some player stands in the given cell.
type Occupied func(c Cell) bool

// apply runs the action against the level grids and reports whether the
// wall grid changed.
func (a Action) apply(grid, layer *Grid, occupied Occupied) bool {
	switch a.Kind {
	case ActionToggleDoor:
		if layer.At(a.LayerCell.X, a.LayerCell.Y) == a.ClosedLayer {
			layer.Set(a.LayerCell.X, a.LayerCell.Y, a.OpenLayer)
			grid.Set(a.WallCell.X, a.WallCell.Y, MaterialEmpty)
			return true
		}
		if occupied != nil && occupied(a.WallCell) {
			return false
		}
		layer.Set(a.LayerCell.X, a.LayerCell.Y, a.ClosedLayer)
		grid.Set(a.WallCell.X, a.WallCell.Y, a.WallMaterial)
		return true
	default:
		return false
	}
}

func (a Action) validate(grid *Grid, wallTextures int) error {
	switch a.Kind {
	case ActionNone, "":
		return nil
	case ActionToggleDoor:
		for name, c := range map[string]Cell{"trigger": a.Trigger, "layer_cell": a.LayerCell, "wall_cell": a.WallCell} {
			if !grid.InBounds(c.X, c.Y) {
				return fmt.Errorf("%s (%d,%d) outside %dx%d grid", name, c.X, c.Y, grid.Width(), grid.Height())
			}
		}
		if a.WallMaterial == MaterialEmpty || int(a.WallMaterial) > wallTextures {
			return fmt.Errorf("wall_material %d outside 1..%d", a.WallMaterial, wallTextures)
		}
		if a.OpenLayer == a.ClosedLayer {
			return fmt.Errorf("open_layer and closed_layer are both %d", a.OpenLayer)
		}
		return nil
	default:
		return fmt.Errorf("unknown action kind %q", a.Kind)
	}
}
