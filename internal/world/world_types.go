package world

// Material is a grid cell value. 0 is walkable, n > 0 is a wall drawn with
// wall texture n-1.
type Material = uint8

// MaterialEmpty marks a walkable cell.
const MaterialEmpty Material = 0

// Cell addresses one grid cell.
type Cell struct {
	X int `yaml:"x" json:"x"`
	Y int `yaml:"y" json:"y"`
}

// CellOf returns the cell containing the world position (x, y).
func CellOf(x, y float64) Cell {
	return Cell{X: floorInt(x), Y: floorInt(y)}
}

// Sprite is a billboard placed in the world. Texture selects a slot in the
// atlas of the group the sprite is rendered with.
type Sprite struct {
	X       float64 `yaml:"x" json:"x"`
	Y       float64 `yaml:"y" json:"y"`
	Texture int     `yaml:"texture" json:"texture"`
}

// Portal is a window at (X, Y) showing the scene around (DestX, DestY).
// ID identifies the portal's dynamic texture.
type Portal struct {
	ID    int     `yaml:"id" json:"id"`
	X     float64 `yaml:"x" json:"x"`
	Y     float64 `yaml:"y" json:"y"`
	DestX float64 `yaml:"dest_x" json:"dest_x"`
	DestY float64 `yaml:"dest_y" json:"dest_y"`
}

// Spawn is the initial player pose of a level.
type Spawn struct {
	X    float64 `yaml:"x" json:"x"`
	Y    float64 `yaml:"y" json:"y"`
	DirX float64 `yaml:"dir_x" json:"dir_x"`
	DirY float64 `yaml:"dir_y" json:"dir_y"`
}

func floorInt(v float64) int {
	i := int(v)
	if float64(i) > v {
		i--
	}
	return i
}
