package world

import (
	"errors"
	"fmt"
	"math/rand"
)

// ErrEmptyGrid is returned when a grid has no cells.
var ErrEmptyGrid = errors.New("world: grid has no cells")

// Grid is a rectangular matrix of materials addressed as At(x, y). Width is
// the x extent, Height the y extent.
type Grid struct {
	width  int
	height int
	cells  []Material
}

// NewGrid allocates an all-empty grid.
func NewGrid(width, height int) *Grid {
	return &Grid{
		width:  width,
		height: height,
		cells:  make([]Material, width*height),
	}
}

// GridFromRows builds a grid from rows[x][y]. Every row must have the same
// length.
func GridFromRows(rows [][]Material) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyGrid
	}
	g := NewGrid(len(rows), len(rows[0]))
	for x, row := range rows {
		if len(row) != g.height {
			return nil, fmt.Errorf("world: row %d has inconsistent length: expected %d, got %d", x, g.height, len(row))
		}
		copy(g.cells[x*g.height:(x+1)*g.height], row)
	}
	return g, nil
}

// Width returns the x extent.
func (g *Grid) Width() int { return g.width }

// Height returns the y extent.
func (g *Grid) Height() int { return g.height }

// InBounds reports whether (x, y) addresses a cell.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

// At returns the material at (x, y). The cell must be in bounds.
func (g *Grid) At(x, y int) Material {
	return g.cells[x*g.height+y]
}

// Set writes the material at (x, y). The cell must be in bounds.
func (g *Grid) Set(x, y int, m Material) {
	g.cells[x*g.height+y] = m
}

// IsEmpty reports whether (x, y) is in bounds and walkable.
func (g *Grid) IsEmpty(x, y int) bool {
	return g.InBounds(x, y) && g.At(x, y) == MaterialEmpty
}

// IsEmptyAt reports whether the world position (x, y) lies on a walkable cell.
func (g *Grid) IsEmptyAt(x, y float64) bool {
	c := CellOf(x, y)
	return g.IsEmpty(c.X, c.Y)
}

// MaxMaterial returns the largest material id in the grid.
func (g *Grid) MaxMaterial() Material {
	var max Material
	for _, m := range g.cells {
		if m > max {
			max = m
		}
	}
	return max
}

// Rows returns a copy of the grid as rows[x][y].
func (g *Grid) Rows() [][]Material {
	rows := make([][]Material, g.width)
	for x := range rows {
		rows[x] = append([]Material(nil), g.cells[x*g.height:(x+1)*g.height]...)
	}
	return rows
}

// Clone returns an independent copy.
func (g *Grid) Clone() *Grid {
	return &Grid{
		width:  g.width,
		height: g.height,
		cells:  append([]Material(nil), g.cells...),
	}
}

// TryMove moves (x, y) by (dx, dy) one axis at a time, refusing each axis
// step that would land on a non-empty cell.
func (g *Grid) TryMove(x, y, dx, dy float64) (float64, float64) {
	if g.IsEmptyAt(x+dx, y) {
		x += dx
	}
	if g.IsEmptyAt(x, y+dy) {
		y += dy
	}
	return x, y
}

// RandomEmptyCell returns the center of a random walkable cell.
func (g *Grid) RandomEmptyCell(rng *rand.Rand) (float64, float64, bool) {
	var empty []int
	for i, m := range g.cells {
		if m == MaterialEmpty {
			empty = append(empty, i)
		}
	}
	if len(empty) == 0 {
		return 0, 0, false
	}
	i := empty[rng.Intn(len(empty))]
	return float64(i/g.height) + 0.5, float64(i%g.height) + 0.5, true
}
