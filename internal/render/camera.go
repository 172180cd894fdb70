package render

import (
	"math"

	"github.com/yazgoo/blockish-raycasting/internal/mathutil"
)

// Camera is a player pose: position in grid units, a direction vector and
// the camera plane. The plane is perpendicular to the direction and its
// length is tan(fov/2).
type Camera struct {
	PosX, PosY     float64
	DirX, DirY     float64
	PlaneX, PlaneY float64
}

// NewCamera builds a pose looking along (dirX, dirY) with the given
// horizontal field of view in degrees. The plane is placed on the
// clockwise side of the direction, so (-1, 0) gets plane (0, +k).
func NewCamera(x, y, dirX, dirY, fovDegrees float64) Camera {
	l := math.Hypot(dirX, dirY)
	if l == 0 {
		dirX, dirY, l = -1, 0, 1
	}
	dirX, dirY = dirX/l, dirY/l
	k := math.Tan(fovDegrees * math.Pi / 360)
	return Camera{
		PosX:   x,
		PosY:   y,
		DirX:   dirX,
		DirY:   dirY,
		PlaneX: dirY * k,
		PlaneY: -dirX * k,
	}
}

// Rotate turns direction and plane together by angle radians.
func (c Camera) Rotate(angle float64) Camera {
	c.DirX, c.DirY = mathutil.Rotate(c.DirX, c.DirY, angle)
	c.PlaneX, c.PlaneY = mathutil.Rotate(c.PlaneX, c.PlaneY, angle)
	return c
}

// At returns the same orientation placed at (x, y).
func (c Camera) At(x, y float64) Camera {
	c.PosX, c.PosY = x, y
	return c
}

// Forward returns the displacement of a step along the view direction.
func (c Camera) Forward(step float64) (float64, float64) {
	return c.DirX * step, c.DirY * step
}

// Strafe returns the displacement of a sideways step. Positive steps go
// towards the right edge of the screen.
func (c Camera) Strafe(step float64) (float64, float64) {
	l := math.Hypot(c.PlaneX, c.PlaneY)
	if l == 0 {
		return 0, 0
	}
	return c.PlaneX / l * step, c.PlaneY / l * step
}

// DistanceTo returns the euclidean distance from the camera to (x, y).
func (c Camera) DistanceTo(x, y float64) float64 {
	return math.Hypot(c.PosX-x, c.PosY-y)
}
