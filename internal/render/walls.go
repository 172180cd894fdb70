package render

import (
	"math"

	"github.com/yazgoo/blockish-raycasting/internal/world"
)

// maxLineHeight caps projected wall heights for hits at near-zero distance.
const maxLineHeight = 1 << 20

// Hit describes where a ray met a wall.
type Hit struct {
	Dist     float64 // perpendicular distance to the camera plane
	MapX     int
	MapY     int
	Side     int // 0: a vertical grid line (x side) was crossed, 1: horizontal
	Material world.Material
	WallX    float64 // fractional position of the hit along the wall face
}

// CastRay marches a ray from the camera position through the grid and
// returns the first wall hit whose perpendicular distance is at least
// minDist. ok is false when the ray leaves the grid first.
func CastRay(grid *world.Grid, cam Camera, rayX, rayY, minDist float64) (hit Hit, ok bool) {
	mapX := int(math.Floor(cam.PosX))
	mapY := int(math.Floor(cam.PosY))

	// Distance along the ray between two vertical (x) or horizontal (y) grid lines.
	deltaDistX, deltaDistY := 1e30, 1e30
	if rayX != 0 {
		deltaDistX = math.Abs(1 / rayX)
	}
	if rayY != 0 {
		deltaDistY = math.Abs(1 / rayY)
	}

	var stepX, stepY int
	var sideDistX, sideDistY float64
	if rayX < 0 {
		stepX = -1
		sideDistX = (cam.PosX - float64(mapX)) * deltaDistX
	} else {
		stepX = 1
		sideDistX = (float64(mapX) + 1 - cam.PosX) * deltaDistX
	}
	if rayY < 0 {
		stepY = -1
		sideDistY = (cam.PosY - float64(mapY)) * deltaDistY
	} else {
		stepY = 1
		sideDistY = (float64(mapY) + 1 - cam.PosY) * deltaDistY
	}

	side := 0
	for {
		if sideDistX < sideDistY {
			sideDistX += deltaDistX
			mapX += stepX
			side = 0
		} else {
			sideDistY += deltaDistY
			mapY += stepY
			side = 1
		}
		if !grid.InBounds(mapX, mapY) {
			return Hit{}, false
		}
		m := grid.At(mapX, mapY)
		if m == world.MaterialEmpty {
			continue
		}

		var perp float64
		if side == 0 {
			perp = (float64(mapX) - cam.PosX + float64(1-stepX)/2) / rayX
		} else {
			perp = (float64(mapY) - cam.PosY + float64(1-stepY)/2) / rayY
		}
		if perp < minDist {
			continue
		}

		var wallX float64
		if side == 0 {
			wallX = cam.PosY + perp*rayY
		} else {
			wallX = cam.PosX + perp*rayX
		}
		wallX -= math.Floor(wallX)

		return Hit{
			Dist:     perp,
			MapX:     mapX,
			MapY:     mapY,
			Side:     side,
			Material: m,
			WallX:    wallX,
		}, true
	}
}

// rayFor returns the ray direction through screen column x.
func rayFor(cam Camera, x, w int) (float64, float64) {
	cameraX := 2*float64(x)/float64(w) - 1
	return cam.DirX + cam.PlaneX*cameraX, cam.DirY + cam.PlaneY*cameraX
}

// CastWalls casts one ray per column, records the perpendicular wall
// distance in fb.Depth and draws the textured wall slice. Columns whose ray
// leaves the grid are left untouched.
func CastWalls(fb *FrameBuffer, grid *world.Grid, walls *Atlas, cam Camera, minDist float64) {
	castColumns(fb, grid, walls, cam, minDist, 0, fb.Width)
}

func castColumns(fb *FrameBuffer, grid *world.Grid, walls *Atlas, cam Camera, minDist float64, lo, hi int) {
	w, h := fb.Width, fb.Height
	size := walls.Size
	for x := lo; x < hi; x++ {
		rayX, rayY := rayFor(cam, x, w)
		hit, ok := CastRay(grid, cam, rayX, rayY, minDist)
		if !ok {
			continue
		}
		fb.Depth[x] = hit.Dist

		lineF := float64(h) / hit.Dist
		if lineF > maxLineHeight || math.IsNaN(lineF) {
			lineF = maxLineHeight
		}
		lineHeight := int(lineF)
		if lineHeight <= 0 {
			continue
		}
		drawStart := h/2 - lineHeight/2
		drawEnd := h/2 + lineHeight/2

		texX := int(hit.WallX * float64(size))
		if hit.Side == 0 && rayX > 0 {
			texX = size - texX - 1
		}
		if hit.Side == 1 && rayY < 0 {
			texX = size - texX - 1
		}
		texX &= size - 1

		tex := int(hit.Material) - 1
		y0 := max(drawStart, 0)
		y1 := min(drawEnd, h)
		for y := y0; y < y1; y++ {
			// v runs over the unclipped span so off-screen parts stay aligned.
			texY := ((y - drawStart) * size / lineHeight) & (size - 1)
			c, _ := walls.texel(tex, texX, texY)
			fb.Color[y*w+x] = c
		}
	}
}
