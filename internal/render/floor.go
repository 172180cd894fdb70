package render

import "github.com/yazgoo/blockish-raycasting/internal/mathutil"

// darkMask keeps the 7 high bits of each channel after a right shift,
// halving the brightness of a packed color.
const darkMask = 0x7F7F7F

// CastFloorCeiling fills every row of fb with the floor texture below the
// horizon and the ceiling texture above it, mirrored row for row. Slots
// index the wall atlas.
func CastFloorCeiling(fb *FrameBuffer, walls *Atlas, floorSlot, ceilingSlot int, cam Camera) {
	castFloorRows(fb, walls, floorSlot, ceilingSlot, cam, fb.Height/2, fb.Height)
}

// castFloorRows draws floor rows [lo, hi) and their mirrored ceiling rows.
// Rows must lie at or below the horizon.
func castFloorRows(fb *FrameBuffer, walls *Atlas, floorSlot, ceilingSlot int, cam Camera, lo, hi int) {
	w, h := fb.Width, fb.Height
	posZ := 0.5 * float64(h)

	rayX0, rayY0 := cam.DirX-cam.PlaneX, cam.DirY-cam.PlaneY
	rayX1, rayY1 := cam.DirX+cam.PlaneX, cam.DirY+cam.PlaneY

	for y := lo; y < hi; y++ {
		p := float64(y) - posZ
		if p == 0 {
			p = 1
		}
		rowDistance := posZ / p

		stepX := rowDistance * (rayX1 - rayX0) / float64(w)
		stepY := rowDistance * (rayY1 - rayY0) / float64(w)
		floorX := cam.PosX + rowDistance*rayX0
		floorY := cam.PosY + rowDistance*rayY0

		floorRow := y * w
		ceilingRow := (h - y - 1) * w
		for x := 0; x < w; x++ {
			tx, ty := floorTexel(walls.Size, floorX, floorY)
			floorX += stepX
			floorY += stepY

			c, _ := walls.texel(floorSlot, tx, ty)
			fb.Color[floorRow+x] = (c >> 1) & darkMask
			c, _ = walls.texel(ceilingSlot, tx, ty)
			fb.Color[ceilingRow+x] = (c >> 1) & darkMask
		}
	}
}

// floorTexel maps a world position to texel coordinates, wrapping every
// grid unit.
func floorTexel(size int, wx, wy float64) (int, int) {
	tx := int(float64(size)*mathutil.Frac(wx)) & (size - 1)
	ty := int(float64(size)*mathutil.Frac(wy)) & (size - 1)
	return tx, ty
}
