package assets

import "github.com/yazgoo/blockish-raycasting/internal/render"

// SolidTexture returns a size×size texture of a single color.
func SolidTexture(size int, format render.PixelFormat, r, g, b, a uint8) []byte {
	bpp := format.BytesPerPixel()
	buf := make([]byte, size*size*bpp)
	for i := 0; i < len(buf); i += bpp {
		buf[i], buf[i+1], buf[i+2] = r, g, b
		if bpp == 4 {
			buf[i+3] = a
		}
	}
	return buf
}

// Checkerboard returns an opaque texture of 8×8 checks alternating between
// two colors given as r | g<<8 | b<<16.
func Checkerboard(size int, format render.PixelFormat, c0, c1 uint32) []byte {
	bpp := format.BytesPerPixel()
	check := size / 8
	if check == 0 {
		check = 1
	}
	buf := make([]byte, size*size*bpp)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := c0
			if (x/check+y/check)%2 == 1 {
				c = c1
			}
			o := (y*size + x) * bpp
			buf[o], buf[o+1], buf[o+2] = render.UnpackRGB(c)
			if bpp == 4 {
				buf[o+3] = 0xff
			}
		}
	}
	return buf
}

// fallbackPalette holds the check colors of the built-in wall textures.
var fallbackPalette = [][2]uint32{
	{0x6c6c6c, 0x505050},
	{0x2b2bb0, 0x1c1c80},
	{0x803070, 0x5a2050},
	{0x909090, 0x787878},
	{0xa04040, 0x702828},
	{0x3a7a3a, 0x285828},
	{0x20508c, 0x183c68},
	{0x5a8cb4, 0x40688a},
}

// FallbackTextures returns n checkerboard wall textures, cycling through a
// fixed palette, for running without a texture archive.
func FallbackTextures(n, size int, format render.PixelFormat) [][]byte {
	textures := make([][]byte, n)
	for i := range textures {
		p := fallbackPalette[i%len(fallbackPalette)]
		textures[i] = Checkerboard(size, format, p[0], p[1])
	}
	return textures
}

// FallbackColor returns the main colour of generated texture i, packed as
// render.PackRGB does.
func FallbackColor(i int) uint32 {
	return fallbackPalette[i%len(fallbackPalette)][0]
}

// FallbackFrames returns frames of a disc whose radius pulses, used for
// coins and torches when no frame files are configured.
func FallbackFrames(n, size int, color uint32) [][]byte {
	frames := make([][]byte, n)
	r, g, b := render.UnpackRGB(color)
	c := float64(size) / 2
	for i := range frames {
		radius := c * (0.5 + 0.4*float64(i+1)/float64(n))
		buf := make([]byte, size*size*4)
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				dx, dy := float64(x)+0.5-c, float64(y)+0.5-c
				if dx*dx+dy*dy > radius*radius {
					continue
				}
				o := (y*size + x) * 4
				buf[o], buf[o+1], buf[o+2], buf[o+3] = r, g, b, 0xff
			}
		}
		frames[i] = buf
	}
	return frames
}
