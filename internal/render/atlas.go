package render

import (
	"errors"
	"fmt"

	"github.com/yazgoo/blockish-raycasting/internal/mathutil"
)

// ErrTextureSize is returned when an atlas texture has the wrong geometry.
var ErrTextureSize = errors.New("render: bad texture size")

// PixelFormat is the byte layout of an atlas texture.
type PixelFormat int

const (
	FormatRGB  PixelFormat = 3
	FormatRGBA PixelFormat = 4
)

// BytesPerPixel returns the pixel stride.
func (f PixelFormat) BytesPerPixel() int { return int(f) }

func (f PixelFormat) String() string {
	switch f {
	case FormatRGB:
		return "rgb"
	case FormatRGBA:
		return "rgba"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// Atlas is a list of square power-of-two textures sharing one size and one
// pixel format. Textures are row-major.
type Atlas struct {
	Size     int
	Format   PixelFormat
	Textures [][]byte
}

// NewAtlas validates the texture geometry and returns the atlas. The
// textures are not copied.
func NewAtlas(size int, format PixelFormat, textures [][]byte) (*Atlas, error) {
	if !mathutil.IsPowerOfTwo(size) {
		return nil, fmt.Errorf("%w: side %d is not a power of two", ErrTextureSize, size)
	}
	if format != FormatRGB && format != FormatRGBA {
		return nil, fmt.Errorf("%w: unknown pixel format %d", ErrTextureSize, int(format))
	}
	want := size * size * format.BytesPerPixel()
	for i, t := range textures {
		if len(t) != want {
			return nil, fmt.Errorf("%w: texture %d has %d bytes, want %d (%dx%d %s)",
				ErrTextureSize, i, len(t), want, size, size, format)
		}
	}
	return &Atlas{Size: size, Format: format, Textures: textures}, nil
}

// Len returns the number of textures.
func (a *Atlas) Len() int { return len(a.Textures) }

// texel returns the packed color and alpha at (x, y) of texture i. RGB
// textures report alpha 0xff.
func (a *Atlas) texel(i, x, y int) (uint32, uint8) {
	t := a.Textures[i]
	o := (y*a.Size + x) * int(a.Format)
	c := uint32(t[o]) | uint32(t[o+1])<<8 | uint32(t[o+2])<<16
	if a.Format == FormatRGBA {
		return c, t[o+3]
	}
	return c, 0xff
}
