package render

import (
	"image"
	"math"
)

// FrameBuffer is an owned color + depth buffer pair. Color is row-major,
// one packed RGB value per pixel (see PackRGB). Depth holds one
// perpendicular wall distance per column.
type FrameBuffer struct {
	Width  int
	Height int
	Color  []uint32
	Depth  []float64
}

// NewFrameBuffer allocates a w×h buffer with depth cleared to +Inf.
func NewFrameBuffer(w, h int) *FrameBuffer {
	fb := &FrameBuffer{
		Width:  w,
		Height: h,
		Color:  make([]uint32, w*h),
		Depth:  make([]float64, w),
	}
	fb.ResetDepth()
	return fb
}

// ResetDepth marks every column as having no wall.
func (fb *FrameBuffer) ResetDepth() {
	inf := math.Inf(1)
	for i := range fb.Depth {
		fb.Depth[i] = inf
	}
}

// Clear zeroes the color buffer and resets depth.
func (fb *FrameBuffer) Clear() {
	for i := range fb.Color {
		fb.Color[i] = 0
	}
	fb.ResetDepth()
}

// At returns the packed color at (x, y).
func (fb *FrameBuffer) At(x, y int) uint32 {
	return fb.Color[y*fb.Width+x]
}

// PackRGB packs a color as r | g<<8 | b<<16.
func PackRGB(r, g, b uint8) uint32 {
	return uint32(r) | uint32(g)<<8 | uint32(b)<<16
}

// UnpackRGB is the inverse of PackRGB.
func UnpackRGB(c uint32) (r, g, b uint8) {
	return uint8(c), uint8(c >> 8), uint8(c >> 16)
}

// WriteRGBA expands the color buffer into dst as RGBA bytes with alpha
// forced opaque. dst must hold Width*Height*4 bytes.
func (fb *FrameBuffer) WriteRGBA(dst []byte) {
	for i, c := range fb.Color {
		o := i * 4
		dst[o] = uint8(c)
		dst[o+1] = uint8(c >> 8)
		dst[o+2] = uint8(c >> 16)
		dst[o+3] = 0xff
	}
}

// Image copies the color buffer into a new RGBA image.
func (fb *FrameBuffer) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	fb.WriteRGBA(img.Pix)
	return img
}
