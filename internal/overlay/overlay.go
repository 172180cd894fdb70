// Package overlay rasterizes server messages and blends them over a frame.
package overlay

import (
	"fmt"
	"image"
	"time"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"

	"github.com/yazgoo/blockish-raycasting/internal/render"
)

// Default text box size in pixels.
const (
	DefaultWidth  = 300
	DefaultHeight = 40
)

// Overlay holds the current message as an alpha mask anchored at the top
// left corner of the frame.
type Overlay struct {
	face    font.Face
	mask    *image.Alpha
	text    string
	expires time.Time
}

// New creates an overlay drawing with the Go regular font at fontSize
// points into a width×height box.
func New(fontSize float64, width, height int) (*Overlay, error) {
	tt, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	const dpi = 72
	face := truetype.NewFace(tt, &truetype.Options{
		Size:    fontSize,
		DPI:     dpi,
		Hinting: font.HintingFull,
	})
	return &Overlay{
		face: face,
		mask: image.NewAlpha(image.Rect(0, 0, width, height)),
	}, nil
}

// Show replaces the message. It is cleared once now passes now+d.
func (o *Overlay) Show(text string, d time.Duration, now time.Time) {
	o.text = text
	o.expires = now.Add(d)
	o.rasterize()
}

// Text returns the message currently displayed.
func (o *Overlay) Text() string { return o.text }

// Update clears an expired message.
func (o *Overlay) Update(now time.Time) {
	if o.text != "" && now.After(o.expires) {
		o.text = ""
		o.rasterize()
	}
}

func (o *Overlay) rasterize() {
	for i := range o.mask.Pix {
		o.mask.Pix[i] = 0
	}
	if o.text == "" {
		return
	}
	ascent := o.face.Metrics().Ascent
	d := &font.Drawer{
		Dst:  o.mask,
		Src:  image.Opaque,
		Face: o.face,
		Dot:  fixed.Point26_6{X: fixed.I(4), Y: ascent + fixed.I(4)},
	}
	d.DrawString(o.text)
}

// Apply ORs the message as gray into the top left of fb.
func (o *Overlay) Apply(fb *render.FrameBuffer) {
	if o.text == "" {
		return
	}
	b := o.mask.Bounds()
	w := min(b.Dx(), fb.Width)
	h := min(b.Dy(), fb.Height)
	for y := 0; y < h; y++ {
		row := o.mask.Pix[y*o.mask.Stride:]
		for x := 0; x < w; x++ {
			a := uint32(row[x])
			if a == 0 {
				continue
			}
			fb.Color[y*fb.Width+x] |= a | a<<8 | a<<16
		}
	}
}
