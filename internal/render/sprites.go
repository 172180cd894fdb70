package render

import (
	"sort"

	"github.com/yazgoo/blockish-raycasting/internal/mathutil"
	"github.com/yazgoo/blockish-raycasting/internal/world"
)

// DefaultBorderWidth is the width in pixels of the animated portal border.
const DefaultBorderWidth = 3

// alphaCutoff is the alpha value from which an RGBA texel is drawn.
const alphaCutoff = 0x80

type groupMode int

const (
	modeOpaque groupMode = iota
	modeAlpha
	modePortal
)

func (m groupMode) String() string {
	switch m {
	case modeOpaque:
		return "opaque"
	case modeAlpha:
		return "alpha"
	case modePortal:
		return "portal"
	default:
		return "unknown"
	}
}

// DynamicTexture is an RGBA texture rewritten every frame, sampled in
// screen space by portal groups.
type DynamicTexture struct {
	Width  int
	Height int
	Pix    []byte
}

// NewDynamicTexture allocates a w×h RGBA texture.
func NewDynamicTexture(w, h int) *DynamicTexture {
	return &DynamicTexture{Width: w, Height: h, Pix: make([]byte, w*h*4)}
}

// SpriteGroup is a list of sprites sharing one texture source and one
// compositing mode. Build groups with NewOpaqueGroup, NewAlphaGroup or
// NewPortalGroup.
type SpriteGroup struct {
	mode    groupMode
	sprites []world.Sprite
	atlas   *Atlas
	dynamic []*DynamicTexture
	border  int
}

// NewOpaqueGroup draws sprites from an atlas, treating black texels as
// transparent.
func NewOpaqueGroup(sprites []world.Sprite, atlas *Atlas) SpriteGroup {
	return SpriteGroup{mode: modeOpaque, sprites: sprites, atlas: atlas}
}

// NewAlphaGroup draws sprites from an RGBA atlas, skipping texels whose
// alpha is below one half.
func NewAlphaGroup(sprites []world.Sprite, atlas *Atlas) SpriteGroup {
	return SpriteGroup{mode: modeAlpha, sprites: sprites, atlas: atlas}
}

// NewPortalGroup draws sprites whose interior samples textures[sprite.Texture]
// at the screen position being drawn, framed by an animated border of
// border pixels on the left and right edges.
func NewPortalGroup(sprites []world.Sprite, textures []*DynamicTexture, border int) SpriteGroup {
	return SpriteGroup{mode: modePortal, sprites: sprites, dynamic: textures, border: border}
}

// Len returns the number of sprites in the group.
func (g SpriteGroup) Len() int { return len(g.sprites) }

// CompositeStats counts the pixels written by Composite.
type CompositeStats struct {
	Drawn       int
	BorderDrawn int
}

// Add accumulates o into s.
func (s *CompositeStats) Add(o CompositeStats) {
	s.Drawn += o.Drawn
	s.BorderDrawn += o.BorderDrawn
}

// FullScreen reports whether a portal covered the whole view: something
// was drawn and no border pixel was visible.
func (s CompositeStats) FullScreen() bool {
	return s.Drawn > 0 && s.BorderDrawn == 0
}

// Composite draws the groups over fb in the given order. Inside a group
// sprites are drawn back to front. A sprite column is drawn only where the
// sprite is nearer than the wall recorded in fb.Depth. tick drives the
// portal border animation.
func Composite(fb *FrameBuffer, cam Camera, groups []SpriteGroup, tick int) CompositeStats {
	var stats CompositeStats
	for i := range groups {
		stats.Add(compositeGroup(fb, cam, &groups[i], tick))
	}
	return stats
}

type projected struct {
	sprite world.Sprite
	dist   float64
}

func compositeGroup(fb *FrameBuffer, cam Camera, g *SpriteGroup, tick int) CompositeStats {
	var stats CompositeStats
	if len(g.sprites) == 0 {
		return stats
	}

	order := make([]projected, len(g.sprites))
	for i, s := range g.sprites {
		dx, dy := cam.PosX-s.X, cam.PosY-s.Y
		order[i] = projected{sprite: s, dist: dx*dx + dy*dy}
	}
	sort.SliceStable(order, func(i, j int) bool { return order[i].dist > order[j].dist })

	w, h := fb.Width, fb.Height
	invDet := 1 / (cam.PlaneX*cam.DirY - cam.DirX*cam.PlaneY)

	for _, p := range order {
		spriteX := p.sprite.X - cam.PosX
		spriteY := p.sprite.Y - cam.PosY

		transformX := invDet * (cam.DirY*spriteX - cam.DirX*spriteY)
		transformY := invDet * (-cam.PlaneY*spriteX + cam.PlaneX*spriteY)
		if !(transformY > 0) {
			continue
		}

		screenF := float64(w) / 2 * (1 + transformX/transformY)
		sizeF := float64(h) / transformY
		if sizeF > maxLineHeight {
			sizeF = maxLineHeight
		}
		if screenF > maxLineHeight || screenF < -maxLineHeight {
			continue
		}
		screenX := int(screenF)
		size := mathutil.IntAbs(int(sizeF))
		if size == 0 {
			continue
		}

		startY := h/2 - size/2
		endY := h/2 + size/2
		startX := screenX - size/2
		endX := screenX + size/2

		x0, x1 := max(startX, 0), min(endX, w)
		y0, y1 := max(startY, 0), min(endY, h)

		for stripe := x0; stripe < x1; stripe++ {
			if !(transformY < fb.Depth[stripe]) {
				continue
			}
			switch g.mode {
			case modePortal:
				tex := g.dynamic[p.sprite.Texture]
				border := stripe <= startX+g.border || stripe >= endX-g.border
				for y := y0; y < y1; y++ {
					i := y*w + stripe
					if border {
						fb.Color[i] = 0xffff00 | uint32(((y+tick)*10)%0xff)
						stats.BorderDrawn++
					} else {
						fb.Color[i] = tex.screenTexel(stripe, y, w, h)
					}
					stats.Drawn++
				}
			default:
				a := g.atlas
				texX := mathutil.ClampInt((stripe-startX)*a.Size/size, 0, a.Size-1)
				for y := y0; y < y1; y++ {
					texY := mathutil.ClampInt((y-startY)*a.Size/size, 0, a.Size-1)
					c, alpha := a.texel(p.sprite.Texture, texX, texY)
					if g.mode == modeAlpha && alpha < alphaCutoff {
						continue
					}
					if g.mode == modeOpaque && c&0xFFFFFF == 0 {
						continue
					}
					fb.Color[y*w+stripe] = c
					stats.Drawn++
				}
			}
		}
	}
	return stats
}

// screenTexel samples the texture at screen position (x, y) of a w×h frame.
func (t *DynamicTexture) screenTexel(x, y, w, h int) uint32 {
	if t.Width != w || t.Height != h {
		x = x * t.Width / w
		y = y * t.Height / h
	}
	o := (y*t.Width + x) * 4
	return uint32(t.Pix[o]) | uint32(t.Pix[o+1])<<8 | uint32(t.Pix[o+2])<<16
}
