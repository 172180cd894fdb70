package game

import (
	"sort"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/yazgoo/blockish-raycasting/internal/protocol"
	"github.com/yazgoo/blockish-raycasting/internal/world"
)

type avatar struct {
	x, y   float32
	tweenX *gween.Tween
	tweenY *gween.Tween
}

// Avatars tracks the other players. Positions arrive every send interval,
// so each avatar glides to its new position over that interval instead of
// jumping.
type Avatars struct {
	byName   map[string]*avatar
	duration float32
}

// NewAvatars creates an empty set gliding over d.
func NewAvatars(d time.Duration) *Avatars {
	return &Avatars{byName: make(map[string]*avatar), duration: float32(d.Seconds())}
}

// SetPositions replaces the set of players. New players appear at their
// position; known players start gliding from where they are drawn now.
func (a *Avatars) SetPositions(players []protocol.Player) {
	seen := make(map[string]bool, len(players))
	for _, p := range players {
		seen[p.Nickname] = true
		x, y := float32(p.Position.X), float32(p.Position.Y)
		av, ok := a.byName[p.Nickname]
		if !ok || a.duration <= 0 {
			a.byName[p.Nickname] = &avatar{x: x, y: y}
			continue
		}
		av.tweenX = gween.New(av.x, x, a.duration, ease.Linear)
		av.tweenY = gween.New(av.y, y, a.duration, ease.Linear)
	}
	for name := range a.byName {
		if !seen[name] {
			delete(a.byName, name)
		}
	}
}

// Update advances every glide by dt seconds.
func (a *Avatars) Update(dt float32) {
	for _, av := range a.byName {
		if av.tweenX != nil {
			var done bool
			if av.x, done = av.tweenX.Update(dt); done {
				av.tweenX = nil
			}
		}
		if av.tweenY != nil {
			var done bool
			if av.y, done = av.tweenY.Update(dt); done {
				av.tweenY = nil
			}
		}
	}
}

// Len returns the number of players shown.
func (a *Avatars) Len() int { return len(a.byName) }

// Sprites returns one sprite per player, ordered by nickname.
func (a *Avatars) Sprites() []world.Sprite {
	names := make([]string, 0, len(a.byName))
	for name := range a.byName {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]world.Sprite, len(names))
	for i, name := range names {
		av := a.byName[name]
		out[i] = world.Sprite{X: float64(av.x), Y: float64(av.y)}
	}
	return out
}
