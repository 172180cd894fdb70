package game

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/yazgoo/blockish-raycasting/internal/protocol"
	"github.com/yazgoo/blockish-raycasting/internal/render"
	"github.com/yazgoo/blockish-raycasting/internal/sound"
)

// pollSession applies every message the server sent since the last frame.
func (g *MMGame) pollSession() {
	for _, m := range g.session.Poll() {
		g.threading.PerformanceMonitor.RecordMessage()
		if err := g.applyMessage(m); err != nil {
			log.WithError(err).WithField("type", m.MessageType()).Error("failed to apply message")
		}
	}
}

func (g *MMGame) applyMessage(m protocol.Message) error {
	w := g.world
	switch m := m.(type) {
	case protocol.Teleport:
		p := m.Position
		g.camera = render.NewCamera(p.X, p.Y, p.DirX, p.DirY, g.config.Camera.FieldOfView)
		g.placed = true
	case protocol.WorldMap:
		return w.setGrid(m.Rows)
	case protocol.Sprites:
		return w.setSprites(m)
	case protocol.Textures:
		return w.setTextures(m)
	case protocol.GoldCoins:
		if w.coins != nil {
			g.sounds.Play(sound.EffectCoin)
		}
		w.setCoins(m.Coins)
	case protocol.Portals:
		w.setPortals(m.Portals)
	case protocol.Positions:
		g.avatars.SetPositions(m.Players)
	case protocol.Text:
		g.overlay.Show(m.Text, time.Duration(m.Seconds*float64(time.Second)), g.now())
	default:
		log.WithField("type", m.MessageType()).Warn("unexpected message from server")
	}
	return nil
}

// sendPosition reports the pose at most once per send interval.
func (g *MMGame) sendPosition(now time.Time) {
	if !g.placed || now.Sub(g.lastSend) < g.config.GetSendInterval() {
		return
	}
	g.lastSend = now
	c := g.camera
	err := g.session.Send(protocol.Position{
		X:     c.PosX,
		Y:     c.PosY,
		DirX:  c.DirX,
		DirY:  c.DirY,
		Speed: g.speed,
	})
	if err != nil {
		log.WithError(err).Warn("failed to send position")
	}
}
