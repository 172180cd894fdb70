package game

import (
	"github.com/hajimehoshi/ebiten/v2"
	log "github.com/sirupsen/logrus"

	"github.com/yazgoo/blockish-raycasting/internal/protocol"
	"github.com/yazgoo/blockish-raycasting/internal/world"
)

// movement is one frame of player intent, each axis in [-1, 1].
type movement struct {
	forward float64 // +1 forward, -1 backward
	turn    float64 // +1 left, -1 right
	strafe  float64 // +1 right, -1 left
}

// InputHandler handles all user input for the game
type InputHandler struct {
	game *MMGame
}

// NewInputHandler creates a new input handler
func NewInputHandler(game *MMGame) *InputHandler {
	return &InputHandler{game: game}
}

// HandleInput processes all input for the current frame. dt is the frame
// duration in seconds.
func (ih *InputHandler) HandleInput(dt float64) {
	ih.game.applyMovement(readMovement(), dt)

	keys := ih.game.keys
	if keys.IsKeyJustPressed(ebiten.KeySpace) {
		ih.game.act()
	}
	if keys.IsKeyJustPressed(ebiten.KeyTab) {
		ih.game.showStats = !ih.game.showStats
	}
	if keys.IsKeyJustPressed(ebiten.KeyF12) {
		ih.game.takeScreenshot()
	}
}

func readMovement() movement {
	var m movement
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) || ebiten.IsKeyPressed(ebiten.KeyW) {
		m.forward++
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) || ebiten.IsKeyPressed(ebiten.KeyS) {
		m.forward--
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) || ebiten.IsKeyPressed(ebiten.KeyA) {
		m.turn++
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) || ebiten.IsKeyPressed(ebiten.KeyD) {
		m.turn--
	}
	if ebiten.IsKeyPressed(ebiten.KeyE) {
		m.strafe++
	}
	if ebiten.IsKeyPressed(ebiten.KeyQ) {
		m.strafe--
	}
	return m
}

// applyMovement turns and moves the camera. Each axis of a move is
// blocked independently by walls so the player slides along them.
func (g *MMGame) applyMovement(m movement, dt float64) {
	g.speed = 0
	grid := g.world.grid
	if !g.placed || grid == nil {
		return
	}
	if m.turn != 0 {
		g.camera = g.camera.Rotate(m.turn * g.config.GetRotSpeed() * dt)
	}

	step := g.config.GetMoveSpeed() * dt
	dx, dy := g.camera.Forward(m.forward * step)
	sx, sy := g.camera.Strafe(m.strafe * step)
	if dx == 0 && dy == 0 && sx == 0 && sy == 0 {
		return
	}
	x, y := grid.TryMove(g.camera.PosX, g.camera.PosY, dx+sx, dy+sy)
	g.camera = g.camera.At(x, y)
	g.speed = m.forward * g.config.GetMoveSpeed()
}

// act fires the action of the cell the player stands on.
func (g *MMGame) act() {
	if !g.placed {
		return
	}
	cell := world.CellOf(g.camera.PosX, g.camera.PosY)
	if err := g.session.Send(protocol.Action{X: cell.X, Y: cell.Y}); err != nil {
		log.WithError(err).Warn("failed to send action")
	}
}
