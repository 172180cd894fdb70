package game

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	log "github.com/sirupsen/logrus"
)

// alertInterval is the number of updates between performance reports.
const alertInterval = 120

// GameLoop manages the main game update and render cycle
type GameLoop struct {
	game         *MMGame
	inputHandler *InputHandler
}

// NewGameLoop creates a new game loop manager
func NewGameLoop(game *MMGame) *GameLoop {
	return &GameLoop{
		game:         game,
		inputHandler: NewInputHandler(game),
	}
}

// Update handles all game logic updates for one frame
func (gl *GameLoop) Update() error {
	g := gl.game
	now := g.now()
	dt := 1 / float64(ebiten.TPS())

	g.pollSession()
	gl.inputHandler.HandleInput(dt)
	g.advance(now, dt)
	return nil
}

// advance runs the per-update work that does not read input. The tick
// counts updates so portal borders animate at the same speed whatever the
// draw rate.
func (g *MMGame) advance(now time.Time, dt float64) {
	g.avatars.Update(float32(dt))
	g.anim.Advance(now)
	g.sendPosition(now)
	g.overlay.Update(now)

	g.tick++
	if g.tick%alertInterval == 0 {
		g.reportPerformance()
	}
}

// reportPerformance logs the monitor counters and any alert at debug level.
func (g *MMGame) reportPerformance() {
	if !log.IsLevelEnabled(log.DebugLevel) {
		return
	}
	log.WithFields(log.Fields(g.threading.GetDetailedPerformanceStats())).Debug("performance")
	for _, alert := range g.threading.CheckPerformanceAlerts() {
		log.WithFields(log.Fields{
			"type":      alert.Type,
			"value":     alert.Value,
			"threshold": alert.Threshold,
		}).Debug(alert.Message)
	}
}

// Draw renders the world, the server text and the optional stats line.
func (gl *GameLoop) Draw(screen *ebiten.Image) {
	g := gl.game
	g.renderFrame()

	g.frame.WriteRGBA(g.pixels)
	if g.screen == nil {
		g.screen = ebiten.NewImage(g.frame.Width, g.frame.Height)
	}
	g.screen.WritePixels(g.pixels)
	screen.DrawImage(g.screen, nil)

	if g.showStats || g.config.Display.ShowStats {
		ebitenutil.DebugPrintAt(screen, g.threading.PerformanceMonitor.Summary(), 4, g.frame.Height-16)
	}
}

// renderFrame draws one frame into the frame buffer and follows any
// portal the camera went through.
func (g *MMGame) renderFrame() {
	frameTimer := g.threading.PerformanceMonitor.StartFrame()
	defer frameTimer.EndFrame()

	coin, torch := g.anim.Frames()
	scene := g.world.buildScene(g.avatars.Sprites(), coin, torch)
	if scene == nil || !g.placed {
		g.frame.Clear()
	} else {
		res := g.renderer.Render(g.frame, scene, g.camera, g.tick)
		if res.Teleported {
			g.camera = res.Camera
		}
	}
	g.overlay.Apply(g.frame)
}
