package game

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	log "github.com/sirupsen/logrus"

	"github.com/yazgoo/blockish-raycasting/internal/config"
	"github.com/yazgoo/blockish-raycasting/internal/game/keytracker"
	"github.com/yazgoo/blockish-raycasting/internal/netplay"
	"github.com/yazgoo/blockish-raycasting/internal/overlay"
	"github.com/yazgoo/blockish-raycasting/internal/render"
	"github.com/yazgoo/blockish-raycasting/internal/sound"
	"github.com/yazgoo/blockish-raycasting/internal/threading"
)

// Options carries the collaborators of a Game that main creates.
type Options struct {
	// Sounds plays effects. Nil mutes the game.
	Sounds *sound.Bank
	// ScreenshotDir receives F12 screenshots. Empty means the working
	// directory.
	ScreenshotDir string
}

// MMGame is the client: it renders the world the server describes and
// sends the player's moves back.
type MMGame struct {
	config    *config.Config
	session   netplay.Session
	threading *threading.ThreadingComponents
	gameLoop  *GameLoop

	renderer *render.Renderer
	frame    *render.FrameBuffer
	pixels   []byte
	screen   *ebiten.Image

	overlay *overlay.Overlay
	sounds  *sound.Bank

	world   *worldState
	avatars *Avatars
	anim    *Animator

	camera    render.Camera
	speed     float64
	placed    bool
	tick      int
	lastSend  time.Time
	showStats bool
	keys      *keytracker.KeyStateTracker

	screenshotDir string
	now           func() time.Time
}

// NewMMGame creates a game talking to session.
func NewMMGame(cfg *config.Config, session netplay.Session, opts Options) (*MMGame, error) {
	ov, err := overlay.New(cfg.Assets.FontSize, overlay.DefaultWidth, overlay.DefaultHeight)
	if err != nil {
		return nil, err
	}
	sounds := opts.Sounds
	if sounds == nil {
		sounds = sound.NewBank(nil)
	}

	props, err := loadPropAtlases(cfg)
	if err != nil {
		return nil, err
	}

	g := &MMGame{
		config:        cfg,
		session:       session,
		threading:     threading.NewThreadingComponents(cfg.Render.Workers),
		frame:         render.NewFrameBuffer(cfg.GetScreenWidth(), cfg.GetScreenHeight()),
		overlay:       ov,
		sounds:        sounds,
		world:         newWorldState(cfg, props),
		avatars:       NewAvatars(cfg.GetSendInterval()),
		anim:          NewAnimator(cfg.GetAnimationInterval(), props.coins.Len(), props.torches.Len()),
		keys:          keytracker.New(),
		screenshotDir: opts.ScreenshotDir,
		now:           time.Now,
	}
	g.pixels = make([]byte, 4*g.frame.Width*g.frame.Height)
	g.threading.PerformanceMonitor.SetFrameBudget(cfg.GetFrameBudget())

	var spans render.Spanner
	if g.threading.ParallelRenderer != nil {
		spans = g.threading.ParallelRenderer
	}
	g.renderer = render.NewRenderer(render.Options{
		PortalThreshold: cfg.Render.PortalThreshold,
		BorderWidth:     cfg.Render.PortalBorderWidth,
	}, spans, g.threading.PerformanceMonitor)
	g.renderer.OnTeleport = g.onTeleport

	g.gameLoop = NewGameLoop(g)
	g.overlay.Show("loading...", cfg.GetTextDuration(), g.now())
	return g, nil
}

func (g *MMGame) onTeleport(tp render.Teleport) {
	g.threading.PerformanceMonitor.RecordTeleport()
	g.sounds.Play(sound.EffectTeleport)
	log.WithFields(log.Fields{
		"portal": tp.PortalID,
		"x":      tp.To.PosX,
		"y":      tp.To.PosY,
	}).Debug("teleported")
}

// Camera returns the player's pose.
func (g *MMGame) Camera() render.Camera { return g.camera }

// Update implements ebiten.Game.
func (g *MMGame) Update() error {
	return g.gameLoop.Update()
}

// Draw implements ebiten.Game.
func (g *MMGame) Draw(screen *ebiten.Image) {
	g.gameLoop.Draw(screen)
}

// Layout implements ebiten.Game. The frame is rendered at the configured
// resolution and scaled by ebiten to the window.
func (g *MMGame) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return g.config.GetScreenWidth(), g.config.GetScreenHeight()
}

// Close leaves the server and stops the render workers.
func (g *MMGame) Close() error {
	g.threading.Shutdown()
	return g.session.Close()
}
