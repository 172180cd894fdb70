package main

import (
	"context"
	"flag"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	log "github.com/sirupsen/logrus"

	"github.com/yazgoo/blockish-raycasting/internal/config"
	"github.com/yazgoo/blockish-raycasting/internal/game"
	"github.com/yazgoo/blockish-raycasting/internal/netplay"
	"github.com/yazgoo/blockish-raycasting/internal/sound"
	"github.com/yazgoo/blockish-raycasting/internal/world"
)

// maxWallTextures bounds level materials when no atlas is known yet.
const maxWallTextures = 255

func main() {
	configPath := flag.String("config", "config.yaml", "configuration file")
	levelPath := flag.String("level", "", "level to play offline, overrides level.path")
	offline := flag.Bool("offline", false, "play alone without a server")
	flag.Parse()

	// Load configuration
	cfg := config.MustLoadConfig(*configPath)
	if *levelPath != "" {
		cfg.Level.Path = *levelPath
	}

	session, err := connect(cfg, *offline)
	if err != nil {
		log.WithError(err).Fatal("failed to join a game")
	}

	sounds := sound.NewBank(audio.NewContext(sound.SampleRate))
	for effect, path := range map[sound.Effect]string{
		sound.EffectTeleport: cfg.Assets.TeleportSound,
		sound.EffectCoin:     cfg.Assets.CoinSound,
	} {
		if err := sounds.Load(effect, path); err != nil {
			log.WithError(err).WithField("effect", effect).Warn("failed to load sound")
		}
	}

	g, err := game.NewMMGame(cfg, session, game.Options{Sounds: sounds})
	if err != nil {
		log.WithError(err).Fatal("failed to create game")
	}
	defer g.Close()

	// Set window properties from config
	ebiten.SetWindowSize(cfg.GetScreenWidth()*cfg.Display.Scale, cfg.GetScreenHeight()*cfg.Display.Scale)
	ebiten.SetWindowTitle(cfg.Display.WindowTitle)
	if cfg.Display.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}

	if err := ebiten.RunGame(g); err != nil {
		log.WithError(err).Error("game stopped")
	}
}

// connect dials the configured server, or hosts the level in process when
// offline.
func connect(cfg *config.Config, offline bool) (netplay.Session, error) {
	nickname := cfg.Network.Nickname
	if !offline {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		client, err := netplay.Dial(ctx, cfg.Network.ServerURL, nickname)
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	level, err := world.LoadLevel(cfg.Level.Path)
	if err != nil {
		return nil, err
	}
	if err := level.Validate(maxWallTextures); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return netplay.NewLocal(netplay.NewGame(level, netplay.RulesFromConfig(cfg), rng), nickname), nil
}
