package main

import (
	"flag"
	"math/rand"
	"net/http"
	"time"

	"github.com/matryer/way"
	log "github.com/sirupsen/logrus"

	"github.com/yazgoo/blockish-raycasting/internal/config"
	"github.com/yazgoo/blockish-raycasting/internal/netplay"
	"github.com/yazgoo/blockish-raycasting/internal/world"
)

type Server struct {
	router     *way.Router
	GameServer *netplay.Server
}

// maxWallTextures bounds material ids when the server has no atlas to
// check against; clients validate again once textures are loaded.
const maxWallTextures = 255

func main() {
	configPath := flag.String("config", "config.yaml", "config file")
	levelPath := flag.String("level", "", "level file, overrides the config")
	addr := flag.String("addr", "", "listen address, overrides the config")
	flag.Parse()

	cfg := config.MustLoadConfig(*configPath)
	if *levelPath != "" {
		cfg.Level.Path = *levelPath
	}
	if *addr != "" {
		cfg.Network.ListenAddress = *addr
	}

	level, err := world.LoadLevel(cfg.Level.Path)
	if err != nil {
		log.Fatalf("Failed to load level: %v", err)
	}
	if err := level.Validate(maxWallTextures); err != nil {
		log.Fatalf("Invalid level %s: %v", cfg.Level.Path, err)
	}

	game := netplay.NewGame(level, netplay.RulesFromConfig(cfg), rand.New(rand.NewSource(time.Now().UnixNano())))

	s := Server{GameServer: netplay.NewServer(game)}
	s.routes()
	log.WithFields(log.Fields{"addr": cfg.Network.ListenAddress, "level": level.Name}).Info("serving")
	log.Fatalln(http.ListenAndServe(cfg.Network.ListenAddress, s.router))
}
