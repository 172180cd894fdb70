package game

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/yazgoo/blockish-raycasting/internal/assets"
	"github.com/yazgoo/blockish-raycasting/internal/config"
	"github.com/yazgoo/blockish-raycasting/internal/mathutil"
	"github.com/yazgoo/blockish-raycasting/internal/protocol"
	"github.com/yazgoo/blockish-raycasting/internal/render"
	"github.com/yazgoo/blockish-raycasting/internal/world"
)

// Fallback colours of the generated sprite frames, packed as PackRGB does.
const (
	coinColor       = 0x00d7ff
	torchColor      = 0x008cff
	coinFrameCount  = 9
	torchFrameCount = 6
	// minFallbackTextures covers the floor and ceiling slots of the
	// shipped levels before the grid is known.
	minFallbackTextures = 11
)

// propAtlases are the client-side atlases that do not come from the
// server.
type propAtlases struct {
	avatars *render.Atlas
	coins   *render.Atlas
	torches *render.Atlas
}

func loadPropAtlases(cfg *config.Config) (propAtlases, error) {
	var p propAtlases
	var err error

	texSize := cfg.Render.TextureSize
	avatar := [][]byte{assets.Checkerboard(texSize, render.FormatRGB, 0x3030c0, 0xc0c0c0)}
	if path := cfg.Assets.AvatarTexture; path != "" {
		if avatar, err = assets.LoadFrames(texSize, render.FormatRGB, path); err != nil {
			return p, err
		}
	}
	if p.avatars, err = render.NewAtlas(texSize, render.FormatRGB, avatar); err != nil {
		return p, err
	}

	spriteSize := cfg.Render.SpriteSize
	if p.coins, err = frameAtlas(spriteSize, cfg.Assets.CoinFrames, coinFrameCount, coinColor); err != nil {
		return p, fmt.Errorf("coin frames: %w", err)
	}
	if p.torches, err = frameAtlas(spriteSize, cfg.Assets.TorchFrames, torchFrameCount, torchColor); err != nil {
		return p, fmt.Errorf("torch frames: %w", err)
	}
	return p, nil
}

func frameAtlas(size int, paths []string, fallback int, color uint32) (*render.Atlas, error) {
	if len(paths) == 0 {
		return render.NewAtlas(size, render.FormatRGBA, assets.FallbackFrames(fallback, size, color))
	}
	frames, err := assets.LoadFrames(size, render.FormatRGBA, paths...)
	if err != nil {
		return nil, err
	}
	return render.NewAtlas(size, render.FormatRGBA, frames)
}

// worldState is what the server told us about the world. Every message
// replaces one part of it and buildScene assembles what to draw.
type worldState struct {
	textureSize int
	props       propAtlases

	grid        *world.Grid
	walls       *render.Atlas
	archive     string
	floorSlot   int
	ceilingSlot int
	sprites     []world.Sprite
	lights      []world.Sprite
	coins       []world.Sprite
	portals     []world.Portal

	// scene is the last scene that validated.
	scene *render.Scene
	dirty bool
}

func newWorldState(cfg *config.Config, props propAtlases) *worldState {
	return &worldState{textureSize: cfg.Render.TextureSize, props: props}
}

func (w *worldState) setGrid(rows [][]world.Material) error {
	grid, err := world.GridFromRows(rows)
	if err != nil {
		return err
	}
	w.grid = grid
	w.dirty = true
	return w.growFallback()
}

func (w *worldState) setTextures(t protocol.Textures) error {
	w.floorSlot = t.FloorTexture
	w.ceilingSlot = t.CeilingTexture
	w.dirty = true
	return w.loadWalls(t.Archive)
}

// loadWalls replaces the wall atlas with the archive at path, or with
// generated textures when path is empty or cannot be read.
func (w *worldState) loadWalls(path string) error {
	w.archive = path
	if path != "" {
		atlas, err := loadAtlas(path, w.textureSize)
		if err == nil {
			w.walls = atlas
			return nil
		}
		log.WithError(err).WithField("archive", path).Warn("falling back to generated wall textures")
		w.archive = ""
	}
	atlas, err := render.NewAtlas(w.textureSize, render.FormatRGB,
		assets.FallbackTextures(w.fallbackCount(), w.textureSize, render.FormatRGB))
	if err != nil {
		return err
	}
	w.walls = atlas
	return nil
}

func loadAtlas(path string, size int) (*render.Atlas, error) {
	textures, err := assets.Load(path, size, render.FormatRGB)
	if err != nil {
		return nil, err
	}
	return render.NewAtlas(size, render.FormatRGB, textures)
}

// growFallback regenerates a generated atlas that no longer covers the
// world.
func (w *worldState) growFallback() error {
	if w.archive != "" || w.walls == nil || w.fallbackCount() <= w.walls.Len() {
		return nil
	}
	return w.loadWalls("")
}

func (w *worldState) fallbackCount() int {
	n := mathutil.IntMax(minFallbackTextures, mathutil.IntMax(w.floorSlot, w.ceilingSlot)+1)
	if w.grid != nil {
		n = mathutil.IntMax(n, int(w.grid.MaxMaterial()))
	}
	for _, s := range w.sprites {
		n = mathutil.IntMax(n, s.Texture+1)
	}
	return n
}

func (w *worldState) setSprites(s protocol.Sprites) error {
	w.sprites = s.Sprites
	w.lights = s.Lights
	w.dirty = true
	return w.growFallback()
}

func (w *worldState) setCoins(coins []protocol.Coin) {
	w.coins = make([]world.Sprite, 0, len(coins))
	for _, c := range coins {
		w.coins = append(w.coins, world.Sprite{X: c.X, Y: c.Y})
	}
	w.dirty = true
}

func (w *worldState) setPortals(p []world.Portal) {
	w.portals = p
	w.dirty = true
}

// buildScene returns the scene to draw. It is nil until the server has
// sent enough to draw a frame; an update that does not validate keeps the
// last good scene.
func (w *worldState) buildScene(avatars []world.Sprite, coinFrame, torchFrame int) *render.Scene {
	if w.grid == nil || w.walls == nil {
		return nil
	}
	scene := &render.Scene{
		Grid:        w.grid,
		Walls:       w.walls,
		FloorSlot:   w.floorSlot,
		CeilingSlot: w.ceilingSlot,
		Groups:      w.groups(avatars, coinFrame, torchFrame),
		Portals:     w.portals,
	}
	if err := scene.Validate(); err != nil {
		if w.dirty {
			log.WithError(err).Error("ignoring world update")
		}
		w.dirty = false
		return w.scene
	}
	w.dirty = false
	w.scene = scene
	return scene
}

// groups composites props in a fixed order: level sprites, other players,
// coins, then lights.
func (w *worldState) groups(avatars []world.Sprite, coinFrame, torchFrame int) []render.SpriteGroup {
	return []render.SpriteGroup{
		render.NewOpaqueGroup(w.sprites, w.walls),
		render.NewOpaqueGroup(avatars, w.props.avatars),
		render.NewAlphaGroup(withTexture(w.coins, coinFrame), w.props.coins),
		render.NewAlphaGroup(withTexture(w.lights, torchFrame), w.props.torches),
	}
}

func withTexture(sprites []world.Sprite, texture int) []world.Sprite {
	out := make([]world.Sprite, len(sprites))
	for i, s := range sprites {
		s.Texture = texture
		out[i] = s
	}
	return out
}
