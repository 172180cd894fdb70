package main

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"sort"

	"github.com/yazgoo/blockish-raycasting/internal/assets"
	"github.com/yazgoo/blockish-raycasting/internal/render"
	"github.com/yazgoo/blockish-raycasting/internal/world"
)

type levelInfo struct {
	Path  string
	Level *world.Level
	// Err is a load error, in which case Level is nil, or a validation
	// error.
	Err error
}

// loadLevels reads every .yaml file of dir, sorted by name. Levels that fail
// to load or validate are kept with their error so the viewer can show it.
func loadLevels(dir string, wallTextures int) ([]levelInfo, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no levels in %s: %w", dir, os.ErrNotExist)
	}
	sort.Strings(paths)

	levels := make([]levelInfo, 0, len(paths))
	for _, path := range paths {
		level, err := world.LoadLevel(path)
		if err == nil {
			err = level.Validate(wallTextures)
		}
		levels = append(levels, levelInfo{Path: path, Level: level, Err: err})
	}
	return levels, nil
}

// fitGrid returns the largest cell size showing a gw×gh grid inside a w×h
// panel, and the origin centering it.
func fitGrid(x, y, w, h, gw, gh int) (tileSize, originX, originY int) {
	tileSize = w / gw
	if alt := h / gh; alt < tileSize {
		tileSize = alt
	}
	if tileSize < 2 {
		tileSize = 2
	}
	originX = x + (w-gw*tileSize)/2
	originY = y + (h-gh*tileSize)/2
	return tileSize, originX, originY
}

var floorColor = color.RGBA{20, 20, 35, 255}

// materialColor shows walls in the colour of their generated texture.
func materialColor(m world.Material) color.RGBA {
	if m == world.MaterialEmpty {
		return floorColor
	}
	r, g, b := render.UnpackRGB(assets.FallbackColor(int(m) - 1))
	return color.RGBA{r, g, b, 255}
}

// levelStats summarizes a level for the info tab.
func levelStats(l *world.Level) []string {
	return []string{
		fmt.Sprintf("Grid: %dx%d", l.Grid.Width(), l.Grid.Height()),
		fmt.Sprintf("Max material: %d", l.Grid.MaxMaterial()),
		fmt.Sprintf("Floor/ceiling: %d/%d", l.FloorTexture, l.CeilingTexture),
		fmt.Sprintf("Sprites: %d", len(l.Sprites)),
		fmt.Sprintf("Lights: %d", len(l.Lights)),
		fmt.Sprintf("Portals: %d", len(l.Portals)),
		fmt.Sprintf("Actions: %d", len(l.Actions)),
	}
}

func legendLines() []string {
	return []string{
		"Markers",
		"-------",
		"Cyan circle: spawn, line = view direction",
		"Yellow square: sprite (texture index)",
		"Orange circle: light",
		"Violet circle: portal, line = destination",
		"A: action trigger cell",
		"",
		"Walls use the colour of their",
		"generated fallback texture.",
	}
}
