package world

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// levelFile is the on-disk YAML shape of a level. Map and layer rows are
// indexed [x][y].
type levelFile struct {
	Name           string       `yaml:"name"`
	Textures       string       `yaml:"textures"`
	FloorTexture   int          `yaml:"floor_texture"`
	CeilingTexture int          `yaml:"ceiling_texture"`
	Spawn          Spawn        `yaml:"spawn"`
	Map            [][]Material `yaml:"map"`
	Layer          [][]Material `yaml:"layer"`
	Sprites        []Sprite     `yaml:"sprites"`
	Lights         []Sprite     `yaml:"lights"`
	Portals        []Portal     `yaml:"portals"`
	Actions        []Action     `yaml:"actions"`
}

// LoadLevel reads and parses a level file. Validation against an atlas is
// left to the caller, which knows the atlas size.
func LoadLevel(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read level file %s: %w", path, err)
	}
	level, err := ParseLevel(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse level file %s: %w", path, err)
	}
	log.WithFields(log.Fields{
		"level":   level.Name,
		"width":   level.Grid.Width(),
		"height":  level.Grid.Height(),
		"sprites": len(level.Sprites),
		"portals": len(level.Portals),
	}).Info("level loaded")
	return level, nil
}

// ParseLevel decodes a YAML level.
func ParseLevel(data []byte) (*Level, error) {
	var lf levelFile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return nil, err
	}
	grid, err := GridFromRows(lf.Map)
	if err != nil {
		return nil, fmt.Errorf("map: %w", err)
	}
	var layer *Grid
	if len(lf.Layer) > 0 {
		if layer, err = GridFromRows(lf.Layer); err != nil {
			return nil, fmt.Errorf("layer: %w", err)
		}
	} else {
		layer = NewGrid(grid.Width(), grid.Height())
	}
	spawn := lf.Spawn
	if spawn.DirX == 0 && spawn.DirY == 0 {
		spawn.DirX = -1
	}
	return &Level{
		Name:           lf.Name,
		Textures:       lf.Textures,
		FloorTexture:   lf.FloorTexture,
		CeilingTexture: lf.CeilingTexture,
		Spawn:          spawn,
		Grid:           grid,
		Layer:          layer,
		Sprites:        lf.Sprites,
		Lights:         lf.Lights,
		Portals:        lf.Portals,
		Actions:        lf.Actions,
	}, nil
}
