package world

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const metroLevel = `
name: test-metro
textures: textures.zip
floor_texture: 3
ceiling_texture: 6
spawn: {x: 2.5, y: 2.5, dir_x: -1, dir_y: 0}
map:
  - [4, 4, 4, 4, 4]
  - [4, 0, 0, 0, 4]
  - [4, 0, 0, 0, 4]
  - [4, 0, 0, 4, 4]
  - [4, 4, 4, 4, 4]
layer:
  - [0, 0, 0, 0, 0]
  - [0, 0, 0, 0, 0]
  - [0, 0, 0, 20, 0]
  - [0, 0, 0, 0, 0]
  - [0, 0, 0, 0, 0]
sprites:
  - {x: 1.5, y: 1.5, texture: 8}
lights:
  - {x: 3.5, y: 1.1, texture: 0}
portals:
  - {id: 0, x: 1.5, y: 3.5, dest_x: 3.5, dest_y: 1.5}
actions:
  - kind: toggle_door
    trigger: {x: 2, y: 2}
    layer_cell: {x: 2, y: 3}
    wall_cell: {x: 3, y: 3}
    open_layer: 21
    closed_layer: 20
    wall_material: 4
`

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel([]byte(metroLevel))
	if err != nil {
		t.Fatalf("ParseLevel: %v", err)
	}
	if level.Name != "test-metro" || level.FloorTexture != 3 || level.CeilingTexture != 6 {
		t.Errorf("unexpected header: %+v", level)
	}
	if level.Grid.Width() != 5 || level.Grid.Height() != 5 {
		t.Errorf("grid %dx%d, want 5x5", level.Grid.Width(), level.Grid.Height())
	}
	if len(level.Portals) != 1 || level.Portals[0].DestX != 3.5 {
		t.Errorf("portals = %+v", level.Portals)
	}
	if err := level.Validate(10); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadLevelFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metro.yaml")
	if err := os.WriteFile(path, []byte(metroLevel), 0o644); err != nil {
		t.Fatal(err)
	}
	level, err := LoadLevel(path)
	if err != nil {
		t.Fatalf("LoadLevel: %v", err)
	}
	if level.Actions[0].Kind != ActionToggleDoor {
		t.Errorf("action kind = %q", level.Actions[0].Kind)
	}
	if _, err := LoadLevel(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidateRejectsMalformedLevels(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(l *Level)
		wantErr error
	}{
		{"material without texture", func(l *Level) { l.Grid.Set(0, 0, 11) }, ErrBadMaterial},
		{"floor slot outside atlas", func(l *Level) { l.FloorTexture = 10 }, ErrBadMaterial},
		{"sprite texture outside atlas", func(l *Level) { l.Sprites[0].Texture = 12 }, ErrBadMaterial},
		{"spawn in wall", func(l *Level) { l.Spawn.X = 0.5 }, ErrCameraInWall},
		{"spawn outside grid", func(l *Level) { l.Spawn.X = -3 }, ErrOutOfGrid},
		{"portal destination in wall", func(l *Level) { l.Portals[0].DestX = 4.5 }, ErrCameraInWall},
		{"sprite outside grid", func(l *Level) { l.Sprites[0].Y = 9 }, ErrOutOfGrid},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			level, err := ParseLevel([]byte(metroLevel))
			if err != nil {
				t.Fatal(err)
			}
			tc.mutate(level)
			if err := level.Validate(10); !errors.Is(err, tc.wantErr) {
				t.Errorf("Validate = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestValidateRejectsBadActions(t *testing.T) {
	level, _ := ParseLevel([]byte(metroLevel))
	level.Actions[0].WallCell = Cell{X: 40, Y: 0}
	if err := level.Validate(10); err == nil {
		t.Error("expected error for action outside grid")
	}

	level, _ = ParseLevel([]byte(metroLevel))
	level.Actions[0].Kind = "explode"
	if err := level.Validate(10); err == nil {
		t.Error("expected error for unknown action kind")
	}

	level, _ = ParseLevel([]byte(metroLevel))
	level.Portals = append(level.Portals, level.Portals[0])
	if err := level.Validate(10); err == nil {
		t.Error("expected error for duplicate portal id")
	}
}

func TestToggleDoorAction(t *testing.T) {
	level, err := ParseLevel([]byte(metroLevel))
	if err != nil {
		t.Fatal(err)
	}

	if level.Trigger(1, 1, nil) {
		t.Fatal("non-trigger cell must not change the grid")
	}

	if !level.Trigger(2, 2, nil) {
		t.Fatal("first trigger should open the door")
	}
	if level.Grid.At(3, 3) != MaterialEmpty || level.Layer.At(2, 3) != 21 {
		t.Errorf("door not open: wall=%d layer=%d", level.Grid.At(3, 3), level.Layer.At(2, 3))
	}

	occupied := func(c Cell) bool { return c == Cell{X: 3, Y: 3} }
	if level.Trigger(2, 2, occupied) {
		t.Error("door must not close on an occupied cell")
	}

	if !level.Trigger(2, 2, nil) {
		t.Fatal("second trigger should close the door")
	}
	if level.Grid.At(3, 3) != 4 || level.Layer.At(2, 3) != 20 {
		t.Errorf("door not closed: wall=%d layer=%d", level.Grid.At(3, 3), level.Layer.At(2, 3))
	}
}

func TestShippedLevelsAreValid(t *testing.T) {
	tests := []struct {
		file     string
		textures int
		portals  int
		actions  int
	}{
		{"first.yaml", 11, 2, 0},
		{"metro.yaml", 16, 2, 1},
	}
	for _, tc := range tests {
		t.Run(tc.file, func(t *testing.T) {
			level, err := LoadLevel(filepath.Join("..", "..", "assets", "levels", tc.file))
			if err != nil {
				t.Fatalf("LoadLevel: %v", err)
			}
			if err := level.Validate(tc.textures); err != nil {
				t.Errorf("Validate: %v", err)
			}
			if len(level.Portals) != tc.portals || len(level.Actions) != tc.actions {
				t.Errorf("portals = %d, actions = %d", len(level.Portals), len(level.Actions))
			}
		})
	}
}
