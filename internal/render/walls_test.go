package render

import (
	"math"
	"testing"

	"github.com/yazgoo/blockish-raycasting/internal/world"
)

// expectedBoxDistance is the ray parameter at which the ray from (px, py)
// meets the inner faces of a size×size box border. With ray = dir+plane·x
// this equals the perpendicular distance.
func expectedBoxDistance(size int, px, py, rx, ry float64) float64 {
	lo, hi := 1.0, float64(size-1)
	tx, ty := math.Inf(1), math.Inf(1)
	if rx < 0 {
		tx = (lo - px) / rx
	} else if rx > 0 {
		tx = (hi - px) / rx
	}
	if ry < 0 {
		ty = (lo - py) / ry
	} else if ry > 0 {
		ty = (hi - py) / ry
	}
	return math.Min(tx, ty)
}

func TestCastWallsEmptyBoxDistances(t *testing.T) {
	grid := boxGrid(t, 10)
	walls := mustAtlas(t, 8, FormatRGB, solidTexture(8, FormatRGB, 200, 0, 0, 0))

	tests := []struct {
		name       string
		x, y       float64
		dirX, dirY float64
	}{
		{"center facing west", 5.5, 5.5, -1, 0},
		{"center facing east", 5.5, 5.5, 1, 0},
		{"off center facing north", 3.25, 7.75, 0, -1},
		{"diagonal", 4.1, 6.3, 0.6, 0.8},
		{"near wall", 1.05, 8.9, -0.3, 0.95},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cam := NewCamera(tc.x, tc.y, tc.dirX, tc.dirY, fovFor(0.66))
			fb := NewFrameBuffer(64, 48)
			CastWalls(fb, grid, walls, cam, 0)
			for x := 0; x < fb.Width; x++ {
				rx, ry := rayFor(cam, x, fb.Width)
				want := expectedBoxDistance(10, cam.PosX, cam.PosY, rx, ry)
				if got := fb.Depth[x]; math.Abs(got-want) > 1e-9 {
					t.Fatalf("column %d: distance %.12f, want %.12f", x, got, want)
				}
			}
		})
	}
}

func TestThreeByThreeScenario(t *testing.T) {
	grid := boxGrid(t, 3)
	walls := mustAtlas(t, 16, FormatRGB, coordTexture(16))
	cam := Camera{PosX: 1.5, PosY: 1.5, DirX: -1, DirY: 0, PlaneX: 0, PlaneY: 0.66}
	fb := NewFrameBuffer(8, 8)

	CastWalls(fb, grid, walls, cam, 0)

	if d := fb.Depth[4]; math.Abs(d-0.5) > 1e-9 {
		t.Errorf("center column distance = %v, want 0.5", d)
	}
	for x, d := range fb.Depth {
		if math.IsInf(d, 0) || d <= 0 {
			t.Errorf("column %d has no wall (distance %v)", x, d)
		}
	}

	// The wall is hit half way along the face and the slice is 16 pixels
	// tall, starting 4 pixels above the screen.
	if got, want := fb.At(4, 4), PackRGB(8, 8, 1); got != want {
		t.Errorf("center texel = %#x, want %#x", got, want)
	}
	if got, want := fb.At(4, 0), PackRGB(8, 4, 1); got != want {
		t.Errorf("top texel = %#x, want %#x (v must follow the unclipped span)", got, want)
	}
}

func TestCastWallsMirrorsTextureOnFacingSides(t *testing.T) {
	grid := boxGrid(t, 3)
	walls := mustAtlas(t, 16, FormatRGB, coordTexture(16))
	cam := NewCamera(1.5, 1.2, 1, 0, fovFor(0.66))
	fb := NewFrameBuffer(8, 8)

	CastWalls(fb, grid, walls, cam, 0)

	r, _, _ := UnpackRGB(fb.At(4, 4))
	if r != 12 {
		t.Errorf("texture u = %d, want 12 (mirrored 3)", r)
	}
}

func TestCastWallsSkipsRaysLeavingTheGrid(t *testing.T) {
	rows := [][]world.Material{{0, 0, 0}, {0, 0, 0}, {0, 0, 0}}
	grid, err := world.GridFromRows(rows)
	if err != nil {
		t.Fatal(err)
	}
	walls := mustAtlas(t, 8, FormatRGB, solidTexture(8, FormatRGB, 1, 2, 3, 0))
	fb := NewFrameBuffer(16, 8)
	fillColor(fb, 0xABCDEF)

	CastWalls(fb, grid, walls, NewCamera(1.5, 1.5, -1, 0, 66), 0)

	for x, d := range fb.Depth {
		if !math.IsInf(d, 1) {
			t.Errorf("column %d distance = %v, want +Inf", x, d)
		}
	}
	for i, c := range fb.Color {
		if c != 0xABCDEF {
			t.Fatalf("pixel %d overwritten with %#x", i, c)
		}
	}
}

func TestCastRayMinDistance(t *testing.T) {
	rows := [][]world.Material{
		{1, 1, 1},
		{1, 0, 1},
		{1, 0, 1},
		{1, 2, 1},
		{1, 0, 1},
		{1, 0, 1},
		{1, 0, 1},
		{1, 1, 1},
	}
	grid, err := world.GridFromRows(rows)
	if err != nil {
		t.Fatal(err)
	}
	cam := Camera{PosX: 6.5, PosY: 1.5, DirX: -1, PlaneY: 0.66}

	tests := []struct {
		name     string
		minDist  float64
		wantDist float64
		wantMat  world.Material
	}{
		{"nearest wall", 0, 2.5, 2},
		{"skip walls before the portal plane", 3, 5.5, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			hit, ok := CastRay(grid, cam, -1, 0, tc.minDist)
			if !ok {
				t.Fatal("expected a hit")
			}
			if math.Abs(hit.Dist-tc.wantDist) > 1e-9 || hit.Material != tc.wantMat {
				t.Errorf("hit = %+v, want distance %v material %d", hit, tc.wantDist, tc.wantMat)
			}
		})
	}

	if _, ok := CastRay(grid, cam, -1, 0, 100); ok {
		t.Error("expected no hit when every wall is nearer than minDist")
	}
}

func TestNewCameraPlane(t *testing.T) {
	cam := NewCamera(22, 12, -1, 0, fovFor(0.66))
	if math.Abs(cam.PlaneX) > 1e-12 || math.Abs(cam.PlaneY-0.66) > 1e-12 {
		t.Errorf("plane = (%v,%v), want (0,0.66)", cam.PlaneX, cam.PlaneY)
	}

	r := cam.Rotate(math.Pi / 2)
	if math.Abs(r.DirX) > 1e-12 || math.Abs(r.DirY+1) > 1e-12 {
		t.Errorf("rotated dir = (%v,%v), want (0,-1)", r.DirX, r.DirY)
	}
	dot := r.DirX*r.PlaneX + r.DirY*r.PlaneY
	if math.Abs(dot) > 1e-12 {
		t.Errorf("plane not perpendicular after rotation, dot = %v", dot)
	}

	sx, sy := cam.Strafe(1)
	if math.Abs(sx) > 1e-12 || math.Abs(sy-1) > 1e-12 {
		t.Errorf("strafe = (%v,%v), want (0,1)", sx, sy)
	}
}
