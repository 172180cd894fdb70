package render

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/yazgoo/blockish-raycasting/internal/world"
)

// solidTexture returns a size×size texture filled with one color.
func solidTexture(size int, format PixelFormat, r, g, b, a uint8) []byte {
	bpp := format.BytesPerPixel()
	t := make([]byte, size*size*bpp)
	for i := 0; i < size*size; i++ {
		t[i*bpp] = r
		t[i*bpp+1] = g
		t[i*bpp+2] = b
		if bpp == 4 {
			t[i*bpp+3] = a
		}
	}
	return t
}

// coordTexture encodes the texel coordinates in the red and green channels.
func coordTexture(size int) []byte {
	t := make([]byte, size*size*3)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			o := (y*size + x) * 3
			t[o] = uint8(x)
			t[o+1] = uint8(y)
			t[o+2] = 1
		}
	}
	return t
}

func mustAtlas(t *testing.T, size int, format PixelFormat, textures ...[]byte) *Atlas {
	t.Helper()
	a, err := NewAtlas(size, format, textures)
	if err != nil {
		t.Fatalf("NewAtlas: %v", err)
	}
	return a
}

// boxGrid is a size×size grid with a solid border of material 1.
func boxGrid(t *testing.T, size int) *world.Grid {
	t.Helper()
	rows := make([][]world.Material, size)
	for x := range rows {
		rows[x] = make([]world.Material, size)
		for y := range rows[x] {
			if x == 0 || y == 0 || x == size-1 || y == size-1 {
				rows[x][y] = 1
			}
		}
	}
	g, err := world.GridFromRows(rows)
	if err != nil {
		t.Fatalf("GridFromRows: %v", err)
	}
	return g
}

// fovFor returns the field of view giving a plane of length k.
func fovFor(k float64) float64 {
	return 2 * math.Atan(k) * 180 / math.Pi
}

func fillColor(fb *FrameBuffer, c uint32) {
	for i := range fb.Color {
		fb.Color[i] = c
	}
}

func fillDepth(fb *FrameBuffer, d float64) {
	for i := range fb.Depth {
		fb.Depth[i] = d
	}
}

// chunkSpanner runs ranges of a fixed size on separate goroutines.
type chunkSpanner struct{ chunk int }

func (c chunkSpanner) Span(n int, fn func(lo, hi int)) {
	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += c.chunk {
		hi := min(lo+c.chunk, n)
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			fn(lo, hi)
		}(lo, hi)
	}
	wg.Wait()
}

// stageRecorder records the stage names it is asked to time.
type stageRecorder struct {
	mu    sync.Mutex
	names []string
}

func (s *stageRecorder) ProfiledFunction(name string, fn func()) time.Duration {
	s.mu.Lock()
	s.names = append(s.names, name)
	s.mu.Unlock()
	fn()
	return 0
}
