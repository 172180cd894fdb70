// Package assets decodes texture images into the raw row-major buffers the
// renderer's atlases hold.
package assets

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	_ "github.com/ftrvxmtrx/tga"
	log "github.com/sirupsen/logrus"
	"golang.org/x/image/draw"

	"github.com/yazgoo/blockish-raycasting/internal/render"
	"github.com/yazgoo/blockish-raycasting/internal/threading/core"
)

// ErrNoTextures is returned when an archive or directory holds no numbered
// texture.
var ErrNoTextures = errors.New("assets: no textures found")

// texturePattern matches numbered textures, e.g. pics/3.png.
var texturePattern = regexp.MustCompile(`(?:^|/)pics/(\d+)\.(png|tga)$`)

type source struct {
	index int
	name  string
	data  []byte
}

type decoded struct {
	buf []byte
	err error
}

// LoadArchive reads every pics/{n}.png or pics/{n}.tga entry of a zip file,
// orders the textures by n and scales them to size×size.
func LoadArchive(path string, size int, format render.PixelFormat) ([][]byte, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture archive %s: %w", path, err)
	}
	defer r.Close()

	var sources []source
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		index, ok := textureIndex(f.Name)
		if !ok {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s in %s: %w", f.Name, path, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s in %s: %w", f.Name, path, err)
		}
		sources = append(sources, source{index: index, name: f.Name, data: data})
	}
	return decodeAll(path, sources, size, format)
}

// LoadDir is LoadArchive for an unpacked directory holding pics/.
func LoadDir(dir string, size int, format render.PixelFormat) ([][]byte, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "pics", "*"))
	if err != nil {
		return nil, err
	}
	var sources []source
	for _, m := range matches {
		index, ok := textureIndex(filepath.ToSlash(m))
		if !ok {
			continue
		}
		data, err := os.ReadFile(m)
		if err != nil {
			return nil, fmt.Errorf("failed to read texture %s: %w", m, err)
		}
		sources = append(sources, source{index: index, name: m, data: data})
	}
	return decodeAll(dir, sources, size, format)
}

// Load picks LoadArchive or LoadDir depending on what path is.
func Load(path string, size int, format render.PixelFormat) ([][]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return LoadDir(path, size, format)
	}
	return LoadArchive(path, size, format)
}

// LoadFrames decodes the animation frames of a prop, in argument order.
func LoadFrames(size int, format render.PixelFormat, paths ...string) ([][]byte, error) {
	sources := make([]source, len(paths))
	for i, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read frame %s: %w", p, err)
		}
		sources[i] = source{index: i, name: p, data: data}
	}
	if len(sources) == 0 {
		return nil, ErrNoTextures
	}
	return decodeSources(sources, size, format)
}

func textureIndex(name string) (int, bool) {
	m := texturePattern.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

func decodeAll(origin string, sources []source, size int, format render.PixelFormat) ([][]byte, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoTextures, origin)
	}
	sort.SliceStable(sources, func(i, j int) bool { return sources[i].index < sources[j].index })
	for i, s := range sources {
		if s.index != i {
			log.WithFields(log.Fields{"origin": origin, "expected": i, "found": s.index}).
				Warn("texture numbering has a gap, later materials shift down")
			break
		}
	}
	textures, err := decodeSources(sources, size, format)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"origin": origin, "textures": len(textures), "size": size, "format": format}).
		Info("textures loaded")
	return textures, nil
}

func decodeSources(sources []source, size int, format render.PixelFormat) ([][]byte, error) {
	results := core.ParallelMap(sources, func(s source) decoded {
		img, _, err := image.Decode(bytes.NewReader(s.data))
		if err != nil {
			return decoded{err: fmt.Errorf("failed to decode %s: %w", s.name, err)}
		}
		return decoded{buf: ToBuffer(img, size, format)}
	})
	textures := make([][]byte, len(results))
	for i, r := range results {
		if r.err != nil {
			return nil, r.err
		}
		textures[i] = r.buf
	}
	return textures, nil
}

// ToBuffer scales img to size×size with nearest neighbour sampling and packs
// it as RGB or RGBA bytes.
func ToBuffer(img image.Image, size int, format render.PixelFormat) []byte {
	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	if format == render.FormatRGBA {
		return dst.Pix
	}
	out := make([]byte, 0, size*size*3)
	for i := 0; i < len(dst.Pix); i += 4 {
		out = append(out, dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2])
	}
	return out
}
