package game

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/HugoSmits86/nativewebp"
	log "github.com/sirupsen/logrus"

	"github.com/yazgoo/blockish-raycasting/internal/render"
)

// SaveScreenshot writes fb as a lossless WebP named after now into dir and
// returns the file path.
func SaveScreenshot(fb *render.FrameBuffer, dir string, now time.Time) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("screenshot-%d.webp", now.Unix()))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create screenshot: %w", err)
	}
	if err := nativewebp.Encode(f, fb.Image(), nil); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to encode screenshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write screenshot: %w", err)
	}
	return path, nil
}

func (g *MMGame) takeScreenshot() {
	path, err := SaveScreenshot(g.frame, g.screenshotDir, g.now())
	if err != nil {
		log.WithError(err).Error("screenshot failed")
		return
	}
	log.WithField("path", path).Info("screenshot saved")
}
