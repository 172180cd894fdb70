package main

import (
	"flag"
	"fmt"
	"image/color"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	log "github.com/sirupsen/logrus"

	"github.com/yazgoo/blockish-raycasting/internal/world"
)

const (
	windowWidth  = 1000
	windowHeight = 640
	sidebarWidth = 300
)

// maxWallTextures matches the server's check; the real atlas is unknown.
const maxWallTextures = 255

type viewer struct {
	levels     []levelInfo
	levelIndex int
	sidebarTab int
	lastErr    string
}

const (
	tabInfo = iota
	tabLegend
)

func main() {
	dir := flag.String("dir", "assets/levels", "directory of level files")
	flag.Parse()

	levels, err := loadLevels(*dir, maxWallTextures)
	if err != nil {
		log.WithError(err).Warn("no levels loaded")
	}
	for _, l := range levels {
		if l.Err != nil {
			log.WithError(l.Err).WithField("path", l.Path).Warn("invalid level")
		}
	}

	v := &viewer{levels: levels, sidebarTab: tabInfo}
	if len(levels) == 0 {
		v.lastErr = "no levels loaded"
	}

	ebiten.SetWindowSize(windowWidth, windowHeight)
	ebiten.SetWindowTitle("Level Viewer")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(v); err != nil {
		log.Fatal(err)
	}
}

func (v *viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		v.sidebarTab = 1 - v.sidebarTab
	}
	if inpututil.IsKeyJustPressed(ebiten.Key1) {
		v.sidebarTab = tabInfo
	}
	if inpututil.IsKeyJustPressed(ebiten.Key2) {
		v.sidebarTab = tabLegend
	}

	if n := len(v.levels); n > 0 {
		if inpututil.IsKeyJustPressed(ebiten.KeyRight) || inpututil.IsKeyJustPressed(ebiten.KeyD) {
			v.levelIndex = (v.levelIndex + 1) % n
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyLeft) || inpututil.IsKeyJustPressed(ebiten.KeyA) {
			v.levelIndex = (v.levelIndex + n - 1) % n
		}
	}
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{15, 15, 22, 255})

	if len(v.levels) == 0 {
		ebitenutil.DebugPrintAt(screen, v.lastErr, 16, 16)
		return
	}

	l := v.levels[v.levelIndex]
	if l.Level == nil || l.Level.Grid == nil || l.Level.Grid.Width() == 0 || l.Level.Grid.Height() == 0 {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s failed to load: %v", l.Path, l.Err), 16, 16)
		return
	}

	screenW, screenH := screen.Bounds().Dx(), screen.Bounds().Dy()

	padding := 16
	mapAreaW := screenW - sidebarWidth - padding*3
	mapAreaH := screenH - padding*2
	mapAreaX := padding
	mapAreaY := padding
	sidebarX := mapAreaX + mapAreaW + padding

	drawLevelPanel(screen, l, mapAreaX, mapAreaY, mapAreaW, mapAreaH)
	drawSidebar(screen, l, sidebarX, padding, sidebarWidth, mapAreaH, v.sidebarTab)
}

func (v *viewer) Layout(_, _ int) (int, int) {
	return windowWidth, windowHeight
}

func drawLevelPanel(screen *ebiten.Image, l levelInfo, x, y, w, h int) {
	drawFilledRect(screen, x, y, w, h, color.RGBA{20, 20, 35, 255})
	drawRectBorder(screen, x, y, w, h, 2, color.RGBA{70, 70, 90, 255})

	grid := l.Level.Grid
	tileSize, originX, originY := fitGrid(x, y, w, h, grid.Width(), grid.Height())

	for gx := 0; gx < grid.Width(); gx++ {
		for gy := 0; gy < grid.Height(); gy++ {
			drawX := originX + gx*tileSize
			drawY := originY + gy*tileSize
			vector.DrawFilledRect(screen, float32(drawX), float32(drawY), float32(tileSize), float32(tileSize), materialColor(grid.At(gx, gy)), false)
		}
	}

	drawMarkers(screen, l.Level, originX, originY, tileSize)
	drawLevelHeader(screen, l, x, y)
}

func drawLevelHeader(screen *ebiten.Image, l levelInfo, x, y int) {
	title := fmt.Sprintf("%s (%s)", l.Level.Name, filepath.Base(l.Path))
	ebitenutil.DebugPrintAt(screen, title, x+12, y+8)
	ebitenutil.DebugPrintAt(screen, "Left/Right (or A/D) to switch levels, Esc to quit", x+12, y+24)
}

func drawMarkers(screen *ebiten.Image, l *world.Level, originX, originY, tileSize int) {
	at := func(wx, wy float64) (float32, float32) {
		return float32(float64(originX) + wx*float64(tileSize)), float32(float64(originY) + wy*float64(tileSize))
	}
	radius := float32(tileSize) * 0.35

	for _, a := range l.Actions {
		drawTileLetter(screen, originX, originY, tileSize, a.Trigger.X, a.Trigger.Y, "A")
	}

	for _, s := range l.Sprites {
		cx, cy := at(s.X, s.Y)
		vector.DrawFilledRect(screen, cx-radius/2, cy-radius/2, radius, radius, color.RGBA{255, 220, 0, 255}, false)
	}

	for _, s := range l.Lights {
		cx, cy := at(s.X, s.Y)
		vector.DrawFilledCircle(screen, cx, cy, radius/2, color.RGBA{255, 140, 0, 255}, true)
	}

	for _, p := range l.Portals {
		cx, cy := at(p.X, p.Y)
		dx, dy := at(p.DestX, p.DestY)
		vector.StrokeLine(screen, cx, cy, dx, dy, 1, color.RGBA{170, 80, 200, 160}, true)
		vector.DrawFilledCircle(screen, cx, cy, radius, color.RGBA{170, 80, 200, 255}, true)
		vector.StrokeCircle(screen, dx, dy, radius, 1, color.RGBA{170, 80, 200, 255}, true)
	}

	sx, sy := at(l.Spawn.X, l.Spawn.Y)
	vector.DrawFilledCircle(screen, sx, sy, radius, color.RGBA{50, 200, 255, 255}, true)
	vector.StrokeCircle(screen, sx, sy, radius, 1, color.RGBA{255, 255, 255, 255}, true)
	ex, ey := at(l.Spawn.X+l.Spawn.DirX, l.Spawn.Y+l.Spawn.DirY)
	vector.StrokeLine(screen, sx, sy, ex, ey, 2, color.RGBA{255, 255, 255, 255}, true)
}

func drawSidebar(screen *ebiten.Image, l levelInfo, x, y, w, h int, tab int) {
	drawFilledRect(screen, x, y, w, h, color.RGBA{18, 18, 26, 255})
	drawRectBorder(screen, x, y, w, h, 2, color.RGBA{70, 70, 90, 255})

	tabHeight := 24
	drawSidebarTabs(screen, x, y, w, tabHeight, tab)
	row := y + tabHeight + 12

	lines := legendLines()
	if tab == tabInfo {
		lines = levelStats(l.Level)
		lines = append(lines, "")
		if l.Err != nil {
			lines = append(lines, "Invalid:", l.Err.Error())
		} else {
			lines = append(lines, "Valid")
		}
	}
	for _, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, x+12, row)
		row += 16
	}
}

func drawSidebarTabs(screen *ebiten.Image, x, y, w, h int, active int) {
	tabW := w / 2
	infoColor := color.RGBA{40, 40, 55, 255}
	legendColor := color.RGBA{40, 40, 55, 255}
	if active == tabInfo {
		infoColor = color.RGBA{70, 70, 95, 255}
	} else {
		legendColor = color.RGBA{70, 70, 95, 255}
	}
	drawFilledRect(screen, x, y, tabW, h, infoColor)
	drawFilledRect(screen, x+tabW, y, w-tabW, h, legendColor)
	drawRectBorder(screen, x, y, w, h, 2, color.RGBA{70, 70, 90, 255})
	ebitenutil.DebugPrintAt(screen, "Info (1)", x+10, y+6)
	ebitenutil.DebugPrintAt(screen, "Legend (2)", x+tabW+10, y+6)
}

func drawTileLetter(screen *ebiten.Image, originX, originY, tileSize, tx, ty int, letter string) {
	if tileSize < 6 || letter == "" {
		return
	}
	ebitenutil.DebugPrintAt(screen, letter, originX+tx*tileSize+2, originY+ty*tileSize+1)
}

func drawFilledRect(screen *ebiten.Image, x, y, w, h int, clr color.RGBA) {
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), clr, false)
}

func drawRectBorder(screen *ebiten.Image, x, y, w, h, thickness int, clr color.RGBA) {
	t := float32(thickness)
	fx := float32(x)
	fy := float32(y)
	fw := float32(w)
	fh := float32(h)
	vector.DrawFilledRect(screen, fx, fy, fw, t, clr, false)
	vector.DrawFilledRect(screen, fx, fy+fh-t, fw, t, clr, false)
	vector.DrawFilledRect(screen, fx, fy, t, fh, clr, false)
	vector.DrawFilledRect(screen, fx+fw-t, fy, t, fh, clr, false)
}
