package game

import (
	"math"
	"math/rand"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/yazgoo/blockish-raycasting/internal/config"
	"github.com/yazgoo/blockish-raycasting/internal/netplay"
	"github.com/yazgoo/blockish-raycasting/internal/protocol"
	"github.com/yazgoo/blockish-raycasting/internal/world"
)

const testLevel = `
name: hall
floor_texture: 0
ceiling_texture: 1
spawn: {x: 1.5, y: 1.5, dir_x: -1, dir_y: 0}
map:
  - [1, 1, 1, 1, 1, 1]
  - [1, 0, 0, 0, 0, 1]
  - [1, 0, 0, 0, 0, 1]
  - [1, 0, 0, 0, 0, 1]
  - [1, 0, 0, 0, 2, 1]
  - [1, 1, 1, 1, 1, 1]
sprites:
  - {x: 2.5, y: 3.5, texture: 1}
lights:
  - {x: 4.5, y: 1.5}
portals:
  - {id: 0, x: 3.5, y: 1.5, dest_x: 1.5, dest_y: 3.5}
`

// fakeSession records what the game sends and replays queued messages.
type fakeSession struct {
	inbox []protocol.Message
	sent  []protocol.Message
}

func (f *fakeSession) Send(m protocol.Message) error {
	f.sent = append(f.sent, m)
	return nil
}

func (f *fakeSession) Poll() []protocol.Message {
	out := f.inbox
	f.inbox = nil
	return out
}

func (f *fakeSession) Close() error { return nil }

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Display.ScreenWidth = 64
	cfg.Display.ScreenHeight = 32
	return cfg
}

func newTestGame(t *testing.T, session netplay.Session) *MMGame {
	t.Helper()
	g, err := NewMMGame(testConfig(), session, Options{ScreenshotDir: t.TempDir()})
	if err != nil {
		t.Fatalf("NewMMGame: %v", err)
	}
	t.Cleanup(g.threading.Shutdown)
	return g
}

// joinedGame is a game that has received the level snapshot of an
// in-process server.
func joinedGame(t *testing.T) *MMGame {
	t.Helper()
	level, err := world.ParseLevel([]byte(testLevel))
	if err != nil {
		t.Fatal(err)
	}
	server := netplay.NewGame(level, netplay.DefaultRules(), rand.New(rand.NewSource(3)))
	g := newTestGame(t, netplay.NewLocal(server, "tester"))
	g.pollSession()
	return g
}

func TestJoinBuildsScene(t *testing.T) {
	g := joinedGame(t)

	if !g.placed || g.camera.PosX != 1.5 || g.camera.PosY != 1.5 || g.camera.DirX != -1 {
		t.Fatalf("camera = %+v, want the level spawn", g.camera)
	}
	scene := g.world.buildScene(nil, 0, 0)
	if scene == nil {
		t.Fatal("no scene after the level snapshot")
	}
	if scene.Grid.Width() != 6 || len(scene.Portals) != 1 {
		t.Errorf("scene grid %dx%d with %d portals", scene.Grid.Width(), scene.Grid.Height(), len(scene.Portals))
	}
	if n := scene.Groups[2].Len(); n != 1 {
		t.Errorf("coin group has %d sprites, want 1", n)
	}
	if got := g.overlay.Text(); got != "Hello !" {
		t.Errorf("overlay text = %q", got)
	}
	if got := g.threading.PerformanceMonitor.GetCurrentMetrics().Messages; got != 7 {
		t.Errorf("messages recorded = %d, want 7", got)
	}
}

func TestApplyMovement(t *testing.T) {
	tests := []struct {
		name      string
		move      movement
		dt        float64
		wantX     float64
		wantY     float64
		wantSpeed float64
	}{
		{"blocked by the wall ahead", movement{forward: 1}, 0.2, 1.5, 1.5, 3},
		{"backwards", movement{forward: -1}, 0.5, 3, 1.5, -3},
		{"strafe right", movement{strafe: 1}, 0.25, 1.5, 2.25, 0},
		{"idle", movement{}, 1, 1.5, 1.5, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := joinedGame(t)
			g.applyMovement(tc.move, tc.dt)
			if math.Abs(g.camera.PosX-tc.wantX) > 1e-9 || math.Abs(g.camera.PosY-tc.wantY) > 1e-9 {
				t.Errorf("camera at (%v,%v), want (%v,%v)", g.camera.PosX, g.camera.PosY, tc.wantX, tc.wantY)
			}
			if g.speed != tc.wantSpeed {
				t.Errorf("speed = %v, want %v", g.speed, tc.wantSpeed)
			}
		})
	}
}

func TestApplyMovementTurnsLeft(t *testing.T) {
	g := joinedGame(t)
	g.applyMovement(movement{turn: 1}, math.Pi/2/g.config.GetRotSpeed())

	// Facing -x the screen's left edge is towards -y.
	if math.Abs(g.camera.DirX) > 1e-9 || math.Abs(g.camera.DirY+1) > 1e-9 {
		t.Errorf("direction = (%v,%v), want (0,-1)", g.camera.DirX, g.camera.DirY)
	}
	if g.camera.PosX != 1.5 || g.camera.PosY != 1.5 {
		t.Error("turning must not move the camera")
	}
}

func TestMovementBeforeTeleportIsIgnored(t *testing.T) {
	g := newTestGame(t, &fakeSession{})
	g.applyMovement(movement{forward: 1}, 1)
	g.act()
	g.sendPosition(time.Now())
	if g.speed != 0 {
		t.Error("moved before the server placed the player")
	}
	if sent := g.session.(*fakeSession).sent; len(sent) != 0 {
		t.Errorf("sent %v before being placed", sent)
	}
}

func TestSendPositionThrottled(t *testing.T) {
	session := &fakeSession{}
	g := newTestGame(t, session)
	session.inbox = []protocol.Message{
		protocol.Teleport{Position: protocol.Position{X: 2.5, Y: 3.5, DirX: 0, DirY: 1}},
	}
	g.pollSession()

	start := time.Unix(1000, 0)
	interval := g.config.GetSendInterval()
	for _, at := range []time.Duration{0, interval / 5, interval - 1, interval, interval + interval/2, 2 * interval} {
		g.sendPosition(start.Add(at))
	}
	if len(session.sent) != 3 {
		t.Fatalf("sent %d positions, want 3", len(session.sent))
	}
	pos, ok := session.sent[0].(protocol.Position)
	if !ok || pos.X != 2.5 || pos.Y != 3.5 || pos.DirY != 1 {
		t.Errorf("first message = %#v", session.sent[0])
	}
}

func TestActSendsCurrentCell(t *testing.T) {
	session := &fakeSession{}
	g := newTestGame(t, session)
	session.inbox = []protocol.Message{
		protocol.Teleport{Position: protocol.Position{X: 3.7, Y: 4.2, DirX: 1}},
	}
	g.pollSession()
	g.act()

	if len(session.sent) != 1 || session.sent[0] != (protocol.Action{X: 3, Y: 4}) {
		t.Errorf("sent %v, want the action of cell (3,4)", session.sent)
	}
}

func TestInvalidUpdateKeepsScene(t *testing.T) {
	g := joinedGame(t)
	before := g.world.buildScene(nil, 0, 0)
	if before == nil {
		t.Fatal("no scene")
	}

	if err := g.applyMessage(protocol.Sprites{Sprites: []world.Sprite{{X: 2.5, Y: 2.5, Texture: -1}}}); err != nil {
		t.Fatal(err)
	}
	if got := g.world.buildScene(nil, 0, 0); got != before {
		t.Error("an invalid update replaced the scene")
	}

	if err := g.applyMessage(protocol.Sprites{}); err != nil {
		t.Fatal(err)
	}
	if got := g.world.buildScene(nil, 0, 0); got == before || got.Groups[0].Len() != 0 {
		t.Error("a valid update did not replace the scene")
	}
}

func TestTexturesFallBackWhenArchiveIsMissing(t *testing.T) {
	g := joinedGame(t)
	err := g.applyMessage(protocol.Textures{Archive: "testdata/missing.zip", FloorTexture: 12, CeilingTexture: 0})
	if err != nil {
		t.Fatalf("applyMessage: %v", err)
	}
	if g.world.archive != "" {
		t.Errorf("archive = %q, want the generated atlas", g.world.archive)
	}
	if n := g.world.walls.Len(); n != 13 {
		t.Errorf("generated %d textures, want 13 to cover the floor slot", n)
	}
	if g.world.buildScene(nil, 0, 0) == nil {
		t.Error("no scene with generated textures")
	}
}

func TestWorldMapGrowsGeneratedAtlas(t *testing.T) {
	g := joinedGame(t)
	rows := g.world.grid.Rows()
	rows[3][3] = 30
	if err := g.applyMessage(protocol.WorldMap{Rows: rows}); err != nil {
		t.Fatal(err)
	}
	if n := g.world.walls.Len(); n < 30 {
		t.Errorf("atlas has %d textures, material 30 needs 30", n)
	}
}

func TestRenderFrameFollowsPortal(t *testing.T) {
	g := joinedGame(t)
	// 0.3 units in front of the portal it covers the whole view.
	g.camera = g.camera.Rotate(math.Pi).At(3.2, 1.5)

	g.renderFrame()

	if g.camera.PosX != 1.5 || g.camera.PosY != 3.5 {
		t.Errorf("camera at (%v,%v), want the portal destination (1.5,3.5)", g.camera.PosX, g.camera.PosY)
	}
	if got := g.threading.PerformanceMonitor.GetCurrentMetrics().Teleports; got != 1 {
		t.Errorf("teleports = %d, want 1", got)
	}

	g.renderFrame()
	if g.camera.PosX != 1.5 || g.camera.PosY != 3.5 {
		t.Error("camera moved without a portal in view")
	}
}

func TestRenderFrameBeforeLevelClears(t *testing.T) {
	g := newTestGame(t, &fakeSession{})
	g.frame.Color[len(g.frame.Color)-1] = 0xffffff
	g.renderFrame()

	if c := g.frame.Color[len(g.frame.Color)-1]; c != 0 {
		t.Errorf("bottom right pixel = %#x, want cleared", c)
	}
	if g.tick != 0 {
		t.Errorf("tick = %d after a draw, want 0", g.tick)
	}
}

func TestAdvanceCountsUpdates(t *testing.T) {
	g := joinedGame(t)
	for i := 0; i < 3; i++ {
		g.renderFrame()
	}
	for i := 0; i < 2; i++ {
		g.advance(g.now(), 1.0/60)
	}
	if g.tick != 2 {
		t.Errorf("tick = %d after 3 draws and 2 updates, want 2", g.tick)
	}
}

func TestReportPerformanceLogsStats(t *testing.T) {
	cfg := testConfig()
	cfg.Display.FrameBudgetMS = 1e-6
	g, err := NewMMGame(cfg, &fakeSession{}, Options{ScreenshotDir: t.TempDir()})
	if err != nil {
		t.Fatalf("NewMMGame: %v", err)
	}
	t.Cleanup(g.threading.Shutdown)

	hooks := log.StandardLogger().ReplaceHooks(make(log.LevelHooks))
	hook := logtest.NewGlobal()
	level := log.GetLevel()
	log.SetLevel(log.DebugLevel)
	t.Cleanup(func() {
		log.SetLevel(level)
		log.StandardLogger().ReplaceHooks(hooks)
	})

	g.renderFrame()
	for i := 0; i < alertInterval; i++ {
		g.advance(g.now(), 1.0/60)
	}

	var stats, overBudget bool
	for _, e := range hook.AllEntries() {
		if e.Message == "performance" && e.Data["frame_count"] == uint64(1) {
			stats = true
		}
		if e.Data["type"] == "frame_budget" {
			overBudget = true
		}
	}
	if !stats {
		t.Error("no performance entry with the frame count")
	}
	if !overBudget {
		t.Error("no frame budget alert with a 1ns budget")
	}
}
