package monitoring

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/yazgoo/blockish-raycasting/internal/render"
)

// The renderer accepts the monitor as its stage timer.
var _ render.StageTimer = (*PerformanceMonitor)(nil)

func TestNewPerformanceMonitor(t *testing.T) {
	pm := NewPerformanceMonitor()

	if pm.frameBudget != DefaultFrameBudget {
		t.Errorf("Expected default frame budget, got %v", pm.frameBudget)
	}
	if len(pm.stageTimes) != 4 {
		t.Errorf("Expected 4 stage slots, got %d", len(pm.stageTimes))
	}
	if time.Since(pm.startTime) > time.Second {
		t.Error("Start time should be recent")
	}
}

func TestPerformanceMonitorFrameTiming(t *testing.T) {
	pm := NewPerformanceMonitor()

	frameTimer := pm.StartFrame()
	time.Sleep(10 * time.Millisecond)
	d := frameTimer.EndFrame()

	if pm.frameCount.Load() != 1 {
		t.Errorf("Expected frame count to be 1, got %d", pm.frameCount.Load())
	}
	if d < 10*time.Millisecond || pm.frameTime.Load() < uint64(10*time.Millisecond) {
		t.Errorf("Expected frame time of at least 10ms, got %v", d)
	}
	if pm.avgFrameTime != float64(pm.frameTime.Load()) {
		t.Errorf("Average of one frame should equal that frame, got %v", pm.avgFrameTime)
	}
}

func TestProfiledFunctionRecordsStages(t *testing.T) {
	pm := NewPerformanceMonitor()

	tests := []struct {
		name     string
		recorded bool
	}{
		{render.StageFloor, true},
		{render.StageWalls, true},
		{render.StageSprites, true},
		{render.StagePortals, true},
		{"unknown", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ran := false
			d := pm.ProfiledFunction(tc.name, func() {
				ran = true
				time.Sleep(time.Millisecond)
			})
			if !ran {
				t.Fatal("function was not called")
			}
			if d < time.Millisecond {
				t.Errorf("duration %v shorter than the work", d)
			}
			got := pm.GetCurrentMetrics().StageTimes[tc.name]
			if tc.recorded && got != d {
				t.Errorf("recorded %v, want %v", got, d)
			}
			if !tc.recorded && got != 0 {
				t.Errorf("unknown stage recorded %v", got)
			}
		})
	}
}

func TestPerformanceAlerts(t *testing.T) {
	pm := NewPerformanceMonitor()
	pm.SetFrameBudget(time.Millisecond)

	ft := pm.StartFrame()
	time.Sleep(3 * time.Millisecond)
	ft.EndFrame()

	found := false
	for _, a := range pm.CheckPerformanceAlerts() {
		if a.Type == "frame_budget" {
			found = true
			if a.Value <= a.Threshold {
				t.Errorf("alert value %v not above threshold %v", a.Value, a.Threshold)
			}
		}
	}
	if !found {
		t.Error("Expected a frame budget alert")
	}

	pm.SetFrameBudget(time.Hour)
	for _, a := range pm.CheckPerformanceAlerts() {
		if a.Type == "frame_budget" {
			t.Error("Unexpected frame budget alert")
		}
	}
}

func TestCountersAndReset(t *testing.T) {
	pm := NewPerformanceMonitor()
	pm.RecordTeleport()
	pm.RecordMessage()
	pm.RecordMessage()
	pm.ProfiledFunction(render.StageWalls, func() { time.Sleep(time.Millisecond) })

	m := pm.GetCurrentMetrics()
	if m.Teleports != 1 || m.Messages != 2 {
		t.Errorf("teleports=%d messages=%d, want 1 and 2", m.Teleports, m.Messages)
	}
	stats := pm.GetDetailedStats()
	if stats["teleports"] != uint64(1) {
		t.Errorf("detailed teleports = %v", stats["teleports"])
	}
	if _, ok := stats["walls_ms"]; !ok {
		t.Error("detailed stats miss the walls stage")
	}
	if s := pm.Summary(); !strings.HasPrefix(s, "fps ") || !strings.Contains(s, "walls ") {
		t.Errorf("summary %q", s)
	}

	pm.Reset()
	m = pm.GetCurrentMetrics()
	if m.Teleports != 0 || m.Messages != 0 || m.StageTimes[render.StageWalls] != 0 || m.FramesPerSecond != 0 {
		t.Errorf("metrics after reset = %+v", m)
	}
}

func TestPerformanceMonitorConcurrency(t *testing.T) {
	pm := NewPerformanceMonitor()
	var wg sync.WaitGroup

	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				frameTimer := pm.StartFrame()
				pm.ProfiledFunction(render.StageSprites, func() {})
				pm.RecordMessage()
				frameTimer.EndFrame()
			}
		}()
	}
	wg.Wait()

	if pm.frameCount.Load() != 100 {
		t.Errorf("Expected 100 frames, got %d", pm.frameCount.Load())
	}
	if pm.messages.Load() != 100 {
		t.Errorf("Expected 100 messages, got %d", pm.messages.Load())
	}
}
