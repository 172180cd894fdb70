package monitoring

import (
	"fmt"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yazgoo/blockish-raycasting/internal/render"
)

var stageNames = []string{render.StageFloor, render.StageWalls, render.StageSprites, render.StagePortals}

// DefaultFrameBudget is one frame at 60 FPS.
const DefaultFrameBudget = time.Second / 60

// PerformanceMonitor tracks frame and render stage timings.
type PerformanceMonitor struct {
	frameCount atomic.Uint64
	frameTime  atomic.Uint64 // nanoseconds

	stageTimes map[string]*atomic.Uint64

	teleports atomic.Uint64
	messages  atomic.Uint64

	mutex        sync.RWMutex
	avgFrameTime float64
	startTime    time.Time
	frameBudget  time.Duration
}

// NewPerformanceMonitor creates a monitor with the default frame budget.
func NewPerformanceMonitor() *PerformanceMonitor {
	pm := &PerformanceMonitor{
		stageTimes:  make(map[string]*atomic.Uint64, len(stageNames)),
		startTime:   time.Now(),
		frameBudget: DefaultFrameBudget,
	}
	for _, name := range stageNames {
		pm.stageTimes[name] = &atomic.Uint64{}
	}
	return pm
}

// SetFrameBudget changes the frame time above which alerts are raised.
func (pm *PerformanceMonitor) SetFrameBudget(budget time.Duration) {
	pm.mutex.Lock()
	pm.frameBudget = budget
	pm.mutex.Unlock()
}

// FrameTimer measures one frame.
type FrameTimer struct {
	monitor   *PerformanceMonitor
	startTime time.Time
}

// StartFrame begins frame timing.
func (pm *PerformanceMonitor) StartFrame() *FrameTimer {
	return &FrameTimer{
		monitor:   pm,
		startTime: time.Now(),
	}
}

// EndFrame completes frame timing and returns the frame duration.
func (ft *FrameTimer) EndFrame() time.Duration {
	frameTime := time.Since(ft.startTime)
	pm := ft.monitor
	pm.frameTime.Store(uint64(frameTime.Nanoseconds()))
	count := pm.frameCount.Add(1)

	pm.mutex.Lock()
	pm.avgFrameTime += (float64(frameTime.Nanoseconds()) - pm.avgFrameTime) / float64(count)
	pm.mutex.Unlock()
	return frameTime
}

// ProfiledFunction runs fn and records its duration under name. Unknown
// names are timed but not recorded.
func (pm *PerformanceMonitor) ProfiledFunction(name string, fn func()) time.Duration {
	start := time.Now()
	fn()
	duration := time.Since(start)

	if slot, ok := pm.stageTimes[name]; ok {
		slot.Store(uint64(duration.Nanoseconds()))
	}
	return duration
}

// RecordTeleport counts a portal teleport.
func (pm *PerformanceMonitor) RecordTeleport() {
	pm.teleports.Add(1)
}

// RecordMessage counts a network message handled by the game loop.
func (pm *PerformanceMonitor) RecordMessage() {
	pm.messages.Add(1)
}

// FrameMetrics is a snapshot of the monitor.
type FrameMetrics struct {
	FramesPerSecond float64
	FrameTime       time.Duration
	StageTimes      map[string]time.Duration
	Teleports       uint64
	Messages        uint64
	MemoryUsageMB   uint64
}

// GetCurrentMetrics returns a snapshot of the latest frame.
func (pm *PerformanceMonitor) GetCurrentMetrics() FrameMetrics {
	frameTime := pm.frameTime.Load()
	fps := 0.0
	if frameTime > 0 {
		fps = float64(time.Second) / float64(frameTime)
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	stages := make(map[string]time.Duration, len(pm.stageTimes))
	for name, slot := range pm.stageTimes {
		stages[name] = time.Duration(slot.Load())
	}

	return FrameMetrics{
		FramesPerSecond: fps,
		FrameTime:       time.Duration(frameTime),
		StageTimes:      stages,
		Teleports:       pm.teleports.Load(),
		Messages:        pm.messages.Load(),
		MemoryUsageMB:   memStats.Alloc / 1024 / 1024,
	}
}

// Summary formats the latest metrics on one line for the debug overlay.
func (pm *PerformanceMonitor) Summary() string {
	m := pm.GetCurrentMetrics()
	var b strings.Builder
	fmt.Fprintf(&b, "fps %.0f", m.FramesPerSecond)
	for _, name := range stageNames {
		fmt.Fprintf(&b, " %s %.2fms", name, float64(m.StageTimes[name])/float64(time.Millisecond))
	}
	return b.String()
}

// GetDetailedStats returns every counter keyed for structured logging.
func (pm *PerformanceMonitor) GetDetailedStats() map[string]interface{} {
	pm.mutex.RLock()
	avg := pm.avgFrameTime
	uptime := time.Since(pm.startTime)
	pm.mutex.RUnlock()

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	stats := map[string]interface{}{
		"uptime_seconds":    uptime.Seconds(),
		"frame_count":       pm.frameCount.Load(),
		"avg_frame_time_ms": avg / float64(time.Millisecond),
		"teleports":         pm.teleports.Load(),
		"messages":          pm.messages.Load(),
		"memory_alloc_mb":   memStats.Alloc / 1024 / 1024,
		"gc_cycles":         memStats.NumGC,
		"goroutines":        runtime.NumGoroutine(),
	}
	for name, slot := range pm.stageTimes {
		stats[name+"_ms"] = float64(slot.Load()) / float64(time.Millisecond)
	}
	return stats
}

// PerformanceAlert is a performance warning.
type PerformanceAlert struct {
	Type      string
	Message   string
	Value     float64
	Threshold float64
	Timestamp time.Time
}

// CheckPerformanceAlerts reports frames over budget and excessive memory.
func (pm *PerformanceMonitor) CheckPerformanceAlerts() []PerformanceAlert {
	alerts := make([]PerformanceAlert, 0)
	now := time.Now()

	pm.mutex.RLock()
	budget := pm.frameBudget
	pm.mutex.RUnlock()

	frameTime := time.Duration(pm.frameTime.Load())
	if budget > 0 && frameTime > budget {
		alerts = append(alerts, PerformanceAlert{
			Type:      "frame_budget",
			Message:   fmt.Sprintf("Frame took %v, budget is %v", frameTime, budget),
			Value:     float64(frameTime) / float64(time.Millisecond),
			Threshold: float64(budget) / float64(time.Millisecond),
			Timestamp: now,
		})
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	memoryMB := float64(memStats.Alloc) / 1024 / 1024
	if memoryMB > 500 {
		alerts = append(alerts, PerformanceAlert{
			Type:      "high_memory",
			Message:   "Memory usage is above 500MB",
			Value:     memoryMB,
			Threshold: 500,
			Timestamp: now,
		})
	}

	return alerts
}

// Reset clears every counter.
func (pm *PerformanceMonitor) Reset() {
	pm.frameCount.Store(0)
	pm.frameTime.Store(0)
	pm.teleports.Store(0)
	pm.messages.Store(0)
	for _, slot := range pm.stageTimes {
		slot.Store(0)
	}

	pm.mutex.Lock()
	pm.avgFrameTime = 0
	pm.startTime = time.Now()
	pm.mutex.Unlock()
}
