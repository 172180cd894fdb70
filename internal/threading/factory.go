package threading

import (
	"github.com/yazgoo/blockish-raycasting/internal/threading/monitoring"
	"github.com/yazgoo/blockish-raycasting/internal/threading/rendering"
)

// ThreadingComponents holds the renderer's worker pool and the monitor.
type ThreadingComponents struct {
	ParallelRenderer   *rendering.ParallelRenderer
	PerformanceMonitor *monitoring.PerformanceMonitor
}

// NewThreadingComponents creates the components. With workers <= 1 no
// pool is started and rendering stays on the calling goroutine.
func NewThreadingComponents(workers int) *ThreadingComponents {
	tc := &ThreadingComponents{
		PerformanceMonitor: monitoring.NewPerformanceMonitor(),
	}
	if workers > 1 {
		tc.ParallelRenderer = rendering.NewParallelRenderer(workers)
	}
	return tc
}

// Shutdown stops the worker pool.
func (tc *ThreadingComponents) Shutdown() {
	if tc.ParallelRenderer != nil {
		tc.ParallelRenderer.Stop()
	}
	if tc.PerformanceMonitor != nil {
		tc.PerformanceMonitor.Reset()
	}
}

// GetDetailedPerformanceStats returns the monitor counters.
func (tc *ThreadingComponents) GetDetailedPerformanceStats() map[string]interface{} {
	if tc.PerformanceMonitor != nil {
		return tc.PerformanceMonitor.GetDetailedStats()
	}
	return nil
}

// CheckPerformanceAlerts returns any performance warnings.
func (tc *ThreadingComponents) CheckPerformanceAlerts() []monitoring.PerformanceAlert {
	if tc.PerformanceMonitor != nil {
		return tc.PerformanceMonitor.CheckPerformanceAlerts()
	}
	return nil
}
