package metrics

import (
	"context"
	"runtime"
	"time"
)

// StartSystemCollector samples memory, goroutine and GC metrics of the
// global manager every refresh interval until ctx is done.
func StartSystemCollector(ctx context.Context) {
	go collectSystem(ctx, globalManager.refreshInterval)
}

func collectSystem(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	var lastGC uint32
	for {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		UpdateSystemMemoryUsage(ms.Alloc)
		UpdateSystemGoroutineCount(runtime.NumGoroutine())
		ring := uint32(len(ms.PauseNs))
		start := lastGC
		if ms.NumGC > ring && start < ms.NumGC-ring {
			start = ms.NumGC - ring
		}
		for i := start; i < ms.NumGC; i++ {
			RecordSystemGCPauseTime(float64(ms.PauseNs[i%ring]) / float64(time.Millisecond))
		}
		lastGC = ms.NumGC

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
