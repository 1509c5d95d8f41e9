package profiler

import (
	"log"
	"runtime"
	"time"
)

// Profiler tracks frame rate, pose throughput and memory statistics for performance monitoring.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	frameCount     int
	poseCount      int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	readMem        bool
	now            func() time.Time

	start       time.Time
	totalFrames int
	totalPoses  int
	last        Stats
}

// Stats is one logged interval.
type Stats struct {
	// FPS is the frame rate over the interval.
	FPS float64

	// PosesPerSecond is the number of poses sampled per second over the interval.
	PosesPerSecond float64

	// HeapMB is the live heap at the end of the interval.
	HeapMB float64

	// AllocRateMB is the heap allocation rate in MB per second over the interval.
	AllocRateMB float64
}

// NewProfiler creates a new Profiler.
// Update interval defaults to 1 second and memory statistics are collected.
//
// Parameters:
//   - options: variadic list of ProfilerBuilderOption functions to configure the Profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		readMem:        true,
		now:            time.Now,
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	p.start = p.lastTime
	return p
}

// AddPoses records poses sampled during the current frame.
//
// Parameters:
//   - n: the number of poses
func (p *Profiler) AddPoses(n int) {
	p.poseCount += n
	p.totalPoses += n
}

// Last returns the most recently logged interval.
//
// Returns:
//   - Stats: the last interval's statistics, zero before the first log
func (p *Profiler) Last() Stats {
	return p.last
}

// Tick should be called once per frame to track frame timing.
// Logs performance statistics when the update interval has elapsed.
// Statistics include: FPS, poses/sec, heap usage, allocation rate, GC count/pause times, total memory.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.frameCount++
	p.totalFrames++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)

	if elapsed < p.updateInterval {
		return false
	}

	p.last = Stats{
		FPS:            float64(p.frameCount) / elapsed.Seconds(),
		PosesPerSecond: float64(p.poseCount) / elapsed.Seconds(),
	}

	if !p.readMem {
		log.Printf("[Profiler] FPS: %.2f | Poses: %.0f/s", p.last.FPS, p.last.PosesPerSecond)
		p.reset(currentTime)
		return true
	}

	runtime.ReadMemStats(&p.memStats)
	// Alloc: Bytes of allocated heap objects (live memory)
	// TotalAlloc: Cumulative bytes allocated for heap objects (increases forever, tracks churn)
	// Sys: Total bytes of memory obtained from the OS (actual process footprint)
	p.last.HeapMB = float64(p.memStats.Alloc) / 1024 / 1024
	sysMB := float64(p.memStats.Sys) / 1024 / 1024

	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	p.last.AllocRateMB = float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	// GC pause stats (last pause and max recent pause)
	gcCount := p.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		// PauseNs is a circular buffer of last 256 GC pauses
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			pause := p.memStats.PauseNs[i%256] / 1000
			if pause > maxPauseUs {
				maxPauseUs = pause
			}
		}
	}

	log.Printf("[Profiler] FPS: %.2f | Poses: %.0f/s | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs) | Sys: %.2f MB",
		p.last.FPS, p.last.PosesPerSecond, p.last.HeapMB, p.last.AllocRateMB, gcCount, lastPauseUs, maxPauseUs, sysMB)

	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	p.reset(currentTime)
	return true
}

// Summary logs and returns the totals since the profiler was created.
//
// Returns:
//   - frames: total frames ticked
//   - poses: total poses recorded
//   - elapsed: time since NewProfiler
func (p *Profiler) Summary() (frames, poses int, elapsed time.Duration) {
	elapsed = p.now().Sub(p.start)
	rate := 0.0
	if elapsed > 0 {
		rate = float64(p.totalPoses) / elapsed.Seconds()
	}
	log.Printf("[Profiler] total: %d frames, %d poses in %s (%.0f poses/s)", p.totalFrames, p.totalPoses, elapsed, rate)
	return p.totalFrames, p.totalPoses, elapsed
}

func (p *Profiler) reset(now time.Time) {
	p.frameCount = 0
	p.poseCount = 0
	p.lastTime = now
}
