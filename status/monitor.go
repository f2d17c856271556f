package status

import (
	"log"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/resonance/parameter"
)

// Registry keys published by Monitor
const (
	KeyFPS     = "perf.fps"
	KeyFrameMs = "perf.frame_ms"
	// KeyFramePeakMs is the slowest frame since the last Reset
	KeyFramePeakMs = "perf.frame_peak_ms"
	KeyActive      = "perf.active"
	KeyMemMB       = "perf.mem_mb"
	KeyTier        = "perf.tier"
	KeyFrames      = "perf.frames"
)

// Tier is a coarse quality bucket derived from recent frame timing
type Tier uint8

const (
	TierExcellent Tier = iota
	TierGood
	TierFair
	TierPoor
)

var tierNames = [...]string{"excellent", "good", "fair", "poor"}

func (t Tier) String() string {
	if int(t) < len(tierNames) {
		return tierNames[t]
	}
	return "unknown"
}

// Metrics is a read-only performance snapshot
type Metrics struct {
	FPS              float64
	FrameTimeMs      float64
	ActiveObjects    int
	MemoryEstimateMB float64
	Frames           uint64
}

// Config holds monitor thresholds
type Config struct {
	Window         int
	WarnInterval   int
	ExcellentFPS   float64
	GoodFPS        float64
	FairFPS        float64
	BytesPerObject int
}

// DefaultConfig returns the standard thresholds (58/45/30 fps)
func DefaultConfig() Config {
	return Config{
		Window:         parameter.PerfWindowFrames,
		WarnInterval:   parameter.PerfWarnIntervalFrames,
		ExcellentFPS:   parameter.PerfExcellentFPS,
		GoodFPS:        parameter.PerfGoodFPS,
		FairFPS:        parameter.PerfFairFPS,
		BytesPerObject: parameter.PerfBytesPerObject,
	}
}

// Monitor tracks a rolling window of frame deltas
// Update runs on the render thread; published registry values are safe to read anywhere
type Monitor struct {
	cfg Config

	deltas []float64 // ring of frame deltas in ms
	next   int
	filled int
	sum    float64

	last    time.Time
	metrics Metrics

	fps    *AtomicFloat
	frame  *AtomicFloat
	peak   *AtomicFloat
	mem    *AtomicFloat
	active *atomic.Int64
	frames *atomic.Int64
	tier   *atomic.Pointer[string]
}

// NewMonitor creates a monitor averaging over window frames, publishing into reg
// A nil reg gets a private registry
func NewMonitor(reg *Registry, window int) *Monitor {
	cfg := DefaultConfig()
	if window > 0 {
		cfg.Window = window
	}
	if reg == nil {
		reg = NewRegistry()
	}
	m := &Monitor{
		fps:    reg.Floats.Get(KeyFPS),
		frame:  reg.Floats.Get(KeyFrameMs),
		peak:   reg.Floats.Get(KeyFramePeakMs),
		mem:    reg.Floats.Get(KeyMemMB),
		active: reg.Ints.Get(KeyActive),
		frames: reg.Ints.Get(KeyFrames),
		tier:   reg.Labels.Get(KeyTier),
	}
	m.SetConfig(cfg)
	return m
}

// SetConfig applies thresholds; a window change resets the rolling average
func (m *Monitor) SetConfig(cfg Config) {
	if cfg.Window < 1 {
		cfg.Window = 1
	}
	if cfg.WarnInterval < 1 {
		cfg.WarnInterval = parameter.PerfWarnIntervalFrames
	}
	if cfg.Window != len(m.deltas) {
		m.deltas = make([]float64, cfg.Window)
		m.next, m.filled, m.sum = 0, 0, 0
	}
	m.cfg = cfg
}

// Update records a frame at ts with the given active object count
func (m *Monitor) Update(ts time.Time, active int) Metrics {
	if !m.last.IsZero() {
		if d := float64(ts.Sub(m.last)) / float64(time.Millisecond); d > 0 {
			m.push(d)
		}
	}
	m.last = ts
	m.metrics.Frames++

	if m.filled > 0 {
		m.metrics.FrameTimeMs = m.sum / float64(m.filled)
		m.metrics.FPS = 1000 / m.metrics.FrameTimeMs
	}
	m.metrics.ActiveObjects = active
	m.metrics.MemoryEstimateMB = float64(active*m.cfg.BytesPerObject) / (1024 * 1024)

	m.publish()
	return m.metrics
}

func (m *Monitor) push(d float64) {
	if m.filled == len(m.deltas) {
		m.sum -= m.deltas[m.next]
	} else {
		m.filled++
	}
	m.deltas[m.next] = d
	m.sum += d
	m.peak.Max(d)
	m.next = (m.next + 1) % len(m.deltas)
}

func (m *Monitor) publish() {
	m.fps.Set(m.metrics.FPS)
	m.frame.Set(m.metrics.FrameTimeMs)
	m.mem.Set(m.metrics.MemoryEstimateMB)
	m.active.Store(int64(m.metrics.ActiveObjects))
	m.frames.Store(int64(m.metrics.Frames))
	name := m.Status().String()
	if p := m.tier.Load(); p == nil || *p != name {
		m.tier.Store(&name)
	}
}

// Status buckets current fps; no samples yet counts as excellent
func (m *Monitor) Status() Tier {
	if m.filled == 0 {
		return TierExcellent
	}
	switch fps := m.metrics.FPS; {
	case fps >= m.cfg.ExcellentFPS:
		return TierExcellent
	case fps >= m.cfg.GoodFPS:
		return TierGood
	case fps >= m.cfg.FairFPS:
		return TierFair
	default:
		return TierPoor
	}
}

// CheckAndWarn logs a warning every WarnInterval frames while the tier is fair or poor
// Returns true when a warning was emitted
func (m *Monitor) CheckAndWarn(logger *log.Logger) bool {
	if m.metrics.Frames == 0 || m.metrics.Frames%uint64(m.cfg.WarnInterval) != 0 {
		return false
	}
	tier := m.Status()
	if tier < TierFair {
		return false
	}
	if logger == nil {
		logger = log.Default()
	}
	logger.Printf("perf: %s tier, %.1f fps (%.2f ms/frame), %d active objects, ~%.2f MB",
		tier, m.metrics.FPS, m.metrics.FrameTimeMs, m.metrics.ActiveObjects, m.metrics.MemoryEstimateMB)
	return true
}

// Snapshot returns the latest metrics
func (m *Monitor) Snapshot() Metrics {
	return m.metrics
}

// Reset drops timing history, keeping configuration
func (m *Monitor) Reset() {
	clear(m.deltas)
	m.next, m.filled, m.sum = 0, 0, 0
	m.last = time.Time{}
	m.metrics = Metrics{}
	m.peak.Set(0)
	m.publish()
}
