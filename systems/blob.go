package systems

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/resonance/parameter"
	"github.com/lixenwraith/resonance/pool"
	"github.com/lixenwraith/resonance/status"
	"github.com/lixenwraith/resonance/vmath"
)

// BlobState is the lifecycle phase of a blob
type BlobState uint8

const (
	BlobGrowing BlobState = iota
	BlobSteady
	BlobFadingOut
	BlobRemoved
)

var blobStateNames = [...]string{"growing", "steady", "fading", "removed"}

func (s BlobState) String() string {
	if int(s) < len(blobStateNames) {
		return blobStateNames[s]
	}
	return "unknown"
}

// Blob is a drifting, vibrating shape bound to one voice
type Blob struct {
	Key       string
	Note      string
	Octave    int
	Frequency float64

	X, Y        float64
	NX, NY      float64 // normalized spawn position, resolved on first placement
	BaseRadius  float64
	Scale       float64
	Opacity     float64
	BaseOpacity float64
	VX, VY      float64
	Phase       float64
	Vibration   float64 // 1 while sounding, falls to 0 over the fade

	Created   time.Time
	FadeStart time.Time // zero while not fading

	fadeFrom float64 // scale captured when the fade began
	placed   bool
	removed  bool
}

// Fading reports whether release has begun
func (b *Blob) Fading() bool {
	return !b.FadeStart.IsZero()
}

// Age returns time since creation
func (b *Blob) Age(now time.Time) time.Duration {
	return now.Sub(b.Created)
}

// State derives the lifecycle phase at now
func (b *Blob) State(now time.Time, cfg BlobConfig) BlobState {
	switch {
	case b.removed:
		return BlobRemoved
	case b.Fading():
		if now.Sub(b.FadeStart) >= cfg.FadeOut {
			return BlobRemoved
		}
		return BlobFadingOut
	case b.Age(now) < cfg.GrowIn:
		return BlobGrowing
	default:
		return BlobSteady
	}
}

// Drawable reports whether the blob has sane numeric state worth drawing
func (b *Blob) Drawable(minScale float64) bool {
	return vmath.AllFinite(b.X, b.Y, b.Scale, b.Opacity, b.BaseRadius, b.Vibration) &&
		b.placed && b.Opacity > 0 && b.Scale >= minScale && b.BaseRadius > 0
}

// BlobConfig holds blob lifecycle and motion parameters
type BlobConfig struct {
	Enabled            bool
	Max                int
	GrowIn             time.Duration
	FadeOut            time.Duration
	FadeGrace          time.Duration
	MaxLifetime        time.Duration
	MinRadius          float64
	MaxRadius          float64
	BaseOpacity        float64
	DriftSpeed         float64
	BounceDamping      float64
	SteadyWobble       float64
	SteadyRate         float64
	MinScale           float64
	Segments           int
	VibrationIntensity float64
	ReferenceFrequency float64
}

// DefaultBlobConfig returns the standard blob parameters
func DefaultBlobConfig() BlobConfig {
	return BlobConfig{
		Enabled:            true,
		Max:                parameter.BlobMax,
		GrowIn:             parameter.BlobGrowIn,
		FadeOut:            parameter.BlobFadeOut,
		FadeGrace:          parameter.BlobFadeGrace,
		MaxLifetime:        parameter.BlobMaxLifetime,
		MinRadius:          parameter.BlobMinRadius,
		MaxRadius:          parameter.BlobMaxRadius,
		BaseOpacity:        parameter.BlobBaseOpacity,
		DriftSpeed:         parameter.BlobDriftSpeed,
		BounceDamping:      parameter.BlobBounceDamping,
		SteadyWobble:       parameter.BlobSteadyWobble,
		SteadyRate:         parameter.BlobSteadyRate,
		MinScale:           parameter.BlobMinScale,
		Segments:           parameter.BlobSegments,
		VibrationIntensity: parameter.BlobVibrationIntensity,
		ReferenceFrequency: parameter.BlobReferenceFrequency,
	}
}

func sanitizeBlobs(cfg BlobConfig) BlobConfig {
	cfg.Max = max(cfg.Max, 1)
	if cfg.MaxRadius < cfg.MinRadius {
		cfg.MinRadius, cfg.MaxRadius = cfg.MaxRadius, cfg.MinRadius
	}
	if cfg.MinRadius <= 0 {
		cfg.MinRadius = 1
	}
	cfg.MaxRadius = math.Max(cfg.MaxRadius, cfg.MinRadius)
	cfg.BaseOpacity = vmath.Clamp01(cfg.BaseOpacity)
	cfg.BounceDamping = vmath.Clamp01(cfg.BounceDamping)
	cfg.Segments = max(cfg.Segments, 8)
	if cfg.FadeOut <= 0 {
		cfg.FadeOut = time.Millisecond
	}
	if cfg.MaxLifetime <= 0 {
		cfg.MaxLifetime = parameter.BlobMaxLifetime
	}
	if cfg.ReferenceFrequency <= 0 {
		cfg.ReferenceFrequency = parameter.BlobReferenceFrequency
	}
	return cfg
}

// BlobSystem owns every blob, at most one per voice key
// Not safe for concurrent use; owned by the render thread
type BlobSystem struct {
	cfg    BlobConfig
	pool   *pool.Pool[Blob]
	byKey  map[string]pool.Handle
	order  []pool.Handle // spawn order, oldest first
	rng    *vmath.FastRand
	width  float64
	height float64
	last   time.Time

	doomed  []pool.Handle // scratch for post-pass removal
	retired []string      // keys removed without a replacement, drained by Retired

	// Telemetry
	statSpawned *atomic.Int64
	statActive  *atomic.Int64
	statSwept   *atomic.Int64
}

// NewBlobSystem creates an empty blob system; reg may be nil
func NewBlobSystem(cfg BlobConfig, seed uint64, reg *status.Registry) *BlobSystem {
	if reg == nil {
		reg = status.NewRegistry()
	}
	cfg = sanitizeBlobs(cfg)
	return &BlobSystem{
		cfg:         cfg,
		pool:        pool.New[Blob](0, cfg.Max),
		byKey:       make(map[string]pool.Handle, cfg.Max),
		order:       make([]pool.Handle, 0, cfg.Max),
		doomed:      make([]pool.Handle, 0, cfg.Max),
		retired:     make([]string, 0, cfg.Max),
		rng:         vmath.NewFastRand(seed),
		statSpawned: reg.Ints.Get("blob.spawned"),
		statActive:  reg.Ints.Get("blob.active"),
		statSwept:   reg.Ints.Get("blob.swept"),
	}
}

// SetConfig applies new parameters to future spawns and lifecycle checks
func (s *BlobSystem) SetConfig(cfg BlobConfig) {
	cfg = sanitizeBlobs(cfg)
	s.cfg = cfg
	s.pool.SetCeiling(cfg.Max)
	for len(s.order) > cfg.Max {
		s.remove(s.order[0], true)
	}
}

// Config returns the active parameters
func (s *BlobSystem) Config() BlobConfig {
	return s.cfg
}

// Resize records surface bounds used to place new blobs
func (s *BlobSystem) Resize(width, height float64) {
	s.width, s.height = width, height
}

// Spawn creates a growing blob for key, retiring any blob already using it
// nx, ny are in [0, 1] relative to the surface
func (s *BlobSystem) Spawn(key, note string, octave int, frequency, nx, ny float64, now time.Time) *Blob {
	if h, ok := s.byKey[key]; ok {
		s.remove(h, false)
	}
	if len(s.order) >= s.cfg.Max {
		s.remove(s.order[0], true)
	}

	h, b, ok := s.pool.Acquire()
	if !ok {
		return nil
	}
	if !vmath.IsFinite(frequency) || frequency < 0 {
		frequency = 0
	}
	*b = Blob{
		Key:         key,
		Note:        note,
		Octave:      octave,
		Frequency:   frequency,
		NX:          vmath.Clamp01(nanTo(nx, 0.5)),
		NY:          vmath.Clamp01(nanTo(ny, 0.5)),
		BaseRadius:  s.rng.Range(s.cfg.MinRadius, s.cfg.MaxRadius),
		BaseOpacity: s.cfg.BaseOpacity,
		Opacity:     s.cfg.BaseOpacity,
		VX:          s.rng.Range(-s.cfg.DriftSpeed, s.cfg.DriftSpeed),
		VY:          s.rng.Range(-s.cfg.DriftSpeed, s.cfg.DriftSpeed),
		Phase:       s.rng.Range(0, 2*math.Pi),
		Vibration:   1,
		Created:     now,
	}
	if s.width > 0 && s.height > 0 {
		s.place(b, s.width, s.height)
	}

	s.byKey[key] = h
	s.order = append(s.order, h)
	s.statSpawned.Add(1)
	s.statActive.Store(int64(len(s.order)))
	return b
}

func nanTo(v, fallback float64) float64 {
	if !vmath.IsFinite(v) {
		return fallback
	}
	return v
}

// place resolves the normalized position and clamps inside the surface
func (s *BlobSystem) place(b *Blob, width, height float64) {
	b.X = b.NX * width
	b.Y = b.NY * height
	b.placed = true
	contain(&b.X, &b.VX, b.BaseRadius, width, 1)
	contain(&b.Y, &b.VY, b.BaseRadius, height, 1)
}

// Release starts the fade for key; unknown or already fading keys are a no-op
func (s *BlobSystem) Release(key string, now time.Time) bool {
	h, ok := s.byKey[key]
	if !ok {
		return false
	}
	b := s.pool.Get(h)
	if b == nil || b.Fading() {
		return false
	}
	b.fadeFrom = s.liveScale(b, now)
	b.FadeStart = now
	return true
}

// liveScale is the non-fading scale curve: overshoot grow-in, then a gentle wobble
// The wobble starts at zero phase so the curve is continuous at the end of grow-in
func (s *BlobSystem) liveScale(b *Blob, now time.Time) float64 {
	age := b.Age(now)
	if age < 0 {
		return 0
	}
	if s.cfg.GrowIn > 0 && age < s.cfg.GrowIn {
		return vmath.EaseOutBack(float64(age) / float64(s.cfg.GrowIn))
	}
	steady := (age - s.cfg.GrowIn).Seconds()
	return 1 + s.cfg.SteadyWobble*math.Sin(steady*s.cfg.SteadyRate)
}

// Advance integrates drift with elastic edges and updates scale, opacity and vibration
// Completed fades are removed after the pass
func (s *BlobSystem) Advance(now time.Time, width, height float64) {
	s.width, s.height = width, height

	dt := 0.0
	if !s.last.IsZero() {
		d := now.Sub(s.last)
		if d > parameter.MaxFrameDelta {
			d = parameter.MaxFrameDelta
		}
		if d > 0 {
			dt = d.Seconds()
		}
	}
	s.last = now

	s.doomed = s.doomed[:0]
	for _, h := range s.order {
		b := s.pool.Get(h)
		if b == nil {
			continue
		}
		if !b.placed && width > 0 && height > 0 {
			s.place(b, width, height)
		}

		b.X += b.VX * dt
		b.Y += b.VY * dt
		contain(&b.X, &b.VX, b.BaseRadius, width, s.cfg.BounceDamping)
		contain(&b.Y, &b.VY, b.BaseRadius, height, s.cfg.BounceDamping)

		if !b.Fading() {
			b.Scale = s.liveScale(b, now)
			b.Opacity = b.BaseOpacity
			b.Vibration = 1
			continue
		}

		p := vmath.Clamp01(float64(now.Sub(b.FadeStart)) / float64(s.cfg.FadeOut))
		b.Scale = (1 - vmath.EaseInQuad(p)) * b.fadeFrom
		b.Opacity = b.BaseOpacity * vmath.CosFade(p)
		b.Vibration = 1 - p
		if p >= 1 {
			s.doomed = append(s.doomed, h)
		}
	}

	for _, h := range s.doomed {
		s.remove(h, true)
	}
}

// contain reflects velocity at the edges with damping and clamps to [r, dim-r]
// A dimension smaller than the diameter pins the axis to its center
func contain(pos, vel *float64, r, dim, damping float64) {
	if dim <= 0 {
		return
	}
	if dim < 2*r {
		*pos = dim / 2
		return
	}
	if *pos < r {
		*pos = r
		*vel = math.Abs(*vel) * damping
	} else if *pos > dim-r {
		*pos = dim - r
		*vel = -math.Abs(*vel) * damping
	}
}

// SweepExpired force-removes blobs past MaxLifetime or stuck fading beyond FadeOut+FadeGrace
// Returns the number removed
func (s *BlobSystem) SweepExpired(now time.Time) int {
	s.doomed = s.doomed[:0]
	stuck := s.cfg.FadeOut + s.cfg.FadeGrace
	for _, h := range s.order {
		b := s.pool.Get(h)
		if b == nil {
			continue
		}
		if b.Age(now) >= s.cfg.MaxLifetime || (b.Fading() && now.Sub(b.FadeStart) >= stuck) {
			s.doomed = append(s.doomed, h)
		}
	}
	n := len(s.doomed)
	for _, h := range s.doomed {
		s.remove(h, true)
	}
	if n > 0 {
		s.statSwept.Add(int64(n))
	}
	return n
}

// remove frees h; retire records the key for Retired
func (s *BlobSystem) remove(h pool.Handle, retire bool) {
	b := s.pool.Get(h)
	if b == nil {
		return
	}
	b.removed = true
	if cur, ok := s.byKey[b.Key]; ok && cur == h {
		delete(s.byKey, b.Key)
		if retire {
			s.retired = append(s.retired, b.Key)
		}
	}
	for i, oh := range s.order {
		if oh == h {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.pool.Release(h)
	s.statActive.Store(int64(len(s.order)))
}

// Each visits live blobs oldest first; fn must not spawn or release
func (s *BlobSystem) Each(fn func(b *Blob)) {
	for _, h := range s.order {
		if b := s.pool.Get(h); b != nil {
			fn(b)
		}
	}
}

// Get returns the live blob for key
func (s *BlobSystem) Get(key string) (*Blob, bool) {
	h, ok := s.byKey[key]
	if !ok {
		return nil, false
	}
	b := s.pool.Get(h)
	return b, b != nil
}

// Retired appends the keys of blobs removed since the last call to dst
// Covers completed fades, lifetime sweeps and cap evictions; Clear is not reported
func (s *BlobSystem) Retired(dst []string) []string {
	dst = append(dst, s.retired...)
	s.retired = s.retired[:0]
	return dst
}

// Count returns live blobs
func (s *BlobSystem) Count() int {
	return len(s.order)
}

// Sounding returns live blobs that are not fading
func (s *BlobSystem) Sounding() int {
	n := 0
	s.Each(func(b *Blob) {
		if !b.Fading() {
			n++
		}
	})
	return n
}

// Keys returns live keys oldest first
func (s *BlobSystem) Keys() []string {
	keys := make([]string, 0, len(s.order))
	s.Each(func(b *Blob) { keys = append(keys, b.Key) })
	return keys
}

// Clear removes every blob
func (s *BlobSystem) Clear() {
	s.pool.Reset()
	clear(s.byKey)
	s.order = s.order[:0]
	s.retired = s.retired[:0]
	s.last = time.Time{}
	s.statActive.Store(0)
}
