// Package systems owns the animated entities and advances them each frame
package systems

import (
	"cmp"
	"image/color"
	"math"
	"slices"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/resonance/parameter"
	"github.com/lixenwraith/resonance/pool"
	"github.com/lixenwraith/resonance/status"
	"github.com/lixenwraith/resonance/vmath"
)

// Particle is a pooled short-lived decoration
type Particle struct {
	X, Y     float64
	VX, VY   float64
	Color    color.NRGBA
	Shape    Shape
	Size     float64
	Life     float64 // seconds elapsed
	MaxLife  float64 // seconds
	Rotation float64
	Spin     float64 // rad/sec
}

// LifeRatio returns elapsed life in [0, 1]
func (p *Particle) LifeRatio() float64 {
	if p.MaxLife <= 0 {
		return 1
	}
	return vmath.Clamp01(p.Life / p.MaxLife)
}

// Alpha rises and falls smoothly over the lifetime: sin(lifeRatio*pi)
func (p *Particle) Alpha() float64 {
	return vmath.SinPulse(p.LifeRatio())
}

// ParticleConfig holds spawn and motion parameters
type ParticleConfig struct {
	Enabled     bool
	Max         int
	InitialPool int
	SpawnCount  int
	MinSpeed    float64
	MaxSpeed    float64
	Gravity     float64
	Drag        float64 // velocity retained per 1/60s
	MinSize     float64
	MaxSize     float64
	MinLife     time.Duration
	MaxLife     time.Duration
	MaxSpin     float64
}

// DefaultParticleConfig returns the standard particle parameters
func DefaultParticleConfig() ParticleConfig {
	return ParticleConfig{
		Enabled:     true,
		Max:         parameter.ParticleMax,
		InitialPool: parameter.ParticleInitialPool,
		SpawnCount:  parameter.ParticleSpawnCount,
		MinSpeed:    parameter.ParticleMinSpeed,
		MaxSpeed:    parameter.ParticleMaxSpeed,
		Gravity:     parameter.ParticleGravity,
		Drag:        parameter.ParticleDrag,
		MinSize:     parameter.ParticleMinSize,
		MaxSize:     parameter.ParticleMaxSize,
		MinLife:     parameter.ParticleMinLife,
		MaxLife:     parameter.ParticleMaxLife,
		MaxSpin:     parameter.ParticleMaxSpin,
	}
}

// ParticleSystem spawns and advances particles in a bounded pool
// Not safe for concurrent use; owned by the render thread
type ParticleSystem struct {
	cfg  ParticleConfig
	pool *pool.Pool[Particle]
	rng  *vmath.FastRand

	expired []pool.Handle // scratch for post-pass release

	// Telemetry
	statCreated *atomic.Int64
	statActive  *atomic.Int64
	statDropped *atomic.Int64
}

// NewParticleSystem creates a system with a pool pre-warmed to cfg.InitialPool
// reg may be nil
func NewParticleSystem(cfg ParticleConfig, seed uint64, reg *status.Registry) *ParticleSystem {
	if reg == nil {
		reg = status.NewRegistry()
	}
	cfg = sanitizeParticles(cfg)
	return &ParticleSystem{
		cfg:         cfg,
		pool:        pool.New[Particle](cfg.InitialPool, cfg.Max),
		rng:         vmath.NewFastRand(seed),
		expired:     make([]pool.Handle, 0, cfg.Max),
		statCreated: reg.Ints.Get("particle.created"),
		statActive:  reg.Ints.Get("particle.active"),
		statDropped: reg.Ints.Get("particle.dropped"),
	}
}

func sanitizeParticles(cfg ParticleConfig) ParticleConfig {
	cfg.Max = max(cfg.Max, 0)
	cfg.InitialPool = vmath.ClampInt(cfg.InitialPool, 0, cfg.Max)
	if cfg.MaxSpeed < cfg.MinSpeed {
		cfg.MinSpeed, cfg.MaxSpeed = cfg.MaxSpeed, cfg.MinSpeed
	}
	if cfg.MaxSize < cfg.MinSize {
		cfg.MinSize, cfg.MaxSize = cfg.MaxSize, cfg.MinSize
	}
	if cfg.MaxLife < cfg.MinLife {
		cfg.MinLife, cfg.MaxLife = cfg.MaxLife, cfg.MinLife
	}
	if cfg.MinLife <= 0 {
		cfg.MinLife = time.Millisecond
	}
	if cfg.MaxLife < cfg.MinLife {
		cfg.MaxLife = cfg.MinLife
	}
	cfg.Drag = vmath.Clamp(cfg.Drag, 0, 1)
	return cfg
}

// SetConfig applies new parameters; live particles keep their state
// Particles above a lowered cap are released, oldest first
func (s *ParticleSystem) SetConfig(cfg ParticleConfig) {
	cfg = sanitizeParticles(cfg)
	s.cfg = cfg
	s.pool.SetCeiling(cfg.Max)
	s.trim()
}

// trim releases the oldest particles until the live count fits the cap
func (s *ParticleSystem) trim() {
	surplus := s.pool.Live() - s.cfg.Max
	if surplus <= 0 {
		return
	}
	s.expired = s.expired[:0]
	s.pool.Each(func(h pool.Handle, _ *Particle) bool {
		s.expired = append(s.expired, h)
		return true
	})
	slices.SortStableFunc(s.expired, func(a, b pool.Handle) int {
		return cmp.Compare(s.age(a), s.age(b))
	})
	for _, h := range s.expired[len(s.expired)-surplus:] {
		s.pool.Release(h)
	}
	s.expired = s.expired[:0]
	s.statActive.Store(int64(s.pool.Live()))
}

func (s *ParticleSystem) age(h pool.Handle) float64 {
	if p := s.pool.Get(h); p != nil {
		return p.Life
	}
	return 0
}

// Config returns the active parameters
func (s *ParticleSystem) Config() ParticleConfig {
	return s.cfg
}

// Spawn creates up to count particles at (x, y); returns the number created
// Requests beyond the live cap are dropped silently
func (s *ParticleSystem) Spawn(x, y float64, c color.NRGBA, shape Shape, count int) int {
	if count <= 0 || !vmath.AllFinite(x, y) {
		return 0
	}
	if !shape.Valid() {
		shape = ShapeCircle
	}

	created := 0
	minLife, maxLife := s.cfg.MinLife.Seconds(), s.cfg.MaxLife.Seconds()
	for ; created < count; created++ {
		if s.pool.Live() >= s.cfg.Max {
			break
		}
		_, p, ok := s.pool.Acquire()
		if !ok {
			break
		}
		angle := s.rng.Range(0, 2*math.Pi)
		speed := s.rng.Range(s.cfg.MinSpeed, s.cfg.MaxSpeed)
		*p = Particle{
			X:        x,
			Y:        y,
			VX:       math.Cos(angle) * speed,
			VY:       math.Sin(angle) * speed,
			Color:    c,
			Shape:    shape,
			Size:     s.rng.Range(s.cfg.MinSize, s.cfg.MaxSize),
			MaxLife:  s.rng.Range(minLife, maxLife),
			Rotation: s.rng.Range(0, 2*math.Pi),
			Spin:     s.rng.Range(-s.cfg.MaxSpin, s.cfg.MaxSpin),
		}
	}

	s.statCreated.Add(int64(created))
	s.statDropped.Add(int64(count - created))
	s.statActive.Store(int64(s.pool.Live()))
	return created
}

// Advance integrates motion by delta and releases expired particles after the pass
func (s *ParticleSystem) Advance(delta time.Duration) {
	dt := delta.Seconds()
	if dt <= 0 || s.pool.Live() == 0 {
		return
	}
	// Drag is specified per 60Hz frame; precompute once per pass
	drag := math.Pow(s.cfg.Drag, dt*60)
	gravity := s.cfg.Gravity * dt

	s.expired = s.expired[:0]
	s.pool.Each(func(h pool.Handle, p *Particle) bool {
		p.X += p.VX * dt
		p.Y += p.VY * dt
		p.VY += gravity
		p.VX *= drag
		p.VY *= drag
		p.Rotation += p.Spin * dt
		p.Life += dt
		if p.Life > p.MaxLife {
			s.expired = append(s.expired, h)
		}
		return true
	})

	for _, h := range s.expired {
		s.pool.Release(h)
	}
	s.trim()
	s.statActive.Store(int64(s.pool.Live()))
}

// Each visits live particles; fn must not spawn
func (s *ParticleSystem) Each(fn func(p *Particle)) {
	s.pool.Each(func(_ pool.Handle, p *Particle) bool {
		fn(p)
		return true
	})
}

// Count returns live particles
func (s *ParticleSystem) Count() int {
	return s.pool.Live()
}

// Allocated returns particle instances held by the pool, live or free
func (s *ParticleSystem) Allocated() int {
	return s.pool.Cap()
}

// Clear releases every particle back to the pool and trims growth beyond the warm size
func (s *ParticleSystem) Clear() {
	s.pool.Reset()
	if s.pool.Cap() > s.cfg.InitialPool {
		s.pool.Shrink()
		s.pool.Grow(s.cfg.InitialPool - s.pool.Cap())
	}
	s.statActive.Store(0)
}
