package systems

import (
	"image/color"
	"testing"
	"time"

	"github.com/lixenwraith/resonance/status"
)

var white = color.NRGBA{255, 255, 255, 255}

func TestParticleCap(t *testing.T) {
	cfg := DefaultParticleConfig()
	cfg.Max = 50
	cfg.InitialPool = 10
	reg := status.NewRegistry()
	s := NewParticleSystem(cfg, 1, reg)

	for i := 0; i < 200; i++ {
		s.Spawn(100, 100, white, ShapeStar, 1)
	}

	if s.Count() != 50 {
		t.Errorf("Expected 50 live particles, got %d", s.Count())
	}
	if s.Allocated() > 50 {
		t.Errorf("Pool grew past cap: %d", s.Allocated())
	}
	if got := reg.Ints.Get("particle.dropped").Load(); got != 150 {
		t.Errorf("Expected 150 dropped, got %d", got)
	}
	if got := reg.Ints.Get("particle.active").Load(); got != 50 {
		t.Errorf("Expected active telemetry 50, got %d", got)
	}
}

func TestParticleSpawnRejects(t *testing.T) {
	s := NewParticleSystem(DefaultParticleConfig(), 1, nil)

	tests := []struct {
		name  string
		x, y  float64
		count int
	}{
		{"zero count", 10, 10, 0},
		{"negative count", 10, 10, -3},
		{"nan origin", nan(), 10, 5},
		{"inf origin", 10, inf(), 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if n := s.Spawn(tt.x, tt.y, white, ShapeCircle, tt.count); n != 0 {
				t.Errorf("Expected no spawn, got %d", n)
			}
		})
	}

	// Unknown shape is accepted as a circle
	s.Spawn(0, 0, white, Shape(200), 1)
	s.Each(func(p *Particle) {
		if p.Shape != ShapeCircle {
			t.Errorf("Expected circle fallback, got %v", p.Shape)
		}
	})
}

func TestParticleTermination(t *testing.T) {
	cfg := DefaultParticleConfig()
	s := NewParticleSystem(cfg, 7, nil)
	s.Spawn(50, 50, white, ShapeMist, 40)

	step := 16 * time.Millisecond
	for elapsed := time.Duration(0); elapsed <= cfg.MaxLife+step; elapsed += step {
		s.Advance(step)
		s.Each(func(p *Particle) {
			if a := p.Alpha(); a < 0 || a > 1 {
				t.Fatalf("Alpha %f out of range", a)
			}
			if p.Life > p.MaxLife {
				t.Fatalf("Expired particle still live: life=%f max=%f", p.Life, p.MaxLife)
			}
		})
	}

	if s.Count() != 0 {
		t.Errorf("Expected all particles gone after max life, %d remain", s.Count())
	}
}

func TestParticleMotion(t *testing.T) {
	cfg := DefaultParticleConfig()
	cfg.Gravity = 0
	cfg.Drag = 1
	cfg.MinSpeed, cfg.MaxSpeed = 100, 100
	s := NewParticleSystem(cfg, 3, nil)
	s.Spawn(0, 0, white, ShapeCircle, 1)

	s.Advance(100 * time.Millisecond)
	s.Each(func(p *Particle) {
		d := p.X*p.X + p.Y*p.Y
		// 100 px/s for 0.1s
		if d < 99.9 || d > 100.1 {
			t.Errorf("Expected 10px travel, got dist² %f", d)
		}
		if p.LifeRatio() <= 0 {
			t.Error("Life should advance")
		}
	})
}

func TestParticleClearShrinks(t *testing.T) {
	cfg := DefaultParticleConfig()
	cfg.InitialPool = 8
	cfg.Max = 100
	s := NewParticleSystem(cfg, 1, nil)

	s.Spawn(0, 0, white, ShapeCircle, 80)
	if s.Allocated() < 80 {
		t.Fatalf("Expected pool growth, got %d", s.Allocated())
	}

	s.Clear()
	if s.Count() != 0 {
		t.Errorf("Expected 0 live after clear, got %d", s.Count())
	}
	if s.Allocated() != cfg.InitialPool {
		t.Errorf("Expected pool trimmed to %d, got %d", cfg.InitialPool, s.Allocated())
	}
}

func TestParticleSteadyStateNoAlloc(t *testing.T) {
	cfg := DefaultParticleConfig()
	cfg.InitialPool = cfg.Max
	s := NewParticleSystem(cfg, 1, nil)

	allocs := testing.AllocsPerRun(100, func() {
		s.Spawn(10, 10, white, ShapeSparkle, 5)
		s.Advance(16 * time.Millisecond)
	})
	if allocs != 0 {
		t.Errorf("Expected zero allocations per frame, got %f", allocs)
	}
}

func TestParticleSetConfigLowersCap(t *testing.T) {
	cfg := DefaultParticleConfig()
	s := NewParticleSystem(cfg, 1, nil)
	s.Spawn(0, 0, white, ShapeCircle, 30)

	cfg.Max = 10
	s.SetConfig(cfg)
	if n := s.Spawn(0, 0, white, ShapeCircle, 5); n != 0 {
		t.Errorf("Spawn above lowered cap created %d", n)
	}
	if s.Config().Max != 10 {
		t.Errorf("Config not applied")
	}
	if s.Count() > 10 {
		t.Errorf("Expected at most 10 live after lowering cap, got %d", s.Count())
	}
	s.Advance(16 * time.Millisecond)
	if s.Count() > 10 {
		t.Errorf("Expected at most 10 live after advance, got %d", s.Count())
	}
}

func TestParticleTrimKeepsFreshest(t *testing.T) {
	cfg := DefaultParticleConfig()
	s := NewParticleSystem(cfg, 1, nil)
	s.Spawn(0, 0, white, ShapeCircle, 20)
	s.Advance(100 * time.Millisecond)
	s.Spawn(0, 0, white, ShapeCircle, 5)

	cfg.Max = 5
	s.SetConfig(cfg)
	if s.Count() != 5 {
		t.Fatalf("Expected 5 live, got %d", s.Count())
	}
	s.Each(func(p *Particle) {
		if p.Life != 0 {
			t.Errorf("Expected fresh particles kept, found life %f", p.Life)
		}
	})
}
