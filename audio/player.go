package audio

import (
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/pkg/errors"
)

// Player owns the speaker and a mixer of playing streamers
type Player struct {
	mu          sync.Mutex
	cfg         *Config
	mixer       *beep.Mixer
	ctrls       []*beep.Ctrl
	initialized bool
}

// NewPlayer creates a player for cfg
func NewPlayer(cfg *Config) *Player {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Player{
		cfg:   cfg,
		mixer: &beep.Mixer{},
	}
}

// Initialize sets up the speaker with the configured rate and buffer
func (p *Player) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if !p.cfg.Enabled {
		return errors.Wrap(ErrNoSource, "audio disabled")
	}

	rate := beep.SampleRate(p.cfg.SampleRate)
	if err := speaker.Init(rate, rate.N(p.cfg.Buffer)); err != nil {
		return errors.Wrapf(err, "speaker init at %d Hz", p.cfg.SampleRate)
	}

	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Play adds s to the mix at master volume
func (p *Player) Play(s beep.Streamer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	ctrl := &beep.Ctrl{Streamer: newVolume(s, p.cfg.MasterVolume)}
	p.ctrls = append(p.ctrls, ctrl)

	speaker.Lock()
	p.mixer.Add(ctrl)
	speaker.Unlock()
}

// Cleanup pauses and clears all streamers
// beep has no speaker close; clearing the mixer leaves it silent
func (p *Player) Cleanup() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}

	speaker.Lock()
	for _, c := range p.ctrls {
		c.Paused = true
	}
	p.mixer.Clear()
	speaker.Unlock()

	p.ctrls = nil
	p.initialized = false
}
