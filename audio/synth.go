package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveTriangle
)

// waveSample evaluates one cycle position in [0, 1)
func waveSample(w WaveType, phase float64) float64 {
	switch w {
	case WaveSquare:
		if phase < 0.5 {
			return 1.0
		}
		return -1.0
	case WaveSaw:
		return 2.0 * (phase - 0.5)
	case WaveTriangle:
		return 1 - 4*math.Abs(phase-0.5)
	default:
		return math.Sin(2 * math.Pi * phase)
	}
}

// voice is one sounding note with a linear attack/release envelope
type voice struct {
	freq      float64
	phase     float64
	overtone  float64
	level     float64
	releasing bool
	started   uint64
}

// VoiceBank is a polyphonic oscillator bank keyed by voice id
// It never ends; silence is streamed when no voice sounds
type VoiceBank struct {
	mu      sync.Mutex
	rate    beep.SampleRate
	wave    WaveType
	voices  map[string]*voice
	limit   int
	attack  float64 // level step per sample
	release float64
	gain    float64
	counter uint64
}

// NewVoiceBank creates a bank from cfg
func NewVoiceBank(cfg *Config) *VoiceBank {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	rate := beep.SampleRate(cfg.SampleRate)
	if rate <= 0 {
		rate = DefaultSampleRate
	}
	return &VoiceBank{
		rate:    rate,
		wave:    cfg.Wave,
		voices:  make(map[string]*voice, cfg.Voices),
		limit:   max(cfg.Voices, 1),
		attack:  envelopeStep(rate, cfg.Attack),
		release: envelopeStep(rate, cfg.Release),
		gain:    0.35,
	}
}

func envelopeStep(rate beep.SampleRate, d time.Duration) float64 {
	n := rate.N(d)
	if n < 1 {
		return 1
	}
	return 1 / float64(n)
}

// NoteOn starts or retriggers a voice; the oldest voice is stolen at the limit
func (b *VoiceBank) NoteOn(id string, freq float64) {
	if !(freq > 0) || math.IsInf(freq, 0) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.counter++
	if v, ok := b.voices[id]; ok {
		v.freq = freq
		v.releasing = false
		v.started = b.counter
		return
	}
	if len(b.voices) >= b.limit {
		b.stealLocked()
	}
	b.voices[id] = &voice{freq: freq, started: b.counter}
}

// stealLocked drops the oldest voice, preferring ones already releasing
func (b *VoiceBank) stealLocked() {
	var victim string
	var best *voice
	for id, v := range b.voices {
		if best == nil ||
			(v.releasing && !best.releasing) ||
			(v.releasing == best.releasing && v.started < best.started) {
			victim, best = id, v
		}
	}
	delete(b.voices, victim)
}

// NoteOff begins the release of a voice; unknown ids are ignored
func (b *VoiceBank) NoteOff(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.voices[id]
	if !ok || v.releasing {
		return false
	}
	v.releasing = true
	return true
}

// Active returns the number of voices still sounding, releasing ones included
func (b *VoiceBank) Active() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.voices)
}

// Stream implements beep.Streamer
func (b *VoiceBank) Stream(samples [][2]float64) (int, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	step := 1 / float64(b.rate)
	for i := range samples {
		var sum float64
		for id, v := range b.voices {
			if v.releasing {
				v.level -= b.release
				if v.level <= 0 {
					delete(b.voices, id)
					continue
				}
			} else if v.level < 1 {
				v.level = math.Min(1, v.level+b.attack)
			}

			// Fundamental plus a soft octave partial
			s := waveSample(b.wave, v.phase) + 0.3*math.Sin(2*math.Pi*v.overtone)
			sum += s * v.level

			v.phase += v.freq * step
			v.phase -= math.Floor(v.phase)
			v.overtone += 2 * v.freq * step
			v.overtone -= math.Floor(v.overtone)
		}
		out := math.Tanh(sum * b.gain)
		samples[i][0] = out
		samples[i][1] = out
	}
	return len(samples), true
}

// Err implements beep.Streamer
func (b *VoiceBank) Err() error { return nil }

// SampleRate returns the bank rate
func (b *VoiceBank) SampleRate() beep.SampleRate {
	return b.rate
}

// newVolume wraps s with a linear gain
// math.Log2(0) is -Inf, so 0 volume is made silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}
