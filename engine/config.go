package engine

import (
	"encoding/json"
	"image/color"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/lixenwraith/resonance/palette"
	"github.com/lixenwraith/resonance/parameter"
	"github.com/lixenwraith/resonance/parameter/visual"
	"github.com/lixenwraith/resonance/render/renderers"
	"github.com/lixenwraith/resonance/status"
	"github.com/lixenwraith/resonance/systems"
)

// Config aggregates every subsystem configuration
// A Config handed to the engine is copied; later mutation by the caller has no effect
type Config struct {
	Blob        systems.BlobConfig
	Particle    systems.ParticleConfig
	String      systems.StringConfig
	Ambient     renderers.AmbientConfig
	Scope       renderers.ScopeConfig
	Performance status.Config

	Scale         palette.Scale
	Background    color.NRGBA
	FrameInterval time.Duration
}

// DefaultConfig returns the standard configuration in C major
func DefaultConfig() *Config {
	scale, _ := palette.NewScale("C", palette.Major)
	return &Config{
		Blob:          systems.DefaultBlobConfig(),
		Particle:      systems.DefaultParticleConfig(),
		String:        systems.DefaultStringConfig(),
		Ambient:       renderers.DefaultAmbientConfig(),
		Scope:         renderers.DefaultScopeConfig(),
		Performance:   status.DefaultConfig(),
		Scale:         scale,
		Background:    visual.RgbBackground,
		FrameInterval: parameter.FrameUpdateInterval,
	}
}

// Clone returns a deep copy
func (c *Config) Clone() *Config {
	out := *c
	out.Scale.Notes = append([]string(nil), c.Scale.Notes...)
	return &out
}

// LoadConfig builds a Config from defaults, the RESONANCE_CONFIG JSON file, then
// individual environment overrides
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	if path := os.Getenv("RESONANCE_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, errors.Wrapf(err, "read config %s", path)
		}
		if err := cfg.ApplyJSON(data); err != nil {
			return cfg, errors.Wrapf(err, "config %s", path)
		}
	}

	if v := os.Getenv("RESONANCE_PARTICLES_MAX"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Particle.Max = n
		}
	}
	envBool("RESONANCE_BLOBS_ENABLED", &cfg.Blob.Enabled)
	envBool("RESONANCE_PARTICLES_ENABLED", &cfg.Particle.Enabled)
	envBool("RESONANCE_STRINGS_ENABLED", &cfg.String.Enabled)
	envBool("RESONANCE_AMBIENT_ENABLED", &cfg.Ambient.Enabled)
	envBool("RESONANCE_SCOPE_ENABLED", &cfg.Scope.Enabled)

	if v := os.Getenv("RESONANCE_SCALE"); v != "" {
		sc, err := palette.ParseScale(v)
		if err != nil {
			return cfg, errors.Wrap(err, "RESONANCE_SCALE")
		}
		cfg.Scale = sc
	}

	return cfg, nil
}

func envBool(key string, dst *bool) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

// JSON override shapes; durations are milliseconds, absent fields keep their value
type (
	fileConfig struct {
		Scale       *string          `json:"scale"`
		Background  *string          `json:"background"`
		FPS         *int             `json:"fps"`
		Blob        *blobJSON        `json:"blob"`
		Particle    *particleJSON    `json:"particle"`
		String      *stringJSON      `json:"string"`
		Ambient     *ambientJSON     `json:"ambient"`
		Scope       *scopeJSON       `json:"scope"`
		Performance *performanceJSON `json:"performance"`
	}

	blobJSON struct {
		Enabled     *bool    `json:"enabled"`
		Max         *int     `json:"max"`
		GrowInMs    *int     `json:"grow_in_ms"`
		FadeOutMs   *int     `json:"fade_out_ms"`
		LifetimeMs  *int     `json:"max_lifetime_ms"`
		MinRadius   *float64 `json:"min_radius"`
		MaxRadius   *float64 `json:"max_radius"`
		Opacity     *float64 `json:"opacity"`
		DriftSpeed  *float64 `json:"drift_speed"`
		Vibration   *float64 `json:"vibration"`
		Segments    *int     `json:"segments"`
		BounceDecay *float64 `json:"bounce_damping"`
	}

	particleJSON struct {
		Enabled    *bool    `json:"enabled"`
		Max        *int     `json:"max"`
		SpawnCount *int     `json:"spawn_count"`
		MinSpeed   *float64 `json:"min_speed"`
		MaxSpeed   *float64 `json:"max_speed"`
		MinSize    *float64 `json:"min_size"`
		MaxSize    *float64 `json:"max_size"`
		MinLifeMs  *int     `json:"min_life_ms"`
		MaxLifeMs  *int     `json:"max_life_ms"`
		Gravity    *float64 `json:"gravity"`
	}

	stringJSON struct {
		Enabled         *bool    `json:"enabled"`
		ActiveAmplitude *float64 `json:"active_amplitude"`
		ActiveOpacity   *float64 `json:"active_opacity"`
		IdleOpacity     *float64 `json:"idle_opacity"`
		Response        *float64 `json:"response"`
		LineWidth       *float64 `json:"line_width"`
	}

	ambientJSON struct {
		Enabled         *bool    `json:"enabled"`
		Linear          *bool    `json:"linear"`
		MajorBrightness *float64 `json:"major_brightness"`
		MinorBrightness *float64 `json:"minor_brightness"`
		MajorSaturation *float64 `json:"major_saturation"`
		MinorSaturation *float64 `json:"minor_saturation"`
		NoiseDots       *int     `json:"noise_dots"`
	}

	scopeJSON struct {
		Enabled       *bool    `json:"enabled"`
		SizeRatio     *float64 `json:"size_ratio"`
		MinSize       *float64 `json:"min_size"`
		MaxSize       *float64 `json:"max_size"`
		Glow          *float64 `json:"glow"`
		TrailStrength *float64 `json:"trail_strength"`
		LineWidth     *float64 `json:"line_width"`
		ScaleInMs     *int     `json:"scale_in_ms"`
		ScaleOutMs    *int     `json:"scale_out_ms"`
	}

	performanceJSON struct {
		Window       *int `json:"window"`
		WarnInterval *int `json:"warn_interval"`
	}
)

// ApplyJSON overlays a JSON document onto c
func (c *Config) ApplyJSON(data []byte) error {
	var f fileConfig
	if err := json.Unmarshal(data, &f); err != nil {
		return errors.Wrap(err, "decode config")
	}

	if f.Scale != nil {
		sc, err := palette.ParseScale(*f.Scale)
		if err != nil {
			return err
		}
		c.Scale = sc
	}
	if f.Background != nil {
		bg, ok := palette.Parse(*f.Background)
		if !ok {
			return errors.Errorf("invalid background color %q", *f.Background)
		}
		c.Background = bg
	}
	if f.FPS != nil {
		if *f.FPS <= 0 {
			return errors.Errorf("fps must be positive, got %d", *f.FPS)
		}
		c.FrameInterval = time.Second / time.Duration(*f.FPS)
	}

	if b := f.Blob; b != nil {
		setBool(&c.Blob.Enabled, b.Enabled)
		setInt(&c.Blob.Max, b.Max)
		setMs(&c.Blob.GrowIn, b.GrowInMs)
		setMs(&c.Blob.FadeOut, b.FadeOutMs)
		setMs(&c.Blob.MaxLifetime, b.LifetimeMs)
		setFloat(&c.Blob.MinRadius, b.MinRadius)
		setFloat(&c.Blob.MaxRadius, b.MaxRadius)
		setFloat(&c.Blob.BaseOpacity, b.Opacity)
		setFloat(&c.Blob.DriftSpeed, b.DriftSpeed)
		setFloat(&c.Blob.VibrationIntensity, b.Vibration)
		setInt(&c.Blob.Segments, b.Segments)
		setFloat(&c.Blob.BounceDamping, b.BounceDecay)
	}
	if p := f.Particle; p != nil {
		setBool(&c.Particle.Enabled, p.Enabled)
		setInt(&c.Particle.Max, p.Max)
		setInt(&c.Particle.SpawnCount, p.SpawnCount)
		setFloat(&c.Particle.MinSpeed, p.MinSpeed)
		setFloat(&c.Particle.MaxSpeed, p.MaxSpeed)
		setFloat(&c.Particle.MinSize, p.MinSize)
		setFloat(&c.Particle.MaxSize, p.MaxSize)
		setMs(&c.Particle.MinLife, p.MinLifeMs)
		setMs(&c.Particle.MaxLife, p.MaxLifeMs)
		setFloat(&c.Particle.Gravity, p.Gravity)
	}
	if s := f.String; s != nil {
		setBool(&c.String.Enabled, s.Enabled)
		setFloat(&c.String.ActiveAmplitude, s.ActiveAmplitude)
		setFloat(&c.String.ActiveOpacity, s.ActiveOpacity)
		setFloat(&c.String.IdleOpacity, s.IdleOpacity)
		setFloat(&c.String.Response, s.Response)
		setFloat(&c.String.LineWidth, s.LineWidth)
	}
	if a := f.Ambient; a != nil {
		setBool(&c.Ambient.Enabled, a.Enabled)
		setBool(&c.Ambient.Linear, a.Linear)
		setFloat(&c.Ambient.MajorBrightness, a.MajorBrightness)
		setFloat(&c.Ambient.MinorBrightness, a.MinorBrightness)
		setFloat(&c.Ambient.MajorSaturation, a.MajorSaturation)
		setFloat(&c.Ambient.MinorSaturation, a.MinorSaturation)
		setInt(&c.Ambient.NoiseDots, a.NoiseDots)
	}
	if s := f.Scope; s != nil {
		setBool(&c.Scope.Enabled, s.Enabled)
		setFloat(&c.Scope.SizeRatio, s.SizeRatio)
		setFloat(&c.Scope.MinSize, s.MinSize)
		setFloat(&c.Scope.MaxSize, s.MaxSize)
		setFloat(&c.Scope.Glow, s.Glow)
		setFloat(&c.Scope.TrailStrength, s.TrailStrength)
		setFloat(&c.Scope.LineWidth, s.LineWidth)
		setMs(&c.Scope.ScaleIn, s.ScaleInMs)
		setMs(&c.Scope.ScaleOut, s.ScaleOutMs)
	}
	if p := f.Performance; p != nil {
		setInt(&c.Performance.Window, p.Window)
		setInt(&c.Performance.WarnInterval, p.WarnInterval)
	}
	return nil
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}

func setMs(dst *time.Duration, src *int) {
	if src != nil && *src >= 0 {
		*dst = time.Duration(*src) * time.Millisecond
	}
}
