// Package engine orchestrates systems and renderers into a frame loop driven by note events
package engine

import (
	"context"
	"image/color"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/lixenwraith/resonance/audio"
	"github.com/lixenwraith/resonance/core"
	"github.com/lixenwraith/resonance/event"
	"github.com/lixenwraith/resonance/palette"
	"github.com/lixenwraith/resonance/parameter"
	"github.com/lixenwraith/resonance/parameter/visual"
	"github.com/lixenwraith/resonance/render"
	"github.com/lixenwraith/resonance/render/renderers"
	"github.com/lixenwraith/resonance/status"
	"github.com/lixenwraith/resonance/systems"
	"github.com/lixenwraith/resonance/vmath"
)

// ErrNoSurface is reported when the host cannot provide a drawing surface
var ErrNoSurface = errors.New("drawing surface unavailable")

// Note identifies a played note; Emotion selects the particle shape
type Note struct {
	Name    string
	Emotion string
}

// Host owns the drawing surface lifecycle
type Host interface {
	// Size reports the logical surface size and device pixel ratio
	Size() (width, height int, pixelRatio float64)
	// NewSurface returns a surface of the given logical size, nil when none is available
	NewSurface(width, height int, pixelRatio float64) render.Surface
}

// Unsubscriber is implemented by hosts that attach a resize listener to the engine
type Unsubscriber interface {
	Unsubscribe()
}

// FrameFunc is called after every rendered frame, outside the engine lock
type FrameFunc func(s render.Surface, m status.Metrics)

// Option configures an Engine at construction
type Option func(*Engine)

// WithConfig sets the initial configuration
func WithConfig(cfg *Config) Option {
	return func(e *Engine) {
		if cfg != nil {
			e.cfg.Store(cfg.Clone())
		}
	}
}

// WithProvider sets the note color source
func WithProvider(p palette.Provider) Option {
	return func(e *Engine) { e.provider = p }
}

// WithLogger sets the diagnostic logger
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithTimeProvider sets the time source for the frame loop and animation clock
func WithTimeProvider(tp TimeProvider) Option {
	return func(e *Engine) { e.timeProvider = tp }
}

// WithRandSeed fixes the random seed for reproducible output
func WithRandSeed(seed uint64) Option {
	return func(e *Engine) { e.seed = seed }
}

// WithOnFrame registers a per-frame callback, typically to present the surface
func WithOnFrame(fn FrameFunc) Option {
	return func(e *Engine) { e.onFrame = fn }
}

// WithAudioSource connects the live signal for the Hilbert scope
func WithAudioSource(src audio.Source) Option {
	return func(e *Engine) { e.source = src }
}

// WithRegistry publishes engine telemetry into reg
func WithRegistry(reg *status.Registry) Option {
	return func(e *Engine) { e.reg = reg }
}

// WithOverlay adds the performance overlay layer
func WithOverlay(on bool) Option {
	return func(e *Engine) { e.overlay = on }
}

// voice is a sounding note tracked for strings and scope color
type voice struct {
	note    string
	octave  int
	freq    float64
	degree  int
	started time.Time
}

// frameLoop is one run of the self-driven loop
type frameLoop struct {
	stop chan struct{}
	once sync.Once
}

// Engine owns every system and renderer and serializes access to them
// Tick, note handlers, resize and cleanup take mu; StopAnimation does not, so
// it is safe to call from a frame callback
type Engine struct {
	mu sync.Mutex

	cfg     atomic.Pointer[Config]
	applied *Config // config the systems currently run with

	logger       *log.Logger
	provider     palette.Provider
	timeProvider TimeProvider
	clock        *AnimationClock
	seed         uint64
	onFrame      FrameFunc
	source       audio.Source
	overlay      bool

	host          Host
	surface       render.Surface
	width, height int
	pixelRatio    float64
	warnedSurface bool

	reg     *status.Registry
	monitor *status.Monitor
	events  *event.EventQueue
	pending []event.NoteEvent

	blobs        *systems.BlobSystem
	particles    *systems.ParticleSystem
	strings      *systems.StringSystem
	ambient      *renderers.AmbientRenderer
	scope        *renderers.ScopeRenderer
	orchestrator *render.RenderOrchestrator
	paints       *render.PaintCache

	voices   map[string]voice
	targets  map[int]float64 // scratch: degree -> highest sounding frequency
	retired  []string        // scratch: blob keys removed without a release
	rng      *vmath.FastRand
	lastTick time.Time
	frame    uint64

	loopMu  sync.Mutex
	loop    *frameLoop
	running atomic.Bool

	// Telemetry
	statFrames  *atomic.Int64
	statEvents  *atomic.Int64
	statDropped *atomic.Int64
}

// New creates an engine; Initialize must be called before frames render
func New(opts ...Option) *Engine {
	e := &Engine{
		seed:       uint64(time.Now().UnixNano()),
		pixelRatio: parameter.DefaultPixelRatio,
		events:     event.NewEventQueue(),
		voices:     make(map[string]voice),
		targets:    make(map[int]float64),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.cfg.Load() == nil {
		e.cfg.Store(DefaultConfig())
	}
	if e.logger == nil {
		e.logger = log.Default()
	}
	if e.provider == nil {
		e.provider = palette.Wheel{}
	}
	if e.timeProvider == nil {
		e.timeProvider = SystemTimeProvider{}
	}
	if e.reg == nil {
		e.reg = status.NewRegistry()
	}
	e.clock = NewAnimationClock(e.timeProvider)
	e.rng = vmath.NewFastRand(e.seed + 4)

	cfg := e.cfg.Load()
	e.blobs = systems.NewBlobSystem(cfg.Blob, e.seed, e.reg)
	e.particles = systems.NewParticleSystem(cfg.Particle, e.seed+1, e.reg)
	e.strings = systems.NewStringSystem(cfg.String)
	e.ambient = renderers.NewAmbientRenderer(cfg.Ambient, e.seed+2)
	e.scope = renderers.NewScopeRenderer(cfg.Scope, e.seed+3)
	e.paints = render.NewPaintCache(parameter.ColorCacheSize, parameter.GradientCacheSize)
	e.monitor = status.NewMonitor(e.reg, cfg.Performance.Window)
	e.monitor.SetConfig(cfg.Performance)
	e.applied = cfg

	e.orchestrator = render.NewRenderOrchestrator(e.logger)
	e.orchestrator.Register(e.ambient, render.PriorityAmbient)
	e.orchestrator.Register(e.scope, render.PriorityScope)
	e.orchestrator.Register(renderers.NewBlobRenderer(e.blobs), render.PriorityBlobs)
	e.orchestrator.Register(renderers.NewParticleRenderer(e.particles), render.PriorityParticles)
	e.orchestrator.Register(renderers.NewStringRenderer(e.strings), render.PriorityStrings)
	if e.overlay {
		e.orchestrator.Register(renderers.NewPerfOverlay(e.reg), render.PriorityOverlay)
	}

	e.statFrames = e.reg.Ints.Get("engine.frames")
	e.statEvents = e.reg.Ints.Get("engine.events")
	e.statDropped = e.reg.Ints.Get("engine.events_dropped")
	return e
}

// Initialize acquires a surface from host and sizes every layer
// An unavailable surface is logged once and leaves the engine in a no-op render state
func (e *Engine) Initialize(ctx context.Context, host Host) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.host = host
	e.clock.Start()

	if host == nil {
		e.warnNoSurface()
		return nil
	}
	w, h, pr := host.Size()
	if !(pr > 0) {
		pr = parameter.DefaultPixelRatio
	}
	e.width, e.height, e.pixelRatio = max(w, 0), max(h, 0), pr

	s := host.NewSurface(e.width, e.height, e.pixelRatio)
	if s == nil {
		e.warnNoSurface()
		return nil
	}
	e.surface = s

	cfg := e.cfg.Load()
	e.layoutLocked(cfg)

	if e.source != nil && cfg.Scope.Enabled {
		if err := e.scope.Initialize(ctx, e.width, e.height, e.source); err != nil {
			e.logger.Printf("engine: hilbert scope disabled: %v", err)
		}
	}
	return nil
}

func (e *Engine) warnNoSurface() {
	if !e.warnedSurface {
		e.warnedSurface = true
		e.logger.Printf("engine: %v, rendering disabled", ErrNoSurface)
	}
}

// layoutLocked applies size-dependent state to strings and blobs
func (e *Engine) layoutLocked(cfg *Config) {
	e.strings.Initialize(cfg.Scale.Len(), float64(e.width))
	e.colorStringsLocked(cfg)
	e.blobs.Resize(float64(e.width), float64(e.height))
}

func (e *Engine) colorStringsLocked(cfg *Config) {
	rc := e.colorContext(cfg)
	for i, note := range cfg.Scale.Notes {
		e.strings.SetColor(i, rc.NoteColors(note, 4).Primary)
	}
}

func (e *Engine) colorContext(cfg *Config) render.RenderContext {
	return render.RenderContext{Mode: cfg.Scale.Mode, Colors: e.provider, Paints: e.paints}
}

// HandleResize re-reads the host size and pixel ratio
func (e *Engine) HandleResize() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.host == nil {
		return
	}
	w, h, pr := e.host.Size()
	e.resizeLocked(w, h, pr)
}

// Resize sets a new logical size, keeping the pixel ratio
func (e *Engine) Resize(width, height int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resizeLocked(width, height, e.pixelRatio)
}

func (e *Engine) resizeLocked(w, h int, pr float64) {
	if !(pr > 0) {
		pr = parameter.DefaultPixelRatio
	}
	e.width, e.height, e.pixelRatio = max(w, 0), max(h, 0), pr
	if e.surface == nil {
		return
	}
	e.surface.Resize(e.width, e.height, e.pixelRatio)
	e.layoutLocked(e.cfg.Load())
	e.scope.Resize(e.width, e.height)
}

// Events returns the queue hosts post note and resize events to from any goroutine
func (e *Engine) Events() *event.EventQueue {
	return e.events
}

// HandleNotePlayed spawns a blob keyed by voiceID, or by note name when voiceID is empty,
// and a particle burst that shrinks as more voices sound
func (e *Engine) HandleNotePlayed(note Note, frequency float64, voiceID string, octave int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.notePlayedLocked(note, frequency, voiceID, octave, e.timeProvider.Now())
}

func (e *Engine) notePlayedLocked(note Note, frequency float64, voiceID string, octave int, now time.Time) {
	key := voiceID
	if key == "" {
		key = note.Name
	}
	if key == "" {
		return
	}
	cfg := e.cfg.Load()
	if !vmath.IsFinite(frequency) || frequency < 0 {
		frequency = 0
	}

	others := len(e.voices)
	if _, ok := e.voices[key]; ok {
		others--
	}
	e.voices[key] = voice{
		note:    note.Name,
		octave:  octave,
		freq:    frequency,
		degree:  cfg.Scale.Degree(note.Name),
		started: now,
	}

	x, y := float64(e.width)/2, float64(e.height)/2
	if cfg.Blob.Enabled {
		nx, ny := e.rng.Range(0.15, 0.85), e.rng.Range(0.2, 0.8)
		if b := e.blobs.Spawn(key, note.Name, octave, frequency, nx, ny, now); b != nil && e.width > 0 && e.height > 0 {
			x, y = b.X, b.Y
		}
		e.pruneVoicesLocked(now)
	}

	if cfg.Particle.Enabled {
		count := ParticleCount(cfg.Particle.SpawnCount, others, e.monitor.Status() == status.TierPoor)
		rc := e.colorContext(cfg)
		c := rc.NoteColors(note.Name, octave).Accent
		e.particles.Spawn(x, y, c, systems.ShapeForEmotion(note.Emotion), count)
	}
}

// ParticleCount is the burst size for a new note with active other voices sounding:
// max(1, base / (1 + active*falloff)), halved again when degraded
func ParticleCount(base, active int, degraded bool) int {
	if base <= 0 {
		return 0
	}
	n := int(float64(base) / (1 + float64(max(active, 0))*parameter.ParticleVoiceFalloff))
	if degraded {
		n /= 2
	}
	return max(1, n)
}

// HandleNoteReleased fades the blob for voiceID, falling back to the note name
// Unknown voices and repeated releases are no-ops
func (e *Engine) HandleNoteReleased(name, voiceID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.noteReleasedLocked(name, voiceID, e.timeProvider.Now())
}

func (e *Engine) noteReleasedLocked(name, voiceID string, now time.Time) {
	if voiceID != "" {
		_, tracked := e.voices[voiceID]
		_, live := e.blobs.Get(voiceID)
		if tracked || live {
			delete(e.voices, voiceID)
			e.blobs.Release(voiceID, now)
			return
		}
	}
	if name == "" {
		return
	}
	delete(e.voices, name)
	e.blobs.Release(name, now)
}

// Tick advances and renders one frame at now
// Without a surface it returns immediately and leaves all state untouched
func (e *Engine) Tick(now time.Time) {
	e.mu.Lock()
	if e.surface == nil {
		e.mu.Unlock()
		return
	}

	e.drainLocked(now)

	// One snapshot per frame; hot swaps land between frames
	cfg := e.cfg.Load()
	if cfg != e.applied {
		e.applyLocked(cfg, now)
	}

	var dt time.Duration
	if !e.lastTick.IsZero() {
		dt = min(max(now.Sub(e.lastTick), 0), parameter.MaxFrameDelta)
	}
	e.lastTick = now

	e.blobs.SweepExpired(now)
	e.blobs.Advance(now, float64(e.width), float64(e.height))
	e.pruneVoicesLocked(now)
	e.particles.Advance(dt)
	e.strings.Update(e.stringTargetsLocked(), dt.Seconds())

	note, octave := e.activeNoteLocked()
	e.frame++
	rctx := render.RenderContext{
		Now:          now,
		Elapsed:      e.clock.Elapsed().Seconds(),
		DeltaTime:    dt.Seconds(),
		Frame:        e.frame,
		Width:        e.width,
		Height:       e.height,
		PixelRatio:   e.pixelRatio,
		Mode:         cfg.Scale.Mode,
		Scale:        cfg.Scale,
		ActiveNote:   note,
		ActiveOctave: octave,
		Degraded:     e.monitor.Status() == status.TierPoor,
		ClearColor:   cfg.Background,
		Colors:       e.provider,
		Paints:       e.paints,
	}
	e.orchestrator.RenderFrame(rctx, e.surface)

	metrics := e.monitor.Update(now, e.blobs.Count()+e.particles.Count())
	e.monitor.CheckAndWarn(e.logger)
	e.statFrames.Add(1)

	surface, onFrame := e.surface, e.onFrame
	e.mu.Unlock()

	if onFrame != nil {
		onFrame(surface, metrics)
	}
}

func (e *Engine) drainLocked(now time.Time) {
	e.pending = e.events.ConsumeInto(e.pending[:0])
	for i := range e.pending {
		ev := &e.pending[i]
		at := ev.Time
		if at.IsZero() {
			at = now
		}
		switch ev.Type {
		case event.EventNotePlayed:
			e.notePlayedLocked(Note{Name: ev.Note, Emotion: ev.Emotion}, ev.Frequency, ev.VoiceID, ev.Octave, at)
		case event.EventNoteReleased:
			e.noteReleasedLocked(ev.Note, ev.VoiceID, at)
		case event.EventResize:
			e.resizeLocked(ev.Width, ev.Height, e.pixelRatio)
		}
	}
	e.statEvents.Add(int64(len(e.pending)))
	e.statDropped.Store(int64(e.events.Dropped()))
}

func (e *Engine) applyLocked(cfg *Config, now time.Time) {
	prev := e.applied
	e.applied = cfg
	e.blobs.SetConfig(cfg.Blob)
	e.particles.SetConfig(cfg.Particle)
	e.strings.SetConfig(cfg.String)
	e.ambient.SetConfig(cfg.Ambient)
	e.scope.SetConfig(cfg.Scope)
	e.monitor.SetConfig(cfg.Performance)
	e.syncScopeLocked(cfg, now)

	if prev == nil || prev.Scale.String() != cfg.Scale.String() {
		e.strings.Initialize(cfg.Scale.Len(), float64(e.width))
		for k, v := range e.voices {
			v.degree = cfg.Scale.Degree(v.note)
			e.voices[k] = v
		}
	}
	e.colorStringsLocked(cfg)
}

// syncScopeLocked connects the scope when it is switched on and fades it out when switched off
// Switching back on mid fade restarts the fade-in
func (e *Engine) syncScopeLocked(cfg *Config, now time.Time) {
	switch {
	case cfg.Scope.Enabled && e.source != nil && (!e.scope.IsActive() || e.scope.Fading()):
		if err := e.scope.Initialize(context.Background(), e.width, e.height, e.source); err != nil {
			e.logger.Printf("engine: hilbert scope disabled: %v", err)
		}
	case !cfg.Scope.Enabled && e.scope.IsActive():
		e.scope.StartFadeOut(now)
	}
}

// pruneVoicesLocked forgets voices whose blob was removed without a release
// Voices past the blob lifetime are dropped too, so a lost release cannot pin strings while blobs are off
func (e *Engine) pruneVoicesLocked(now time.Time) {
	e.retired = e.blobs.Retired(e.retired[:0])
	for _, k := range e.retired {
		delete(e.voices, k)
	}
	limit := e.blobs.Config().MaxLifetime
	for k, v := range e.voices {
		if now.Sub(v.started) >= limit {
			delete(e.voices, k)
		}
	}
}

// stringTargetsLocked maps each sounding scale degree to its highest frequency
func (e *Engine) stringTargetsLocked() map[int]float64 {
	clear(e.targets)
	for _, v := range e.voices {
		if v.degree < 0 {
			continue
		}
		if f, ok := e.targets[v.degree]; !ok || v.freq > f {
			e.targets[v.degree] = v.freq
		}
	}
	return e.targets
}

// activeNoteLocked returns the most recently started sounding voice
func (e *Engine) activeNoteLocked() (string, int) {
	var best voice
	for _, v := range e.voices {
		if best.note == "" || v.started.After(best.started) {
			best = v
		}
	}
	return best.note, best.octave
}

// StartAnimation runs the frame loop until StopAnimation, Cleanup or ctx cancellation
// Starting a running loop is a no-op
func (e *Engine) StartAnimation(ctx context.Context) error {
	e.mu.Lock()
	ready := e.surface != nil
	interval := e.cfg.Load().FrameInterval
	e.mu.Unlock()
	if !ready {
		return errors.Wrap(ErrNoSurface, "start animation")
	}
	if interval <= 0 {
		interval = parameter.FrameUpdateInterval
	}

	e.loopMu.Lock()
	defer e.loopMu.Unlock()
	if e.running.Load() {
		return nil
	}
	l := &frameLoop{stop: make(chan struct{})}
	e.loop = l
	e.running.Store(true)
	e.clock.Start()

	core.Go(func() { e.run(ctx, l, interval) })
	return nil
}

func (e *Engine) run(ctx context.Context, l *frameLoop, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.stopLoop(l)
			return
		case <-l.stop:
			return
		case <-ticker.C:
			e.Tick(e.timeProvider.Now())
		}
	}
}

// StopAnimation stops the frame loop and freezes the animation clock; idempotent
func (e *Engine) StopAnimation() {
	e.loopMu.Lock()
	l := e.loop
	e.loopMu.Unlock()
	if l != nil {
		e.stopLoop(l)
	}
}

func (e *Engine) stopLoop(l *frameLoop) {
	l.once.Do(func() { close(l.stop) })

	e.loopMu.Lock()
	defer e.loopMu.Unlock()
	if e.loop == l {
		e.loop = nil
		e.running.Store(false)
		e.clock.Stop()
	}
}

// IsRunning reports whether the frame loop is active
func (e *Engine) IsRunning() bool {
	return e.running.Load()
}

// Cleanup stops the loop, clears entities and caches, detaches the scope and the host
// Must not be called while holding a frame callback that waits on the engine
func (e *Engine) Cleanup() {
	e.StopAnimation()

	e.mu.Lock()
	defer e.mu.Unlock()

	e.blobs.Clear()
	e.particles.Clear()
	e.strings.Clear()
	e.scope.Cleanup()
	e.paints.Clear()
	e.monitor.Reset()
	clear(e.voices)
	e.pending = e.events.ConsumeInto(e.pending[:0])[:0]
	e.lastTick = time.Time{}

	if u, ok := e.host.(Unsubscriber); ok {
		u.Unsubscribe()
	}
	e.host = nil
	e.surface = nil
}

// Metrics returns the latest performance snapshot
func (e *Engine) Metrics() status.Metrics {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.monitor.Snapshot()
}

// Status returns the current quality tier
func (e *Engine) Status() status.Tier {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.monitor.Status()
}

// SetConfig swaps the configuration; systems pick it up at the next frame
func (e *Engine) SetConfig(cfg *Config) {
	if cfg == nil {
		return
	}
	e.cfg.Store(cfg.Clone())
}

// Config returns a copy of the current configuration
func (e *Engine) Config() *Config {
	return e.cfg.Load().Clone()
}

// Clock returns the shared animation clock
func (e *Engine) Clock() *AnimationClock {
	return e.clock
}

// Registry returns the telemetry registry
func (e *Engine) Registry() *status.Registry {
	return e.reg
}

// Surface returns the current drawing surface, nil when degraded or cleaned up
func (e *Engine) Surface() render.Surface {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.surface
}

// CachedGradient returns the memoized radial gradient for key, building it once
func (e *Engine) CachedGradient(key string, build func() *render.RadialGradient) *render.RadialGradient {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paints.Radial(key, build)
}

// CachedColor parses a CSS-style color once; unparseable strings yield the fallback primary
func (e *Engine) CachedColor(s string) color.NRGBA {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paints.Color(s, visual.RgbFallbackPrimary)
}

// Counts returns live blobs and particles
func (e *Engine) Counts() (blobs, particles int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.blobs.Count(), e.particles.Count()
}

// Scope exposes the scope renderer for inspection
func (e *Engine) Scope() *renderers.ScopeRenderer {
	return e.scope
}
