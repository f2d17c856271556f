// Command resonance previews the effects engine in a terminal
// Home row keys play scale degrees, shift adds a second voice, q or Esc quits
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep"

	"github.com/lixenwraith/resonance/audio"
	"github.com/lixenwraith/resonance/core"
	"github.com/lixenwraith/resonance/engine"
	"github.com/lixenwraith/resonance/event"
	"github.com/lixenwraith/resonance/palette"
	"github.com/lixenwraith/resonance/render"
	"github.com/lixenwraith/resonance/status"
)

var (
	audioFlag   = flag.Bool("audio", false, "Play notes through the speaker")
	debugFlag   = flag.Bool("debug", false, "Write logs to logs/resonance.log")
	fpsFlag     = flag.Int("fps", 0, "Target frame rate, 0 uses the configured rate")
	scaleFlag   = flag.String("scale", "", "Scale as Root:mode, e.g. A:minor")
	overlayFlag = flag.Bool("overlay", false, "Show the frame rate bar")
	holdFlag    = flag.Duration("hold", 700*time.Millisecond, "How long a keypress sounds")
)

// Samples kept by the tap for the scope, two analysis blocks
const tapCapacity = 2048

func main() {
	flag.Parse()

	logFile := setupLogging(*debugFlag)
	if logFile != nil {
		defer logFile.Close()
	}

	cfg, err := engine.LoadConfig()
	if err != nil {
		log.Printf("config: %v, using defaults where invalid", err)
	}
	if *fpsFlag > 0 {
		cfg.FrameInterval = time.Second / time.Duration(*fpsFlag)
	}
	if *scaleFlag != "" {
		sc, err := palette.ParseScale(*scaleFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "resonance: %v\n", err)
			os.Exit(2)
		}
		cfg.Scale = sc
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize screen: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()
	core.SetCrashHook(screen.Fini)
	screen.HideCursor()

	// The voice bank always runs through the tap so the scope has a signal;
	// without a speaker a pump pulls it at the sample rate
	acfg := audio.LoadConfig()
	bank := audio.NewVoiceBank(acfg)
	tap := audio.NewTap(bank, bank.SampleRate(), tapCapacity)
	player := audio.NewPlayer(acfg)
	speakerOn := false
	if *audioFlag {
		if err := player.Initialize(); err != nil {
			log.Printf("audio: %v, continuing silent", err)
		} else {
			player.Play(tap)
			speakerOn = true
			defer player.Cleanup()
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if !speakerOn {
		core.Go(func() { pump(ctx, tap, bank.SampleRate()) })
	}

	host := newTermHost(screen)
	eng := engine.New(
		engine.WithConfig(cfg),
		engine.WithLogger(log.Default()),
		engine.WithAudioSource(tap),
		engine.WithOverlay(*overlayFlag),
		engine.WithOnFrame(func(s render.Surface, _ status.Metrics) { host.present(s) }),
	)
	if err := eng.Initialize(ctx, host); err != nil {
		log.Printf("engine: %v", err)
	}
	defer eng.Cleanup()

	if err := eng.StartAnimation(ctx); err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "resonance: %v\n", err)
		os.Exit(1)
	}

	events := make(chan tcell.Event, 100)
	core.Go(func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	})

	scale := cfg.Scale
	queue := eng.Events()
	for ev := range events {
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
				(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
				log.Printf("resonance: quit, %+v", eng.Metrics())
				return
			}
			if ev.Key() != tcell.KeyRune {
				continue
			}
			note, ok := noteForKey(ev.Rune(), scale, 4)
			if !ok {
				continue
			}
			bank.NoteOn(note.VoiceID, note.Frequency)
			queue.Push(event.NoteEvent{
				Type:      event.EventNotePlayed,
				Note:      note.Name,
				Emotion:   note.Emotion,
				Frequency: note.Frequency,
				VoiceID:   note.VoiceID,
				Octave:    note.Octave,
			})
			// Terminals report no key release; each press sounds for a fixed hold
			time.AfterFunc(*holdFlag, func() {
				bank.NoteOff(note.VoiceID)
				queue.Push(event.Released(note.Name, note.VoiceID))
			})

		case *tcell.EventResize:
			if host.Attached() {
				w, h, _ := host.Size()
				queue.Push(event.Resized(w, h))
			}
			screen.Sync()
		}
	}
}

// pump pulls the tapped bank in frame-sized chunks when no speaker drives it
func pump(ctx context.Context, s beep.Streamer, rate beep.SampleRate) {
	const interval = 20 * time.Millisecond
	buf := make([][2]float64, rate.N(interval))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, ok := s.Stream(buf); !ok {
				return
			}
		}
	}
}
