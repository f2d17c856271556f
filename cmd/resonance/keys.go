package main

import (
	"math"
	"strconv"
	"unicode"

	"github.com/lixenwraith/resonance/palette"
)

// degreeKeys maps the home row to scale degrees; k is the tonic an octave up
var degreeKeys = map[rune]int{
	'a': 0, 's': 1, 'd': 2, 'f': 3, 'g': 4, 'h': 5, 'j': 6, 'k': 7,
}

// emotions tags each degree for particle shapes
var emotions = [...]string{"calm", "joy", "wonder", "tension", "bright", "sad", "magic"}

// keyNote is a note resolved from a keypress
type keyNote struct {
	Name      string
	Emotion   string
	Octave    int
	Frequency float64
	VoiceID   string
}

// noteForKey resolves r against scale; shift plays a second voice on the same note
func noteForKey(r rune, scale palette.Scale, baseOctave int) (keyNote, bool) {
	deg, ok := degreeKeys[unicode.ToLower(r)]
	if !ok || scale.Len() == 0 {
		return keyNote{}, false
	}

	n := scale.Len()
	octave := baseOctave + deg/n
	name := scale.Notes[deg%n]
	// Degrees past B wrap into the next octave
	if palette.NoteIndex(name) < palette.NoteIndex(scale.Root) {
		octave++
	}

	voice := "k" + strconv.Itoa(deg)
	if unicode.IsUpper(r) {
		voice += "-2"
	}
	return keyNote{
		Name:      name,
		Emotion:   emotions[deg%len(emotions)],
		Octave:    octave,
		Frequency: noteFrequency(name, octave),
		VoiceID:   voice,
	}, true
}

// noteFrequency is equal temperament with A4 = 440 Hz
func noteFrequency(name string, octave int) float64 {
	pc := palette.NoteIndex(name)
	if pc < 0 {
		return 0
	}
	midi := (octave+1)*12 + pc
	return 440 * math.Pow(2, float64(midi-69)/12)
}
