package palette

import (
	"strings"

	"github.com/pkg/errors"
)

// NoteNames are the twelve pitch classes in sharp spelling
var NoteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

var (
	majorSteps = []int{0, 2, 4, 5, 7, 9, 11}
	minorSteps = []int{0, 2, 3, 5, 7, 8, 10}
)

// NoteIndex returns the pitch class 0..11 of a note name such as "C", "Eb", "F#4", or -1
func NoteIndex(name string) int {
	name = strings.TrimSpace(name)
	if name == "" {
		return -1
	}
	// Drop trailing octave digits and sign
	end := len(name)
	for end > 1 && (name[end-1] >= '0' && name[end-1] <= '9' || name[end-1] == '-') {
		end--
	}
	name = name[:end]

	var base int
	switch name[0] {
	case 'C', 'c':
		base = 0
	case 'D', 'd':
		base = 2
	case 'E', 'e':
		base = 4
	case 'F', 'f':
		base = 5
	case 'G', 'g':
		base = 7
	case 'A', 'a':
		base = 9
	case 'B', 'b':
		base = 11
	default:
		return -1
	}
	for _, r := range name[1:] {
		switch r {
		case '#', '♯':
			base++
		case 'b', '♭':
			base--
		default:
			return -1
		}
	}
	return ((base % 12) + 12) % 12
}

// Scale is a seven degree diatonic scale
type Scale struct {
	Root  string
	Mode  Mode
	Notes []string
}

// NewScale builds the diatonic scale for root in mode
func NewScale(root string, mode Mode) (Scale, error) {
	pc := NoteIndex(root)
	if pc < 0 {
		return Scale{}, errors.Errorf("unknown root note %q", root)
	}
	steps := majorSteps
	if mode == Minor {
		steps = minorSteps
	}
	notes := make([]string, len(steps))
	for i, s := range steps {
		notes[i] = NoteNames[(pc+s)%12]
	}
	return Scale{Root: NoteNames[pc], Mode: mode, Notes: notes}, nil
}

// ParseScale parses "Root:mode", e.g. "C:major" or "A:minor"; mode defaults to major
func ParseScale(s string) (Scale, error) {
	root, modeStr, found := strings.Cut(strings.TrimSpace(s), ":")
	mode := Major
	if found {
		m, ok := ParseMode(modeStr)
		if !ok {
			return Scale{}, errors.Errorf("unknown mode %q", modeStr)
		}
		mode = m
	}
	sc, err := NewScale(root, mode)
	if err != nil {
		return Scale{}, errors.Wrapf(err, "parse scale %q", s)
	}
	return sc, nil
}

// Degree returns the scale degree index of note by pitch class, or -1
func (s Scale) Degree(note string) int {
	pc := NoteIndex(note)
	if pc < 0 {
		return -1
	}
	for i, n := range s.Notes {
		if NoteIndex(n) == pc {
			return i
		}
	}
	return -1
}

// Len returns the number of degrees
func (s Scale) Len() int {
	return len(s.Notes)
}

func (s Scale) String() string {
	return s.Root + ":" + s.Mode.String()
}
