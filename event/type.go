// Package event carries host note and resize events to the render thread
package event

import "time"

// EventType identifies a host event
type EventType uint8

const (
	EventNone EventType = iota

	// EventNotePlayed starts a voice
	// Trigger: host instrument, sequencer step, keyboard
	// Consumer: engine (blob spawn, particle burst)
	EventNotePlayed

	// EventNoteReleased ends a voice; VoiceID preferred over Note when both set
	// Trigger: host key up, sequencer gate off
	// Consumer: engine (blob fade-out)
	EventNoteReleased

	// EventResize reports a new logical surface size
	// Trigger: host window/terminal resize
	// Consumer: engine (backing store, strings, scope)
	EventResize

	EventTypeCount
)

var typeNames = [EventTypeCount]string{
	EventNone:         "none",
	EventNotePlayed:   "note_played",
	EventNoteReleased: "note_released",
	EventResize:       "resize",
}

func (t EventType) String() string {
	if t < EventTypeCount {
		return typeNames[t]
	}
	return "unknown"
}

// NoteEvent is the payload posted by the host
// Fields unused by a type are left zero
type NoteEvent struct {
	Type      EventType
	Note      string
	Emotion   string
	Frequency float64
	VoiceID   string
	Octave    int
	Width     int
	Height    int
	Time      time.Time
}

// Played builds an EventNotePlayed payload
func Played(note string, frequency float64, voiceID string, octave int) NoteEvent {
	return NoteEvent{Type: EventNotePlayed, Note: note, Frequency: frequency, VoiceID: voiceID, Octave: octave}
}

// Released builds an EventNoteReleased payload
func Released(note, voiceID string) NoteEvent {
	return NoteEvent{Type: EventNoteReleased, Note: note, VoiceID: voiceID}
}

// Resized builds an EventResize payload
func Resized(width, height int) NoteEvent {
	return NoteEvent{Type: EventResize, Width: width, Height: height}
}
