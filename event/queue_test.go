package event

import (
	"sync"
	"testing"

	"github.com/lixenwraith/resonance/parameter"
)

func TestQueueFIFO(t *testing.T) {
	q := NewEventQueue()
	q.Push(Played("C", 261.63, "v1", 4))
	q.Push(Released("C", "v1"))
	q.Push(Resized(800, 600))

	if q.Len() != 3 {
		t.Fatalf("Len = %d, want 3", q.Len())
	}
	got := q.Consume()
	want := []EventType{EventNotePlayed, EventNoteReleased, EventResize}
	if len(got) != len(want) {
		t.Fatalf("Consumed %d events, want %d", len(got), len(want))
	}
	for i, ev := range got {
		if ev.Type != want[i] {
			t.Errorf("Event %d type %s, want %s", i, ev.Type, want[i])
		}
	}
	if got[0].VoiceID != "v1" || got[0].Octave != 4 || got[2].Width != 800 {
		t.Errorf("Payload fields lost: %+v", got)
	}
	if q.Len() != 0 || len(q.Consume()) != 0 {
		t.Error("Queue should be empty after consume")
	}
}

func TestQueueOverflowDropsOldest(t *testing.T) {
	q := NewEventQueue()
	total := parameter.EventQueueSize + 10
	for i := 0; i < total; i++ {
		q.Push(NoteEvent{Type: EventNotePlayed, Octave: i})
	}
	got := q.Consume()
	if len(got) != parameter.EventQueueSize {
		t.Fatalf("Consumed %d, want %d", len(got), parameter.EventQueueSize)
	}
	if got[0].Octave != 10 {
		t.Errorf("Oldest surviving event %d, want 10", got[0].Octave)
	}
	if q.Dropped() != 10 {
		t.Errorf("Dropped = %d, want 10", q.Dropped())
	}
}

func TestQueueConsumeIntoReuse(t *testing.T) {
	q := NewEventQueue()
	buf := make([]NoteEvent, 0, 8)
	q.Push(Released("A", ""))
	buf = q.ConsumeInto(buf[:0])
	if len(buf) != 1 || buf[0].Note != "A" {
		t.Fatalf("ConsumeInto = %+v", buf)
	}
	allocs := testing.AllocsPerRun(50, func() {
		q.Push(Released("A", ""))
		buf = q.ConsumeInto(buf[:0])
	})
	if allocs != 0 {
		t.Errorf("ConsumeInto allocated %.1f per run", allocs)
	}
}

func TestQueueConcurrentProducers(t *testing.T) {
	q := NewEventQueue()
	const producers, per = 4, 50
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < per; i++ {
				q.Push(Played("E", 329.63, "", 4))
			}
		}()
	}
	wg.Wait()
	if n := len(q.Consume()); n != producers*per {
		t.Errorf("Consumed %d, want %d", n, producers*per)
	}
}

func TestEventTypeString(t *testing.T) {
	if EventNotePlayed.String() != "note_played" || EventType(200).String() != "unknown" {
		t.Error("EventType names wrong")
	}
}
