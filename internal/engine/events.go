// internal/engine/events.go
//
// Notifications fired synchronously by the engine while a guess resolves.
// Listeners are registered explicitly with Engine.Subscribe; there are no
// package-level subscriber lists. Recorder captures events for callers that
// want to collect everything one call produced.

package engine

import (
	"fmt"

	"github.com/robalobadob/wordbattle/apps/go-server/internal/board"
)

// EventKind names a notification.
type EventKind int

const (
	LetterHit EventKind = iota
	LetterMiss
	CoordinateHit
	CoordinateMiss
	MissCountChanged
	GameOver
	WordProcessed
	WordSolved
)

func (k EventKind) String() string {
	switch k {
	case LetterHit:
		return "letter_hit"
	case LetterMiss:
		return "letter_miss"
	case CoordinateHit:
		return "coordinate_hit"
	case CoordinateMiss:
		return "coordinate_miss"
	case MissCountChanged:
		return "miss_count_changed"
	case GameOver:
		return "game_over"
	case WordProcessed:
		return "word_processed"
	case WordSolved:
		return "word_solved"
	}
	return "unknown"
}

// MarshalText renders the kind as its string form.
func (k EventKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText parses the form MarshalText writes.
func (k *EventKind) UnmarshalText(b []byte) error {
	for v := LetterHit; v <= WordSolved; v++ {
		if v.String() == string(b) {
			*k = v
			return nil
		}
	}
	return fmt.Errorf("engine: unknown event %q", b)
}

// Event is one notification. Only the fields relevant to Kind are set:
//
//	LetterHit        Side, Letter, Coordinates
//	LetterMiss       Side, Letter
//	CoordinateHit    Side, Coordinate, Letter
//	CoordinateMiss   Side, Coordinate
//	MissCountChanged Side, Count, Limit
//	GameOver         Side (the losing side)
//	WordProcessed    Side, Row, Text, Correct
//	WordSolved       Side, Row
//
// Row is nil for every kind except the word events.
type Event struct {
	Kind        EventKind          `json:"kind"`
	Side        Side               `json:"side"`
	Letter      string             `json:"letter,omitempty"`
	Coordinate  *board.Coordinate  `json:"coordinate,omitempty"`
	Coordinates []board.Coordinate `json:"coordinates,omitempty"`
	Count       int                `json:"count,omitempty"`
	Limit       int                `json:"limit,omitempty"`
	Row         *int               `json:"row,omitempty"`
	Text        string             `json:"text,omitempty"`
	Correct     bool               `json:"correct,omitempty"`
}

// Listener receives events. It runs inside the triggering call and must not
// call back into the engine.
type Listener func(Event)

// Recorder collects events in arrival order.
type Recorder struct {
	Events []Event
}

// Record appends e. Its method value satisfies Listener.
func (r *Recorder) Record(e Event) { r.Events = append(r.Events, e) }

// Kinds returns the recorded event kinds in order.
func (r *Recorder) Kinds() []EventKind {
	out := make([]EventKind, len(r.Events))
	for i, e := range r.Events {
		out[i] = e.Kind
	}
	return out
}

// Reset drops all recorded events.
func (r *Recorder) Reset() { r.Events = r.Events[:0] }

// Drain returns the recorded events and resets the recorder.
func (r *Recorder) Drain() []Event {
	out := make([]Event, len(r.Events))
	copy(out, r.Events)
	r.Reset()
	return out
}

type subscription struct {
	id int
	fn Listener
}

// emit walks a copy of the listener list; listeners may cancel mid-notification.
func (e *Engine) emit(ev Event) {
	subs := append([]subscription(nil), e.listeners...)
	for _, s := range subs {
		s.fn(ev)
	}
}

// Subscribe registers fn for every notification and returns a function that
// removes it.
func (e *Engine) Subscribe(fn Listener) (cancel func()) {
	e.nextListener++
	id := e.nextListener
	e.listeners = append(e.listeners, subscription{id: id, fn: fn})
	return func() {
		kept := make([]subscription, 0, len(e.listeners))
		for _, s := range e.listeners {
			if s.id != id {
				kept = append(kept, s)
			}
		}
		e.listeners = kept
	}
}

func (e *Engine) emitMissCount(l *Ledger, crossed bool) {
	e.emit(Event{Kind: MissCountChanged, Side: l.side, Count: l.missCount, Limit: l.missLimit})
	if crossed {
		e.log.Info().Str("side", l.side.String()).Int("misses", l.missCount).
			Int("limit", l.missLimit).Msg("miss limit reached")
		e.emit(Event{Kind: GameOver, Side: l.side})
	}
}
