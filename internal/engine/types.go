// internal/engine/types.go
//
// Core type definitions for the guess-resolution engine.
// Defines:
//   - Side:   which player is acting (attacker or defender).
//   - Result: outcome of a single guess (invalid/hit/miss/already guessed).

package engine

import "fmt"

// Side identifies one of the two players.
type Side int

const (
	// Attacker guesses against the defender's board.
	Attacker Side = iota
	// Defender guesses against the attacker's board.
	Defender
)

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == Attacker {
		return Defender
	}
	return Attacker
}

// Valid reports whether s is a known side.
func (s Side) Valid() bool { return s == Attacker || s == Defender }

func (s Side) String() string {
	switch s {
	case Attacker:
		return "attacker"
	case Defender:
		return "defender"
	}
	return "unknown"
}

// MarshalText renders the side as "attacker" or "defender".
func (s Side) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText parses "attacker" or "defender".
func (s *Side) UnmarshalText(b []byte) error {
	v, ok := ParseSide(string(b))
	if !ok {
		return fmt.Errorf("engine: unknown side %q", b)
	}
	*s = v
	return nil
}

// ParseSide maps "attacker"/"defender" to a Side.
func ParseSide(s string) (Side, bool) {
	switch s {
	case "attacker":
		return Attacker, true
	case "defender":
		return Defender, true
	}
	return 0, false
}

// Result is the outcome of a guess. Every kind is an expected value;
// guesses never return errors.
type Result int

const (
	// Invalid means the input was rejected or the engine is not initialized.
	// Nothing was recorded.
	Invalid Result = iota
	// Hit means the guess found something on the opposing board.
	Hit
	// Miss means the guess found nothing and the miss count grew.
	Miss
	// AlreadyGuessed means the same letter, coordinate or word was queried before.
	AlreadyGuessed
)

func (r Result) String() string {
	switch r {
	case Hit:
		return "hit"
	case Miss:
		return "miss"
	case AlreadyGuessed:
		return "already_guessed"
	}
	return "invalid"
}

// MarshalText renders the result as its string form.
func (r Result) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// UnmarshalText parses the form MarshalText writes.
func (r *Result) UnmarshalText(b []byte) error {
	for v := Invalid; v <= AlreadyGuessed; v++ {
		if v.String() == string(b) {
			*r = v
			return nil
		}
	}
	return fmt.Errorf("engine: unknown result %q", b)
}

// WordValidator reports whether text is a real word. Text arrives normalized.
type WordValidator func(text string) bool

const (
	// LetterMissPenalty is added for a letter or coordinate miss.
	LetterMissPenalty = 1
	// WordMissPenalty is added for an incorrect word guess.
	WordMissPenalty = 2
)
