// internal/engine/evaluator.go
//
// Knowledge queries over a ledger and the board it guesses against.
//
// A side wins only when both tracks are complete:
//   - letters-known:     every distinct letter on the opposing board was named
//     (by letter guess or a solved word);
//   - coordinates-known: every placed cell on the opposing board was guessed.
//
// Coordinate hits never count toward letters-known, so neither guess mode
// alone can finish a game.

package engine

import "github.com/robalobadob/wordbattle/apps/go-server/internal/board"

// LettersKnown reports whether every letter on b is in l's guessed letters.
func LettersKnown(l *Ledger, b *board.Board) bool {
	for _, r := range b.Letters() {
		if _, ok := l.guessedLetters[r]; !ok {
			return false
		}
	}
	return true
}

// CoordinatesKnown reports whether every placed cell of b was guessed.
func CoordinatesKnown(l *Ledger, b *board.Board) bool {
	for _, c := range b.Positions() {
		if _, ok := l.guessedCoordinates[c]; !ok {
			return false
		}
	}
	return true
}

// LetterFullyLocated reports whether every cell of b holding letter was
// guessed. A letter absent from b is trivially located.
func LetterFullyLocated(l *Ledger, b *board.Board, letter rune) bool {
	for _, c := range b.CoordinatesOf(letter) {
		if _, ok := l.guessedCoordinates[c]; !ok {
			return false
		}
	}
	return true
}

// Won reports the dual-track win for l against b. An empty board is never won.
func Won(l *Ledger, b *board.Board) bool {
	if b.Len() == 0 {
		return false
	}
	return LettersKnown(l, b) && CoordinatesKnown(l, b)
}

// LettersKnown reports the letters track for side.
func (e *Engine) LettersKnown(side Side) bool {
	l := e.ledger("LettersKnown", side)
	return l != nil && LettersKnown(l, l.opposing)
}

// CoordinatesKnown reports the coordinates track for side.
func (e *Engine) CoordinatesKnown(side Side) bool {
	l := e.ledger("CoordinatesKnown", side)
	return l != nil && CoordinatesKnown(l, l.opposing)
}

// HasWon reports whether side has completed both knowledge tracks.
func (e *Engine) HasWon(side Side) bool {
	l := e.ledger("HasWon", side)
	return l != nil && Won(l, l.opposing)
}

// HasLost reports whether side has reached its miss limit.
func (e *Engine) HasLost(side Side) bool {
	l := e.ledger("HasLost", side)
	return l != nil && l.terminal()
}

// IsLetterFullyLocated reports whether side has guessed every cell of the
// opposing board that holds letter. Presentation uses it to decide whether a
// hit letter can be drawn as resolved.
func (e *Engine) IsLetterFullyLocated(side Side, letter rune) bool {
	l := e.ledger("IsLetterFullyLocated", side)
	if l == nil {
		return false
	}
	letter, ok := normalizeLetter(letter)
	return ok && LetterFullyLocated(l, l.opposing, letter)
}

// IsLetterKnown reports whether letter was confirmed as a hit letter by side.
func (e *Engine) IsLetterKnown(side Side, letter rune) bool {
	l := e.ledger("IsLetterKnown", side)
	if l == nil {
		return false
	}
	letter, ok := normalizeLetter(letter)
	if !ok {
		return false
	}
	_, hit := l.hitLetters[letter]
	return hit
}
