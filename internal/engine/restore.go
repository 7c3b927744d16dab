// internal/engine/restore.go
//
// Seed/restore operations for resuming a saved game, plus read-only queries.
// Restores never fire notifications and never evaluate game-over.

package engine

import "github.com/robalobadob/wordbattle/apps/go-server/internal/board"

// SetInitialMissCounts sets both miss counts directly. No game-over is
// evaluated, so restoring a finished tally has no side effects; later misses
// on a ledger already at its limit do not fire game-over again.
func (e *Engine) SetInitialMissCounts(attacker, defender int) {
	if !e.Initialized() {
		e.log.Warn().Str("op", "SetInitialMissCounts").Msg("called before Initialize")
		return
	}
	e.ledgers[Attacker].missCount = clampNonNegative(attacker)
	e.ledgers[Defender].missCount = clampNonNegative(defender)
}

// RestoreGuessState re-populates side's guessed letters and coordinates.
// Hit letters are re-derived by checking each letter against the opposing
// board. Non-letters are skipped.
func (e *Engine) RestoreGuessState(side Side, letters []rune, coordinates []board.Coordinate) {
	l := e.ledger("RestoreGuessState", side)
	if l == nil {
		return
	}
	for _, r := range letters {
		if r, ok := normalizeLetter(r); ok {
			l.markLetterKnown(r)
		}
	}
	for _, c := range coordinates {
		l.guessedCoordinates[c] = struct{}{}
	}
}

// RestoreWordState re-populates side's attempted words and solved rows.
// Solved rows re-mark their letters as guessed and hit; rows out of range
// are skipped.
func (e *Engine) RestoreWordState(side Side, words []string, solvedRows []int) {
	l := e.ledger("RestoreWordState", side)
	if l == nil {
		return
	}
	for _, w := range words {
		if w = NormalizeWord(w); w != "" {
			l.guessedWords[w] = struct{}{}
		}
	}
	for _, row := range solvedRows {
		if w, ok := l.word(row); ok {
			l.solve(row, NormalizeWord(w.Text))
		}
	}
}

// Restore applies a snapshot taken by Snapshot to its side. The miss count
// is set without evaluating game-over; the miss limit is left as configured.
func (e *Engine) Restore(s LedgerSnapshot) {
	l := e.ledger("Restore", s.Side)
	if l == nil {
		return
	}
	e.RestoreGuessState(s.Side, []rune(s.GuessedLetters), s.GuessedCoordinates)
	e.RestoreWordState(s.Side, s.GuessedWords, s.SolvedRows)
	l.missCount = clampNonNegative(s.MissCount)
}

func clampNonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// Snapshot returns a serializable copy of side's ledger.
func (e *Engine) Snapshot(side Side) LedgerSnapshot {
	l := e.ledger("Snapshot", side)
	if l == nil {
		return LedgerSnapshot{Side: side}
	}
	return l.snapshot()
}

// MissCount returns side's current miss count.
func (e *Engine) MissCount(side Side) int {
	if l := e.ledger("MissCount", side); l != nil {
		return l.missCount
	}
	return 0
}

// MissLimit returns side's miss limit.
func (e *Engine) MissLimit(side Side) int {
	if l := e.ledger("MissLimit", side); l != nil {
		return l.missLimit
	}
	return 0
}

// RemainingMisses returns how many more misses side can take before losing.
func (e *Engine) RemainingMisses(side Side) int {
	l := e.ledger("RemainingMisses", side)
	if l == nil || l.terminal() {
		return 0
	}
	return l.missLimit - l.missCount
}

// GuessedLetters returns side's guessed letters, sorted.
func (e *Engine) GuessedLetters(side Side) []rune {
	if l := e.ledger("GuessedLetters", side); l != nil {
		return sortedRunes(l.guessedLetters)
	}
	return nil
}

// HitLetters returns side's confirmed letters, sorted.
func (e *Engine) HitLetters(side Side) []rune {
	if l := e.ledger("HitLetters", side); l != nil {
		return sortedRunes(l.hitLetters)
	}
	return nil
}

// GuessedCoordinates returns side's guessed cells, row-major.
func (e *Engine) GuessedCoordinates(side Side) []board.Coordinate {
	if l := e.ledger("GuessedCoordinates", side); l != nil {
		return sortedCoordinates(l.guessedCoordinates)
	}
	return nil
}

// GuessedWords returns side's attempted words, sorted.
func (e *Engine) GuessedWords(side Side) []string {
	if l := e.ledger("GuessedWords", side); l != nil {
		return sortedStrings(l.guessedWords)
	}
	return nil
}

// SolvedWords returns the opposing row indices side has solved, ascending.
func (e *Engine) SolvedWords(side Side) []int {
	if l := e.ledger("SolvedWords", side); l != nil {
		return sortedInts(l.solvedRows)
	}
	return nil
}
