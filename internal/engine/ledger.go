// internal/engine/ledger.go
//
// Ledger: the mutable per-side record of guesses and learned facts.
// One ledger describes one side's knowledge of the *opposing* board.
// Sets only grow; a new game builds fresh ledgers.

package engine

import (
	"sort"
	"strings"
	"unicode"

	"github.com/robalobadob/wordbattle/apps/go-server/internal/board"
)

// Ledger holds one side's accumulated guess state.
type Ledger struct {
	side     Side
	opposing *board.Board
	words    map[int]board.PlacedWord // opposing words by row index

	guessedLetters     map[rune]struct{}
	hitLetters         map[rune]struct{} // subset of guessedLetters
	guessedCoordinates map[board.Coordinate]struct{}
	guessedWords       map[string]struct{}
	solvedRows         map[int]struct{}

	missCount int
	missLimit int
}

func newLedger(side Side, opposing *board.Board, words []board.PlacedWord, limit int) *Ledger {
	byRow := make(map[int]board.PlacedWord, len(words))
	for _, w := range words {
		byRow[w.Row] = w
	}
	return &Ledger{
		side:               side,
		opposing:           opposing,
		words:              byRow,
		guessedLetters:     make(map[rune]struct{}),
		hitLetters:         make(map[rune]struct{}),
		guessedCoordinates: make(map[board.Coordinate]struct{}),
		guessedWords:       make(map[string]struct{}),
		solvedRows:         make(map[int]struct{}),
		missLimit:          limit,
	}
}

// addMisses bumps the miss count and reports whether this call crossed the limit.
func (l *Ledger) addMisses(n int) (crossed bool) {
	before := l.missCount
	l.missCount += n
	return before < l.missLimit && l.missCount >= l.missLimit
}

func (l *Ledger) terminal() bool { return l.missCount >= l.missLimit }

// word returns the opposing word whose row index is row.
func (l *Ledger) word(row int) (board.PlacedWord, bool) {
	w, ok := l.words[row]
	return w, ok
}

// markLetterKnown records letter as guessed, and as hit when present on the
// opposing board.
func (l *Ledger) markLetterKnown(letter rune) {
	l.guessedLetters[letter] = struct{}{}
	if l.opposing.ContainsLetter(letter) {
		l.hitLetters[letter] = struct{}{}
	}
}

// solve records row as solved and marks every letter of its word as
// guessed and hit.
func (l *Ledger) solve(row int, text string) {
	l.solvedRows[row] = struct{}{}
	for _, r := range text {
		l.guessedLetters[r] = struct{}{}
		l.hitLetters[r] = struct{}{}
	}
}

// normalizeLetter uppercases r and reports whether it is a letter.
func normalizeLetter(r rune) (rune, bool) {
	if !unicode.IsLetter(r) {
		return 0, false
	}
	return unicode.ToUpper(r), true
}

// NormalizeWord uppercases text and strips all whitespace.
func NormalizeWord(text string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToUpper(r)
	}, text)
}

func sortedRunes(m map[rune]struct{}) []rune {
	out := make([]rune, 0, len(m))
	for r := range m {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sortedCoordinates(m map[board.Coordinate]struct{}) []board.Coordinate {
	out := make([]board.Coordinate, 0, len(m))
	for c := range m {
		out = append(out, c)
	}
	board.SortCoordinates(out)
	return out
}

func sortedStrings(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for s := range m {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func sortedInts(m map[int]struct{}) []int {
	out := make([]int, 0, len(m))
	for i := range m {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// LedgerSnapshot is a serializable copy of a ledger, suitable for
// save/resume through the restore operations.
type LedgerSnapshot struct {
	Side               Side               `json:"side"`
	GuessedLetters     string             `json:"guessedLetters"`
	HitLetters         string             `json:"hitLetters"`
	GuessedCoordinates []board.Coordinate `json:"guessedCoordinates"`
	GuessedWords       []string           `json:"guessedWords"`
	SolvedRows         []int              `json:"solvedRows"`
	MissCount          int                `json:"missCount"`
	MissLimit          int                `json:"missLimit"`
}

func (l *Ledger) snapshot() LedgerSnapshot {
	return LedgerSnapshot{
		Side:               l.side,
		GuessedLetters:     string(sortedRunes(l.guessedLetters)),
		HitLetters:         string(sortedRunes(l.hitLetters)),
		GuessedCoordinates: sortedCoordinates(l.guessedCoordinates),
		GuessedWords:       sortedStrings(l.guessedWords),
		SolvedRows:         sortedInts(l.solvedRows),
		MissCount:          l.missCount,
		MissLimit:          l.missLimit,
	}
}
