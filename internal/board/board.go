// internal/board/board.go
//
// Immutable per-side letter layout for a word battle.
// Defines:
//   - Coordinate: a grid cell (column, row).
//   - Direction:  a unit step applied from a word's anchor.
//   - PlacedWord: one word on the grid (text, anchor, direction, row index).
//   - Board:      coordinate → letter mapping plus the ordered word list.
//
// A Board is built once by the setup collaborator and never mutated;
// every accessor returns a fresh copy so callers cannot alias internal state.

package board

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"
)

var (
	// ErrConflict is returned when two words disagree on a shared cell.
	ErrConflict = errors.New("board: conflicting letters at shared cell")
	// ErrEmptyWord is returned for a word with no letters.
	ErrEmptyWord = errors.New("board: empty word")
	// ErrDirection is returned for a zero or non-unit direction.
	ErrDirection = errors.New("board: invalid direction")
	// ErrLetter is returned when a word contains a non-letter rune.
	ErrLetter = errors.New("board: word contains a non-letter")
)

// Coordinate identifies a grid cell. Col grows right, Row grows down.
type Coordinate struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

// Add returns c shifted n steps along d.
func (c Coordinate) Add(d Direction, n int) Coordinate {
	return Coordinate{Col: c.Col + d.DCol*n, Row: c.Row + d.DRow*n}
}

func (c Coordinate) String() string { return fmt.Sprintf("(%d,%d)", c.Col, c.Row) }

// Less orders coordinates row-major.
func (c Coordinate) Less(o Coordinate) bool {
	if c.Row != o.Row {
		return c.Row < o.Row
	}
	return c.Col < o.Col
}

// Direction is a unit step (dCol, dRow).
type Direction struct {
	DCol int `json:"dCol"`
	DRow int `json:"dRow"`
}

var (
	Right     = Direction{DCol: 1, DRow: 0}
	Down      = Direction{DCol: 0, DRow: 1}
	DownRight = Direction{DCol: 1, DRow: 1}
)

// Valid reports whether d is a non-zero step with components in {-1,0,1}.
func (d Direction) Valid() bool {
	if d.DCol == 0 && d.DRow == 0 {
		return false
	}
	return d.DCol >= -1 && d.DCol <= 1 && d.DRow >= -1 && d.DRow <= 1
}

// PlacedWord is one word laid out on a board.
type PlacedWord struct {
	Text      string     `json:"text"`
	Anchor    Coordinate `json:"anchor"`
	Direction Direction  `json:"direction"`
	Row       int        `json:"row"` // stable identity used by word guesses
}

// Len is the number of letters (and cells) the word occupies.
func (w PlacedWord) Len() int { return len([]rune(w.Text)) }

// Cells returns the coordinates the word covers, anchor first.
func (w PlacedWord) Cells() []Coordinate {
	n := w.Len()
	out := make([]Coordinate, n)
	for i := 0; i < n; i++ {
		out[i] = w.Anchor.Add(w.Direction, i)
	}
	return out
}

// Board is one side's fixed letter layout.
type Board struct {
	letters map[Coordinate]rune
	words   []PlacedWord
}

// New builds a Board from placed words. Each word's Row is set to its index
// and its text is uppercased. Words may cross only where their letters agree.
func New(words []PlacedWord) (*Board, error) {
	b := &Board{
		letters: make(map[Coordinate]rune),
		words:   make([]PlacedWord, 0, len(words)),
	}
	for i, w := range words {
		text := strings.ToUpper(strings.TrimSpace(w.Text))
		if text == "" {
			return nil, fmt.Errorf("word %d: %w", i, ErrEmptyWord)
		}
		if !w.Direction.Valid() {
			return nil, fmt.Errorf("word %d %q: %w", i, text, ErrDirection)
		}
		w.Text = text
		w.Row = i
		for j, r := range []rune(text) {
			if !unicode.IsLetter(r) {
				return nil, fmt.Errorf("word %d %q: %w", i, text, ErrLetter)
			}
			c := w.Anchor.Add(w.Direction, j)
			if prev, ok := b.letters[c]; ok && prev != r {
				return nil, fmt.Errorf("word %d %q at %s: %w", i, text, c, ErrConflict)
			}
			b.letters[c] = r
		}
		b.words = append(b.words, w)
	}
	return b, nil
}

// LetterAt returns the letter at c, if any.
func (b *Board) LetterAt(c Coordinate) (rune, bool) {
	r, ok := b.letters[c]
	return r, ok
}

// Has reports whether c holds a letter.
func (b *Board) Has(c Coordinate) bool {
	_, ok := b.letters[c]
	return ok
}

// Len is the number of placed positions.
func (b *Board) Len() int { return len(b.letters) }

// Positions returns every placed coordinate, row-major.
func (b *Board) Positions() []Coordinate {
	out := make([]Coordinate, 0, len(b.letters))
	for c := range b.letters {
		out = append(out, c)
	}
	SortCoordinates(out)
	return out
}

// CoordinatesOf returns every coordinate holding letter, row-major.
// letter is expected in uppercase.
func (b *Board) CoordinatesOf(letter rune) []Coordinate {
	var out []Coordinate
	for c, r := range b.letters {
		if r == letter {
			out = append(out, c)
		}
	}
	SortCoordinates(out)
	return out
}

// ContainsLetter reports whether letter occupies at least one cell.
func (b *Board) ContainsLetter(letter rune) bool {
	for _, r := range b.letters {
		if r == letter {
			return true
		}
	}
	return false
}

// Letters returns the distinct letters on the board, sorted.
func (b *Board) Letters() []rune {
	seen := make(map[rune]struct{})
	for _, r := range b.letters {
		seen[r] = struct{}{}
	}
	out := make([]rune, 0, len(seen))
	for r := range seen {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Words returns the ordered word list.
func (b *Board) Words() []PlacedWord {
	out := make([]PlacedWord, len(b.words))
	copy(out, b.words)
	return out
}

// WordCount is the number of placed words.
func (b *Board) WordCount() int { return len(b.words) }

// Word returns the word at row index, if in range.
func (b *Board) Word(row int) (PlacedWord, bool) {
	if row < 0 || row >= len(b.words) {
		return PlacedWord{}, false
	}
	return b.words[row], true
}

// Extent returns the smallest square side length that contains every cell
// (0 for an empty board).
func (b *Board) Extent() int {
	n := 0
	for c := range b.letters {
		if c.Col+1 > n {
			n = c.Col + 1
		}
		if c.Row+1 > n {
			n = c.Row + 1
		}
	}
	return n
}

// SortCoordinates sorts cs in place, row-major.
func SortCoordinates(cs []Coordinate) {
	sort.Slice(cs, func(i, j int) bool { return cs[i].Less(cs[j]) })
}
