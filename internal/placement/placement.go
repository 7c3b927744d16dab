// Package placement lays words out on a square grid and produces the
// immutable board the engine guesses against.
//
// Words go right, down or diagonally down-right from a random anchor and may
// cross only where their letters agree. A seeded *rand.Rand makes layouts
// reproducible (daily boards rely on this).
package placement

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/rand"

	"github.com/robalobadob/wordbattle/apps/go-server/internal/board"
)

// ErrNoFit is returned when a word cannot be placed within the attempt budget.
var ErrNoFit = errors.New("placement: word does not fit")

const attemptsPerWord = 200

// Directions are the orientations Place may choose from.
var Directions = []board.Direction{board.Right, board.Down, board.DownRight}

// Place lays out words on a size×size grid in the given order.
func Place(rng *rand.Rand, words []string, size int) (*board.Board, error) {
	grid := make(map[board.Coordinate]rune)
	placed := make([]board.PlacedWord, 0, len(words))

	for _, w := range words {
		text := strings.ToUpper(strings.TrimSpace(w))
		pw, ok := fit(rng, grid, text, size)
		if !ok {
			return nil, fmt.Errorf("%w: %q on %dx%d", ErrNoFit, text, size, size)
		}
		letters := []rune(text)
		for i, c := range pw.Cells() {
			grid[c] = letters[i]
		}
		placed = append(placed, pw)
	}
	return board.New(placed)
}

// fit tries random anchors and directions until text lies inside the grid
// without disagreeing with an already placed letter.
func fit(rng *rand.Rand, grid map[board.Coordinate]rune, text string, size int) (board.PlacedWord, bool) {
	letters := []rune(text)
	n := len(letters)
	if n == 0 || n > size {
		return board.PlacedWord{}, false
	}
	for attempt := 0; attempt < attemptsPerWord; attempt++ {
		d := Directions[rng.Intn(len(Directions))]
		maxCol, maxRow := size-1-d.DCol*(n-1), size-1-d.DRow*(n-1)
		anchor := board.Coordinate{Col: rng.Intn(maxCol + 1), Row: rng.Intn(maxRow + 1)}
		if fits(grid, letters, anchor, d) {
			return board.PlacedWord{Text: text, Anchor: anchor, Direction: d}, true
		}
	}
	return board.PlacedWord{}, false
}

func fits(grid map[board.Coordinate]rune, letters []rune, anchor board.Coordinate, d board.Direction) bool {
	for i, want := range letters {
		if r, ok := grid[anchor.Add(d, i)]; ok && r != want {
			return false
		}
	}
	return true
}
