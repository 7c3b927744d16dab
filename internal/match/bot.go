package match

import (
	"golang.org/x/exp/rand"

	"github.com/robalobadob/wordbattle/apps/go-server/internal/board"
	"github.com/robalobadob/wordbattle/apps/go-server/internal/engine"
)

// letterOrder is English letter frequency, most common first.
const letterOrder = "ETAOINSHRDLCUMWFGYPBVKJXQZ"

var neighbours = []board.Direction{{DCol: 1}, {DCol: -1}, {DRow: 1}, {DRow: -1}}

// BotMove plays side's turn automatically. The bot guesses letters by
// frequency until it knows every opposing letter, then cells next to its
// earlier hits, then the remaining cells in an order fixed by the match seed.
func (m *Match) BotMove(side engine.Side) (Outcome, error) {
	return m.guess(side, func() engine.Result { return m.botGuess(side) })
}

// botGuess runs under m.mu.
func (m *Match) botGuess(side engine.Side) engine.Result {
	if !m.eng.LettersKnown(side) {
		tried := make(map[rune]bool)
		for _, r := range m.eng.GuessedLetters(side) {
			tried[r] = true
		}
		for _, r := range letterOrder {
			if !tried[r] {
				return m.eng.GuessLetter(r, side)
			}
		}
	}

	opposing := m.boards[side.Opponent()]
	grid := m.gridLocked()
	guessed := m.eng.GuessedCoordinates(side)
	tried := make(map[board.Coordinate]bool, len(guessed))
	for _, c := range guessed {
		tried[c] = true
	}
	open := func(c board.Coordinate) bool {
		return c.Col >= 0 && c.Row >= 0 && c.Col < grid && c.Row < grid && !tried[c]
	}

	for _, c := range guessed {
		if !opposing.Has(c) {
			continue
		}
		for _, d := range neighbours {
			if n := c.Add(d, 1); open(n) {
				return m.eng.GuessCoordinate(n, side)
			}
		}
	}

	rng := rand.New(rand.NewSource(m.Seed + uint64(side) + 1))
	for _, i := range rng.Perm(grid * grid) {
		if c := (board.Coordinate{Col: i % grid, Row: i / grid}); open(c) {
			return m.eng.GuessCoordinate(c, side)
		}
	}
	return engine.Invalid
}
