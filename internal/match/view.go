package match

import (
	"github.com/robalobadob/wordbattle/apps/go-server/internal/board"
	"github.com/robalobadob/wordbattle/apps/go-server/internal/engine"
)

// Cell is one guessed cell of the opposing board. Letter is only filled in
// once the letter itself is confirmed; a bare coordinate hit stays unknown.
type Cell struct {
	board.Coordinate
	Hit    bool   `json:"hit"`
	Letter string `json:"letter,omitempty"`
}

// WordView is one opposing word as the guessing side sees it.
type WordView struct {
	Row    int    `json:"row"`
	Length int    `json:"length"`
	Solved bool   `json:"solved"`
	Text   string `json:"text,omitempty"`
}

// SideView is one side's knowledge of the opposing board.
type SideView struct {
	Side             engine.Side `json:"side"`
	Owner            string      `json:"-"` // seat holder's ID; never sent to clients
	Claimed          bool        `json:"claimed"`
	MissCount        int         `json:"missCount"`
	MissLimit        int         `json:"missLimit"`
	Remaining        int         `json:"remaining"`
	Guesses          int         `json:"guesses"`
	GuessedLetters   string      `json:"guessedLetters"`
	HitLetters       string      `json:"hitLetters"`
	LocatedLetters   string      `json:"locatedLetters"`
	Cells            []Cell      `json:"cells"`
	Words            []WordView  `json:"words"`
	GuessedWords     []string    `json:"guessedWords"`
	LettersKnown     bool        `json:"lettersKnown"`
	CoordinatesKnown bool        `json:"coordinatesKnown"`
}

// View is a read-only picture of the match.
type View struct {
	ID       string       `json:"id"`
	Status   Status       `json:"status"`
	Turn     engine.Side  `json:"turn"`
	Winner   *engine.Side `json:"winner,omitempty"`
	Level    string       `json:"level"`
	Daily    string       `json:"daily,omitempty"`
	Bot      bool         `json:"bot,omitempty"`
	GridSize int          `json:"gridSize"`
	Sides    [2]SideView  `json:"sides"`
}

// View builds a consistent view of both sides.
func (m *Match) View() View {
	m.mu.Lock()
	defer m.mu.Unlock()

	return View{
		ID:       m.ID,
		Status:   m.status,
		Turn:     m.turn,
		Winner:   m.winnerLocked(),
		Level:    string(m.Level),
		Daily:    m.Daily,
		Bot:      m.Bot,
		GridSize: m.gridLocked(),
		Sides:    [2]SideView{m.sideView(engine.Attacker), m.sideView(engine.Defender)},
	}
}

// gridLocked is the side length of the square that holds both boards.
func (m *Match) gridLocked() int {
	grid := m.boards[engine.Attacker].Extent()
	if n := m.boards[engine.Defender].Extent(); n > grid {
		grid = n
	}
	return grid
}

func (m *Match) sideView(side engine.Side) SideView {
	opposing := m.boards[side.Opponent()]
	hit := m.eng.HitLetters(side)
	known := make(map[rune]bool, len(hit))
	var located []rune
	for _, r := range hit {
		known[r] = true
		if m.eng.IsLetterFullyLocated(side, r) {
			located = append(located, r)
		}
	}

	coords := m.eng.GuessedCoordinates(side)
	cells := make([]Cell, 0, len(coords))
	for _, c := range coords {
		cell := Cell{Coordinate: c}
		if r, ok := opposing.LetterAt(c); ok {
			cell.Hit = true
			if known[r] {
				cell.Letter = string(r)
			}
		}
		cells = append(cells, cell)
	}

	solved := make(map[int]bool)
	for _, row := range m.eng.SolvedWords(side) {
		solved[row] = true
	}
	ws := opposing.Words()
	words := make([]WordView, 0, len(ws))
	for _, w := range ws {
		wv := WordView{Row: w.Row, Length: w.Len(), Solved: solved[w.Row]}
		if wv.Solved {
			wv.Text = w.Text
		}
		words = append(words, wv)
	}

	return SideView{
		Side:             side,
		Owner:            m.owners[side],
		Claimed:          m.owners[side] != "",
		MissCount:        m.eng.MissCount(side),
		MissLimit:        m.eng.MissLimit(side),
		Remaining:        m.eng.RemainingMisses(side),
		Guesses:          m.guesses[side],
		GuessedLetters:   string(m.eng.GuessedLetters(side)),
		HitLetters:       string(hit),
		LocatedLetters:   string(located),
		Cells:            cells,
		Words:            words,
		GuessedWords:     m.eng.GuessedWords(side),
		LettersKnown:     m.eng.LettersKnown(side),
		CoordinatesKnown: m.eng.CoordinatesKnown(side),
	}
}
