package match

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/robalobadob/wordbattle/apps/go-server/internal/board"
	"github.com/robalobadob/wordbattle/apps/go-server/internal/difficulty"
	"github.com/robalobadob/wordbattle/apps/go-server/internal/engine"
)

// Snapshot is the persisted form of a match. Ledgers are stored as engine
// snapshots and replayed through the engine's restore operations on resume.
type Snapshot struct {
	ID        string                   `json:"id"`
	CreatedAt time.Time                `json:"createdAt"`
	Level     difficulty.Level         `json:"level"`
	Seed      uint64                   `json:"seed"`
	Daily     string                   `json:"daily,omitempty"`
	Bot       bool                     `json:"bot,omitempty"`
	Boards    [2][]board.PlacedWord    `json:"boards"`
	Owners    [2]string                `json:"owners"`
	Turn      engine.Side              `json:"turn"`
	Status    Status                   `json:"status"`
	Winner    *engine.Side             `json:"winner,omitempty"`
	Guesses   [2]int                   `json:"guesses"`
	Ledgers   [2]engine.LedgerSnapshot `json:"ledgers"`
}

// Snapshot captures everything needed to resume the match.
func (m *Match) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		Level:     m.Level,
		Seed:      m.Seed,
		Daily:     m.Daily,
		Bot:       m.Bot,
		Boards:    [2][]board.PlacedWord{m.boards[0].Words(), m.boards[1].Words()},
		Owners:    m.owners,
		Turn:      m.turn,
		Status:    m.status,
		Winner:    m.winnerLocked(),
		Guesses:   m.guesses,
		Ledgers: [2]engine.LedgerSnapshot{
			m.eng.Snapshot(engine.Attacker),
			m.eng.Snapshot(engine.Defender),
		},
	}
}

// Resume rebuilds a match from a snapshot without firing any notification.
func Resume(s Snapshot, dict engine.WordValidator, logger *zerolog.Logger) (*Match, error) {
	var boards [2]*board.Board
	for i, words := range s.Boards {
		b, err := board.New(words)
		if err != nil {
			return nil, fmt.Errorf("resume %s: board %d: %w", s.ID, i, err)
		}
		boards[i] = b
	}
	m := &Match{
		ID:        s.ID,
		CreatedAt: s.CreatedAt,
		Level:     s.Level,
		Seed:      s.Seed,
		Daily:     s.Daily,
		Bot:       s.Bot,
		boards:    boards,
		owners:    s.Owners,
		turn:      s.Turn,
		status:    s.Status,
		guesses:   s.Guesses,
	}
	if m.status == "" {
		m.status = StatusPlaying
	}
	if s.Winner != nil {
		m.winner = *s.Winner
	}
	if err := m.start(dict, logger); err != nil {
		return nil, fmt.Errorf("resume %s: %w", s.ID, err)
	}

	att, def := s.Ledgers[engine.Attacker], s.Ledgers[engine.Defender]
	m.eng.SetInitialMissCounts(att.MissCount, def.MissCount)
	for _, side := range []engine.Side{engine.Attacker, engine.Defender} {
		l := s.Ledgers[side]
		m.eng.RestoreGuessState(side, []rune(l.GuessedLetters), l.GuessedCoordinates)
		m.eng.RestoreWordState(side, l.GuessedWords, l.SolvedRows)
	}
	m.rec.Reset()
	return m, nil
}
