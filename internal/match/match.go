// internal/match/match.go
//
// A single word-battle match: the caller that drives the guess engine.
// Responsibilities:
//   - Build both boards' engine from setup data and a difficulty level.
//   - Enforce turn order (the engine itself does not).
//   - Resolve the winner after each guess: a side that knows every letter and
//     every cell of the opposing board wins; a side at its miss limit loses.
//   - Capture the notifications each guess fires so callers can relay them.
//
// A Match is safe for concurrent use; every operation holds its mutex for the
// whole engine call.

package match

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordbattle/apps/go-server/internal/board"
	"github.com/robalobadob/wordbattle/apps/go-server/internal/difficulty"
	"github.com/robalobadob/wordbattle/apps/go-server/internal/engine"
)

var (
	// ErrFinished is returned for guesses on a finished match.
	ErrFinished = errors.New("match finished")
	// ErrNotYourTurn is returned when the other side is due to guess.
	ErrNotYourTurn = errors.New("not your turn")
	// ErrUnknownSide is returned for a side outside attacker/defender.
	ErrUnknownSide = errors.New("unknown side")
)

// Status is the coarse lifecycle of a match.
type Status string

const (
	StatusPlaying  Status = "playing"
	StatusFinished Status = "finished"
)

// Setup describes a new match.
type Setup struct {
	AttackerBoard *board.Board
	DefenderBoard *board.Board
	Level         difficulty.Level
	Seed          uint64
	Daily         string // date key for daily matches; empty otherwise
	Bot           bool   // the defender is played by BotMove

	// Dictionary validates word guesses; nil disables validation. Words on
	// either board are always accepted.
	Dictionary engine.WordValidator
	Logger     *zerolog.Logger
}

// Match holds the state of one battle.
type Match struct {
	mu sync.Mutex

	ID        string
	CreatedAt time.Time
	Level     difficulty.Level
	Seed      uint64
	Daily     string
	Bot       bool

	boards  [2]*board.Board // boards[s] is side s's own board
	owners  [2]string       // user or anonymous IDs holding each seat
	turn    engine.Side
	status  Status
	winner  engine.Side
	guesses [2]int

	eng *engine.Engine
	rec *engine.Recorder
	log zerolog.Logger
}

// Outcome is what one guess produced.
type Outcome struct {
	Result engine.Result  `json:"result"`
	Events []engine.Event `json:"events"`
	Turn   engine.Side    `json:"turn"`
	Status Status         `json:"status"`
	Winner *engine.Side   `json:"winner,omitempty"`
}

// New starts a match. The attacker moves first.
func New(s Setup) (*Match, error) {
	m := &Match{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Level:     s.Level,
		Seed:      s.Seed,
		Daily:     s.Daily,
		Bot:       s.Bot,
		boards:    [2]*board.Board{s.AttackerBoard, s.DefenderBoard},
		turn:      engine.Attacker,
		status:    StatusPlaying,
	}
	if err := m.start(s.Dictionary, s.Logger); err != nil {
		return nil, err
	}
	return m, nil
}

// start builds the engine and the event recorder.
func (m *Match) start(dict engine.WordValidator, logger *zerolog.Logger) error {
	m.log = log.Logger
	if logger != nil {
		m.log = *logger
	}
	m.log = m.log.With().Str("match", m.ID).Logger()

	m.eng = engine.New(engine.WithLogger(m.log))
	err := m.eng.Initialize(engine.Config{
		AttackerBoard:     m.boards[engine.Attacker],
		DefenderBoard:     m.boards[engine.Defender],
		AttackerMissLimit: difficulty.MissLimit(m.Level, m.boards[engine.Defender]),
		DefenderMissLimit: difficulty.MissLimit(m.Level, m.boards[engine.Attacker]),
		Validator:         m.validator(dict),
	})
	if err != nil {
		return err
	}
	m.rec = &engine.Recorder{}
	m.eng.Subscribe(m.rec.Record)
	return nil
}

// validator accepts dictionary words plus any word placed on either board.
func (m *Match) validator(dict engine.WordValidator) engine.WordValidator {
	if dict == nil {
		return nil
	}
	placed := make(map[string]struct{})
	for _, b := range m.boards {
		if b == nil {
			continue
		}
		for _, w := range b.Words() {
			placed[engine.NormalizeWord(w.Text)] = struct{}{}
		}
	}
	return func(text string) bool {
		if _, ok := placed[text]; ok {
			return true
		}
		return dict(text)
	}
}

// GuessLetter submits a letter guess for side.
func (m *Match) GuessLetter(side engine.Side, letter string) (Outcome, error) {
	r := []rune(strings.TrimSpace(letter))
	return m.guess(side, func() engine.Result {
		if len(r) != 1 {
			return engine.Invalid
		}
		return m.eng.GuessLetter(r[0], side)
	})
}

// GuessCoordinate submits a cell guess for side.
func (m *Match) GuessCoordinate(side engine.Side, c board.Coordinate) (Outcome, error) {
	return m.guess(side, func() engine.Result { return m.eng.GuessCoordinate(c, side) })
}

// GuessWord submits a word guess for the opposing word at row.
func (m *Match) GuessWord(side engine.Side, row int, text string) (Outcome, error) {
	return m.guess(side, func() engine.Result { return m.eng.GuessWord(text, row, side) })
}

// Pass gives up side's turn at the cost of one miss.
func (m *Match) Pass(side engine.Side) (Outcome, error) {
	return m.guess(side, func() engine.Result {
		m.eng.ApplyPenalty(side, engine.LetterMissPenalty)
		return engine.Miss
	})
}

// guess runs one engine call for side under the match lock and settles
// turn and winner. Invalid and repeated guesses keep the turn.
func (m *Match) guess(side engine.Side, call func() engine.Result) (Outcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !side.Valid() {
		return Outcome{}, ErrUnknownSide
	}
	if m.status == StatusFinished {
		return Outcome{}, ErrFinished
	}
	if side != m.turn {
		return Outcome{}, ErrNotYourTurn
	}

	m.rec.Reset()
	res := call()
	if res == engine.Hit || res == engine.Miss {
		m.guesses[side]++
		m.settle(side)
	}
	out := Outcome{
		Result: res,
		Events: m.rec.Drain(),
		Turn:   m.turn,
		Status: m.status,
		Winner: m.winnerLocked(),
	}
	m.log.Debug().Str("side", side.String()).Str("result", res.String()).
		Int("events", len(out.Events)).Msg("guess")
	return out, nil
}

// settle decides the winner after side's resolved guess, or passes the turn.
func (m *Match) settle(side engine.Side) {
	switch {
	case m.eng.HasWon(side):
		m.finish(side)
	case m.eng.HasLost(side):
		m.finish(side.Opponent())
	default:
		m.turn = side.Opponent()
	}
}

func (m *Match) finish(winner engine.Side) {
	m.status = StatusFinished
	m.winner = winner
	m.log.Info().Str("winner", winner.String()).
		Int("attackerMisses", m.eng.MissCount(engine.Attacker)).
		Int("defenderMisses", m.eng.MissCount(engine.Defender)).
		Msg("match finished")
}

func (m *Match) winnerLocked() *engine.Side {
	if m.status != StatusFinished {
		return nil
	}
	w := m.winner
	return &w
}

// Status returns the match status.
func (m *Match) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Winner returns the winning side once the match is finished.
func (m *Match) Winner() (engine.Side, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.winner, m.status == StatusFinished
}

// Turn returns the side due to guess.
func (m *Match) Turn() engine.Side {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.turn
}

// Claim assigns a seat to owner. It reports false when the seat is held by
// someone else.
func (m *Match) Claim(side engine.Side, owner string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !side.Valid() || owner == "" {
		return false
	}
	if cur := m.owners[side]; cur != "" && cur != owner {
		return false
	}
	m.owners[side] = owner
	return true
}

// Owner returns the ID holding side's seat, if any.
func (m *Match) Owner(side engine.Side) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !side.Valid() {
		return ""
	}
	return m.owners[side]
}
