// internal/engine/engine.go
//
// Guess-resolution engine for a two-sided word battle.
// Responsibilities:
//   - Own one Ledger per side (each side's knowledge of the opposing board).
//   - Resolve letter, coordinate and word guesses into Hit/Miss/AlreadyGuessed/Invalid.
//   - Apply miss penalties (1 per letter/coordinate miss, 2 per wrong word)
//     and fire game-over the instant a side first reaches its miss limit.
//   - Fire notifications synchronously, inside the triggering call.
//
// Notes:
//   - The engine does not enforce turn order; callers gate who may guess.
//   - It is not safe for concurrent use; one logical caller drives both sides.
//   - Operations before Initialize return Invalid and log a warning.
package engine

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordbattle/apps/go-server/internal/board"
)

var (
	// ErrNilBoard is returned by Initialize when a board is missing.
	ErrNilBoard = errors.New("engine: nil board")
	// ErrMissLimit is returned by Initialize for a non-positive miss limit.
	ErrMissLimit = errors.New("engine: miss limit must be positive")
)

// Config carries everything Initialize needs.
type Config struct {
	AttackerBoard     *board.Board
	DefenderBoard     *board.Board
	AttackerMissLimit int
	DefenderMissLimit int

	// DefenderWords overrides the word list the attacker's word guesses are
	// resolved against, looked up by each word's Row. Empty means
	// DefenderBoard.Words().
	DefenderWords []board.PlacedWord
	// Validator rejects non-words before they are recorded. Nil accepts any
	// non-empty text.
	Validator WordValidator
}

// Engine resolves guesses for both sides.
type Engine struct {
	log       zerolog.Logger
	ledgers   [2]*Ledger
	validator WordValidator

	listeners    []subscription
	nextListener int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger. The default is the global zerolog logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// New returns an uninitialized engine.
func New(opts ...Option) *Engine {
	e := &Engine{log: log.Logger}
	for _, o := range opts {
		o(e)
	}
	e.log = e.log.With().Str("component", "engine").Logger()
	return e
}

// Initialize builds fresh ledgers for both sides. The attacker's ledger
// tracks knowledge of the defender's board and vice versa. Calling it again
// starts a new game; listeners stay registered.
func (e *Engine) Initialize(cfg Config) error {
	if cfg.AttackerBoard == nil || cfg.DefenderBoard == nil {
		return ErrNilBoard
	}
	if cfg.AttackerMissLimit <= 0 || cfg.DefenderMissLimit <= 0 {
		return fmt.Errorf("%w: attacker=%d defender=%d",
			ErrMissLimit, cfg.AttackerMissLimit, cfg.DefenderMissLimit)
	}
	defenderWords := cfg.DefenderWords
	if len(defenderWords) == 0 {
		defenderWords = cfg.DefenderBoard.Words()
	}
	e.ledgers[Attacker] = newLedger(Attacker, cfg.DefenderBoard, defenderWords, cfg.AttackerMissLimit)
	e.ledgers[Defender] = newLedger(Defender, cfg.AttackerBoard, cfg.AttackerBoard.Words(), cfg.DefenderMissLimit)
	e.validator = cfg.Validator
	e.log.Debug().
		Int("attackerCells", cfg.AttackerBoard.Len()).
		Int("defenderCells", cfg.DefenderBoard.Len()).
		Int("attackerLimit", cfg.AttackerMissLimit).
		Int("defenderLimit", cfg.DefenderMissLimit).
		Msg("initialized")
	return nil
}

// InitializeForTesting initializes both sides against the same board and limit.
func (e *Engine) InitializeForTesting(b *board.Board, missLimit int) error {
	return e.Initialize(Config{
		AttackerBoard:     b,
		DefenderBoard:     b,
		AttackerMissLimit: missLimit,
		DefenderMissLimit: missLimit,
	})
}

// Initialized reports whether Initialize has succeeded.
func (e *Engine) Initialized() bool { return e.ledgers[Attacker] != nil }

// ledger returns the acting side's ledger, or nil (after logging) when the
// engine is not ready or side is unknown.
func (e *Engine) ledger(op string, side Side) *Ledger {
	if !e.Initialized() {
		e.log.Warn().Str("op", op).Msg("called before Initialize")
		return nil
	}
	if !side.Valid() {
		e.log.Warn().Str("op", op).Int("side", int(side)).Msg("unknown side")
		return nil
	}
	return e.ledgers[side]
}

// GuessLetter resolves a keyboard letter guess by side against the opposing
// board. Every cell holding the letter is revealed together.
func (e *Engine) GuessLetter(letter rune, by Side) Result {
	l := e.ledger("GuessLetter", by)
	if l == nil {
		return Invalid
	}
	letter, ok := normalizeLetter(letter)
	if !ok {
		return Invalid
	}
	if _, seen := l.guessedLetters[letter]; seen {
		return AlreadyGuessed
	}
	l.guessedLetters[letter] = struct{}{}

	matches := l.opposing.CoordinatesOf(letter)
	if len(matches) > 0 {
		l.hitLetters[letter] = struct{}{}
		e.emit(Event{Kind: LetterHit, Side: by, Letter: string(letter), Coordinates: matches})
		return Hit
	}

	crossed := l.addMisses(LetterMissPenalty)
	e.emit(Event{Kind: LetterMiss, Side: by, Letter: string(letter)})
	e.emitMissCount(l, crossed)
	return Miss
}

// GuessCoordinate resolves a cell guess. A hit reveals the letter at that
// cell but does not mark the letter as hit; only GuessLetter and a solved
// word do that.
func (e *Engine) GuessCoordinate(c board.Coordinate, by Side) Result {
	l := e.ledger("GuessCoordinate", by)
	if l == nil {
		return Invalid
	}
	if _, seen := l.guessedCoordinates[c]; seen {
		return AlreadyGuessed
	}
	l.guessedCoordinates[c] = struct{}{}

	if letter, ok := l.opposing.LetterAt(c); ok {
		cc := c
		e.emit(Event{Kind: CoordinateHit, Side: by, Coordinate: &cc, Letter: string(letter)})
		return Hit
	}

	crossed := l.addMisses(LetterMissPenalty)
	cc := c
	e.emit(Event{Kind: CoordinateMiss, Side: by, Coordinate: &cc})
	e.emitMissCount(l, crossed)
	return Miss
}

// GuessWord resolves a full-word guess for the opposing word at row.
// A correct guess marks the row solved and every letter of the word as both
// guessed and hit. A wrong guess costs WordMissPenalty misses and the text
// cannot be submitted again.
func (e *Engine) GuessWord(text string, row int, by Side) Result {
	l := e.ledger("GuessWord", by)
	if l == nil {
		return Invalid
	}
	text = NormalizeWord(text)
	if text == "" {
		return Invalid
	}
	target, inRange := l.word(row)
	if !inRange {
		return Invalid
	}
	if e.validator != nil && !e.validator(text) {
		return Invalid
	}
	if _, seen := l.guessedWords[text]; seen {
		return AlreadyGuessed
	}
	l.guessedWords[text] = struct{}{}

	if text == NormalizeWord(target.Text) {
		l.solve(row, text)
		e.emit(Event{Kind: WordProcessed, Side: by, Row: &row, Text: text, Correct: true})
		e.emit(Event{Kind: WordSolved, Side: by, Row: &row})
		return Hit
	}

	crossed := l.addMisses(WordMissPenalty)
	e.emit(Event{Kind: WordProcessed, Side: by, Row: &row, Text: text, Correct: false})
	e.emitMissCount(l, crossed)
	return Miss
}

// ApplyPenalty adds n misses to side outside the guess flow: nothing is
// recorded and no repeat check runs. It fires miss-count-changed and, on
// crossing the limit, game-over. It reports whether the penalty was applied.
func (e *Engine) ApplyPenalty(side Side, n int) bool {
	l := e.ledger("ApplyPenalty", side)
	if l == nil || n <= 0 {
		return false
	}
	crossed := l.addMisses(n)
	e.emitMissCount(l, crossed)
	return true
}
