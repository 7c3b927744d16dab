package engine

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordbattle/apps/go-server/internal/board"
)

// catBoard places CAT at (0,0),(1,0),(2,0).
func catBoard(t *testing.T) *board.Board {
	t.Helper()
	b, err := board.New([]board.PlacedWord{
		{Text: "CAT", Anchor: board.Coordinate{Col: 0, Row: 0}, Direction: board.Right},
	})
	require.NoError(t, err)
	return b
}

// twoWordBoard places CAT across and ANT down, sharing the A at (1,0).
func twoWordBoard(t *testing.T) *board.Board {
	t.Helper()
	b, err := board.New([]board.PlacedWord{
		{Text: "CAT", Anchor: board.Coordinate{Col: 0, Row: 0}, Direction: board.Right},
		{Text: "ANT", Anchor: board.Coordinate{Col: 1, Row: 0}, Direction: board.Down},
	})
	require.NoError(t, err)
	return b
}

func newTestEngine(t *testing.T, b *board.Board, limit int) (*Engine, *Recorder) {
	t.Helper()
	e := New(WithLogger(zerolog.Nop()))
	require.NoError(t, e.InitializeForTesting(b, limit))
	rec := &Recorder{}
	e.Subscribe(rec.Record)
	return e, rec
}

func TestUninitialized(t *testing.T) {
	var buf bytes.Buffer
	e := New(WithLogger(zerolog.New(&buf)))
	rec := &Recorder{}
	e.Subscribe(rec.Record)

	require.Equal(t, Invalid, e.GuessLetter('A', Attacker))
	require.Equal(t, Invalid, e.GuessCoordinate(board.Coordinate{}, Attacker))
	require.Equal(t, Invalid, e.GuessWord("CAT", 0, Attacker))
	require.False(t, e.ApplyPenalty(Attacker, 1))
	require.False(t, e.HasWon(Attacker))
	e.SetInitialMissCounts(1, 1)

	require.Empty(t, rec.Events)
	require.Contains(t, buf.String(), "called before Initialize")
	require.Contains(t, buf.String(), `"op":"GuessLetter"`)
	require.Contains(t, buf.String(), `"level":"warn"`)
}

func TestInitializeValidation(t *testing.T) {
	e := New(WithLogger(zerolog.Nop()))
	b := catBoard(t)

	require.ErrorIs(t, e.Initialize(Config{AttackerBoard: b}), ErrNilBoard)
	require.ErrorIs(t, e.Initialize(Config{
		AttackerBoard: b, DefenderBoard: b, AttackerMissLimit: 0, DefenderMissLimit: 3,
	}), ErrMissLimit)
	require.False(t, e.Initialized())
}

func TestGuessLetter(t *testing.T) {
	t.Run("hit reveals every matching cell", func(t *testing.T) {
		e, rec := newTestEngine(t, twoWordBoard(t), 5)

		require.Equal(t, Hit, e.GuessLetter('t', Attacker))
		require.Equal(t, []rune{'T'}, e.HitLetters(Attacker))
		require.Equal(t, 0, e.MissCount(Attacker))

		require.Len(t, rec.Events, 1)
		ev := rec.Events[0]
		require.Equal(t, LetterHit, ev.Kind)
		require.Equal(t, Attacker, ev.Side)
		require.Equal(t, "T", ev.Letter)
		require.Equal(t, []board.Coordinate{{Col: 2, Row: 0}, {Col: 1, Row: 2}}, ev.Coordinates)
	})

	t.Run("miss increments by one and notifies in order", func(t *testing.T) {
		e, rec := newTestEngine(t, catBoard(t), 5)

		require.Equal(t, Miss, e.GuessLetter('z', Defender))
		require.Equal(t, 1, e.MissCount(Defender))
		require.Equal(t, 0, e.MissCount(Attacker))
		require.Equal(t, []EventKind{LetterMiss, MissCountChanged}, rec.Kinds())
		require.Equal(t, 1, rec.Events[1].Count)
		require.Equal(t, 5, rec.Events[1].Limit)
		require.Equal(t, Defender, rec.Events[1].Side)
		require.Empty(t, e.HitLetters(Defender))
		require.Equal(t, []rune{'Z'}, e.GuessedLetters(Defender))
	})

	t.Run("non-letter is invalid and records nothing", func(t *testing.T) {
		e, rec := newTestEngine(t, catBoard(t), 5)

		require.Equal(t, Invalid, e.GuessLetter('7', Attacker))
		require.Equal(t, Invalid, e.GuessLetter(' ', Attacker))
		require.Empty(t, e.GuessedLetters(Attacker))
		require.Empty(t, rec.Events)
	})

	t.Run("repeat is observed, not applied", func(t *testing.T) {
		for _, letter := range []rune{'c', 'q'} {
			e, rec := newTestEngine(t, catBoard(t), 5)

			first := e.GuessLetter(letter, Attacker)
			require.Contains(t, []Result{Hit, Miss}, first)
			misses := e.MissCount(Attacker)
			hits := e.HitLetters(Attacker)
			n := len(rec.Events)

			require.Equal(t, AlreadyGuessed, e.GuessLetter(letter, Attacker))
			require.Equal(t, AlreadyGuessed, e.GuessLetter(letter-'a'+'A', Attacker))
			require.Equal(t, misses, e.MissCount(Attacker))
			require.Equal(t, hits, e.HitLetters(Attacker))
			require.Len(t, rec.Events, n)
		}
	})

	t.Run("sides keep independent ledgers", func(t *testing.T) {
		e, _ := newTestEngine(t, catBoard(t), 5)

		require.Equal(t, Hit, e.GuessLetter('C', Attacker))
		require.Equal(t, Hit, e.GuessLetter('C', Defender))
		require.Equal(t, AlreadyGuessed, e.GuessLetter('C', Attacker))
	})
}

func TestGuessCoordinate(t *testing.T) {
	t.Run("hit does not mark the letter as hit", func(t *testing.T) {
		e, rec := newTestEngine(t, catBoard(t), 5)

		require.Equal(t, Hit, e.GuessCoordinate(board.Coordinate{Col: 1, Row: 0}, Attacker))
		require.Empty(t, e.HitLetters(Attacker))
		require.Empty(t, e.GuessedLetters(Attacker))
		require.False(t, e.IsLetterKnown(Attacker, 'A'))
		require.Equal(t, 0, e.MissCount(Attacker))

		require.Equal(t, []EventKind{CoordinateHit}, rec.Kinds())
		require.Equal(t, "A", rec.Events[0].Letter)
		require.Equal(t, board.Coordinate{Col: 1, Row: 0}, *rec.Events[0].Coordinate)
	})

	t.Run("miss increments by one", func(t *testing.T) {
		e, rec := newTestEngine(t, catBoard(t), 5)

		require.Equal(t, Miss, e.GuessCoordinate(board.Coordinate{Col: 4, Row: 4}, Attacker))
		require.Equal(t, 1, e.MissCount(Attacker))
		require.Equal(t, []EventKind{CoordinateMiss, MissCountChanged}, rec.Kinds())
	})

	t.Run("repeat", func(t *testing.T) {
		e, rec := newTestEngine(t, catBoard(t), 5)
		c := board.Coordinate{Col: 9, Row: 9}

		require.Equal(t, Miss, e.GuessCoordinate(c, Attacker))
		require.Equal(t, AlreadyGuessed, e.GuessCoordinate(c, Attacker))
		require.Equal(t, 1, e.MissCount(Attacker))
		require.Len(t, rec.Events, 2)
	})
}

func TestGuessWord(t *testing.T) {
	t.Run("correct word short-circuits letters", func(t *testing.T) {
		e, rec := newTestEngine(t, twoWordBoard(t), 5)

		require.Equal(t, Hit, e.GuessWord("  ant ", 1, Attacker))
		require.Equal(t, []int{1}, e.SolvedWords(Attacker))
		require.Equal(t, []rune{'A', 'N', 'T'}, e.GuessedLetters(Attacker))
		require.Equal(t, []rune{'A', 'N', 'T'}, e.HitLetters(Attacker))
		require.Equal(t, 0, e.MissCount(Attacker))

		require.Equal(t, []EventKind{WordProcessed, WordSolved}, rec.Kinds())
		require.True(t, rec.Events[0].Correct)
		require.Equal(t, "ANT", rec.Events[0].Text)
		require.Equal(t, 1, *rec.Events[1].Row)

		// Letters learned from the word are now repeats.
		require.Equal(t, AlreadyGuessed, e.GuessLetter('N', Attacker))
	})

	t.Run("wrong word costs two and cannot be resubmitted", func(t *testing.T) {
		e, rec := newTestEngine(t, catBoard(t), 5)

		require.Equal(t, Miss, e.GuessWord("cot", 0, Attacker))
		require.Equal(t, 2, e.MissCount(Attacker))
		require.Equal(t, []string{"COT"}, e.GuessedWords(Attacker))
		require.Equal(t, []EventKind{WordProcessed, MissCountChanged}, rec.Kinds())
		require.False(t, rec.Events[0].Correct)
		require.Equal(t, 2, rec.Events[1].Count)

		require.Equal(t, AlreadyGuessed, e.GuessWord("COT", 0, Attacker))
		require.Equal(t, 2, e.MissCount(Attacker))
		require.Empty(t, e.SolvedWords(Attacker))
	})

	t.Run("blank text is invalid", func(t *testing.T) {
		e, rec := newTestEngine(t, catBoard(t), 5)

		require.Equal(t, Invalid, e.GuessWord("   ", 0, Attacker))
		require.Empty(t, e.GuessedWords(Attacker))
		require.Empty(t, rec.Events)
	})

	t.Run("out of range row is invalid", func(t *testing.T) {
		e, rec := newTestEngine(t, catBoard(t), 5)

		require.Equal(t, Invalid, e.GuessWord("CAT", 1, Attacker))
		require.Equal(t, Invalid, e.GuessWord("CAT", -1, Attacker))
		require.Empty(t, e.GuessedWords(Attacker))
		require.Equal(t, 0, e.MissCount(Attacker))
		require.Empty(t, rec.Events)
	})

	t.Run("validator rejection records nothing", func(t *testing.T) {
		e := New(WithLogger(zerolog.Nop()))
		b := catBoard(t)
		require.NoError(t, e.Initialize(Config{
			AttackerBoard: b, DefenderBoard: b,
			AttackerMissLimit: 5, DefenderMissLimit: 5,
			Validator: func(text string) bool { return text == "CAT" || text == "COT" },
		}))

		require.Equal(t, Invalid, e.GuessWord("xqz", 0, Attacker))
		require.Empty(t, e.GuessedWords(Attacker))
		require.Equal(t, Miss, e.GuessWord("cot", 0, Attacker))
		require.Equal(t, Hit, e.GuessWord("cat", 0, Attacker))
	})

	t.Run("defender word override", func(t *testing.T) {
		e := New(WithLogger(zerolog.Nop()))
		b := catBoard(t)
		require.NoError(t, e.Initialize(Config{
			AttackerBoard: b, DefenderBoard: b,
			AttackerMissLimit: 5, DefenderMissLimit: 5,
			DefenderWords: []board.PlacedWord{{Text: "DOG", Row: 0}},
		}))

		require.Equal(t, Hit, e.GuessWord("dog", 0, Attacker))
		require.Equal(t, Miss, e.GuessWord("dog", 0, Defender))
	})

	t.Run("override resolves by row index", func(t *testing.T) {
		e := New(WithLogger(zerolog.Nop()))
		b := catBoard(t)
		require.NoError(t, e.Initialize(Config{
			AttackerBoard: b, DefenderBoard: b,
			AttackerMissLimit: 5, DefenderMissLimit: 5,
			DefenderWords: []board.PlacedWord{{Text: "DOG", Row: 1}, {Text: "CAT", Row: 0}},
		}))

		require.Equal(t, Hit, e.GuessWord("cat", 0, Attacker))
		require.Equal(t, Hit, e.GuessWord("dog", 1, Attacker))
		require.Equal(t, Invalid, e.GuessWord("cow", 2, Attacker))
		require.Zero(t, e.MissCount(Attacker))
	})
}

func TestMissArithmetic(t *testing.T) {
	e, _ := newTestEngine(t, catBoard(t), 20)

	steps := []struct {
		name string
		do   func() Result
		want int
	}{
		{"letter hit", func() Result { return e.GuessLetter('C', Attacker) }, 0},
		{"letter miss", func() Result { return e.GuessLetter('X', Attacker) }, 1},
		{"coordinate hit", func() Result { return e.GuessCoordinate(board.Coordinate{Col: 0, Row: 0}, Attacker) }, 1},
		{"coordinate miss", func() Result { return e.GuessCoordinate(board.Coordinate{Col: 0, Row: 1}, Attacker) }, 2},
		{"wrong word", func() Result { return e.GuessWord("CAR", 0, Attacker) }, 4},
		{"right word", func() Result { return e.GuessWord("CAT", 0, Attacker) }, 4},
	}
	for _, s := range steps {
		s.do()
		require.Equal(t, s.want, e.MissCount(Attacker), s.name)
	}
}

func TestGameOverFiresOnceAtThreshold(t *testing.T) {
	e, rec := newTestEngine(t, catBoard(t), 3)

	for i, letter := range []rune{'X', 'Y', 'Z'} {
		rec.Reset()
		require.Equal(t, Miss, e.GuessLetter(letter, Attacker))
		require.Equal(t, i+1, e.MissCount(Attacker))
		if i < 2 {
			require.NotContains(t, rec.Kinds(), GameOver, "call %d", i+1)
			require.False(t, e.HasLost(Attacker))
		}
	}
	require.Equal(t, []EventKind{LetterMiss, MissCountChanged, GameOver}, rec.Kinds())
	require.Equal(t, Attacker, rec.Events[2].Side)
	require.True(t, e.HasLost(Attacker))
	require.Equal(t, 0, e.RemainingMisses(Attacker))

	// The engine keeps accepting guesses but game-over does not repeat.
	rec.Reset()
	require.Equal(t, Miss, e.GuessLetter('Q', Attacker))
	require.Equal(t, 4, e.MissCount(Attacker))
	require.NotContains(t, rec.Kinds(), GameOver)
}

func TestGameOverOnWordPenaltyOvershoot(t *testing.T) {
	e, rec := newTestEngine(t, catBoard(t), 3)

	require.Equal(t, Miss, e.GuessLetter('X', Attacker))
	rec.Reset()
	require.Equal(t, Miss, e.GuessWord("DOG", 0, Attacker))
	require.Equal(t, 3, e.MissCount(Attacker))
	require.Equal(t, []EventKind{WordProcessed, MissCountChanged, GameOver}, rec.Kinds())
}

func TestWinRequiresBothTracks(t *testing.T) {
	e, _ := newTestEngine(t, catBoard(t), 5)

	for _, r := range "CAT" {
		require.Equal(t, Hit, e.GuessLetter(r, Attacker))
	}
	require.True(t, e.LettersKnown(Attacker))
	require.False(t, e.CoordinatesKnown(Attacker))
	require.False(t, e.HasWon(Attacker))

	for col := 0; col < 3; col++ {
		require.Equal(t, Hit, e.GuessCoordinate(board.Coordinate{Col: col, Row: 0}, Attacker))
	}
	require.True(t, e.CoordinatesKnown(Attacker))
	require.True(t, e.HasWon(Attacker))
	require.False(t, e.HasWon(Defender))
}

func TestCoordinatesAloneDoNotWin(t *testing.T) {
	e, _ := newTestEngine(t, catBoard(t), 5)

	for col := 0; col < 3; col++ {
		require.Equal(t, Hit, e.GuessCoordinate(board.Coordinate{Col: col, Row: 0}, Attacker))
	}
	require.True(t, e.CoordinatesKnown(Attacker))
	require.False(t, e.LettersKnown(Attacker))
	require.False(t, e.HasWon(Attacker))

	require.Equal(t, Hit, e.GuessWord("CAT", 0, Attacker))
	require.True(t, e.HasWon(Attacker))
}

func TestLetterFullyLocated(t *testing.T) {
	e, _ := newTestEngine(t, twoWordBoard(t), 5)

	require.Equal(t, Hit, e.GuessLetter('T', Attacker))
	require.False(t, e.IsLetterFullyLocated(Attacker, 'T'))

	e.GuessCoordinate(board.Coordinate{Col: 2, Row: 0}, Attacker)
	require.False(t, e.IsLetterFullyLocated(Attacker, 't'))
	e.GuessCoordinate(board.Coordinate{Col: 1, Row: 2}, Attacker)
	require.True(t, e.IsLetterFullyLocated(Attacker, 't'))

	require.True(t, e.IsLetterFullyLocated(Attacker, 'Z'))
	require.False(t, e.IsLetterFullyLocated(Attacker, '#'))
}

func TestEmptyBoardIsNeverWon(t *testing.T) {
	b, err := board.New(nil)
	require.NoError(t, err)
	e, _ := newTestEngine(t, b, 3)
	require.False(t, e.HasWon(Attacker))
}

func TestApplyPenalty(t *testing.T) {
	e, rec := newTestEngine(t, catBoard(t), 3)

	require.False(t, e.ApplyPenalty(Defender, 0))
	require.Empty(t, rec.Events)

	require.True(t, e.ApplyPenalty(Defender, 2))
	require.Equal(t, []EventKind{MissCountChanged}, rec.Kinds())
	require.Empty(t, e.GuessedLetters(Defender))

	rec.Reset()
	require.True(t, e.ApplyPenalty(Defender, 5))
	require.Equal(t, 7, e.MissCount(Defender))
	require.Equal(t, []EventKind{MissCountChanged, GameOver}, rec.Kinds())
	require.Equal(t, Defender, rec.Events[1].Side)
}

func TestSubscribeCancel(t *testing.T) {
	e, rec := newTestEngine(t, catBoard(t), 5)
	other := &Recorder{}
	cancel := e.Subscribe(other.Record)

	e.GuessLetter('C', Attacker)
	cancel()
	e.GuessLetter('A', Attacker)

	require.Len(t, rec.Events, 2)
	require.Len(t, other.Events, 1)
}

func TestCancelDuringNotification(t *testing.T) {
	e := New(WithLogger(zerolog.Nop()))
	require.NoError(t, e.InitializeForTesting(catBoard(t), 5))

	calls := make([]int, 3)
	var cancelFirst func()
	cancelFirst = e.Subscribe(func(ev Event) {
		calls[0]++
		cancelFirst()
	})
	e.Subscribe(func(Event) { calls[1]++ })
	e.Subscribe(func(Event) { calls[2]++ })

	// A letter hit fires a single LetterHit.
	require.Equal(t, Hit, e.GuessLetter('C', Attacker))
	require.Equal(t, []int{1, 1, 1}, calls)

	require.Equal(t, Hit, e.GuessLetter('A', Attacker))
	require.Equal(t, []int{1, 2, 2}, calls)
}

func TestEventJSONNames(t *testing.T) {
	require.Equal(t, "miss_count_changed", MissCountChanged.String())
	require.Equal(t, "already_guessed", AlreadyGuessed.String())
	side, ok := ParseSide(strings.ToLower("DEFENDER"))
	require.True(t, ok)
	require.Equal(t, Defender, side)
	require.Equal(t, Attacker, Defender.Opponent())
}
