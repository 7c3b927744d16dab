package board

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("crossing words share a cell", func(t *testing.T) {
		b, err := New([]PlacedWord{
			{Text: "cat", Anchor: Coordinate{0, 0}, Direction: Right},
			{Text: "ant", Anchor: Coordinate{1, 0}, Direction: Down},
		})
		require.NoError(t, err)
		require.Equal(t, 5, b.Len())
		require.Equal(t, 2, b.WordCount())

		r, ok := b.LetterAt(Coordinate{1, 0})
		require.True(t, ok)
		require.Equal(t, 'A', r)

		w, ok := b.Word(1)
		require.True(t, ok)
		require.Equal(t, "ANT", w.Text)
		require.Equal(t, 1, w.Row)
	})

	t.Run("conflicting crossing is rejected", func(t *testing.T) {
		_, err := New([]PlacedWord{
			{Text: "CAT", Anchor: Coordinate{0, 0}, Direction: Right},
			{Text: "DOG", Anchor: Coordinate{1, 0}, Direction: Down},
		})
		require.True(t, errors.Is(err, ErrConflict))
	})

	t.Run("empty word", func(t *testing.T) {
		_, err := New([]PlacedWord{{Text: "  ", Direction: Right}})
		require.ErrorIs(t, err, ErrEmptyWord)
	})

	t.Run("zero direction", func(t *testing.T) {
		_, err := New([]PlacedWord{{Text: "CAT"}})
		require.ErrorIs(t, err, ErrDirection)
	})

	t.Run("non-letter rune", func(t *testing.T) {
		_, err := New([]PlacedWord{{Text: "C4T", Direction: Right}})
		require.ErrorIs(t, err, ErrLetter)
	})
}

func TestBoardQueries(t *testing.T) {
	b, err := New([]PlacedWord{
		{Text: "BOOK", Anchor: Coordinate{0, 1}, Direction: Right},
		{Text: "TOO", Anchor: Coordinate{1, 0}, Direction: Down},
	})
	require.NoError(t, err)

	require.Equal(t, []rune{'B', 'K', 'O', 'T'}, b.Letters())
	require.Equal(t,
		[]Coordinate{{1, 1}, {2, 1}, {1, 2}},
		b.CoordinatesOf('O'),
	)
	require.True(t, b.ContainsLetter('K'))
	require.False(t, b.ContainsLetter('Z'))
	require.Nil(t, b.CoordinatesOf('Z'))

	pos := b.Positions()
	require.Len(t, pos, b.Len())
	require.Equal(t, Coordinate{1, 0}, pos[0])

	_, ok := b.Word(2)
	require.False(t, ok)
	_, ok = b.Word(-1)
	require.False(t, ok)

	require.Equal(t, 4, b.Extent())
}

func TestWordsReturnsCopy(t *testing.T) {
	b, err := New([]PlacedWord{{Text: "SUN", Direction: Right}})
	require.NoError(t, err)

	ws := b.Words()
	ws[0].Text = "MOON"

	w, _ := b.Word(0)
	require.Equal(t, "SUN", w.Text)
}

func TestPlacedWordCells(t *testing.T) {
	w := PlacedWord{Text: "ABC", Anchor: Coordinate{2, 2}, Direction: DownRight}
	require.Equal(t, []Coordinate{{2, 2}, {3, 3}, {4, 4}}, w.Cells())
}
