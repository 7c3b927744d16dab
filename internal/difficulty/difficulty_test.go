package difficulty

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordbattle/apps/go-server/internal/board"
)

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel(" HARD ")
	require.NoError(t, err)
	require.Equal(t, Hard, l)

	l, err = ParseLevel("")
	require.NoError(t, err)
	require.Equal(t, Normal, l)

	_, err = ParseLevel("nightmare")
	require.Error(t, err)
}

func TestMissLimit(t *testing.T) {
	small, err := board.New([]board.PlacedWord{{Text: "CAT", Direction: board.Right}})
	require.NoError(t, err)
	require.Equal(t, 10, MissLimit(Easy, small))
	require.Equal(t, 7, MissLimit(Normal, small))
	require.Equal(t, 5, MissLimit(Hard, small))
	require.Equal(t, 7, MissLimit(Level("bogus"), small))
	require.Equal(t, 5, MissLimit(Hard, nil))

	// 14 distinct letters: 6 beyond the allowance, two bonus misses.
	wide, err := board.New([]board.PlacedWord{
		{Text: "ABCDEFG", Direction: board.Right},
		{Text: "HIJKLMN", Anchor: board.Coordinate{Row: 1}, Direction: board.Right},
	})
	require.NoError(t, err)
	require.Equal(t, 9, MissLimit(Normal, wide))
}
