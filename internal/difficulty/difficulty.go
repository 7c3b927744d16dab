// Package difficulty turns a difficulty level and the opposing board into a
// per-side miss limit.
package difficulty

import (
	"fmt"
	"strings"

	"github.com/robalobadob/wordbattle/apps/go-server/internal/board"
)

// Level is a difficulty setting.
type Level string

const (
	Easy   Level = "easy"
	Normal Level = "normal"
	Hard   Level = "hard"
)

const (
	minLimit = 3
	maxLimit = 26

	// Boards with more distinct letters than this earn extra misses.
	letterAllowance = 8
	lettersPerBonus = 3
)

var baseLimits = map[Level]int{
	Easy:   10,
	Normal: 7,
	Hard:   5,
}

// ParseLevel maps a case-insensitive name to a Level. Empty means Normal.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Normal, nil
	}
	l := Level(s)
	if _, ok := baseLimits[l]; !ok {
		return "", fmt.Errorf("difficulty: unknown level %q", s)
	}
	return l, nil
}

// MissLimit returns how many misses a side may take while guessing against
// opposing. Larger alphabets on the opposing board earn one extra miss per
// three distinct letters beyond eight.
func MissLimit(level Level, opposing *board.Board) int {
	limit, ok := baseLimits[level]
	if !ok {
		limit = baseLimits[Normal]
	}
	if opposing != nil {
		if extra := len(opposing.Letters()) - letterAllowance; extra > 0 {
			limit += extra / lettersPerBonus
		}
	}
	if limit < minLimit {
		return minLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
