package daily

import (
	"context"
	"database/sql"
)

// Result is one player's finished daily battle.
type Result struct {
	UserID  string `json:"userId"`
	Date    string `json:"date"`
	MatchID string `json:"matchId"`
	Won     bool   `json:"won"`
	Misses  int    `json:"misses"`
	Guesses int    `json:"guesses"`
}

// Store reads and writes daily_results.
type Store struct{ db *sql.DB }

// NewStore wraps db.
func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// AlreadyPlayed reports whether userID has a result for date.
func (s *Store) AlreadyPlayed(ctx context.Context, userID, date string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM daily_results WHERE user_id=? AND date=?`,
		userID, date,
	).Scan(&cnt)
	return cnt > 0, err
}

// InsertResult records r. A second result for the same user and date is ignored.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results(user_id, date, match_id, won, misses, guesses)
		 VALUES(?,?,?,?,?,?)`,
		r.UserID, r.Date, r.MatchID, r.Won, r.Misses, r.Guesses,
	)
	return err
}

// LBRow is one leaderboard entry.
// Guests have no username and show as "guest".
type LBRow struct {
	UserID   string `json:"-"`
	Username string `json:"username"`
	Misses   int    `json:"misses"`
	Guesses  int    `json:"guesses"`
}

// Leaderboard returns the day's winners: fewest misses, then fewest guesses,
// then earliest finish. limit defaults to 20.
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT d.user_id, COALESCE(u.username, 'guest'), d.misses, d.guesses
		 FROM daily_results d LEFT JOIN users u ON u.id = d.user_id
		 WHERE d.date=? AND d.won=1
		 ORDER BY d.misses ASC, d.guesses ASC, d.created_at ASC
		 LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]LBRow, 0, limit)
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.UserID, &r.Username, &r.Misses, &r.Guesses); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
