package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/robalobadob/wordbattle/apps/go-server/internal/engine"
	"github.com/robalobadob/wordbattle/apps/go-server/internal/match"
)

// sqlStore persists match snapshots in the matches table and keeps resumed
// matches cached so concurrent requests share one *match.Match.
type sqlStore struct {
	db   *sql.DB
	dict engine.WordValidator
	log  zerolog.Logger

	mu    sync.Mutex
	cache map[string]*match.Match
}

// NewSQLStore returns a Store backed by db. dict validates word guesses on
// resumed matches.
func NewSQLStore(db *sql.DB, dict engine.WordValidator, log zerolog.Logger) Store {
	return &sqlStore{db: db, dict: dict, log: log, cache: make(map[string]*match.Match)}
}

// Save upserts the match snapshot.
func (s *sqlStore) Save(ctx context.Context, m *match.Match) error {
	snap := m.Snapshot()
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode match %s: %w", m.ID, err)
	}
	var winner sql.NullString
	if snap.Winner != nil {
		winner = sql.NullString{String: snap.Winner.String(), Valid: true}
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO matches (id, status, winner, state, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            status=excluded.status, winner=excluded.winner,
            state=excluded.state, updated_at=excluded.updated_at`,
		snap.ID, string(snap.Status), winner, string(raw),
		snap.CreatedAt.UTC().Format(time.RFC3339), now,
	)
	if err != nil {
		return fmt.Errorf("save match %s: %w", m.ID, err)
	}
	s.mu.Lock()
	s.cache[m.ID] = m
	s.mu.Unlock()
	return nil
}

// Get returns the cached match or resumes it from its stored snapshot.
func (s *sqlStore) Get(ctx context.Context, id string) (*match.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.cache[id]; ok {
		return m, nil
	}

	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT state FROM matches WHERE id=?`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load match %s: %w", id, err)
	}
	var snap match.Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, fmt.Errorf("decode match %s: %w", id, err)
	}
	m, err := match.Resume(snap, s.dict, &s.log)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("match", id).Str("status", string(snap.Status)).Msg("resumed match")
	s.cache[id] = m
	return m, nil
}
