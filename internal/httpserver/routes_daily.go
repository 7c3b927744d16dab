// internal/httpserver/routes_daily.go
//
// HTTP routes for the daily battle.
//   - POST /daily/new         → start (or resume) today's battle against the bot
//   - GET  /daily/leaderboard → winners for today (or ?date=YYYY-MM-DD)
//
// Both boards come from a PRNG seeded with HMAC(salt, date), so everyone gets
// the same puzzle on the same day. Each player gets one result per day; moves
// go through the regular /matches/{id}/* endpoints.

package httpserver

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/exp/rand"

	"github.com/robalobadob/wordbattle/apps/go-server/internal/daily"
	"github.com/robalobadob/wordbattle/apps/go-server/internal/difficulty"
	"github.com/robalobadob/wordbattle/apps/go-server/internal/engine"
	"github.com/robalobadob/wordbattle/apps/go-server/internal/match"
)

const dailyGridSize = 8

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	salt     string
	now      func() time.Time
	mu       sync.Mutex        // guards sessions
	sessions map[string]string // userID|date → match ID
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(st *daily.Store) {
	s.daily = &dailyServer{
		srv:      s,
		store:    st,
		salt:     s.cfg.DailySalt,
		now:      time.Now,
		sessions: make(map[string]string),
	}
	s.r.Route("/daily", func(r chi.Router) {
		r.Use(s.withOptionalAuth())
		r.Use(chimw.Timeout(requestTimeout))
		r.Post("/new", s.daily.handleNew)
		r.Get("/leaderboard", s.daily.handleLeaderboard)
	})
}

type dailyNewRes struct {
	MatchID string      `json:"matchId,omitempty"`
	Date    string      `json:"date"`
	Played  bool        `json:"played"`
	View    *match.View `json:"view,omitempty"`
}

// handleNew returns today's battle for the caller.
//   - A stored result for today → Played=true.
//   - An unfinished battle from earlier today is resumed.
//   - Otherwise a new battle is laid out from today's seed.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	uid := d.srv.playerID(w, r)
	now := d.now()
	date := daily.DateKey(now)

	played, err := d.store.AlreadyPlayed(r.Context(), uid, date)
	if err != nil {
		d.srv.log.Error().Err(err).Msg("daily already played")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if played {
		writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Played: true})
		return
	}

	key := uid + "|" + date
	d.mu.Lock()
	defer d.mu.Unlock()
	if id, ok := d.sessions[key]; ok {
		if m, err := d.srv.store.Get(r.Context(), id); err == nil && m.Status() == match.StatusPlaying {
			v := m.View()
			writeJSON(w, http.StatusOK, dailyNewRes{MatchID: m.ID, Date: date, View: &v})
			return
		}
	}

	m, err := d.newMatch(now)
	if err != nil {
		d.srv.log.Error().Err(err).Str("date", date).Msg("daily layout")
		writeError(w, http.StatusInternalServerError, "layout_failed")
		return
	}
	m.Claim(engine.Defender, botOwner)
	m.Claim(engine.Attacker, uid)
	if err := d.srv.store.Save(r.Context(), m); err != nil {
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	d.sessions[key] = m.ID

	v := m.View()
	writeJSON(w, http.StatusOK, dailyNewRes{MatchID: m.ID, Date: date, View: &v})
}

// newMatch lays out the day's boards. The same date and salt always give the
// same words in the same places.
func (d *dailyServer) newMatch(now time.Time) (*match.Match, error) {
	seed := daily.Seed(now, d.salt)
	rng := rand.New(rand.NewSource(seed))
	attacker, defender, err := d.srv.layout(rng, nil, nil, dailyGridSize)
	if err != nil {
		return nil, err
	}
	return match.New(match.Setup{
		AttackerBoard: attacker,
		DefenderBoard: defender,
		Level:         difficulty.Normal,
		Seed:          seed,
		Daily:         daily.DateKey(now),
		Bot:           true,
		Dictionary:    d.srv.validator(),
		Logger:        &d.srv.log,
	})
}

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(d.now())
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}
