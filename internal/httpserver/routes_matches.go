// internal/httpserver/routes_matches.go
//
// Match endpoints:
//   - POST /matches                  → lay out both boards and start a match
//   - GET  /matches/{id}             → current view
//   - POST /matches/{id}/letter      → {side, letter}
//   - POST /matches/{id}/coordinate  → {side, col, row}
//   - POST /matches/{id}/word        → {side, row, text}
//   - POST /matches/{id}/pass        → {side}
//   - GET  /matches/{id}/stream      → server-sent notifications
//
// The first player to guess for a side claims its seat; other players get 403
// for that side. Bot matches answer every attacker move with the defender's
// automatic reply in the same request.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/exp/rand"

	"github.com/robalobadob/wordbattle/apps/go-server/internal/auth"
	"github.com/robalobadob/wordbattle/apps/go-server/internal/board"
	"github.com/robalobadob/wordbattle/apps/go-server/internal/daily"
	"github.com/robalobadob/wordbattle/apps/go-server/internal/difficulty"
	"github.com/robalobadob/wordbattle/apps/go-server/internal/engine"
	"github.com/robalobadob/wordbattle/apps/go-server/internal/match"
	"github.com/robalobadob/wordbattle/apps/go-server/internal/placement"
	"github.com/robalobadob/wordbattle/apps/go-server/internal/realtime"
	"github.com/robalobadob/wordbattle/apps/go-server/internal/store"
)

const (
	defaultGridSize = 8
	maxGridSize     = 20
	defaultWords    = 4
	// maxBotMoves bounds the automatic replies to one request.
	maxBotMoves = 64
)

// requestTimeout bounds every handler except the stream.
const requestTimeout = 10 * time.Second

func (s *Server) mountMatches() {
	s.r.Route("/matches", func(r chi.Router) {
		r.Use(s.withOptionalAuth())
		r.Get("/{id}/stream", s.handleStream)

		r.Group(func(r chi.Router) {
			r.Use(chimw.Timeout(requestTimeout))
			r.Post("/", s.handleNewMatch)
			r.Get("/{id}", s.handleGetMatch)
			r.Post("/{id}/letter", s.handleLetter)
			r.Post("/{id}/coordinate", s.handleCoordinate)
			r.Post("/{id}/word", s.handleWord)
			r.Post("/{id}/pass", s.handlePass)
		})
	})
}

// ------------------------------ create/view --------------------------------

type newMatchReq struct {
	AttackerWords []string `json:"attackerWords"`
	DefenderWords []string `json:"defenderWords"`
	GridSize      int      `json:"gridSize"`
	Difficulty    string   `json:"difficulty"`
	Seed          *uint64  `json:"seed"`
	Side          string   `json:"side"` // seat the creator takes; default attacker
	Bot           bool     `json:"bot"`
}

type newMatchRes struct {
	MatchID string     `json:"matchId"`
	Seed    uint64     `json:"seed"`
	View    match.View `json:"view"`
}

func (s *Server) handleNewMatch(w http.ResponseWriter, r *http.Request) {
	var req newMatchReq
	if !decode(w, r, &req) {
		return
	}
	level, err := difficulty.ParseLevel(req.Difficulty)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	side := engine.Attacker
	if req.Side != "" {
		var ok bool
		if side, ok = engine.ParseSide(req.Side); !ok {
			writeError(w, http.StatusBadRequest, "unknown_side")
			return
		}
	}
	if req.Bot && side != engine.Attacker {
		writeError(w, http.StatusBadRequest, "bot_plays_defender")
		return
	}
	size := req.GridSize
	if size == 0 {
		size = defaultGridSize
	}
	if size < 3 || size > maxGridSize {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("gridSize must be 3-%d", maxGridSize))
		return
	}
	seed := uint64(time.Now().UnixNano())
	if req.Seed != nil {
		seed = *req.Seed
	}

	rng := rand.New(rand.NewSource(seed))
	attacker, defender, err := s.layout(rng, req.AttackerWords, req.DefenderWords, size)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	m, err := match.New(match.Setup{
		AttackerBoard: attacker,
		DefenderBoard: defender,
		Level:         level,
		Seed:          seed,
		Bot:           req.Bot,
		Dictionary:    s.validator(),
		Logger:        &s.log,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Bot {
		m.Claim(engine.Defender, botOwner)
	}
	m.Claim(side, s.playerID(w, r))

	if err := s.store.Save(r.Context(), m); err != nil {
		s.log.Error().Err(err).Msg("save match")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	s.log.Info().Str("match", m.ID).Str("level", string(level)).Uint64("seed", seed).
		Bool("bot", req.Bot).Msg("match created")
	writeJSON(w, http.StatusCreated, newMatchRes{MatchID: m.ID, Seed: seed, View: m.View()})
}

// layout places both word lists, picking random dictionary words for any
// list left empty.
func (s *Server) layout(rng *rand.Rand, attackerWords, defenderWords []string, size int) (*board.Board, *board.Board, error) {
	var boards [2]*board.Board
	for i, ws := range [][]string{attackerWords, defenderWords} {
		if len(ws) == 0 {
			if s.dict == nil {
				return nil, nil, errors.New("words required")
			}
			ws = s.dict.Pick(rng, defaultWords, 3, min(size, 7))
		}
		for _, word := range ws {
			if !s.validWord(word) {
				return nil, nil, fmt.Errorf("not a word: %q", word)
			}
		}
		b, err := placement.Place(rng, ws, size)
		if err != nil {
			return nil, nil, err
		}
		boards[i] = b
	}
	return boards[0], boards[1], nil
}

func (s *Server) validWord(word string) bool {
	if s.dict == nil {
		return strings.TrimSpace(word) != ""
	}
	return s.dict.IsValid(engine.NormalizeWord(word))
}

func (s *Server) validator() engine.WordValidator {
	if s.dict == nil {
		return nil
	}
	return s.dict.IsValid
}

func (s *Server) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	m, ok := s.loadMatch(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, m.View())
}

func (s *Server) loadMatch(w http.ResponseWriter, r *http.Request) (*match.Match, bool) {
	m, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found")
		return nil, false
	}
	if err != nil {
		s.log.Error().Err(err).Msg("load match")
		writeError(w, http.StatusInternalServerError, "load_failed")
		return nil, false
	}
	return m, true
}

// -------------------------------- guesses ----------------------------------

type letterReq struct {
	Side   string `json:"side"`
	Letter string `json:"letter"`
}

type coordinateReq struct {
	Side string `json:"side"`
	Col  int    `json:"col"`
	Row  int    `json:"row"`
}

type wordReq struct {
	Side string `json:"side"`
	Row  int    `json:"row"`
	Text string `json:"text"`
}

type sideReq struct {
	Side string `json:"side"`
}

// guessRes is one move plus any automatic replies it triggered.
type guessRes struct {
	match.Outcome
	Bot  []match.Outcome `json:"bot,omitempty"`
	View match.View      `json:"view"`
}

func (s *Server) handleLetter(w http.ResponseWriter, r *http.Request) {
	var req letterReq
	if !decode(w, r, &req) {
		return
	}
	s.play(w, r, req.Side, func(m *match.Match, side engine.Side) (match.Outcome, error) {
		return m.GuessLetter(side, req.Letter)
	})
}

func (s *Server) handleCoordinate(w http.ResponseWriter, r *http.Request) {
	var req coordinateReq
	if !decode(w, r, &req) {
		return
	}
	s.play(w, r, req.Side, func(m *match.Match, side engine.Side) (match.Outcome, error) {
		return m.GuessCoordinate(side, board.Coordinate{Col: req.Col, Row: req.Row})
	})
}

func (s *Server) handleWord(w http.ResponseWriter, r *http.Request) {
	var req wordReq
	if !decode(w, r, &req) {
		return
	}
	s.play(w, r, req.Side, func(m *match.Match, side engine.Side) (match.Outcome, error) {
		return m.GuessWord(side, req.Row, req.Text)
	})
}

func (s *Server) handlePass(w http.ResponseWriter, r *http.Request) {
	var req sideReq
	if !decode(w, r, &req) {
		return
	}
	s.play(w, r, req.Side, func(m *match.Match, side engine.Side) (match.Outcome, error) {
		return m.Pass(side)
	})
}

const botOwner = "bot"

// play runs one move for the caller's seat, lets the bot answer, then saves,
// publishes, and records results once the match ends.
func (s *Server) play(w http.ResponseWriter, r *http.Request, sideName string,
	move func(*match.Match, engine.Side) (match.Outcome, error)) {

	side, ok := engine.ParseSide(sideName)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown_side")
		return
	}
	m, ok := s.loadMatch(w, r)
	if !ok {
		return
	}
	if !m.Claim(side, s.playerID(w, r)) {
		writeError(w, http.StatusForbidden, "seat_taken")
		return
	}

	out, err := move(m, side)
	switch {
	case errors.Is(err, match.ErrNotYourTurn), errors.Is(err, match.ErrFinished):
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res := guessRes{Outcome: out}
	s.publish(m.ID, side, out)

	last := out
	if m.Bot {
		for i := 0; i < maxBotMoves && last.Status == match.StatusPlaying && last.Turn == engine.Defender; i++ {
			reply, err := m.BotMove(engine.Defender)
			if err != nil || reply.Result == engine.Invalid {
				break
			}
			res.Bot = append(res.Bot, reply)
			s.publish(m.ID, engine.Defender, reply)
			last = reply
		}
	}

	if err := s.store.Save(r.Context(), m); err != nil {
		s.log.Error().Err(err).Str("match", m.ID).Msg("save match")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	res.View = m.View()
	if last.Status == match.StatusFinished {
		s.recordFinish(r.Context(), res.View)
	}
	writeJSON(w, http.StatusOK, res)
}

// recordFinish bumps account stats for signed-in seat holders and stores the
// daily result. Holding both seats makes a practice match that counts for
// nobody.
func (s *Server) recordFinish(ctx context.Context, v match.View) {
	if v.Winner == nil {
		return
	}
	att, def := v.Sides[engine.Attacker], v.Sides[engine.Defender]
	if att.Owner != "" && att.Owner != def.Owner {
		for _, sv := range v.Sides {
			if sv.Owner == "" || sv.Owner == botOwner {
				continue
			}
			err := s.users.RecordResult(ctx, sv.Owner, *v.Winner == sv.Side)
			if err != nil && !errors.Is(err, auth.ErrNoUser) {
				s.log.Warn().Err(err).Str("user", sv.Owner).Msg("bump stats")
			}
		}
	}
	if v.Daily != "" && s.daily != nil && att.Owner != "" {
		err := s.daily.store.InsertResult(ctx, daily.Result{
			UserID:  att.Owner,
			Date:    v.Daily,
			MatchID: v.ID,
			Won:     *v.Winner == engine.Attacker,
			Misses:  att.MissCount,
			Guesses: att.Guesses,
		})
		if err != nil {
			s.log.Warn().Err(err).Str("match", v.ID).Msg("insert daily result")
		}
	}
}

// -------------------------------- stream -----------------------------------

type streamGuess struct {
	Side engine.Side `json:"side"`
	match.Outcome
}

func (s *Server) publish(matchID string, side engine.Side, out match.Outcome) {
	data, err := json.Marshal(streamGuess{Side: side, Outcome: out})
	if err != nil {
		s.log.Warn().Err(err).Msg("encode guess event")
		return
	}
	s.hub.Publish(matchID, realtime.Message{Event: "guess", Data: data})
}

// handleStream sends the current view, then every guess on the match as it
// happens.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	m, ok := s.loadMatch(w, r)
	if !ok {
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sub := s.hub.Subscribe(m.ID)
	defer s.hub.Unsubscribe(m.ID, sub)

	view, err := json.Marshal(m.View())
	if err != nil {
		s.log.Warn().Err(err).Str("match", m.ID).Msg("encode stream view")
		return
	}
	writeSSE(w, realtime.Message{Event: "view", Data: view})
	flusher.Flush()

	keepAlive := time.NewTicker(25 * time.Second)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, open := <-sub:
			if !open {
				return
			}
			writeSSE(w, msg)
			flusher.Flush()
		case <-keepAlive.C:
			_, _ = w.Write([]byte(": keepalive\n\n"))
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, msg realtime.Message) {
	_, _ = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.Event, msg.Data)
}
