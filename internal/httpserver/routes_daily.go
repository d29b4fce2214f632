// internal/httpserver/routes_daily.go
//
// HTTP routes for the "daily code" mode.
//   - POST /daily/new         → start (or resume) today's code
//   - POST /daily/guess       → submit a guess against today's code
//   - GET  /daily/leaderboard → winners for today (or ?date=YYYY-MM-DD)
//
// Everyone gets the same secret on a given UTC date (HMAC of date + salt).
// Each player may finish the daily code once; sessions live in memory while
// playing and the result is persisted when the game ends. Sessions from
// earlier dates are dropped by Server.Sweep.

package httpserver

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/mastermind/internal/daily"
	"github.com/robalobadob/mastermind/internal/game"
)

type dailyServer struct {
	srv   *Server
	store *daily.Store // nil without a database

	// mu guards sessions, which are keyed by userID|date.
	mu       sync.Mutex
	sessions map[string]*dailySession
}

type dailySession struct {
	GameID  string
	UserID  string
	Date    string
	Start   time.Time
	Session *game.Session
}

func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{
		srv:      s,
		sessions: make(map[string]*dailySession),
	}
	if s.opts.DB != nil {
		dd.store = daily.NewStore(s.opts.DB.SQL)
	}
	s.daily = dd
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Post("/guess", dd.handleGuess)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// today returns the date key and the day's secret.
func (d *dailyServer) today() (string, game.Sequence, error) {
	now := d.srv.opts.Now()
	secret, err := daily.Secret(now, d.srv.opts.DailySalt, d.srv.opts.Palette.Game(), d.srv.opts.PegCount)
	return daily.DateKey(now), secret, err
}

// prune drops sessions for any date other than today.
func (d *dailyServer) prune() int {
	today := daily.DateKey(d.srv.opts.Now())
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for key, sess := range d.sessions {
		if sess.Date != today {
			delete(d.sessions, key)
			n++
		}
	}
	return n
}

type dailyNewRes struct {
	GameID   string `json:"gameId"`
	Date     string `json:"date"`
	Played   bool   `json:"played"`
	PegCount int    `json:"pegCount"`
	TryCount int    `json:"tryCount"`
}

// handleNew creates or reuses today's session for the caller.
// A caller with a stored result for today gets Played=true and no game.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	owner := d.srv.owner(w, r)
	uid := owner.UserID + owner.AnonymousID
	date, secret, err := d.today()
	if err != nil {
		writeGameError(w, err)
		return
	}
	res := dailyNewRes{Date: date, PegCount: d.srv.opts.PegCount, TryCount: d.srv.opts.TryCount}

	if d.store != nil {
		if played, err := d.store.AlreadyPlayed(r.Context(), uid, date); err == nil && played {
			res.Played = true
			writeJSON(w, http.StatusOK, res)
			return
		}
	}

	key := uid + "|" + date
	d.mu.Lock()
	defer d.mu.Unlock()
	if sess, ok := d.sessions[key]; ok {
		res.GameID = sess.GameID
		res.Played = sess.Session.State().Finished()
		writeJSON(w, http.StatusOK, res)
		return
	}
	gs, err := game.NewSession(game.Options{
		Palette:  d.srv.opts.Palette.Game(),
		PegCount: d.srv.opts.PegCount,
		TryCount: d.srv.opts.TryCount,
	}, d.srv.opts.Source)
	if err == nil {
		err = gs.NewGameWithSecret(secret)
	}
	if err != nil {
		writeGameError(w, err)
		return
	}
	sess := &dailySession{GameID: uuid.NewString(), UserID: uid, Date: date, Start: d.srv.opts.Now(), Session: gs}
	d.sessions[key] = sess
	res.GameID = sess.GameID
	writeJSON(w, http.StatusOK, res)
}

type dailyGuessReq struct {
	GameID string `json:"gameId"`
	Guess  string `json:"guess"`
}

type dailyGuessRes struct {
	Exact     int        `json:"exact"`
	Partial   int        `json:"partial"`
	State     game.State `json:"state"`
	Attempts  int        `json:"attempts"`
	Remaining int        `json:"remaining"`
	Secret    string     `json:"secret,omitempty"`
}

// handleGuess scores a guess in today's session and stores the result once
// the game ends.
func (d *dailyServer) handleGuess(w http.ResponseWriter, r *http.Request) {
	owner := d.srv.owner(w, r)
	uid := owner.UserID + owner.AnonymousID

	var p dailyGuessReq
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.GameID == "" {
		writeError(w, http.StatusBadRequest, "bad_request")
		return
	}
	date := daily.DateKey(d.srv.opts.Now())

	d.mu.Lock()
	sess, ok := d.sessions[uid+"|"+date]
	if !ok || sess.GameID != p.GameID {
		d.mu.Unlock()
		writeError(w, http.StatusConflict, "no_session")
		return
	}
	gs := sess.Session
	guess, err := game.ParseGuess(gs.Palette, p.Guess, gs.PegCount)
	var sc game.Score
	var state game.State
	if err == nil {
		sc, state, err = gs.SubmitGuess(guess)
	}
	res := dailyGuessRes{Exact: sc.Exact, Partial: sc.Partial, State: state, Attempts: gs.Attempts(), Remaining: gs.Remaining()}
	if err == nil && state.Finished() {
		res.Secret = gs.Secret().String()
	}
	d.mu.Unlock()

	if err != nil {
		writeGameError(w, err)
		return
	}
	if state.Finished() && d.store != nil {
		result := daily.Result{
			UserID:    uid,
			Date:      date,
			Secret:    res.Secret,
			Won:       state == game.StateWon,
			Attempts:  res.Attempts,
			ElapsedMs: int(d.srv.opts.Now().Sub(sess.Start).Milliseconds()),
		}
		if err := d.store.InsertResult(r.Context(), result); err != nil {
			hlog.FromRequest(r).Warn().Err(err).Str("user", uid).Msg("insert daily result")
		}
	}
	writeJSON(w, http.StatusOK, res)
}

type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(d.srv.opts.Now())
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		writeError(w, http.StatusBadRequest, "bad_date")
		return
	}
	if d.store == nil {
		writeJSON(w, http.StatusOK, lbRes{Date: date, Top: []daily.LBRow{}})
		return
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}
