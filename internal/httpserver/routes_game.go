package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/mastermind/internal/game"
	"github.com/robalobadob/mastermind/internal/palette"
)

type paletteRes struct {
	Symbols  []palette.Entry `json:"symbols"`
	PegCount int             `json:"pegCount"`
	TryCount int             `json:"tryCount"`
}

func (s *Server) handlePalette(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, paletteRes{
		Symbols:  s.opts.Palette.Entries(),
		PegCount: s.opts.PegCount,
		TryCount: s.opts.TryCount,
	})
}

// newGameReq/Res payloads for POST /game/new. Zero counts mean server defaults.
type newGameReq struct {
	PegCount int `json:"pegCount"`
	TryCount int `json:"tryCount"`
}
type newGameRes struct {
	GameID   string          `json:"gameId"`
	PegCount int             `json:"pegCount"`
	TryCount int             `json:"tryCount"`
	Palette  []palette.Entry `json:"palette"`
}

// handleNewGame creates a session in the store and records its owner row.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	if req.PegCount == 0 {
		req.PegCount = s.opts.PegCount
	}
	if req.TryCount == 0 {
		req.TryCount = s.opts.TryCount
	}
	if req.PegCount > maxPegCount || req.TryCount > maxTryCount {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid input: board too large", "reason": "size"})
		return
	}

	sess, err := game.NewSession(game.Options{
		Palette:  s.opts.Palette.Game(),
		PegCount: req.PegCount,
		TryCount: req.TryCount,
	}, s.opts.Source)
	if err != nil {
		writeGameError(w, err)
		return
	}
	if err := s.opts.Store.Save(r.Context(), sess); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}

	owner := s.owner(w, r)
	if s.opts.DB != nil {
		if err := s.opts.DB.InsertGame(r.Context(), sess.ID, owner, sess.PegCount, sess.TryCount); err != nil {
			hlog.FromRequest(r).Warn().Err(err).Str("gameId", sess.ID).Msg("insert game row")
		}
	}

	writeJSON(w, http.StatusOK, newGameRes{
		GameID:   sess.ID,
		PegCount: sess.PegCount,
		TryCount: sess.TryCount,
		Palette:  s.opts.Palette.Entries(),
	})
}

type guessReq struct {
	GameID string `json:"gameId"`
	Guess  string `json:"guess"`
}
type guessRes struct {
	Exact     int        `json:"exact"`
	Partial   int        `json:"partial"`
	State     game.State `json:"state"`
	Attempts  int        `json:"attempts"`
	Remaining int        `json:"remaining"`
	Secret    string     `json:"secret,omitempty"` // only once finished
}

// handleGuess scores a guess against a stored session and persists progress
// (best effort).
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}

	var res guessRes
	err := s.opts.Store.Update(r.Context(), req.GameID, func(sess *game.Session) error {
		guess, err := game.ParseGuess(sess.Palette, req.Guess, sess.PegCount)
		if err != nil {
			return err
		}
		sc, state, err := sess.SubmitGuess(guess)
		if err != nil {
			return err
		}
		res = guessRes{
			Exact:     sc.Exact,
			Partial:   sc.Partial,
			State:     state,
			Attempts:  sess.Attempts(),
			Remaining: sess.Remaining(),
		}
		if state.Finished() {
			res.Secret = sess.Secret().String()
		}
		return nil
	})
	if err != nil {
		writeGameError(w, err)
		return
	}

	owner := s.owner(w, r)
	if s.opts.DB != nil {
		if err := s.opts.DB.RecordAttempt(r.Context(), req.GameID, owner, res.Attempts, string(res.State)); err != nil {
			hlog.FromRequest(r).Warn().Err(err).Str("gameId", req.GameID).Msg("record attempt")
		}
	}
	writeJSON(w, http.StatusOK, res)
}

type attemptView struct {
	Guess   string `json:"guess"`
	Exact   int    `json:"exact"`
	Partial int    `json:"partial"`
}
type gameView struct {
	GameID    string        `json:"gameId"`
	PegCount  int           `json:"pegCount"`
	TryCount  int           `json:"tryCount"`
	State     game.State    `json:"state"`
	Attempts  int           `json:"attempts"`
	Remaining int           `json:"remaining"`
	History   []attemptView `json:"history"`
	Secret    string        `json:"secret,omitempty"`
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var v gameView
	err := s.opts.Store.Update(r.Context(), id, func(sess *game.Session) error {
		v = gameView{
			GameID:    sess.ID,
			PegCount:  sess.PegCount,
			TryCount:  sess.TryCount,
			State:     sess.State(),
			Attempts:  sess.Attempts(),
			Remaining: sess.Remaining(),
			History:   []attemptView{},
		}
		for _, a := range sess.History() {
			v.History = append(v.History, attemptView{Guess: a.Guess.String(), Exact: a.Score.Exact, Partial: a.Score.Partial})
		}
		if sess.State().Finished() {
			v.Secret = sess.Secret().String()
		}
		return nil
	})
	if err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}
