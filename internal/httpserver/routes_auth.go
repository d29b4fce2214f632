package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/mastermind/internal/auth"
	"github.com/robalobadob/mastermind/internal/storage"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// mountAuthRoutes registers authentication and the gated profile routes.
// They need the database; without one only the game endpoints exist.
func (s *Server) mountAuthRoutes() {
	if s.opts.DB == nil {
		return
	}
	s.r.Post("/auth/signup", s.handleSignup)
	s.r.Post("/auth/login", s.handleLogin)
	s.r.Post("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		s.opts.Auth.ClearCookie(w)
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	s.r.Group(func(r chi.Router) {
		r.Use(s.opts.Auth.Require(s.userExists))
		r.Get("/auth/me", func(w http.ResponseWriter, r *http.Request) {
			me, _ := auth.CurrentUser(r.Context())
			writeJSON(w, http.StatusOK, me)
		})
		r.Get("/stats/me", s.handleStats)
		r.Get("/games/mine", s.handleMyGames)
	})
}

// handleSignup creates a user, signs a token, sets the cookie and claims anon history.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	username := auth.NormalizeUsername(body.Username)
	if err := auth.ValidateSignup(username, body.Password); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	hash, err := auth.HashPassword(body.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "hash_failed")
		return
	}
	u, err := s.opts.DB.CreateUser(r.Context(), auth.GenID(), username, hash)
	if errors.Is(err, storage.ErrUsernameTaken) {
		writeError(w, http.StatusConflict, "Username taken")
		return
	}
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("create user")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	if !s.issueToken(w, r, u) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": u.ID, "username": u.Username, "createdAt": u.CreatedAt})
}

// handleLogin authenticates a user, sets the cookie and claims anon history.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	u, err := s.opts.DB.FindUserByUsername(r.Context(), auth.NormalizeUsername(body.Username))
	if err != nil || !auth.CheckPassword(u.PasswordHash, body.Password) {
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	if !s.issueToken(w, r, u) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": u.ID, "username": u.Username})
}

func (s *Server) issueToken(w http.ResponseWriter, r *http.Request, u *storage.User) bool {
	tok, exp, err := s.opts.Auth.Sign(u.ID, u.Username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return false
	}
	s.opts.Auth.SetCookie(w, tok, exp)
	if ck, err := r.Cookie(auth.AnonCookieName); err == nil && ck.Value != "" {
		if err := s.opts.DB.ClaimAnonGames(r.Context(), ck.Value, u.ID); err != nil {
			hlog.FromRequest(r).Warn().Err(err).Msg("claim anon games")
		}
	}
	return true
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	me, _ := auth.CurrentUser(r.Context())
	u, err := s.opts.DB.FindUserByID(r.Context(), me.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "not_found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":           u.ID,
		"gamesPlayed":  u.GamesPlayed,
		"wins":         u.Wins,
		"streak":       u.Streak,
		"bestAttempts": u.BestAttempts,
	})
}

func (s *Server) handleMyGames(w http.ResponseWriter, r *http.Request) {
	me, _ := auth.CurrentUser(r.Context())
	games, err := s.opts.DB.ListGames(r.Context(), me.ID, 50)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, games)
}
