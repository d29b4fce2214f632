// internal/httpserver/server.go
//
// HTTP server wiring for the Mastermind backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health", "/palette".
//   - Game endpoints (optional auth): POST /game/new, POST /game/guess, GET /game/{id}.
//   - Daily code endpoints (optional auth): mounted under /daily.
//   - Auth + profile/stat endpoints: /auth/*, /stats/me, /games/mine.
//
// Notes:
//   - Live sessions sit in store.Store; only summaries reach the database and
//     the secret is never persisted.
//   - Optional auth decorates requests with the user when a valid token is
//     present; guests are tracked by an anonymous cookie.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mastermind/internal/auth"
	"github.com/robalobadob/mastermind/internal/game"
	"github.com/robalobadob/mastermind/internal/palette"
	"github.com/robalobadob/mastermind/internal/storage"
	"github.com/robalobadob/mastermind/internal/store"
)

const (
	maxPegCount = 12
	maxTryCount = 30
)

// Options are the server's collaborators and settings.
type Options struct {
	Store        store.Store
	DB           *storage.DB
	Palette      *palette.Set
	Auth         auth.Config
	ClientOrigin string
	PegCount     int
	TryCount     int
	DailySalt    string
	Source       game.Source      // nil → crypto source
	Now          func() time.Time // nil → time.Now
	Logger       *zerolog.Logger  // nil → global logger
}

// Server bundles the router and its dependencies.
type Server struct {
	r     *chi.Mux
	opts  Options
	daily *dailyServer
}

// New constructs a Server, installs middleware, and registers routes.
func New(opts Options) *Server {
	if opts.Palette == nil {
		opts.Palette = palette.Default()
	}
	if opts.PegCount <= 0 {
		opts.PegCount = game.DefaultPegCount
	}
	if opts.TryCount <= 0 {
		opts.TryCount = game.DefaultTryCount
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = &log.Logger
	}
	s := &Server{r: chi.NewRouter(), opts: opts}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(hlog.NewHandler(*opts.Logger))
	s.r.Use(accessLog)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(cors(opts.ClientOrigin))

	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":   "mastermind",
			"endpoints": []string{"/health", "/palette", "POST /game/new", "POST /game/guess", "GET /game/{id}", "/daily/*", "/auth/*"},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	s.r.Get("/palette", s.handlePalette)

	optional := s.opts.Auth.Optional(s.userExists)
	s.r.Route("/game", func(r chi.Router) {
		r.Use(optional)
		r.Post("/new", s.handleNewGame)
		r.Post("/guess", s.handleGuess)
		r.Get("/{id}", s.handleGetGame)
	})
	s.mountDaily(s.r.With(optional))
	s.mountAuthRoutes()

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})
	return s
}

// Handler exposes the router (for http.Server and tests).
func (s *Server) Handler() http.Handler { return s.r }

// ----------------------------- middleware ----------------------------------

func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

var accessLog = hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
	hlog.FromRequest(r).Info().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("request_id", chimw.GetReqID(r.Context())).
		Int("status", status).
		Int("size", size).
		Dur("duration", d).
		Msg("request")
})

// ------------------------------ helpers ------------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeGameError maps core errors onto status codes.
func writeGameError(w http.ResponseWriter, err error) {
	var ie *game.InputError
	switch {
	case errors.As(err, &ie):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": ie.Error(), "reason": string(ie.Reason)})
	case errors.Is(err, game.ErrGameOver):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error")
	}
}

// owner identifies the caller for persistence.
func (s *Server) owner(w http.ResponseWriter, r *http.Request) storage.Owner {
	if me, err := auth.CurrentUser(r.Context()); err == nil {
		return storage.Owner{UserID: me.ID}
	}
	return storage.Owner{AnonymousID: s.opts.Auth.EnsureAnonID(w, r)}
}

func (s *Server) userExists(ctx context.Context, id string) error {
	if s.opts.DB == nil {
		return storage.ErrNotFound
	}
	_, err := s.opts.DB.FindUserByID(ctx, id)
	return err
}
