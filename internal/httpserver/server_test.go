package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/mastermind/internal/auth"
	"github.com/robalobadob/mastermind/internal/daily"
	"github.com/robalobadob/mastermind/internal/game"
	"github.com/robalobadob/mastermind/internal/storage"
	"github.com/robalobadob/mastermind/internal/store"
)

// fixed always draws index i; with the default palette fixed(0) gives RRRR.
type fixed int

func (f fixed) IntN(n int) int { return int(f) % n }

var testDay = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

type client struct {
	t    *testing.T
	base string
	http *http.Client
}

func newTestServer(t *testing.T) (*client, *storage.DB) {
	t.Helper()
	db, err := storage.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	srv := New(Options{
		Store:     store.NewMemoryStore(),
		DB:        db,
		Auth:      auth.Config{Secret: "test", ExpiryDays: 1, CookieName: "tok"},
		DailySalt: "salt",
		Source:    fixed(0),
		Now:       func() time.Time { return testDay },
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &client{t: t, base: ts.URL, http: &http.Client{Jar: jar}}, db
}

func (c *client) do(method, path string, body any, out any) int {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, c.base+path, &buf)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	res, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer res.Body.Close()
	assert.Equal(c.t, "application/json; charset=utf-8", res.Header.Get("Content-Type"))
	if out != nil {
		require.NoError(c.t, json.NewDecoder(res.Body).Decode(out))
	}
	return res.StatusCode
}

func TestHealthAndPalette(t *testing.T) {
	c, _ := newTestServer(t)

	var health map[string]bool
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/health", nil, &health))
	assert.True(t, health["ok"])

	var pal paletteRes
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/palette", nil, &pal))
	assert.Equal(t, 4, pal.PegCount)
	assert.Equal(t, 10, pal.TryCount)
	require.Len(t, pal.Symbols, 4)
	assert.Equal(t, "R", pal.Symbols[0].Symbol)
	assert.Equal(t, "red", pal.Symbols[0].Colour)

	var nf map[string]string
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/nope", nil, &nf))
	assert.Equal(t, "not_found", nf["error"])
}

func TestGameFlow(t *testing.T) {
	c, _ := newTestServer(t)

	var ng newGameRes
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/game/new", newGameReq{}, &ng))
	require.NotEmpty(t, ng.GameID)
	assert.Equal(t, 4, ng.PegCount)

	var gr guessRes
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/game/guess", guessReq{GameID: ng.GameID, Guess: "rryy"}, &gr))
	assert.Equal(t, 2, gr.Exact)
	assert.Equal(t, 0, gr.Partial)
	assert.Equal(t, game.StatePlaying, gr.State)
	assert.Equal(t, 1, gr.Attempts)
	assert.Equal(t, 9, gr.Remaining)
	assert.Empty(t, gr.Secret)

	var bad map[string]string
	require.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/game/guess", guessReq{GameID: ng.GameID, Guess: "RRX"}, &bad))
	assert.Equal(t, "symbol", bad["reason"])
	require.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/game/guess", guessReq{GameID: ng.GameID, Guess: "RRR"}, &bad))
	assert.Equal(t, "length", bad["reason"])

	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/game/guess", guessReq{GameID: ng.GameID, Guess: "RRRR"}, &gr))
	assert.Equal(t, game.StateWon, gr.State)
	assert.Equal(t, 2, gr.Attempts)
	assert.Equal(t, "RRRR", gr.Secret)

	require.Equal(t, http.StatusConflict, c.do(http.MethodPost, "/game/guess", guessReq{GameID: ng.GameID, Guess: "RRRR"}, &bad))

	var view gameView
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/game/"+ng.GameID, nil, &view))
	assert.Equal(t, game.StateWon, view.State)
	require.Len(t, view.History, 2)
	assert.Equal(t, attemptView{Guess: "RRYY", Exact: 2}, view.History[0])
	assert.Equal(t, "RRRR", view.Secret)
}

func TestGameErrors(t *testing.T) {
	c, _ := newTestServer(t)
	var out map[string]string

	assert.Equal(t, http.StatusNotFound, c.do(http.MethodPost, "/game/guess", guessReq{GameID: "missing", Guess: "RRRR"}, &out))
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/game/missing", nil, &out))
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/game/new", newGameReq{PegCount: 50}, &out))
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/game/new", newGameReq{PegCount: -1}, &out))
	assert.Equal(t, "peg_count", out["reason"])

	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/game/guess", "not an object", &out))
	assert.Equal(t, "bad_json", out["error"])
}

func TestCustomBoardSize(t *testing.T) {
	c, _ := newTestServer(t)
	var ng newGameRes
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/game/new", newGameReq{PegCount: 6, TryCount: 1}, &ng))
	assert.Equal(t, 6, ng.PegCount)

	var gr guessRes
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/game/guess", guessReq{GameID: ng.GameID, Guess: "BBBBBB"}, &gr))
	assert.Equal(t, game.StateLost, gr.State)
	assert.Equal(t, "RRRRRR", gr.Secret)
}

func TestAuthAndStats(t *testing.T) {
	c, _ := newTestServer(t)
	var out map[string]any

	// a guest game before signing up is claimed by the new account
	var ng newGameRes
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/game/new", nil, &ng))

	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/auth/me", nil, &out))
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/auth/signup", credentials{Username: "alice", Password: "password1"}, &out))
	assert.Equal(t, "alice", out["username"])
	assert.Equal(t, http.StatusConflict, c.do(http.MethodPost, "/auth/signup", credentials{Username: "ALICE", Password: "password1"}, &out))

	var me auth.User
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/auth/me", nil, &me))
	assert.Equal(t, "alice", me.Username)

	var gr guessRes
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/game/guess", guessReq{GameID: ng.GameID, Guess: "RRRR"}, &gr))
	require.Equal(t, game.StateWon, gr.State)

	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/stats/me", nil, &out))
	assert.EqualValues(t, 1, out["gamesPlayed"])
	assert.EqualValues(t, 1, out["wins"])
	assert.EqualValues(t, 1, out["bestAttempts"])

	var games []storage.GameRow
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/games/mine", nil, &games))
	require.Len(t, games, 1)
	assert.Equal(t, ng.GameID, games[0].ID)
	assert.Equal(t, "won", games[0].Status)

	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/auth/logout", nil, &out))
	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/auth/me", nil, &out))

	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodPost, "/auth/login", credentials{Username: "alice", Password: "wrong-pass"}, &out))
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/auth/login", credentials{Username: "alice", Password: "password1"}, &out))
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/auth/me", nil, &me))
}

func TestDailyFlow(t *testing.T) {
	c, _ := newTestServer(t)
	secret, err := daily.Secret(testDay, "salt", game.DefaultPalette(), 4)
	require.NoError(t, err)

	var nr dailyNewRes
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/daily/new", nil, &nr))
	require.NotEmpty(t, nr.GameID)
	assert.Equal(t, "2026-10-15", nr.Date)
	assert.False(t, nr.Played)

	var again dailyNewRes
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/daily/new", nil, &again))
	assert.Equal(t, nr.GameID, again.GameID)

	var out map[string]string
	assert.Equal(t, http.StatusConflict, c.do(http.MethodPost, "/daily/guess", dailyGuessReq{GameID: "other", Guess: "RRRR"}, &out))

	var gr dailyGuessRes
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/daily/guess", dailyGuessReq{GameID: nr.GameID, Guess: secret.String()}, &gr))
	assert.Equal(t, game.StateWon, gr.State)
	assert.Equal(t, 4, gr.Exact)
	assert.Equal(t, secret.String(), gr.Secret)

	var lb lbRes
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/daily/leaderboard", nil, &lb))
	assert.Equal(t, "2026-10-15", lb.Date)
	require.Len(t, lb.Top, 1)
	assert.Equal(t, 1, lb.Top[0].Attempts)

	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/daily/new", nil, &again))
	assert.True(t, again.Played)
	assert.Empty(t, again.GameID)

	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodGet, "/daily/leaderboard?date=yesterday", nil, &out))
}

func TestServerWithoutDatabase(t *testing.T) {
	srv := New(Options{Store: store.NewMemoryStore(), Source: fixed(1)})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()
	c := &client{t: t, base: ts.URL, http: ts.Client()}

	var ng newGameRes
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/game/new", nil, &ng))
	var gr guessRes
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/game/guess", guessReq{GameID: ng.GameID, Guess: "YYYY"}, &gr))
	assert.Equal(t, game.StateWon, gr.State)

	var lb lbRes
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/daily/leaderboard", nil, &lb))
	assert.Empty(t, lb.Top)

	var out map[string]string
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodPost, "/auth/login", credentials{}, &out))
}

func TestSweepEvictsIdleGames(t *testing.T) {
	var clock atomic.Int64
	clock.Store(testDay.UnixNano())
	now := func() time.Time { return time.Unix(0, clock.Load()).UTC() }

	srv := New(Options{Store: store.NewMemoryStoreWithClock(now), Source: fixed(0), Now: now})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	c := &client{t: t, base: ts.URL, http: &http.Client{Jar: jar}}

	var finished, fresh newGameRes
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/game/new", nil, &finished))
	var gr guessRes
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/game/guess", guessReq{GameID: finished.GameID, Guess: "RRRR"}, &gr))
	require.Equal(t, game.StateWon, gr.State)

	var nr dailyNewRes
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/daily/new", nil, &nr))

	// a finished game stays readable until it goes idle
	srv.Sweep(context.Background(), time.Hour)
	var view gameView
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/game/"+finished.GameID, nil, &view))
	assert.Equal(t, game.StateWon, view.State)

	clock.Add(int64(2 * time.Hour))
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/game/new", nil, &fresh))
	srv.Sweep(context.Background(), time.Hour)

	var out map[string]string
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/game/"+finished.GameID, nil, &out))
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodPost, "/game/guess", guessReq{GameID: finished.GameID, Guess: "RRRR"}, &out))
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/game/"+fresh.GameID, nil, &view))

	srv.daily.mu.Lock()
	assert.Len(t, srv.daily.sessions, 1)
	srv.daily.mu.Unlock()

	clock.Add(int64(24 * time.Hour))
	srv.Sweep(context.Background(), 48*time.Hour)
	srv.daily.mu.Lock()
	assert.Empty(t, srv.daily.sessions)
	srv.daily.mu.Unlock()
	assert.Equal(t, http.StatusConflict, c.do(http.MethodPost, "/daily/guess", dailyGuessReq{GameID: nr.GameID, Guess: "RRRR"}, &out))
}

func TestRunSweeperStopsWithContext(t *testing.T) {
	srv := New(Options{Store: store.NewMemoryStore(), Source: fixed(0)})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		srv.RunSweeper(ctx, time.Millisecond, time.Hour)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}

func TestNewGameAcceptsEmptyBodyOfUnknownLength(t *testing.T) {
	srv := New(Options{Store: store.NewMemoryStore(), Source: fixed(0)})

	req := httptest.NewRequest(http.MethodPost, "/game/new", io.NopCloser(strings.NewReader("")))
	req.ContentLength = -1
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var ng newGameRes
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&ng))
	assert.Equal(t, 4, ng.PegCount)

	req = httptest.NewRequest(http.MethodPost, "/game/new", io.NopCloser(strings.NewReader("{oops")))
	req.ContentLength = -1
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
