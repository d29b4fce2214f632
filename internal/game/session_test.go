package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T, tries int) *Session {
	t.Helper()
	s, err := NewSession(Options{TryCount: tries}, &scripted{idx: []int{0, 1, 2, 3}})
	require.NoError(t, err)
	require.Equal(t, "RYGB", s.Secret().String())
	return s
}

func TestNewSessionDefaults(t *testing.T) {
	s, err := NewSession(Options{}, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, DefaultPegCount, s.PegCount)
	assert.Equal(t, DefaultTryCount, s.TryCount)
	assert.Equal(t, 4, s.Palette.Len())
	assert.Equal(t, StatePlaying, s.State())
	assert.Equal(t, 0, s.Attempts())
	assert.Equal(t, DefaultTryCount, s.Remaining())
	assert.Len(t, s.Secret(), DefaultPegCount)
}

func TestNewSessionRejectsNegativeCounts(t *testing.T) {
	_, err := NewSession(Options{PegCount: -1}, nil)
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = NewSession(Options{TryCount: -3}, nil)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestSubmitGuessWins(t *testing.T) {
	s := newTestSession(t, 10)

	sc, state, err := s.SubmitGuess(seq("RRYG"))
	require.NoError(t, err)
	assert.Equal(t, Score{Exact: 1, Partial: 2}, sc)
	assert.Equal(t, StatePlaying, state)

	sc, state, err = s.SubmitGuess(seq("RYGB"))
	require.NoError(t, err)
	assert.Equal(t, Score{Exact: 4}, sc)
	assert.Equal(t, StateWon, state)
	assert.Equal(t, 2, s.Attempts())

	_, _, err = s.SubmitGuess(seq("RYGB"))
	require.ErrorIs(t, err, ErrGameOver)
	assert.Equal(t, 2, s.Attempts())
}

func TestSubmitGuessLosesWhenTriesRunOut(t *testing.T) {
	s := newTestSession(t, 3)
	for i := 0; i < 2; i++ {
		_, state, err := s.SubmitGuess(seq("BBBB"))
		require.NoError(t, err)
		assert.Equal(t, StatePlaying, state)
	}
	_, state, err := s.SubmitGuess(seq("BBBB"))
	require.NoError(t, err)
	assert.Equal(t, StateLost, state)
	assert.Equal(t, 0, s.Remaining())
	assert.True(t, s.State().Finished())
}

func TestSubmitGuessWinOnLastTry(t *testing.T) {
	s := newTestSession(t, 1)
	_, state, err := s.SubmitGuess(seq("RYGB"))
	require.NoError(t, err)
	assert.Equal(t, StateWon, state)
}

func TestInvalidGuessDoesNotCountAsAttempt(t *testing.T) {
	s := newTestSession(t, 10)

	_, _, err := s.SubmitGuess(seq("RYG"))
	require.ErrorIs(t, err, ErrInvalidInput)
	_, _, err = s.SubmitGuess(seq("RYGX"))
	require.ErrorIs(t, err, ErrInvalidInput)

	assert.Equal(t, 0, s.Attempts())
	assert.Equal(t, StatePlaying, s.State())
}

func TestNewGameResets(t *testing.T) {
	s := newTestSession(t, 2)
	_, _, _ = s.SubmitGuess(seq("BBBB"))
	_, _, _ = s.SubmitGuess(seq("BBBB"))
	require.Equal(t, StateLost, s.State())

	require.NoError(t, s.NewGame())
	assert.Equal(t, StatePlaying, s.State())
	assert.Equal(t, 0, s.Attempts())
	assert.Empty(t, s.History())
}

func TestNewGameWithSecret(t *testing.T) {
	s := newTestSession(t, 10)
	require.NoError(t, s.NewGameWithSecret(seq("GGBB")))
	assert.Equal(t, "GGBB", s.Secret().String())

	require.ErrorIs(t, s.NewGameWithSecret(seq("GGB")), ErrInvalidInput)
	require.ErrorIs(t, s.NewGameWithSecret(seq("GGBX")), ErrInvalidInput)
	assert.Equal(t, "GGBB", s.Secret().String())
}

func TestHistoryAndSecretAreCopies(t *testing.T) {
	s := newTestSession(t, 10)
	guess := seq("RRYG")
	_, _, err := s.SubmitGuess(guess)
	require.NoError(t, err)
	guess[0] = 'B'

	h := s.History()
	require.Len(t, h, 1)
	assert.Equal(t, "RRYG", h[0].Guess.String())
	h[0].Score.Exact = 99
	assert.Equal(t, 1, s.History()[0].Score.Exact)

	sec := s.Secret()
	sec[0] = 'B'
	assert.Equal(t, "RYGB", s.Secret().String())
}
