package game

import (
	"github.com/google/uuid"
)

// Options configures a Session. Zero values fall back to the defaults.
type Options struct {
	Palette  Palette
	PegCount int
	TryCount int
}

func (o Options) withDefaults() (Options, error) {
	if o.Palette.Len() == 0 {
		o.Palette = DefaultPalette()
	}
	if o.PegCount == 0 {
		o.PegCount = DefaultPegCount
	}
	if o.TryCount == 0 {
		o.TryCount = DefaultTryCount
	}
	if o.PegCount < 0 {
		return o, &InputError{Reason: ReasonPegs, Got: o.PegCount}
	}
	if o.TryCount < 0 {
		return o, &InputError{Reason: ReasonTries, Got: o.TryCount}
	}
	return o, nil
}

// Session holds the state of one player's game: the secret, the attempt
// counter and the scored history. It is owned by its caller and is not
// safe for concurrent use.
type Session struct {
	ID       string
	Palette  Palette
	PegCount int
	TryCount int

	src     Source
	secret  Sequence
	history []Attempt
	state   State
}

// NewSession validates opts and starts the first game.
// A nil src means CryptoSource.
func NewSession(opts Options, src Source) (*Session, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}
	if src == nil {
		src = CryptoSource{}
	}
	s := &Session{
		ID:       uuid.NewString(),
		Palette:  opts.Palette,
		PegCount: opts.PegCount,
		TryCount: opts.TryCount,
		src:      src,
	}
	if err := s.NewGame(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewGame draws a fresh secret and resets the counter and history.
func (s *Session) NewGame() error {
	secret, err := Generate(s.src, s.Palette, s.PegCount)
	if err != nil {
		return err
	}
	s.reset(secret)
	return nil
}

// NewGameWithSecret restarts the session against a caller-supplied secret,
// e.g. a deterministic daily code.
func (s *Session) NewGameWithSecret(secret Sequence) error {
	if err := s.Palette.Validate(secret, s.PegCount); err != nil {
		return err
	}
	s.reset(append(Sequence(nil), secret...))
	return nil
}

func (s *Session) reset(secret Sequence) {
	s.secret = secret
	s.history = s.history[:0]
	s.state = StatePlaying
}

// SubmitGuess validates and scores a guess, advancing the attempt counter.
//
// Transitions:
//   - Guess equals the secret → won.
//   - Attempts reach TryCount → lost.
//
// Rejected guesses (ErrGameOver, *InputError) leave the session untouched.
func (s *Session) SubmitGuess(guess Sequence) (Score, State, error) {
	if s.state.Finished() {
		return Score{}, s.state, ErrGameOver
	}
	sc, err := s.Palette.Score(s.secret, guess)
	if err != nil {
		return Score{}, s.state, err
	}
	s.history = append(s.history, Attempt{Guess: append(Sequence(nil), guess...), Score: sc})

	switch {
	case guess.Equal(s.secret):
		s.state = StateWon
	case len(s.history) >= s.TryCount:
		s.state = StateLost
	}
	return sc, s.state, nil
}

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Attempts is the number of scored guesses in the current game.
func (s *Session) Attempts() int { return len(s.history) }

// Remaining is the number of guesses left before the game is lost.
func (s *Session) Remaining() int { return s.TryCount - len(s.history) }

// History returns a copy of the scored guesses, oldest first.
func (s *Session) History() []Attempt {
	out := make([]Attempt, len(s.history))
	copy(out, s.history)
	return out
}

// Secret returns a copy of the current secret. Revealing it is up to the caller.
func (s *Session) Secret() Sequence {
	return append(Sequence(nil), s.secret...)
}
