// internal/game/types.go
//
// Core type definitions for the Mastermind engine.
// Defines:
//   - Symbol/Sequence: abstract pegs and ordered rows of pegs.
//   - Palette: the ordered, immutable set of symbols a game draws from.
//   - Score: exact/partial feedback for one guess.
//   - State: coarse session state (playing/won/lost).
//   - Attempt: one scored guess kept in the session history.

package game

import "strings"

// Symbol is one abstract peg value. Colours and labels are attached by the
// presentation layer, never here.
type Symbol rune

// Sequence is an ordered row of pegs (a secret or a guess).
type Sequence []Symbol

// String renders the sequence as its symbols concatenated, e.g. "RYGB".
func (s Sequence) String() string {
	var b strings.Builder
	for _, sym := range s {
		b.WriteRune(rune(sym))
	}
	return b.String()
}

// Equal reports whether two sequences carry the same symbols in the same order.
func (s Sequence) Equal(o Sequence) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	return true
}

// Score is the feedback for a single guess.
//   - Exact:   pegs with the right symbol in the right position ("red").
//   - Partial: remaining pegs whose symbol occurs elsewhere in the secret ("white").
type Score struct {
	Exact   int `json:"exact"`
	Partial int `json:"partial"`
}

// State is the coarse lifecycle of a session.
type State string

const (
	StatePlaying State = "playing"
	StateWon     State = "won"
	StateLost    State = "lost"
)

// Finished reports whether no more guesses are accepted.
func (s State) Finished() bool { return s == StateWon || s == StateLost }

// Attempt records one scored guess.
type Attempt struct {
	Guess Sequence `json:"guess"`
	Score Score    `json:"score"`
}

const (
	DefaultPegCount = 4
	DefaultTryCount = 10
)
