// internal/game/engine.go
//
// Core engine: secret generation and guess scoring.
// Responsibilities:
//   - Draw secrets uniformly, with replacement, from a palette.
//   - Score guesses with the standard Mastermind rule (exact pegs are removed
//     before colour-only pegs are counted).
//   - Reject malformed guesses with an *InputError.
//
// Notes:
//   - Both operations are pure apart from the injected Source.
//   - Session (session.go) wraps them with the attempt counter.

package game

import (
	"crypto/rand"
	"math/big"
)

// Source yields uniform integers in [0, n).
// *math/rand/v2.Rand satisfies it; CryptoSource is the production default.
type Source interface {
	IntN(n int) int
}

// CryptoSource draws from crypto/rand.
type CryptoSource struct{}

// IntN returns a uniform value in [0, n). It panics if n <= 0.
func (CryptoSource) IntN(n int) int {
	if n <= 0 {
		panic("game: CryptoSource.IntN called with n <= 0")
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("game: crypto/rand failed: " + err.Error())
	}
	return int(v.Int64())
}

// Generate draws pegCount symbols independently and uniformly from p.
func Generate(src Source, p Palette, pegCount int) (Sequence, error) {
	if pegCount <= 0 {
		return nil, &InputError{Reason: ReasonPegs, Got: pegCount}
	}
	if p.Len() == 0 {
		return nil, &InputError{Reason: ReasonPalette, Msg: "palette is empty"}
	}
	if src == nil {
		src = CryptoSource{}
	}
	seq := make(Sequence, pegCount)
	for i := range seq {
		seq[i] = p.symbols[src.IntN(p.Len())]
	}
	return seq, nil
}

// Score compares guess against secret.
//
// Pass 1:
//   - Count equal positions as exact.
//   - Tally symbols of the non-exact positions, one tally per side.
//
// Pass 2:
//   - For every symbol in both tallies add min(guess, secret) to partial.
//
// Exact pegs never contribute to partial, so Exact+Partial <= len(secret).
// The result is symmetric in its arguments.
func (p Palette) Score(secret, guess Sequence) (Score, error) {
	if err := p.Validate(secret, len(secret)); err != nil {
		return Score{}, err
	}
	if err := p.Validate(guess, len(secret)); err != nil {
		return Score{}, err
	}
	return score(secret, guess), nil
}

func score(secret, guess Sequence) Score {
	var out Score
	secretLeft := make(map[Symbol]int, len(secret))
	guessLeft := make(map[Symbol]int, len(guess))

	for i := range secret {
		if secret[i] == guess[i] {
			out.Exact++
			continue
		}
		secretLeft[secret[i]]++
		guessLeft[guess[i]]++
	}
	for sym, g := range guessLeft {
		if s, ok := secretLeft[sym]; ok {
			out.Partial += min(g, s)
		}
	}
	return out
}
