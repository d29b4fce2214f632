package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"math/rand/v2"
	"time"

	"github.com/robalobadob/mastermind/internal/game"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Seed returns HMAC-SHA256(salt, YYYY-MM-DD) for the given day.
func Seed(date time.Time, salt string) [32]byte {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Source returns a deterministic generator for the day. Two calls with the
// same date and salt yield identical draws.
func Source(date time.Time, salt string) *rand.Rand {
	return rand.New(rand.NewChaCha8(Seed(date, salt)))
}

// Secret derives the day's code for a palette and peg count.
func Secret(date time.Time, salt string, p game.Palette, pegCount int) (game.Sequence, error) {
	return game.Generate(Source(date, salt), p, pegCount)
}
