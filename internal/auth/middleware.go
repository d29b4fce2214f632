package auth

import (
	"context"
	"encoding/json"
	"net/http"
)

type ctxUserKey struct{}

// Lookup confirms that a token's user still exists.
type Lookup func(ctx context.Context, id string) error

// WithUser returns ctx carrying u.
func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, ctxUserKey{}, u)
}

// CurrentUser returns the user put in the context by the middleware.
func CurrentUser(ctx context.Context) (*User, error) {
	u, _ := ctx.Value(ctxUserKey{}).(*User)
	if u == nil {
		return nil, ErrNoUser
	}
	return u, nil
}

// Optional decorates requests with the user when a valid token is present.
// It never rejects; guests pass through.
func (c Config) Optional(exists Lookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tok := c.BearerOrCookie(r); tok != "" {
				if u, err := c.Parse(tok); err == nil && exists(r.Context(), u.ID) == nil {
					r = r.WithContext(WithUser(r.Context(), u))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Require enforces a valid token whose user still exists.
func (c Config) Require(exists Lookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := c.BearerOrCookie(r)
			if tok == "" {
				unauthorized(w, "Unauthorized")
				return
			}
			u, err := c.Parse(tok)
			if err != nil || exists(r.Context(), u.ID) != nil {
				unauthorized(w, "Invalid token")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
