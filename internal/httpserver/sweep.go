package httpserver

import (
	"context"
	"time"
)

// Sweep evicts games idle for longer than ttl and daily sessions left over
// from earlier dates. Finished games stay readable until they go idle.
func (s *Server) Sweep(ctx context.Context, ttl time.Duration) {
	games, err := s.opts.Store.Prune(ctx, s.opts.Now().Add(-ttl))
	if err != nil {
		s.opts.Logger.Warn().Err(err).Msg("prune sessions")
	}
	days := s.daily.prune()
	if games > 0 || days > 0 {
		s.opts.Logger.Debug().Int("games", games).Int("daily", days).Msg("swept sessions")
	}
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *Server) RunSweeper(ctx context.Context, interval, ttl time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Sweep(ctx, ttl)
		}
	}
}
