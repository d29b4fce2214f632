package storage

import (
	"context"
	"time"
)

// Owner identifies who a game belongs to: a signed-in user or an anonymous cookie.
type Owner struct {
	UserID      string
	AnonymousID string
}

func (o Owner) clause() (string, any) {
	if o.UserID != "" {
		return `user_id=?`, o.UserID
	}
	return `anonymous_id=?`, o.AnonymousID
}

// GameRow is a summary of one persisted game. The secret is never stored.
type GameRow struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	Attempts   int    `json:"attempts"`
	PegCount   int    `json:"pegCount"`
	TryCount   int    `json:"tryCount"`
	StartedAt  string `json:"startedAt"`
	FinishedAt string `json:"finishedAt,omitempty"`
}

// InsertGame records the start of a game.
func (d *DB) InsertGame(ctx context.Context, id string, owner Owner, pegCount, tryCount int) error {
	now := time.Now().UTC().Format(time.RFC3339)
	var user, anon any
	if owner.UserID != "" {
		user = owner.UserID
	} else {
		anon = owner.AnonymousID
	}
	_, err := d.SQL.ExecContext(ctx,
		`INSERT INTO games (id, user_id, anonymous_id, started_at, status, attempts, peg_count, try_count)
		 VALUES (?,?,?,?,'playing',0,?,?)`, id, user, anon, now, pegCount, tryCount)
	return err
}

// RecordAttempt stores the attempt count and, once the game is over, its
// final status. Finishing a signed-in user's game also bumps their stats.
// Everything happens in one transaction.
func (d *DB) RecordAttempt(ctx context.Context, id string, owner Owner, attempts int, status string) error {
	tx, err := d.SQL.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	where, arg := owner.clause()
	if _, err := tx.ExecContext(ctx, `UPDATE games SET attempts=?, status=? WHERE id=? AND `+where,
		attempts, status, id, arg); err != nil {
		return err
	}
	if status != "playing" {
		if _, err := tx.ExecContext(ctx, `UPDATE games SET finished_at=? WHERE id=? AND `+where,
			time.Now().UTC().Format(time.RFC3339), id, arg); err != nil {
			return err
		}
		if owner.UserID != "" {
			if err := bumpUserStats(ctx, tx, owner.UserID, status == "won", attempts); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

// ListGames returns a user's most recent games, newest first.
func (d *DB) ListGames(ctx context.Context, userID string, limit int) ([]GameRow, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.SQL.QueryContext(ctx, `SELECT id, status, attempts, peg_count, try_count, started_at, COALESCE(finished_at,'')
	                         FROM games WHERE user_id=? ORDER BY started_at DESC, rowid DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []GameRow{}
	for rows.Next() {
		var g GameRow
		if err := rows.Scan(&g.ID, &g.Status, &g.Attempts, &g.PegCount, &g.TryCount, &g.StartedAt, &g.FinishedAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// ClaimAnonGames transfers anonymous games to a user account after sign-in.
func (d *DB) ClaimAnonGames(ctx context.Context, anonID, userID string) error {
	if anonID == "" || userID == "" {
		return nil
	}
	_, err := d.SQL.ExecContext(ctx, `UPDATE games SET user_id=?, anonymous_id=NULL WHERE anonymous_id=?`, userID, anonID)
	return err
}
