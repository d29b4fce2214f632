package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Player is a console player's running record, keyed by name.
type Player struct {
	Name         string
	GamesPlayed  int
	Wins         int
	BestAttempts int // fewest attempts in a win; 0 until the first win
}

// RecordGame folds one finished console game into the player's record.
// It satisfies console.Recorder.
func (d *DB) RecordGame(ctx context.Context, name string, won bool, attempts int) (Player, error) {
	tx, err := d.SQL.BeginTx(ctx, nil)
	if err != nil {
		return Player{}, err
	}
	defer func() { _ = tx.Rollback() }()

	p := Player{Name: name}
	err = tx.QueryRowContext(ctx, `SELECT games_played, wins, best_attempts FROM players WHERE name=?`, name).
		Scan(&p.GamesPlayed, &p.Wins, &p.BestAttempts)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return Player{}, err
	}

	p.GamesPlayed++
	if won {
		p.Wins++
		if p.BestAttempts == 0 || attempts < p.BestAttempts {
			p.BestAttempts = attempts
		}
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO players (name, games_played, wins, best_attempts, updated_at) VALUES (?,?,?,?,?)
		ON CONFLICT(name) DO UPDATE SET games_played=excluded.games_played, wins=excluded.wins,
			best_attempts=excluded.best_attempts, updated_at=excluded.updated_at`,
		p.Name, p.GamesPlayed, p.Wins, p.BestAttempts, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return Player{}, err
	}
	return p, tx.Commit()
}

// FindPlayer loads a console player's record.
func (d *DB) FindPlayer(ctx context.Context, name string) (Player, error) {
	p := Player{Name: name}
	err := d.SQL.QueryRowContext(ctx, `SELECT games_played, wins, best_attempts FROM players WHERE name=?`, name).
		Scan(&p.GamesPlayed, &p.Wins, &p.BestAttempts)
	if errors.Is(err, sql.ErrNoRows) {
		return Player{}, ErrNotFound
	}
	return p, err
}
