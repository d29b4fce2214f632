package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// User matches the users table shape.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	GamesPlayed  int       `json:"gamesPlayed"`
	Wins         int       `json:"wins"`
	Streak       int       `json:"streak"`
	BestAttempts int       `json:"bestAttempts"`
}

// CreateUser inserts a user whose password is already hashed.
// Usernames are unique case-insensitively.
func (d *DB) CreateUser(ctx context.Context, id, username, passwordHash string) (*User, error) {
	var exists int
	err := d.SQL.QueryRowContext(ctx, `SELECT 1 FROM users WHERE lower(username)=lower(?)`, username).Scan(&exists)
	if err == nil {
		return nil, ErrUsernameTaken
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	now := time.Now().UTC().Truncate(time.Second)
	if _, err := d.SQL.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, created_at) VALUES (?,?,?,?)`,
		id, username, passwordHash, now.Format(time.RFC3339)); err != nil {
		return nil, err
	}
	return &User{ID: id, Username: username, PasswordHash: passwordHash, CreatedAt: now}, nil
}

// FindUserByUsername loads a user by case-insensitive name.
func (d *DB) FindUserByUsername(ctx context.Context, username string) (*User, error) {
	row := d.SQL.QueryRowContext(ctx, `SELECT id, username, password_hash, created_at, games_played, wins, streak, best_attempts
	                      FROM users WHERE lower(username)=lower(?)`, username)
	return scanUser(row)
}

// FindUserByID loads a user by id.
func (d *DB) FindUserByID(ctx context.Context, id string) (*User, error) {
	row := d.SQL.QueryRowContext(ctx, `SELECT id, username, password_hash, created_at, games_played, wins, streak, best_attempts
	                      FROM users WHERE id=?`, id)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*User, error) {
	var u User
	var created string
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &created, &u.GamesPlayed, &u.Wins, &u.Streak, &u.BestAttempts); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	u.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return &u, nil
}

// bumpUserStats increments games played and updates wins, streak and the
// best (lowest) winning attempt count within tx.
func bumpUserStats(ctx context.Context, tx *sql.Tx, userID string, won bool, attempts int) error {
	var gp, wins, streak, best int
	row := tx.QueryRowContext(ctx, `SELECT games_played, wins, streak, best_attempts FROM users WHERE id=?`, userID)
	if err := row.Scan(&gp, &wins, &streak, &best); err != nil {
		return err
	}
	gp++
	if won {
		wins++
		streak++
		if best == 0 || attempts < best {
			best = attempts
		}
	} else {
		streak = 0
	}
	_, err := tx.ExecContext(ctx, `UPDATE users SET games_played=?, wins=?, streak=?, best_attempts=? WHERE id=?`,
		gp, wins, streak, best, userID)
	return err
}
