// internal/config/config.go
//
// Environment-driven configuration.
// .env files are loaded by main (godotenv) before Load runs; command-line
// flags then override individual fields.
//
// Environment variables:
//   PORT, LOG_LEVEL, DB_PATH, CLIENT_ORIGIN,
//   JWT_SECRET, JWT_EXPIRES_DAYS, COOKIE_NAME, APP_ENV,
//   DAILY_SALT, PEG_COUNT, TRY_COUNT, PALETTE_FILE, SESSION_TTL

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/robalobadob/mastermind/internal/game"
)

// Config is the full runtime configuration.
type Config struct {
	Port         string
	LogLevel     string
	DBPath       string
	ClientOrigin string

	JWTSecret      string
	JWTExpiresDays int
	CookieName     string
	Production     bool

	DailySalt   string
	PegCount    int
	TryCount    int
	PaletteFile string

	// SessionTTL is how long an untouched game stays in memory.
	SessionTTL time.Duration
}

const (
	devJWTSecret = "dev_secret_change_me"
	devDailySalt = "local_dev_salt"
)

// Load reads the environment, applying defaults for unset keys.
func Load() (Config, error) {
	c := Config{
		Port:           getEnv("PORT", "5175"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		DBPath:         getEnv("DB_PATH", "./data/mastermind.db"),
		ClientOrigin:   getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		JWTSecret:      getEnv("JWT_SECRET", devJWTSecret),
		CookieName:     getEnv("COOKIE_NAME", "mastermind_token"),
		Production:     os.Getenv("APP_ENV") == "production",
		DailySalt:      getEnv("DAILY_SALT", devDailySalt),
		PaletteFile:    os.Getenv("PALETTE_FILE"),
		JWTExpiresDays: 14,
		PegCount:       game.DefaultPegCount,
		TryCount:       game.DefaultTryCount,
		SessionTTL:     24 * time.Hour,
	}
	var err error
	if c.JWTExpiresDays, err = envInt("JWT_EXPIRES_DAYS", c.JWTExpiresDays); err != nil {
		return c, err
	}
	if c.PegCount, err = envInt("PEG_COUNT", c.PegCount); err != nil {
		return c, err
	}
	if c.TryCount, err = envInt("TRY_COUNT", c.TryCount); err != nil {
		return c, err
	}
	if v := os.Getenv("SESSION_TTL"); v != "" {
		if c.SessionTTL, err = time.ParseDuration(v); err != nil {
			return c, fmt.Errorf("config: SESSION_TTL: %w", err)
		}
	}
	return c, c.Validate()
}

// Validate rejects settings the game cannot run with.
func (c Config) Validate() error {
	if c.PegCount <= 0 {
		return fmt.Errorf("config: PEG_COUNT must be positive, got %d", c.PegCount)
	}
	if c.TryCount <= 0 {
		return fmt.Errorf("config: TRY_COUNT must be positive, got %d", c.TryCount)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("config: SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	if c.Production && c.JWTSecret == devJWTSecret {
		return fmt.Errorf("config: JWT_SECRET must be set in production")
	}
	if c.Production && c.DailySalt == devDailySalt {
		return fmt.Errorf("config: DAILY_SALT must be set in production")
	}
	return nil
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", k, err)
	}
	return n, nil
}
