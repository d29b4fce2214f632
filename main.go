package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/mastermind/internal/config"
)

var (
	cfg     config.Config
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "mastermind",
	Short: "Mastermind code-breaking game",
	Long: `mastermind is a code-breaking game: guess the hidden row of coloured pegs.
Each guess is scored with red pegs (right colour, right place) and white
pegs (right colour, wrong place).

Run "mastermind play" for the terminal game or "mastermind serve" for the
JSON API.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(cmd); err != nil {
			return err
		}
		return cfg.Validate()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().IntVar(&cfg.PegCount, "pegs", 0, "pegs per row (default PEG_COUNT or 4)")
	rootCmd.PersistentFlags().IntVar(&cfg.TryCount, "tries", 0, "guesses per game (default TRY_COUNT or 10)")
	rootCmd.PersistentFlags().StringVar(&cfg.PaletteFile, "palette", "", "palette file of \"SYMBOL colour\" lines (default PALETTE_FILE)")
	rootCmd.PersistentFlags().StringVar(&cfg.DBPath, "db", "", "sqlite database path (default DB_PATH)")
	rootCmd.AddCommand(serveCmd, playCmd)
}

// loadConfig fills every flag the user left unset from the environment.
func loadConfig(cmd *cobra.Command) error {
	env, err := config.Load()
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if !flags.Changed("pegs") {
		cfg.PegCount = env.PegCount
	}
	if !flags.Changed("tries") {
		cfg.TryCount = env.TryCount
	}
	if !flags.Changed("palette") {
		cfg.PaletteFile = env.PaletteFile
	}
	if !flags.Changed("db") {
		cfg.DBPath = env.DBPath
	}
	cfg.Port = env.Port
	cfg.LogLevel = env.LogLevel
	cfg.ClientOrigin = env.ClientOrigin
	cfg.JWTSecret = env.JWTSecret
	cfg.JWTExpiresDays = env.JWTExpiresDays
	cfg.CookieName = env.CookieName
	cfg.Production = env.Production
	cfg.DailySalt = env.DailySalt
	cfg.SessionTTL = env.SessionTTL
	return nil
}

func setupLogging(console bool) {
	zerolog.TimeFieldFormat = time.RFC3339
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	if console {
		// keep stdout for the game itself
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func main() {
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
