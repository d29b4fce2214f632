package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/mastermind/internal/auth"
	"github.com/robalobadob/mastermind/internal/httpserver"
	"github.com/robalobadob/mastermind/internal/palette"
	"github.com/robalobadob/mastermind/internal/storage"
	"github.com/robalobadob/mastermind/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON game API",
	RunE:  runServe,
}

var servePort string

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "listen port (default PORT or 5175)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if servePort != "" {
		cfg.Port = servePort
	}
	setupLogging(false)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pal, err := palette.Load(cfg.PaletteFile)
	if err != nil {
		return err
	}
	db, err := storage.Open(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	srv := httpserver.New(httpserver.Options{
		Store:   store.NewMemoryStore(),
		DB:      db,
		Palette: pal,
		Auth: auth.Config{
			Secret:     cfg.JWTSecret,
			ExpiryDays: cfg.JWTExpiresDays,
			CookieName: cfg.CookieName,
			Secure:     cfg.Production,
		},
		ClientOrigin: cfg.ClientOrigin,
		PegCount:     cfg.PegCount,
		TryCount:     cfg.TryCount,
		DailySalt:    cfg.DailySalt,
	})

	go srv.RunSweeper(ctx, max(min(cfg.SessionTTL/4, 10*time.Minute), time.Second), cfg.SessionTTL)

	hs := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- hs.ListenAndServe() }()
	log.Info().Str("port", cfg.Port).Str("palette", pal.Describe()).Msg("starting mastermind server")

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return hs.Shutdown(shutdownCtx)
}
