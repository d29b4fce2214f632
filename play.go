package main

import (
	"errors"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/mastermind/internal/console"
	"github.com/robalobadob/mastermind/internal/palette"
	"github.com/robalobadob/mastermind/internal/storage"
)

var playFlags struct {
	lenient  bool
	reveal   bool
	noColour bool
	noRecord bool
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in the terminal",
	Long: `Play Mastermind in the terminal.

Enter each guess as a row of palette symbols, e.g. RYGB. Type "quit" to
give up and see the code.`,
	RunE: runPlay,
}

func init() {
	f := playCmd.Flags()
	f.BoolVar(&playFlags.lenient, "lenient", false, "ignore characters outside the palette instead of rejecting the guess")
	f.BoolVar(&playFlags.reveal, "reveal", false, "show the secret when each game starts")
	f.BoolVar(&playFlags.noColour, "no-colour", false, "plain output without ANSI colours")
	f.BoolVar(&playFlags.noRecord, "no-record", false, "do not keep player records in the database")
}

func runPlay(cmd *cobra.Command, args []string) error {
	setupLogging(true)

	pal, err := palette.Load(cfg.PaletteFile)
	if err != nil {
		return err
	}
	opts := console.Options{
		In:       cmd.InOrStdin(),
		Out:      cmd.OutOrStdout(),
		Palette:  pal,
		PegCount: cfg.PegCount,
		TryCount: cfg.TryCount,
		Lenient:  playFlags.lenient,
		Reveal:   playFlags.reveal,
		Colour:   !playFlags.noColour && os.Getenv("NO_COLOR") == "",
	}
	if !playFlags.noRecord {
		db, err := storage.Open(cmd.Context(), cfg.DBPath)
		if err != nil {
			log.Warn().Err(err).Msg("player records disabled")
		} else {
			defer db.Close()
			opts.Recorder = db
		}
	}

	g, err := console.New(opts)
	if err != nil {
		return err
	}
	err = g.Run(cmd.Context())
	if errors.Is(err, console.ErrQuit) || errors.Is(err, io.ErrUnexpectedEOF) {
		return nil
	}
	return err
}
