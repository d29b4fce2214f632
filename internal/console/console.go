// internal/console/console.go
//
// Interactive terminal front-end.
// Responsibilities:
//   - Collect the player's name and guesses line by line.
//   - Drive a game.Session: score, render, check for the end of the game.
//   - Offer another round, and report each finished game to a Recorder.
//
// Input modes:
//   - strict (default): a malformed guess is reported and re-prompted; it
//     does not cost an attempt.
//   - lenient: characters outside the palette are dropped and the prompt
//     repeats silently until the row has the right length.

package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/TwiN/go-color"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mastermind/internal/game"
	"github.com/robalobadob/mastermind/internal/palette"
	"github.com/robalobadob/mastermind/internal/storage"
)

// ErrQuit is returned when the player leaves mid-game.
var ErrQuit = errors.New("player quit")

// Recorder keeps a per-player record of finished games.
type Recorder interface {
	FindPlayer(ctx context.Context, name string) (storage.Player, error)
	RecordGame(ctx context.Context, name string, won bool, attempts int) (storage.Player, error)
}

// Options configures a console game.
type Options struct {
	In       io.Reader
	Out      io.Writer
	Palette  *palette.Set
	PegCount int
	TryCount int
	Source   game.Source // nil → crypto source
	Recorder Recorder    // nil → results are not kept
	Lenient  bool
	Reveal   bool // print the secret when each game starts
	Colour   bool // ANSI-colour the pegs
}

var ansi = map[string]string{
	"red":    color.Red,
	"yellow": color.Yellow,
	"green":  color.Green,
	"blue":   color.Blue,
	"purple": color.Purple,
	"cyan":   color.Cyan,
	"gray":   color.Gray,
	"grey":   color.Gray,
	"white":  color.White,
}

// Game is one console sitting: a player, a session and a line reader.
type Game struct {
	opts    Options
	in      *bufio.Scanner
	out     io.Writer
	session *game.Session
	player  string
}

// New validates opts and prepares a session.
func New(opts Options) (*Game, error) {
	if opts.Palette == nil {
		opts.Palette = palette.Default()
	}
	s, err := game.NewSession(game.Options{
		Palette:  opts.Palette.Game(),
		PegCount: opts.PegCount,
		TryCount: opts.TryCount,
	}, opts.Source)
	if err != nil {
		return nil, err
	}
	return &Game{
		opts:    opts,
		in:      bufio.NewScanner(opts.In),
		out:     opts.Out,
		session: s,
	}, nil
}

// Run plays rounds until the player declines another one or input ends.
func (g *Game) Run(ctx context.Context) error {
	name, err := g.ask("Enter your name: ")
	if err != nil {
		return err
	}
	g.player = strings.TrimSpace(name)
	if g.player == "" {
		g.player = "player"
	}
	fmt.Fprintf(g.out, "I am %s\n", g.player)
	g.greet(ctx)

	for {
		if err := g.round(ctx); err != nil {
			return err
		}
		again, err := g.ask("Play again? [y/N]: ")
		if err != nil || !strings.HasPrefix(strings.ToLower(strings.TrimSpace(again)), "y") {
			fmt.Fprintln(g.out, "Bye!")
			return nil
		}
		if err := g.session.NewGame(); err != nil {
			return err
		}
	}
}

func (g *Game) round(ctx context.Context) error {
	s := g.session
	log.Debug().Str("session", s.ID).Int("pegs", s.PegCount).Int("tries", s.TryCount).Msg("new game")
	if g.opts.Reveal {
		fmt.Fprintf(g.out, "Game sequence: %s\n", g.render(s.Secret()))
	}

	for !s.State().Finished() {
		if err := ctx.Err(); err != nil {
			return err
		}
		guess, err := g.readGuess()
		if err != nil {
			return err
		}
		sc, state, err := s.SubmitGuess(guess)
		if err != nil {
			// readGuess already validated; anything here is a bug upstream
			return fmt.Errorf("submit guess: %w", err)
		}
		switch state {
		case game.StateWon:
			fmt.Fprintln(g.out, "Victory! You are great!")
			fmt.Fprintf(g.out, "Game combination: %s\n", g.render(s.Secret()))
			fmt.Fprintf(g.out, "Counts: %d\n", s.Attempts())
		case game.StateLost:
			fmt.Fprintf(g.out, "%s  Red: %d, white: %d\n", g.render(guess), sc.Exact, sc.Partial)
			fmt.Fprintln(g.out, "You have used all your attempts! Try again!")
			fmt.Fprintf(g.out, "Game combination: %s\n", g.render(s.Secret()))
		default:
			fmt.Fprintf(g.out, "%s  Red: %d, white: %d  (%d left)\n", g.render(guess), sc.Exact, sc.Partial, s.Remaining())
		}
	}

	won := s.State() == game.StateWon
	log.Debug().Str("session", s.ID).Bool("won", won).Int("attempts", s.Attempts()).Msg("game finished")
	if g.opts.Recorder != nil {
		p, err := g.opts.Recorder.RecordGame(ctx, g.player, won, s.Attempts())
		if err != nil {
			log.Warn().Err(err).Str("player", g.player).Msg("record game")
		} else if p.BestAttempts > 0 {
			fmt.Fprintf(g.out, "%s: %d wins in %d games, record %d attempts\n", p.Name, p.Wins, p.GamesPlayed, p.BestAttempts)
		}
	}
	return nil
}

// greet shows a returning player their record.
func (g *Game) greet(ctx context.Context) {
	if g.opts.Recorder == nil {
		return
	}
	p, err := g.opts.Recorder.FindPlayer(ctx, g.player)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		log.Warn().Err(err).Str("player", g.player).Msg("find player")
	default:
		fmt.Fprintf(g.out, "Welcome back! %d wins in %d games\n", p.Wins, p.GamesPlayed)
	}
}

// readGuess prompts until a well-formed row is entered.
func (g *Game) readGuess() (game.Sequence, error) {
	s := g.session
	prompt := fmt.Sprintf("Enter your sequence of %d pegs, using (%s) colours: ", s.PegCount, s.Palette)
	for {
		line, err := g.ask(prompt)
		if err != nil {
			return nil, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "quit", "exit", "end":
			fmt.Fprintf(g.out, "Game combination: %s\n", g.render(s.Secret()))
			return nil, ErrQuit
		}
		if g.opts.Lenient {
			if seq := game.FilterGuess(s.Palette, line); len(seq) == s.PegCount {
				return seq, nil
			}
			continue
		}
		seq, err := game.ParseGuess(s.Palette, line, s.PegCount)
		if err == nil {
			return seq, nil
		}
		fmt.Fprintf(g.out, "Oops! %v\n", err)
	}
}

// ask prints prompt and returns the next input line. io.ErrUnexpectedEOF
// reports that input ended.
func (g *Game) ask(prompt string) (string, error) {
	fmt.Fprint(g.out, prompt)
	if !g.in.Scan() {
		if err := g.in.Err(); err != nil {
			return "", err
		}
		fmt.Fprintln(g.out)
		return "", io.ErrUnexpectedEOF
	}
	return g.in.Text(), nil
}

func (g *Game) render(seq game.Sequence) string {
	if !g.opts.Colour {
		return seq.String()
	}
	var b strings.Builder
	for _, sym := range seq {
		c, ok := ansi[g.opts.Palette.Name(sym)]
		if !ok {
			b.WriteRune(rune(sym))
			continue
		}
		b.WriteString(color.Colorize(c, string(rune(sym))))
	}
	return b.String()
}
