// internal/palette/palette.go
//
// Colour metadata for game symbols.
//
// The game core works on abstract symbols only. This package owns the
// mapping from symbol to colour name used by the console and HTTP layers.
//
// Sources (Load):
//  1. If a path is given (PALETTE_FILE), read "SYMBOL name" pairs from it.
//  2. Otherwise use the embedded default_palette.txt (R red, Y yellow, G green, B blue).
//
// Format: one pair per line; blank lines and lines starting with '#' are skipped.
// Symbols must be a single non-space rune and are upper-cased.

package palette

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/robalobadob/mastermind/internal/game"
)

//go:embed default_palette.txt
var embeddedDefault string

// Set is an ordered symbol→colour-name mapping.
type Set struct {
	game  game.Palette
	names map[game.Symbol]string
}

// Default returns the embedded palette.
func Default() *Set {
	s, err := Parse(embeddedDefault)
	if err != nil {
		panic("palette: embedded default is invalid: " + err.Error())
	}
	return s
}

// Load reads a palette file, or returns Default when path is empty.
func Load(path string) (*Set, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("palette: read %s: %w", path, err)
	}
	s, err := Parse(string(b))
	if err != nil {
		return nil, fmt.Errorf("palette: %s: %w", path, err)
	}
	return s, nil
}

// Parse builds a Set from "SYMBOL name" lines.
func Parse(text string) (*Set, error) {
	var symbols []game.Symbol
	names := make(map[game.Symbol]string)
	for n, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		sym := strings.ToUpper(fields[0])
		if utf8.RuneCountInString(sym) != 1 {
			return nil, fmt.Errorf("line %d: symbol %q must be a single character", n+1, fields[0])
		}
		r, _ := utf8.DecodeRuneInString(sym)
		name := strings.ToLower(sym)
		if len(fields) > 1 {
			name = strings.ToLower(strings.Join(fields[1:], " "))
		}
		symbols = append(symbols, game.Symbol(r))
		names[game.Symbol(r)] = name
	}
	if len(symbols) == 0 {
		return nil, errors.New("palette is empty")
	}
	p, err := game.NewPalette(symbols...)
	if err != nil {
		return nil, err
	}
	return &Set{game: p, names: names}, nil
}

// Game returns the abstract palette for the core.
func (s *Set) Game() game.Palette { return s.game }

// Name returns the colour name of sym, or "" if sym is unknown.
func (s *Set) Name(sym game.Symbol) string { return s.names[sym] }

// Entry is one symbol/colour pair, as served over HTTP.
type Entry struct {
	Symbol string `json:"symbol"`
	Colour string `json:"colour"`
}

// Entries lists the pairs in palette order.
func (s *Set) Entries() []Entry {
	out := make([]Entry, 0, s.game.Len())
	for _, sym := range s.game.Symbols() {
		out = append(out, Entry{Symbol: string(rune(sym)), Colour: s.names[sym]})
	}
	return out
}

// Describe renders "R=red, Y=yellow, ...".
func (s *Set) Describe() string {
	parts := make([]string, 0, s.game.Len())
	for _, e := range s.Entries() {
		parts = append(parts, e.Symbol+"="+e.Colour)
	}
	return strings.Join(parts, ", ")
}
