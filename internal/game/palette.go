package game

import (
	"strings"
	"unicode"
)

// Palette is the ordered set of symbols a game draws from.
// It is immutable once built; use NewPalette to construct one.
type Palette struct {
	symbols []Symbol
	index   map[Symbol]int
}

// DefaultPalette returns the classic four-symbol palette R, Y, G, B.
func DefaultPalette() Palette {
	p, _ := NewPalette('R', 'Y', 'G', 'B')
	return p
}

// NewPalette builds a palette from distinct symbols, preserving their order.
func NewPalette(symbols ...Symbol) (Palette, error) {
	if len(symbols) == 0 {
		return Palette{}, &InputError{Reason: ReasonPalette, Msg: "palette is empty"}
	}
	p := Palette{
		symbols: make([]Symbol, 0, len(symbols)),
		index:   make(map[Symbol]int, len(symbols)),
	}
	for _, s := range symbols {
		if unicode.IsSpace(rune(s)) {
			return Palette{}, &InputError{Reason: ReasonPalette, Msg: "palette symbol may not be whitespace"}
		}
		if _, dup := p.index[s]; dup {
			return Palette{}, &InputError{Reason: ReasonPalette, Symbol: s, Msg: "duplicate palette symbol " + string(rune(s))}
		}
		p.index[s] = len(p.symbols)
		p.symbols = append(p.symbols, s)
	}
	return p, nil
}

// Len returns the number of symbols.
func (p Palette) Len() int { return len(p.symbols) }

// Symbols returns a copy of the ordered symbols.
func (p Palette) Symbols() []Symbol {
	out := make([]Symbol, len(p.symbols))
	copy(out, p.symbols)
	return out
}

// Contains reports whether s belongs to the palette.
func (p Palette) Contains(s Symbol) bool {
	_, ok := p.index[s]
	return ok
}

// Validate checks that seq has exactly n pegs, all from the palette.
func (p Palette) Validate(seq Sequence, n int) error {
	if len(seq) != n {
		return lengthError(n, len(seq))
	}
	for i, s := range seq {
		if !p.Contains(s) {
			return symbolError(i, s)
		}
	}
	return nil
}

// String lists the symbols separated by ", ", e.g. "R, Y, G, B".
func (p Palette) String() string {
	parts := make([]string, len(p.symbols))
	for i, s := range p.symbols {
		parts[i] = string(rune(s))
	}
	return strings.Join(parts, ", ")
}

// ParseGuess strictly converts user text into a sequence of n pegs.
// Input is trimmed and upper-cased; any rune outside the palette is rejected.
func ParseGuess(p Palette, text string, n int) (Sequence, error) {
	text = strings.ToUpper(strings.TrimSpace(text))
	seq := make(Sequence, 0, len(text))
	for _, r := range text {
		seq = append(seq, Symbol(r))
	}
	for i, s := range seq {
		if !p.Contains(s) {
			return nil, symbolError(i, s)
		}
	}
	if len(seq) != n {
		return nil, lengthError(n, len(seq))
	}
	return seq, nil
}

// FilterGuess keeps only palette symbols from the upper-cased text and drops
// everything else. The caller re-prompts until the length is right.
func FilterGuess(p Palette, text string) Sequence {
	text = strings.ToUpper(strings.TrimSpace(text))
	seq := make(Sequence, 0, len(text))
	for _, r := range text {
		if p.Contains(Symbol(r)) {
			seq = append(seq, Symbol(r))
		}
	}
	return seq
}
