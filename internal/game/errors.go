package game

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is the single validation error class of the core.
	// Every *InputError matches it under errors.Is.
	ErrInvalidInput = errors.New("invalid input")

	// ErrGameOver is returned when a guess is submitted to a finished session.
	ErrGameOver = errors.New("game finished")
)

// Reason says which validation rule an input broke.
type Reason string

const (
	ReasonLength  Reason = "length"
	ReasonSymbol  Reason = "symbol"
	ReasonPegs    Reason = "peg_count"
	ReasonTries   Reason = "try_count"
	ReasonPalette Reason = "palette"
)

// InputError describes rejected input.
// Want/Got are set for length and count problems; Pos/Symbol for symbol problems.
type InputError struct {
	Reason Reason
	Want   int
	Got    int
	Pos    int
	Symbol Symbol
	Msg    string
}

func (e *InputError) Error() string {
	switch e.Reason {
	case ReasonLength:
		return fmt.Sprintf("invalid input: expected %d pegs, got %d", e.Want, e.Got)
	case ReasonSymbol:
		return fmt.Sprintf("invalid input: symbol %q at position %d is not in the palette", rune(e.Symbol), e.Pos+1)
	case ReasonPegs:
		return fmt.Sprintf("invalid input: peg count must be positive, got %d", e.Got)
	case ReasonTries:
		return fmt.Sprintf("invalid input: try count must be positive, got %d", e.Got)
	}
	if e.Msg != "" {
		return "invalid input: " + e.Msg
	}
	return "invalid input"
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }

func lengthError(want, got int) error {
	return &InputError{Reason: ReasonLength, Want: want, Got: got}
}

func symbolError(pos int, sym Symbol) error {
	return &InputError{Reason: ReasonSymbol, Pos: pos, Symbol: sym}
}
