package game

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPalette(t *testing.T) {
	p, err := NewPalette('A', 'B', 'C')
	require.NoError(t, err)
	assert.Equal(t, 3, p.Len())
	assert.Equal(t, "A, B, C", p.String())
	assert.True(t, p.Contains('B'))
	assert.False(t, p.Contains('R'))

	_, err = NewPalette('A', 'A')
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = NewPalette()
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = NewPalette('A', ' ')
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestPaletteSymbolsIsACopy(t *testing.T) {
	p := DefaultPalette()
	syms := p.Symbols()
	syms[0] = 'Z'
	assert.Equal(t, Symbol('R'), p.Symbols()[0])
}

func TestParseGuess(t *testing.T) {
	p := DefaultPalette()

	got, err := ParseGuess(p, "  rygb \n", 4)
	require.NoError(t, err)
	assert.Equal(t, "RYGB", got.String())

	_, err = ParseGuess(p, "RYG", 4)
	var ie *InputError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, ReasonLength, ie.Reason)

	_, err = ParseGuess(p, "RY GB", 4)
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, ReasonSymbol, ie.Reason)
	assert.Equal(t, 2, ie.Pos)
	assert.Equal(t, Symbol(' '), ie.Symbol)
}

func TestFilterGuess(t *testing.T) {
	p := DefaultPalette()
	assert.Equal(t, "RYGB", FilterGuess(p, "r-y-g-b").String())
	assert.Equal(t, "RB", FilterGuess(p, "xrzb").String())
	assert.Empty(t, FilterGuess(p, "hello"))
}

func TestSequenceEqual(t *testing.T) {
	assert.True(t, seq("RYGB").Equal(seq("RYGB")))
	assert.False(t, seq("RYGB").Equal(seq("RYG")))
	assert.False(t, seq("RYGB").Equal(seq("RYGG")))
}
