// Package display is the character display capability used by the user
// interface: a 16x2 HD44780-style panel addressed by column and row.
package display

import (
	"errors"
	"strconv"
	"unicode/utf8"
)

const (
	Columns = 16
	Rows    = 2
)

// ErrBounds is returned when text or a position falls outside the panel
var ErrBounds = errors.New("screen bounds exceeded")

// UnsupportedCharError is returned for a rune the character ROM cannot show
type UnsupportedCharError struct {
	Char rune
}

func (e *UnsupportedCharError) Error() string {
	return "display does not support character " + strconv.QuoteRune(e.Char)
}

// CharacterDisplay is an addressable text display.
// Rendering failures are never fatal to the caller.
type CharacterDisplay interface {
	// Position moves the cursor to column x of row y
	Position(x, y uint8) error

	// String writes s at the cursor and returns the number of cells written
	String(s string) (uint8, error)

	// Write is String for UTF-8 text held in a byte slice
	Write(p []byte) (int, error)

	// Clear blanks the display and homes the cursor
	Clear()
}

// WriteAt positions the cursor and writes s, ignoring errors
func WriteAt(d CharacterDisplay, x, y uint8, s string) {
	if d.Position(x, y) != nil {
		return
	}
	d.String(s)
}

// WriteBytesAt is WriteAt for text in a byte slice
func WriteBytesAt(d CharacterDisplay, x, y uint8, p []byte) {
	if d.Position(x, y) != nil {
		return
	}
	d.Write(p)
}

// glyphs maps runes to HD44780 A00 character ROM codes
var glyphs = map[rune]byte{
	'\\': 0b10001100,
	'~':  0b10001110,
	'Σ':  0b11110110,
	'◀':  0b00011110,
	'▲':  0b00011111,
	'▶':  0b00011101,
	'▼':  0b00011100,
	'←':  0b01111111,
	'↑':  0b10011110,
	'→':  0b01111110,
	'↓':  0b10011111,
	'●':  0b10010100,
	'°':  0b11011111,
	'○':  0b10010101,
	'α':  0b11100000,
	'β':  0b11100010,
	'θ':  0b11110010,
	'μ':  0b11100100,
	'π':  0b11110111,
	'Ω':  0b11110100,
	'ω':  0b11110011,
	'ρ':  0b11100110,
	'σ':  0b11100101,
	'ε':  0b11100011,
}

// Encode converts s into character ROM codes for one row and returns how
// many cells it fills. s must fit in a row and contain only ASCII ' '..'}'
// or a mapped glyph.
func Encode(dst *[Columns]byte, s string) (int, error) {
	n := 0
	for _, c := range s {
		if err := encodeRune(dst, n, c); err != nil {
			return 0, err
		}
		n++
	}
	return n, nil
}

// EncodeBytes is Encode for UTF-8 text in a byte slice
func EncodeBytes(dst *[Columns]byte, p []byte) (int, error) {
	n := 0
	for len(p) > 0 {
		c, size := utf8.DecodeRune(p)
		p = p[size:]
		if err := encodeRune(dst, n, c); err != nil {
			return 0, err
		}
		n++
	}
	return n, nil
}

func encodeRune(dst *[Columns]byte, n int, c rune) error {
	if n >= len(dst) {
		return ErrBounds
	}
	code, ok := glyphs[c]
	switch {
	case ok:
		dst[n] = code
	case c >= ' ' && c <= '}':
		dst[n] = byte(c)
	default:
		return &UnsupportedCharError{Char: c}
	}
	return nil
}
