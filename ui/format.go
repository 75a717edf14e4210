package ui

import (
	"strconv"
	"unicode/utf8"
)

type alignment uint8

const (
	alignLeft alignment = iota
	alignRight
	alignCenter
)

// lineBuf assembles one display row in a fixed buffer
type lineBuf struct {
	b [48]byte
	n int
}

func (l *lineBuf) reset() {
	l.n = 0
}

func (l *lineBuf) pad(count int) {
	for ; count > 0 && l.n < len(l.b); count-- {
		l.b[l.n] = ' '
		l.n++
	}
}

// gaps splits the padding around an item of runes cells placed in width
func gaps(runes, width int, a alignment) (before, after int) {
	gap := width - runes
	if gap < 0 {
		gap = 0
	}
	switch a {
	case alignRight:
		return gap, 0
	case alignCenter:
		return gap / 2, gap - gap/2
	default:
		return 0, gap
	}
}

// text writes s aligned in width cells
func (l *lineBuf) text(s string, width int, a alignment) {
	before, after := gaps(utf8.RuneCountInString(s), width, a)
	l.pad(before)
	l.n += copy(l.b[l.n:], s)
	l.pad(after)
}

func (l *lineBuf) digits(b []byte, width int, a alignment) {
	before, after := gaps(len(b), width, a)
	l.pad(before)
	l.n += copy(l.b[l.n:], b)
	l.pad(after)
}

// num writes v in decimal, with an explicit '+' on non-negative values when plus is set
func (l *lineBuf) num(v int64, width int, a alignment, plus bool) {
	var tmp [24]byte
	b := tmp[:0]
	if plus && v >= 0 {
		b = append(b, '+')
	}
	b = strconv.AppendInt(b, v, 10)
	l.digits(b, width, a)
}

// hex writes v in lower case hex, zero padded to width when zero is set
func (l *lineBuf) hex(v uint64, width int, zero bool) {
	var tmp [24]byte
	b := strconv.AppendUint(tmp[:0], v, 16)
	if zero {
		for i := len(b); i < width && l.n < len(l.b); i++ {
			l.b[l.n] = '0'
			l.n++
		}
		width = len(b)
	}
	l.digits(b, width, alignRight)
}

// Bytes returns the row assembled so far, valid until the next reset
func (l *lineBuf) Bytes() []byte {
	return l.b[:l.n]
}
