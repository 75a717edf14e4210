package display

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encode(t *testing.T, s string) ([]byte, error) {
	t.Helper()
	var dst [Columns]byte
	n, err := Encode(&dst, s)

	var fromBytes [Columns]byte
	m, byteErr := EncodeBytes(&fromBytes, []byte(s))
	assert.Equal(t, n, m)
	assert.Equal(t, err, byteErr)
	assert.Equal(t, dst, fromBytes)
	return dst[:n], err
}

func TestEncodeASCIIAndGlyphs(t *testing.T) {
	codes, err := encode(t, "Feed 80μm/r")
	require.NoError(t, err)
	require.Len(t, codes, 11)
	assert.Equal(t, byte('F'), codes[0])
	assert.Equal(t, byte(0b11100100), codes[7])

	codes, err = encode(t, "●○↑↓°")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x94, 0x95, 0x9e, 0x9f, 0xdf}, codes)
}

func TestEncodeErrors(t *testing.T) {
	_, err := encode(t, "12345678901234567")
	assert.ErrorIs(t, err, ErrBounds)

	_, err = encode(t, "ok€")
	var unsupported *UnsupportedCharError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, '€', unsupported.Char)
	assert.Contains(t, err.Error(), "'€'")

	_, err = encode(t, "}")
	assert.NoError(t, err)
	_, err = encode(t, "\t")
	assert.Error(t, err)

	var dst [Columns]byte
	_, err = EncodeBytes(&dst, []byte{'a', 0xff})
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, '\uFFFD', unsupported.Char)
}

func TestBufferWriteBytes(t *testing.T) {
	b := NewBuffer()
	WriteBytesAt(b, 2, 1, []byte("μm/r"))
	assert.Equal(t, "  μm/r          ", b.Line(1))

	line := []byte("Feed    +80μm/r")
	allocs := testing.AllocsPerRun(100, func() {
		WriteBytesAt(b, 0, 0, line)
	})
	assert.Zero(t, allocs)
	assert.Equal(t, "Feed    +80μm/r ", b.Line(0))
}

func TestBufferWriteAndRead(t *testing.T) {
	b := NewBuffer()
	WriteAt(b, 0, 0, "Servo off")
	WriteAt(b, 4, 1, "↑↓ μ")

	assert.Equal(t, "Servo off       ", b.Line(0))
	assert.Equal(t, "    ↑↓ μ        ", b.Line(1))
	assert.Equal(t, 2, b.Writes())

	b.Clear()
	assert.Equal(t, [Rows]string{"                ", "                "}, b.Lines())
}

func TestBufferBounds(t *testing.T) {
	b := NewBuffer()
	assert.ErrorIs(t, b.Position(17, 0), ErrBounds)
	assert.ErrorIs(t, b.Position(0, 2), ErrBounds)
	require.NoError(t, b.Position(16, 1))

	require.NoError(t, b.Position(10, 0))
	_, err := b.String("1234567")
	assert.ErrorIs(t, err, ErrBounds)
	assert.Equal(t, "                ", b.Line(0))

	// Failed writes are ignored by WriteAt
	WriteAt(b, 20, 0, "x")
	assert.Equal(t, 0, b.Writes())
}
