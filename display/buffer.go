package display

// Buffer is an in-memory CharacterDisplay holding ROM codes, used by the
// hosted simulator and by tests.
type Buffer struct {
	cells   [Rows][Columns]byte
	scratch [Columns]byte
	x, y    uint8
	writes  int
}

// NewBuffer returns a blank buffer
func NewBuffer() *Buffer {
	b := &Buffer{}
	b.Clear()
	return b
}

// Position moves the cursor. Column 16 is accepted as the end of a row.
func (b *Buffer) Position(x, y uint8) error {
	if x > Columns || y >= Rows {
		return ErrBounds
	}
	b.x, b.y = x, y
	return nil
}

// String writes s at the cursor. Nothing is written if s does not encode or
// does not fit in the rest of the row.
func (b *Buffer) String(s string) (uint8, error) {
	n, err := Encode(&b.scratch, s)
	if err != nil {
		return 0, err
	}
	return b.put(n)
}

// Write is String for a byte slice
func (b *Buffer) Write(p []byte) (int, error) {
	n, err := EncodeBytes(&b.scratch, p)
	if err != nil {
		return 0, err
	}
	cells, err := b.put(n)
	return int(cells), err
}

func (b *Buffer) put(n int) (uint8, error) {
	if int(b.x)+n > Columns {
		return 0, ErrBounds
	}
	copy(b.cells[b.y][b.x:], b.scratch[:n])
	b.x += uint8(n)
	b.writes++
	return uint8(n), nil
}

// Clear blanks every cell and homes the cursor
func (b *Buffer) Clear() {
	for y := range b.cells {
		for x := range b.cells[y] {
			b.cells[y][x] = ' '
		}
	}
	b.x, b.y = 0, 0
}

// Line returns row y decoded back to text
func (b *Buffer) Line(y int) string {
	runes := make([]rune, 0, Columns)
	for _, code := range b.cells[y] {
		runes = append(runes, decode(code))
	}
	return string(runes)
}

// Lines returns both rows
func (b *Buffer) Lines() [Rows]string {
	return [Rows]string{b.Line(0), b.Line(1)}
}

// Writes returns how many strings have been written
func (b *Buffer) Writes() int {
	return b.writes
}

func decode(code byte) rune {
	for r, c := range glyphs {
		if c == code {
			return r
		}
	}
	return rune(code)
}
