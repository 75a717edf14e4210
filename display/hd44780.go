//go:build tinygo

package display

import (
	"machine"

	"tinygo.org/x/drivers/hd44780"
)

// HD44780 adapts a parallel HD44780 panel to CharacterDisplay.
// Text is encoded with the glyph table before it reaches the driver.
type HD44780 struct {
	dev     hd44780.Device
	scratch [Columns]byte
	x, y    uint8
}

// NewHD44780 configures an 8-bit parallel 16x2 panel
func NewHD44780(dataPins []machine.Pin, e, rs, rw machine.Pin) (*HD44780, error) {
	dev, err := hd44780.NewGPIO8Bit(dataPins, e, rs, rw)
	if err != nil {
		return nil, err
	}
	err = dev.Configure(hd44780.Config{
		Width:       Columns,
		Height:      Rows,
		CursorOnOff: false,
		CursorBlink: false,
	})
	if err != nil {
		return nil, err
	}
	return &HD44780{dev: dev}, nil
}

// Position moves the cursor
func (d *HD44780) Position(x, y uint8) error {
	if x > Columns || y >= Rows {
		return ErrBounds
	}
	d.x, d.y = x, y
	d.dev.SetCursor(x, y)
	return nil
}

// String writes s at the cursor
func (d *HD44780) String(s string) (uint8, error) {
	n, err := Encode(&d.scratch, s)
	if err != nil {
		return 0, err
	}
	return d.flush(n)
}

// Write is String for a byte slice
func (d *HD44780) Write(p []byte) (int, error) {
	n, err := EncodeBytes(&d.scratch, p)
	if err != nil {
		return 0, err
	}
	cells, err := d.flush(n)
	return int(cells), err
}

// flush sends the first n encoded cells to the panel
func (d *HD44780) flush(n int) (uint8, error) {
	if _, err := d.dev.Write(d.scratch[:n]); err != nil {
		return 0, err
	}
	if err := d.dev.Display(); err != nil {
		return 0, err
	}
	d.x += uint8(n)
	return uint8(n), nil
}

// Clear blanks the panel
func (d *HD44780) Clear() {
	d.dev.ClearDisplay()
	d.x, d.y = 0, 0
}
