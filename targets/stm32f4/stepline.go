//go:build stm32f4

package main

import (
	"machine"
	"runtime/volatile"
	"unsafe"

	"els/core"
)

// bitBandLine switches one pin through the bit-band aliases of its port's
// BSRR, a single store per edge
type bitBandLine struct {
	set   *volatile.Register32
	reset *volatile.Register32
}

func newBitBandLine(pin machine.Pin) *bitBandLine {
	bsrr, bit := core.PinBSRR(uint8(pin))
	setAddr, resetAddr := core.BitBandBSRR(bsrr, bit)
	return &bitBandLine{
		set:   (*volatile.Register32)(unsafe.Pointer(setAddr)),
		reset: (*volatile.Register32)(unsafe.Pointer(resetAddr)),
	}
}

func (l *bitBandLine) Set() {
	l.set.Set(1)
}

func (l *bitBandLine) Clear() {
	l.reset.Set(1)
}
