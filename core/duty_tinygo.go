//go:build tinygo && cortexm

package core

import "device/arm"

// Holds calibrated at 100MHz sysclk so that, after the store setup delay,
// each half of the pulse is about 230ns.
const (
	dutyHighNs = 230
	dutyLowNs  = 230

	dutySpins = 5
)

// holdHigh is the high duty: fine tweak NOPs then a fixed spin
func holdHigh() {
	arm.Asm("nop\nnop\nnop\nnop")
	for i := uint32(dutySpins); i != 0; i-- {
		arm.Asm("nop")
	}
}

// holdLow is one NOP shorter to make up for the loop branch
func holdLow() {
	arm.Asm("nop\nnop\nnop")
	for i := uint32(dutySpins); i != 0; i-- {
		arm.Asm("nop")
	}
}
