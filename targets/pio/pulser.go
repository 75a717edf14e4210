//go:build rp2040

// Package pio generates step pulse trains with an RP2040 PIO state machine
package pio

import (
	"machine"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"

	"els/core"
)

// Step program. The TX word is the pulse count minus one.
//
//	pull block
//	out x, 32
//	loop: set pins, 1 [2]
//	      set pins, 0 [1]
//	      jmp x--, loop
const (
	pulseOrigin = 0 // jumps are absolute
	pulseLoop   = pulseOrigin + 2

	// 12.5 divider on the 125MHz system clock: 100ns per PIO cycle
	clkDivInt  = 12
	clkDivFrac = 128
	cycleNs    = 100

	highCycles  = 3
	lowCycles   = 3 // includes the jmp
	pulseCycles = highCycles + lowCycles
)

func buildPulseProgram() []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 0}
	return []uint16{
		asm.Pull(false, true).Encode(),
		asm.Out(rp2pio.OutDestX, 32).Encode(),
		asm.Set(rp2pio.SetDestPins, 1).Delay(highCycles - 1).Encode(),
		asm.Set(rp2pio.SetDestPins, 0).Delay(lowCycles - 2).Encode(),
		asm.Jmp(pulseLoop, rp2pio.JmpXNZeroDec).Encode(),
	}
}

// Pulser is a core.Pulser backed by one PIO state machine. Pulse queues the
// burst and then waits out its length, so a burst has finished before the
// main loop touches the direction line again.
type Pulser struct {
	pio     *rp2pio.PIO
	sm      rp2pio.StateMachine
	stepPin machine.Pin
}

// NewPulser claims state machine smNum of block pioNum (0 or 1)
func NewPulser(pioNum, smNum uint8) *Pulser {
	hw := rp2pio.PIO0
	if pioNum != 0 {
		hw = rp2pio.PIO1
	}
	return &Pulser{
		pio: hw,
		sm:  hw.StateMachine(smNum),
	}
}

// Init loads the program and hands stepPin to the state machine
func (p *Pulser) Init(stepPin machine.Pin) error {
	if err := claim(p.sm); err != nil {
		return err
	}
	p.stepPin = stepPin

	program := buildPulseProgram()
	offset, err := p.pio.AddProgram(program, pulseOrigin)
	if err != nil {
		return err
	}

	p.stepPin.Configure(machine.PinConfig{Mode: p.pio.PinMode()})

	cfg := rp2pio.DefaultStateMachineConfig()
	cfg.SetSetPins(p.stepPin, 1)
	cfg.SetOutShift(true, false, 32)
	cfg.SetWrap(offset+uint8(len(program))-1, offset)
	cfg.SetClkDivIntFrac(clkDivInt, clkDivFrac)

	// Pin directions must be set after Init
	p.sm.Init(offset, cfg)
	p.sm.SetPindirsConsecutive(p.stepPin, 1, true)
	p.sm.SetPinsConsecutive(p.stepPin, 1, false)
	p.sm.SetEnabled(true)
	return nil
}

// Pulse emits count pulses
func (p *Pulser) Pulse(count uint32) {
	if count == 0 {
		return
	}
	for p.sm.IsTxFIFOFull() {
	}
	p.sm.TxPut(count - 1)

	// One extra microsecond covers the pull and out
	ns := uint64(count) * pulseCycles * cycleNs
	core.DelayUs(uint32(ns/1000) + 1)
}

// Info returns the pulse timing of the program
func (p *Pulser) Info() core.PulserInfo {
	return core.PulserInfo{
		Name:        "PIO",
		HighNs:      highCycles * cycleNs,
		LowNs:       lowCycles * cycleNs,
		MaxStepRate: 1000000000 / (pulseCycles * cycleNs),
	}
}
