//go:build rp2040

package main

import (
	"device/rp"
	"runtime/interrupt"
	"runtime/volatile"
	"unsafe"

	"els/core"
)

// The runtime sleeps on alarm 0; the tick uses alarm 3
const (
	timerBase     = 0x40054000
	timerALARM3   = timerBase + 0x1c
	timerTIMERAWL = timerBase + 0x28
	timerINTR     = timerBase + 0x34
	timerINTE     = timerBase + 0x38

	alarm3Bit = 1 << 3

	tickPeriodUs = 1000000 / core.TickRate
)

var (
	alarm3    = (*volatile.Register32)(unsafe.Pointer(uintptr(timerALARM3)))
	timerRAWL = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWL)))
	timerIntr = (*volatile.Register32)(unsafe.Pointer(uintptr(timerINTR)))
	timerInte = (*volatile.Register32)(unsafe.Pointer(uintptr(timerINTE)))

	tickClock *core.Clock
	nextTick  uint32
)

// startTick runs clock.Tick every millisecond from the timer alarm interrupt
func startTick(clock *core.Clock) {
	tickClock = clock

	intr := interrupt.New(rp.IRQ_TIMER_IRQ_3, tickHandler)
	nextTick = timerRAWL.Get() + tickPeriodUs
	alarm3.Set(nextTick)
	timerInte.SetBits(alarm3Bit)
	intr.Enable()
}

func tickHandler(interrupt.Interrupt) {
	timerIntr.Set(alarm3Bit)

	// Re-arm from the previous deadline so the period does not drift
	nextTick += tickPeriodUs
	alarm3.Set(nextTick)

	tickClock.Tick()
}
