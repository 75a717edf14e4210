//go:build stm32f4

package main

import (
	"device/stm32"
	"runtime/interrupt"

	"els/core"
)

// TIM5 runs from the 84MHz APB1 timer clock
const (
	tim5Prescaler = 84 - 1 // 1MHz count
	tim5Reload    = 1000000/core.TickRate - 1
)

var tickClock *core.Clock

// startTick runs clock.Tick on every TIM5 update
func startTick(clock *core.Clock) {
	tickClock = clock

	stm32.RCC.APB1ENR.SetBits(stm32.RCC_APB1ENR_TIM5EN)
	stm32.TIM5.PSC.Set(tim5Prescaler)
	stm32.TIM5.ARR.Set(tim5Reload)
	stm32.TIM5.EGR.SetBits(stm32.TIM_EGR_UG)
	stm32.TIM5.SR.ClearBits(stm32.TIM_SR_UIF)
	stm32.TIM5.DIER.SetBits(stm32.TIM_DIER_UIE)

	intr := interrupt.New(stm32.IRQ_TIM5, tickHandler)
	intr.Enable()
	stm32.TIM5.CR1.SetBits(stm32.TIM_CR1_CEN)
}

func tickHandler(interrupt.Interrupt) {
	if !stm32.TIM5.SR.HasBits(stm32.TIM_SR_UIF) {
		return
	}
	stm32.TIM5.SR.ClearBits(stm32.TIM_SR_UIF)
	tickClock.Tick()
}
