//go:build stm32f4

package main

import (
	"context"
	"machine"
	"time"

	"els/controller"
	"els/core"
	"els/display"
	"els/targets/board"
	"els/ui"
)

// STM32F4 Discovery wiring
var pins = core.Pins{
	MotorEnable: core.GPIOPin(machine.PB1),
	MotorDir:    core.GPIOPin(machine.PB2),
	LED:         core.GPIOPin(machine.LED),
	Button1:     core.GPIOPin(machine.PA0),
	ServoOK:     core.GPIOPin(machine.PC0),
	ModeButton:  core.GPIOPin(machine.PC1),
	FeedButton:  core.GPIOPin(machine.PC2),
}

const (
	stepPin = machine.PB0

	spindleA, spindleB   = machine.PE9, machine.PE11
	modeDialA, modeDialB = machine.PC6, machine.PC7
	feedDialA, feedDialB = machine.PC8, machine.PC9

	lcdE, lcdRS, lcdRW = machine.PD0, machine.PD1, machine.PD2

	splashTime = time.Second
)

var lcdData = []machine.Pin{
	machine.PE0, machine.PE1, machine.PE2, machine.PE3,
	machine.PE4, machine.PE5, machine.PE6, machine.PE7,
}

func main() {
	board.InitDebugUART(machine.UART1, machine.UART1_TX_PIN, machine.UART1_RX_PIN)

	gpio := board.NewGPIO()
	core.SetGPIODriver(gpio)
	if err := core.ConfigurePins(core.MustGPIO(), pins); err != nil {
		panic("els: " + err.Error())
	}

	// The step pin is driven through bit-band stores, not the GPIO driver
	stepPin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	stepPin.Low()
	pulser := core.NewPulseGenerator(newBitBandLine(stepPin))

	lcd, err := display.NewHD44780(lcdData, lcdE, lcdRS, lcdRW)
	if err != nil {
		panic("els: lcd: " + err.Error())
	}
	controller.Splash(lcd, func() { time.Sleep(splashTime) })

	machine.Serial.Configure(machine.UARTConfig{})

	mech := core.DefaultMechanics
	clock := core.NewClock(mech)
	loop := controller.New(clock, core.NewFeedController(mech), ui.New(lcd), controller.Hardware{
		GPIO:      gpio,
		Pins:      pins,
		Spindle:   board.NewQuadrature(spindleA, spindleB),
		ModeDial:  board.NewQuadrature(modeDialA, modeDialB),
		FeedDial:  board.NewQuadrature(feedDialA, feedDialB),
		Pulser:    pulser,
		Telemetry: machine.Serial,
	})

	startTick(clock)
	loop.Run(context.Background())
}
