//go:build rp2040

package main

import (
	"context"
	"machine"
	"time"

	"els/controller"
	"els/core"
	"els/display"
	"els/targets/board"
	"els/targets/pio"
	"els/ui"
)

// Raspberry Pi Pico wiring
var pins = core.Pins{
	MotorEnable: core.GPIOPin(machine.GPIO3),
	MotorDir:    core.GPIOPin(machine.GPIO4),
	LED:         core.GPIOPin(machine.LED),
	Button1:     core.GPIOPin(machine.GPIO5),
	ServoOK:     core.GPIOPin(machine.GPIO6),
	ModeButton:  core.GPIOPin(machine.GPIO7),
	FeedButton:  core.GPIOPin(machine.GPIO8),
}

const (
	stepPin = machine.GPIO2

	spindleA, spindleB   = machine.GPIO9, machine.GPIO10
	modeDialA, modeDialB = machine.GPIO11, machine.GPIO12
	feedDialA, feedDialB = machine.GPIO13, machine.GPIO14

	lcdE, lcdRS, lcdRW = machine.GPIO26, machine.GPIO27, machine.GPIO28

	splashTime = time.Second
)

var lcdData = []machine.Pin{
	machine.GPIO15, machine.GPIO16, machine.GPIO17, machine.GPIO18,
	machine.GPIO19, machine.GPIO20, machine.GPIO21, machine.GPIO22,
}

func main() {
	board.InitDebugUART(machine.UART0, machine.GPIO0, machine.GPIO1)

	gpio := board.NewGPIO()
	core.SetGPIODriver(gpio)
	if err := core.ConfigurePins(core.MustGPIO(), pins); err != nil {
		panic("els: " + err.Error())
	}

	pulser := pio.NewPulser(0, 0)
	if err := pulser.Init(stepPin); err != nil {
		panic("els: pio: " + err.Error())
	}

	lcd, err := display.NewHD44780(lcdData, lcdE, lcdRS, lcdRW)
	if err != nil {
		panic("els: lcd: " + err.Error())
	}
	controller.Splash(lcd, func() { time.Sleep(splashTime) })

	// USB CDC carries the status frames
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
