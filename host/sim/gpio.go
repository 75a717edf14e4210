package sim

import (
	"sync"

	"els/core"
)

// Pins is the simulated board's pin map
var Pins = core.Pins{
	MotorEnable: 10,
	MotorDir:    11,
	LED:         25,
	Button1:     4,
	ServoOK:     3,
	ModeButton:  8,
	FeedButton:  15,
}

// GPIO is an in-memory core.GPIODriver. Inputs are driven by the script
// goroutine while the control loop reads them, so every access is locked.
type GPIO struct {
	mu     sync.Mutex
	levels map[core.GPIOPin]bool
	edges  map[core.GPIOPin]uint64
}

// NewGPIO creates a driver with every input pulled up
func NewGPIO() *GPIO {
	return &GPIO{
		levels: map[core.GPIOPin]bool{},
		edges:  map[core.GPIOPin]uint64{},
	}
}

func (g *GPIO) ConfigureOutput(pin core.GPIOPin) error {
	return nil
}

func (g *GPIO) ConfigureInputPullUp(pin core.GPIOPin) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.levels[pin]; !ok {
		g.levels[pin] = true
	}
	return nil
}

func (g *GPIO) SetPin(pin core.GPIOPin, value bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.levels[pin] != value {
		g.edges[pin]++
	}
	g.levels[pin] = value
	return nil
}

func (g *GPIO) ReadPin(pin core.GPIOPin) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.levels[pin]
}

// Drive sets the level seen on an input pin
func (g *GPIO) Drive(pin core.GPIOPin, level bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.levels[pin] = level
}

// Level returns the current level of any pin
func (g *GPIO) Level(pin core.GPIOPin) bool {
	return g.ReadPin(pin)
}

// Edges returns how many times an output changed level
func (g *GPIO) Edges(pin core.GPIOPin) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.edges[pin]
}
