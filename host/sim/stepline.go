package sim

import "sync/atomic"

// StepLine is a core.StepLine that counts rising edges
type StepLine struct {
	level atomic.Bool
	steps atomic.Uint64
}

func (l *StepLine) Set() {
	if !l.level.Swap(true) {
		l.steps.Add(1)
	}
}

func (l *StepLine) Clear() {
	l.level.Store(false)
}

// Steps returns the number of pulses seen
func (l *StepLine) Steps() uint64 {
	return l.steps.Load()
}

// High reports the current level
func (l *StepLine) High() bool {
	return l.level.Load()
}
