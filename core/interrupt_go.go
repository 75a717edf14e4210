//go:build !tinygo

package core

import "sync"

// State is a placeholder for interrupt state on regular Go
type State uintptr

// interruptMask stands in for the interrupt mask when the tick runs on its own
// goroutine. Hold it only for the few loads and stores of a critical section.
var interruptMask sync.Mutex

// disableInterrupts enters a critical section shared with the simulated tick
func disableInterrupts() State {
	interruptMask.Lock()
	return 0
}

// restoreInterrupts leaves the critical section
func restoreInterrupts(state State) {
	interruptMask.Unlock()
}
