//go:build tinygo

package core

import "time"

// platformDelayUs spins on the system timer so the goroutine scheduler is
// never entered from the control loop
func platformDelayUs(us uint32) {
	d := time.Duration(us) * time.Microsecond
	start := time.Now()
	for time.Since(start) < d {
	}
}
