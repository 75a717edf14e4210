//go:build !tinygo

package core

import "time"

// platformDelayUs sleeps; the hosted drive has no setup time to honour
func platformDelayUs(us uint32) {
	time.Sleep(time.Duration(us) * time.Microsecond)
}
