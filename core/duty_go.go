//go:build !tinygo || !cortexm

package core

// Hosted builds only need the edge order to be right; keep the holds short.
const (
	dutyHighNs = 230
	dutyLowNs  = 230
)

var dutySink uint32

func holdHigh() {
	spin(4)
}

func holdLow() {
	spin(4)
}

//go:noinline
func spin(n uint32) {
	for i := uint32(0); i < n; i++ {
		dutySink++
	}
}
