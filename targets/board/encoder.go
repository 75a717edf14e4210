//go:build tinygo

package board

import (
	"machine"

	"tinygo.org/x/drivers/encoders"

	"els/core"
)

// NewQuadrature configures an interrupt driven quadrature input on a and b.
// Every edge counts, so a 500 line encoder reads 2000 pulses per turn.
func NewQuadrature(a, b machine.Pin) core.Encoder {
	enc := encoders.NewQuadratureViaInterrupt(a, b)
	enc.Configure(encoders.QuadratureConfig{Precision: 1})
	return enc
}
