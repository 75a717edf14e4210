package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// traceLine records every edge driven on it
type traceLine struct {
	edges []bool
}

func (l *traceLine) Set()   { l.edges = append(l.edges, true) }
func (l *traceLine) Clear() { l.edges = append(l.edges, false) }

func TestPulseGeneratorIdle(t *testing.T) {
	line := &traceLine{}
	p := NewPulseGenerator(line)
	p.Pulse(0)
	assert.Empty(t, line.edges)
}

func TestPulseGeneratorEmitsExactCount(t *testing.T) {
	for _, count := range []uint32{1, 2, 17, 1000} {
		line := &traceLine{}
		p := NewPulseGenerator(line)
		p.Pulse(count)

		require.Len(t, line.edges, int(2*count))
		for i, level := range line.edges {
			assert.Equal(t, i%2 == 0, level, "edge %d of %d pulses", i, count)
		}
	}
}

func TestPulseGeneratorInfo(t *testing.T) {
	info := NewPulseGenerator(&traceLine{}).Info()
	assert.Equal(t, "GPIO", info.Name)
	assert.Equal(t, uint32(230), info.HighNs)
	assert.Equal(t, uint32(230), info.LowNs)
	assert.Equal(t, uint32(1000000000/460), info.MaxStepRate)
}

func TestBitBandBSRR(t *testing.T) {
	const gpiobBSRR = 0x40020418

	set, reset := BitBandBSRR(gpiobBSRR, 0)
	assert.Equal(t, uintptr(0x42408300), set)
	assert.Equal(t, uintptr(0x42408340), reset)

	set, reset = BitBandBSRR(gpiobBSRR, 5)
	assert.Equal(t, uintptr(0x42408314), set)
	assert.Equal(t, uintptr(0x42408354), reset)
}

func TestPinBSRR(t *testing.T) {
	const pb0, pb5, pc13 = 16, 21, 45

	bsrr, bit := PinBSRR(pb0)
	assert.Equal(t, uintptr(0x40020418), bsrr)
	assert.Equal(t, uint8(0), bit)

	// Moving the step line to another pin moves the alias with it
	bsrr, bit = PinBSRR(pb5)
	set, _ := BitBandBSRR(bsrr, bit)
	assert.Equal(t, uintptr(0x42408314), set)

	bsrr, bit = PinBSRR(pc13)
	assert.Equal(t, uintptr(0x40020818), bsrr)
	assert.Equal(t, uint8(13), bit)

	bsrr, bit = PinBSRR(0)
	assert.Equal(t, uintptr(GPIOPortBase+GPIOBSRROffset), bsrr)
	assert.Equal(t, uint8(0), bit)
}

type fakeEncoder struct {
	pos int
}

func (e *fakeEncoder) Position() int { return e.pos }

func TestEncoderDelta(t *testing.T) {
	enc := &fakeEncoder{pos: 100}
	d := NewEncoderDelta(enc)

	pos, delta := d.Read()
	assert.Equal(t, int32(100), pos)
	assert.Zero(t, delta)

	enc.pos = 90
	pos, delta = d.Read()
	assert.Equal(t, int32(90), pos)
	assert.Equal(t, int32(-10), delta)
}

func TestEncoderDeltaWraps(t *testing.T) {
	enc := &fakeEncoder{pos: 2147483647}
	d := NewEncoderDelta(enc)

	enc.pos = 2147483647 + 5
	_, delta := d.Read()
	assert.Equal(t, int32(5), delta)
}
