package protocol

import (
	"bytes"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleStatus() Status {
	return Status{
		NowMs:       123456,
		RPM:         -600,
		Mode:        2,
		FeedRate:    1000,
		Pulses:      4321,
		TotalPulses: 0xDEADBEEF,
		Carry:       0xFFFF,
		Flags:       FlagServoOK | FlagEnable,
	}
}

func decodeAll(t *testing.T, stream []byte) ([]Frame, *Decoder, *FifoBuffer) {
	t.Helper()
	var frames []Frame
	d := &Decoder{}
	in := NewFifoBuffer(len(stream) + 1)
	require.Equal(t, len(stream), in.Write(stream))
	d.Receive(in, func(f Frame) {
		f.Payload = append([]byte(nil), f.Payload...)
		frames = append(frames, f)
	})
	return frames, d, in
}

func TestStatusFrameRoundTrip(t *testing.T) {
	var out bytes.Buffer
	tr := NewTransport(&out)
	s := sampleStatus()
	require.NoError(t, tr.SendStatus(&s))

	raw := out.Bytes()
	require.LessOrEqual(t, len(raw), MessageMax)
	assert.Equal(t, byte(len(raw)), raw[MessagePositionLen])
	assert.Equal(t, byte(MessageDest), raw[MessagePositionSeq])
	assert.Equal(t, byte(MessageValueSync), raw[len(raw)-1])

	frames, d, in := decodeAll(t, raw)
	require.Len(t, frames, 1)
	assert.Zero(t, in.Available())
	assert.Equal(t, uint32(1), d.Stats().Frames)

	got, err := ParseStatus(frames[0].Payload)
	require.NoError(t, err)
	assert.Equal(t, s, got)
	assert.True(t, got.Has(FlagServoOK|FlagEnable))
	assert.False(t, got.Has(FlagDirection))
}

func TestTransportSequenceWraps(t *testing.T) {
	var out bytes.Buffer
	tr := NewTransport(&out)
	s := sampleStatus()
	for i := 0; i < 17; i++ {
		require.NoError(t, tr.SendStatus(&s))
	}
	assert.Equal(t, uint8(MessageDest|1), tr.Sequence())

	frames, d, _ := decodeAll(t, out.Bytes())
	require.Len(t, frames, 17)
	assert.Equal(t, uint8(0), frames[0].Sequence)
	assert.Equal(t, uint8(0x0F), frames[15].Sequence)
	assert.Equal(t, uint8(0), frames[16].Sequence)
	assert.Zero(t, d.Stats().Lost)
}

func TestEncodeFrameTooLong(t *testing.T) {
	tr := NewTransport(io.Discard)
	_, err := tr.EncodeFrame(func(output OutputBuffer) {
		output.Output(make([]byte, MessageMax))
	})
	assert.ErrorIs(t, err, ErrFrameTooLong)
	assert.Equal(t, uint8(MessageDest), tr.Sequence())
}

func TestDecoderResyncsAfterGarbage(t *testing.T) {
	var out bytes.Buffer
	tr := NewTransport(&out)
	s := sampleStatus()
	require.NoError(t, tr.SendStatus(&s))
	first := append([]byte(nil), out.Bytes()...)
	out.Reset()
	require.NoError(t, tr.SendStatus(&s))
	second := append([]byte(nil), out.Bytes()...)

	corrupt := append([]byte(nil), first...)
	corrupt[4] ^= 0x55

	stream := append([]byte{0x03, 0x99, 0x42}, corrupt...)
	stream = append(stream, second...)

	frames, d, _ := decodeAll(t, stream)
	require.Len(t, frames, 1)
	assert.Equal(t, uint8(1), frames[0].Sequence)
	assert.GreaterOrEqual(t, d.Stats().Resyncs, uint32(1))
	assert.Greater(t, d.Stats().Discards, uint32(0))
}

func TestDecoderKeepsPartialFrame(t *testing.T) {
	var out bytes.Buffer
	s := sampleStatus()
	require.NoError(t, NewTransport(&out).SendStatus(&s))
	raw := out.Bytes()

	fifo := NewFifoBuffer(256)
	d := &Decoder{}
	count := 0
	handle := func(Frame) { count++ }

	fifo.Write(raw[:7])
	d.Receive(fifo, handle)
	assert.Zero(t, count)
	assert.Equal(t, 7, fifo.Available())

	fifo.Write(raw[7:])
	d.Receive(fifo, handle)
	assert.Equal(t, 1, count)
	assert.Zero(t, fifo.Available())
}

func TestDecoderCountsLostFrames(t *testing.T) {
	var out bytes.Buffer
	tr := NewTransport(&out)
	s := sampleStatus()
	var frames [][]byte
	for i := 0; i < 5; i++ {
		out.Reset()
		require.NoError(t, tr.SendStatus(&s))
		frames = append(frames, append([]byte(nil), out.Bytes()...))
	}

	stream := append(append([]byte(nil), frames[0]...), frames[3]...)
	stream = append(stream, frames[4]...)
	got, d, _ := decodeAll(t, stream)
	assert.Len(t, got, 3)
	assert.Equal(t, uint32(2), d.Stats().Lost)
}

func TestParseStatusErrors(t *testing.T) {
	_, err := ParseStatus([]byte{7})
	assert.ErrorIs(t, err, ErrUnknownMessage)

	_, err = ParseStatus([]byte{MsgStatus, 1, 2})
	assert.ErrorIs(t, err, ErrShortPayload)

	_, err = ParseStatus(nil)
	assert.ErrorIs(t, err, ErrBufferTooSmall)
}

func TestParseStatusSignedFields(t *testing.T) {
	for _, s := range []Status{
		{RPM: -2147483648, FeedRate: -1, Flags: FlagDirection},
		{RPM: 2147483647, FeedRate: -2147483648, NowMs: 0xFFFFFFFF},
		{RPM: -33, FeedRate: 96, Mode: 4},
	} {
		output := &ScratchOutput{}
		s.Encode(output)
		got, err := ParseStatus(output.Result())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
}

func TestHostReader(t *testing.T) {
	var out bytes.Buffer
	tr := NewTransport(&out)
	want := sampleStatus()
	for i := 0; i < 3; i++ {
		want.NowMs = uint32(100 * i)
		require.NoError(t, tr.SendStatus(&want))
	}
	out.Write([]byte{0x05, MessageDest, 0x00, 0x00, MessageValueSync})

	var mu sync.Mutex
	var got []Status
	var seqs []uint8
	r := NewHostReader(bytes.NewReader(out.Bytes()), func(seq uint8, s Status) {
		mu.Lock()
		got = append(got, s)
		seqs = append(seqs, seq)
		mu.Unlock()
	})

	select {
	case <-r.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("reader did not stop at EOF")
	}
	assert.ErrorIs(t, r.Err(), io.EOF)
	require.NoError(t, r.Close())

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 3)
	assert.Equal(t, []uint8{0, 1, 2}, seqs)
	assert.Equal(t, uint32(200), got[2].NowMs)
	assert.Equal(t, int32(-600), got[0].RPM)
}

func TestHostReaderClose(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	r := NewHostReader(pr, nil)
	require.NoError(t, r.Close())
	<-r.Done()
}
