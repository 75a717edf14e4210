package protocol

// InputBuffer is received bytes waiting to be decoded
type InputBuffer interface {
	// Data returns the buffered bytes, oldest first
	Data() []byte

	// Available returns the number of buffered bytes
	Available() int

	// Pop discards n bytes from the front
	Pop(n int)
}

// OutputBuffer collects an outgoing frame
type OutputBuffer interface {
	// Output appends data
	Output(data []byte)

	// CurPosition returns the current write position
	CurPosition() int

	// Update overwrites the byte at pos
	Update(pos int, val byte)
}

// ScratchOutput is an OutputBuffer holding one frame. Writes past the end
// are dropped and remembered.
type ScratchOutput struct {
	buf      [MessageMax]byte
	pos      int
	overflow bool
}

func (s *ScratchOutput) Output(data []byte) {
	n := copy(s.buf[s.pos:], data)
	s.pos += n
	if n < len(data) {
		s.overflow = true
	}
}

func (s *ScratchOutput) CurPosition() int {
	return s.pos
}

func (s *ScratchOutput) Update(pos int, val byte) {
	if pos < len(s.buf) {
		s.buf[pos] = val
	}
}

// Result returns the bytes written so far
func (s *ScratchOutput) Result() []byte {
	return s.buf[:s.pos]
}

// Overflowed reports whether any write was truncated since the last Reset
func (s *ScratchOutput) Overflowed() bool {
	return s.overflow
}

// Reset empties the buffer
func (s *ScratchOutput) Reset() {
	s.pos = 0
	s.overflow = false
}

// FifoBuffer is a ring buffer between a serial port and the decoder
type FifoBuffer struct {
	buf    []byte
	linear []byte
	read   int
	write  int
	size   int
}

// NewFifoBuffer creates a FifoBuffer holding up to capacity-1 bytes
func NewFifoBuffer(capacity int) *FifoBuffer {
	return &FifoBuffer{
		buf:    make([]byte, capacity),
		linear: make([]byte, capacity),
		size:   capacity,
	}
}

// Write appends as much of data as fits and returns the count
func (f *FifoBuffer) Write(data []byte) int {
	written := 0
	for _, b := range data {
		nextWrite := (f.write + 1) % f.size
		if nextWrite == f.read {
			break
		}
		f.buf[f.write] = b
		f.write = nextWrite
		written++
	}
	return written
}

// Available returns the number of buffered bytes
func (f *FifoBuffer) Available() int {
	if f.write >= f.read {
		return f.write - f.read
	}
	return f.size - f.read + f.write
}

// Free returns the space left for Write
func (f *FifoBuffer) Free() int {
	return f.size - f.Available() - 1
}

// Data returns the buffered bytes as one slice. A wrapped buffer is copied
// into a preallocated linear area, valid until the next Write or Pop.
func (f *FifoBuffer) Data() []byte {
	if f.read <= f.write {
		return f.buf[f.read:f.write]
	}
	firstLen := f.size - f.read
	copy(f.linear, f.buf[f.read:])
	copy(f.linear[firstLen:], f.buf[:f.write])
	return f.linear[:f.Available()]
}

// Pop discards n bytes from the front
func (f *FifoBuffer) Pop(n int) {
	avail := f.Available()
	if n > avail {
		n = avail
	}
	f.read = (f.read + n) % f.size
}

// Reset discards everything
func (f *FifoBuffer) Reset() {
	f.read = 0
	f.write = 0
}
