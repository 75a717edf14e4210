package protocol

import (
	"errors"
	"io"
	"sync"
	"time"
)

// StatusHandler receives each decoded status and its frame sequence number (0-15)
type StatusHandler func(seq uint8, s Status)

// HostReader reads telemetry frames from a port on its own goroutine and
// hands decoded status messages to a handler
type HostReader struct {
	port    io.Reader
	handler StatusHandler

	mu          sync.Mutex
	inputBuffer *FifoBuffer
	decoder     Decoder
	badPayloads uint32
	err         error

	stopChan chan struct{}
	doneChan chan struct{}
	stopOnce sync.Once
}

// NewHostReader starts reading from port
func NewHostReader(port io.Reader, handler StatusHandler) *HostReader {
	r := &HostReader{
		port:        port,
		handler:     handler,
		inputBuffer: NewFifoBuffer(4 * MessageMax),
		stopChan:    make(chan struct{}),
		doneChan:    make(chan struct{}),
	}
	go r.readLoop()
	return r
}

// readLoop runs until the port reports EOF or the reader is stopped. Read
// errors other than EOF are retried after a short pause.
func (r *HostReader) readLoop() {
	defer close(r.doneChan)

	buffer := make([]byte, MessageMax)
	for {
		select {
		case <-r.stopChan:
			return
		default:
		}

		n, err := r.port.Read(buffer)
		if n > 0 {
			r.process(buffer[:n])
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				r.setErr(err)
				return
			}
			r.setErr(err)
			time.Sleep(10 * time.Millisecond)
		}
	}
}

// process decodes data, which is fed in chunks no larger than the free
// space in the input buffer
func (r *HostReader) process(data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for len(data) > 0 {
		n := r.inputBuffer.Write(data)
		data = data[n:]
		r.decoder.Receive(r.inputBuffer, r.dispatch)
		if n == 0 && r.inputBuffer.Free() == 0 {
			// A full buffer with no frame in it is garbage
			r.inputBuffer.Reset()
		}
	}
}

func (r *HostReader) dispatch(f Frame) {
	s, err := ParseStatus(f.Payload)
	if err != nil {
		r.badPayloads++
		return
	}
	if r.handler != nil {
		r.handler(f.Sequence, s)
	}
}

func (r *HostReader) setErr(err error) {
	r.mu.Lock()
	r.err = err
	r.mu.Unlock()
}

// Err returns the last read error
func (r *HostReader) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Stats returns the decoder counters and the number of frames whose payload
// did not parse
func (r *HostReader) Stats() (DecoderStats, uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.decoder.Stats(), r.badPayloads
}

// Done is closed when the read loop exits
func (r *HostReader) Done() <-chan struct{} {
	return r.doneChan
}

// Close stops the read loop and closes the port if it is a Closer. Closing
// the port unblocks a pending Read.
func (r *HostReader) Close() error {
	var err error
	r.stopOnce.Do(func() {
		close(r.stopChan)
		if c, ok := r.port.(io.Closer); ok {
			err = c.Close()
		}
	})
	<-r.doneChan
	return err
}
