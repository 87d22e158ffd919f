// Package link sends tracked positions to the levitation controller over a
// serial line.
//
// Every message is a single big-endian IEEE-754 binary32 value. Pending input
// and output are discarded before each write so the controller never sees
// bytes from two different frames.
package link

import (
	"encoding/binary"
	"io"
	"math"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"
)

// MessageSize is the length in bytes of one position message.
const MessageSize = 4

// DefaultWriteTimeout bounds a single Send.
const DefaultWriteTimeout = 200 * time.Millisecond

var (
	// ErrWriteTimeout is returned when a write does not finish within the timeout.
	ErrWriteTimeout = errors.New("link: write timed out")
	// ErrBusy is returned while a previously timed-out write is still blocked.
	ErrBusy = errors.New("link: previous write still in flight")
	// ErrShortWrite is returned when the device accepts fewer than MessageSize bytes.
	ErrShortWrite = errors.New("link: short write")
)

// Device is a serial line with explicit buffer clearing.
// go.bug.st/serial.Port satisfies it.
type Device interface {
	io.Writer
	ResetInputBuffer() error
	ResetOutputBuffer() error
}

// Encode returns v as a big-endian IEEE-754 binary32.
func Encode(v float32) [MessageSize]byte {
	var b [MessageSize]byte
	binary.BigEndian.PutUint32(b[:], math.Float32bits(v))
	return b
}

// Decode is the inverse of Encode.
func Decode(b [MessageSize]byte) float32 {
	return math.Float32frombits(binary.BigEndian.Uint32(b[:]))
}

// Link writes position messages to a Device with a bounded wait.
type Link struct {
	dev     Device
	timeout time.Duration
	logger  hclog.Logger

	// token is held by the goroutine performing a write.
	token chan struct{}
}

// New creates a link over dev. A zero timeout selects DefaultWriteTimeout.
func New(dev Device, timeout time.Duration, logger hclog.Logger) *Link {
	if timeout <= 0 {
		timeout = DefaultWriteTimeout
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Link{
		dev:     dev,
		timeout: timeout,
		logger:  logger,
		token:   make(chan struct{}, 1),
	}
}

// Send clears the device buffers and writes v. It returns ErrWriteTimeout if
// the write does not complete in time; the abandoned write keeps the device
// until it returns, and Sends in the meantime fail with ErrBusy. Failed sends
// are not retried.
func (l *Link) Send(v float32) error {
	select {
	case l.token <- struct{}{}:
	default:
		return ErrBusy
	}

	if err := l.clear(); err != nil {
		<-l.token
		return err
	}

	msg := Encode(v)
	done := make(chan error, 1)
	go func() {
		n, err := l.dev.Write(msg[:])
		if err == nil && n != MessageSize {
			err = errors.Wrapf(ErrShortWrite, "wrote %d of %d bytes", n, MessageSize)
		}
		// Release before reporting so a caller that saw the result can send again.
		<-l.token
		done <- err
	}()

	timer := time.NewTimer(l.timeout)
	defer timer.Stop()

	select {
	case err := <-done:
		if err != nil {
			return errors.Wrap(err, "serial write failed")
		}
		l.logger.Trace("sent position", "value", v)
		return nil
	case <-timer.C:
		return errors.Wrapf(ErrWriteTimeout, "after %s", l.timeout)
	}
}

func (l *Link) clear() error {
	if err := l.dev.ResetOutputBuffer(); err != nil {
		return errors.Wrap(err, "failed to clear output buffer")
	}
	if err := l.dev.ResetInputBuffer(); err != nil {
		return errors.Wrap(err, "failed to clear input buffer")
	}
	return nil
}
