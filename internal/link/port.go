package link

import (
	"io"

	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"
	"go.bug.st/serial"
)

// Port is an open serial device.
type Port interface {
	Device
	io.Closer
}

// Open opens the named serial port at baud, 8N1.
func Open(name string, baud int) (Port, error) {
	if name == "" {
		return nil, errors.New("no serial port given")
	}
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(name, mode)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open serial port %s at %d baud", name, baud)
	}
	return port, nil
}

// ListPorts returns the serial ports present on the system.
func ListPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, errors.Wrap(err, "failed to enumerate serial ports")
	}
	return ports, nil
}

// Transmitter is what the tracking loop sends positions through.
type Transmitter interface {
	Send(v float32) error
}

// DryRun logs positions instead of writing them to a device.
type DryRun struct {
	Logger hclog.Logger
}

// Send logs the message bytes.
func (d DryRun) Send(v float32) error {
	msg := Encode(v)
	d.Logger.Debug("dry run", "value", v, "bytes", msg[:])
	return nil
}
