package bmsddriver

import (
	"bytes"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.bug.st/serial"
)

const (
	SERIAL_BAUD_RATE    = 9600
	SERIAL_DATA_BITS    = 8
	SERIAL_READ_TIMEOUT = 1 * time.Second

	// Controller settling time after a frame, then a gap before the next one.
	POLL_SETTLE_DELAY   = 500 * time.Millisecond
	POLL_TRAILING_DELAY = 100 * time.Millisecond

	RESPONSE_LINE_MAX = 256
)

// Port is the subset of a serial port the transport needs.
type Port interface {
	Read(p []byte) (n int, err error)
	Write(p []byte) (n int, err error)
	SetReadTimeout(t time.Duration) error
	Close() error
}

// Poller sends a command and collects the controller's reply.
type Poller interface {
	Poll(cmd Command) ([]byte, error)
}

var openSerialPort = func(name string, mode *serial.Mode) (Port, error) {
	return serial.Open(name, mode)
}

func serialMode() *serial.Mode {
	return &serial.Mode{
		BaudRate: SERIAL_BAUD_RATE,
		DataBits: SERIAL_DATA_BITS,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
}

// Transport frames commands onto the RS-485 link with fixed open-loop pacing.
type Transport struct {
	name    string
	port    Port
	pending []byte
	sleep   func(time.Duration)
}

// OpenTransport opens portName at 9600 8N1 with a one second read timeout.
func OpenTransport(portName string) (*Transport, error) {
	INFOLogger.Printf("Opening %s...", portName)

	if portName == "" || strings.ContainsAny(portName, "\x00\r\n") {
		return nil, &TransportOpenError{
			Port: portName,
			Kind: OpenInvalidParameters,
			Err:  errors.New("invalid port identifier"),
		}
	}

	port, err := openSerialPort(portName, serialMode())
	if err != nil {
		return nil, &TransportOpenError{Port: portName, Kind: classifyOpenError(err), Err: err}
	}

	if err := port.SetReadTimeout(SERIAL_READ_TIMEOUT); err != nil {
		port.Close()
		return nil, &TransportOpenError{
			Port: portName,
			Kind: OpenInvalidParameters,
			Err:  errors.Wrap(err, "setting read timeout"),
		}
	}

	INFOLogger.Printf("Opened %s at %d baud", portName, SERIAL_BAUD_RATE)
	return NewTransport(portName, port), nil
}

// NewTransport wraps an already opened port.
func NewTransport(name string, port Port) *Transport {
	return &Transport{
		name:  name,
		port:  port,
		sleep: time.Sleep,
	}
}

func classifyOpenError(err error) OpenErrorKind {
	var portErr *serial.PortError
	if errors.As(err, &portErr) {
		switch portErr.Code() {
		case serial.InvalidSerialPort,
			serial.InvalidSpeed,
			serial.InvalidDataBits,
			serial.InvalidParity,
			serial.InvalidStopBits,
			serial.InvalidTimeoutValue:
			return OpenInvalidParameters
		}
	}
	return OpenDeviceNotFound
}

// Send writes cmd once. Failures are not retried.
func (t *Transport) Send(cmd Command) error {
	n, err := t.port.Write(cmd)
	if err == nil && n < len(cmd) {
		err = errors.Errorf("short write: %d of %d bytes", n, len(cmd))
	}
	if err != nil {
		return &TransportWriteError{Command: cmd, Err: errors.Wrapf(err, "writing to %s", t.name)}
	}
	return nil
}

// Poll sends cmd, waits for the controller to settle, reads one reply line
// and waits again. A failed write is logged and returned but the pacing
// still runs in full.
func (t *Transport) Poll(cmd Command) ([]byte, error) {
	DEBUGLogger.Printf("Polling %s", cmd)

	sendErr := t.Send(cmd)
	if sendErr != nil {
		ERRORLogger.Printf("Error sending data: %v", sendErr)
	}

	t.sleep(POLL_SETTLE_DELAY)

	line, err := t.ReadLine()
	if err != nil {
		DEBUGLogger.Printf("Reading reply from %s: %v", t.name, err)
	}
	line = bytes.TrimRight(line, "\r\n")
	if len(line) > 0 {
		INFOLogger.Printf("Reply to %s: %q", cmd, line)
	}

	t.sleep(POLL_TRAILING_DELAY)

	return line, sendErr
}

// ReadLine returns bytes up to and including the next newline. On a read
// timeout whatever arrived so far is returned, possibly nothing.
func (t *Transport) ReadLine() ([]byte, error) {
	buf := make([]byte, 64)
	for {
		if i := bytes.IndexByte(t.pending, '\n'); i >= 0 {
			line := t.pending[:i+1]
			t.pending = append([]byte(nil), t.pending[i+1:]...)
			return line, nil
		}
		if len(t.pending) >= RESPONSE_LINE_MAX {
			line := t.pending
			t.pending = nil
			return line, nil
		}

		n, err := t.port.Read(buf)
		if n > 0 {
			t.pending = append(t.pending, buf[:n]...)
			continue
		}

		line := t.pending
		t.pending = nil
		return line, err
	}
}

func (t *Transport) Close() error {
	INFOLogger.Printf("Closing %s", t.name)
	return t.port.Close()
}
