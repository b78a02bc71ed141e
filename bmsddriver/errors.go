package bmsddriver

import (
	"fmt"
)

// ConfigError means the port-identifier config could not be read. Fatal.
type ConfigError struct {
	Path string
	Err  error
}

func (err *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %v", err.Path, err.Err)
}

func (err *ConfigError) Unwrap() error {
	return err.Err
}

type OpenErrorKind int

const (
	OpenInvalidParameters OpenErrorKind = iota
	OpenDeviceNotFound
)

func (k OpenErrorKind) String() string {
	switch k {
	case OpenInvalidParameters:
		return "parameters are out of range"
	case OpenDeviceNotFound:
		return "serial port not found"
	}
	return "unknown"
}

// TransportOpenError means the serial port could not be opened. Fatal.
type TransportOpenError struct {
	Port string
	Kind OpenErrorKind
	Err  error
}

func (err *TransportOpenError) Error() string {
	return fmt.Sprintf("opening %q: %s: %v", err.Port, err.Kind, err.Err)
}

func (err *TransportOpenError) Unwrap() error {
	return err.Err
}

// TransportWriteError means a frame was not fully written. The frame is dropped.
type TransportWriteError struct {
	Command Command
	Err     error
}

func (err *TransportWriteError) Error() string {
	return fmt.Sprintf("sending %s: %v", err.Command, err.Err)
}

func (err *TransportWriteError) Unwrap() error {
	return err.Err
}
