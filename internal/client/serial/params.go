package serial

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidParams is returned for parameter combinations that are rejected
// before the port is touched.
var ErrInvalidParams = errors.New("serial: invalid connection parameters")

const (
	ParityNone = "N"
	ParityEven = "E"
	ParityOdd  = "O"
)

// Defaults used when a collaborator leaves a field unset.
const (
	DefaultBaudRate = 9600
	DefaultParity   = ParityNone
	DefaultStopBits = 1
	DefaultDataBits = 8
	DefaultTimeout  = 300 * time.Millisecond
)

// ConnectionParams describes one connection attempt. It is immutable once
// handed to Open.
type ConnectionParams struct {
	Port     string        `json:"port" yaml:"port"`
	BaudRate int           `json:"baud" yaml:"baud"`
	Parity   string        `json:"parity" yaml:"parity"` // "N","E","O"
	StopBits int           `json:"stop_bits" yaml:"stop_bits"`
	DataBits int           `json:"data_bits" yaml:"data_bits"`
	Timeout  time.Duration `json:"timeout" yaml:"timeout"`
}

// DefaultParams returns 9600 8N1 with a 300ms timeout on the given port.
func DefaultParams(port string) ConnectionParams {
	return ConnectionParams{
		Port:     port,
		BaudRate: DefaultBaudRate,
		Parity:   DefaultParity,
		StopBits: DefaultStopBits,
		DataBits: DefaultDataBits,
		Timeout:  DefaultTimeout,
	}
}

// Validate checks the parameter combination. It does not open anything.
func (p ConnectionParams) Validate() error {
	if strings.TrimSpace(p.Port) == "" {
		return fmt.Errorf("%w: port required", ErrInvalidParams)
	}
	if p.BaudRate <= 0 {
		return fmt.Errorf("%w: baud rate %d must be > 0", ErrInvalidParams, p.BaudRate)
	}
	switch p.Parity {
	case ParityNone, ParityEven, ParityOdd:
	default:
		return fmt.Errorf("%w: parity %q must be one of N, E, O", ErrInvalidParams, p.Parity)
	}
	if p.StopBits != 1 && p.StopBits != 2 {
		return fmt.Errorf("%w: stop bits %d must be 1 or 2", ErrInvalidParams, p.StopBits)
	}
	if p.DataBits != 7 && p.DataBits != 8 {
		return fmt.Errorf("%w: data bits %d must be 7 or 8", ErrInvalidParams, p.DataBits)
	}
	if p.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be > 0", ErrInvalidParams)
	}
	return nil
}

// String renders the parameters the way operators read them, e.g.
// "/dev/ttyUSB0 @9600 8N1".
func (p ConnectionParams) String() string {
	return fmt.Sprintf("%s @%d %d%s%d", p.Port, p.BaudRate, p.DataBits, p.Parity, p.StopBits)
}

// ConnectionError reports a failed open. Err is the most specific OS-level
// reason available (permission denied, device busy, no such device).
type ConnectionError struct {
	Port string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("serial: open %s: %v", e.Port, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }
