package modbus

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"

	gomodbus "github.com/goburrow/modbus"
	goserial "github.com/goburrow/serial"
)

var (
	ErrNotConnected    = errors.New("modbus: client not connected")
	ErrInvalidUnit     = errors.New("modbus: unit address must be 1..247")
	ErrInvalidQuantity = errors.New("modbus: invalid register quantity")

	// ErrTimeout means nothing answered within the configured timeout.
	ErrTimeout = errors.New("modbus: response timeout")
	// ErrMalformed means a response arrived but failed structural checks.
	ErrMalformed = errors.New("modbus: malformed response")
	// ErrIO is a transport failure. The client is disconnected when it happens.
	ErrIO = errors.New("modbus: transport i/o failure")
)

// ProtocolError is an exception response or a structurally invalid response.
// Exception is 0 for the latter.
type ProtocolError struct {
	Unit      byte
	Function  byte
	Exception byte
	Err       error
}

func (e *ProtocolError) Error() string {
	if e.Exception != 0 {
		return fmt.Sprintf("modbus: unit=%d fc=%d exception=%d: %v", e.Unit, e.Function, e.Exception, e.Err)
	}
	return fmt.Sprintf("modbus: unit=%d fc=%d: %v", e.Unit, e.Function, e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// Code returns the Modbus exception code, 0 when the device sent none.
func (e *ProtocolError) Code() uint16 { return uint16(e.Exception) }

// classify folds a library error into the client's taxonomy.
func classify(fc, unit byte, address uint16, err error) error {
	var mbErr *gomodbus.ModbusError
	switch {
	case errors.As(err, &mbErr):
		return &ProtocolError{Unit: unit, Function: fc, Exception: mbErr.ExceptionCode, Err: err}

	case errors.Is(err, ErrMalformed):
		return &ProtocolError{Unit: unit, Function: fc, Err: err}

	case isTimeout(err):
		return fmt.Errorf("%w: unit=%d fc=%d addr=%d", ErrTimeout, unit, fc, address)

	// goburrow reports crc, length and echo mismatches as plain "modbus: ..." errors.
	case strings.HasPrefix(err.Error(), "modbus: "):
		return &ProtocolError{Unit: unit, Function: fc, Err: fmt.Errorf("%w: %v", ErrMalformed, err)}

	default:
		return fmt.Errorf("%w: unit=%d fc=%d addr=%d: %v", ErrIO, unit, fc, address, err)
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, goserial.ErrTimeout) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}
