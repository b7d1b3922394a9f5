package serial

import (
	"bytes"
	"fmt"
	"io"

	goserial "github.com/goburrow/serial"
)

// DefaultLoopbackPayload alternates every bit so stuck lines show up.
var DefaultLoopbackPayload = []byte{0x55, 0xAA}

// Loopback writes payload to the raw port and expects to read the same bytes
// back within the timeout. TX and RX must be bridged on the adapter.
func Loopback(p ConnectionParams, payload []byte) (bool, error) {
	if err := p.Validate(); err != nil {
		return false, err
	}
	if len(payload) == 0 {
		payload = DefaultLoopbackPayload
	}

	port, err := goserial.Open(rawConfig(p))
	if err != nil {
		return false, &ConnectionError{Port: p.Port, Err: err}
	}
	defer port.Close()

	if _, err := port.Write(payload); err != nil {
		return false, fmt.Errorf("serial: loopback write: %w", err)
	}

	got := make([]byte, len(payload))
	if _, err := io.ReadFull(port, got); err != nil {
		if err == goserial.ErrTimeout || err == io.ErrUnexpectedEOF {
			return false, nil
		}
		return false, fmt.Errorf("serial: loopback read: %w", err)
	}
	return bytes.Equal(got, payload), nil
}
