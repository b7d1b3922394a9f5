package serial

import (
	"fmt"
	"log"
	"sync"

	"github.com/goburrow/modbus"
	goserial "github.com/goburrow/serial"
)

// Option tweaks a Transport before the port is opened.
type Option func(h *modbus.RTUClientHandler)

// WithFrameLogger makes the RTU handler dump every request and response ADU.
func WithFrameLogger(l *log.Logger) Option {
	return func(h *modbus.RTUClientHandler) {
		h.Logger = l
	}
}

// Transport owns one open serial port framed as Modbus RTU.
// Framing and CRC are left to the goburrow handler.
type Transport struct {
	mu      sync.Mutex
	handler *modbus.RTUClientHandler
	client  modbus.Client
	closed  bool
}

// Open validates p and opens the port once. There are no retries; on failure
// nothing is held and the OS reason is kept in a *ConnectionError.
func Open(p ConnectionParams, opts ...Option) (*Transport, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	h := modbus.NewRTUClientHandler(p.Port)
	h.BaudRate = p.BaudRate
	h.DataBits = p.DataBits
	h.Parity = p.Parity
	h.StopBits = p.StopBits
	h.Timeout = p.Timeout
	// no idle close, no silent reopen
	h.IdleTimeout = 0
	for _, opt := range opts {
		opt(h)
	}

	if err := h.Connect(); err != nil {
		_ = h.Close()
		return nil, &ConnectionError{Port: p.Port, Err: err}
	}

	return &Transport{
		handler: h,
		client:  modbus.NewClient(h),
	}, nil
}

// Diagnose opens and immediately closes the raw port with the same settings.
// It exists only to surface the OS error when the RTU handler failed to open.
func Diagnose(p ConnectionParams) error {
	port, err := goserial.Open(rawConfig(p))
	if err != nil {
		return err
	}
	return port.Close()
}

func rawConfig(p ConnectionParams) *goserial.Config {
	return &goserial.Config{
		Address:  p.Port,
		BaudRate: p.BaudRate,
		DataBits: p.DataBits,
		StopBits: p.StopBits,
		Parity:   p.Parity,
		Timeout:  p.Timeout,
	}
}

// SetUnit selects the slave address for the next transaction.
func (t *Transport) SetUnit(unit byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handler.SlaveId = unit
}

func (t *Transport) ReadHoldingRegisters(address, quantity uint16) ([]byte, error) {
	return t.client.ReadHoldingRegisters(address, quantity)
}

func (t *Transport) ReadInputRegisters(address, quantity uint16) ([]byte, error) {
	return t.client.ReadInputRegisters(address, quantity)
}

func (t *Transport) WriteSingleRegister(address, value uint16) ([]byte, error) {
	return t.client.WriteSingleRegister(address, value)
}

func (t *Transport) WriteMultipleRegisters(address, quantity uint16, value []byte) ([]byte, error) {
	return t.client.WriteMultipleRegisters(address, quantity, value)
}

// RawExchange is one request/response pair sent outside the register API.
type RawExchange struct {
	Request  []byte // request ADU as sent, CRC included
	Response []byte // response ADU as received
	Function byte   // function code of the response, exception bit kept
	Data     []byte // response PDU data
}

// Exchange sends req (unit address, function code, data; no CRC) as one RTU
// frame and returns the verified response, bounded by the configured timeout.
// The goburrow packager adds the CRC and checks the reply.
func (t *Transport) Exchange(req []byte) (*RawExchange, error) {
	if len(req) < 2 {
		return nil, fmt.Errorf("serial: request needs unit and function code, got %d bytes", len(req))
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil, fmt.Errorf("serial: exchange on closed port %s", t.handler.Address)
	}

	adu, err := t.encode(req[0], &modbus.ProtocolDataUnit{FunctionCode: req[1], Data: req[2:]})
	if err != nil {
		return nil, err
	}
	resp, err := t.handler.Send(adu)
	if err != nil {
		return nil, err
	}
	if err := t.handler.Verify(adu, resp); err != nil {
		return nil, err
	}
	pdu, err := t.handler.Decode(resp)
	if err != nil {
		return nil, err
	}
	return &RawExchange{Request: adu, Response: resp, Function: pdu.FunctionCode, Data: pdu.Data}, nil
}

// encode frames pdu for unit. The caller holds t.mu.
func (t *Transport) encode(unit byte, pdu *modbus.ProtocolDataUnit) ([]byte, error) {
	t.handler.SlaveId = unit
	return t.handler.Encode(pdu)
}

// Close releases the port. Calling it again is a no-op.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	return t.handler.Close()
}
