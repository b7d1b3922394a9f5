package modbus

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tetragramaton/smh-rtu/internal/client/serial"
	modbusIface "github.com/tetragramaton/smh-rtu/internal/interface/modbus"
)

const (
	FuncReadHolding   byte = 3
	FuncReadInput     byte = 4
	FuncWriteSingle   byte = 6
	FuncWriteMultiple byte = 16
)

const (
	MinUnit byte = 1
	MaxUnit byte = 247

	MaxReadQuantity  = 125
	MaxWriteQuantity = 123
)

// Dialer opens one transport. It must not retry.
type Dialer func(p serial.ConnectionParams) (modbusIface.Transport, error)

// SerialDialer opens RTU transports on real serial ports. Frames are dumped
// when logger is at trace level.
func SerialDialer(logger zerolog.Logger) Dialer {
	return func(p serial.ConnectionParams) (modbusIface.Transport, error) {
		var opts []serial.Option
		if logger.GetLevel() <= zerolog.TraceLevel {
			frames := logger.With().Str("component", "rtu-frame").Logger()
			opts = append(opts, serial.WithFrameLogger(log.New(frames, "", 0)))
		}
		tr, err := serial.Open(p, opts...)
		if err != nil {
			return nil, err
		}
		return tr, nil
	}
}

// Option configures a Client.
type Option func(c *Client)

// WithDiagnoser replaces the secondary open used to explain connect failures.
func WithDiagnoser(fn func(p serial.ConnectionParams) error) Option {
	return func(c *Client) { c.diagnose = fn }
}

// link exists only while connected and is the sole owner of the transport.
type link struct {
	tr     modbusIface.Transport
	params serial.ConnectionParams
}

// Client is a Modbus RTU master on one serial bus.
// Requests are serialized because the unit address is set on the shared
// transport before every transaction.
type Client struct {
	mu        sync.Mutex
	logger    zerolog.Logger
	dial      Dialer
	diagnose  func(p serial.ConnectionParams) error
	link      *link
	lastError string
}

var _ modbusIface.Connector = (*Client)(nil)

// NewClient creates a disconnected client.
func NewClient(logger zerolog.Logger, dial Dialer, opts ...Option) *Client {
	c := &Client{
		logger:   logger.With().Str("component", "modbus").Logger(),
		dial:     dial,
		diagnose: serial.Diagnose,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect closes any open transport and opens a new one with p.
// On failure the client stays disconnected and LastError holds the most
// specific reason found.
func (c *Client) Connect(p serial.ConnectionParams) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closeLocked()
	c.lastError = ""

	c.logger.Info().Str("params", p.String()).Dur("timeout", p.Timeout).Msg("connecting modbus rtu")

	if err := p.Validate(); err != nil {
		c.lastError = err.Error()
		c.logger.Error().Err(err).Msg("rejected connection parameters")
		return err
	}

	tr, err := c.dial(p)
	if err != nil {
		c.lastError = err.Error()
		if c.diagnose != nil {
			if derr := c.diagnose(p); derr != nil {
				c.lastError = derr.Error()
				err = &serial.ConnectionError{Port: p.Port, Err: derr}
			}
		}
		c.logger.Error().Err(err).Str("port", p.Port).Msg("failed to open serial port")
		return err
	}

	c.link = &link{tr: tr, params: p}
	c.logger.Info().Str("port", p.Port).Msg("connected")
	return nil
}

// Close releases the transport. It is idempotent and never fails; release
// errors are only logged.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
}

func (c *Client) closeLocked() {
	if c.link == nil {
		return
	}
	if err := c.link.tr.Close(); err != nil {
		c.logger.Warn().Err(err).Str("port", c.link.params.Port).Msg("error closing serial port")
	}
	c.logger.Debug().Str("port", c.link.params.Port).Msg("disconnected")
	c.link = nil
}

// Connected reports whether a transport is open.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.link != nil
}

// LastError is the diagnostic from the last failed connect or the last
// transport failure, "" when there is none.
func (c *Client) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastError
}

// Params returns the parameters of the open link.
func (c *Client) Params() (serial.ConnectionParams, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.link == nil {
		return serial.ConnectionParams{}, false
	}
	return c.link.params, true
}

// ReadHolding reads count holding registers (FC03). Any exception, timeout or
// malformed answer is returned as an error and no words are returned.
func (c *Client) ReadHolding(unit byte, address, count uint16) ([]uint16, error) {
	return c.read(FuncReadHolding, unit, address, count)
}

// ReadInput reads count input registers (FC04).
func (c *Client) ReadInput(unit byte, address, count uint16) ([]uint16, error) {
	return c.read(FuncReadInput, unit, address, count)
}

func (c *Client) read(fc, unit byte, address, count uint16) ([]uint16, error) {
	if err := checkUnit(unit); err != nil {
		return nil, err
	}
	if count < 1 || count > MaxReadQuantity {
		return nil, fmt.Errorf("%w: read count %d must be 1..%d", ErrInvalidQuantity, count, MaxReadQuantity)
	}

	var regs []uint16
	err := c.transact(fc, unit, address, func(tr modbusIface.Transport) error {
		var (
			b   []byte
			err error
		)
		if fc == FuncReadInput {
			b, err = tr.ReadInputRegisters(address, count)
		} else {
			b, err = tr.ReadHoldingRegisters(address, count)
		}
		if err != nil {
			return err
		}
		if len(b) != int(count)*2 {
			return fmt.Errorf("%w: got %d bytes, want %d", ErrMalformed, len(b), int(count)*2)
		}
		regs = unpackRegisters(b)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return regs, nil
}

// WriteSingleRegister writes one raw word (FC06).
func (c *Client) WriteSingleRegister(unit byte, address, value uint16) error {
	if err := checkUnit(unit); err != nil {
		return err
	}
	return c.transact(FuncWriteSingle, unit, address, func(tr modbusIface.Transport) error {
		_, err := tr.WriteSingleRegister(address, value)
		return err
	})
}

// WriteMultipleRegisters writes consecutive raw words (FC16).
func (c *Client) WriteMultipleRegisters(unit byte, address uint16, values []uint16) error {
	if err := checkUnit(unit); err != nil {
		return err
	}
	if len(values) < 1 || len(values) > MaxWriteQuantity {
		return fmt.Errorf("%w: write count %d must be 1..%d", ErrInvalidQuantity, len(values), MaxWriteQuantity)
	}
	return c.transact(FuncWriteMultiple, unit, address, func(tr modbusIface.Transport) error {
		_, err := tr.WriteMultipleRegisters(address, uint16(len(values)), packRegisters(values))
		return err
	})
}

// transact runs op against the open transport for one unit.
// Transport I/O failures close the link before the error is returned.
func (c *Client) transact(fc, unit byte, address uint16, op func(tr modbusIface.Transport) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.link == nil {
		return ErrNotConnected
	}

	c.link.tr.SetUnit(unit)
	raw := op(c.link.tr)
	if raw == nil {
		return nil
	}

	err := classify(fc, unit, address, raw)
	ev := c.logger.Debug()
	if fc == FuncWriteSingle || fc == FuncWriteMultiple {
		ev = c.logger.Warn()
	}
	ev.Err(err).Uint8("unit", unit).Uint8("fc", fc).Uint16("addr", address).Msg("modbus request failed")

	if errors.Is(err, ErrIO) {
		c.lastError = err.Error()
		c.closeLocked()
	}
	return err
}

func checkUnit(unit byte) error {
	if unit < MinUnit || unit > MaxUnit {
		return fmt.Errorf("%w: got %d", ErrInvalidUnit, unit)
	}
	return nil
}

func unpackRegisters(data []byte) []uint16 {
	n := len(data) / 2
	out := make([]uint16, n)
	for i := 0; i < n; i++ {
		out[i] = uint16(data[2*i])<<8 | uint16(data[2*i+1])
	}
	return out
}

func packRegisters(regs []uint16) []byte {
	out := make([]byte, len(regs)*2)
	for i, r := range regs {
		out[2*i] = byte(r >> 8)
		out[2*i+1] = byte(r)
	}
	return out
}
