package modbus

import (
	"errors"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	gomodbus "github.com/goburrow/modbus"
	goserial "github.com/goburrow/serial"
	"github.com/rs/zerolog"

	"github.com/tetragramaton/smh-rtu/internal/client/serial"
	modbusIface "github.com/tetragramaton/smh-rtu/internal/interface/modbus"
	mock_modbus "github.com/tetragramaton/smh-rtu/internal/mocks/modbus"
)

var testParams = serial.DefaultParams("/dev/ttyUSB0")

// connected returns a client already connected to tr.
func connected(t *testing.T, tr modbusIface.Transport) *Client {
	t.Helper()
	c := NewClient(zerolog.Nop(), func(serial.ConnectionParams) (modbusIface.Transport, error) {
		return tr, nil
	})
	if err := c.Connect(testParams); err != nil {
		t.Fatalf("Connect() err=%v", err)
	}
	return c
}

func TestNewClient_StartsDisconnected(t *testing.T) {
	c := NewClient(zerolog.Nop(), func(serial.ConnectionParams) (modbusIface.Transport, error) {
		t.Fatalf("dialer must not be called")
		return nil, nil
	})
	if c.Connected() {
		t.Fatalf("new client must be disconnected")
	}
	if c.LastError() != "" {
		t.Fatalf("unexpected last error %q", c.LastError())
	}
}

func TestDisconnected_NoTransportTouched(t *testing.T) {
	ctrl := gomock.NewController(t)
	tr := mock_modbus.NewMockTransport(ctrl)
	tr.EXPECT().Close().Return(nil).Times(1)

	c := connected(t, tr)
	c.Close()

	// Any call on tr from here on fails the test.
	if _, err := c.ReadHolding(1, 0, 1); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("ReadHolding: expected ErrNotConnected, got %v", err)
	}
	if _, err := c.ReadInput(1, 0, 1); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("ReadInput: expected ErrNotConnected, got %v", err)
	}
	if err := c.WriteSingleRegister(1, 0, 1); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("WriteSingleRegister: expected ErrNotConnected, got %v", err)
	}
	if err := c.WriteMultipleRegisters(1, 0, []uint16{1}); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("WriteMultipleRegisters: expected ErrNotConnected, got %v", err)
	}
}

func TestConnect_FailureUsesDiagnosedReason(t *testing.T) {
	osErr := errors.New("open /dev/ttyUSB0: permission denied")

	c := NewClient(zerolog.Nop(),
		func(serial.ConnectionParams) (modbusIface.Transport, error) {
			return nil, errors.New("could not open port")
		},
		WithDiagnoser(func(serial.ConnectionParams) error { return osErr }),
	)

	err := c.Connect(testParams)
	var ce *serial.ConnectionError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *serial.ConnectionError, got %v", err)
	}
	if !errors.Is(err, osErr) {
		t.Fatalf("expected OS error in chain, got %v", err)
	}
	if c.Connected() {
		t.Fatalf("client must stay disconnected")
	}
	if c.LastError() != osErr.Error() {
		t.Fatalf("last error: got=%q want=%q", c.LastError(), osErr.Error())
	}
}

func TestConnect_FailureKeepsDialErrorWhenDiagnoseSucceeds(t *testing.T) {
	dialErr := errors.New("could not open port")

	c := NewClient(zerolog.Nop(),
		func(serial.ConnectionParams) (modbusIface.Transport, error) { return nil, dialErr },
		WithDiagnoser(func(serial.ConnectionParams) error { return nil }),
	)

	if err := c.Connect(testParams); !errors.Is(err, dialErr) {
		t.Fatalf("expected dial error, got %v", err)
	}
	if c.LastError() != dialErr.Error() {
		t.Fatalf("last error: got=%q", c.LastError())
	}
}

func TestConnect_InvalidParamsNeverDial(t *testing.T) {
	c := NewClient(zerolog.Nop(),
		func(serial.ConnectionParams) (modbusIface.Transport, error) {
			t.Fatalf("dialer must not be called")
			return nil, nil
		},
		WithDiagnoser(func(serial.ConnectionParams) error {
			t.Fatalf("diagnoser must not be called")
			return nil
		}),
	)

	p := testParams
	p.StopBits = 3
	if err := c.Connect(p); !errors.Is(err, serial.ErrInvalidParams) {
		t.Fatalf("expected ErrInvalidParams, got %v", err)
	}
	if c.LastError() == "" {
		t.Fatalf("expected last error to be set")
	}
}

func TestConnect_ReconnectClosesPrevious(t *testing.T) {
	ctrl := gomock.NewController(t)
	first := mock_modbus.NewMockTransport(ctrl)
	second := mock_modbus.NewMockTransport(ctrl)
	first.EXPECT().Close().Return(nil).Times(1)

	dials := []modbusIface.Transport{first, second}
	c := NewClient(zerolog.Nop(), func(serial.ConnectionParams) (modbusIface.Transport, error) {
		tr := dials[0]
		dials = dials[1:]
		return tr, nil
	})

	if err := c.Connect(testParams); err != nil {
		t.Fatalf("first Connect err=%v", err)
	}
	if err := c.Connect(testParams); err != nil {
		t.Fatalf("second Connect err=%v", err)
	}
	if !c.Connected() {
		t.Fatalf("expected connected")
	}
}

func TestClose_Idempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	tr := mock_modbus.NewMockTransport(ctrl)
	tr.EXPECT().Close().Return(errors.New("close failed")).Times(1)

	c := connected(t, tr)
	c.Close()
	c.Close()

	if c.Connected() {
		t.Fatalf("expected disconnected")
	}
}

func TestReadHolding_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	tr := mock_modbus.NewMockTransport(ctrl)
	gomock.InOrder(
		tr.EXPECT().SetUnit(byte(5)),
		tr.EXPECT().ReadHoldingRegisters(uint16(10), uint16(2)).Return([]byte{0x12, 0x34, 0xAB, 0xCD}, nil),
	)

	c := connected(t, tr)
	regs, err := c.ReadHolding(5, 10, 2)
	if err != nil {
		t.Fatalf("ReadHolding err=%v", err)
	}
	if len(regs) != 2 || regs[0] != 0x1234 || regs[1] != 0xABCD {
		t.Fatalf("unexpected registers %#v", regs)
	}
}

func TestReadInput_UsesFC4(t *testing.T) {
	ctrl := gomock.NewController(t)
	tr := mock_modbus.NewMockTransport(ctrl)
	tr.EXPECT().SetUnit(byte(247))
	tr.EXPECT().ReadInputRegisters(uint16(0), uint16(1)).Return([]byte{0x00, 0x2A}, nil)

	c := connected(t, tr)
	regs, err := c.ReadInput(247, 0, 1)
	if err != nil {
		t.Fatalf("ReadInput err=%v", err)
	}
	if regs[0] != 42 {
		t.Fatalf("got=%d want=42", regs[0])
	}
}

func TestRead_ExceptionIsProtocolErrorAndStaysConnected(t *testing.T) {
	ctrl := gomock.NewController(t)
	tr := mock_modbus.NewMockTransport(ctrl)
	tr.EXPECT().SetUnit(byte(1)).Times(2)
	gomock.InOrder(
		tr.EXPECT().ReadHoldingRegisters(uint16(100), uint16(1)).Return(nil, &gomodbus.ModbusError{
			FunctionCode:  0x83,
			ExceptionCode: gomodbus.ExceptionCodeIllegalDataAddress,
		}),
		tr.EXPECT().ReadHoldingRegisters(uint16(0), uint16(1)).Return([]byte{0, 1}, nil),
	)

	c := connected(t, tr)

	regs, err := c.ReadHolding(1, 100, 1)
	if regs != nil {
		t.Fatalf("no partial result expected, got %v", regs)
	}
	var pe *ProtocolError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ProtocolError, got %v", err)
	}
	if pe.Code() != 2 || pe.Function != FuncReadHolding || pe.Unit != 1 {
		t.Fatalf("unexpected protocol error %+v", pe)
	}
	if !c.Connected() {
		t.Fatalf("exception must not disconnect")
	}

	if _, err := c.ReadHolding(1, 0, 1); err != nil {
		t.Fatalf("follow-up read err=%v", err)
	}
}

func TestRead_TimeoutStaysConnected(t *testing.T) {
	ctrl := gomock.NewController(t)
	tr := mock_modbus.NewMockTransport(ctrl)
	tr.EXPECT().SetUnit(byte(9))
	tr.EXPECT().ReadHoldingRegisters(uint16(0), uint16(1)).Return(nil, goserial.ErrTimeout)

	c := connected(t, tr)
	if _, err := c.ReadHolding(9, 0, 1); !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	if !c.Connected() {
		t.Fatalf("timeout must not disconnect")
	}
	if c.LastError() != "" {
		t.Fatalf("timeout must not set last error, got %q", c.LastError())
	}
}

func TestRead_MalformedResponses(t *testing.T) {
	tests := []struct {
		name string
		resp []byte
		err  error
	}{
		{"short payload", []byte{0x00}, nil},
		{"long payload", []byte{0, 1, 0, 2, 0, 3}, nil},
		{"crc mismatch", nil, errors.New("modbus: response crc '1234' does not match expected '4321'")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			tr := mock_modbus.NewMockTransport(ctrl)
			tr.EXPECT().SetUnit(byte(3))
			tr.EXPECT().ReadHoldingRegisters(uint16(0), uint16(2)).Return(tt.resp, tt.err)

			c := connected(t, tr)
			regs, err := c.ReadHolding(3, 0, 2)
			if regs != nil {
				t.Fatalf("no partial result expected, got %v", regs)
			}
			var pe *ProtocolError
			if !errors.As(err, &pe) || !errors.Is(err, ErrMalformed) {
				t.Fatalf("expected malformed protocol error, got %v", err)
			}
			if pe.Code() != 0 {
				t.Fatalf("malformed response has no exception code, got %d", pe.Code())
			}
			if !c.Connected() {
				t.Fatalf("malformed response must not disconnect")
			}
		})
	}
}

func TestRead_IOFailureForcesClose(t *testing.T) {
	ctrl := gomock.NewController(t)
	tr := mock_modbus.NewMockTransport(ctrl)
	tr.EXPECT().SetUnit(byte(1))
	tr.EXPECT().ReadHoldingRegisters(uint16(0), uint16(1)).Return(nil, errors.New("read /dev/ttyUSB0: input/output error"))
	tr.EXPECT().Close().Return(nil).Times(1)

	c := connected(t, tr)
	if _, err := c.ReadHolding(1, 0, 1); !errors.Is(err, ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
	if c.Connected() {
		t.Fatalf("i/o failure must disconnect")
	}
	if !strings.Contains(c.LastError(), "input/output error") {
		t.Fatalf("last error should carry the i/o reason, got %q", c.LastError())
	}
	if _, err := c.ReadHolding(1, 0, 1); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected after forced close, got %v", err)
	}
}

func TestArguments_RejectedBeforeIO(t *testing.T) {
	ctrl := gomock.NewController(t)
	tr := mock_modbus.NewMockTransport(ctrl)
	c := connected(t, tr)

	if _, err := c.ReadHolding(0, 0, 1); !errors.Is(err, ErrInvalidUnit) {
		t.Fatalf("unit 0: expected ErrInvalidUnit, got %v", err)
	}
	if _, err := c.ReadInput(248, 0, 1); !errors.Is(err, ErrInvalidUnit) {
		t.Fatalf("unit 248: expected ErrInvalidUnit, got %v", err)
	}
	if _, err := c.ReadHolding(1, 0, 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("count 0: expected ErrInvalidQuantity, got %v", err)
	}
	if _, err := c.ReadHolding(1, 0, 126); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("count 126: expected ErrInvalidQuantity, got %v", err)
	}
	if err := c.WriteSingleRegister(0, 0, 1); !errors.Is(err, ErrInvalidUnit) {
		t.Fatalf("write unit 0: expected ErrInvalidUnit, got %v", err)
	}
	if err := c.WriteMultipleRegisters(1, 0, nil); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("empty write: expected ErrInvalidQuantity, got %v", err)
	}
	if err := c.WriteMultipleRegisters(1, 0, make([]uint16, 124)); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("oversized write: expected ErrInvalidQuantity, got %v", err)
	}
}

func TestWriteSingleRegister(t *testing.T) {
	ctrl := gomock.NewController(t)
	tr := mock_modbus.NewMockTransport(ctrl)
	gomock.InOrder(
		tr.EXPECT().SetUnit(byte(2)),
		tr.EXPECT().WriteSingleRegister(uint16(40), uint16(0xFFFE)).Return([]byte{0xFF, 0xFE}, nil),
		tr.EXPECT().SetUnit(byte(2)),
		tr.EXPECT().WriteSingleRegister(uint16(40), uint16(1)).Return(nil, &gomodbus.ModbusError{
			FunctionCode:  0x86,
			ExceptionCode: gomodbus.ExceptionCodeIllegalDataValue,
		}),
	)

	c := connected(t, tr)
	if err := c.WriteSingleRegister(2, 40, 0xFFFE); err != nil {
		t.Fatalf("write err=%v", err)
	}

	err := c.WriteSingleRegister(2, 40, 1)
	var pe *ProtocolError
	if !errors.As(err, &pe) || pe.Code() != 3 || pe.Function != FuncWriteSingle {
		t.Fatalf("expected exception 3 on fc6, got %v", err)
	}
}

func TestWriteMultipleRegisters_PacksBigEndian(t *testing.T) {
	ctrl := gomock.NewController(t)
	tr := mock_modbus.NewMockTransport(ctrl)
	tr.EXPECT().SetUnit(byte(4))
	tr.EXPECT().
		WriteMultipleRegisters(uint16(100), uint16(3), []byte{0x00, 0x01, 0xFF, 0xFF, 0x12, 0x34}).
		Return([]byte{0x00, 0x03}, nil)

	c := connected(t, tr)
	if err := c.WriteMultipleRegisters(4, 100, []uint16{1, 0xFFFF, 0x1234}); err != nil {
		t.Fatalf("write err=%v", err)
	}
}

func TestParams(t *testing.T) {
	ctrl := gomock.NewController(t)
	tr := mock_modbus.NewMockTransport(ctrl)
	tr.EXPECT().Close().Return(nil)

	c := connected(t, tr)
	p, ok := c.Params()
	if !ok || p.Port != testParams.Port {
		t.Fatalf("unexpected params %+v ok=%v", p, ok)
	}
	c.Close()
	if _, ok := c.Params(); ok {
		t.Fatalf("expected no params after close")
	}
}
