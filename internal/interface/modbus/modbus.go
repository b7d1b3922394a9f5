package modbus

import "github.com/tetragramaton/smh-rtu/internal/client/serial"

//go:generate mockgen -destination=../../mocks/modbus/mock_modbus.go -package=mock_modbus github.com/tetragramaton/smh-rtu/internal/interface/modbus Transport,Client,Connector

// API is the raw register surface of an RTU link. Results are the big-endian
// register bytes exactly as they came off the wire.
type API interface {
	ReadHoldingRegisters(address, quantity uint16) (results []byte, err error)
	ReadInputRegisters(address, quantity uint16) (results []byte, err error)
	WriteSingleRegister(address, value uint16) (results []byte, err error)
	WriteMultipleRegisters(address, quantity uint16, value []byte) (results []byte, err error)
}

// Transport is one open serial link. The unit address is per request, so
// callers must set it immediately before each transaction.
type Transport interface {
	API
	SetUnit(unit byte)
	Close() error
}

// Client is the unit-addressed register client consumed by the scan engine,
// the device layer and the CLI.
type Client interface {
	ReadHolding(unit byte, address, count uint16) ([]uint16, error)
	ReadInput(unit byte, address, count uint16) ([]uint16, error)
	WriteSingleRegister(unit byte, address, value uint16) error
	WriteMultipleRegisters(unit byte, address uint16, values []uint16) error
	Close()
}

// Connector is a Client that owns its link and can be reconnected after a
// transport failure dropped it.
type Connector interface {
	Client
	Connect(p serial.ConnectionParams) error
	Connected() bool
	LastError() string
}
