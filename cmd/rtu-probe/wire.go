//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/tetragramaton/smh-rtu/internal/client/modbus"
	modbusIface "github.com/tetragramaton/smh-rtu/internal/interface/modbus"
)

func InitMainHandler() (*MainHandler, error) {
	wire.Build(
		NewMainHandler,
		ProvideLogger,
		ProvideEnv,
		ProvideModbusClient,
	)
	return nil, nil // wire will generate the result
}

func InitMonitor(h *MainHandler) (*Monitor, error) {
	wire.Build(
		wire.FieldsOf(new(*MainHandler), "Logger", "Modbus"),
		wire.Bind(new(modbusIface.Connector), new(*modbus.Client)),
		ProvideMqttClient,
		NewMonitor,
	)
	return nil, nil // wire will generate the result
}
