package main

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/tetragramaton/smh-rtu/internal/client/modbus"
	"github.com/tetragramaton/smh-rtu/internal/client/mqtt"
	"github.com/tetragramaton/smh-rtu/internal/client/serial"
	"github.com/tetragramaton/smh-rtu/internal/config"
	mqttIface "github.com/tetragramaton/smh-rtu/internal/interface/mqtt"
	"github.com/tetragramaton/smh-rtu/internal/logging"
)

// MainHandler owns the single bus client of the process. Every command
// goes through it, so bus access is serialized here.
type MainHandler struct {
	Logger zerolog.Logger
	Env    config.Env
	Modbus *modbus.Client
}

func NewMainHandler(
	logger zerolog.Logger,
	env config.Env,
	modbusClient *modbus.Client,
) *MainHandler {
	return &MainHandler{
		Logger: logger,
		Env:    env,
		Modbus: modbusClient,
	}
}

func ProvideLogger() zerolog.Logger {
	return logging.New(logging.ConfigFromEnv())
}

func ProvideEnv() config.Env {
	return config.LoadEnv()
}

func ProvideModbusClient(logger zerolog.Logger) *modbus.Client {
	return modbus.NewClient(logger, modbus.SerialDialer(logger))
}

func ProvideMqttClient(logger zerolog.Logger) (mqttIface.Client, error) {
	cfg, err := mqtt.LoadConfigFromEnv()
	if err != nil {
		return nil, err
	}
	c, err := mqtt.NewClient(cfg, logger)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// connect opens the bus and logs the diagnostic on failure.
func (h *MainHandler) connect(p serial.ConnectionParams) error {
	if err := h.Modbus.Connect(p); err != nil {
		var connErr *serial.ConnectionError
		if errors.As(err, &connErr) {
			h.Logger.Error().Str("port", connErr.Port).Str("reason", h.Modbus.LastError()).Msg("cannot open serial port")
		}
		return err
	}
	return nil
}
