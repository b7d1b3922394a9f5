package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tetragramaton/smh-rtu/internal/client/serial"
	"github.com/tetragramaton/smh-rtu/internal/config"
	"github.com/tetragramaton/smh-rtu/internal/device"
	"github.com/tetragramaton/smh-rtu/internal/ha"
	modbusIface "github.com/tetragramaton/smh-rtu/internal/interface/modbus"
	mqttIface "github.com/tetragramaton/smh-rtu/internal/interface/mqtt"
	"github.com/tetragramaton/smh-rtu/internal/profile"
)

type Meta struct {
	DeviceID  string   `json:"device_id"`
	Model     string   `json:"model,omitempty"`
	Area      string   `json:"area,omitempty"`
	Profile   string   `json:"profile"`
	Unit      int      `json:"unit_id"`
	Registers []string `json:"registers"`
}

type State struct {
	Ts       int64   `json:"ts"`
	Register string  `json:"register"`
	Unit     string  `json:"unit,omitempty"`
	Value    float64 `json:"value"`
}

// Monitor polls every register of a profile and publishes the readings.
type Monitor struct {
	logger zerolog.Logger
	bus    modbusIface.Connector
	broker mqttIface.Client
}

func NewMonitor(logger zerolog.Logger, bus modbusIface.Connector, broker mqttIface.Client) *Monitor {
	return &Monitor{
		logger: logger.With().Str("component", "monitor").Logger(),
		bus:    bus,
		broker: broker,
	}
}

// Announce publishes the device meta and one retained HA discovery config
// per register.
func (m *Monitor) Announce(s config.Monitor, p profile.Profile) error {
	meta := Meta{
		DeviceID: s.DeviceID,
		Model:    s.Model,
		Area:     s.Area,
		Profile:  p.Key(),
		Unit:     s.UnitID,
	}
	if meta.Model == "" {
		meta.Model = p.Meta.Model
	}
	for _, r := range p.Registers {
		meta.Registers = append(meta.Registers, r.Name)
	}
	if err := m.publish(ha.MetaTopic(s.DeviceID), meta, false); err != nil {
		return fmt.Errorf("meta publish: %w", err)
	}

	dev := ha.Device{
		Identifiers:   []string{s.DeviceID},
		Manufacturer:  p.Meta.Brand,
		Model:         meta.Model,
		Name:          s.DeviceID,
		SuggestedArea: s.Area,
	}
	for _, a := range ha.Sensors(dev, s.DeviceID, p.Registers) {
		b, err := a.Config.Marshal()
		if err != nil {
			return fmt.Errorf("marshal discovery %s: %w", a.Topic, err)
		}
		if err := m.broker.PublishEvent(mqttIface.Message{Topic: a.Topic, Payload: b, QoS: 1, Retain: true}); err != nil {
			return fmt.Errorf("discovery publish %s: %w", a.Topic, err)
		}
	}

	m.logger.Info().Str("device", s.DeviceID).Str("profile", p.Key()).Int("registers", len(p.Registers)).Msg("HA discovery published")
	return nil
}

// PublishOnce reads every register and publishes the successful readings.
// It returns how many states were published.
func (m *Monitor) PublishOnce(s config.Monitor, p profile.Profile, now int64) int {
	published := 0
	topic := ha.StateTopic(s.DeviceID)

	for _, r := range device.ReadAll(m.bus, byte(s.UnitID), p) {
		if r.Err != nil {
			m.logger.Warn().Err(r.Err).Str("register", r.Register.Name).Msg("read failed")
			continue
		}
		state := State{Ts: now, Register: r.Register.Name, Unit: r.Register.Unit, Value: r.Value}
		if err := m.publish(topic, state, false); err != nil {
			m.logger.Error().Err(err).Str("register", r.Register.Name).Msg("publish event error")
			continue
		}
		published++
	}
	return published
}

// Tick runs one poll cycle. A link dropped by an earlier I/O failure is
// reopened first; if that fails the cycle is skipped and 0 is returned.
func (m *Monitor) Tick(s config.Monitor, p profile.Profile, params serial.ConnectionParams, now int64) int {
	if !m.bus.Connected() {
		if err := m.bus.Connect(params); err != nil {
			m.logger.Warn().Err(err).Str("port", params.Port).Msg("reconnect failed, skipping poll")
			return 0
		}
		m.logger.Info().Str("port", params.Port).Msg("reconnected")
	}
	return m.PublishOnce(s, p, now)
}

// Run announces the device and polls until ctx is done.
func (m *Monitor) Run(ctx context.Context, s config.Monitor, p profile.Profile, params serial.ConnectionParams) error {
	defer func() {
		if err := m.broker.Close(250); err != nil {
			m.logger.Warn().Err(err).Msg("mqtt close")
		}
	}()

	if err := m.Announce(s, p); err != nil {
		m.logger.Error().Err(err).Msg("announce failed")
	}

	ticker := time.NewTicker(s.Interval())
	defer ticker.Stop()

	m.Tick(s, p, params, time.Now().Unix())
	for {
		select {
		case <-ctx.Done():
			m.logger.Info().Msg("monitor stopped")
			return nil
		case t := <-ticker.C:
			n := m.Tick(s, p, params, t.Unix())
			m.logger.Debug().Int("published", n).Int("registers", len(p.Registers)).Msg("poll complete")
		}
	}
}

func (m *Monitor) publish(topic string, payload any, retain bool) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	return m.broker.PublishEvent(mqttIface.Message{
		Topic:   topic,
		Payload: data,
		QoS:     1,
		Retain:  retain,
	})
}
