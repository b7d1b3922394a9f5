// Package config reads process settings from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tetragramaton/smh-rtu/internal/client/serial"
)

// Monitor holds the settings of the polling publisher.
type Monitor struct {
	DeviceID    string
	Model       string
	Area        string
	IntervalSec int
	UnitID      int
	ProfileDir  string
	Profile     string // "brand:model"
}

// Interval is the polling period, never below one second.
func (m Monitor) Interval() time.Duration {
	if m.IntervalSec < 1 {
		return time.Second
	}
	return time.Duration(m.IntervalSec) * time.Second
}

type Env struct {
	Serial  serial.ConnectionParams
	Monitor Monitor
}

// LoadEnv reads MODBUS_* and monitor variables. Unset or unparsable numbers
// fall back to their defaults; the combination is checked later by
// ConnectionParams.Validate.
func LoadEnv() Env {
	return Env{
		Serial: serial.ConnectionParams{
			Port:     get("MODBUS_PORT", "/dev/ttyUSB0"),
			BaudRate: atoi(os.Getenv("MODBUS_BAUD"), serial.DefaultBaudRate),
			Parity:   strings.ToUpper(get("MODBUS_PARITY", serial.DefaultParity)),
			StopBits: atoi(os.Getenv("MODBUS_STOPBITS"), serial.DefaultStopBits),
			DataBits: atoi(os.Getenv("MODBUS_DATABITS"), serial.DefaultDataBits),
			Timeout:  time.Duration(atoi(os.Getenv("MODBUS_TIMEOUT_MS"), int(serial.DefaultTimeout/time.Millisecond))) * time.Millisecond,
		},
		Monitor: Monitor{
			DeviceID:    get("DEVICE_ID", "rtu.device"),
			Model:       get("MODEL", ""),
			Area:        get("AREA", ""),
			IntervalSec: atoi(os.Getenv("INTERVAL_SEC"), 5),
			UnitID:      atoi(os.Getenv("UNIT_ID"), 1),
			ProfileDir:  get("PROFILE_DIR", "profiles"),
			Profile:     os.Getenv("PROFILE"),
		},
	}
}

func get(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoi(s string, def int) int {
	if v, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		return v
	}
	return def
}
