package config

import (
	"testing"
	"time"

	"github.com/tetragramaton/smh-rtu/internal/client/serial"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"MODBUS_PORT", "MODBUS_BAUD", "MODBUS_PARITY", "MODBUS_STOPBITS", "MODBUS_DATABITS", "MODBUS_TIMEOUT_MS",
		"DEVICE_ID", "MODEL", "AREA", "INTERVAL_SEC", "UNIT_ID", "PROFILE_DIR", "PROFILE",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadEnv_Defaults(t *testing.T) {
	clearEnv(t)

	env := LoadEnv()
	want := serial.DefaultParams("/dev/ttyUSB0")
	if env.Serial != want {
		t.Fatalf("got %+v want %+v", env.Serial, want)
	}
	if env.Monitor.UnitID != 1 || env.Monitor.IntervalSec != 5 || env.Monitor.ProfileDir != "profiles" {
		t.Fatalf("unexpected monitor defaults %+v", env.Monitor)
	}
}

func TestLoadEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("MODBUS_PORT", "/dev/ttyS1")
	t.Setenv("MODBUS_BAUD", "19200")
	t.Setenv("MODBUS_PARITY", "e")
	t.Setenv("MODBUS_STOPBITS", "2")
	t.Setenv("MODBUS_DATABITS", "7")
	t.Setenv("MODBUS_TIMEOUT_MS", "1000")
	t.Setenv("UNIT_ID", "17")
	t.Setenv("PROFILE", "Acme:PM100")

	env := LoadEnv()
	want := serial.ConnectionParams{
		Port:     "/dev/ttyS1",
		BaudRate: 19200,
		Parity:   serial.ParityEven,
		StopBits: 2,
		DataBits: 7,
		Timeout:  time.Second,
	}
	if env.Serial != want {
		t.Fatalf("got %+v want %+v", env.Serial, want)
	}
	if env.Monitor.UnitID != 17 || env.Monitor.Profile != "Acme:PM100" {
		t.Fatalf("unexpected monitor %+v", env.Monitor)
	}
}

func TestLoadEnv_BadNumbersFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("MODBUS_BAUD", "fast")
	t.Setenv("INTERVAL_SEC", "soon")

	env := LoadEnv()
	if env.Serial.BaudRate != serial.DefaultBaudRate || env.Monitor.IntervalSec != 5 {
		t.Fatalf("unexpected fallback %+v %+v", env.Serial, env.Monitor)
	}
}

func TestMonitor_Interval(t *testing.T) {
	if got := (Monitor{IntervalSec: 0}).Interval(); got != time.Second {
		t.Fatalf("got %v", got)
	}
	if got := (Monitor{IntervalSec: 10}).Interval(); got != 10*time.Second {
		t.Fatalf("got %v", got)
	}
}
