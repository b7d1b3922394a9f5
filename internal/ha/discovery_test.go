package ha

import (
	"encoding/json"
	"testing"

	"github.com/tetragramaton/smh-rtu/internal/register"
)

func TestSanitize(t *testing.T) {
	tests := map[string]string{
		"cw100.inverter": "cw100_inverter",
		"Meter 1/A":      "meter_1_a",
		"ok_id":          "ok_id",
	}
	for in, want := range tests {
		if got := Sanitize(in); got != want {
			t.Fatalf("Sanitize(%q)=%q want %q", in, got, want)
		}
	}
}

func TestSensors(t *testing.T) {
	defs := []register.Definition{
		{Name: "voltage", Unit: "V"},
		{Name: "energy total", Unit: "kWh"},
		{Name: "status"},
	}
	dev := Device{Identifiers: []string{"pm.1"}, Manufacturer: "Acme", Model: "PM100", Name: "pm.1"}

	got := Sensors(dev, "pm.1", defs)
	if len(got) != 3 {
		t.Fatalf("expected 3 announcements, got %d", len(got))
	}

	if got[0].Topic != "homeassistant/sensor/pm_1/voltage/config" {
		t.Fatalf("unexpected topic %q", got[0].Topic)
	}
	v := got[0].Config
	if v.UniqueID != "pm_1_voltage" || v.StateTopic != "smh/pm.1/state" || v.DeviceClass != "voltage" || v.StateClass != "measurement" {
		t.Fatalf("unexpected voltage config %+v", v)
	}

	e := got[1].Config
	if got[1].Topic != "homeassistant/sensor/pm_1/energy_total/config" || e.DeviceClass != "energy" || e.StateClass != "total_increasing" {
		t.Fatalf("unexpected energy announcement %q %+v", got[1].Topic, e)
	}

	s := got[2].Config
	if s.DeviceClass != "" || s.StateClass != "" || s.UnitOfMeas != "" {
		t.Fatalf("unexpected status config %+v", s)
	}
}

func TestSensorConfig_MarshalExtra(t *testing.T) {
	cfg := &SensorConfig{
		Name:       "pm.1 voltage",
		UniqueID:   "pm_1_voltage",
		StateTopic: "smh/pm.1/state",
		Extra:      map[string]interface{}{"icon": "mdi:flash"},
	}
	b, err := cfg.Marshal()
	if err != nil {
		t.Fatalf("Marshal err=%v", err)
	}

	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if m["icon"] != "mdi:flash" || m["unique_id"] != "pm_1_voltage" {
		t.Fatalf("unexpected payload %s", b)
	}
	if _, ok := m["Extra"]; ok {
		t.Fatalf("Extra must not be encoded as a field: %s", b)
	}
}
