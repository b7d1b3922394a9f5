// Package ha builds Home Assistant MQTT discovery configs for profile registers.
package ha

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/tetragramaton/smh-rtu/internal/register"
)

type Device struct {
	Identifiers   []string `json:"identifiers,omitempty"`
	Manufacturer  string   `json:"manufacturer,omitempty"`
	Model         string   `json:"model,omitempty"`
	Name          string   `json:"name,omitempty"`
	SuggestedArea string   `json:"suggested_area,omitempty"`
}

type SensorConfig struct {
	Name         string                 `json:"name"`
	UniqueID     string                 `json:"unique_id"`
	StateTopic   string                 `json:"state_topic"`
	ValueTpl     string                 `json:"value_template,omitempty"`
	DeviceClass  string                 `json:"device_class,omitempty"`
	StateClass   string                 `json:"state_class,omitempty"`
	UnitOfMeas   string                 `json:"unit_of_measurement,omitempty"`
	Device       *Device                `json:"device,omitempty"`
	QoS          int                    `json:"qos,omitempty"`
	Availability []map[string]string    `json:"availability,omitempty"`
	Extra        map[string]interface{} `json:"-"`
}

// Marshal encodes the config and merges Extra into the top-level object.
func (c *SensorConfig) Marshal() ([]byte, error) {
	type alias SensorConfig
	b, err := json.Marshal(alias(*c))
	if err != nil || c.Extra == nil {
		return b, err
	}

	var base map[string]interface{}
	if err := json.Unmarshal(b, &base); err != nil {
		return nil, err
	}
	for k, v := range c.Extra {
		base[k] = v
	}
	return json.Marshal(base)
}

// TopicSensorConfig is the retained discovery topic of one sensor.
func TopicSensorConfig(object, unique string) string {
	return fmt.Sprintf("homeassistant/sensor/%s/%s/config", unique, object)
}

// StateTopic is where the monitor publishes readings of a device.
func StateTopic(deviceID string) string {
	return fmt.Sprintf("smh/%s/state", deviceID)
}

// MetaTopic carries the device announcement.
func MetaTopic(deviceID string) string {
	return fmt.Sprintf("smh/%s/meta", deviceID)
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_]+`)

// Sanitize lowercases s and replaces anything outside [a-z0-9_] with "_".
func Sanitize(s string) string {
	return strings.ToLower(unsafeChars.ReplaceAllString(s, "_"))
}

// deviceClasses maps engineering units to HA sensor device classes.
var deviceClasses = map[string]string{
	"V":   "voltage",
	"A":   "current",
	"W":   "power",
	"kW":  "power",
	"Wh":  "energy",
	"kWh": "energy",
	"Hz":  "frequency",
	"°C":  "temperature",
	"VA":  "apparent_power",
	"var": "reactive_power",
}

// Announcement is one discovery config ready to publish.
type Announcement struct {
	Topic  string
	Config *SensorConfig
}

// Sensors builds one sensor announcement per register. State payloads carry
// the register name, so each template selects its own readings.
func Sensors(device Device, deviceID string, defs []register.Definition) []Announcement {
	unique := Sanitize(deviceID)
	out := make([]Announcement, 0, len(defs))

	for _, d := range defs {
		object := Sanitize(d.Name)
		cfg := &SensorConfig{
			Name:        fmt.Sprintf("%s %s", deviceID, d.Name),
			UniqueID:    unique + "_" + object,
			StateTopic:  StateTopic(deviceID),
			ValueTpl:    fmt.Sprintf("{{ value_json.value if value_json.register == %q else this.state }}", d.Name),
			DeviceClass: deviceClasses[d.Unit],
			UnitOfMeas:  d.Unit,
			Device:      &device,
			QoS:         1,
		}
		if cfg.DeviceClass == "energy" {
			cfg.StateClass = "total_increasing"
		} else if cfg.DeviceClass != "" {
			cfg.StateClass = "measurement"
		}
		out = append(out, Announcement{Topic: TopicSensorConfig(object, unique), Config: cfg})
	}
	return out
}
