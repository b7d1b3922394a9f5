package mqtt

import (
	"crypto/tls"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	mqttIface "github.com/tetragramaton/smh-rtu/internal/interface/mqtt"
)

const (
	connectTimeout = 10 * time.Second
	publishTimeout = 5 * time.Second
)

var ErrPublishTimeout = errors.New("mqtt: publish timed out")

type Config struct {
	BrokerURL string
	ClientID  string
	Username  string
	Password  string
	TLS       bool
}

// LoadConfigFromEnv reads MQTT_URL, MQTT_CLIENT_ID, MQTT_USERNAME,
// MQTT_PASSWORD and MQTT_TLS. The client id defaults to "rtu-probe-<host>".
func LoadConfigFromEnv() (Config, error) {
	var cfg Config

	cfg.BrokerURL = os.Getenv("MQTT_URL")
	if cfg.BrokerURL == "" {
		return cfg, errors.New("missing MQTT_URL")
	}
	cfg.ClientID = os.Getenv("MQTT_CLIENT_ID")
	if cfg.ClientID == "" {
		host, _ := os.Hostname()
		cfg.ClientID = "rtu-probe-" + host
	}
	cfg.Username = os.Getenv("MQTT_USERNAME")
	cfg.Password = os.Getenv("MQTT_PASSWORD")

	if v := os.Getenv("MQTT_TLS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid MQTT_TLS %q: %w", v, err)
		}
		cfg.TLS = b
	}

	return cfg, nil
}

// Client is a publish-only paho client.
type Client struct {
	conn   mqtt.Client
	logger zerolog.Logger
}

var _ mqttIface.Client = (*Client)(nil)

// Options maps cfg onto paho client options with connection logging.
func Options(cfg Config, logger zerolog.Logger) *mqtt.ClientOptions {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.BrokerURL).
		SetClientID(cfg.ClientID).
		SetKeepAlive(30 * time.Second).
		SetConnectTimeout(5 * time.Second).
		SetPingTimeout(3 * time.Second).
		SetAutoReconnect(true).
		SetOrderMatters(false).
		SetOnConnectHandler(func(mqtt.Client) {
			logger.Info().Str("broker", cfg.BrokerURL).Msg("mqtt connected")
		}).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			logger.Warn().Err(err).Str("broker", cfg.BrokerURL).Msg("mqtt connection lost")
		})

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	if cfg.TLS {
		opts.SetTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12})
	}
	return opts
}

// NewClient connects to the broker described by cfg.
func NewClient(cfg Config, logger zerolog.Logger) (*Client, error) {
	logger = logger.With().Str("component", "mqtt").Logger()

	conn := mqtt.NewClient(Options(cfg, logger))
	t := conn.Connect()
	if ok := t.WaitTimeout(connectTimeout); !ok {
		return nil, fmt.Errorf("mqtt connect %s: timed out after %s", cfg.BrokerURL, connectTimeout)
	}
	if err := t.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", cfg.BrokerURL, err)
	}
	return &Client{conn: conn, logger: logger}, nil
}

func (c *Client) PublishEvent(message mqttIface.Message) error {
	t := c.conn.Publish(message.Topic, message.QoS, message.Retain, message.Payload)
	if !t.WaitTimeout(publishTimeout) {
		return fmt.Errorf("%w: %s", ErrPublishTimeout, message.Topic)
	}
	if err := t.Error(); err != nil {
		return err
	}
	c.logger.Trace().Str("topic", message.Topic).Int("bytes", len(message.Payload)).Msg("published")
	return nil
}

func (c *Client) Close(quiesce uint) error {
	if c.conn.IsConnectionOpen() {
		c.conn.Disconnect(quiesce)
	}
	return nil
}
