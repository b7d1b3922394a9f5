package mqtt

//go:generate mockgen -destination=../../mocks/mqtt/mock_mqtt.go -package=mock_mqtt github.com/tetragramaton/smh-rtu/internal/interface/mqtt Client

type Message struct {
	Topic   string `json:"topic"`
	Payload []byte `json:"payload"`
	QoS     byte   `json:"qos"`
	Retain  bool   `json:"retain"`
}

// Client publishes messages to the broker. The monitor never subscribes.
type Client interface {
	PublishEvent(message Message) error
	Close(quiesce uint) error
}
