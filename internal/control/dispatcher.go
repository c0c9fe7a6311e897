package control

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"aquactl/internal/models"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// ErrDispatchTimeout is returned when the broker does not accept the publish
// within the dispatch timeout.
var ErrDispatchTimeout = errors.New("dispatch not accepted within timeout")

// Publisher is the slice of the MQTT client the dispatcher uses.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// Dispatcher serializes commands and publishes them on the fixed alarm topic,
// waiting a bounded time for broker acceptance. It does not wait for
// device-side acknowledgment and never retries.
type Dispatcher struct {
	client  Publisher
	topic   string
	qos     byte
	retain  bool
	timeout time.Duration
}

// NewDispatcher creates a dispatcher publishing on the given topic.
func NewDispatcher(client Publisher, topic string, qos byte, retain bool, timeout time.Duration) *Dispatcher {
	return &Dispatcher{client: client, topic: topic, qos: qos, retain: retain, timeout: timeout}
}

// Dispatch publishes the command and returns its serialized wire form. A nil
// error means the broker accepted the send; on timeout or transport error the
// attempt is abandoned.
func (d *Dispatcher) Dispatch(cmd models.ControlCommand) (string, error) {
	raw, err := json.Marshal(cmd)
	if err != nil {
		return "", err
	}

	token := d.client.Publish(d.topic, d.qos, d.retain, raw)
	if !token.WaitTimeout(d.timeout) {
		log.Printf("DISPATCH: publish timed out: topic=%s, command=%s", d.topic, raw)
		return string(raw), ErrDispatchTimeout
	}
	if err := token.Error(); err != nil {
		log.Printf("DISPATCH: publish failed: topic=%s, command=%s: %v", d.topic, raw, err)
		return string(raw), err
	}

	log.Printf("DISPATCH: command sent: topic=%s, command=%s", d.topic, raw)
	return string(raw), nil
}
