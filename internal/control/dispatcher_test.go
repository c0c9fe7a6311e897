package control

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"aquactl/internal/models"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeToken struct {
	completes bool
	err       error
}

func (t *fakeToken) Wait() bool                     { return t.completes }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return t.completes }
func (t *fakeToken) Error() error                   { return t.err }

func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type fakePublisher struct {
	token    *fakeToken
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

func (p *fakePublisher) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	p.topic = topic
	p.qos = qos
	p.retained = retained
	p.payload = payload.([]byte)
	return p.token
}

var testCmd = models.ControlCommand{
	DeviceID:     "D1",
	DeviceStatus: models.StatusClose,
	WorkStatus:   models.WorkStop,
	Second:       1,
}

func TestDispatchAccepted(t *testing.T) {
	pub := &fakePublisher{token: &fakeToken{completes: true}}
	d := NewDispatcher(pub, "devices/config/alarm", 0, true, 5*time.Second)

	raw, err := d.Dispatch(testCmd)
	require.NoError(t, err)

	assert.Equal(t, "devices/config/alarm", pub.topic)
	assert.Equal(t, byte(0), pub.qos)
	assert.True(t, pub.retained)
	assert.Equal(t, string(pub.payload), raw)

	var wire map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &wire))
	assert.Equal(t, "D1", wire["device_id"])
	assert.Equal(t, "close", wire["device_status"])
	assert.Equal(t, "stop", wire["work_status"])
	assert.Equal(t, float64(1), wire["second"])
}

func TestDispatchTimeout(t *testing.T) {
	pub := &fakePublisher{token: &fakeToken{completes: false}}
	d := NewDispatcher(pub, "devices/config/alarm", 0, true, time.Millisecond)

	_, err := d.Dispatch(testCmd)
	assert.ErrorIs(t, err, ErrDispatchTimeout)
}

func TestDispatchTransportError(t *testing.T) {
	brokerErr := errors.New("connection lost")
	pub := &fakePublisher{token: &fakeToken{completes: true, err: brokerErr}}
	d := NewDispatcher(pub, "devices/config/alarm", 0, true, time.Second)

	_, err := d.Dispatch(testCmd)
	assert.ErrorIs(t, err, brokerErr)
}
