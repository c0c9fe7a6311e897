package mqtt

import (
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

// Options carries broker connection parameters.
type Options struct {
	Broker       string
	ClientID     string
	Username     string
	Password     string
	KeepAlive    int
	CleanSession bool
}

// NewMQTTClient creates and connects an MQTT client. A random suffix keeps
// client ids unique when several instances share a configured id.
func NewMQTTClient(o Options) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(o.Broker).
		SetClientID(o.ClientID + "-" + uuid.NewString()).
		SetCleanSession(o.CleanSession).
		SetKeepAlive(time.Duration(o.KeepAlive) * time.Second)
	if o.Username != "" {
		opts.SetUsername(o.Username)
	}
	if o.Password != "" {
		opts.SetPassword(o.Password)
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return client, nil
}
