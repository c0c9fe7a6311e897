package ingest

import (
	"context"
	"fmt"
	"log"
	"time"

	"aquactl/internal/control"
	"aquactl/internal/models"
	"aquactl/internal/payload"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/redis/go-redis/v9"
)

// Registry is the device-registry surface the pipeline depends on.
type Registry interface {
	GetOrCreate(ctx context.Context, deviceID string) (*models.Device, error)
	TouchLastSeen(ctx context.Context, deviceID string, at time.Time)
}

// Resolver picks the effective threshold for a device.
type Resolver interface {
	Resolve(ctx context.Context, device *models.Device) models.Threshold
}

// Dispatcher publishes a command and reports broker acceptance.
type Dispatcher interface {
	Dispatch(cmd models.ControlCommand) (string, error)
}

// Auditor persists the durable pipeline records.
type Auditor interface {
	RecordReading(ctx context.Context, reading *models.SensorReading) (int64, error)
	RecordCommand(ctx context.Context, deviceID, deviceStatus string, triggeringDataID *int64, rawCommand string) error
}

// Orchestrator runs the ingestion pipeline for each inbound telemetry
// message: parse, record, register, resolve, decide, dispatch, audit. Every
// failure is isolated to its message; nothing propagates back to the
// transport layer.
type Orchestrator struct {
	mqttClient mqtt.Client
	cache      *redis.Client
	registry   Registry
	resolver   Resolver
	dispatcher Dispatcher
	audit      Auditor

	subscribeTopic string
	qos            byte
	recent         *recentBuffer
}

// NewOrchestrator wires the pipeline stages together.
func NewOrchestrator(mqttClient mqtt.Client, cache *redis.Client, reg Registry, res Resolver, disp Dispatcher, aud Auditor, subscribeTopic string, qos byte) *Orchestrator {
	return &Orchestrator{
		mqttClient:     mqttClient,
		cache:          cache,
		registry:       reg,
		resolver:       res,
		dispatcher:     disp,
		audit:          aud,
		subscribeTopic: subscribeTopic,
		qos:            qos,
		recent:         newRecentBuffer(recentCapacity),
	}
}

// Start subscribes to the telemetry upload topic.
func (o *Orchestrator) Start() error {
	log.Printf("INGEST: subscribing to MQTT topic: %s", o.subscribeTopic)
	token := o.mqttClient.Subscribe(o.subscribeTopic, o.qos, o.onTelemetry)
	if token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Println("INGEST: orchestrator started")
	return nil
}

// Stop disconnects the MQTT client.
func (o *Orchestrator) Stop() {
	o.mqttClient.Disconnect(250)
	log.Println("INGEST: orchestrator stopped")
}

func (o *Orchestrator) onTelemetry(client mqtt.Client, msg mqtt.Message) {
	// Errors are already logged inside Process; the callback must never
	// fail upward or the broker would redeliver.
	_ = o.Process(context.Background(), string(msg.Payload()))
}

// Process runs one payload through the full pipeline. The HTTP ingest
// endpoint calls this with the identical semantics as the subscribed path.
// A malformed payload is dropped (nil return); a reading that cannot be
// persisted aborts the message with an error; a rejected dispatch is logged
// and produces no control-log row.
func (o *Orchestrator) Process(ctx context.Context, raw string) error {
	reading, err := payload.Parse(raw)
	if err != nil {
		log.Printf("INGEST: dropping unparseable payload: %s", raw)
		return nil
	}
	log.Printf("INGEST: reading received from device %s", reading.DeviceID)

	readingID, err := o.audit.RecordReading(ctx, reading)
	if err != nil {
		log.Printf("INGEST: failed to persist reading for device %s, payload=%s: %v", reading.DeviceID, raw, err)
		return err
	}

	device, err := o.registry.GetOrCreate(ctx, reading.DeviceID)
	if err != nil {
		log.Printf("INGEST: registry lookup failed for device %s: %v", reading.DeviceID, err)
		return err
	}
	o.registry.TouchLastSeen(ctx, reading.DeviceID, time.Now())

	o.cacheLatest(ctx, reading)
	o.recent.Add(reading)

	effective := o.resolver.Resolve(ctx, device)
	cmd := control.Decide(reading, effective)

	rawCmd, err := o.dispatcher.Dispatch(cmd)
	if err != nil {
		// No control-log row for a rejected send; the device catches up
		// on its next reading.
		return nil
	}

	if err := o.audit.RecordCommand(ctx, cmd.DeviceID, cmd.DeviceStatus, &readingID, rawCmd); err != nil {
		log.Printf("INGEST: failed to persist control log for device %s: %v", cmd.DeviceID, err)
	}
	return nil
}

// Recent returns the most recent in-memory readings for a device, newest first.
func (o *Orchestrator) Recent(deviceID string) []models.SensorReading {
	return o.recent.Recent(deviceID)
}

func (o *Orchestrator) cacheLatest(ctx context.Context, reading *models.SensorReading) {
	if o.cache == nil {
		return
	}
	key := fmt.Sprintf("device:%s:latest", reading.DeviceID)
	if err := o.cache.Set(ctx, key, reading.RawPayload, time.Hour).Err(); err != nil {
		log.Printf("INGEST: failed to cache latest reading for device %s: %v", reading.DeviceID, err)
	}
}
