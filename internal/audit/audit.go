package audit

import (
	"context"
	"time"

	"aquactl/internal/models"
)

// Store is the persistence surface the audit writer needs. *db.DB satisfies it.
type Store interface {
	InsertSensorDataLog(ctx context.Context, l *models.SensorDataLog) (int64, error)
	InsertControlLog(ctx context.Context, l *models.ControlLogEntry) error
}

// Writer appends audit rows for readings and dispatched commands. Writes are
// append-only; nothing in the ingestion path updates or deletes.
type Writer struct {
	store Store
}

// NewWriter creates an audit writer over the given store.
func NewWriter(store Store) *Writer {
	return &Writer{store: store}
}

// RecordReading persists a telemetry audit row with a server-assigned receipt
// timestamp and returns the generated row id.
func (w *Writer) RecordReading(ctx context.Context, reading *models.SensorReading) (int64, error) {
	row := &models.SensorDataLog{
		DeviceID:            reading.DeviceID,
		Temperature:         reading.TemperatureC,
		OxygenConcentration: reading.ConcentrationMgL,
		RawData:             reading.RawPayload,
		ReceivedAt:          time.Now(),
	}
	return w.store.InsertSensorDataLog(ctx, row)
}

// RecordCommand persists a control audit row for an accepted dispatch.
// triggeringDataID is nil for manually issued commands.
func (w *Writer) RecordCommand(ctx context.Context, deviceID, deviceStatus string, triggeringDataID *int64, rawCommand string) error {
	row := &models.ControlLogEntry{
		DeviceID:         deviceID,
		DeviceStatus:     deviceStatus,
		TriggeringDataID: triggeringDataID,
		RawCommand:       rawCommand,
		SentAt:           time.Now(),
	}
	return w.store.InsertControlLog(ctx, row)
}
