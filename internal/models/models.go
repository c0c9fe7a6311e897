package models

import "time"

// Threshold priority levels for a device's configuration.
const (
	PriorityDevice = "DEVICE"
	PriorityRegion = "REGION"
	PriorityGlobal = "GLOBAL"
)

// Outbound device_status values.
const (
	StatusStart = "start"
	StatusClose = "close"
	StatusAdd   = "add"
	StatusDec   = "dec"
)

// work_status values carried by readings and commands.
const (
	WorkWorking = "working"
	WorkStop    = "stop"
)

// SensorReading is one telemetry sample as uploaded by a device.
// Field names match the upload JSON exactly; pointer fields are optional.
type SensorReading struct {
	DeviceID          string   `json:"device_id"`
	TemperatureC      *float64 `json:"temperature_c"`
	ConcentrationMgL  *float64 `json:"concentration_mgL"`
	SaturationPercent *float64 `json:"saturation_percent"`
	SalinityPSU       *float64 `json:"salinity_psu"`
	PressureKPa       *float64 `json:"pressure_kpa"`
	WorkStatus        string   `json:"work_status"`
	StartTime         *int64   `json:"start_time"`
	RawPayload        string   `json:"-"`
}

// Device is a registry entry, keyed by device serial number. Override bounds
// and priority are optional; a device auto-registered on first sighting has
// none of them set.
type Device struct {
	DeviceID        string     `json:"device_id"`
	Name            *string    `json:"name"`
	Region          *string    `json:"region"`
	AutoOxygenation *bool      `json:"auto_oxygenation"`
	ConfigPriority  *string    `json:"config_priority"`
	TempMin         *float64   `json:"temp_min"`
	TempMax         *float64   `json:"temp_max"`
	OxyMin          *float64   `json:"oxy_min"`
	OxyMax          *float64   `json:"oxy_max"`
	LastSeen        *time.Time `json:"last_seen"`
}

// HasDeviceBounds reports whether all four device-level override bounds are set.
func (d *Device) HasDeviceBounds() bool {
	return d.TempMin != nil && d.TempMax != nil && d.OxyMin != nil && d.OxyMax != nil
}

// RegionThreshold holds optional override bounds for a region code.
type RegionThreshold struct {
	Region  string   `json:"region"`
	TempMin *float64 `json:"temp_min"`
	TempMax *float64 `json:"temp_max"`
	OxyMin  *float64 `json:"oxy_min"`
	OxyMax  *float64 `json:"oxy_max"`
}

// Complete reports whether all four region bounds are set.
func (r *RegionThreshold) Complete() bool {
	return r.TempMin != nil && r.TempMax != nil && r.OxyMin != nil && r.OxyMax != nil
}

// Threshold is the effective set of bounds used for one decision. All four
// values are always present; it is computed per decision and never stored.
type Threshold struct {
	TempMin float64 `json:"tempMin"`
	TempMax float64 `json:"tempMax"`
	OxyMin  float64 `json:"oxyMin"`
	OxyMax  float64 `json:"oxyMax"`
}

// ControlCommand is one outbound actuator instruction. Its JSON form is the
// wire format published on the alarm topic.
type ControlCommand struct {
	DeviceID     string `json:"device_id"`
	DeviceStatus string `json:"device_status"`
	WorkStatus   string `json:"work_status"`
	Second       int64  `json:"second"`
}

// SensorDataLog is a persisted telemetry audit row.
type SensorDataLog struct {
	ID                  int64     `json:"id"`
	DeviceID            string    `json:"device_id"`
	Temperature         *float64  `json:"temperature"`
	OxygenConcentration *float64  `json:"oxygen_concentration"`
	RawData             string    `json:"raw_data"`
	ReceivedAt          time.Time `json:"received_at"`
}

// ControlLogEntry is a persisted record of a dispatched command.
// TriggeringDataID is nil for manually issued commands.
type ControlLogEntry struct {
	ID               int64     `json:"id"`
	DeviceID         string    `json:"device_id"`
	DeviceStatus     string    `json:"device_status"`
	TriggeringDataID *int64    `json:"triggering_data_id"`
	RawCommand       string    `json:"raw_command"`
	SentAt           time.Time `json:"sent_at"`
}
