package payload

import (
	"encoding/json"
	"errors"
	"regexp"

	"aquactl/internal/models"
)

// ErrMalformed is returned when a payload cannot be parsed into a reading,
// even after the single repair pass, or when it carries no device id.
var ErrMalformed = errors.New("malformed sensor payload")

// Some firmware versions emit the device serial unquoted, e.g.
// {"device_id":AQ-102,...}. The repair wraps that one value in quotes and
// nothing else.
var unquotedDeviceID = regexp.MustCompile(`("device_id"\s*:)\s*([^"][^,}\s]*)`)

// Parse turns a raw upload payload into a SensorReading. Strict JSON parse
// first; on failure one repair pass for the unquoted-device_id malformation,
// then one strict retry. The raw payload is retained verbatim on the reading.
func Parse(raw string) (*models.SensorReading, error) {
	reading, err := parseStrict(raw)
	if err != nil {
		fixed := unquotedDeviceID.ReplaceAllString(raw, `${1}"${2}"`)
		reading, err = parseStrict(fixed)
		if err != nil {
			return nil, ErrMalformed
		}
	}
	if reading.DeviceID == "" {
		return nil, ErrMalformed
	}
	reading.RawPayload = raw
	return reading, nil
}

func parseStrict(raw string) (*models.SensorReading, error) {
	var reading models.SensorReading
	if err := json.Unmarshal([]byte(raw), &reading); err != nil {
		return nil, err
	}
	return &reading, nil
}
