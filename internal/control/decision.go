package control

import (
	"fmt"
	"log"

	"aquactl/internal/models"
)

// Decide compares a reading against the effective threshold and produces the
// control command for the device's actuator. Checks are ordered and
// short-circuit: temperature first, then oxygen; bounds are inclusive. A nil
// measurement counts as out of range so a sensor that stops reporting a
// dimension cannot hold the actuator in start.
func Decide(reading *models.SensorReading, t models.Threshold) models.ControlCommand {
	status := models.StatusStart

	if outOfRange(reading.TemperatureC, t.TempMin, t.TempMax) {
		status = models.StatusClose
		log.Printf("CONTROL: device %s temperature out of range: current=%s, bounds=[%.1f, %.1f]",
			reading.DeviceID, formatValue(reading.TemperatureC), t.TempMin, t.TempMax)
	} else if outOfRange(reading.ConcentrationMgL, t.OxyMin, t.OxyMax) {
		status = models.StatusClose
		log.Printf("CONTROL: device %s oxygen concentration out of range: current=%s, bounds=[%.1f, %.1f]",
			reading.DeviceID, formatValue(reading.ConcentrationMgL), t.OxyMin, t.OxyMax)
	}

	return models.ControlCommand{
		DeviceID:     reading.DeviceID,
		DeviceStatus: status,
		WorkStatus:   workStatusFor(status, reading.WorkStatus),
		Second:       durationFor(reading.StartTime),
	}
}

// ManualCommand builds an operator-issued command, bypassing threshold
// evaluation. The device status must be one of start/close/add/dec.
func ManualCommand(deviceID, deviceStatus, workStatus string, second int64) (models.ControlCommand, error) {
	switch deviceStatus {
	case models.StatusStart, models.StatusClose, models.StatusAdd, models.StatusDec:
	default:
		return models.ControlCommand{}, fmt.Errorf("invalid device_status %q", deviceStatus)
	}
	if workStatus == "" {
		if deviceStatus == models.StatusClose {
			workStatus = models.WorkStop
		} else {
			workStatus = models.WorkWorking
		}
	}
	if second <= 0 {
		second = 1
	}
	return models.ControlCommand{
		DeviceID:     deviceID,
		DeviceStatus: deviceStatus,
		WorkStatus:   workStatus,
		Second:       second,
	}, nil
}

func outOfRange(v *float64, min, max float64) bool {
	return v == nil || *v < min || *v > max
}

// A work_status explicitly carried by the reading wins over the derived one.
func workStatusFor(deviceStatus, readingWorkStatus string) string {
	if readingWorkStatus == models.WorkWorking || readingWorkStatus == models.WorkStop {
		return readingWorkStatus
	}
	if deviceStatus == models.StatusClose {
		return models.WorkStop
	}
	return models.WorkWorking
}

func durationFor(startTime *int64) int64 {
	if startTime == nil || *startTime <= 0 {
		return 1
	}
	return *startTime
}

func formatValue(v *float64) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%.2f", *v)
}
