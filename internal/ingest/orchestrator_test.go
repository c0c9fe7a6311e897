package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"aquactl/internal/control"
	"aquactl/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRegistry struct {
	devices map[string]*models.Device
	err     error
	touched []string
}

func (f *fakeRegistry) GetOrCreate(ctx context.Context, deviceID string) (*models.Device, error) {
	if f.err != nil {
		return nil, f.err
	}
	if d, ok := f.devices[deviceID]; ok {
		return d, nil
	}
	d := &models.Device{DeviceID: deviceID}
	if f.devices == nil {
		f.devices = make(map[string]*models.Device)
	}
	f.devices[deviceID] = d
	return d, nil
}

func (f *fakeRegistry) TouchLastSeen(ctx context.Context, deviceID string, at time.Time) {
	f.touched = append(f.touched, deviceID)
}

type fakeResolver struct {
	threshold models.Threshold
}

func (f *fakeResolver) Resolve(ctx context.Context, device *models.Device) models.Threshold {
	return f.threshold
}

type fakeDispatcher struct {
	err      error
	commands []models.ControlCommand
}

func (f *fakeDispatcher) Dispatch(cmd models.ControlCommand) (string, error) {
	f.commands = append(f.commands, cmd)
	return `{"device_id":"` + cmd.DeviceID + `"}`, f.err
}

type recordedCommand struct {
	deviceID     string
	deviceStatus string
	triggeringID *int64
	raw          string
}

type fakeAuditor struct {
	readingErr error
	commandErr error
	nextID     int64
	readings   []models.SensorReading
	commands   []recordedCommand
}

func (f *fakeAuditor) RecordReading(ctx context.Context, reading *models.SensorReading) (int64, error) {
	if f.readingErr != nil {
		return 0, f.readingErr
	}
	f.readings = append(f.readings, *reading)
	f.nextID++
	return f.nextID, nil
}

func (f *fakeAuditor) RecordCommand(ctx context.Context, deviceID, deviceStatus string, triggeringDataID *int64, rawCommand string) error {
	if f.commandErr != nil {
		return f.commandErr
	}
	f.commands = append(f.commands, recordedCommand{
		deviceID:     deviceID,
		deviceStatus: deviceStatus,
		triggeringID: triggeringDataID,
		raw:          rawCommand,
	})
	return nil
}

func newTestOrchestrator(reg *fakeRegistry, disp *fakeDispatcher, aud *fakeAuditor) *Orchestrator {
	resolver := &fakeResolver{threshold: models.Threshold{TempMin: 20, TempMax: 32, OxyMin: 5, OxyMax: 10}}
	return NewOrchestrator(nil, nil, reg, resolver, disp, aud, "devices/data/upload", 0)
}

func TestProcessHappyPath(t *testing.T) {
	reg := &fakeRegistry{}
	disp := &fakeDispatcher{}
	aud := &fakeAuditor{}
	o := newTestOrchestrator(reg, disp, aud)

	err := o.Process(context.Background(), `{"device_id":"D1","temperature_c":25,"concentration_mgL":7}`)
	require.NoError(t, err)

	require.Len(t, aud.readings, 1)
	assert.Equal(t, "D1", aud.readings[0].DeviceID)
	assert.Equal(t, []string{"D1"}, reg.touched)

	require.Len(t, disp.commands, 1)
	assert.Equal(t, models.StatusStart, disp.commands[0].DeviceStatus)

	require.Len(t, aud.commands, 1)
	require.NotNil(t, aud.commands[0].triggeringID)
	assert.Equal(t, int64(1), *aud.commands[0].triggeringID)
}

func TestProcessOutOfRangeReading(t *testing.T) {
	reg := &fakeRegistry{}
	disp := &fakeDispatcher{}
	aud := &fakeAuditor{}
	o := newTestOrchestrator(reg, disp, aud)

	err := o.Process(context.Background(), `{"device_id":"D1","temperature_c":35,"concentration_mgL":7}`)
	require.NoError(t, err)

	require.Len(t, disp.commands, 1)
	assert.Equal(t, models.StatusClose, disp.commands[0].DeviceStatus)
	assert.Equal(t, models.WorkStop, disp.commands[0].WorkStatus)
	assert.Equal(t, int64(1), disp.commands[0].Second)
}

func TestProcessDropsMalformedPayload(t *testing.T) {
	reg := &fakeRegistry{}
	disp := &fakeDispatcher{}
	aud := &fakeAuditor{}
	o := newTestOrchestrator(reg, disp, aud)

	err := o.Process(context.Background(), `{"temperature_c":25}`)
	require.NoError(t, err)

	assert.Empty(t, aud.readings)
	assert.Empty(t, disp.commands)
	assert.Empty(t, reg.touched)
}

func TestProcessRepairsUnquotedDeviceID(t *testing.T) {
	reg := &fakeRegistry{}
	disp := &fakeDispatcher{}
	aud := &fakeAuditor{}
	o := newTestOrchestrator(reg, disp, aud)

	raw := `{"device_id":ABC123,"temperature_c":24.3,"concentration_mgL":7}`
	require.NoError(t, o.Process(context.Background(), raw))

	require.Len(t, aud.readings, 1)
	assert.Equal(t, "ABC123", aud.readings[0].DeviceID)
	assert.Equal(t, raw, aud.readings[0].RawPayload)
}

func TestProcessReadingWriteFailureAborts(t *testing.T) {
	reg := &fakeRegistry{}
	disp := &fakeDispatcher{}
	aud := &fakeAuditor{readingErr: errors.New("database down")}
	o := newTestOrchestrator(reg, disp, aud)

	err := o.Process(context.Background(), `{"device_id":"D1","temperature_c":25,"concentration_mgL":7}`)
	require.Error(t, err)

	assert.Empty(t, disp.commands)
	assert.Empty(t, aud.commands)
	assert.Empty(t, reg.touched)
}

func TestProcessFailedDispatchLeavesNoControlRow(t *testing.T) {
	reg := &fakeRegistry{}
	disp := &fakeDispatcher{err: control.ErrDispatchTimeout}
	aud := &fakeAuditor{}
	o := newTestOrchestrator(reg, disp, aud)

	err := o.Process(context.Background(), `{"device_id":"D1","temperature_c":25,"concentration_mgL":7}`)
	require.NoError(t, err)

	// The reading row survives; the rejected command leaves no audit trail.
	assert.Len(t, aud.readings, 1)
	assert.Empty(t, aud.commands)
}

func TestProcessUsesDeviceOverridesFromResolver(t *testing.T) {
	reg := &fakeRegistry{}
	disp := &fakeDispatcher{}
	aud := &fakeAuditor{}
	resolver := &fakeResolver{threshold: models.Threshold{TempMin: 26, TempMax: 30, OxyMin: 5, OxyMax: 10}}
	o := NewOrchestrator(nil, nil, reg, resolver, disp, aud, "devices/data/upload", 0)

	// 25 degrees is fine against the global bounds but below this
	// device's tightened minimum.
	require.NoError(t, o.Process(context.Background(), `{"device_id":"D1","temperature_c":25,"concentration_mgL":7}`))

	require.Len(t, disp.commands, 1)
	assert.Equal(t, models.StatusClose, disp.commands[0].DeviceStatus)
}

func TestProcessKeepsRecentReadings(t *testing.T) {
	reg := &fakeRegistry{}
	disp := &fakeDispatcher{}
	aud := &fakeAuditor{}
	o := newTestOrchestrator(reg, disp, aud)

	require.NoError(t, o.Process(context.Background(), `{"device_id":"D1","temperature_c":25,"concentration_mgL":7}`))
	require.NoError(t, o.Process(context.Background(), `{"device_id":"D1","temperature_c":26,"concentration_mgL":7}`))

	recent := o.Recent("D1")
	require.Len(t, recent, 2)
	// Newest first.
	assert.Equal(t, 26.0, *recent[0].TemperatureC)
	assert.Equal(t, 25.0, *recent[1].TemperatureC)

	assert.Empty(t, o.Recent("D2"))
}
