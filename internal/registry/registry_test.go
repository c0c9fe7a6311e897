package registry

import (
	"context"
	"errors"
	"testing"
	"time"

	"aquactl/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	devices     map[string]*models.Device
	hideOnce    bool
	insertErr   error
	touchErr    error
	insertCalls int
	touchedAt   time.Time
	touchedID   string
}

func newFakeStore() *fakeStore {
	return &fakeStore{devices: make(map[string]*models.Device)}
}

func (f *fakeStore) GetDevice(ctx context.Context, deviceID string) (*models.Device, error) {
	if f.hideOnce {
		f.hideOnce = false
		return nil, pgx.ErrNoRows
	}
	if d, ok := f.devices[deviceID]; ok {
		return d, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeStore) InsertDevice(ctx context.Context, deviceID string) error {
	f.insertCalls++
	if f.insertErr != nil {
		return f.insertErr
	}
	f.devices[deviceID] = &models.Device{DeviceID: deviceID}
	return nil
}

func (f *fakeStore) UpdateDeviceLastSeen(ctx context.Context, deviceID string, at time.Time) error {
	if f.touchErr != nil {
		return f.touchErr
	}
	f.touchedID = deviceID
	f.touchedAt = at
	return nil
}

func TestGetOrCreateExisting(t *testing.T) {
	store := newFakeStore()
	region := "north"
	store.devices["AQ-001"] = &models.Device{DeviceID: "AQ-001", Region: &region}

	device, err := NewRegistry(store).GetOrCreate(context.Background(), "AQ-001")
	require.NoError(t, err)
	assert.Equal(t, "AQ-001", device.DeviceID)
	assert.Equal(t, 0, store.insertCalls)
}

func TestGetOrCreateAutoRegisters(t *testing.T) {
	store := newFakeStore()

	device, err := NewRegistry(store).GetOrCreate(context.Background(), "AQ-NEW")
	require.NoError(t, err)
	assert.Equal(t, "AQ-NEW", device.DeviceID)
	assert.Nil(t, device.Region)
	assert.Nil(t, device.ConfigPriority)
	assert.Equal(t, 1, store.insertCalls)
}

func TestGetOrCreateAbsorbsDuplicateKey(t *testing.T) {
	// A concurrent first sighting wins the insert between our read and
	// write: the first read misses, the insert hits a unique violation,
	// and the re-read finds the winner's row.
	store := newFakeStore()
	store.hideOnce = true
	store.insertErr = &pgconn.PgError{Code: "23505"}
	store.devices["AQ-RACE"] = &models.Device{DeviceID: "AQ-RACE"}

	device, err := NewRegistry(store).GetOrCreate(context.Background(), "AQ-RACE")
	require.NoError(t, err)
	assert.Equal(t, "AQ-RACE", device.DeviceID)
}

func TestGetOrCreatePropagatesOtherInsertErrors(t *testing.T) {
	store := newFakeStore()
	store.insertErr = errors.New("connection refused")

	_, err := NewRegistry(store).GetOrCreate(context.Background(), "AQ-ERR")
	assert.Error(t, err)
}

func TestTouchLastSeenBestEffort(t *testing.T) {
	store := newFakeStore()
	reg := NewRegistry(store)

	at := time.Now()
	reg.TouchLastSeen(context.Background(), "AQ-001", at)
	assert.Equal(t, "AQ-001", store.touchedID)
	assert.Equal(t, at, store.touchedAt)

	// A failing update is logged, never surfaced.
	store.touchErr = errors.New("deadlock detected")
	reg.TouchLastSeen(context.Background(), "AQ-001", time.Now())
}
