package threshold

import (
	"context"
	"sync"
	"testing"

	"aquactl/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

var globalDefault = models.Threshold{TempMin: 20, TempMax: 32, OxyMin: 5, OxyMax: 10}

type fakeRegionStore struct {
	configs map[string]*models.RegionThreshold
}

func (f *fakeRegionStore) GetRegionThreshold(ctx context.Context, region string) (*models.RegionThreshold, error) {
	if cfg, ok := f.configs[region]; ok {
		return cfg, nil
	}
	return nil, pgx.ErrNoRows
}

func f64(v float64) *float64 { return &v }
func str(v string) *string   { return &v }

func newResolver(regions map[string]*models.RegionThreshold) *Resolver {
	return NewResolver(NewStore(globalDefault), &fakeRegionStore{configs: regions})
}

func TestResolveDeviceOverrides(t *testing.T) {
	device := &models.Device{
		DeviceID:       "AQ-001",
		ConfigPriority: str(models.PriorityDevice),
		TempMin:        f64(22), TempMax: f64(28),
		OxyMin: f64(6), OxyMax: f64(9),
	}
	got := newResolver(nil).Resolve(context.Background(), device)
	assert.Equal(t, models.Threshold{TempMin: 22, TempMax: 28, OxyMin: 6, OxyMax: 9}, got)
}

func TestResolvePartialDeviceBoundsFallThrough(t *testing.T) {
	// A missing oxy_max disqualifies the whole DEVICE level; no per-field
	// mix with the device's temperature bounds.
	device := &models.Device{
		DeviceID:       "AQ-001",
		ConfigPriority: str(models.PriorityDevice),
		TempMin:        f64(22), TempMax: f64(28),
		OxyMin: f64(6),
	}
	got := newResolver(nil).Resolve(context.Background(), device)
	assert.Equal(t, globalDefault, got)
}

func TestResolveRegionOverrides(t *testing.T) {
	regions := map[string]*models.RegionThreshold{
		"north": {Region: "north", TempMin: f64(18), TempMax: f64(30), OxyMin: f64(5.5), OxyMax: f64(9.5)},
	}
	device := &models.Device{
		DeviceID:       "AQ-002",
		Region:         str("north"),
		ConfigPriority: str(models.PriorityRegion),
	}
	got := newResolver(regions).Resolve(context.Background(), device)
	assert.Equal(t, models.Threshold{TempMin: 18, TempMax: 30, OxyMin: 5.5, OxyMax: 9.5}, got)
}

func TestResolveRegionPriorityWithoutRegion(t *testing.T) {
	device := &models.Device{DeviceID: "AQ-003", ConfigPriority: str(models.PriorityRegion)}
	got := newResolver(nil).Resolve(context.Background(), device)
	assert.Equal(t, globalDefault, got)
}

func TestResolveIncompleteRegionConfigFallThrough(t *testing.T) {
	regions := map[string]*models.RegionThreshold{
		"south": {Region: "south", TempMin: f64(18), TempMax: f64(30)},
	}
	device := &models.Device{
		DeviceID:       "AQ-004",
		Region:         str("south"),
		ConfigPriority: str(models.PriorityRegion),
	}
	got := newResolver(regions).Resolve(context.Background(), device)
	assert.Equal(t, globalDefault, got)
}

func TestResolveUnsetPriority(t *testing.T) {
	got := newResolver(nil).Resolve(context.Background(), &models.Device{DeviceID: "AQ-005"})
	assert.Equal(t, globalDefault, got)
}

func TestResolveGlobalPriorityIgnoresDeviceBounds(t *testing.T) {
	device := &models.Device{
		DeviceID:       "AQ-006",
		ConfigPriority: str(models.PriorityGlobal),
		TempMin:        f64(22), TempMax: f64(28),
		OxyMin: f64(6), OxyMax: f64(9),
	}
	got := newResolver(nil).Resolve(context.Background(), device)
	assert.Equal(t, globalDefault, got)
}

func TestStoreReplaceIsComplete(t *testing.T) {
	store := NewStore(globalDefault)
	next := models.Threshold{TempMin: 19, TempMax: 31, OxyMin: 4.5, OxyMax: 11}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				got := store.Current()
				// Readers only ever see one of the two complete values.
				if got != globalDefault && got != next {
					t.Errorf("observed torn threshold: %+v", got)
					return
				}
			}
		}()
	}
	store.Replace(next)
	wg.Wait()

	assert.Equal(t, next, store.Current())
}
