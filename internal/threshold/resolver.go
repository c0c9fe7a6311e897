package threshold

import (
	"context"
	"errors"
	"log"

	"aquactl/internal/models"

	"github.com/jackc/pgx/v5"
)

// RegionStore looks up override bounds for a region code. *db.DB satisfies it.
type RegionStore interface {
	GetRegionThreshold(ctx context.Context, region string) (*models.RegionThreshold, error)
}

// Resolver picks the effective threshold for a device following the
// DEVICE > REGION > GLOBAL override cascade. A level is used only when all
// four of its bounds are present; otherwise resolution falls through to the
// next level entirely. There is no per-field merge.
type Resolver struct {
	global  *Store
	regions RegionStore
}

// NewResolver creates a resolver over the global store and region lookups.
func NewResolver(global *Store, regions RegionStore) *Resolver {
	return &Resolver{global: global, regions: regions}
}

// Resolve returns the effective threshold for the given device record.
func (r *Resolver) Resolve(ctx context.Context, device *models.Device) models.Threshold {
	if device == nil || device.ConfigPriority == nil {
		return r.global.Current()
	}

	switch *device.ConfigPriority {
	case models.PriorityDevice:
		if device.HasDeviceBounds() {
			return models.Threshold{
				TempMin: *device.TempMin,
				TempMax: *device.TempMax,
				OxyMin:  *device.OxyMin,
				OxyMax:  *device.OxyMax,
			}
		}
	case models.PriorityRegion:
		if device.Region != nil {
			if t := r.regionThreshold(ctx, *device.Region); t != nil {
				return *t
			}
		}
	}
	return r.global.Current()
}

func (r *Resolver) regionThreshold(ctx context.Context, region string) *models.Threshold {
	cfg, err := r.regions.GetRegionThreshold(ctx, region)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			log.Printf("THRESHOLD: region lookup failed for %s, falling back to global: %v", region, err)
		}
		return nil
	}
	if !cfg.Complete() {
		return nil
	}
	return &models.Threshold{
		TempMin: *cfg.TempMin,
		TempMax: *cfg.TempMax,
		OxyMin:  *cfg.OxyMin,
		OxyMax:  *cfg.OxyMax,
	}
}
