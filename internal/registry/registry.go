package registry

import (
	"context"
	"errors"
	"log"
	"time"

	"aquactl/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Store is the persistence surface the registry needs. *db.DB satisfies it.
type Store interface {
	GetDevice(ctx context.Context, deviceID string) (*models.Device, error)
	InsertDevice(ctx context.Context, deviceID string) error
	UpdateDeviceLastSeen(ctx context.Context, deviceID string, at time.Time) error
}

// Registry gives the ingestion pipeline access to device records.
type Registry struct {
	store Store
}

// NewRegistry creates a registry over the given store.
func NewRegistry(store Store) *Registry {
	return &Registry{store: store}
}

// GetOrCreate returns the record for deviceID, auto-registering a bare record
// on first sighting. Two concurrent first sightings may both attempt the
// insert; the loser's unique violation is resolved by re-reading the row the
// winner created.
func (r *Registry) GetOrCreate(ctx context.Context, deviceID string) (*models.Device, error) {
	device, err := r.store.GetDevice(ctx, deviceID)
	if err == nil {
		return device, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	log.Printf("REGISTRY: auto-registering new device %s", deviceID)
	if err := r.store.InsertDevice(ctx, deviceID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return r.store.GetDevice(ctx, deviceID)
		}
		return nil, err
	}
	return r.store.GetDevice(ctx, deviceID)
}

// TouchLastSeen updates the device's last report time. Best effort: a failure
// is logged and never blocks the pipeline.
func (r *Registry) TouchLastSeen(ctx context.Context, deviceID string, at time.Time) {
	if err := r.store.UpdateDeviceLastSeen(ctx, deviceID, at); err != nil {
		log.Printf("REGISTRY: failed to update last_seen for device %s: %v", deviceID, err)
	}
}
