package ingest

import (
	"sync"

	"aquactl/internal/models"
)

// recentCapacity bounds how many readings are kept in memory per device.
const recentCapacity = 100

// recentBuffer keeps a fixed-capacity ring of the latest readings per device.
// It is a diagnostic aid only; the durable record is the telemetry log.
type recentBuffer struct {
	mu       sync.Mutex
	capacity int
	byDevice map[string]*ring
}

type ring struct {
	entries []models.SensorReading
	next    int
	full    bool
}

func newRecentBuffer(capacity int) *recentBuffer {
	return &recentBuffer{
		capacity: capacity,
		byDevice: make(map[string]*ring),
	}
}

// Add records a reading, evicting the oldest once the ring is full.
func (b *recentBuffer) Add(reading *models.SensorReading) {
	b.mu.Lock()
	defer b.mu.Unlock()

	r, ok := b.byDevice[reading.DeviceID]
	if !ok {
		r = &ring{entries: make([]models.SensorReading, b.capacity)}
		b.byDevice[reading.DeviceID] = r
	}
	r.entries[r.next] = *reading
	r.next = (r.next + 1) % b.capacity
	if r.next == 0 {
		r.full = true
	}
}

// Recent returns the buffered readings for a device, newest first.
func (b *recentBuffer) Recent(deviceID string) []models.SensorReading {
	b.mu.Lock()
	defer b.mu.Unlock()

	r, ok := b.byDevice[deviceID]
	if !ok {
		return nil
	}
	size := r.next
	if r.full {
		size = b.capacity
	}
	out := make([]models.SensorReading, 0, size)
	for i := 1; i <= size; i++ {
		idx := (r.next - i + b.capacity) % b.capacity
		out = append(out, r.entries[idx])
	}
	return out
}
