package threshold

import (
	"sync"

	"aquactl/internal/models"
)

// Store holds the process-wide global default threshold. Readers always see
// either the old or the new complete set of four bounds; Replace swaps them
// as one value under the write lock, never field by field.
type Store struct {
	mu      sync.RWMutex
	current models.Threshold
}

// NewStore creates the global threshold store with its startup value.
func NewStore(initial models.Threshold) *Store {
	return &Store{current: initial}
}

// Current returns the global default threshold.
func (s *Store) Current() models.Threshold {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Replace atomically installs a new global default threshold.
func (s *Store) Replace(t models.Threshold) {
	s.mu.Lock()
	s.current = t
	s.mu.Unlock()
}
