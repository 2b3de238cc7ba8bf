package chem

import (
	"fmt"
	"sync"
)

// BeakerID is a unique identifier for a beaker
type BeakerID string

// BeakerManager manages multiple beakers, each isolated from the others
type BeakerManager struct {
	mu      sync.RWMutex
	beakers map[BeakerID]*Beaker
	logger  Logger
}

// NewBeakerManager creates a new beaker manager
func NewBeakerManager() *BeakerManager {
	return NewBeakerManagerWithLogger(NewNoOpLogger())
}

// NewBeakerManagerWithLogger creates a new beaker manager whose beakers
// inherit the given logger
func NewBeakerManagerWithLogger(logger Logger) *BeakerManager {
	return &BeakerManager{
		beakers: make(map[BeakerID]*Beaker),
		logger:  logger,
	}
}

// CreateBeaker creates a new beaker with the given ID and catalog.
// Returns an error if a beaker with that ID already exists.
func (bm *BeakerManager) CreateBeaker(id BeakerID, catalog *Catalog) (*Beaker, error) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if _, exists := bm.beakers[id]; exists {
		return nil, fmt.Errorf("beaker with id %s already exists", id)
	}

	b := NewBeaker(id, catalog)
	b.SetLogger(bm.logger)
	bm.beakers[id] = b
	return b, nil
}

// GetBeaker retrieves a beaker by ID.
// Returns the beaker and a boolean indicating if it was found.
func (bm *BeakerManager) GetBeaker(id BeakerID) (*Beaker, bool) {
	bm.mu.RLock()
	defer bm.mu.RUnlock()

	b, exists := bm.beakers[id]
	return b, exists
}

// DeleteBeaker removes a beaker by ID, stopping it first if it is
// running. Returns an error if the beaker doesn't exist.
func (bm *BeakerManager) DeleteBeaker(id BeakerID) error {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	b, exists := bm.beakers[id]
	if !exists {
		return fmt.Errorf("beaker with id %s does not exist", id)
	}

	b.Stop()
	delete(bm.beakers, id)
	return nil
}

// ListBeakers returns a list of all beaker IDs
func (bm *BeakerManager) ListBeakers() []BeakerID {
	bm.mu.RLock()
	defer bm.mu.RUnlock()

	ids := make([]BeakerID, 0, len(bm.beakers))
	for id := range bm.beakers {
		ids = append(ids, id)
	}
	return ids
}

// ReplaceCatalog swaps the catalog of an existing beaker while keeping
// all of its matter. Returns an error if the beaker doesn't exist.
func (bm *BeakerManager) ReplaceCatalog(id BeakerID, catalog *Catalog) error {
	bm.mu.RLock()
	b, exists := bm.beakers[id]
	bm.mu.RUnlock()

	if !exists {
		return fmt.Errorf("beaker with id %s does not exist", id)
	}

	b.ReplaceCatalog(catalog)
	return nil
}
