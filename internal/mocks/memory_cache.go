package mocks

import (
	"context"
	"sync"

	"cinema-reservation/internal/data/cache"
)

// MemoryAvailabilityCache follows the same generation rules as the redis cache.
type MemoryAvailabilityCache struct {
	mu    sync.Mutex
	snaps map[int64]cache.SeatSnapshot
	gens  map[int64]int64
}

func NewMemoryAvailabilityCache() *MemoryAvailabilityCache {
	return &MemoryAvailabilityCache{
		snaps: make(map[int64]cache.SeatSnapshot),
		gens:  make(map[int64]int64),
	}
}

func (c *MemoryAvailabilityCache) Get(_ context.Context, showtimeID int64) (*cache.SeatSnapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap, ok := c.snaps[showtimeID]
	if !ok {
		return nil, nil
	}
	return &snap, nil
}

func (c *MemoryAvailabilityCache) Generation(_ context.Context, showtimeID int64) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[showtimeID], nil
}

func (c *MemoryAvailabilityCache) Set(_ context.Context, showtimeID, generation int64, snap cache.SeatSnapshot) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gens[showtimeID] != generation {
		return false, nil
	}
	c.snaps[showtimeID] = snap
	return true, nil
}

func (c *MemoryAvailabilityCache) Invalidate(_ context.Context, showtimeID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gens[showtimeID]++
	delete(c.snaps, showtimeID)
	return nil
}

// Snapshot peeks at the stored value without going through Get.
func (c *MemoryAvailabilityCache) Snapshot(showtimeID int64) (cache.SeatSnapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap, ok := c.snaps[showtimeID]
	return snap, ok
}
