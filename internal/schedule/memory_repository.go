package schedule

import (
	"context"
	"sort"
	"sync"
)

type memoryRepository struct {
	mu    sync.RWMutex
	slots map[string]map[string]Slot // listingID -> slotID -> slot
}

// NewMemoryRepository constructs an in-memory repository for tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{slots: make(map[string]map[string]Slot)}
}

func (r *memoryRepository) ByListing(_ context.Context, listingID string) ([]Slot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Slot
	for _, s := range r.slots[listingID] {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out, nil
}

func (r *memoryRepository) Apply(_ context.Context, listingID string, changes ChangeSet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cal := r.slots[listingID]
	if cal == nil {
		cal = make(map[string]Slot)
		r.slots[listingID] = cal
	}
	for _, s := range changes.Updates {
		if _, ok := cal[s.ID]; !ok {
			return ErrNotFound
		}
	}
	for _, s := range changes.Creates {
		cal[s.ID] = s
	}
	for _, s := range changes.Updates {
		cal[s.ID] = s
	}
	for _, id := range changes.Deletes {
		delete(cal, id)
	}
	return nil
}
