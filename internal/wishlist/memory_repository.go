package wishlist

import (
	"context"
	"sort"
	"sync"
)

type memoryRepository struct {
	mu    sync.RWMutex
	items map[string]map[string]Item // userID -> listingID -> item
}

// NewMemoryRepository constructs an in-memory repository for tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{items: make(map[string]map[string]Item)}
}

func (r *memoryRepository) Add(_ context.Context, item Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved := r.items[item.UserID]
	if saved == nil {
		saved = make(map[string]Item)
		r.items[item.UserID] = saved
	}
	if _, ok := saved[item.ListingID]; ok {
		return ErrDuplicate
	}
	saved[item.ListingID] = item
	return nil
}

func (r *memoryRepository) Get(_ context.Context, userID, listingID string) (Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[userID][listingID]
	if !ok {
		return Item{}, ErrNotFound
	}
	return item, nil
}

func (r *memoryRepository) Update(_ context.Context, item Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[item.UserID][item.ListingID]; !ok {
		return ErrNotFound
	}
	r.items[item.UserID][item.ListingID] = item
	return nil
}

func (r *memoryRepository) Remove(_ context.Context, userID, listingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[userID][listingID]; !ok {
		return ErrNotFound
	}
	delete(r.items[userID], listingID)
	return nil
}

func (r *memoryRepository) ByUser(_ context.Context, userID string) ([]Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Item
	for _, item := range r.items[userID] {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Favorite != out[j].Favorite {
			return out[i].Favorite
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
