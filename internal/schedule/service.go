package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amoria-global/jambolush-dashboard-sub002/internal/listing"
)

var (
	// ErrNotOwner indicates the caller does not own the listing.
	ErrNotOwner = errors.New("not the owner of this listing")
	// ErrInvalidSlot rejects a slot whose window or capacity is malformed.
	ErrInvalidSlot = errors.New("slot must end after it starts and hold at least one guest")
)

// Service manages listing calendars. The host submits the full desired
// calendar; the service diffs it against storage and applies only the delta.
type Service struct {
	repo     Repository
	listings listing.Repository

	now func() time.Time
}

// NewService builds a schedule service.
func NewService(repo Repository, listings listing.Repository) *Service {
	return &Service{repo: repo, listings: listings, now: time.Now}
}

// Calendar returns the listing's slots ordered by start time.
func (s *Service) Calendar(ctx context.Context, hostID, listingID string) ([]Slot, error) {
	if err := s.authorize(ctx, hostID, listingID); err != nil {
		return nil, err
	}
	return s.repo.ByListing(ctx, listingID)
}

// Sync reconciles the stored calendar with the desired one and returns the
// change set that was applied plus the resulting slots.
func (s *Service) Sync(ctx context.Context, hostID, listingID string, desired []SlotInput) (ChangeSet, []Slot, error) {
	if err := s.authorize(ctx, hostID, listingID); err != nil {
		return ChangeSet{}, nil, err
	}
	for i, in := range desired {
		if !in.EndsAt.After(in.StartsAt) || in.Capacity < 1 {
			return ChangeSet{}, nil, fmt.Errorf("slot %d: %w", i, ErrInvalidSlot)
		}
	}

	existing, err := s.repo.ByListing(ctx, listingID)
	if err != nil {
		return ChangeSet{}, nil, err
	}

	changes := Diff(listingID, existing, desired, s.now().UTC())
	if err := s.repo.Apply(ctx, listingID, changes); err != nil {
		return ChangeSet{}, nil, err
	}

	slots, err := s.repo.ByListing(ctx, listingID)
	if err != nil {
		return ChangeSet{}, nil, err
	}
	return changes, slots, nil
}

func (s *Service) authorize(ctx context.Context, hostID, listingID string) error {
	l, err := s.listings.Get(ctx, listingID)
	if err != nil {
		return err
	}
	if l.HostID != hostID {
		return ErrNotOwner
	}
	return nil
}
