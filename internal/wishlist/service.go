package wishlist

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/amoria-global/jambolush-dashboard-sub002/internal/listing"
)

// ErrInvalidRating rejects ratings outside 1..5.
var ErrInvalidRating = errors.New("rating must be between 1 and 5")

// Service manages a user's saved listings.
type Service struct {
	repo     Repository
	listings listing.Repository
}

// NewService builds a wishlist service.
func NewService(repo Repository, listings listing.Repository) *Service {
	return &Service{repo: repo, listings: listings}
}

// Add saves a listing to the user's wishlist.
func (s *Service) Add(ctx context.Context, userID, listingID string) (Item, error) {
	if _, err := s.listings.Get(ctx, listingID); err != nil {
		return Item{}, err
	}

	now := time.Now().UTC()
	item := Item{
		ID:        uuid.NewString(),
		UserID:    userID,
		ListingID: listingID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Add(ctx, item); err != nil {
		return Item{}, err
	}
	return item, nil
}

// UpdateInput carries the user's annotations. Nil fields are left unchanged.
type UpdateInput struct {
	Favorite *bool
	Rating   *int
	Note     *string
}

// Update edits an item's favorite flag, rating or note.
func (s *Service) Update(ctx context.Context, userID, listingID string, input UpdateInput) (Item, error) {
	item, err := s.repo.Get(ctx, userID, listingID)
	if err != nil {
		return Item{}, err
	}

	if input.Favorite != nil {
		item.Favorite = *input.Favorite
	}
	if input.Rating != nil {
		if *input.Rating < 1 || *input.Rating > 5 {
			return Item{}, ErrInvalidRating
		}
		item.Rating = *input.Rating
	}
	if input.Note != nil {
		item.Note = *input.Note
	}
	item.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, item); err != nil {
		return Item{}, err
	}
	return item, nil
}

// Remove takes a listing off the wishlist.
func (s *Service) Remove(ctx context.Context, userID, listingID string) error {
	return s.repo.Remove(ctx, userID, listingID)
}

// List returns the user's wishlist, favorites first.
func (s *Service) List(ctx context.Context, userID string) ([]Item, error) {
	return s.repo.ByUser(ctx, userID)
}
