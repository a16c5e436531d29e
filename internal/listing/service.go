package listing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/amoria-global/jambolush-dashboard-sub002/internal/storage"
)

var (
	// ErrNotOwner indicates the caller does not own the listing.
	ErrNotOwner = errors.New("not the owner of this listing")
	// ErrNotPublishable indicates required sections are still incomplete.
	ErrNotPublishable = errors.New("complete all required sections before publishing")
)

// Service manages listing lifecycle: draft creation, sectioned updates,
// media, publication and querying.
type Service struct {
	repo     Repository
	uploader storage.Uploader
	validate *validator.Validate
}

// NewService builds a listing service.
func NewService(repo Repository, uploader storage.Uploader) *Service {
	return &Service{repo: repo, uploader: uploader, validate: validator.New()}
}

// CreateInput starts a draft. Only the kind and a working title are needed;
// the wizard fills the rest section by section.
type CreateInput struct {
	HostID string `validate:"required"`
	Kind   Kind   `validate:"required,oneof=property tour"`
	Title  string `validate:"required,min=3,max=140"`
}

// Create opens a new draft listing.
func (s *Service) Create(ctx context.Context, input CreateInput) (Listing, error) {
	if err := s.validate.Struct(input); err != nil {
		return Listing{}, err
	}
	now := time.Now().UTC()
	l := Listing{
		ID:        uuid.NewString(),
		HostID:    input.HostID,
		Kind:      input.Kind,
		Title:     strings.TrimSpace(input.Title),
		Status:    StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return Listing{}, err
	}
	return l, nil
}

// BasicsInput is the first wizard section.
type BasicsInput struct {
	Title       string `validate:"required,min=3,max=140"`
	Description string `validate:"max=5000"`
	Location    string `validate:"required,min=2,max=200"`
	MaxGuests   int    `validate:"gte=1,lte=100"`
}

// UpdateBasics applies the basics section.
func (s *Service) UpdateBasics(ctx context.Context, hostID, listingID string, input BasicsInput) (Listing, error) {
	if err := s.validate.Struct(input); err != nil {
		return Listing{}, err
	}
	return s.mutate(ctx, hostID, listingID, func(l *Listing) error {
		l.Title = strings.TrimSpace(input.Title)
		l.Description = strings.TrimSpace(input.Description)
		l.Location = strings.TrimSpace(input.Location)
		l.MaxGuests = input.MaxGuests
		return nil
	})
}

// PricingInput is the pricing wizard section. Price is in cents.
type PricingInput struct {
	Price int64 `validate:"gt=0"`
}

// UpdatePricing applies the pricing section.
func (s *Service) UpdatePricing(ctx context.Context, hostID, listingID string, input PricingInput) (Listing, error) {
	if err := s.validate.Struct(input); err != nil {
		return Listing{}, err
	}
	return s.mutate(ctx, hostID, listingID, func(l *Listing) error {
		l.Price = input.Price
		return nil
	})
}

// UpdateItinerary replaces a tour's itinerary.
func (s *Service) UpdateItinerary(ctx context.Context, hostID, listingID string, steps []ItineraryStep) (Listing, error) {
	return s.mutate(ctx, hostID, listingID, func(l *Listing) error {
		if l.Kind != KindTour {
			return errors.New("only tours have an itinerary")
		}
		for _, step := range steps {
			if strings.TrimSpace(step.Title) == "" {
				return errors.New("every itinerary step needs a title")
			}
		}
		l.Itinerary = steps
		return nil
	})
}

// AttachMedia uploads the file first, then links it to the listing. When the
// link fails the uploaded object is deleted so storage never holds orphans.
func (s *Service) AttachMedia(ctx context.Context, hostID, listingID, filename, contentType string, body io.Reader) (Listing, error) {
	key := fmt.Sprintf("listings/%s/%s-%s", listingID, uuid.NewString()[:8], filename)
	obj, err := s.uploader.Upload(ctx, key, contentType, body)
	if err != nil {
		return Listing{}, err
	}

	updated, err := s.mutate(ctx, hostID, listingID, func(l *Listing) error {
		l.Media = append(l.Media, Media{Key: obj.Key, URL: obj.URL})
		return nil
	})
	if err != nil {
		_ = s.uploader.Delete(ctx, obj.Key)
		return Listing{}, err
	}
	return updated, nil
}

// RemoveMedia detaches and deletes a media object.
func (s *Service) RemoveMedia(ctx context.Context, hostID, listingID, key string) (Listing, error) {
	updated, err := s.mutate(ctx, hostID, listingID, func(l *Listing) error {
		kept := l.Media[:0]
		found := false
		for _, m := range l.Media {
			if m.Key == key {
				found = true
				continue
			}
			kept = append(kept, m)
		}
		if !found {
			return storage.ErrNotFound
		}
		l.Media = kept
		return nil
	})
	if err != nil {
		return Listing{}, err
	}
	_ = s.uploader.Delete(ctx, key)
	return updated, nil
}

// Publish validates completeness and flips the listing live.
func (s *Service) Publish(ctx context.Context, hostID, listingID string) (Listing, error) {
	return s.mutate(ctx, hostID, listingID, func(l *Listing) error {
		if l.Title == "" || l.Location == "" || l.Price <= 0 || l.MaxGuests < 1 {
			return ErrNotPublishable
		}
		if l.Kind == KindTour && len(l.Itinerary) == 0 {
			return ErrNotPublishable
		}
		l.Status = StatusPublished
		return nil
	})
}

// Archive takes the listing offline without deleting it.
func (s *Service) Archive(ctx context.Context, hostID, listingID string) (Listing, error) {
	return s.mutate(ctx, hostID, listingID, func(l *Listing) error {
		l.Status = StatusArchived
		return nil
	})
}

// Get fetches a listing, enforcing ownership.
func (s *Service) Get(ctx context.Context, hostID, listingID string) (Listing, error) {
	l, err := s.repo.Get(ctx, listingID)
	if err != nil {
		return Listing{}, err
	}
	if l.HostID != hostID {
		return Listing{}, ErrNotOwner
	}
	return l, nil
}

// Search filters, sorts and paginates the host's listings.
func (s *Service) Search(ctx context.Context, q Query) ([]Listing, PageMeta, error) {
	all, err := s.repo.ByHost(ctx, q.HostID)
	if err != nil {
		return nil, PageMeta{}, err
	}

	filtered := all[:0:0]
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	for _, l := range all {
		if q.Kind != "" && l.Kind != q.Kind {
			continue
		}
		if q.Status != "" && l.Status != q.Status {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(l.Title), needle) &&
			!strings.Contains(strings.ToLower(l.Location), needle) {
			continue
		}
		filtered = append(filtered, l)
	}

	sortListings(filtered, q.SortBy, q.SortDir)

	page, perPage := q.Page, q.PerPage
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	total := len(filtered)
	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}
	meta := PageMeta{Page: page, PerPage: perPage, Total: total, TotalPages: (total + perPage - 1) / perPage}
	return filtered[start:end], meta, nil
}

func sortListings(items []Listing, by, dir string) {
	desc := strings.EqualFold(dir, "desc")
	less := func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) }
	switch by {
	case "price":
		less = func(i, j int) bool { return items[i].Price < items[j].Price }
	case "title":
		less = func(i, j int) bool { return strings.ToLower(items[i].Title) < strings.ToLower(items[j].Title) }
	case "", "createdAt":
		// default
	}
	if desc {
		inner := less
		less = func(i, j int) bool { return inner(j, i) }
	}
	sort.SliceStable(items, less)
}

func (s *Service) mutate(ctx context.Context, hostID, listingID string, fn func(*Listing) error) (Listing, error) {
	l, err := s.repo.Get(ctx, listingID)
	if err != nil {
		return Listing{}, err
	}
	if l.HostID != hostID {
		return Listing{}, ErrNotOwner
	}
	if err := fn(&l); err != nil {
		return Listing{}, err
	}
	l.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, l); err != nil {
		return Listing{}, err
	}
	return l, nil
}
