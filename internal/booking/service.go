package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/amoria-global/jambolush-dashboard-sub002/internal/listing"
	"github.com/amoria-global/jambolush-dashboard-sub002/internal/metrics"
	"github.com/amoria-global/jambolush-dashboard-sub002/internal/notification"
	"github.com/amoria-global/jambolush-dashboard-sub002/internal/wallet"
)

var (
	// ErrNotOwner indicates the caller is not the booking's host.
	ErrNotOwner = errors.New("not the host of this booking")
	// ErrInvalidTransition rejects out-of-order status changes.
	ErrInvalidTransition = errors.New("invalid booking status transition")
	// ErrNotEditable rejects edits once the booking left pending/confirmed.
	ErrNotEditable = errors.New("booking can no longer be edited")
	// ErrInvalidDates rejects a check-out on or before check-in.
	ErrInvalidDates = errors.New("check-out must be after check-in")
)

// Service manages bookings on behalf of hosts. Completing a booking credits
// the host's wallet with the payout.
type Service struct {
	repo     Repository
	listings listing.Repository
	wallets  *wallet.Service
	notifier notification.Notifier
	metrics  *metrics.Metrics
}

// NewService builds a booking service.
func NewService(repo Repository, listings listing.Repository, wallets *wallet.Service, notifier notification.Notifier, m *metrics.Metrics) *Service {
	return &Service{repo: repo, listings: listings, wallets: wallets, notifier: notifier, metrics: m}
}

// CreateInput captures a new booking against a published listing.
type CreateInput struct {
	ListingID string
	GuestID   string
	GuestName string
	CheckIn   time.Time
	CheckOut  time.Time
	Guests    int
}

// Create records a pending booking for a published listing.
func (s *Service) Create(ctx context.Context, input CreateInput) (Booking, error) {
	if !input.CheckOut.After(input.CheckIn) {
		return Booking{}, ErrInvalidDates
	}
	if input.Guests < 1 {
		return Booking{}, errors.New("at least one guest is required")
	}

	l, err := s.listings.Get(ctx, input.ListingID)
	if err != nil {
		return Booking{}, err
	}
	if l.Status != listing.StatusPublished {
		return Booking{}, errors.New("listing is not open for booking")
	}
	if input.Guests > l.MaxGuests {
		return Booking{}, fmt.Errorf("listing allows at most %d guests", l.MaxGuests)
	}

	nights := int64(input.CheckOut.Sub(input.CheckIn).Hours() / 24)
	if nights < 1 {
		nights = 1
	}
	total := l.Price * nights
	if l.Kind == listing.KindTour {
		total = l.Price * int64(input.Guests)
	}

	now := time.Now().UTC()
	b := Booking{
		ID:        uuid.NewString(),
		ListingID: l.ID,
		HostID:    l.HostID,
		GuestID:   input.GuestID,
		GuestName: input.GuestName,
		CheckIn:   input.CheckIn.UTC(),
		CheckOut:  input.CheckOut.UTC(),
		Guests:    input.Guests,
		Total:     total,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return Booking{}, err
	}
	return b, nil
}

// ListByHost returns the host's bookings, filtered.
func (s *Service) ListByHost(ctx context.Context, hostID string, filter Filter) ([]Booking, error) {
	return s.repo.ByHost(ctx, hostID, filter)
}

// Get fetches a booking, enforcing host ownership.
func (s *Service) Get(ctx context.Context, hostID, id string) (Booking, error) {
	b, err := s.repo.Get(ctx, id)
	if err != nil {
		return Booking{}, err
	}
	if b.HostID != hostID {
		return Booking{}, ErrNotOwner
	}
	return b, nil
}

// EditInput updates booking details while it is still pending or confirmed.
type EditInput struct {
	CheckIn  time.Time
	CheckOut time.Time
	Guests   int
	Notes    string
}

// Edit updates dates, guest count and notes.
func (s *Service) Edit(ctx context.Context, hostID, id string, input EditInput) (Booking, error) {
	b, err := s.Get(ctx, hostID, id)
	if err != nil {
		return Booking{}, err
	}
	if b.Status != StatusPending && b.Status != StatusConfirmed {
		return Booking{}, ErrNotEditable
	}
	if !input.CheckOut.After(input.CheckIn) {
		return Booking{}, ErrInvalidDates
	}
	if input.Guests < 1 {
		return Booking{}, errors.New("at least one guest is required")
	}

	b.CheckIn = input.CheckIn.UTC()
	b.CheckOut = input.CheckOut.UTC()
	b.Guests = input.Guests
	b.Notes = input.Notes
	b.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, b); err != nil {
		return Booking{}, err
	}
	return b, nil
}

var validTransitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// Confirm accepts a pending booking.
func (s *Service) Confirm(ctx context.Context, hostID, id string) (Booking, error) {
	return s.transition(ctx, hostID, id, StatusConfirmed)
}

// Complete closes out a confirmed booking and pays the host.
func (s *Service) Complete(ctx context.Context, hostID, id string) (Booking, error) {
	return s.transition(ctx, hostID, id, StatusCompleted)
}

// Cancel aborts a booking before completion.
func (s *Service) Cancel(ctx context.Context, hostID, id string) (Booking, error) {
	return s.transition(ctx, hostID, id, StatusCancelled)
}

func (s *Service) transition(ctx context.Context, hostID, id string, next Status) (Booking, error) {
	b, err := s.Get(ctx, hostID, id)
	if err != nil {
		return Booking{}, err
	}

	allowed := false
	for _, candidate := range validTransitions[b.Status] {
		if candidate == next {
			allowed = true
			break
		}
	}
	if !allowed {
		return Booking{}, ErrInvalidTransition
	}

	b.Status = next
	b.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, b); err != nil {
		return Booking{}, err
	}

	if next == StatusCompleted && s.wallets != nil {
		if _, err := s.wallets.Credit(ctx, b.HostID, b.Total, "booking:"+b.ID, "booking payout"); err != nil {
			return Booking{}, err
		}
	}

	if s.metrics != nil {
		s.metrics.BookingsByStatus.WithLabelValues(string(next)).Inc()
	}
	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindBookingStatus,
			Destination: b.GuestID,
			Body:        fmt.Sprintf("Your booking %s is now %s.", b.ID, next),
		})
	}
	return b, nil
}
