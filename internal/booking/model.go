package booking

import "time"

// Status is the booking lifecycle:
// pending -> confirmed -> completed, with cancellation before completion.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Booking links a guest to a host's listing for a date range.
type Booking struct {
	ID        string    `json:"id"`
	ListingID string    `json:"listingId"`
	HostID    string    `json:"hostId"`
	GuestID   string    `json:"guestId"`
	GuestName string    `json:"guestName,omitempty"`
	CheckIn   time.Time `json:"checkIn"`
	CheckOut  time.Time `json:"checkOut"`
	Guests    int       `json:"guests"`
	Total     int64     `json:"total"` // cents
	Status    Status    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Filter narrows a host's booking list.
type Filter struct {
	Status Status
	From   time.Time
	To     time.Time
}
