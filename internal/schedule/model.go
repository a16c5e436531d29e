package schedule

import "time"

// Slot is one bookable window on a listing's calendar. Tours use capacity
// for seats; properties use it for availability (capacity 1).
type Slot struct {
	ID        string    `json:"id"`
	ListingID string    `json:"listingId"`
	StartsAt  time.Time `json:"startsAt"`
	EndsAt    time.Time `json:"endsAt"`
	Capacity  int       `json:"capacity"`
	Price     int64     `json:"price,omitempty"` // cents; overrides the listing price when set
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SlotInput is the desired state of one slot as submitted by the host.
// An empty ID means a new slot.
type SlotInput struct {
	ID       string    `json:"id,omitempty"`
	StartsAt time.Time `json:"startsAt"`
	EndsAt   time.Time `json:"endsAt"`
	Capacity int       `json:"capacity"`
	Price    int64     `json:"price,omitempty"`
}

// ChangeSet is the result of diffing the stored calendar against the
// desired one: what to insert, what to rewrite, what to remove.
type ChangeSet struct {
	Creates []Slot   `json:"creates"`
	Updates []Slot   `json:"updates"`
	Deletes []string `json:"deletes"`
}

// Empty reports whether applying the change set would be a no-op.
func (c ChangeSet) Empty() bool {
	return len(c.Creates) == 0 && len(c.Updates) == 0 && len(c.Deletes) == 0
}
