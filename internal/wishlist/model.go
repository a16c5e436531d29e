package wishlist

import "time"

// Item is one saved listing in a user's wishlist. Favorite pins it to the
// top of the list; rating and note are the user's private annotations.
type Item struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ListingID string    `json:"listingId"`
	Favorite  bool      `json:"favorite"`
	Rating    int       `json:"rating,omitempty"` // 1..5, 0 when unrated
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
