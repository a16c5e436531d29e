package listing

import "time"

// Kind separates stay listings from tour listings.
type Kind string

const (
	KindProperty Kind = "property"
	KindTour     Kind = "tour"
)

// Status is the publication state.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// Media references an uploaded object.
type Media struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// ItineraryStep is one leg of a tour.
type ItineraryStep struct {
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	DurationMinutes int    `json:"durationMinutes"`
}

// Listing is a host's property or tour. Edits arrive per wizard section
// (basics, pricing, media, itinerary) rather than whole-record replaces.
type Listing struct {
	ID          string          `json:"id"`
	HostID      string          `json:"hostId"`
	Kind        Kind            `json:"kind"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Location    string          `json:"location,omitempty"`
	Price       int64           `json:"price"` // cents; per night for properties, per person for tours
	MaxGuests   int             `json:"maxGuests"`
	Status      Status          `json:"status"`
	Media       []Media         `json:"media,omitempty"`
	Itinerary   []ItineraryStep `json:"itinerary,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Query describes a listing search: filter, sort and pagination in one shot.
type Query struct {
	HostID  string
	Kind    Kind
	Status  Status
	Search  string
	SortBy  string // createdAt, price, title
	SortDir string // asc, desc
	Page    int
	PerPage int
}

// PageMeta carries pagination metadata.
type PageMeta struct {
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}
