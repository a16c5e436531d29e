package listing

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/amoria-global/jambolush-dashboard-sub002/internal/storage"
)

func newTestService() (*Service, *storage.MemoryUploader) {
	uploader := storage.NewMemoryUploader()
	return NewService(NewMemoryRepository(), uploader), uploader
}

func draftListing(t *testing.T, svc *Service, hostID string, kind Kind) Listing {
	t.Helper()
	l, err := svc.Create(context.Background(), CreateInput{HostID: hostID, Kind: kind, Title: "Lakeside cottage"})
	if err != nil {
		t.Fatalf("create draft: %v", err)
	}
	return l
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateInput{HostID: "h", Kind: "villa", Title: "Nice place"}); err == nil {
		t.Fatal("expected unknown kind to be rejected")
	}
	if _, err := svc.Create(ctx, CreateInput{HostID: "h", Kind: KindProperty, Title: "ab"}); err == nil {
		t.Fatal("expected short title to be rejected")
	}

	l, err := svc.Create(ctx, CreateInput{HostID: "h", Kind: KindProperty, Title: "  Lakeside cottage  "})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if l.Status != StatusDraft || l.Title != "Lakeside cottage" {
		t.Fatalf("unexpected draft: %+v", l)
	}
}

func TestSectionedUpdates(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	hostID := uuid.NewString()
	l := draftListing(t, svc, hostID, KindProperty)

	updated, err := svc.UpdateBasics(ctx, hostID, l.ID, BasicsInput{
		Title: "Lakeside cottage", Description: "Quiet and green", Location: "Kigali", MaxGuests: 4,
	})
	if err != nil {
		t.Fatalf("basics: %v", err)
	}
	if updated.Location != "Kigali" || updated.MaxGuests != 4 {
		t.Fatalf("basics not applied: %+v", updated)
	}

	if _, err := svc.UpdatePricing(ctx, hostID, l.ID, PricingInput{Price: 0}); err == nil {
		t.Fatal("expected zero price to be rejected")
	}
	updated, err = svc.UpdatePricing(ctx, hostID, l.ID, PricingInput{Price: 25_000})
	if err != nil {
		t.Fatalf("pricing: %v", err)
	}
	if updated.Price != 25_000 {
		t.Fatalf("pricing not applied: %+v", updated)
	}

	// other sections are untouched by a pricing update
	if updated.Location != "Kigali" {
		t.Fatalf("pricing update clobbered basics: %+v", updated)
	}

	if _, err := svc.UpdateBasics(ctx, uuid.NewString(), l.ID, BasicsInput{
		Title: "Taken over", Location: "Kigali", MaxGuests: 2,
	}); err != ErrNotOwner {
		t.Fatalf("expected ownership check, got %v", err)
	}
}

func TestItineraryOnlyForTours(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	hostID := uuid.NewString()

	property := draftListing(t, svc, hostID, KindProperty)
	if _, err := svc.UpdateItinerary(ctx, hostID, property.ID, []ItineraryStep{{Title: "Walk"}}); err == nil {
		t.Fatal("expected property itinerary to be rejected")
	}

	tour := draftListing(t, svc, hostID, KindTour)
	if _, err := svc.UpdateItinerary(ctx, hostID, tour.ID, []ItineraryStep{{Title: " "}}); err == nil {
		t.Fatal("expected untitled step to be rejected")
	}
	updated, err := svc.UpdateItinerary(ctx, hostID, tour.ID, []ItineraryStep{
		{Title: "Market visit", DurationMinutes: 90},
		{Title: "Lunch", DurationMinutes: 60},
	})
	if err != nil {
		t.Fatalf("itinerary: %v", err)
	}
	if len(updated.Itinerary) != 2 {
		t.Fatalf("itinerary not applied: %+v", updated)
	}
}

func TestAttachMediaCompensatesOnFailure(t *testing.T) {
	svc, uploader := newTestService()
	ctx := context.Background()
	hostID := uuid.NewString()
	l := draftListing(t, svc, hostID, KindProperty)

	updated, err := svc.AttachMedia(ctx, hostID, l.ID, "front.jpg", "image/jpeg", strings.NewReader("jpegdata"))
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	if len(updated.Media) != 1 || !uploader.Has(updated.Media[0].Key) {
		t.Fatalf("media not stored: %+v", updated.Media)
	}

	// linking fails for a non-owner; the uploaded object must be cleaned up
	if _, err := svc.AttachMedia(ctx, uuid.NewString(), l.ID, "back.jpg", "image/jpeg", strings.NewReader("jpegdata")); err != ErrNotOwner {
		t.Fatalf("expected ownership failure, got %v", err)
	}
	if uploader.Count() != 1 {
		t.Fatalf("orphan object left in storage: %d objects", uploader.Count())
	}
}

func TestRemoveMediaDeletesObject(t *testing.T) {
	svc, uploader := newTestService()
	ctx := context.Background()
	hostID := uuid.NewString()
	l := draftListing(t, svc, hostID, KindProperty)

	withMedia, err := svc.AttachMedia(ctx, hostID, l.ID, "front.jpg", "image/jpeg", strings.NewReader("jpegdata"))
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	key := withMedia.Media[0].Key

	if _, err := svc.RemoveMedia(ctx, hostID, l.ID, "unknown-key"); err != storage.ErrNotFound {
		t.Fatalf("expected unknown key error, got %v", err)
	}

	updated, err := svc.RemoveMedia(ctx, hostID, l.ID, key)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(updated.Media) != 0 || uploader.Has(key) {
		t.Fatal("media not fully removed")
	}
}

func TestPublishRequiresCompleteness(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	hostID := uuid.NewString()

	l := draftListing(t, svc, hostID, KindProperty)
	if _, err := svc.Publish(ctx, hostID, l.ID); err != ErrNotPublishable {
		t.Fatalf("expected incomplete draft rejection, got %v", err)
	}

	if _, err := svc.UpdateBasics(ctx, hostID, l.ID, BasicsInput{
		Title: "Lakeside cottage", Location: "Kigali", MaxGuests: 4,
	}); err != nil {
		t.Fatalf("basics: %v", err)
	}
	if _, err := svc.Publish(ctx, hostID, l.ID); err != ErrNotPublishable {
		t.Fatalf("expected missing price rejection, got %v", err)
	}
	if _, err := svc.UpdatePricing(ctx, hostID, l.ID, PricingInput{Price: 20_000}); err != nil {
		t.Fatalf("pricing: %v", err)
	}

	published, err := svc.Publish(ctx, hostID, l.ID)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if published.Status != StatusPublished {
		t.Fatalf("expected published, got %s", published.Status)
	}

	archived, err := svc.Archive(ctx, hostID, l.ID)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if archived.Status != StatusArchived {
		t.Fatalf("expected archived, got %s", archived.Status)
	}
}

func TestPublishTourNeedsItinerary(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	hostID := uuid.NewString()

	tour := draftListing(t, svc, hostID, KindTour)
	if _, err := svc.UpdateBasics(ctx, hostID, tour.ID, BasicsInput{
		Title: "City walk", Location: "Kigali", MaxGuests: 10,
	}); err != nil {
		t.Fatalf("basics: %v", err)
	}
	if _, err := svc.UpdatePricing(ctx, hostID, tour.ID, PricingInput{Price: 5_000}); err != nil {
		t.Fatalf("pricing: %v", err)
	}

	if _, err := svc.Publish(ctx, hostID, tour.ID); err != ErrNotPublishable {
		t.Fatalf("expected itinerary requirement, got %v", err)
	}
	if _, err := svc.UpdateItinerary(ctx, hostID, tour.ID, []ItineraryStep{{Title: "Market visit"}}); err != nil {
		t.Fatalf("itinerary: %v", err)
	}
	if _, err := svc.Publish(ctx, hostID, tour.ID); err != nil {
		t.Fatalf("publish: %v", err)
	}
}

func TestSearchFilterSortPaginate(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	hostID := uuid.NewString()

	seed := []struct {
		title string
		kind  Kind
		price int64
	}{
		{"Alpha apartment", KindProperty, 30_000},
		{"Beta bungalow", KindProperty, 10_000},
		{"Gamma gorilla trek", KindTour, 80_000},
		{"Delta downtown loft", KindProperty, 20_000},
	}
	for _, s := range seed {
		l, err := svc.Create(ctx, CreateInput{HostID: hostID, Kind: s.kind, Title: s.title})
		if err != nil {
			t.Fatalf("seed %s: %v", s.title, err)
		}
		if _, err := svc.UpdatePricing(ctx, hostID, l.ID, PricingInput{Price: s.price}); err != nil {
			t.Fatalf("seed price %s: %v", s.title, err)
		}
	}

	// filter by kind
	items, meta, err := svc.Search(ctx, Query{HostID: hostID, Kind: KindTour})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if meta.Total != 1 || items[0].Title != "Gamma gorilla trek" {
		t.Fatalf("kind filter failed: %+v", items)
	}

	// substring search is case-insensitive
	items, _, err = svc.Search(ctx, Query{HostID: hostID, Search: "BUNGA"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(items) != 1 || items[0].Title != "Beta bungalow" {
		t.Fatalf("substring search failed: %+v", items)
	}

	// sort by price descending
	items, _, err = svc.Search(ctx, Query{HostID: hostID, SortBy: "price", SortDir: "desc"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if items[0].Price != 80_000 || items[len(items)-1].Price != 10_000 {
		t.Fatalf("price sort failed: %+v", items)
	}

	// paginate two per page
	items, meta, err = svc.Search(ctx, Query{HostID: hostID, SortBy: "title", Page: 2, PerPage: 2})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if meta.TotalPages != 2 || len(items) != 2 || items[0].Title != "Delta downtown loft" {
		t.Fatalf("pagination failed: %+v meta %+v", items, meta)
	}

	// a page past the end is empty, not an error
	items, _, err = svc.Search(ctx, Query{HostID: hostID, Page: 9, PerPage: 2})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty page, got %+v", items)
	}
}
