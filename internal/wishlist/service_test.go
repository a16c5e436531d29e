package wishlist

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/amoria-global/jambolush-dashboard-sub002/internal/listing"
)

func newService(t *testing.T) (*Service, string) {
	t.Helper()
	listings := listing.NewMemoryRepository()
	l := listing.Listing{
		ID:        uuid.NewString(),
		HostID:    uuid.NewString(),
		Kind:      listing.KindProperty,
		Title:     "Hilltop villa",
		Status:    listing.StatusPublished,
		CreatedAt: time.Now().UTC(),
	}
	if err := listings.Create(context.Background(), l); err != nil {
		t.Fatalf("seed listing: %v", err)
	}
	return NewService(NewMemoryRepository(), listings), l.ID
}

func TestAddAndList(t *testing.T) {
	svc, listingID := newService(t)
	ctx := context.Background()
	userID := uuid.NewString()

	item, err := svc.Add(ctx, userID, listingID)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if item.Favorite || item.Rating != 0 {
		t.Fatalf("new item should start unannotated: %+v", item)
	}

	if _, err := svc.Add(ctx, userID, listingID); err != ErrDuplicate {
		t.Fatalf("expected duplicate, got %v", err)
	}
	if _, err := svc.Add(ctx, userID, uuid.NewString()); err != listing.ErrNotFound {
		t.Fatalf("expected unknown listing rejection, got %v", err)
	}

	items, err := svc.List(ctx, userID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].ListingID != listingID {
		t.Fatalf("unexpected list: %+v", items)
	}
}

func TestUpdateAnnotations(t *testing.T) {
	svc, listingID := newService(t)
	ctx := context.Background()
	userID := uuid.NewString()
	if _, err := svc.Add(ctx, userID, listingID); err != nil {
		t.Fatalf("add: %v", err)
	}

	fav := true
	rating := 4
	note := "close to the lake"
	item, err := svc.Update(ctx, userID, listingID, UpdateInput{Favorite: &fav, Rating: &rating, Note: &note})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !item.Favorite || item.Rating != 4 || item.Note != note {
		t.Fatalf("annotations not applied: %+v", item)
	}

	// partial update leaves the rest untouched
	newNote := "book for June"
	item, err = svc.Update(ctx, userID, listingID, UpdateInput{Note: &newNote})
	if err != nil {
		t.Fatalf("partial update: %v", err)
	}
	if !item.Favorite || item.Rating != 4 || item.Note != newNote {
		t.Fatalf("partial update clobbered fields: %+v", item)
	}

	for _, bad := range []int{0, 6, -1} {
		r := bad
		if _, err := svc.Update(ctx, userID, listingID, UpdateInput{Rating: &r}); err != ErrInvalidRating {
			t.Fatalf("rating %d: expected ErrInvalidRating, got %v", bad, err)
		}
	}
}

func TestFavoritesSortFirst(t *testing.T) {
	listings := listing.NewMemoryRepository()
	svc := NewService(NewMemoryRepository(), listings)
	ctx := context.Background()
	userID := uuid.NewString()

	var ids []string
	for i := 0; i < 3; i++ {
		l := listing.Listing{ID: uuid.NewString(), HostID: "h", Kind: listing.KindProperty, Title: "x", Status: listing.StatusPublished}
		if err := listings.Create(ctx, l); err != nil {
			t.Fatalf("seed: %v", err)
		}
		if _, err := svc.Add(ctx, userID, l.ID); err != nil {
			t.Fatalf("add: %v", err)
		}
		ids = append(ids, l.ID)
	}

	fav := true
	if _, err := svc.Update(ctx, userID, ids[0], UpdateInput{Favorite: &fav}); err != nil {
		t.Fatalf("favorite: %v", err)
	}

	items, err := svc.List(ctx, userID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 3 || items[0].ListingID != ids[0] {
		t.Fatalf("favorite not first: %+v", items)
	}
}

func TestRemove(t *testing.T) {
	svc, listingID := newService(t)
	ctx := context.Background()
	userID := uuid.NewString()
	if _, err := svc.Add(ctx, userID, listingID); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.Remove(ctx, userID, listingID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := svc.Remove(ctx, userID, listingID); err != ErrNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
