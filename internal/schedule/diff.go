package schedule

import (
	"time"

	"github.com/google/uuid"
)

// Diff compares the stored slots with the host's desired calendar and
// produces the minimal change set. Slots are matched by ID: desired entries
// without an ID become creates, matched entries with differing fields become
// updates, and stored slots absent from the desired list become deletes.
// Desired entries carrying an unknown ID are treated as creates with a fresh
// ID so a stale client cannot resurrect a deleted slot under its old key.
func Diff(listingID string, existing []Slot, desired []SlotInput, now time.Time) ChangeSet {
	byID := make(map[string]Slot, len(existing))
	for _, s := range existing {
		byID[s.ID] = s
	}

	var out ChangeSet
	seen := make(map[string]struct{}, len(desired))
	for _, in := range desired {
		current, ok := byID[in.ID]
		if in.ID == "" || !ok {
			out.Creates = append(out.Creates, Slot{
				ID:        uuid.NewString(),
				ListingID: listingID,
				StartsAt:  in.StartsAt.UTC(),
				EndsAt:    in.EndsAt.UTC(),
				Capacity:  in.Capacity,
				Price:     in.Price,
				CreatedAt: now,
				UpdatedAt: now,
			})
			continue
		}
		seen[in.ID] = struct{}{}
		if slotChanged(current, in) {
			current.StartsAt = in.StartsAt.UTC()
			current.EndsAt = in.EndsAt.UTC()
			current.Capacity = in.Capacity
			current.Price = in.Price
			current.UpdatedAt = now
			out.Updates = append(out.Updates, current)
		}
	}

	for _, s := range existing {
		if _, ok := seen[s.ID]; !ok {
			out.Deletes = append(out.Deletes, s.ID)
		}
	}
	return out
}

func slotChanged(current Slot, in SlotInput) bool {
	return !current.StartsAt.Equal(in.StartsAt) ||
		!current.EndsAt.Equal(in.EndsAt) ||
		current.Capacity != in.Capacity ||
		current.Price != in.Price
}
