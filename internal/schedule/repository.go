package schedule

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates the slot does not exist.
var ErrNotFound = errors.New("schedule slot not found")

// Repository persists calendar slots.
type Repository interface {
	ByListing(ctx context.Context, listingID string) ([]Slot, error)
	Apply(ctx context.Context, listingID string, changes ChangeSet) error
}

// PostgresRepository stores slots in PostgreSQL. Apply runs the whole change
// set in one transaction so a partially applied calendar is never visible.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// ByListing returns a listing's slots ordered by start time.
func (r *PostgresRepository) ByListing(ctx context.Context, listingID string) ([]Slot, error) {
	rows, err := r.db.Query(ctx, `SELECT id, listing_id, starts_at, ends_at, capacity, price, created_at, updated_at
        FROM schedule_slots WHERE listing_id = $1 ORDER BY starts_at`, listingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Slot
	for rows.Next() {
		var s Slot
		if err := rows.Scan(&s.ID, &s.ListingID, &s.StartsAt, &s.EndsAt, &s.Capacity, &s.Price, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Apply executes the change set transactionally.
func (r *PostgresRepository) Apply(ctx context.Context, listingID string, changes ChangeSet) error {
	if changes.Empty() {
		return nil
	}
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		for _, s := range changes.Creates {
			if _, err := tx.Exec(ctx, `INSERT INTO schedule_slots (id, listing_id, starts_at, ends_at, capacity, price, created_at, updated_at)
                VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				s.ID, listingID, s.StartsAt.UTC(), s.EndsAt.UTC(), s.Capacity, s.Price, s.CreatedAt.UTC(), s.UpdatedAt.UTC()); err != nil {
				return err
			}
		}
		for _, s := range changes.Updates {
			cmd, err := tx.Exec(ctx, `UPDATE schedule_slots SET starts_at = $1, ends_at = $2, capacity = $3, price = $4, updated_at = $5
                WHERE id = $6 AND listing_id = $7`,
				s.StartsAt.UTC(), s.EndsAt.UTC(), s.Capacity, s.Price, s.UpdatedAt.UTC(), s.ID, listingID)
			if err != nil {
				return err
			}
			if cmd.RowsAffected() == 0 {
				return ErrNotFound
			}
		}
		for _, id := range changes.Deletes {
			if _, err := tx.Exec(ctx, `DELETE FROM schedule_slots WHERE id = $1 AND listing_id = $2`, id, listingID); err != nil {
				return err
			}
		}
		return nil
	})
}
