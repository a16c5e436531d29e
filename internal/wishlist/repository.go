package wishlist

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound indicates the listing is not on the user's wishlist.
	ErrNotFound = errors.New("wishlist item not found")
	// ErrDuplicate indicates the listing is already saved.
	ErrDuplicate = errors.New("listing already on wishlist")
)

// Repository persists wishlist items. Items are keyed per user by listing,
// one entry per (user, listing) pair.
type Repository interface {
	Add(ctx context.Context, item Item) error
	Get(ctx context.Context, userID, listingID string) (Item, error)
	Update(ctx context.Context, item Item) error
	Remove(ctx context.Context, userID, listingID string) error
	ByUser(ctx context.Context, userID string) ([]Item, error)
}

// PostgresRepository stores wishlist items in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const itemColumns = `id, user_id, listing_id, favorite, rating, note, created_at, updated_at`

// Add inserts an item; a unique (user_id, listing_id) index backs ErrDuplicate.
func (r *PostgresRepository) Add(ctx context.Context, item Item) error {
	cmd, err := r.db.Exec(ctx, `INSERT INTO wishlist_items (`+itemColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        ON CONFLICT (user_id, listing_id) DO NOTHING`,
		item.ID, item.UserID, item.ListingID, item.Favorite, item.Rating, item.Note,
		item.CreatedAt.UTC(), item.UpdatedAt.UTC())
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrDuplicate
	}
	return nil
}

// Get fetches one item.
func (r *PostgresRepository) Get(ctx context.Context, userID, listingID string) (Item, error) {
	row := r.db.QueryRow(ctx, `SELECT `+itemColumns+` FROM wishlist_items
        WHERE user_id = $1 AND listing_id = $2`, userID, listingID)
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, ErrNotFound
		}
		return Item{}, err
	}
	return item, nil
}

// Update replaces the annotation columns.
func (r *PostgresRepository) Update(ctx context.Context, item Item) error {
	cmd, err := r.db.Exec(ctx, `UPDATE wishlist_items SET favorite = $1, rating = $2, note = $3, updated_at = $4
        WHERE user_id = $5 AND listing_id = $6`,
		item.Favorite, item.Rating, item.Note, item.UpdatedAt.UTC(), item.UserID, item.ListingID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Remove deletes one item.
func (r *PostgresRepository) Remove(ctx context.Context, userID, listingID string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM wishlist_items WHERE user_id = $1 AND listing_id = $2`, userID, listingID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ByUser lists items favorites-first, then newest-first.
func (r *PostgresRepository) ByUser(ctx context.Context, userID string) ([]Item, error) {
	rows, err := r.db.Query(ctx, `SELECT `+itemColumns+` FROM wishlist_items
        WHERE user_id = $1 ORDER BY favorite DESC, created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func scanItem(row pgx.Row) (Item, error) {
	var item Item
	if err := row.Scan(&item.ID, &item.UserID, &item.ListingID, &item.Favorite, &item.Rating,
		&item.Note, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return Item{}, err
	}
	return item, nil
}
