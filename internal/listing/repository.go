package listing

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates the listing does not exist.
var ErrNotFound = errors.New("listing not found")

// Repository persists listings.
type Repository interface {
	Create(ctx context.Context, l Listing) error
	Get(ctx context.Context, id string) (Listing, error)
	Update(ctx context.Context, l Listing) error
	Delete(ctx context.Context, id string) error
	ByHost(ctx context.Context, hostID string) ([]Listing, error)
}

// PostgresRepository stores listings in PostgreSQL. Media and itinerary are
// held as JSONB columns since they are only read whole.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a listing.
func (r *PostgresRepository) Create(ctx context.Context, l Listing) error {
	media, itinerary, err := encodeJSON(l)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO listings
        (id, host_id, kind, title, description, location, price, max_guests, status, media, itinerary, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		l.ID, l.HostID, l.Kind, l.Title, l.Description, l.Location, l.Price, l.MaxGuests, l.Status,
		media, itinerary, l.CreatedAt.UTC(), l.UpdatedAt.UTC())
	return err
}

// Get fetches a listing by identifier.
func (r *PostgresRepository) Get(ctx context.Context, id string) (Listing, error) {
	row := r.db.QueryRow(ctx, `SELECT id, host_id, kind, title, description, location, price, max_guests, status, media, itinerary, created_at, updated_at
        FROM listings WHERE id = $1`, id)
	l, err := scanListing(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Listing{}, ErrNotFound
		}
		return Listing{}, err
	}
	return l, nil
}

// Update replaces the mutable columns.
func (r *PostgresRepository) Update(ctx context.Context, l Listing) error {
	media, itinerary, err := encodeJSON(l)
	if err != nil {
		return err
	}
	cmd, err := r.db.Exec(ctx, `UPDATE listings SET title = $1, description = $2, location = $3, price = $4,
        max_guests = $5, status = $6, media = $7, itinerary = $8, updated_at = $9 WHERE id = $10`,
		l.Title, l.Description, l.Location, l.Price, l.MaxGuests, l.Status, media, itinerary, l.UpdatedAt.UTC(), l.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a listing.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM listings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ByHost lists everything the host owns, newest first.
func (r *PostgresRepository) ByHost(ctx context.Context, hostID string) ([]Listing, error) {
	rows, err := r.db.Query(ctx, `SELECT id, host_id, kind, title, description, location, price, max_guests, status, media, itinerary, created_at, updated_at
        FROM listings WHERE host_id = $1 ORDER BY created_at DESC`, hostID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func encodeJSON(l Listing) ([]byte, []byte, error) {
	media, err := json.Marshal(l.Media)
	if err != nil {
		return nil, nil, err
	}
	itinerary, err := json.Marshal(l.Itinerary)
	if err != nil {
		return nil, nil, err
	}
	return media, itinerary, nil
}

func scanListing(row pgx.Row) (Listing, error) {
	var l Listing
	var media, itinerary []byte
	if err := row.Scan(&l.ID, &l.HostID, &l.Kind, &l.Title, &l.Description, &l.Location, &l.Price,
		&l.MaxGuests, &l.Status, &media, &itinerary, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return Listing{}, err
	}
	if err := json.Unmarshal(media, &l.Media); err != nil {
		return Listing{}, err
	}
	if err := json.Unmarshal(itinerary, &l.Itinerary); err != nil {
		return Listing{}, err
	}
	return l, nil
}
