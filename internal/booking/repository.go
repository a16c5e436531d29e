package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates the booking does not exist.
var ErrNotFound = errors.New("booking not found")

// Repository persists bookings.
type Repository interface {
	Create(ctx context.Context, b Booking) error
	Get(ctx context.Context, id string) (Booking, error)
	Update(ctx context.Context, b Booking) error
	ByHost(ctx context.Context, hostID string, filter Filter) ([]Booking, error)
}

// PostgresRepository stores bookings in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const bookingColumns = `id, listing_id, host_id, guest_id, guest_name, check_in, check_out, guests, total, status, notes, created_at, updated_at`

// Create inserts a booking.
func (r *PostgresRepository) Create(ctx context.Context, b Booking) error {
	_, err := r.db.Exec(ctx, `INSERT INTO bookings (`+bookingColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		b.ID, b.ListingID, b.HostID, b.GuestID, b.GuestName, b.CheckIn.UTC(), b.CheckOut.UTC(),
		b.Guests, b.Total, b.Status, b.Notes, b.CreatedAt.UTC(), b.UpdatedAt.UTC())
	return err
}

// Get fetches a booking.
func (r *PostgresRepository) Get(ctx context.Context, id string) (Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Booking{}, ErrNotFound
		}
		return Booking{}, err
	}
	return b, nil
}

// Update replaces the mutable columns.
func (r *PostgresRepository) Update(ctx context.Context, b Booking) error {
	cmd, err := r.db.Exec(ctx, `UPDATE bookings SET check_in = $1, check_out = $2, guests = $3, total = $4,
        status = $5, notes = $6, updated_at = $7 WHERE id = $8`,
		b.CheckIn.UTC(), b.CheckOut.UTC(), b.Guests, b.Total, b.Status, b.Notes, b.UpdatedAt.UTC(), b.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ByHost lists a host's bookings newest-first with optional filtering.
func (r *PostgresRepository) ByHost(ctx context.Context, hostID string, filter Filter) ([]Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE host_id = $1`
	args := []any{hostID}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From.UTC())
		query += fmt.Sprintf(` AND check_in >= $%d`, len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To.UTC())
		query += fmt.Sprintf(` AND check_in <= $%d`, len(args))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func scanBooking(row pgx.Row) (Booking, error) {
	var b Booking
	if err := row.Scan(&b.ID, &b.ListingID, &b.HostID, &b.GuestID, &b.GuestName, &b.CheckIn, &b.CheckOut,
		&b.Guests, &b.Total, &b.Status, &b.Notes, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return Booking{}, err
	}
	return b, nil
}
