package withdrawal

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists withdrawal methods and requests.
type Repository interface {
	CreateMethod(ctx context.Context, method Method) error
	MethodsByUser(ctx context.Context, userID string) ([]Method, error)
	MethodByID(ctx context.Context, id string) (Method, error)
	SetDefaultMethod(ctx context.Context, userID, methodID string) error
	DeleteMethod(ctx context.Context, id string) error
	UpdateMethodVerification(ctx context.Context, id string, status VerificationStatus) error

	CreateRequest(ctx context.Context, request Request) error
	RequestByID(ctx context.Context, id string) (Request, error)
	RequestsByUser(ctx context.Context, userID string, offset, limit int) ([]Request, int, error)
	UpdateRequestStatus(ctx context.Context, id string, status Status, failureReason string) error
}

// PostgresRepository stores withdrawal data in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// CreateMethod inserts a payout method.
func (r *PostgresRepository) CreateMethod(ctx context.Context, m Method) error {
	_, err := r.db.Exec(ctx, `INSERT INTO withdrawal_methods
        (id, user_id, method_type, provider_id, provider_name, account_number, account_name, is_default, is_verified, verification_status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		m.ID, m.UserID, m.Type, m.ProviderID, m.ProviderName, m.AccountNumber, m.AccountName,
		m.IsDefault, m.IsVerified, m.VerificationStatus, m.CreatedAt.UTC())
	return err
}

// MethodsByUser lists the user's payout methods.
func (r *PostgresRepository) MethodsByUser(ctx context.Context, userID string) ([]Method, error) {
	rows, err := r.db.Query(ctx, `SELECT id, user_id, method_type, provider_id, provider_name, account_number, account_name, is_default, is_verified, verification_status, created_at
        FROM withdrawal_methods WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Method
	for rows.Next() {
		var m Method
		if err := rows.Scan(&m.ID, &m.UserID, &m.Type, &m.ProviderID, &m.ProviderName, &m.AccountNumber, &m.AccountName, &m.IsDefault, &m.IsVerified, &m.VerificationStatus, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// MethodByID fetches a payout method.
func (r *PostgresRepository) MethodByID(ctx context.Context, id string) (Method, error) {
	row := r.db.QueryRow(ctx, `SELECT id, user_id, method_type, provider_id, provider_name, account_number, account_name, is_default, is_verified, verification_status, created_at
        FROM withdrawal_methods WHERE id = $1`, id)
	var m Method
	if err := row.Scan(&m.ID, &m.UserID, &m.Type, &m.ProviderID, &m.ProviderName, &m.AccountNumber, &m.AccountName, &m.IsDefault, &m.IsVerified, &m.VerificationStatus, &m.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Method{}, ErrMethodNotFound
		}
		return Method{}, err
	}
	return m, nil
}

// SetDefaultMethod marks one method default and clears the flag on the rest.
func (r *PostgresRepository) SetDefaultMethod(ctx context.Context, userID, methodID string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `UPDATE withdrawal_methods SET is_default = false WHERE user_id = $1`, userID); err != nil {
		return err
	}
	cmd, err := tx.Exec(ctx, `UPDATE withdrawal_methods SET is_default = true WHERE id = $1 AND user_id = $2`, methodID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrMethodNotFound
	}
	return tx.Commit(ctx)
}

// DeleteMethod removes a payout method.
func (r *PostgresRepository) DeleteMethod(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM withdrawal_methods WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrMethodNotFound
	}
	return nil
}

// UpdateMethodVerification records the verification outcome.
func (r *PostgresRepository) UpdateMethodVerification(ctx context.Context, id string, status VerificationStatus) error {
	cmd, err := r.db.Exec(ctx, `UPDATE withdrawal_methods SET verification_status = $1, is_verified = $2 WHERE id = $3`,
		status, status == VerificationVerified, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrMethodNotFound
	}
	return nil
}

// CreateRequest inserts a withdrawal request.
func (r *PostgresRepository) CreateRequest(ctx context.Context, req Request) error {
	_, err := r.db.Exec(ctx, `INSERT INTO withdrawal_requests
        (id, user_id, reference, amount, currency, status, dest_type, dest_provider, dest_account_number, dest_account_name, failure_reason, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		req.ID, req.UserID, req.Reference, req.Amount, req.Currency, req.Status,
		req.Destination.Type, req.Destination.ProviderName, req.Destination.AccountNumber, req.Destination.AccountName,
		req.FailureReason, req.CreatedAt.UTC(), req.UpdatedAt.UTC())
	return err
}

// RequestByID fetches a withdrawal request.
func (r *PostgresRepository) RequestByID(ctx context.Context, id string) (Request, error) {
	row := r.db.QueryRow(ctx, `SELECT id, user_id, reference, amount, currency, status, dest_type, dest_provider, dest_account_number, dest_account_name, failure_reason, created_at, updated_at
        FROM withdrawal_requests WHERE id = $1`, id)
	req, err := scanRequest(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Request{}, ErrRequestNotFound
		}
		return Request{}, err
	}
	return req, nil
}

// RequestsByUser lists requests newest-first with a total count for paging.
func (r *PostgresRepository) RequestsByUser(ctx context.Context, userID string, offset, limit int) ([]Request, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM withdrawal_requests WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, `SELECT id, user_id, reference, amount, currency, status, dest_type, dest_provider, dest_account_number, dest_account_name, failure_reason, created_at, updated_at
        FROM withdrawal_requests WHERE user_id = $1 ORDER BY created_at DESC OFFSET $2 LIMIT $3`, userID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, req)
	}
	return out, total, rows.Err()
}

// UpdateRequestStatus applies a status transition.
func (r *PostgresRepository) UpdateRequestStatus(ctx context.Context, id string, status Status, failureReason string) error {
	cmd, err := r.db.Exec(ctx, `UPDATE withdrawal_requests SET status = $1, failure_reason = $2, updated_at = now() WHERE id = $3`,
		status, failureReason, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrRequestNotFound
	}
	return nil
}

func scanRequest(row pgx.Row) (Request, error) {
	var req Request
	if err := row.Scan(&req.ID, &req.UserID, &req.Reference, &req.Amount, &req.Currency, &req.Status,
		&req.Destination.Type, &req.Destination.ProviderName, &req.Destination.AccountNumber, &req.Destination.AccountName,
		&req.FailureReason, &req.CreatedAt, &req.UpdatedAt); err != nil {
		return Request{}, err
	}
	return req, nil
}
