package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound indicates the wallet does not exist.
	ErrNotFound = errors.New("wallet not found")
	// ErrInsufficientFunds occurs when the wallet lacks available balance to
	// cover a requested posting.
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Repository persists wallets and their append-only ledger. Every balance
// mutation records a Transaction in the same storage transaction.
type Repository interface {
	Create(ctx context.Context, wallet Wallet) error
	GetByUser(ctx context.Context, userID string) (Wallet, error)
	Credit(ctx context.Context, userID string, amount int64, reference, description string) (Transaction, error)
	Debit(ctx context.Context, userID string, amount int64, reference, description string) (Transaction, error)
	Hold(ctx context.Context, userID string, amount int64, reference string) (Transaction, error)
	SettleHold(ctx context.Context, userID string, amount int64, reference string) (Transaction, error)
	ReleaseHold(ctx context.Context, userID string, amount int64, reference string) (Transaction, error)
	Transactions(ctx context.Context, userID string, filter TxFilter) ([]Transaction, error)
}

// PostgresRepository stores wallets in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a wallet record.
func (r *PostgresRepository) Create(ctx context.Context, wallet Wallet) error {
	_, err := r.db.Exec(ctx, `INSERT INTO wallets (id, user_id, balance, pending_balance, currency, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		wallet.ID, wallet.UserID, wallet.Balance, wallet.PendingBalance, wallet.Currency,
		wallet.CreatedAt.UTC(), wallet.UpdatedAt.UTC())
	return err
}

// GetByUser fetches the wallet owned by the given user.
func (r *PostgresRepository) GetByUser(ctx context.Context, userID string) (Wallet, error) {
	row := r.db.QueryRow(ctx, `SELECT id, user_id, balance, pending_balance, currency, created_at, updated_at
        FROM wallets WHERE user_id = $1`, userID)
	var w Wallet
	if err := row.Scan(&w.ID, &w.UserID, &w.Balance, &w.PendingBalance, &w.Currency, &w.CreatedAt, &w.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Wallet{}, ErrNotFound
		}
		return Wallet{}, err
	}
	return w, nil
}

// Credit adds funds to the available balance.
func (r *PostgresRepository) Credit(ctx context.Context, userID string, amount int64, reference, description string) (Transaction, error) {
	return r.post(ctx, userID, TxCredit, amount, reference, description)
}

// Debit removes funds from the available balance.
func (r *PostgresRepository) Debit(ctx context.Context, userID string, amount int64, reference, description string) (Transaction, error) {
	return r.post(ctx, userID, TxDebit, amount, reference, description)
}

// Hold reserves funds for an in-flight withdrawal: available -> pending.
func (r *PostgresRepository) Hold(ctx context.Context, userID string, amount int64, reference string) (Transaction, error) {
	return r.post(ctx, userID, TxWithdrawalHold, amount, reference, "withdrawal hold")
}

// SettleHold finalizes a completed withdrawal: pending funds leave the platform.
func (r *PostgresRepository) SettleHold(ctx context.Context, userID string, amount int64, reference string) (Transaction, error) {
	return r.post(ctx, userID, TxWithdrawalRelease, amount, reference, "withdrawal settled")
}

// ReleaseHold returns reserved funds after a failed or cancelled withdrawal.
func (r *PostgresRepository) ReleaseHold(ctx context.Context, userID string, amount int64, reference string) (Transaction, error) {
	return r.post(ctx, userID, TxCredit, amount, reference, "withdrawal reversed")
}

func (r *PostgresRepository) post(ctx context.Context, userID string, kind TxType, amount int64, reference, description string) (Transaction, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return Transaction{}, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `SELECT id, balance, pending_balance FROM wallets WHERE user_id = $1 FOR UPDATE`, userID)
	var walletID string
	var balance, pending int64
	if err := row.Scan(&walletID, &balance, &pending); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Transaction{}, ErrNotFound
		}
		return Transaction{}, err
	}

	before := balance
	switch kind {
	case TxCredit:
		balance += amount
	case TxDebit:
		if balance < amount {
			return Transaction{}, ErrInsufficientFunds
		}
		balance -= amount
	case TxWithdrawalHold:
		if balance < amount {
			return Transaction{}, ErrInsufficientFunds
		}
		balance -= amount
		pending += amount
	case TxWithdrawalRelease:
		if pending < amount {
			return Transaction{}, ErrInsufficientFunds
		}
		pending -= amount
	}

	now := time.Now().UTC()
	if _, err := tx.Exec(ctx, `UPDATE wallets SET balance = $1, pending_balance = $2, updated_at = $3 WHERE id = $4`,
		balance, pending, now, walletID); err != nil {
		return Transaction{}, err
	}

	entry := Transaction{
		ID:            uuid.NewString(),
		WalletID:      walletID,
		Type:          kind,
		Amount:        amount,
		BalanceBefore: before,
		BalanceAfter:  balance,
		Reference:     reference,
		Description:   description,
		CreatedAt:     now,
	}
	if _, err := tx.Exec(ctx, `INSERT INTO wallet_transactions (id, wallet_id, type, amount, balance_before, balance_after, reference, description, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		entry.ID, entry.WalletID, entry.Type, entry.Amount, entry.BalanceBefore, entry.BalanceAfter,
		entry.Reference, entry.Description, entry.CreatedAt); err != nil {
		return Transaction{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Transaction{}, err
	}
	return entry, nil
}

// Transactions lists ledger entries newest-first with optional filtering.
func (r *PostgresRepository) Transactions(ctx context.Context, userID string, filter TxFilter) ([]Transaction, error) {
	query := `SELECT t.id, t.wallet_id, t.type, t.amount, t.balance_before, t.balance_after, t.reference, t.description, t.created_at
        FROM wallet_transactions t JOIN wallets w ON w.id = t.wallet_id
        WHERE w.user_id = $1`
	args := []any{userID}
	if filter.Type != "" {
		args = append(args, filter.Type)
		query += fmt.Sprintf(` AND t.type = $%d`, len(args))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From.UTC())
		query += fmt.Sprintf(` AND t.created_at >= $%d`, len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To.UTC())
		query += fmt.Sprintf(` AND t.created_at <= $%d`, len(args))
	}
	query += ` ORDER BY t.created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.WalletID, &t.Type, &t.Amount, &t.BalanceBefore, &t.BalanceAfter, &t.Reference, &t.Description, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
