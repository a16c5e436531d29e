package wallet

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryRepository struct {
	mu      sync.RWMutex
	wallets map[string]Wallet // keyed by user id
	ledger  map[string][]Transaction
}

// NewMemoryRepository constructs an in-memory repository for tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		wallets: make(map[string]Wallet),
		ledger:  make(map[string][]Transaction),
	}
}

func (r *memoryRepository) Create(_ context.Context, wallet Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.wallets[wallet.UserID]; exists {
		return errors.New("wallet exists")
	}
	r.wallets[wallet.UserID] = wallet
	return nil
}

func (r *memoryRepository) GetByUser(_ context.Context, userID string) (Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.wallets[userID]
	if !ok {
		return Wallet{}, ErrNotFound
	}
	return w, nil
}

func (r *memoryRepository) Credit(_ context.Context, userID string, amount int64, reference, description string) (Transaction, error) {
	return r.post(userID, TxCredit, amount, reference, description)
}

func (r *memoryRepository) Debit(_ context.Context, userID string, amount int64, reference, description string) (Transaction, error) {
	return r.post(userID, TxDebit, amount, reference, description)
}

func (r *memoryRepository) Hold(_ context.Context, userID string, amount int64, reference string) (Transaction, error) {
	return r.post(userID, TxWithdrawalHold, amount, reference, "withdrawal hold")
}

func (r *memoryRepository) SettleHold(_ context.Context, userID string, amount int64, reference string) (Transaction, error) {
	return r.post(userID, TxWithdrawalRelease, amount, reference, "withdrawal settled")
}

func (r *memoryRepository) ReleaseHold(_ context.Context, userID string, amount int64, reference string) (Transaction, error) {
	return r.post(userID, TxCredit, amount, reference, "withdrawal reversed")
}

func (r *memoryRepository) post(userID string, kind TxType, amount int64, reference, description string) (Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.wallets[userID]
	if !ok {
		return Transaction{}, ErrNotFound
	}

	before := w.Balance
	switch kind {
	case TxCredit:
		w.Balance += amount
	case TxDebit:
		if w.Balance < amount {
			return Transaction{}, ErrInsufficientFunds
		}
		w.Balance -= amount
	case TxWithdrawalHold:
		if w.Balance < amount {
			return Transaction{}, ErrInsufficientFunds
		}
		w.Balance -= amount
		w.PendingBalance += amount
	case TxWithdrawalRelease:
		if w.PendingBalance < amount {
			return Transaction{}, ErrInsufficientFunds
		}
		w.PendingBalance -= amount
	}
	w.UpdatedAt = time.Now().UTC()
	r.wallets[userID] = w

	entry := Transaction{
		ID:            uuid.NewString(),
		WalletID:      w.ID,
		Type:          kind,
		Amount:        amount,
		BalanceBefore: before,
		BalanceAfter:  w.Balance,
		Reference:     reference,
		Description:   description,
		CreatedAt:     w.UpdatedAt,
	}
	r.ledger[userID] = append(r.ledger[userID], entry)
	return entry, nil
}

func (r *memoryRepository) Transactions(_ context.Context, userID string, filter TxFilter) ([]Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := r.ledger[userID]
	out := make([]Transaction, 0, len(entries))
	// newest first
	for i := len(entries) - 1; i >= 0; i-- {
		t := entries[i]
		if filter.Type != "" && t.Type != filter.Type {
			continue
		}
		if !filter.From.IsZero() && t.CreatedAt.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && t.CreatedAt.After(filter.To) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}
