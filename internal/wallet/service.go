package wallet

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const defaultCurrency = "USD"

// Service exposes wallet operations over the repository.
type Service struct {
	repo Repository
}

// NewService builds a wallet service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput captures data required to create a wallet.
type CreateInput struct {
	UserID   string
	Currency string
}

// Create provisions a wallet for a newly registered user.
func (s *Service) Create(ctx context.Context, input CreateInput) (Wallet, error) {
	currency := input.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	now := time.Now().UTC()
	wallet := Wallet{
		ID:        uuid.NewString(),
		UserID:    input.UserID,
		Currency:  currency,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, wallet); err != nil {
		return Wallet{}, err
	}
	return wallet, nil
}

// GetByUser retrieves the wallet owned by the given user.
func (s *Service) GetByUser(ctx context.Context, userID string) (Wallet, error) {
	return s.repo.GetByUser(ctx, userID)
}

// Credit posts earnings into the wallet (booking payouts, refunds).
func (s *Service) Credit(ctx context.Context, userID string, amount int64, reference, description string) (Transaction, error) {
	return s.repo.Credit(ctx, userID, amount, reference, description)
}

// Hold reserves funds for an in-flight withdrawal request.
func (s *Service) Hold(ctx context.Context, userID string, amount int64, reference string) (Transaction, error) {
	return s.repo.Hold(ctx, userID, amount, reference)
}

// SettleHold finalizes a completed withdrawal.
func (s *Service) SettleHold(ctx context.Context, userID string, amount int64, reference string) (Transaction, error) {
	return s.repo.SettleHold(ctx, userID, amount, reference)
}

// ReleaseHold returns reserved funds after a failed withdrawal.
func (s *Service) ReleaseHold(ctx context.Context, userID string, amount int64, reference string) (Transaction, error) {
	return s.repo.ReleaseHold(ctx, userID, amount, reference)
}

// Transactions lists the user's ledger newest-first, optionally filtered by
// type and date range.
func (s *Service) Transactions(ctx context.Context, userID string, filter TxFilter) ([]Transaction, error) {
	return s.repo.Transactions(ctx, userID, filter)
}
