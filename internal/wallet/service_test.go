package wallet

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestServiceCreateAndSnapshot(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)

	ctx := context.Background()
	userID := uuid.NewString()
	w, err := svc.Create(ctx, CreateInput{UserID: userID})
	if err != nil {
		t.Fatalf("create wallet: %v", err)
	}
	if w.Currency != "USD" {
		t.Fatalf("expected default currency USD, got %s", w.Currency)
	}

	if _, err := svc.Credit(ctx, userID, 50_000, "payout:1", "booking payout"); err != nil {
		t.Fatalf("credit: %v", err)
	}
	if _, err := svc.Hold(ctx, userID, 10_000, "wd:1"); err != nil {
		t.Fatalf("hold: %v", err)
	}

	fetched, err := svc.GetByUser(ctx, userID)
	if err != nil {
		t.Fatalf("get wallet: %v", err)
	}
	snap := fetched.Snapshot()
	if snap.Balance != 40_000 || snap.PendingBalance != 10_000 {
		t.Fatalf("unexpected balances: %+v", snap)
	}
	if snap.TotalBalance != 50_000 || snap.AvailableBalance != 40_000 {
		t.Fatalf("unexpected derived balances: %+v", snap)
	}
}

func TestHoldInsufficientFunds(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)

	ctx := context.Background()
	userID := uuid.NewString()
	if _, err := svc.Create(ctx, CreateInput{UserID: userID}); err != nil {
		t.Fatalf("create wallet: %v", err)
	}

	if _, err := svc.Hold(ctx, userID, 1_000, "wd:1"); err != ErrInsufficientFunds {
		t.Fatalf("expected insufficient funds, got %v", err)
	}
}

func TestLedgerRecordsBalanceBeforeAndAfter(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)

	ctx := context.Background()
	userID := uuid.NewString()
	if _, err := svc.Create(ctx, CreateInput{UserID: userID}); err != nil {
		t.Fatalf("create wallet: %v", err)
	}

	if _, err := svc.Credit(ctx, userID, 30_000, "payout:1", ""); err != nil {
		t.Fatalf("credit: %v", err)
	}
	hold, err := svc.Hold(ctx, userID, 12_000, "wd:1")
	if err != nil {
		t.Fatalf("hold: %v", err)
	}
	if hold.BalanceBefore != 30_000 || hold.BalanceAfter != 18_000 {
		t.Fatalf("unexpected hold entry: %+v", hold)
	}

	settle, err := svc.SettleHold(ctx, userID, 12_000, "wd:1")
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if settle.Type != TxWithdrawalRelease {
		t.Fatalf("expected release entry, got %s", settle.Type)
	}

	w, _ := svc.GetByUser(ctx, userID)
	if w.PendingBalance != 0 || w.Balance != 18_000 {
		t.Fatalf("unexpected balances after settle: %+v", w)
	}
}

func TestTransactionsFilter(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)

	ctx := context.Background()
	userID := uuid.NewString()
	if _, err := svc.Create(ctx, CreateInput{UserID: userID}); err != nil {
		t.Fatalf("create wallet: %v", err)
	}
	if _, err := svc.Credit(ctx, userID, 5_000, "payout:1", ""); err != nil {
		t.Fatalf("credit: %v", err)
	}
	if _, err := svc.Hold(ctx, userID, 2_000, "wd:1"); err != nil {
		t.Fatalf("hold: %v", err)
	}

	credits, err := svc.Transactions(ctx, userID, TxFilter{Type: TxCredit})
	if err != nil {
		t.Fatalf("transactions: %v", err)
	}
	if len(credits) != 1 || credits[0].Type != TxCredit {
		t.Fatalf("expected one credit entry, got %+v", credits)
	}

	none, err := svc.Transactions(ctx, userID, TxFilter{From: time.Now().Add(time.Hour)})
	if err != nil {
		t.Fatalf("transactions: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no entries in future window, got %d", len(none))
	}

	all, err := svc.Transactions(ctx, userID, TxFilter{})
	if err != nil {
		t.Fatalf("transactions: %v", err)
	}
	if len(all) != 2 || all[0].Type != TxWithdrawalHold {
		t.Fatalf("expected newest-first listing, got %+v", all)
	}
}
