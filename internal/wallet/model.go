package wallet

import "time"

// TxType classifies ledger entries.
type TxType string

const (
	TxCredit            TxType = "CREDIT"
	TxDebit             TxType = "DEBIT"
	TxWithdrawalHold    TxType = "WITHDRAWAL_HOLD"
	TxWithdrawalRelease TxType = "WITHDRAWAL_RELEASE"
)

// Wallet is a user's earnings balance. Amounts are integer cents.
// Balance holds immediately spendable funds; PendingBalance holds funds
// reserved by in-flight withdrawal requests.
type Wallet struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	Balance        int64     `json:"balance"`
	PendingBalance int64     `json:"pendingBalance"`
	Currency       string    `json:"currency"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// TotalBalance is the sum of available and pending funds.
func (w Wallet) TotalBalance() int64 {
	return w.Balance + w.PendingBalance
}

// AvailableBalance is the portion a withdrawal may draw from.
func (w Wallet) AvailableBalance() int64 {
	return w.Balance
}

// Transaction is an immutable ledger entry. Entries are append-only and
// record the wallet balance on both sides of the mutation.
type Transaction struct {
	ID            string    `json:"id"`
	WalletID      string    `json:"walletId"`
	Type          TxType    `json:"type"`
	Amount        int64     `json:"amount"`
	BalanceBefore int64     `json:"balanceBefore"`
	BalanceAfter  int64     `json:"balanceAfter"`
	Reference     string    `json:"reference"`
	Description   string    `json:"description,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Snapshot is the read model served to dashboards, with derived totals
// precomputed.
type Snapshot struct {
	ID               string    `json:"id"`
	UserID           string    `json:"userId"`
	Balance          int64     `json:"balance"`
	PendingBalance   int64     `json:"pendingBalance"`
	TotalBalance     int64     `json:"totalBalance"`
	AvailableBalance int64     `json:"availableBalance"`
	Currency         string    `json:"currency"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Snapshot derives the read model from the wallet row.
func (w Wallet) Snapshot() Snapshot {
	return Snapshot{
		ID:               w.ID,
		UserID:           w.UserID,
		Balance:          w.Balance,
		PendingBalance:   w.PendingBalance,
		TotalBalance:     w.TotalBalance(),
		AvailableBalance: w.AvailableBalance(),
		Currency:         w.Currency,
		UpdatedAt:        w.UpdatedAt,
	}
}

// TxFilter narrows the transaction listing. Zero values mean "no constraint".
type TxFilter struct {
	Type TxType
	From time.Time
	To   time.Time
}
