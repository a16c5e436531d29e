package withdrawal

import "time"

// MethodType distinguishes payout destinations.
type MethodType string

const (
	MethodBank        MethodType = "BANK"
	MethodMobileMoney MethodType = "MOBILE_MONEY"
)

// VerificationStatus tracks method verification.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

// Method is a saved payout destination. A user holds at most one method per
// type, and exactly one method carries IsDefault.
type Method struct {
	ID                 string             `json:"id"`
	UserID             string             `json:"userId"`
	Type               MethodType         `json:"methodType"`
	ProviderID         string             `json:"providerId"`
	ProviderName       string             `json:"providerName"`
	AccountNumber      string             `json:"accountNumber"`
	AccountName        string             `json:"accountName"`
	IsDefault          bool               `json:"isDefault"`
	IsVerified         bool               `json:"isVerified"`
	VerificationStatus VerificationStatus `json:"verificationStatus"`
	CreatedAt          time.Time          `json:"createdAt"`
}

// Status is the withdrawal request lifecycle:
// pending -> processing -> completed | failed, with cancellation from pending.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
)

// Destination snapshots the payout method at request time, so later edits to
// the method never rewrite history.
type Destination struct {
	Type          MethodType `json:"methodType"`
	ProviderName  string     `json:"providerName"`
	AccountNumber string     `json:"accountNumber"`
	AccountName   string     `json:"accountName"`
}

// Request is a withdrawal attempt. Immutable once created except for status
// transitions.
type Request struct {
	ID            string      `json:"id"`
	UserID        string      `json:"userId"`
	Reference     string      `json:"reference"`
	Amount        int64       `json:"amount"`
	Currency      string      `json:"currency"`
	Status        Status      `json:"status"`
	Destination   Destination `json:"destination"`
	FailureReason string      `json:"failureReason,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// OTPChallenge is returned when a one-time code has been sent.
type OTPChallenge struct {
	MessageID   string `json:"messageId"`
	ExpiresIn   int    `json:"expiresIn"`
	MaskedPhone string `json:"maskedPhone"`
}

// Receipt is returned once the OTP has been verified and the request created.
type Receipt struct {
	WithdrawalID string `json:"withdrawalId"`
	Reference    string `json:"reference"`
	Amount       int64  `json:"amount"`
	Method       Method `json:"method"`
}

// Page carries pagination metadata for history listings.
type Page struct {
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}
