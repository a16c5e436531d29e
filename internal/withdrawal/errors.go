package withdrawal

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrWalletCurrency rejects withdrawals from non-USD wallets.
	ErrWalletCurrency = errors.New("withdrawals are only available for USD wallets")
	// ErrAmountRange rejects amounts outside the allowed window.
	ErrAmountRange = errors.New("withdrawal amount must be between $1 and $10,000")
	// ErrInsufficientBalance rejects amounts above the available balance.
	ErrInsufficientBalance = errors.New("insufficient available balance")
	// ErrNoVerifiedMethod rejects withdrawals when no verified payout method exists.
	ErrNoVerifiedMethod = errors.New("add and verify a withdrawal method before withdrawing")
	// ErrMethodNotFound indicates the payout method does not exist for this user.
	ErrMethodNotFound = errors.New("withdrawal method not found")
	// ErrMethodNotVerified rejects withdrawing to an unverified method.
	ErrMethodNotVerified = errors.New("withdrawal method is not verified yet")

	// ErrInvalidOTP rejects malformed codes before any store access.
	ErrInvalidOTP = errors.New("enter the 6-digit code that was sent to your phone")
	// ErrOTPMismatch indicates the code does not match the open session.
	ErrOTPMismatch = errors.New("incorrect code, please try again")
	// ErrOTPExpired indicates no live OTP session exists for the user.
	ErrOTPExpired = errors.New("the code has expired, request a new one")
	// ErrNoSession indicates a resend with no withdrawal in progress.
	ErrNoSession = errors.New("no withdrawal in progress")
	// ErrTooManyAttempts aborts the session after repeated wrong codes.
	ErrTooManyAttempts = errors.New("too many incorrect codes, start the withdrawal again")

	// ErrMissingFields rejects method submissions with empty fields.
	ErrMissingFields = errors.New("all fields are required")
	// ErrProviderNotFound indicates the provider is not in the catalog for
	// the requested method type.
	ErrProviderNotFound = errors.New("select a provider from the list")
	// ErrAccountFormat indicates the account number fails the provider pattern.
	ErrAccountFormat = errors.New("account number format is invalid for this provider")

	// ErrInvalidTransition rejects out-of-order status changes.
	ErrInvalidTransition = errors.New("invalid withdrawal status transition")
	// ErrRequestNotFound indicates the withdrawal request does not exist.
	ErrRequestNotFound = errors.New("withdrawal request not found")
)

// DuplicateMethodError reports an existing method of the same type.
type DuplicateMethodError struct {
	Type MethodType
}

func (e *DuplicateMethodError) Error() string {
	return fmt.Sprintf("you already have a %s withdrawal method", methodLabel(e.Type))
}

// AccountLengthError reports an account number outside the provider's bounds.
type AccountLengthError struct {
	Min int
	Max int
}

func (e *AccountLengthError) Error() string {
	if e.Min == e.Max {
		return fmt.Sprintf("account number must be %d digits", e.Min)
	}
	return fmt.Sprintf("account number must be between %d and %d characters", e.Min, e.Max)
}

func methodLabel(t MethodType) string {
	switch t {
	case MethodBank:
		return "bank"
	case MethodMobileMoney:
		return "mobile money"
	default:
		return strings.ToLower(string(t))
	}
}
