package withdrawal

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/amoria-global/jambolush-dashboard-sub002/internal/identity"
	"github.com/amoria-global/jambolush-dashboard-sub002/internal/metrics"
	"github.com/amoria-global/jambolush-dashboard-sub002/internal/notification"
	"github.com/amoria-global/jambolush-dashboard-sub002/internal/wallet"
)

const (
	// MinAmount and MaxAmount bound a single withdrawal, in cents.
	MinAmount int64 = 100       // $1
	MaxAmount int64 = 1_000_000 // $10,000

	walletCurrency = "USD"

	defaultOTPTTL      = 5 * time.Minute
	defaultMaxAttempts = 5
)

var otpCodePattern = regexp.MustCompile(`^\d{6}$`)

// Options tune the OTP flow.
type Options struct {
	OTPTTL      time.Duration
	MaxAttempts int
	Metrics     *metrics.Metrics
}

// Service drives the withdrawal lifecycle: balance validation, OTP issue and
// verification, request creation, and status transitions.
type Service struct {
	wallets   *wallet.Service
	repo      Repository
	providers ProviderCatalog
	otps      OTPStore
	users     identity.Repository
	notifier  notification.Notifier

	otpTTL      time.Duration
	maxAttempts int
	metrics     *metrics.Metrics

	genCode func() (string, error)
	now     func() time.Time
}

// NewService constructs the withdrawal service.
func NewService(wallets *wallet.Service, repo Repository, providers ProviderCatalog, otps OTPStore, users identity.Repository, notifier notification.Notifier, opts Options) *Service {
	if opts.OTPTTL <= 0 {
		opts.OTPTTL = defaultOTPTTL
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	return &Service{
		wallets:     wallets,
		repo:        repo,
		providers:   providers,
		otps:        otps,
		users:       users,
		notifier:    notifier,
		otpTTL:      opts.OTPTTL,
		maxAttempts: opts.MaxAttempts,
		metrics:     opts.Metrics,
		genCode:     randomCode,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// InitiateWithdrawal validates the attempt and sends a one-time code to the
// user's registered phone. Validations run in order; the first failure wins
// and nothing is sent.
func (s *Service) InitiateWithdrawal(ctx context.Context, userID string, amount int64, methodID string) (OTPChallenge, error) {
	w, err := s.wallets.GetByUser(ctx, userID)
	if err != nil {
		return OTPChallenge{}, err
	}
	if w.Currency != walletCurrency {
		return OTPChallenge{}, ErrWalletCurrency
	}
	if amount < MinAmount || amount > MaxAmount {
		return OTPChallenge{}, ErrAmountRange
	}
	if amount > w.AvailableBalance() {
		return OTPChallenge{}, ErrInsufficientBalance
	}

	method, err := s.verifiedMethod(ctx, userID, methodID)
	if err != nil {
		return OTPChallenge{}, err
	}

	return s.issueOTP(ctx, userID, amount, method.ID)
}

// ResendOTP invalidates the previous code and issues a fresh one for the open
// session.
func (s *Service) ResendOTP(ctx context.Context, userID string) (OTPChallenge, error) {
	session, err := s.otps.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return OTPChallenge{}, ErrNoSession
		}
		return OTPChallenge{}, err
	}
	return s.issueOTP(ctx, userID, session.Amount, session.MethodID)
}

func (s *Service) issueOTP(ctx context.Context, userID string, amount int64, methodID string) (OTPChallenge, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return OTPChallenge{}, err
	}

	code, err := s.genCode()
	if err != nil {
		return OTPChallenge{}, err
	}

	now := s.now()
	session := Session{
		MessageID:   uuid.NewString(),
		CodeHash:    hashCode(code),
		Amount:      amount,
		MethodID:    methodID,
		MaskedPhone: maskPhone(user.Phone),
		State:       SessionAwaitingOTP,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.otpTTL),
	}
	if err := s.otps.Put(ctx, userID, session, s.otpTTL); err != nil {
		return OTPChallenge{}, err
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindWithdrawalOTP,
			Destination: user.Phone,
			Body:        fmt.Sprintf("Your Jambolush withdrawal code is %s. It expires in %d minutes.", code, int(s.otpTTL.Minutes())),
		})
	}
	if s.metrics != nil {
		s.metrics.OTPIssued.Inc()
	}

	return OTPChallenge{
		MessageID:   session.MessageID,
		ExpiresIn:   int(s.otpTTL.Seconds()),
		MaskedPhone: session.MaskedPhone,
	}, nil
}

// VerifyAndWithdraw checks the submitted code against the open session and,
// on a match, places a hold on the wallet and creates the pending request.
func (s *Service) VerifyAndWithdraw(ctx context.Context, userID, code string, amount int64, methodID string) (Receipt, error) {
	if !otpCodePattern.MatchString(code) {
		return Receipt{}, ErrInvalidOTP
	}

	session, err := s.otps.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return Receipt{}, ErrOTPExpired
		}
		return Receipt{}, err
	}
	if s.now().After(session.ExpiresAt) {
		_ = s.otps.Delete(ctx, userID)
		return Receipt{}, ErrOTPExpired
	}
	if session.Amount != amount || session.MethodID != methodID {
		return Receipt{}, ErrOTPMismatch
	}

	if subtle.ConstantTimeCompare([]byte(session.CodeHash), []byte(hashCode(code))) != 1 {
		session.Attempts++
		if session.Attempts >= s.maxAttempts {
			_ = s.otps.Delete(ctx, userID)
			return Receipt{}, ErrTooManyAttempts
		}
		if err := s.otps.Update(ctx, userID, session); err != nil {
			return Receipt{}, err
		}
		return Receipt{}, ErrOTPMismatch
	}

	session.State = SessionSubmitting
	if err := s.otps.Update(ctx, userID, session); err != nil {
		return Receipt{}, err
	}

	method, err := s.verifiedMethod(ctx, userID, methodID)
	if err != nil {
		return Receipt{}, err
	}

	reference := newReference()
	if _, err := s.wallets.Hold(ctx, userID, amount, reference); err != nil {
		if errors.Is(err, wallet.ErrInsufficientFunds) {
			return Receipt{}, ErrInsufficientBalance
		}
		return Receipt{}, err
	}

	now := s.now()
	request := Request{
		ID:        uuid.NewString(),
		UserID:    userID,
		Reference: reference,
		Amount:    amount,
		Currency:  walletCurrency,
		Status:    StatusPending,
		Destination: Destination{
			Type:          method.Type,
			ProviderName:  method.ProviderName,
			AccountNumber: method.AccountNumber,
			AccountName:   method.AccountName,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateRequest(ctx, request); err != nil {
		// compensate the hold so funds are not stranded
		_, _ = s.wallets.ReleaseHold(ctx, userID, amount, reference)
		return Receipt{}, err
	}

	_ = s.otps.Delete(ctx, userID)
	if s.metrics != nil {
		s.metrics.WithdrawalsByOut.WithLabelValues(string(StatusPending)).Inc()
	}

	return Receipt{
		WithdrawalID: request.ID,
		Reference:    reference,
		Amount:       amount,
		Method:       method,
	}, nil
}

// CancelOTP abandons the verification step. Nothing was persisted yet, so
// dropping the session is the whole cancellation.
func (s *Service) CancelOTP(ctx context.Context, userID string) error {
	return s.otps.Delete(ctx, userID)
}

func (s *Service) verifiedMethod(ctx context.Context, userID, methodID string) (Method, error) {
	methods, err := s.repo.MethodsByUser(ctx, userID)
	if err != nil {
		return Method{}, err
	}
	anyVerified := false
	var chosen *Method
	for i := range methods {
		if methods[i].IsVerified {
			anyVerified = true
		}
		if methods[i].ID == methodID {
			chosen = &methods[i]
		}
	}
	if !anyVerified {
		return Method{}, ErrNoVerifiedMethod
	}
	if chosen == nil {
		return Method{}, ErrMethodNotFound
	}
	if !chosen.IsVerified {
		return Method{}, ErrMethodNotVerified
	}
	return *chosen, nil
}

// AddMethodInput captures a new payout destination.
type AddMethodInput struct {
	Type          MethodType
	ProviderID    string
	AccountNumber string
	AccountName   string
}

// AddMethod validates and stores a payout method. Validations run in order;
// the first failure wins. Length is checked before the provider pattern so a
// short account number reports the more actionable message.
func (s *Service) AddMethod(ctx context.Context, userID string, input AddMethodInput) (Method, error) {
	if input.Type == "" || strings.TrimSpace(input.ProviderID) == "" ||
		strings.TrimSpace(input.AccountNumber) == "" || strings.TrimSpace(input.AccountName) == "" {
		return Method{}, ErrMissingFields
	}

	provider, err := s.providers.Get(ctx, input.ProviderID)
	if err != nil {
		return Method{}, err
	}
	if provider.Kind != input.Type {
		return Method{}, ErrProviderNotFound
	}

	existing, err := s.repo.MethodsByUser(ctx, userID)
	if err != nil {
		return Method{}, err
	}
	for _, m := range existing {
		if m.Type == input.Type {
			return Method{}, &DuplicateMethodError{Type: input.Type}
		}
	}

	account := strings.TrimSpace(input.AccountNumber)
	if provider.MinLength > 0 && len(account) < provider.MinLength {
		return Method{}, &AccountLengthError{Min: provider.MinLength, Max: provider.MaxLength}
	}
	if provider.MaxLength > 0 && len(account) > provider.MaxLength {
		return Method{}, &AccountLengthError{Min: provider.MinLength, Max: provider.MaxLength}
	}
	if provider.AccountPattern != "" {
		re, err := regexp.Compile(provider.AccountPattern)
		if err != nil {
			return Method{}, fmt.Errorf("provider %s has an invalid account pattern: %w", provider.ID, err)
		}
		if !re.MatchString(account) {
			return Method{}, ErrAccountFormat
		}
	}

	method := Method{
		ID:                 uuid.NewString(),
		UserID:             userID,
		Type:               input.Type,
		ProviderID:         provider.ID,
		ProviderName:       provider.Name,
		AccountNumber:      account,
		AccountName:        strings.TrimSpace(input.AccountName),
		IsDefault:          len(existing) == 0, // first method becomes the default
		IsVerified:         false,
		VerificationStatus: VerificationPending,
		CreatedAt:          s.now(),
	}
	if err := s.repo.CreateMethod(ctx, method); err != nil {
		return Method{}, err
	}
	return method, nil
}

// Methods lists the user's payout methods.
func (s *Service) Methods(ctx context.Context, userID string) ([]Method, error) {
	return s.repo.MethodsByUser(ctx, userID)
}

// SetDefaultMethod marks the given method as default for future withdrawals.
func (s *Service) SetDefaultMethod(ctx context.Context, userID, methodID string) error {
	return s.repo.SetDefaultMethod(ctx, userID, methodID)
}

// DeleteMethod removes a payout method. If the default was removed, the
// oldest remaining method takes over.
func (s *Service) DeleteMethod(ctx context.Context, userID, methodID string) error {
	method, err := s.repo.MethodByID(ctx, methodID)
	if err != nil {
		return err
	}
	if method.UserID != userID {
		return ErrMethodNotFound
	}
	if err := s.repo.DeleteMethod(ctx, methodID); err != nil {
		return err
	}
	if method.IsDefault {
		remaining, err := s.repo.MethodsByUser(ctx, userID)
		if err != nil || len(remaining) == 0 {
			return err
		}
		return s.repo.SetDefaultMethod(ctx, userID, remaining[0].ID)
	}
	return nil
}

// VerifyMethod records the verification outcome for a payout method.
func (s *Service) VerifyMethod(ctx context.Context, methodID string, status VerificationStatus) error {
	return s.repo.UpdateMethodVerification(ctx, methodID, status)
}

// Providers returns the categorized catalog for a country.
func (s *Service) Providers(ctx context.Context, country string) (Catalog, error) {
	return s.providers.ByCountry(ctx, country)
}

// History lists withdrawal requests newest-first with pagination metadata.
func (s *Service) History(ctx context.Context, userID string, page, perPage int) ([]Request, Page, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	requests, total, err := s.repo.RequestsByUser(ctx, userID, (page-1)*perPage, perPage)
	if err != nil {
		return nil, Page{}, err
	}
	totalPages := (total + perPage - 1) / perPage
	return requests, Page{Page: page, PerPage: perPage, Total: total, TotalPages: totalPages}, nil
}

// MarkProcessing moves a pending request into processing.
func (s *Service) MarkProcessing(ctx context.Context, requestID string) error {
	return s.transition(ctx, requestID, StatusProcessing, "")
}

// Complete settles a processing request: the held funds leave the platform.
func (s *Service) Complete(ctx context.Context, requestID string) error {
	return s.transition(ctx, requestID, StatusCompleted, "")
}

// Fail aborts a request and returns the held funds to the wallet.
func (s *Service) Fail(ctx context.Context, requestID, reason string) error {
	return s.transition(ctx, requestID, StatusFailed, reason)
}

// Cancel aborts a pending request and returns the held funds.
func (s *Service) Cancel(ctx context.Context, requestID string) error {
	return s.transition(ctx, requestID, StatusCancelled, "")
}

var validTransitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusFailed, StatusCancelled},
	StatusProcessing: {StatusCompleted, StatusFailed},
}

func (s *Service) transition(ctx context.Context, requestID string, next Status, reason string) error {
	request, err := s.repo.RequestByID(ctx, requestID)
	if err != nil {
		return err
	}

	allowed := false
	for _, candidate := range validTransitions[request.Status] {
		if candidate == next {
			allowed = true
			break
		}
	}
	if !allowed {
		return ErrInvalidTransition
	}

	switch next {
	case StatusCompleted:
		if _, err := s.wallets.SettleHold(ctx, request.UserID, request.Amount, request.Reference); err != nil {
			return err
		}
	case StatusFailed, StatusCancelled:
		if _, err := s.wallets.ReleaseHold(ctx, request.UserID, request.Amount, request.Reference); err != nil {
			return err
		}
	}

	if err := s.repo.UpdateRequestStatus(ctx, requestID, next, reason); err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.WithdrawalsByOut.WithLabelValues(string(next)).Inc()
	}
	if s.notifier != nil {
		if user, err := s.users.FindByID(ctx, request.UserID); err == nil {
			_ = s.notifier.Send(ctx, notification.Message{
				Kind:        notification.KindWithdrawalStatus,
				Destination: user.Phone,
				Body:        fmt.Sprintf("Withdrawal %s is now %s.", request.Reference, next),
			})
		}
	}
	return nil
}

func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func hashCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

func maskPhone(phone string) string {
	digits := strings.TrimSpace(phone)
	if len(digits) <= 3 {
		return "***"
	}
	return strings.Repeat("*", len(digits)-3) + digits[len(digits)-3:]
}

func newReference() string {
	return "WD-" + strings.ToUpper(uuid.NewString()[:8])
}
