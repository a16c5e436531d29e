package withdrawal

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/amoria-global/jambolush-dashboard-sub002/internal/identity"
	"github.com/amoria-global/jambolush-dashboard-sub002/internal/wallet"
)

const testOTPTTL = 2 * time.Minute

type testEnv struct {
	svc      *Service
	wallets  *wallet.Service
	userID   string
	methodID string
	mr       *miniredis.Miniredis
}

func bankProvider() Provider {
	return Provider{
		ID: "bk-equity", Name: "Equity Bank", Kind: MethodBank, Country: "RW",
		AccountPattern: `^\d+$`, MinLength: 10, MaxLength: 16,
	}
}

func momoProvider() Provider {
	return Provider{
		ID: "mm-mtn", Name: "MTN Mobile Money", Kind: MethodMobileMoney, Country: "RW",
		AccountPattern: `^07\d{8}$`, MinLength: 10, MaxLength: 10,
	}
}

// newTestEnv wires the service against in-memory stores and a miniredis OTP
// store, with a fixed OTP code and a funded, verified user.
func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	ctx := context.Background()

	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	users := identity.NewMemoryRepository()
	userID := uuid.NewString()
	require.NoError(t, users.Create(ctx, identity.User{
		ID: userID, Email: "host@example.com", Phone: "+250788123456",
		Name: "Host", Role: identity.RoleHost, Country: "RW",
	}))

	wallets := wallet.NewService(wallet.NewMemoryRepository())
	_, err := wallets.Create(ctx, wallet.CreateInput{UserID: userID})
	require.NoError(t, err)
	_, err = wallets.Credit(ctx, userID, 500_000, "payout:seed", "seed")
	require.NoError(t, err)

	repo := NewMemoryRepository()
	svc := NewService(wallets, repo, NewMemoryProviderCatalog(bankProvider(), momoProvider()),
		NewRedisOTPStore(cache), users, nil, Options{OTPTTL: testOTPTTL, MaxAttempts: 3})
	svc.genCode = func() (string, error) { return "123456", nil }

	method, err := svc.AddMethod(ctx, userID, AddMethodInput{
		Type: MethodBank, ProviderID: "bk-equity", AccountNumber: "1234567890", AccountName: "Host",
	})
	require.NoError(t, err)
	require.NoError(t, svc.VerifyMethod(ctx, method.ID, VerificationVerified))

	return testEnv{svc: svc, wallets: wallets, userID: userID, methodID: method.ID, mr: mr}
}

func TestInitiateValidatesAmount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.InitiateWithdrawal(ctx, env.userID, 99, env.methodID)
	require.ErrorIs(t, err, ErrAmountRange)

	_, err = env.svc.InitiateWithdrawal(ctx, env.userID, 1_000_001, env.methodID)
	require.ErrorIs(t, err, ErrAmountRange)

	// the whole available balance is fine, one cent more is not
	_, err = env.svc.InitiateWithdrawal(ctx, env.userID, 600_000, env.methodID)
	require.ErrorIs(t, err, ErrInsufficientBalance)

	_, err = env.svc.InitiateWithdrawal(ctx, env.userID, 500_000, env.methodID)
	require.NoError(t, err)
}

func TestInitiateRejectsNonUSDWallet(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	other := uuid.NewString()
	_, err := env.wallets.Create(ctx, wallet.CreateInput{UserID: other, Currency: "RWF"})
	require.NoError(t, err)

	_, err = env.svc.InitiateWithdrawal(ctx, other, 10_000, env.methodID)
	require.ErrorIs(t, err, ErrWalletCurrency)
}

func TestInitiateRequiresVerifiedMethod(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// a funded user with no methods at all
	bare := uuid.NewString()
	_, err := env.wallets.Create(ctx, wallet.CreateInput{UserID: bare})
	require.NoError(t, err)
	_, err = env.wallets.Credit(ctx, bare, 50_000, "payout:1", "")
	require.NoError(t, err)
	_, err = env.svc.InitiateWithdrawal(ctx, bare, 10_000, env.methodID)
	require.ErrorIs(t, err, ErrNoVerifiedMethod)

	// an unknown method id, while a verified one exists
	_, err = env.svc.InitiateWithdrawal(ctx, env.userID, 10_000, uuid.NewString())
	require.ErrorIs(t, err, ErrMethodNotFound)

	// a second, still-pending method cannot receive funds
	pending, err := env.svc.AddMethod(ctx, env.userID, AddMethodInput{
		Type: MethodMobileMoney, ProviderID: "mm-mtn", AccountNumber: "0712345678", AccountName: "Host",
	})
	require.NoError(t, err)
	_, err = env.svc.InitiateWithdrawal(ctx, env.userID, 10_000, pending.ID)
	require.ErrorIs(t, err, ErrMethodNotVerified)
}

func TestVerifyRejectsMalformedCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, bad := range []string{"", "12345", "1234567", "12345a", "abcdef"} {
		_, err := env.svc.VerifyAndWithdraw(ctx, env.userID, bad, 10_000, env.methodID)
		require.ErrorIs(t, err, ErrInvalidOTP, "code %q", bad)
	}
}

func TestVerifyWithoutSession(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.VerifyAndWithdraw(context.Background(), env.userID, "123456", 10_000, env.methodID)
	require.ErrorIs(t, err, ErrOTPExpired)
}

func TestFullWithdrawalFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	challenge, err := env.svc.InitiateWithdrawal(ctx, env.userID, 120_000, env.methodID)
	require.NoError(t, err)
	require.NotEmpty(t, challenge.MessageID)
	require.Equal(t, int(testOTPTTL.Seconds()), challenge.ExpiresIn)
	require.Equal(t, "**********456", challenge.MaskedPhone)

	receipt, err := env.svc.VerifyAndWithdraw(ctx, env.userID, "123456", 120_000, env.methodID)
	require.NoError(t, err)
	require.Equal(t, int64(120_000), receipt.Amount)
	require.Contains(t, receipt.Reference, "WD-")
	require.Equal(t, "Equity Bank", receipt.Method.ProviderName)

	// funds are held, not gone
	w, err := env.wallets.GetByUser(ctx, env.userID)
	require.NoError(t, err)
	require.Equal(t, int64(380_000), w.Balance)
	require.Equal(t, int64(120_000), w.PendingBalance)

	// the new request heads the history in pending state
	requests, page, err := env.svc.History(ctx, env.userID, 1, 20)
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	require.Equal(t, StatusPending, requests[0].Status)
	require.Equal(t, receipt.Reference, requests[0].Reference)
	require.Equal(t, "1234567890", requests[0].Destination.AccountNumber)

	// the session is consumed
	_, err = env.svc.VerifyAndWithdraw(ctx, env.userID, "123456", 120_000, env.methodID)
	require.ErrorIs(t, err, ErrOTPExpired)
}

func TestWrongCodeKeepsSessionAlive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.InitiateWithdrawal(ctx, env.userID, 10_000, env.methodID)
	require.NoError(t, err)

	_, err = env.svc.VerifyAndWithdraw(ctx, env.userID, "654321", 10_000, env.methodID)
	require.ErrorIs(t, err, ErrOTPMismatch)

	// the right code still works afterwards
	_, err = env.svc.VerifyAndWithdraw(ctx, env.userID, "123456", 10_000, env.methodID)
	require.NoError(t, err)
}

func TestTooManyWrongCodesEndSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.InitiateWithdrawal(ctx, env.userID, 10_000, env.methodID)
	require.NoError(t, err)

	_, err = env.svc.VerifyAndWithdraw(ctx, env.userID, "000000", 10_000, env.methodID)
	require.ErrorIs(t, err, ErrOTPMismatch)
	_, err = env.svc.VerifyAndWithdraw(ctx, env.userID, "000000", 10_000, env.methodID)
	require.ErrorIs(t, err, ErrOTPMismatch)
	_, err = env.svc.VerifyAndWithdraw(ctx, env.userID, "000000", 10_000, env.methodID)
	require.ErrorIs(t, err, ErrTooManyAttempts)

	// even the right code is dead now
	_, err = env.svc.VerifyAndWithdraw(ctx, env.userID, "123456", 10_000, env.methodID)
	require.ErrorIs(t, err, ErrOTPExpired)
}

func TestVerifyRejectsChangedAmountOrMethod(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.InitiateWithdrawal(ctx, env.userID, 10_000, env.methodID)
	require.NoError(t, err)

	_, err = env.svc.VerifyAndWithdraw(ctx, env.userID, "123456", 20_000, env.methodID)
	require.ErrorIs(t, err, ErrOTPMismatch)

	_, err = env.svc.VerifyAndWithdraw(ctx, env.userID, "123456", 10_000, uuid.NewString())
	require.ErrorIs(t, err, ErrOTPMismatch)
}

func TestOTPExpires(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.InitiateWithdrawal(ctx, env.userID, 10_000, env.methodID)
	require.NoError(t, err)

	env.mr.FastForward(testOTPTTL + time.Second)

	_, err = env.svc.VerifyAndWithdraw(ctx, env.userID, "123456", 10_000, env.methodID)
	require.ErrorIs(t, err, ErrOTPExpired)
}

func TestResendInvalidatesPreviousCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.InitiateWithdrawal(ctx, env.userID, 10_000, env.methodID)
	require.NoError(t, err)

	env.svc.genCode = func() (string, error) { return "999999", nil }
	challenge, err := env.svc.ResendOTP(ctx, env.userID)
	require.NoError(t, err)
	require.NotEmpty(t, challenge.MessageID)

	_, err = env.svc.VerifyAndWithdraw(ctx, env.userID, "123456", 10_000, env.methodID)
	require.ErrorIs(t, err, ErrOTPMismatch)

	_, err = env.svc.VerifyAndWithdraw(ctx, env.userID, "999999", 10_000, env.methodID)
	require.NoError(t, err)
}

func TestResendWithoutSession(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.ResendOTP(context.Background(), env.userID)
	require.ErrorIs(t, err, ErrNoSession)
}

func TestCancelOTPDropsSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.InitiateWithdrawal(ctx, env.userID, 10_000, env.methodID)
	require.NoError(t, err)
	require.NoError(t, env.svc.CancelOTP(ctx, env.userID))

	_, err = env.svc.VerifyAndWithdraw(ctx, env.userID, "123456", 10_000, env.methodID)
	require.ErrorIs(t, err, ErrOTPExpired)
}

func withdraw(t *testing.T, env testEnv, amount int64) Receipt {
	t.Helper()
	ctx := context.Background()
	_, err := env.svc.InitiateWithdrawal(ctx, env.userID, amount, env.methodID)
	require.NoError(t, err)
	receipt, err := env.svc.VerifyAndWithdraw(ctx, env.userID, "123456", amount, env.methodID)
	require.NoError(t, err)
	return receipt
}

func TestCompleteSettlesHold(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	receipt := withdraw(t, env, 100_000)

	require.NoError(t, env.svc.MarkProcessing(ctx, receipt.WithdrawalID))
	require.NoError(t, env.svc.Complete(ctx, receipt.WithdrawalID))

	w, err := env.wallets.GetByUser(ctx, env.userID)
	require.NoError(t, err)
	require.Equal(t, int64(400_000), w.Balance)
	require.Equal(t, int64(0), w.PendingBalance)

	requests, _, err := env.svc.History(ctx, env.userID, 1, 20)
	require.NoError(t, err)
	require.Equal(t, StatusCompleted, requests[0].Status)
}

func TestFailReleasesHold(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	receipt := withdraw(t, env, 100_000)

	require.NoError(t, env.svc.Fail(ctx, receipt.WithdrawalID, "provider rejected the account"))

	w, err := env.wallets.GetByUser(ctx, env.userID)
	require.NoError(t, err)
	require.Equal(t, int64(500_000), w.Balance)
	require.Equal(t, int64(0), w.PendingBalance)

	requests, _, err := env.svc.History(ctx, env.userID, 1, 20)
	require.NoError(t, err)
	require.Equal(t, StatusFailed, requests[0].Status)
	require.Equal(t, "provider rejected the account", requests[0].FailureReason)
}

func TestTransitionsAreOrdered(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	receipt := withdraw(t, env, 50_000)

	// completing straight from pending is not allowed
	require.ErrorIs(t, env.svc.Complete(ctx, receipt.WithdrawalID), ErrInvalidTransition)

	require.NoError(t, env.svc.MarkProcessing(ctx, receipt.WithdrawalID))
	// a processing request can no longer be cancelled
	require.ErrorIs(t, env.svc.Cancel(ctx, receipt.WithdrawalID), ErrInvalidTransition)

	require.NoError(t, env.svc.Complete(ctx, receipt.WithdrawalID))
	// terminal states are final
	require.ErrorIs(t, env.svc.Fail(ctx, receipt.WithdrawalID, "late"), ErrInvalidTransition)
}

func TestHistoryPaginates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		withdraw(t, env, 10_000)
	}

	requests, page, err := env.svc.History(ctx, env.userID, 1, 2)
	require.NoError(t, err)
	require.Len(t, requests, 2)
	require.Equal(t, 3, page.Total)
	require.Equal(t, 2, page.TotalPages)

	rest, _, err := env.svc.History(ctx, env.userID, 2, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
}
