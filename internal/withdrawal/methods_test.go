package withdrawal

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/amoria-global/jambolush-dashboard-sub002/internal/identity"
	"github.com/amoria-global/jambolush-dashboard-sub002/internal/wallet"
)

// newMethodService wires only what method management needs.
func newMethodService(t *testing.T) (*Service, string) {
	t.Helper()
	users := identity.NewMemoryRepository()
	wallets := wallet.NewService(wallet.NewMemoryRepository())
	svc := NewService(wallets, NewMemoryRepository(), NewMemoryProviderCatalog(bankProvider(), momoProvider()),
		nil, users, nil, Options{})
	return svc, uuid.NewString()
}

func TestAddMethodRequiresAllFields(t *testing.T) {
	svc, userID := newMethodService(t)
	ctx := context.Background()

	cases := []AddMethodInput{
		{ProviderID: "bk-equity", AccountNumber: "1234567890", AccountName: "Host"},
		{Type: MethodBank, AccountNumber: "1234567890", AccountName: "Host"},
		{Type: MethodBank, ProviderID: "bk-equity", AccountName: "Host"},
		{Type: MethodBank, ProviderID: "bk-equity", AccountNumber: "1234567890"},
		{Type: MethodBank, ProviderID: "  ", AccountNumber: "1234567890", AccountName: "Host"},
	}
	for i, input := range cases {
		_, err := svc.AddMethod(ctx, userID, input)
		require.ErrorIs(t, err, ErrMissingFields, "case %d", i)
	}
}

func TestAddMethodChecksProvider(t *testing.T) {
	svc, userID := newMethodService(t)
	ctx := context.Background()

	_, err := svc.AddMethod(ctx, userID, AddMethodInput{
		Type: MethodBank, ProviderID: "bk-unknown", AccountNumber: "1234567890", AccountName: "Host",
	})
	require.ErrorIs(t, err, ErrProviderNotFound)

	// a mobile money provider cannot back a bank method
	_, err = svc.AddMethod(ctx, userID, AddMethodInput{
		Type: MethodBank, ProviderID: "mm-mtn", AccountNumber: "0712345678", AccountName: "Host",
	})
	require.ErrorIs(t, err, ErrProviderNotFound)
}

func TestAddMethodRejectsDuplicateType(t *testing.T) {
	svc, userID := newMethodService(t)
	ctx := context.Background()

	_, err := svc.AddMethod(ctx, userID, AddMethodInput{
		Type: MethodBank, ProviderID: "bk-equity", AccountNumber: "1234567890", AccountName: "Host",
	})
	require.NoError(t, err)

	_, err = svc.AddMethod(ctx, userID, AddMethodInput{
		Type: MethodBank, ProviderID: "bk-equity", AccountNumber: "9876543210", AccountName: "Host",
	})
	var dup *DuplicateMethodError
	require.ErrorAs(t, err, &dup)
	require.Equal(t, "you already have a bank withdrawal method", err.Error())

	// a second method of the other type is fine
	_, err = svc.AddMethod(ctx, userID, AddMethodInput{
		Type: MethodMobileMoney, ProviderID: "mm-mtn", AccountNumber: "0712345678", AccountName: "Host",
	})
	require.NoError(t, err)
}

func TestAddMethodValidatesAccountNumber(t *testing.T) {
	svc, userID := newMethodService(t)
	ctx := context.Background()

	// nine digits trips the length check, not the pattern check
	_, err := svc.AddMethod(ctx, userID, AddMethodInput{
		Type: MethodMobileMoney, ProviderID: "mm-mtn", AccountNumber: "071234567", AccountName: "Host",
	})
	var lengthErr *AccountLengthError
	require.ErrorAs(t, err, &lengthErr)
	require.Equal(t, "account number must be 10 digits", err.Error())

	_, err = svc.AddMethod(ctx, userID, AddMethodInput{
		Type: MethodMobileMoney, ProviderID: "mm-mtn", AccountNumber: "07123456789", AccountName: "Host",
	})
	require.ErrorAs(t, err, &lengthErr)

	// ten digits with the wrong prefix fails the provider pattern
	_, err = svc.AddMethod(ctx, userID, AddMethodInput{
		Type: MethodMobileMoney, ProviderID: "mm-mtn", AccountNumber: "0812345678", AccountName: "Host",
	})
	require.ErrorIs(t, err, ErrAccountFormat)

	method, err := svc.AddMethod(ctx, userID, AddMethodInput{
		Type: MethodMobileMoney, ProviderID: "mm-mtn", AccountNumber: " 0712345678 ", AccountName: " Host ",
	})
	require.NoError(t, err)
	require.Equal(t, "0712345678", method.AccountNumber)
	require.Equal(t, "Host", method.AccountName)
}

func TestFirstMethodBecomesDefault(t *testing.T) {
	svc, userID := newMethodService(t)
	ctx := context.Background()

	first, err := svc.AddMethod(ctx, userID, AddMethodInput{
		Type: MethodBank, ProviderID: "bk-equity", AccountNumber: "1234567890", AccountName: "Host",
	})
	require.NoError(t, err)
	require.True(t, first.IsDefault)
	require.False(t, first.IsVerified)
	require.Equal(t, VerificationPending, first.VerificationStatus)

	second, err := svc.AddMethod(ctx, userID, AddMethodInput{
		Type: MethodMobileMoney, ProviderID: "mm-mtn", AccountNumber: "0712345678", AccountName: "Host",
	})
	require.NoError(t, err)
	require.False(t, second.IsDefault)
}

func TestSetDefaultMethod(t *testing.T) {
	svc, userID := newMethodService(t)
	ctx := context.Background()

	first, err := svc.AddMethod(ctx, userID, AddMethodInput{
		Type: MethodBank, ProviderID: "bk-equity", AccountNumber: "1234567890", AccountName: "Host",
	})
	require.NoError(t, err)
	second, err := svc.AddMethod(ctx, userID, AddMethodInput{
		Type: MethodMobileMoney, ProviderID: "mm-mtn", AccountNumber: "0712345678", AccountName: "Host",
	})
	require.NoError(t, err)

	require.NoError(t, svc.SetDefaultMethod(ctx, userID, second.ID))

	methods, err := svc.Methods(ctx, userID)
	require.NoError(t, err)
	require.Len(t, methods, 2)
	for _, m := range methods {
		require.Equal(t, m.ID == second.ID, m.IsDefault)
	}

	// another user cannot take over the method
	require.ErrorIs(t, svc.SetDefaultMethod(ctx, uuid.NewString(), first.ID), ErrMethodNotFound)
}

func TestDeleteDefaultPromotesOldestRemaining(t *testing.T) {
	svc, userID := newMethodService(t)
	ctx := context.Background()

	first, err := svc.AddMethod(ctx, userID, AddMethodInput{
		Type: MethodBank, ProviderID: "bk-equity", AccountNumber: "1234567890", AccountName: "Host",
	})
	require.NoError(t, err)
	second, err := svc.AddMethod(ctx, userID, AddMethodInput{
		Type: MethodMobileMoney, ProviderID: "mm-mtn", AccountNumber: "0712345678", AccountName: "Host",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteMethod(ctx, userID, first.ID))

	methods, err := svc.Methods(ctx, userID)
	require.NoError(t, err)
	require.Len(t, methods, 1)
	require.Equal(t, second.ID, methods[0].ID)
	require.True(t, methods[0].IsDefault)

	// deleting a stranger's method is a not-found, not a delete
	require.ErrorIs(t, svc.DeleteMethod(ctx, uuid.NewString(), second.ID), ErrMethodNotFound)
}

func TestProvidersCatalogGroupsByKind(t *testing.T) {
	svc, _ := newMethodService(t)

	catalog, err := svc.Providers(context.Background(), "RW")
	require.NoError(t, err)
	require.Len(t, catalog.Banks, 1)
	require.Len(t, catalog.MobileMoney, 1)
	require.Equal(t, "Equity Bank", catalog.Banks[0].Name)

	empty, err := svc.Providers(context.Background(), "KE")
	require.NoError(t, err)
	require.Empty(t, empty.Banks)
	require.Empty(t, empty.MobileMoney)
}
