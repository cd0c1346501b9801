package sqlite

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/aussiebroadwan/rcs/internal/rcs/domain"
	"github.com/aussiebroadwan/rcs/internal/rcs/store"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func testConsent(now time.Time) domain.Consent {
	return domain.Consent{
		ID:             domain.IntentInternationalPayment.NewIntentID(),
		IntentType:     domain.IntentInternationalPayment,
		APIClientID:    "client-1",
		RequestVersion: domain.MustParseVersion("v3.1.10"),
		Status:         domain.StatusAwaitingAuthorisation,
		Request:        json.RawMessage(`{"Data":{"Initiation":{"CurrencyOfTransfer":"EUR"}}}`),
		Charges: []domain.Charge{
			{ChargeBearer: "BorneByDebtor", Type: "UK.OBIE.CHAPSOut", Amount: domain.Amount{Amount: "0.25", Currency: "GBP"}},
		},
		ExchangeRateInformation:  &domain.ExchangeRateInformation{UnitCurrency: "GBP", ExchangeRate: "1.16", RateType: "Actual"},
		IdempotencyKey:           "key-1",
		IdempotencyKeyExpiration: now.Add(time.Hour),
		CreationDateTime:         now,
		StatusUpdateDateTime:     now,
	}
}

func now() time.Time { return time.Now().UTC().Truncate(time.Microsecond) }

func TestConsentRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)

	c := testConsent(now())
	require.NoError(t, s.Consents().CreateConsent(ctx, c))

	got, err := s.Consents().GetConsentByID(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, c, got)

	_, err = s.Consents().GetConsentByID(ctx, "PIC_missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateConsentStatusIsConditional(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)

	c := testConsent(now())
	require.NoError(t, s.Consents().CreateConsent(ctx, c))

	authorised := c
	authorised.Status = domain.StatusAuthorised
	authorised.ResourceOwnerID = "psu4test"
	authorised.AuthorisedDebtorAccountID = "acc-123456"
	authorised.StatusUpdateDateTime = c.StatusUpdateDateTime.Add(time.Second)

	require.NoError(t, s.Consents().UpdateConsentStatus(ctx, authorised, domain.StatusAwaitingAuthorisation))

	// Second writer still expects the old status.
	rejected := c
	rejected.Status = domain.StatusRejected
	rejected.ResourceOwnerID = "someone-else"
	err := s.Consents().UpdateConsentStatus(ctx, rejected, domain.StatusAwaitingAuthorisation)
	require.ErrorIs(t, err, store.ErrConflict)

	got, err := s.Consents().GetConsentByID(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, authorised, got)
}

func TestIdempotencyClaims(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)
	t0 := now()

	first := testConsent(t0)
	require.NoError(t, s.Consents().CreateConsent(ctx, first))
	require.NoError(t, s.IdempotencyKeys().ClaimIdempotencyKey(ctx, domain.IdempotencyClaim{
		IntentType:     first.IntentType,
		APIClientID:    first.APIClientID,
		IdempotencyKey: first.IdempotencyKey,
		ConsentID:      first.ID,
		ExpiresAt:      first.IdempotencyKeyExpiration,
		CreatedAt:      t0,
	}, t0))

	t.Run("live claim resolves to its consent", func(t *testing.T) {
		got, err := s.Consents().GetConsentByIdempotencyKey(ctx, domain.IntentInternationalPayment, "client-1", "key-1", t0)
		require.NoError(t, err)
		require.Equal(t, first.ID, got.ID)
	})

	t.Run("lookup is scoped by api client", func(t *testing.T) {
		_, err := s.Consents().GetConsentByIdempotencyKey(ctx, domain.IntentInternationalPayment, "client-2", "key-1", t0)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("lookup is scoped by intent type", func(t *testing.T) {
		_, err := s.Consents().GetConsentByIdempotencyKey(ctx, domain.IntentAccountAccess, "client-1", "key-1", t0)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("same key claims independently per intent type", func(t *testing.T) {
		other := testConsent(t0)
		other.ID = domain.IntentAccountAccess.NewIntentID()
		other.IntentType = domain.IntentAccountAccess
		require.NoError(t, s.Consents().CreateConsent(ctx, other))
		require.NoError(t, s.IdempotencyKeys().ClaimIdempotencyKey(ctx, domain.IdempotencyClaim{
			IntentType:     domain.IntentAccountAccess,
			APIClientID:    "client-1",
			IdempotencyKey: "key-1",
			ConsentID:      other.ID,
			ExpiresAt:      t0.Add(time.Hour),
			CreatedAt:      t0,
		}, t0))

		got, err := s.Consents().GetConsentByIdempotencyKey(ctx, domain.IntentAccountAccess, "client-1", "key-1", t0)
		require.NoError(t, err)
		require.Equal(t, other.ID, got.ID)
	})

	t.Run("live claim cannot be replaced", func(t *testing.T) {
		err := s.IdempotencyKeys().ClaimIdempotencyKey(ctx, domain.IdempotencyClaim{
			IntentType:     domain.IntentInternationalPayment,
			APIClientID:    "client-1",
			IdempotencyKey: "key-1",
			ConsentID:      first.ID,
			ExpiresAt:      t0.Add(2 * time.Hour),
			CreatedAt:      t0,
		}, t0)
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("expired claim is ignored and replaceable", func(t *testing.T) {
		later := t0.Add(2 * time.Hour)
		_, err := s.Consents().GetConsentByIdempotencyKey(ctx, domain.IntentInternationalPayment, "client-1", "key-1", later)
		require.ErrorIs(t, err, store.ErrNotFound)

		second := testConsent(later)
		require.NoError(t, s.Consents().CreateConsent(ctx, second))
		require.NoError(t, s.IdempotencyKeys().ClaimIdempotencyKey(ctx, domain.IdempotencyClaim{
			IntentType:     domain.IntentInternationalPayment,
			APIClientID:    "client-1",
			IdempotencyKey: "key-1",
			ConsentID:      second.ID,
			ExpiresAt:      later.Add(time.Hour),
			CreatedAt:      later,
		}, later))

		got, err := s.Consents().GetConsentByIdempotencyKey(ctx, domain.IntentInternationalPayment, "client-1", "key-1", later)
		require.NoError(t, err)
		require.Equal(t, second.ID, got.ID)

		// The first consent is still there, only the claim moved.
		_, err = s.Consents().GetConsentByID(ctx, first.ID)
		require.NoError(t, err)
	})
}

func TestDeleteExpiredIdempotencyKeys(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)
	t0 := now()

	c := testConsent(t0)
	require.NoError(t, s.Consents().CreateConsent(ctx, c))
	require.NoError(t, s.IdempotencyKeys().ClaimIdempotencyKey(ctx, domain.IdempotencyClaim{
		IntentType: c.IntentType, APIClientID: c.APIClientID, IdempotencyKey: c.IdempotencyKey, ConsentID: c.ID,
		ExpiresAt: t0.Add(time.Minute), CreatedAt: t0,
	}, t0))

	n, err := s.IdempotencyKeys().DeleteExpiredIdempotencyKeys(ctx, t0)
	require.NoError(t, err)
	require.Zero(t, n)

	n, err = s.IdempotencyKeys().DeleteExpiredIdempotencyKeys(ctx, t0.Add(time.Hour))
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestWithTxRollsBack(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)

	c := testConsent(now())
	err := s.WithTx(ctx, func(tx store.Tx) error {
		require.NoError(t, tx.Consents().CreateConsent(ctx, c))
		return store.ErrAlreadyExists
	})
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	_, err = s.Consents().GetConsentByID(ctx, c.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestDirectory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Users().UpsertUser(ctx, domain.User{ID: "psu4test", UserName: "psu4test"}))
	require.NoError(t, s.APIClients().UpsertAPIClient(ctx, domain.APIClient{ID: "client-1", Name: "Acme TPP", LogoURI: "https://acme.example/logo.png"}))

	accounts := []domain.AccountWithBalance{
		{AccountID: "acc-123456", UserID: "psu4test", SchemeName: "UK.OBIE.SortCodeAccountNumber", Identification: "40400422390112", Name: "Current", Balance: domain.Amount{Amount: "1000.00", Currency: "GBP"}},
		{AccountID: "acc-654321", UserID: "psu4test", SchemeName: "UK.OBIE.IBAN", Identification: "GB29NWBK60161331926819", Name: "Savings", Balance: domain.Amount{Amount: "25.10", Currency: "GBP"}},
	}
	for _, a := range accounts {
		require.NoError(t, s.Accounts().UpsertAccount(ctx, a))
	}

	u, err := s.Users().GetUserByID(ctx, "psu4test")
	require.NoError(t, err)
	require.Equal(t, "psu4test", u.UserName)

	c, err := s.APIClients().GetAPIClientByID(ctx, "client-1")
	require.NoError(t, err)
	require.Equal(t, "Acme TPP", c.Name)

	_, err = s.APIClients().GetAPIClientByID(ctx, "nope")
	require.ErrorIs(t, err, store.ErrNotFound)

	list, err := s.Accounts().ListAccountsByUser(ctx, "psu4test")
	require.NoError(t, err)
	require.Equal(t, accounts, list)

	a, err := s.Accounts().GetAccountByIdentifiers(ctx, "psu4test", "GB29NWBK60161331926819", "UK.OBIE.IBAN")
	require.NoError(t, err)
	require.Equal(t, "acc-654321", a.AccountID)

	_, err = s.Accounts().GetAccountByIdentifiers(ctx, "other-user", "GB29NWBK60161331926819", "UK.OBIE.IBAN")
	require.ErrorIs(t, err, store.ErrNotFound)
}
