package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aussiebroadwan/rcs/internal/rcs/domain"
	"github.com/aussiebroadwan/rcs/internal/rcs/store"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	dialector := postgres.New(postgres.Config{
		Conn:       db,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewFromDB(gormDB), mock
}

var consentRowColumns = []string{
	"id", "intent_type", "api_client_id", "request_version", "status", "request",
	"charges", "exchange_rate_information", "idempotency_key", "idempotency_key_expiration",
	"resource_owner_id", "authorised_debtor_account_id", "authorised_account_ids",
	"creation_date_time", "status_update_date_time",
}

func TestGetConsentByID(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		t.Parallel()
		s, mock := setupMockDB(t)

		rows := sqlmock.NewRows(consentRowColumns).AddRow(
			"PDC_1", string(domain.IntentDomesticPayment), "client-1", "v3.1.10", "Authorised", `{"Data":{}}`,
			`[{"ChargeBearer":"BorneByDebtor","Type":"UK.OBIE.CHAPSOut","Amount":{"Amount":"0.25","Currency":"GBP"}}]`,
			nil, "key-1", now.Add(time.Hour),
			"psu4test", "acc-123456", nil,
			now, now.Add(time.Minute),
		)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "consents" WHERE id = $1 LIMIT $2`)).
			WithArgs("PDC_1", 1).
			WillReturnRows(rows)

		c, err := s.Consents().GetConsentByID(ctx, "PDC_1")
		require.NoError(t, err)
		require.Equal(t, domain.IntentDomesticPayment, c.IntentType)
		require.Equal(t, domain.StatusAuthorised, c.Status)
		require.Equal(t, domain.MustParseVersion("v3.1.10"), c.RequestVersion)
		require.Len(t, c.Charges, 1)
		require.Equal(t, "0.25", c.Charges[0].Amount.Amount)
		require.Nil(t, c.ExchangeRateInformation)
		require.Nil(t, c.AuthorisedAccountIDs)
		require.Equal(t, "acc-123456", c.AuthorisedDebtorAccountID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		s, mock := setupMockDB(t)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "consents" WHERE id = $1 LIMIT $2`)).
			WithArgs("PDC_missing", 1).
			WillReturnRows(sqlmock.NewRows(consentRowColumns))

		_, err := s.Consents().GetConsentByID(ctx, "PDC_missing")
		require.ErrorIs(t, err, store.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetConsentByIdempotencyKey(t *testing.T) {
	t.Parallel()
	s, mock := setupMockDB(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(consentRowColumns).AddRow(
		"AAC_1", string(domain.IntentAccountAccess), "client-1", "v3.1.10", "AwaitingAuthorisation", `{"Data":{}}`,
		nil, nil, "key-1", now.Add(time.Hour),
		"", "", nil,
		now, now,
	)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT consents.* FROM "consents" JOIN idempotency_keys k ON k.consent_id = consents.id WHERE k.intent_type = $1 AND k.api_client_id = $2 AND k.idempotency_key = $3 AND k.expires_at > $4`)).
		WithArgs("ACCOUNT_ACCESS_CONSENT", "client-1", "key-1", now, 1).
		WillReturnRows(rows)

	c, err := s.Consents().GetConsentByIdempotencyKey(context.Background(), domain.IntentAccountAccess, "client-1", "key-1", now)
	require.NoError(t, err)
	require.Equal(t, "AAC_1", c.ID)
	require.Equal(t, domain.IntentAccountAccess, c.IntentType)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateConsent(t *testing.T) {
	t.Parallel()
	s, mock := setupMockDB(t)
	now := time.Now().UTC()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "consents"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.Consents().CreateConsent(context.Background(), domain.Consent{
		ID:                       "PDC_1",
		IntentType:               domain.IntentDomesticPayment,
		APIClientID:              "client-1",
		RequestVersion:           domain.MustParseVersion("v3.1"),
		Status:                   domain.StatusAwaitingAuthorisation,
		Request:                  []byte(`{"Data":{}}`),
		IdempotencyKey:           "key-1",
		IdempotencyKeyExpiration: now.Add(time.Hour),
		CreationDateTime:         now,
		StatusUpdateDateTime:     now,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateConsentStatus(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := domain.Consent{
		ID:                   "PDC_1",
		Status:               domain.StatusRejected,
		ResourceOwnerID:      "psu4test",
		StatusUpdateDateTime: time.Now().UTC(),
	}

	t.Run("applies when status matches", func(t *testing.T) {
		t.Parallel()
		s, mock := setupMockDB(t)

		mock.ExpectExec(regexp.QuoteMeta(`UPDATE "consents" SET`)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.Consents().UpdateConsentStatus(ctx, c, domain.StatusAwaitingAuthorisation))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("conflict when status moved on", func(t *testing.T) {
		t.Parallel()
		s, mock := setupMockDB(t)

		mock.ExpectExec(regexp.QuoteMeta(`UPDATE "consents" SET`)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := s.Consents().UpdateConsentStatus(ctx, c, domain.StatusAwaitingAuthorisation)
		require.ErrorIs(t, err, store.ErrConflict)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestClaimIdempotencyKey(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Now().UTC()
	claim := domain.IdempotencyClaim{
		IntentType:     domain.IntentDomesticPayment,
		APIClientID:    "client-1",
		IdempotencyKey: "key-1",
		ConsentID:      "PDC_1",
		ExpiresAt:      now.Add(time.Hour),
		CreatedAt:      now,
	}

	tests := []struct {
		name    string
		rows    int64
		wantErr error
	}{
		{name: "claimed", rows: 1},
		{name: "live claim present", rows: 0, wantErr: store.ErrAlreadyExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s, mock := setupMockDB(t)

			mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO idempotency_keys`)).
				WithArgs("PAYMENT_DOMESTIC_CONSENT", "client-1", "key-1", "PDC_1", claim.ExpiresAt, claim.CreatedAt, now).
				WillReturnResult(sqlmock.NewResult(0, tt.rows))

			err := s.IdempotencyKeys().ClaimIdempotencyKey(ctx, claim, now)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestWithTx(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("commits", func(t *testing.T) {
		t.Parallel()
		s, mock := setupMockDB(t)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "idempotency_keys"`)).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		err := s.WithTx(ctx, func(tx store.Tx) error {
			n, err := tx.IdempotencyKeys().DeleteExpiredIdempotencyKeys(ctx, time.Now())
			require.EqualValues(t, 2, n)
			return err
		})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on error", func(t *testing.T) {
		t.Parallel()
		s, mock := setupMockDB(t)
		boom := errors.New("boom")

		mock.ExpectBegin()
		mock.ExpectRollback()

		err := s.WithTx(ctx, func(tx store.Tx) error { return boom })
		require.ErrorIs(t, err, boom)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestListAccountsByUser(t *testing.T) {
	t.Parallel()
	s, mock := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"account_id", "user_id", "scheme_name", "identification", "name", "balance_amount", "balance_currency"}).
		AddRow("acc-123456", "psu4test", "UK.OBIE.SortCodeAccountNumber", "40400422390112", "Current", "1000.00", "GBP")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "accounts" WHERE user_id = $1 ORDER BY account_id`)).
		WithArgs("psu4test").
		WillReturnRows(rows)

	accounts, err := s.Accounts().ListAccountsByUser(context.Background(), "psu4test")
	require.NoError(t, err)
	require.Equal(t, []domain.AccountWithBalance{{
		AccountID:      "acc-123456",
		UserID:         "psu4test",
		SchemeName:     "UK.OBIE.SortCodeAccountNumber",
		Identification: "40400422390112",
		Name:           "Current",
		Balance:        domain.Amount{Amount: "1000.00", Currency: "GBP"},
	}}, accounts)
	require.NoError(t, mock.ExpectationsWereMet())
}
