package service

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/rcs/internal/rcs/domain"
	"github.com/aussiebroadwan/rcs/internal/rcs/metrics"
	"github.com/aussiebroadwan/rcs/internal/rcs/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

// testClock is a settable clock shared by the services under test.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testEnv struct {
	Store     *sqlite.Store
	Clock     *testClock
	Directory *DirectoryService
	Metrics   *metrics.Metrics
	Registry  *Registry
	Services  map[domain.IntentType]*ConsentService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithDSN(t, ":memory:")
}

// newFileTestEnv backs the services with a WAL database file so that
// concurrent requests get their own connections.
func newFileTestEnv(t *testing.T) *testEnv {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rcs.db")
	return newTestEnvWithDSN(t, "file:"+path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)")
}

func newTestEnvWithDSN(t *testing.T, dsn string) *testEnv {
	t.Helper()
	ctx := context.Background()

	s, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())

	env := &testEnv{
		Store:     s,
		Clock:     &testClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)},
		Directory: &DirectoryService{Store: s},
		Metrics:   metrics.New(),
		Services:  make(map[domain.IntentType]*ConsentService),
	}

	require.NoError(t, env.Directory.Seed(ctx,
		[]domain.User{
			{ID: "psu4test", UserName: "psu4test"},
			{ID: "psu-other", UserName: "other"},
		},
		[]domain.APIClient{
			{ID: "client-1", Name: "Acme TPP", LogoURI: "https://acme.example/logo.png"},
			{ID: "client-2", Name: "Other TPP"},
		},
		[]domain.AccountWithBalance{
			{AccountID: "acc-123456", UserID: "psu4test", SchemeName: "UK.OBIE.SortCodeAccountNumber", Identification: "40400422390112", Name: "Current", Balance: domain.Amount{Amount: "1000.00", Currency: "GBP"}},
			{AccountID: "acc-654321", UserID: "psu4test", SchemeName: "UK.OBIE.IBAN", Identification: "GB29NWBK60161331926819", Name: "Savings", Balance: domain.Amount{Amount: "25.10", Currency: "GBP"}},
			{AccountID: "acc-999", UserID: "psu-other", SchemeName: "UK.OBIE.SortCodeAccountNumber", Identification: "11111122222222", Name: "Other", Balance: domain.Amount{Amount: "5.00", Currency: "GBP"}},
		},
	))

	var handlers []ConsentHandler
	for _, f := range Families() {
		svc := &ConsentService{
			Store:    s,
			Family:   f,
			Accounts: env.Directory,
			Metrics:  env.Metrics,
			Now:      env.Clock.Now,
		}
		env.Services[f.IntentType()] = svc
		handlers = append(handlers, svc)
	}
	env.Registry = NewRegistry(nil, handlers...)
	return env
}

func (e *testEnv) service(t domain.IntentType) *ConsentService { return e.Services[t] }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const domesticPaymentRequest = `{
	"Data": {
		"Initiation": {
			"InstructionIdentification": "ACME412",
			"EndToEndIdentification": "FRESCO.21302.GFX.20",
			"InstructedAmount": {"Amount": "165.88", "Currency": "GBP"},
			"CreditorAccount": {
				"SchemeName": "UK.OBIE.SortCodeAccountNumber",
				"Identification": "08080021325698",
				"Name": "ACME Inc"
			},
			"RemittanceInformation": {"Reference": "FRESCO-101"}
		}
	},
	"Risk": {}
}`

const domesticPaymentWithDebtorRequest = `{"Data":{"Initiation":{
	"InstructedAmount":{"Amount":"10.00","Currency":"GBP"},
	"DebtorAccount":{"SchemeName":"UK.OBIE.IBAN","Identification":"GB29NWBK60161331926819"},
	"CreditorAccount":{"SchemeName":"UK.OBIE.SortCodeAccountNumber","Identification":"08080021325698","Name":"ACME Inc"}
}},"Risk":{}}`

const internationalPaymentRequest = `{"Data":{"Initiation":{
	"InstructedAmount":{"Amount":"100.00","Currency":"EUR"},
	"CurrencyOfTransfer":"EUR",
	"CreditorAccount":{"SchemeName":"UK.OBIE.IBAN","Identification":"DE89370400440532013000","Name":"Beta GmbH"}
}},"Risk":{}}`

const accountAccessRequest = `{"Data":{"Permissions":["ReadAccountsDetail","ReadBalances"],"ExpirationDateTime":"2026-12-31T00:00:00Z"},"Risk":{}}`

func createReq(apiClientID, key, body string) CreateRequest {
	return CreateRequest{
		APIClientID:    apiClientID,
		IdempotencyKey: key,
		RequestVersion: "v3.1.10",
		Request:        json.RawMessage(body),
	}
}

func mustCreate(t *testing.T, svc *ConsentService, req CreateRequest) domain.Consent {
	t.Helper()
	c, created, err := svc.CreateConsent(context.Background(), req)
	require.NoError(t, err)
	require.True(t, created)
	return c
}

func mustGet(t *testing.T, svc *ConsentService, id, apiClientID string) domain.Consent {
	t.Helper()
	c, err := svc.GetConsent(context.Background(), GetRequest{IntentID: id, APIClientID: apiClientID})
	require.NoError(t, err)
	return c
}

// requireImmutableFields checks the fields no transition may change.
func requireImmutableFields(t *testing.T, before, after domain.Consent) {
	t.Helper()
	require.Equal(t, before.ID, after.ID)
	require.Equal(t, before.APIClientID, after.APIClientID)
	require.Equal(t, before.Request, after.Request)
	require.Equal(t, before.RequestVersion, after.RequestVersion)
	require.True(t, before.CreationDateTime.Equal(after.CreationDateTime))
	require.False(t, after.StatusUpdateDateTime.Before(before.StatusUpdateDateTime))
}
