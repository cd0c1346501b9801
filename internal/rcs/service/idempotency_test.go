package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/rcs/internal/rcs/domain"
	"github.com/stretchr/testify/require"
)

func TestCreateConsent_Idempotent(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	svc := env.service(domain.IntentDomesticPayment)

	first := mustCreate(t, svc, createReq("client-1", "key-1", domesticPaymentRequest))
	require.Equal(t, domain.StatusAwaitingAuthorisation, first.Status)
	require.Equal(t, "client-1", first.APIClientID)
	require.Equal(t, domain.MustParseVersion("v3.1.10"), first.RequestVersion)
	require.True(t, first.CreationDateTime.Equal(first.StatusUpdateDateTime))
	require.Equal(t, env.Clock.Now().Add(24*time.Hour), first.IdempotencyKeyExpiration)

	t.Run("replay returns the same consent", func(t *testing.T) {
		env.Clock.Advance(time.Minute)

		replay, created, err := svc.CreateConsent(context.Background(), createReq("client-1", "key-1", domesticPaymentRequest))
		require.NoError(t, err)
		require.False(t, created)
		require.Equal(t, first, replay)
	})

	t.Run("replay ignores a different payload", func(t *testing.T) {
		replay, created, err := svc.CreateConsent(context.Background(), createReq("client-1", "key-1", domesticPaymentWithDebtorRequest))
		require.NoError(t, err)
		require.False(t, created)
		require.Equal(t, first.ID, replay.ID)
		require.JSONEq(t, domesticPaymentRequest, string(replay.Request))
	})

	t.Run("new key mints a new consent", func(t *testing.T) {
		other := mustCreate(t, svc, createReq("client-1", "key-2", domesticPaymentRequest))
		require.NotEqual(t, first.ID, other.ID)
	})
}

func TestCreateConsent_StoresCanonicalRequest(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	svc := env.service(domain.IntentDomesticPayment)

	c := mustCreate(t, svc, createReq("client-1", "key-1", domesticPaymentRequest))

	compact, err := json.Marshal(json.RawMessage(domesticPaymentRequest))
	require.NoError(t, err)
	require.Equal(t, string(compact), string(c.Request))
	require.Regexp(t, `^PDC_[0-9a-f-]{36}$`, c.ID)
}

func TestCreateConsent_ScopedByAPIClient(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	svc := env.service(domain.IntentDomesticPayment)

	a := mustCreate(t, svc, createReq("client-1", "shared-key", domesticPaymentRequest))
	b := mustCreate(t, svc, createReq("client-2", "shared-key", domesticPaymentRequest))

	require.NotEqual(t, a.ID, b.ID)
	require.Equal(t, "client-1", a.APIClientID)
	require.Equal(t, "client-2", b.APIClientID)
}

func TestCreateConsent_KeyScopedByFamily(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	payments := env.service(domain.IntentDomesticPayment)
	access := env.service(domain.IntentAccountAccess)

	payment := mustCreate(t, payments, createReq("client-1", "shared-key", domesticPaymentRequest))
	aac := mustCreate(t, access, createReq("client-1", "shared-key", accountAccessRequest))

	require.NotEqual(t, payment.ID, aac.ID)
	require.Equal(t, domain.IntentAccountAccess, aac.IntentType)

	// Each family replays its own consent, reachable through that family.
	replay, created, err := access.CreateConsent(context.Background(), createReq("client-1", "shared-key", accountAccessRequest))
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, aac.ID, replay.ID)
	require.Equal(t, aac, mustGet(t, access, replay.ID, "client-1"))

	replay, created, err = payments.CreateConsent(context.Background(), createReq("client-1", "shared-key", domesticPaymentRequest))
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, payment.ID, replay.ID)
}

func TestCreateConsent_ExpiredKeyMintsAgain(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	svc := env.service(domain.IntentDomesticPayment)

	req := createReq("client-1", "key-1", domesticPaymentRequest)
	req.IdempotencyKeyExpiration = env.Clock.Now().Add(time.Hour)
	first := mustCreate(t, svc, req)

	env.Clock.Advance(30 * time.Minute)
	replay, created, err := svc.CreateConsent(context.Background(), req)
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, first.ID, replay.ID)

	env.Clock.Advance(time.Hour)
	req.IdempotencyKeyExpiration = env.Clock.Now().Add(time.Hour)
	second := mustCreate(t, svc, req)
	require.NotEqual(t, first.ID, second.ID)

	// The first consent is still readable after its key expired.
	got := mustGet(t, svc, first.ID, "client-1")
	require.Equal(t, first, got)
}

func TestCreateConsent_ConcurrentRequestsCreateOne(t *testing.T) {
	t.Parallel()
	env := newFileTestEnv(t)
	svc := env.service(domain.IntentDomesticPayment)

	var (
		mu     sync.Mutex
		minted []string
	)
	svc.NewID = func() string {
		id := domain.IntentDomesticPayment.NewIntentID()
		mu.Lock()
		minted = append(minted, id)
		mu.Unlock()
		return id
	}

	const workers = 32
	results := make([]domain.Consent, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _, errs[i] = svc.CreateConsent(context.Background(), createReq("client-1", "race-key", domesticPaymentRequest))
		}()
	}
	wg.Wait()

	for i := range workers {
		require.NoError(t, errs[i])
		require.Equal(t, results[0].ID, results[i].ID)
	}

	stored := 0
	for _, id := range minted {
		if _, err := env.Store.Consents().GetConsentByID(context.Background(), id); err == nil {
			stored++
		}
	}
	require.Equal(t, 1, stored)
}

func TestCreateConsent_Validation(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	tests := []struct {
		name      string
		intent    domain.IntentType
		mutate    func(*CreateRequest)
		wantField string
	}{
		{
			name:      "missing api client",
			intent:    domain.IntentDomesticPayment,
			mutate:    func(r *CreateRequest) { r.APIClientID = "" },
			wantField: "apiClientId",
		},
		{
			name:      "missing idempotency key",
			intent:    domain.IntentDomesticPayment,
			mutate:    func(r *CreateRequest) { r.IdempotencyKey = "" },
			wantField: "idempotencyKey",
		},
		{
			name:      "bad version",
			intent:    domain.IntentDomesticPayment,
			mutate:    func(r *CreateRequest) { r.RequestVersion = "latest" },
			wantField: "requestVersion",
		},
		{
			name:      "missing request",
			intent:    domain.IntentDomesticPayment,
			mutate:    func(r *CreateRequest) { r.Request = nil },
			wantField: "requestObj",
		},
		{
			name:      "malformed json",
			intent:    domain.IntentDomesticPayment,
			mutate:    func(r *CreateRequest) { r.Request = json.RawMessage(`{"Data":`) },
			wantField: "requestObj",
		},
		{
			name:   "missing instructed amount",
			intent: domain.IntentDomesticPayment,
			mutate: func(r *CreateRequest) {
				r.Request = json.RawMessage(`{"Data":{"Initiation":{}},"Risk":{}}`)
			},
			wantField: "Data.Initiation.InstructedAmount",
		},
		{
			name:   "international without currency of transfer",
			intent: domain.IntentInternationalPayment,
			mutate: func(r *CreateRequest) {
				r.Request = json.RawMessage(`{"Data":{"Initiation":{"InstructedAmount":{"Amount":"1.00","Currency":"EUR"}}},"Risk":{}}`)
			},
			wantField: "Data.Initiation.CurrencyOfTransfer",
		},
		{
			name:   "scheduled without execution date",
			intent: domain.IntentDomesticScheduledPayment,
			mutate: func(r *CreateRequest) {
				r.Request = json.RawMessage(`{"Data":{"Initiation":{"InstructedAmount":{"Amount":"1.00","Currency":"GBP"}}},"Risk":{}}`)
			},
			wantField: "Data.Initiation.RequestedExecutionDateTime",
		},
		{
			name:   "vrp without maximum amount",
			intent: domain.IntentDomesticVRP,
			mutate: func(r *CreateRequest) {
				r.Request = json.RawMessage(`{"Data":{"ControlParameters":{},"Initiation":{}},"Risk":{}}`)
			},
			wantField: "Data.ControlParameters.MaximumIndividualAmount",
		},
		{
			name:   "account access without permissions",
			intent: domain.IntentAccountAccess,
			mutate: func(r *CreateRequest) {
				r.Request = json.RawMessage(`{"Data":{"Permissions":[]},"Risk":{}}`)
			},
			wantField: "Data.Permissions",
		},
		{
			name:   "charges in mixed currencies",
			intent: domain.IntentDomesticPayment,
			mutate: func(r *CreateRequest) {
				r.Charges = []domain.Charge{
					{ChargeBearer: "BorneByDebtor", Type: "UK.OBIE.CHAPSOut", Amount: domain.Amount{Amount: "1.00", Currency: "GBP"}},
					{ChargeBearer: "BorneByDebtor", Type: "UK.OBIE.CHAPSOut", Amount: domain.Amount{Amount: "1.00", Currency: "EUR"}},
				}
			},
			wantField: "charges",
		},
		{
			name:   "charge amount as a fraction",
			intent: domain.IntentDomesticPayment,
			mutate: func(r *CreateRequest) {
				r.Charges = []domain.Charge{
					{ChargeBearer: "BorneByDebtor", Type: "UK.OBIE.CHAPSOut", Amount: domain.Amount{Amount: "1/3", Currency: "GBP"}},
				}
			},
			wantField: "charges",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := createReq("client-1", "key-"+tt.name, domesticPaymentRequest)
			tt.mutate(&req)

			_, created, err := env.service(tt.intent).CreateConsent(context.Background(), req)
			require.Error(t, err)
			require.False(t, created)
			require.ErrorIs(t, err, ErrValidation)

			var ce *ConsentError
			require.ErrorAs(t, err, &ce)
			require.Equal(t, tt.wantField, ce.Field)
		})
	}
}

func TestCreateConsent_ExchangeRateOnlyForInternational(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	fx := &domain.ExchangeRateInformation{UnitCurrency: "GBP", ExchangeRate: "1.17", RateType: "Actual"}

	req := createReq("client-1", "key-1", domesticPaymentRequest)
	req.ExchangeRateInformation = fx
	domestic := mustCreate(t, env.service(domain.IntentDomesticPayment), req)
	require.Nil(t, domestic.ExchangeRateInformation)

	req = createReq("client-1", "key-2", internationalPaymentRequest)
	req.ExchangeRateInformation = fx
	international := mustCreate(t, env.service(domain.IntentInternationalPayment), req)
	require.Equal(t, fx, international.ExchangeRateInformation)
}
