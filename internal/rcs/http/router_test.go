package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aussiebroadwan/rcs/internal/rcs/domain"
	"github.com/aussiebroadwan/rcs/internal/rcs/metrics"
	"github.com/aussiebroadwan/rcs/internal/rcs/service"
	"github.com/aussiebroadwan/rcs/internal/rcs/store/drivers/sqlite"
	"github.com/aussiebroadwan/rcs/pkg/jwtx"
	"github.com/aussiebroadwan/rcs/pkg/rcssdk"
	"github.com/stretchr/testify/require"
)

const domesticPayment = `{"Data":{"Initiation":{
	"InstructionIdentification":"ACME412",
	"EndToEndIdentification":"FRESCO.21302.GFX.20",
	"InstructedAmount":{"Amount":"165.88","Currency":"GBP"},
	"CreditorAccount":{"SchemeName":"UK.OBIE.SortCodeAccountNumber","Identification":"08080021325698","Name":"ACME Inc"}
}},"Risk":{}}`

type testServer struct {
	*httptest.Server
	keys    *jwtx.KeyManager
	metrics *metrics.Metrics
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	dir := &service.DirectoryService{Store: st}
	require.NoError(t, dir.Seed(ctx,
		[]domain.User{{ID: "psu4test", UserName: "psu4test"}},
		[]domain.APIClient{{ID: "client-1", Name: "Acme TPP"}, {ID: "client-2", Name: "Other TPP"}},
		[]domain.AccountWithBalance{{
			AccountID: "acc-123456", UserID: "psu4test",
			SchemeName: "UK.OBIE.SortCodeAccountNumber", Identification: "40400422390112",
			Balance: domain.Amount{Amount: "1000.00", Currency: "GBP"},
		}},
	))

	keys, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{
		Algorithm: jwtx.AlgorithmEdDSA,
		Issuer:    "https://rcs.test",
	})
	require.NoError(t, err)

	m := metrics.New()
	var handlers []service.ConsentHandler
	for _, f := range service.Families() {
		handlers = append(handlers, &service.ConsentService{Store: st, Family: f, Accounts: dir, Metrics: m})
	}
	registry := service.NewRegistry(nil, handlers...)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := NewRouter(keys, "test", st, m, logger)
	r.Registry = registry
	r.Details = &service.DetailsService{Registry: registry, Users: dir, APIClients: dir, ServiceProviderName: "Test Bank"}
	r.Decisions = &service.DecisionService{Registry: registry, Keys: keys, Issuer: "https://rcs.test"}
	r.ApplyRoutes()

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, keys: keys, metrics: m}
}

func (s *testServer) do(t *testing.T, method, path, apiClientID string, body any, headers map[string]string) *http.Response {
	t.Helper()

	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, s.URL+path, r)
	require.NoError(t, err)
	if apiClientID != "" {
		req.Header.Set("x-api-client-id", apiClientID)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := s.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func createBody() rcssdk.CreateConsentRequest {
	return rcssdk.CreateConsentRequest{RequestObj: json.RawMessage(domesticPayment)}
}

func TestConsentEndpoints(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	const base = "/open-banking/v3.1.10/domestic-payment-consents"
	idem := map[string]string{"x-idempotency-key": "idem-1"}

	resp := srv.do(t, http.MethodPost, base, "client-1", createBody(), idem)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotEmpty(t, resp.Header.Get("x-fapi-interaction-id"))
	created := decode[rcssdk.ConsentResponse](t, resp)
	require.True(t, strings.HasPrefix(created.ConsentID, "PDC_"))
	require.Equal(t, "AwaitingAuthorisation", created.Status)
	require.Equal(t, "v3.1.10", created.RequestVersion)

	resp = srv.do(t, http.MethodPost, base, "client-1", createBody(), idem)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, created.ConsentID, decode[rcssdk.ConsentResponse](t, resp).ConsentID)

	t.Run("get", func(t *testing.T) {
		resp := srv.do(t, http.MethodGet, base+"/"+created.ConsentID, "client-1", nil, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.JSONEq(t, string(created.RequestObj), string(decode[rcssdk.ConsentResponse](t, resp).RequestObj))
	})

	t.Run("other client is refused", func(t *testing.T) {
		resp := srv.do(t, http.MethodGet, base+"/"+created.ConsentID, "client-2", nil, nil)
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
		e := decode[rcssdk.ErrorResponse](t, resp)
		require.Equal(t, "INVALID_PERMISSIONS", e.Code)
		require.Equal(t, created.ConsentID, e.ConsentID)
	})

	t.Run("older api version is refused", func(t *testing.T) {
		resp := srv.do(t, http.MethodGet, "/open-banking/v3.1.2/domestic-payment-consents/"+created.ConsentID, "client-1", nil, nil)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.Equal(t, "REQUEST_VERSION_INVALID", decode[rcssdk.ErrorResponse](t, resp).Code)
	})

	t.Run("consume before authorisation", func(t *testing.T) {
		resp := srv.do(t, http.MethodPost, base+"/"+created.ConsentID+"/consume", "client-1", nil, nil)
		require.Equal(t, http.StatusConflict, resp.StatusCode)
		require.Equal(t, "ILLEGAL_STATE_TRANSITION", decode[rcssdk.ErrorResponse](t, resp).Code)
	})

	t.Run("unknown consent", func(t *testing.T) {
		resp := srv.do(t, http.MethodGet, base+"/PDC_missing", "client-1", nil, nil)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestCreateConsent_RequestErrors(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	idem := map[string]string{"x-idempotency-key": "idem-1"}

	tests := []struct {
		name    string
		path    string
		client  string
		body    any
		headers map[string]string
		status  int
		code    string
		field   string
	}{
		{name: "missing api client", path: "/open-banking/v3.1.10/domestic-payment-consents", body: createBody(), headers: idem, status: http.StatusUnauthorized, code: rcssdk.CodeMissingAPIClient},
		{name: "unknown resource", path: "/open-banking/v3.1.10/unknown-consents", client: "client-1", body: createBody(), headers: idem, status: http.StatusBadRequest, code: "UNKNOWN_INTENT_TYPE"},
		{name: "funds confirmation has no handler", path: "/open-banking/v3.1.10/funds-confirmation-consents", client: "client-1", body: createBody(), headers: idem, status: http.StatusBadRequest, code: "UNKNOWN_INTENT_TYPE"},
		{name: "missing idempotency key", path: "/open-banking/v3.1.10/domestic-payment-consents", client: "client-1", body: createBody(), status: http.StatusBadRequest, code: "VALIDATION_ERROR", field: "idempotencyKey"},
		{name: "bad version", path: "/open-banking/latest/domestic-payment-consents", client: "client-1", body: createBody(), headers: idem, status: http.StatusBadRequest, code: "VALIDATION_ERROR", field: "requestVersion"},
		{name: "malformed body", path: "/open-banking/v3.1.10/domestic-payment-consents", client: "client-1", body: "{", headers: idem, status: http.StatusBadRequest, code: "VALIDATION_ERROR", field: "body"},
		{
			name: "bad expiration", path: "/open-banking/v3.1.10/domestic-payment-consents", client: "client-1", body: createBody(),
			headers: map[string]string{"x-idempotency-key": "idem-2", "x-idempotency-expiration": "tomorrow"},
			status:  http.StatusBadRequest, code: "VALIDATION_ERROR", field: "x-idempotency-expiration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := srv.do(t, http.MethodPost, tt.path, tt.client, tt.body, tt.headers)
			require.Equal(t, tt.status, resp.StatusCode)

			e := decode[rcssdk.ErrorResponse](t, resp)
			require.Equal(t, tt.code, e.Code)
			require.Equal(t, tt.field, e.Field)
		})
	}
}

func TestDecisionFlow(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	const base = "/open-banking/v3.1.10/domestic-payment-consents"

	resp := srv.do(t, http.MethodPost, base, "client-1", createBody(), map[string]string{"x-idempotency-key": "idem-1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	consentID := decode[rcssdk.ConsentResponse](t, resp).ConsentID

	resp = srv.do(t, http.MethodPost, "/rcs/consents/details", "client-1",
		rcssdk.DetailsRequest{IntentID: consentID, UserID: "psu4test"}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	details := decode[rcssdk.ConsentDetailsResponse](t, resp)
	require.Equal(t, "Acme TPP", details.ClientName)
	require.Equal(t, "Test Bank", details.ServiceProviderName)
	require.Equal(t, &rcssdk.Amount{Amount: "165.88", Currency: "GBP"}, details.InstructedAmount)
	require.Len(t, details.Accounts, 1)

	resp = srv.do(t, http.MethodPost, "/rcs/consents/decision", "client-1", rcssdk.DecisionRequest{
		IntentID:        consentID,
		ResourceOwnerID: "psu4test",
		Decision:        rcssdk.DecisionAuthorised,
		DebtorAccountID: details.Accounts[0].AccountID,
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decision := decode[rcssdk.DecisionResponse](t, resp)
	require.Equal(t, "Authorised", decision.Status)

	var claims jwtx.DecisionClaims
	require.NoError(t, srv.keys.Verifier().Verify(decision.ConsentJWT, "client-1", &claims))
	require.Equal(t, consentID, claims.ConsentID)

	resp = srv.do(t, http.MethodPost, "/rcs/consents/details", "client-1",
		rcssdk.DetailsRequest{IntentID: consentID, UserID: "psu4test"}, nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	require.Equal(t, "CONSENT_REAUTHENTICATION_NOT_SUPPORTED", decode[rcssdk.ErrorResponse](t, resp).Code)

	resp = srv.do(t, http.MethodPost, base+"/"+consentID+"/consume", "client-1", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Consumed", decode[rcssdk.ConsentResponse](t, resp).Status)

	resp = srv.do(t, http.MethodPost, base+"/"+consentID+"/consume", "client-1", nil, nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestDecisionRequestErrors(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	resp := srv.do(t, http.MethodPost, "/rcs/consents/decision", "client-1", `{"intentId":"PDC_1","unexpected":true}`, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = srv.do(t, http.MethodPost, "/rcs/consents/decision", "client-1",
		rcssdk.DecisionRequest{IntentID: "XYZ_1", Decision: "Authorised"}, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "UNKNOWN_INTENT_TYPE", decode[rcssdk.ErrorResponse](t, resp).Code)

	resp = srv.do(t, http.MethodPost, "/rcs/consents/details", "client-1", rcssdk.DetailsRequest{IntentID: "PDC_1"}, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "userId", decode[rcssdk.ErrorResponse](t, resp).Field)
}

func TestSystemEndpoints(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	resp := srv.do(t, http.MethodGet, "/livez", "", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "test", decode[rcssdk.HealthResponse](t, resp).Version)

	resp = srv.do(t, http.MethodGet, "/readyz", "", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	health := decode[rcssdk.HealthResponse](t, resp)
	require.Equal(t, "ok", health.Checks.Database)
	require.Equal(t, "ok", health.Checks.Signer)

	resp = srv.do(t, http.MethodGet, "/.well-known/jwks.json", "", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "public, max-age=300", resp.Header.Get("Cache-Control"))
	jwks := decode[rcssdk.JWKSResponse](t, resp)
	require.Len(t, jwks.Keys, srv.keys.NumSigners())

	resp = srv.do(t, http.MethodGet, "/metrics", "", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "rcs_http_request_duration_seconds")
}

func TestErrorStatusCoversEveryKind(t *testing.T) {
	t.Parallel()

	for _, kind := range []service.ErrorKind{
		service.KindNotFound,
		service.KindInvalidPermissions,
		service.KindReauthenticationNotSupported,
		service.KindInvalidDebtorAccount,
		service.KindInvalidAccountSelection,
		service.KindInvalidConsentDecision,
		service.KindUnknownIntentType,
		service.KindValidation,
		service.KindIllegalStateTransition,
		service.KindRequestVersionInvalid,
	} {
		_, ok := kindStatus[kind]
		require.True(t, ok, kind)
	}

	rec := httptest.NewRecorder()
	writeError(rec, httptest.NewRequest(http.MethodGet, "/", nil), io.ErrUnexpectedEOF)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotContains(t, rec.Body.String(), "unexpected EOF")
}
