package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/rcs/internal/rcs/domain"
	"github.com/aussiebroadwan/rcs/internal/rcs/service"
	"github.com/aussiebroadwan/rcs/pkg/httpx"
	"github.com/aussiebroadwan/rcs/pkg/rcssdk"
)

const (
	idempotencyKeyHeader        = "x-idempotency-key"
	idempotencyExpirationHeader = "x-idempotency-expiration"
)

// ConsentsHandler serves the consent endpoints the gateway calls on behalf
// of a TPP.
type ConsentsHandler struct {
	Registry *service.Registry
}

// handler resolves the family from the {resource} path segment.
func (h *ConsentsHandler) handler(r *http.Request) (service.ConsentHandler, error) {
	t, ok := domain.IntentTypeFromResource(r.PathValue("resource"))
	if !ok {
		return nil, service.ErrUnknownIntentType
	}
	return h.Registry.Handler(t)
}

// HandleCreate handles POST /open-banking/{version}/{resource}
//
//	@Summary		Create consent
//	@Description	Creates a consent for the API client. Replaying an idempotency key while it is live returns the consent it created.
//	@Tags			Consents
//	@Accept			json
//	@Produce		json
//	@Param			version						path		string						true	"API version, e.g. v3.1.10"
//	@Param			resource					path		string						true	"Consent resource, e.g. domestic-payment-consents"
//	@Param			x-api-client-id				header		string						true	"API client id"
//	@Param			x-idempotency-key			header		string						true	"Idempotency key"
//	@Param			x-idempotency-expiration	header		string						false	"Idempotency key expiry (RFC3339)"
//	@Param			request						body		rcssdk.CreateConsentRequest	true	"Consent request"
//	@Success		201							{object}	rcssdk.ConsentResponse		"Created"
//	@Success		200							{object}	rcssdk.ConsentResponse		"Idempotent replay"
//	@Failure		400							{object}	rcssdk.ErrorResponse
//	@Failure		401							{object}	rcssdk.ErrorResponse
//	@Failure		500							{object}	rcssdk.ErrorResponse
//	@Router			/open-banking/{version}/{resource} [post].
func (h *ConsentsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	handler, err := h.handler(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var body rcssdk.CreateConsentRequest
	if err := httpx.DecodeJSON(r, &body, false); err != nil {
		writeBadRequest(w, "body", "request body is not valid JSON")
		return
	}

	req := service.CreateRequest{
		APIClientID:             httpx.APIClientID(ctx),
		IdempotencyKey:          r.Header.Get(idempotencyKeyHeader),
		RequestVersion:          r.PathValue("version"),
		Request:                 body.RequestObj,
		Charges:                 fromCharges(body.Charges),
		ExchangeRateInformation: fromExchangeRate(body.ExchangeRateInformation),
	}
	if v := r.Header.Get(idempotencyExpirationHeader); v != "" {
		exp, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeBadRequest(w, idempotencyExpirationHeader, "must be an RFC3339 timestamp")
			return
		}
		req.IdempotencyKeyExpiration = exp
	}

	c, created, err := handler.CreateConsent(ctx, req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	httpx.WriteJSON(w, status, toConsentResponse(c))
}

// HandleGet handles GET /open-banking/{version}/{resource}/{consentId}
//
//	@Summary		Get consent
//	@Tags			Consents
//	@Produce		json
//	@Param			version			path		string	true	"API version"
//	@Param			resource		path		string	true	"Consent resource"
//	@Param			consentId		path		string	true	"Intent id"
//	@Param			x-api-client-id	header		string	true	"API client id"
//	@Success		200				{object}	rcssdk.ConsentResponse
//	@Failure		400				{object}	rcssdk.ErrorResponse
//	@Failure		403				{object}	rcssdk.ErrorResponse
//	@Failure		404				{object}	rcssdk.ErrorResponse
//	@Router			/open-banking/{version}/{resource}/{consentId} [get].
func (h *ConsentsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	handler, err := h.handler(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	version, ok := pathVersion(w, r)
	if !ok {
		return
	}

	c, err := handler.GetConsent(r.Context(), service.GetRequest{
		IntentID:    r.PathValue("consentId"),
		APIClientID: httpx.APIClientID(r.Context()),
		APIVersion:  version,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toConsentResponse(c))
}

// HandleConsume handles POST /open-banking/{version}/{resource}/{consentId}/consume
//
//	@Summary		Consume consent
//	@Description	Marks an authorised consent as used. Only an Authorised consent can be consumed, and only once.
//	@Tags			Consents
//	@Produce		json
//	@Param			version			path		string	true	"API version"
//	@Param			resource		path		string	true	"Consent resource"
//	@Param			consentId		path		string	true	"Intent id"
//	@Param			x-api-client-id	header		string	true	"API client id"
//	@Success		200				{object}	rcssdk.ConsentResponse
//	@Failure		403				{object}	rcssdk.ErrorResponse
//	@Failure		404				{object}	rcssdk.ErrorResponse
//	@Failure		409				{object}	rcssdk.ErrorResponse
//	@Router			/open-banking/{version}/{resource}/{consentId}/consume [post].
func (h *ConsentsHandler) HandleConsume(w http.ResponseWriter, r *http.Request) {
	handler, err := h.handler(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	version, ok := pathVersion(w, r)
	if !ok {
		return
	}

	c, err := handler.ConsumeConsent(r.Context(), service.ConsumeRequest{
		IntentID:    r.PathValue("consentId"),
		APIClientID: httpx.APIClientID(r.Context()),
		APIVersion:  version,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toConsentResponse(c))
}

func pathVersion(w http.ResponseWriter, r *http.Request) (domain.Version, bool) {
	v, err := domain.ParseVersion(r.PathValue("version"))
	if err != nil {
		writeBadRequest(w, "version", "must look like v3.1.10")
		return domain.Version{}, false
	}
	return v, true
}
