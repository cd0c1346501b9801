package http

import (
	"net/http"

	"github.com/aussiebroadwan/rcs/internal/rcs/service"
	"github.com/aussiebroadwan/rcs/pkg/httpx"
	"github.com/aussiebroadwan/rcs/pkg/rcssdk"
)

type DecisionHandler struct {
	Decisions *service.DecisionService
}

// ServeHTTP handles POST /rcs/consents/decision
//
//	@Summary		Submit PSU decision
//	@Description	Authorises or rejects a consent and returns the decision signed with the service key.
//	@Tags			Decision
//	@Accept			json
//	@Produce		json
//	@Param			x-api-client-id	header		string					true	"API client id"
//	@Param			request			body		rcssdk.DecisionRequest	true	"Decision"
//	@Success		200				{object}	rcssdk.DecisionResponse
//	@Failure		400				{object}	rcssdk.ErrorResponse
//	@Failure		403				{object}	rcssdk.ErrorResponse
//	@Failure		404				{object}	rcssdk.ErrorResponse
//	@Failure		409				{object}	rcssdk.ErrorResponse
//	@Router			/rcs/consents/decision [post].
func (h *DecisionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req rcssdk.DecisionRequest
	if err := httpx.DecodeJSON(r, &req, true); err != nil {
		writeBadRequest(w, "body", "request body is not valid JSON")
		return
	}
	if req.IntentID == "" {
		writeBadRequest(w, "intentId", "is required")
		return
	}

	res, err := h.Decisions.SubmitDecision(r.Context(), service.DecisionRequest{
		IntentID:        req.IntentID,
		APIClientID:     httpx.APIClientID(r.Context()),
		ResourceOwnerID: req.ResourceOwnerID,
		Decision:        req.Decision,
		DebtorAccountID: req.DebtorAccountID,
		AccountIDs:      req.AccountIDs,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, rcssdk.DecisionResponse{
		ConsentID:  res.Consent.ID,
		Status:     string(res.Consent.Status),
		ConsentJWT: res.Token,
	})
}
