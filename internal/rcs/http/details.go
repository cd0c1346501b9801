package http

import (
	"net/http"

	"github.com/aussiebroadwan/rcs/internal/rcs/service"
	"github.com/aussiebroadwan/rcs/pkg/httpx"
	"github.com/aussiebroadwan/rcs/pkg/rcssdk"
)

type DetailsHandler struct {
	Details *service.DetailsService
}

// ServeHTTP handles POST /rcs/consents/details
//
//	@Summary		Consent details
//	@Description	Returns what the PSU is asked to approve. Only consents still awaiting authorisation have details.
//	@Tags			Decision
//	@Accept			json
//	@Produce		json
//	@Param			x-api-client-id	header		string							true	"API client id"
//	@Param			request			body		rcssdk.DetailsRequest			true	"Intent and PSU"
//	@Success		200				{object}	rcssdk.ConsentDetailsResponse
//	@Failure		400				{object}	rcssdk.ErrorResponse
//	@Failure		403				{object}	rcssdk.ErrorResponse
//	@Failure		404				{object}	rcssdk.ErrorResponse
//	@Failure		409				{object}	rcssdk.ErrorResponse
//	@Router			/rcs/consents/details [post].
func (h *DetailsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req rcssdk.DetailsRequest
	if err := httpx.DecodeJSON(r, &req, true); err != nil {
		writeBadRequest(w, "body", "request body is not valid JSON")
		return
	}
	if req.IntentID == "" {
		writeBadRequest(w, "intentId", "is required")
		return
	}
	if req.UserID == "" {
		writeBadRequest(w, "userId", "is required")
		return
	}

	d, err := h.Details.GetConsentDetails(r.Context(), service.DetailsRequest{
		IntentID:    req.IntentID,
		APIClientID: httpx.APIClientID(r.Context()),
		UserID:      req.UserID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toDetailsResponse(d))
}
