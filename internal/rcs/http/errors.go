package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/rcs/internal/rcs/service"
	"github.com/aussiebroadwan/rcs/pkg/httpx"
	"github.com/aussiebroadwan/rcs/pkg/rcssdk"
	"github.com/aussiebroadwan/rcs/pkg/slogx"
)

var kindStatus = map[service.ErrorKind]int{
	service.KindNotFound:                     http.StatusNotFound,
	service.KindInvalidPermissions:           http.StatusForbidden,
	service.KindReauthenticationNotSupported: http.StatusConflict,
	service.KindInvalidDebtorAccount:         http.StatusBadRequest,
	service.KindInvalidAccountSelection:      http.StatusBadRequest,
	service.KindInvalidConsentDecision:       http.StatusBadRequest,
	service.KindUnknownIntentType:            http.StatusBadRequest,
	service.KindValidation:                   http.StatusBadRequest,
	service.KindIllegalStateTransition:       http.StatusConflict,
	service.KindRequestVersionInvalid:        http.StatusBadRequest,
}

// writeError maps consent failures to their status and code. Anything else is
// logged and reported as a bare server error.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ce *service.ConsentError
	if errors.As(err, &ce) {
		status, ok := kindStatus[ce.Kind]
		if !ok {
			status = http.StatusBadRequest
		}
		slogx.FromContext(r.Context()).Info("consent request refused",
			"kind", ce.Kind,
			"consent_id", ce.ConsentID,
			"error", err)
		httpx.WriteJSON(w, status, rcssdk.ErrorResponse{
			Code:      string(ce.Kind),
			Message:   ce.Message,
			ConsentID: ce.ConsentID,
			Field:     ce.Field,
		})
		return
	}

	slogx.FromContext(r.Context()).Error("consent request failed", "error", err)
	httpx.WriteJSON(w, http.StatusInternalServerError, rcssdk.ErrorResponse{
		Code:    rcssdk.CodeServerError,
		Message: "internal error",
	})
}

func writeBadRequest(w http.ResponseWriter, field, message string) {
	httpx.WriteJSON(w, http.StatusBadRequest, rcssdk.ErrorResponse{
		Code:    string(service.KindValidation),
		Message: message,
		Field:   field,
	})
}

func rejectMissingAPIClient(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusUnauthorized, rcssdk.ErrorResponse{
		Code:    rcssdk.CodeMissingAPIClient,
		Message: "missing " + httpx.APIClientHeader + " header",
	})
}

func writeServiceUnavailable(w http.ResponseWriter, message string) {
	httpx.WriteJSON(w, http.StatusServiceUnavailable, rcssdk.ErrorResponse{
		Code:    rcssdk.CodeServerError,
		Message: message,
	})
}
