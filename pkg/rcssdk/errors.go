package rcssdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error codes returned by the service.
const (
	CodeNotFound                     = "NOT_FOUND"
	CodeInvalidPermissions           = "INVALID_PERMISSIONS"
	CodeReauthenticationNotSupported = "CONSENT_REAUTHENTICATION_NOT_SUPPORTED"
	CodeInvalidDebtorAccount         = "INVALID_DEBTOR_ACCOUNT"
	CodeInvalidAccountSelection      = "INVALID_ACCOUNT_SELECTION"
	CodeInvalidConsentDecision       = "INVALID_CONSENT_DECISION"
	CodeUnknownIntentType            = "UNKNOWN_INTENT_TYPE"
	CodeValidation                   = "VALIDATION_ERROR"
	CodeIllegalStateTransition       = "ILLEGAL_STATE_TRANSITION"
	CodeRequestVersionInvalid        = "REQUEST_VERSION_INVALID"
	CodeMissingAPIClient             = "MISSING_API_CLIENT"
	CodeRateLimitExceeded            = "RATE_LIMIT_EXCEEDED"
	CodeServerError                  = "server_error"
)

// APIError is a non-success response from the service.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	ConsentID  string
	Field      string
}

func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "rcs: %d %s: %s", e.StatusCode, e.Code, e.Message)
	if e.Field != "" {
		fmt.Fprintf(&b, " (field %s)", e.Field)
	}
	if e.ConsentID != "" {
		fmt.Fprintf(&b, " [consent %s]", e.ConsentID)
	}
	return b.String()
}

// IsCode reports whether err is an APIError with the given code.
func IsCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

func parseErrorResponse(resp *http.Response, body []byte) error {
	var er ErrorResponse
	if err := json.Unmarshal(body, &er); err != nil || er.Code == "" {
		return &APIError{
			StatusCode: resp.StatusCode,
			Code:       CodeServerError,
			Message:    strings.TrimSpace(string(body)),
		}
	}
	return &APIError{
		StatusCode: resp.StatusCode,
		Code:       er.Code,
		Message:    er.Message,
		ConsentID:  er.ConsentID,
		Field:      er.Field,
	}
}
