package service

import (
	"errors"
	"fmt"
)

// ErrorKind is the stable code a consent failure is reported under.
type ErrorKind string

const (
	KindNotFound                     ErrorKind = "NOT_FOUND"
	KindInvalidPermissions           ErrorKind = "INVALID_PERMISSIONS"
	KindReauthenticationNotSupported ErrorKind = "CONSENT_REAUTHENTICATION_NOT_SUPPORTED"
	KindInvalidDebtorAccount         ErrorKind = "INVALID_DEBTOR_ACCOUNT"
	KindInvalidAccountSelection      ErrorKind = "INVALID_ACCOUNT_SELECTION"
	KindInvalidConsentDecision       ErrorKind = "INVALID_CONSENT_DECISION"
	KindUnknownIntentType            ErrorKind = "UNKNOWN_INTENT_TYPE"
	KindValidation                   ErrorKind = "VALIDATION_ERROR"
	KindIllegalStateTransition       ErrorKind = "ILLEGAL_STATE_TRANSITION"
	KindRequestVersionInvalid        ErrorKind = "REQUEST_VERSION_INVALID"
)

// ConsentError is the typed failure returned by every consent operation.
// It matches the sentinel of its kind under errors.Is, so callers can write
// errors.Is(err, service.ErrNotFound) regardless of the attached context.
type ConsentError struct {
	Kind        ErrorKind
	Message     string
	ConsentID   string
	APIClientID string

	// Field is the request path a validation error refers to.
	Field string

	Err error
}

func (e *ConsentError) Error() string {
	msg := string(e.Kind) + ": " + e.Message
	if e.Field != "" {
		msg += " (field " + e.Field + ")"
	}
	if e.ConsentID != "" {
		msg += " [consent " + e.ConsentID + "]"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConsentError) Unwrap() error { return e.Err }

func (e *ConsentError) Is(target error) bool {
	t, ok := target.(*ConsentError)
	return ok && t.Kind == e.Kind
}

var (
	ErrNotFound = &ConsentError{Kind: KindNotFound,
		Message: "Consent not found"}
	ErrInvalidPermissions = &ConsentError{Kind: KindInvalidPermissions,
		Message: "Consent is not owned by the requesting API client"}
	ErrReauthenticationNotSupported = &ConsentError{Kind: KindReauthenticationNotSupported,
		Message: "Consent has already been decided and cannot be authorised again"}
	ErrInvalidDebtorAccount = &ConsentError{Kind: KindInvalidDebtorAccount,
		Message: "DebtorAccount not found for user"}
	ErrInvalidAccountSelection = &ConsentError{Kind: KindInvalidAccountSelection,
		Message: "Selected accounts are not accessible to the user"}
	ErrInvalidConsentDecision = &ConsentError{Kind: KindInvalidConsentDecision,
		Message: "Consent decision is missing required data"}
	ErrUnknownIntentType = &ConsentError{Kind: KindUnknownIntentType,
		Message: "Intent type is not supported"}
	ErrValidation = &ConsentError{Kind: KindValidation,
		Message: "Consent request is invalid"}
	ErrIllegalStateTransition = &ConsentError{Kind: KindIllegalStateTransition,
		Message: "Consent status does not allow this transition"}
	ErrRequestVersionInvalid = &ConsentError{Kind: KindRequestVersionInvalid,
		Message: "Consent was created under a newer API version"}
)

// with copies a sentinel and attaches the consent context.
func (e *ConsentError) with(consentID, apiClientID string) *ConsentError {
	out := *e
	out.ConsentID = consentID
	out.APIClientID = apiClientID
	return &out
}

func (e *ConsentError) wrap(err error) *ConsentError {
	out := *e
	out.Err = err
	return &out
}

func validationError(field, format string, args ...any) *ConsentError {
	return &ConsentError{
		Kind:    KindValidation,
		Message: fmt.Sprintf(format, args...),
		Field:   field,
	}
}

// KindOf reports the kind of a consent failure. Infrastructure errors have
// no kind.
func KindOf(err error) (ErrorKind, bool) {
	var ce *ConsentError
	if errors.As(err, &ce) {
		return ce.Kind, true
	}
	return "", false
}
