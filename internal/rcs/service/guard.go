package service

import "github.com/aussiebroadwan/rcs/internal/rcs/domain"

// authorize enforces that only the API client that created a consent can read
// or act on it. It runs before any status precondition so ownership failures
// always win.
func authorize(c domain.Consent, apiClientID string) error {
	if apiClientID == "" || c.APIClientID != apiClientID {
		return ErrInvalidPermissions.with(c.ID, apiClientID)
	}
	return nil
}

// checkRequestVersion rejects access to a consent created under a newer API
// version than the caller's. A zero caller version skips the check.
func checkRequestVersion(c domain.Consent, apiClientID string, callerVersion domain.Version) error {
	if callerVersion.IsZero() {
		return nil
	}
	if c.RequestVersion.IsAfter(callerVersion) {
		return ErrRequestVersionInvalid.with(c.ID, apiClientID)
	}
	return nil
}
