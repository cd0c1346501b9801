package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/rcs/internal/rcs/domain"
	"github.com/aussiebroadwan/rcs/internal/rcs/metrics"
	"github.com/aussiebroadwan/rcs/internal/rcs/store"
	"github.com/aussiebroadwan/rcs/pkg/slogx"
)

// ConsentService is the consent state machine for one family. Families differ
// only in validation and in how the PSU's selection is checked; the lifecycle
// and its guards are identical.
type ConsentService struct {
	Store    store.Store
	Family   Family
	Accounts AccountLookup
	Metrics  *metrics.Metrics

	// DefaultIdempotencyTTL applies when a create request carries no expiration.
	DefaultIdempotencyTTL time.Duration

	// Now and NewID are overridable in tests.
	Now   func() time.Time
	NewID func() string
}

type GetRequest struct {
	IntentID    string
	APIClientID string

	// APIVersion is the version of the endpoint serving the call. Zero skips
	// the cross-version check.
	APIVersion domain.Version
}

type AuthoriseRequest struct {
	IntentID        string
	APIClientID     string
	ResourceOwnerID string
	DebtorAccountID string
	AccountIDs      []string
}

type RejectRequest struct {
	IntentID        string
	APIClientID     string
	ResourceOwnerID string
}

type ConsumeRequest struct {
	IntentID    string
	APIClientID string
	APIVersion  domain.Version
}

func (s *ConsentService) IntentType() domain.IntentType { return s.Family.IntentType() }

func (s *ConsentService) now() time.Time {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return now().UTC().Truncate(time.Microsecond)
}

func (s *ConsentService) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return s.Family.IntentType().NewIntentID()
}

// CanTransitionToAuthorisedState reports whether the consent still awaits a
// decision. Checked before authorising and before composing the details view.
func CanTransitionToAuthorisedState(c domain.Consent) bool {
	return c.Status == domain.StatusAwaitingAuthorisation
}

// load fetches a consent of this family and applies the ownership guard.
func (s *ConsentService) load(ctx context.Context, intentID, apiClientID string) (domain.Consent, error) {
	c, err := s.Store.Consents().GetConsentByID(ctx, intentID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Consent{}, ErrNotFound.with(intentID, apiClientID)
	}
	if err != nil {
		return domain.Consent{}, fmt.Errorf("load consent %s: %w", intentID, err)
	}
	if c.IntentType != s.Family.IntentType() {
		return domain.Consent{}, ErrNotFound.with(intentID, apiClientID)
	}
	if err := authorize(c, apiClientID); err != nil {
		return domain.Consent{}, err
	}
	return c, nil
}

func (s *ConsentService) GetConsent(ctx context.Context, req GetRequest) (domain.Consent, error) {
	c, err := s.load(ctx, req.IntentID, req.APIClientID)
	if err != nil {
		return domain.Consent{}, s.fail(err)
	}
	if err := checkRequestVersion(c, req.APIClientID, req.APIVersion); err != nil {
		return domain.Consent{}, s.fail(err)
	}
	return c, nil
}

func (s *ConsentService) AuthoriseConsent(ctx context.Context, req AuthoriseRequest) (domain.Consent, error) {
	c, err := s.load(ctx, req.IntentID, req.APIClientID)
	if err != nil {
		return domain.Consent{}, s.fail(err)
	}
	if !CanTransitionToAuthorisedState(c) {
		return domain.Consent{}, s.fail(ErrReauthenticationNotSupported.with(c.ID, req.APIClientID))
	}
	if req.ResourceOwnerID == "" {
		return domain.Consent{}, s.fail(ErrInvalidConsentDecision.with(c.ID, req.APIClientID))
	}

	sel := Selection{DebtorAccountID: req.DebtorAccountID, AccountIDs: req.AccountIDs}
	if err := s.Family.ValidateDecision(c, sel); err != nil {
		return domain.Consent{}, s.fail(err)
	}
	sel, err = s.Family.ResolveSelection(ctx, s.Accounts, c, req.ResourceOwnerID, sel)
	if err != nil {
		return domain.Consent{}, s.fail(err)
	}

	next := c
	next.Status = domain.StatusAuthorised
	next.ResourceOwnerID = req.ResourceOwnerID
	next.AuthorisedDebtorAccountID = sel.DebtorAccountID
	next.AuthorisedAccountIDs = nilIfEmpty(sel.AccountIDs)

	return s.transition(ctx, c, next, ErrReauthenticationNotSupported)
}

func (s *ConsentService) RejectConsent(ctx context.Context, req RejectRequest) (domain.Consent, error) {
	c, err := s.load(ctx, req.IntentID, req.APIClientID)
	if err != nil {
		return domain.Consent{}, s.fail(err)
	}
	if !CanTransitionToAuthorisedState(c) {
		return domain.Consent{}, s.fail(ErrReauthenticationNotSupported.with(c.ID, req.APIClientID))
	}
	if req.ResourceOwnerID == "" {
		return domain.Consent{}, s.fail(ErrInvalidConsentDecision.with(c.ID, req.APIClientID))
	}

	next := c
	next.Status = domain.StatusRejected
	next.ResourceOwnerID = req.ResourceOwnerID

	return s.transition(ctx, c, next, ErrReauthenticationNotSupported)
}

func (s *ConsentService) ConsumeConsent(ctx context.Context, req ConsumeRequest) (domain.Consent, error) {
	c, err := s.load(ctx, req.IntentID, req.APIClientID)
	if err != nil {
		return domain.Consent{}, s.fail(err)
	}
	if err := checkRequestVersion(c, req.APIClientID, req.APIVersion); err != nil {
		return domain.Consent{}, s.fail(err)
	}
	if !domain.CanTransition(c.Status, domain.StatusConsumed) {
		return domain.Consent{}, s.fail(ErrIllegalStateTransition.with(c.ID, req.APIClientID))
	}

	next := c
	next.Status = domain.StatusConsumed

	return s.transition(ctx, c, next, ErrIllegalStateTransition)
}

// DescribeConsent fills the family specific fields of the details view.
func (s *ConsentService) DescribeConsent(ctx context.Context, c domain.Consent, userID string, d *domain.ConsentDetails) error {
	return s.Family.Describe(ctx, s.Accounts, c, userID, d)
}

// transition writes next with a conditional update against the status of
// prev. Losing a race to a concurrent decision is reported as onConflict.
func (s *ConsentService) transition(
	ctx context.Context,
	prev, next domain.Consent,
	onConflict *ConsentError,
) (domain.Consent, error) {
	if !domain.CanTransition(prev.Status, next.Status) {
		return domain.Consent{}, s.fail(ErrIllegalStateTransition.with(prev.ID, prev.APIClientID))
	}

	next.StatusUpdateDateTime = s.now()
	if next.StatusUpdateDateTime.Before(prev.StatusUpdateDateTime) {
		next.StatusUpdateDateTime = prev.StatusUpdateDateTime
	}

	if err := assertImmutable(prev, next); err != nil {
		return domain.Consent{}, err
	}

	err := s.Store.Consents().UpdateConsentStatus(ctx, next, prev.Status)
	if errors.Is(err, store.ErrConflict) {
		return domain.Consent{}, s.fail(onConflict.with(prev.ID, prev.APIClientID))
	}
	if err != nil {
		return domain.Consent{}, fmt.Errorf("update consent %s: %w", prev.ID, err)
	}

	s.Metrics.ObserveTransition(string(next.IntentType), string(next.Status))
	slogx.FromContext(ctx).InfoContext(ctx, "consent status changed",
		"consent_id", next.ID,
		"api_client_id", next.APIClientID,
		"intent_type", next.IntentType,
		"from", prev.Status,
		"to", next.Status)

	return next, nil
}

// assertImmutable guards the fields no transition may touch.
func assertImmutable(prev, next domain.Consent) error {
	switch {
	case prev.ID != next.ID:
		return fmt.Errorf("consent %s: id changed", prev.ID)
	case prev.IntentType != next.IntentType:
		return fmt.Errorf("consent %s: intent type changed", prev.ID)
	case prev.APIClientID != next.APIClientID:
		return fmt.Errorf("consent %s: api client changed", prev.ID)
	case prev.RequestVersion != next.RequestVersion:
		return fmt.Errorf("consent %s: request version changed", prev.ID)
	case !bytes.Equal(prev.Request, next.Request):
		return fmt.Errorf("consent %s: request changed", prev.ID)
	case !prev.CreationDateTime.Equal(next.CreationDateTime):
		return fmt.Errorf("consent %s: creation time changed", prev.ID)
	case prev.ResourceOwnerID != "" && prev.ResourceOwnerID != next.ResourceOwnerID:
		return fmt.Errorf("consent %s: resource owner changed", prev.ID)
	}
	return nil
}

// fail records domain failures by kind and passes err through.
func (s *ConsentService) fail(err error) error {
	if kind, ok := KindOf(err); ok {
		s.Metrics.ObserveError(string(kind))
	}
	return err
}

func nilIfEmpty[T any](v []T) []T {
	if len(v) == 0 {
		return nil
	}
	return v
}
