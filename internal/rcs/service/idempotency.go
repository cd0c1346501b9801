package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/rcs/internal/rcs/domain"
	"github.com/aussiebroadwan/rcs/internal/rcs/metrics"
	"github.com/aussiebroadwan/rcs/internal/rcs/store"
	"github.com/aussiebroadwan/rcs/pkg/slogx"
)

const defaultIdempotencyTTL = 24 * time.Hour

// claimAttempts bounds the lookup/claim loop. A claim can only be lost to a
// live claim, so the second lookup normally finds the winner.
const claimAttempts = 3

type CreateRequest struct {
	APIClientID              string
	IdempotencyKey           string
	IdempotencyKeyExpiration time.Time

	// RequestVersion is the API version the consent is created under, e.g. "v3.1.10".
	RequestVersion string

	Request                 json.RawMessage
	Charges                 []domain.Charge
	ExchangeRateInformation *domain.ExchangeRateInformation
}

// CreateConsent creates a consent, or returns the consent already created in
// this family by the same API client with the same idempotency key while that
// key is live.
// The boolean reports whether a new consent was minted.
func (s *ConsentService) CreateConsent(ctx context.Context, req CreateRequest) (domain.Consent, bool, error) {
	if req.APIClientID == "" {
		return domain.Consent{}, false, s.fail(validationError("apiClientId", "is required"))
	}
	if req.IdempotencyKey == "" {
		return domain.Consent{}, false, s.fail(validationError("idempotencyKey", "is required"))
	}

	log := slogx.FromContext(ctx).With(
		"api_client_id", req.APIClientID,
		"intent_type", s.Family.IntentType())

	for range claimAttempts {
		now := s.now()

		existing, err := s.Store.Consents().GetConsentByIdempotencyKey(ctx, s.Family.IntentType(), req.APIClientID, req.IdempotencyKey, now)
		if err == nil {
			s.Metrics.ObserveCreate(string(s.Family.IntentType()), metrics.OutcomeReplayed)
			log.DebugContext(ctx, "idempotent replay", "consent_id", existing.ID)
			return existing, false, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return domain.Consent{}, false, fmt.Errorf("lookup idempotency key: %w", err)
		}

		c, err := s.mint(req, now)
		if err != nil {
			s.Metrics.ObserveCreate(string(s.Family.IntentType()), metrics.OutcomeFailed)
			return domain.Consent{}, false, s.fail(err)
		}

		err = s.Store.WithTx(ctx, func(tx store.Tx) error {
			if err := tx.Consents().CreateConsent(ctx, c); err != nil {
				return fmt.Errorf("insert consent: %w", err)
			}
			return tx.IdempotencyKeys().ClaimIdempotencyKey(ctx, domain.IdempotencyClaim{
				IntentType:     c.IntentType,
				APIClientID:    c.APIClientID,
				IdempotencyKey: c.IdempotencyKey,
				ConsentID:      c.ID,
				ExpiresAt:      c.IdempotencyKeyExpiration,
				CreatedAt:      now,
			}, now)
		})
		if errors.Is(err, store.ErrAlreadyExists) {
			// Another request claimed the key first; return its consent.
			log.DebugContext(ctx, "idempotency key claimed concurrently, retrying lookup")
			continue
		}
		if err != nil {
			return domain.Consent{}, false, err
		}

		s.Metrics.ObserveCreate(string(c.IntentType), metrics.OutcomeCreated)
		log.InfoContext(ctx, "consent created", "consent_id", c.ID)
		return c, true, nil
	}

	return domain.Consent{}, false, fmt.Errorf("claim idempotency key %q: %w", req.IdempotencyKey, store.ErrAlreadyExists)
}

// mint validates the request and builds the record to insert.
func (s *ConsentService) mint(req CreateRequest, now time.Time) (domain.Consent, error) {
	version, err := domain.ParseVersion(req.RequestVersion)
	if err != nil {
		return domain.Consent{}, validationError("requestVersion", "must look like v3.1.10")
	}

	if len(bytes.TrimSpace(req.Request)) == 0 {
		return domain.Consent{}, validationError("requestObj", "is required")
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, req.Request); err != nil {
		return domain.Consent{}, validationError("requestObj", "is not valid JSON")
	}
	if err := s.Family.ValidateRequest(compact.Bytes()); err != nil {
		return domain.Consent{}, err
	}

	if _, err := domain.TotalCharges(req.Charges); err != nil {
		return domain.Consent{}, validationError("charges", "%v", err)
	}

	expiration := req.IdempotencyKeyExpiration.UTC().Truncate(time.Microsecond)
	if req.IdempotencyKeyExpiration.IsZero() {
		ttl := s.DefaultIdempotencyTTL
		if ttl <= 0 {
			ttl = defaultIdempotencyTTL
		}
		expiration = now.Add(ttl)
	}

	fx := req.ExchangeRateInformation
	if !s.Family.IntentType().IsInternational() {
		fx = nil
	}

	return domain.Consent{
		ID:                       s.newID(),
		IntentType:               s.Family.IntentType(),
		APIClientID:              req.APIClientID,
		RequestVersion:           version,
		Status:                   domain.StatusAwaitingAuthorisation,
		Request:                  compact.Bytes(),
		Charges:                  nilIfEmpty(req.Charges),
		ExchangeRateInformation:  fx,
		IdempotencyKey:           req.IdempotencyKey,
		IdempotencyKeyExpiration: expiration,
		CreationDateTime:         now,
		StatusUpdateDateTime:     now,
	}, nil
}
