package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/rcs/internal/rcs/domain"
	"github.com/aussiebroadwan/rcs/pkg/jwtx"
)

// Decision is the PSU's answer to a consent request.
type Decision string

const (
	DecisionAuthorised Decision = "Authorised"
	DecisionRejected   Decision = "Rejected"
)

// ParseDecision accepts the decision case-insensitively.
func ParseDecision(s string) (Decision, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "authorised", "authorized", "approve", "approved":
		return DecisionAuthorised, true
	case "rejected", "reject", "deny", "denied":
		return DecisionRejected, true
	}
	return "", false
}

// SignerSource hands out the key the decision is signed with.
type SignerSource interface {
	GetSigner() jwtx.Signer
}

// DecisionService applies a PSU decision through the registry and returns it
// signed, so the authorisation server can trust the outcome it relays.
type DecisionService struct {
	Registry *Registry
	Keys     SignerSource
	Issuer   string
	TTL      time.Duration
	Now      func() time.Time
}

type DecisionRequest struct {
	IntentID        string
	APIClientID     string
	ResourceOwnerID string
	Decision        string
	DebtorAccountID string
	AccountIDs      []string
}

type DecisionResult struct {
	Consent domain.Consent
	Token   string
}

func (s *DecisionService) SubmitDecision(ctx context.Context, req DecisionRequest) (DecisionResult, error) {
	t, ok := domain.IntentTypeFromID(req.IntentID)
	if !ok {
		return DecisionResult{}, ErrUnknownIntentType.with(req.IntentID, req.APIClientID)
	}

	decision, ok := ParseDecision(req.Decision)
	if !ok {
		return DecisionResult{}, ErrInvalidConsentDecision.with(req.IntentID, req.APIClientID)
	}

	var (
		c   domain.Consent
		err error
	)
	switch decision {
	case DecisionAuthorised:
		c, err = s.Registry.AuthoriseConsent(ctx, t, AuthoriseRequest{
			IntentID:        req.IntentID,
			APIClientID:     req.APIClientID,
			ResourceOwnerID: req.ResourceOwnerID,
			DebtorAccountID: req.DebtorAccountID,
			AccountIDs:      req.AccountIDs,
		})
	case DecisionRejected:
		c, err = s.Registry.RejectConsent(ctx, t, RejectRequest{
			IntentID:        req.IntentID,
			APIClientID:     req.APIClientID,
			ResourceOwnerID: req.ResourceOwnerID,
		})
	}
	if err != nil {
		return DecisionResult{}, err
	}

	token, err := s.sign(c, decision)
	if err != nil {
		return DecisionResult{}, err
	}
	return DecisionResult{Consent: c, Token: token}, nil
}

func (s *DecisionService) sign(c domain.Consent, decision Decision) (string, error) {
	signer := s.Keys.GetSigner()
	if signer == nil {
		return "", fmt.Errorf("sign decision: no signing key")
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	ttl := s.TTL
	if ttl <= 0 {
		ttl = jwtx.DefaultDecisionTTL
	}

	claims := jwtx.DecisionClaims{
		RegisteredClaims: jwtx.NewRegisteredClaims(s.Issuer, c.ResourceOwnerID, c.APIClientID, now(), ttl),
		ConsentID:        c.ID,
		IntentType:       string(c.IntentType),
		Decision:         string(decision),
		Status:           string(c.Status),
		DebtorAccountID:  c.AuthorisedDebtorAccountID,
		AccountIDs:       c.AuthorisedAccountIDs,
	}
	token, err := signer.Sign(claims)
	if err != nil {
		return "", fmt.Errorf("sign decision: %w", err)
	}
	return token, nil
}
