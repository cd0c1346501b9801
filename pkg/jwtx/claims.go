package jwtx

import (
	"time"

	"github.com/aussiebroadwan/rcs/pkg/idx"
	"github.com/golang-jwt/jwt/v5"
)

const DefaultDecisionTTL = 5 * time.Minute

// DecisionClaims is the signed outcome of a PSU's consent decision, returned
// to the authorisation server so it can complete the redirect back to the TPP.
type DecisionClaims struct {
	jwt.RegisteredClaims

	ConsentID       string   `json:"consentId"`
	IntentType      string   `json:"intentType"`
	Decision        string   `json:"decision"`
	Status          string   `json:"status"`
	DebtorAccountID string   `json:"debtorAccountId,omitempty"`
	AccountIDs      []string `json:"accountIds,omitempty"`
}

// NewRegisteredClaims fills the standard claims with a fresh ULID jti.
func NewRegisteredClaims(issuer, subject, audience string, now time.Time, ttl time.Duration) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   subject,
		Audience:  jwt.ClaimStrings{audience},
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        idx.New().String(),
	}
}
