package jwtx

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier checks signature, issuer, audience and expiry of tokens signed by
// keys in a KeySet.
type Verifier struct {
	keys   *KeySet
	alg    string
	issuer string
	leeway time.Duration
}

func NewVerifier(keys *KeySet, alg, issuer string) *Verifier {
	return &Verifier{keys: keys, alg: alg, issuer: issuer, leeway: 30 * time.Second}
}

// Verify parses token into claims. An empty audience skips the aud check.
func (v *Verifier) Verify(token string, audience string, claims jwt.Claims) error {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{v.alg}),
		jwt.WithIssuer(v.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
	}
	if audience != "" {
		opts = append(opts, jwt.WithAudience(audience))
	}

	_, err := jwt.NewParser(opts...).ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, ErrMissingKID
		}
		pub, err := v.keys.Get(kid)
		if err != nil {
			return nil, fmt.Errorf("kid %q: %w", kid, err)
		}
		if !keyMatches(v.alg, pub) {
			return nil, ErrKeyType
		}
		return pub, nil
	})
	if err != nil {
		return fmt.Errorf("jwtx: verify: %w", err)
	}
	return nil
}
