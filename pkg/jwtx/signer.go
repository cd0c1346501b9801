package jwtx

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rsa"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Signer signs claims with one private key identified by KID.
type Signer interface {
	Alg() string
	KID() string
	Sign(claims jwt.Claims) (string, error)
	PublicJWK() JWK
}

type keySigner struct {
	kid    string
	method jwt.SigningMethod
	key    crypto.Signer
	jwk    JWK
}

// NewSigner loads a PEM private key for alg. The key type must match alg.
func NewSigner(alg, kid string, pemKey []byte) (Signer, error) {
	key, err := parsePrivateKey(pemKey)
	if err != nil {
		return nil, err
	}

	method, err := signingMethod(alg)
	if err != nil {
		return nil, err
	}
	if !keyMatches(alg, key.Public()) {
		return nil, fmt.Errorf("%w: %s with %T", ErrKeyType, alg, key)
	}

	jwk, err := NewJWK(kid, alg, key.Public())
	if err != nil {
		return nil, err
	}

	return &keySigner{kid: kid, method: method, key: key, jwk: jwk}, nil
}

func (s *keySigner) Alg() string    { return s.method.Alg() }
func (s *keySigner) KID() string    { return s.kid }
func (s *keySigner) PublicJWK() JWK { return s.jwk }

func (s *keySigner) Sign(claims jwt.Claims) (string, error) {
	t := jwt.NewWithClaims(s.method, claims)
	t.Header["kid"] = s.kid
	return t.SignedString(s.key)
}

func signingMethod(alg string) (jwt.SigningMethod, error) {
	switch alg {
	case AlgorithmRS256:
		return jwt.SigningMethodRS256, nil
	case AlgorithmES256:
		return jwt.SigningMethodES256, nil
	case AlgorithmEdDSA:
		return jwt.SigningMethodEdDSA, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, alg)
}

func keyMatches(alg string, pub crypto.PublicKey) bool {
	switch k := pub.(type) {
	case *rsa.PublicKey:
		return alg == AlgorithmRS256
	case *ecdsa.PublicKey:
		return alg == AlgorithmES256 && k.Curve == elliptic.P256()
	case ed25519.PublicKey:
		return alg == AlgorithmEdDSA
	}
	return false
}
