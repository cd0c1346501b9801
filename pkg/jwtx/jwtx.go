// Package jwtx signs and verifies the JWTs this service hands out, and
// publishes the matching public keys as a JWKS.
package jwtx

import "errors"

// Supported signing algorithms.
const (
	AlgorithmRS256 = "RS256"
	AlgorithmES256 = "ES256"
	AlgorithmEdDSA = "EdDSA"
)

var (
	ErrUnsupportedAlgorithm = errors.New("jwtx: unsupported algorithm")
	ErrNoKey                = errors.New("jwtx: key not found")
	ErrMissingKID           = errors.New("jwtx: missing kid")
	ErrKeyType              = errors.New("jwtx: key does not match algorithm")
)
