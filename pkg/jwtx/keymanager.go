package jwtx

import (
	"fmt"
	"math/rand/v2"

	"github.com/aussiebroadwan/rcs/pkg/idx"
)

type KeyManagerOptions struct {
	// Algorithm is one of RS256, ES256, EdDSA.
	Algorithm string

	// Issuer is stamped into and required on every token.
	Issuer string

	// RSABits only applies to RS256. Zero means DefaultRSABits.
	RSABits int

	// NumKeys defaults to 1 and is capped at 10.
	NumKeys int
}

// KeyManager holds in-memory signing keys. Keys are generated at start and
// never persisted, so tokens do not survive a restart; decision tokens live
// for minutes, which makes that acceptable.
type KeyManager struct {
	algorithm string
	signers   []Signer
	keys      *KeySet
	verifier  *Verifier
}

func NewEphemeralKeyManager(opts KeyManagerOptions) (*KeyManager, error) {
	if opts.Issuer == "" {
		return nil, fmt.Errorf("jwtx: issuer is required")
	}
	n := min(max(opts.NumKeys, 1), 10)

	km := &KeyManager{
		algorithm: opts.Algorithm,
		keys:      NewKeySet(),
	}
	for range n {
		pemKey, err := GenerateKey(opts.Algorithm, opts.RSABits)
		if err != nil {
			return nil, err
		}
		signer, err := NewSigner(opts.Algorithm, idx.Prefixed("rcs"), pemKey)
		if err != nil {
			return nil, err
		}
		if err := km.keys.AddJWK(signer.PublicJWK()); err != nil {
			return nil, err
		}
		km.signers = append(km.signers, signer)
	}
	km.verifier = NewVerifier(km.keys, opts.Algorithm, opts.Issuer)
	return km, nil
}

func (km *KeyManager) Algorithm() string { return km.algorithm }

func (km *KeyManager) IsReady() bool { return km.keys.IsReady() }

// GetSigner picks one of the signing keys at random.
func (km *KeyManager) GetSigner() Signer {
	if len(km.signers) == 0 {
		return nil
	}
	return km.signers[rand.IntN(len(km.signers))]
}

func (km *KeyManager) NumSigners() int { return len(km.signers) }

func (km *KeyManager) JWKS() JWKS { return km.keys.PublicJWKS() }

func (km *KeyManager) Verifier() *Verifier { return km.verifier }
