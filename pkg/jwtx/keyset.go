package jwtx

import (
	"crypto"
	"fmt"
	"sync"
)

// KeySet is the set of public keys decisions verify against. The service
// fills it from its own signers; a relying party fills it from the published
// JWKS. Keys keep the order they were added in.
type KeySet struct {
	mu    sync.RWMutex
	order []string
	keys  map[string]keyEntry
}

type keyEntry struct {
	jwk JWK
	pub crypto.PublicKey
}

func NewKeySet() *KeySet {
	return &KeySet{keys: make(map[string]keyEntry)}
}

// AddJWK adds a public key. A second key with a kid already present is
// rejected rather than silently replacing the first.
func (k *KeySet) AddJWK(j JWK) error {
	if j.Kid == "" {
		return fmt.Errorf("jwtx: jwk without kid")
	}
	pub, err := j.PublicKey()
	if err != nil {
		return err
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	if _, ok := k.keys[j.Kid]; ok {
		return fmt.Errorf("jwtx: duplicate kid %q", j.Kid)
	}
	k.keys[j.Kid] = keyEntry{jwk: j, pub: pub}
	k.order = append(k.order, j.Kid)
	return nil
}

func (k *KeySet) Get(kid string) (crypto.PublicKey, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	if e, ok := k.keys[kid]; ok {
		return e.pub, nil
	}
	return nil, ErrNoKey
}

// PublicJWKS returns a copy suitable for serving.
func (k *KeySet) PublicJWKS() JWKS {
	k.mu.RLock()
	defer k.mu.RUnlock()
	out := JWKS{Keys: make([]JWK, 0, len(k.order))}
	for _, kid := range k.order {
		out.Keys = append(out.Keys, k.keys[kid].jwk)
	}
	return out
}

func (k *KeySet) IsReady() bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.keys) > 0
}
