package app

import (
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/rcs/pkg/jwtx"
)

// InitDecisionKeys generates the in-memory keys decision tokens are signed
// with. Keys are regenerated on every start; the authorisation server reads
// them from the JWKS endpoint, and decision tokens only need to outlive a
// single redirect.
func InitDecisionKeys(cfg Config, logger *slog.Logger) (*jwtx.KeyManager, error) {
	km, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{
		Algorithm: cfg.Algorithm,
		Issuer:    cfg.Issuer,
		RSABits:   cfg.RSABits,
		NumKeys:   cfg.NumKeys,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize decision keys: %w", err)
	}

	logger.Info("decision signing keys generated",
		"algorithm", km.Algorithm(),
		"num_keys", km.NumSigners(),
	)
	return km, nil
}
