package rcs_test

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLivezEndpoint(t *testing.T) {
	client, cleanup := setupRCSContainer(t)
	defer cleanup()

	health, err := client.GetLiveness(t.Context())
	assertHealthy(t, health, err)
}

func TestReadyzEndpoint(t *testing.T) {
	client, cleanup := setupRCSContainer(t)
	defer cleanup()

	health, err := client.GetReadiness(t.Context())
	assertHealthy(t, health, err)
	require.NotNil(t, health.Checks)
	require.Equal(t, "ok", health.Checks.Database)
	require.Equal(t, "ok", health.Checks.Signer)
}

func TestJWKSEndpoint(t *testing.T) {
	client, cleanup := setupRCSContainer(t)
	defer cleanup()

	jwks, err := client.GetJWKS(t.Context())
	require.NoError(t, err)
	require.Len(t, jwks.Keys, 1)

	for _, key := range jwks.Keys {
		t.Logf("Key ID: %s, Algorithm: %s, Use: %s", key.Kid, key.Alg, key.Use)
		require.Equal(t, "EdDSA", key.Alg)
	}
}
