package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/rcs/pkg/httpx"
	"github.com/aussiebroadwan/rcs/pkg/jwtx"
)

// JWKSHandler publishes the keys decisions are signed with. Keys are only
// generated at start, so relying parties may cache the set briefly.
//
//	@Summary		Get JWKS
//	@Description	Returns the JSON Web Key Set used to verify signed consent decisions.
//	@Tags			well-known
//	@Produce		json
//	@Success		200	{object}	rcssdk.JWKSResponse
//	@Failure		503	{object}	rcssdk.ErrorResponse
//	@Router			/.well-known/jwks.json [get].
func JWKSHandler(keys *jwtx.KeyManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !keys.IsReady() {
			writeServiceUnavailable(w, "no signing keys loaded")
			return
		}
		httpx.WriteCachedJSON(w, http.StatusOK, keys.JWKS(), 5*time.Minute)
	}
}
