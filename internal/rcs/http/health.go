package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/rcs/internal/rcs/store"
	"github.com/aussiebroadwan/rcs/pkg/httpx"
	"github.com/aussiebroadwan/rcs/pkg/jwtx"
	"github.com/aussiebroadwan/rcs/pkg/rcssdk"
)

// LivezHandler godoc
//
//	@Summary		Liveness probe
//	@Description	Always 200 while the process serves requests.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	rcssdk.HealthResponse
//	@Router			/livez [get].
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, rcssdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}

// ReadyzHandler godoc
//
//	@Summary		Readiness probe
//	@Description	Checks the consent store and the decision signing keys.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	rcssdk.HealthResponse
//	@Failure		503	{object}	rcssdk.HealthResponse
//	@Router			/readyz [get].
func ReadyzHandler(startTime time.Time, version string, st store.Store, keys *jwtx.KeyManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := rcssdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  &rcssdk.HealthChecks{Database: "ok", Signer: "ok"},
		}
		code := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			res.Checks.Database = "error: " + err.Error()
			res.Status, code = "degraded", http.StatusServiceUnavailable
		}
		if !keys.IsReady() {
			res.Checks.Signer = "error: no keys loaded"
			res.Status, code = "degraded", http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, res)
	}
}
