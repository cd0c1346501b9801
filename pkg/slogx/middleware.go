package slogx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/rcs/pkg/idx"
)

// InteractionIDHeader correlates a call across the TPP, the ASPSP and this service.
const InteractionIDHeader = "x-fapi-interaction-id"

// HTTPMiddleware attaches a request logger to the context and logs one line per
// request. The interaction id is taken from the request or minted, and echoed
// on the response.
func HTTPMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			interactionID := r.Header.Get(InteractionIDHeader)
			if interactionID == "" {
				interactionID = idx.New().String()
			}
			w.Header().Set(InteractionIDHeader, interactionID)

			logger := base.With(
				"interaction_id", interactionID,
				"method", r.Method,
				"path", r.URL.Path,
			)

			ctx := withInteractionID(WithContext(r.Context(), logger), interactionID)
			rw := &StatusRecorder{ResponseWriter: w, Status: http.StatusOK}
			next.ServeHTTP(rw, r.WithContext(ctx))

			level := slog.LevelInfo
			if rw.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.Log(ctx, level, "http_request",
				"status", rw.Status,
				"duration_ms", time.Since(start).Milliseconds(),
				"remote_addr", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		})
	}
}

// StatusRecorder remembers the status code written through it.
type StatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (rw *StatusRecorder) WriteHeader(code int) {
	rw.Status = code
	rw.ResponseWriter.WriteHeader(code)
}
