package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/rcs/pkg/slogx"
)

type ctxKey string

const CtxKeyAPIClientID ctxKey = "api_client_id"

// APIClientHeader carries the TPP identity resolved by the gateway in front of
// this service.
const APIClientHeader = "x-api-client-id"

func WithAPIClientID(ctx context.Context, apiClientID string) context.Context {
	return context.WithValue(ctx, CtxKeyAPIClientID, apiClientID)
}

func APIClientID(ctx context.Context) string {
	id, _ := ctx.Value(CtxKeyAPIClientID).(string)
	return id
}

// RequireAPIClient rejects requests that carry no API client identity and
// stores the identity in the request context otherwise.
func RequireAPIClient(reject http.HandlerFunc) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(APIClientHeader))
			if id == "" {
				reject(w, r)
				return
			}
			ctx := WithAPIClientID(r.Context(), id)
			ctx = slogx.With(ctx, "api_client_id", id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
