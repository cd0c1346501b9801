package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/rcs/internal/rcs/metrics"
	"github.com/aussiebroadwan/rcs/internal/rcs/service"
	"github.com/aussiebroadwan/rcs/internal/rcs/store"
	"github.com/aussiebroadwan/rcs/pkg/httpx"
	"github.com/aussiebroadwan/rcs/pkg/jwtx"
	"github.com/aussiebroadwan/rcs/pkg/slogx"

	_ "github.com/aussiebroadwan/rcs/api/rcs" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeyManager
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store
	metrics      *metrics.Metrics

	Registry  *service.Registry
	Details   *service.DetailsService
	Decisions *service.DecisionService
}

func NewRouter(
	keys *jwtx.KeyManager,
	buildVersion string,
	st store.Store,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		store:        st,
		metrics:      m,
	}
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		r.observe,
	}
	return r
}

func (r *Router) ApplyRoutes() {
	r.registerConsents()
	r.registerDecision()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP applies the global middleware chain.
//
//	@title						Remote Consent Service API
//	@version					0.1.0
//	@description				Consent lifecycle for an Open Banking gateway: creation, PSU decision and consumption.
//	@description
//	@description				Decisions are returned as JWTs verifiable with the JWKS endpoint.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/rcs
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	APIClient
//	@in							header
//	@name						x-api-client-id
//	@description				API client id resolved by the gateway.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerConsents() {
	h := &ConsentsHandler{Registry: r.Registry}

	write := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.RequireAPIClient(rejectMissingAPIClient),
			httpx.RateLimitByAPIClient(httpx.WriteLimit),
		)
	}
	read := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.RequireAPIClient(rejectMissingAPIClient),
			httpx.RateLimitByAPIClient(httpx.ReadLimit),
		)
	}

	r.Mux.Handle("POST /open-banking/{version}/{resource}", write(h.HandleCreate))
	r.Mux.Handle("GET /open-banking/{version}/{resource}/{consentId}", read(h.HandleGet))
	r.Mux.Handle("POST /open-banking/{version}/{resource}/{consentId}/consume", write(h.HandleConsume))
}

func (r *Router) registerDecision() {
	r.Mux.Handle("POST /rcs/consents/details",
		httpx.Chain(&DetailsHandler{Details: r.Details},
			httpx.RequireAPIClient(rejectMissingAPIClient),
			httpx.RateLimitByAPIClient(httpx.ReadLimit),
		),
	)
	r.Mux.Handle("POST /rcs/consents/decision",
		httpx.Chain(&DecisionHandler{Decisions: r.Decisions},
			httpx.RequireAPIClient(rejectMissingAPIClient),
			httpx.RateLimitByAPIClient(httpx.WriteLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /.well-known/jwks.json",
		httpx.Chain(JWKSHandler(r.keys), httpx.RateLimitByIP(httpx.PublicLimit)),
	)
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys))
	r.Mux.Handle("GET /metrics", r.metrics.Handler())
}

// observe records request latency by route pattern, so path parameters do
// not blow up label cardinality.
func (r *Router) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		rec := &slogx.StatusRecorder{ResponseWriter: w, Status: http.StatusOK}

		_, pattern := r.Mux.Handler(req)
		next.ServeHTTP(rec, req)

		if pattern == "" {
			pattern = "unmatched"
		}
		r.metrics.ObserveRequest(req.Method, pattern, rec.Status, time.Since(start))
	})
}
