package api

import (
	"context"
	"net/http"
	"net/netip"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/htmlpage/engine/internal/api/handlers"
	mw "github.com/htmlpage/engine/internal/api/middleware"
)

const (
	// BasePath prefixes every htmlpage REST route.
	BasePath = "/rest/htmlpage"
	APIPath  = BasePath + "/api"
)

type Dependencies struct {
	HMACSecret      []byte
	RateLimitRPS    float64
	RateLimitBurst  int
	TrustedProxies  []netip.Prefix
	HTMLPageHandler *handlers.HTMLPageHandler
	AdminHandler    *handlers.AdminHandler
	HealthHandler   *handlers.HealthHandler
}

// NewRouter builds the HTTP surface. ctx bounds background work owned by the
// middleware chain.
func NewRouter(ctx context.Context, dep Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(mw.Recovery)
	r.Use(mw.Logging)
	r.Use(mw.RateLimit(ctx, dep.RateLimitRPS, dep.RateLimitBurst, dep.TrustedProxies))
	r.Use(chimid.Compress(5))

	r.Get("/healthz", dep.HealthHandler.Liveness)
	r.Get("/readyz", dep.HealthHandler.Readiness)

	r.Get("/docs/*", httpSwagger.Handler(httpSwagger.URL("/docs/doc.json")))

	r.Route(APIPath, func(api chi.Router) {
		api.Get("/v{version}/htmlpage/{id}", dep.HTMLPageHandler.Get)
		api.Options("/v{version}/htmlpage/{id}", dep.HTMLPageHandler.Preflight)
	})

	r.Route(BasePath+"/admin", func(admin chi.Router) {
		admin.Use(mw.Auth(dep.HMACSecret))
		admin.Delete("/cache/{id}", dep.AdminHandler.InvalidatePage)
	})

	return r
}
