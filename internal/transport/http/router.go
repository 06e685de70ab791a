// Package httptransport composes the HTTP surface: shared middleware, the
// authenticated API group, the public verification group, and the
// operational endpoints.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	certhandler "fismapp/internal/certificate/handler"
	"fismapp/internal/platform/metrics"
	"fismapp/internal/platform/middleware"
	"fismapp/internal/ratelimit"
	recipienthandler "fismapp/internal/recipient/handler"
	templatehandler "fismapp/internal/template/handler"
	"fismapp/pkg/platform/httputil"
)

// HealthCheck reports readiness of one backing dependency.
type HealthCheck func(ctx context.Context) error

// Deps carries everything the router mounts. Optional fields degrade
// gracefully: nil Limiter disables rate limiting, nil MetricsHandler skips
// the /metrics route.
type Deps struct {
	Logger       *slog.Logger
	Metrics      *metrics.Metrics
	JWTValidator middleware.JWTValidator

	Certificates *certhandler.Handler
	Templates    *templatehandler.Handler
	Recipients   *recipienthandler.Handler

	Limiter          ratelimit.Limiter
	VerifyRateLimit  int
	VerifyRateWindow time.Duration

	MetricsHandler http.Handler
	HealthChecks   map[string]HealthCheck
}

func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Timeout(30 * time.Second))
	if deps.Metrics != nil {
		r.Use(middleware.Latency(deps.Metrics))
	}

	r.Get("/healthz", healthHandler(deps.HealthChecks))
	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	r.Route("/api", func(api chi.Router) {
		// Public verification: no auth, permissive CORS so the printed QR
		// resolves from any browser, rate limited against code probing.
		api.Group(func(pub chi.Router) {
			pub.Use(cors.Handler(cors.Options{
				AllowedOrigins: []string{"*"},
				AllowedMethods: []string{http.MethodPost, http.MethodOptions},
				AllowedHeaders: []string{"Content-Type"},
				MaxAge:         300,
			}))
			if deps.Limiter != nil {
				pub.Use(middleware.RateLimit(deps.Limiter, deps.VerifyRateLimit, deps.VerifyRateWindow, deps.Logger))
			}
			pub.Use(middleware.ContentTypeJSON)
			deps.Certificates.PublicRoutes(pub)
		})

		// Portal endpoints require a valid bearer token.
		api.Group(func(priv chi.Router) {
			priv.Use(middleware.ContentTypeJSON)
			priv.Use(middleware.RequireAuth(deps.JWTValidator, deps.Logger))
			deps.Certificates.Routes(priv)
			deps.Templates.Routes(priv)
			deps.Recipients.Routes(priv)
		})
	})

	return r
}

func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status := http.StatusOK
		detail := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				detail[name] = err.Error()
				continue
			}
			detail[name] = "ok"
		}

		body := map[string]any{"status": "ok"}
		if status != http.StatusOK {
			body["status"] = "degraded"
		}
		if len(detail) > 0 {
			body["checks"] = detail
		}
		httputil.WriteJSON(w, status, body)
	}
}
