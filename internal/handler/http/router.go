package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cobsari123-dotcom/marcket-app2/pkg/health"
	"github.com/cobsari123-dotcom/marcket-app2/pkg/middleware"
)

// ServiceName labels HTTP metrics and spans.
const ServiceName = "marketplace-triggers"

// RouterConfig holds the tunables of the HTTP surface.
type RouterConfig struct {
	AllowedOrigins   []string
	WebhookRateLimit float64
	WebhookBurst     int
	RequestTimeout   time.Duration
}

// NewRouter creates a chi router with the callable, webhook, health and
// metrics routes registered.
func NewRouter(cfg RouterConfig, payments PaymentService, healthHandler *health.Handler, logger *slog.Logger) http.Handler {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.Tracing(ServiceName))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics(ServiceName))
	r.Use(chimw.Timeout(timeout))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	paymentHandler := NewPaymentHandler(payments, logger)

	// Callables are invoked from the storefront.
	r.Group(func(r chi.Router) {
		r.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.AllowedOrigins)))
		r.Post("/callable/createPaymentPreference", paymentHandler.CreatePreference)
		r.Options("/callable/createPaymentPreference", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.WebhookRateLimit, cfg.WebhookBurst, logger))
		r.Get("/webhooks/mercadopago", paymentHandler.Webhook)
		r.Post("/webhooks/mercadopago", paymentHandler.Webhook)
	})

	return r
}
