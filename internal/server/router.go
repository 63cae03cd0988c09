package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/WorkflowDigitalltd/ac-crm/internal/config"
	"github.com/WorkflowDigitalltd/ac-crm/internal/handler"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires HTTP routes and middleware.
func NewRouter(cfg config.Config,
	logger *slog.Logger,
	health handler.HealthHandler,
	customers handler.CustomerHandler,
	products handler.ProductHandler,
	sales handler.SaleHandler,
	payments handler.PaymentHandler,
	expenses handler.ExpenseHandler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(NewLoggerMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(httprate.LimitByIP(cfg.RateLimit, cfg.RateLimitWindow))

	health.RegisterRoutes(r)
	customers.RegisterRoutes(r)
	products.RegisterRoutes(r)
	sales.RegisterRoutes(r)
	payments.RegisterRoutes(r)
	expenses.RegisterRoutes(r)
	r.Method("GET", "/metrics", promhttp.Handler())

	return r
}
