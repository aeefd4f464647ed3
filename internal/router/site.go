package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/samims/ecowatt/internal/handler"
	customMiddleware "github.com/samims/ecowatt/internal/middleware"
)

// NewSiteRouter wires the public storefront.
func NewSiteRouter(h *handler.SiteHandler, healthHandler *handler.HealthHandler, timeout time.Duration) http.Handler {
	r := chi.NewRouter()

	r.Use(customMiddleware.Metrics("site"))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))

	r.Get("/healthz", healthHandler.Liveness)
	r.Get("/readyz", healthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	r.Method(http.MethodGet, "/", customMiddleware.LanguageRedirect(http.NotFoundHandler()))

	r.Route("/cart", func(r chi.Router) {
		r.Use(customMiddleware.Session)
		r.Get("/", h.Cart)
		r.Delete("/", h.ClearCart)
		r.Post("/items", h.AddToCart)
		r.Patch("/items/{id}", h.UpdateCartItem)
		r.Delete("/items/{id}", h.RemoveCartItem)
		r.Post("/checkout", h.Checkout)
		r.Post("/quote", h.RequestQuote)
	})

	r.Route("/{lang}", func(r chi.Router) {
		r.Use(customMiddleware.RequireLanguage)
		r.Get("/", h.Home)
		r.Get("/products", h.Products)
		r.Get("/products/{slug}", h.Product)
		r.Get("/categories", h.Categories)
		r.Get("/pages/{slug}", h.Page)
		r.Post("/contact", h.Contact)
	})

	return r
}
