package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/samims/ecowatt/internal/auth"
	"github.com/samims/ecowatt/internal/handler"
	customMiddleware "github.com/samims/ecowatt/internal/middleware"
	"github.com/samims/ecowatt/internal/model"
)

// NewAdminRouter wires the back-office API. Editors can read and manage
// content; lead, catalogue and user management need admin.
func NewAdminRouter(h *handler.AdminHandler, authHandler *handler.AuthHandler, healthHandler *handler.HealthHandler, resolver auth.IdentityResolver, timeout time.Duration) http.Handler {
	r := chi.NewRouter()

	r.Use(customMiddleware.Metrics("admin"))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))

	r.Get("/healthz", healthHandler.Liveness)
	r.Get("/readyz", healthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/auth/login", authHandler.Login)

	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.Auth(resolver))
		r.Use(customMiddleware.RequireRole(model.RoleEditor))

		r.Get("/auth/me", authHandler.Me)

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", h.ListNotifications)
			r.Delete("/", h.ClearNotifications)
			r.Get("/unread-count", h.UnreadCount)
			r.Post("/read-all", h.MarkAllNotificationsRead)
			r.Post("/{id}/read", h.MarkNotificationRead)
			r.Delete("/{id}", h.DeleteNotification)
		})

		r.Route("/content", func(r chi.Router) {
			r.Get("/", h.ListContent)
			r.Post("/", h.SaveContent)
			r.Put("/{id}", h.SaveContent)
			r.Delete("/{id}", h.DeleteContent)
		})

		r.Group(func(r chi.Router) {
			r.Use(customMiddleware.RequireRole(model.RoleAdmin))

			r.Route("/leads", func(r chi.Router) {
				r.Get("/", h.ListLeads)
				r.Post("/", h.CreateLead)
				r.Get("/tags", h.ListTags)
				r.Post("/tags", h.CreateTag)
				r.Get("/views", h.ListViews)
				r.Post("/views", h.CreateView)
				r.Delete("/views/{viewID}", h.DeleteView)
				r.Post("/reminders/{reminderID}/complete", h.CompleteReminder)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.GetLead)
					r.Put("/", h.UpdateLead)
					r.Delete("/", h.DeleteLead)
					r.Put("/status", h.UpdateLeadStatus)
					r.Get("/history", h.LeadHistory)
					r.Get("/reminders", h.ListReminders)
					r.Post("/reminders", h.CreateReminder)
					r.Put("/tags/{tagID}", h.AddLeadTag)
					r.Delete("/tags/{tagID}", h.RemoveLeadTag)
				})
			})

			r.Route("/products", func(r chi.Router) {
				r.Get("/", h.ListProducts)
				r.Post("/", h.SaveProduct)
				r.Get("/{id}", h.GetProduct)
				r.Put("/{id}", h.SaveProduct)
				r.Delete("/{id}", h.DeleteProduct)
			})

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", h.ListCategories)
				r.Post("/", h.SaveCategory)
				r.Put("/{id}", h.SaveCategory)
				r.Delete("/{id}", h.DeleteCategory)
			})

			r.Get("/visitors", h.ListVisitors)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(customMiddleware.RequireRole(model.RoleSuperAdmin))
			r.Get("/", h.ListUsers)
			r.Get("/{id}", h.GetUser)
		})
	})

	return r
}
