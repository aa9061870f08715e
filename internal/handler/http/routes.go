package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MKhiriev/marketplace-auth/models"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withClientOrigin)
	router.Use(h.withLogging)

	router.Get("/ping", h.ping)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/auth/register", h.register)
		r.Post("/api/auth/login", h.login)
		r.Post("/api/auth/refresh", h.refresh)
	})

	// routes behind the bearer-token gate
	router.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Post("/api/auth/logout", h.logout)
		r.Get("/api/auth/me", h.me)
		r.Put("/api/auth/password", h.changePassword)
		r.Get("/api/users/{userID}", h.getUser)
	})

	// admin-only surface
	router.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Use(h.requireRoles(models.RoleAdmin))
		r.Delete("/api/admin/users/{userID}", h.deactivateUser)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
