package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID, h.withLogging)

	router.Get("/api/version", h.getServerVersion)

	router.Route("/debug", func(r chi.Router) {
		r.Get("/peers", h.listPeers)
		r.Route("/peers/{peer}", func(r chi.Router) {
			r.Get("/users", h.listUsers)
			r.Get("/entities", h.listEntities)
			r.Get("/entities/{id}", h.getEntity)
			r.Post("/entities/{id}/ownership", h.toggleOwnership)
		})
		r.Get("/stream", h.stream)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
