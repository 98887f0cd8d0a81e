package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	// login flow: reachable without a token
	router.Group(func(r chi.Router) {
		r.Post("/api/user/register", h.register)
		r.Post("/api/auth/face", h.submitFace)
		r.Post("/api/auth/login", h.login)
	})

	// everything else requires a completed login
	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Post("/api/user/enroll-face", h.enrollFace)
		r.Post("/api/user/enroll-reject", h.rejectEnrollment)
		r.Put("/api/user/{userID}/faces", h.replaceFaces)
		r.Delete("/api/user/{userID}/faces", h.revokeFaces)

		r.Post("/api/auth/logout", h.logout)
		r.Get("/api/auth/me", h.me)

		r.Get("/api/attendance", h.attendanceHistory)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
