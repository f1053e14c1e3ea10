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

	// trusted service-to-service interface; the network perimeter is the
	// only access control here
	router.Route("/internal/accounts", func(r chi.Router) {
		r.Post("/", h.registerAccount)
		r.Get("/email", h.accountByEmail)
		r.Get("/pending-email", h.accountByPendingEmail)
		r.Put("/verify", h.verifyEmail)
		r.Get("/{accountID}", h.internalAccountByID)
		r.Put("/{accountID}/token", h.replaceToken)
		r.Get("/{accountID}/token", h.validToken)
	})

	// gateway-mediated external interface
	router.Route("/api/accounts", func(r chi.Router) {
		r.Use(h.withIdentity)

		r.Get("/", h.listAccounts)
		r.Get("/me", h.currentAccount)
		r.Get("/{accountID}", h.accountByID)
		r.Put("/{accountID}/profile", h.updateProfile)
		r.Put("/{accountID}/image", h.updateProfileImage)
		r.Put("/{accountID}/ban", h.banAccount)
		r.Put("/{accountID}/unban", h.unbanAccount)
		r.Put("/{accountID}/promote", h.promoteAccount)
		r.Put("/{accountID}/demote", h.demoteAccount)
		r.Delete("/{accountID}", h.deleteAccount)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
