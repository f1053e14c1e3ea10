package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/snikitin/accounts-service/internal/logger"
	"github.com/snikitin/accounts-service/internal/utils"
	"github.com/snikitin/accounts-service/models"
)

// registerAccount handles POST /internal/accounts: account creation on
// behalf of the auth service. The password hash arrives pre-computed.
func (h *Handler) registerAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		writeError(w, r, errInvalidJSON(err))
		return
	}

	account, err := h.services.AccountService.Register(ctx, req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, account, http.StatusCreated)
}

// internalAccountByID handles GET /internal/accounts/{accountID}.
func (h *Handler) internalAccountByID(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")

	account, err := h.services.AccountService.GetByID(r.Context(), accountID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, account, http.StatusOK)
}

// accountByEmail handles GET /internal/accounts/email?email=.
func (h *Handler) accountByEmail(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")

	account, err := h.services.AccountService.GetByEmail(r.Context(), email)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, account, http.StatusOK)
}

// accountByPendingEmail handles GET /internal/accounts/pending-email?email=.
func (h *Handler) accountByPendingEmail(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")

	account, err := h.services.AccountService.GetByPendingEmail(r.Context(), email)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, account, http.StatusOK)
}

// verifyEmail handles PUT /internal/accounts/verify: consumes a
// verification token for the account carrying the given email.
func (h *Handler) verifyEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.VerifyEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		writeError(w, r, errInvalidJSON(err))
		return
	}

	account, err := h.services.AccountService.VerifyEmail(ctx, req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, account, http.StatusOK)
}

// replaceToken handles PUT /internal/accounts/{accountID}/token:
// overwrites the outstanding verification token.
func (h *Handler) replaceToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	accountID := chi.URLParam(r, "accountID")

	var req models.ReplaceTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		writeError(w, r, errInvalidJSON(err))
		return
	}

	account, err := h.services.AccountService.ReplaceToken(ctx, accountID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, account, http.StatusOK)
}

// validToken handles GET /internal/accounts/{accountID}/token: reports the
// outstanding token, or 404 whether it never existed or has expired.
func (h *Handler) validToken(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")

	token, err := h.services.AccountService.ValidToken(r.Context(), accountID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, token, http.StatusOK)
}
