package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/snikitin/accounts-service/internal/logger"
	"github.com/snikitin/accounts-service/internal/utils"
	"github.com/snikitin/accounts-service/models"
)

// callerFromRequest pulls the gateway-asserted identity that withIdentity
// stored in the context. It is only absent if a handler is reached outside
// the identity middleware, which is a wiring bug.
func callerFromRequest(w http.ResponseWriter, r *http.Request) (models.Caller, bool) {
	caller, ok := utils.GetCallerFromContext(r.Context())
	if !ok {
		logger.FromRequest(r).Error().Msg("caller identity missing from request context")
		writeError(w, r, ErrMissingAccountIDHeader)
		return models.Caller{}, false
	}
	return caller, true
}

// listAccounts handles GET /api/accounts with optional page/pageSize query
// parameters. Non-numeric values fall back to the defaults.
func (h *Handler) listAccounts(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(w, r)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

	list, err := h.services.AccountService.List(r.Context(), caller, page, pageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, list, http.StatusOK)
}

// currentAccount handles GET /api/accounts/me: the caller's own record,
// used by clients to restore login state.
func (h *Handler) currentAccount(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(w, r)
	if !ok {
		return
	}

	account, err := h.services.AccountService.GetByID(r.Context(), caller.AccountID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, account, http.StatusOK)
}

// accountByID handles GET /api/accounts/{accountID}. Any authenticated
// caller may read any account's public representation.
func (h *Handler) accountByID(w http.ResponseWriter, r *http.Request) {
	if _, ok := callerFromRequest(w, r); !ok {
		return
	}
	accountID := chi.URLParam(r, "accountID")

	account, err := h.services.AccountService.GetByID(r.Context(), accountID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, account, http.StatusOK)
}

// updateProfile handles PUT /api/accounts/{accountID}/profile: partial
// update of names and email. An email change starts the pending-email flow
// and is reported through the emailChanged field.
func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	caller, ok := callerFromRequest(w, r)
	if !ok {
		return
	}
	accountID := chi.URLParam(r, "accountID")

	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		writeError(w, r, errInvalidJSON(err))
		return
	}

	updated, err := h.services.AccountService.UpdateProfile(r.Context(), caller, accountID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, updated, http.StatusOK)
}

// updateProfileImage handles PUT /api/accounts/{accountID}/image.
func (h *Handler) updateProfileImage(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	caller, ok := callerFromRequest(w, r)
	if !ok {
		return
	}
	accountID := chi.URLParam(r, "accountID")

	var req models.UpdateProfileImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		writeError(w, r, errInvalidJSON(err))
		return
	}

	account, err := h.services.AccountService.UpdateProfileImage(r.Context(), caller, accountID, req.ProfileImageURL)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, account, http.StatusOK)
}

// banAccount handles PUT /api/accounts/{accountID}/ban.
func (h *Handler) banAccount(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(w, r)
	if !ok {
		return
	}
	accountID := chi.URLParam(r, "accountID")

	account, err := h.services.AccountService.Ban(r.Context(), caller, accountID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, account, http.StatusOK)
}

// unbanAccount handles PUT /api/accounts/{accountID}/unban.
func (h *Handler) unbanAccount(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(w, r)
	if !ok {
		return
	}
	accountID := chi.URLParam(r, "accountID")

	account, err := h.services.AccountService.Unban(r.Context(), caller, accountID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, account, http.StatusOK)
}

// promoteAccount handles PUT /api/accounts/{accountID}/promote.
func (h *Handler) promoteAccount(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(w, r)
	if !ok {
		return
	}
	accountID := chi.URLParam(r, "accountID")

	account, err := h.services.AccountService.Promote(r.Context(), caller, accountID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, account, http.StatusOK)
}

// demoteAccount handles PUT /api/accounts/{accountID}/demote.
func (h *Handler) demoteAccount(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(w, r)
	if !ok {
		return
	}
	accountID := chi.URLParam(r, "accountID")

	account, err := h.services.AccountService.Demote(r.Context(), caller, accountID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, account, http.StatusOK)
}

// deleteAccount handles DELETE /api/accounts/{accountID}.
func (h *Handler) deleteAccount(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(w, r)
	if !ok {
		return
	}
	accountID := chi.URLParam(r, "accountID")

	if err := h.services.AccountService.Delete(r.Context(), caller, accountID); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
