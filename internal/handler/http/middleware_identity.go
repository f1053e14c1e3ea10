package http

import (
	"context"
	"net/http"

	"github.com/snikitin/accounts-service/internal/logger"
	"github.com/snikitin/accounts-service/internal/utils"
	"github.com/snikitin/accounts-service/models"
)

const (
	accountIDHeader   = "X-Account-ID"
	accountTypeHeader = "X-Account-Type"
)

// withIdentity extracts the caller identity the API gateway injected into
// the request headers and stores it in the request context under
// [utils.CallerCtxKey].
//
// The gateway has already validated the caller's credentials; the values
// are trusted verbatim and no token parsing happens here. Requests without
// both headers, or with an unknown account type, are rejected with
// HTTP 401 Unauthorized.
func (h *Handler) withIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		accountID := r.Header.Get(accountIDHeader)
		if accountID == "" {
			log.Err(ErrMissingAccountIDHeader).Send()
			writeError(w, r, ErrMissingAccountIDHeader)
			return
		}

		accountType := models.AccountType(r.Header.Get(accountTypeHeader))
		if accountType == "" {
			log.Err(ErrMissingAccountTypeHeader).Send()
			writeError(w, r, ErrMissingAccountTypeHeader)
			return
		}
		if !accountType.Valid() {
			log.Err(ErrUnknownAccountType).Str("type", string(accountType)).Send()
			writeError(w, r, ErrUnknownAccountType)
			return
		}

		caller := models.Caller{AccountID: accountID, Type: accountType}
		ctx := context.WithValue(r.Context(), utils.CallerCtxKey, caller)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
