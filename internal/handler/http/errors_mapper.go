package http

import (
	"errors"
	"net/http"

	"github.com/snikitin/accounts-service/internal/logger"
	"github.com/snikitin/accounts-service/internal/service"
	"github.com/snikitin/accounts-service/internal/store"
	"github.com/snikitin/accounts-service/internal/utils"
	"github.com/snikitin/accounts-service/models"
)

// errorMapping couples an HTTP status with the machine-readable code
// reported in the response body.
type errorMapping struct {
	status int
	code   string
}

var errorStatusMap = map[error]errorMapping{
	service.ErrInvalidDataProvided: {http.StatusBadRequest, "validation_error"},
	service.ErrInvalidToken:        {http.StatusBadRequest, "invalid_token"},
	service.ErrForbidden:           {http.StatusForbidden, "forbidden"},
	service.ErrInvalidState:        {http.StatusConflict, "invalid_state"},
	service.ErrNoValidToken:        {http.StatusNotFound, "not_found"},

	store.ErrEmailAlreadyExists: {http.StatusConflict, "conflict"},
	store.ErrAccountNotFound:    {http.StatusNotFound, "not_found"},

	ErrMissingAccountIDHeader:   {http.StatusUnauthorized, "unauthorized"},
	ErrMissingAccountTypeHeader: {http.StatusUnauthorized, "unauthorized"},
	ErrUnknownAccountType:       {http.StatusUnauthorized, "unauthorized"},
}

func mapError(err error) errorMapping {
	for target, mapping := range errorStatusMap {
		if errors.Is(err, target) {
			return mapping
		}
	}
	return errorMapping{http.StatusInternalServerError, "internal_error"}
}

// writeError maps err onto the structured error body and status. Internal
// errors are logged in full but reported with a generic message so storage
// details never leak to callers.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromRequest(r)

	mapping := mapError(err)

	message := err.Error()
	if mapping.status == http.StatusInternalServerError {
		log.Err(err).Msg("request failed with unexpected error")
		message = http.StatusText(http.StatusInternalServerError)
	} else {
		log.Error().Err(err).Int("status", mapping.status).Send()
	}

	utils.WriteJSON(w, models.ErrorResponse{Error: mapping.code, Message: message}, mapping.status)
}
