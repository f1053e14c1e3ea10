package http

import (
	"errors"
	"fmt"

	"github.com/snikitin/accounts-service/internal/service"
)

// Sentinel errors used by the identity middleware when reading the
// gateway-injected headers. Callers can match against them with [errors.Is].
var (
	// ErrMissingAccountIDHeader is returned when the X-Account-ID header is
	// absent or empty.
	ErrMissingAccountIDHeader = errors.New("missing `X-Account-ID` header")

	// ErrMissingAccountTypeHeader is returned when the X-Account-Type
	// header is absent or empty.
	ErrMissingAccountTypeHeader = errors.New("missing `X-Account-Type` header")

	// ErrUnknownAccountType is returned when the X-Account-Type header
	// carries a value outside the known account-type enum.
	ErrUnknownAccountType = errors.New("unknown account type in `X-Account-Type` header")
)

// errInvalidJSON wraps a body-decoding failure so the error mapper reports
// it as a validation error.
func errInvalidJSON(err error) error {
	return fmt.Errorf("%w: invalid JSON was passed: %w", service.ErrInvalidDataProvided, err)
}
