package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")

	// ErrForbidden means the caller's identity or role does not permit the
	// requested operation on the target account.
	ErrForbidden = errors.New("operation not permitted for caller")

	// ErrInvalidToken collapses the three verification failure causes —
	// no outstanding token, token mismatch, token expired — into one
	// outcome so callers cannot probe which one occurred.
	ErrInvalidToken = errors.New("invalid verification token")

	// ErrInvalidState means the account's current type does not allow the
	// requested transition.
	ErrInvalidState = errors.New("account state does not allow this transition")

	// ErrNoValidToken is returned by the valid-token query when the
	// account carries no unexpired token. Never-issued and expired are
	// deliberately indistinguishable.
	ErrNoValidToken = errors.New("no valid verification token")
)
