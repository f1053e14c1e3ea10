package validators

import "errors"

var (
	ErrEmptyFirstName      = errors.New("firstName is required")
	ErrEmptyLastName       = errors.New("lastName is required")
	ErrFirstNameTooLong    = errors.New("firstName must be at most 50 characters")
	ErrLastNameTooLong     = errors.New("lastName must be at most 50 characters")
	ErrInvalidEmail        = errors.New("invalid email format")
	ErrEmptyPasswordHash   = errors.New("passwordHash is required")
	ErrEmptyToken          = errors.New("token is required")
	ErrInvalidTokenExpiry  = errors.New("token and expiry must be provided together")
	ErrInvalidImageURL     = errors.New("profileImageUrl must be an absolute http(s) URL")
	ErrNoFieldsToUpdate    = errors.New("at least one field must be provided for update")
)
