// Package validators holds the input validation rules for account fields.
// Only format rules live here; uniqueness and state preconditions belong to
// the store and service layers.
package validators

import (
	"net/mail"
	"net/url"
	"strings"
	"time"
)

// maxNameLength mirrors the column width of the name fields.
const maxNameLength = 50

// ValidateFirstName checks presence and length of a first name.
func ValidateFirstName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyFirstName
	}
	if len(name) > maxNameLength {
		return ErrFirstNameTooLong
	}
	return nil
}

// ValidateLastName checks presence and length of a last name.
func ValidateLastName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyLastName
	}
	if len(name) > maxNameLength {
		return ErrLastNameTooLong
	}
	return nil
}

// ValidateEmail checks that the address parses as a bare RFC 5322 address
// (no display name).
func ValidateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrInvalidEmail
	}
	return nil
}

// ValidatePasswordHash checks that an opaque hash value is present.
// The hash's shape is the auth service's concern, not ours.
func ValidatePasswordHash(hash string) error {
	if hash == "" {
		return ErrEmptyPasswordHash
	}
	return nil
}

// ValidateTokenPair checks that a verification token and its expiry are
// either both present or both absent.
func ValidateTokenPair(token *string, expiresAt *time.Time) error {
	if (token == nil) != (expiresAt == nil) {
		return ErrInvalidTokenExpiry
	}
	if token != nil && *token == "" {
		return ErrEmptyToken
	}
	return nil
}

// ValidateImageURL checks the profile image URL format: absolute, http or
// https, with a host. Reachability is deliberately not checked.
func ValidateImageURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ErrInvalidImageURL
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidImageURL
	}
	return nil
}
