package models

import "time"

// ErrorResponse is the structured error body returned by every failing
// endpoint: a machine-readable code plus a human-readable message.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// UpdateProfileResponse is returned by the profile-update endpoint.
// EmailChanged tells the caller that a pending-email flow was started and a
// re-verification should be triggered.
type UpdateProfileResponse struct {
	Account      Account `json:"account"`
	EmailChanged bool    `json:"emailChanged"`
}

// TokenResponse reports the currently valid verification token of an
// account. Absence (HTTP 404) covers both "never issued" and "expired" so
// callers cannot distinguish the two.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Pagination describes the page window of a list response.
type Pagination struct {
	// Page is the 1-based page number that was served.
	Page int `json:"page"`

	// PageSize is the requested page size after clamping.
	PageSize int `json:"pageSize"`

	// Total is the total number of accounts across all pages.
	Total int64 `json:"total"`

	// Pages is the total number of pages for the given PageSize.
	Pages int64 `json:"pages"`
}

// ListAccountsResponse is the envelope for the paginated account list.
type ListAccountsResponse struct {
	Accounts   []Account  `json:"accounts"`
	Pagination Pagination `json:"pagination"`
}
