package models

import "time"

// RegisterRequest is the payload the auth service sends when creating a new
// account. PasswordHash must already be hashed; this service never sees
// plaintext credentials.
type RegisterRequest struct {
	FirstName         string     `json:"firstName"`
	LastName          string     `json:"lastName"`
	Email             string     `json:"email"`
	PasswordHash      string     `json:"passwordHash"`
	VerificationToken *string    `json:"verificationToken,omitempty"`
	TokenExpiresAt    *time.Time `json:"tokenExpiresAt,omitempty"`
}

// VerifyEmailRequest carries the email/token pair for an email verification
// attempt.
type VerifyEmailRequest struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

// ReplaceTokenRequest sets a new verification token on an account,
// overwriting any outstanding one.
type ReplaceTokenRequest struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// UpdateProfileRequest is a partial profile update. Nil fields are left
// untouched. A changed Email value starts the pending-email flow instead of
// overwriting the active address.
type UpdateProfileRequest struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Email     *string `json:"email,omitempty"`
}

// UpdateProfileImageRequest replaces the account's profile image URL.
type UpdateProfileImageRequest struct {
	ProfileImageURL string `json:"profileImageUrl"`
}
