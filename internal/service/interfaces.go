package service

import (
	"context"

	"github.com/snikitin/accounts-service/models"
)

// AccountService is the account state machine. It owns validation,
// authorization, and transition rules; persistence and atomicity live in
// store.AccountRepository.
type AccountService interface {
	// Register creates a new unverified, active account from data supplied
	// by the trusted auth service.
	Register(ctx context.Context, req models.RegisterRequest) (models.Account, error)

	GetByID(ctx context.Context, accountID string) (models.Account, error)
	GetByEmail(ctx context.Context, email string) (models.Account, error)
	GetByPendingEmail(ctx context.Context, email string) (models.Account, error)

	// VerifyEmail consumes a verification token. On success any pending
	// email becomes the active one and an unverified account is promoted
	// to normal.
	VerifyEmail(ctx context.Context, req models.VerifyEmailRequest) (models.Account, error)

	// ReplaceToken overwrites the account's verification token pair.
	ReplaceToken(ctx context.Context, accountID string, req models.ReplaceTokenRequest) (models.Account, error)

	// ValidToken returns the outstanding token if one exists and is
	// unexpired, otherwise ErrNoValidToken.
	ValidToken(ctx context.Context, accountID string) (models.TokenResponse, error)

	// UpdateProfile applies a partial update of names and, when the email
	// field differs from the active address, starts the pending-email flow
	// with a freshly issued verification token.
	UpdateProfile(ctx context.Context, caller models.Caller, accountID string, req models.UpdateProfileRequest) (models.UpdateProfileResponse, error)

	// UpdateProfileImage replaces the profile image URL. Owner only.
	UpdateProfileImage(ctx context.Context, caller models.Caller, accountID string, imageURL string) (models.Account, error)

	// Ban and Unban flip the active flag. Admin-or-above; the super_admin
	// account can never be banned.
	Ban(ctx context.Context, caller models.Caller, accountID string) (models.Account, error)
	Unban(ctx context.Context, caller models.Caller, accountID string) (models.Account, error)

	// Promote moves normal→admin, Demote moves admin→normal. Both are
	// super_admin-only and reject every other transition.
	Promote(ctx context.Context, caller models.Caller, accountID string) (models.Account, error)
	Demote(ctx context.Context, caller models.Caller, accountID string) (models.Account, error)

	// Delete permanently removes an account. Super_admin-only; the
	// super_admin account itself cannot be deleted.
	Delete(ctx context.Context, caller models.Caller, accountID string) error

	// List returns one page of accounts ordered by account id.
	// Admin-or-above.
	List(ctx context.Context, caller models.Caller, page, pageSize int) (models.ListAccountsResponse, error)
}
