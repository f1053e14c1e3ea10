package store

//go:generate mockgen -source=interfaces.go -destination=../mock/account_repository_mock.go -package=mock

import (
	"context"
	"time"

	"github.com/snikitin/accounts-service/models"
)

// AccountRepository is the persistence contract for account records.
//
// Every method that combines a read with a conditional write (email
// verification, email change, type change) executes as a single database
// transaction so concurrent requests against the same account or email
// value cannot interleave. Plain single-statement methods rely on the
// database's own atomicity.
type AccountRepository interface {
	// CreateAccount inserts a new account and returns the persisted record.
	// Returns ErrEmailAlreadyExists when the email is taken (case-insensitive).
	CreateAccount(ctx context.Context, account models.Account) (models.Account, error)

	// FindByID returns the account with the given identifier or ErrAccountNotFound.
	FindByID(ctx context.Context, accountID string) (models.Account, error)

	// FindByEmail returns the account whose active email matches
	// case-insensitively, or ErrAccountNotFound.
	FindByEmail(ctx context.Context, email string) (models.Account, error)

	// FindByPendingEmail returns the account whose pending email exactly
	// equals the query and is non-null, or ErrAccountNotFound.
	FindByPendingEmail(ctx context.Context, email string) (models.Account, error)

	// VerifyEmail atomically completes a verification attempt: it locks the
	// account row, checks the outstanding token against the supplied value
	// and expiry deadline, then moves any pending email into the active
	// slot, marks the email verified, clears the token pair, and promotes
	// an unverified account to normal.
	// Returns ErrAccountNotFound, ErrNoValidToken, or — when the pending
	// email collided with a concurrently registered address —
	// ErrEmailAlreadyExists.
	VerifyEmail(ctx context.Context, email, token string, now time.Time) (models.Account, error)

	// ReplaceToken overwrites the account's verification token pair. Any
	// previously issued token becomes permanently unusable.
	ReplaceToken(ctx context.Context, accountID, token string, expiresAt time.Time) (models.Account, error)

	// UpdateNames applies a partial update of the name fields. Nil values
	// are left untouched.
	UpdateNames(ctx context.Context, accountID string, firstName, lastName *string) (models.Account, error)

	// StartEmailChange atomically records a pending email together with a
	// fresh verification token after confirming the address is not in use —
	// as active or pending email — by any other account.
	// Returns ErrEmailAlreadyExists on conflict.
	StartEmailChange(ctx context.Context, accountID, newEmail, token string, expiresAt time.Time) (models.Account, error)

	// UpdateProfileImage overwrites the profile image URL unconditionally.
	UpdateProfileImage(ctx context.Context, accountID, imageURL string) (models.Account, error)

	// SetActive sets the ban flag. Setting the current value again is a
	// no-op that still succeeds.
	SetActive(ctx context.Context, accountID string, active bool) (models.Account, error)

	// ChangeType atomically moves the account from one type to another.
	// The transition only applies when the current type equals from;
	// otherwise ErrTypeTransitionNotAllowed is returned and the record is
	// left unchanged.
	ChangeType(ctx context.Context, accountID string, from, to models.AccountType) (models.Account, error)

	// DeleteAccount permanently removes the record.
	// Returns ErrAccountNotFound when the id does not exist.
	DeleteAccount(ctx context.Context, accountID string) error

	// ListAccounts returns one page of accounts ordered by account_id
	// ascending, plus the total number of accounts.
	ListAccounts(ctx context.Context, limit, offset uint64) ([]models.Account, int64, error)
}

// ErrorClassificator decides whether a failed database operation is worth
// retrying by the caller.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
