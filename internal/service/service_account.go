package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/snikitin/accounts-service/internal/config"
	"github.com/snikitin/accounts-service/internal/logger"
	"github.com/snikitin/accounts-service/internal/store"
	"github.com/snikitin/accounts-service/internal/utils"
	"github.com/snikitin/accounts-service/internal/validators"
	"github.com/snikitin/accounts-service/models"
)

// accountService is the concrete implementation of AccountService.
//
// It enforces the account lifecycle rules on top of an AccountRepository:
// which roles may perform which operation, which type transitions are
// legal, and when a verification token is issued or consumed. Time is
// always taken from the clock function so tests can pin it.
type accountService struct {
	// accountRepository is the data-access layer for account records.
	accountRepository store.AccountRepository

	// ids mints UUIDv7 values for new account ids and verification tokens.
	ids *utils.UUIDGenerator

	// tokenTTL is the lifetime of a verification token issued during an
	// email change.
	tokenTTL time.Duration

	// defaultPageSize and maxPageSize bound the list endpoint's page size.
	defaultPageSize int
	maxPageSize     int

	// now returns the current time; replaced in tests.
	now func() time.Time

	logger *logger.Logger
}

// NewAccountService constructs an AccountService wired to the given
// repository and populated with pagination and token parameters from cfg.
//
// The returned service is safe for concurrent use; all state is read-only
// after construction.
func NewAccountService(accountRepository store.AccountRepository, cfg config.App, logger *logger.Logger) AccountService {
	return &accountService{
		accountRepository: accountRepository,
		ids:               utils.NewUUIDGenerator(),
		tokenTTL:          cfg.TokenTTL,
		defaultPageSize:   cfg.DefaultPageSize,
		maxPageSize:       cfg.MaxPageSize,
		now:               func() time.Time { return time.Now().UTC() },
		logger:            logger,
	}
}

// Register creates a new account in the unverified state.
//
// The email is lowercased before storage; uniqueness is case-insensitive.
// A verification token may be supplied up front (both token and expiry, or
// neither).
//
// Returns the persisted account or:
//   - ErrInvalidDataProvided if a field fails format validation.
//   - store.ErrEmailAlreadyExists (wrapped) if the email is taken.
func (a *accountService) Register(ctx context.Context, req models.RegisterRequest) (models.Account, error) {
	log := logger.FromContext(ctx)

	if err := a.validateRegisterRequest(req); err != nil {
		log.Error().Err(err).Str("email", req.Email).Msg("invalid registration data")
		return models.Account{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	account := models.Account{
		AccountID:         a.ids.Generate(),
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Email:             strings.ToLower(req.Email),
		PasswordHash:      req.PasswordHash,
		Active:            true,
		EmailVerified:     false,
		VerificationToken: req.VerificationToken,
		TokenExpiresAt:    req.TokenExpiresAt,
		DateJoined:        a.now(),
		Type:              models.TypeUnverified,
	}

	created, err := a.accountRepository.CreateAccount(ctx, account)
	if err != nil {
		log.Err(err).Str("email", account.Email).Msg("account creation ended with error")
		return models.Account{}, fmt.Errorf("account creation ended with error: %w", err)
	}

	return created, nil
}

func (a *accountService) validateRegisterRequest(req models.RegisterRequest) error {
	if err := validators.ValidateFirstName(req.FirstName); err != nil {
		return err
	}
	if err := validators.ValidateLastName(req.LastName); err != nil {
		return err
	}
	if err := validators.ValidateEmail(req.Email); err != nil {
		return err
	}
	if err := validators.ValidatePasswordHash(req.PasswordHash); err != nil {
		return err
	}
	return validators.ValidateTokenPair(req.VerificationToken, req.TokenExpiresAt)
}

func (a *accountService) GetByID(ctx context.Context, accountID string) (models.Account, error) {
	if accountID == "" {
		return models.Account{}, ErrInvalidDataProvided
	}

	account, err := a.accountRepository.FindByID(ctx, accountID)
	if err != nil {
		return models.Account{}, fmt.Errorf("account search by id failed: %w", err)
	}

	return account, nil
}

func (a *accountService) GetByEmail(ctx context.Context, email string) (models.Account, error) {
	if err := validators.ValidateEmail(email); err != nil {
		return models.Account{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	account, err := a.accountRepository.FindByEmail(ctx, email)
	if err != nil {
		return models.Account{}, fmt.Errorf("account search by email failed: %w", err)
	}

	return account, nil
}

func (a *accountService) GetByPendingEmail(ctx context.Context, email string) (models.Account, error) {
	if err := validators.ValidateEmail(email); err != nil {
		return models.Account{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	account, err := a.accountRepository.FindByPendingEmail(ctx, email)
	if err != nil {
		return models.Account{}, fmt.Errorf("account search by pending email failed: %w", err)
	}

	return account, nil
}

// VerifyEmail consumes the account's verification token.
//
// Returns the updated account or:
//   - ErrInvalidDataProvided on malformed input.
//   - ErrInvalidToken when no outstanding token exists, the value does not
//     match, or the token has expired.
//   - store.ErrAccountNotFound (wrapped) when no account carries the email.
//   - store.ErrEmailAlreadyExists (wrapped) when the pending email collided
//     with a concurrently registered address.
func (a *accountService) VerifyEmail(ctx context.Context, req models.VerifyEmailRequest) (models.Account, error) {
	log := logger.FromContext(ctx)

	if req.Email == "" || req.Token == "" {
		return models.Account{}, ErrInvalidDataProvided
	}

	account, err := a.accountRepository.VerifyEmail(ctx, req.Email, req.Token, a.now())
	if err != nil {
		if errors.Is(err, store.ErrNoValidToken) {
			log.Error().Str("email", req.Email).Msg("verification attempt with invalid token")
			return models.Account{}, ErrInvalidToken
		}
		log.Err(err).Str("email", req.Email).Msg("email verification ended with error")
		return models.Account{}, fmt.Errorf("email verification ended with error: %w", err)
	}

	return account, nil
}

// ReplaceToken overwrites the verification token pair. The previous token,
// if any, becomes permanently unusable.
func (a *accountService) ReplaceToken(ctx context.Context, accountID string, req models.ReplaceTokenRequest) (models.Account, error) {
	if accountID == "" || req.Token == "" || req.ExpiresAt.IsZero() {
		return models.Account{}, ErrInvalidDataProvided
	}

	account, err := a.accountRepository.ReplaceToken(ctx, accountID, req.Token, req.ExpiresAt.UTC())
	if err != nil {
		return models.Account{}, fmt.Errorf("token replacement ended with error: %w", err)
	}

	return account, nil
}

// ValidToken reports the outstanding verification token. Expiry is
// evaluated lazily here; expired tokens are never swept from storage.
func (a *accountService) ValidToken(ctx context.Context, accountID string) (models.TokenResponse, error) {
	if accountID == "" {
		return models.TokenResponse{}, ErrInvalidDataProvided
	}

	account, err := a.accountRepository.FindByID(ctx, accountID)
	if err != nil {
		return models.TokenResponse{}, fmt.Errorf("account search by id failed: %w", err)
	}

	if !account.HasValidToken(a.now()) {
		return models.TokenResponse{}, ErrNoValidToken
	}

	return models.TokenResponse{
		Token:     *account.VerificationToken,
		ExpiresAt: *account.TokenExpiresAt,
	}, nil
}

// UpdateProfile applies a partial profile update on behalf of caller.
//
// Name changes apply immediately. An email value that differs from the
// active address never overwrites it: it is recorded as the pending email
// together with a freshly issued verification token, and EmailChanged is
// reported so the caller can trigger re-verification. Supplying the
// current address again is a no-op.
//
// Returns ErrForbidden unless the caller owns the account or is
// admin-or-above.
func (a *accountService) UpdateProfile(ctx context.Context, caller models.Caller, accountID string, req models.UpdateProfileRequest) (models.UpdateProfileResponse, error) {
	log := logger.FromContext(ctx)

	if !caller.IsOwner(accountID) && !caller.Type.IsAdminOrAbove() {
		return models.UpdateProfileResponse{}, ErrForbidden
	}
	if req.FirstName == nil && req.LastName == nil && req.Email == nil {
		return models.UpdateProfileResponse{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, validators.ErrNoFieldsToUpdate)
	}
	if err := a.validateProfileUpdate(req); err != nil {
		return models.UpdateProfileResponse{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	account, err := a.accountRepository.FindByID(ctx, accountID)
	if err != nil {
		return models.UpdateProfileResponse{}, fmt.Errorf("account search by id failed: %w", err)
	}

	if req.FirstName != nil || req.LastName != nil {
		account, err = a.accountRepository.UpdateNames(ctx, accountID, req.FirstName, req.LastName)
		if err != nil {
			log.Err(err).Str("accountID", accountID).Msg("name update ended with error")
			return models.UpdateProfileResponse{}, fmt.Errorf("name update ended with error: %w", err)
		}
	}

	emailChanged := false
	if req.Email != nil {
		newEmail := strings.ToLower(*req.Email)
		if newEmail != strings.ToLower(account.Email) {
			token := a.ids.Generate()
			expiresAt := a.now().Add(a.tokenTTL)

			account, err = a.accountRepository.StartEmailChange(ctx, accountID, newEmail, token, expiresAt)
			if err != nil {
				log.Err(err).Str("accountID", accountID).Msg("email change ended with error")
				return models.UpdateProfileResponse{}, fmt.Errorf("email change ended with error: %w", err)
			}
			emailChanged = true
		}
	}

	return models.UpdateProfileResponse{Account: account, EmailChanged: emailChanged}, nil
}

func (a *accountService) validateProfileUpdate(req models.UpdateProfileRequest) error {
	if req.FirstName != nil {
		if err := validators.ValidateFirstName(*req.FirstName); err != nil {
			return err
		}
	}
	if req.LastName != nil {
		if err := validators.ValidateLastName(*req.LastName); err != nil {
			return err
		}
	}
	if req.Email != nil {
		if err := validators.ValidateEmail(*req.Email); err != nil {
			return err
		}
	}
	return nil
}

// UpdateProfileImage replaces the profile image URL. Only the owner may do
// this; admins edit names, not avatars.
func (a *accountService) UpdateProfileImage(ctx context.Context, caller models.Caller, accountID string, imageURL string) (models.Account, error) {
	if !caller.IsOwner(accountID) {
		return models.Account{}, ErrForbidden
	}
	if err := validators.ValidateImageURL(imageURL); err != nil {
		return models.Account{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	account, err := a.accountRepository.UpdateProfileImage(ctx, accountID, imageURL)
	if err != nil {
		return models.Account{}, fmt.Errorf("profile image update ended with error: %w", err)
	}

	return account, nil
}

// Ban deactivates an account. Banning an already banned account succeeds.
// The super_admin account can never be banned; a self-ban by an admin is
// deliberately allowed.
func (a *accountService) Ban(ctx context.Context, caller models.Caller, accountID string) (models.Account, error) {
	return a.setActive(ctx, caller, accountID, false)
}

// Unban reactivates an account. Unbanning an active account succeeds.
func (a *accountService) Unban(ctx context.Context, caller models.Caller, accountID string) (models.Account, error) {
	return a.setActive(ctx, caller, accountID, true)
}

func (a *accountService) setActive(ctx context.Context, caller models.Caller, accountID string, active bool) (models.Account, error) {
	log := logger.FromContext(ctx)

	if !caller.Type.IsAdminOrAbove() {
		return models.Account{}, ErrForbidden
	}

	account, err := a.accountRepository.FindByID(ctx, accountID)
	if err != nil {
		return models.Account{}, fmt.Errorf("account search by id failed: %w", err)
	}
	if account.Type == models.TypeSuperAdmin {
		log.Error().Str("accountID", accountID).Msg("attempt to change active flag of super admin")
		return models.Account{}, ErrForbidden
	}

	account, err = a.accountRepository.SetActive(ctx, accountID, active)
	if err != nil {
		return models.Account{}, fmt.Errorf("active flag update ended with error: %w", err)
	}

	return account, nil
}

// Promote moves a normal account to admin. Any other current type is
// rejected with ErrInvalidState.
func (a *accountService) Promote(ctx context.Context, caller models.Caller, accountID string) (models.Account, error) {
	return a.changeType(ctx, caller, accountID, models.TypeNormal, models.TypeAdmin)
}

// Demote moves an admin account back to normal. Any other current type is
// rejected with ErrInvalidState.
func (a *accountService) Demote(ctx context.Context, caller models.Caller, accountID string) (models.Account, error) {
	return a.changeType(ctx, caller, accountID, models.TypeAdmin, models.TypeNormal)
}

func (a *accountService) changeType(ctx context.Context, caller models.Caller, accountID string, from, to models.AccountType) (models.Account, error) {
	log := logger.FromContext(ctx)

	if caller.Type != models.TypeSuperAdmin {
		return models.Account{}, ErrForbidden
	}

	account, err := a.accountRepository.ChangeType(ctx, accountID, from, to)
	if err != nil {
		if errors.Is(err, store.ErrTypeTransitionNotAllowed) {
			log.Error().
				Str("accountID", accountID).
				Str("from", string(from)).
				Str("to", string(to)).
				Msg("type transition not allowed")
			return models.Account{}, ErrInvalidState
		}
		return models.Account{}, fmt.Errorf("type change ended with error: %w", err)
	}

	return account, nil
}

// Delete permanently removes an account and its record. The super_admin
// account is protected to preserve the exactly-one invariant.
func (a *accountService) Delete(ctx context.Context, caller models.Caller, accountID string) error {
	log := logger.FromContext(ctx)

	if caller.Type != models.TypeSuperAdmin {
		return ErrForbidden
	}

	account, err := a.accountRepository.FindByID(ctx, accountID)
	if err != nil {
		return fmt.Errorf("account search by id failed: %w", err)
	}
	if account.Type == models.TypeSuperAdmin {
		log.Error().Str("accountID", accountID).Msg("attempt to delete super admin")
		return ErrForbidden
	}

	if err = a.accountRepository.DeleteAccount(ctx, accountID); err != nil {
		return fmt.Errorf("account deletion ended with error: %w", err)
	}

	return nil
}

// List returns one page of accounts ordered by account id ascending.
//
// Page numbers are 1-based; non-positive values fall back to the first
// page. The page size falls back to the configured default and is clamped
// to the configured maximum. A page past the end yields an empty list with
// the true total.
func (a *accountService) List(ctx context.Context, caller models.Caller, page, pageSize int) (models.ListAccountsResponse, error) {
	if !caller.Type.IsAdminOrAbove() {
		return models.ListAccountsResponse{}, ErrForbidden
	}

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = a.defaultPageSize
	}
	if pageSize > a.maxPageSize {
		pageSize = a.maxPageSize
	}

	limit := uint64(pageSize)
	offset := uint64(page-1) * limit

	accounts, total, err := a.accountRepository.ListAccounts(ctx, limit, offset)
	if err != nil {
		return models.ListAccountsResponse{}, fmt.Errorf("account listing ended with error: %w", err)
	}
	if accounts == nil {
		accounts = []models.Account{}
	}

	pages := (total + int64(pageSize) - 1) / int64(pageSize)

	return models.ListAccountsResponse{
		Accounts: accounts,
		Pagination: models.Pagination{
			Page:     page,
			PageSize: pageSize,
			Total:    total,
			Pages:    pages,
		},
	}, nil
}
