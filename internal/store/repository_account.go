package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"

	"github.com/snikitin/accounts-service/internal/logger"
	"github.com/snikitin/accounts-service/models"
)

// accountRepository is the PostgreSQL-backed implementation of
// [AccountRepository]. It executes all account CRUD operations and state
// transitions against the "accounts" table.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type accountRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewAccountRepository constructs an [AccountRepository] backed by the
// provided database connection and logger.
func NewAccountRepository(db *DB, logger *logger.Logger) AccountRepository {
	logger.Debug().Msg("creating account repository")
	return &accountRepository{
		db:     db,
		logger: logger,
	}
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanAccount.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanAccount reads one row in accountColumns order into acc.
func scanAccount(row rowScanner, acc *models.Account) error {
	return row.Scan(
		&acc.AccountID,
		&acc.FirstName,
		&acc.LastName,
		&acc.Email,
		&acc.PendingEmail,
		&acc.PasswordHash,
		&acc.Active,
		&acc.EmailVerified,
		&acc.VerificationToken,
		&acc.TokenExpiresAt,
		&acc.DateJoined,
		&acc.Type,
		&acc.ProfileImageURL,
	)
}

// logUnexpected logs a driver-level error together with its retryability
// classification so operators know whether a replayed request could succeed.
func (r *accountRepository) logUnexpected(ctx context.Context, fn string, err error) {
	log := logger.FromContext(ctx)
	log.Err(err).
		Str("func", fn).
		Bool("retryable", r.db.errorClassificator.Classify(err) == Retryable).
		Msg("unexpected DB error")
}

// CreateAccount persists a new account record and returns the fully
// populated [models.Account] with server-assigned defaults (active,
// email_verified, date_joined).
//
// The INSERT uses the [createAccount] query which returns all columns via a
// RETURNING clause, so the caller receives the canonical database
// representation of the newly created record.
//
// Error handling:
//   - PostgreSQL unique_violation (23505) → [ErrEmailAlreadyExists].
//   - Any other driver-level error → wrapped as "unexpected DB error".
//   - Scan failure → wrapped [ErrScanningRow].
func (r *accountRepository) CreateAccount(ctx context.Context, account models.Account) (models.Account, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createAccount,
		account.AccountID,
		account.FirstName,
		account.LastName,
		account.Email,
		account.PasswordHash,
		account.VerificationToken,
		account.TokenExpiresAt,
		account.Type,
	)

	if err := row.Err(); err != nil {
		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			log.Err(err).Str("func", "*accountRepository.CreateAccount").Str("email", account.Email).Msg("email already registered")
			return models.Account{}, ErrEmailAlreadyExists
		default:
			r.logUnexpected(ctx, "*accountRepository.CreateAccount", err)
			return models.Account{}, fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	var created models.Account
	if err := scanAccount(row, &created); err != nil {
		log.Err(err).Str("func", "*accountRepository.CreateAccount").Msg("error: scanning error")
		return models.Account{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return created, nil
}

func (r *accountRepository) FindByID(ctx context.Context, accountID string) (models.Account, error) {
	return r.findOne(ctx, "*accountRepository.FindByID", findAccountByID, accountID)
}

func (r *accountRepository) FindByEmail(ctx context.Context, email string) (models.Account, error) {
	return r.findOne(ctx, "*accountRepository.FindByEmail", findAccountByEmail, email)
}

func (r *accountRepository) FindByPendingEmail(ctx context.Context, email string) (models.Account, error) {
	return r.findOne(ctx, "*accountRepository.FindByPendingEmail", findAccountByPendingEmail, email)
}

// findOne runs a single-row SELECT and maps an empty result to
// [ErrAccountNotFound].
func (r *accountRepository) findOne(ctx context.Context, fn, query string, arg any) (models.Account, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, query, arg)
	if err := row.Err(); err != nil {
		r.logUnexpected(ctx, fn, err)
		return models.Account{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	var found models.Account
	if err := scanAccount(row, &found); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Account{}, ErrAccountNotFound
		}
		log.Err(err).Str("func", fn).Msg("error: scanning error")
		return models.Account{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return found, nil
}

// VerifyEmail implements the verification transition as one transaction:
// the account row is locked, the token is compared in application code, and
// the [applyVerification] statement rewrites the record. Locking first
// guarantees that two concurrent attempts with the same token cannot both
// observe it as outstanding.
func (r *accountRepository) VerifyEmail(ctx context.Context, email, token string, now time.Time) (models.Account, error) {
	log := logger.FromContext(ctx)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "*accountRepository.VerifyEmail").Msg("failed to begin transaction")
		return models.Account{}, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	var acc models.Account
	if err := scanAccount(tx.QueryRowContext(ctx, selectForUpdateByEmail, email), &acc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Account{}, ErrAccountNotFound
		}
		log.Err(err).Str("func", "*accountRepository.VerifyEmail").Msg("error: scanning error")
		return models.Account{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	// One collapsed outcome for "no token", "mismatch", and "expired".
	if acc.VerificationToken == nil || acc.TokenExpiresAt == nil ||
		*acc.VerificationToken != token || !acc.TokenExpiresAt.After(now) {
		return models.Account{}, ErrNoValidToken
	}

	var updated models.Account
	row := tx.QueryRowContext(ctx, applyVerification, acc.AccountID)
	if err := row.Err(); err != nil {
		// The pending email may have been registered by someone else since
		// the change was requested; the unique index is the backstop.
		if postgresError(err) == pgerrcode.UniqueViolation {
			return models.Account{}, ErrEmailAlreadyExists
		}
		r.logUnexpected(ctx, "*accountRepository.VerifyEmail", err)
		return models.Account{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if err := scanAccount(row, &updated); err != nil {
		if postgresError(err) == pgerrcode.UniqueViolation {
			return models.Account{}, ErrEmailAlreadyExists
		}
		log.Err(err).Str("func", "*accountRepository.VerifyEmail").Msg("error: scanning error")
		return models.Account{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	if commitErr := tx.Commit(); commitErr != nil {
		log.Err(commitErr).Str("func", "*accountRepository.VerifyEmail").Msg("failed to commit transaction")
		return models.Account{}, fmt.Errorf("%w: %w", ErrCommitingTransaction, commitErr)
	}

	return updated, nil
}

// ReplaceToken overwrites the verification token pair in a single UPDATE.
func (r *accountRepository) ReplaceToken(ctx context.Context, accountID, token string, expiresAt time.Time) (models.Account, error) {
	return r.updateOne(ctx, "*accountRepository.ReplaceToken", replaceToken, accountID, token, expiresAt)
}

// UpdateNames applies the dynamically built partial name update.
// Calling it with both fields nil is a programming error upstream; the
// builder would produce an invalid statement, so the service never does.
func (r *accountRepository) UpdateNames(ctx context.Context, accountID string, firstName, lastName *string) (models.Account, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdateNamesQuery(accountID, firstName, lastName)
	if err != nil {
		log.Err(err).Str("func", "*accountRepository.UpdateNames").Msg("failed to build query")
		return models.Account{}, err
	}

	return r.updateOne(ctx, "*accountRepository.UpdateNames", query, args...)
}

// StartEmailChange records the pending email and fresh token pair after an
// in-transaction conflict check. The partial unique index on
// LOWER(pending_email) is the backstop for two concurrent change requests
// targeting the same address.
func (r *accountRepository) StartEmailChange(ctx context.Context, accountID, newEmail, token string, expiresAt time.Time) (models.Account, error) {
	log := logger.FromContext(ctx)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "*accountRepository.StartEmailChange").Msg("failed to begin transaction")
		return models.Account{}, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	var inUse bool
	if err := tx.QueryRowContext(ctx, emailInUseByOther, newEmail, accountID).Scan(&inUse); err != nil {
		r.logUnexpected(ctx, "*accountRepository.StartEmailChange", err)
		return models.Account{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if inUse {
		return models.Account{}, ErrEmailAlreadyExists
	}

	var updated models.Account
	row := tx.QueryRowContext(ctx, setPendingEmail, accountID, newEmail, token, expiresAt)
	if err := row.Err(); err != nil {
		if postgresError(err) == pgerrcode.UniqueViolation {
			return models.Account{}, ErrEmailAlreadyExists
		}
		r.logUnexpected(ctx, "*accountRepository.StartEmailChange", err)
		return models.Account{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if err := scanAccount(row, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Account{}, ErrAccountNotFound
		}
		if postgresError(err) == pgerrcode.UniqueViolation {
			return models.Account{}, ErrEmailAlreadyExists
		}
		log.Err(err).Str("func", "*accountRepository.StartEmailChange").Msg("error: scanning error")
		return models.Account{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	if commitErr := tx.Commit(); commitErr != nil {
		log.Err(commitErr).Str("func", "*accountRepository.StartEmailChange").Msg("failed to commit transaction")
		return models.Account{}, fmt.Errorf("%w: %w", ErrCommitingTransaction, commitErr)
	}

	return updated, nil
}

func (r *accountRepository) UpdateProfileImage(ctx context.Context, accountID, imageURL string) (models.Account, error) {
	return r.updateOne(ctx, "*accountRepository.UpdateProfileImage", updateProfileImage, accountID, imageURL)
}

func (r *accountRepository) SetActive(ctx context.Context, accountID string, active bool) (models.Account, error) {
	return r.updateOne(ctx, "*accountRepository.SetActive", setActive, accountID, active)
}

// ChangeType moves the account between types inside a transaction. The row
// is locked first so a concurrent promote/demote on the same account cannot
// slip between the precondition check and the UPDATE.
func (r *accountRepository) ChangeType(ctx context.Context, accountID string, from, to models.AccountType) (models.Account, error) {
	log := logger.FromContext(ctx)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "*accountRepository.ChangeType").Msg("failed to begin transaction")
		return models.Account{}, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	var acc models.Account
	if err := scanAccount(tx.QueryRowContext(ctx, selectForUpdateByID, accountID), &acc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Account{}, ErrAccountNotFound
		}
		log.Err(err).Str("func", "*accountRepository.ChangeType").Msg("error: scanning error")
		return models.Account{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	if acc.Type != from {
		log.Debug().
			Str("account_id", accountID).
			Str("current_type", string(acc.Type)).
			Str("required_type", string(from)).
			Msg("type transition precondition failed")
		return models.Account{}, ErrTypeTransitionNotAllowed
	}

	var updated models.Account
	if err := scanAccount(tx.QueryRowContext(ctx, changeType, accountID, to), &updated); err != nil {
		log.Err(err).Str("func", "*accountRepository.ChangeType").Msg("error: scanning error")
		return models.Account{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	if commitErr := tx.Commit(); commitErr != nil {
		log.Err(commitErr).Str("func", "*accountRepository.ChangeType").Msg("failed to commit transaction")
		return models.Account{}, fmt.Errorf("%w: %w", ErrCommitingTransaction, commitErr)
	}

	return updated, nil
}

// DeleteAccount removes the row permanently. Zero affected rows means the
// id never existed (or was already deleted) and maps to ErrAccountNotFound.
func (r *accountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, deleteAccount, accountID)
	if err != nil {
		r.logUnexpected(ctx, "*accountRepository.DeleteAccount", err)
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		log.Err(err).Str("func", "*accountRepository.DeleteAccount").Msg("failed to read affected rows")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrAccountNotFound
	}

	return nil
}

// ListAccounts returns one page plus the total count. The count runs after
// the page query; a page beyond the end yields an empty slice, not an error.
func (r *accountRepository) ListAccounts(ctx context.Context, limit, offset uint64) ([]models.Account, int64, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListAccountsQuery(limit, offset)
	if err != nil {
		log.Err(err).Str("func", "*accountRepository.ListAccounts").Msg("failed to build query")
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logUnexpected(ctx, "*accountRepository.ListAccounts", err)
		return nil, 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	accounts := make([]models.Account, 0, limit)
	for rows.Next() {
		var acc models.Account
		if scanErr := scanAccount(rows, &acc); scanErr != nil {
			log.Err(scanErr).Str("func", "*accountRepository.ListAccounts").Msg("failed to scan account row")
			return nil, 0, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		accounts = append(accounts, acc)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", "*accountRepository.ListAccounts").Msg("error occurred during rows iteration")
		return nil, 0, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, countAccounts).Scan(&total); err != nil {
		r.logUnexpected(ctx, "*accountRepository.ListAccounts", err)
		return nil, 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return accounts, total, nil
}

// updateOne runs a single-row UPDATE ... RETURNING statement and maps an
// empty result to [ErrAccountNotFound].
func (r *accountRepository) updateOne(ctx context.Context, fn, query string, args ...any) (models.Account, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, query, args...)
	if err := row.Err(); err != nil {
		r.logUnexpected(ctx, fn, err)
		return models.Account{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	var updated models.Account
	if err := scanAccount(row, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Account{}, ErrAccountNotFound
		}
		log.Err(err).Str("func", fn).Msg("error: scanning error")
		return models.Account{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return updated, nil
}
