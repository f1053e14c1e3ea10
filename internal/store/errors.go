package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrEmailAlreadyExists is returned when an insert or email change
	// fails because the address is already held — as active or pending
	// email — by another account. The comparison is case-insensitive and
	// backstopped by unique indexes in the database.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrAccountNotFound is returned when a query expected to match a
	// single account record produces an empty result set.
	ErrAccountNotFound = errors.New("no account was found")

	// ErrNoValidToken is returned by the verification transition when the
	// account has no outstanding token, the supplied token does not match,
	// or the token has expired. The three cases are deliberately collapsed
	// so callers cannot tell which one occurred.
	ErrNoValidToken = errors.New("no valid verification token")

	// ErrTypeTransitionNotAllowed is returned when a type change targets an
	// account whose current type does not satisfy the transition's
	// precondition (e.g. promoting anything but a normal account).
	ErrTypeTransitionNotAllowed = errors.New("account type transition not allowed")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning a single result row into the
	// target model fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when iterating or scanning a multi-row
	// result set fails.
	ErrScanningRows = errors.New("failed to scan rows")
)
