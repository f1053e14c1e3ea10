package store

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/snikitin/accounts-service/models"
)

// accountColumns is the canonical column order used by every account query.
// Scan targets in scanAccount must match it exactly.
const accountColumns = `account_id, first_name, last_name, email, pending_email, password_hash, 
    active, email_verified, verification_token, token_expires_at, date_joined, type, profile_image_url`

const (
	createAccount = `INSERT INTO accounts (account_id, first_name, last_name, email, password_hash, verification_token, token_expires_at, type) 
    VALUES ($1, $2, $3, LOWER($4), $5, $6, $7, $8) 
    RETURNING ` + accountColumns + `;`

	findAccountByID = `SELECT ` + accountColumns + ` 
    FROM accounts 
    WHERE account_id = $1;`

	findAccountByEmail = `SELECT ` + accountColumns + ` 
    FROM accounts 
    WHERE LOWER(email) = LOWER($1);`

	findAccountByPendingEmail = `SELECT ` + accountColumns + ` 
    FROM accounts 
    WHERE pending_email = $1;`

	selectForUpdateByEmail = `SELECT ` + accountColumns + ` 
    FROM accounts 
    WHERE LOWER(email) = LOWER($1) 
    FOR UPDATE;`

	selectForUpdateByID = `SELECT ` + accountColumns + ` 
    FROM accounts 
    WHERE account_id = $1 
    FOR UPDATE;`

	// applyVerification performs the entire verification transition in one
	// statement: pending email (if any) becomes the active email, the token
	// pair is cleared, and an unverified account is promoted to normal.
	applyVerification = `UPDATE accounts 
    SET email = COALESCE(pending_email, email), 
        pending_email = NULL, 
        email_verified = TRUE, 
        verification_token = NULL, 
        token_expires_at = NULL, 
        type = CASE WHEN type = 'unverified' THEN 'normal' ELSE type END 
    WHERE account_id = $1 
    RETURNING ` + accountColumns + `;`

	replaceToken = `UPDATE accounts 
    SET verification_token = $2, token_expires_at = $3 
    WHERE account_id = $1 
    RETURNING ` + accountColumns + `;`

	// emailInUseByOther checks both active and pending addresses of all
	// other accounts; an email change must not collide with either.
	emailInUseByOther = `SELECT EXISTS (
        SELECT 1 FROM accounts 
        WHERE (LOWER(email) = LOWER($1) OR LOWER(pending_email) = LOWER($1)) AND account_id <> $2
    );`

	setPendingEmail = `UPDATE accounts 
    SET pending_email = LOWER($2), verification_token = $3, token_expires_at = $4 
    WHERE account_id = $1 
    RETURNING ` + accountColumns + `;`

	updateProfileImage = `UPDATE accounts 
    SET profile_image_url = $2 
    WHERE account_id = $1 
    RETURNING ` + accountColumns + `;`

	setActive = `UPDATE accounts 
    SET active = $2 
    WHERE account_id = $1 
    RETURNING ` + accountColumns + `;`

	changeType = `UPDATE accounts 
    SET type = $2 
    WHERE account_id = $1 
    RETURNING ` + accountColumns + `;`

	deleteAccount = `DELETE FROM accounts 
    WHERE account_id = $1;`

	countAccounts = `SELECT COUNT(*) FROM accounts;`
)

// buildUpdateNamesQuery dynamically builds the partial UPDATE for the name
// fields. At least one of firstName/lastName must be non-nil.
func buildUpdateNamesQuery(accountID string, firstName, lastName *string) (string, []any, error) {
	builder := sq.Update("accounts").
		PlaceholderFormat(sq.Dollar).
		Where(sq.Eq{"account_id": accountID}).
		Suffix("RETURNING " + accountColumns)

	if firstName != nil {
		builder = builder.Set("first_name", *firstName)
	}
	if lastName != nil {
		builder = builder.Set("last_name", *lastName)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}

// buildListAccountsQuery builds the paginated listing query. Ordering by
// account_id gives a stable, creation-ordered sort because identifiers are
// time-ordered UUIDv7 values.
func buildListAccountsQuery(limit, offset uint64) (string, []any, error) {
	query, args, err := sq.Select(accountColumns).
		PlaceholderFormat(sq.Dollar).
		From(models.Account{}.TableName()).
		OrderBy("account_id ASC").
		Limit(limit).
		Offset(offset).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}
