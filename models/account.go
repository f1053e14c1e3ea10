package models

import "time"

// AccountType is the role assigned to an account. It drives every
// authorization decision in the external API and constrains which state
// transitions are legal (see the service layer's Promote/Demote rules).
type AccountType string

const (
	// TypeVisitor is an anonymous, never-registered caller. It never
	// appears on a persisted account; it exists so gateway-injected
	// identity values can express "no role".
	TypeVisitor AccountType = "visitor"

	// TypeUnverified is the type assigned at registration. The only way
	// out of it is a successful email verification.
	TypeUnverified AccountType = "unverified"

	// TypeNormal is a verified regular account.
	TypeNormal AccountType = "normal"

	// TypeAdmin may list accounts, edit any profile, and ban/unban.
	TypeAdmin AccountType = "admin"

	// TypeSuperAdmin is the single system-wide operator account. It is
	// provisioned out-of-band and can never be created, banned, or
	// deleted through the API.
	TypeSuperAdmin AccountType = "super_admin"
)

// Valid reports whether t is one of the known account types.
func (t AccountType) Valid() bool {
	switch t {
	case TypeVisitor, TypeUnverified, TypeNormal, TypeAdmin, TypeSuperAdmin:
		return true
	}
	return false
}

// IsAdminOrAbove reports whether t carries admin privileges.
func (t AccountType) IsAdminOrAbove() bool {
	return t == TypeAdmin || t == TypeSuperAdmin
}

// Account represents a persisted user account record.
// Credential data never leaves the service: PasswordHash is stored as an
// opaque value produced by the external auth service and is excluded from
// every JSON representation.
type Account struct {
	// AccountID is the unique identifier, generated as a UUIDv7 at
	// registration time and immutable afterwards.
	AccountID string `json:"accountId"`

	// FirstName and LastName are required profile fields, at most 50
	// characters each.
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`

	// Email is the active, globally unique address. Stored lowercased;
	// uniqueness is case-insensitive.
	Email string `json:"email"`

	// PendingEmail holds a requested-but-unconfirmed new address while an
	// email change is in flight. It is cleared when the change is verified.
	PendingEmail *string `json:"pendingEmail,omitempty"`

	// PasswordHash is an opaque hash computed by the auth service before
	// the account reaches this service. Never serialized.
	PasswordHash string `json:"-"`

	// Active is false when the account is banned. A banned account keeps
	// its row; only authorization is denied downstream.
	Active bool `json:"active"`

	// EmailVerified reports whether the active email address has been
	// proven via the verification-token flow.
	EmailVerified bool `json:"emailVerified"`

	// VerificationToken and TokenExpiresAt are either both present or both
	// absent. The token is single-use and evaluated lazily against the
	// expiry on every read; expired tokens are never swept proactively.
	VerificationToken *string    `json:"-"`
	TokenExpiresAt    *time.Time `json:"-"`

	// DateJoined is set once at creation.
	DateJoined time.Time `json:"dateJoined"`

	// Type is the account's role.
	Type AccountType `json:"type"`

	// ProfileImageURL is an optional link to an externally stored avatar.
	// The service validates its format only, never its reachability.
	ProfileImageURL *string `json:"profileImageUrl,omitempty"`
}

// TableName returns the name of the database table
// associated with the Account model.
func (a Account) TableName() string {
	return "accounts"
}

// HasValidToken reports whether the account carries a verification token
// that has not expired as of now.
func (a Account) HasValidToken(now time.Time) bool {
	return a.VerificationToken != nil && a.TokenExpiresAt != nil && a.TokenExpiresAt.After(now)
}
