package models

// Caller is the identity the API gateway asserts for an external request.
// The gateway has already validated the caller's JWT; this service trusts
// the injected values verbatim and never re-derives or re-validates them.
type Caller struct {
	// AccountID is the caller's account identifier.
	AccountID string

	// Type is the caller's role as asserted by the gateway.
	Type AccountType
}

// IsOwner reports whether the caller is the owner of the given account.
func (c Caller) IsOwner(accountID string) bool {
	return c.AccountID == accountID
}
