package utils

import "github.com/google/uuid"

// UUIDGenerator produces time-ordered identifiers for new accounts.
// UUIDv7 keeps the primary key index append-mostly and gives the account
// list a stable, creation-ordered sort key.
type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
