package postgres

import (
	"github.com/oklog/ulid/v2"
)

// AccountNumberPrefix starts every generated account number.
const AccountNumberPrefix = "BK"

// ULIDGenerator generates ULID-based IDs.
type ULIDGenerator struct{}

// NewULIDGenerator creates a new ULIDGenerator.
func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{}
}

// Generate generates a new ULID.
func (g *ULIDGenerator) Generate() string {
	return ulid.Make().String()
}

// AccountNumberGenerator derives account numbers from the random part of a ULID.
// Numbers are not guaranteed unique; callers check before use.
type AccountNumberGenerator struct{}

// NewAccountNumberGenerator creates a new AccountNumberGenerator.
func NewAccountNumberGenerator() *AccountNumberGenerator {
	return &AccountNumberGenerator{}
}

// Generate returns a candidate such as "BK7ZQ4M1X9KD2F".
func (g *AccountNumberGenerator) Generate() string {
	id := ulid.Make().String()

	// The last 16 characters are entropy; 12 of them are plenty.
	return AccountNumberPrefix + id[len(id)-12:]
}
