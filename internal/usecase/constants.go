package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// DefaultAccountNumberAttempts bounds the search for an unused account number.
	DefaultAccountNumberAttempts = 10

	// reconciliationPageSize is the page size used when walking all accounts.
	reconciliationPageSize = 100
)
