package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// BalanceCacheTTL is how long aggregated balances stay cached before a
	// read goes back to the store
	BalanceCacheTTL = 5 * time.Minute

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour
)
