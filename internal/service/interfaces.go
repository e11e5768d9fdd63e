// Package service defines the interfaces shared by the storage backends and
// the tools that persist through them.
package service

import (
	"context"
)

// Document keys. Each tool owns exactly one document, except the budget
// estimator which also writes its derived summary.
const (
	KeyLoans         = "loanLensState"
	KeyTarget        = "investmentTargetState"
	KeyPlanner       = "investmentPlannerState"
	KeyBudget        = "budgetEstimator"
	KeyBudgetSummary = "budgetEstimatorSummary"
	KeyProfile       = "aboutYouProfile"
)

// Keys lists every document key in a stable order.
func Keys() []string {
	return []string{KeyLoans, KeyTarget, KeyPlanner, KeyBudget, KeyBudgetSummary, KeyProfile}
}

// IsKnownKey reports whether key names one of the persisted documents.
func IsKnownKey(key string) bool {
	for _, k := range Keys() {
		if k == key {
			return true
		}
	}
	return false
}

// Reader reads raw documents. Get returns common.ErrNotFound for absent keys.
type Reader interface {
	Get(ctx context.Context, key string) ([]byte, error)
}

// Store is the shared local state store: one JSON document per key,
// last writer wins.
type Store interface {
	Reader
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes a document. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Keys lists the keys currently holding a document.
	Keys(ctx context.Context) ([]string, error)
	Close() error
}

// Migrator is implemented by backends with a schema to bring up to date.
type Migrator interface {
	Migrate(ctx context.Context) error
}
