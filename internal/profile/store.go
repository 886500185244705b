// Package profile persists the per-user remembered loan fields.
package profile

import (
	"context"

	"loan-clarity-resolver/internal/models"
)

// Store loads and saves user profiles. Get never fails on absent or
// corrupt data: a missing row yields the default profile so a first-time
// user starts a conversation without setup.
type Store interface {
	Get(ctx context.Context, userID string) (models.LoanProfile, error)
	Put(ctx context.Context, userID string, p models.LoanProfile) error
}
