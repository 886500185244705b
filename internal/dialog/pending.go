// Package dialog implements the turn loop: classify, extract, merge,
// check completeness, then either reprompt or dispatch to the gateway.
package dialog

import (
	"context"

	"loan-clarity-resolver/internal/intent"
	"loan-clarity-resolver/internal/models"
)

// PendingRequest is the per-conversation slot-filling state. While it
// exists the conversation is mid-fill: the intent is locked and Data
// accumulates extracted fields across turns.
type PendingRequest struct {
	Intent intent.Intent      `json:"intent"`
	Data   models.LoanProfile `json:"data"`
}

// PendingStore keeps pending requests keyed by conversation. Get returns
// nil when no request is pending; implementations expire entries after
// the configured TTL so an abandoned dialog resets itself.
type PendingStore interface {
	Get(ctx context.Context, conversationID string) (*PendingRequest, error)
	Put(ctx context.Context, conversationID string, req *PendingRequest) error
	Clear(ctx context.Context, conversationID string) error
}
