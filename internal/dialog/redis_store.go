package dialog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"loan-clarity-resolver/internal/common/database"
	"loan-clarity-resolver/internal/common/errors"
	"loan-clarity-resolver/internal/common/logger"
	"loan-clarity-resolver/internal/intent"
)

const pendingKeyPrefix = "dialog:pending:"

// RedisPendingStore keeps pending requests in Redis with a TTL, so
// abandoned conversations expire on their own.
type RedisPendingStore struct {
	client *database.RedisClient
	ttl    time.Duration
	logger logger.Logger
}

func NewRedisPendingStore(client *database.RedisClient, ttl time.Duration, log logger.Logger) *RedisPendingStore {
	return &RedisPendingStore{client: client, ttl: ttl, logger: log}
}

func pendingKey(conversationID string) string {
	return pendingKeyPrefix + conversationID
}

// Get returns the pending request, or nil when none is stored. A corrupt
// entry is logged, cleared, and reported as absent so the conversation
// restarts cleanly instead of erroring forever.
func (s *RedisPendingStore) Get(ctx context.Context, conversationID string) (*PendingRequest, error) {
	raw, err := s.client.Get(ctx, pendingKey(conversationID))
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewPendingStoreFailedError(conversationID, err)
	}

	var req PendingRequest
	if err := json.Unmarshal([]byte(raw), &req); err != nil || !intent.Valid(string(req.Intent)) {
		s.logger.Warn("clearing corrupt pending dialog state", map[string]interface{}{
			"conversation_id": conversationID,
		})
		_ = s.client.Del(ctx, pendingKey(conversationID))
		return nil, nil
	}
	return &req, nil
}

// Put stores the pending request, refreshing the TTL.
func (s *RedisPendingStore) Put(ctx context.Context, conversationID string, req *PendingRequest) error {
	raw, err := json.Marshal(req)
	if err != nil {
		return errors.NewPendingStoreFailedError(conversationID, err)
	}
	if err := s.client.Set(ctx, pendingKey(conversationID), raw, s.ttl); err != nil {
		return errors.NewPendingStoreFailedError(conversationID, err)
	}
	return nil
}

// Clear removes the pending request; clearing an absent key is a no-op.
func (s *RedisPendingStore) Clear(ctx context.Context, conversationID string) error {
	if err := s.client.Del(ctx, pendingKey(conversationID)); err != nil {
		return errors.NewPendingStoreFailedError(conversationID, err)
	}
	return nil
}
