package dialog

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"loan-clarity-resolver/internal/common/logger"
	"loan-clarity-resolver/internal/common/metrics"
	"loan-clarity-resolver/internal/intent"
	"loan-clarity-resolver/internal/models"
	"loan-clarity-resolver/internal/nlu"
	"loan-clarity-resolver/internal/payload"
	"loan-clarity-resolver/internal/profile"
)

// Invoker dispatches a completed request body to the calculation gateway.
type Invoker interface {
	Invoke(ctx context.Context, in intent.Intent, body map[string]interface{}) (json.RawMessage, error)
}

// Resolution is the outcome of one dialog turn: either a reprompt for the
// listed missing fields, or a completed call with the gateway result.
type Resolution struct {
	Intent        intent.Intent          `json:"intent"`
	Complete      bool                   `json:"complete"`
	Payload       map[string]interface{} `json:"payload,omitempty"`
	MissingFields []string               `json:"missing_fields,omitempty"`
	Prompt        string                 `json:"prompt,omitempty"`
	Result        json.RawMessage        `json:"result,omitempty"`
}

// Service runs the turn loop. Turns for the same user are serialized by a
// keyed mutex so two concurrent messages cannot interleave their
// read-merge-write of profile and pending state.
type Service struct {
	pending  PendingStore
	profiles profile.Store
	gateway  Invoker
	logger   logger.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewService(pending PendingStore, profiles profile.Store, gw Invoker, log logger.Logger) *Service {
	return &Service{
		pending:  pending,
		profiles: profiles,
		gateway:  gw,
		logger:   log,
		locks:    make(map[string]*sync.Mutex),
	}
}

func (s *Service) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userID] = lock
	}
	return lock
}

// Resolve processes one utterance. The sequence is fixed: load state,
// classify, extract, merge, check completeness; then either store the
// partial request and reprompt, or build the body, call the gateway, and
// only on success clear the pending state and persist the merged profile.
func (s *Service) Resolve(ctx context.Context, userID, conversationID, utterance string) (*Resolution, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	start := time.Now()

	pending, err := s.pending.Get(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	stored, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	pendingIntent := intent.None
	if pending != nil {
		pendingIntent = pending.Intent
	}
	in := intent.Classify(utterance, pendingIntent)

	log := s.logger.WithFields(map[string]interface{}{
		"user_id":         userID,
		"conversation_id": conversationID,
		"intent":          string(in),
	})

	// Merge order: stored profile, then fields accumulated in earlier
	// turns of this dialog, then whatever this utterance carries.
	merged := stored.Clone()
	if pending != nil {
		for k, v := range pending.Data {
			merged[k] = v
		}
	}

	required := intent.RequiredFields(in)
	extracted := make(map[string]float64)
	for _, field := range required {
		if value, ok := nlu.ExtractField(field, utterance); ok {
			extracted[field] = value
		}
	}
	merged.MergeNumbers(extracted)

	if f, explicit := nlu.ExtractFrequency(utterance); explicit {
		merged["repayment_frequency"] = f
	}
	if m, explicit := nlu.ExtractInterestMethod(utterance); explicit {
		merged["interest_method"] = m
	}

	var missing []string
	for _, field := range required {
		if v, ok := merged.Number(field); !ok || v == 0 {
			missing = append(missing, field)
		}
	}

	if len(missing) > 0 {
		if err := s.pending.Put(ctx, conversationID, &PendingRequest{Intent: in, Data: merged}); err != nil {
			return nil, err
		}
		metrics.ResolverRepromptsTotal.WithLabelValues(string(in)).Inc()
		metrics.ResolverTurnsTotal.WithLabelValues(string(in), "reprompt").Inc()
		metrics.ResolverTurnDuration.WithLabelValues(string(in)).Observe(time.Since(start).Seconds())
		log.Info("reprompting for missing fields", map[string]interface{}{
			"missing": missing,
		})
		return &Resolution{
			Intent:        in,
			Complete:      false,
			MissingFields: missing,
			Prompt:        repromptText(in, missing),
		}, nil
	}

	body := payload.Build(in, merged, utterance)

	result, err := s.gateway.Invoke(ctx, in, body)
	if err != nil {
		// Leave pending state and profile untouched: the user can repeat
		// the turn once the gateway recovers.
		metrics.ResolverTurnsTotal.WithLabelValues(string(in), "gateway_error").Inc()
		metrics.ResolverTurnDuration.WithLabelValues(string(in)).Observe(time.Since(start).Seconds())
		log.WithError(err).Error("gateway invocation failed", nil)
		return nil, err
	}

	if err := s.pending.Clear(ctx, conversationID); err != nil {
		log.WithError(err).Warn("failed to clear pending state after success", nil)
	}
	if err := s.profiles.Put(ctx, userID, merged); err != nil {
		log.WithError(err).Warn("failed to persist profile after success", nil)
	}

	metrics.ResolverTurnsTotal.WithLabelValues(string(in), "resolved").Inc()
	metrics.ResolverTurnDuration.WithLabelValues(string(in)).Observe(time.Since(start).Seconds())
	log.Info("turn resolved", map[string]interface{}{
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return &Resolution{
		Intent:   in,
		Complete: true,
		Payload:  body,
		Result:   result,
	}, nil
}

// repromptText renders the fixed clarification prompt, with underscores
// spelled out for both the intent and the field names.
func repromptText(in intent.Intent, missing []string) string {
	humanized := make([]string, len(missing))
	for i, field := range missing {
		humanized[i] = strings.ReplaceAll(field, "_", " ")
	}
	return "I need more info to proceed for " + strings.ReplaceAll(string(in), "_", " ") +
		". Please provide: " + strings.Join(humanized, ", ") + "."
}

// Profile exposes the stored profile for the read-only profile endpoint.
func (s *Service) Profile(ctx context.Context, userID string) (models.LoanProfile, error) {
	return s.profiles.Get(ctx, userID)
}
