package profile

import (
	"context"
	"database/sql"
	"encoding/json"

	"loan-clarity-resolver/internal/common/database"
	"loan-clarity-resolver/internal/common/errors"
	"loan-clarity-resolver/internal/common/logger"
	"loan-clarity-resolver/internal/models"
)

const (
	selectProfileQuery = `SELECT profile FROM loan_profiles WHERE user_id = $1`
	upsertProfileQuery = `
		INSERT INTO loan_profiles (user_id, profile, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id)
		DO UPDATE SET profile = EXCLUDED.profile, updated_at = now()`
)

// PostgresStore keeps profiles in a single JSONB row per user.
type PostgresStore struct {
	db     *database.PostgresClient
	logger logger.Logger
}

func NewPostgresStore(db *database.PostgresClient, log logger.Logger) *PostgresStore {
	return &PostgresStore{db: db, logger: log}
}

// Get returns the stored profile hydrated over the defaults. A missing
// row is not an error; corrupt JSON is logged and replaced by defaults
// so one bad row never wedges a user's conversation.
func (s *PostgresStore) Get(ctx context.Context, userID string) (models.LoanProfile, error) {
	var raw []byte
	err := s.db.QueryRow(ctx, selectProfileQuery, userID).Scan(&raw)
	if err == sql.ErrNoRows {
		return models.DefaultProfile(), nil
	}
	if err != nil {
		return nil, errors.NewProfileLoadFailedError(userID, err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		s.logger.Warn("stored profile is not valid JSON, falling back to defaults", map[string]interface{}{
			"user_id": userID,
		})
		return models.DefaultProfile(), nil
	}
	return models.HydrateProfile(decoded), nil
}

// Put upserts the full profile blob.
func (s *PostgresStore) Put(ctx context.Context, userID string, p models.LoanProfile) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return errors.NewProfileSaveFailedError(userID, err)
	}
	if _, err := s.db.Exec(ctx, upsertProfileQuery, userID, raw); err != nil {
		return errors.NewProfileSaveFailedError(userID, err)
	}
	return nil
}
