// internal/profile/repository.go

package profile

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrUserNotFound = errors.New("user not found")

type Repository interface {
	// SaveAssessment stores the assessment dimensions and makes the user
	// AVAILABLE for matching.
	SaveAssessment(ctx context.Context, userID string, req *AssessmentRequest) error
	GetUserState(ctx context.Context, userID string) (*UserStateView, error)
	TouchLastActive(ctx context.Context, userID string, at time.Time) error
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) SaveAssessment(ctx context.Context, userID string, req *AssessmentRequest) error {
	query := `
		UPDATE users
		SET emotional_intelligence = $2, communication_style = $3,
			conflict_resolution = $4, relationship_goals = $5, life_values = $6,
			personality_type = $7, love_language = $8, attachment_style = $9,
			state = 'AVAILABLE'
		WHERE id = $1
	`

	res, err := r.db.ExecContext(
		ctx, query,
		userID,
		req.EmotionalIntelligence, req.CommunicationStyle,
		req.ConflictResolution, req.RelationshipGoals, req.LifeValues,
		req.PersonalityType, req.LoveLanguage, req.AttachmentStyle,
	)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *postgresRepository) GetUserState(ctx context.Context, userID string) (*UserStateView, error) {
	var view UserStateView
	query := `
		SELECT state, frozen_until, can_receive_match_at, intentionality_score,
			   total_matches, successful_connections, last_active_at
		FROM users
		WHERE id = $1
	`

	err := r.db.GetContext(ctx, &view, query, userID)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (r *postgresRepository) TouchLastActive(ctx context.Context, userID string, at time.Time) error {
	_, err := r.db.ExecContext(
		ctx,
		`UPDATE users SET last_active_at = $2 WHERE id = $1`,
		userID, at,
	)
	return err
}
