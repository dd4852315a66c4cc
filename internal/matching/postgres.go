// internal/matching/postgres.go

package matching

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const userColumns = `
	id, first_name, last_name, gender, interested_in, state,
	emotional_intelligence, communication_style, conflict_resolution,
	relationship_goals, life_values, personality_type, love_language,
	attachment_style, intentionality_score, total_matches,
	successful_connections, frozen_until, can_receive_match_at,
	last_match_at, last_active_at`

const matchColumns = `
	id, user1_id, user2_id, compatibility_score, emotional_match,
	communication_match, values_match, personality_match, status,
	message_count, first_message_at, video_call_unlocked,
	video_call_unlocked_at, unpinned_by, unpinned_at, expires_at, created_at`

type postgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore creates a Store backed by PostgreSQL. State and status
// preconditions are enforced with conditional UPDATEs inside transactions:
// a zero row count means a concurrent transition won the race.
func NewPostgresStore(db *sqlx.DB) Store {
	return &postgresStore{db: db}
}

func (s *postgresStore) GetUser(ctx context.Context, id string) (*User, error) {
	var user User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	err := s.db.GetContext(ctx, &user, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *postgresStore) GetMatch(ctx context.Context, id string) (*Match, error) {
	var match Match
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	err := s.db.GetContext(ctx, &match, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrMatchNotFound
	}
	if err != nil {
		return nil, err
	}
	return &match, nil
}

func (s *postgresStore) GetActiveMatchForUser(ctx context.Context, userID string) (*Match, error) {
	var match Match
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE (user1_id = $1 OR user2_id = $1) AND status = $2
		LIMIT 1
	`

	err := s.db.GetContext(ctx, &match, query, userID, MatchActive)
	if err == sql.ErrNoRows {
		return nil, ErrMatchNotFound
	}
	if err != nil {
		return nil, err
	}
	return &match, nil
}

func (s *postgresStore) ListEligibleUsers(ctx context.Context, now time.Time) ([]*User, error) {
	var users []*User
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE state = $1
			  AND emotional_intelligence > 0
			  AND (can_receive_match_at IS NULL OR can_receive_match_at <= $2)
		ORDER BY created_at, id
	`

	if err := s.db.SelectContext(ctx, &users, query, StateAvailable, now); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *postgresStore) ListCandidates(ctx context.Context, user *User, exclude []string) ([]*User, error) {
	var users []*User
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE state = $1
			  AND emotional_intelligence > 0
			  AND gender = $2
			  AND interested_in = $3
			  AND id <> $4
			  AND id <> ALL($5)
		ORDER BY created_at, id
	`

	err := s.db.SelectContext(
		ctx, &users, query,
		StateAvailable, user.InterestedIn, user.Gender, user.ID, pq.Array(exclude),
	)
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (s *postgresStore) MatchedUserIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	query := `
		SELECT CASE WHEN user1_id = $1 THEN user2_id ELSE user1_id END
		FROM matches
		WHERE user1_id = $1 OR user2_id = $1
	`

	if err := s.db.SelectContext(ctx, &ids, query, userID); err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *postgresStore) CreateMatch(ctx context.Context, match *Match, now time.Time) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		for _, userID := range []string{match.User1ID, match.User2ID} {
			if err := pinUser(ctx, tx, userID, now); err != nil {
				return err
			}
		}

		query := `
			INSERT INTO matches (
				id, user1_id, user2_id, compatibility_score, emotional_match,
				communication_match, values_match, personality_match, status,
				expires_at, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`
		_, err := tx.ExecContext(
			ctx, query,
			match.ID, match.User1ID, match.User2ID,
			match.CompatibilityScore, match.EmotionalMatch,
			match.CommunicationMatch, match.ValuesMatch, match.PersonalityMatch,
			match.Status, match.ExpiresAt, match.CreatedAt,
		)
		return err
	})
}

// pinUser is the compare-and-swap half of match creation: the transition
// only applies if the user is still AVAILABLE.
func pinUser(ctx context.Context, tx *sqlx.Tx, userID string, now time.Time) error {
	query := `
		UPDATE users
		SET state = $3, last_match_at = $4, total_matches = total_matches + 1
		WHERE id = $1 AND state = $2
	`

	res, err := tx.ExecContext(ctx, query, userID, StateAvailable, StateMatched, now)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("pin user %s: %w", userID, ErrStateConflict)
	}
	return nil
}

func (s *postgresStore) UnpinMatch(ctx context.Context, match *Match, actor, other *User, feedback *MatchFeedback, penalty int) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			UPDATE matches
			SET status = $3, unpinned_by = $4, unpinned_at = $5
			WHERE id = $1 AND status = $2
		`
		res, err := tx.ExecContext(
			ctx, query,
			match.ID, MatchActive, match.Status, match.UnpinnedBy, match.UnpinnedAt,
		)
		if err != nil {
			return err
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return fmt.Errorf("unpin match %s: %w", match.ID, ErrStateConflict)
		}

		if err := writeUserState(ctx, tx, actor, -penalty); err != nil {
			return err
		}
		if err := writeUserState(ctx, tx, other, 0); err != nil {
			return err
		}

		insert := `
			INSERT INTO match_feedback (
				id, match_id, recipient_id, feedback_type, feedback, insights, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		_, err = tx.ExecContext(
			ctx, insert,
			feedback.ID, feedback.MatchID, feedback.RecipientID,
			feedback.FeedbackType, feedback.Feedback, feedback.Insights,
			feedback.CreatedAt,
		)
		return err
	})
}

// writeUserState rewrites the lifecycle columns and applies the score delta
// relative to the stored value, the same way SaveMilestones rewards.
func writeUserState(ctx context.Context, tx *sqlx.Tx, user *User, scoreDelta int) error {
	query := `
		UPDATE users
		SET state = $2, frozen_until = $3, can_receive_match_at = $4,
			intentionality_score = intentionality_score + $5
		WHERE id = $1
	`

	_, err := tx.ExecContext(
		ctx, query,
		user.ID, user.State, user.FrozenUntil, user.CanReceiveMatchAt,
		scoreDelta,
	)
	return err
}

func (s *postgresStore) SaveMilestones(ctx context.Context, match *Match, rewardUserIDs []string, rewardDelta int) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			UPDATE matches
			SET message_count = $2, first_message_at = $3,
				video_call_unlocked = $4, video_call_unlocked_at = $5
			WHERE id = $1
		`
		_, err := tx.ExecContext(
			ctx, query,
			match.ID, match.MessageCount, match.FirstMessageAt,
			match.VideoCallUnlocked, match.VideoCallUnlockedAt,
		)
		if err != nil {
			return err
		}

		if len(rewardUserIDs) > 0 {
			reward := `
				UPDATE users
				SET intentionality_score = intentionality_score + $1
				WHERE id = ANY($2)
			`
			if _, err := tx.ExecContext(ctx, reward, rewardDelta, pq.Array(rewardUserIDs)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *postgresStore) ExpireMatches(ctx context.Context, now time.Time) ([]*Match, error) {
	var expired []*Match
	query := `
		UPDATE matches
		SET status = $1
		WHERE status = $2 AND expires_at <= $3
		RETURNING ` + matchColumns

	rows, err := s.db.QueryxContext(ctx, query, MatchExpired, MatchActive, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var match Match
		if err := rows.StructScan(&match); err != nil {
			return nil, err
		}
		expired = append(expired, &match)
	}
	return expired, rows.Err()
}

func (s *postgresStore) UnfreezeUsers(ctx context.Context, now time.Time) (int, error) {
	query := `
		UPDATE users
		SET state = $1, frozen_until = NULL
		WHERE state = $2 AND frozen_until <= $3
	`

	res, err := s.db.ExecContext(ctx, query, StateAvailable, StateFrozen, now)
	if err != nil {
		return 0, err
	}
	rows, err := res.RowsAffected()
	return int(rows), err
}

func (s *postgresStore) ReleaseUser(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE users SET state = $2 WHERE id = $1`,
		userID, StateAvailable,
	)
	return err
}

func (s *postgresStore) MessageStats(ctx context.Context, matchID string) (int, *time.Time, error) {
	var stats struct {
		Count   int          `db:"count"`
		FirstAt sql.NullTime `db:"first_at"`
	}
	query := `
		SELECT COUNT(*) AS count, MIN(created_at) AS first_at
		FROM messages
		WHERE match_id = $1
	`

	if err := s.db.GetContext(ctx, &stats, query, matchID); err != nil {
		return 0, nil, err
	}
	if !stats.FirstAt.Valid {
		return stats.Count, nil, nil
	}
	firstAt := stats.FirstAt.Time
	return stats.Count, &firstAt, nil
}

func (s *postgresStore) ListFeedbackForUser(ctx context.Context, recipientID string) ([]*MatchFeedback, error) {
	var feedback []*MatchFeedback
	query := `
		SELECT id, match_id, recipient_id, feedback_type, feedback, insights, created_at
		FROM match_feedback
		WHERE recipient_id = $1
		ORDER BY created_at DESC
	`

	if err := s.db.SelectContext(ctx, &feedback, query, recipientID); err != nil {
		return nil, err
	}
	return feedback, nil
}

func (s *postgresStore) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
