// internal/profile/models.go

package profile

import "time"

// AssessmentRequest is the compatibility assessment payload. The five
// numeric dimensions are 0-100; the categorical fields are optional.
type AssessmentRequest struct {
	EmotionalIntelligence int `json:"emotional_intelligence" validate:"min=0,max=100"`
	CommunicationStyle    int `json:"communication_style" validate:"min=0,max=100"`
	ConflictResolution    int `json:"conflict_resolution" validate:"min=0,max=100"`
	RelationshipGoals     int `json:"relationship_goals" validate:"min=0,max=100"`
	LifeValues            int `json:"life_values" validate:"min=0,max=100"`

	PersonalityType *string `json:"personality_type,omitempty" validate:"omitempty,len=4,uppercase"`
	LoveLanguage    *string `json:"love_language,omitempty"`
	AttachmentStyle *string `json:"attachment_style,omitempty" validate:"omitempty,oneof=secure anxious avoidant disorganized"`
}

// UserStateView is the dashboard view of a user's matching state.
type UserStateView struct {
	State                 string     `json:"state" db:"state"`
	FrozenUntil           *time.Time `json:"frozen_until,omitempty" db:"frozen_until"`
	CanReceiveMatchAt     *time.Time `json:"can_receive_match_at,omitempty" db:"can_receive_match_at"`
	IntentionalityScore   int        `json:"intentionality_score" db:"intentionality_score"`
	TotalMatches          int        `json:"total_matches" db:"total_matches"`
	SuccessfulConnections int        `json:"successful_connections" db:"successful_connections"`
	LastActiveAt          *time.Time `json:"last_active_at,omitempty" db:"last_active_at"`
}
