// internal/matching/models.go

package matching

import (
	"encoding/json"
	"time"
)

// UserState is the matching lifecycle state of a user.
type UserState string

const (
	StateAvailable UserState = "AVAILABLE"
	StateMatched   UserState = "MATCHED"
	// StatePinned exists in the state enumeration but no transition in this
	// core produces it. Kept for forward compatibility with pinned-by-choice
	// flows.
	StatePinned UserState = "PINNED"
	StateFrozen UserState = "FROZEN"
)

// MatchStatus is the lifecycle state of a match. ACTIVE is the only
// non-terminal status.
type MatchStatus string

const (
	MatchActive          MatchStatus = "ACTIVE"
	MatchUnpinnedByUser1 MatchStatus = "UNPINNED_BY_USER1"
	MatchUnpinnedByUser2 MatchStatus = "UNPINNED_BY_USER2"
	MatchExpired         MatchStatus = "EXPIRED"
)

// User carries the matching-relevant slice of the users table. Auth-owned
// columns (email, password hash) live in internal/auth.
type User struct {
	ID           string `json:"id" db:"id"`
	FirstName    string `json:"first_name" db:"first_name"`
	LastName     string `json:"last_name" db:"last_name"`
	Gender       string `json:"gender" db:"gender"`
	InterestedIn string `json:"interested_in" db:"interested_in"`

	State UserState `json:"state" db:"state"`

	// Assessment dimensions, 0-100. EmotionalIntelligence == 0 means the
	// assessment was never completed and the user is not eligible for
	// matching.
	EmotionalIntelligence int `json:"emotional_intelligence" db:"emotional_intelligence"`
	CommunicationStyle    int `json:"communication_style" db:"communication_style"`
	ConflictResolution    int `json:"conflict_resolution" db:"conflict_resolution"`
	RelationshipGoals     int `json:"relationship_goals" db:"relationship_goals"`
	LifeValues            int `json:"life_values" db:"life_values"`

	PersonalityType *string `json:"personality_type,omitempty" db:"personality_type"`
	LoveLanguage    *string `json:"love_language,omitempty" db:"love_language"`
	AttachmentStyle *string `json:"attachment_style,omitempty" db:"attachment_style"`

	IntentionalityScore   int `json:"intentionality_score" db:"intentionality_score"`
	TotalMatches          int `json:"total_matches" db:"total_matches"`
	SuccessfulConnections int `json:"successful_connections" db:"successful_connections"`

	FrozenUntil       *time.Time `json:"frozen_until,omitempty" db:"frozen_until"`
	CanReceiveMatchAt *time.Time `json:"can_receive_match_at,omitempty" db:"can_receive_match_at"`
	LastMatchAt       *time.Time `json:"last_match_at,omitempty" db:"last_match_at"`
	LastActiveAt      *time.Time `json:"last_active_at,omitempty" db:"last_active_at"`
}

// HasCompletedAssessment reports whether the user ever submitted the
// compatibility assessment.
func (u *User) HasCompletedAssessment() bool {
	return u.EmotionalIntelligence > 0
}

// Match is one pinned relationship between two users. The compatibility
// snapshot is computed once at creation and never changes afterwards.
type Match struct {
	ID      string `json:"id" db:"id"`
	User1ID string `json:"user1_id" db:"user1_id"`
	User2ID string `json:"user2_id" db:"user2_id"`

	CompatibilityScore int `json:"compatibility_score" db:"compatibility_score"`
	EmotionalMatch     int `json:"emotional_match" db:"emotional_match"`
	CommunicationMatch int `json:"communication_match" db:"communication_match"`
	ValuesMatch        int `json:"values_match" db:"values_match"`
	PersonalityMatch   int `json:"personality_match" db:"personality_match"`

	Status MatchStatus `json:"status" db:"status"`

	MessageCount        int        `json:"message_count" db:"message_count"`
	FirstMessageAt      *time.Time `json:"first_message_at,omitempty" db:"first_message_at"`
	VideoCallUnlocked   bool       `json:"video_call_unlocked" db:"video_call_unlocked"`
	VideoCallUnlockedAt *time.Time `json:"video_call_unlocked_at,omitempty" db:"video_call_unlocked_at"`

	UnpinnedBy *string    `json:"unpinned_by,omitempty" db:"unpinned_by"`
	UnpinnedAt *time.Time `json:"unpinned_at,omitempty" db:"unpinned_at"`

	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Involves reports whether userID is one of the two participants.
func (m *Match) Involves(userID string) bool {
	return m.User1ID == userID || m.User2ID == userID
}

// OtherUser returns the participant opposite to userID.
func (m *Match) OtherUser(userID string) string {
	if m.User1ID == userID {
		return m.User2ID
	}
	return m.User1ID
}

// MatchFeedback is the explanation delivered to the non-unpinning
// participant after a match ends. Append-only.
type MatchFeedback struct {
	ID           string          `json:"id" db:"id"`
	MatchID      string          `json:"match_id" db:"match_id"`
	RecipientID  string          `json:"recipient_id" db:"recipient_id"`
	FeedbackType string          `json:"feedback_type" db:"feedback_type"`
	Feedback     string          `json:"feedback" db:"feedback"`
	Insights     json.RawMessage `json:"insights" db:"insights"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}

// FeedbackInsights is the structured part of a MatchFeedback record.
type FeedbackInsights struct {
	CompatibilityScore int      `json:"compatibilityScore"`
	Strengths          []string `json:"strengths"`
	Challenges         []string `json:"challenges"`
}
