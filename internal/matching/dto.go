// internal/matching/dto.go

package matching

import "time"

type UnpinMatchRequest struct {
	MatchID string `json:"match_id" validate:"required,uuid4"`
}

// MatchCardUser is the participant card embedded in the current-match view.
type MatchCardUser struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// CurrentMatchResponse is the caller's view of their active match.
type CurrentMatchResponse struct {
	ID                 string        `json:"id"`
	User               MatchCardUser `json:"user"`
	CompatibilityScore int           `json:"compatibility_score"`
	MessageCount       int           `json:"message_count"`
	VideoCallUnlocked  bool          `json:"video_call_unlocked"`
	ExpiresAt          time.Time     `json:"expires_at"`
	CreatedAt          time.Time     `json:"created_at"`
}
