// internal/matching/feedback.go

package matching

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Feedback types, in branch priority order.
const (
	FeedbackEmotionalMismatch  = "emotional_mismatch"
	FeedbackCommunicationStyle = "communication_style"
	FeedbackValuesMismatch     = "values_mismatch"
	FeedbackGeneralMismatch    = "general_mismatch"
)

// FeedbackGenerator builds the explanation delivered to the participant who
// did not unpin. Compatibility is recomputed from the current profiles
// rather than reused from the match snapshot, so the explanation reflects
// any assessment changes since the match was made.
type FeedbackGenerator struct{}

func NewFeedbackGenerator() *FeedbackGenerator {
	return &FeedbackGenerator{}
}

// Build constructs the feedback record for recipient after unpinningUser
// ended the match. The caller persists it inside the unpin transaction.
func (g *FeedbackGenerator) Build(matchID string, unpinningUser, recipient *User, now time.Time) (*MatchFeedback, error) {
	compatibility := ScoreProfiles(unpinningUser, recipient)

	feedbackType := FeedbackGeneralMismatch
	feedback := "Sometimes connections don't develop as expected, and that's perfectly normal."

	insights := FeedbackInsights{
		CompatibilityScore: compatibility.Overall,
		Strengths:          []string{},
		Challenges:         []string{},
	}

	// First matching rule wins; exactly one challenge entry, tied to the
	// chosen branch.
	switch {
	case compatibility.Emotional < 60:
		feedbackType = FeedbackEmotionalMismatch
		feedback = "It seems like there might have been differences in emotional connection styles. " +
			"Your next match will be selected with even better emotional compatibility in mind."
		insights.Challenges = append(insights.Challenges, "Emotional communication styles differed")
	case compatibility.Communication < 60:
		feedbackType = FeedbackCommunicationStyle
		feedback = "Communication styles can make a big difference in connection. " +
			"We'll focus on finding someone whose communication approach aligns better with yours."
		insights.Challenges = append(insights.Challenges, "Communication approaches varied")
	case compatibility.Values < 60:
		feedbackType = FeedbackValuesMismatch
		feedback = "Shared values are crucial for deep connections. " +
			"Your next match will prioritize stronger values alignment."
		insights.Challenges = append(insights.Challenges, "Different life values or priorities")
	default:
		feedback = "Sometimes great compatibility on paper doesn't translate to immediate chemistry, " +
			"and that's completely normal. We'll keep refining to find your perfect match."
		insights.Strengths = append(insights.Strengths, "Strong compatibility indicators")
	}

	if compatibility.Emotional > 70 {
		insights.Strengths = append(insights.Strengths, "Good emotional intelligence match")
	}
	if compatibility.Values > 70 {
		insights.Strengths = append(insights.Strengths, "Aligned life values")
	}
	if compatibility.Communication > 70 {
		insights.Strengths = append(insights.Strengths, "Compatible communication styles")
	}

	raw, err := json.Marshal(insights)
	if err != nil {
		return nil, err
	}

	return &MatchFeedback{
		ID:           uuid.NewString(),
		MatchID:      matchID,
		RecipientID:  recipient.ID,
		FeedbackType: feedbackType,
		Feedback:     feedback,
		Insights:     raw,
		CreatedAt:    now,
	}, nil
}
