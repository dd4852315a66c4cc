// internal/matching/policy.go

package matching

import "time"

// Intentionality score adjustments.
const (
	unpinPenalty    = 5
	milestoneReward = 10
)

// Policy carries the matching policy constants. Defaults mirror the product
// rules; deployments override them through configuration.
type Policy struct {
	// MatchExpiry is how long a match stays ACTIVE before the cleanup job
	// expires it.
	MatchExpiry time.Duration

	// UnpinFreeze is the reflection freeze imposed on the user who unpins.
	UnpinFreeze time.Duration

	// RematchCooldown is how long the unpinned-on user waits before the
	// daily matcher will consider them again.
	RematchCooldown time.Duration

	// ScoreThreshold is the minimum overall compatibility (exclusive) a
	// candidate must reach for a match to be created.
	ScoreThreshold int

	// MilestoneMessages and MilestoneWindow define the video call unlock:
	// MilestoneMessages messages within MilestoneWindow of the first one.
	MilestoneMessages int
	MilestoneWindow   time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		MatchExpiry:       7 * 24 * time.Hour,
		UnpinFreeze:       24 * time.Hour,
		RematchCooldown:   2 * time.Hour,
		ScoreThreshold:    50,
		MilestoneMessages: 100,
		MilestoneWindow:   48 * time.Hour,
	}
}
