// internal/matching/milestones.go

package matching

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// MilestoneTracker derives message-count state for a match from its message
// history and applies the video call unlock when the milestone is reached.
// It only reads messages; the derived fields are written back to the match
// through the store.
type MilestoneTracker struct {
	store  Store
	policy Policy
	log    *zap.SugaredLogger

	now func() time.Time
}

func NewMilestoneTracker(store Store, policy Policy, log *zap.SugaredLogger) *MilestoneTracker {
	return &MilestoneTracker{
		store:  store,
		policy: policy,
		log:    log,
		now:    time.Now,
	}
}

// CheckMessageMilestones recomputes the cached message count, records the
// first message timestamp once, and unlocks video calling when the
// configured number of messages lands within the window after the first
// message. The unlock and its intentionality reward apply exactly once,
// guarded by the set-once unlock flag. Idempotent: with unchanged message
// history nothing is written.
func (t *MilestoneTracker) CheckMessageMilestones(ctx context.Context, matchID string) error {
	match, err := t.store.GetMatch(ctx, matchID)
	if err != nil {
		return err
	}

	count, firstAt, err := t.store.MessageStats(ctx, matchID)
	if err != nil {
		return err
	}

	changed := false

	if match.FirstMessageAt == nil && firstAt != nil {
		match.FirstMessageAt = firstAt
		changed = true
	}

	var rewardUserIDs []string
	if !match.VideoCallUnlocked &&
		count >= t.policy.MilestoneMessages &&
		match.FirstMessageAt != nil &&
		t.now().Sub(*match.FirstMessageAt) <= t.policy.MilestoneWindow {

		now := t.now()
		match.VideoCallUnlocked = true
		match.VideoCallUnlockedAt = &now
		rewardUserIDs = []string{match.User1ID, match.User2ID}
		changed = true

		RecordMilestoneUnlock()
		t.log.Infow("video call unlocked", "match_id", matchID, "messages", count)
	}

	if match.MessageCount != count {
		match.MessageCount = count
		changed = true
	}

	if !changed {
		return nil
	}
	return t.store.SaveMilestones(ctx, match, rewardUserIDs, milestoneReward)
}
