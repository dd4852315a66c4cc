// internal/matching/engine.go

package matching

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Engine orchestrates every state transition of the match lifecycle. It is
// the only component that mutates User and Match state; the scorer and the
// milestone tracker are queried, never write on their own.
type Engine struct {
	store    Store
	policy   Policy
	feedback *FeedbackGenerator
	log      *zap.SugaredLogger

	// now is swappable in tests.
	now func() time.Time
}

func NewEngine(store Store, policy Policy, log *zap.SugaredLogger) *Engine {
	return &Engine{
		store:    store,
		policy:   policy,
		feedback: NewFeedbackGenerator(),
		log:      log,
		now:      time.Now,
	}
}

// CreateMatch pins two AVAILABLE users together. The state checks and all
// writes (match insert, both user transitions) are one atomic store unit;
// if either user's state changed since being read, the store reports
// ErrStateConflict and nothing is applied.
func (e *Engine) CreateMatch(ctx context.Context, user1ID, user2ID string) (string, error) {
	user1, err := e.store.GetUser(ctx, user1ID)
	if err != nil {
		return "", err
	}
	user2, err := e.store.GetUser(ctx, user2ID)
	if err != nil {
		return "", err
	}

	if user1.State != StateAvailable || user2.State != StateAvailable {
		return "", ErrStateConflict
	}

	compatibility := ScoreProfiles(user1, user2)
	now := e.now()

	match := &Match{
		ID:                 uuid.NewString(),
		User1ID:            user1ID,
		User2ID:            user2ID,
		CompatibilityScore: compatibility.Overall,
		EmotionalMatch:     compatibility.Emotional,
		CommunicationMatch: compatibility.Communication,
		ValuesMatch:        compatibility.Values,
		PersonalityMatch:   compatibility.Personality,
		Status:             MatchActive,
		ExpiresAt:          now.Add(e.policy.MatchExpiry),
		CreatedAt:          now,
	}

	if err := e.store.CreateMatch(ctx, match, now); err != nil {
		return "", err
	}

	RecordMatchCreated()
	RecordCompatibilityScore(float64(compatibility.Overall))
	e.log.Infow("match created",
		"match_id", match.ID,
		"user1_id", user1ID,
		"user2_id", user2ID,
		"score", compatibility.Overall,
	)
	return match.ID, nil
}

// GenerateMatchForUser finds the best-scoring candidate for the user and
// creates a match when the score clears the policy threshold. Returns false
// with no mutation when the user is ineligible, no candidate qualifies, or
// a concurrent transition wins the race.
func (e *Engine) GenerateMatchForUser(ctx context.Context, userID string) bool {
	user, err := e.store.GetUser(ctx, userID)
	if err != nil {
		e.log.Warnw("generate match: load user", "user_id", userID, "error", err)
		return false
	}
	if user.State != StateAvailable || !user.HasCompletedAssessment() {
		return false
	}

	// Prior matches are never repeated, whatever their status.
	exclude, err := e.store.MatchedUserIDs(ctx, userID)
	if err != nil {
		e.log.Errorw("generate match: load match history", "user_id", userID, "error", err)
		return false
	}

	candidates, err := e.store.ListCandidates(ctx, user, exclude)
	if err != nil {
		e.log.Errorw("generate match: load candidates", "user_id", userID, "error", err)
		return false
	}
	if len(candidates) == 0 {
		return false
	}

	// Strictly highest overall score wins; on ties the earliest candidate
	// in the store's stable order is kept, which makes batch runs
	// deterministic.
	var best *User
	bestScore := -1
	for _, candidate := range candidates {
		if score := ScoreProfiles(user, candidate).Overall; score > bestScore {
			best = candidate
			bestScore = score
		}
	}

	if bestScore <= e.policy.ScoreThreshold {
		return false
	}

	if _, err := e.CreateMatch(ctx, userID, best.ID); err != nil {
		if errors.Is(err, ErrStateConflict) {
			e.log.Infow("generate match: lost state race", "user_id", userID, "candidate_id", best.ID)
		} else {
			e.log.Errorw("generate match: create", "user_id", userID, "candidate_id", best.ID, "error", err)
		}
		return false
	}
	return true
}

// UnpinMatch ends an active match at the request of one of its
// participants. The acting user is frozen for the policy duration and takes
// an intentionality penalty; the other user returns to AVAILABLE behind a
// short rematch cooldown and receives generated feedback. Match update,
// both user updates, and the feedback insert are one atomic store unit.
func (e *Engine) UnpinMatch(ctx context.Context, matchID, actingUserID string) bool {
	match, err := e.store.GetMatch(ctx, matchID)
	if err != nil {
		return false
	}
	if match.Status != MatchActive || !match.Involves(actingUserID) {
		return false
	}

	actor, err := e.store.GetUser(ctx, actingUserID)
	if err != nil {
		return false
	}
	other, err := e.store.GetUser(ctx, match.OtherUser(actingUserID))
	if err != nil {
		return false
	}

	now := e.now()

	if match.User1ID == actingUserID {
		match.Status = MatchUnpinnedByUser1
	} else {
		match.Status = MatchUnpinnedByUser2
	}
	match.UnpinnedBy = &actingUserID
	match.UnpinnedAt = &now

	frozenUntil := now.Add(e.policy.UnpinFreeze)
	actor.State = StateFrozen
	actor.FrozenUntil = &frozenUntil

	canReceiveMatchAt := now.Add(e.policy.RematchCooldown)
	other.State = StateAvailable
	other.CanReceiveMatchAt = &canReceiveMatchAt

	feedback, err := e.feedback.Build(match.ID, actor, other, now)
	if err != nil {
		e.log.Errorw("unpin: build feedback", "match_id", matchID, "error", err)
		return false
	}

	// The penalty travels as a delta; the store applies it relative to the
	// stored score so a reward committed since the read above survives.
	if err := e.store.UnpinMatch(ctx, match, actor, other, feedback, unpinPenalty); err != nil {
		if errors.Is(err, ErrStateConflict) {
			e.log.Infow("unpin: lost status race", "match_id", matchID)
		} else {
			e.log.Errorw("unpin: persist", "match_id", matchID, "error", err)
		}
		return false
	}

	RecordUnpin()
	e.log.Infow("match unpinned", "match_id", matchID, "by", actingUserID)
	return true
}

// ProcessDailyMatches runs one matching pass over every eligible user.
// The loop is strictly sequential on purpose: each successful match removes
// both participants from the AVAILABLE pool before the next iteration reads
// it, so two users in the same batch can never be matched to the same
// candidate. Per-user failures are logged and do not abort the batch.
func (e *Engine) ProcessDailyMatches(ctx context.Context) error {
	started := e.now()

	eligible, err := e.store.ListEligibleUsers(ctx, started)
	if err != nil {
		return err
	}

	matched := 0
	for _, user := range eligible {
		if e.GenerateMatchForUser(ctx, user.ID) {
			matched++
		}
	}

	RecordDailyBatch(time.Since(started), len(eligible), matched)
	e.log.Infow("daily match batch finished",
		"eligible", len(eligible),
		"matched", matched,
		"took", time.Since(started),
	)
	return nil
}
