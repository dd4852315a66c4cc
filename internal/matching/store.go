// internal/matching/store.go

package matching

import (
	"context"
	"errors"
	"time"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrMatchNotFound = errors.New("match not found")

	// ErrStateConflict signals that a precondition on a user's state or a
	// match's status no longer held when the write was attempted, including
	// lost optimistic-concurrency races. Callers recover it locally as a
	// boolean failure; it is never fatal.
	ErrStateConflict = errors.New("state conflict")
)

// Store is the persistence boundary of the matching core. Every mutating
// method is one atomic unit: either all of its writes apply or none do, and
// the embedded state/status precondition acts as a compare-and-swap. The
// engine is the only component that calls the mutating methods.
type Store interface {
	GetUser(ctx context.Context, id string) (*User, error)
	GetMatch(ctx context.Context, id string) (*Match, error)

	// GetActiveMatchForUser returns the single ACTIVE match referencing the
	// user, or ErrMatchNotFound.
	GetActiveMatchForUser(ctx context.Context, userID string) (*Match, error)

	// ListEligibleUsers returns users with state AVAILABLE, a completed
	// assessment, and no rematch cooldown still running at now, in stable
	// creation order.
	ListEligibleUsers(ctx context.Context, now time.Time) ([]*User, error)

	// ListCandidates returns the candidate pool for the given user: AVAILABLE,
	// assessment completed, mutual gender interest, excluding the user and
	// every id in exclude. Stable creation order; the engine's tie-break
	// depends on it.
	ListCandidates(ctx context.Context, user *User, exclude []string) ([]*User, error)

	// MatchedUserIDs returns every user the given user shares any match
	// record with, regardless of status. Prior matches are never repeated.
	MatchedUserIDs(ctx context.Context, userID string) ([]string, error)

	// CreateMatch inserts the match and transitions both participants
	// AVAILABLE -> MATCHED (stamping last_match_at=now and incrementing
	// total_matches) in one transaction. ErrStateConflict if either user's
	// state changed since it was read.
	CreateMatch(ctx context.Context, match *Match, now time.Time) error

	// UnpinMatch persists a completed unpin in one transaction: the match
	// row (status precondition ACTIVE), both rewritten user rows, and the
	// feedback record for the non-unpinning participant. The penalty is
	// applied to the acting user as a relative decrement, never as an
	// absolute value, so a milestone reward landing between the engine's
	// read and this commit is preserved.
	UnpinMatch(ctx context.Context, match *Match, actor, other *User, feedback *MatchFeedback, penalty int) error

	// SaveMilestones persists recomputed milestone fields on the match and
	// applies the intentionality reward to the given users, atomically.
	SaveMilestones(ctx context.Context, match *Match, rewardUserIDs []string, rewardDelta int) error

	// ExpireMatches flips every ACTIVE match past its expiry to EXPIRED and
	// returns the matches it flipped.
	ExpireMatches(ctx context.Context, now time.Time) ([]*Match, error)

	// UnfreezeUsers returns FROZEN users whose freeze has elapsed to
	// AVAILABLE and clears frozen_until. Returns the number unfrozen.
	UnfreezeUsers(ctx context.Context, now time.Time) (int, error)

	// ReleaseUser unconditionally sets the user AVAILABLE. This is the single
	// decision point for the expiry-wins policy: a participant of an expired
	// match is released even if an unrelated freeze is in effect.
	ReleaseUser(ctx context.Context, userID string) error

	// MessageStats returns the message count for a match and the timestamp
	// of its earliest message (nil when there are none).
	MessageStats(ctx context.Context, matchID string) (int, *time.Time, error)

	ListFeedbackForUser(ctx context.Context, recipientID string) ([]*MatchFeedback, error)
}
