// internal/matching/cleanup.go

package matching

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// CleanupJob is the time-driven reconciler for freezes and match expiry.
// Safe to re-run: a partial failure leaves stale records for the next run.
type CleanupJob struct {
	store Store
	log   *zap.SugaredLogger

	now func() time.Time
}

func NewCleanupJob(store Store, log *zap.SugaredLogger) *CleanupJob {
	return &CleanupJob{
		store: store,
		log:   log,
		now:   time.Now,
	}
}

// CleanupExpiredStates unfreezes users whose freeze elapsed, expires ACTIVE
// matches past their deadline, and releases both participants of every
// newly expired match. Per-item failures are logged and the run continues.
func (j *CleanupJob) CleanupExpiredStates(ctx context.Context) {
	now := j.now()

	unfrozen, err := j.store.UnfreezeUsers(ctx, now)
	if err != nil {
		j.log.Errorw("cleanup: unfreeze users", "error", err)
	} else if unfrozen > 0 {
		j.log.Infow("cleanup: users unfrozen", "count", unfrozen)
	}

	expired, err := j.store.ExpireMatches(ctx, now)
	if err != nil {
		j.log.Errorw("cleanup: expire matches", "error", err)
		return
	}

	for _, match := range expired {
		RecordMatchExpired()
		// Expiry wins: both participants go back to AVAILABLE even if one
		// entered FROZEN for an unrelated reason in the meantime. The
		// policy lives in Store.ReleaseUser and this loop only.
		for _, userID := range []string{match.User1ID, match.User2ID} {
			if err := j.store.ReleaseUser(ctx, userID); err != nil {
				j.log.Errorw("cleanup: release user",
					"match_id", match.ID, "user_id", userID, "error", err)
			}
		}
	}

	if len(expired) > 0 {
		j.log.Infow("cleanup: matches expired", "count", len(expired))
	}
}
