// internal/matching/metrics.go

package matching

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	matchesCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_matches_created_total",
			Help: "Total number of matches created",
		},
	)

	matchesUnpinnedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_matches_unpinned_total",
			Help: "Total number of matches ended by a participant unpin",
		},
	)

	matchesExpiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_matches_expired_total",
			Help: "Total number of matches expired by the cleanup job",
		},
	)

	milestoneUnlocksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_video_call_unlocks_total",
			Help: "Total number of video call milestone unlocks",
		},
	)

	compatibilityScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_compatibility_scores",
			Help:    "Distribution of overall compatibility scores at match creation",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	dailyBatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "matching_daily_batch_duration_seconds",
			Help: "Duration of the daily match batch",
		},
	)

	dailyBatchUsers = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_daily_batch_users_total",
			Help: "Users processed by the daily batch, by outcome",
		},
		[]string{"outcome"},
	)
)

func RecordMatchCreated() {
	matchesCreatedTotal.Inc()
}

func RecordUnpin() {
	matchesUnpinnedTotal.Inc()
}

func RecordMatchExpired() {
	matchesExpiredTotal.Inc()
}

func RecordMilestoneUnlock() {
	milestoneUnlocksTotal.Inc()
}

func RecordCompatibilityScore(score float64) {
	compatibilityScores.Observe(score)
}

func RecordDailyBatch(took time.Duration, processed, matched int) {
	dailyBatchDuration.Observe(took.Seconds())
	dailyBatchUsers.WithLabelValues("matched").Add(float64(matched))
	dailyBatchUsers.WithLabelValues("unmatched").Add(float64(processed - matched))
}
