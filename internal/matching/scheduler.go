// internal/matching/scheduler.go

package matching

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// JobLock serializes the periodic jobs across instances. Acquire returns
// false when another instance already holds the named lock.
type JobLock interface {
	Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error)
}

type redisJobLock struct {
	client *redis.Client
}

// NewRedisJobLock builds a JobLock on Redis SET NX with a TTL. The lock is
// not released early: the TTL doubles as the minimum spacing between runs
// of the same job across the fleet.
func NewRedisJobLock(client *redis.Client) JobLock {
	return &redisJobLock{client: client}
}

func (l *redisJobLock) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	return l.client.SetNX(ctx, "lonetown:jobs:"+name, time.Now().Unix(), ttl).Result()
}

type noopJobLock struct{}

// NewNoopJobLock is used when Redis is not configured; every acquire
// succeeds, which is correct for single-instance deployments.
func NewNoopJobLock() JobLock {
	return noopJobLock{}
}

func (noopJobLock) Acquire(context.Context, string, time.Duration) (bool, error) {
	return true, nil
}

// Scheduler drives the daily match batch and the cleanup reconciler.
type Scheduler struct {
	engine  *Engine
	cleanup *CleanupJob
	lock    JobLock
	log     *zap.SugaredLogger

	dailyHour       int
	cleanupInterval time.Duration
}

func NewScheduler(engine *Engine, cleanup *CleanupJob, lock JobLock, log *zap.SugaredLogger, dailyHour int, cleanupInterval time.Duration) *Scheduler {
	return &Scheduler{
		engine:          engine,
		cleanup:         cleanup,
		lock:            lock,
		log:             log,
		dailyHour:       dailyHour,
		cleanupInterval: cleanupInterval,
	}
}

// Start launches the job loops. They stop when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	go s.runDaily(ctx, s.dailyHour, 0, "daily_matches", s.runDailyMatches)
	go s.runEvery(ctx, s.cleanupInterval, "cleanup", s.runCleanup)
}

func (s *Scheduler) runDailyMatches(ctx context.Context) error {
	return s.engine.ProcessDailyMatches(ctx)
}

func (s *Scheduler) runCleanup(ctx context.Context) error {
	s.cleanup.CleanupExpiredStates(ctx)
	return nil
}

func (s *Scheduler) runDaily(ctx context.Context, hour, minute int, name string, task func(context.Context) error) {
	for {
		now := time.Now()
		next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
		if now.After(next) {
			next = next.Add(24 * time.Hour)
		}

		timer := time.NewTimer(next.Sub(now))

		select {
		case <-timer.C:
			s.fire(ctx, name, 23*time.Hour, task)
		case <-ctx.Done():
			timer.Stop()
			return
		}
	}
}

func (s *Scheduler) runEvery(ctx context.Context, interval time.Duration, name string, task func(context.Context) error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.fire(ctx, name, interval/2, task)
		case <-ctx.Done():
			return
		}
	}
}

// fire takes the distributed lock before running the task, so overlapping
// instances never run the same job concurrently.
func (s *Scheduler) fire(ctx context.Context, name string, lockTTL time.Duration, task func(context.Context) error) {
	acquired, err := s.lock.Acquire(ctx, name, lockTTL)
	if err != nil {
		s.log.Errorw("scheduler: acquire job lock", "job", name, "error", err)
		return
	}
	if !acquired {
		s.log.Debugw("scheduler: job held elsewhere", "job", name)
		return
	}

	if err := task(ctx); err != nil {
		s.log.Errorw("scheduler: job failed", "job", name, "error", err)
	}
}
