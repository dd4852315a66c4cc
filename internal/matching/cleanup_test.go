// internal/matching/cleanup_test.go

package matching

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCleanup(store Store, at time.Time) *CleanupJob {
	job := NewCleanupJob(store, testLogger())
	job.now = func() time.Time { return at }
	return job
}

func TestCleanupUnfreezesElapsedFreezes(t *testing.T) {
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	store := newMemStore()

	elapsed := assessedUser("elapsed", "female", "male", 80)
	elapsed.State = StateFrozen
	past := now.Add(-time.Minute)
	elapsed.FrozenUntil = &past
	store.addUser(elapsed)

	running := assessedUser("running", "male", "female", 80)
	running.State = StateFrozen
	future := now.Add(time.Hour)
	running.FrozenUntil = &future
	store.addUser(running)

	newTestCleanup(store, now).CleanupExpiredStates(context.Background())

	unfrozen := store.user("elapsed")
	assert.Equal(t, StateAvailable, unfrozen.State)
	assert.Nil(t, unfrozen.FrozenUntil)

	still := store.user("running")
	assert.Equal(t, StateFrozen, still.State)
	require.NotNil(t, still.FrozenUntil)
}

func TestCleanupExpiresMatchesAndReleasesParticipants(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)

	store := newMemStore()
	store.addUser(assessedUser("alice", "female", "male", 80))
	store.addUser(assessedUser("bob", "male", "female", 80))

	engine := newTestEngine(store, created)
	matchID, err := engine.CreateMatch(ctx, "alice", "bob")
	require.NoError(t, err)

	// run well past the seven day expiry
	newTestCleanup(store, created.Add(8*24*time.Hour)).CleanupExpiredStates(ctx)

	assert.Equal(t, MatchExpired, store.match(matchID).Status)
	assert.Equal(t, StateAvailable, store.user("alice").State)
	assert.Equal(t, StateAvailable, store.user("bob").State)
}

func TestCleanupLeavesUnexpiredMatchesAlone(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)

	store := newMemStore()
	store.addUser(assessedUser("alice", "female", "male", 80))
	store.addUser(assessedUser("bob", "male", "female", 80))

	engine := newTestEngine(store, created)
	matchID, err := engine.CreateMatch(ctx, "alice", "bob")
	require.NoError(t, err)

	newTestCleanup(store, created.Add(24*time.Hour)).CleanupExpiredStates(ctx)

	assert.Equal(t, MatchActive, store.match(matchID).Status)
	assert.Equal(t, StateMatched, store.user("alice").State)
	assert.Equal(t, StateMatched, store.user("bob").State)
}

func TestCleanupExpiryReleasesFrozenParticipant(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)

	store := newMemStore()
	store.addUser(assessedUser("alice", "female", "male", 80))
	store.addUser(assessedUser("bob", "male", "female", 80))

	engine := newTestEngine(store, created)
	_, err := engine.CreateMatch(ctx, "alice", "bob")
	require.NoError(t, err)

	// bob picked up a freeze from somewhere else while the match ran out
	until := created.Add(30 * 24 * time.Hour)
	store.users["bob"].State = StateFrozen
	store.users["bob"].FrozenUntil = &until

	newTestCleanup(store, created.Add(8*24*time.Hour)).CleanupExpiredStates(ctx)

	// expiry wins over the freeze
	assert.Equal(t, StateAvailable, store.user("bob").State)
	assert.Equal(t, StateAvailable, store.user("alice").State)
}
