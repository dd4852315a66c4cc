// internal/matching/memstore_test.go
//
// In-memory Store used by the package tests. Mutating methods mirror the
// SQL store's semantics: state/status preconditions behave as a
// compare-and-swap, and each method applies all of its writes or none.

package matching

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

type memStore struct {
	mu sync.Mutex

	users     map[string]*User
	userOrder []string

	matches    map[string]*Match
	matchOrder []string

	messages []memMessage
	feedback []*MatchFeedback
}

type memMessage struct {
	matchID   string
	createdAt time.Time
}

func newMemStore() *memStore {
	return &memStore{
		users:   make(map[string]*User),
		matches: make(map[string]*Match),
	}
}

func (s *memStore) addUser(u *User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *u
	s.users[u.ID] = &copied
	s.userOrder = append(s.userOrder, u.ID)
}

func (s *memStore) addMessage(matchID string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, memMessage{matchID: matchID, createdAt: at})
}

func (s *memStore) user(id string) *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *s.users[id]
	return &copied
}

func (s *memStore) match(id string) *Match {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *s.matches[id]
	return &copied
}

func (s *memStore) GetUser(_ context.Context, id string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *memStore) GetMatch(_ context.Context, id string) (*Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[id]
	if !ok {
		return nil, ErrMatchNotFound
	}
	copied := *m
	return &copied, nil
}

func (s *memStore) GetActiveMatchForUser(_ context.Context, userID string) (*Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.matchOrder {
		m := s.matches[id]
		if m.Status == MatchActive && m.Involves(userID) {
			copied := *m
			return &copied, nil
		}
	}
	return nil, ErrMatchNotFound
}

func (s *memStore) ListEligibleUsers(_ context.Context, now time.Time) ([]*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*User
	for _, id := range s.userOrder {
		u := s.users[id]
		if u.State != StateAvailable || !u.HasCompletedAssessment() {
			continue
		}
		if u.CanReceiveMatchAt != nil && u.CanReceiveMatchAt.After(now) {
			continue
		}
		copied := *u
		out = append(out, &copied)
	}
	return out, nil
}

func (s *memStore) ListCandidates(_ context.Context, user *User, exclude []string) ([]*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	excluded := make(map[string]bool, len(exclude)+1)
	excluded[user.ID] = true
	for _, id := range exclude {
		excluded[id] = true
	}

	var out []*User
	for _, id := range s.userOrder {
		c := s.users[id]
		if excluded[c.ID] || c.State != StateAvailable || !c.HasCompletedAssessment() {
			continue
		}
		if c.Gender != user.InterestedIn || c.InterestedIn != user.Gender {
			continue
		}
		copied := *c
		out = append(out, &copied)
	}
	return out, nil
}

func (s *memStore) MatchedUserIDs(_ context.Context, userID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, id := range s.matchOrder {
		m := s.matches[id]
		if m.Involves(userID) {
			out = append(out, m.OtherUser(userID))
		}
	}
	return out, nil
}

func (s *memStore) CreateMatch(_ context.Context, match *Match, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, userID := range []string{match.User1ID, match.User2ID} {
		u, ok := s.users[userID]
		if !ok {
			return ErrUserNotFound
		}
		if u.State != StateAvailable {
			return fmt.Errorf("pin user %s: %w", userID, ErrStateConflict)
		}
	}

	for _, userID := range []string{match.User1ID, match.User2ID} {
		u := s.users[userID]
		u.State = StateMatched
		stamped := now
		u.LastMatchAt = &stamped
		u.TotalMatches++
	}

	copied := *match
	s.matches[match.ID] = &copied
	s.matchOrder = append(s.matchOrder, match.ID)
	return nil
}

func (s *memStore) UnpinMatch(_ context.Context, match *Match, actor, other *User, feedback *MatchFeedback, penalty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.matches[match.ID]
	if !ok {
		return ErrMatchNotFound
	}
	if stored.Status != MatchActive {
		return fmt.Errorf("unpin match %s: %w", match.ID, ErrStateConflict)
	}

	stored.Status = match.Status
	stored.UnpinnedBy = match.UnpinnedBy
	stored.UnpinnedAt = match.UnpinnedAt

	for _, u := range []*User{actor, other} {
		target := s.users[u.ID]
		target.State = u.State
		target.FrozenUntil = u.FrozenUntil
		target.CanReceiveMatchAt = u.CanReceiveMatchAt
	}
	// relative, mirroring the SQL store
	s.users[actor.ID].IntentionalityScore -= penalty

	copied := *feedback
	s.feedback = append(s.feedback, &copied)
	return nil
}

func (s *memStore) SaveMilestones(_ context.Context, match *Match, rewardUserIDs []string, rewardDelta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.matches[match.ID]
	if !ok {
		return ErrMatchNotFound
	}
	stored.MessageCount = match.MessageCount
	stored.FirstMessageAt = match.FirstMessageAt
	stored.VideoCallUnlocked = match.VideoCallUnlocked
	stored.VideoCallUnlockedAt = match.VideoCallUnlockedAt

	for _, userID := range rewardUserIDs {
		if u, ok := s.users[userID]; ok {
			u.IntentionalityScore += rewardDelta
		}
	}
	return nil
}

func (s *memStore) ExpireMatches(_ context.Context, now time.Time) ([]*Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var expired []*Match
	for _, id := range s.matchOrder {
		m := s.matches[id]
		if m.Status == MatchActive && !m.ExpiresAt.After(now) {
			m.Status = MatchExpired
			copied := *m
			expired = append(expired, &copied)
		}
	}
	return expired, nil
}

func (s *memStore) UnfreezeUsers(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, id := range s.userOrder {
		u := s.users[id]
		if u.State == StateFrozen && u.FrozenUntil != nil && !u.FrozenUntil.After(now) {
			u.State = StateAvailable
			u.FrozenUntil = nil
			count++
		}
	}
	return count, nil
}

func (s *memStore) ReleaseUser(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	u.State = StateAvailable
	return nil
}

func (s *memStore) MessageStats(_ context.Context, matchID string) (int, *time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	var first *time.Time
	for _, msg := range s.messages {
		if msg.matchID != matchID {
			continue
		}
		count++
		if first == nil || msg.createdAt.Before(*first) {
			at := msg.createdAt
			first = &at
		}
	}
	return count, first, nil
}

func (s *memStore) ListFeedbackForUser(_ context.Context, recipientID string) ([]*MatchFeedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*MatchFeedback
	for _, f := range s.feedback {
		if f.RecipientID == recipientID {
			copied := *f
			out = append(out, &copied)
		}
	}
	return out, nil
}

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func strptr(v string) *string {
	return &v
}

// assessedUser builds an AVAILABLE user with a completed assessment where
// every dimension is set to the same level.
func assessedUser(id, gender, interestedIn string, level int) *User {
	return &User{
		ID:                    id,
		Gender:                gender,
		InterestedIn:          interestedIn,
		State:                 StateAvailable,
		EmotionalIntelligence: level,
		CommunicationStyle:    level,
		ConflictResolution:    level,
		RelationshipGoals:     level,
		LifeValues:            level,
	}
}
