// internal/messaging/service.go

package messaging

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lonetown/lonetown-backend/internal/matching"
)

var (
	ErrMatchNotFound  = errors.New("match not found")
	ErrMatchNotActive = errors.New("match is not active")
	ErrNotParticipant = errors.New("not a participant of this match")
)

type Service interface {
	SendMessage(ctx context.Context, matchID, senderID, content string) (*Message, error)
	ListMessages(ctx context.Context, matchID, userID string) ([]*Message, error)
}

type service struct {
	repo       Repository
	matches    matching.Store
	milestones *matching.MilestoneTracker
	log        *zap.SugaredLogger
}

func NewService(repo Repository, matches matching.Store, milestones *matching.MilestoneTracker, log *zap.SugaredLogger) Service {
	return &service{
		repo:       repo,
		matches:    matches,
		milestones: milestones,
		log:        log,
	}
}

// SendMessage appends a message to an active match the sender belongs to,
// then re-derives the match's message milestones.
func (s *service) SendMessage(ctx context.Context, matchID, senderID, content string) (*Message, error) {
	match, err := s.matches.GetMatch(ctx, matchID)
	if errors.Is(err, matching.ErrMatchNotFound) {
		return nil, ErrMatchNotFound
	}
	if err != nil {
		return nil, err
	}

	if !match.Involves(senderID) {
		return nil, ErrNotParticipant
	}
	if match.Status != matching.MatchActive {
		return nil, ErrMatchNotActive
	}

	message := &Message{
		ID:         uuid.NewString(),
		MatchID:    matchID,
		SenderID:   senderID,
		ReceiverID: match.OtherUser(senderID),
		Content:    strings.TrimSpace(content),
		CreatedAt:  time.Now(),
	}

	if err := s.repo.CreateMessage(ctx, message); err != nil {
		return nil, err
	}

	if err := s.milestones.CheckMessageMilestones(ctx, matchID); err != nil {
		// The message is already stored; the next send or check repairs
		// the derived fields.
		s.log.Warnw("milestone check failed", "match_id", matchID, "error", err)
	}

	return message, nil
}

// ListMessages returns the match history in chronological order and marks
// the caller's incoming messages read.
func (s *service) ListMessages(ctx context.Context, matchID, userID string) ([]*Message, error) {
	match, err := s.matches.GetMatch(ctx, matchID)
	if errors.Is(err, matching.ErrMatchNotFound) {
		return nil, ErrMatchNotFound
	}
	if err != nil {
		return nil, err
	}

	if !match.Involves(userID) {
		return nil, ErrNotParticipant
	}

	messages, err := s.repo.ListMatchMessages(ctx, matchID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.MarkRead(ctx, matchID, userID); err != nil {
		s.log.Warnw("mark messages read", "match_id", matchID, "error", err)
	}
	return messages, nil
}
