// internal/profile/service.go

package profile

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type Service interface {
	CompleteAssessment(ctx context.Context, userID string, req *AssessmentRequest) error
	GetUserState(ctx context.Context, userID string) (*UserStateView, error)
}

type service struct {
	repo Repository
	log  *zap.SugaredLogger
}

func NewService(repo Repository, log *zap.SugaredLogger) Service {
	return &service{repo: repo, log: log}
}

// CompleteAssessment persists the assessment and transitions the user into
// the matching pool. Submitting again overwrites the previous answers.
func (s *service) CompleteAssessment(ctx context.Context, userID string, req *AssessmentRequest) error {
	if err := s.repo.SaveAssessment(ctx, userID, req); err != nil {
		return err
	}

	if err := s.repo.TouchLastActive(ctx, userID, time.Now()); err != nil {
		// Not worth failing the assessment over.
		s.log.Warnw("touch last active", "user_id", userID, "error", err)
	}

	s.log.Infow("assessment completed", "user_id", userID)
	return nil
}

func (s *service) GetUserState(ctx context.Context, userID string) (*UserStateView, error) {
	return s.repo.GetUserState(ctx, userID)
}
