// internal/auth/service.go

package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/lonetown/lonetown-backend/internal/common/utils"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type Service interface {
	Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	GetUser(ctx context.Context, id string) (*User, error)
	ValidateToken(token string) (*utils.JWTClaims, error)
}

type Config struct {
	JWTSecret         string
	AccessTokenExpiry time.Duration
	BCryptCost        int
}

type service struct {
	repo   Repository
	config *Config
}

func NewService(repo Repository, config *Config) Service {
	return &service{repo: repo, config: config}
}

// Register creates the account. New users start without a completed
// assessment, which keeps them out of the matching pool until they submit
// one.
func (s *service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.config.BCryptCost)
	if err != nil {
		return nil, err
	}

	user := &User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Gender:       req.Gender,
		InterestedIn: req.InterestedIn,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return s.issueToken(user)
}

func (s *service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issueToken(user)
}

func (s *service) GetUser(ctx context.Context, id string) (*User, error) {
	return s.repo.GetUserByID(ctx, id)
}

func (s *service) ValidateToken(token string) (*utils.JWTClaims, error) {
	return utils.ValidateJWT(token, s.config.JWTSecret)
}

func (s *service) issueToken(user *User) (*AuthResponse, error) {
	now := time.Now()
	token, err := utils.GenerateJWT(&utils.JWTClaims{
		UserID:    user.ID,
		Email:     user.Email,
		Type:      "access",
		ExpiresAt: now.Add(s.config.AccessTokenExpiry).Unix(),
		IssuedAt:  now.Unix(),
		Issuer:    "lonetown",
		Subject:   user.ID,
	}, s.config.JWTSecret)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{AccessToken: token, User: user}, nil
}
