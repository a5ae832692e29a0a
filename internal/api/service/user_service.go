package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/statement-ledger/internal/domain/user"
)

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	userRepo user.Repository
	logger   *slog.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo user.Repository, logger *slog.Logger) *UserServiceImpl {
	return &UserServiceImpl{
		userRepo: userRepo,
		logger:   logger,
	}
}

// CreateUser creates a new user with the given details
func (s *UserServiceImpl) CreateUser(ctx context.Context, name string, email string) (*user.User, error) {
	u, err := user.NewUser(name, email)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		s.logger.Error("Failed to create user", "email", email, "error", err)
		return nil, err
	}

	s.logger.Info("User created", "user_id", u.ID, "email", u.Email)
	return u, nil
}

// GetUserByID retrieves a user by its ID
func (s *UserServiceImpl) GetUserByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return u, nil
}
