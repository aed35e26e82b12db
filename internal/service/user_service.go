package service

import (
	"context"

	"app/internal/model"
	"app/internal/repository"
)

// UserService defines the interface for user profile operations
type UserService interface {
	// GetOrCreateUser returns the user's profile, creating it on first sight
	GetOrCreateUser(ctx context.Context, userID, name, email string) (*model.User, error)
}

// userService is the implementation of UserService
type userService struct {
	repo repository.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

// GetOrCreateUser returns the profile for the authenticated user, creating
// one from the token claims when none exists yet.
func (s *userService) GetOrCreateUser(ctx context.Context, userID, name, email string) (*model.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	user = &model.User{
		UserID: userID,
		Name:   name,
		Email:  email,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
