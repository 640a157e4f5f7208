package service

import (
	"context"
	"fmt"

	"github.com/inkwell/backend/internal/db"
	"github.com/inkwell/backend/internal/model"
)

// UserDirectory is the slice of the user repository profile operations need.
type UserDirectory interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	GetUserByID(ctx context.Context, userID int64) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateUser(ctx context.Context, userID int64, email, name string) (*model.User, error)
	DeleteUser(ctx context.Context, userID int64) (bool, error)
}

type UserService struct {
	users UserDirectory
}

func NewUserService(users UserDirectory) *UserService {
	return &UserService{users: users}
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.users.ListUsers(ctx)
}

// Get returns nil without error when the user does not exist.
func (s *UserService) Get(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user %d: %w", userID, err)
	}
	return user, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if db.IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return user, nil
}

// Update overwrites email and name. Returns nil without error when the user
// does not exist.
func (s *UserService) Update(ctx context.Context, userID int64, req model.UpdateUserRequest) (*model.User, error) {
	email := normalizeEmail(req.Email)
	if !emailPattern.MatchString(email) {
		return nil, fmt.Errorf("%w: malformed email", ErrInvalidInput)
	}
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	user, err := s.users.UpdateUser(ctx, userID, email, req.Name)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, nil
		}
		if db.IsUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("update user %d: %w", userID, err)
	}
	return user, nil
}

// Delete reports false without error when the user does not exist.
func (s *UserService) Delete(ctx context.Context, userID int64) (bool, error) {
	return s.users.DeleteUser(ctx, userID)
}
