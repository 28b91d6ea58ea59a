package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/user-mgmt/apiserver/internal/auth"
	"github.com/user-mgmt/apiserver/types"
)

// UserRepository defines persistence operations for accounts.
type UserRepository interface {
	Create(ctx context.Context, in types.UserCreate) (types.Account, error)
	GetByUsername(ctx context.Context, username string) (types.Account, error)
	GetMulti(ctx context.Context, skip, limit int) ([]types.Account, error)
	RemoveByUsername(ctx context.Context, username string) (types.Account, error)
	UpdatePassword(ctx context.Context, accountID int, passwordHash string) error
}

// UserService encapsulates account use-cases.
type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Create(ctx context.Context, in types.UserCreate) (types.Account, error) {
	return s.repo.Create(ctx, in)
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (types.Account, error) {
	return s.repo.GetByUsername(ctx, username)
}

func (s *UserService) GetMulti(ctx context.Context, skip, limit int) ([]types.Account, error) {
	return s.repo.GetMulti(ctx, skip, limit)
}

func (s *UserService) RemoveByUsername(ctx context.Context, username string) (types.Account, error) {
	return s.repo.RemoveByUsername(ctx, username)
}

// Update changes the account password. The new password and its
// confirmation must match exactly, else types.ErrPasswordMatch.
func (s *UserService) Update(ctx context.Context, account types.Account, in types.UserUpdate) (types.Account, error) {
	if in.NewPassword != in.NewPasswordConfirm {
		return types.Account{}, types.ErrPasswordMatch
	}

	passwordHash, err := auth.HashPassword(in.NewPassword)
	if err != nil {
		return types.Account{}, fmt.Errorf("hash password: %w", err)
	}
	if err := s.repo.UpdatePassword(ctx, account.ID, passwordHash); err != nil {
		return types.Account{}, err
	}

	account.PasswordHash = passwordHash
	return account, nil
}

// Authenticate verifies a username/password pair. A missing user or a
// password mismatch yields ok=false without error; only store failures
// propagate.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (types.Account, bool, error) {
	account, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return types.Account{}, false, nil
		}
		return types.Account{}, false, err
	}

	if !auth.VerifyPassword(password, account.PasswordHash) {
		return types.Account{}, false, nil
	}
	return account, true, nil
}
