package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

type service struct {
	repo     Repository
	validate *validator.Validate
}

// NewService creates a new user service.
func NewService(repo Repository) Service {
	return &service{repo: repo, validate: validator.New()}
}

func (s *service) CreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid user: %w", err)
	}

	if _, err := s.repo.GetByID(ctx, req.ID); err == nil {
		return nil, ErrDuplicateID
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	role := req.Role
	if role == "" {
		role = RoleStaff
	}

	u := &User{
		ID:           req.ID,
		Name:         req.Name,
		Role:         role,
		PasswordHash: string(hash),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) GetUser(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListUsers(ctx context.Context) ([]*User, error) {
	return s.repo.List(ctx)
}

func (s *service) UpdateName(ctx context.Context, id int64, name string) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	if err := s.repo.UpdateName(ctx, id, name); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) DeleteUser(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
