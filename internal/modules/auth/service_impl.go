package auth

import (
	"context"
	"errors"
	"time"

	"github.com/supplyoffice/ris-backend/internal/modules/user"
	"golang.org/x/crypto/bcrypt"
)

type service struct {
	userRepo user.Repository
	secret   string
	tokenTTL time.Duration
}

// NewService creates a new auth service.
func NewService(userRepo user.Repository, secret string, tokenTTL time.Duration) Service {
	return &service{userRepo: userRepo, secret: secret, tokenTTL: tokenTTL}
}

func (s *service) Login(ctx context.Context, id int64, password string) (*user.User, string, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := GenerateToken(s.secret, u.ID, u.Name, u.Role, s.tokenTTL)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}
