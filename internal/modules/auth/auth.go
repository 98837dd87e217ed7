package auth

import (
	"context"
	"errors"

	"github.com/supplyoffice/ris-backend/internal/modules/user"
)

// ErrInvalidCredentials is returned when the account does not exist or the
// password does not match. The two cases are deliberately not distinguished
// to the caller.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service defines the interface for authentication-related business logic.
type Service interface {
	// Login verifies the account number and password and returns the user
	// together with a signed session token.
	Login(ctx context.Context, id int64, password string) (*user.User, string, error)
}
