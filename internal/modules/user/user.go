package user

import (
	"context"
	"errors"
	"time"
)

// User is a system account. IDs are assigned by the supply office (the
// number staff type or scan on the login form), not generated.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Roles a user can hold.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// ErrNotFound is returned when no user matches the given id.
var ErrNotFound = errors.New("user not found")

// ErrDuplicateID is returned when creating a user whose id is taken.
var ErrDuplicateID = errors.New("user with this ID already exists")

// ErrNameRequired is returned when a profile update carries no name.
var ErrNameRequired = errors.New("name is required")

// Repository defines user data storage.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	List(ctx context.Context) ([]*User, error)
	UpdateName(ctx context.Context, id int64, name string) error
	Delete(ctx context.Context, id int64) error
}
