package user

import "context"

// Service defines user account business logic.
type Service interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (*User, error)
	GetUser(ctx context.Context, id int64) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	UpdateName(ctx context.Context, id int64, name string) (*User, error)
	DeleteUser(ctx context.Context, id int64) error
}

// CreateUserRequest holds the data for creating a user account.
type CreateUserRequest struct {
	ID       int64  `json:"id" validate:"required,gt=0"`
	Name     string `json:"name" validate:"required"`
	Role     string `json:"role" validate:"omitempty,oneof=admin staff"`
	Password string `json:"password" validate:"required,min=4"`
}
