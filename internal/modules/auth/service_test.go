package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supplyoffice/ris-backend/internal/modules/user"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	users map[int64]*user.User
}

func (f *fakeUserRepo) Create(ctx context.Context, u *user.User) error { return nil }

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) List(ctx context.Context) ([]*user.User, error)              { return nil, nil }
func (f *fakeUserRepo) UpdateName(ctx context.Context, id int64, name string) error { return nil }
func (f *fakeUserRepo) Delete(ctx context.Context, id int64) error                  { return nil }

func repoWithUser(t *testing.T, id int64, password string) *fakeUserRepo {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &fakeUserRepo{users: map[int64]*user.User{
		id: {ID: id, Name: "Test User", Role: user.RoleStaff, PasswordHash: string(hash)},
	}}
}

func TestLoginIssuesValidToken(t *testing.T) {
	svc := NewService(repoWithUser(t, 2021001, "hunter22"), "secret", time.Minute)

	u, token, err := svc.Login(context.Background(), 2021001, "hunter22")
	require.NoError(t, err)
	assert.Equal(t, int64(2021001), u.ID)

	claims, err := ValidateToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, int64(2021001), claims.UserID)
	assert.Equal(t, user.RoleStaff, claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := NewService(repoWithUser(t, 1, "correct"), "secret", time.Minute)

	_, _, err := svc.Login(context.Background(), 1, "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownUser(t *testing.T) {
	svc := NewService(&fakeUserRepo{users: map[int64]*user.User{}}, "secret", time.Minute)

	_, _, err := svc.Login(context.Background(), 99, "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
