package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supplyoffice/ris-backend/internal/modules/user"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("secret", 42, "Jane Admin", user.RoleAdmin, time.Minute)
	require.NoError(t, err)

	claims, err := ValidateToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "Jane Admin", claims.Name)
	assert.Equal(t, user.RoleAdmin, claims.Role)
}

func TestTokenWrongSecretRejected(t *testing.T) {
	token, err := GenerateToken("secret", 1, "Staff", user.RoleStaff, time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken("other-secret", token)
	assert.Error(t, err)
}

func TestTokenExpiredRejected(t *testing.T) {
	token, err := GenerateToken("secret", 1, "Staff", user.RoleStaff, -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken("secret", token)
	assert.Error(t, err)
}

func TestTokenGarbageRejected(t *testing.T) {
	_, err := ValidateToken("secret", "not-a-token")
	assert.Error(t, err)
}
