package request

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supplyoffice/ris-backend/internal/modules/auth"
	"github.com/supplyoffice/ris-backend/internal/modules/user"
	"go.uber.org/zap"
)

func TestCreateEndpointRejectsEmptySubmission(t *testing.T) {
	const secret = "test-secret"
	authmw := auth.NewMiddleware(secret, "session")
	svc := NewService(newFakeRepo(), &countingNotifier{}, zap.NewNop())

	router := chi.NewRouter()
	NewHandler(svc, authmw).RegisterRoutes(router)

	token, err := auth.GenerateToken(secret, 7, "Jane Staff", user.RoleStaff, time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/requests",
		strings.NewReader(`{"purpose":"office use","items":[]}`))
	req.AddCookie(&http.Cookie{Name: "session", Value: token})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"No items to save"}`, rec.Body.String())
}
