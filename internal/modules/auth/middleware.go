package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/supplyoffice/ris-backend/internal/modules/user"
)

type contextKey string

const claimsKey contextKey = "authClaims"

// Middleware validates the session cookie and injects the caller's
// identity into the request context.
type Middleware struct {
	secret     string
	cookieName string
}

func NewMiddleware(secret, cookieName string) *Middleware {
	return &Middleware{secret: secret, cookieName: cookieName}
}

// RequireUser rejects requests without a valid session cookie.
func (m *Middleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := m.authenticate(r)
		if !ok {
			unauthenticated(w)
			return
		}
		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
	})
}

// RequireAdmin rejects requests without a valid session cookie carrying the
// admin role.
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := m.authenticate(r)
		if !ok {
			unauthenticated(w)
			return
		}
		if claims.Role != user.RoleAdmin {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "Admin access required"})
			return
		}
		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
	})
}

func (m *Middleware) authenticate(r *http.Request) (*Claims, bool) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil || cookie.Value == "" {
		return nil, false
	}
	claims, err := ValidateToken(m.secret, cookie.Value)
	if err != nil {
		return nil, false
	}
	return claims, true
}

func unauthenticated(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "Not authenticated"})
}

func withClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext returns the authenticated caller's claims, if any.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*Claims)
	return claims, ok
}

// UserIDFromContext returns the authenticated caller's user id, if any.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return 0, false
	}
	return claims.UserID, true
}
