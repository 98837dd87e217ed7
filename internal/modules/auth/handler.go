package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler exposes authentication HTTP endpoints.
type Handler struct {
	service       Service
	cookieName    string
	cookieMaxAge  int
	secureCookies bool
}

func NewHandler(service Service, cookieName string, cookieMaxAge int, secureCookies bool) *Handler {
	return &Handler{
		service:       service,
		cookieName:    cookieName,
		cookieMaxAge:  cookieMaxAge,
		secureCookies: secureCookies,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", h.login)
		r.Post("/logout", h.logout)
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID       int64  `json:"id"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == 0 || req.Password == "" {
		respond(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Invalid credentials"})
		return
	}

	u, token, err := h.service.Login(r.Context(), req.ID, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			respond(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Invalid credentials"})
			return
		}
		respond(w, http.StatusInternalServerError, map[string]any{"success": false, "message": err.Error()})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   h.cookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.secureCookies,
	})

	respond(w, http.StatusOK, map[string]any{
		"success": true,
		"user": map[string]any{
			"id":   u.ID,
			"name": u.Name,
			"role": u.Role,
		},
	})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.secureCookies,
	})
	respond(w, http.StatusOK, map[string]any{"success": true})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
