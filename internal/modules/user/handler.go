package user

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// Handler exposes user administration and profile HTTP endpoints. The auth
// middleware and caller-identity lookup are injected as plain functions so
// this package stays import-free of the auth package, which depends on it.
type Handler struct {
	service      Service
	requireUser  func(http.Handler) http.Handler
	requireAdmin func(http.Handler) http.Handler
	callerID     func(context.Context) (int64, bool)
}

func NewHandler(service Service, requireUser, requireAdmin func(http.Handler) http.Handler, callerID func(context.Context) (int64, bool)) *Handler {
	return &Handler{
		service:      service,
		requireUser:  requireUser,
		requireAdmin: requireAdmin,
		callerID:     callerID,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/admin/users", func(r chi.Router) {
		r.Use(h.requireAdmin)
		r.Post("/", h.createUser)
		r.Get("/", h.listUsers)
		r.Get("/{id}", h.getUser)
		r.Delete("/{id}", h.deleteUser)
	})

	r.Route("/api/v1/profile", func(r chi.Router) {
		r.Use(h.requireUser)
		r.Get("/", h.profile)
		r.Patch("/", h.updateProfile)
	})
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]any{"success": false, "message": err.Error()})
		return
	}

	u, err := h.service.CreateUser(r.Context(), req)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, ErrDuplicateID) {
			code = http.StatusBadRequest
		}
		respond(w, code, map[string]any{"success": false, "message": err.Error()})
		return
	}
	respond(w, http.StatusCreated, map[string]any{"success": true, "user": u})
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]any{"success": false, "message": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]any{"success": true, "users": users})
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Invalid user ID"})
		return
	}

	u, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, ErrNotFound) {
			code = http.StatusNotFound
		}
		respond(w, code, map[string]any{"success": false, "message": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]any{"success": true, "user": u})
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Invalid user ID"})
		return
	}

	if err := h.service.DeleteUser(r.Context(), id); err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, ErrNotFound) {
			code = http.StatusNotFound
		}
		respond(w, code, map[string]any{"success": false, "message": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	id, ok := h.callerID(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Not authenticated"})
		return
	}

	u, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, ErrNotFound) {
			code = http.StatusNotFound
		}
		respond(w, code, map[string]any{"success": false, "message": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]any{"success": true, "user": u})
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := h.callerID(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Not authenticated"})
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]any{"success": false, "message": err.Error()})
		return
	}

	u, err := h.service.UpdateName(r.Context(), id, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, ErrNameRequired):
			respond(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Name is required"})
		case errors.Is(err, ErrNotFound):
			respond(w, http.StatusNotFound, map[string]any{"success": false, "message": "User not found"})
		default:
			respond(w, http.StatusInternalServerError, map[string]any{"success": false, "message": err.Error()})
		}
		return
	}
	respond(w, http.StatusOK, map[string]any{"success": true, "user": u})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
