package request

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/supplyoffice/ris-backend/internal/modules/auth"
)

// Handler exposes RIS request HTTP endpoints.
type Handler struct {
	service Service
	auth    *auth.Middleware
}

func NewHandler(service Service, authmw *auth.Middleware) *Handler {
	return &Handler{service: service, auth: authmw}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/requests", func(r chi.Router) {
		r.Use(h.auth.RequireUser)
		r.Post("/", h.create)
		r.Get("/mine", h.listMine)
		r.Delete("/{id}", h.delete)
	})

	r.With(h.auth.RequireAdmin).Get("/api/v1/admin/requests", h.listAll)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]any{"success": false, "message": err.Error()})
		return
	}

	created, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		if errors.Is(err, ErrNoItems) {
			respond(w, http.StatusBadRequest, map[string]any{"success": false, "message": "No items to save"})
			return
		}
		respond(w, http.StatusInternalServerError, map[string]any{"success": false, "message": err.Error()})
		return
	}
	respond(w, http.StatusCreated, map[string]any{"success": true, "request": created})
}

func (h *Handler) listMine(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	requests, err := h.service.ListMine(r.Context(), userID)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]any{"success": false, "message": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]any{"success": true, "requests": requests})
}

func (h *Handler) listAll(w http.ResponseWriter, r *http.Request) {
	requests, err := h.service.ListAll(r.Context())
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]any{"success": false, "message": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]any{"success": true, "requests": requests})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Invalid request id"})
		return
	}

	if err := h.service.Delete(r.Context(), id, userID); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond(w, http.StatusNotFound, map[string]any{"success": false, "message": "Request not found"})
		case errors.Is(err, ErrAlreadyReleased):
			respond(w, http.StatusConflict, map[string]any{"success": false, "message": "Request has already been released"})
		default:
			respond(w, http.StatusInternalServerError, map[string]any{"success": false, "message": err.Error()})
		}
		return
	}
	respond(w, http.StatusOK, map[string]any{"success": true})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
