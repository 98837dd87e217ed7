package release

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/supplyoffice/ris-backend/internal/modules/auth"
	"github.com/supplyoffice/ris-backend/internal/modules/request"
)

// Handler exposes the release HTTP endpoint.
type Handler struct {
	service Service
	auth    *auth.Middleware
}

func NewHandler(service Service, authmw *auth.Middleware) *Handler {
	return &Handler{service: service, auth: authmw}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(h.auth.RequireAdmin).Post("/api/v1/admin/requests/{id}/release", h.release)
}

func (h *Handler) release(w http.ResponseWriter, r *http.Request) {
	requestID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Invalid request id"})
		return
	}

	userID, _ := auth.UserIDFromContext(r.Context())

	processed, err := h.service.Release(r.Context(), requestID, userID)
	if err != nil {
		switch {
		case errors.Is(err, request.ErrNotFound):
			respond(w, http.StatusNotFound, map[string]any{"success": false, "message": "Request not found"})
		case errors.Is(err, request.ErrAlreadyReleased):
			respond(w, http.StatusConflict, map[string]any{"success": false, "message": "Request has already been released"})
		case errors.Is(err, ErrNothingProcessed):
			respond(w, http.StatusBadRequest, map[string]any{
				"success": false,
				"message": "No inventory was updated for this request. Make sure the request items are linked to inventory items.",
			})
		default:
			respond(w, http.StatusInternalServerError, map[string]any{"success": false, "message": err.Error()})
		}
		return
	}

	respond(w, http.StatusOK, map[string]any{"success": true, "processed": processed})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
