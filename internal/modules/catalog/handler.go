package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/supplyoffice/ris-backend/internal/modules/auth"
)

// Handler exposes item and unit HTTP endpoints.
type Handler struct {
	service Service
	auth    *auth.Middleware
}

func NewHandler(service Service, authmw *auth.Middleware) *Handler {
	return &Handler{service: service, auth: authmw}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/items", func(r chi.Router) {
		r.With(h.auth.RequireUser).Get("/", h.listItems)
		r.With(h.auth.RequireUser).Get("/{id}", h.getItem)
		r.With(h.auth.RequireAdmin).Post("/", h.createItem)
		r.With(h.auth.RequireAdmin).Put("/{id}", h.updateItem)
		r.With(h.auth.RequireAdmin).Delete("/{id}", h.deleteItem)
	})

	r.Route("/api/v1/units", func(r chi.Router) {
		r.With(h.auth.RequireUser).Get("/", h.listUnits)
		r.With(h.auth.RequireAdmin).Post("/", h.createUnit)
	})
}

func (h *Handler) listItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListItems(r.Context())
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, items)
}

func (h *Handler) getItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respond(w, http.StatusNotFound, map[string]string{"error": "Item not found"})
		return
	}

	it, err := h.service.GetItem(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			respond(w, http.StatusNotFound, map[string]string{"error": "Item not found"})
			return
		}
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, it)
}

func (h *Handler) createItem(w http.ResponseWriter, r *http.Request) {
	var req CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	userID, _ := auth.UserIDFromContext(r.Context())
	it, err := h.service.CreateItem(r.Context(), req, userID)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusCreated, it)
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respond(w, http.StatusNotFound, map[string]string{"error": "Item not found"})
		return
	}

	var req UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	it, err := h.service.UpdateItem(r.Context(), id, req)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			respond(w, http.StatusNotFound, map[string]string{"error": "Item not found"})
			return
		}
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, it)
}

func (h *Handler) deleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respond(w, http.StatusNotFound, map[string]string{"error": "Item not found"})
		return
	}

	if err := h.service.DeleteItem(r.Context(), id); err != nil {
		if errors.Is(err, ErrItemNotFound) {
			respond(w, http.StatusNotFound, map[string]string{"error": "Item not found"})
			return
		}
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) listUnits(w http.ResponseWriter, r *http.Request) {
	units, err := h.service.ListUnits(r.Context())
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, units)
}

func (h *Handler) createUnit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	unit, created, err := h.service.CreateUnit(r.Context(), req.Name)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respond(w, status, unit)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
