package inventory

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/supplyoffice/ris-backend/internal/modules/auth"
)

// Handler exposes stock card, delivery, and report HTTP endpoints.
type Handler struct {
	service Service
	auth    *auth.Middleware
}

func NewHandler(service Service, authmw *auth.Middleware) *Handler {
	return &Handler{service: service, auth: authmw}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(h.auth.RequireUser).Get("/api/v1/items/{id}/stock-card", h.stockCard)
	r.With(h.auth.RequireAdmin).Post("/api/v1/items/{id}/stock-in", h.stockIn)
	r.With(h.auth.RequireAdmin).Get("/api/v1/admin/reports/items", h.report)
}

func (h *Handler) stockCard(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respond(w, http.StatusNotFound, map[string]string{"error": "Item not found"})
		return
	}

	entries, err := h.service.StockCard(r.Context(), itemID)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, entries)
}

func (h *Handler) stockIn(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respond(w, http.StatusNotFound, map[string]string{"error": "Item not found"})
		return
	}

	var req StockInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	req.ItemID = itemID

	userID, _ := auth.UserIDFromContext(r.Context())
	balance, err := h.service.StockIn(r.Context(), req, userID)
	if err != nil {
		if errors.Is(err, ErrNoSummary) {
			respond(w, http.StatusNotFound, map[string]string{"error": "Item has no inventory summary"})
			return
		}
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]any{"success": true, "balance": balance})
}

func (h *Handler) report(w http.ResponseWriter, r *http.Request) {
	year := time.Now().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respond(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Invalid year parameter"})
			return
		}
		year = parsed
	}

	report, err := h.service.Report(r.Context(), year)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]any{"success": false, "message": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]any{"success": true, "year": year, "items": report})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
