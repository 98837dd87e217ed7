package realtime

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/supplyoffice/ris-backend/internal/modules/auth"
)

// Handler exposes the server-sent events endpoint.
type Handler struct {
	hub  *Hub
	auth *auth.Middleware
}

func NewHandler(hub *Hub, authmw *auth.Middleware) *Handler {
	return &Handler{hub: hub, auth: authmw}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(h.auth.RequireUser).Get("/api/v1/events", h.events)
}

func (h *Handler) events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache, no-transform")
	w.Header().Set("Connection", "keep-alive")

	client := h.hub.Register()
	defer h.hub.Unregister(client)

	// Initial keep-alive frame so the client knows the stream is open.
	w.Write([]byte("data: connected\n\n"))
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case frame, ok := <-client.Events():
			if !ok {
				return
			}
			if _, err := w.Write(frame); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
