package realtime

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventRequestsUpdated is broadcast whenever the set of RIS requests
// changes, so open dashboards re-fetch instead of polling.
const EventRequestsUpdated = "requests-updated"

// Broadcaster is the producer-side view of the hub.
type Broadcaster interface {
	Broadcast(event string)
}

// Client is one open server-push connection.
type Client struct {
	id uuid.UUID
	ch chan []byte
}

// Events returns the channel of framed messages for this client. The
// channel is closed when the client is unregistered or evicted.
func (c *Client) Events() <-chan []byte { return c.ch }

// clientBuffer is the per-client send buffer. A client that falls this far
// behind is considered dead and evicted on the next broadcast.
const clientBuffer = 8

// Hub fans out change notifications to every registered client. The signal
// carries no authoritative state; consumers re-query on receipt.
type Hub struct {
	mu      sync.Mutex
	clients map[uuid.UUID]*Client
	logger  *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[uuid.UUID]*Client),
		logger:  logger,
	}
}

// Register adds a new client to the live set.
func (h *Hub) Register() *Client {
	c := &Client{id: uuid.New(), ch: make(chan []byte, clientBuffer)}
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
	return c
}

// Unregister removes a client from the live set and closes its channel.
// Safe to call more than once or with an already evicted client.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.id]; ok {
		delete(h.clients, c.id)
		close(c.ch)
	}
}

// Broadcast sends a framed {"type": event} message to every registered
// client. A client whose buffer is full is evicted; delivery to the
// remaining clients always continues. At-most-once, best effort.
func (h *Hub) Broadcast(event string) {
	payload, err := json.Marshal(struct {
		Type string `json:"type"`
	}{Type: event})
	if err != nil {
		h.logger.Error("marshaling realtime event", zap.Error(err))
		return
	}
	frame := []byte(fmt.Sprintf("data: %s\n\n", payload))

	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		select {
		case c.ch <- frame:
		default:
			delete(h.clients, id)
			close(c.ch)
			h.logger.Warn("evicted slow realtime client", zap.String("client_id", id.String()))
		}
	}
}

// ClientCount reports the number of currently registered clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
