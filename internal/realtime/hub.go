// Package realtime carries diagram snapshots between co-editing sessions:
// a server-side SSE fan-out hub, a client-side subscriber with reconnect
// handling, the reconciler that decides whether an incoming snapshot may
// touch local state, and a debounced saver.
package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"umlforge/internal/models"
)

// Update is the wire message sent over the diagram event stream.
type Update struct {
	Type        string              `json:"type"`
	DiagramID   string              `json:"diagram_id"`
	OriginalID  string              `json:"original_id,omitempty"`
	DiagramData *models.DiagramData `json:"diagram_data,omitempty"`
	Timestamp   string              `json:"timestamp,omitempty"`
	UserID      string              `json:"user_id,omitempty"`
	Message     string              `json:"message,omitempty"`
}

const (
	UpdateTypeConnected = "connected"
	UpdateTypeUpdate    = "update"
	UpdateTypeError     = "error"
)

// listenerBuffer bounds how far a consumer may lag before its messages are
// dropped instead of blocking the broadcaster.
const listenerBuffer = 16

// Hub fans diagram updates out to every listener of a diagram. Listeners are
// plain channels keyed by diagram id, the in-memory equivalent of one editor
// tab holding one event-stream connection.
type Hub struct {
	mu         sync.Mutex
	listeners  map[string]map[chan []byte]struct{}
	lastUpdate map[string]time.Time
	logger     *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		listeners:  make(map[string]map[chan []byte]struct{}),
		lastUpdate: make(map[string]time.Time),
		logger:     logger,
	}
}

func (h *Hub) Subscribe(diagramID string) chan []byte {
	ch := make(chan []byte, listenerBuffer)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.listeners[diagramID] == nil {
		h.listeners[diagramID] = make(map[chan []byte]struct{})
	}
	h.listeners[diagramID][ch] = struct{}{}
	return ch
}

func (h *Hub) Unsubscribe(diagramID string, ch chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.listeners[diagramID]
	if !ok {
		return
	}
	if _, ok := set[ch]; !ok {
		return
	}
	delete(set, ch)
	close(ch)
	if len(set) == 0 {
		delete(h.listeners, diagramID)
	}
}

// Broadcast sends an update snapshot to every listener of the diagram.
// userID identifies the session whose save produced the update so receivers
// can suppress their own echo.
func (h *Hub) Broadcast(diagramID string, data *models.DiagramData, userID string) {
	now := time.Now().UTC()
	msg := Update{
		Type:        UpdateTypeUpdate,
		DiagramID:   diagramID,
		DiagramData: data,
		Timestamp:   now.Format(time.RFC3339Nano),
		UserID:      userID,
	}
	raw, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal update", zap.String("diagram_id", diagramID), zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastUpdate[diagramID] = now

	for ch := range h.listeners[diagramID] {
		select {
		case ch <- raw:
		default:
			// Lagging consumer; drop rather than stall the save path.
			h.logger.Warn("dropping update for slow listener", zap.String("diagram_id", diagramID))
		}
	}
}

// Listeners reports how many sessions are currently streaming the diagram.
func (h *Hub) Listeners(diagramID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.listeners[diagramID])
}

// LastUpdate returns when the diagram last broadcast, if ever.
func (h *Hub) LastUpdate(diagramID string) (time.Time, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	t, ok := h.lastUpdate[diagramID]
	return t, ok
}
