package ws

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rakibul966222/Rakib-pay/internal/notify"
	"go.uber.org/zap"
)

// Envelope is the wire frame for everything pushed to clients.
type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Hub tracks the open websocket connections per account and serializes all
// writes to them. One account can have several live sessions.
type Hub struct {
	log *zap.Logger

	mu      sync.Mutex
	clients map[string]map[*websocket.Conn]bool
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		log:     log,
		clients: make(map[string]map[*websocket.Conn]bool),
	}
}

func (h *Hub) Register(accountID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[accountID] == nil {
		h.clients[accountID] = make(map[*websocket.Conn]bool)
	}
	h.clients[accountID][conn] = true
}

func (h *Hub) Unregister(accountID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.clients[accountID]; ok {
		delete(conns, conn)
		conn.Close()
		if len(conns) == 0 {
			delete(h.clients, accountID)
		}
	}
}

// Send pushes a message to every session of an account, dropping dead
// connections as it goes.
func (h *Hub) Send(accountID string, message Envelope) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients[accountID] {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.log.Warn("websocket write failed, dropping connection",
				zap.String("account_id", accountID), zap.Error(err))
			conn.Close()
			delete(h.clients[accountID], conn)
		}
	}
	return nil
}

// SendTo pushes a message to a single connection under the hub's write
// lock, so per-session snapshots never interleave with fan-out alerts.
func (h *Hub) SendTo(conn *websocket.Conn, message Envelope) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return conn.WriteMessage(websocket.TextMessage, payload)
}

// Alert implements notify.Alerter over the hub.
func (h *Hub) Alert(accountID string, alert notify.Alert) error {
	return h.Send(accountID, Envelope{Type: "alert", Data: alert})
}
