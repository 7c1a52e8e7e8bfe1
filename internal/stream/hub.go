package stream

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/wheelgate/wheelgate/internal/model"
	"github.com/wheelgate/wheelgate/internal/pkg/logger"
	"github.com/wheelgate/wheelgate/internal/pkg/metrics"
)

const (
	PingPeriod  = 15 * time.Second // keep-alive interval
	PongWait    = 2 * PingPeriod
	WriteWait   = 5 * time.Second
	SendBuffer  = 32
	MessageKind = "phase"
	StateKind   = "state"
)

// Message is the frame pushed to stream clients.
type Message struct {
	Type      string            `json:"type"`
	SessionID string            `json:"session_id"`
	Event     *model.PhaseEvent `json:"event,omitempty"`
	State     any               `json:"state,omitempty"`
}

// Hub fans phase events out to the websocket clients of each session. A
// client that cannot keep up is disconnected rather than allowed to stall
// the spin timeline.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]map[*client]struct{}
	upgrader websocket.Upgrader
	log      *slog.Logger
}

type client struct {
	conn      *websocket.Conn
	sessionID string
	send      chan []byte
	closeOnce sync.Once
}

func NewHub() *Hub {
	return &Hub{
		sessions: make(map[string]map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		log: logger.Component("stream"),
	}
}

// Publish never blocks; it is called from inside the spin coordinator.
func (h *Hub) Publish(sessionID string, ev model.PhaseEvent) {
	h.mu.RLock()
	clients := h.sessions[sessionID]
	if len(clients) == 0 {
		h.mu.RUnlock()
		return
	}
	data, err := json.Marshal(Message{Type: MessageKind, SessionID: sessionID, Event: &ev})
	if err != nil {
		h.mu.RUnlock()
		h.log.Error("failed to marshal event", "error", err)
		return
	}
	var slow []*client
	for c := range clients {
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.log.Warn("dropping slow client", "session_id", sessionID)
		h.unregister(c)
	}
}

// Clients returns the number of connections subscribed to sessionID.
func (h *Hub) Clients(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}

// Serve upgrades the request and streams sessionID's events until the peer
// goes away. initial, if non-nil, is sent first as a state frame.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, sessionID string, initial any) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &client{conn: conn, sessionID: sessionID, send: make(chan []byte, SendBuffer)}
	if initial != nil {
		data, err := json.Marshal(Message{Type: StateKind, SessionID: sessionID, State: initial})
		if err == nil {
			c.send <- data
		}
	}
	h.register(c)

	go h.writePump(c)
	h.readPump(c)
	return nil
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.sessions[c.sessionID] == nil {
		h.sessions[c.sessionID] = make(map[*client]struct{})
	}
	h.sessions[c.sessionID][c] = struct{}{}
	metrics.StreamClients.Inc()
	h.log.Debug("client connected", "session_id", c.sessionID)
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if set, ok := h.sessions[c.sessionID]; ok {
		if _, ok := set[c]; ok {
			delete(set, c)
			metrics.StreamClients.Dec()
			if len(set) == 0 {
				delete(h.sessions, c.sessionID)
			}
		}
	}
	h.mu.Unlock()

	c.closeOnce.Do(func() { close(c.send) })
}

// readPump drains client frames so pongs and close frames are processed.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(PongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn("read failed", "session_id", c.sessionID, "error", err)
			}
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(PingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(WriteWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				h.log.Warn("write failed", "session_id", c.sessionID, "error", err)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
