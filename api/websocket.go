package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/seenimoa/stockcompare/internal/compare"
	"github.com/seenimoa/stockcompare/pkg/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS is enforced on the HTTP routes only
	},
}

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096
)

// Message types exchanged over the WebSocket.
const (
	WSTypeCompare = "compare"
	WSTypePing    = "ping"
	WSTypePong    = "pong"
	WSTypeNotice  = "notice"
	WSTypeResult  = "result"
	WSTypeError   = "error"
)

// WSMessage is a message sent over WebSocket connections.
type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// WSRequest is a message received from a WebSocket client.
type WSRequest struct {
	Type  string   `json:"type"`
	Names []string `json:"names,omitempty"`
}

// ============================================================
// Hub
// ============================================================

// WSHub manages WebSocket connections and message broadcasting.
type WSHub struct {
	mu         sync.RWMutex
	clients    map[*WSClient]bool
	broadcast  chan WSMessage
	register   chan *WSClient
	unregister chan *WSClient
}

// WSClient represents a single WebSocket connection.
type WSClient struct {
	hub  *WSHub
	send chan WSMessage
}

// NewWSHub creates a new WebSocket hub.
func NewWSHub() *WSHub {
	return &WSHub{
		clients:    make(map[*WSClient]bool),
		broadcast:  make(chan WSMessage, 256),
		register:   make(chan *WSClient),
		unregister: make(chan *WSClient),
	}
}

// Run starts the hub event loop. A client's send channel is closed only
// when the client unregisters.
func (h *WSHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
		case msg := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				// Slow clients miss broadcasts rather than being dropped.
				client.enqueue(msg)
			}
			h.mu.RUnlock()
		}
	}
}

// Broadcast sends a message to all connected WebSocket clients.
func (h *WSHub) Broadcast(msg WSMessage) {
	select {
	case h.broadcast <- msg:
	default:
		// Drop message if broadcast channel is full
	}
}

// ClientCount returns the number of connected WebSocket clients.
func (h *WSHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Register adds a client to the hub.
func (h *WSHub) Register(client *WSClient) {
	h.register <- client
}

// Unregister removes a client from the hub.
func (h *WSHub) Unregister(client *WSClient) {
	h.unregister <- client
}

// enqueue queues msg without blocking and reports whether it was accepted.
func (c *WSClient) enqueue(msg WSMessage) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// ============================================================
// Connection handling
// ============================================================

// handleWebSocket upgrades HTTP connections to WebSocket. Clients send
// {"type":"compare","names":[...]} and receive one "notice" frame per notice
// followed by a single "result" or "error" frame.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "err", err)
		return
	}

	client := &WSClient{
		hub:  s.wsHub,
		send: make(chan WSMessage, 256),
	}

	s.wsHub.Register(client)

	go wsWritePump(conn, client)
	go wsReadPump(conn, client, s)
}

// wsReadPump reads client requests. A client has at most one comparison in
// flight; it runs on a context cancelled when the connection goes away, and
// the send channel stays open until it has returned.
func wsReadPump(conn *websocket.Conn, client *WSClient, s *Server) {
	ctx, cancel := context.WithCancel(context.Background())
	var inflight sync.WaitGroup
	busy := make(chan struct{}, 1)
	defer func() {
		cancel()
		inflight.Wait()
		client.hub.Unregister(client)
		conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("websocket read failed", "err", err)
			}
			break
		}

		var req WSRequest
		if err := json.Unmarshal(message, &req); err != nil {
			client.enqueue(WSMessage{Type: WSTypeError, Data: "invalid message"})
			continue
		}

		switch req.Type {
		case WSTypeCompare:
			select {
			case busy <- struct{}{}:
				inflight.Add(1)
				go func(names []string) {
					defer func() {
						<-busy
						inflight.Done()
					}()
					s.wsCompare(ctx, client, names)
				}(req.Names)
			default:
				client.enqueue(WSMessage{Type: WSTypeError, Data: "a comparison is already running"})
			}
		case WSTypePing:
			client.enqueue(WSMessage{Type: WSTypePong})
		default:
			client.enqueue(WSMessage{Type: WSTypeError, Data: "unknown message type " + req.Type})
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	}
}

// wsCompare runs one comparison, streaming notices to the client.
func (s *Server) wsCompare(ctx context.Context, client *WSClient, names []string) {
	hook := compare.WithNoticeHook(func(n models.Notice) {
		client.enqueue(WSMessage{Type: WSTypeNotice, Data: n})
	})
	cmp, err := s.runComparison(ctx, compare.Request{Names: names}, hook)
	if err != nil {
		if ctx.Err() != nil {
			slog.Info("websocket comparison cancelled", "names", names)
			return
		}
		client.enqueue(WSMessage{Type: WSTypeError, Data: err.Error()})
		return
	}
	client.enqueue(WSMessage{Type: WSTypeResult, Data: cmp})
}

// wsWritePump pumps messages from the hub to the WebSocket connection.
func wsWritePump(conn *websocket.Conn, client *WSClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case msg, ok := <-client.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(msg); err != nil {
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
