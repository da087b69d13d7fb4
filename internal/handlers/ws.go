package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/kanban-dev/kanban/internal/utils"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512

	// Pending notices per socket. Refresh notices are identical, so a full
	// queue already holds one and further broadcasts are skipped.
	sendBuffer = 8
)

type notice struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	BoardID string `json:"board_id"`
}

// client is one socket watching a board. Only writePump writes to conn.
type client struct {
	boardID uuid.UUID
	conn    *websocket.Conn
	send    chan []byte
}

// Hub fans refresh notices out to the sockets watching a board. Clients
// re-fetch the board view when they receive one.
type Hub struct {
	mu       sync.RWMutex
	clients  map[uuid.UUID]map[*client]bool
	upgrader websocket.Upgrader
}

func NewHub(allowOrigin func(origin string) bool) *Hub {
	return &Hub{
		clients: make(map[uuid.UUID]map[*client]bool),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return allowOrigin(r.Header.Get("Origin"))
			},
		},
	}
}

func (hub *Hub) register(c *client) {
	hub.mu.Lock()
	defer hub.mu.Unlock()

	if hub.clients[c.boardID] == nil {
		hub.clients[c.boardID] = make(map[*client]bool)
	}
	hub.clients[c.boardID][c] = true
}

// unregister removes c and closes its send queue, which stops its writePump.
// Calling it twice is a no-op.
func (hub *Hub) unregister(c *client) {
	hub.mu.Lock()
	defer hub.mu.Unlock()

	clients, exists := hub.clients[c.boardID]
	if !exists || !clients[c] {
		return
	}

	delete(clients, c)
	close(c.send)

	if len(clients) == 0 {
		delete(hub.clients, c.boardID)
	}
}

// Watchers reports how many sockets are subscribed to boardID.
func (hub *Hub) Watchers(boardID uuid.UUID) int {
	hub.mu.RLock()
	defer hub.mu.RUnlock()

	return len(hub.clients[boardID])
}

// BroadcastRefresh queues a refresh notice for every socket watching boardID.
// It never blocks on a slow peer.
func (hub *Hub) BroadcastRefresh(boardID uuid.UUID) {
	msg, err := json.Marshal(notice{Type: "refresh", Message: "Board updated", BoardID: boardID.String()})
	if err != nil {
		log.Printf("Failed to encode refresh notice: %v", err)
		return
	}

	hub.mu.RLock()
	defer hub.mu.RUnlock()

	for c := range hub.clients[boardID] {
		select {
		case c.send <- msg:
		default:
		}
	}
}

// serve runs the socket until the peer goes away. The calling goroutine
// reads; a second goroutine owns every write, pings included.
func (hub *Hub) serve(boardID uuid.UUID, conn *websocket.Conn) {
	c := &client{boardID: boardID, conn: conn, send: make(chan []byte, sendBuffer)}

	welcome, err := json.Marshal(notice{Type: "connected", Message: "WebSocket connection established", BoardID: boardID.String()})
	if err != nil {
		log.Printf("Failed to encode welcome message: %v", err)
		conn.Close()
		return
	}
	c.send <- welcome

	hub.register(c)
	go c.writePump()

	defer func() {
		hub.unregister(c)
		log.Printf("WebSocket connection closed for board %s", boardID)
	}()

	c.readPump()
}

// readPump discards inbound frames. It keeps the read deadline moving with
// pongs and returns once the connection fails or closes.
func (c *client) readPump() {
	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("Failed to set initial read deadline: %v", err)
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error for board %s: %v", c.boardID, err)
			}
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}

			if !ok {
				// Unregistered.
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Printf("Failed to write to client for board %s: %v", c.boardID, err)
				return
			}
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Handler) WebSocket(c *gin.Context) {
	boardID, err := utils.GetIDParam(c, "board_id")

	if err != nil {
		respondError(c, err)
		return
	}

	userID, err := utils.GetCurrentUserID(c)

	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if _, err := h.boards.AuthorizeRead(c.Request.Context(), userID, boardID); err != nil {
		respondError(c, err)
		return
	}

	conn, err := h.hub.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	h.hub.serve(boardID, conn)
}
