package server

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 20
	sendQueueSize  = 64
)

// client is one WebSocket connection. A connection authenticates once via
// a login envelope and may then subscribe to any number of matches it is
// seated at.
type client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	logger *zap.Logger

	mu        sync.RWMutex
	userID    string
	sessionID string
	matches   map[string]bool
}

func newClient(hub *Hub, conn *websocket.Conn, logger *zap.Logger) *client {
	return &client{
		hub:     hub,
		conn:    conn,
		send:    make(chan []byte, sendQueueSize),
		logger:  logger,
		matches: make(map[string]bool),
	}
}

func (c *client) user() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.userID
}

func (c *client) setUser(userID, sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userID = userID
	c.sessionID = sessionID
}

func (c *client) session() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sessionID
}

func (c *client) joinedMatches() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]string, 0, len(c.matches))
	for id := range c.matches {
		ids = append(ids, id)
	}
	return ids
}

func (c *client) markJoined(matchID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.matches[matchID] = true
}

func (c *client) markLeft(matchID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.matches, matchID)
}

// enqueue hands a payload to the write pump. A client that cannot keep up
// is disconnected rather than allowed to block the broadcaster; it will
// resynchronize from the latest snapshot on reconnect.
func (c *client) enqueue(payload []byte) {
	select {
	case c.send <- payload:
	default:
		c.logger.Warn("client send queue full, dropping connection",
			zap.String("user", c.user()),
		)
		c.hub.disconnect(c)
		// Closing the socket unblocks both pumps immediately; without it
		// the connection would linger until the ping deadline lapses.
		c.conn.Close()
	}
}

func (c *client) readPump() {
	defer func() {
		c.hub.disconnect(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("websocket read error", zap.Error(err))
			}
			return
		}
		c.hub.handleMessage(c, data)
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
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
