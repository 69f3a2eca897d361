package websocket

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/xpanvictor/voicewithin/pkg/Logger"
)

const (
	writeWait      = 5 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 32
)

var (
	ErrClientClosed = errors.New("client not active")
	ErrClientSlow   = errors.New("client send buffer full")
)

// Client is one connected status listener. Writes go through a buffered
// queue so a slow reader never blocks the broadcaster.
type Client struct {
	ID          uuid.UUID
	Conn        *websocket.Conn
	ConnectedAt time.Time

	send       chan WSMessage
	lastActive time.Time
	isActive   bool
	mutex      sync.RWMutex
}

func NewClient(conn *websocket.Conn) *Client {
	return &Client{
		ID:          uuid.New(),
		Conn:        conn,
		ConnectedAt: time.Now(),
		send:        make(chan WSMessage, sendBufferSize),
		lastActive:  time.Now(),
		isActive:    true,
	}
}

// Enqueue queues msg without blocking.
func (c *Client) Enqueue(msg WSMessage) error {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	if !c.isActive {
		return ErrClientClosed
	}
	select {
	case c.send <- msg:
		return nil
	default:
		return ErrClientSlow
	}
}

// writePump owns every write on the connection. It returns once the client
// is closed or a write fails.
func (c *Client) writePump(logger *Logger.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.Conn.WriteJSON(msg); err != nil {
				logger.Debugf("write to client %s failed: %v", c.ID, err)
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Touch updates the last activity timestamp
func (c *Client) Touch() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.lastActive = time.Now()
}

func (c *Client) LastActive() time.Time {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.lastActive
}

func (c *Client) IsAlive() bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.isActive
}

// Close stops the write pump, which closes the connection.
func (c *Client) Close() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if !c.isActive {
		return nil
	}
	c.isActive = false
	close(c.send)
	return nil
}
