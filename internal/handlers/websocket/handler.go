package websocket

import (
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/xpanvictor/voicewithin/internal/domains/session"
	"github.com/xpanvictor/voicewithin/pkg/Logger"
)

// SnapshotSource is satisfied by *session.Controller.
type SnapshotSource interface {
	Snapshot() session.Snapshot
}

// EventsHandler upgrades status clients and streams session events to them.
// The stream is read-only; anything a client sends is discarded.
type EventsHandler struct {
	logger   *Logger.Logger
	manager  *ConnectionManager
	status   SnapshotSource
	upgrader websocket.Upgrader
}

func NewEventsHandler(logger *Logger.Logger, manager *ConnectionManager, status SnapshotSource) *EventsHandler {
	return &EventsHandler{
		logger:  logger,
		manager: manager,
		status:  status,
		upgrader: websocket.Upgrader{
			CheckOrigin:     checkLocalOrigin,
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// checkLocalOrigin accepts non-browser clients and pages served from loopback.
func checkLocalOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	host := u.Hostname()
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// RegisterRoutes registers WebSocket routes
func (h *EventsHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/events", h.HandleEvents)
	router.GET("/events/stats", h.HandleStats)
}

// HandleEvents sends the current snapshot, then every transition and
// notification until the client goes away.
func (h *EventsHandler) HandleEvents(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Errorf("WebSocket upgrade failed: %v", err)
		return
	}

	client := NewClient(conn)
	h.manager.RegisterConnection(client)
	defer h.manager.UnregisterConnection(client.ID)

	if err := h.manager.SendTo(client, MessageTypeSnapshot, h.status.Snapshot()); err != nil {
		h.logger.Warnf("initial snapshot not sent to %s: %v", client.ID, err)
	}

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		client.Touch()
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debugf("WebSocket read error: %v", err)
			} else {
				h.logger.Infof("Status client %s disconnected", client.ID)
			}
			return
		}
		client.Touch()
	}
}

// HandleStats provides connection statistics
func (h *EventsHandler) HandleStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"data":   h.manager.GetStats(),
	})
}
