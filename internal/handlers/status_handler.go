package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xpanvictor/voicewithin/internal/domains/session"
	"github.com/xpanvictor/voicewithin/pkg/Logger"
)

type StatusSource interface {
	Snapshot() session.Snapshot
}

// ClientCounter reports connected event-stream clients.
type ClientCounter interface {
	GetClientCount() int
}

type StatusHandler struct {
	status  StatusSource
	clients ClientCounter
	hotkey  string
	version string
	logger  *Logger.Logger
}

func NewStatusHandler(status StatusSource, clients ClientCounter, hotkey, version string, logger *Logger.Logger) *StatusHandler {
	return &StatusHandler{
		status:  status,
		clients: clients,
		hotkey:  hotkey,
		version: version,
		logger:  logger,
	}
}

// RegisterRoutes registers the read-only status routes
func (h *StatusHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/healthz", h.Healthz)
	router.GET("/status", h.Status)
}

// Healthz godoc
// @Summary Liveness probe
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func (h *StatusHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok", Version: h.version})
}

// Status godoc
// @Summary Current session state
// @Produce json
// @Success 200 {object} StatusResponse
// @Router /status [get]
func (h *StatusHandler) Status(c *gin.Context) {
	clients := 0
	if h.clients != nil {
		clients = h.clients.GetClientCount()
	}
	c.JSON(http.StatusOK, NewStatusResponse(h.status.Snapshot(), h.hotkey, clients, time.Now()))
}
