package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xpanvictor/voicewithin/internal/config"
	"github.com/xpanvictor/voicewithin/internal/handlers"
	"github.com/xpanvictor/voicewithin/internal/handlers/websocket"
	"github.com/xpanvictor/voicewithin/internal/version"
	"github.com/xpanvictor/voicewithin/pkg/Logger"
)

type Dependencies struct {
	Status      handlers.StatusSource
	Connections *websocket.ConnectionManager
	Logger      *Logger.Logger
	Configs     *config.Settings
}

func NewServerDependencies(
	status handlers.StatusSource,
	connections *websocket.ConnectionManager,
	logger *Logger.Logger,
	cfg *config.Settings,
) Dependencies {
	return Dependencies{
		Status:      status,
		Connections: connections,
		Logger:      logger,
		Configs:     cfg,
	}
}

func InitializeRoutes(r *gin.Engine, dep Dependencies) {
	r.Use(
		handlers.ErrorHandlerMiddleware(dep.Logger),
		handlers.RequestLoggerMiddleware(dep.Logger),
		handlers.ReadOnlyMiddleware(),
	)
	r.GET("/", func(ctx *gin.Context) { ctx.JSON(http.StatusOK, gin.H{"message": "voicewithin is running"}) })

	handlers.NewStatusHandler(
		dep.Status,
		dep.Connections,
		dep.Configs.Hotkey.Label,
		version.Short(),
		dep.Logger,
	).RegisterRoutes(r)

	websocket.NewEventsHandler(dep.Logger, dep.Connections, dep.Status).RegisterRoutes(r)
}

// Server is the optional loopback status server.
type Server struct {
	srv    *http.Server
	ln     net.Listener
	logger *Logger.Logger
	errc   chan error
}

func New(dep Dependencies) *Server {
	if !dep.Configs.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	InitializeRoutes(router, dep)

	return &Server{
		srv: &http.Server{
			Addr:              dep.Configs.Server.Addr,
			Handler:           router.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: dep.Logger,
		errc:   make(chan error, 1),
	}
}

// Start binds the listener and serves in the background. Bind errors are
// returned directly; later serve errors arrive on Err.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.srv.Addr, err)
	}
	s.ln = ln
	s.logger.Infow("status server listening", "addr", ln.Addr().String())

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Errorf("status server exited: %v", err)
			s.errc <- err
		}
		close(s.errc)
	}()
	return nil
}

func (s *Server) Err() <-chan error {
	return s.errc
}

// Addr is the bound address, useful when configured with port 0.
func (s *Server) Addr() string {
	if s.ln == nil {
		return s.srv.Addr
	}
	return s.ln.Addr().String()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.ln == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown status server: %w", err)
	}
	s.logger.Info("status server stopped")
	return nil
}
