// Package httpapi exposes the REST and WebSocket surface of the chat
// backend. It contains no broadcast semantics: every operation delegates to
// the services layer.
package httpapi

import (
	"chat-relay/contract"
	"chat-relay/observability"
	"chat-relay/services"
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Server struct {
	echo      *echo.Echo
	log       *slog.Logger
	auth      services.IAuthService
	rooms     services.IRoomService
	chat      services.IChatService
	analytics services.IAnalyticsService
	verifier  contract.TokenVerifier
	monitor   *observability.Monitor

	upgrader         websocket.Upgrader
	maxContentLength int
}

func NewServer(
	log *slog.Logger,
	auth services.IAuthService,
	rooms services.IRoomService,
	chat services.IChatService,
	analytics services.IAnalyticsService,
	verifier contract.TokenVerifier,
	monitor *observability.Monitor,
	maxContentLength int,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod: true,
		LogURI:    true,
		LogStatus: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("http request", "method", v.Method, "uri", v.URI, "status", v.Status)
			return nil
		},
	}))
	e.Use(middleware.Recover())

	s := &Server{
		echo:      e,
		log:       log,
		auth:      auth,
		rooms:     rooms,
		chat:      chat,
		analytics: analytics,
		verifier:  verifier,
		monitor:   monitor,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		maxContentLength: maxContentLength,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.echo.POST("/signup", s.handleSignup)
	s.echo.POST("/login", s.handleLogin)
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/rooms", s.handleListRooms)

	s.echo.POST("/rooms", s.handleCreateRoom, s.withIdentity, s.adminOnly)
	s.echo.GET("/rooms/:id/messages", s.handleRoomMessages, s.withIdentity)
	s.echo.GET("/search", s.handleSearch, s.withIdentity)

	s.echo.GET("/analytics/messages-per-room", s.handleMessagesPerRoom, s.withIdentity, s.adminOnly)
	s.echo.GET("/analytics/messages-per-room/csv", s.handleMessagesPerRoomCSV, s.withIdentity, s.adminOnly)
	s.echo.GET("/analytics/user-activity", s.handleUserActivity, s.withIdentity, s.adminOnly)

	s.echo.GET("/ws/:room", s.handleWebSocket)
}

// Start runs the HTTP server and blocks until it is shut down.
func (s *Server) Start(addr string) error {
	if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
