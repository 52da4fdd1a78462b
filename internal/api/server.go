package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"minecalc/internal/infra"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Server is the HTTP front end of the calculator.
type Server struct {
	echo *echo.Echo
	addr string
}

// NewServer wires middleware and routes. metrics may be nil.
func NewServer(cfg *infra.Config, svc Estimator, metrics *infra.Metrics) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(requestID())
	e.Use(requestLogger(metrics))
	e.Use(middleware.Recover())
	e.Use(cors(cfg.Server.AllowedOrigins))

	h := NewHandlers(svc)
	stream := NewStreamHandler(svc, cfg.Server.AllowedOrigins)

	e.GET("/health", h.GetHealth)
	e.POST("/calculate", h.Calculate)
	e.POST("/calculate/", h.Calculate)
	e.GET("/network", h.GetNetwork)
	e.GET("/ws/calculate", stream.Calculate)

	if cfg.Metrics.Enabled && metrics != nil {
		e.GET(cfg.Metrics.Path, echo.WrapHandler(metrics.Handler()))
	}

	return &Server{echo: e, addr: cfg.Addr()}
}

// Handler returns the underlying http.Handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens until Shutdown is called. A clean shutdown returns nil.
func (s *Server) Start() error {
	slog.Info("🚀 HTTP server listening", slog.String("addr", s.addr))
	if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
