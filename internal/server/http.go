package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"interviewgw/config"
	"interviewgw/internal/core"
	"interviewgw/internal/gateway"
	"interviewgw/internal/observability"
)

// Server wraps the Echo server
type Server struct {
	echo    *echo.Echo
	handler *Handler
}

// Config holds server configuration options
type Config struct {
	// BodySizeLimit is the max request body size (default: 1MB)
	BodySizeLimit string

	// Metrics, when set, is exposed at /metrics
	Metrics *observability.Metrics
}

// New creates a new HTTP server around the dispatcher
func New(dispatcher *gateway.Dispatcher, cfg *Config) *Server {
	e := echo.New()
	e.HideBanner = true

	handler := NewHandler(dispatcher)

	bodyLimit := config.DefaultBodySizeLimit
	if cfg != nil && cfg.BodySizeLimit != "" {
		bodyLimit = cfg.BodySizeLimit
	}

	// Global middleware stack (order matters)
	e.Use(requestID())
	e.Use(requestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(bodyLimit))

	// Public routes
	e.GET("/health", handler.Health)
	if cfg != nil && cfg.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(cfg.Metrics.Handler()))
	}

	// Gateway routes
	e.GET("/chat", handler.ChatHealth)
	e.POST("/chat", handler.Chat)

	return &Server{
		echo:    e,
		handler: handler,
	}
}

// requestID issues a request ID (honoring an inbound X-Request-ID) and
// attaches it to the request context and response header.
func requestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = uuid.NewString()
			}
			ctx := core.WithRequestID(c.Request().Context(), id)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Response().Header().Set(echo.HeaderXRequestID, id)
			return next(c)
		}
	}
}

// requestLogger logs one structured line per request
func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogMethod:  true,
		LogURI:     true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			slog.Info("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", core.GetRequestID(c.Request().Context()),
			)
			return nil
		},
	})
}

// Start starts the HTTP server on the given address
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// ServeHTTP implements the http.Handler interface, allowing Server to be used with httptest
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}
