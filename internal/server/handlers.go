// Package server provides the HTTP surface of the interview gateway.
package server

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"interviewgw/internal/core"
	"interviewgw/internal/gateway"
)

// Handler holds the HTTP handlers
type Handler struct {
	dispatcher *gateway.Dispatcher
}

// NewHandler creates a new handler around the dispatcher
func NewHandler(dispatcher *gateway.Dispatcher) *Handler {
	return &Handler{dispatcher: dispatcher}
}

// Chat handles POST /chat. The reply is forwarded to the caller as it
// arrives: chunked transfer, flushed per chunk, never buffered in full.
func (h *Handler) Chat(c echo.Context) error {
	var req core.ChatRequest
	if err := c.Bind(&req); err != nil {
		return handleError(c, core.NewInvalidRequestError("invalid request body: "+err.Error(), err))
	}

	result, err := h.dispatcher.Dispatch(c.Request().Context(), &req)
	if err != nil {
		return handleError(c, err)
	}
	defer func() {
		_ = result.Body.Close() //nolint:errcheck
	}()

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "text/plain; charset=utf-8")
	resp.Header().Set("Cache-Control", "no-cache")
	resp.WriteHeader(http.StatusOK)

	h.forward(c, result)
	return nil
}

// forward copies the reply body to the client chunk by chunk, flushing
// after each write. Backpressure from a slow client propagates to the
// upstream read since nothing is buffered in between.
func (h *Handler) forward(c echo.Context, result *gateway.Result) {
	resp := c.Response()
	metrics := h.dispatcher.Metrics()

	buf := make([]byte, 4096)
	for {
		n, err := result.Body.Read(buf)
		if n > 0 {
			if _, werr := resp.Write(buf[:n]); werr != nil {
				// Client went away; stop reading upstream.
				return
			}
			metrics.AddStreamedBytes(n)
			resp.Flush()
		}
		if err != nil {
			if err != io.EOF {
				// Headers are already sent, so the best we can do is
				// end the stream; the client sees a premature close.
				slog.Warn("reply stream ended with error",
					"provider", result.Provider,
					"request_id", core.GetRequestID(c.Request().Context()),
					"error", err,
				)
			}
			return
		}
	}
}

// ChatHealth handles GET /chat: reports the currently resolved provider
// and per-provider credential availability.
func (h *Handler) ChatHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, h.dispatcher.Health())
}

// Health handles GET /health
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// handleError converts gateway errors to appropriate HTTP responses
func handleError(c echo.Context, err error) error {
	var gatewayErr *core.GatewayError
	if errors.As(err, &gatewayErr) {
		if gatewayErr.HTTPStatusCode() >= http.StatusInternalServerError {
			slog.Error("request failed",
				"type", gatewayErr.Type,
				"provider", gatewayErr.Provider,
				"request_id", core.GetRequestID(c.Request().Context()),
				"error", gatewayErr.Message,
			)
		}
		return c.JSON(gatewayErr.HTTPStatusCode(), gatewayErr.ToJSON())
	}

	// Fallback for unexpected errors
	return c.JSON(http.StatusInternalServerError, map[string]interface{}{
		"error": map[string]interface{}{
			"type":    "internal_error",
			"message": "an unexpected error occurred",
		},
	})
}
