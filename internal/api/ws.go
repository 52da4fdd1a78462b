package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"minecalc/internal/domain"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	wsReadLimit = 4096
	wsWriteWait = 10 * time.Second
	wsIdleWait  = 5 * time.Minute
)

// StreamError is the websocket reply for a failed calculation.
type StreamError struct {
	Error StreamErrorBody `json:"error"`
}

// StreamErrorBody carries the HTTP-equivalent status of the failure.
type StreamErrorBody struct {
	Status int `json:"status"`
	ErrorResponse
}

// StreamHandler answers every websocket text message, a calculate request
// body, with a calculation against a freshly fetched snapshot.
type StreamHandler struct {
	svc      Estimator
	upgrader websocket.Upgrader
}

func NewStreamHandler(svc Estimator, allowedOrigins []string) *StreamHandler {
	return &StreamHandler{
		svc: svc,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return originAllowed(allowedOrigins, r.Header.Get("Origin"))
			},
		},
	}
}

// Calculate upgrades the connection and serves requests until the client closes it.
func (h *StreamHandler) Calculate(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade has already written the HTTP error
		slog.Warn("Websocket upgrade failed", slog.Any("error", err))
		return nil
	}
	defer conn.Close()

	conn.SetReadLimit(wsReadLimit)
	ctx := c.Request().Context()

	for {
		conn.SetReadDeadline(time.Now().Add(wsIdleWait))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Warn("Websocket closed unexpectedly", slog.Any("error", err))
			}
			return nil
		}

		var reply any
		var in domain.MiningInputs
		if err := json.Unmarshal(msg, &in); err != nil {
			reply = StreamError{Error: StreamErrorBody{
				Status:        http.StatusBadRequest,
				ErrorResponse: ErrorResponse{Detail: "invalid request body"},
			}}
		} else if est, err := h.svc.Calculate(ctx, in); err != nil {
			status, body := errorStatus(err)
			reply = StreamError{Error: StreamErrorBody{Status: status, ErrorResponse: body}}
		} else {
			reply = NewCalculateResponse(est)
		}

		conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteJSON(reply); err != nil {
			slog.Warn("Websocket write failed", slog.Any("error", err))
			return nil
		}
	}
}

func originAllowed(allowed []string, origin string) bool {
	if origin == "" || len(allowed) == 0 {
		return true
	}
	return slices.Contains(allowed, "*") || slices.Contains(allowed, origin)
}
