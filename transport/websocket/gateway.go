package websocket

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/othello-backend/internal/session"
)

const bufferSize = 1024

type connHandler interface {
	Serve(ctx context.Context, conn session.Conn, remoteAddr string)
}

// Gateway upgrades HTTP requests and feeds the resulting sockets to the
// same session manager the TCP listener uses.
type Gateway struct {
	logger        *slog.Logger
	handler       connHandler
	upgrader      websocket.Upgrader
	maxFrameBytes int64
}

func NewGateway(logger *slog.Logger, handler connHandler, maxFrameBytes int) *Gateway {
	return &Gateway{
		logger:  logger.With("component", "websocket"),
		handler: handler,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  bufferSize,
			WriteBufferSize: bufferSize,
			CheckOrigin: func(_ *http.Request) bool {
				return true
			},
		},
		maxFrameBytes: int64(maxFrameBytes),
	}
}

// ServeHTTP blocks for the lifetime of the websocket.
func (that *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "ServeHTTP", "remote_addr", r.RemoteAddr)

	ws, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("failed to upgrade connection", "error", err)
		return
	}

	if that.maxFrameBytes > 0 {
		ws.SetReadLimit(that.maxFrameBytes)
	}

	that.handler.Serve(r.Context(), newConn(ws), r.RemoteAddr)
}
