package websocket

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/gorilla/websocket"
)

// conn presents a websocket as the newline-delimited stream the session
// layer reads. Each text frame may carry one or more envelopes; each
// outbound envelope becomes one text frame.
type conn struct {
	ws      *websocket.Conn
	pending []byte
}

func newConn(ws *websocket.Conn) *conn {
	return &conn{ws: ws}
}

func (that *conn) Read(p []byte) (int, error) {
	for len(that.pending) == 0 {
		msgType, data, err := that.ws.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return 0, io.EOF
			}

			return 0, fmt.Errorf("failed to read websocket message: %w", err)
		}

		if msgType != websocket.TextMessage && msgType != websocket.BinaryMessage {
			continue
		}

		if !bytes.HasSuffix(data, []byte{'\n'}) {
			data = append(data, '\n')
		}

		that.pending = data
	}

	n := copy(p, that.pending)
	that.pending = that.pending[n:]

	return n, nil
}

func (that *conn) Write(p []byte) (int, error) {
	if err := that.ws.WriteMessage(websocket.TextMessage, bytes.TrimSuffix(p, []byte{'\n'})); err != nil {
		return 0, fmt.Errorf("failed to write websocket message: %w", err)
	}

	return len(p), nil
}

func (that *conn) SetWriteDeadline(t time.Time) error {
	return that.ws.SetWriteDeadline(t)
}

// WriteClose sends the close frame. gorilla serializes it behind any data
// write in flight, so it must only run on the goroutine that writes frames.
func (that *conn) WriteClose(deadline time.Time) error {
	err := that.ws.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		deadline,
	)
	if err != nil {
		return fmt.Errorf("failed to write close message: %w", err)
	}

	return nil
}

// Close drops the underlying socket without a handshake.
func (that *conn) Close() error {
	if err := that.ws.Close(); err != nil {
		return fmt.Errorf("failed to close websocket: %w", err)
	}

	return nil
}
