package session

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/othello-backend/internal/entity"
	"github.com/rocketscienceinc/othello-backend/internal/protocol"
)

// DefaultUsername is shown for connections that never registered or logged in.
const DefaultUsername = "Anonymous"

const closeHandshakeTimeout = time.Second

// Conn is the byte stream a client talks over. net.Conn satisfies it.
// Close must not block on pending writes.
type Conn interface {
	io.ReadWriteCloser
	SetWriteDeadline(t time.Time) error
}

// handshakeCloser is implemented by transports with a closing handshake.
// It is only ever called from the write loop.
type handshakeCloser interface {
	WriteClose(deadline time.Time) error
}

// Client is one live connection. Reads happen on the goroutine running
// Manager.Serve, writes on the client's own write loop.
type Client struct {
	id         string
	remoteAddr string
	conn       Conn
	logger     *slog.Logger

	writeTimeout time.Duration
	outbound     chan []byte
	done         chan struct{}
	draining     chan struct{}
	writerDone   chan struct{}
	closeOnce    sync.Once
	drainOnce    sync.Once

	mu       sync.RWMutex
	userID   string
	username string
}

func newClient(logger *slog.Logger, conn Conn, remoteAddr string, queueSize int, writeTimeout time.Duration) *Client {
	id := uuid.NewString()

	return &Client{
		id:           id,
		remoteAddr:   remoteAddr,
		conn:         conn,
		logger:       logger.With("player_id", id, "remote_addr", remoteAddr),
		writeTimeout: writeTimeout,
		outbound:     make(chan []byte, queueSize),
		done:         make(chan struct{}),
		draining:     make(chan struct{}),
		writerDone:   make(chan struct{}),
	}
}

// ID is the connection id, stable for the socket's lifetime.
func (that *Client) ID() string {
	return that.id
}

// Player is the identity shown to other players. A logged in client is shown
// with its account id.
func (that *Client) Player() entity.Player {
	that.mu.RLock()
	defer that.mu.RUnlock()

	player := entity.Player{ID: that.id, Username: DefaultUsername}

	if that.userID != "" {
		player.ID = that.userID
	}

	if that.username != "" {
		player.Username = that.username
	}

	return player
}

func (that *Client) setIdentity(userID, username string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.userID = userID
	that.username = username
}

// Send queues a message without blocking. A client whose queue is full is
// too slow to keep up and gets disconnected.
func (that *Client) Send(msgType string, payload any) {
	frame, err := protocol.Encode(msgType, payload)
	if err != nil {
		that.logger.Error("failed to encode message", "type", msgType, "error", err)
		return
	}

	select {
	case <-that.done:
		return
	default:
	}

	select {
	case that.outbound <- frame:
	default:
		that.logger.Warn("outbound queue full, dropping connection", "type", msgType)
		that.Close()
	}
}

func (that *Client) sendError(message string) {
	that.Send(protocol.TypeError, protocol.ErrorPayload{Message: message})
}

// Close shuts the connection down without flushing. It never waits on the
// write loop, so it is safe to call under a room lock and more than once.
func (that *Client) Close() {
	that.closeOnce.Do(func() {
		close(that.done)

		if err := that.conn.Close(); err != nil {
			that.logger.Debug("failed to close connection", "error", err)
		}
	})
}

// Shutdown lets the write loop flush what is queued, then closes the
// connection. Frames still unwritten after timeout are dropped.
func (that *Client) Shutdown(timeout time.Duration) {
	that.drainOnce.Do(func() { close(that.draining) })

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-that.writerDone:
	case <-timer.C:
		that.logger.Debug("flush timed out")
	}

	that.Close()
}

// Done is closed once the client is shut down.
func (that *Client) Done() <-chan struct{} {
	return that.done
}

func (that *Client) writeLoop() {
	defer close(that.writerDone)

	for {
		select {
		case frame := <-that.outbound:
			if err := that.write(frame); err != nil {
				that.logger.Info("write failed, closing connection", "error", err)
				that.Close()

				return
			}
		case <-that.draining:
			that.flush()
			return
		case <-that.done:
			return
		}
	}
}

func (that *Client) flush() {
	for {
		select {
		case frame := <-that.outbound:
			if err := that.write(frame); err != nil {
				that.logger.Debug("failed to flush frame", "error", err)
				return
			}
		case <-that.done:
			return
		default:
			if closer, ok := that.conn.(handshakeCloser); ok {
				if err := closer.WriteClose(time.Now().Add(closeHandshakeTimeout)); err != nil {
					that.logger.Debug("failed to write close handshake", "error", err)
				}
			}

			return
		}
	}
}

func (that *Client) write(frame []byte) error {
	if that.writeTimeout > 0 {
		if err := that.conn.SetWriteDeadline(time.Now().Add(that.writeTimeout)); err != nil {
			return fmt.Errorf("failed to set write deadline: %w", err)
		}
	}

	if _, err := that.conn.Write(frame); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}

	return nil
}
