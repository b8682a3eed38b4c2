package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/rocketscienceinc/othello-backend/internal/apperror"
	"github.com/rocketscienceinc/othello-backend/internal/entity"
	"github.com/rocketscienceinc/othello-backend/internal/protocol"
	"github.com/rocketscienceinc/othello-backend/internal/usecase"
)

const (
	defaultOutboundQueue = 64
	defaultMaxFrameBytes = 1 << 20
	flushTimeout         = time.Second
)

type roomManager interface {
	CreateRoom(ctx context.Context, occupant usecase.Occupant) (string, error)
	JoinRoom(ctx context.Context, occupant usecase.Occupant, code string) (string, error)
	LeaveRoom(ctx context.Context, occupant usecase.Occupant) (string, error)
	MakeMove(ctx context.Context, occupant usecase.Occupant, row, col int) error
	RoomOf(occupantID string) (string, bool)
}

type userUseCase interface {
	Register(ctx context.Context, username, email, password string) (*entity.User, error)
	Login(ctx context.Context, username, password string) (*entity.User, error)
}

type Options struct {
	OutboundQueue int
	MaxFrameBytes int
	WriteTimeout  time.Duration
}

type handlerFunc func(ctx context.Context, client *Client, msg *protocol.Message) error

// Manager owns every live connection and routes their messages.
type Manager struct {
	logger *slog.Logger
	rooms  roomManager
	users  userUseCase
	opts   Options

	mu      sync.Mutex
	clients map[string]*Client

	handlers map[string]handlerFunc
}

func NewManager(logger *slog.Logger, rooms roomManager, users userUseCase, opts Options) *Manager {
	if opts.OutboundQueue <= 0 {
		opts.OutboundQueue = defaultOutboundQueue
	}

	if opts.MaxFrameBytes <= 0 {
		opts.MaxFrameBytes = defaultMaxFrameBytes
	}

	manager := &Manager{
		logger:  logger.With("component", "session"),
		rooms:   rooms,
		users:   users,
		opts:    opts,
		clients: make(map[string]*Client),
	}

	manager.handlers = map[string]handlerFunc{
		protocol.TypeRegisterUser: manager.handleRegisterUser,
		protocol.TypeLoginUser:    manager.handleLoginUser,
		protocol.TypeCreateRoom:   manager.handleCreateRoom,
		protocol.TypeJoinRoom:     manager.handleJoinRoom,
		protocol.TypeLeaveRoom:    manager.handleLeaveRoom,
		protocol.TypeMakeMove:     manager.handleMakeMove,
	}

	return manager
}

// Serve runs one connection until it closes or ctx is done. It always
// closes conn and detaches the client from its room before returning.
func (that *Manager) Serve(ctx context.Context, conn Conn, remoteAddr string) {
	client := newClient(that.logger, conn, remoteAddr, that.opts.OutboundQueue, that.opts.WriteTimeout)
	log := client.logger.With("method", "Serve")

	that.register(client)
	defer that.teardown(context.WithoutCancel(ctx), client)

	stop := context.AfterFunc(ctx, client.Close)
	defer stop()

	go client.writeLoop()

	log.Info("client connected")

	decoder := protocol.NewDecoder(conn, that.opts.MaxFrameBytes)
	for {
		frame, err := decoder.Next()
		if err != nil {
			that.logReadError(log, client, err)
			return
		}

		that.dispatch(ctx, client, frame)
	}
}

// ClientCount returns the number of live connections.
func (that *Manager) ClientCount() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.clients)
}

func (that *Manager) dispatch(ctx context.Context, client *Client, frame []byte) {
	log := client.logger.With("method", "dispatch")

	msg, err := protocol.Parse(frame)
	if err != nil {
		log.Warn("rejected frame", "error", err)
		client.sendError(protocol.ErrMalformedMessage.Error())

		return
	}

	log.Debug("message received", "type", msg.Type)

	handler, ok := that.handlers[msg.Type]
	if !ok {
		log.Warn("unknown message type", "type", msg.Type)
		client.sendError("unknown message type: " + msg.Type)

		return
	}

	if err = handler(ctx, client, msg); err != nil {
		message, public := clientMessage(err)
		if public {
			log.Debug("request rejected", "type", msg.Type, "error", err)
		} else {
			log.Error("failed to handle message", "type", msg.Type, "error", err)
		}

		client.sendError(message)
	}
}

func (that *Manager) register(client *Client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.clients[client.ID()] = client
}

func (that *Manager) teardown(ctx context.Context, client *Client) {
	log := client.logger.With("method", "teardown")

	if code, err := that.rooms.LeaveRoom(ctx, client); err == nil {
		log.Info("left room on disconnect", "room_code", code)
	} else if !errors.Is(err, apperror.ErrNotInRoom) {
		log.Error("failed to leave room on disconnect", "error", err)
	}

	that.mu.Lock()
	delete(that.clients, client.ID())
	that.mu.Unlock()

	client.Shutdown(flushTimeout)

	log.Info("client disconnected")
}

func (that *Manager) logReadError(log *slog.Logger, client *Client, err error) {
	switch {
	case errors.Is(err, io.EOF):
		log.Debug("client closed connection")
	case errors.Is(err, protocol.ErrFrameTooLarge):
		log.Warn("frame too large, closing connection")
		client.sendError(err.Error())
	case errors.Is(err, net.ErrClosed):
		log.Debug("connection closed locally")
	default:
		select {
		case <-client.Done():
			log.Debug("connection closed", "error", err)
		default:
			log.Info("read failed", "error", err)
		}
	}
}
