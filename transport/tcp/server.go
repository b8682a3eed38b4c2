package tcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/rocketscienceinc/othello-backend/internal/session"
)

const acceptBackoff = 50 * time.Millisecond

type connHandler interface {
	Serve(ctx context.Context, conn session.Conn, remoteAddr string)
}

// Server accepts TCP connections and hands each one to its own goroutine.
type Server struct {
	logger  *slog.Logger
	handler connHandler

	wg sync.WaitGroup
}

func New(logger *slog.Logger, handler connHandler) *Server {
	return &Server{
		logger:  logger.With("component", "tcp"),
		handler: handler,
	}
}

// Start - listens on port and serves until ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	var lc net.ListenConfig

	listener, err := lc.Listen(ctx, "tcp", ":"+port)
	if err != nil {
		return fmt.Errorf("failed to listen on port %s: %w", port, err)
	}

	return that.Serve(ctx, listener)
}

// Serve runs the accept loop on listener. It closes listener when ctx is done
// and returns once every connection goroutine has finished.
func (that *Server) Serve(ctx context.Context, listener net.Listener) error {
	log := that.logger.With("method", "Serve", "addr", listener.Addr().String())

	stop := context.AfterFunc(ctx, func() {
		_ = listener.Close()
	})
	defer stop()

	defer that.wg.Wait()

	log.Info("accepting connections")

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				log.Info("listener closed")
				return nil
			}

			log.Warn("accept failed", "error", err)
			time.Sleep(acceptBackoff)

			continue
		}

		that.wg.Add(1)
		go func() {
			defer that.wg.Done()
			that.handler.Serve(ctx, conn, conn.RemoteAddr().String())
		}()
	}
}
