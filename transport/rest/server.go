package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/rocketscienceinc/othello-backend/pkg/handlers"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	logger *slog.Logger
	mux    *http.ServeMux
}

// New builds the HTTP surface: health check, match history and the websocket gateway.
// matches may be nil when the archive is disabled.
func New(logger *slog.Logger, ws http.Handler, matches matchReader, recentLimit int) *Server {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", handlers.PingHandler)

	history := newMatchHandler(logger, matches, recentLimit)
	mux.HandleFunc("GET /matches/recent", history.recent)
	mux.HandleFunc("GET /leaderboard", history.leaderboard)

	if ws != nil {
		mux.Handle("GET /ws", ws)
	}

	return &Server{
		logger: logger.With("component", "http"),
		mux:    mux,
	}
}

// WithStats exposes live counters on GET /stats.
func (that *Server) WithStats(connections, rooms func() int) *Server {
	that.mux.HandleFunc("GET /stats", handlers.StatsHandler(connections, rooms))
	return that
}

func (that *Server) Handler() http.Handler {
	return that.mux
}

// Start - serves HTTP on port until ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     that.mux,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	stop := context.AfterFunc(ctx, func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down HTTP server", "error", err)
		}
	})
	defer stop()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
