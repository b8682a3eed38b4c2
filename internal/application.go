package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/othello-backend/internal/config"
	"github.com/rocketscienceinc/othello-backend/internal/repository"
	"github.com/rocketscienceinc/othello-backend/internal/repository/storage"
	"github.com/rocketscienceinc/othello-backend/internal/session"
	"github.com/rocketscienceinc/othello-backend/internal/usecase"
	"github.com/rocketscienceinc/othello-backend/transport/rest"
	"github.com/rocketscienceinc/othello-backend/transport/tcp"
	"github.com/rocketscienceinc/othello-backend/transport/websocket"
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	var matchRepo repository.MatchRepository
	if conf.Redis.Enabled {
		redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr())
		if err != nil {
			return fmt.Errorf("could not connect to redis storage: %w", err)
		}

		defer func() {
			if err = redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}()

		matchRepo = repository.NewMatchRepository(redisStorage.Connection, conf.Redis.RecentLimit)
	}

	userRepo := repository.NewUserRepository(conf.UsersFile)
	userUseCase := usecase.NewUserUseCase(userRepo)
	results := usecase.NewMatchResults(logger, userRepo, matchRepo)

	rooms := usecase.NewRoomManager(logger, results,
		usecase.WithCodeLength(conf.Game.RoomCodeLength),
		usecase.WithMoveTimeout(conf.Game.MoveTimeout),
	)

	sessions := session.NewManager(logger, rooms, userUseCase, session.Options{
		OutboundQueue: conf.Connection.OutboundQueue,
		MaxFrameBytes: conf.Connection.MaxFrameBytes,
		WriteTimeout:  conf.Connection.WriteTimeout,
	})

	// run TCP server
	tcpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting TCP server", "port", conf.SocketPort)
		if tcpErr := tcp.New(logger, sessions).Start(ctx, conf.SocketPort); tcpErr != nil {
			log.Error("TCP server error", "error", tcpErr)
			tcpErrCh <- tcpErr
		}
	}()

	// run HTTP server with the websocket gateway
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		gateway := websocket.NewGateway(logger, sessions, conf.Connection.MaxFrameBytes)
		httpServer := rest.New(logger, gateway, matchRepo, conf.Redis.RecentLimit).
			WithStats(sessions.ClientCount, rooms.RoomCount)
		if httpErr := httpServer.Start(ctx, conf.HTTPPort); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	select {
	case err := <-tcpErrCh:
		return fmt.Errorf("TCP server error: %w", err)
	case err := <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}
