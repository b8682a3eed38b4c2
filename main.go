package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	app "github.com/rocketscienceinc/othello-backend/internal"
	"github.com/rocketscienceinc/othello-backend/internal/config"
)

const serviceName = "othello-backend"

// main - loads config.yml from the working directory, builds the logger and runs the servers.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	baseDir, err := os.Getwd()
	if err != nil {
		panic(fmt.Errorf("failed to get current directory: %w", err))
	}

	conf := config.MustLoad(filepath.Join(baseDir, "config.yml"))
	logger := newLogger(conf.LogLevel)

	logger.Info("Starting server", "socket_port", conf.SocketPort, "http_port", conf.HTTPPort)

	if err = app.RunApp(logger, conf); err != nil {
		panic(fmt.Errorf("app run failed: %w", err))
	}
}

// newLogger accepts debug, info, warn and error; anything else falls back to info.
func newLogger(levelName string) *slog.Logger {
	var level slog.Level
	badLevel := level.UnmarshalText([]byte(levelName)) != nil
	if badLevel {
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With("service", serviceName)

	if badLevel {
		logger.Warn("unknown log level, using info", "log_level", levelName)
	}

	return logger
}
