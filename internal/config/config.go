package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel   string     `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	SocketPort string     `yaml:"socket-port" env:"SOCKET_PORT" env-default:"55555"`
	HTTPPort   string     `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	UsersFile  string     `yaml:"users-file" env:"USERS_FILE" env-default:"data/users.json"`
	Redis      Redis      `yaml:"redis"`
	Game       Game       `yaml:"game"`
	Connection Connection `yaml:"connection"`
}

type Redis struct {
	Enabled     bool   `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Host        string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port        string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	RecentLimit int    `yaml:"recent-limit" env:"REDIS_RECENT_LIMIT" env-default:"50"`
}

type Game struct {
	RoomCodeLength int           `yaml:"room-code-length" env:"GAME_ROOM_CODE_LENGTH" env-default:"5"`
	MoveTimeout    time.Duration `yaml:"move-timeout" env:"GAME_MOVE_TIMEOUT" env-default:"0s"`
}

type Connection struct {
	OutboundQueue int           `yaml:"outbound-queue" env:"CONNECTION_OUTBOUND_QUEUE" env-default:"64"`
	MaxFrameBytes int           `yaml:"max-frame-bytes" env:"CONNECTION_MAX_FRAME_BYTES" env-default:"1048576"`
	WriteTimeout  time.Duration `yaml:"write-timeout" env:"CONNECTION_WRITE_TIMEOUT" env-default:"10s"`
}

// MustLoad - load all configurations in config.yml file, falling back to the
// environment when the file does not exist.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	_, err := os.Stat(path)
	switch {
	case err == nil:
		if err = cleanenv.ReadConfig(path, config); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		if err = cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
