package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rocketscienceinc/othello-backend/internal/apperror"
	"github.com/rocketscienceinc/othello-backend/internal/entity"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	IncrementScore(ctx context.Context, username string, delta int) error
}

// fileUser keeps every account in one JSON object keyed by username.
// The whole file is read and rewritten under mu on each change.
type fileUser struct {
	mu   sync.Mutex
	path string
}

func NewUserRepository(path string) UserRepository {
	return &fileUser{
		path: path,
	}
}

func (that *fileUser) Create(_ context.Context, user *entity.User) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	users, err := that.load()
	if err != nil {
		return err
	}

	if _, exists := users[user.Username]; exists {
		return apperror.ErrUserAlreadyExists
	}

	users[user.Username] = user

	return that.store(users)
}

func (that *fileUser) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	users, err := that.load()
	if err != nil {
		return nil, err
	}

	user, exists := users[username]
	if !exists {
		return nil, apperror.ErrNotFound
	}

	return user, nil
}

func (that *fileUser) IncrementScore(_ context.Context, username string, delta int) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	users, err := that.load()
	if err != nil {
		return err
	}

	user, exists := users[username]
	if !exists {
		return apperror.ErrNotFound
	}

	user.Score += delta

	return that.store(users)
}

func (that *fileUser) load() (map[string]*entity.User, error) {
	users := make(map[string]*entity.User)

	data, err := os.ReadFile(that.path)
	if errors.Is(err, os.ErrNotExist) {
		return users, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read users file: %w", err)
	}

	if len(data) == 0 {
		return users, nil
	}

	if err = json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("failed to unmarshal users: %w", err)
	}

	return users, nil
}

// store replaces the file atomically so a crash never leaves it half written.
func (that *fileUser) store(users map[string]*entity.User) error {
	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal users: %w", err)
	}

	dir := filepath.Dir(that.path)
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create users dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(that.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write users: %w", err)
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err = os.Rename(tmp.Name(), that.path); err != nil {
		return fmt.Errorf("failed to replace users file: %w", err)
	}

	return nil
}
