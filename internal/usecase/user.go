package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/rocketscienceinc/othello-backend/internal/apperror"
	"github.com/rocketscienceinc/othello-backend/internal/entity"
)

const (
	minPasswordLength = 6
	maxPasswordLength = 50
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{3,20}$`)

type UserUseCase interface {
	Register(ctx context.Context, username, email, password string) (*entity.User, error)
	Login(ctx context.Context, username, password string) (*entity.User, error)
}

type userRepo interface {
	Create(ctx context.Context, user *entity.User) error
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	IncrementScore(ctx context.Context, username string, delta int) error
}

type userUseCase struct {
	repo userRepo
	cost int
}

func NewUserUseCase(repo userRepo) UserUseCase {
	return &userUseCase{
		repo: repo,
		cost: bcrypt.DefaultCost,
	}
}

func (that *userUseCase) Register(ctx context.Context, username, email, password string) (*entity.User, error) {
	username = strings.TrimSpace(username)

	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), that.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		UserID:    uuid.NewString(),
		Username:  username,
		Email:     strings.TrimSpace(email),
		Password:  string(hash),
		CreatedAt: time.Now().UTC(),
	}

	if err = that.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	return user, nil
}

func (that *userUseCase) Login(ctx context.Context, username, password string) (*entity.User, error) {
	user, err := that.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, apperror.ErrInvalidCredentials
	}

	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	return user, nil
}

// ValidUsername reports whether name may be used as a display or account name.
func ValidUsername(name string) bool {
	return usernamePattern.MatchString(name)
}

func validateCredentials(username, password string) error {
	if !ValidUsername(username) {
		return apperror.ErrInvalidUsername
	}

	if n := len(password); n < minPasswordLength || n > maxPasswordLength {
		return apperror.ErrInvalidPassword
	}

	return nil
}
