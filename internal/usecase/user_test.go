package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rocketscienceinc/othello-backend/internal/apperror"
	"github.com/rocketscienceinc/othello-backend/internal/entity"
)

var errDiskFull = errors.New("disk full")

func newTestUserUseCase(repo userRepo) *userUseCase {
	return &userUseCase{repo: repo, cost: bcrypt.MinCost}
}

func TestUserUseCase_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("Stores the user with a hashed password", func(t *testing.T) {
		// Given: an empty repository
		repo := &mockUserRepo{}
		repo.On("Create", mock.Anything, mock.AnythingOfType("*entity.User")).Return(nil).Once()
		useCase := newTestUserUseCase(repo)

		// When: a valid user registers
		user, err := useCase.Register(ctx, "alice", "alice@example.com", "secret1")

		// Then: the user gets an id, zero score and a bcrypt hash
		require.NoError(t, err)
		assert.NotEmpty(t, user.UserID)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, 0, user.Score)
		assert.NotEqual(t, "secret1", user.Password)
		require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret1")))
		repo.AssertExpectations(t)
	})

	t.Run("Rejects invalid credentials before touching storage", func(t *testing.T) {
		repo := &mockUserRepo{}
		useCase := newTestUserUseCase(repo)

		_, err := useCase.Register(ctx, "al", "", "secret1")
		require.ErrorIs(t, err, apperror.ErrInvalidUsername)

		_, err = useCase.Register(ctx, "alice smith", "", "secret1")
		require.ErrorIs(t, err, apperror.ErrInvalidUsername)

		_, err = useCase.Register(ctx, "alice", "", "12345")
		require.ErrorIs(t, err, apperror.ErrInvalidPassword)

		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Duplicate username is reported", func(t *testing.T) {
		repo := &mockUserRepo{}
		repo.On("Create", mock.Anything, mock.Anything).Return(apperror.ErrUserAlreadyExists).Once()
		useCase := newTestUserUseCase(repo)

		_, err := useCase.Register(ctx, "alice", "", "secret1")

		require.ErrorIs(t, err, apperror.ErrUserAlreadyExists)
	})
}

func TestUserUseCase_Login(t *testing.T) {
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)

	stored := &entity.User{UserID: "u1", Username: "alice", Password: string(hash), Score: 3}

	t.Run("Correct password returns the account", func(t *testing.T) {
		repo := &mockUserRepo{}
		repo.On("GetByUsername", mock.Anything, "alice").Return(stored, nil).Once()

		user, err := newTestUserUseCase(repo).Login(ctx, "alice", "secret1")

		require.NoError(t, err)
		assert.Equal(t, "u1", user.UserID)
		assert.Equal(t, 3, user.Score)
	})

	t.Run("Wrong password and unknown user look the same", func(t *testing.T) {
		repo := &mockUserRepo{}
		repo.On("GetByUsername", mock.Anything, "alice").Return(stored, nil).Once()
		repo.On("GetByUsername", mock.Anything, "nobody").Return(nil, apperror.ErrNotFound).Once()
		useCase := newTestUserUseCase(repo)

		_, err := useCase.Login(ctx, "alice", "wrong-password")
		require.ErrorIs(t, err, apperror.ErrInvalidCredentials)

		_, err = useCase.Login(ctx, "nobody", "secret1")
		require.ErrorIs(t, err, apperror.ErrInvalidCredentials)
	})

	t.Run("Storage failure is not a credentials error", func(t *testing.T) {
		repo := &mockUserRepo{}
		repo.On("GetByUsername", mock.Anything, "alice").Return(nil, errDiskFull).Once()

		_, err := newTestUserUseCase(repo).Login(ctx, "alice", "secret1")

		require.ErrorIs(t, err, errDiskFull)
		assert.NotErrorIs(t, err, apperror.ErrInvalidCredentials)
	})
}

func TestMatchResults_RecordMatch(t *testing.T) {
	ctx := context.Background()

	finished := func(winner string) *entity.Match {
		return &entity.Match{
			ID:       "m1",
			RoomCode: "AB3DE",
			Black:    entity.Player{ID: "u1", Username: "alice"},
			White:    entity.Player{ID: "conn-2", Username: "Anonymous"},
			Winner:   winner,
		}
	}

	t.Run("Registered winner scores a point and the match is archived", func(t *testing.T) {
		users := &mockUserRepo{}
		matches := &mockMatchRepo{}
		match := finished("black")

		users.On("GetByUsername", mock.Anything, "alice").Return(&entity.User{UserID: "u1", Username: "alice"}, nil).Once()
		users.On("IncrementScore", mock.Anything, "alice", 1).Return(nil).Once()
		matches.On("Save", mock.Anything, match, "alice").Return(nil).Once()

		NewMatchResults(discardLogger, users, matches).RecordMatch(ctx, match)

		users.AssertExpectations(t)
		matches.AssertExpectations(t)
	})

	t.Run("Guest winner is archived without credit", func(t *testing.T) {
		// Given: a guest wins
		users := &mockUserRepo{}
		matches := &mockMatchRepo{}
		match := finished("white")

		users.On("GetByUsername", mock.Anything, "Anonymous").Return(nil, apperror.ErrNotFound).Once()
		matches.On("Save", mock.Anything, match, "").Return(nil).Once()

		// When: the match is recorded
		NewMatchResults(discardLogger, users, matches).RecordMatch(ctx, match)

		// Then: it is archived but neither score source is credited
		matches.AssertExpectations(t)
		users.AssertNotCalled(t, "IncrementScore", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Guest sharing an account name is not credited", func(t *testing.T) {
		// Given: a guest named alice beats the real account holder
		users := &mockUserRepo{}
		matches := &mockMatchRepo{}
		match := &entity.Match{
			ID:       "m2",
			RoomCode: "AB3DE",
			Black:    entity.Player{ID: "conn-1", Username: "alice"},
			White:    entity.Player{ID: "u2", Username: "bob"},
			Winner:   "black",
		}

		users.On("GetByUsername", mock.Anything, "alice").
			Return(&entity.User{UserID: "u1", Username: "alice"}, nil).Once()
		matches.On("Save", mock.Anything, match, "").Return(nil).Once()

		// When: the match is recorded
		NewMatchResults(discardLogger, users, matches).RecordMatch(ctx, match)

		// Then: the account alice gains nothing
		matches.AssertExpectations(t)
		users.AssertNotCalled(t, "IncrementScore", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Tie touches no account", func(t *testing.T) {
		users := &mockUserRepo{}

		NewMatchResults(discardLogger, users, nil).RecordMatch(ctx, finished(""))

		users.AssertNotCalled(t, "GetByUsername", mock.Anything, mock.Anything)
	})

	t.Run("Archive failure does not block the score update", func(t *testing.T) {
		users := &mockUserRepo{}
		matches := &mockMatchRepo{}
		match := finished("black")

		matches.On("Save", mock.Anything, match, "alice").Return(errDiskFull).Once()
		users.On("GetByUsername", mock.Anything, "alice").Return(&entity.User{UserID: "u1", Username: "alice"}, nil).Once()
		users.On("IncrementScore", mock.Anything, "alice", 1).Return(nil).Once()

		NewMatchResults(discardLogger, users, matches).RecordMatch(ctx, match)

		users.AssertExpectations(t)
	})
}
