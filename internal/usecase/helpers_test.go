package usecase

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/rocketscienceinc/othello-backend/internal/entity"
)

var discardLogger = slog.New(slog.NewJSONHandler(io.Discard, nil))

type sentMessage struct {
	Type    string
	Payload any
}

type fakeOccupant struct {
	id   string
	name string

	mu   sync.Mutex
	sent []sentMessage
}

func newOccupant(id, name string) *fakeOccupant {
	return &fakeOccupant{id: id, name: name}
}

func (that *fakeOccupant) ID() string {
	return that.id
}

func (that *fakeOccupant) Player() entity.Player {
	return entity.Player{ID: that.id, Username: that.name}
}

func (that *fakeOccupant) Send(msgType string, payload any) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.sent = append(that.sent, sentMessage{Type: msgType, Payload: payload})
}

func (that *fakeOccupant) types() []string {
	that.mu.Lock()
	defer that.mu.Unlock()

	types := make([]string, 0, len(that.sent))
	for _, msg := range that.sent {
		types = append(types, msg.Type)
	}

	return types
}

// last returns the payload of the most recent message of msgType.
func (that *fakeOccupant) last(msgType string) (any, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	for i := len(that.sent) - 1; i >= 0; i-- {
		if that.sent[i].Type == msgType {
			return that.sent[i].Payload, true
		}
	}

	return nil, false
}

// all returns every payload of msgType in delivery order.
func (that *fakeOccupant) all(msgType string) []any {
	that.mu.Lock()
	defer that.mu.Unlock()

	var payloads []any
	for _, msg := range that.sent {
		if msg.Type == msgType {
			payloads = append(payloads, msg.Payload)
		}
	}

	return payloads
}

func (that *fakeOccupant) reset() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.sent = nil
}

type fakeRecorder struct {
	matches chan *entity.Match
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{matches: make(chan *entity.Match, 8)}
}

func (that *fakeRecorder) RecordMatch(_ context.Context, match *entity.Match) {
	that.matches <- match
}

type mockUserRepo struct {
	mock.Mock
}

func (that *mockUserRepo) Create(ctx context.Context, user *entity.User) error {
	args := that.Called(ctx, user)
	return args.Error(0)
}

func (that *mockUserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	args := that.Called(ctx, username)
	user, _ := args.Get(0).(*entity.User)

	return user, args.Error(1)
}

func (that *mockUserRepo) IncrementScore(ctx context.Context, username string, delta int) error {
	args := that.Called(ctx, username, delta)
	return args.Error(0)
}

type mockMatchRepo struct {
	mock.Mock
}

func (that *mockMatchRepo) Save(ctx context.Context, match *entity.Match, creditAccount string) error {
	args := that.Called(ctx, match, creditAccount)
	return args.Error(0)
}

// sequence returns a generator that yields codes in order and repeats the last one.
func sequence(codes ...string) CodeGenerator {
	var mu sync.Mutex
	i := 0

	return func() (string, error) {
		mu.Lock()
		defer mu.Unlock()

		code := codes[min(i, len(codes)-1)]
		i++

		return code, nil
	}
}
