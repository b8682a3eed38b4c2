package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/othello-backend/internal/apperror"
	"github.com/rocketscienceinc/othello-backend/internal/entity"
	"github.com/rocketscienceinc/othello-backend/internal/protocol"
)

const maxCodeAttempts = 64

type resultRecorder interface {
	RecordMatch(ctx context.Context, match *entity.Match)
}

// RoomManager is the registry of live rooms. Its lock is always taken before
// a room lock, never after.
type RoomManager struct {
	logger *slog.Logger

	mu    sync.Mutex
	rooms map[string]*Room
	seats map[string]*Room

	codeLength  int
	nextCode    CodeGenerator
	moveTimeout time.Duration
	results     resultRecorder
}

type RoomManagerOption func(*RoomManager)

func WithCodeGenerator(gen CodeGenerator) RoomManagerOption {
	return func(that *RoomManager) {
		that.nextCode = gen
	}
}

func WithMoveTimeout(timeout time.Duration) RoomManagerOption {
	return func(that *RoomManager) {
		that.moveTimeout = timeout
	}
}

func WithCodeLength(length int) RoomManagerOption {
	return func(that *RoomManager) {
		if length > 0 {
			that.codeLength = length
		}
	}
}

func NewRoomManager(logger *slog.Logger, results resultRecorder, opts ...RoomManagerOption) *RoomManager {
	manager := &RoomManager{
		logger:     logger.With("component", "room_manager"),
		rooms:      make(map[string]*Room),
		seats:      make(map[string]*Room),
		codeLength: DefaultRoomCodeLength,
		results:    results,
	}

	for _, opt := range opts {
		opt(manager)
	}

	if manager.nextCode == nil {
		manager.nextCode = NewCodeGenerator(manager.codeLength)
	}

	return manager
}

// CreateRoom opens a room with a fresh code and seats occupant in it.
// An occupant already seated elsewhere leaves that room first.
func (that *RoomManager) CreateRoom(ctx context.Context, occupant Occupant) (string, error) {
	log := that.logger.With("method", "CreateRoom", "player_id", occupant.ID())

	that.mu.Lock()

	code, err := that.allocateCodeLocked()
	if err != nil {
		that.mu.Unlock()
		return "", err
	}

	match := that.leaveLocked(occupant)

	room := newRoom(code, that.moveTimeout, that.recordOnTimeout)
	that.rooms[code] = room
	that.seats[occupant.ID()] = room

	err = room.join(occupant, protocol.TypeRoomCreated)

	that.mu.Unlock()

	that.record(ctx, match)

	if err != nil {
		return "", fmt.Errorf("failed to join new room: %w", err)
	}

	log.Info("room created", "room_code", code)

	return code, nil
}

// JoinRoom seats occupant in the room named by code.
func (that *RoomManager) JoinRoom(ctx context.Context, occupant Occupant, code string) (string, error) {
	log := that.logger.With("method", "JoinRoom", "player_id", occupant.ID())

	code, ok := NormalizeRoomCode(code, that.codeLength)
	if !ok {
		return code, apperror.ErrRoomNotFound
	}

	that.mu.Lock()

	room, found := that.rooms[code]
	if !found {
		that.mu.Unlock()
		return code, apperror.ErrRoomNotFound
	}

	if that.seats[occupant.ID()] == room {
		that.mu.Unlock()
		return code, apperror.ErrInThisRoom
	}

	if err := room.admit(); err != nil {
		that.mu.Unlock()
		return code, err
	}

	match := that.leaveLocked(occupant)

	err := room.join(occupant, protocol.TypeRoomJoined)
	if err == nil {
		that.seats[occupant.ID()] = room
	}

	that.mu.Unlock()

	that.record(ctx, match)

	if err != nil {
		return code, err
	}

	log.Info("room joined", "room_code", code)

	return code, nil
}

// LeaveRoom detaches occupant from its room, deleting the room once empty.
func (that *RoomManager) LeaveRoom(ctx context.Context, occupant Occupant) (string, error) {
	that.mu.Lock()

	room, found := that.seats[occupant.ID()]
	if !found {
		that.mu.Unlock()
		return "", apperror.ErrNotInRoom
	}

	match := that.leaveLocked(occupant)

	that.mu.Unlock()

	that.record(ctx, match)

	that.logger.Info("room left", "method", "LeaveRoom", "player_id", occupant.ID(), "room_code", room.Code())

	return room.Code(), nil
}

// MakeMove forwards a move to the occupant's room.
func (that *RoomManager) MakeMove(ctx context.Context, occupant Occupant, row, col int) error {
	that.mu.Lock()
	room, found := that.seats[occupant.ID()]
	that.mu.Unlock()

	if !found {
		return apperror.ErrNotInGame
	}

	match, err := room.makeMove(occupant, row, col)
	if err != nil {
		return fmt.Errorf("failed to make move: %w", err)
	}

	that.record(ctx, match)

	return nil
}

// RoomOf returns the code of the room occupantID is seated in.
func (that *RoomManager) RoomOf(occupantID string) (string, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, found := that.seats[occupantID]
	if !found {
		return "", false
	}

	return room.Code(), true
}

// Room looks up a live room by code.
func (that *RoomManager) Room(code string) (*Room, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, found := that.rooms[code]

	return room, found
}

func (that *RoomManager) RoomCount() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.rooms)
}

func (that *RoomManager) leaveLocked(occupant Occupant) *entity.Match {
	room, found := that.seats[occupant.ID()]
	if !found {
		return nil
	}

	delete(that.seats, occupant.ID())

	match, empty, err := room.leave(occupant)
	if err != nil && !errors.Is(err, apperror.ErrNotInRoom) {
		that.logger.Error("failed to leave room", "room_code", room.Code(), "error", err)
	}

	if empty {
		delete(that.rooms, room.Code())
		that.logger.Debug("room deleted", "room_code", room.Code())
	}

	return match
}

func (that *RoomManager) allocateCodeLocked() (string, error) {
	for range maxCodeAttempts {
		code, err := that.nextCode()
		if err != nil {
			return "", fmt.Errorf("failed to generate room code: %w", err)
		}

		if _, taken := that.rooms[code]; !taken {
			return code, nil
		}
	}

	return "", apperror.ErrNoRoomCode
}

func (that *RoomManager) recordOnTimeout(match *entity.Match) {
	that.logger.Info("move timeout", "room_code", match.RoomCode)
	that.record(context.Background(), match)
}

func (that *RoomManager) record(ctx context.Context, match *entity.Match) {
	if match == nil || that.results == nil {
		return
	}

	that.results.RecordMatch(ctx, match)
}
