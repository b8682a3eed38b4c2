package usecase

import (
	"slices"
	"sync"
	"time"

	"github.com/rocketscienceinc/othello-backend/internal/apperror"
	"github.com/rocketscienceinc/othello-backend/internal/entity"
	"github.com/rocketscienceinc/othello-backend/internal/othello"
	"github.com/rocketscienceinc/othello-backend/internal/protocol"
)

// Occupant is a connected identity that can sit in a room.
//
// Send must not block: rooms call it while holding their lock.
type Occupant interface {
	ID() string
	Player() entity.Player
	Send(msgType string, payload any)
}

type seat struct {
	occupant Occupant
	player   entity.Player
	color    othello.Cell
}

// Room pairs two occupants and owns their game once both are seated.
// Every mutation and the broadcast it causes happen under mu, so both players
// see snapshots in the same order.
type Room struct {
	code string

	mu       sync.Mutex
	seats    []*seat
	game     *entity.Game
	finished bool

	moveTimeout time.Duration
	timer       *time.Timer
	turnSeq     uint64
	onTimeout   func(*entity.Match)
}

func newRoom(code string, moveTimeout time.Duration, onTimeout func(*entity.Match)) *Room {
	return &Room{
		code:        code,
		moveTimeout: moveTimeout,
		onTimeout:   onTimeout,
	}
}

func (that *Room) Code() string {
	return that.code
}

// Players returns the occupants in join order.
func (that *Room) Players() []entity.Player {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.playersLocked()
}

// Game returns a copy of the current game, or nil before the room is full.
func (that *Room) Game() *entity.Game {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.game == nil {
		return nil
	}

	game := *that.game

	return &game
}

func (that *Room) IsFinished() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.finished
}

// admit reports whether occupant could be seated right now.
func (that *Room) admit() error {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.admitLocked()
}

func (that *Room) admitLocked() error {
	if that.finished {
		return apperror.ErrRoomClosed
	}

	if len(that.seats) >= 2 {
		return apperror.ErrRoomFull
	}

	return nil
}

// join seats occupant and answers with reply (room_created or room_joined).
// The second occupant starts the game.
func (that *Room) join(occupant Occupant, reply string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.admitLocked(); err != nil {
		return err
	}

	color := othello.Black
	if len(that.seats) == 1 {
		color = othello.White
	}

	that.seats = append(that.seats, &seat{occupant: occupant, player: occupant.Player(), color: color})

	switch reply {
	case protocol.TypeRoomCreated:
		occupant.Send(reply, protocol.RoomCreatedPayload{RoomCode: that.code})
	default:
		occupant.Send(reply, protocol.RoomJoinedPayload{Success: true, RoomCode: that.code})
	}

	that.broadcastRoomUpdateLocked()

	if len(that.seats) == 2 {
		that.startLocked()
	}

	return nil
}

func (that *Room) startLocked() {
	black, white := that.seats[0].player, that.seats[1].player
	that.game = entity.NewGame(&black, &white)

	snapshot := that.game.Snapshot()
	for _, s := range that.seats {
		s.occupant.Send(protocol.TypeGameStart, protocol.GameStartPayload{
			Players: protocol.ColorAssignment{Black: black.ID, White: white.ID},
			PlayerInfo: map[string]entity.Player{
				othello.Black.String(): black,
				othello.White.String(): white,
			},
			YourColor: s.color.String(),
			GameState: snapshot,
		})
	}

	that.armTimerLocked()
}

// leave removes occupant. Leaving a running game forfeits it to the
// remaining player. The returned match is non-nil when this ended a game.
func (that *Room) leave(occupant Occupant) (*entity.Match, bool, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	idx := that.indexLocked(occupant)
	if idx < 0 {
		return nil, len(that.seats) == 0, apperror.ErrNotInRoom
	}

	leaving := that.seats[idx]
	that.seats = slices.Delete(that.seats, idx, idx+1)

	occupant.Send(protocol.TypeRoomLeft, protocol.RoomLeftPayload{RoomCode: that.code})

	var match *entity.Match
	if that.game != nil && that.game.IsOngoing() {
		if err := that.game.Forfeit(leaving.color, entity.ReasonForfeit); err == nil {
			match = that.finishLocked()
		}
	}

	that.broadcastRoomUpdateLocked()

	return match, len(that.seats) == 0, nil
}

// makeMove applies a move for occupant and broadcasts the new snapshot.
func (that *Room) makeMove(occupant Occupant, row, col int) (*entity.Match, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	idx := that.indexLocked(occupant)
	if idx < 0 || that.game == nil {
		return nil, apperror.ErrNotInGame
	}

	snapshot, err := that.game.MakeMove(that.seats[idx].color, row, col)
	if err != nil {
		return nil, err
	}

	that.turnSeq++
	that.broadcastLocked(protocol.TypeGameUpdate, protocol.GameUpdatePayload{GameState: snapshot})

	if snapshot.GameOver {
		return that.finishLocked(), nil
	}

	that.armTimerLocked()

	return nil, nil
}

// finishLocked announces the end of the game and closes the room to new joins.
func (that *Room) finishLocked() *entity.Match {
	that.finished = true
	that.stopTimerLocked()

	that.broadcastLocked(protocol.TypeGameOver, protocol.GameOverPayload{
		Winner: that.game.WinnerName(),
		Scores: that.game.Scores(),
		Reason: that.game.Reason,
	})

	return entity.NewMatch(that.code, that.game)
}

func (that *Room) armTimerLocked() {
	that.stopTimerLocked()

	if that.moveTimeout <= 0 {
		return
	}

	seq := that.turnSeq
	that.timer = time.AfterFunc(that.moveTimeout, func() {
		that.expire(seq)
	})
}

func (that *Room) stopTimerLocked() {
	if that.timer != nil {
		that.timer.Stop()
		that.timer = nil
	}
}

// expire forfeits the player to move if no move was made since seq.
func (that *Room) expire(seq uint64) {
	that.mu.Lock()

	if that.game == nil || !that.game.IsOngoing() || that.turnSeq != seq {
		that.mu.Unlock()
		return
	}

	var match *entity.Match
	if err := that.game.Forfeit(that.game.Turn, entity.ReasonTimeout); err == nil {
		match = that.finishLocked()
	}

	that.mu.Unlock()

	if match != nil && that.onTimeout != nil {
		that.onTimeout(match)
	}
}

func (that *Room) indexLocked(occupant Occupant) int {
	return slices.IndexFunc(that.seats, func(s *seat) bool {
		return s.occupant.ID() == occupant.ID()
	})
}

func (that *Room) playersLocked() []entity.Player {
	players := make([]entity.Player, 0, len(that.seats))
	for _, s := range that.seats {
		players = append(players, s.player)
	}

	return players
}

func (that *Room) broadcastRoomUpdateLocked() {
	that.broadcastLocked(protocol.TypeRoomUpdate, protocol.RoomUpdatePayload{
		RoomCode: that.code,
		Players:  that.playersLocked(),
	})
}

func (that *Room) broadcastLocked(msgType string, payload any) {
	for _, s := range that.seats {
		s.occupant.Send(msgType, payload)
	}
}
