package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/othello-backend/internal/entity"
)

// client -> server
const (
	TypeRegisterUser = "register_user"
	TypeLoginUser    = "login_user"
	TypeCreateRoom   = "create_room"
	TypeJoinRoom     = "join_room"
	TypeLeaveRoom    = "leave_room"
	TypeMakeMove     = "make_move"
)

// server -> client
const (
	TypeUserRegistered = "user_registered"
	TypeUserLoggedIn   = "user_logged_in"
	TypeRoomCreated    = "room_created"
	TypeRoomJoined     = "room_joined"
	TypeRoomLeft       = "room_left"
	TypeRoomUpdate     = "room_update"
	TypeGameStart      = "game_start"
	TypeGameUpdate     = "game_update"
	TypeGameOver       = "game_over"
	TypeError          = "error"
)

var ErrBadMove = errors.New("move must be [row, col]")

// Message is the {type, payload} envelope carried by every frame.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type RegisterUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type JoinRoomRequest struct {
	RoomCode string `json:"room_code"`
}

type MakeMoveRequest struct {
	Move []int `json:"move"`
}

// Position returns the zero-based coordinates of the move.
func (that *MakeMoveRequest) Position() (int, int, error) {
	if len(that.Move) != 2 {
		return 0, 0, fmt.Errorf("%w: got %d values", ErrBadMove, len(that.Move))
	}

	return that.Move[0], that.Move[1], nil
}

type UserRegisteredPayload struct {
	Success bool   `json:"success"`
	UserID  string `json:"user_id,omitempty"`
	Message string `json:"message,omitempty"`
}

type UserLoggedInPayload struct {
	Success bool             `json:"success"`
	User    *entity.UserInfo `json:"user,omitempty"`
	Message string           `json:"message,omitempty"`
}

type RoomCreatedPayload struct {
	RoomCode string `json:"room_code"`
}

type RoomJoinedPayload struct {
	Success  bool   `json:"success"`
	RoomCode string `json:"room_code"`
	Message  string `json:"message,omitempty"`
}

type RoomLeftPayload struct {
	RoomCode string `json:"room_code"`
}

type RoomUpdatePayload struct {
	RoomCode string          `json:"room_code"`
	Players  []entity.Player `json:"players"`
}

// ColorAssignment maps each color to the id of the player holding it.
type ColorAssignment struct {
	Black string `json:"black"`
	White string `json:"white"`
}

type GameStartPayload struct {
	Players    ColorAssignment          `json:"players"`
	PlayerInfo map[string]entity.Player `json:"player_info"`
	YourColor  string                   `json:"your_color"`
	GameState  entity.Snapshot          `json:"game_state"`
}

type GameUpdatePayload struct {
	GameState entity.Snapshot `json:"game_state"`
}

type GameOverPayload struct {
	Winner *string       `json:"winner"`
	Scores entity.Scores `json:"scores"`
	Reason string        `json:"reason"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
