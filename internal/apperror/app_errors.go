package apperror

import "errors"

var (
	ErrGameFinished  = errors.New("game is not active")
	ErrNotYourTurn   = errors.New("it's not your turn")
	ErrNotInGame     = errors.New("you are not in an active game")
	ErrInvalidMove   = errors.New("invalid move")
	ErrInvalidCell   = errors.New("invalid cell coordinates")
	ErrInvalidColor  = errors.New("color is not assigned in this game")
	ErrAlreadyInRoom = errors.New("cannot change identity while in a room")

	ErrRoomNotFound = errors.New("room not found")
	ErrRoomFull     = errors.New("room is full")
	ErrRoomClosed   = errors.New("room closed")
	ErrNotInRoom    = errors.New("you are not in a room")
	ErrInThisRoom   = errors.New("already in this room")
	ErrNoRoomCode   = errors.New("could not allocate a room code")

	ErrNotFound           = errors.New("not found")
	ErrUserAlreadyExists  = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidUsername    = errors.New("username must be 3-20 letters, digits, '-' or '_'")
	ErrInvalidPassword    = errors.New("password must be 6-50 characters")
)
