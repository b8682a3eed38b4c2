package session

import (
	"errors"

	"github.com/rocketscienceinc/othello-backend/internal/apperror"
	"github.com/rocketscienceinc/othello-backend/internal/protocol"
)

const internalErrorMessage = "internal server error"

// public errors are shown to the client verbatim. Anything else is an
// internal failure and is only logged.
var publicErrors = []error{
	apperror.ErrGameFinished,
	apperror.ErrNotYourTurn,
	apperror.ErrNotInGame,
	apperror.ErrInvalidMove,
	apperror.ErrInvalidCell,
	apperror.ErrInvalidColor,
	apperror.ErrAlreadyInRoom,
	apperror.ErrNotInRoom,
	apperror.ErrInThisRoom,
	apperror.ErrRoomNotFound,
	apperror.ErrRoomFull,
	apperror.ErrRoomClosed,
	apperror.ErrUserAlreadyExists,
	apperror.ErrInvalidCredentials,
	apperror.ErrInvalidUsername,
	apperror.ErrInvalidPassword,
	protocol.ErrMalformedMessage,
	protocol.ErrMissingType,
	protocol.ErrBadMove,
}

// resource errors answer with success:false on the specific response instead of an error message.
var resourceErrors = []error{
	apperror.ErrRoomNotFound,
	apperror.ErrRoomFull,
	apperror.ErrRoomClosed,
	apperror.ErrInThisRoom,
	apperror.ErrUserAlreadyExists,
	apperror.ErrInvalidCredentials,
	apperror.ErrInvalidUsername,
	apperror.ErrInvalidPassword,
}

func clientMessage(err error) (string, bool) {
	for _, public := range publicErrors {
		if errors.Is(err, public) {
			return public.Error(), true
		}
	}

	return internalErrorMessage, false
}

func isResourceError(err error) bool {
	for _, resource := range resourceErrors {
		if errors.Is(err, resource) {
			return true
		}
	}

	return false
}
