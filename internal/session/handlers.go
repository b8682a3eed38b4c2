package session

import (
	"context"
	"fmt"

	"github.com/rocketscienceinc/othello-backend/internal/apperror"
	"github.com/rocketscienceinc/othello-backend/internal/protocol"
	"github.com/rocketscienceinc/othello-backend/internal/usecase"
)

func (that *Manager) handleRegisterUser(ctx context.Context, client *Client, msg *protocol.Message) error {
	log := client.logger.With("method", "handleRegisterUser")

	if err := that.ensureNotSeated(client); err != nil {
		return err
	}

	var req protocol.RegisterUserRequest
	if err := protocol.DecodePayload(msg, &req); err != nil {
		return err
	}

	// a bare username only names the connection
	if req.Password == "" && req.Email == "" {
		return that.nameGuest(client, req.Username)
	}

	user, err := that.users.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		if isResourceError(err) {
			message, _ := clientMessage(err)
			client.Send(protocol.TypeUserRegistered, protocol.UserRegisteredPayload{Success: false, Message: message})

			return nil
		}

		return fmt.Errorf("failed to register user: %w", err)
	}

	client.setIdentity(user.UserID, user.Username)
	client.Send(protocol.TypeUserRegistered, protocol.UserRegisteredPayload{Success: true, UserID: user.UserID})

	log.Info("user registered", "username", user.Username)

	return nil
}

func (that *Manager) nameGuest(client *Client, username string) error {
	if username == "" {
		username = DefaultUsername
	}

	if !usecase.ValidUsername(username) {
		client.Send(protocol.TypeUserRegistered, protocol.UserRegisteredPayload{
			Success: false,
			Message: apperror.ErrInvalidUsername.Error(),
		})

		return nil
	}

	client.setIdentity("", username)
	client.Send(protocol.TypeUserRegistered, protocol.UserRegisteredPayload{Success: true, UserID: client.ID()})

	return nil
}

func (that *Manager) handleLoginUser(ctx context.Context, client *Client, msg *protocol.Message) error {
	log := client.logger.With("method", "handleLoginUser")

	if err := that.ensureNotSeated(client); err != nil {
		return err
	}

	var req protocol.LoginUserRequest
	if err := protocol.DecodePayload(msg, &req); err != nil {
		return err
	}

	user, err := that.users.Login(ctx, req.Username, req.Password)
	if err != nil {
		if isResourceError(err) {
			message, _ := clientMessage(err)
			client.Send(protocol.TypeUserLoggedIn, protocol.UserLoggedInPayload{Success: false, Message: message})

			return nil
		}

		return fmt.Errorf("failed to log in: %w", err)
	}

	client.setIdentity(user.UserID, user.Username)
	client.Send(protocol.TypeUserLoggedIn, protocol.UserLoggedInPayload{Success: true, User: user.Info()})

	log.Info("user logged in", "username", user.Username)

	return nil
}

func (that *Manager) handleCreateRoom(ctx context.Context, client *Client, _ *protocol.Message) error {
	if _, err := that.rooms.CreateRoom(ctx, client); err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}

	return nil
}

func (that *Manager) handleJoinRoom(ctx context.Context, client *Client, msg *protocol.Message) error {
	var req protocol.JoinRoomRequest
	if err := protocol.DecodePayload(msg, &req); err != nil {
		return err
	}

	code, err := that.rooms.JoinRoom(ctx, client, req.RoomCode)
	if err != nil {
		if isResourceError(err) {
			message, _ := clientMessage(err)
			client.Send(protocol.TypeRoomJoined, protocol.RoomJoinedPayload{Success: false, RoomCode: code, Message: message})

			return nil
		}

		return fmt.Errorf("failed to join room: %w", err)
	}

	return nil
}

func (that *Manager) handleLeaveRoom(ctx context.Context, client *Client, _ *protocol.Message) error {
	if _, err := that.rooms.LeaveRoom(ctx, client); err != nil {
		return fmt.Errorf("failed to leave room: %w", err)
	}

	return nil
}

func (that *Manager) handleMakeMove(ctx context.Context, client *Client, msg *protocol.Message) error {
	var req protocol.MakeMoveRequest
	if err := protocol.DecodePayload(msg, &req); err != nil {
		return err
	}

	row, col, err := req.Position()
	if err != nil {
		return err
	}

	return that.rooms.MakeMove(ctx, client, row, col)
}

func (that *Manager) ensureNotSeated(client *Client) error {
	if _, seated := that.rooms.RoomOf(client.ID()); seated {
		return apperror.ErrAlreadyInRoom
	}

	return nil
}
