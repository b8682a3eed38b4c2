package tcp

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/othello-backend/internal/protocol"
	"github.com/rocketscienceinc/othello-backend/internal/repository"
	"github.com/rocketscienceinc/othello-backend/internal/session"
	"github.com/rocketscienceinc/othello-backend/internal/usecase"
)

var discardLogger = slog.New(slog.NewJSONHandler(io.Discard, nil))

func startServer(t *testing.T) (string, context.CancelFunc, <-chan error) {
	t.Helper()

	rooms := usecase.NewRoomManager(discardLogger, nil, usecase.WithCodeGenerator(func() (string, error) {
		return "AB3DE", nil
	}))
	users := usecase.NewUserUseCase(repository.NewUserRepository(filepath.Join(t.TempDir(), "users.json")))
	manager := session.NewManager(discardLogger, rooms, users, session.Options{WriteTimeout: time.Second})

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)

	go func() {
		errCh <- New(discardLogger, manager).Serve(ctx, listener)
	}()

	t.Cleanup(cancel)

	return listener.Addr().String(), cancel, errCh
}

func readMessage(t *testing.T, conn net.Conn, reader *bufio.Reader) *protocol.Message {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	line, err := reader.ReadBytes('\n')
	require.NoError(t, err)

	msg, err := protocol.Parse(line[:len(line)-1])
	require.NoError(t, err)

	return msg
}

func TestServer_Serve(t *testing.T) {
	t.Run("Two clients play over TCP", func(t *testing.T) {
		// Given: a running server and two clients
		addr, _, _ := startServer(t)

		x, err := net.Dial("tcp", addr)
		require.NoError(t, err)
		defer x.Close()

		y, err := net.Dial("tcp", addr)
		require.NoError(t, err)
		defer y.Close()

		xReader, yReader := bufio.NewReader(x), bufio.NewReader(y)

		// When: x creates a room and y joins it
		_, err = x.Write([]byte(`{"type":"create_room","payload":{}}` + "\n"))
		require.NoError(t, err)

		created := readMessage(t, x, xReader)
		require.Equal(t, protocol.TypeRoomCreated, created.Type)
		assert.JSONEq(t, `{"room_code":"AB3DE"}`, string(created.Payload))
		assert.Equal(t, protocol.TypeRoomUpdate, readMessage(t, x, xReader).Type)

		_, err = y.Write([]byte(`{"type":"join_room","payload":{"room_code":"AB3DE"}}` + "\n"))
		require.NoError(t, err)

		// Then: y is seated and the game starts on both sockets
		assert.Equal(t, protocol.TypeRoomJoined, readMessage(t, y, yReader).Type)
		assert.Equal(t, protocol.TypeRoomUpdate, readMessage(t, y, yReader).Type)

		var start protocol.GameStartPayload
		msg := readMessage(t, y, yReader)
		require.Equal(t, protocol.TypeGameStart, msg.Type)
		require.NoError(t, json.Unmarshal(msg.Payload, &start))
		assert.Equal(t, "white", start.YourColor)

		assert.Equal(t, protocol.TypeRoomUpdate, readMessage(t, x, xReader).Type)
		assert.Equal(t, protocol.TypeGameStart, readMessage(t, x, xReader).Type)
	})

	t.Run("Cancel stops the accept loop", func(t *testing.T) {
		addr, cancel, errCh := startServer(t)

		conn, err := net.Dial("tcp", addr)
		require.NoError(t, err)
		defer conn.Close()

		cancel()

		select {
		case err = <-errCh:
			require.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("server did not stop")
		}

		_, err = net.DialTimeout("tcp", addr, 200*time.Millisecond)
		assert.Error(t, err)
	})
}

func TestServer_Start(t *testing.T) {
	t.Run("Bind failure is returned", func(t *testing.T) {
		// Given: a port that is already taken
		taken, err := net.Listen("tcp", ":0")
		require.NoError(t, err)
		defer taken.Close()

		_, port, err := net.SplitHostPort(taken.Addr().String())
		require.NoError(t, err)

		// When: the server tries to listen on it
		err = New(discardLogger, nil).Start(context.Background(), port)

		// Then: startup fails
		require.Error(t, err)
	})
}
