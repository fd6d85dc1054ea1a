package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mcdev12/quizroom/go/internal/game/events"
	"github.com/mcdev12/quizroom/go/internal/mocks"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestGateway(t *testing.T, dispatcher Dispatcher) (*Service, *httptest.Server) {
	t.Helper()
	svc := NewService(DefaultConfig(), nil)
	svc.SetDispatcher(dispatcher)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = svc.Start(ctx) }()

	mux := http.NewServeMux()
	svc.RegisterRoutes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return svc, srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) RoomEvent {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(waitFor)))
	var ev RoomEvent
	require.NoError(t, conn.ReadJSON(&ev))
	return ev
}

func TestWebSocketHandler_RoundTrip(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDispatcher := mocks.NewMockDispatcher(ctrl)
	var svc *Service
	closed := make(chan string, 1)

	// Given a dispatcher that opens a room for every createRoom
	mockDispatcher.EXPECT().
		HandleClientEvent(gomock.Any(), gomock.Any(), events.CreateRoom, gomock.Any()).
		DoAndReturn(func(ctx context.Context, connID string, eventType events.EventType, data json.RawMessage) error {
			var payload struct {
				Username string `json:"username"`
			}
			if err := json.Unmarshal(data, &payload); err != nil {
				return err
			}
			svc.Broadcaster().Subscribe(connID, "room-abc")
			svc.Broadcaster().SendTo(connID, events.New(events.RoomCreated, events.RoomCreatedPayload{RoomID: "room-abc"}))
			svc.Broadcaster().BroadcastToRoom("room-abc", events.New(events.UserJoined, events.UserJoinedPayload{Players: []string{payload.Username}}))
			return nil
		}).
		Times(1)
	mockDispatcher.EXPECT().ConnectionClosed(gomock.Any()).Do(func(connID string) { closed <- connID }).Times(1)

	svc, srv := newTestGateway(t, mockDispatcher)
	conn := dial(t, srv)

	// When the client sends a createRoom frame
	req.NoError(conn.WriteJSON(map[string]any{"type": "createRoom", "data": map[string]any{"username": "alice", "entryFee": 20}}))

	// Then it receives the acknowledgement and the room broadcast, in order
	created := readEvent(t, conn)
	req.Equal(events.RoomCreated, created.Type)
	req.JSONEq(`{"roomID":"room-abc","inviteLink":""}`, string(created.Data))

	joined := readEvent(t, conn)
	req.Equal(events.UserJoined, joined.Type)
	req.Equal("room-abc", joined.RoomID)
	req.JSONEq(`{"players":["alice"]}`, string(joined.Data))

	req.Eventually(func() bool {
		return svc.GetStats().RoomConnections["room-abc"] == 1
	}, waitFor, 5*time.Millisecond)

	// And closing the socket tells the dispatcher and drops the subscription
	req.NoError(conn.Close())
	select {
	case <-closed:
	case <-time.After(waitFor):
		req.Fail("dispatcher was not told about the closed connection")
	}
	req.Eventually(func() bool {
		return svc.GetStats().TotalConnections == 0
	}, waitFor, 5*time.Millisecond)
}

func TestWebSocketHandler_Stats(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDispatcher := mocks.NewMockDispatcher(ctrl)
	mockDispatcher.EXPECT().ConnectionClosed(gomock.Any()).AnyTimes()
	svc, srv := newTestGateway(t, mockDispatcher)

	conn := dial(t, srv)
	defer conn.Close()
	req.Eventually(func() bool { return svc.GetStats().TotalConnections == 1 }, waitFor, 5*time.Millisecond)

	resp, err := http.Get(srv.URL + "/ws/stats")
	req.NoError(err)
	defer resp.Body.Close()
	req.Equal(http.StatusOK, resp.StatusCode)

	var stats ConnectionStats
	req.NoError(json.NewDecoder(resp.Body).Decode(&stats))
	req.Equal(1, stats.TotalConnections)
	req.Equal(0, stats.ActiveRooms)
}
