package trackclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safeyatra/safeyatra/internal/pkg/models"
	"github.com/safeyatra/safeyatra/trackclient/queue"
)

type fakeSource struct {
	mu  sync.Mutex
	fix models.Fix
	err error
}

func (s *fakeSource) Current(ctx context.Context) (models.Fix, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return models.Fix{}, s.err
	}
	fix := s.fix
	fix.CapturedAt = time.Now()
	return fix, nil
}

type fakeBattery struct {
	level int
	err   error
}

func (b *fakeBattery) Level(ctx context.Context) (int, error) {
	return b.level, b.err
}

type memStore struct {
	mu    sync.Mutex
	items []queue.QueuedItem
}

func (s *memStore) Load() ([]queue.QueuedItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]queue.QueuedItem(nil), s.items...), nil
}

func (s *memStore) Save(items []queue.QueuedItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]queue.QueuedItem(nil), items...)
	return nil
}

// testServer is a minimal tracking endpoint: it records inbound frames and
// can push frames to the connected client.
type testServer struct {
	*httptest.Server
	upgrader websocket.Upgrader

	mu       sync.Mutex
	conns    []*websocket.Conn
	inbound  chan []byte
	rejected bool
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{inbound: make(chan []byte, 64)}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ts.isRejecting() {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if r.URL.Query().Get("token") == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}
		conn, err := ts.upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		ts.mu.Lock()
		ts.conns = append(ts.conns, conn)
		ts.mu.Unlock()
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			ts.inbound <- msg
		}
	}))
	t.Cleanup(ts.Close)
	return ts
}

func (ts *testServer) wsURL() string {
	return "ws" + strings.TrimPrefix(ts.URL, "http")
}

func (ts *testServer) isRejecting() bool {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.rejected
}

func (ts *testServer) setRejecting(v bool) {
	ts.mu.Lock()
	ts.rejected = v
	ts.mu.Unlock()
}

func (ts *testServer) push(t *testing.T, frame interface{}) {
	t.Helper()
	ts.mu.Lock()
	defer ts.mu.Unlock()
	require.NotEmpty(t, ts.conns)
	conn := ts.conns[len(ts.conns)-1]
	require.NoError(t, conn.WriteJSON(frame))
}

func (ts *testServer) closeConns() {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	for _, conn := range ts.conns {
		conn.Close()
	}
	ts.conns = nil
}

func (ts *testServer) waitFrame(t *testing.T, wantType string) map[string]interface{} {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case msg := <-ts.inbound:
			var frame map[string]interface{}
			require.NoError(t, json.Unmarshal(msg, &frame))
			if frame["type"] == wantType {
				return frame
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s frame", wantType)
		}
	}
}

func newTestTransport(t *testing.T, cfg Config, source LocationSource, battery BatteryReader) *Transport {
	t.Helper()
	tr, err := New(cfg, &memStore{}, source, battery)
	require.NoError(t, err)
	t.Cleanup(tr.StopTracking)
	return tr
}

func baseConfig(serverURL string) Config {
	return Config{
		ServerURL:           serverURL,
		Token:               "test-token",
		UserName:            "Asha",
		UserType:            "tourist",
		TourID:              "tour-1",
		SampleInterval:      time.Hour, // periodic path driven manually in tests
		PingInterval:        time.Hour,
		ReconnectDelay:      20 * time.Millisecond,
		MaxReconnectRetries: 3,
		DialTimeout:         time.Second,
	}
}

func TestStartTracking_PermissionDenied(t *testing.T) {
	source := &fakeSource{err: ErrPermissionDenied}
	tr := newTestTransport(t, baseConfig("ws://127.0.0.1:1"), source, nil)

	err := tr.StartTracking(context.Background())

	// No connection attempt is made: the unreachable URL would surface
	// ErrConnectionFailed if the dial had happened.
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.False(t, tr.Status().Connected)
}

func TestStartTracking_ConnectionFailed(t *testing.T) {
	source := &fakeSource{fix: models.Fix{Latitude: 27.7, Longitude: 85.3}}
	tr := newTestTransport(t, baseConfig("ws://127.0.0.1:1"), source, nil)

	err := tr.StartTracking(context.Background())

	assert.ErrorIs(t, err, ErrConnectionFailed)
	assert.False(t, tr.Status().Connected)
}

func TestStartTracking_SendsFirstSampleImmediately(t *testing.T) {
	ts := newTestServer(t)
	source := &fakeSource{fix: models.Fix{Latitude: 27.7, Longitude: 85.3}}
	battery := &fakeBattery{level: 80}
	tr := newTestTransport(t, baseConfig(ts.wsURL()), source, battery)

	require.NoError(t, tr.StartTracking(context.Background()))
	assert.True(t, tr.Status().Connected)

	frame := ts.waitFrame(t, models.TypeLocation)
	assert.Equal(t, 27.7, frame["latitude"])
	assert.Equal(t, 85.3, frame["longitude"])
	assert.Equal(t, float64(80), frame["battery"])
	assert.Equal(t, "Asha", frame["user_name"])
	assert.Equal(t, "tour-1", frame["tour_id"])
}

func TestSendNow_BatteryFailureDoesNotBlockSend(t *testing.T) {
	ts := newTestServer(t)
	source := &fakeSource{fix: models.Fix{Latitude: 27.7, Longitude: 85.3}}
	battery := &fakeBattery{err: errors.New("battery read failed")}
	tr := newTestTransport(t, baseConfig(ts.wsURL()), source, battery)

	require.NoError(t, tr.StartTracking(context.Background()))
	ts.waitFrame(t, models.TypeLocation)

	require.NoError(t, tr.SendNow(context.Background()))
	frame := ts.waitFrame(t, models.TypeLocation)
	_, hasBattery := frame["battery"]
	assert.False(t, hasBattery)
}

func TestSendNow_QueuesWhenDisconnected(t *testing.T) {
	source := &fakeSource{fix: models.Fix{Latitude: 27.7, Longitude: 85.3}}
	tr := newTestTransport(t, baseConfig("ws://127.0.0.1:1"), source, nil)

	require.NoError(t, tr.SendNow(context.Background()))

	counts := tr.Queue().PendingCount()
	assert.Equal(t, 1, counts.Tracking)
}

func TestSendSOS_QueuesWhenDisconnected(t *testing.T) {
	source := &fakeSource{fix: models.Fix{Latitude: 27.7, Longitude: 85.3}}
	tr := newTestTransport(t, baseConfig("ws://127.0.0.1:1"), source, nil)

	require.NoError(t, tr.SendSOS(context.Background(), "help"))

	counts := tr.Queue().PendingCount()
	assert.Equal(t, 1, counts.SOS)
}

func TestStopTracking_Idempotent(t *testing.T) {
	ts := newTestServer(t)
	source := &fakeSource{fix: models.Fix{Latitude: 27.7, Longitude: 85.3}}
	tr := newTestTransport(t, baseConfig(ts.wsURL()), source, nil)

	require.NoError(t, tr.StartTracking(context.Background()))

	tr.StopTracking()
	assert.False(t, tr.Status().Connected)

	tr.StopTracking()
	assert.False(t, tr.Status().Connected)
}

func TestInboundDispatch_Callbacks(t *testing.T) {
	ts := newTestServer(t)
	source := &fakeSource{fix: models.Fix{Latitude: 27.7, Longitude: 85.3}}

	acks := make(chan models.AckMessage, 1)
	alerts := make(chan models.AlertPayload, 1)
	chats := make(chan models.ChatPayload, 1)
	updates := make(chan models.LocationUpdatePayload, 1)

	cfg := baseConfig(ts.wsURL())
	cfg.Callbacks = Callbacks{
		OnAck:            func(a models.AckMessage) { acks <- a },
		OnAlert:          func(a models.AlertPayload) { alerts <- a },
		OnMessage:        func(c models.ChatPayload) { chats <- c },
		OnLocationUpdate: func(u models.LocationUpdatePayload) { updates <- u },
	}

	tr := newTestTransport(t, cfg, source, nil)
	require.NoError(t, tr.StartTracking(context.Background()))
	ts.waitFrame(t, models.TypeLocation)

	now := time.Now()
	ts.push(t, models.AckMessage{Type: models.TypeAck, Timestamp: &now})
	ts.push(t, models.DataMessage{
		Type: models.TypeAlert,
		Data: models.AlertPayload{Title: "Weather warning", Severity: "warning"},
	})
	ts.push(t, models.DataMessage{
		Type: models.TypeMessage,
		Data: models.ChatPayload{From: "operator", Text: "stay put"},
	})
	ts.push(t, models.DataMessage{
		Type: models.TypeLocationUpdate,
		Data: models.LocationUpdatePayload{UserID: "guide-1", Status: "active"},
	})

	select {
	case ack := <-acks:
		assert.Equal(t, models.TypeAck, ack.Type)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for ACK callback")
	}
	select {
	case alert := <-alerts:
		assert.Equal(t, "Weather warning", alert.Title)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for ALERT callback")
	}
	select {
	case chat := <-chats:
		assert.Equal(t, "stay put", chat.Text)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for MESSAGE callback")
	}
	select {
	case update := <-updates:
		assert.Equal(t, "guide-1", update.UserID)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for LOCATION_UPDATE callback")
	}
}

func TestInboundCommand_RequestLocationAnswered(t *testing.T) {
	ts := newTestServer(t)
	source := &fakeSource{fix: models.Fix{Latitude: 27.7, Longitude: 85.3}}

	commands := make(chan models.CommandMessage, 1)
	cfg := baseConfig(ts.wsURL())
	cfg.Callbacks = Callbacks{
		OnCommand: func(c models.CommandMessage) { commands <- c },
	}

	tr := newTestTransport(t, cfg, source, nil)
	require.NoError(t, tr.StartTracking(context.Background()))
	ts.waitFrame(t, models.TypeLocation)

	ts.push(t, models.CommandMessage{Type: models.TypeCommand, Command: "REQUEST_LOCATION"})

	// The device answers with a fresh fix and still surfaces the command.
	ts.waitFrame(t, models.TypeLocation)
	select {
	case cmd := <-commands:
		assert.Equal(t, "REQUEST_LOCATION", cmd.Command)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for COMMAND callback")
	}
}

func TestReconnect_CapsOutAndNotifies(t *testing.T) {
	ts := newTestServer(t)
	source := &fakeSource{fix: models.Fix{Latitude: 27.7, Longitude: 85.3}}

	changes := make(chan bool, 8)
	cfg := baseConfig(ts.wsURL())
	cfg.MaxReconnectRetries = 2
	cfg.Callbacks = Callbacks{
		OnConnectionChange: func(connected bool) { changes <- connected },
	}

	tr := newTestTransport(t, cfg, source, nil)
	require.NoError(t, tr.StartTracking(context.Background()))
	require.True(t, <-changes) // initial connect

	// Kill the connection and refuse every redial.
	ts.setRejecting(true)
	ts.closeConns()

	select {
	case connected := <-changes:
		assert.False(t, connected, "expected give-up notification")
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for give-up notification")
	}
	assert.False(t, tr.Status().Connected)
	assert.False(t, tr.Status().Reconnecting)
}

func TestReconnect_SucceedsAndRedrainsQueue(t *testing.T) {
	ts := newTestServer(t)
	source := &fakeSource{fix: models.Fix{Latitude: 27.7, Longitude: 85.3}}

	changes := make(chan bool, 8)
	cfg := baseConfig(ts.wsURL())
	cfg.Callbacks = Callbacks{
		OnConnectionChange: func(connected bool) { changes <- connected },
	}

	tr := newTestTransport(t, cfg, source, nil)

	// Buffer an SOS before connecting so the drain after (re)connect has
	// something to deliver.
	require.NoError(t, tr.SendSOS(context.Background(), "help"))
	require.Equal(t, 1, tr.Queue().PendingCount().SOS)

	require.NoError(t, tr.StartTracking(context.Background()))
	require.True(t, <-changes)

	// The initial drain replays the buffered SOS.
	frame := ts.waitFrame(t, models.TypeSOS)
	assert.Equal(t, "help", frame["message"])

	// Drop the connection; the transport reconnects on its own.
	ts.closeConns()

	select {
	case connected := <-changes:
		assert.True(t, connected, "expected successful reconnect")
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reconnect")
	}
	assert.True(t, tr.Status().Connected)
}
