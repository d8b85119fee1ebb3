package spectate

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hersh/tetris/internal/engine"
	"github.com/hersh/tetris/internal/game"
	"github.com/hersh/tetris/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	srv := httptest.NewServer(hub.Handler())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

type rawEnvelope struct {
	Type    protocol.MessageType `json:"type"`
	Payload json.RawMessage      `json:"payload"`
}

func readEnvelope(t *testing.T, conn *websocket.Conn) rawEnvelope {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var env rawEnvelope
	require.NoError(t, json.Unmarshal(data, &env))
	return env
}

// readSnapshot reads until a snapshot at or after tick arrives.
func readSnapshot(t *testing.T, conn *websocket.Conn, tick uint64) engine.Snapshot {
	t.Helper()
	for {
		env := readEnvelope(t, conn)
		if env.Type != protocol.MsgSnapshot {
			continue
		}
		var payload protocol.SnapshotPayload
		require.NoError(t, json.Unmarshal(env.Payload, &payload))
		snap, err := payload.Snapshot()
		require.NoError(t, err)
		if snap.Tick >= tick {
			return snap
		}
	}
}

func TestViewerReceivesWelcomeAndSnapshots(t *testing.T) {
	hub, srv := newTestHub(t)
	m := engine.NewMachine(game.NewSeededPieceFactory(3), slog.New(slog.NewTextHandler(io.Discard, nil)))

	conn := dial(t, srv)
	env := readEnvelope(t, conn)
	require.Equal(t, protocol.MsgWelcome, env.Type)
	var welcome protocol.WelcomePayload
	require.NoError(t, json.Unmarshal(env.Payload, &welcome))
	assert.NotEmpty(t, welcome.ViewerID)

	m.Tick(game.NewActionSet(game.ActionConfirm))
	want := m.Tick(game.NewActionSet(game.ActionHardDrop))
	hub.Publish(want)

	got := readSnapshot(t, conn, want.Tick)
	assert.Equal(t, want.Tick, got.Tick)
	assert.Equal(t, engine.StateRunning, got.State)
	assert.Equal(t, want.Grid, got.Grid)
	assert.Equal(t, want.Score, got.Score)
}

func TestLateViewerGetsLatestFrame(t *testing.T) {
	hub, srv := newTestHub(t)
	m := engine.NewMachine(game.NewSeededPieceFactory(3), slog.New(slog.NewTextHandler(io.Discard, nil)))
	want := m.Tick(game.NewActionSet(game.ActionConfirm))
	hub.Publish(want)
	require.Eventually(t, func() bool { return hub.currentFrame() != nil }, 2*time.Second, 10*time.Millisecond)

	conn := dial(t, srv)
	require.Equal(t, protocol.MsgWelcome, readEnvelope(t, conn).Type)

	got := readSnapshot(t, conn, want.Tick)
	assert.Equal(t, want.GameID, got.GameID)
}

func TestViewerNameAndDisconnect(t *testing.T) {
	hub, srv := newTestHub(t)
	conn := dial(t, srv)
	readEnvelope(t, conn)

	require.NoError(t, conn.WriteJSON(protocol.Envelope{
		Type:    protocol.MsgWatch,
		Payload: protocol.WatchPayload{ViewerName: "ana"},
	}))
	assert.Eventually(t, func() bool {
		names := hub.Viewers().Names()
		return len(names) == 1 && names[0] == "ana"
	}, 2*time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.Viewers().Count() == 0 }, 2*time.Second, 10*time.Millisecond)
}

type syncBuffer struct {
	mu  sync.Mutex
	buf strings.Builder
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestViewerLogsCarryAudience(t *testing.T) {
	logs := &syncBuffer{}
	hub := NewHub(slog.New(slog.NewTextHandler(logs, nil)))
	srv := httptest.NewServer(hub.Handler())
	t.Cleanup(srv.Close)

	conn := dial(t, srv)
	readEnvelope(t, conn)
	require.NoError(t, conn.WriteJSON(protocol.Envelope{
		Type:    protocol.MsgWatch,
		Payload: protocol.WatchPayload{ViewerName: "ana"},
	}))

	hasLine := func(msg string, parts ...string) func() bool {
		return func() bool {
			for _, line := range strings.Split(logs.String(), "\n") {
				if !strings.Contains(line, "msg=\""+msg+"\"") {
					continue
				}
				ok := true
				for _, p := range parts {
					ok = ok && strings.Contains(line, p)
				}
				if ok {
					return true
				}
			}
			return false
		}
	}

	assert.Eventually(t, hasLine("viewer connected", "viewers=1"), 2*time.Second, 10*time.Millisecond)
	assert.Eventually(t, hasLine("viewer named", "audience=", "ana"), 2*time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, hasLine("viewer disconnected", "name=ana", "viewers=0"), 2*time.Second, 10*time.Millisecond)
}

func TestHealth(t *testing.T) {
	_, srv := newTestHub(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))
}

func TestRegistryBroadcastDropsOnFullBuffer(t *testing.T) {
	r := NewRegistry()
	r.Add(&Viewer{ID: "a", Name: "a", sendCh: make(chan []byte, 1)})
	r.Add(&Viewer{ID: "b", Name: "b", sendCh: make(chan []byte, 2)})

	assert.Equal(t, 0, r.Broadcast([]byte("1")))
	assert.Equal(t, 1, r.Broadcast([]byte("2")))
	assert.Equal(t, []string{"a", "b"}, r.Names())

	r.Remove("a")
	r.Remove("a")
	assert.Equal(t, 1, r.Count())
}
