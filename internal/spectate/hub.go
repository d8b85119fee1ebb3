package spectate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/hersh/tetris/internal/engine"
	"github.com/hersh/tetris/internal/protocol"
)

const (
	broadcastInterval = 100 * time.Millisecond
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingInterval      = (pongWait * 9) / 10
	maxMessageSize    = 4096
	sendBuffer        = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub streams the latest game snapshot to read-only viewers.
type Hub struct {
	viewers *Registry
	logger  *slog.Logger

	mu        sync.Mutex
	latest    engine.Snapshot
	published bool
	frame     []byte
	frameTick uint64
}

// NewHub creates a hub. A nil logger uses slog.Default.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		viewers: NewRegistry(),
		logger:  logger,
	}
}

// Viewers returns the viewer registry.
func (h *Hub) Viewers() *Registry {
	return h.viewers
}

// Publish records s as the latest snapshot. It never blocks on viewers.
func (h *Hub) Publish(s engine.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest = s
	h.published = true
}

// Run broadcasts the latest snapshot every broadcastInterval when it has
// changed, until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(broadcastInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if frame := h.nextFrame(); frame != nil {
				if dropped := h.viewers.Broadcast(frame); dropped > 0 {
					h.logger.Warn("viewer buffers full, frame dropped", "viewers", dropped)
				}
			}
		case <-ctx.Done():
			return
		}
	}
}

// nextFrame encodes the latest snapshot if it is newer than the last frame.
func (h *Hub) nextFrame() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.published || (h.frame != nil && h.latest.Tick == h.frameTick) {
		return nil
	}
	data, err := json.Marshal(protocol.Envelope{
		Type:    protocol.MsgSnapshot,
		Payload: protocol.FromSnapshot(h.latest),
	})
	if err != nil {
		h.logger.Error("encode snapshot", "err", err)
		return nil
	}
	h.frame = data
	h.frameTick = h.latest.Tick
	return data
}

func (h *Hub) currentFrame() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.frame
}

// Handler returns the hub's HTTP routes: /ws for viewers and /health.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.ServeWS)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	return mux
}

// ServeWS upgrades the request and streams snapshots until the viewer leaves.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", "err", err)
		return
	}

	v := &Viewer{
		ID:        uuid.NewString(),
		Name:      "anonymous",
		Connected: time.Now(),
		sendCh:    make(chan []byte, sendBuffer),
	}

	welcome, err := json.Marshal(protocol.Envelope{
		Type:    protocol.MsgWelcome,
		Payload: protocol.WelcomePayload{ViewerID: v.ID},
	})
	if err == nil {
		v.sendCh <- welcome
	}
	if frame := h.currentFrame(); frame != nil {
		v.sendCh <- frame
	}
	h.viewers.Add(v)
	h.logger.Info("viewer connected", "viewer_id", v.ID, "remote", r.RemoteAddr, "viewers", h.viewers.Count())

	go writePump(conn, v.sendCh)
	h.readPump(conn, v)

	h.viewers.Remove(v.ID)
	h.logger.Info("viewer disconnected", "viewer_id", v.ID, "name", v.Name, "viewers", h.viewers.Count())
}

// readPump handles viewer messages until the connection fails.
func (h *Hub) readPump(conn *websocket.Conn, v *Viewer) {
	defer conn.Close()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("viewer read error", "viewer_id", v.ID, "err", err)
			}
			return
		}

		var env struct {
			Type    protocol.MessageType `json:"type"`
			Payload json.RawMessage      `json:"payload"`
		}
		if err := json.Unmarshal(message, &env); err != nil {
			h.logger.Warn("viewer sent malformed message", "viewer_id", v.ID, "err", err)
			continue
		}

		switch env.Type {
		case protocol.MsgWatch:
			var payload protocol.WatchPayload
			if json.Unmarshal(env.Payload, &payload) == nil && payload.ViewerName != "" {
				h.viewers.SetName(v.ID, payload.ViewerName)
				h.logger.Info("viewer named", "viewer_id", v.ID, "name", payload.ViewerName, "audience", h.viewers.Names())
			}
		default:
			h.logger.Debug("unknown message type from viewer", "viewer_id", v.ID, "type", env.Type)
		}
	}
}

// writePump sends queued frames and keepalive pings.
func writePump(conn *websocket.Conn, sendCh <-chan []byte) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case msg, ok := <-sendCh:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ListenAndServe serves the hub on addr until ctx is done.
func ListenAndServe(ctx context.Context, addr string, h *Hub) error {
	srv := &http.Server{Addr: addr, Handler: h.Handler()}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	h.logger.Info("spectator server listening", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("spectator server: %w", err)
	}
}
