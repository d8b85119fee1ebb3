package netclient

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"
	"github.com/hersh/tetris/internal/engine"
	"github.com/hersh/tetris/internal/protocol"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	maxMessageSize = 16384
)

// SnapshotMsg is a tea.Msg carrying a snapshot received from the server.
type SnapshotMsg struct {
	Snapshot engine.Snapshot
}

// ConnectedMsg is sent when the server assigns this viewer an id.
type ConnectedMsg struct {
	ViewerID string
}

// DisconnectedMsg is sent when the WebSocket connection is lost.
type DisconnectedMsg struct {
	Err error
}

// Sender delivers messages into a running program. *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// Client is a read-only spectator connection to a game's snapshot stream.
type Client struct {
	mu      sync.Mutex
	conn    *websocket.Conn
	sendCh  chan []byte
	program Sender
	done    chan struct{}
	closed  bool
	logger  *slog.Logger
}

// New creates a Client connected to the given server URL.
func New(serverURL string, logger *slog.Logger) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.Dial(serverURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", serverURL, err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		conn:   conn,
		sendCh: make(chan []byte, 16),
		done:   make(chan struct{}),
		logger: logger,
	}

	return c, nil
}

// SetProgram sets the program that receives snapshots.
func (c *Client) SetProgram(p Sender) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.program = p
}

// Start launches the read and write pumps and announces the viewer name.
func (c *Client) Start(viewerName string) {
	go c.writePump()
	go c.readPump()
	c.Send(protocol.Envelope{
		Type:    protocol.MsgWatch,
		Payload: protocol.WatchPayload{ViewerName: viewerName},
	})
}

// Send marshals and queues an envelope for the server.
func (c *Client) Send(env protocol.Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		c.logger.Error("marshal message", "err", err)
		return
	}
	select {
	case c.sendCh <- data:
	default:
		c.logger.Warn("send channel full, dropping message", "type", env.Type)
	}
}

// Close shuts down the connection.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.done)
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
	c.conn.Close()
}

func (c *Client) deliver(msg tea.Msg) {
	c.mu.Lock()
	p := c.program
	c.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// readPump decodes server messages and forwards them to the program.
func (c *Client) readPump() {
	var readErr error
	defer func() {
		c.deliver(DisconnectedMsg{Err: readErr})
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPingHandler(func(data string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return c.conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(writeWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("read error", "err", err)
				readErr = err
			}
			return
		}

		var env struct {
			Type    protocol.MessageType `json:"type"`
			Payload json.RawMessage      `json:"payload"`
		}
		if err := json.Unmarshal(message, &env); err != nil {
			c.logger.Warn("malformed server message", "err", err)
			continue
		}

		switch env.Type {
		case protocol.MsgWelcome:
			var payload protocol.WelcomePayload
			if json.Unmarshal(env.Payload, &payload) == nil {
				c.deliver(ConnectedMsg{ViewerID: payload.ViewerID})
			}
		case protocol.MsgSnapshot:
			var payload protocol.SnapshotPayload
			if err := json.Unmarshal(env.Payload, &payload); err != nil {
				c.logger.Warn("malformed snapshot", "err", err)
				continue
			}
			snap, err := payload.Snapshot()
			if err != nil {
				c.logger.Warn("invalid snapshot", "err", err)
				continue
			}
			c.deliver(SnapshotMsg{Snapshot: snap})
		default:
			c.logger.Debug("unknown message type", "type", env.Type)
		}
	}
}

// writePump writes queued messages to the WebSocket.
func (c *Client) writePump() {
	for {
		select {
		case msg := <-c.sendCh:
			c.mu.Lock()
			closed := c.closed
			c.mu.Unlock()
			if closed {
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}
