package feed

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/rps/internal/gesture"
	"github.com/lox/rps/internal/round"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	sendBufferSize = 64
)

var (
	ErrConnectionClosed = errors.New("connection closed")
	ErrSendBufferFull   = errors.New("send buffer full")
)

// Connection is one WebSocket client of the bridge
type Connection struct {
	conn    *websocket.Conn
	send    chan *Message
	server  *Server
	logger  *log.Logger
	ctx     context.Context
	cancel  context.CancelFunc
	onClose func(*Connection)

	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

func newConnection(conn *websocket.Conn, server *Server, onClose func(*Connection)) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	return &Connection{
		conn:    conn,
		send:    make(chan *Message, sendBufferSize),
		server:  server,
		logger:  server.logger.With("remote", conn.RemoteAddr().String()),
		ctx:     ctx,
		cancel:  cancel,
		onClose: onClose,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Done is closed once the connection has been closed
func (c *Connection) Done() <-chan struct{} {
	return c.ctx.Done()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		close(c.send)
		c.mu.Unlock()

		c.cancel()
		err = c.conn.Close()
		if c.onClose != nil {
			c.onClose(c)
		}
	})
	return err
}

// SendMessage queues a message for the client. A client whose buffer is
// full is disconnected.
func (c *Connection) SendMessage(msg *Message) error {
	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return ErrConnectionClosed
	}
	select {
	case c.send <- msg:
		c.mu.RUnlock()
		return nil
	default:
	}
	c.mu.RUnlock()

	c.logger.Warn("Connection send buffer full, closing connection")
	_ = c.Close()
	return ErrSendBufferFull
}

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				c.sendError(CodeInvalidMessage, "Malformed message")
				continue
			}
			return
		}

		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Debug("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type)

	switch msg.Type {
	case MessageTypeGesture:
		var data gesture.Classification
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError(CodeInvalidMessage, "Failed to parse gesture data")
			return
		}
		c.handleGesture(data)

	case MessageTypeStartRound:
		c.handleStartRound()

	case MessageTypeReset:
		c.server.engine.Reset()

	default:
		c.sendError(CodeUnknownMessageType, "Unknown message type: "+msg.Type.String())
	}
}

func (c *Connection) handleGesture(data gesture.Classification) {
	if c.server.observer == nil {
		c.sendError(CodeGestureUnavailable, "Gesture input is not read from this feed")
		return
	}
	move := c.server.observer.Observe(data)
	c.logger.Debug("Gesture observed", "label", data.Label, "score", data.Score, "move", move)
}

func (c *Connection) handleStartRound() {
	err := c.server.engine.StartRound()
	switch {
	case err == nil:
	case errors.Is(err, round.ErrRoundInProgress):
		c.sendError(CodeRoundInProgress, err.Error())
	case errors.Is(err, round.ErrGameOver):
		c.sendError(CodeGameOver, err.Error())
	default:
		c.sendError(CodeStartFailed, err.Error())
	}
}

// sendError sends an error message to the client
func (c *Connection) sendError(code, message string) {
	errorMsg, err := NewMessage(MessageTypeError, ErrorData{
		Code:    code,
		Message: message,
	})
	if err != nil {
		c.logger.Error("Failed to create error message", "error", err)
		return
	}

	_ = c.SendMessage(errorMsg)
}
