package server

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/lox/minicasino/internal/casino"
	"github.com/lox/minicasino/internal/round"
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

	sendBuffer = 256
)

// ErrSendBufferFull is returned when a slow client falls too far behind.
var ErrSendBufferFull = errors.New("server: send buffer full")

// Connection bridges one WebSocket client to its own casino session.
type Connection struct {
	conn    *websocket.Conn
	send    chan *Message
	session *casino.Manager
	logger  *log.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewConnection creates a new connection wrapper
func NewConnection(conn *websocket.Conn, session *casino.Manager, logger *log.Logger) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	return &Connection{
		conn:    conn,
		send:    make(chan *Message, sendBuffer),
		session: session,
		logger:  logger.WithPrefix("conn"),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Run serves the client until it disconnects or ctx is cancelled. The
// session is subscribed for the lifetime of the call.
func (c *Connection) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, c.cancel)
	defer stop()
	defer c.cancel()

	c.session.Subscribe(c)
	defer c.session.Unsubscribe(c)
	c.sendState(nil)

	g, gctx := errgroup.WithContext(c.ctx)
	g.Go(func() error {
		defer c.cancel()
		return c.readPump()
	})
	g.Go(func() error {
		return c.writePump(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		_ = c.conn.Close()
		return nil
	})
	return g.Wait()
}

// OnEvent forwards every snapshot from the session. It runs under the
// publishing machine's lock, so it only queues.
func (c *Connection) OnEvent(snap round.Snapshot) {
	c.sendState(&snap)
}

// SendMessage queues a message without blocking. A full buffer drops the
// client.
func (c *Connection) SendMessage(msg *Message) error {
	select {
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
	}

	select {
	case c.send <- msg:
		return nil
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		c.cancel()
		return ErrSendBufferFull
	}
}

// readPump handles incoming messages from the client
func (c *Connection) readPump() error {
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if c.ctx.Err() != nil {
				return nil
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
				return err
			}
			return nil
		}
		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump(ctx context.Context) error {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				c.logger.Error("Failed to write message", "error", err)
				return err
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return nil
			}

		case <-ctx.Done():
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return nil
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type, "game", c.session.Current())

	switch msg.Type {
	case MessageTypeSwitch:
		var data SwitchData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse switch data")
			return
		}
		kind, err := round.ParseKind(data.Game)
		if err != nil {
			c.sendError("unknown_game", err.Error())
			return
		}
		_ = c.session.SwitchTo(kind)
		c.sendCurrent()

	case MessageTypeWorld:
		c.session.ReturnToWorld()
		c.sendState(nil)

	case MessageTypeBet:
		var data BetData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse bet data")
			return
		}
		c.withMachine(func(m *round.Machine) error { return m.SelectBet(data.Amount) })

	case MessageTypeSelect:
		var data SelectData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse select data")
			return
		}
		c.withMachine(func(m *round.Machine) error { return m.Select(data.Option) })

	case MessageTypeStart:
		c.withMachine(func(m *round.Machine) error { return m.Start() })

	case MessageTypeAction:
		var data ActionData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse action data")
			return
		}
		c.withMachine(func(m *round.Machine) error {
			return m.Act(round.Action{Kind: round.ActionKind(data.Action), Index: data.Index, Color: data.Color})
		})

	case MessageTypeReset:
		c.withMachine(func(m *round.Machine) error { return m.Reset() })

	case MessageTypeAutoplay:
		var data AutoplayData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse autoplay data")
			return
		}
		c.withMachine(func(m *round.Machine) error {
			if !data.Enabled {
				c.session.StopAutoplay(m.Kind())
				return nil
			}
			return c.session.StartAutoplay(m.Kind())
		})
		c.sendCurrent()

	default:
		c.sendError("unknown_message_type", "Unknown message type: "+msg.Type.String())
	}
}

// withMachine runs fn against the open game. Machines publish their own
// snapshots, so only failures need a reply.
func (c *Connection) withMachine(fn func(*round.Machine) error) {
	current := c.session.Current()
	if current == casino.World {
		c.sendError("no_game", "Pick a game first")
		return
	}
	m, err := c.session.Machine(round.Kind(current))
	if err != nil {
		c.sendError("unknown_game", err.Error())
		return
	}
	if err := fn(m); err != nil {
		c.sendError("rejected", err.Error())
	}
}

// sendCurrent sends the open game's snapshot, or the world state.
func (c *Connection) sendCurrent() {
	current := c.session.Current()
	if current == casino.World {
		c.sendState(nil)
		return
	}
	m, err := c.session.Machine(round.Kind(current))
	if err != nil {
		c.sendState(nil)
		return
	}
	snap := m.Snapshot()
	c.sendState(&snap)
}

func (c *Connection) sendState(snap *round.Snapshot) {
	data := StateData{
		Current:  c.session.Current(),
		Balance:  c.session.Balance(),
		Snapshot: snap,
	}
	for _, k := range round.Kinds {
		if c.session.Autoplaying(k) {
			data.Autoplay = append(data.Autoplay, k)
		}
	}
	msg, err := NewMessage(MessageTypeState, data)
	if err != nil {
		c.logger.Error("Failed to create state message", "error", err)
		return
	}
	_ = c.SendMessage(msg)
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
