package hub

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gorilla/websocket"

	"netwatch/internal/registry"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
)

// Viewer command names.
const (
	cmdSetCustomIP   = "setCustomIp"
	cmdAddMonitor    = "addMonitor"
	cmdRemoveMonitor = "removeMonitor"
)

// command is an inbound viewer request.
type command struct {
	Type    string `json:"type"`
	Address string `json:"address,omitempty"`
	Text    string `json:"text,omitempty"`
	ID      string `json:"id,omitempty"`
}

// commandResult is the reply sent back to the issuing viewer only.
type commandResult struct {
	Cmd   string `json:"cmd"`
	OK    bool   `json:"ok"`
	ID    string `json:"id,omitempty"`
	Error string `json:"error,omitempty"`
}

// Client is one attached websocket viewer.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// enqueue queues a message for this client without blocking the hub loop.
func (c *Client) enqueue(message []byte) {
	if message == nil {
		return
	}
	select {
	case c.send <- message:
	default:
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.log.WithError(err).Debug("viewer read error")
			}
			return
		}

		var cmd command
		if err := json.Unmarshal(message, &cmd); err != nil {
			c.hub.log.WithError(err).Debug("ignoring malformed viewer command")
			continue
		}
		c.handleCommand(cmd)
	}
}

func (c *Client) handleCommand(cmd command) {
	switch cmd.Type {
	case cmdSetCustomIP:
		// Invalid addresses are silently ignored.
		_ = c.hub.commands.SetCustomTarget(cmd.Address)

	case cmdAddMonitor:
		added, err := c.hub.commands.AddMonitor(cmd.Text)
		if err != nil {
			c.reply(commandResult{Cmd: cmdAddMonitor, Error: errorCode(err)})
			return
		}
		c.reply(commandResult{Cmd: cmdAddMonitor, OK: true, ID: added.ID})

	case cmdRemoveMonitor:
		if err := c.hub.commands.RemoveMonitor(cmd.ID); err != nil {
			c.reply(commandResult{Cmd: cmdRemoveMonitor, Error: errorCode(err)})
			return
		}
		c.reply(commandResult{Cmd: cmdRemoveMonitor, OK: true})

	default:
		c.hub.log.WithField("type", cmd.Type).Debug("unknown viewer command")
	}
}

func (c *Client) reply(result commandResult) {
	c.enqueue(c.hub.marshal(envelope{Type: "result", Data: result}))
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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

// errorCode maps registry errors onto the wire codes viewers expect.
func errorCode(err error) string {
	switch {
	case errors.Is(err, registry.ErrCapacityExceeded):
		return "max"
	case errors.Is(err, registry.ErrInvalidTarget):
		return "invalid"
	case errors.Is(err, registry.ErrNotFound):
		return "notfound"
	case errors.Is(err, registry.ErrForbidden):
		return "forbidden"
	default:
		return "internal"
	}
}
