package ws

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/SRMV-Team/Online-Tutor-Backend/core"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Client is one websocket connection. Writes go through the buffered send
// channel; the write pump is the only goroutine touching the connection's
// write side.
type Client struct {
	gateway *Gateway
	conn    *websocket.Conn
	logger  core.Logger
	send    chan []byte

	// set by the join event; only the read pump touches it
	identity identity
}

// ServeWS upgrades an HTTP request and registers the resulting client.
func (g *Gateway) ServeWS(upgrader *websocket.Upgrader, w http.ResponseWriter, r *http.Request) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	client := &Client{
		gateway: g,
		conn:    conn,
		logger:  g.logger,
		send:    make(chan []byte, 64),
	}
	g.register <- client

	go client.writePump()
	go client.readPump()
	return nil
}

// sendEvent queues an event for this client only. Slow clients lose
// messages rather than blocking the gateway.
func (c *Client) sendEvent(event string, data interface{}) {
	msg, err := newEnvelope(event, data)
	if err != nil {
		c.logger.Error(fmt.Sprintf("encoding %s event: %v", event, err), err)
		return
	}
	select {
	case c.send <- msg:
	default:
	}
}

func (c *Client) readPump() {
	defer func() {
		c.gateway.unregister <- c
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug(fmt.Sprintf("websocket closed: %v", err))
			}
			return
		}
		c.gateway.handleMessage(c, msg)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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
