package realtime

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 64
)

// Client is one authenticated WebSocket connection. Inbound frames only
// manage subscriptions; all domain mutations go through the HTTP API and
// reach clients back through the pub/sub bridge.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	userID   uint
	userName string
	send     chan []byte
	// closed by the hub on unregister; send itself is never closed because
	// deliverers may still hold a reference after the client is dropped
	done     chan struct{}
	channels map[string]bool
}

// NewClient wraps an upgraded connection and registers it with the hub.
func NewClient(hub *Hub, conn *websocket.Conn, userID uint, userName string) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		userID:   userID,
		userName: userName,
		send:     make(chan []byte, sendBufferSize),
		done:     make(chan struct{}),
		channels: make(map[string]bool),
	}
}

// clientFrame is the inbound control message shape.
type clientFrame struct {
	Action  string `json:"action"`
	Channel string `json:"channel"`
}

// ack is the reply to a subscription frame.
type ack struct {
	Event   string `json:"event"`
	Channel string `json:"channel"`
}

// Serve registers the client and runs both pumps. It blocks until the read
// pump exits.
func (c *Client) Serve() {
	select {
	case c.hub.register <- c:
	case <-c.hub.stopped:
		c.conn.Close()
		return
	}
	go c.writePump()
	c.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.requestUnregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("realtime: read error for user %d: %v", c.userID, err)
			}
			return
		}

		var frame clientFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			continue
		}
		c.handleFrame(frame)
	}
}

func (c *Client) handleFrame(frame clientFrame) {
	switch frame.Action {
	case "subscribe":
		ok, err := c.hub.Subscribe(c, frame.Channel)
		if err != nil {
			log.Printf("realtime: subscribe check failed for user %d on %s: %v", c.userID, frame.Channel, err)
			c.sendAck("subscription.error", frame.Channel)
			return
		}
		if !ok {
			c.sendAck("subscription.denied", frame.Channel)
			return
		}
		c.sendAck("subscription.succeeded", frame.Channel)
	case "unsubscribe":
		c.hub.Unsubscribe(c, frame.Channel)
		c.sendAck("subscription.removed", frame.Channel)
	}
}

func (c *Client) sendAck(event, channel string) {
	raw, err := json.Marshal(ack{Event: event, Channel: channel})
	if err != nil {
		return
	}
	select {
	case c.send <- raw:
	default:
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
