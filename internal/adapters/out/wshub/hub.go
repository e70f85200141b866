// Package wshub streams committed order events to kitchen displays and pickup screens
// over websockets.
package wshub

import (
	"context"
	"net/http"
	"sync"
	"time"

	"orderhub/internal/adapters/out/eventcodec"
	"orderhub/internal/core/domain/model/kernel"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	sendBuffer   = 32
	writeTimeout = 5 * time.Second
)

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans every published event out to all connected clients. A client whose buffer
// is full is disconnected instead of slowing down the publisher.
type Hub struct {
	upgrader websocket.Upgrader
	logger   logrus.FieldLogger

	mu      sync.Mutex
	clients map[*client]struct{}
}

func NewHub(logger logrus.FieldLogger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger:  logger.WithField("component", "ws_hub"),
		clients: make(map[*client]struct{}),
	}
}

// ServeHTTP upgrades the request and keeps the connection registered until the peer
// goes away. Incoming messages are ignored.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Debug("websocket upgrade failed")
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	h.register(c)
	go h.writeLoop(c)

	for {
		if _, _, err = conn.ReadMessage(); err != nil {
			break
		}
	}
	h.unregister(c)
}

func (h *Hub) Publish(_ context.Context, events ...kernel.DomainEvent) error {
	for _, event := range events {
		msg, err := eventcodec.Encode(event)
		if err != nil {
			h.logger.WithError(err).Debug("event skipped")
			continue
		}
		h.broadcast(msg.Body)
	}
	return nil
}

func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		h.drop(c)
	}
}

func (h *Hub) broadcast(body []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		select {
		case c.send <- body:
		default:
			h.logger.Warn("websocket client too slow, disconnecting")
			h.drop(c)
		}
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
	h.logger.WithField("clients", len(h.clients)).Debug("websocket client connected")
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.drop(c)
}

// drop must be called with mu held.
func (h *Hub) drop(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

func (h *Hub) writeLoop(c *client) {
	defer c.conn.Close()

	for body := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, body); err != nil {
			h.logger.WithError(err).Debug("websocket write failed")
			h.unregister(c)
			break
		}
	}
	_ = c.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeTimeout),
	)
}
