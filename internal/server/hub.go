package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/ayusman/rochambeau/internal/app"
	"github.com/ayusman/rochambeau/internal/metrics"
)

const (
	sendBuffer   = 16
	writeTimeout = 5 * time.Second
	readLimit    = 512
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub streams every published view to the connected websocket clients.
// New clients receive the latest view straight away. A client that falls behind
// loses its oldest queued views, never the newest.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	last    []byte
	closed  bool
}

// NewHub creates an empty hub. Register it with the app as a sink.
func NewHub() *Hub {
	return &Hub{clients: make(map[*client]struct{})}
}

// Publish implements app.Sink. It never blocks on a client.
func (h *Hub) Publish(v app.View) {
	msg, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode view")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = msg
	for c := range h.clients {
		enqueue(c, msg)
	}
}

func enqueue(c *client, msg []byte) {
	select {
	case c.send <- msg:
		return
	default:
	}
	select {
	case <-c.send:
	default:
	}
	select {
	case c.send <- msg:
	default:
	}
	metrics.WSDroppedViews.Inc()
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request and streams views until the client disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	if !h.register(c) {
		conn.Close()
		return
	}
	defer h.unregister(c)

	go c.writeLoop()

	// Clients only listen; reading detects the disconnect.
	conn.SetReadLimit(readLimit)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	if h.last != nil {
		c.send <- h.last
	}
	metrics.WSClients.Set(float64(len(h.clients)))
	log.Debug().Str("remote", c.conn.RemoteAddr().String()).Msg("websocket client connected")
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	metrics.WSClients.Set(float64(len(h.clients)))
	log.Debug().Str("remote", c.conn.RemoteAddr().String()).Msg("websocket client disconnected")
}

// Close disconnects every client and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		c.conn.Close()
	}
}

func (c *client) writeLoop() {
	defer c.conn.Close()
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeTimeout))
}
