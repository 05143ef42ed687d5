// Package stream broadcasts world snapshots to websocket clients.
package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pthm-cable/forage/game"
)

const (
	writeWait  = 5 * time.Second
	pingPeriod = 30 * time.Second
	pongWait   = pingPeriod + 10*time.Second

	// sendBuffer is the number of frames a client may fall behind before it is dropped.
	sendBuffer = 16
)

// client is one connected websocket viewer.
type client struct {
	conn *websocket.Conn
	send chan []byte
	addr string
}

// Hub fans snapshots out to every connected client. A client that cannot
// keep up is disconnected rather than slowing the simulation.
type Hub struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	sent    int
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Viewers may be served from any origin
			},
		},
		clients: make(map[*client]struct{}),
	}
}

// ServeHTTP upgrades the request and registers the connection.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer), addr: r.RemoteAddr}
	h.register(c)
	slog.Info("stream client connected", "remote", c.addr)

	go h.writePump(c)
	go h.readPump(c)
}

// Publish encodes the snapshot once and queues it for every client.
func (h *Hub) Publish(s game.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.clients) == 0 {
		return
	}

	msg, err := json.Marshal(s)
	if err != nil {
		slog.Error("failed to encode snapshot", "tick", s.Tick, "error", err)
		return
	}

	for c := range h.clients {
		select {
		case c.send <- msg:
			h.sent++
		default:
			slog.Warn("dropping slow stream client", "remote", c.addr, "tick", s.Tick)
			h.removeLocked(c)
		}
	}
}

// Active reports whether any client is connected.
func (h *Hub) Active() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients) > 0
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Sent returns the number of frames queued so far across all clients.
func (h *Hub) Sent() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sent
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		h.removeLocked(c)
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

// removeLocked closes the client's queue; its write pump then closes the
// connection. Safe to call more than once.
func (h *Hub) removeLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

// writePump delivers queued frames and keeps the connection alive with pings.
func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		slog.Info("stream client disconnected", "remote", c.addr)
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.unregister(c)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.unregister(c)
				return
			}
		}
	}
}

// readPump discards client messages and notices disconnects.
func (h *Hub) readPump(c *client) {
	defer h.unregister(c)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Server serves the hub on /ws until its context is cancelled.
type Server struct {
	hub  *Hub
	http *http.Server
}

// NewServer creates a server for hub listening on addr.
func NewServer(addr string, hub *Hub) *Server {
	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	return &Server{
		hub:  hub,
		http: &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second},
	}
}

// Run listens until ctx is done, then shuts down and disconnects clients.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("stream listening", "addr", s.http.Addr)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("stream server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), writeWait)
	defer cancel()
	s.hub.Close()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("stream shutdown: %w", err)
	}
	return nil
}
