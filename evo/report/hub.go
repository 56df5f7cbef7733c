package report

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/gorilla/websocket"

	"github.com/baldhumanity/neuroevo/evo"
)

const wsIdlePingInterval = 30 * time.Second

// Hub fans generation summaries out to connected websocket clients.
type Hub struct {
	mu        sync.Mutex
	clients   map[*Client]struct{}
	latest    *evo.Summary
	broadcast chan evo.Summary
}

// Client is one websocket connection registered with a Hub.
type Client struct {
	send chan []byte
}

type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func NewHub() *Hub {
	return &Hub{
		clients:   make(map[*Client]struct{}),
		broadcast: make(chan evo.Summary, 32),
	}
}

// Run delivers queued summaries until done is closed.
func (h *Hub) Run(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case s := <-h.broadcast:
			payload, err := json.Marshal(s)
			if err != nil {
				glog.Warningf("report: dropping generation %d: %v", s.Generation, err)
				continue
			}
			h.mu.Lock()
			for client := range h.clients {
				client.sendJSON(wsMessage{Type: "generation", Payload: payload})
			}
			h.mu.Unlock()
		}
	}
}

// OnGeneration implements evo.Observer. It never blocks the population: when
// the queue is full the summary is dropped for live clients.
func (h *Hub) OnGeneration(s evo.Summary) error {
	h.mu.Lock()
	h.latest = &s
	h.mu.Unlock()

	select {
	case h.broadcast <- s:
	default:
		glog.V(1).Infof("report: broadcast queue full, skipping generation %d", s.Generation)
	}
	return nil
}

// Latest returns the most recent summary seen by the hub.
func (h *Hub) Latest() (evo.Summary, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.latest == nil {
		return evo.Summary{}, false
	}
	return *h.latest, true
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *Hub) HasClients() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients) > 0
}

func (c *Client) sendJSON(msg wsMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func writeWSWithHeartbeat(conn *websocket.Conn, send <-chan []byte) error {
	ticker := time.NewTicker(wsIdlePingInterval)
	defer ticker.Stop()
	lastWrite := time.Now()
	pingPayload := mustMarshal(wsMessage{Type: "ping"})

	for {
		select {
		case msg, ok := <-send:
			if !ok {
				return nil
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return err
			}
			lastWrite = time.Now()
		case <-ticker.C:
			if time.Since(lastWrite) < wsIdlePingInterval {
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, pingPayload); err != nil {
				return err
			}
			lastWrite = time.Now()
		}
	}
}

func mustMarshal(v any) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}
