package stream

import (
	"context"
	"net/http"
	"sync"

	"github.com/VuurMos/inverse-kinematics/components/limbs"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "stream",
})

// Hub maintains the set of active clients and broadcasts frames to them.
type Hub struct {
	handler CommandHandler

	// Registered clients
	clients map[*Client]bool

	// Outbound messages to broadcast
	broadcast chan []byte

	register   chan *Client
	unregister chan *Client

	// Closed when Run returns, to release clients blocked on (un)registering.
	done chan struct{}

	// Guards clients, for ClientCount.
	mu sync.RWMutex

	upgrader websocket.Upgrader
}

// NewHub creates a hub which passes inbound commands to handler (which may be
// nil, to ignore them).
func NewHub(handler CommandHandler) *Hub {
	return &Hub{
		handler:    handler,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,

			// Renderers are typically served from a different origin (or a file).
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Run is the hub's main loop. It blocks until the context is cancelled, then
// disconnects every client.
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			return nil

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()
			log.Infof("client %s connected (%d total)", client.ID, count)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			log.Infof("client %s disconnected (%d remaining)", client.ID, count)

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Too slow to keep up; drop it rather than stall the tick loop.
					close(client.send)
					delete(h.clients, client)
					log.Warnf("dropped slow client %s", client.ID)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast queues a message for every connected client. It never blocks; if
// the queue is full the message is dropped.
func (h *Hub) Broadcast(data []byte) {
	select {
	case h.broadcast <- data:
	default:
		log.Warnf("broadcast queue full, dropping message")
	}
}

// Publish encodes a frame and broadcasts it. This makes the hub a limbs.Sink.
func (h *Hub) Publish(f limbs.Frame) {
	data, err := encodeFrame(f)
	if err != nil {
		log.Errorf("encoding frame %d: %s", f.Tick, err)
		return
	}

	h.Broadcast(data)
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request to a websocket and serves the client until it
// disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warnf("upgrade from %s failed: %s", r.RemoteAddr, err)
		return
	}

	c := newClient(h, conn)
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go c.writePump()
	c.readPump()
}

func (h *Hub) handle(c *Client, data []byte) {
	cmd, err := DecodeCommand(data)
	if err != nil {
		log.Warnf("client %s: %s", c.ID, err)
		return
	}

	if h.handler == nil {
		return
	}

	if err := h.handler.HandleCommand(cmd); err != nil {
		log.Warnf("client %s: %s command: %s", c.ID, cmd.Type, err)
	}
}
