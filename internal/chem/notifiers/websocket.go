package notifiers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/beakerlab/beaker/internal/chem"
	"github.com/gorilla/websocket"
)

const wsWriteWait = 10 * time.Second

// WebSocketNotifier fans tick events out to every connected WebSocket
// client. Clients attach through the server's upgrade handler; a single
// broadcaster goroutine owns registration and writes.
type WebSocketNotifier struct {
	id         string
	mu         sync.RWMutex
	clients    map[*websocket.Conn]struct{}
	upgrader   websocket.Upgrader
	broadcast  chan chem.TickEvent
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	done       chan struct{}
	closeOnce  sync.Once
	wg         sync.WaitGroup
}

// NewWebSocketNotifier creates a WebSocket notifier and starts its
// broadcaster goroutine.
func NewWebSocketNotifier(id string) *WebSocketNotifier {
	n := &WebSocketNotifier{
		id:         id,
		clients:    make(map[*websocket.Conn]struct{}),
		broadcast:  make(chan chem.TickEvent, 256),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}

	n.wg.Add(1)
	go n.run()

	return n
}

// ID returns the notifier ID
func (n *WebSocketNotifier) ID() string {
	return n.id
}

// Type returns the notifier type
func (n *WebSocketNotifier) Type() string {
	return "websocket"
}

// Upgrader returns the WebSocket upgrader for HTTP handlers
func (n *WebSocketNotifier) Upgrader() websocket.Upgrader {
	return n.upgrader
}

// RegisterClient hands a newly upgraded connection to the broadcaster
func (n *WebSocketNotifier) RegisterClient(conn *websocket.Conn) {
	select {
	case n.register <- conn:
	case <-n.done:
		// Notifier is closing, drop the connection
		conn.Close()
	}
}

// UnregisterClient detaches a connection from the broadcaster
func (n *WebSocketNotifier) UnregisterClient(conn *websocket.Conn) {
	select {
	case n.unregister <- conn:
	case <-n.done:
	}
}

// ClientCount returns how many clients are currently attached
func (n *WebSocketNotifier) ClientCount() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.clients)
}

// Notify queues the event for broadcast to all attached clients
func (n *WebSocketNotifier) Notify(ctx context.Context, event chem.TickEvent) error {
	// The buffered channel would still accept sends after close, so check
	// done first.
	select {
	case <-n.done:
		return fmt.Errorf("websocket notifier %s is closed", n.id)
	default:
	}

	select {
	case <-n.done:
		return fmt.Errorf("websocket notifier %s is closed", n.id)
	case n.broadcast <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(1 * time.Second):
		return fmt.Errorf("websocket broadcast queue full")
	}
}

// run owns the client set: registrations, departures and broadcasts all
// funnel through here.
func (n *WebSocketNotifier) run() {
	defer n.wg.Done()
	for {
		select {
		case <-n.done:
			return

		case conn := <-n.register:
			if conn == nil {
				continue
			}
			n.mu.Lock()
			n.clients[conn] = struct{}{}
			n.mu.Unlock()

		case conn := <-n.unregister:
			if conn == nil {
				continue
			}
			n.mu.Lock()
			if _, ok := n.clients[conn]; ok {
				delete(n.clients, conn)
				conn.Close()
			}
			n.mu.Unlock()

		case event := <-n.broadcast:
			n.broadcastEvent(event)
		}
	}
}

// broadcastEvent writes one event to every client, dropping connections
// whose write fails. Writes happen outside the lock so a slow client never
// blocks registration.
func (n *WebSocketNotifier) broadcastEvent(event chem.TickEvent) {
	payload, err := event.JSON()
	if err != nil {
		return
	}

	n.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(n.clients))
	for conn := range n.clients {
		conns = append(conns, conn)
	}
	n.mu.RUnlock()

	var failed []*websocket.Conn
	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			failed = append(failed, conn)
			conn.Close()
		}
	}

	if len(failed) > 0 {
		n.mu.Lock()
		for _, conn := range failed {
			delete(n.clients, conn)
		}
		n.mu.Unlock()
	}
}

// Close stops the broadcaster and disconnects every client. It is safe to
// call more than once.
func (n *WebSocketNotifier) Close() error {
	n.closeOnce.Do(func() {
		close(n.done)
	})

	// Wait for the broadcaster before touching the client set
	n.wg.Wait()

	n.mu.Lock()
	for conn := range n.clients {
		conn.Close()
		delete(n.clients, conn)
	}
	n.mu.Unlock()

	return nil
}
