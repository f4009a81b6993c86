// Package websocket implements the Hub that pushes live match results.
// WebSockets are persistent two-way connections: once a spectator opens one for a
// match, the server can push the updated scoreline the moment a coach records it,
// without the client polling the API.
package websocket

import "sync"

// sendBuffer is how many undelivered snapshots a client may fall behind by before
// the Hub drops it.
const sendBuffer = 16

// Client is one connected spectator.
type Client struct {
	MatchID string      // Which match this client follows; routes broadcasts to the right audience
	Send    chan []byte // Outgoing snapshots; the Hub closes it when the client is removed
}

// NewClient creates a client for matchID with a buffered Send channel.
func NewClient(matchID string) *Client {
	return &Client{MatchID: matchID, Send: make(chan []byte, sendBuffer)}
}

// Message is a snapshot to deliver to every client following MatchID.
type Message struct {
	MatchID string
	Data    []byte // JSON-encoded match
}

// Hub tracks connected clients grouped by match id.
// Run owns all changes to the clients map; every other method talks to Run
// through channels. mu lets ClientCount read the map from other goroutines.
type Hub struct {
	clients map[string]map[*Client]bool

	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client

	done     chan struct{} // Closed by Stop; makes Run return and unblocks senders
	stopOnce sync.Once

	mu sync.RWMutex
}

// NewHub creates a Hub. Call Run in its own goroutine before using it.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		broadcast:  make(chan *Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run is the Hub's event loop ("go hub.Run()"). It returns after Stop, closing
// the Send channel of every client still connected.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.MatchID] == nil {
				h.clients[client.MatchID] = make(map[*Client]bool)
			}
			h.clients[client.MatchID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients[msg.MatchID] {
				select {
				case client.Send <- msg.Data:
				default:
					// Buffer full: the client is too slow. Drop it here rather than
					// sending to h.unregister, which only this loop reads.
					h.remove(client)
				}
			}
			h.mu.Unlock()

		case <-h.done:
			h.mu.Lock()
			for _, clients := range h.clients {
				for client := range clients {
					close(client.Send)
				}
			}
			h.clients = make(map[string]map[*Client]bool)
			h.mu.Unlock()
			return
		}
	}
}

// remove deletes client and closes its Send channel. Callers hold mu.
func (h *Hub) remove(client *Client) {
	clients, ok := h.clients[client.MatchID]
	if !ok || !clients[client] {
		return
	}
	delete(clients, client)
	close(client.Send)
	if len(clients) == 0 {
		delete(h.clients, client.MatchID)
	}
}

// Stop shuts the Hub down. It is safe to call more than once.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// BroadcastToMatch sends data to every client following matchID. After Stop it
// does nothing.
func (h *Hub) BroadcastToMatch(matchID string, data []byte) {
	select {
	case h.broadcast <- &Message{MatchID: matchID, Data: data}:
	case <-h.done:
	}
}

// Register starts delivering broadcasts for client.MatchID to client. After Stop
// the client's Send channel is closed straight away.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.Send)
	}
}

// Unregister removes client when its connection closes.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// ClientCount reports how many clients follow matchID.
func (h *Hub) ClientCount(matchID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[matchID])
}
