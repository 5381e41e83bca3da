package service

import (
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
)

// ChatClient is one live websocket connection, bound to a single room
// and an authenticated user for its whole lifetime. The registry never
// writes to Conn directly; all outbound traffic goes through the send
// channel and is drained by the connection's writer goroutine.
type ChatClient struct {
	Conn   *websocket.Conn
	UserID int64
	RoomID int64

	mu     sync.Mutex
	closed bool
	send   chan []byte
}

func NewChatClient(conn *websocket.Conn, userID, roomID int64, sendBuffer int) *ChatClient {
	return &ChatClient{
		Conn:   conn,
		UserID: userID,
		RoomID: roomID,
		send:   make(chan []byte, sendBuffer),
	}
}

// TrySend queues payload for the writer goroutine without blocking.
// Returns false when the buffer is full or the client is already
// closed; a pruned connection can still be executing its reader loop,
// so sends must stay safe after Close.
func (c *ChatClient) TrySend(payload []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

// Close shuts the send channel exactly once, letting the writer
// goroutine drain and exit. Safe to call repeatedly.
func (c *ChatClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// Outbound is the writer goroutine's end of the send channel.
func (c *ChatClient) Outbound() <-chan []byte {
	return c.send
}

// RoomRegistry is the authoritative in-memory map from room id to the
// set of currently live connections in that room. One instance per
// process, created at service start.
type RoomRegistry struct {
	mu    sync.RWMutex
	rooms map[int64]*roomSet
}

// roomSet carries its own lock so broadcasts to unrelated rooms never
// serialize behind each other.
type roomSet struct {
	mu      sync.Mutex
	clients map[*ChatClient]struct{}
}

func NewRoomRegistry() *RoomRegistry {
	return &RoomRegistry{rooms: make(map[int64]*roomSet)}
}

// Register adds the client to its room's session set, creating the set
// if absent. Clients without a usable room id are refused; the caller
// decides whether to keep the connection open.
func (r *RoomRegistry) Register(client *ChatClient) {
	if client == nil || client.RoomID <= 0 {
		log.Printf("[Registry] refusing registration without room id")
		return
	}

	// Insert while holding the registry lock so the set cannot be
	// evicted between lookup and insert.
	r.mu.Lock()
	set, ok := r.rooms[client.RoomID]
	if !ok {
		set = &roomSet{clients: make(map[*ChatClient]struct{})}
		r.rooms[client.RoomID] = set
	}
	set.mu.Lock()
	set.clients[client] = struct{}{}
	n := len(set.clients)
	set.mu.Unlock()
	r.mu.Unlock()

	log.Printf("[Registry] user %d joined room %d (%d connected)", client.UserID, client.RoomID, n)
}

// Remove takes the client out of its room's session set and closes its
// send channel. Removing a client that was never registered, or was
// already pruned, is a no-op. The room entry itself is dropped once its
// last member leaves.
func (r *RoomRegistry) Remove(client *ChatClient) {
	if client == nil || client.RoomID <= 0 {
		return
	}
	r.removeFromRoom(client.RoomID, []*ChatClient{client})
}

// Broadcast delivers payload to every live connection in the room. A
// member whose send buffer is full or gone is pruned exactly as if it
// had disconnected; the remaining members still receive the payload.
// Unknown or empty rooms are a safe no-op. Returns the delivered count.
func (r *RoomRegistry) Broadcast(roomID int64, payload []byte) int {
	r.mu.RLock()
	set, ok := r.rooms[roomID]
	r.mu.RUnlock()
	if !ok {
		return 0
	}

	var failed []*ChatClient
	delivered := 0

	set.mu.Lock()
	for client := range set.clients {
		if client.TrySend(payload) {
			delivered++
		} else {
			failed = append(failed, client)
		}
	}
	set.mu.Unlock()

	if len(failed) > 0 {
		log.Printf("[Registry] pruning %d dead connection(s) from room %d", len(failed), roomID)
		r.removeFromRoom(roomID, failed)
	}
	return delivered
}

// RoomCount reports the number of live connections in a room.
func (r *RoomRegistry) RoomCount(roomID int64) int {
	r.mu.RLock()
	set, ok := r.rooms[roomID]
	r.mu.RUnlock()
	if !ok {
		return 0
	}
	set.mu.Lock()
	defer set.mu.Unlock()
	return len(set.clients)
}

// Rooms reports the number of rooms with at least one live connection.
func (r *RoomRegistry) Rooms() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// removeFromRoom deletes the given clients from a room's set, closing
// the send channel of each client actually found there, and evicts the
// room entry if the set ends up empty. Lock order is always registry
// then set.
func (r *RoomRegistry) removeFromRoom(roomID int64, clients []*ChatClient) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.rooms[roomID]
	if !ok {
		return
	}

	set.mu.Lock()
	for _, client := range clients {
		if _, member := set.clients[client]; member {
			delete(set.clients, client)
			client.Close()
			log.Printf("[Registry] user %d left room %d (%d connected)", client.UserID, roomID, len(set.clients))
		}
	}
	empty := len(set.clients) == 0
	set.mu.Unlock()

	if empty {
		delete(r.rooms, roomID)
	}
}
