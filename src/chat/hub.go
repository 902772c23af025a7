package chat

import (
	"sync"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Hub tracks live connections and fans events out to conversation rooms.
// All state is in-memory and rebuilt from scratch when the process restarts;
// the ledger, not the hub, is authoritative for message state.
//
// The hub is an owned instance with an explicit lifecycle: construct it,
// Start it, inject it where fan-out is needed, Stop it on shutdown.
type Hub struct {
	mu      sync.RWMutex
	running bool

	rooms       map[string]map[*Client]bool             // conversation id -> members
	memberships map[*Client]map[string]bool             // reverse index for Leave
	accounts    map[primitive.ObjectID]map[*Client]bool // account -> live connections

	log *logrus.Entry
}

func NewHub() *Hub {
	return &Hub{
		rooms:       map[string]map[*Client]bool{},
		memberships: map[*Client]map[string]bool{},
		accounts:    map[primitive.ObjectID]map[*Client]bool{},
		log:         logrus.WithField("component", "session_hub"),
	}
}

// Start makes the hub accept registrations and publishes. Idempotent.
func (h *Hub) Start() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.running {
		return
	}
	h.running = true
	h.log.Info("session hub started")
}

// Stop disconnects every client and clears all room state. Idempotent.
func (h *Hub) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.running {
		return
	}
	h.running = false
	for client := range h.memberships {
		client.close()
	}
	for _, conns := range h.accounts {
		for client := range conns {
			client.close()
		}
	}
	h.rooms = map[string]map[*Client]bool{}
	h.memberships = map[*Client]map[string]bool{}
	h.accounts = map[primitive.ObjectID]map[*Client]bool{}
	h.log.Info("session hub stopped")
}

// Register adds a freshly connected client to the account index. Returns
// false when the hub is not running.
func (h *Hub) Register(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.running {
		return false
	}
	if h.accounts[c.AccountId] == nil {
		h.accounts[c.AccountId] = map[*Client]bool{}
	}
	h.accounts[c.AccountId][c] = true
	h.log.WithFields(logrus.Fields{
		"client":  c.Id,
		"account": c.AccountId.Hex(),
	}).Debug("client registered")
	return true
}

// Join puts the client into the room of its conversation with peer and
// returns the canonical conversation id. Joining a room twice is a no-op.
func (h *Hub) Join(c *Client, peerId primitive.ObjectID) string {
	conversationId := ConversationID(c.AccountId, peerId)

	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.running {
		return conversationId
	}
	if h.rooms[conversationId] == nil {
		h.rooms[conversationId] = map[*Client]bool{}
	}
	h.rooms[conversationId][c] = true
	if h.memberships[c] == nil {
		h.memberships[c] = map[string]bool{}
	}
	h.memberships[c][conversationId] = true
	return conversationId
}

// Publish pushes the event to every connection currently in the room.
// Best-effort: no confirmation, no retry, slow consumers are skipped. The
// only error is a stopped hub.
func (h *Hub) Publish(conversationId string, ev Event) error {
	h.mu.RLock()
	if !h.running {
		h.mu.RUnlock()
		return Unavailable("session hub is not running", nil)
	}
	members := make([]*Client, 0, len(h.rooms[conversationId]))
	for client := range h.rooms[conversationId] {
		members = append(members, client)
	}
	h.mu.RUnlock()

	for _, client := range members {
		if !client.Push(ev) {
			h.log.WithFields(logrus.Fields{
				"client":       client.Id,
				"conversation": conversationId,
				"event":        ev.Event,
			}).Warn("dropped event for slow or closed connection")
		}
	}
	return nil
}

// Leave removes the client from every room and the account index and stops
// its write pump. Safe to call more than once; a disconnect racing an
// explicit leave resolves to one removal.
func (h *Hub) Leave(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conversationId := range h.memberships[c] {
		delete(h.rooms[conversationId], c)
		if len(h.rooms[conversationId]) == 0 {
			delete(h.rooms, conversationId)
		}
	}
	delete(h.memberships, c)
	if conns := h.accounts[c.AccountId]; conns != nil {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.accounts, c.AccountId)
		}
	}
	c.close()
}

// IsOnline reports whether the account has at least one live connection.
func (h *Hub) IsOnline(accountId primitive.ObjectID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.accounts[accountId]) > 0
}

// RoomSize returns the current membership count of a conversation room.
func (h *Hub) RoomSize(conversationId string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[conversationId])
}
