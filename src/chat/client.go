package chat

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ConnLike is the slice of a websocket connection the hub needs. Tests
// substitute fakes.
type ConnLike interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(int, []byte) error
	Close() error
}

// Client is one live connection of one account. An account may hold several
// clients at once (multi-device); all of them are ephemeral and rebuilt on
// reconnect.
type Client struct {
	Id        string
	AccountId primitive.ObjectID
	Conn      ConnLike

	Send chan []byte

	mu     sync.Mutex // guards closed and the send into Send
	closed bool
}

func NewClient(accountId primitive.ObjectID, conn ConnLike) *Client {
	return &Client{
		Id:        uuid.NewString(),
		AccountId: accountId,
		Conn:      conn,
		Send:      make(chan []byte, 16),
	}
}

// WritePump drains the send buffer onto the wire until the channel closes
// or the connection dies. Run in its own goroutine.
func (c *Client) WritePump() {
	defer c.Conn.Close()
	for data := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
}

// Push queues an event for this client without blocking. A full buffer or a
// closed client drops the event; the ledger remains the durable record. The
// mutex keeps the send from racing close: a bare select would still panic
// when the channel closes between the check and the send.
func (c *Client) Push(ev Event) bool {
	data, err := json.Marshal(&ev)
	if err != nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- data:
		return true
	default:
		return false
	}
}

// close shuts the send channel exactly once, stopping the write pump. Safe
// against a network drop racing an explicit disconnect, and against a
// publish in flight on another goroutine.
func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
}
