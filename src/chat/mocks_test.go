package chat

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/johealth/chat-backend/src/models"
)

var errStoreDown = errors.New("store down")

// memRequests is an in-memory RequestStore.
type memRequests struct {
	mu   sync.Mutex
	byId map[primitive.ObjectID]*models.FriendRequest
	fail bool
}

func newMemRequests() *memRequests {
	return &memRequests{byId: map[primitive.ObjectID]*models.FriendRequest{}}
}

func (m *memRequests) ActiveBetween(_ context.Context, a, b primitive.ObjectID) (*models.FriendRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return nil, errStoreDown
	}
	for _, req := range m.byId {
		if (req.Sender == a && req.Receiver == b) || (req.Sender == b && req.Receiver == a) {
			cp := *req
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memRequests) Insert(_ context.Context, req *models.FriendRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errStoreDown
	}
	cp := *req
	m.byId[req.Id] = &cp
	return nil
}

func (m *memRequests) FindByID(_ context.Context, id primitive.ObjectID) (*models.FriendRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return nil, errStoreDown
	}
	req, ok := m.byId[id]
	if !ok {
		return nil, nil
	}
	cp := *req
	return &cp, nil
}

func (m *memRequests) MarkAccepted(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errStoreDown
	}
	if req, ok := m.byId[id]; ok {
		req.Status = models.FriendRequestAccepted
	}
	return nil
}

func (m *memRequests) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errStoreDown
	}
	delete(m.byId, id)
	return nil
}

func (m *memRequests) ListPendingFor(_ context.Context, receiver primitive.ObjectID) ([]models.FriendRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return nil, errStoreDown
	}
	var out []models.FriendRequest
	for _, req := range m.byId {
		if req.Receiver == receiver && req.Status == models.FriendRequestPending {
			out = append(out, *req)
		}
	}
	return out, nil
}

// memEdges is an in-memory EdgeStore with set semantics.
type memEdges struct {
	mu    sync.Mutex
	edges map[primitive.ObjectID]map[primitive.ObjectID]bool
	fail  bool
}

func newMemEdges() *memEdges {
	return &memEdges{edges: map[primitive.ObjectID]map[primitive.ObjectID]bool{}}
}

func (m *memEdges) addOne(a, b primitive.ObjectID) {
	if m.edges[a] == nil {
		m.edges[a] = map[primitive.ObjectID]bool{}
	}
	m.edges[a][b] = true
}

func (m *memEdges) AddEdge(_ context.Context, a, b primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errStoreDown
	}
	m.addOne(a, b)
	m.addOne(b, a)
	return nil
}

func (m *memEdges) AreFriends(_ context.Context, a, b primitive.ObjectID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return false, errStoreDown
	}
	return m.edges[a][b], nil
}

func (m *memEdges) FriendsOf(_ context.Context, account primitive.ObjectID) ([]primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return nil, errStoreDown
	}
	var out []primitive.ObjectID
	for id := range m.edges[account] {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hex() < out[j].Hex() })
	return out, nil
}

// memMessages is an in-memory MessageStore ordered like the Mongo one.
type memMessages struct {
	mu   sync.Mutex
	msgs []models.Message
	fail bool
}

func newMemMessages() *memMessages {
	return &memMessages{}
}

func (m *memMessages) Insert(_ context.Context, msg *models.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errStoreDown
	}
	m.msgs = append(m.msgs, *msg)
	return nil
}

func (m *memMessages) descFor(conversationId string) []models.Message {
	var out []models.Message
	for _, msg := range m.msgs {
		if msg.ConversationId == conversationId {
			out = append(out, msg)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Seq > out[j].Seq
	})
	return out
}

func (m *memMessages) PageDesc(_ context.Context, conversationId string, skip, limit int64) ([]models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return nil, errStoreDown
	}
	desc := m.descFor(conversationId)
	if skip >= int64(len(desc)) {
		return nil, nil
	}
	desc = desc[skip:]
	if limit < int64(len(desc)) {
		desc = desc[:limit]
	}
	return desc, nil
}

func (m *memMessages) MarkRead(_ context.Context, conversationId string, reader primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return 0, errStoreDown
	}
	var n int64
	for i := range m.msgs {
		msg := &m.msgs[i]
		if msg.ConversationId == conversationId && msg.Status == models.MessageSent && msg.Sender != reader {
			msg.Status = models.MessageRead
			n++
		}
	}
	return n, nil
}

func (m *memMessages) Latest(_ context.Context, conversationId string) (*models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return nil, errStoreDown
	}
	desc := m.descFor(conversationId)
	if len(desc) == 0 {
		return nil, nil
	}
	cp := desc[0]
	return &cp, nil
}

// memDirectory resolves accounts from a fixed map.
type memDirectory struct {
	users map[primitive.ObjectID]models.UserDto
}

func newMemDirectory() *memDirectory {
	return &memDirectory{users: map[primitive.ObjectID]models.UserDto{}}
}

func (d *memDirectory) add(role models.Role) primitive.ObjectID {
	id := primitive.NewObjectID()
	d.users[id] = models.UserDto{Id: id, FirstName: "Test", LastName: id.Hex()[:6], Role: role}
	return id
}

func (d *memDirectory) Resolve(_ context.Context, id primitive.ObjectID) (models.UserDto, error) {
	dto, ok := d.users[id]
	if !ok {
		return models.UserDto{}, NotFound("no account with this id")
	}
	return dto, nil
}

// fakeConn satisfies ConnLike; reads block until Close.
type fakeConn struct {
	mu     sync.Mutex
	writes [][]byte
	closed chan struct{}
	once   sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{closed: make(chan struct{})}
}

func (f *fakeConn) ReadMessage() (int, []byte, error) {
	<-f.closed
	return 0, nil, errors.New("connection closed")
}

func (f *fakeConn) WriteMessage(_ int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = append(f.writes, data)
	return nil
}

func (f *fakeConn) Close() error {
	f.once.Do(func() { close(f.closed) })
	return nil
}

// recvEvent pops the next event from a client's send buffer.
func recvEvent(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case data := <-c.Send:
		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			t.Fatalf("malformed event payload: %v", err)
		}
		return ev
	case <-time.After(time.Second):
		t.Fatal("no event arrived within a second")
		return Event{}
	}
}

// world bundles a fully wired core over in-memory stores.
type world struct {
	requests  *memRequests
	edges     *memEdges
	messages  *memMessages
	directory *memDirectory

	relationships *Relationships
	ledger        *Ledger
	hub           *Hub
	coordinator   *Coordinator
}

func newWorld(gate GatePredicate) *world {
	w := &world{
		requests:  newMemRequests(),
		edges:     newMemEdges(),
		messages:  newMemMessages(),
		directory: newMemDirectory(),
	}
	w.relationships = NewRelationships(w.requests, w.edges, w.directory, gate)
	w.ledger = NewLedger(w.messages)
	w.hub = NewHub()
	w.hub.Start()
	w.coordinator = NewCoordinator(w.relationships, w.ledger, w.hub)
	return w
}

// befriend wires a friendship directly, skipping the request handshake.
func (w *world) befriend(t *testing.T, a, b primitive.ObjectID) {
	t.Helper()
	if err := w.edges.AddEdge(context.Background(), a, b); err != nil {
		t.Fatalf("befriend: %v", err)
	}
}
