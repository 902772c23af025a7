package chat

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/johealth/chat-backend/src/models"
)

// RequestStore is the durable record of friend requests. Lookups that find
// nothing return (nil, nil); an error always means the store itself failed.
type RequestStore interface {
	// ActiveBetween returns the pending or accepted request between the two
	// accounts, in either direction.
	ActiveBetween(ctx context.Context, a, b primitive.ObjectID) (*models.FriendRequest, error)
	Insert(ctx context.Context, req *models.FriendRequest) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.FriendRequest, error)
	MarkAccepted(ctx context.Context, id primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	ListPendingFor(ctx context.Context, receiver primitive.ObjectID) ([]models.FriendRequest, error)
}

// EdgeStore is the symmetric friendship adjacency, derived state rebuildable
// from accepted requests. Edge insertion uses set semantics so a retried
// accept cannot duplicate an edge.
type EdgeStore interface {
	AddEdge(ctx context.Context, a, b primitive.ObjectID) error
	AreFriends(ctx context.Context, a, b primitive.ObjectID) (bool, error)
	FriendsOf(ctx context.Context, account primitive.ObjectID) ([]primitive.ObjectID, error)
}

// Decision is the receiver's answer to a pending request.
type Decision string

const (
	DecisionAccept Decision = "accept"
	DecisionReject Decision = "reject"
)

// Relationships runs the friend-request state machine:
// none -> pending -> accepted (terminal), or back to none on reject.
type Relationships struct {
	requests   RequestStore
	edges      EdgeStore
	directory  Directory
	mayRequest GatePredicate
	log        *logrus.Entry
}

// NewRelationships wires the state machine. A nil gate means every role pair
// may request.
func NewRelationships(requests RequestStore, edges EdgeStore, directory Directory, gate GatePredicate) *Relationships {
	if gate == nil {
		gate = AllowAll
	}
	return &Relationships{
		requests:   requests,
		edges:      edges,
		directory:  directory,
		mayRequest: gate,
		log:        logrus.WithField("component", "relationships"),
	}
}

// SendRequest creates a pending request from sender to receiver. Fails with
// a validation error on self-requests, forbidden when the role gate says no,
// and conflict when the pair already has an active request or friendship.
func (r *Relationships) SendRequest(ctx context.Context, senderId, receiverId primitive.ObjectID) (*models.FriendRequest, error) {
	if senderId == receiverId {
		return nil, Validation("you cannot add yourself")
	}

	sender, err := r.directory.Resolve(ctx, senderId)
	if err != nil {
		return nil, err
	}
	receiver, err := r.directory.Resolve(ctx, receiverId)
	if err != nil {
		return nil, err
	}
	if !r.mayRequest(sender.Role, receiver.Role) {
		return nil, Forbidden("requests between these roles are not permitted")
	}

	friends, err := r.edges.AreFriends(ctx, senderId, receiverId)
	if err != nil {
		return nil, Unavailable("checking friendship", err)
	}
	if friends {
		return nil, Conflict("you are already friends with this user")
	}

	existing, err := r.requests.ActiveBetween(ctx, senderId, receiverId)
	if err != nil {
		return nil, Unavailable("checking existing requests", err)
	}
	if existing != nil {
		return nil, Conflict("a request already exists between these users")
	}

	now := time.Now().UTC()
	req := &models.FriendRequest{
		Id:        primitive.NewObjectID(),
		Sender:    senderId,
		Receiver:  receiverId,
		Status:    models.FriendRequestPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.requests.Insert(ctx, req); err != nil {
		return nil, Unavailable("creating friend request", err)
	}

	r.log.WithFields(logrus.Fields{
		"request": req.Id.Hex(),
		"sender":  senderId.Hex(),
	}).Info("friend request created")
	return req, nil
}

// Respond resolves a pending request. Only its receiver may answer. Accept
// adds the symmetric edge to both friend sets and is terminal for the pair;
// reject deletes the record so the pair resets to none and may start over.
func (r *Relationships) Respond(ctx context.Context, viewerId, requestId primitive.ObjectID, decision Decision) (*models.FriendRequest, error) {
	if decision != DecisionAccept && decision != DecisionReject {
		return nil, Validation("decision must be accept or reject")
	}

	req, err := r.requests.FindByID(ctx, requestId)
	if err != nil {
		return nil, Unavailable("loading friend request", err)
	}
	if req == nil || req.Status != models.FriendRequestPending {
		return nil, NotFound("no pending request with this id")
	}
	if req.Receiver != viewerId {
		return nil, Forbidden("only the receiver can respond to this request")
	}

	if decision == DecisionReject {
		if err := r.requests.Delete(ctx, requestId); err != nil {
			return nil, Unavailable("deleting friend request", err)
		}
		r.log.WithField("request", requestId.Hex()).Info("friend request rejected")
		return nil, nil
	}

	// Edges first: the accepted status is only recorded once both friend
	// sets hold the edge. AddEdge is a set insert, so a retry after a
	// partial failure is harmless.
	if err := r.edges.AddEdge(ctx, req.Sender, req.Receiver); err != nil {
		return nil, Unavailable("adding friend edge", err)
	}
	if err := r.requests.MarkAccepted(ctx, requestId); err != nil {
		return nil, Unavailable("accepting friend request", err)
	}

	req.Status = models.FriendRequestAccepted
	req.UpdatedAt = time.Now().UTC()
	r.log.WithField("request", requestId.Hex()).Info("friend request accepted")
	return req, nil
}

// ListPending returns the pending requests addressed to the account, each
// with the sender resolved to a minimal profile. Senders the directory no
// longer knows are skipped.
func (r *Relationships) ListPending(ctx context.Context, accountId primitive.ObjectID) ([]models.PendingRequestDto, error) {
	reqs, err := r.requests.ListPendingFor(ctx, accountId)
	if err != nil {
		return nil, Unavailable("listing pending requests", err)
	}

	out := make([]models.PendingRequestDto, 0, len(reqs))
	for _, req := range reqs {
		sender, err := r.directory.Resolve(ctx, req.Sender)
		if err != nil {
			if KindOf(err) == KindNotFound {
				r.log.WithField("sender", req.Sender.Hex()).Warn("pending request from unknown account, skipping")
				continue
			}
			return nil, err
		}
		out = append(out, models.PendingRequestDto{
			Id:        req.Id,
			Sender:    sender,
			Receiver:  req.Receiver,
			Status:    string(req.Status),
			CreatedAt: req.CreatedAt,
		})
	}
	return out, nil
}

// Friends returns the resolved profiles of the account's friend set.
func (r *Relationships) Friends(ctx context.Context, accountId primitive.ObjectID) ([]models.UserDto, error) {
	ids, err := r.edges.FriendsOf(ctx, accountId)
	if err != nil {
		return nil, Unavailable("loading friend list", err)
	}
	out := make([]models.UserDto, 0, len(ids))
	for _, id := range ids {
		friend, err := r.directory.Resolve(ctx, id)
		if err != nil {
			if KindOf(err) == KindNotFound {
				continue
			}
			return nil, err
		}
		out = append(out, friend)
	}
	return out, nil
}

// AreFriends reports whether the two accounts hold a friendship edge.
func (r *Relationships) AreFriends(ctx context.Context, a, b primitive.ObjectID) (bool, error) {
	ok, err := r.edges.AreFriends(ctx, a, b)
	if err != nil {
		return false, Unavailable("checking friendship", err)
	}
	return ok, nil
}
