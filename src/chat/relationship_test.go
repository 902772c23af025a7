package chat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/johealth/chat-backend/src/models"
)

func TestSendRequestToSelfFails(t *testing.T) {
	w := newWorld(nil)
	a := w.directory.add(models.RoleDoctor)

	_, err := w.relationships.SendRequest(context.Background(), a, a)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestSendRequestUnknownAccount(t *testing.T) {
	w := newWorld(nil)
	a := w.directory.add(models.RoleDoctor)

	_, err := w.relationships.SendRequest(context.Background(), a, primitive.NewObjectID())
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestSendRequestCreatesPending(t *testing.T) {
	w := newWorld(nil)
	a := w.directory.add(models.RolePatient)
	b := w.directory.add(models.RoleDoctor)

	req, err := w.relationships.SendRequest(context.Background(), a, b)
	require.NoError(t, err)
	assert.Equal(t, models.FriendRequestPending, req.Status)
	assert.Equal(t, a, req.Sender)
	assert.Equal(t, b, req.Receiver)
}

func TestDuplicateRequestConflicts(t *testing.T) {
	w := newWorld(nil)
	a := w.directory.add(models.RolePatient)
	b := w.directory.add(models.RoleDoctor)

	_, err := w.relationships.SendRequest(context.Background(), a, b)
	require.NoError(t, err)

	// Same direction.
	_, err = w.relationships.SendRequest(context.Background(), a, b)
	assert.Equal(t, KindConflict, KindOf(err))

	// Opposite direction while the first is still pending.
	_, err = w.relationships.SendRequest(context.Background(), b, a)
	assert.Equal(t, KindConflict, KindOf(err))
}

func TestAcceptAddsSymmetricEdgeAndIsTerminal(t *testing.T) {
	w := newWorld(nil)
	ctx := context.Background()
	a := w.directory.add(models.RolePatient)
	b := w.directory.add(models.RoleDoctor)

	req, err := w.relationships.SendRequest(ctx, a, b)
	require.NoError(t, err)

	accepted, err := w.relationships.Respond(ctx, b, req.Id, DecisionAccept)
	require.NoError(t, err)
	assert.Equal(t, models.FriendRequestAccepted, accepted.Status)

	abFriends, err := w.relationships.AreFriends(ctx, a, b)
	require.NoError(t, err)
	assert.True(t, abFriends)
	baFriends, err := w.relationships.AreFriends(ctx, b, a)
	require.NoError(t, err)
	assert.True(t, baFriends)

	// The pair is terminal: another request conflicts.
	_, err = w.relationships.SendRequest(ctx, a, b)
	assert.Equal(t, KindConflict, KindOf(err))

	// And the handled request is no longer pending for a second answer.
	_, err = w.relationships.Respond(ctx, b, req.Id, DecisionAccept)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestRejectResetsPairToNone(t *testing.T) {
	w := newWorld(nil)
	ctx := context.Background()
	a := w.directory.add(models.RolePatient)
	b := w.directory.add(models.RoleDoctor)

	req, err := w.relationships.SendRequest(ctx, a, b)
	require.NoError(t, err)

	rejected, err := w.relationships.Respond(ctx, b, req.Id, DecisionReject)
	require.NoError(t, err)
	assert.Nil(t, rejected)

	friends, err := w.relationships.AreFriends(ctx, a, b)
	require.NoError(t, err)
	assert.False(t, friends)

	// A fresh request goes through again.
	_, err = w.relationships.SendRequest(ctx, a, b)
	assert.NoError(t, err)
}

func TestRespondAuthorization(t *testing.T) {
	w := newWorld(nil)
	ctx := context.Background()
	a := w.directory.add(models.RolePatient)
	b := w.directory.add(models.RoleDoctor)
	other := w.directory.add(models.RoleNurse)

	req, err := w.relationships.SendRequest(ctx, a, b)
	require.NoError(t, err)

	// The sender cannot answer their own request, nor can a bystander.
	_, err = w.relationships.Respond(ctx, a, req.Id, DecisionAccept)
	assert.Equal(t, KindForbidden, KindOf(err))
	_, err = w.relationships.Respond(ctx, other, req.Id, DecisionAccept)
	assert.Equal(t, KindForbidden, KindOf(err))
}

func TestRespondValidation(t *testing.T) {
	w := newWorld(nil)
	ctx := context.Background()
	b := w.directory.add(models.RoleDoctor)

	_, err := w.relationships.Respond(ctx, b, primitive.NewObjectID(), "maybe")
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = w.relationships.Respond(ctx, b, primitive.NewObjectID(), DecisionAccept)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestRoleTableGate(t *testing.T) {
	cases := []struct {
		name     string
		sender   models.Role
		receiver models.Role
		allowed  bool
	}{
		{"patient to patient denied", models.RolePatient, models.RolePatient, false},
		{"patient to doctor allowed", models.RolePatient, models.RoleDoctor, true},
		{"doctor to patient allowed", models.RoleDoctor, models.RolePatient, true},
		{"doctor to doctor allowed", models.RoleDoctor, models.RoleDoctor, true},
		{"nurse to nurse allowed", models.RoleNurse, models.RoleNurse, true},
		{"unknown role denied same-role", models.Role("Alien"), models.Role("Alien"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, RoleTableGate(tc.sender, tc.receiver))
		})
	}
}

func TestGatePredicateBlocksRequest(t *testing.T) {
	w := newWorld(RoleTableGate)
	a := w.directory.add(models.RolePatient)
	b := w.directory.add(models.RolePatient)

	_, err := w.relationships.SendRequest(context.Background(), a, b)
	assert.Equal(t, KindForbidden, KindOf(err))
}

func TestListPendingResolvesSenders(t *testing.T) {
	w := newWorld(nil)
	ctx := context.Background()
	a := w.directory.add(models.RolePatient)
	b := w.directory.add(models.RoleDoctor)
	c := w.directory.add(models.RoleNurse)

	_, err := w.relationships.SendRequest(ctx, a, b)
	require.NoError(t, err)
	_, err = w.relationships.SendRequest(ctx, c, b)
	require.NoError(t, err)

	pending, err := w.relationships.ListPending(ctx, b)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	senders := map[primitive.ObjectID]bool{}
	for _, p := range pending {
		senders[p.Sender.Id] = true
		assert.Equal(t, b, p.Receiver)
	}
	assert.True(t, senders[a])
	assert.True(t, senders[c])

	// Nothing pending for the senders themselves.
	mine, err := w.relationships.ListPending(ctx, a)
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestStoreFailureSurfacesAsUnavailable(t *testing.T) {
	w := newWorld(nil)
	ctx := context.Background()
	a := w.directory.add(models.RolePatient)
	b := w.directory.add(models.RoleDoctor)

	w.edges.fail = true
	_, err := w.relationships.SendRequest(ctx, a, b)
	assert.Equal(t, KindUnavailable, KindOf(err))

	w.edges.fail = false
	w.requests.fail = true
	_, err = w.relationships.SendRequest(ctx, a, b)
	assert.Equal(t, KindUnavailable, KindOf(err))
}
