package controllers

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/gofiber/contrib/websocket"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/johealth/chat-backend/src/chat"
	"github.com/johealth/chat-backend/src/models"
)

// wsCommand is what a connected client may ask for over the live channel.
type wsCommand struct {
	Action         string `json:"action"` // join_conversation, send_message, message_seen
	PeerId         string `json:"peerId,omitempty"`
	ReceiverId     string `json:"receiverId,omitempty"`
	Text           string `json:"text,omitempty"`
	ConversationId string `json:"conversationId,omitempty"`
}

// ChatSocket upgrades the connection into a live messaging session: the
// client is registered with the hub, commands are read until the socket
// drops, and Leave cleans up membership on the way out.
func ChatSocket(hub *chat.Hub, coordinator *chat.Coordinator) func(*websocket.Conn) {
	return func(conn *websocket.Conn) {
		user := conn.Locals("user").(models.User)
		client := chat.NewClient(user.Id, conn)
		if !hub.Register(client) {
			conn.Close()
			return
		}
		defer hub.Leave(client)
		go client.WritePump()

		log := logrus.WithFields(logrus.Fields{
			"component": "chat_socket",
			"client":    client.Id,
			"account":   user.Id.Hex(),
		})
		log.Info("live session opened")
		defer log.Info("live session closed")

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var cmd wsCommand
			if err := json.Unmarshal(data, &cmd); err != nil {
				client.Push(chat.ErrorEvent("malformed command"))
				continue
			}
			dispatch(context.Background(), hub, coordinator, client, cmd)
		}
	}
}

func dispatch(ctx context.Context, hub *chat.Hub, coordinator *chat.Coordinator, client *chat.Client, cmd wsCommand) {
	switch cmd.Action {
	case "join_conversation":
		peerId, err := primitive.ObjectIDFromHex(cmd.PeerId)
		if err != nil {
			client.Push(chat.ErrorEvent("invalid peer id"))
			return
		}
		hub.Join(client, peerId)

	case "send_message":
		receiverId, err := primitive.ObjectIDFromHex(cmd.ReceiverId)
		if err != nil {
			client.Push(chat.ErrorEvent("invalid receiver id"))
			return
		}
		msg, err := coordinator.Send(ctx, client.AccountId, receiverId, cmd.Text)
		if err != nil {
			client.Push(chat.ErrorEvent(reason(err)))
			return
		}
		// Synchronous acknowledgment for the sender's own connection,
		// on top of the room fan-out.
		client.Push(chat.MessageCreated(msg))

	case "message_seen":
		if _, err := coordinator.AcknowledgeSeen(ctx, cmd.ConversationId, client.AccountId); err != nil {
			client.Push(chat.ErrorEvent(reason(err)))
		}

	default:
		client.Push(chat.ErrorEvent("unknown action"))
	}
}

func reason(err error) string {
	var coreErr *chat.Error
	if errors.As(err, &coreErr) {
		return coreErr.Message
	}
	return "server error"
}
