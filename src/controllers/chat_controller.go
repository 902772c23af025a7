package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/johealth/chat-backend/src/chat"
	"github.com/johealth/chat-backend/src/lib"
)

// SendMessage is the synchronous send API: the persisted message comes back
// in the response even when the live push cannot reach anyone.
func SendMessage(coordinator *chat.Coordinator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			ReceiverId string `json:"receiverId"`
			Text       string `json:"text"`
		}
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid request body"))
		}
		receiverId, err := primitive.ObjectIDFromHex(body.ReceiverId)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid receiver id format"))
		}

		user := currentUser(c)
		msg, err := coordinator.Send(c.Context(), user.Id, receiverId, body.Text)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": msg})
	}
}

// GetChatHistory returns one chronological page of the conversation with
// :peerId, page 1 being the most recent messages.
func GetChatHistory(coordinator *chat.Coordinator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		peerId, err := primitive.ObjectIDFromHex(c.Params("peerId"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid peer id format"))
		}
		page, err := strconv.ParseInt(c.Query("page", "1"), 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid page number"))
		}

		user := currentUser(c)
		msgs, err := coordinator.History(c.Context(), user.Id, peerId, page)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"messages": msgs})
	}
}

// AcknowledgeSeen marks the conversation read for the authenticated user
// and pushes the read receipt to the room.
func AcknowledgeSeen(coordinator *chat.Coordinator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			ConversationId string `json:"conversationId"`
		}
		if err := c.BodyParser(&body); err != nil || body.ConversationId == "" {
			return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("conversationId is required"))
		}

		user := currentUser(c)
		updated, err := coordinator.AcknowledgeSeen(c.Context(), body.ConversationId, user.Id)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"updated": updated})
	}
}

// GetChatPreviews returns the chat-list entries: each friend with the
// latest message of the shared conversation.
func GetChatPreviews(coordinator *chat.Coordinator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := currentUser(c)
		previews, err := coordinator.Previews(c.Context(), user.Id)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"previews": previews})
	}
}
