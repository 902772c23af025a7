package controllers

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/johealth/chat-backend/src/chat"
	"github.com/johealth/chat-backend/src/lib"
)

// SendFriendRequest sends a friend request from the authenticated user to
// another user.
func SendFriendRequest(relationships *chat.Relationships) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			ReceiverId string `json:"receiverId"`
		}
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid request body"))
		}
		receiverId, err := primitive.ObjectIDFromHex(body.ReceiverId)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid receiver id format"))
		}

		user := currentUser(c)
		req, err := relationships.SendRequest(c.Context(), user.Id, receiverId)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "Friend request sent",
			"request": req,
		})
	}
}

// RespondToRequest accepts or rejects a pending friend request addressed to
// the authenticated user.
func RespondToRequest(relationships *chat.Relationships) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			RequestId string `json:"requestId"`
			Decision  string `json:"decision"`
		}
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid request body"))
		}
		requestId, err := primitive.ObjectIDFromHex(body.RequestId)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid request id format"))
		}

		user := currentUser(c)
		req, err := relationships.Respond(c.Context(), user.Id, requestId, chat.Decision(body.Decision))
		if err != nil {
			return fail(c, err)
		}

		if req == nil {
			return c.JSON(fiber.Map{"message": "Friend request rejected", "status": "none"})
		}
		return c.JSON(fiber.Map{
			"message": "Friend request accepted",
			"status":  req.Status,
			"request": req,
		})
	}
}

// GetPendingRequests returns the pending requests where the authenticated
// user is the receiver, senders resolved to minimal profiles.
func GetPendingRequests(relationships *chat.Relationships) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := currentUser(c)
		requests, err := relationships.ListPending(c.Context(), user.Id)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"requests": requests})
	}
}

// GetFriends returns the authenticated user's friends as minimal profiles.
func GetFriends(relationships *chat.Relationships) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := currentUser(c)
		friends, err := relationships.Friends(c.Context(), user.Id)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"friends": friends})
	}
}
