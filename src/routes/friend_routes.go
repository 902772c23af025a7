package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/johealth/chat-backend/src/chat"
	"github.com/johealth/chat-backend/src/controllers"
	"github.com/johealth/chat-backend/src/middleware"
)

// FriendRoutes sets up friend-request routes for sending, responding to and
// listing requests, plus the resolved friend list.
func FriendRoutes(app *fiber.App, relationships *chat.Relationships) {
	friends := app.Group("/api/v1/friends", middleware.ProtectRoute)

	friends.Post("/requests", controllers.SendFriendRequest(relationships))
	friends.Get("/requests/pending", controllers.GetPendingRequests(relationships))
	friends.Put("/requests/respond", controllers.RespondToRequest(relationships))
	friends.Get("/", controllers.GetFriends(relationships))
}
