package routes

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/johealth/chat-backend/src/chat"
	"github.com/johealth/chat-backend/src/controllers"
	"github.com/johealth/chat-backend/src/middleware"
)

// ChatRoutes sets up the message APIs and the websocket live channel.
func ChatRoutes(app *fiber.App, hub *chat.Hub, coordinator *chat.Coordinator) {
	group := app.Group("/api/v1/chat", middleware.ProtectRoute)

	group.Post("/messages", controllers.SendMessage(coordinator))
	group.Get("/history/:peerId", controllers.GetChatHistory(coordinator))
	group.Post("/seen", controllers.AcknowledgeSeen(coordinator))
	group.Get("/previews", controllers.GetChatPreviews(coordinator))

	// Upgrade check first, then auth (the token rides in the query string
	// for websocket clients), then the session itself.
	app.Get("/api/v1/ws", upgradeRequired, middleware.ProtectRoute, websocket.New(controllers.ChatSocket(hub, coordinator)))
}

func upgradeRequired(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}
