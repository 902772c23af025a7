package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/johealth/chat-backend/src/controllers"
	"github.com/johealth/chat-backend/src/middleware"
	"github.com/johealth/chat-backend/src/store"
)

// UserRoutes sets up authentication and account-directory routes.
func UserRoutes(app *fiber.App, counters *store.Counters) {
	auth := app.Group("/api/v1/auth")
	auth.Post("/login", controllers.Login)

	users := app.Group("/api/v1/users", middleware.ProtectRoute)
	users.Get("/me", controllers.GetMe)
	users.Get("/", controllers.GetUsersByRole)
	users.Post("/", controllers.RegisterUser(counters))
	users.Put("/me/duty", controllers.ToggleDuty)
}
