package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/johealth/chat-backend/src/chat"
	"github.com/johealth/chat-backend/src/lib"
	"github.com/johealth/chat-backend/src/models"
)

// currentUser pulls the authenticated account attached by ProtectRoute.
func currentUser(c *fiber.Ctx) models.User {
	return c.Locals("user").(models.User)
}

// fail maps a core error kind to the matching HTTP status. Business
// outcomes keep their message; everything unclassified becomes a 500.
func fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch chat.KindOf(err) {
	case chat.KindValidation:
		status = fiber.StatusBadRequest
	case chat.KindForbidden:
		status = fiber.StatusForbidden
	case chat.KindConflict:
		status = fiber.StatusConflict
	case chat.KindNotFound:
		status = fiber.StatusNotFound
	case chat.KindUnavailable:
		status = fiber.StatusServiceUnavailable
	}

	message := "Server error"
	var coreErr *chat.Error
	if errors.As(err, &coreErr) && status != fiber.StatusInternalServerError {
		message = coreErr.Message
	}
	return c.Status(status).JSON(lib.MessageResponse(message))
}
