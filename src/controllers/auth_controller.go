package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/johealth/chat-backend/src/lib"
	"github.com/johealth/chat-backend/src/models"
)

// Login authenticates by email and password and returns a signed token.
func Login(c *fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil || body.Email == "" || body.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Email and password are required"))
	}

	var user models.User
	err := lib.DB.Collection("users").FindOne(c.Context(), bson.M{"email": body.Email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return c.Status(fiber.StatusUnauthorized).JSON(lib.MessageResponse("Invalid email or password"))
	}
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(lib.MessageResponse("Server error"))
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(body.Password)) != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(lib.MessageResponse("Invalid email or password"))
	}

	token, err := lib.GenerateJWT(user.Id.Hex())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(lib.MessageResponse("Could not issue token"))
	}

	user.Password = ""
	return c.JSON(fiber.Map{
		"message": "Welcome back to Health Chat",
		"token":   token,
		"user":    user,
	})
}

// GetMe returns the authenticated user's own document.
func GetMe(c *fiber.Ctx) error {
	user := currentUser(c)
	return c.JSON(fiber.Map{"user": user})
}
