package controllers

import (
	"regexp"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/johealth/chat-backend/src/lib"
	"github.com/johealth/chat-backend/src/models"
	"github.com/johealth/chat-backend/src/store"
)

// RegisterUser creates a staff or patient account. Admin only; the account
// gets a bcrypt-hashed password and a role-sequenced staff id.
func RegisterUser(counters *store.Counters) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if currentUser(c).Role != models.RoleAdmin {
			return c.Status(fiber.StatusForbidden).JSON(lib.MessageResponse("Only admins can register accounts"))
		}

		var body struct {
			FirstName        string      `json:"firstName"`
			LastName         string      `json:"lastName"`
			Email            string      `json:"email"`
			Phone            string      `json:"phone"`
			Password         string      `json:"password"`
			Role             models.Role `json:"role"`
			AssignedHospital string      `json:"assignedHospital"`
		}
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid request body"))
		}
		if body.FirstName == "" || body.LastName == "" || body.Email == "" || body.Password == "" {
			return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Please fill the full form"))
		}
		if !body.Role.Valid() {
			return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Unknown role"))
		}

		users := lib.DB.Collection("users")
		n, err := users.CountDocuments(c.Context(), bson.M{"email": body.Email})
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(lib.MessageResponse("Server error"))
		}
		if n > 0 {
			return c.Status(fiber.StatusConflict).JSON(lib.MessageResponse("User already exists"))
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(lib.MessageResponse("Server error"))
		}
		staffId, err := counters.NextID(c.Context(), body.Role)
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(lib.MessageResponse("Could not assign an id"))
		}

		now := time.Now().UTC()
		user := models.User{
			FirstName:        body.FirstName,
			LastName:         body.LastName,
			Email:            body.Email,
			Phone:            body.Phone,
			Password:         string(hash),
			Role:             body.Role,
			StaffId:          staffId,
			AssignedHospital: body.AssignedHospital,
			Friends:          []primitive.ObjectID{},
			LastStatusUpdate: now,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		res, err := users.InsertOne(c.Context(), user)
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(lib.MessageResponse("Failed to register user"))
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "User registered",
			"id":      res.InsertedID,
			"staffId": staffId,
		})
	}
}

// GetUsersByRole lists minimal profiles, optionally filtered by role and a
// name or staff-id search term, so users can find accounts to send friend
// requests to.
func GetUsersByRole(c *fiber.Ctx) error {
	filter, ok := userFilter(c.Query("role"), c.Query("search"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Unknown role"))
	}

	cursor, err := lib.DB.Collection("users").Find(c.Context(), filter)
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(lib.MessageResponse("Server error"))
	}

	var users []models.User
	if err := cursor.All(c.Context(), &users); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(lib.MessageResponse("Server error"))
	}

	me := currentUser(c)
	dtos := make([]models.UserDto, 0, len(users))
	for _, u := range users {
		if u.Id == me.Id {
			continue
		}
		dtos = append(dtos, u.Dto())
	}
	return c.JSON(fiber.Map{"users": dtos})
}

// userFilter builds the directory query. The role must be a known role when
// present; the search term matches first name, last name or staff id,
// case-insensitive, with regex metacharacters treated literally.
func userFilter(role, search string) (bson.M, bool) {
	filter := bson.M{}
	if role != "" {
		if !models.Role(role).Valid() {
			return nil, false
		}
		filter["role"] = role
	}
	if search != "" {
		rx := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
		filter["$or"] = []bson.M{
			{"firstName": rx},
			{"lastName": rx},
			{"staffId": rx},
		}
	}
	return filter, true
}

// ToggleDuty flips the authenticated user's on-duty flag.
func ToggleDuty(c *fiber.Ctx) error {
	user := currentUser(c)
	update := bson.M{"$set": bson.M{
		"isOnDuty":         !user.IsOnDuty,
		"lastStatusUpdate": time.Now().UTC(),
	}}
	_, err := lib.DB.Collection("users").UpdateOne(c.Context(), bson.M{"_id": user.Id}, update)
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(lib.MessageResponse("Server error"))
	}
	return c.JSON(fiber.Map{
		"message":  "Duty status updated",
		"isOnDuty": !user.IsOnDuty,
	})
}
