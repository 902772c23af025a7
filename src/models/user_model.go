package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	Id               primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	FirstName        string               `json:"firstName" bson:"firstName"`
	LastName         string               `json:"lastName" bson:"lastName"`
	Email            string               `json:"email" bson:"email"`
	Phone            string               `json:"phone" bson:"phone"`
	Password         string               `json:"-" bson:"password"`
	Role             Role                 `json:"role" bson:"role"`
	StaffId          string               `json:"staffId" bson:"staffId,omitempty"` // e.g. "911-0042", minted per role
	Avatar           Avatar               `json:"avatar" bson:"avatar"`
	AssignedHospital string               `json:"assignedHospital" bson:"assignedHospital,omitempty"`
	Friends          []primitive.ObjectID `json:"friends" bson:"friends"`
	IsOnDuty         bool                 `json:"isOnDuty" bson:"isOnDuty"`
	LastStatusUpdate time.Time            `json:"lastStatusUpdate" bson:"lastStatusUpdate"`
	CreatedAt        time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time            `json:"updatedAt" bson:"updatedAt"`
}

type Avatar struct {
	PublicId string `json:"public_id" bson:"public_id"`
	Url      string `json:"url" bson:"url"`
}

// UserDto is the minimal profile attached to friend requests and friend lists.
type UserDto struct {
	Id        primitive.ObjectID `bson:"_id" json:"id"`
	FirstName string             `bson:"firstName" json:"firstName"`
	LastName  string             `bson:"lastName" json:"lastName"`
	Role      Role               `bson:"role" json:"role"`
	Avatar    Avatar             `bson:"avatar" json:"avatar"`
}

func (u *User) Dto() UserDto {
	return UserDto{
		Id:        u.Id,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		Avatar:    u.Avatar,
	}
}
