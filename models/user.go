package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Username  string             `json:"username" bson:"username"`
	Email     string             `json:"email" bson:"email"`
	Phone     string             `json:"phone" bson:"phone"`
	Address   string             `json:"address" bson:"address"`
	Age       int                `json:"age" bson:"age"`
	Gender    string             `json:"gender" bson:"gender"`
	Password  string             `json:"-" bson:"password"`
	IsAdmin   bool               `json:"is_admin" bson:"is_admin"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// UserProfile is the patient identity embedded in populated appointments.
type UserProfile struct {
	ID       primitive.ObjectID `json:"_id"`
	Username string             `json:"username,omitempty"`
	Email    string             `json:"email,omitempty"`
	Phone    string             `json:"phone,omitempty"`
	Address  string             `json:"address,omitempty"`
	Age      int                `json:"age,omitempty"`
	Gender   string             `json:"gender,omitempty"`
}

func (u User) Profile() UserProfile {
	return UserProfile{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Phone:    u.Phone,
		Address:  u.Address,
		Age:      u.Age,
		Gender:   u.Gender,
	}
}

type RegisterUserInput struct {
	Username string `json:"username" binding:"required,notblank"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Age      int    `json:"age" binding:"gte=0"`
	Gender   string `json:"gender"`
}
