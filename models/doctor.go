package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Doctor keeps the "ammount" and "desc" wire names of the existing documents.
type Doctor struct {
	ID             primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name           string             `json:"name" bson:"name"`
	Contact        string             `json:"contact" bson:"contact"`
	Email          string             `json:"email" bson:"email"`
	Image          string             `json:"image" bson:"image"`
	Desc           string             `json:"desc" bson:"desc"`
	Amount         float64            `json:"ammount" bson:"ammount"`
	Expertise      []string           `json:"expertise" bson:"expertise"`
	AvailableDates []string           `json:"date" bson:"date"`
	Password       string             `json:"-" bson:"password"`
	IsDoctor       bool               `json:"is_doctor" bson:"is_doctor"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type DoctorProfile struct {
	ID        primitive.ObjectID `json:"_id"`
	Name      string             `json:"name,omitempty"`
	Contact   string             `json:"contact,omitempty"`
	Email     string             `json:"email,omitempty"`
	Image     string             `json:"image,omitempty"`
	Amount    float64            `json:"ammount,omitempty"`
	Expertise []string           `json:"expertise,omitempty"`
}

func (d Doctor) Profile() DoctorProfile {
	return DoctorProfile{
		ID:        d.ID,
		Name:      d.Name,
		Contact:   d.Contact,
		Email:     d.Email,
		Image:     d.Image,
		Amount:    d.Amount,
		Expertise: d.Expertise,
	}
}

type CreateDoctorInput struct {
	Name           string   `json:"name" binding:"required,notblank"`
	Email          string   `json:"email" binding:"required,email"`
	Password       string   `json:"password" binding:"required,min=6"`
	Amount         float64  `json:"ammount" binding:"required,gt=0"`
	Contact        string   `json:"contact"`
	Image          string   `json:"image"`
	Desc           string   `json:"desc"`
	Expertise      []string `json:"expertise"`
	AvailableDates []string `json:"date"`
}

// DoctorProfileUpdate carries the whitelisted profile fields; nil means unchanged.
type DoctorProfileUpdate struct {
	Name           *string   `json:"name"`
	Image          *string   `json:"image"`
	Contact        *string   `json:"contact"`
	Desc           *string   `json:"desc"`
	Amount         *float64  `json:"ammount" binding:"omitempty,gt=0"`
	Expertise      *[]string `json:"expertise"`
	AvailableDates *[]string `json:"date"`
}

func (u DoctorProfileUpdate) IsEmpty() bool {
	return u.Name == nil && u.Image == nil && u.Contact == nil && u.Desc == nil &&
		u.Amount == nil && u.Expertise == nil && u.AvailableDates == nil
}
