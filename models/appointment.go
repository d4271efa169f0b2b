package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "cash"
	PaymentCard  PaymentMethod = "card"
	PaymentUPI   PaymentMethod = "upi"
	PaymentOther PaymentMethod = "other"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentUPI, PaymentOther:
		return true
	}
	return false
}

// Appointment is the stored document. The patient and doctor references are
// written once at creation and never part of an update.
type Appointment struct {
	ID     primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	User   primitive.ObjectID `json:"user" bson:"user"`
	Doctor primitive.ObjectID `json:"doctor" bson:"doctor"`

	Date    time.Time         `json:"date" bson:"date"`
	Disease string            `json:"disease" bson:"disease"`
	Status  AppointmentStatus `json:"status" bson:"status"`

	ApprovedDate *time.Time `json:"approvedDate,omitempty" bson:"approvedDate,omitempty"`

	Payment       PaymentStatus `json:"payment" bson:"payment"`
	PaymentDate   *time.Time    `json:"paymentDate,omitempty" bson:"paymentDate,omitempty"`
	PaymentAmount *float64      `json:"paymentAmount,omitempty" bson:"paymentAmount,omitempty"`
	PaymentMethod PaymentMethod `json:"paymentMethod,omitempty" bson:"paymentMethod,omitempty"`
	Invoice       string        `json:"invoice" bson:"invoice"`

	About            string     `json:"about,omitempty" bson:"about,omitempty"`
	Medicine         []string   `json:"medicine" bson:"medicine"`
	Dosage           []string   `json:"dosage" bson:"dosage"`
	Duration         []string   `json:"duration" bson:"duration"`
	Instructions     []string   `json:"instructions" bson:"instructions"`
	FollowUpRequired bool       `json:"followUpRequired" bson:"followUpRequired"`
	FollowUpDate     *time.Time `json:"followUpDate,omitempty" bson:"followUpDate,omitempty"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// IsApproved is derived from Status; it is never stored.
func (a Appointment) IsApproved() bool {
	return a.Status == StatusApproved || a.Status == StatusCompleted
}

// AppointmentView is the response shape: the stored record with both
// references populated and the derived approval flag.
type AppointmentView struct {
	Appointment
	User       *UserProfile   `json:"user"`
	Doctor     *DoctorProfile `json:"doctor"`
	IsApproved bool           `json:"isApproved"`
}

func NewAppointmentView(a Appointment, user *UserProfile, doctor *DoctorProfile) AppointmentView {
	if user == nil {
		user = &UserProfile{ID: a.User}
	}
	if doctor == nil {
		doctor = &DoctorProfile{ID: a.Doctor}
	}
	return AppointmentView{
		Appointment: a,
		User:        user,
		Doctor:      doctor,
		IsApproved:  a.IsApproved(),
	}
}

// AppointmentFilter selects appointments for listing. Zero fields match everything.
type AppointmentFilter struct {
	User         *primitive.ObjectID
	Doctor       *primitive.ObjectID
	FollowUpFrom *time.Time
	FollowUpTo   *time.Time
}

// AppointmentMatch guards a conditional write: the record must have this id,
// belong to the given owners and currently be in one of Statuses.
type AppointmentMatch struct {
	ID       primitive.ObjectID
	Doctor   *primitive.ObjectID
	User     *primitive.ObjectID
	Statuses []AppointmentStatus
}

// AppointmentChanges lists the fields a single write sets. Nil means unchanged.
type AppointmentChanges struct {
	Status       *AppointmentStatus
	ApprovedDate *time.Time
	Date         *time.Time

	About            *string
	Medicine         []string
	Dosage           []string
	Duration         []string
	Instructions     []string
	FollowUpRequired *bool
	FollowUpDate     *time.Time

	Payment       *PaymentStatus
	PaymentDate   *time.Time
	PaymentAmount *float64
	PaymentMethod *PaymentMethod
	ClearPayment  bool
}

type CreateAppointmentInput struct {
	Doctor  string `json:"doctor"`
	Disease string `json:"disease"`
	Date    string `json:"date"`
}

type ApproveInput struct {
	ApprovedDate string `json:"approvedDate"`
}

type RescheduleInput struct {
	ID   string `json:"_id"`
	Date string `json:"date"`
}

type ClinicalNotesInput struct {
	ID               string   `json:"_id"`
	Medicine         []string `json:"medicine"`
	About            string   `json:"about"`
	Dosage           []string `json:"dosage"`
	Duration         []string `json:"duration"`
	Instructions     []string `json:"instructions"`
	FollowUpRequired *bool    `json:"followUpRequired"`
	FollowUpDate     string   `json:"followUpDate"`
}

type PaymentInput struct {
	Payment PaymentStatus `json:"payment"`
	Amount  *float64      `json:"paymentAmount"`
	Method  PaymentMethod `json:"paymentMethod" binding:"omitempty,paymentmethod"`
	Date    string        `json:"paymentDate"`
}
