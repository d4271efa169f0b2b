package repository

import (
	"context"
	"time"

	"MediBook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AppointmentRepository struct {
	coll *mongo.Collection
}

func NewAppointmentRepository(db *mongo.Database) *AppointmentRepository {
	return &AppointmentRepository{coll: db.Collection(AppointmentCollection)}
}

func (r *AppointmentRepository) Create(ctx context.Context, appointment *models.Appointment) error {
	if appointment.ID.IsZero() {
		appointment.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	appointment.CreatedAt, appointment.UpdatedAt = now, now
	_, err := CreateOne(ctx, r.coll, appointment)
	return err
}

func (r *AppointmentRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error) {
	var appointment models.Appointment
	if err := FindOne(ctx, r.coll, bson.M{"_id": id}, &appointment); err != nil {
		return nil, err
	}
	return &appointment, nil
}

func (r *AppointmentRepository) List(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "_id", Value: 1}})
	return FindAll[models.Appointment](ctx, r.coll, listFilter(filter), opts)
}

/*
* Match on id, owners and allowed source statuses
* Apply every change in one document write
* Return the post-image, or ErrNoDocuments when nothing matched
 */
func (r *AppointmentRepository) Update(ctx context.Context, match models.AppointmentMatch, changes models.AppointmentChanges) (*models.Appointment, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var appointment models.Appointment
	err := r.coll.FindOneAndUpdate(ctx, matchFilter(match), updateDocument(changes, time.Now().UTC()), opts).Decode(&appointment)
	if err != nil {
		return nil, err
	}
	return &appointment, nil
}

func listFilter(f models.AppointmentFilter) bson.M {
	filter := bson.M{}
	if f.User != nil {
		filter["user"] = *f.User
	}
	if f.Doctor != nil {
		filter["doctor"] = *f.Doctor
	}
	if f.FollowUpFrom != nil || f.FollowUpTo != nil {
		filter["followUpRequired"] = true
		window := bson.M{}
		if f.FollowUpFrom != nil {
			window["$gte"] = *f.FollowUpFrom
		}
		if f.FollowUpTo != nil {
			window["$lt"] = *f.FollowUpTo
		}
		filter["followUpDate"] = window
	}
	return filter
}

func matchFilter(m models.AppointmentMatch) bson.M {
	filter := bson.M{"_id": m.ID}
	if m.Doctor != nil {
		filter["doctor"] = *m.Doctor
	}
	if m.User != nil {
		filter["user"] = *m.User
	}
	if len(m.Statuses) > 0 {
		filter["status"] = bson.M{"$in": m.Statuses}
	}
	return filter
}

func updateDocument(c models.AppointmentChanges, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if c.Status != nil {
		set["status"] = *c.Status
	}
	if c.ApprovedDate != nil {
		set["approvedDate"] = *c.ApprovedDate
	}
	if c.Date != nil {
		set["date"] = *c.Date
	}
	if c.About != nil {
		set["about"] = *c.About
	}
	if c.Medicine != nil {
		set["medicine"] = c.Medicine
	}
	if c.Dosage != nil {
		set["dosage"] = c.Dosage
	}
	if c.Duration != nil {
		set["duration"] = c.Duration
	}
	if c.Instructions != nil {
		set["instructions"] = c.Instructions
	}
	if c.FollowUpRequired != nil {
		set["followUpRequired"] = *c.FollowUpRequired
	}
	if c.FollowUpDate != nil {
		set["followUpDate"] = *c.FollowUpDate
	}

	update := bson.M{}
	if c.ClearPayment {
		set["payment"] = models.PaymentUnpaid
		update["$unset"] = bson.M{"paymentDate": "", "paymentAmount": "", "paymentMethod": ""}
	} else {
		if c.Payment != nil {
			set["payment"] = *c.Payment
		}
		if c.PaymentDate != nil {
			set["paymentDate"] = *c.PaymentDate
		}
		if c.PaymentAmount != nil {
			set["paymentAmount"] = *c.PaymentAmount
		}
		if c.PaymentMethod != nil {
			set["paymentMethod"] = *c.PaymentMethod
		}
	}
	update["$set"] = set
	return update
}
