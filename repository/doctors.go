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

type DoctorRepository struct {
	coll *mongo.Collection
}

func NewDoctorRepository(db *mongo.Database) *DoctorRepository {
	return &DoctorRepository{coll: db.Collection(DoctorCollection)}
}

func (r *DoctorRepository) Create(ctx context.Context, doctor *models.Doctor) error {
	if doctor.ID.IsZero() {
		doctor.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	doctor.CreatedAt, doctor.UpdatedAt = now, now
	_, err := CreateOne(ctx, r.coll, doctor)
	return err
}

func (r *DoctorRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Doctor, error) {
	var doctor models.Doctor
	if err := FindOne(ctx, r.coll, bson.M{"_id": id}, &doctor); err != nil {
		return nil, err
	}
	return &doctor, nil
}

func (r *DoctorRepository) FindByEmail(ctx context.Context, email string) (*models.Doctor, error) {
	var doctor models.Doctor
	if err := FindOne(ctx, r.coll, bson.M{"email": email}, &doctor); err != nil {
		return nil, err
	}
	return &doctor, nil
}

func (r *DoctorRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Doctor, error) {
	if len(ids) == 0 {
		return []models.Doctor{}, nil
	}
	return FindAll[models.Doctor](ctx, r.coll, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *DoctorRepository) List(ctx context.Context) ([]models.Doctor, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	return FindAll[models.Doctor](ctx, r.coll, bson.M{}, opts)
}

/*
* Set only the whitelisted fields that were provided
* Return the document after the update
 */
func (r *DoctorRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, update models.DoctorProfileUpdate) (*models.Doctor, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Image != nil {
		set["image"] = *update.Image
	}
	if update.Contact != nil {
		set["contact"] = *update.Contact
	}
	if update.Desc != nil {
		set["desc"] = *update.Desc
	}
	if update.Amount != nil {
		set["ammount"] = *update.Amount
	}
	if update.Expertise != nil {
		set["expertise"] = *update.Expertise
	}
	if update.AvailableDates != nil {
		set["date"] = *update.AvailableDates
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doctor models.Doctor
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&doctor)
	if err != nil {
		return nil, err
	}
	return &doctor, nil
}
