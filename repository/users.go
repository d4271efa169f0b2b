package repository

import (
	"context"
	"time"

	"MediBook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(UserCollection)}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	_, err := CreateOne(ctx, r.coll, user)
	return err
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	if err := FindOne(ctx, r.coll, bson.M{"_id": id}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := FindOne(ctx, r.coll, bson.M{"email": email}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := FindOne(ctx, r.coll, bson.M{"username": username}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	return FindAll[models.User](ctx, r.coll, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *UserRepository) SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	res, err := UpdateOne(ctx, r.coll, bson.M{"_id": id},
		bson.M{"$set": bson.M{"password": hash, "updatedAt": time.Now().UTC()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
