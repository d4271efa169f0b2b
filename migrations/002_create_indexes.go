package migrations

import (
	"context"
	"fmt"

	"MediBook/repository"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func CreateIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		repository.UserCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		repository.DoctorCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		repository.AppointmentCollection: {
			{Keys: bson.D{{Key: "doctor", Value: 1}, {Key: "date", Value: 1}}},
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "date", Value: 1}}},
			{Keys: bson.D{{Key: "followUpDate", Value: 1}}, Options: options.Index().SetSparse(true)},
		},
	}

	for _, name := range []string{repository.UserCollection, repository.DoctorCollection, repository.AppointmentCollection} {
		created, err := db.Collection(name).Indexes().CreateMany(ctx, indexes[name])
		if err != nil {
			return fmt.Errorf("creating indexes on %s: %w", name, err)
		}
		log.Info().Str("collection", name).Strs("indexes", created).Msg("Indexes ensured")
	}
	return nil
}
