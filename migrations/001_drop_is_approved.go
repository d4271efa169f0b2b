package migrations

import (
	"context"
	"fmt"
	"time"

	"MediBook/models"
	"MediBook/repository"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

/*
* Documents flagged isApproved while still undecided are moved to approved
* Then the flag is removed everywhere; status alone carries the state
 */
func DropIsApproved(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(repository.AppointmentCollection)

	moved, err := coll.UpdateMany(ctx,
		bson.M{
			"isApproved": true,
			"status":     bson.M{"$in": []models.AppointmentStatus{models.StatusUnchecked, models.StatusPending}},
		},
		bson.M{"$set": bson.M{"status": models.StatusApproved, "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("moving drifted appointments: %w", err)
	}

	dropped, err := coll.UpdateMany(ctx,
		bson.M{"isApproved": bson.M{"$exists": true}},
		bson.M{"$unset": bson.M{"isApproved": ""}},
	)
	if err != nil {
		return fmt.Errorf("unsetting isApproved: %w", err)
	}
	log.Info().
		Int64("moved_to_approved", moved.ModifiedCount).
		Int64("flags_removed", dropped.ModifiedCount).
		Msg("Dropped isApproved from appointments")
	return nil
}
