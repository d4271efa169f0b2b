package migrations

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
)

// Run applies every migration in order. Each one is safe to repeat.
func Run(ctx context.Context, db *mongo.Database, admin AdminSeed) error {
	steps := []struct {
		name string
		run  func(context.Context, *mongo.Database) error
	}{
		{"001_drop_is_approved", DropIsApproved},
		{"002_create_indexes", CreateIndexes},
		{"003_seed_admin", seedAdminStep(admin)},
	}
	for _, step := range steps {
		if err := step.run(ctx, db); err != nil {
			log.Error().Err(err).Str("migration", step.name).Msg("Migration failed")
			return err
		}
	}
	return nil
}
