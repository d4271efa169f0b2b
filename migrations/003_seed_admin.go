package migrations

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"MediBook/auth"
	"MediBook/models"
	"MediBook/repository"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type AdminSeed struct {
	Username string
	Email    string
	Password string
}

// AdminStore is the slice of a user store the seed needs. Both the mongo
// repository and the in-memory store satisfy it.
type AdminStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error
}

func seedAdminStep(admin AdminSeed) func(context.Context, *mongo.Database) error {
	return func(ctx context.Context, db *mongo.Database) error {
		return SeedAdmin(ctx, repository.NewUserRepository(db), admin)
	}
}

/*
* Nothing happens when no email or password is configured
* An existing admin with the email gets the configured password
* A patient holding the email or the username is left untouched
* Otherwise the admin is created
 */
func SeedAdmin(ctx context.Context, users AdminStore, seed AdminSeed) error {
	email := strings.ToLower(strings.TrimSpace(seed.Email))
	username := strings.TrimSpace(seed.Username)
	if email == "" || seed.Password == "" {
		log.Info().Msg("No admin configured, skipping seed")
		return nil
	}
	if username == "" {
		username = email
	}
	hash, err := auth.HashPassword(seed.Password)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}

	existing, err := users.FindByEmail(ctx, email)
	switch {
	case err == nil && existing.IsAdmin:
		if err := users.SetPassword(ctx, existing.ID, hash); err != nil {
			return fmt.Errorf("refreshing admin password: %w", err)
		}
		log.Info().Str("email", email).Msg("Admin account refreshed")
		return nil
	case err == nil:
		log.Warn().Str("email", email).Msg("Admin email belongs to a patient account, skipping seed")
		return nil
	case !errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("looking up admin email: %w", err)
	}

	if _, err := users.FindByUsername(ctx, username); err == nil {
		log.Warn().Str("username", username).Msg("Admin username is taken, skipping seed")
		return nil
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("looking up admin username: %w", err)
	}

	if err := users.Create(ctx, &models.User{Username: username, Email: email, Password: hash, IsAdmin: true}); err != nil {
		return fmt.Errorf("seeding admin: %w", err)
	}
	log.Info().Str("email", email).Msg("Admin account seeded")
	return nil
}
