package services

import (
	"context"
	"errors"

	"MediBook/models"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserService struct {
	users UserStore
}

func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

func (s *UserService) Profile(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			log.Error().Err(err).Str("user_id", userID.Hex()).Msg("Error from users.FindByID")
		}
		return nil, lookupError(err, "user")
	}
	return user, nil
}
