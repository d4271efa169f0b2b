package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"MediBook/cache"
	"MediBook/metrics"
	"MediBook/models"
	"MediBook/util"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
}

type DoctorStore interface {
	Create(ctx context.Context, doctor *models.Doctor) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Doctor, error)
	FindByEmail(ctx context.Context, email string) (*models.Doctor, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Doctor, error)
	List(ctx context.Context) ([]models.Doctor, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, update models.DoctorProfileUpdate) (*models.Doctor, error)
}

type AppointmentStore interface {
	Create(ctx context.Context, appointment *models.Appointment) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error)
	List(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, error)
	Update(ctx context.Context, match models.AppointmentMatch, changes models.AppointmentChanges) (*models.Appointment, error)
}

// Notifier tells patients about decisions on their appointments.
type Notifier interface {
	AppointmentDecided(ctx context.Context, user models.User, doctor models.Doctor, a models.Appointment) error
	FollowUpReminder(ctx context.Context, user models.User, doctor models.Doctor, a models.Appointment) error
}

// parseID treats a malformed id like an unknown one.
func parseID(id, resource string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return primitive.NilObjectID, util.NotFound(resource)
	}
	return oid, nil
}

// lookupError maps a store miss to NotFound and anything else to Internal.
func lookupError(err error, resource string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return util.NotFound(resource)
	}
	return util.Internal(err)
}

func cachePrefix(key string) string {
	if i := strings.IndexByte(key, ':'); i >= 0 {
		return key[:i]
	}
	return key
}

/*
* Cache failures are logged and treated as a miss
 */
func cacheGet(ctx context.Context, c cache.Cache, key string, dest interface{}) bool {
	if c == nil {
		return false
	}
	found, err := c.Get(ctx, key, dest)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Error from cache Get")
		metrics.CacheLookups.WithLabelValues(cachePrefix(key), "error").Inc()
		return false
	}
	if found {
		metrics.CacheLookups.WithLabelValues(cachePrefix(key), "hit").Inc()
	} else {
		metrics.CacheLookups.WithLabelValues(cachePrefix(key), "miss").Inc()
	}
	return found
}

func cacheSet(ctx context.Context, c cache.Cache, key string, value interface{}, ttl time.Duration) {
	if c == nil {
		return
	}
	if err := c.Set(ctx, key, value, ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Error from cache Set")
	}
}

func cacheDelete(ctx context.Context, c cache.Cache, keys ...string) {
	if c == nil {
		return
	}
	if err := c.Delete(ctx, keys...); err != nil {
		log.Warn().Err(err).Strs("keys", keys).Msg("Error from cache Delete")
	}
}
