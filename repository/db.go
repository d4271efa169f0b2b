package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	UserCollection        = "user"
	DoctorCollection      = "doctor"
	AppointmentCollection = "appointments"
)

// Store owns the mongo client. It is opened once at startup and closed at shutdown.
type Store struct {
	Client       *mongo.Client
	DB           *mongo.Database
	Users        *UserRepository
	Doctors      *DoctorRepository
	Appointments *AppointmentRepository
}

func NewStore(client *mongo.Client, db *mongo.Database) *Store {
	return &Store{
		Client:       client,
		DB:           db,
		Users:        NewUserRepository(db),
		Doctors:      NewDoctorRepository(db),
		Appointments: NewAppointmentRepository(db),
	}
}

/*
* Create the client
* Ping the primary, retrying while the server comes up
* Return the store bound to the database
 */
func Connect(ctx context.Context, uri, database string, timeout time.Duration, attempts uint) (*Store, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	err = retry.Do(
		func() error {
			pingCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			return client.Ping(pingCtx, readpref.Primary())
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(time.Second),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Warn().Err(err).Uint("attempt", n+1).Msg("Mongo ping failed, retrying")
		}),
	)
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	log.Info().Str("database", database).Msg("Connected to mongo")
	return NewStore(client, client.Database(database)), nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.Client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.Client.Disconnect(ctx)
}

func FindOne(ctx context.Context, coll *mongo.Collection, filter interface{}, result interface{}) error {
	return coll.FindOne(ctx, filter).Decode(result)
}

func FindAll[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	results := make([]T, 0)
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func CreateOne(ctx context.Context, coll *mongo.Collection, doc interface{}) (*mongo.InsertOneResult, error) {
	return coll.InsertOne(ctx, doc)
}

func UpdateOne(ctx context.Context, coll *mongo.Collection, filter interface{}, update interface{}) (*mongo.UpdateResult, error) {
	return coll.UpdateOne(ctx, filter, update)
}
