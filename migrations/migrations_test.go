package migrations

import (
	"context"
	"testing"

	"MediBook/auth"
	"MediBook/models"
	"MediBook/repository"
	"MediBook/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func updateResponse(n int) bson.D {
	return mtest.CreateSuccessResponse(
		bson.E{Key: "n", Value: n},
		bson.E{Key: "nModified", Value: n},
	)
}

func TestMigrations(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("drop isApproved", func(mt *mtest.T) {
		mt.AddMockResponses(updateResponse(2), updateResponse(5))
		assert.NoError(mt, DropIsApproved(context.Background(), mt.DB))
	})

	mt.Run("drop isApproved surfaces write errors", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Message: "bad"}))
		assert.Error(mt, DropIsApproved(context.Background(), mt.DB))
	})

	mt.Run("seed admin skipped without credentials", func(mt *mtest.T) {
		assert.NoError(mt, SeedAdmin(context.Background(), repository.NewUserRepository(mt.DB), AdminSeed{Username: "admin"}))
	})

	mt.Run("seed admin inserts when absent", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + repository.UserCollection
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch),
			mtest.CreateSuccessResponse(),
		)
		err := SeedAdmin(context.Background(), repository.NewUserRepository(mt.DB),
			AdminSeed{Username: "admin", Email: "Admin@Clinic.io", Password: "secret123"})
		assert.NoError(mt, err)
	})

	mt.Run("seed admin refreshes an existing admin", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + repository.UserCollection
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "username", Value: "admin"},
				{Key: "email", Value: "admin@clinic.io"},
				{Key: "is_admin", Value: true},
			}),
			updateResponse(1),
		)
		err := SeedAdmin(context.Background(), repository.NewUserRepository(mt.DB),
			AdminSeed{Username: "admin", Email: "admin@clinic.io", Password: "secret123"})
		assert.NoError(mt, err)
	})

	mt.Run("create indexes", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(),
		)
		assert.NoError(mt, CreateIndexes(context.Background(), mt.DB))
	})
}

func TestSeedAdminOnMemoryStore(t *testing.T) {
	ctx := context.Background()
	seed := AdminSeed{Username: "admin", Email: "Admin@Clinic.io", Password: "secret123"}

	t.Run("creates then refreshes", func(t *testing.T) {
		store := memory.NewStore()
		require.NoError(t, SeedAdmin(ctx, store.Users, seed))

		admin, err := store.Users.FindByEmail(ctx, "admin@clinic.io")
		require.NoError(t, err)
		assert.True(t, admin.IsAdmin)
		assert.Equal(t, "admin", admin.Username)
		assert.NoError(t, auth.VerifyPassword(admin.Password, "secret123"))

		rotated := seed
		rotated.Password = "rotated456"
		require.NoError(t, SeedAdmin(ctx, store.Users, rotated))
		admin, err = store.Users.FindByEmail(ctx, "admin@clinic.io")
		require.NoError(t, err)
		assert.NoError(t, auth.VerifyPassword(admin.Password, "rotated456"))
	})

	t.Run("patient with the admin email is not promoted", func(t *testing.T) {
		store := memory.NewStore()
		hash, err := auth.HashPassword("patient-pw")
		require.NoError(t, err)
		require.NoError(t, store.Users.Create(ctx, &models.User{Username: "pat", Email: "admin@clinic.io", Password: hash}))

		require.NoError(t, SeedAdmin(ctx, store.Users, seed))

		u, err := store.Users.FindByEmail(ctx, "admin@clinic.io")
		require.NoError(t, err)
		assert.False(t, u.IsAdmin)
		assert.NoError(t, auth.VerifyPassword(u.Password, "patient-pw"))
	})

	t.Run("patient holding the admin username is left alone", func(t *testing.T) {
		store := memory.NewStore()
		require.NoError(t, store.Users.Create(ctx, &models.User{Username: "admin", Email: "pat@x.io", Password: "x"}))

		require.NoError(t, SeedAdmin(ctx, store.Users, seed))

		_, err := store.Users.FindByEmail(ctx, "admin@clinic.io")
		assert.Error(t, err)
		u, err := store.Users.FindByUsername(ctx, "admin")
		require.NoError(t, err)
		assert.False(t, u.IsAdmin)
	})
}
