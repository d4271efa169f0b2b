package repository

import (
	"context"
	"testing"
	"time"

	"MediBook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const testNS = "medibook.appointments"

func TestAppointmentRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	id := primitive.NewObjectID()
	doctorID := primitive.NewObjectID()
	userID := primitive.NewObjectID()
	date := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	stored := bson.D{
		{Key: "_id", Value: id},
		{Key: "user", Value: userID},
		{Key: "doctor", Value: doctorID},
		{Key: "date", Value: date},
		{Key: "disease", Value: "flu"},
		{Key: "status", Value: "unchecked"},
		{Key: "payment", Value: "unpaid"},
		{Key: "invoice", Value: "500"},
	}

	mt.Run("create assigns id and timestamps", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewAppointmentRepository(mt.DB)

		a := &models.Appointment{User: userID, Doctor: doctorID, Status: models.StatusUnchecked}
		require.NoError(mt, repo.Create(context.Background(), a))
		assert.False(mt, a.ID.IsZero())
		assert.False(mt, a.CreatedAt.IsZero())
	})

	mt.Run("find by id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNS, mtest.FirstBatch, stored))
		repo := NewAppointmentRepository(mt.DB)

		a, err := repo.FindByID(context.Background(), id)
		require.NoError(mt, err)
		assert.Equal(mt, id, a.ID)
		assert.Equal(mt, models.StatusUnchecked, a.Status)
		assert.Equal(mt, "flu", a.Disease)
	})

	mt.Run("find by id miss", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNS, mtest.FirstBatch))
		repo := NewAppointmentRepository(mt.DB)

		_, err := repo.FindByID(context.Background(), id)
		assert.ErrorIs(mt, err, mongo.ErrNoDocuments)
	})

	mt.Run("list", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNS, mtest.FirstBatch, stored, stored))
		repo := NewAppointmentRepository(mt.DB)

		list, err := repo.List(context.Background(), models.AppointmentFilter{Doctor: &doctorID})
		require.NoError(mt, err)
		assert.Len(mt, list, 2)
	})

	mt.Run("update returns post image", func(mt *mtest.T) {
		approved := append(bson.D{}, stored...)
		approved[5] = bson.E{Key: "status", Value: "approved"}
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: approved}))
		repo := NewAppointmentRepository(mt.DB)

		status := models.StatusApproved
		a, err := repo.Update(context.Background(),
			models.AppointmentMatch{ID: id, Doctor: &doctorID, Statuses: models.SourcesFor(models.StatusApproved)},
			models.AppointmentChanges{Status: &status},
		)
		require.NoError(mt, err)
		assert.Equal(mt, models.StatusApproved, a.Status)
		assert.True(mt, a.IsApproved())
	})
}

func TestMatchFilter(t *testing.T) {
	id := primitive.NewObjectID()
	doctorID := primitive.NewObjectID()

	f := matchFilter(models.AppointmentMatch{
		ID:       id,
		Doctor:   &doctorID,
		Statuses: []models.AppointmentStatus{models.StatusApproved},
	})

	assert.Equal(t, id, f["_id"])
	assert.Equal(t, doctorID, f["doctor"])
	assert.NotContains(t, f, "user")
	assert.Equal(t, bson.M{"$in": []models.AppointmentStatus{models.StatusApproved}}, f["status"])
}

func TestUpdateDocument(t *testing.T) {
	now := time.Now().UTC()

	t.Run("clear payment unsets payment fields", func(t *testing.T) {
		amount := 100.0
		doc := updateDocument(models.AppointmentChanges{ClearPayment: true, PaymentAmount: &amount}, now)

		set := doc["$set"].(bson.M)
		assert.Equal(t, models.PaymentUnpaid, set["payment"])
		assert.NotContains(t, set, "paymentAmount")
		assert.Contains(t, doc["$unset"], "paymentAmount")
	})

	t.Run("only provided fields are set", func(t *testing.T) {
		about := "rest"
		doc := updateDocument(models.AppointmentChanges{About: &about, Medicine: []string{"a"}}, now)

		set := doc["$set"].(bson.M)
		assert.Equal(t, "rest", set["about"])
		assert.Equal(t, []string{"a"}, set["medicine"])
		assert.Equal(t, now, set["updatedAt"])
		assert.NotContains(t, set, "status")
		assert.NotContains(t, doc, "$unset")
	})
}

func TestListFilterFollowUpWindow(t *testing.T) {
	from := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	f := listFilter(models.AppointmentFilter{FollowUpFrom: &from, FollowUpTo: &to})
	assert.Equal(t, true, f["followUpRequired"])
	assert.Equal(t, bson.M{"$gte": from, "$lt": to}, f["followUpDate"])
}
