package mail

import (
	"context"
	"errors"
	"testing"
	"time"

	"MediBook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

func TestAppointmentDecidedBuildsMessage(t *testing.T) {
	n := NewNotifier(Config{Host: "smtp.local", Port: 25, From: "clinic@medibook.local"})
	var sent []*gomail.Message
	n.send = func(m ...*gomail.Message) error {
		sent = append(sent, m...)
		return nil
	}

	user := models.User{Username: "ann", Email: "ann@x.io"}
	doctor := models.Doctor{Name: "Dr Bo"}
	a := models.Appointment{Status: models.StatusApproved, Disease: "flu", Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}

	require.NoError(t, n.AppointmentDecided(context.Background(), user, doctor, a))
	require.Len(t, sent, 1)
	assert.Equal(t, []string{"ann@x.io"}, sent[0].GetHeader("To"))
	assert.Equal(t, []string{"Your appointment with Dr Bo was approved"}, sent[0].GetHeader("Subject"))
}

func TestDeliverErrors(t *testing.T) {
	n := NewNotifier(Config{Host: "smtp.local", Port: 25})
	n.send = func(m ...*gomail.Message) error { return errors.New("relay down") }

	err := n.FollowUpReminder(context.Background(), models.User{Email: "ann@x.io"}, models.Doctor{}, models.Appointment{})
	assert.EqualError(t, err, "relay down")

	err = n.FollowUpReminder(context.Background(), models.User{}, models.Doctor{}, models.Appointment{})
	assert.Error(t, err)
}

func TestNop(t *testing.T) {
	var n Nop
	assert.NoError(t, n.AppointmentDecided(context.Background(), models.User{}, models.Doctor{}, models.Appointment{}))
}
