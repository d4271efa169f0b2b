package services

import (
	"context"
	"testing"
	"time"

	"MediBook/auth"
	"MediBook/cache"
	"MediBook/models"
	"MediBook/repository/memory"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testPassword = "secret123"

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) AppointmentDecided(ctx context.Context, user models.User, doctor models.Doctor, a models.Appointment) error {
	args := m.Called(ctx, user, doctor, a)
	return args.Error(0)
}

func (m *mockNotifier) FollowUpReminder(ctx context.Context, user models.User, doctor models.Doctor, a models.Appointment) error {
	args := m.Called(ctx, user, doctor, a)
	return args.Error(0)
}

type testEnv struct {
	store        *memory.Store
	cache        cache.Cache
	notifier     *mockNotifier
	issuer       *auth.Issuer
	auth         *AuthService
	doctors      *DoctorService
	users        *UserService
	reports      *ReportService
	appointments *AppointmentService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	issuer, err := auth.NewIssuer(
		auth.Namespace{Role: auth.RoleUser, Secret: []byte("user-secret"), CookieName: "usertoken", TTL: 2 * time.Hour},
		auth.Namespace{Role: auth.RoleDoctor, Secret: []byte("doctor-secret"), CookieName: "doctortoken", TTL: 2 * time.Hour},
		auth.Namespace{Role: auth.RoleAdmin, Secret: []byte("admin-secret"), CookieName: "admintoken", TTL: 2 * time.Hour},
	)
	require.NoError(t, err)

	store := memory.NewStore()
	c := cache.NewMemory(time.Minute, time.Minute)
	notifier := &mockNotifier{}
	doctors := NewDoctorService(store.Doctors, c, time.Minute)
	reports := NewReportService(store.Appointments, c, time.Minute)
	return &testEnv{
		store:        store,
		cache:        c,
		notifier:     notifier,
		issuer:       issuer,
		auth:         NewAuthService(store.Users, store.Doctors, issuer),
		doctors:      doctors,
		users:        NewUserService(store.Users),
		reports:      reports,
		appointments: NewAppointmentService(store.Appointments, store.Users, doctors, reports, notifier),
	}
}

// quietNotifier accepts any notification.
func (e *testEnv) quietNotifier() {
	e.notifier.On("AppointmentDecided", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	e.notifier.On("FollowUpReminder", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
}

func (e *testEnv) seedUser(t *testing.T, username string, admin bool) *models.User {
	t.Helper()
	hash, err := auth.HashPassword(testPassword)
	require.NoError(t, err)
	user := &models.User{Username: username, Email: username + "@medibook.test", Password: hash, IsAdmin: admin}
	require.NoError(t, e.store.Users.Create(context.Background(), user))
	return user
}

func (e *testEnv) seedDoctor(t *testing.T, name string, amount float64) *models.Doctor {
	t.Helper()
	hash, err := auth.HashPassword(testPassword)
	require.NoError(t, err)
	doctor := &models.Doctor{Name: name, Email: name + "@medibook.test", Amount: amount, Password: hash, IsDoctor: true}
	require.NoError(t, e.store.Doctors.Create(context.Background(), doctor))
	return doctor
}

func (e *testEnv) book(t *testing.T, user *models.User, doctor *models.Doctor) *models.AppointmentView {
	t.Helper()
	view, err := e.appointments.Create(context.Background(), user.ID, models.CreateAppointmentInput{
		Doctor:  doctor.ID.Hex(),
		Disease: "flu",
		Date:    "2024-03-01",
	})
	require.NoError(t, err)
	return view
}
