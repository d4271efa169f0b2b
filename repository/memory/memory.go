// Package memory holds process-local stores with the same contract as the
// mongo repositories: misses return mongo.ErrNoDocuments and unique fields
// reject duplicates with a duplicate key write error.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"MediBook/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	Users        *UserStore
	Doctors      *DoctorStore
	Appointments *AppointmentStore
}

func NewStore() *Store {
	return &Store{
		Users:        &UserStore{byID: map[primitive.ObjectID]models.User{}},
		Doctors:      &DoctorStore{byID: map[primitive.ObjectID]models.Doctor{}},
		Appointments: &AppointmentStore{byID: map[primitive.ObjectID]models.Appointment{}},
	}
}

func (s *Store) Ping(ctx context.Context) error  { return nil }
func (s *Store) Close(ctx context.Context) error { return nil }

func duplicateKey(field string) error {
	return mongo.WriteException{WriteErrors: mongo.WriteErrors{{
		Code:    11000,
		Message: "duplicate key on " + field,
	}}}
}

type UserStore struct {
	mu   sync.RWMutex
	byID map[primitive.ObjectID]models.User
}

func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.byID {
		if u.Email == user.Email {
			return duplicateKey("email")
		}
		if u.Username == user.Username {
			return duplicateKey("username")
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	s.byID[user.ID] = *user
	return nil
}

func (s *UserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &u, nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findBy(func(u models.User) bool { return u.Email == email })
}

func (s *UserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findBy(func(u models.User) bool { return u.Username == username })
}

func (s *UserStore) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := s.byID[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *UserStore) SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	u.Password = hash
	u.UpdatedAt = time.Now().UTC()
	s.byID[id] = u
	return nil
}

func (s *UserStore) findBy(match func(models.User) bool) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.byID {
		if match(u) {
			return &u, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

type DoctorStore struct {
	mu   sync.RWMutex
	byID map[primitive.ObjectID]models.Doctor
}

func (s *DoctorStore) Create(ctx context.Context, doctor *models.Doctor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range s.byID {
		if d.Email == doctor.Email {
			return duplicateKey("email")
		}
	}
	if doctor.ID.IsZero() {
		doctor.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	doctor.CreatedAt, doctor.UpdatedAt = now, now
	s.byID[doctor.ID] = *doctor
	return nil
}

func (s *DoctorStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Doctor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.byID[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &d, nil
}

func (s *DoctorStore) FindByEmail(ctx context.Context, email string) (*models.Doctor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.byID {
		if d.Email == email {
			return &d, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (s *DoctorStore) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Doctor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Doctor, 0, len(ids))
	for _, id := range ids {
		if d, ok := s.byID[id]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *DoctorStore) List(ctx context.Context) ([]models.Doctor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Doctor, 0, len(s.byID))
	for _, d := range s.byID {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *DoctorStore) UpdateProfile(ctx context.Context, id primitive.ObjectID, update models.DoctorProfileUpdate) (*models.Doctor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.byID[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	if update.Name != nil {
		d.Name = *update.Name
	}
	if update.Image != nil {
		d.Image = *update.Image
	}
	if update.Contact != nil {
		d.Contact = *update.Contact
	}
	if update.Desc != nil {
		d.Desc = *update.Desc
	}
	if update.Amount != nil {
		d.Amount = *update.Amount
	}
	if update.Expertise != nil {
		d.Expertise = *update.Expertise
	}
	if update.AvailableDates != nil {
		d.AvailableDates = *update.AvailableDates
	}
	d.UpdatedAt = time.Now().UTC()
	s.byID[id] = d
	return &d, nil
}

type AppointmentStore struct {
	mu   sync.RWMutex
	byID map[primitive.ObjectID]models.Appointment
}

func (s *AppointmentStore) Create(ctx context.Context, appointment *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if appointment.ID.IsZero() {
		appointment.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	appointment.CreatedAt, appointment.UpdatedAt = now, now
	s.byID[appointment.ID] = *appointment
	return nil
}

func (s *AppointmentStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.byID[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &a, nil
}

func (s *AppointmentStore) List(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Appointment, 0)
	for _, a := range s.byID {
		if matchesFilter(a, filter) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID.Hex() < out[j].ID.Hex()
	})
	return out, nil
}

// Update holds the write lock across the match and the write so concurrent
// callers observe the same compare-and-set semantics as FindOneAndUpdate.
func (s *AppointmentStore) Update(ctx context.Context, match models.AppointmentMatch, changes models.AppointmentChanges) (*models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.byID[match.ID]
	if !ok || !matchesGuard(a, match) {
		return nil, mongo.ErrNoDocuments
	}
	apply(&a, changes)
	a.UpdatedAt = time.Now().UTC()
	s.byID[a.ID] = a
	return &a, nil
}

func matchesFilter(a models.Appointment, f models.AppointmentFilter) bool {
	if f.User != nil && a.User != *f.User {
		return false
	}
	if f.Doctor != nil && a.Doctor != *f.Doctor {
		return false
	}
	if f.FollowUpFrom != nil || f.FollowUpTo != nil {
		if !a.FollowUpRequired || a.FollowUpDate == nil {
			return false
		}
		if f.FollowUpFrom != nil && a.FollowUpDate.Before(*f.FollowUpFrom) {
			return false
		}
		if f.FollowUpTo != nil && !a.FollowUpDate.Before(*f.FollowUpTo) {
			return false
		}
	}
	return true
}

func matchesGuard(a models.Appointment, m models.AppointmentMatch) bool {
	if m.Doctor != nil && a.Doctor != *m.Doctor {
		return false
	}
	if m.User != nil && a.User != *m.User {
		return false
	}
	if len(m.Statuses) == 0 {
		return true
	}
	for _, s := range m.Statuses {
		if a.Status == s {
			return true
		}
	}
	return false
}

func apply(a *models.Appointment, c models.AppointmentChanges) {
	if c.Status != nil {
		a.Status = *c.Status
	}
	if c.ApprovedDate != nil {
		a.ApprovedDate = c.ApprovedDate
	}
	if c.Date != nil {
		a.Date = *c.Date
	}
	if c.About != nil {
		a.About = *c.About
	}
	if c.Medicine != nil {
		a.Medicine = c.Medicine
	}
	if c.Dosage != nil {
		a.Dosage = c.Dosage
	}
	if c.Duration != nil {
		a.Duration = c.Duration
	}
	if c.Instructions != nil {
		a.Instructions = c.Instructions
	}
	if c.FollowUpRequired != nil {
		a.FollowUpRequired = *c.FollowUpRequired
	}
	if c.FollowUpDate != nil {
		a.FollowUpDate = c.FollowUpDate
	}

	if c.ClearPayment {
		a.Payment = models.PaymentUnpaid
		a.PaymentDate, a.PaymentAmount, a.PaymentMethod = nil, nil, ""
		return
	}
	if c.Payment != nil {
		a.Payment = *c.Payment
	}
	if c.PaymentDate != nil {
		a.PaymentDate = c.PaymentDate
	}
	if c.PaymentAmount != nil {
		a.PaymentAmount = c.PaymentAmount
	}
	if c.PaymentMethod != nil {
		a.PaymentMethod = *c.PaymentMethod
	}
}
