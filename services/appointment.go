package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"MediBook/auth"
	"MediBook/metrics"
	"MediBook/models"
	"MediBook/util"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type AppointmentService struct {
	appointments AppointmentStore
	users        UserStore
	doctors      *DoctorService
	reports      *ReportService
	notifier     Notifier
	now          func() time.Time
}

func NewAppointmentService(appointments AppointmentStore, users UserStore, doctors *DoctorService, reports *ReportService, notifier Notifier) *AppointmentService {
	return &AppointmentService{
		appointments: appointments,
		users:        users,
		doctors:      doctors,
		reports:      reports,
		notifier:     notifier,
		now:          time.Now,
	}
}

/*
* Check all fields are present
* Resolve the doctor, copying its consultation amount into the invoice
* Store the appointment as unchecked and unpaid
 */
func (s *AppointmentService) Create(ctx context.Context, userID primitive.ObjectID, in models.CreateAppointmentInput) (*models.AppointmentView, error) {
	if missing := util.MissingFields(map[string]string{
		"doctor":  in.Doctor,
		"disease": in.Disease,
		"date":    in.Date,
	}); len(missing) > 0 {
		return nil, util.Validation(util.INCOMPLETE_CONTENT + ": " + strings.Join(missing, ", "))
	}
	date, err := util.ParseDate(in.Date)
	if err != nil {
		return nil, err
	}
	doctor, err := s.doctors.GetDoctor(ctx, in.Doctor)
	if err != nil {
		return nil, err
	}

	appointment := &models.Appointment{
		User:         userID,
		Doctor:       doctor.ID,
		Date:         date,
		Disease:      strings.TrimSpace(in.Disease),
		Status:       models.StatusUnchecked,
		Payment:      models.PaymentUnpaid,
		Invoice:      strconv.FormatFloat(doctor.Amount, 'f', -1, 64),
		Medicine:     []string{},
		Dosage:       []string{},
		Duration:     []string{},
		Instructions: []string{},
	}
	if err := s.appointments.Create(ctx, appointment); err != nil {
		log.Error().Err(err).Str("doctor_id", doctor.ID.Hex()).Msg("Error from appointments.Create")
		return nil, util.Internal(err)
	}
	s.reports.Invalidate(ctx)
	log.Info().
		Str("appointment_id", appointment.ID.Hex()).
		Str("doctor_id", doctor.ID.Hex()).
		Str("user_id", userID.Hex()).
		Msg("Appointment booked")

	var user *models.UserProfile
	if u, err := s.users.FindByID(ctx, userID); err == nil {
		p := u.Profile()
		user = &p
	}
	profile := doctor.Profile()
	view := models.NewAppointmentView(*appointment, user, &profile)
	return &view, nil
}

func (s *AppointmentService) ListForDoctor(ctx context.Context, doctorID primitive.ObjectID) ([]models.AppointmentView, error) {
	return s.list(ctx, models.AppointmentFilter{Doctor: &doctorID})
}

func (s *AppointmentService) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.AppointmentView, error) {
	return s.list(ctx, models.AppointmentFilter{User: &userID})
}

func (s *AppointmentService) ListAll(ctx context.Context) ([]models.AppointmentView, error) {
	return s.list(ctx, models.AppointmentFilter{})
}

func (s *AppointmentService) list(ctx context.Context, filter models.AppointmentFilter) ([]models.AppointmentView, error) {
	appointments, err := s.appointments.List(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("Error from appointments.List")
		return nil, util.Internal(err)
	}
	return s.populate(ctx, appointments)
}

/*
* Collect the distinct user and doctor ids
* Load each side with one query
* Attach the profiles to every appointment
 */
func (s *AppointmentService) populate(ctx context.Context, appointments []models.Appointment) ([]models.AppointmentView, error) {
	views := make([]models.AppointmentView, 0, len(appointments))
	if len(appointments) == 0 {
		return views, nil
	}

	userIDs := make([]primitive.ObjectID, 0, len(appointments))
	doctorIDs := make([]primitive.ObjectID, 0, len(appointments))
	seenUser := map[primitive.ObjectID]bool{}
	seenDoctor := map[primitive.ObjectID]bool{}
	for _, a := range appointments {
		if !seenUser[a.User] {
			seenUser[a.User] = true
			userIDs = append(userIDs, a.User)
		}
		if !seenDoctor[a.Doctor] {
			seenDoctor[a.Doctor] = true
			doctorIDs = append(doctorIDs, a.Doctor)
		}
	}

	users, err := s.users.FindByIDs(ctx, userIDs)
	if err != nil {
		log.Error().Err(err).Msg("Error from users.FindByIDs")
		return nil, util.Internal(err)
	}
	doctors, err := s.doctors.doctors.FindByIDs(ctx, doctorIDs)
	if err != nil {
		log.Error().Err(err).Msg("Error from doctors.FindByIDs")
		return nil, util.Internal(err)
	}

	userProfiles := make(map[primitive.ObjectID]*models.UserProfile, len(users))
	for _, u := range users {
		p := u.Profile()
		userProfiles[u.ID] = &p
	}
	doctorProfiles := make(map[primitive.ObjectID]*models.DoctorProfile, len(doctors))
	for _, d := range doctors {
		p := d.Profile()
		doctorProfiles[d.ID] = &p
	}
	for _, a := range appointments {
		views = append(views, models.NewAppointmentView(a, userProfiles[a.User], doctorProfiles[a.Doctor]))
	}
	return views, nil
}

// Get returns one appointment to its doctor, its patient or an admin.
func (s *AppointmentService) Get(ctx context.Context, principal auth.Principal, id string) (*models.AppointmentView, error) {
	appointment, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(principal, appointment); err != nil {
		return nil, err
	}
	return s.view(ctx, appointment)
}

// Approve defaults the approval date to now when none is supplied.
func (s *AppointmentService) Approve(ctx context.Context, doctorID primitive.ObjectID, id string, in models.ApproveInput) (*models.AppointmentView, error) {
	approvedDate := s.now().UTC()
	if strings.TrimSpace(in.ApprovedDate) != "" {
		d, err := util.ParseDate(in.ApprovedDate)
		if err != nil {
			return nil, err
		}
		approvedDate = d
	}
	return s.transition(ctx, doctorPrincipal(doctorID), id, models.StatusApproved, models.AppointmentChanges{ApprovedDate: &approvedDate})
}

// Reject leaves any earlier approval date in place.
func (s *AppointmentService) Reject(ctx context.Context, doctorID primitive.ObjectID, id string) (*models.AppointmentView, error) {
	return s.transition(ctx, doctorPrincipal(doctorID), id, models.StatusRejected, models.AppointmentChanges{})
}

func (s *AppointmentService) Complete(ctx context.Context, doctorID primitive.ObjectID, id string) (*models.AppointmentView, error) {
	return s.transition(ctx, doctorPrincipal(doctorID), id, models.StatusCompleted, models.AppointmentChanges{})
}

// Cancel may be called by the treating doctor or the booking patient.
func (s *AppointmentService) Cancel(ctx context.Context, principal auth.Principal, id string) (*models.AppointmentView, error) {
	if principal.Role == auth.RoleAdmin {
		return nil, util.Forbidden(util.NOT_APPOINTMENT_PATIENT)
	}
	return s.transition(ctx, principal, id, models.StatusCancelled, models.AppointmentChanges{})
}

// Reschedule overwrites the date without comparing it to the current one.
func (s *AppointmentService) Reschedule(ctx context.Context, doctorID primitive.ObjectID, in models.RescheduleInput) (*models.AppointmentView, error) {
	if missing := util.MissingFields(map[string]string{"_id": in.ID, "date": in.Date}); len(missing) > 0 {
		return nil, util.Validation(util.INCOMPLETE_CONTENT)
	}
	date, err := util.ParseDate(in.Date)
	if err != nil {
		return nil, err
	}
	updated, err := s.mutate(ctx, doctorPrincipal(doctorID), in.ID, nil, models.AppointmentChanges{Date: &date})
	if err != nil {
		return nil, err
	}
	// the report buckets revenue by appointment month
	s.reports.Invalidate(ctx)
	return s.view(ctx, updated)
}

/*
* _id, medicine and about are required together
* Supplied dosage, duration and instructions must line up with medicine
* Everything is written in one update
 */
func (s *AppointmentService) UpdateClinicalNotes(ctx context.Context, doctorID primitive.ObjectID, in models.ClinicalNotesInput) (*models.AppointmentView, error) {
	about := strings.TrimSpace(in.About)
	if strings.TrimSpace(in.ID) == "" || len(in.Medicine) == 0 || about == "" {
		return nil, util.Validation(util.INCOMPLETE_CONTENT)
	}
	for _, list := range [][]string{in.Dosage, in.Duration, in.Instructions} {
		if list != nil && len(list) != len(in.Medicine) {
			return nil, util.Validation(util.MISALIGNED_PRESCRIPTION)
		}
	}

	changes := models.AppointmentChanges{
		About:            &about,
		Medicine:         in.Medicine,
		Dosage:           in.Dosage,
		Duration:         in.Duration,
		Instructions:     in.Instructions,
		FollowUpRequired: in.FollowUpRequired,
	}
	if strings.TrimSpace(in.FollowUpDate) != "" {
		d, err := util.ParseDate(in.FollowUpDate)
		if err != nil {
			return nil, err
		}
		changes.FollowUpDate = &d
		if changes.FollowUpRequired == nil {
			required := true
			changes.FollowUpRequired = &required
		}
	}

	updated, err := s.mutate(ctx, doctorPrincipal(doctorID), in.ID, nil, changes)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, updated)
}

/*
* Patients pay their own appointments, admins any
* paid needs a known method; amount defaults to the invoice and date to now
* unpaid clears every payment field
 */
func (s *AppointmentService) UpdatePayment(ctx context.Context, principal auth.Principal, id string, in models.PaymentInput) (*models.AppointmentView, error) {
	if principal.Role == auth.RoleDoctor {
		return nil, util.Forbidden(util.NOT_APPOINTMENT_PATIENT)
	}
	if in.Payment == "" {
		in.Payment = models.PaymentPaid
	}

	var changes models.AppointmentChanges
	switch in.Payment {
	case models.PaymentUnpaid:
		changes.ClearPayment = true
	case models.PaymentPaid:
		if !in.Method.Valid() {
			return nil, util.Validation(util.INVALID_PAYMENT_METHOD)
		}
		if in.Amount != nil && *in.Amount < 0 {
			return nil, util.Validation(util.INVALID_PAYMENT_AMOUNT)
		}
		paidAt := s.now().UTC()
		if strings.TrimSpace(in.Date) != "" {
			d, err := util.ParseDate(in.Date)
			if err != nil {
				return nil, err
			}
			paidAt = d
		}
		paid, method := models.PaymentPaid, in.Method
		changes.Payment = &paid
		changes.PaymentMethod = &method
		changes.PaymentDate = &paidAt
		changes.PaymentAmount = in.Amount
	default:
		return nil, util.Validation(util.INVALID_PAYMENT_STATUS)
	}

	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if changes.Payment != nil && changes.PaymentAmount == nil {
		amount := invoiceAmount(current.Invoice)
		changes.PaymentAmount = &amount
	}
	updated, err := s.write(ctx, principal, current, nil, changes)
	if err != nil {
		return nil, err
	}
	s.reports.Invalidate(ctx)
	log.Info().
		Str("appointment_id", updated.ID.Hex()).
		Str("payment", string(updated.Payment)).
		Msg("Appointment payment updated")
	return s.view(ctx, updated)
}

func (s *AppointmentService) transition(ctx context.Context, principal auth.Principal, id string, target models.AppointmentStatus, changes models.AppointmentChanges) (*models.AppointmentView, error) {
	updated, err := s.mutate(ctx, principal, id, &target, changes)
	if err != nil {
		metrics.AppointmentTransitions.WithLabelValues(string(target), outcome(err)).Inc()
		return nil, err
	}
	metrics.AppointmentTransitions.WithLabelValues(string(target), "ok").Inc()
	s.reports.Invalidate(ctx)
	log.Info().
		Str("appointment_id", updated.ID.Hex()).
		Str("doctor_id", updated.Doctor.Hex()).
		Str("status", string(updated.Status)).
		Msg("Appointment status changed")

	if target == models.StatusApproved || target == models.StatusRejected {
		s.notifyDecision(ctx, *updated)
	}
	return s.view(ctx, updated)
}

func (s *AppointmentService) mutate(ctx context.Context, principal auth.Principal, id string, target *models.AppointmentStatus, changes models.AppointmentChanges) (*models.Appointment, error) {
	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.write(ctx, principal, current, target, changes)
}

/*
* Ownership first, then transition legality
* The write only applies while owner and status still match what was checked
 */
func (s *AppointmentService) write(ctx context.Context, principal auth.Principal, current *models.Appointment, target *models.AppointmentStatus, changes models.AppointmentChanges) (*models.Appointment, error) {
	if err := authorize(principal, current); err != nil {
		log.Warn().
			Str("appointment_id", current.ID.Hex()).
			Str("principal_id", principal.ID.Hex()).
			Str("role", string(principal.Role)).
			Msg("Appointment mutation by non-owner")
		return nil, err
	}

	match := models.AppointmentMatch{ID: current.ID}
	switch principal.Role {
	case auth.RoleDoctor:
		match.Doctor = &principal.ID
	case auth.RoleUser:
		match.User = &principal.ID
	}
	if target != nil {
		if !models.CanTransition(current.Status, *target) {
			return nil, util.Conflict(fmt.Sprintf(util.ILLEGAL_TRANSITION, current.Status, *target))
		}
		match.Statuses = models.SourcesFor(*target)
		changes.Status = target
	}

	updated, err := s.appointments.Update(ctx, match, changes)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			log.Warn().Str("appointment_id", current.ID.Hex()).Msg("Appointment changed between read and write")
			return nil, util.Conflict(util.CONCURRENT_MODIFICATION)
		}
		log.Error().Err(err).Str("appointment_id", current.ID.Hex()).Msg("Error from appointments.Update")
		return nil, util.Internal(err)
	}
	return updated, nil
}

func (s *AppointmentService) load(ctx context.Context, id string) (*models.Appointment, error) {
	oid, err := parseID(id, "appointment")
	if err != nil {
		return nil, err
	}
	appointment, err := s.appointments.FindByID(ctx, oid)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			log.Error().Err(err).Str("appointment_id", id).Msg("Error from appointments.FindByID")
		}
		return nil, lookupError(err, "appointment")
	}
	return appointment, nil
}

func (s *AppointmentService) view(ctx context.Context, a *models.Appointment) (*models.AppointmentView, error) {
	views, err := s.populate(ctx, []models.Appointment{*a})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

/*
* Mail the patient about the decision
* A failed mail never undoes the transition
 */
func (s *AppointmentService) notifyDecision(ctx context.Context, a models.Appointment) {
	if s.notifier == nil {
		return
	}
	user, err := s.users.FindByID(ctx, a.User)
	if err != nil {
		log.Warn().Err(err).Str("appointment_id", a.ID.Hex()).Msg("Skipping notification, patient not loaded")
		return
	}
	doctor, err := s.doctors.getDoctor(ctx, a.Doctor)
	if err != nil {
		log.Warn().Err(err).Str("appointment_id", a.ID.Hex()).Msg("Skipping notification, doctor not loaded")
		return
	}
	if err := s.notifier.AppointmentDecided(ctx, *user, *doctor, a); err != nil {
		log.Error().Err(err).Str("appointment_id", a.ID.Hex()).Msg("Error from AppointmentDecided")
	}
}

// SendFollowUpReminders mails every patient whose follow-up falls on day.
func (s *AppointmentService) SendFollowUpReminders(ctx context.Context, day time.Time) (int, error) {
	from := util.StartOfDay(day)
	to := from.Add(24 * time.Hour)
	due, err := s.appointments.List(ctx, models.AppointmentFilter{FollowUpFrom: &from, FollowUpTo: &to})
	if err != nil {
		log.Error().Err(err).Msg("Error from appointments.List")
		return 0, util.Internal(err)
	}
	if s.notifier == nil {
		return 0, nil
	}

	sent := 0
	for _, a := range due {
		if a.Status == models.StatusCancelled || a.Status == models.StatusRejected {
			continue
		}
		user, err := s.users.FindByID(ctx, a.User)
		if err != nil {
			log.Warn().Err(err).Str("appointment_id", a.ID.Hex()).Msg("Skipping reminder, patient not loaded")
			continue
		}
		doctor, err := s.doctors.getDoctor(ctx, a.Doctor)
		if err != nil {
			log.Warn().Err(err).Str("appointment_id", a.ID.Hex()).Msg("Skipping reminder, doctor not loaded")
			continue
		}
		if err := s.notifier.FollowUpReminder(ctx, *user, *doctor, a); err != nil {
			log.Error().Err(err).Str("appointment_id", a.ID.Hex()).Msg("Error from FollowUpReminder")
			continue
		}
		sent++
	}
	return sent, nil
}

func authorize(principal auth.Principal, a *models.Appointment) error {
	switch principal.Role {
	case auth.RoleAdmin:
		return nil
	case auth.RoleDoctor:
		if a.Doctor != principal.ID {
			return util.Forbidden(util.NOT_APPOINTMENT_DOCTOR)
		}
		return nil
	case auth.RoleUser:
		if a.User != principal.ID {
			return util.Forbidden(util.NOT_APPOINTMENT_PATIENT)
		}
		return nil
	}
	return util.Forbidden(util.NOT_APPOINTMENT_PATIENT)
}

func doctorPrincipal(id primitive.ObjectID) auth.Principal {
	return auth.Principal{ID: id, Role: auth.RoleDoctor}
}

func outcome(err error) string {
	switch util.KindOf(err) {
	case util.KindNotFound:
		return "not_found"
	case util.KindForbidden:
		return "forbidden"
	case util.KindConflict:
		return "conflict"
	case util.KindValidation:
		return "invalid"
	}
	return "error"
}

// invoiceAmount reads the full consultation amount written at booking time,
// falling back to the leading integer of older hand-written invoices.
func invoiceAmount(invoice string) float64 {
	if v, err := strconv.ParseFloat(strings.TrimSpace(invoice), 64); err == nil && v >= 0 {
		return v
	}
	return InvoiceValue(invoice)
}
