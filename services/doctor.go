package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"MediBook/auth"
	"MediBook/cache"
	"MediBook/models"
	"MediBook/util"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type DoctorService struct {
	doctors DoctorStore
	cache   cache.Cache
	ttl     time.Duration
}

func NewDoctorService(doctors DoctorStore, c cache.Cache, ttl time.Duration) *DoctorService {
	return &DoctorService{doctors: doctors, cache: c, ttl: ttl}
}

/*
* Validate the required fields
* Reject a duplicate email
* Hash the password and store the doctor
 */
func (s *DoctorService) CreateDoctor(ctx context.Context, in models.CreateDoctorInput) (*models.Doctor, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if missing := util.MissingFields(map[string]string{
		"name":     in.Name,
		"email":    in.Email,
		"password": in.Password,
	}); len(missing) > 0 || in.Amount <= 0 {
		return nil, util.Validation(util.INCOMPLETE_CONTENT)
	}

	if _, err := s.doctors.FindByEmail(ctx, in.Email); err == nil {
		return nil, util.Validation(util.EMAIL_ALREADY_REGISTERED)
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		log.Error().Err(err).Msg("Error from doctors.FindByEmail")
		return nil, util.Internal(err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		log.Error().Err(err).Msg("Error from HashPassword")
		return nil, util.Internal(err)
	}
	doctor := &models.Doctor{
		Name:           in.Name,
		Email:          in.Email,
		Contact:        in.Contact,
		Image:          in.Image,
		Desc:           in.Desc,
		Amount:         in.Amount,
		Expertise:      in.Expertise,
		AvailableDates: in.AvailableDates,
		Password:       hash,
		IsDoctor:       true,
	}
	if err := s.doctors.Create(ctx, doctor); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, util.Validation(util.EMAIL_ALREADY_REGISTERED)
		}
		log.Error().Err(err).Msg("Error from doctors.Create")
		return nil, util.Internal(err)
	}
	log.Info().Str("doctor_id", doctor.ID.Hex()).Msg("Doctor created")
	return doctor, nil
}

// GetDoctor reads through the DOCTOR:<id> cache entry.
func (s *DoctorService) GetDoctor(ctx context.Context, id string) (*models.Doctor, error) {
	oid, err := parseID(id, "doctor")
	if err != nil {
		return nil, err
	}
	return s.getDoctor(ctx, oid)
}

func (s *DoctorService) getDoctor(ctx context.Context, id primitive.ObjectID) (*models.Doctor, error) {
	key := util.DoctorKey + id.Hex()
	var cached models.Doctor
	if cacheGet(ctx, s.cache, key, &cached) {
		return &cached, nil
	}

	doctor, err := s.doctors.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			log.Error().Err(err).Str("doctor_id", id.Hex()).Msg("Error from doctors.FindByID")
		}
		return nil, lookupError(err, "doctor")
	}
	cacheSet(ctx, s.cache, key, doctor, s.ttl)
	return doctor, nil
}

func (s *DoctorService) ListDoctors(ctx context.Context) ([]models.Doctor, error) {
	doctors, err := s.doctors.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Error from doctors.List")
		return nil, util.Internal(err)
	}
	if doctors == nil {
		doctors = []models.Doctor{}
	}
	return doctors, nil
}

func (s *DoctorService) Profile(ctx context.Context, doctorID primitive.ObjectID) (*models.Doctor, error) {
	return s.getDoctor(ctx, doctorID)
}

/*
* Only whitelisted fields are accepted
* At least one of them must be present
* Drop the cached profile after the write
 */
func (s *DoctorService) UpdateProfile(ctx context.Context, doctorID primitive.ObjectID, update models.DoctorProfileUpdate) (*models.Doctor, error) {
	if update.IsEmpty() {
		return nil, util.Validation(util.NOTHING_TO_UPDATE)
	}
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, util.Validation(util.INCOMPLETE_CONTENT)
		}
		update.Name = &name
	}
	if update.Amount != nil && *update.Amount <= 0 {
		return nil, util.Validation(util.INCOMPLETE_CONTENT)
	}

	doctor, err := s.doctors.UpdateProfile(ctx, doctorID, update)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			log.Error().Err(err).Str("doctor_id", doctorID.Hex()).Msg("Error from doctors.UpdateProfile")
		}
		return nil, lookupError(err, "doctor")
	}
	cacheDelete(ctx, s.cache, util.DoctorKey+doctorID.Hex())
	return doctor, nil
}
