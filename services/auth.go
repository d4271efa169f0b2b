package services

import (
	"context"
	"errors"
	"strings"

	"MediBook/auth"
	"MediBook/metrics"
	"MediBook/models"
	"MediBook/util"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type AuthService struct {
	users   UserStore
	doctors DoctorStore
	issuer  *auth.Issuer
}

func NewAuthService(users UserStore, doctors DoctorStore, issuer *auth.Issuer) *AuthService {
	return &AuthService{users: users, doctors: doctors, issuer: issuer}
}

/*
* Trim and check the required fields
* Reject an email or username that is already registered
* Hash the password and store the patient
 */
func (s *AuthService) RegisterUser(ctx context.Context, in models.RegisterUserInput) (*models.UserProfile, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if missing := util.MissingFields(map[string]string{
		"username": in.Username,
		"email":    in.Email,
		"password": in.Password,
	}); len(missing) > 0 {
		return nil, util.Validation(util.INCOMPLETE_CONTENT + ": " + strings.Join(missing, ", "))
	}

	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, util.Validation(util.EMAIL_ALREADY_REGISTERED)
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		log.Error().Err(err).Msg("Error from FindByEmail")
		return nil, util.Internal(err)
	}
	if _, err := s.users.FindByUsername(ctx, in.Username); err == nil {
		return nil, util.Validation(util.USERNAME_ALREADY_REGISTERED)
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		log.Error().Err(err).Msg("Error from FindByUsername")
		return nil, util.Internal(err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		log.Error().Err(err).Msg("Error from HashPassword")
		return nil, util.Internal(err)
	}
	user := &models.User{
		Username: in.Username,
		Email:    in.Email,
		Phone:    in.Phone,
		Address:  in.Address,
		Age:      in.Age,
		Gender:   in.Gender,
		Password: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, util.Validation(util.EMAIL_ALREADY_REGISTERED)
		}
		log.Error().Err(err).Msg("Error from users.Create")
		return nil, util.Internal(err)
	}
	log.Info().Str("user_id", user.ID.Hex()).Msg("Patient registered")
	profile := user.Profile()
	return &profile, nil
}

// LoginUser accepts either the email or the username as identifier.
func (s *AuthService) LoginUser(ctx context.Context, in models.LoginInput) (*models.LoginResult, error) {
	user, err := s.authenticateUser(ctx, auth.RoleUser, in)
	if err != nil {
		return nil, err
	}
	result, err := s.issue(auth.RoleUser, user.ID, user.Username)
	if err != nil {
		return nil, err
	}
	result.IsAdmin = user.IsAdmin
	return result, nil
}

// LoginAdmin authenticates a user account that carries the admin flag.
func (s *AuthService) LoginAdmin(ctx context.Context, in models.LoginInput) (*models.LoginResult, error) {
	user, err := s.authenticateUser(ctx, auth.RoleAdmin, in)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin {
		log.Warn().Str("user_id", user.ID.Hex()).Msg("Admin login by non-admin account")
		metrics.LoginAttempts.WithLabelValues(string(auth.RoleAdmin), "not_admin").Inc()
		return nil, util.Unauthorized(util.INVALID_CREDENTIALS, nil)
	}
	result, err := s.issue(auth.RoleAdmin, user.ID, user.Username)
	if err != nil {
		return nil, err
	}
	result.IsAdmin = true
	return result, nil
}

func (s *AuthService) LoginDoctor(ctx context.Context, in models.LoginInput) (*models.LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, util.Validation(util.INCOMPLETE_CONTENT)
	}

	doctor, err := s.doctors.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, s.rejectUnknown(auth.RoleDoctor, in.Password)
		}
		log.Error().Err(err).Msg("Error from doctors.FindByEmail")
		return nil, util.Internal(err)
	}
	if err := auth.VerifyPassword(doctor.Password, in.Password); err != nil {
		return nil, s.rejectPassword(auth.RoleDoctor, doctor.ID.Hex())
	}
	result, err := s.issue(auth.RoleDoctor, doctor.ID, doctor.Name)
	if err != nil {
		return nil, err
	}
	result.IsDoctor = true
	return result, nil
}

/*
* Find the user by email, then by username
* Unknown accounts still pay for a bcrypt compare
 */
func (s *AuthService) authenticateUser(ctx context.Context, role auth.Role, in models.LoginInput) (*models.User, error) {
	identifier := strings.TrimSpace(in.Identifier())
	if identifier == "" || in.Password == "" {
		return nil, util.Validation(util.INCOMPLETE_CONTENT)
	}

	user, err := s.users.FindByEmail(ctx, strings.ToLower(identifier))
	if errors.Is(err, mongo.ErrNoDocuments) {
		user, err = s.users.FindByUsername(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, s.rejectUnknown(role, in.Password)
		}
		log.Error().Err(err).Msg("Error from users lookup")
		return nil, util.Internal(err)
	}
	if err := auth.VerifyPassword(user.Password, in.Password); err != nil {
		return nil, s.rejectPassword(role, user.ID.Hex())
	}
	return user, nil
}

func (s *AuthService) rejectUnknown(role auth.Role, password string) error {
	auth.BurnCompare(password)
	log.Info().Str("role", string(role)).Msg("Login for unknown account")
	metrics.LoginAttempts.WithLabelValues(string(role), "unknown_account").Inc()
	return util.Unauthorized(util.INVALID_CREDENTIALS, nil)
}

func (s *AuthService) rejectPassword(role auth.Role, id string) error {
	log.Info().Str("role", string(role)).Str("principal_id", id).Msg("Login with wrong password")
	metrics.LoginAttempts.WithLabelValues(string(role), "wrong_password").Inc()
	return util.Unauthorized(util.INVALID_CREDENTIALS, nil)
}

func (s *AuthService) issue(role auth.Role, id primitive.ObjectID, name string) (*models.LoginResult, error) {
	token, expiresAt, err := s.issuer.Issue(role, id)
	if err != nil {
		log.Error().Err(err).Str("role", string(role)).Msg("Error from Issue")
		return nil, util.Internal(err)
	}
	metrics.LoginAttempts.WithLabelValues(string(role), "success").Inc()
	return &models.LoginResult{
		Name:      name,
		Role:      string(role),
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}
