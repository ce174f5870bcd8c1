package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/isdelr/gymdiary/internal/apperr"
	"github.com/isdelr/gymdiary/internal/auth"
	"github.com/isdelr/gymdiary/internal/models"
	"github.com/isdelr/gymdiary/internal/sanitize"
	"github.com/isdelr/gymdiary/internal/store"
	"github.com/rs/zerolog/log"
)

// MinPasswordLength is the shortest password accepted at signup.
const MinPasswordLength = 8

// MaxPasswordBytes is bcrypt's input limit, counted in bytes, not characters.
const MaxPasswordBytes = 72

const (
	msgEmailInUse         = "Email is already in use"
	msgInvalidCredentials = "Invalid credentials"
)

var msgPasswordTooLong = fmt.Sprintf("Password must be at most %d bytes long", MaxPasswordBytes)

// SignupInput is the signup form.
type SignupInput struct {
	FirstName       string `validate:"required,max=50"`
	LastName        string `validate:"required,max=50"`
	Email           string `validate:"required,email,max=254"`
	Password        string `validate:"required,min=8,max=72"`
	ConfirmPassword string `validate:"required"`
}

var signupMessages = map[string]string{
	"Email.email":   "Please enter a valid email address",
	"Email.max":     "Email address is too long",
	"Password.min":  fmt.Sprintf("Password must be at least %d characters long", MinPasswordLength),
	"Password.max":  msgPasswordTooLong,
	"FirstName.max": "First name must be at most 50 characters",
	"LastName.max":  "Last name must be at most 50 characters",
}

// LoginInput is the login form.
type LoginInput struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Signup(ctx context.Context, in SignupInput) (models.User, error)
	Authenticate(ctx context.Context, in LoginInput) (models.User, error)
	GetUserByID(ctx context.Context, id string) (models.User, error)
}

// UserService provides signup and credential checks.
type UserService struct {
	store     store.UserStore
	hasher    *auth.Hasher
	events    EventServiceProvider
	trainers  map[string]bool
	dummyHash string
}

// NewUserService creates a new UserService. Accounts signing up with one of
// trainerEmails get the trainer role.
func NewUserService(s store.UserStore, hasher *auth.Hasher, events EventServiceProvider, trainerEmails []string) *UserService {
	// Hash once so unknown emails cost the same bcrypt work as wrong passwords.
	dummy, err := hasher.Hash(uuid.NewString())
	if err != nil {
		log.Error().Err(err).Msg("Failed to prepare dummy credential")
	}

	trainers := make(map[string]bool, len(trainerEmails))
	for _, e := range trainerEmails {
		if e = sanitize.Email(e); e != "" {
			trainers[e] = true
		}
	}
	return &UserService{store: s, hasher: hasher, events: events, trainers: trainers, dummyHash: dummy}
}

// Signup validates the form, creates the user and returns it without its
// password hash. A taken email yields a Conflict error, including when two
// signups race past the existence check.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (models.User, error) {
	sanitize.Fields(&in.FirstName, &in.LastName)
	in.Email = sanitize.Email(in.Email)

	if err := validate.Struct(in); err != nil {
		return models.User{}, validationError(err, "All fields are required", signupMessages)
	}
	// max=72 counts characters; multi-byte characters can still overflow.
	if len(in.Password) > MaxPasswordBytes {
		return models.User{}, apperr.Validation(msgPasswordTooLong)
	}
	if in.Password != in.ConfirmPassword {
		return models.User{}, apperr.Validation("Passwords do not match")
	}

	exists, err := s.store.EmailExists(ctx, in.Email)
	if err != nil {
		return models.User{}, apperr.Store("Something went wrong, please try again", err)
	}
	if exists {
		return models.User{}, apperr.Conflict(msgEmailInUse, store.ErrDuplicateEmail)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidInput) {
			return models.User{}, apperr.Validation("Please choose a different password")
		}
		return models.User{}, apperr.Store("Something went wrong, please try again", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         models.RoleMember,
		WorkoutIDs:   []string{},
	}
	if s.trainers[user.Email] {
		user.Role = models.RoleTrainer
	}
	if err := s.store.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return models.User{}, apperr.Conflict(msgEmailInUse, err)
		}
		return models.User{}, apperr.Store("Something went wrong, please try again", err)
	}

	recordEvent(ctx, s.events, EventSignup, "info", "New account registered", &user.ID)

	user.PasswordHash = ""
	return user, nil
}

// Authenticate verifies the credentials. Unknown emails and wrong
// passwords return the same Auth error; only the logs tell them apart.
func (s *UserService) Authenticate(ctx context.Context, in LoginInput) (models.User, error) {
	in.Email = sanitize.Email(in.Email)
	if err := validate.Struct(in); err != nil {
		return models.User{}, validationError(err, "Email and password are required", nil)
	}

	user, err := s.store.GetUserByEmail(ctx, in.Email)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return models.User{}, apperr.Store("Something went wrong, please try again", err)
		}
		if s.dummyHash != "" {
			s.hasher.Verify(in.Password, s.dummyHash)
		}
		log.Warn().Str("email", in.Email).Msg("Failed authentication attempt: user not found")
		recordEvent(ctx, s.events, EventLoginFail, "warn", "Login failed: unknown email", nil)
		return models.User{}, apperr.Auth(msgInvalidCredentials, err)
	}

	ok, err := s.hasher.Verify(in.Password, user.PasswordHash)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Stored credential is corrupt")
		recordEvent(ctx, s.events, EventLoginFail, "error", "Login failed: corrupt stored credential", &user.ID)
		return models.User{}, apperr.Auth(msgInvalidCredentials, err)
	}
	if !ok {
		log.Warn().Str("user_id", user.ID).Msg("Failed authentication attempt: invalid password")
		recordEvent(ctx, s.events, EventLoginFail, "warn", "Login failed: invalid password", &user.ID)
		return models.User{}, apperr.Auth(msgInvalidCredentials, nil)
	}

	recordEvent(ctx, s.events, EventLoginSuccess, "info", "User logged in", &user.ID)

	// Don't pass the password hash any further
	user.PasswordHash = ""
	return user, nil
}

// GetUserByID retrieves a user without its password hash.
func (s *UserService) GetUserByID(ctx context.Context, id string) (models.User, error) {
	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.User{}, apperr.Auth("User not found", err)
		}
		return models.User{}, apperr.Store("Something went wrong, please try again", err)
	}
	user.PasswordHash = ""
	return user, nil
}
