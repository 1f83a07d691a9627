// Package auth handles login, registration and password changes, and hands
// out the Session value the CLI threads through its commands.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Clark-Hu/movie-tracker/internal/domain"
	"github.com/Clark-Hu/movie-tracker/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrEmptyUsername      = errors.New("auth: username cannot be empty")
	ErrUserExists         = errors.New("auth: username already exists")
	ErrPasswordMismatch   = errors.New("auth: passwords do not match")
	ErrPasswordTooShort   = errors.New("auth: password too short")
)

// Session identifies a logged-in user for the lifetime of one login.
type Session struct {
	ID        uuid.UUID
	User      *domain.User
	StartedAt time.Time
}

// Username is a convenience accessor.
func (s *Session) Username() string {
	return s.User.Username
}

// Options configures the service.
type Options struct {
	Verifier          CredentialVerifier
	MinPasswordLength int
	Logger            zerolog.Logger
}

// Service implements the account flows over the users repository.
type Service struct {
	users    *repository.UsersRepository
	verifier CredentialVerifier
	minLen   int
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewService builds a Service. A nil verifier means plaintext and a
// non-positive minimum length means 4.
func NewService(users *repository.UsersRepository, opts Options) *Service {
	if opts.Verifier == nil {
		opts.Verifier = PlaintextVerifier{}
	}
	if opts.MinPasswordLength <= 0 {
		opts.MinPasswordLength = 4
	}
	return &Service{
		users:    users,
		verifier: opts.Verifier,
		minLen:   opts.MinPasswordLength,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   opts.Logger.With().Str("component", "auth").Logger(),
	}
}

// RegisterRequest carries the registration form.
type RegisterRequest struct {
	Username string `validate:"required"`
	Password string
	Confirm  string
}

// Login checks the credentials and opens a session.
func (s *Service) Login(username, password string) (*Session, error) {
	u, err := s.users.Get(strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Info().Str("username", username).Msg("auth: login failed")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.verifier.Verify(u.Password, password) {
		s.logger.Info().Str("username", username).Msg("auth: login failed")
		return nil, ErrInvalidCredentials
	}
	session := &Session{ID: uuid.New(), User: u, StartedAt: time.Now().UTC()}
	s.logger.Info().Str("username", u.Username).Str("session", session.ID.String()).Msg("auth: logged in")
	return session, nil
}

// Register creates an account. Checks run in order: empty username, taken
// username, confirmation mismatch, minimum length.
func (s *Service) Register(req RegisterRequest) (*domain.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := s.validate.Struct(req); err != nil {
		return nil, ErrEmptyUsername
	}
	if s.users.Exists(req.Username) {
		return nil, ErrUserExists
	}
	if err := s.checkNewPassword(req.Password, req.Confirm); err != nil {
		return nil, err
	}

	stored, err := s.verifier.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	u := domain.NewUser(req.Username, stored)
	if err := s.users.Create(u); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, ErrUserExists
		}
		s.logger.Error().Err(err).Str("username", u.Username).Msg("auth: registered user not persisted")
	}
	s.logger.Info().Str("username", u.Username).Msg("auth: registered")
	return u, nil
}

// ChangePassword replaces the session user's password after checking the
// current one.
func (s *Service) ChangePassword(session *Session, current, next, confirm string) error {
	if session == nil || session.User == nil {
		return ErrInvalidCredentials
	}
	if !s.verifier.Verify(session.User.Password, current) {
		return ErrInvalidCredentials
	}
	if err := s.checkNewPassword(next, confirm); err != nil {
		return err
	}
	stored, err := s.verifier.Hash(next)
	if err != nil {
		return err
	}
	if _, err := s.users.Update(session.Username(), func(u *domain.User) { u.SetPassword(stored) }); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return err
		}
		s.logger.Error().Err(err).Str("username", session.Username()).Msg("auth: password change not persisted")
	}
	s.logger.Info().Str("username", session.Username()).Str("session", session.ID.String()).Msg("auth: password changed")
	return nil
}

func (s *Service) checkNewPassword(password, confirm string) error {
	if password != confirm {
		return ErrPasswordMismatch
	}
	if err := s.validate.Var(password, fmt.Sprintf("min=%d", s.minLen)); err != nil {
		return ErrPasswordTooShort
	}
	return nil
}

// MinPasswordLength reports the configured minimum.
func (s *Service) MinPasswordLength() int {
	return s.minLen
}
