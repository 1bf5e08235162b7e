package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dan9191/abas-api/internal/models"
	"github.com/Dan9191/abas-api/internal/repository"
	"github.com/sirupsen/logrus"
)

// UserDirectory looks up and persists users. Implementations enforce
// username and email uniqueness and report violations with
// repository.ErrDuplicateUsername or repository.ErrDuplicateEmail.
type UserDirectory interface {
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
}

// Hasher turns passwords into digests and checks them
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) bool
}

// TokenIssuer issues bearer tokens for an identity
type TokenIssuer interface {
	Issue(identity string) (string, error)
}

// Notifier is told about newly registered users
type Notifier interface {
	SendWelcome(to, username string) error
}

// Service handles signup, login and identity lookup
type Service struct {
	users    UserDirectory
	hasher   Hasher
	tokens   TokenIssuer
	notifier Notifier
	log      *logrus.Logger
}

// NewService initializes a new service. notifier may be nil.
func NewService(users UserDirectory, hasher Hasher, tokens TokenIssuer, notifier Notifier, log *logrus.Logger) *Service {
	return &Service{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		notifier: notifier,
		log:      log,
	}
}

// Signup registers a new user with a hashed password
func (s *Service) Signup(ctx context.Context, username, email, password string) (*models.User, error) {
	if !ValidEmail(email) {
		return nil, ErrInvalidFormat
	}

	if err := s.ensureAbsent(ctx, s.users.FindUserByUsername, username, ErrDuplicateUsername); err != nil {
		return nil, err
	}
	if err := s.ensureAbsent(ctx, s.users.FindUserByEmail, email, ErrDuplicateEmail); err != nil {
		return nil, err
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpected, err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: digest,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateUsername):
			return nil, ErrDuplicateUsername
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("%w: %v", ErrUnexpected, err)
	}

	s.log.WithFields(logrus.Fields{"user_id": user.ID, "username": user.Username}).Info("User registered")

	if s.notifier != nil {
		if err := s.notifier.SendWelcome(user.Email, user.Username); err != nil {
			s.log.WithError(err).Warnf("Welcome email not sent to %s", user.Email)
		}
	}
	return user, nil
}

// Login authenticates a user and returns a bearer token bound to the email
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	if !ValidEmail(email) {
		return "", ErrInvalidFormat
	}

	user, err := s.users.FindUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnexpected, err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.log.WithField("email", email).Warn("Login rejected: invalid password")
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnexpected, err)
	}

	s.log.Infof("User logged in: %s", user.Email)
	return token, nil
}

// Identity returns the user owning an already authenticated identity.
// A missing user means the token and the store disagree, so every
// failure is reported as ErrUnexpected.
func (s *Service) Identity(ctx context.Context, email string) (*models.User, error) {
	user, err := s.users.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpected, err)
	}
	return user, nil
}

type lookupFunc func(ctx context.Context, key string) (*models.User, error)

func (s *Service) ensureAbsent(ctx context.Context, lookup lookupFunc, key string, taken error) error {
	_, err := lookup(ctx, key)
	if err == nil {
		return taken
	}
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrUnexpected, err)
}
