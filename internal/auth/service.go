package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"turno/backend/internal/domain"
	"turno/backend/internal/store"
)

// ErrInvalidCredentials covers both unknown emails and wrong
// passwords, so a login probe cannot tell which one it hit.
var ErrInvalidCredentials = errors.New("invalid credentials")

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationError(msg string) error {
	return &ValidationError{msg: msg}
}

const minPasswordLength = 8

type Service struct {
	users    store.UserRepository
	secret   string
	tokenTTL time.Duration
	log      *slog.Logger
}

func NewService(users store.UserRepository, secret string, tokenTTL time.Duration, log *slog.Logger) *Service {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		users:    users,
		secret:   secret,
		tokenTTL: tokenTTL,
		log:      log.With(slog.String("component", "auth")),
	}
}

type Session struct {
	UserID string
	Email  string
	Token  string
}

func (s *Service) Register(ctx context.Context, email, password string) (Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return Session{}, validationError("a valid email is required")
	}
	if len(password) < minPasswordLength {
		return Session{}, validationError("password must be at least 8 characters")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return Session{}, err
	}

	user, err := s.users.Create(ctx, domain.User{Email: email, PasswordHash: hash})
	if err != nil {
		return Session{}, err
	}

	s.log.Info("user registered", slog.String("user_id", user.ID.String()))
	return s.session(user)
}

func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return Session{}, validationError("email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}
	if !CheckPassword(user.PasswordHash, password) {
		return Session{}, ErrInvalidCredentials
	}

	return s.session(user)
}

func (s *Service) session(user domain.User) (Session, error) {
	token, err := MakeToken(user.ID.String(), user.Email, s.secret, s.tokenTTL)
	if err != nil {
		return Session{}, err
	}
	return Session{UserID: user.ID.String(), Email: user.Email, Token: token}, nil
}
