package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailInUse         = errors.New("email already in use")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
)

const minPasswordLength = 8

type Service struct {
	store     Store
	logger    zerolog.Logger
	jwtSecret []byte
	jwtTTL    time.Duration
	issuer    string
	now       func() time.Time
}

type AuthResult struct {
	TrainerID uuid.UUID `json:"trainer_id"`
	Token     string    `json:"token"`
}

func NewService(store Store, logger zerolog.Logger, jwtSecret string, jwtTTL time.Duration) *Service {
	return &Service{
		store:     store,
		logger:    logger,
		jwtSecret: []byte(jwtSecret),
		jwtTTL:    jwtTTL,
		issuer:    "rpg-arena",
		now:       time.Now,
	}
}

func normalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}

func (s *Service) Register(ctx context.Context, email, password string) (AuthResult, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return AuthResult{}, err
	}
	if len(password) < minPasswordLength {
		return AuthResult{}, ErrWeakPassword
	}
	hash, err := hashPassword(password)
	if err != nil {
		return AuthResult{}, fmt.Errorf("hash password: %w", err)
	}
	t := Trainer{ID: uuid.New(), Email: email, PasswordHash: hash}
	if err := s.store.Create(ctx, t); err != nil {
		return AuthResult{}, err
	}
	token, err := s.issueToken(t.ID, email)
	if err != nil {
		return AuthResult{}, err
	}
	s.logger.Info().Str("trainer_id", t.ID.String()).Msg("trainer registered")
	return AuthResult{TrainerID: t.ID, Token: token}, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (AuthResult, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return AuthResult{}, ErrInvalidCredentials
	}
	t, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return AuthResult{}, err
	}
	ok, err := verifyPassword(t.PasswordHash, password)
	if err != nil || !ok {
		return AuthResult{}, ErrInvalidCredentials
	}
	token, err := s.issueToken(t.ID, email)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{TrainerID: t.ID, Token: token}, nil
}
