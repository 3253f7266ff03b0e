package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Error types for user domain operations
var (
	ErrEmailTaken    = errors.New("email is already taken")
	ErrInvalidEmail  = errors.New("invalid email address")
	ErrEmptyPassword = errors.New("password must not be empty")
)

// Hasher is the credential hasher contract. Hash output is salted per
// call; equality of plaintext must be checked through Verify, never by
// comparing hash strings.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// Service handles user registration and listing
type Service struct {
	repo     Repository
	hasher   Hasher
	validate *validator.Validate
	logger   zerolog.Logger
}

func NewService(repo Repository, hasher Hasher, logger zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		hasher:   hasher,
		validate: validator.New(),
		logger:   logger.With().Str("component", "users").Logger(),
	}
}

// Register creates a new user with a hashed credential. Not idempotent:
// a retry after a timed-out but successful first attempt surfaces
// ErrEmailTaken, indistinguishable from the email having existed before
// the call. There is no idempotency token to tell the two apart.
func (s *Service) Register(ctx context.Context, email, password string) (*User, error) {
	if err := s.validate.Var(email, "required,email"); err != nil {
		return nil, ErrInvalidEmail
	}
	if password == "" {
		return nil, ErrEmptyPassword
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repo.Insert(ctx, CreateParams{Email: email, PasswordHash: hash})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user registered")
	return user, nil
}

// List returns all users. Callers shaping responses must suppress
// PasswordHash; the service returns the stored representation.
func (s *Service) List(ctx context.Context) ([]User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Get retrieves a single user by id
func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}
