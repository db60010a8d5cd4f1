package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
	"passvault/internal/domain/vaulterr"
)

// Servicer manages accounts.
type Servicer interface {
	Register(ctx context.Context, login, email, password string) (int, error)
	Authenticate(ctx context.Context, login, password string) (User, error)
	FindByID(ctx context.Context, id int) (User, error)
	FindByLogin(ctx context.Context, login string) (User, error)
	Resolve(ctx context.Context, identifier string) (User, error)
}

// Service registers and authenticates users.
type Service struct {
	repo      Repository
	validator Validator
	log       *slog.Logger
}

// NewService creates a user service; a nil validator means the default one.
func NewService(repo Repository, validator Validator, log *slog.Logger) *Service {
	if validator == nil {
		validator = NewPasswordValidator()
	}
	return &Service{
		repo:      repo,
		validator: validator,
		log:       log.With("component", "user_service"),
	}
}

// Register creates an account and returns its id.
func (s *Service) Register(ctx context.Context, login, email, password string) (int, error) {
	if err := s.validator.ValidateRegister(login, password); err != nil {
		s.log.Debug("validation failed", "login", login, "error", err)
		return 0, vaulterr.Validation("%v", err)
	}

	email = strings.TrimSpace(email)
	if email != "" {
		if err := ValidateEmail(email); err != nil {
			return 0, vaulterr.Validation("%v", err)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	id, err := s.repo.Create(ctx, login, email, string(hash))
	if err != nil {
		if errors.Is(err, ErrLoginTaken) {
			return 0, ErrLoginTaken
		}
		return 0, fmt.Errorf("create user: %w", err)
	}

	s.log.Info("user registered", "user_id", id)

	return id, nil
}

// Authenticate checks a login and password pair.
func (s *Service) Authenticate(ctx context.Context, login, password string) (User, error) {
	if err := s.validator.ValidateLogin(login); err != nil {
		return User{}, ErrInvalidAuth
	}

	user, err := s.repo.FindByLogin(ctx, login)
	if err != nil {
		return User{}, ErrInvalidAuth
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return User{}, ErrInvalidAuth
	}

	return user, nil
}

// FindByID returns the user with id.
func (s *Service) FindByID(ctx context.Context, id int) (User, error) {
	return s.repo.FindByID(ctx, id)
}

// FindByLogin returns the user with login.
func (s *Service) FindByLogin(ctx context.Context, login string) (User, error) {
	return s.repo.FindByLogin(ctx, strings.TrimSpace(login))
}

// Resolve finds a user by login, or by email when the identifier looks like
// an address and no login matches.
func (s *Service) Resolve(ctx context.Context, identifier string) (User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return User{}, ErrNotFound
	}

	user, err := s.repo.FindByLogin(ctx, identifier)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	if !strings.Contains(identifier, "@") {
		return User{}, ErrNotFound
	}

	return s.repo.FindByEmail(ctx, identifier)
}
