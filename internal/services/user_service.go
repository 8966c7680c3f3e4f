package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"marketplace-api/internal/models"
	"marketplace-api/internal/store"

	"github.com/rs/zerolog"
)

type UserService struct {
	store  store.Store
	auth   *AuthService
	logger zerolog.Logger
}

func NewUserService(st store.Store, auth *AuthService, logger zerolog.Logger) *UserService {
	return &UserService{
		store:  st,
		auth:   auth,
		logger: logger,
	}
}

// normalizeEmail lowercases and trims so lookups and the unique index are
// case-insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a customer identity. The role is always customer; the
// single seller comes from SeedSeller only.
func (s *UserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	name := strings.TrimSpace(req.Name)
	email := normalizeEmail(req.Email)
	if name == "" || email == "" || req.Password == "" {
		return nil, validationError("name, email and password are required")
	}

	passwordHash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         string(models.RoleCustomer),
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		s.logger.Error().Err(err).Msg("Error creating user")
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info().Int("user_id", user.ID).Str("email", user.Email).Msg("User registered")
	return user, nil
}

func (s *UserService) Authenticate(ctx context.Context, req *models.LoginRequest) (*models.User, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, validationError("email and password are required")
	}

	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error().Err(err).Msg("Error querying user")
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !s.auth.CheckPassword(req.Password, user.PasswordHash) {
		s.logger.Warn().Str("email", email).Msg("Failed authentication attempt")
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	user, err := s.store.FindUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	return user, nil
}

// SeedSeller creates the single seller identity if none exists yet. It is
// safe to call repeatedly and concurrently: the existence check below is only
// a fast path, the storage-level uniqueness constraint on role=seller is what
// prevents a second seller when two calls race.
func (s *UserService) SeedSeller(ctx context.Context, name, email, password string) (*models.User, bool, error) {
	if existing, err := s.store.FindSeller(ctx); err == nil {
		return existing, false, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, false, fmt.Errorf("failed to look up seller: %w", err)
	}

	passwordHash, err := s.auth.HashPassword(password)
	if err != nil {
		return nil, false, err
	}

	seller := &models.User{
		Name:         strings.TrimSpace(name),
		Email:        normalizeEmail(email),
		PasswordHash: passwordHash,
		Role:         string(models.RoleSeller),
	}

	err = s.store.CreateUser(ctx, seller)
	if err == nil {
		s.logger.Info().Str("email", seller.Email).Msg("Seller account seeded")
		return seller, true, nil
	}
	if errors.Is(err, store.ErrSellerExists) {
		// Lost the race; report the winner as already existing.
		existing, findErr := s.store.FindSeller(ctx)
		if findErr != nil {
			return nil, false, fmt.Errorf("failed to look up seller: %w", findErr)
		}
		return existing, false, nil
	}
	if errors.Is(err, store.ErrDuplicateEmail) {
		return nil, false, ErrEmailTaken
	}
	s.logger.Error().Err(err).Msg("Error seeding seller")
	return nil, false, fmt.Errorf("failed to seed seller: %w", err)
}
