package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/studentrecords/backend/internal/auth"
	"github.com/studentrecords/backend/internal/models"
	"go.uber.org/zap"
)

// UserRepository is the interface that wraps methods for users table data access
// needed by the auth service
type UserRepository interface {
	// Method Create inserts a new user into the database.
	//
	// "user" parameter is used to create a new user; its ID and enrollment
	// date are assigned during the insert.
	//
	// If the email is already taken, models.ErrUserExists is returned.
	Create(ctx context.Context, user *models.User) error
	// Method GetByEmail retrieves a user by email.
	//
	// If no user with such email exists, models.ErrUserNotFound is returned
	// together with "nil" value.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// authService implements register and login use cases
type authService struct {
	userRepo UserRepository
	hasher   *auth.PasswordHasher
	tokens   *auth.TokenGenerator
	logger   *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo UserRepository,
	hasher *auth.PasswordHasher,
	tokens *auth.TokenGenerator,
	logger *zap.Logger,
) *authService {
	return &authService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		logger:   logger,
	}
}

// emailRegex validates email format
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Register creates a new user account and issues a token for it.
// Email uniqueness is enforced by the store's unique index, so two
// concurrent registrations with the same email result in exactly one
// success; the loser gets models.ErrUserExists.
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", models.ErrValidation)
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	if !emailRegex.MatchString(email) {
		return nil, fmt.Errorf("%w: invalid email format", models.ErrValidation)
	}

	if req.Password == "" {
		return nil, fmt.Errorf("%w: password cannot be empty", models.ErrValidation)
	}

	role := req.Role
	if role == "" {
		role = models.RoleStudent // Default role
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: invalid role %q", models.ErrValidation, req.Role)
	}

	// Course only applies to students
	course := strings.TrimSpace(req.Course)
	if role == models.RoleAdmin {
		course = ""
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		Course:       course,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.tokens.Generate(user.ID, user.Role)
	if err != nil {
		s.logger.Error("failed to generate token", zap.String("userId", user.ID), zap.Error(err))
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &models.AuthResponse{Profile: user.Profile(), Token: token}, nil
}

// Login authenticates a user and issues a token. Unknown emails and wrong
// passwords both fail with models.ErrInvalidCredentials so the response
// never reveals whether the email exists. Login performs no writes.
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Password == "" {
		return nil, models.ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if err == models.ErrUserNotFound {
			return nil, models.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		return nil, models.ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID, user.Role)
	if err != nil {
		s.logger.Error("failed to generate token", zap.String("userId", user.ID), zap.Error(err))
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &models.AuthResponse{Profile: user.Profile(), Token: token}, nil
}
