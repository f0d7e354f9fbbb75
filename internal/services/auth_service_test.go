package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studentrecords/backend/internal/auth"
	"github.com/studentrecords/backend/internal/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// mockAuthUserRepository is a mock implementation of UserRepository
type mockAuthUserRepository struct {
	user      *models.User
	createErr error
	getErr    error

	created *models.User
}

func (m *mockAuthUserRepository) Create(ctx context.Context, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = "user-123"
	user.EnrollmentDate = time.Now().UTC()
	m.created = user
	return nil
}

func (m *mockAuthUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.user, nil
}

func newTestAuthService(repo *mockAuthUserRepository) *authService {
	logger := zap.NewNop()
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	tokens := auth.NewTokenGenerator("test-secret", time.Hour)
	return NewAuthService(repo, hasher, tokens, logger)
}

func TestNewAuthService(t *testing.T) {
	logger := zap.NewNop()
	repo := &mockAuthUserRepository{}
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	tokens := auth.NewTokenGenerator("test-secret", time.Hour)

	svc := NewAuthService(repo, hasher, tokens, logger)

	assert.NotNil(t, svc)
	assert.Equal(t, repo, svc.userRepo)
	assert.Equal(t, hasher, svc.hasher)
	assert.Equal(t, tokens, svc.tokens)
	assert.Equal(t, logger, svc.logger)
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		req           *models.RegisterRequest
		repo          *mockAuthUserRepository
		expectedError error
		expectedRole  models.Role
	}{
		{
			name: "success with default role",
			req: &models.RegisterRequest{
				Name:     "Test User",
				Email:    "test@example.com",
				Password: "Password123!",
				Course:   "Mathematics",
			},
			repo:         &mockAuthUserRepository{},
			expectedRole: models.RoleStudent,
		},
		{
			name: "success as admin",
			req: &models.RegisterRequest{
				Name:     "Admin User",
				Email:    "admin@example.com",
				Password: "Password123!",
				Role:     models.RoleAdmin,
			},
			repo:         &mockAuthUserRepository{},
			expectedRole: models.RoleAdmin,
		},
		{
			name: "empty name",
			req: &models.RegisterRequest{
				Name:     "   ",
				Email:    "test@example.com",
				Password: "Password123!",
			},
			repo:          &mockAuthUserRepository{},
			expectedError: models.ErrValidation,
		},
		{
			name: "invalid email format",
			req: &models.RegisterRequest{
				Name:     "Test User",
				Email:    "not-an-email",
				Password: "Password123!",
			},
			repo:          &mockAuthUserRepository{},
			expectedError: models.ErrValidation,
		},
		{
			name: "empty password",
			req: &models.RegisterRequest{
				Name:  "Test User",
				Email: "test@example.com",
			},
			repo:          &mockAuthUserRepository{},
			expectedError: models.ErrValidation,
		},
		{
			name: "unknown role",
			req: &models.RegisterRequest{
				Name:     "Test User",
				Email:    "test@example.com",
				Password: "Password123!",
				Role:     models.Role("superuser"),
			},
			repo:          &mockAuthUserRepository{},
			expectedError: models.ErrValidation,
		},
		{
			name: "duplicate email",
			req: &models.RegisterRequest{
				Name:     "Test User",
				Email:    "taken@example.com",
				Password: "Password123!",
			},
			repo:          &mockAuthUserRepository{createErr: models.ErrUserExists},
			expectedError: models.ErrUserExists,
		},
		{
			name: "repository error",
			req: &models.RegisterRequest{
				Name:     "Test User",
				Email:    "test@example.com",
				Password: "Password123!",
			},
			repo:          &mockAuthUserRepository{createErr: errors.New("database error")},
			expectedError: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestAuthService(tt.repo)

			resp, err := svc.Register(context.Background(), tt.req)

			if tt.expectedError != nil {
				require.Error(t, err)
				assert.Nil(t, resp)
				if errors.Is(tt.expectedError, models.ErrValidation) || errors.Is(tt.expectedError, models.ErrUserExists) {
					assert.ErrorIs(t, err, tt.expectedError)
				}
				return
			}

			require.NoError(t, err)
			require.NotNil(t, resp)
			require.NotNil(t, resp.Profile)
			assert.NotEmpty(t, resp.Token)
			assert.Equal(t, "user-123", resp.Profile.ID)
			assert.Equal(t, tt.expectedRole, resp.Profile.Role)

			// Only the hash reaches the store
			require.NotNil(t, tt.repo.created)
			assert.NotEqual(t, tt.req.Password, tt.repo.created.PasswordHash)
			assert.NoError(t, bcrypt.CompareHashAndPassword(
				[]byte(tt.repo.created.PasswordHash), []byte(tt.req.Password)))
		})
	}
}

func TestAuthService_Register_NormalizesInput(t *testing.T) {
	repo := &mockAuthUserRepository{}
	svc := newTestAuthService(repo)

	resp, err := svc.Register(context.Background(), &models.RegisterRequest{
		Name:     "  Test User  ",
		Email:    "  Test@Example.COM  ",
		Password: "Password123!",
		Role:     models.RoleAdmin,
		Course:   "Mathematics",
	})

	require.NoError(t, err)
	assert.Equal(t, "Test User", resp.Profile.Name)
	assert.Equal(t, "test@example.com", resp.Profile.Email)
	// Course does not apply to admins
	assert.Empty(t, resp.Profile.Course)
}

func TestAuthService_Login(t *testing.T) {
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	passwordHash, err := hasher.Hash("Password123!")
	require.NoError(t, err)

	storedUser := &models.User{
		ID:           "user-123",
		Name:         "Test User",
		Email:        "test@example.com",
		PasswordHash: passwordHash,
		Role:         models.RoleStudent,
	}

	tests := []struct {
		name          string
		req           *models.LoginRequest
		repo          *mockAuthUserRepository
		expectedError error
	}{
		{
			name: "success",
			req: &models.LoginRequest{
				Email:    "test@example.com",
				Password: "Password123!",
			},
			repo: &mockAuthUserRepository{user: storedUser},
		},
		{
			name: "email case insensitive",
			req: &models.LoginRequest{
				Email:    "TEST@EXAMPLE.COM",
				Password: "Password123!",
			},
			repo: &mockAuthUserRepository{user: storedUser},
		},
		{
			name: "wrong password",
			req: &models.LoginRequest{
				Email:    "test@example.com",
				Password: "WrongPassword",
			},
			repo:          &mockAuthUserRepository{user: storedUser},
			expectedError: models.ErrInvalidCredentials,
		},
		{
			name: "unknown email",
			req: &models.LoginRequest{
				Email:    "missing@example.com",
				Password: "Password123!",
			},
			repo:          &mockAuthUserRepository{getErr: models.ErrUserNotFound},
			expectedError: models.ErrInvalidCredentials,
		},
		{
			name: "empty credentials",
			req: &models.LoginRequest{
				Email:    "",
				Password: "",
			},
			repo:          &mockAuthUserRepository{},
			expectedError: models.ErrInvalidCredentials,
		},
		{
			name: "repository error",
			req: &models.LoginRequest{
				Email:    "test@example.com",
				Password: "Password123!",
			},
			repo:          &mockAuthUserRepository{getErr: errors.New("database error")},
			expectedError: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestAuthService(tt.repo)

			resp, err := svc.Login(context.Background(), tt.req)

			if tt.expectedError != nil {
				require.Error(t, err)
				assert.Nil(t, resp)
				if errors.Is(tt.expectedError, models.ErrInvalidCredentials) {
					assert.ErrorIs(t, err, models.ErrInvalidCredentials)
				}
				return
			}

			require.NoError(t, err)
			require.NotNil(t, resp)
			assert.NotEmpty(t, resp.Token)
			assert.Equal(t, "user-123", resp.Profile.ID)
		})
	}
}

func TestAuthService_Login_FailureIsUniform(t *testing.T) {
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	passwordHash, err := hasher.Hash("Password123!")
	require.NoError(t, err)

	wrongPassword := &mockAuthUserRepository{user: &models.User{
		ID:           "user-123",
		Email:        "test@example.com",
		PasswordHash: passwordHash,
		Role:         models.RoleStudent,
	}}
	unknownEmail := &mockAuthUserRepository{getErr: models.ErrUserNotFound}

	_, errWrongPassword := newTestAuthService(wrongPassword).Login(context.Background(), &models.LoginRequest{
		Email:    "test@example.com",
		Password: "WrongPassword",
	})
	_, errUnknownEmail := newTestAuthService(unknownEmail).Login(context.Background(), &models.LoginRequest{
		Email:    "missing@example.com",
		Password: "Password123!",
	})

	// Both failure modes are indistinguishable to the caller
	require.Error(t, errWrongPassword)
	require.Error(t, errUnknownEmail)
	assert.Equal(t, errWrongPassword, errUnknownEmail)
}
