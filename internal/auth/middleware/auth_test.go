package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studentrecords/backend/internal/auth"
	"github.com/studentrecords/backend/internal/models"
)

// mockUserStore is a mock implementation of UserStore
type mockUserStore struct {
	user *models.User
	err  error
}

func (m *mockUserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.user, nil
}

func TestAuthenticate(t *testing.T) {
	tokens := auth.NewTokenGenerator("test-secret", time.Hour)

	validUser := &models.User{
		ID:    "user-123",
		Name:  "Test User",
		Email: "test@example.com",
		Role:  models.RoleStudent,
	}

	validToken, err := tokens.Generate(validUser.ID, validUser.Role)
	require.NoError(t, err)

	expiredTokens := auth.NewTokenGenerator("test-secret", -time.Hour)
	expiredToken, err := expiredTokens.Generate(validUser.ID, validUser.Role)
	require.NoError(t, err)

	tests := []struct {
		name           string
		authHeader     string
		store          *mockUserStore
		expectedStatus int
		expectNext     bool
	}{
		{
			name:           "valid token",
			authHeader:     "Bearer " + validToken,
			store:          &mockUserStore{user: validUser},
			expectedStatus: http.StatusOK,
			expectNext:     true,
		},
		{
			name:           "no header",
			authHeader:     "",
			store:          &mockUserStore{user: validUser},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "malformed header",
			authHeader:     "Bearer",
			store:          &mockUserStore{user: validUser},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "wrong scheme",
			authHeader:     "Basic " + validToken,
			store:          &mockUserStore{user: validUser},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "invalid token",
			authHeader:     "Bearer not.a.token",
			store:          &mockUserStore{user: validUser},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "expired token",
			authHeader:     "Bearer " + expiredToken,
			store:          &mockUserStore{user: validUser},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "valid token for deleted user",
			authHeader:     "Bearer " + validToken,
			store:          &mockUserStore{err: models.ErrUserNotFound},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "store error",
			authHeader:     "Bearer " + validToken,
			store:          &mockUserStore{err: errors.New("connection refused")},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			var ctxUser *models.User
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				ctxUser, _ = UserFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			handler := Authenticate(tokens, tt.store)(next)

			req := httptest.NewRequest(http.MethodGet, "/students", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, tt.expectNext, nextCalled)
			if tt.expectNext {
				require.NotNil(t, ctxUser)
				assert.Equal(t, validUser.ID, ctxUser.ID)
				assert.Equal(t, validUser.Role, ctxUser.Role)
			} else {
				assert.Contains(t, rec.Body.String(), "message")
			}
		})
	}
}

func TestUserFromContext(t *testing.T) {
	t.Run("user present", func(t *testing.T) {
		user := &models.User{ID: "user-123"}
		ctx := context.WithValue(context.Background(), userKey, user)

		got, ok := UserFromContext(ctx)
		assert.True(t, ok)
		assert.Equal(t, user, got)
	})

	t.Run("user absent", func(t *testing.T) {
		got, ok := UserFromContext(context.Background())
		assert.False(t, ok)
		assert.Nil(t, got)
	})
}
