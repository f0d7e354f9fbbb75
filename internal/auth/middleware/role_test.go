package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/studentrecords/backend/internal/models"
)

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name           string
		allowedRoles   []models.Role
		user           *models.User
		expectedStatus int
		expectNext     bool
	}{
		{
			name:           "admin allowed on admin route",
			allowedRoles:   []models.Role{models.RoleAdmin},
			user:           &models.User{ID: "admin-1", Role: models.RoleAdmin},
			expectedStatus: http.StatusOK,
			expectNext:     true,
		},
		{
			name:           "student rejected on admin route",
			allowedRoles:   []models.Role{models.RoleAdmin},
			user:           &models.User{ID: "student-1", Role: models.RoleStudent},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "student allowed when role listed",
			allowedRoles:   []models.Role{models.RoleAdmin, models.RoleStudent},
			user:           &models.User{ID: "student-1", Role: models.RoleStudent},
			expectedStatus: http.StatusOK,
			expectNext:     true,
		},
		{
			name:           "no authenticated user",
			allowedRoles:   []models.Role{models.RoleAdmin},
			user:           nil,
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				w.WriteHeader(http.StatusOK)
			})

			handler := RequireRole(tt.allowedRoles...)(next)

			req := httptest.NewRequest(http.MethodGet, "/students", nil)
			if tt.user != nil {
				ctx := context.WithValue(req.Context(), userKey, tt.user)
				req = req.WithContext(ctx)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, tt.expectNext, nextCalled)
		})
	}
}
