package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/studentrecords/backend/internal/auth"
	"github.com/studentrecords/backend/internal/models"
)

type contextKey string

const userKey contextKey = "authUser"

// UserStore resolves token subjects to live user records
type UserStore interface {
	// Method GetByID retrieves a user by ID.
	//
	// If no user with such ID exists, models.ErrUserNotFound is returned
	// together with "nil" value.
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// Authenticate validates the bearer token from the Authorization header,
// resolves its subject against the user store and attaches the resolved
// user to the request context. A valid token whose subject no longer
// exists is rejected, so deleted accounts cannot keep using old tokens.
func Authenticate(tokens *auth.TokenGenerator, store UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Expected format: "Bearer <token>"
			var token string
			authHeader := r.Header.Get("Authorization")
			if authHeader != "" {
				parts := strings.Split(authHeader, " ")
				if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
					token = parts[1]
				}
			}

			if token == "" {
				respondMessage(w, http.StatusUnauthorized, "Not authorized, no token")
				return
			}

			claims, err := tokens.Validate(token)
			if err != nil {
				respondMessage(w, http.StatusUnauthorized, "Not authorized, token failed")
				return
			}

			user, err := store.GetByID(r.Context(), claims.UserID)
			if err != nil {
				if errors.Is(err, models.ErrUserNotFound) {
					respondMessage(w, http.StatusUnauthorized, "Not authorized, token failed")
					return
				}
				respondMessage(w, http.StatusInternalServerError, "Server error")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext retrieves the authenticated user from context
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"message":"` + message + `"}`))
}
