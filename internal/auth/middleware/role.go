package middleware

import (
	"net/http"
	"slices"

	"github.com/studentrecords/backend/internal/models"
)

// RequireRole checks that the authenticated user's role is in the allowed
// set. It must run after Authenticate; a request without a resolved user
// is rejected as unauthenticated.
func RequireRole(allowedRoles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				respondMessage(w, http.StatusUnauthorized, "Not authorized, no token")
				return
			}

			if !slices.Contains(allowedRoles, user.Role) {
				respondMessage(w, http.StatusForbidden, "Not authorized to access this route")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
