package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/WatermalonExp/student-ai-portal/shared/utils"
	"github.com/WatermalonExp/student-ai-portal/v1/models"
)

// contextKey is a custom type for context keys used with context.WithValue.
// Defining a custom type helps avoid key collisions with context keys defined in other packages.
type contextKey string

const (
	// authenticatedUserKey is the context key for the resolved user identity
	authenticatedUserKey contextKey = "authenticatedUser"
)

// IdentityResolver resolves a user id to its authenticated identity
type IdentityResolver interface {
	GetUser(userID uint) (*models.AuthenticatedUser, error)
}

// AuthMiddleware resolves the X-User-ID header to an authenticated user.
// Session transport is out of scope for the portal itself; the header is
// expected to come from the fronting gateway, which owns credentials.
type AuthMiddleware struct {
	identities IdentityResolver
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(identities IdentityResolver) *AuthMiddleware {
	return &AuthMiddleware{identities: identities}
}

// Authenticate validates the X-User-ID header and attaches the resolved user
// to the request context
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("X-User-ID")
		if header == "" {
			utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		userID, err := strconv.ParseUint(header, 10, 32)
		if err != nil || userID == 0 {
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid user identifier")
			return
		}

		user, err := m.identities.GetUser(uint(userID))
		if err != nil {
			slog.Warn("Failed to resolve authenticated user", "userId", userID, "error", err)
			utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		ctx := context.WithValue(r.Context(), authenticatedUserKey, user)
		r = r.WithContext(ctx)

		slog.Debug("User authenticated", "user", user.String())

		next.ServeHTTP(w, r)
	})
}

// GetUserFromContext extracts the authenticated user from the request context
func GetUserFromContext(ctx context.Context) (*models.AuthenticatedUser, bool) {
	user, ok := ctx.Value(authenticatedUserKey).(*models.AuthenticatedUser)
	return user, ok
}

// GetUserFromRequest is a convenience wrapper around GetUserFromContext
func GetUserFromRequest(r *http.Request) (*models.AuthenticatedUser, bool) {
	return GetUserFromContext(r.Context())
}
