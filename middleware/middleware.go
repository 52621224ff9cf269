package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sanketrathod07/taskview/logging"
	"github.com/sanketrathod07/taskview/models"
	"github.com/sanketrathod07/taskview/services"
	"github.com/sanketrathod07/taskview/utils"
)

// SessionCookieName is the HTTP-only cookie carrying the session token. The
// cookie wins over the Authorization header when both are present.
const SessionCookieName = "jwt"

type contextKey string

const userContextKey contextKey = "currentUser"

// JWTAuthMiddleware resolves the session token to a user and attaches it to
// the request context. Every failure mode (no token, bad token, expired
// token, vanished user) answers with the same 401 body.
func JWTAuthMiddleware(users *services.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := extractToken(r)
			if tokenStr == "" {
				logging.Logger.Warnf("Event ID: JWT_AUTH_MISSING_TOKEN, Description: No session token for request to %s %s", r.Method, r.URL.Path)
				respondUnauthorized(w)
				return
			}

			claims, err := utils.ValidateToken(tokenStr)
			if err != nil {
				logging.Logger.Warnf("Event ID: JWT_AUTH_INVALID_TOKEN, Description: Invalid token for request to %s %s: %v", r.Method, r.URL.Path, err)
				respondUnauthorized(w)
				return
			}

			userID, err := primitive.ObjectIDFromHex(claims.UserID)
			if err != nil {
				respondUnauthorized(w)
				return
			}

			user, err := users.GetByID(r.Context(), userID)
			if err != nil {
				logging.Logger.Warnf("Event ID: JWT_AUTH_USER_MISSING, Description: Token user %s no longer exists", claims.UserID)
				respondUnauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractToken(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

func respondUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": "Not authorized",
	})
}

// UserFromContext returns the user the session guard attached to the request.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	return user, ok
}
