// ABOUTME: Authentication middleware for habitat API requests.
// ABOUTME: Parses Bearer tokens and extracts user identity for request context.

package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const userContextKey contextKey = "user"

// DefaultUser is attributed when no credentials are presented.
const DefaultUser = "default"

func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := extractUser(r.Header.Get("Authorization"))
		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserFromContext returns the acting user set by Middleware.
func UserFromContext(ctx context.Context) string {
	user, ok := ctx.Value(userContextKey).(string)
	if !ok || user == "" {
		return DefaultUser
	}
	return user
}

func extractUser(authHeader string) string {
	if authHeader == "" {
		return DefaultUser
	}

	token := strings.TrimPrefix(authHeader, "Bearer ")
	token = strings.TrimSpace(token)
	if token == "" {
		return DefaultUser
	}

	// "user:NAME" tokens select an explicit user. Anything else is treated
	// as the token's owner directly; habitat is single-tenant per token and
	// does not validate token contents.
	if strings.HasPrefix(token, "user:") {
		return strings.TrimPrefix(token, "user:")
	}
	return token
}
