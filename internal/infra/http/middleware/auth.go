package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/prakashdas-pd/apexbridge-leads/internal/entity"
	"github.com/prakashdas-pd/apexbridge-leads/internal/infra/session"
)

type contextKey string

const SessionContextKey contextKey = "admin_session"

// SessionCookieName is the HTTP-only cookie the login handler sets.
const SessionCookieName = "apexbridge_session"

// Auth accepts "Authorization: Bearer <token>" or the session cookie.
// A structurally valid token is not enough: the Redis session record
// must still exist, so logout really revokes access.
func Auth(tokens *session.TokenManager, sessions entity.SessionStoreInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := ""

			if authHeader := r.Header.Get("Authorization"); authHeader != "" {
				parts := strings.Split(authHeader, " ")
				if len(parts) != 2 || parts[0] != "Bearer" {
					unauthorized(w, "Invalid authorization header format")
					return
				}
				tokenString = parts[1]
			} else if cookie, err := r.Cookie(SessionCookieName); err == nil {
				tokenString = cookie.Value
			}

			if tokenString == "" {
				unauthorized(w, "Authorization required")
				return
			}

			claims, err := tokens.Parse(tokenString)
			if err != nil {
				unauthorized(w, "Invalid or expired token")
				return
			}

			live, err := sessions.Find(r.Context(), claims.ID)
			if err != nil {
				unauthorized(w, "Session expired, please log in again")
				return
			}

			ctx := context.WithValue(r.Context(), SessionContextKey, live)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole gates a route on the session's role. Stack it after Auth.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			live := SessionFromContext(r.Context())
			if live == nil {
				unauthorized(w, "Authorization required")
				return
			}

			for _, role := range roles {
				if live.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]any{
				"success": false,
				"error":   "Insufficient permissions",
			})
		})
	}
}

// SessionFromContext returns the live session the Auth middleware
// attached, or nil outside a protected route.
func SessionFromContext(ctx context.Context) *entity.AdminSession {
	live, _ := ctx.Value(SessionContextKey).(*entity.AdminSession)
	return live
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   msg,
	})
}
