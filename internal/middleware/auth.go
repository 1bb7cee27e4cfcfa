package middleware

import (
	"context"
	"net/http"
	"strings"

	"glasstrade-backend/internal/auth"
	"glasstrade-backend/internal/models"
	"glasstrade-backend/pkg/utils"
)

type contextKey string

const actorKey contextKey = "actor"

type AuthMiddleware struct {
	jwtManager *auth.JWTManager
}

func NewAuthMiddleware(jwtManager *auth.JWTManager) *AuthMiddleware {
	return &AuthMiddleware{jwtManager: jwtManager}
}

// actorFromRequest validates the bearer token and builds the immutable
// per-request actor. The role rides in the signed claims, so no
// identity lookup happens past this point.
func (m *AuthMiddleware) actorFromRequest(r *http.Request) (models.Actor, string) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return models.Actor{}, "Authorization header required"
	}

	// Extract token from "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return models.Actor{}, "Invalid authorization format"
	}

	claims, err := m.jwtManager.ValidateToken(parts[1])
	if err != nil {
		return models.Actor{}, "Invalid or expired token"
	}

	return models.Actor{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   claims.Role,
	}, ""
}

// Authenticate validates the token and stores the actor in context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, errMsg := m.actorFromRequest(r)
		if errMsg != "" {
			utils.Error(w, http.StatusUnauthorized, errMsg)
			return
		}

		ctx := context.WithValue(r.Context(), actorKey, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole ensures the actor has one of the allowed roles.
func (m *AuthMiddleware) RequireRole(allowedRoles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, errMsg := m.actorFromRequest(r)
			if errMsg != "" {
				utils.Error(w, http.StatusUnauthorized, errMsg)
				return
			}

			hasRole := false
			for _, role := range allowedRoles {
				if actor.Role == role {
					hasRole = true
					break
				}
			}
			if !hasRole {
				utils.Error(w, http.StatusForbidden, "Forbidden: insufficient permissions")
				return
			}

			ctx := context.WithValue(r.Context(), actorKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireStaff allows admin and staff roles.
func (m *AuthMiddleware) RequireStaff(next http.Handler) http.Handler {
	return m.RequireRole(models.RoleAdmin, models.RoleStaff)(next)
}

// RequireAdmin allows the admin role only.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return m.RequireRole(models.RoleAdmin)(next)
}

// ActorFromContext extracts the request actor set by the middleware.
func ActorFromContext(ctx context.Context) (models.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(models.Actor)
	return actor, ok
}
