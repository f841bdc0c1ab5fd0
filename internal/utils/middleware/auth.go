package middleware

import (
	"net/http"
	"strings"

	"github.com/carzone/server/internal/model"
	"github.com/carzone/server/internal/port/outbound"
	apperrors "github.com/carzone/server/internal/utils/errors"
	"github.com/carzone/server/internal/utils/requestctx"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// AuthorizationHeader is the header key for authorization.
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens.
	BearerPrefix = "Bearer "
	// UserIDKey is the context key for user ID.
	UserIDKey = "user_id"
	// RoleKey is the context key for the user's role.
	RoleKey = "role"
)

// JWTValidator defines the interface for JWT token validation.
type JWTValidator interface {
	ValidateToken(token string) (*outbound.JWTClaims, error)
}

// Auth returns a middleware that validates bearer tokens and stores the
// caller's ID, email and role in the context. With optional set, missing or
// invalid tokens pass through anonymously.
func Auth(validator JWTValidator, optional bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			if !optional {
				abortWithError(c, apperrors.Unauthorized("authorization header required"))
				return
			}
			c.Next()
			return
		}

		claims, err := validator.ValidateToken(token)
		if err != nil {
			if !optional {
				abortWithError(c, apperrors.New("INVALID_TOKEN", "invalid or expired token", http.StatusUnauthorized, apperrors.ErrUnauthorized))
				return
			}
			c.Next()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(RoleKey, claims.Role)
		c.Request = c.Request.WithContext(requestctx.WithUserID(c.Request.Context(), claims.UserID))

		c.Next()
	}
}

// RequireAuth returns a middleware that requires a valid JWT token.
func RequireAuth(validator JWTValidator) gin.HandlerFunc {
	return Auth(validator, false)
}

// OptionalAuth returns a middleware that optionally validates JWT tokens.
func OptionalAuth(validator JWTValidator) gin.HandlerFunc {
	return Auth(validator, true)
}

// RequireRole rejects callers whose role is not listed. It must run after
// RequireAuth.
func RequireRole(roles ...model.UserRole) gin.HandlerFunc {
	allowed := make(map[model.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		if !IsAuthenticated(c) {
			abortWithError(c, apperrors.Unauthorized(""))
			return
		}
		if _, ok := allowed[GetRole(c)]; !ok {
			abortWithError(c, apperrors.Forbidden("insufficient role"))
			return
		}
		c.Next()
	}
}

func extractBearerToken(c *gin.Context) string {
	authHeader := c.GetHeader(AuthorizationHeader)
	if len(authHeader) <= len(BearerPrefix) || !strings.EqualFold(authHeader[:len(BearerPrefix)], BearerPrefix) {
		return ""
	}
	return strings.TrimSpace(authHeader[len(BearerPrefix):])
}

// GetUserID returns the user ID from context, or uuid.Nil.
func GetUserID(c *gin.Context) uuid.UUID {
	if val, exists := c.Get(UserIDKey); exists {
		if userID, ok := val.(uuid.UUID); ok {
			return userID
		}
	}
	return uuid.Nil
}

// GetRole returns the caller's role from context.
func GetRole(c *gin.Context) model.UserRole {
	if val, exists := c.Get(RoleKey); exists {
		if role, ok := val.(model.UserRole); ok {
			return role
		}
	}
	return ""
}

// GetActor returns the authenticated caller.
func GetActor(c *gin.Context) (model.Actor, bool) {
	userID := GetUserID(c)
	if userID == uuid.Nil {
		return model.Actor{}, false
	}
	return model.Actor{UserID: userID, Role: GetRole(c)}, true
}

// IsAuthenticated returns true if the user is authenticated.
func IsAuthenticated(c *gin.Context) bool {
	return GetUserID(c) != uuid.Nil
}

func abortWithError(c *gin.Context, err *apperrors.AppError) {
	c.AbortWithStatusJSON(err.StatusCode, err.ToResponse())
}
