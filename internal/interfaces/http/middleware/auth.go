package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"smilecare.backend/internal/domain/entities"
	domainerrors "smilecare.backend/internal/domain/errors"
	"smilecare.backend/internal/interfaces/http/response"
	"smilecare.backend/pkg/jwt"
	"smilecare.backend/pkg/logger"
)

const (
	// AuthorizationHeader is the header key for authorization
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens
	BearerPrefix = "Bearer "
	// TokenQueryParam carries the access token on websocket upgrades
	TokenQueryParam = "token"
	// UserIDKey is the context key for user ID
	UserIDKey = "userId"
	// UserRoleKey is the context key for user role
	UserRoleKey = "userRole"
	// UserKey is the context key for the loaded user
	UserKey = "user"
)

// UserLoader loads the acting user for a verified token
type UserLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
}

// AuthMiddleware verifies the bearer access token and loads the acting user
func AuthMiddleware(jwtService *jwt.JWTService, users UserLoader) gin.HandlerFunc {
	return authenticate(jwtService, users, false)
}

// QueryTokenAuthMiddleware also accepts ?token= for clients that cannot set headers (websockets)
func QueryTokenAuthMiddleware(jwtService *jwt.JWTService, users UserLoader) gin.HandlerFunc {
	return authenticate(jwtService, users, true)
}

func authenticate(jwtService *jwt.JWTService, users UserLoader, allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		token, err := bearerToken(c, allowQuery)
		if err != nil {
			logger.Warn(ctx, "Auth rejected", zap.String("path", c.Request.URL.Path), zap.Error(err))
			response.AbortWithError(c, err)
			return
		}

		claims := jwtService.Verify(token, jwt.TypeAccess)
		if claims == nil {
			response.AbortWithError(c, domainerrors.Unauthorized("Invalid or expired token"))
			return
		}

		user, err := users.GetByID(ctx, claims.UserID)
		if err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				response.AbortWithError(c, domainerrors.Unauthorized("User not found"))
				return
			}
			response.AbortWithError(c, err)
			return
		}
		if !user.IsActive {
			response.AbortWithError(c, domainerrors.Unauthorized("Account is deactivated"))
			return
		}

		user = user.Sanitize()
		c.Set(UserKey, user)
		c.Set(UserIDKey, user.ID)
		c.Set(UserRoleKey, user.UserType)

		ctx = context.WithValue(ctx, logger.UserIDKey, user.ID.String())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func bearerToken(c *gin.Context, allowQuery bool) (string, error) {
	authHeader := c.GetHeader(AuthorizationHeader)
	if authHeader == "" {
		if allowQuery {
			if token := c.Query(TokenQueryParam); token != "" {
				return token, nil
			}
		}
		return "", domainerrors.Unauthorized("Authorization header is required")
	}
	if !strings.HasPrefix(authHeader, BearerPrefix) {
		return "", domainerrors.Unauthorized("Invalid authorization format. Use: Bearer <token>")
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, BearerPrefix))
	if token == "" {
		return "", domainerrors.Unauthorized("Authorization header is required")
	}
	return token, nil
}

// CurrentUser returns the user loaded by AuthMiddleware
func CurrentUser(c *gin.Context) (*entities.User, bool) {
	v, exists := c.Get(UserKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*entities.User)
	return user, ok && user != nil
}

// GetUserID gets the user ID from context
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := userID.(uuid.UUID)
	return id, ok
}

// GetUserRole gets the user role from context
func GetUserRole(c *gin.Context) (entities.UserRole, bool) {
	role, exists := c.Get(UserRoleKey)
	if !exists {
		return "", false
	}
	r, ok := role.(entities.UserRole)
	return r, ok
}

// RequireRole rejects users whose role is not in the allowed set
func RequireRole(roles ...entities.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := GetUserRole(c)
		if !exists {
			response.AbortWithError(c, domainerrors.Unauthorized("Authentication required"))
			return
		}

		for _, role := range roles {
			if userRole == role {
				c.Next()
				return
			}
		}

		response.AbortWithError(c, domainerrors.Forbidden("Insufficient permissions"))
	}
}

// RequireAdmin creates a middleware that requires admin role
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(entities.UserRoleAdmin)
}
