package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	domainerrors "bid-wiser.backend/internal/domain/errors"
	"bid-wiser.backend/internal/interfaces/http/response"
	"bid-wiser.backend/pkg/jwt"
	"bid-wiser.backend/pkg/logger"
)

const (
	// SessionCookieName is the cookie carrying the session token
	SessionCookieName = "token"
	// AuthorizationHeader is the header key for authorization
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens
	BearerPrefix = "Bearer "
	// UserIDKey is the context key for user ID
	UserIDKey = "userId"
	// UserEmailKey is the context key for user email
	UserEmailKey = "userEmail"
	// UserRoleKey is the context key for user role
	UserRoleKey = "userRole"
	// TokenIDKey is the context key for the session token jti
	TokenIDKey = "tokenId"
	// TokenExpiryKey is the context key for the session token expiry
	TokenExpiryKey = "tokenExpiry"
)

// RevocationChecker reports whether a session token was revoked by logout.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// AuthMiddleware authenticates requests. The session cookie is checked first,
// a Bearer header second, so browser and API clients both work.
func AuthMiddleware(jwtService *jwt.JWTService, revocations RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			abort(c, domainerrors.Unauthorized("Authentication required"))
			return
		}

		claims, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			if err == jwt.ErrExpiredToken {
				abort(c, domainerrors.Unauthorized("Session has expired"))
				return
			}
			abort(c, domainerrors.Unauthorized("Invalid session token"))
			return
		}

		if revocations != nil {
			revoked, err := revocations.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				// Fail closed: an unreachable revocation store must not
				// resurrect logged-out sessions.
				logger.Error(c.Request.Context(), "revocation check failed", zap.Error(err))
				abort(c, domainerrors.Unauthorized("Session is no longer valid"))
				return
			}
			if revoked {
				abort(c, domainerrors.Unauthorized("Session is no longer valid"))
				return
			}
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UserEmailKey, claims.Email)
		c.Set(UserRoleKey, claims.Role)
		c.Set(TokenIDKey, claims.ID)
		if claims.ExpiresAt != nil {
			c.Set(TokenExpiryKey, claims.ExpiresAt.Time)
		}

		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie != "" {
		return cookie
	}
	authHeader := c.GetHeader(AuthorizationHeader)
	if strings.HasPrefix(authHeader, BearerPrefix) {
		return strings.TrimPrefix(authHeader, BearerPrefix)
	}
	return ""
}

func abort(c *gin.Context, err error) {
	response.Error(c, err)
	c.Abort()
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

// GetUserEmail gets the user email from context
func GetUserEmail(c *gin.Context) (string, bool) {
	email, exists := c.Get(UserEmailKey)
	if !exists {
		return "", false
	}
	return email.(string), true
}

// GetUserRole gets the user role from context
func GetUserRole(c *gin.Context) (string, bool) {
	role, exists := c.Get(UserRoleKey)
	if !exists {
		return "", false
	}
	return role.(string), true
}

// GetTokenID gets the session token jti from context
func GetTokenID(c *gin.Context) (string, bool) {
	tokenID, exists := c.Get(TokenIDKey)
	if !exists {
		return "", false
	}
	return tokenID.(string), true
}

// GetTokenExpiry gets the session token expiry from context
func GetTokenExpiry(c *gin.Context) (time.Time, bool) {
	expiry, exists := c.Get(TokenExpiryKey)
	if !exists {
		return time.Time{}, false
	}
	return expiry.(time.Time), true
}

// RequireRole creates a middleware that requires one of the given roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := GetUserRole(c)
		if !exists {
			abort(c, domainerrors.Unauthorized("User role not found"))
			return
		}

		for _, role := range roles {
			if userRole == role {
				c.Next()
				return
			}
		}

		abort(c, domainerrors.Forbidden("Insufficient permissions"))
	}
}

// RequireSuperAdmin creates a middleware that requires the Super Admin role
func RequireSuperAdmin() gin.HandlerFunc {
	return RequireRole("Super Admin")
}
