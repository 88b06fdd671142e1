package middleware

import (
	"errors"
	"net/http"
	"strings"

	"hris_backend/internal/model"
	"hris_backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	AuthUserKey  = "authUser"
	AuthRoleKey  = "authRole"
	AuthTokenKey = "authToken"
	CurrentUser  = "currentUser"
)

// JWTAuthMiddleware authenticates the bearer token and stores the caller in the context
func JWTAuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			return
		}

		tokenString := parts[1]
		user, err := authService.Authenticate(c.Request.Context(), tokenString)
		if err != nil {
			if errors.Is(err, service.ErrUnauthorized) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
				return
			}
			log.Err(err).Msg("token authentication failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to authenticate request"})
			return
		}

		// Set user information in context
		c.Set(AuthUserKey, user.ID)
		c.Set(AuthRoleKey, user.Role)
		c.Set(AuthTokenKey, tokenString)
		c.Set(CurrentUser, user)

		c.Next()
	}
}

// GetCurrentUser returns the authenticated user stored by JWTAuthMiddleware
func GetCurrentUser(c *gin.Context) (*model.User, bool) {
	val, exists := c.Get(CurrentUser)
	if !exists {
		return nil, false
	}
	user, ok := val.(*model.User)
	return user, ok
}
