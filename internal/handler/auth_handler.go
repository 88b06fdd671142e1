package handler

import (
	"net/http"

	"hris_backend/internal/model"
	"hris_backend/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	service     service.AuthService
	userService service.UserService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(s service.AuthService, us service.UserService) *AuthHandler {
	return &AuthHandler{service: s, userService: us}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	user, token, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(c, err, "Failed to login")
		return
	}

	c.JSON(http.StatusOK, model.LoginResponse{User: user, Token: token})
}

// Me returns the caller with their latest clock-in and clock-out
func (h *AuthHandler) Me(c *gin.Context) {
	authUser, err := getAuthUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.GetUserWithLastAbsence(c.Request.Context(), authUser.ID)
	if err != nil {
		writeServiceError(c, err, "Failed to retrieve current user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// Logout revokes the caller's token. It always succeeds.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.service.Logout(c.Request.Context(), getAuthToken(c))
	c.JSON(http.StatusOK, true)
}

// RegisterAuthRoutes registers auth routes
func (h *AuthHandler) RegisterAuthRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/login", h.Login)
		authGroup.GET("/me", authMW, h.Me)
		authGroup.POST("/logout", authMW, h.Logout)
	}
}
