package handler

import (
	"net/http"

	"hris_backend/internal/model"
	"hris_backend/internal/service"
	"hris_backend/internal/storage"

	"github.com/gin-gonic/gin"
)

// UserHandler handles employee account requests
type UserHandler struct {
	service service.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(s service.UserService) *UserHandler {
	return &UserHandler{service: s}
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var req model.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	user, err := h.service.CreateUser(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err, "Failed to create user")
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	page, err := parsePageOptions(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	users, err := h.service.ListUsers(c.Request.Context(), model.UserFilters{Query: c.Query("q"), Page: page})
	if err != nil {
		writeServiceError(c, err, "Failed to retrieve users")
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	authUser, err := getAuthUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), c.Param("id"), authUser)
	if err != nil {
		writeServiceError(c, err, "Failed to retrieve user")
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	authUser, err := getAuthUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req model.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	user, err := h.service.UpdateUser(c.Request.Context(), c.Param("id"), authUser, req)
	if err != nil {
		writeServiceError(c, err, "Failed to update user")
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	authUser, err := getAuthUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Avatar file is required: " + err.Error()})
		return
	}
	if fileHeader.Size > storage.MaxAvatarSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": storage.ErrFileTooLarge.Error()})
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to open uploaded file"})
		return
	}
	defer src.Close()

	user, err := h.service.UpdateAvatar(c.Request.Context(), c.Param("id"), authUser, src)
	if err != nil {
		writeServiceError(c, err, "Failed to update avatar")
		return
	}
	c.JSON(http.StatusOK, user)
}

// RegisterUserRoutes registers user routes
func (h *UserHandler) RegisterUserRoutes(rg *gin.RouterGroup, authMW, userMW, adminMW gin.HandlerFunc) {
	userRoutes := rg.Group("/users")
	userRoutes.Use(authMW)
	{
		userRoutes.POST("", adminMW, h.CreateUser)
		userRoutes.GET("", adminMW, h.ListUsers)
		userRoutes.GET("/:id", userMW, h.GetUser)      // Service layer handles ownership
		userRoutes.PATCH("/:id", userMW, h.UpdateUser) // Service layer handles ownership
		userRoutes.PATCH("/:id/avatar", userMW, h.UpdateAvatar)
	}
}
