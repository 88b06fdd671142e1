package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"hris_backend/internal/middleware"
	"hris_backend/internal/model"
	"hris_backend/internal/service"
	"hris_backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Helper to get the authenticated user from context
func getAuthUser(c *gin.Context) (*model.User, error) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok || user == nil {
		return nil, errors.New("authenticated user not found in context")
	}
	return user, nil
}

// Helper to get the raw bearer token from context
func getAuthToken(c *gin.Context) string {
	return c.GetString(middleware.AuthTokenKey)
}

// parsePageOptions reads page and take. Missing or out-of-range values fall back to defaults.
func parsePageOptions(c *gin.Context) (model.PageOptions, error) {
	var opts model.PageOptions
	if pageParam := c.Query("page"); pageParam != "" {
		page, err := strconv.Atoi(pageParam)
		if err != nil {
			return opts, fmt.Errorf("invalid 'page' parameter")
		}
		opts.Page = page
	}
	if takeParam := c.Query("take"); takeParam != "" {
		take, err := strconv.Atoi(takeParam)
		if err != nil {
			return opts, fmt.Errorf("invalid 'take' parameter")
		}
		opts.Take = take
	}
	return opts.Normalize(), nil
}

// parseDateParam accepts YYYY-MM-DD, read as a calendar day in loc, or an RFC 3339 timestamp.
// With endOfDay set, a plain date resolves to the last instant of that day.
func parseDateParam(value string, loc *time.Location, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	d, err := time.ParseInLocation("2006-01-02", value, loc)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		d = time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 999999999, loc)
	}
	return d, nil
}

// writeServiceError maps service errors to HTTP statuses; anything unknown is logged and becomes a 500
func writeServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrUnauthorized), errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrAbsenceNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrAbsenceConflict), errors.Is(err, service.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrPasswordConfirmation), errors.Is(err, service.ErrWeakPassword):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidStatus), errors.Is(err, storage.ErrNotAnImage), errors.Is(err, storage.ErrFileTooLarge):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Err(err).Str("path", c.FullPath()).Msg(fallback)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
