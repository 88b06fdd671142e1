package handler

import (
	"net/http"
	"time"

	"hris_backend/internal/model"
	"hris_backend/internal/service"

	"github.com/gin-gonic/gin"
)

// AbsenceHandler handles clock-in and clock-out requests
type AbsenceHandler struct {
	service service.AbsenceService
	loc     *time.Location
}

// NewAbsenceHandler creates a new AbsenceHandler. Date filters are read in loc.
func NewAbsenceHandler(s service.AbsenceService, loc *time.Location) *AbsenceHandler {
	return &AbsenceHandler{service: s, loc: loc}
}

func (h *AbsenceHandler) CreateAbsence(c *gin.Context) {
	user, err := getAuthUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req model.CreateAbsenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	absence, err := h.service.CreateAbsence(c.Request.Context(), user.ID, req.Status)
	if err != nil {
		writeServiceError(c, err, "Failed to create absence")
		return
	}
	c.JSON(http.StatusCreated, absence)
}

// parseFilters reads page, take, startDate and endDate from the query string
func (h *AbsenceHandler) parseFilters(c *gin.Context) (model.AbsenceFilters, bool) {
	var filters model.AbsenceFilters
	page, err := parsePageOptions(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return filters, false
	}
	filters.Page = page

	if startDateParam := c.Query("startDate"); startDateParam != "" {
		startDate, err := parseDateParam(startDateParam, h.loc, false)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format for 'startDate', use YYYY-MM-DD"})
			return filters, false
		}
		filters.StartDate = &startDate
	}
	if endDateParam := c.Query("endDate"); endDateParam != "" {
		endDate, err := parseDateParam(endDateParam, h.loc, true)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format for 'endDate', use YYYY-MM-DD"})
			return filters, false
		}
		filters.EndDate = &endDate
	}
	return filters, true
}

func (h *AbsenceHandler) ListAbsences(c *gin.Context) {
	filters, ok := h.parseFilters(c)
	if !ok {
		return
	}

	page, err := h.service.ListAbsences(c.Request.Context(), filters)
	if err != nil {
		writeServiceError(c, err, "Failed to retrieve absences")
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *AbsenceHandler) ListUserAbsences(c *gin.Context) {
	user, err := getAuthUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	filters, ok := h.parseFilters(c)
	if !ok {
		return
	}

	page, err := h.service.ListUserAbsences(c.Request.Context(), c.Param("id"), user.ID, user.Role, filters)
	if err != nil {
		writeServiceError(c, err, "Failed to retrieve absences")
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *AbsenceHandler) GetTodayAbsences(c *gin.Context) {
	user, err := getAuthUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	absences, err := h.service.TodayAbsences(c.Request.Context(), user.ID)
	if err != nil {
		writeServiceError(c, err, "Failed to retrieve today's absences")
		return
	}
	c.JSON(http.StatusOK, absences)
}

func (h *AbsenceHandler) GetAbsenceByID(c *gin.Context) {
	user, err := getAuthUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	absence, err := h.service.GetAbsenceByID(c.Request.Context(), c.Param("id"), user.ID, user.Role)
	if err != nil {
		writeServiceError(c, err, "Failed to retrieve absence")
		return
	}
	c.JSON(http.StatusOK, absence)
}

func (h *AbsenceHandler) UpdateAbsence(c *gin.Context) {
	user, err := getAuthUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req model.UpdateAbsenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	absence, err := h.service.UpdateAbsence(c.Request.Context(), c.Param("id"), user.ID, user.Role, req)
	if err != nil {
		writeServiceError(c, err, "Failed to update absence")
		return
	}
	c.JSON(http.StatusAccepted, absence)
}

func (h *AbsenceHandler) DeleteAbsence(c *gin.Context) {
	user, err := getAuthUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.DeleteAbsence(c.Request.Context(), c.Param("id"), user.ID, user.Role); err != nil {
		writeServiceError(c, err, "Failed to delete absence")
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "Absence deleted successfully"})
}

// RegisterAbsenceRoutes registers absence routes
func (h *AbsenceHandler) RegisterAbsenceRoutes(rg *gin.RouterGroup, authMW, userMW, employeeMW, adminMW gin.HandlerFunc) {
	absenceRoutes := rg.Group("/absences")
	absenceRoutes.Use(authMW)
	{
		absenceRoutes.POST("", employeeMW, h.CreateAbsence)
		absenceRoutes.GET("", adminMW, h.ListAbsences)
		absenceRoutes.GET("/user/:id", userMW, h.ListUserAbsences) // Service layer handles ownership
		absenceRoutes.GET("/today/me", employeeMW, h.GetTodayAbsences)
		absenceRoutes.GET("/:id", userMW, h.GetAbsenceByID)
		absenceRoutes.PUT("/:id", userMW, h.UpdateAbsence)
		absenceRoutes.DELETE("/:id", userMW, h.DeleteAbsence)
	}
}
