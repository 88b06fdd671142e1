package handler

import (
	"errors"
	"net/http"

	"hris_backend/internal/events"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// NotificationHandler exposes push-notification topics
type NotificationHandler struct {
	notifier *events.Notifier
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(n *events.Notifier) *NotificationHandler {
	return &NotificationHandler{notifier: n}
}

type sendNotificationRequest struct {
	Title string            `json:"title" binding:"required"`
	Body  string            `json:"body" binding:"required"`
	Data  map[string]string `json:"data"`
}

type subscriptionRequest struct {
	Token string `json:"token" binding:"required"`
}

func (h *NotificationHandler) SendToTopic(c *gin.Context) {
	var req sendNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	id, err := h.notifier.SendToTopic(c.Request.Context(), c.Param("topic"), req.Title, req.Body, req.Data)
	if err != nil {
		h.writeError(c, err, "Failed to send topic notification")
		return
	}
	c.JSON(http.StatusOK, gin.H{"messageId": id})
}

func (h *NotificationHandler) Subscribe(c *gin.Context) {
	var req subscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	topic := c.Param("topic")
	if err := h.notifier.Subscribe(c.Request.Context(), topic, req.Token); err != nil {
		h.writeError(c, err, "Failed to subscribe token to topic")
		return
	}
	c.JSON(http.StatusOK, "Subscribed to topic "+topic+" successfully")
}

func (h *NotificationHandler) Unsubscribe(c *gin.Context) {
	var req subscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	topic := c.Param("topic")
	if err := h.notifier.Unsubscribe(c.Request.Context(), topic, req.Token); err != nil {
		h.writeError(c, err, "Failed to unsubscribe token from topic")
		return
	}
	c.JSON(http.StatusOK, "Unsubscribed from topic "+topic+" successfully")
}

func (h *NotificationHandler) writeError(c *gin.Context, err error, msg string) {
	if errors.Is(err, events.ErrEmptyTopic) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	log.Err(err).Str("topic", c.Param("topic")).Msg(msg)
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// RegisterNotificationRoutes registers push-notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(rg *gin.RouterGroup, authMW, userMW, adminMW gin.HandlerFunc) {
	fcmRoutes := rg.Group("/fcm")
	fcmRoutes.Use(authMW)
	{
		fcmRoutes.POST("/:topic/send", adminMW, h.SendToTopic)
		fcmRoutes.POST("/:topic/subscribe", userMW, h.Subscribe)
		fcmRoutes.POST("/:topic/unsubscribe", userMW, h.Unsubscribe)
	}
}
