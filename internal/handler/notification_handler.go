package handler

import (
	"net/http"
	"time"

	"aruanda-service/internal/middleware"
	"aruanda-service/internal/model"
	"aruanda-service/pkg/logger"
	"aruanda-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ListNotifications returns the temple's notifications, newest first. With
// ?mine=true only the ones addressed to the caller are returned.
func (h *Handler) ListNotifications(c echo.Context) error {
	sess := middleware.SessionFromContext(c)
	prometheus.RecordRecordOperation("notifications", "list")

	defer prometheus.TrackDBOperation("query")(time.Now())
	notifications, err := h.store.ListNotifications(sess.TempleID)
	if err != nil {
		return errorJSON(c, err)
	}

	if c.QueryParam("mine") == "true" {
		mine := make([]model.Notification, 0, len(notifications))
		for _, n := range notifications {
			if n.TargetsUser(sess.UserID) {
				mine = append(mine, n)
			}
		}
		notifications = mine
	}
	return c.JSON(http.StatusOK, notifications)
}

// CreateNotification publishes a notification to the temple. Target is
// either the "all" sentinel or an explicit user id list; absent targets
// default to everyone.
func (h *Handler) CreateNotification(c echo.Context) error {
	log := logger.FromContext(c)
	sess := middleware.SessionFromContext(c)
	prometheus.RecordRecordOperation("notifications", "create")

	var notification model.Notification
	if err := c.Bind(&notification); err != nil {
		log.Error("Invalid notification data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if notification.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}
	notification.ID = ""
	notification.TempleID = sess.TempleID
	notification.Read = false
	if len(notification.TargetUsers) == 0 {
		notification.TargetUsers = model.StringList{model.TargetAllUsers}
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.store.CreateNotification(&notification); err != nil {
		log.Error("Failed to create notification", zap.String("title", notification.Title), zap.Error(err))
		return errorJSON(c, err)
	}

	log.Info("Notification created",
		zap.String("id", notification.ID),
		zap.String("temple_id", notification.TempleID))
	return c.JSON(http.StatusCreated, notification)
}

// MarkNotificationRead flags a notification as read.
func (h *Handler) MarkNotificationRead(c echo.Context) error {
	log := logger.FromContext(c)
	sess := middleware.SessionFromContext(c)
	prometheus.RecordRecordOperation("notifications", "mark_read")

	id := c.Param("id")
	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := h.store.MarkNotificationRead(sess.TempleID, id); err != nil {
		log.Error("Failed to mark notification as read", zap.String("id", id), zap.Error(err))
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Notification marked as read"})
}

// DeleteNotification removes a notification from the caller's temple.
func (h *Handler) DeleteNotification(c echo.Context) error {
	log := logger.FromContext(c)
	sess := middleware.SessionFromContext(c)
	prometheus.RecordRecordOperation("notifications", "delete")

	id := c.Param("id")
	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := h.store.DeleteNotification(sess.TempleID, id); err != nil {
		log.Error("Failed to delete notification", zap.String("id", id), zap.Error(err))
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Notification deleted"})
}
