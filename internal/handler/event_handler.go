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

// ListEvents returns the temple's calendar entries.
func (h *Handler) ListEvents(c echo.Context) error {
	sess := middleware.SessionFromContext(c)
	prometheus.RecordRecordOperation("events", "list")

	defer prometheus.TrackDBOperation("query")(time.Now())
	events, err := h.store.ListEvents(sess.TempleID)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, events)
}

// GetEvent returns one calendar entry of the caller's temple.
func (h *Handler) GetEvent(c echo.Context) error {
	sess := middleware.SessionFromContext(c)
	prometheus.RecordRecordOperation("events", "get")

	defer prometheus.TrackDBOperation("query")(time.Now())
	event, err := h.store.GetEvent(sess.TempleID, c.Param("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, event)
}

// CreateEvent adds a calendar entry to the caller's temple.
func (h *Handler) CreateEvent(c echo.Context) error {
	log := logger.FromContext(c)
	sess := middleware.SessionFromContext(c)
	prometheus.RecordRecordOperation("events", "create")

	var event model.Event
	if err := c.Bind(&event); err != nil {
		log.Error("Invalid event data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if event.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}
	event.ID = ""
	event.TempleID = sess.TempleID

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.store.CreateEvent(&event); err != nil {
		log.Error("Failed to create event", zap.String("title", event.Title), zap.Error(err))
		return errorJSON(c, err)
	}

	log.Info("Event created",
		zap.String("id", event.ID),
		zap.String("title", event.Title),
		zap.String("temple_id", event.TempleID))
	return c.JSON(http.StatusCreated, event)
}

// UpdateEvent merges provided fields over a calendar entry.
func (h *Handler) UpdateEvent(c echo.Context) error {
	log := logger.FromContext(c)
	sess := middleware.SessionFromContext(c)
	prometheus.RecordRecordOperation("events", "update")

	id := c.Param("id")
	existing, err := h.store.GetEvent(sess.TempleID, id)
	if err != nil {
		return errorJSON(c, err)
	}

	event := *existing
	if err := c.Bind(&event); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	event.ID = id
	event.TempleID = sess.TempleID

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := h.store.UpdateEvent(&event); err != nil {
		log.Error("Failed to update event", zap.String("id", id), zap.Error(err))
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, event)
}

// DeleteEvent removes a calendar entry from the caller's temple.
func (h *Handler) DeleteEvent(c echo.Context) error {
	log := logger.FromContext(c)
	sess := middleware.SessionFromContext(c)
	prometheus.RecordRecordOperation("events", "delete")

	id := c.Param("id")
	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := h.store.DeleteEvent(sess.TempleID, id); err != nil {
		log.Error("Failed to delete event", zap.String("id", id), zap.Error(err))
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Event deleted"})
}
