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

// ListMediums returns the temple's medium registry, newest first.
func (h *Handler) ListMediums(c echo.Context) error {
	sess := middleware.SessionFromContext(c)
	prometheus.RecordRecordOperation("mediums", "list")

	defer prometheus.TrackDBOperation("query")(time.Now())
	mediums, err := h.store.ListMediums(sess.TempleID)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, mediums)
}

// GetMedium returns one medium of the caller's temple.
func (h *Handler) GetMedium(c echo.Context) error {
	sess := middleware.SessionFromContext(c)
	prometheus.RecordRecordOperation("mediums", "get")

	defer prometheus.TrackDBOperation("query")(time.Now())
	medium, err := h.store.GetMedium(sess.TempleID, c.Param("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, medium)
}

// CreateMedium registers a new medium in the caller's temple.
func (h *Handler) CreateMedium(c echo.Context) error {
	log := logger.FromContext(c)
	sess := middleware.SessionFromContext(c)
	prometheus.RecordRecordOperation("mediums", "create")

	var medium model.Medium
	if err := c.Bind(&medium); err != nil {
		log.Error("Invalid medium data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if medium.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	medium.ID = ""
	// The temple always comes from the session, never from the payload.
	medium.TempleID = sess.TempleID

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.store.CreateMedium(&medium); err != nil {
		log.Error("Failed to create medium", zap.String("name", medium.Name), zap.Error(err))
		return errorJSON(c, err)
	}

	log.Info("Medium created",
		zap.String("id", medium.ID),
		zap.String("temple_id", medium.TempleID))
	return c.JSON(http.StatusCreated, medium)
}

// UpdateMedium merges provided fields over a medium. The status/exit-date
// pairing is maintained by the store.
func (h *Handler) UpdateMedium(c echo.Context) error {
	log := logger.FromContext(c)
	sess := middleware.SessionFromContext(c)
	prometheus.RecordRecordOperation("mediums", "update")

	id := c.Param("id")
	existing, err := h.store.GetMedium(sess.TempleID, id)
	if err != nil {
		return errorJSON(c, err)
	}

	medium := *existing
	if err := c.Bind(&medium); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	medium.ID = id
	medium.TempleID = sess.TempleID

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := h.store.UpdateMedium(&medium); err != nil {
		log.Error("Failed to update medium", zap.String("id", id), zap.Error(err))
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, medium)
}

// DeleteMedium removes a medium from the caller's temple.
func (h *Handler) DeleteMedium(c echo.Context) error {
	log := logger.FromContext(c)
	sess := middleware.SessionFromContext(c)
	prometheus.RecordRecordOperation("mediums", "delete")

	id := c.Param("id")
	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := h.store.DeleteMedium(sess.TempleID, id); err != nil {
		log.Error("Failed to delete medium", zap.String("id", id), zap.Error(err))
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Medium deleted"})
}
