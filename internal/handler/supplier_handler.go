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

// ListSuppliers returns the temple's supplier records.
func (h *Handler) ListSuppliers(c echo.Context) error {
	sess := middleware.SessionFromContext(c)
	prometheus.RecordRecordOperation("suppliers", "list")

	defer prometheus.TrackDBOperation("query")(time.Now())
	suppliers, err := h.store.ListSuppliers(sess.TempleID)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, suppliers)
}

// GetSupplier returns one supplier of the caller's temple.
func (h *Handler) GetSupplier(c echo.Context) error {
	sess := middleware.SessionFromContext(c)
	prometheus.RecordRecordOperation("suppliers", "get")

	defer prometheus.TrackDBOperation("query")(time.Now())
	supplier, err := h.store.GetSupplier(sess.TempleID, c.Param("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, supplier)
}

// CreateSupplier adds a supplier to the caller's temple.
func (h *Handler) CreateSupplier(c echo.Context) error {
	log := logger.FromContext(c)
	sess := middleware.SessionFromContext(c)
	prometheus.RecordRecordOperation("suppliers", "create")

	var supplier model.Supplier
	if err := c.Bind(&supplier); err != nil {
		log.Error("Invalid supplier data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if supplier.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	supplier.ID = ""
	supplier.TempleID = sess.TempleID

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.store.CreateSupplier(&supplier); err != nil {
		log.Error("Failed to create supplier", zap.String("name", supplier.Name), zap.Error(err))
		return errorJSON(c, err)
	}

	log.Info("Supplier created",
		zap.String("id", supplier.ID),
		zap.String("temple_id", supplier.TempleID))
	return c.JSON(http.StatusCreated, supplier)
}

// UpdateSupplier merges provided fields over a supplier.
func (h *Handler) UpdateSupplier(c echo.Context) error {
	log := logger.FromContext(c)
	sess := middleware.SessionFromContext(c)
	prometheus.RecordRecordOperation("suppliers", "update")

	id := c.Param("id")
	existing, err := h.store.GetSupplier(sess.TempleID, id)
	if err != nil {
		return errorJSON(c, err)
	}

	supplier := *existing
	if err := c.Bind(&supplier); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	supplier.ID = id
	supplier.TempleID = sess.TempleID

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := h.store.UpdateSupplier(&supplier); err != nil {
		log.Error("Failed to update supplier", zap.String("id", id), zap.Error(err))
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, supplier)
}

// DeleteSupplier removes a supplier from the caller's temple.
func (h *Handler) DeleteSupplier(c echo.Context) error {
	log := logger.FromContext(c)
	sess := middleware.SessionFromContext(c)
	prometheus.RecordRecordOperation("suppliers", "delete")

	id := c.Param("id")
	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := h.store.DeleteSupplier(sess.TempleID, id); err != nil {
		log.Error("Failed to delete supplier", zap.String("id", id), zap.Error(err))
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Supplier deleted"})
}
