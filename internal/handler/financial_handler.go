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

// ListFinancialRecords returns the temple's ledger, newest first.
func (h *Handler) ListFinancialRecords(c echo.Context) error {
	sess := middleware.SessionFromContext(c)
	prometheus.RecordRecordOperation("financial_records", "list")

	defer prometheus.TrackDBOperation("query")(time.Now())
	records, err := h.store.ListFinancialRecords(sess.TempleID)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, records)
}

// GetFinancialRecord returns one ledger entry of the caller's temple.
func (h *Handler) GetFinancialRecord(c echo.Context) error {
	sess := middleware.SessionFromContext(c)
	prometheus.RecordRecordOperation("financial_records", "get")

	defer prometheus.TrackDBOperation("query")(time.Now())
	record, err := h.store.GetFinancialRecord(sess.TempleID, c.Param("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, record)
}

// CreateFinancialRecord adds a ledger entry. The store rejects negative
// amounts and supplier references outside expense records.
func (h *Handler) CreateFinancialRecord(c echo.Context) error {
	log := logger.FromContext(c)
	sess := middleware.SessionFromContext(c)
	prometheus.RecordRecordOperation("financial_records", "create")

	var record model.FinancialRecord
	if err := c.Bind(&record); err != nil {
		log.Error("Invalid financial record data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if record.Type != model.RecordIncome && record.Type != model.RecordExpense {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "type must be income or expense"})
	}
	record.ID = ""
	record.TempleID = sess.TempleID

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.store.CreateFinancialRecord(&record); err != nil {
		log.Error("Failed to create financial record",
			zap.String("type", record.Type),
			zap.Float64("amount", record.Amount),
			zap.Error(err))
		return errorJSON(c, err)
	}

	log.Info("Financial record created",
		zap.String("id", record.ID),
		zap.String("type", record.Type),
		zap.String("temple_id", record.TempleID))
	return c.JSON(http.StatusCreated, record)
}

// UpdateFinancialRecord merges provided fields over a ledger entry.
func (h *Handler) UpdateFinancialRecord(c echo.Context) error {
	log := logger.FromContext(c)
	sess := middleware.SessionFromContext(c)
	prometheus.RecordRecordOperation("financial_records", "update")

	id := c.Param("id")
	existing, err := h.store.GetFinancialRecord(sess.TempleID, id)
	if err != nil {
		return errorJSON(c, err)
	}

	record := *existing
	if err := c.Bind(&record); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	record.ID = id
	record.TempleID = sess.TempleID

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := h.store.UpdateFinancialRecord(&record); err != nil {
		log.Error("Failed to update financial record", zap.String("id", id), zap.Error(err))
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, record)
}

// DeleteFinancialRecord removes a ledger entry from the caller's temple.
func (h *Handler) DeleteFinancialRecord(c echo.Context) error {
	log := logger.FromContext(c)
	sess := middleware.SessionFromContext(c)
	prometheus.RecordRecordOperation("financial_records", "delete")

	id := c.Param("id")
	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := h.store.DeleteFinancialRecord(sess.TempleID, id); err != nil {
		log.Error("Failed to delete financial record", zap.String("id", id), zap.Error(err))
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Financial record deleted"})
}
