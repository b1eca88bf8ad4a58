package handler

import (
	"net/http"
	"time"

	"aruanda-service/internal/auth"
	"aruanda-service/internal/middleware"
	"aruanda-service/internal/model"
	"aruanda-service/pkg/logger"
	"aruanda-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// templeView decorates a temple with its computed trial window.
type templeView struct {
	model.Temple
	TrialEndsAt   time.Time `json:"trial_ends_at"`
	TrialExpired  bool      `json:"trial_expired"`
	TrialDaysLeft int       `json:"trial_days_left"`
}

func (h *Handler) templeView(t model.Temple) templeView {
	days := h.cfg.Tenant.TrialDays
	return templeView{
		Temple:        t,
		TrialEndsAt:   t.TrialEndsAt(days),
		TrialExpired:  t.TrialExpired(days),
		TrialDaysLeft: t.TrialDaysLeft(days),
	}
}

// ListTemples returns the full directory, including inactive temples and
// trial status, for the master admin's management view.
func (h *Handler) ListTemples(c echo.Context) error {
	sess := middleware.SessionFromContext(c)
	prometheus.RecordTempleOperation("list")

	defer prometheus.TrackDBOperation("query")(time.Now())
	temples, err := h.auth.Temples(sess)
	if err != nil {
		return errorJSON(c, err)
	}
	views := make([]templeView, 0, len(temples))
	for _, t := range temples {
		views = append(views, h.templeView(t))
	}
	return c.JSON(http.StatusOK, views)
}

// GetTemple returns one temple with trial status. The caller sees only
// their own temple; the full directory belongs to the master admin.
func (h *Handler) GetTemple(c echo.Context) error {
	sess := middleware.SessionFromContext(c)
	prometheus.RecordTempleOperation("access")

	id := c.Param("id")
	if !sess.IsMasterAdmin() && sess.TempleID != id {
		return errorJSON(c, auth.ErrForbidden)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	temple, err := h.auth.GetTemple(id)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, h.templeView(*temple))
}

// CreateTemple adds a tenant. Master admin only.
func (h *Handler) CreateTemple(c echo.Context) error {
	log := logger.FromContext(c)
	sess := middleware.SessionFromContext(c)
	prometheus.RecordTempleOperation("create")

	var temple model.Temple
	if err := c.Bind(&temple); err != nil {
		log.Error("Failed to parse temple creation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if temple.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	temple.ID = ""

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.auth.CreateTemple(sess, &temple); err != nil {
		log.Error("Failed to create temple", zap.String("name", temple.Name), zap.Error(err))
		return errorJSON(c, err)
	}

	log.Info("Temple created",
		zap.String("id", temple.ID),
		zap.String("name", temple.Name))
	h.refreshTempleGauge()
	return c.JSON(http.StatusCreated, h.templeView(temple))
}

// UpdateTemple edits a tenant. Master admin only; provided fields are
// merged over the stored record.
func (h *Handler) UpdateTemple(c echo.Context) error {
	log := logger.FromContext(c)
	sess := middleware.SessionFromContext(c)
	prometheus.RecordTempleOperation("update")

	id := c.Param("id")
	existing, err := h.auth.GetTemple(id)
	if err != nil {
		return errorJSON(c, err)
	}

	temple := *existing
	if err := c.Bind(&temple); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	temple.ID = id

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := h.auth.UpdateTemple(sess, &temple); err != nil {
		log.Error("Failed to update temple", zap.String("id", id), zap.Error(err))
		return errorJSON(c, err)
	}
	h.refreshTempleGauge()
	return c.JSON(http.StatusOK, h.templeView(temple))
}

// DeleteTemple removes a tenant and every user scoped to it. Master admin
// only.
func (h *Handler) DeleteTemple(c echo.Context) error {
	log := logger.FromContext(c)
	sess := middleware.SessionFromContext(c)
	prometheus.RecordTempleOperation("delete")

	id := c.Param("id")
	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := h.auth.DeleteTemple(sess, id); err != nil {
		log.Error("Failed to delete temple", zap.String("id", id), zap.Error(err))
		return errorJSON(c, err)
	}
	h.refreshTempleGauge()
	return c.JSON(http.StatusOK, echo.Map{"message": "Temple deleted"})
}
