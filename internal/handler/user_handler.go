package handler

import (
	"net/http"
	"time"

	"aruanda-service/internal/auth"
	"aruanda-service/internal/middleware"
	"aruanda-service/pkg/logger"
	"aruanda-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ListUsers returns the full directory for the master admin, or the rows of
// the caller's temple otherwise. This is where tenant isolation of the user
// directory is enforced.
func (h *Handler) ListUsers(c echo.Context) error {
	sess := middleware.SessionFromContext(c)
	prometheus.RecordUserOperation("list")

	defer prometheus.TrackDBOperation("query")(time.Now())
	users, err := h.auth.TempleUsers(sess)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

// AddTempleAdmin creates an active temple administrator. Master admin only.
func (h *Handler) AddTempleAdmin(c echo.Context) error {
	log := logger.FromContext(c)
	sess := middleware.SessionFromContext(c)
	prometheus.RecordUserOperation("add_admin")

	var req auth.AdminInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, email and password are required"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	user, err := h.auth.AddTempleAdmin(sess, req)
	if err != nil {
		log.Error("Failed to add temple admin", zap.String("email", req.Email), zap.Error(err))
		prometheus.RecordAuthError(authErrorType(err))
		return errorJSON(c, err)
	}

	log.Info("Temple admin created",
		zap.String("user_id", user.ID),
		zap.String("temple_id", user.TempleID))
	h.refreshUserGauge(user.TempleID)
	return c.JSON(http.StatusCreated, user)
}

// UpdateTempleAdmin merges provided fields over a directory row. Master
// admin only.
func (h *Handler) UpdateTempleAdmin(c echo.Context) error {
	log := logger.FromContext(c)
	sess := middleware.SessionFromContext(c)
	prometheus.RecordUserOperation("update_admin")

	id := c.Param("id")
	existing, err := h.auth.User(id)
	if err != nil {
		return errorJSON(c, err)
	}

	user := *existing
	if err := c.Bind(&user); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	user.ID = id
	// Password changes go through the dedicated flow.
	user.Password = existing.Password

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := h.auth.UpdateTempleAdmin(sess, &user); err != nil {
		log.Error("Failed to update user", zap.String("id", id), zap.Error(err))
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// DeleteTempleAdmin removes a directory row. Master admin only.
func (h *Handler) DeleteTempleAdmin(c echo.Context) error {
	log := logger.FromContext(c)
	sess := middleware.SessionFromContext(c)
	prometheus.RecordUserOperation("delete_admin")

	id := c.Param("id")
	// Resolve the temple before the row disappears so the gauge can be
	// refreshed afterwards.
	templeID := ""
	if existing, err := h.auth.User(id); err == nil {
		templeID = existing.TempleID
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := h.auth.DeleteTempleAdmin(sess, id); err != nil {
		log.Error("Failed to delete user", zap.String("id", id), zap.Error(err))
		return errorJSON(c, err)
	}
	h.refreshUserGauge(templeID)
	return c.JSON(http.StatusOK, echo.Map{"message": "User deleted"})
}

// ApproveUser activates a pending account.
func (h *Handler) ApproveUser(c echo.Context) error {
	log := logger.FromContext(c)
	sess := middleware.SessionFromContext(c)
	prometheus.RecordUserOperation("approve")

	defer prometheus.TrackDBOperation("update")(time.Now())
	user, err := h.auth.ApproveUser(sess, c.Param("id"))
	if err != nil {
		log.Error("Failed to approve user", zap.String("id", c.Param("id")), zap.Error(err))
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// RejectUser deletes a pending account.
func (h *Handler) RejectUser(c echo.Context) error {
	log := logger.FromContext(c)
	sess := middleware.SessionFromContext(c)
	prometheus.RecordUserOperation("reject")

	id := c.Param("id")
	templeID := ""
	if existing, err := h.auth.User(id); err == nil {
		templeID = existing.TempleID
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := h.auth.RejectUser(sess, id); err != nil {
		log.Error("Failed to reject user", zap.String("id", id), zap.Error(err))
		return errorJSON(c, err)
	}
	h.refreshUserGauge(templeID)
	return c.JSON(http.StatusOK, echo.Map{"message": "User rejected"})
}

// PromoteUser raises a user to temple admin within the caller's scope.
func (h *Handler) PromoteUser(c echo.Context) error {
	log := logger.FromContext(c)
	sess := middleware.SessionFromContext(c)
	prometheus.RecordUserOperation("promote")

	defer prometheus.TrackDBOperation("update")(time.Now())
	user, err := h.auth.PromoteUser(sess, c.Param("id"))
	if err != nil {
		log.Error("Failed to promote user", zap.String("id", c.Param("id")), zap.Error(err))
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// DemoteUser lowers a temple admin back to a regular user.
func (h *Handler) DemoteUser(c echo.Context) error {
	log := logger.FromContext(c)
	sess := middleware.SessionFromContext(c)
	prometheus.RecordUserOperation("demote")

	defer prometheus.TrackDBOperation("update")(time.Now())
	user, err := h.auth.DemoteUser(sess, c.Param("id"))
	if err != nil {
		log.Error("Failed to demote user", zap.String("id", c.Param("id")), zap.Error(err))
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, user)
}
