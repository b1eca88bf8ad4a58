package handler

import (
	"errors"
	"net/http"

	"aruanda-service/internal/auth"
	"aruanda-service/internal/store"
	"aruanda-service/pkg/config"
	"aruanda-service/prometheus"

	"github.com/labstack/echo/v4"
)

// Handler carries the service dependencies for every route. It is built
// once in main and registered on the echo instance.
type Handler struct {
	auth  *auth.Service
	store store.Store
	cfg   *config.Config
}

// New creates the handler set.
func New(authSvc *auth.Service, st store.Store, cfg *config.Config) *Handler {
	return &Handler{auth: authSvc, store: st, cfg: cfg}
}

// refreshTempleGauge recomputes the active temples gauge after a temple
// directory mutation.
func (h *Handler) refreshTempleGauge() {
	if temples, err := h.store.ListActiveTemples(); err == nil {
		prometheus.SetActiveTemples(len(temples))
	}
}

// refreshUserGauge recomputes the per-temple user gauge after a user
// directory mutation.
func (h *Handler) refreshUserGauge(templeID string) {
	if templeID == "" {
		return
	}
	temple, err := h.store.GetTemple(templeID)
	if err != nil {
		return
	}
	if users, err := h.store.ListTempleUsers(templeID); err == nil {
		prometheus.SetTempleUserCount(temple.ID, temple.Name, len(users))
	}
}

// errorJSON maps service and store errors onto HTTP statuses with the
// shared error envelope.
func errorJSON(c echo.Context, err error) error {
	switch {
	case errors.Is(err, auth.ErrTempleRequired):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, auth.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	case errors.Is(err, auth.ErrPendingApproval),
		errors.Is(err, auth.ErrTempleInactive),
		errors.Is(err, auth.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
	case errors.Is(err, auth.ErrTempleNotFound),
		errors.Is(err, auth.ErrUserNotFound),
		errors.Is(err, store.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, auth.ErrEmailAlreadyExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, store.ErrNegativeAmount),
		errors.Is(err, store.ErrSupplierOnIncome),
		errors.Is(err, store.ErrSupplierNotFound):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
