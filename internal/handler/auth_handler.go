package handler

import (
	"net/http"
	"time"

	"aruanda-service/internal/auth"
	"aruanda-service/internal/middleware"
	"aruanda-service/pkg/jwtutil"
	"aruanda-service/pkg/logger"
	"aruanda-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Login authenticates a principal and issues a session token.
func (h *Handler) Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.LoginCounter.Inc()

	var req struct {
		Email      string `json:"email"`
		Password   string `json:"password"`
		TempleID   string `json:"temple_id"`
		RememberMe bool   `json:"remember_me"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	result, err := h.auth.Login(req.Email, req.Password, req.TempleID)
	if err != nil {
		log.Error("Login failed", zap.String("email", req.Email), zap.Error(err))
		prometheus.RecordAuthError(authErrorType(err))
		return errorJSON(c, err)
	}

	claims := jwtutil.SessionClaims{
		UserID: result.User.ID,
		Email:  result.User.Email,
		Name:   result.User.Name,
		Role:   result.User.Role,
	}
	if result.Temple != nil {
		claims.TempleID = result.Temple.ID
		claims.TempleName = result.Temple.Name
	}

	token, err := jwtutil.GenerateToken(claims, req.RememberMe)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	log.Info("User logged in",
		zap.String("email", result.User.Email),
		zap.String("role", result.User.Role))

	response := echo.Map{
		"token": token,
		"user":  result.User,
	}
	if result.Temple != nil {
		response["temple"] = result.Temple
	}
	return c.JSON(http.StatusOK, response)
}

// Register creates a pending account; approval by a temple admin is
// required before the account can authenticate, so no token is issued.
func (h *Handler) Register(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RegisterCounter.Inc()

	var req auth.RegisterInput
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse registration request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		prometheus.RecordAuthError("incomplete_registration")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, email and password are required"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	user, err := h.auth.Register(req)
	if err != nil {
		log.Error("Registration failed", zap.String("email", req.Email), zap.Error(err))
		prometheus.RecordAuthError(authErrorType(err))
		return errorJSON(c, err)
	}

	h.refreshUserGauge(user.TempleID)
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Account created, awaiting temple admin approval",
		"user":    user,
	})
}

// ResetPassword triggers the password recovery confirmation flow.
func (h *Handler) ResetPassword(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email is required"})
	}

	if err := h.auth.ResetPassword(req.Email); err != nil {
		log.Error("Password reset failed", zap.String("email", req.Email), zap.Error(err))
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Recovery link sent"})
}

// ChangePassword verifies the current password and stores the new one.
func (h *Handler) ChangePassword(c echo.Context) error {
	log := logger.FromContext(c)
	sess := middleware.SessionFromContext(c)

	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.NewPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "new password is required"})
	}

	if err := h.auth.ChangePassword(sess, req.CurrentPassword, req.NewPassword); err != nil {
		log.Error("Password change failed", zap.String("user_id", sess.UserID), zap.Error(err))
		prometheus.RecordAuthError(authErrorType(err))
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Password changed"})
}

// GetProfile returns the caller's own directory row; the master admin gets
// a synthetic profile from the session.
func (h *Handler) GetProfile(c echo.Context) error {
	sess := middleware.SessionFromContext(c)
	if sess.IsMasterAdmin() {
		return c.JSON(http.StatusOK, echo.Map{
			"id":    sess.UserID,
			"name":  sess.Name,
			"email": sess.Email,
			"role":  sess.Role,
		})
	}
	user, err := h.auth.User(sess.UserID)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile edits the caller's own whitelisted contact fields.
func (h *Handler) UpdateProfile(c echo.Context) error {
	log := logger.FromContext(c)
	sess := middleware.SessionFromContext(c)

	var req auth.ProfileInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	user, err := h.auth.UpdateProfile(sess, req)
	if err != nil {
		log.Error("Profile update failed", zap.String("user_id", sess.UserID), zap.Error(err))
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// SelectableTemples lists the active temples offered at login and
// registration time. Public: the login screen needs it before any session
// exists.
func (h *Handler) SelectableTemples(c echo.Context) error {
	temples, err := h.auth.SelectableTemples()
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, temples)
}

// authErrorType labels auth failures for the error counter.
func authErrorType(err error) string {
	switch err {
	case auth.ErrTempleRequired:
		return "temple_required"
	case auth.ErrTempleNotFound:
		return "temple_not_found"
	case auth.ErrTempleInactive:
		return "temple_inactive"
	case auth.ErrInvalidCredentials:
		return "invalid_credentials"
	case auth.ErrPendingApproval:
		return "pending_approval"
	case auth.ErrEmailAlreadyExists:
		return "email_already_exists"
	case auth.ErrForbidden:
		return "forbidden"
	case auth.ErrUserNotFound:
		return "user_not_found"
	}
	return "internal"
}
