package middleware

import (
	"net/http"
	"strings"

	"aruanda-service/internal/auth"
	"aruanda-service/pkg/jwtutil"
	"aruanda-service/pkg/logger"
	"aruanda-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// SessionKey is the echo context key holding the authenticated session.
const SessionKey = "session"

// AuthMiddleware validates the JWT token from the Authorization header and
// stores the derived session in the echo context.
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			log.Error("Missing Authorization header")
			prometheus.RecordAuthError("missing_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			log.Error("Invalid Authorization header format")
			prometheus.RecordAuthError("invalid_auth_format")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
		}

		claims, err := jwtutil.ValidateToken(parts[1])
		if err != nil {
			log.Error("Invalid JWT token", zap.Error(err))
			prometheus.RecordAuthError("invalid_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
		}

		sess := &auth.Session{
			UserID:     claims.UserID,
			Email:      claims.Email,
			Name:       claims.Name,
			Role:       claims.Role,
			TempleID:   claims.TempleID,
			TempleName: claims.TempleName,
		}
		c.Set(SessionKey, sess)

		if sess.TempleID != "" {
			// Expose tenant context to downstream handlers and logs.
			c.Request().Header.Set("X-Temple-ID", sess.TempleID)
			log.Debug("Request authenticated with temple context",
				zap.String("temple_id", sess.TempleID),
				zap.String("role", sess.Role))
		}

		return next(c)
	}
}

// SessionFromContext returns the session stored by AuthMiddleware, or nil.
func SessionFromContext(c echo.Context) *auth.Session {
	sess, _ := c.Get(SessionKey).(*auth.Session)
	return sess
}

// RequireTempleContext ensures the session is scoped to a temple. The
// master admin has no temple and cannot reach temple-scoped collections
// without one.
func RequireTempleContext(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess := SessionFromContext(c)
		if sess == nil || sess.TempleID == "" {
			logger.FromContext(c).Warn("Missing temple context")
			return c.JSON(http.StatusForbidden, echo.Map{
				"error": "temple context required",
			})
		}
		return next(c)
	}
}
