package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	echo "github.com/labstack/echo/v4"

	"github.com/jmehdipour/sms-admin/internal/config"
)

const operatorKey = "operator"

// Operator is the authenticated dashboard user.
type Operator struct {
	ID   string
	Name string
	RPS  int // 0 = default limit
}

// OperatorFromCtx extracts the operator set by APIKeyMiddleware.
func OperatorFromCtx(c echo.Context) (Operator, bool) {
	op, ok := c.Get(operatorKey).(Operator)
	return op, ok
}

// APIKeyMiddleware authenticates requests using the X-API-Key header
// against the configured operators.
func APIKeyMiddleware(admins []config.AdminConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := strings.TrimSpace(c.Request().Header.Get("X-API-Key"))
			if key == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing api key"})
			}
			for _, a := range admins {
				if subtle.ConstantTimeCompare([]byte(a.APIKey), []byte(key)) == 1 {
					c.Set(operatorKey, Operator{ID: a.ID, Name: a.Name, RPS: a.RPS})
					return next(c)
				}
			}
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid api key"})
		}
	}
}
