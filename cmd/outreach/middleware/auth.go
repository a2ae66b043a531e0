package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rekanalumni/outreach/cmd/outreach/models"
	"github.com/rekanalumni/outreach/cmd/outreach/service"
	"github.com/rekanalumni/outreach/common/logger"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// AuthzKey is the context key for the caller's resolved capability
	AuthzKey ContextKey = "authz"

	// OperatorKey is the context key the rate limiter reads the operator
	// username from
	OperatorKey = "operator"
)

// OperatorResolver looks up an operator by username. Satisfied by
// repository.CanvasserRepository.
type OperatorResolver interface {
	GetByUsername(ctx context.Context, username string) (*models.Canvasser, error)
}

// ResolveOperator authenticates the caller from the X-Operator-ID header
// and stores the resolved capability in the request context. Requests
// without a header, or naming an unknown operator, are rejected before
// any handler runs.
func ResolveOperator(resolver OperatorResolver, log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			username := c.Request().Header.Get("X-Operator-ID")
			if username == "" {
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"error": "X-Operator-ID header is required",
				})
			}

			operator, err := resolver.GetByUsername(c.Request().Context(), username)
			if err != nil {
				log.Error("operator lookup failed", "username", username, "error", err)
				return c.JSON(http.StatusBadGateway, map[string]interface{}{
					"error": "operator lookup failed",
				})
			}
			if operator == nil {
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"error": "unknown operator",
				})
			}

			c.Set(string(AuthzKey), service.Authz{
				Operator:         operator.Username,
				CanManageMembers: operator.IsAdmin(),
			})
			c.Set(OperatorKey, operator.Username)

			return next(c)
		}
	}
}

// GetAuthz retrieves the resolved capability from the request context.
// The zero Authz (no capabilities) is returned when the auth middleware
// did not run.
func GetAuthz(c echo.Context) service.Authz {
	if authz, ok := c.Get(string(AuthzKey)).(service.Authz); ok {
		return authz
	}
	return service.Authz{}
}
