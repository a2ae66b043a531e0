package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rekanalumni/outreach/cmd/outreach/container"
	custommw "github.com/rekanalumni/outreach/cmd/outreach/middleware"
	"github.com/rekanalumni/outreach/cmd/outreach/routes"
	"github.com/rekanalumni/outreach/common/bootstrap"
	commonmw "github.com/rekanalumni/outreach/common/middleware"
	"github.com/rekanalumni/outreach/common/server"
)

func main() {
	ctx := context.Background()

	// Bootstrap common components (DB, logger, redis, cache, telemetry)
	components, err := bootstrap.Setup(ctx, "outreach")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap outreach: %v\n", err)
		os.Exit(1)
	}
	defer components.Shutdown(ctx)

	// Initialize service container (singleton pattern - all services created once)
	serviceContainer, err := container.NewContainer(components)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize service container: %v\n", err)
		os.Exit(1)
	}

	e := setupEcho()
	setupMiddleware(e, serviceContainer)
	setupHealthCheck(e, components)
	registerRoutes(e, serviceContainer)

	startServer(e, components)
}

// setupEcho initializes the Echo server with basic configuration
func setupEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	return e
}

// setupMiddleware configures all middleware for the Echo server.
// Order matters: the global limit fires before the operator lookup, the
// per-operator limit after it.
func setupMiddleware(e *echo.Echo, c *container.Container) {
	cfg := c.Components.Config

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(echomw.RequestID())

	if c.RateLimiter != nil && cfg.RateLimit.Enabled {
		e.Use(skipHealth(commonmw.GlobalRateLimitMiddleware(
			c.RateLimiter, cfg.RateLimit.GlobalPerMin, cfg.RateLimit.WindowSeconds,
		)))
	}

	e.Use(skipHealth(custommw.ResolveOperator(c.CanvasserRepo, c.Components.Logger)))

	if c.RateLimiter != nil && cfg.RateLimit.Enabled {
		e.Use(skipHealth(commonmw.OperatorRateLimitMiddleware(
			c.RateLimiter, cfg.RateLimit.PerOperator, cfg.RateLimit.WindowSeconds,
		)))
	}
}

// skipHealth exempts the health endpoint from auth and rate limiting
func skipHealth(mw echo.MiddlewareFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		wrapped := mw(next)
		return func(c echo.Context) error {
			if c.Path() == "/health" {
				return next(c)
			}
			return wrapped(c)
		}
	}
}

// setupHealthCheck registers the health check endpoint
func setupHealthCheck(e *echo.Echo, components *bootstrap.Components) {
	e.GET("/health", func(c echo.Context) error {
		if err := components.Health(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status": "unhealthy",
				"error":  err.Error(),
			})
		}
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "outreach",
		})
	})
}

// registerRoutes registers all application routes using the service container
func registerRoutes(e *echo.Echo, serviceContainer *container.Container) {
	routes.RegisterLinkRoutes(e, serviceContainer)
	routes.RegisterMergeRoutes(e, serviceContainer)
}

// startServer serves the Echo handler with graceful shutdown
func startServer(e *echo.Echo, components *bootstrap.Components) {
	srv := server.New("outreach", components.Config.Service.Port, e, components.Logger)

	if err := srv.Start(); err != nil {
		components.Logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
