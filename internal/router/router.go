package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"authgate/internal/cache"
	"authgate/internal/config"
	"authgate/internal/handler"
	"authgate/internal/middleware"
	"authgate/internal/service"
	"authgate/internal/validation"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	cacheClient *cache.Client,
	authService service.AuthService,
	authHandler *handler.AuthHandler,
) {
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	e.Validator = validation.Echo{}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group("/v1")

	// Public routes
	v1.POST("/register", authHandler.Register)
	v1.POST("/login", authHandler.Login,
		middleware.RateLimit(cacheClient, cfg.LoginRateLimit, cfg.LoginRateWindow))

	// Secured routes (require a valid bearer token)
	secured := v1.Group("", middleware.Auth(authService))
	secured.POST("/logout", authHandler.Logout)
	secured.GET("/user", authHandler.Me)
}
