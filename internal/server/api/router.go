package api

import (
	"droplink/internal/server/config"
	"droplink/internal/server/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// SetupRouter creates and configures the echo router with all routes and middleware.
func SetupRouter(handler *Handler, sessions service.SessionStore, cfg *config.Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Global middleware
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "X-Auth-Token"},
	}))
	e.Use(RequestLogger())
	e.Use(AuthGate(sessions))

	// Rate limiter on the upload endpoint only
	uploadLimiter := NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	// Pages
	e.GET("/", handler.HandleHome)
	e.GET("/index", handler.HandleHome)
	e.GET("/index.html", handler.HandleHome)
	e.GET("/file-share", handler.HandleFileSharePage)
	e.GET("/download/:shareToken", handler.HandleDownloadPage)

	// Health
	e.GET("/health", handler.HandleHealth)

	// Auth
	e.POST("/api/auth/login", handler.HandleLogin)

	// Files
	e.POST("/api/files/upload", handler.HandleUpload, uploadLimiter.Middleware())
	e.GET("/api/files/info/:shareToken", handler.HandleInfo)
	e.GET("/api/files/my-files", handler.HandleMyFiles)
	e.POST("/api/files/download/:shareToken", handler.HandleDownloadFile)

	return e
}
