package main

import (
	"account-api.backend/internal/config"
	"account-api.backend/internal/interfaces/http/handlers"
	"account-api.backend/internal/interfaces/http/middleware"
	"account-api.backend/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type routeDeps struct {
	healthHandler  *handlers.HealthHandler
	authHandler    *handlers.AuthHandler
	authMiddleware gin.HandlerFunc
	metrics        *metrics.Metrics
}

func newRouter(cfg *config.Config, d routeDeps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware(d.metrics))
	r.Use(middleware.CORSMiddleware(cfg.CORS))
	r.Use(middleware.ErrorHandler())
	r.NoRoute(middleware.NoRoute())

	registerHealthRoutes(r, d)
	registerAccountRoutes(r, d, cfg.App.BodyLimit)
	return r
}

func registerHealthRoutes(r *gin.Engine, d routeDeps) {
	r.GET("/", d.healthHandler.Welcome)
	r.GET("/health", d.healthHandler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.metrics.Registry, promhttp.HandlerOpts{})))
}

func registerAccountRoutes(r *gin.Engine, d routeDeps, bodyLimit int64) {
	api := r.Group("/", middleware.BodyLimit(bodyLimit), middleware.RequireJSON())
	{
		// public
		api.POST("/register", d.authHandler.Register)
		api.POST("/login", d.authHandler.Login)
		api.POST("/verify-email", d.authHandler.VerifyEmail)

		// protected
		api.GET("/profile", d.authMiddleware, d.authHandler.GetProfile)
		api.PUT("/profile", d.authMiddleware, d.authHandler.UpdateProfile)
		api.POST("/logout", d.authMiddleware, d.authHandler.Logout)
	}
}
