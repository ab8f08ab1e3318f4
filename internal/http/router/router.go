// Package router assembles the gin engine from the application's modules.
package router

import (
	"net/http"

	apphttp "freight_broker_backend/internal/http"
	"freight_broker_backend/platform/httpkit"
	"freight_broker_backend/platform/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// New builds the gin engine, mounts shared middleware and registers every
// module's routes.
func New(app *apphttp.App) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestLogger(app.Logger))
	engine.Use(httpkit.SecurityHeaders())
	engine.Use(corsMiddleware(app))

	engine.GET("/health", func(c *gin.Context) {
		if err := app.Health.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/metrics", metrics.Handler())

	webhookLimiter := httpkit.NewWebhookRateLimiter(app.Logger)
	authMiddleware := httpkit.AuthRequired(app.Config)

	v1 := engine.Group("/api/v1")

	protected := v1.Group("")
	protected.Use(authMiddleware)

	webhook := v1.Group("/webhook")
	webhook.Use(webhookLimiter.RateLimit())

	routerCtx := &apphttp.RouterContext{
		Engine:             engine,
		V1:                 v1,
		Protected:          protected,
		Webhook:            webhook,
		Config:             app.Config,
		AuthMiddleware:     authMiddleware,
		WebhookRateLimiter: webhookLimiter,
	}

	for _, m := range app.Modules {
		m.RegisterRoutes(routerCtx)
		app.Logger.Info("registered module routes", "module", m.Name())
	}

	return engine
}

func corsMiddleware(app *apphttp.App) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: app.Config.GetCORSAllowCreds(),
	}

	if app.Config.GetCORSAllowAll() {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else if origins := app.Config.GetCORSOrigins(); len(origins) > 0 {
		cfg.AllowOrigins = origins
	} else {
		cfg.AllowOrigins = []string{"http://localhost:3000"}
	}

	return cors.New(cfg)
}
