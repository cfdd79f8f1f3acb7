package router

import (
	"context"
	"net/http"
	"time"

	apphttp "leadscore_backend/internal/http"
	"leadscore_backend/platform/apperr"
	"leadscore_backend/platform/httpkit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	healthTimeout = 2 * time.Second
	msgInternal   = "internal server error"
)

// New builds the gin engine: shared middleware, health and metrics
// endpoints, and every module's routes.
func New(app *apphttp.App) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		app.Logger.Error("panic recovered", "panic", recovered, "path", c.Request.URL.Path)
		httpkit.HandleError(c, apperr.Internal(msgInternal).WithOp("router.Recovery"))
		c.Abort()
	}))
	engine.Use(httpkit.RequestID())
	engine.Use(httpkit.RequestLogger(app.Logger))
	engine.Use(httpkit.SecurityHeaders())
	engine.Use(cors.New(corsConfig(app.Config.GetCORSOrigins())))
	if app.Metrics != nil {
		engine.Use(httpkit.ObserveRequests(app.Metrics))
	}
	// Zero rate or zero burst disables limiting.
	if rps, burst := app.Config.GetRateLimitRPS(), app.Config.GetRateLimitBurst(); rps > 0 && burst > 0 {
		limiter := httpkit.NewIPRateLimiter(rate.Limit(rps), burst, app.Logger)
		engine.Use(limiter.RateLimit())
	}

	engine.GET("/api/health", func(c *gin.Context) {
		if app.Health != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
			defer cancel()
			if err := app.Health.Ping(ctx); err != nil {
				app.Logger.DatabaseError("health ping", err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if app.Metrics != nil {
		engine.GET("/metrics", gin.WrapH(app.Metrics.Handler()))
	}

	rc := &apphttp.RouterContext{
		Engine: engine,
		V1:     engine.Group("/api/v1"),
	}
	for _, module := range app.Modules {
		module.RegisterRoutes(rc)
		app.Logger.Debug("registered module routes", "module", module.Name())
	}

	return engine
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", httpkit.HeaderRequestID},
		ExposeHeaders: []string{httpkit.HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
