// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/andresuchdata/logisim/internal/api/handlers"
	"github.com/andresuchdata/logisim/internal/api/middleware"
	"github.com/andresuchdata/logisim/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

type Services struct {
	SimulationService *service.SimulationService
}

// Options configures the router.
type Options struct {
	ServiceName    string
	AllowedOrigins []string
}

func NewRouter(services *Services, opts Options) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	if opts.ServiceName != "" {
		router.Use(otelgin.Middleware(opts.ServiceName))
	}
	router.Use(cors.New(corsConfig(opts.AllowedOrigins)))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil && services.SimulationService != nil {
		simulationHandler := handlers.NewSimulationHandler(services.SimulationService)

		apiGroup.GET("/catalog", simulationHandler.GetCatalog)
		apiGroup.GET("/report", simulationHandler.GetLatestReport)
		apiGroup.POST("/reset", simulationHandler.Reset)

		simulationGroup := apiGroup.Group("/simulations")
		{
			simulationGroup.POST("", simulationHandler.Simulate)
			simulationGroup.GET("/latest", simulationHandler.GetLatest)
			simulationGroup.GET("/:id", simulationHandler.GetRun)
			simulationGroup.DELETE("/:id", simulationHandler.DeleteRun)
			simulationGroup.GET("/:id/report", simulationHandler.GetReport)
			simulationGroup.GET("/:id/alerts", simulationHandler.GetAlerts)
			simulationGroup.GET("/:id/indicators", simulationHandler.GetIndicators)
		}
	}

	return router
}

func corsConfig(allowedOrigins []string) cors.Config {
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	cfg := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			cfg.AllowOrigins = nil
			cfg.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			cfg.AllowOrigins = normalizedOrigins
		}
	}
	return cfg
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		for _, part := range strings.Split(origin, ",") {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
