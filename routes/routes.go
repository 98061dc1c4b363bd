package routes

import (
	"net/http"

	"quantmind/config"
	"quantmind/handlers"
	"quantmind/metrics"
	"quantmind/models"
	"quantmind/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRoutes(router *gin.Engine, cfg *config.Config, predictor *service.Predictor, m *metrics.Metrics, db *gorm.DB) {
	// CORS configuration
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Client-Id", "X-Request-Id"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * 3600, // 12 hours
	}))
	router.Use(handlers.RequestLogger(m))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"service":  "quantmind-api",
			"provider": cfg.MarketData.Provider,
			"audit":    db != nil,
		})
	})
	router.GET("/metrics", gin.WrapH(m.Handler()))

	predictionHandler := handlers.NewPredictionHandler(predictor, service.NewRequestTracker(), m)

	router.GET("/api/price/history", predictionHandler.HandleHistory)
	router.GET("/api/price/forecast", predictionHandler.HandleForecast)

	v1 := router.Group("/api/v1")
	v1.GET("/prediction", predictionHandler.HandlePrediction)
	v1.POST("/reproject", predictionHandler.HandleReproject)
	v1.GET("/thresholds", predictionHandler.HandleThresholds)
	v1.GET("/simulate", predictionHandler.HandleSimulate)
	v1.GET("/summary", predictionHandler.HandleSummary)
	v1.GET("/chart.png", predictionHandler.HandleChart)
	v1.GET("/watchlist", predictionHandler.HandleWatchlist)

	if db != nil {
		auditHandler := handlers.NewAuditHandler(models.NewAuditStore(db))
		v1.GET("/audit", auditHandler.HandleRecent)
	}
}
