package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quantmind/config"
	"quantmind/metrics"
	"quantmind/models"
	"quantmind/routes"
	"quantmind/service"

	"github.com/gin-gonic/gin"
	"github.com/phuslu/log"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	log.DefaultLogger = log.Logger{
		Level:      log.ParseLevel(cfg.LogLevel),
		TimeFormat: time.RFC3339,
		Writer:     &log.IOWriter{Writer: os.Stdout},
	}
	log.Info().Str("provider", cfg.MarketData.Provider).Msg("QuantMind API")

	var db *gorm.DB
	if cfg.Database.URL != "" {
		db, err = models.InitDatabase(cfg.Database.URL, cfg.Database.Pool)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize database")
		}
		defer func() {
			sqlDB, _ := db.DB()
			if sqlDB != nil {
				sqlDB.Close()
			}
		}()
		log.Info().Msg("audit database connection established")
	}

	m := metrics.NewMetrics("quantmind")
	opts := []service.PredictorOption{
		service.WithThresholds(cfg.Thresholds),
		service.WithHistoryDays(cfg.MarketData.HistoryDays),
		service.WithMetrics(m),
	}
	if db != nil {
		opts = append(opts, service.WithAudit(models.NewAuditStore(db)))
	}
	predictor := service.NewPredictor(newProvider(cfg), newForecastSource(cfg), opts...)

	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())
	routes.SetupRoutes(router, cfg, predictor, m, db)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msgf("API available at http://localhost:%s/api/v1", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	log.Info().Msg("server stopped")
}

func newProvider(cfg *config.Config) service.MarketDataProvider {
	if cfg.MarketData.Provider == "polygon" {
		return service.NewPolygonProvider(cfg.MarketData.PolygonAPIKey, cfg.MarketData.RateLimit)
	}
	return service.NewYahooProvider(
		service.WithYahooHTTPClient(&http.Client{Timeout: cfg.MarketData.Timeout}),
		service.WithYahooRateLimit(cfg.MarketData.RateLimit),
		service.WithYahooRetries(cfg.MarketData.MaxRetries),
	)
}

func newForecastSource(cfg *config.Config) service.ForecastSource {
	if cfg.Forecast.ModelURL != "" {
		return service.NewModelClient(cfg.Forecast.ModelURL, cfg.Forecast.Timeout, cfg.MarketData.MaxRetries)
	}
	log.Warn().Msg("FORECAST_API_URL not set, using drift model")
	return service.DriftModel{}
}
