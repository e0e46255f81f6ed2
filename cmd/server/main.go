// Command server runs the tarikh-portal HTTP API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hfarooqi/tarikh-portal/internal/api/portal"
	"github.com/hfarooqi/tarikh-portal/internal/cache"
	"github.com/hfarooqi/tarikh-portal/internal/config"
	"github.com/hfarooqi/tarikh-portal/internal/repository"
	"github.com/hfarooqi/tarikh-portal/internal/service/gamification"
	"github.com/hfarooqi/tarikh-portal/internal/service/ingestion"
	"github.com/hfarooqi/tarikh-portal/internal/service/moderation"
	"github.com/hfarooqi/tarikh-portal/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	log.Info().
		Str("environment", cfg.Server.Environment).
		Str("driver", cfg.Database.Driver).
		Msg("Starting tarikh-portal")

	db, err := repository.NewDB(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.AutoMigrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database schema")
	}

	var redisCache *cache.Cache
	if cfg.Database.Redis.Enabled {
		redisCache, err = cache.New(&cfg.Database.Redis, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer redisCache.Close()
	}

	engine := gamification.NewService(db, redisCache, cfg.Gamification, log)
	workflow := moderation.NewService(db, engine, log)

	if cfg.Gamification.BadgeCatalogPath != "" {
		seeds, err := config.LoadBadgeCatalog(cfg.Gamification.BadgeCatalogPath)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load badge catalog")
		}
		if err := engine.SeedBadgeCatalog(seeds); err != nil {
			log.Fatal().Err(err).Msg("Failed to seed badge catalog")
		}
	}

	if cfg.Ingestion.Enabled {
		pipeline := ingestion.NewPipeline(db, log)
		result, err := pipeline.Run(context.Background(), cfg.Ingestion.SourcePath)
		if err != nil {
			log.Fatal().Err(err).Msg("Verse ingestion failed")
		}
		log.Info().
			Int("loaded", result.Loaded).
			Int("skipped", result.Skipped).
			Bool("already_loaded", result.AlreadyLoaded).
			Msg("Verse ingestion finished")
	}

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	handler := portal.NewHandler(workflow, engine, cfg.Server.Language, log)
	handler.RegisterRoutes(router)

	if cfg.Metrics.Enabled {
		router.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	router.GET("/health", func(c *gin.Context) {
		if err := db.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		log.Info().Msg("Shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("Server shutdown error")
		}
	}()

	log.Info().Int("port", cfg.Server.Port).Msg("Server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
