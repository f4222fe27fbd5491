package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tool-radar/config"
	"tool-radar/models"
	"tool-radar/providers"
	"tool-radar/providers/github"
	"tool-radar/providers/hackernews"
	"tool-radar/providers/producthunt"
	"tool-radar/providers/reddit"
	"tool-radar/services"
	"tool-radar/storage"
)

func apiKeyAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.APISecretKey == "" {
			c.Next()
			return
		}
		apiKey := c.GetHeader("X-API-KEY")
		if apiKey != cfg.APISecretKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid API Key"})
			return
		}
		c.Next()
	}
}

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	// Setup Database Connection
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		logging.Fatal("Failed to connect to database", zap.Error(err))
	}
	logging.Info("Successfully connected to tools database.")

	// Auto-Migration
	logging.Info("Running database auto-migration...")
	if err := db.AutoMigrate(&models.Tool{}, &models.DiscoverySourceStatus{}, &models.DiscoveryEvent{}); err != nil {
		logging.Fatal("Auto-migration failed", zap.Error(err))
	}

	// Setup Providers
	enabledSourceNames := strings.Split(cfg.EnabledSources, ",")
	var enabledProviders []providers.Provider
	for _, name := range enabledSourceNames {
		switch strings.TrimSpace(name) {
		case providers.SourceProductHunt:
			enabledProviders = append(enabledProviders, producthunt.NewFetcher(cfg, logging))
		case providers.SourceGitHub:
			enabledProviders = append(enabledProviders, github.NewFetcher(cfg, logging))
		case providers.SourceReddit:
			enabledProviders = append(enabledProviders, reddit.NewFetcher(cfg, logging))
		case providers.SourceHackerNews:
			enabledProviders = append(enabledProviders, hackernews.NewFetcher(cfg, logging))
		default:
			logging.Warn("Unknown source in config", zap.String("source_name", name))
		}
	}
	if len(enabledProviders) == 0 {
		logging.Fatal("No valid sources enabled. Check ENABLED_SOURCES in .env")
	}
	logging.Info("Active sources loaded", zap.Strings("sources", enabledSourceNames))

	// Setup Services
	store := storage.NewStore(db)
	seedSourceStatuses(store, enabledProviders, logging)

	s3Client, err := storage.NewS3Client(cfg)
	if err != nil {
		logging.Fatal("S3 client creation failed", zap.Error(err))
	}

	enricher := services.NewPlaceholderEnricher(time.Now().UnixNano())
	discoveryService := services.NewDiscoveryService(cfg, store, s3Client, logging, enabledProviders, enricher)
	monitorService := services.NewMonitorService(store, logging)

	// Setup Router
	router := gin.Default()
	router.Use(gin.Recovery())
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	setupDiscoveryRoutes(router, cfg, discoveryService)
	setupToolRoutes(router, store, monitorService, logging)

	// Setup Cron für den Dauerbetrieb
	cronScheduler := cron.New()
	if _, err := cronScheduler.AddFunc(cfg.CronSchedule, func() {
		logging.Info("Running scheduled discovery...")
		result, err := discoveryService.Run(context.Background())
		if err != nil {
			if errors.Is(err, services.ErrRunInProgress) {
				logging.Warn("Scheduled discovery skipped, previous run still active")
				return
			}
			logging.Error("Scheduled discovery failed", zap.Error(err))
			return
		}
		logging.Info("Scheduled discovery completed",
			zap.Int("found", result.Found), zap.Int("added", result.Added))
	}); err != nil {
		logging.Fatal("Invalid cron schedule", zap.String("schedule", cfg.CronSchedule), zap.Error(err))
	}
	cronScheduler.Start()

	logging.Info("Starting server", zap.String("port", cfg.HTTPPort))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logging.Fatal("Failed to run server", zap.Error(err))
	}
}

// setupDiscoveryRoutes konfiguriert die Trigger-Endpoints der Pipeline.
func setupDiscoveryRoutes(router *gin.Engine, cfg *config.Config, discoveryService *services.DiscoveryService) {
	rg := router.Group("/discovery")
	rg.Use(apiKeyAuthMiddleware(cfg))

	// Einmaliger Lauf, asynchron getriggert
	rg.POST("/run", func(c *gin.Context) {
		go func() {
			result, err := discoveryService.Run(context.Background())
			if err != nil {
				if errors.Is(err, services.ErrRunInProgress) {
					discoveryService.Logger.Warn("Triggered discovery skipped, previous run still active")
					return
				}
				discoveryService.Logger.Error("Triggered discovery failed", zap.Error(err))
				return
			}
			discoveryService.Logger.Info("Triggered discovery completed",
				zap.Int("found", result.Found), zap.Int("added", result.Added))
		}()
		c.JSON(http.StatusAccepted, gin.H{"message": "Discovery run triggered."})
	})

	// Dauerbetrieb mit optionalem Intervall-Override
	rg.POST("/continuous", func(c *gin.Context) {
		var req struct {
			IntervalMinutes int `json:"interval_minutes"`
		}
		// Leerer Body ist erlaubt, dann gilt das Default-Intervall.
		_ = c.ShouldBindJSON(&req)
		interval := 6 * time.Hour
		if req.IntervalMinutes > 0 {
			interval = time.Duration(req.IntervalMinutes) * time.Minute
		}

		if err := discoveryService.StartContinuous(context.Background(), interval); err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusAccepted, gin.H{
			"message":  "Continuous discovery started.",
			"interval": interval.String(),
		})
	})
}

// setupToolRoutes konfiguriert die Lese-Endpoints für Dashboard und Monitor.
func setupToolRoutes(router *gin.Engine, store *storage.Store, monitorService *services.MonitorService, log *zap.Logger) {
	router.GET("/status", func(c *gin.Context) {
		snapshot, err := monitorService.Snapshot()
		if err != nil {
			log.Error("Snapshot assembly failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, snapshot)
	})

	router.GET("/stats", func(c *gin.Context) {
		total, err := store.CountAll()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		addedToday, err := store.CountSince(time.Now().Add(-24 * time.Hour))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"total_tools": total, "added_last_24h": addedToday})
	})

	rg := router.Group("/tools")
	rg.GET("/trending", func(c *gin.Context) {
		limit := parseIntQuery(c, "limit", 10)
		tools, err := store.ListTrending(limit)
		if err != nil {
			log.Error("Database query for trending tools failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, tools)
	})

	rg.GET("/recent", func(c *gin.Context) {
		limit := parseIntQuery(c, "limit", 10)
		days := parseIntQuery(c, "days", 7)
		tools, err := store.ListRecent(limit, days)
		if err != nil {
			log.Error("Database query for recent tools failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, tools)
	})
}

// seedSourceStatuses legt für jede aktive Quelle eine Idle-Statuszeile an,
// damit das Dashboard schon vor dem ersten Lauf alle Quellen zeigt.
func seedSourceStatuses(store *storage.Store, provs []providers.Provider, logger *zap.Logger) {
	existing, err := store.ListSourceStatuses()
	if err != nil {
		logger.Warn("Failed to read source statuses for seeding", zap.Error(err))
		return
	}
	for _, p := range provs {
		found := false
		for _, st := range existing {
			if st.SourceName == p.Name() {
				found = true
				break
			}
		}
		if found {
			continue
		}
		if err := store.UpsertSourceStatus(&models.DiscoverySourceStatus{
			SourceName: p.Name(),
			Status:     models.SourceStatusIdle,
		}); err != nil {
			logger.Warn("Failed to seed source status", zap.String("source", p.Name()), zap.Error(err))
		}
	}
}

func parseIntQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
