package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/stellar-lakers/stellar-gateway/internal/clients"
	"github.com/stellar-lakers/stellar-gateway/internal/config"
	"github.com/stellar-lakers/stellar-gateway/internal/handlers"
	"github.com/stellar-lakers/stellar-gateway/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger := initLogger(cfg.LogLevel)
	defer logger.Sync()

	if cfg.Gemini.APIKey == "" {
		logger.Fatal("GEMINI_API_KEY is required")
	}

	// Optional Redis-backed month cache; without it the gateway keeps a
	// per-process cache.
	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		redisOpts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			logger.Fatal("Error parsing Redis URL", zap.Error(err))
		}
		redisClient = redis.NewClient(redisOpts)
		defer redisClient.Close()

		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		logger.Info("Connected to Redis", zap.String("url", cfg.Redis.URL))
	}

	// Initialize Gemini client
	gemini, err := clients.NewGeminiClient(context.Background(),
		cfg.Gemini.APIKey, cfg.Gemini.ListModel, cfg.Gemini.DiveModel, logger)
	if err != nil {
		logger.Fatal("Failed to initialize Gemini client", zap.Error(err))
	}

	// Calendar state: month cursor, event list, selection, filters.
	cache := services.NewMonthCache(redisClient, cfg.Cache.TTL, logger)
	fetcher := services.NewCachedFetcher(gemini, cache, logger)
	calendar := services.NewCalendarAt(fetcher, time.Now(), logger)

	// Set Gin mode
	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	r := gin.New()

	// Middleware
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	// Initialize handlers
	eventHandler := handlers.NewEventHandler(calendar, gemini, logger)
	subscribeHandler := handlers.NewSubscribeHandler(cfg.Subscribe.Delay, logger)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API routes
	api := r.Group("/api")
	{
		events := api.Group("/events")
		{
			events.GET("", eventHandler.ListEvents)
			events.POST("/refresh", eventHandler.ChangeMonth)
			events.GET("/:id/briefing", eventHandler.Briefing)
			events.DELETE("/selection", eventHandler.ClearSelection)
		}

		api.POST("/subscribe", subscribeHandler.Subscribe)
	}

	// Serve static files for UI
	r.Static("/static", filepath.Join(cfg.WebRoot, "static"))
	r.GET("/", func(c *gin.Context) {
		c.File(filepath.Join(cfg.WebRoot, "templates", "index.html"))
	})

	// Start server
	srv := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("Starting Stellar gateway server", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Warm the current month in the background so the first page load is not
	// an empty grid behind a spinner.
	go calendar.EnsureLoaded(context.Background())

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func initLogger(level string) *zap.Logger {
	var logLevel zapcore.Level
	switch level {
	case "debug":
		logLevel = zap.DebugLevel
	case "info":
		logLevel = zap.InfoLevel
	case "warn":
		logLevel = zap.WarnLevel
	case "error":
		logLevel = zapcore.ErrorLevel
	default:
		logLevel = zap.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(logLevel),
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	return logger
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
