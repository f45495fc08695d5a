package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DivyaP1063/shophub/auth"
	"github.com/DivyaP1063/shophub/cache"
	"github.com/DivyaP1063/shophub/cart"
	"github.com/DivyaP1063/shophub/catalog"
	"github.com/DivyaP1063/shophub/config"
	"github.com/DivyaP1063/shophub/database"
	"github.com/DivyaP1063/shophub/handlers"
	"github.com/DivyaP1063/shophub/kafka"
	"github.com/DivyaP1063/shophub/middleware"
	"github.com/DivyaP1063/shophub/orders"
	"github.com/DivyaP1063/shophub/razorpay"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()
	cfg := config.Load()

	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database
	db, err := database.InitDB(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}

	// Initialize Redis cache; without REDIS_ADDR every lookup is a miss
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient, err = cache.InitRedis(cfg.RedisAddr, cfg.RedisPassword, logger)
		if err != nil {
			logger.Fatal("Failed to initialize Redis", zap.Error(err))
		}
	} else {
		logger.Warn("REDIS_ADDR not set, product cache disabled")
	}
	productCache := cache.NewProductCache(redisClient, cfg.CacheTTL, logger)

	// Initialize OpenTelemetry
	shutdownTracing, err := middleware.InitTracing(cfg.ServiceName, cfg.JaegerEndpoint)
	if err != nil {
		logger.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	// Order events go to Kafka when brokers are configured
	var (
		events    orders.EventPublisher = kafka.NewNopPublisher(logger)
		publisher *kafka.Publisher
	)
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.InitProducer(cfg.KafkaBrokers, logger)
		if err != nil {
			logger.Fatal("Failed to initialize Kafka producer", zap.Error(err))
		}
		publisher = kafka.NewPublisher(producer, cfg.KafkaTopic, logger)
		events = publisher
	} else {
		logger.Warn("KAFKA_BROKERS not set, order events disabled")
	}

	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	consumerDone := make(chan struct{})
	if len(cfg.KafkaBrokers) > 0 {
		consumer := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaGroup, cfg.KafkaTopic, cfg.KafkaWorkers, logger)
		notifier := kafka.NewNotifier(logger)
		go func() {
			defer close(consumerDone)
			if err := consumer.Start(consumerCtx, notifier.Handle); err != nil {
				logger.Error("Kafka consumer error", zap.Error(err))
			}
		}()
	} else {
		close(consumerDone)
	}

	// Repositories and services
	users := database.NewUserRepository(db)
	products := database.NewProductRepository(db)
	carts := database.NewCartRepository(db)

	catalogService := catalog.NewService(products, users, productCache, logger)
	cartService := cart.NewService(carts, catalogService, logger)
	wishlistService := cart.NewWishlistService(database.NewWishlistRepository(db), catalogService, logger)

	gateway := razorpay.NewClient(razorpay.Config{
		BaseURL:   cfg.RazorpayBaseURL,
		KeyID:     cfg.RazorpayKeyID,
		KeySecret: cfg.RazorpayKeySecret,
		Timeout:   cfg.RazorpayTimeout,
	}, logger)

	orderService := orders.NewService(orders.Deps{
		Carts:    carts,
		Products: products,
		Orders:   database.NewOrderRepository(db),
		Gateway:  gateway,
		Events:   events,
		Details:  catalogService,
		Users:    users,
		Cache:    productCache,
	}, cfg.Currency, logger)

	// Setup Gin router
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())
	// OpenTelemetry middleware must be first to extract trace context
	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(middleware.LoggerMiddleware(logger))
	router.Use(middleware.MetricsMiddleware())

	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", middleware.PrometheusHandler())

	routes := handlers.Routes{
		Auth:      handlers.NewAuthHandler(auth.NewService(users, []byte(cfg.JWTSecret), logger), logger),
		Products:  handlers.NewProductHandler(catalogService, logger),
		Carts:     handlers.NewCartHandler(cartService, logger),
		Wishlists: handlers.NewWishlistHandler(wishlistService, logger),
		Orders:    handlers.NewOrderHandler(orderService, logger),
	}
	routes.Register(router.Group("/api"), middleware.AuthMiddleware([]byte(cfg.JWTSecret), users, logger))

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("ShopHub API started", zap.String("addr", cfg.HTTPAddr))

	gracefulShutdown(srv, db, redisClient, publisher, func() {
		stopConsumer()
		<-consumerDone
	}, shutdownTracing, logger)
}

// gracefulShutdown handles SIGINT/SIGTERM and shuts down all services gracefully
func gracefulShutdown(
	srv *http.Server,
	db *sql.DB,
	redisClient *redis.Client,
	publisher *kafka.Publisher,
	stopConsumer func(),
	shutdownTracing func(),
	logger *zap.Logger,
) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutdown signal received. Exiting...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("HTTP server forced to shutdown", zap.Error(err))
	} else {
		logger.Info("HTTP server stopped gracefully")
	}

	stopConsumer()
	logger.Info("Kafka consumer stopped")

	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("Failed to close Kafka producer", zap.Error(err))
		}
	}

	if err := db.Close(); err != nil {
		logger.Error("Failed to close database", zap.Error(err))
	} else {
		logger.Info("Database connection closed gracefully")
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("Failed to close Redis cache", zap.Error(err))
		}
	}

	shutdownTracing()
	logger.Info("ShopHub exited gracefully")
}
