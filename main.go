package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-service/controllers"
	"storefront-service/database"
	"storefront-service/kafka"
	"storefront-service/models"
	aws_pkg "storefront-service/pkg/aws"
	"storefront-service/repository"
	"storefront-service/routes"
	"storefront-service/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	cfg, err := LoadConfig()
	if err != nil {
		logger.Fatal("Config load failed", zap.Error(err))
	}

	// --- Database ---
	db, err := database.ConnectPostgres(logger,
		&models.Product{},
		&models.ProductVariation{},
		&models.PaymentMethod{},
		&models.Voucher{},
		&models.Order{},
		&models.OrderItem{},
	)
	if err != nil {
		logger.Fatal("DB connection failed", zap.Error(err))
	}

	// --- Redis ---
	redisClient, err := database.NewRedisClient(context.Background(), cfg.RedisURL)
	if err != nil {
		logger.Fatal("Redis connection failed", zap.Error(err))
	}

	// --- AWS setup ---
	awsCfg, err := aws_pkg.LoadAWSConfig(context.Background())
	if err != nil {
		logger.Fatal("Failed to load AWS config", zap.Error(err))
	}
	var uploader aws_pkg.Uploader
	if cfg.ProofBucket != "" {
		uploader = aws_pkg.NewS3Client(awsCfg, cfg.ProofBucket)
	}
	var snsClient aws_pkg.SNSPublisher
	if cfg.OrderSNSTopicARN != "" {
		snsClient = aws_pkg.NewSNSClient(awsCfg)
	}

	// --- Kafka ---
	var producer *kafka.Producer
	var events services.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		producer = kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		events = producer
	}

	// --- CloudWatch metrics (non-fatal) ---
	metricsClient, err := aws_pkg.NewMetricsClient(context.Background())
	if err != nil {
		logger.Warn("CloudWatch metrics client init failed (non-fatal)", zap.Error(err))
	}

	// --- HTTP router ---
	r := gin.New()
	r.Use(gin.Recovery())

	// CloudWatch HTTP metrics middleware
	r.Use(func(c *gin.Context) {
		if metricsClient == nil || !metricsClient.IsEnabled() {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		go func(path, method string, status int, dur time.Duration) {
			mctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			dims := map[string]string{"Service": "storefront-service", "Method": method, "Path": path}
			_ = metricsClient.RecordCount(mctx, aws_pkg.MetricHTTPRequests, dims)
			_ = metricsClient.RecordLatency(mctx, aws_pkg.MetricHTTPLatency, dur, dims)
			if status >= 400 {
				_ = metricsClient.RecordCount(mctx, aws_pkg.MetricHTTPErrors, dims)
			}
		}(c.Request.URL.Path, c.Request.Method, c.Writer.Status(), time.Since(start))
	})

	// Structured HTTP request logging
	r.Use(func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
			zap.Int("body_size", c.Writer.Size()),
		}
		switch {
		case status >= 500:
			logger.Error("http_request", fields...)
		case status >= 400:
			logger.Warn("http_request", fields...)
		default:
			logger.Info("http_request", fields...)
		}
	})

	// Request timeout middleware
	r.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	// --- Dependency injection ---
	productRepo := repository.NewGormProductRepository(db)
	voucherRepo := repository.NewGormVoucherRepository(db)
	orderRepo := repository.NewGormOrderRepository(db)
	cartStore := repository.NewCartRepository(redisClient, cfg.CartTTL, logger)
	checkoutStore := repository.NewCheckoutRepository(redisClient, cfg.CheckoutTTL, logger)

	productService := services.NewProductService(productRepo, logger)
	cartService := services.NewCartService(cartStore, productRepo, logger)
	voucherService := services.NewVoucherService(voucherRepo, logger)
	shippingService := services.NewShippingService(cfg.ShippingFees)
	orderService := services.NewOrderService(orderRepo, logger)

	orderNumbers := services.NewOrderNumberGenerator(orderRepo, cfg.OrderPrefix, logger)
	messageBuilder := services.NewOrderMessageBuilder(cfg.StoreName, cfg.ContactURL, cfg.Timezone)

	checkoutService := services.NewCheckoutService(services.CheckoutDeps{
		Store:        checkoutStore,
		Carts:        cartService,
		Products:     productRepo,
		Vouchers:     voucherService,
		Shipping:     shippingService,
		Orders:       orderRepo,
		OrderNumbers: orderNumbers,
		Message:      messageBuilder,
		Uploader:     uploader,
		Events:       events,
		SNS:          snsClient,
		SNSTopicARN:  cfg.OrderSNSTopicARN,
		Metrics:      metricsClient,
		MaxProofSize: cfg.MaxProofSize,
		Logger:       logger,
	})

	routes.Register(r, routes.Controllers{
		Products: controllers.NewProductController(productService),
		Cart:     controllers.NewCartController(cartService),
		Checkout: controllers.NewCheckoutController(checkoutService, cfg.MaxProofSize),
		Vouchers: controllers.NewVoucherController(voucherService),
		Orders:   controllers.NewOrderController(orderService),
		Shipping: controllers.NewShippingController(shippingService),
	}, cfg.AdminAPIKey)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "service": "storefront-service"})
	})

	// --- HTTP server ---
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Info("Storefront Service started", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Initiating graceful shutdown...")
	httpShutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(httpShutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("Kafka producer close error", zap.Error(err))
		}
	}
	if err := redisClient.Close(); err != nil {
		logger.Error("Redis close error", zap.Error(err))
	}
	if err := database.Close(); err != nil {
		logger.Error("Database close error", zap.Error(err))
	}

	log.Println("Storefront Service stopped gracefully")
}
