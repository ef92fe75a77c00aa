package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	catalogapp "github.com/shop/backend/internal/application/catalog"
	integrationapp "github.com/shop/backend/internal/application/integration"
	notificationapp "github.com/shop/backend/internal/application/notification"
	orderingapp "github.com/shop/backend/internal/application/ordering"
	shippingapp "github.com/shop/backend/internal/application/shipping"
	"github.com/shop/backend/internal/domain/integration"
	"github.com/shop/backend/internal/domain/shared"
	"github.com/shop/backend/internal/domain/shipping"
	"github.com/shop/backend/internal/infrastructure/cache"
	"github.com/shop/backend/internal/infrastructure/config"
	"github.com/shop/backend/internal/infrastructure/logger"
	"github.com/shop/backend/internal/infrastructure/marketplace"
	"github.com/shop/backend/internal/infrastructure/notification"
	"github.com/shop/backend/internal/infrastructure/payment"
	"github.com/shop/backend/internal/infrastructure/persistence"
	"github.com/shop/backend/internal/infrastructure/scheduler"
	"github.com/shop/backend/internal/interfaces/http/handler"
	"github.com/shop/backend/internal/interfaces/http/middleware"
	"github.com/shop/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("Failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting shop backend",
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, logger.NewGormLogger(log, gormlogger.Warn))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	productRepo := persistence.NewGormProductRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	credentialRepo := persistence.NewGormCredentialRepository(db.DB)

	// Idempotency store, Redis when configured, in-memory otherwise
	var idempotencyStore shared.IdempotencyStore
	if cfg.Redis.Host != "" {
		store, err := cache.NewRedisIdempotencyStore(cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		idempotencyStore = store
		log.Info("Using Redis idempotency store", zap.String("host", cfg.Redis.Host))
	} else {
		idempotencyStore = cache.NewInMemoryIdempotencyStore()
		log.Warn("Redis not configured, webhook replay protection is per-process only")
	}

	// External platform adapters
	var paymentGateway integration.PaymentGateway = unconfiguredPaymentGateway{}
	if cfg.Payment.Configured() {
		adapter, err := payment.NewMercadoPagoAdapter(&payment.MercadoPagoConfig{
			AccessToken:    cfg.Payment.AccessToken,
			APIBaseURL:     cfg.Payment.APIBaseURL,
			TimeoutSeconds: cfg.Payment.TimeoutSeconds,
		})
		if err != nil {
			log.Fatal("Failed to build payment adapter", zap.Error(err))
		}
		paymentGateway = adapter
	} else {
		log.Warn("Payment processor not configured, webhook processing is disabled")
	}

	var marketplaceClient integration.MarketplaceClient = unconfiguredMarketplaceClient{}
	var shippingClient shipping.Client = unconfiguredShippingClient{}
	if cfg.Marketplace.Configured() {
		adapter, err := marketplace.NewMeliAdapter(&marketplace.MeliConfig{
			ClientID:       cfg.Marketplace.ClientID,
			ClientSecret:   cfg.Marketplace.ClientSecret,
			RedirectURI:    cfg.Marketplace.RedirectURI,
			APIBaseURL:     cfg.Marketplace.APIBaseURL,
			TimeoutSeconds: cfg.Marketplace.TimeoutSeconds,
		})
		if err != nil {
			log.Fatal("Failed to build marketplace adapter", zap.Error(err))
		}
		marketplaceClient = adapter
		shippingClient = adapter
	} else {
		log.Warn("Marketplace not configured, integration endpoints will report errors")
	}

	// Outbound notifications
	senders := make([]notificationapp.Sender, 0, 2)
	if cfg.Notification.SMTP.Configured() {
		senders = append(senders, notification.NewEmailSender(notification.EmailConfig{
			Host:     cfg.Notification.SMTP.Host,
			Port:     cfg.Notification.SMTP.Port,
			Username: cfg.Notification.SMTP.Username,
			Password: cfg.Notification.SMTP.Password,
			From:     cfg.Notification.SMTP.From,
			To:       cfg.Notification.SMTP.To,
		}))
	}
	if cfg.Notification.WhatsApp.Configured() {
		senders = append(senders, notification.NewWhatsAppSender(notification.WhatsAppConfig{
			RelayURL:       cfg.Notification.WhatsApp.RelayURL,
			Token:          cfg.Notification.WhatsApp.Token,
			To:             cfg.Notification.WhatsApp.To,
			TimeoutSeconds: cfg.Notification.WhatsApp.TimeoutSeconds,
		}))
	}
	dispatcher := notificationapp.NewDispatcher(log, senders...)

	// Application services
	idemConfig := shared.DefaultIdempotencyConfig()
	productService := catalogapp.NewProductService(productRepo)
	cartService := catalogapp.NewCartService(productRepo)
	feedService := catalogapp.NewFeedService(productRepo, cfg.Feed.BaseURL, cfg.Feed.Brand)
	checkoutService := orderingapp.NewCheckoutService(orderRepo, productRepo)
	credentialService := integrationapp.NewCredentialService(credentialRepo, marketplaceClient, log)
	paymentWebhookService := orderingapp.NewPaymentWebhookService(
		orderRepo, paymentGateway, idempotencyStore, idemConfig, dispatcher, log)
	marketplaceWebhookService := integrationapp.NewMarketplaceWebhookService(
		credentialService, marketplaceClient, productRepo, idempotencyStore, idemConfig, dispatcher, log)
	shipmentService := shippingapp.NewShipmentService(shippingClient, orderRepo, credentialService, log)

	// Background credential refresh
	var refreshScheduler *scheduler.CredentialRefreshScheduler
	if cfg.Scheduler.CredentialRefreshEnabled && cfg.Marketplace.Configured() {
		schedulerConfig := scheduler.DefaultCredentialRefreshConfig()
		if cfg.Scheduler.CredentialRefreshInterval > 0 {
			schedulerConfig.Interval = cfg.Scheduler.CredentialRefreshInterval
		}
		if cfg.Scheduler.CredentialRefreshWindow > 0 {
			schedulerConfig.Window = cfg.Scheduler.CredentialRefreshWindow
		}
		refreshScheduler, err = scheduler.NewCredentialRefreshScheduler(schedulerConfig, credentialService, log)
		if err != nil {
			log.Fatal("Failed to build credential refresh scheduler", zap.Error(err))
		}
		if err := refreshScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start credential refresh scheduler", zap.Error(err))
		}
	}

	// HTTP engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Failed to set trusted proxies", zap.Error(err))
	}
	engine.Use(
		middleware.RequestID(),
		logger.RequestLogger(log),
		logger.Recovery(log),
		middleware.Secure(),
		middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: cfg.HTTP.CORSAllowOrigins,
			AllowMethods: cfg.HTTP.CORSAllowMethods,
			AllowHeaders: cfg.HTTP.CORSAllowHeaders,
			MaxAge:       12 * time.Hour,
		}),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	r := router.NewRouter(engine)
	r.Register(handler.NewSystemHandler(cfg))
	r.Register(handler.NewProductHandler(productService, cartService))
	r.Register(handler.NewOrderHandler(checkoutService, shipmentService))
	r.Register(handler.NewOAuthHandler(credentialService))
	r.Register(handler.NewShipmentHandler(shipmentService))
	r.RegisterRoot(handler.NewWebhookHandler(paymentWebhookService, marketplaceWebhookService, log))
	r.RegisterRoot(handler.NewFeedHandler(feedService, log))
	r.Setup()

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", zap.Error(err))
	}
	if refreshScheduler != nil {
		if err := refreshScheduler.Stop(shutdownCtx); err != nil {
			log.Error("Scheduler shutdown failed", zap.Error(err))
		}
	}
	// Let in-flight notification sends finish
	dispatcher.Wait()
	if err := idempotencyStore.Close(); err != nil {
		log.Error("Idempotency store close failed", zap.Error(err))
	}

	log.Info("Shutdown complete")
}

// unconfiguredPaymentGateway stands in when no payment credentials are set
type unconfiguredPaymentGateway struct{}

func (unconfiguredPaymentGateway) GetPayment(ctx context.Context, paymentID string) (*integration.PaymentDetail, error) {
	return nil, integration.ErrNotConfigured
}

// unconfiguredMarketplaceClient stands in when no marketplace app is set up
type unconfiguredMarketplaceClient struct{}

func (unconfiguredMarketplaceClient) ExchangeCode(ctx context.Context, code, redirectURI string) (*integration.TokenGrant, error) {
	return nil, integration.ErrNotConfigured
}

func (unconfiguredMarketplaceClient) RefreshGrant(ctx context.Context, refreshToken string) (*integration.TokenGrant, error) {
	return nil, integration.ErrNotConfigured
}

func (unconfiguredMarketplaceClient) GetOrder(ctx context.Context, accessToken, resource string) (*integration.MarketplaceOrder, error) {
	return nil, integration.ErrNotConfigured
}

// unconfiguredShippingClient stands in when no marketplace app is set up
type unconfiguredShippingClient struct{}

func (unconfiguredShippingClient) Quote(ctx context.Context, accessToken string, req shipping.QuoteRequest) ([]shipping.Option, error) {
	return nil, integration.ErrNotConfigured
}

func (unconfiguredShippingClient) Create(ctx context.Context, accessToken string, req shipping.CreateRequest) (*shipping.Shipment, error) {
	return nil, integration.ErrNotConfigured
}
