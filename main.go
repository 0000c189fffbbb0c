package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AveGamers/HolySMP-Website/config"
	"github.com/AveGamers/HolySMP-Website/controllers"
	"github.com/AveGamers/HolySMP-Website/logger"
	"github.com/AveGamers/HolySMP-Website/middleware"
	awspkg "github.com/AveGamers/HolySMP-Website/pkg/aws"
	"github.com/AveGamers/HolySMP-Website/providers"
	"github.com/AveGamers/HolySMP-Website/routes"
	"github.com/AveGamers/HolySMP-Website/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const serviceName = "shop-api"

func main() {
	zapLogger, err := logger.Initialize(os.Getenv("APP_ENV"))
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync() //nolint:errcheck

	cfg, err := config.Load()
	if err != nil {
		zapLogger.Fatal("Failed to load config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// AWS clients, all optional
	var (
		publisher services.EventPublisher
		metrics   *awspkg.MetricsClient
	)
	if cfg.UseAWSSecrets || cfg.BasketSNSTopicARN != "" || cfg.CloudWatchEnabled {
		awsCfg, awsErr := awspkg.LoadAWSConfig(ctx, zapLogger)
		if awsErr != nil {
			zapLogger.Warn("AWS config unavailable, AWS integrations disabled", zap.Error(awsErr))
		} else {
			if cfg.UseAWSSecrets {
				if err := cfg.ResolveSecrets(ctx, awspkg.NewSecretsClient(awsCfg)); err != nil {
					zapLogger.Fatal("Failed to resolve Tebex secret", zap.Error(err))
				}
			}
			if cfg.BasketSNSTopicARN != "" {
				publisher = awspkg.NewSNSClient(awsCfg, zapLogger)
			}
			metrics = awspkg.NewMetricsClient(awsCfg, cfg.CloudWatchNamespace, cfg.CloudWatchEnabled)
		}
	}
	if err := cfg.ResolveSecrets(ctx, nil); err != nil {
		zapLogger.Fatal("Tebex secret token missing", zap.Error(err))
	}

	// Provider and DI chain
	tebex := providers.NewTebexProvider(providers.TebexConfig{
		BaseURL:     cfg.TebexAPIBase,
		PublicToken: cfg.TebexPublicToken,
		SecretToken: cfg.TebexSecretToken,
		Timeout:     cfg.TebexTimeout,
	}, zapLogger)

	opts := services.BasketOptions{
		CompleteURL: cfg.ShopCompleteURL,
		CancelURL:   cfg.ShopCancelURL,
		Publisher:   publisher,
		EventTopic:  cfg.BasketSNSTopicARN,
	}
	if metrics.IsEnabled() {
		opts.Metrics = metrics
	}
	basketService := services.NewBasketService(tebex, opts, zapLogger)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(zapLogger, cfg.IsDevelopment()))
	r.Use(middleware.RequestLogger(zapLogger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	if metrics.IsEnabled() {
		r.Use(middleware.Metrics(metrics, serviceName))
	}

	limiter := middleware.NewRateLimiter(ctx, cfg.RateLimitPerMinute, cfg.RateLimitBurst, 5*time.Minute)
	routes.RegisterRoutes(r, routes.Controllers{
		Health: controllers.NewHealthController(time.Now()),
		Shop:   controllers.NewShopController(tebex, basketService, zapLogger),
		Stats:  controllers.NewStatsController(services.NewStaticStatsService()),
	}, limiter.Middleware())

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	zapLogger.Info("HolySMP shop API started",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.AppEnv),
		zap.String("webstore", cfg.TebexWebstoreID),
		zap.String("project", cfg.TebexProjectID),
		zap.String("api_base", cfg.TebexAPIBase),
		zap.Strings("allowed_origins", cfg.AllowedOrigins),
	)

	<-ctx.Done()
	zapLogger.Info("Shutting down shop API...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	zapLogger.Info("Server exited cleanly")
}
