package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/wynresh/sunem/internal/core/port"
	"github.com/wynresh/sunem/internal/infra/config"
	"github.com/wynresh/sunem/internal/infra/database"
	kafkainfra "github.com/wynresh/sunem/internal/infra/kafka"
	"github.com/wynresh/sunem/internal/infra/logger"
	"github.com/wynresh/sunem/internal/infra/mail"
	redisinfra "github.com/wynresh/sunem/internal/infra/redis"
	"github.com/wynresh/sunem/internal/infra/security"
	postgresrepo "github.com/wynresh/sunem/internal/repository/postgres"
	redisrepo "github.com/wynresh/sunem/internal/repository/redis"
	"github.com/wynresh/sunem/internal/transport/http/middleware"
	"github.com/wynresh/sunem/internal/transport/http/routes"
	"github.com/wynresh/sunem/internal/usecase"
)

// Application owns the wired object graph and its lifecycle.
type Application struct {
	cfg      *config.AppConfig
	engine   *gin.Engine
	logger   *zap.Logger
	pool     *pgxpool.Pool
	redis    *redisinfra.Client
	producer *kafkainfra.Producer
}

// New wires configuration into a runnable application.
func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	// Fail fast on malformed token lifetimes instead of at first issuance.
	for name, value := range map[string]string{
		"access_expiration":       cfg.JWT.AccessExpiration,
		"refresh_expiration":      cfg.JWT.RefreshExpiration,
		"verify_email_expiration": cfg.JWT.VerifyEmailExpiration,
		"otp_expiration":          cfg.JWT.OTPExpiration,
	} {
		if _, err := security.ParseExpiration(value); err != nil {
			return nil, fmt.Errorf("jwt.%s: %w", name, err)
		}
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	redisClient, err := redisinfra.NewClient(cfg.Redis, log)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init redis: %w", err)
	}

	tokens := security.NewTokenService([]byte(cfg.JWT.Secret))

	var (
		eventPublisher port.EventPublisher
		producer       *kafkainfra.Producer
	)
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err = kafkainfra.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
			eventPublisher = kafkainfra.NewStubPublisher(log)
		} else {
			eventPublisher = kafkainfra.NewEventPublisher(producer, cfg.App, log)
			log.Info("kafka event publisher initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
		}
	} else {
		log.Info("kafka brokers not configured, using stub publisher")
		eventPublisher = kafkainfra.NewStubPublisher(log)
	}

	var mailer port.Mailer
	if cfg.Mail.Host != "" {
		smtpMailer, err := mail.NewSMTPMailer(cfg.Mail, log)
		if err != nil {
			closeAll(pool, redisClient, producer)
			return nil, fmt.Errorf("init mailer: %w", err)
		}
		mailer = smtpMailer
	} else {
		log.Info("smtp host not configured, verification mail goes to the log")
		mailer = mail.NewLogMailer(log)
	}

	repos := postgresrepo.NewRepositories(pool)

	rateLimitWindow := cfg.RateLimit.WindowDuration
	if rateLimitWindow <= 0 {
		rateLimitWindow = time.Minute
	}
	rateLimitStore := redisrepo.NewRateLimitRepository(redisClient.Client(), redisrepo.SlidingWindowConfig{
		KeyPrefix: "sunem:rate-limit",
		TTL:       rateLimitWindow * 2,
	})
	rateLimiter := middleware.NewRateLimiter(rateLimitStore, log)

	metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{})
	if err != nil {
		closeAll(pool, redisClient, producer)
		return nil, fmt.Errorf("init http metrics: %w", err)
	}

	audit := usecase.NewAuditRecorder(repos.Audit, log)

	authService := usecase.NewAuthService(cfg, repos.Users, tokens, mailer, eventPublisher, log)
	userService := usecase.NewUserService(repos.Users, repos.Roles, audit)
	storeService := usecase.NewStoreService(repos.Stores, audit)
	catalogService := usecase.NewCatalogService(repos.Categories, repos.Products, audit)
	inventoryService := usecase.NewInventoryService(repos.Inventory, repos.Products, audit, log)
	procurementService := usecase.NewProcurementService(repos.Suppliers, repos.PurchaseOrders, repos.Inventory, audit)
	promotionService := usecase.NewPromotionService(repos.Promotions, audit)
	customerService := usecase.NewCustomerService(cfg, repos.Customers, repos.Loyalty, audit)
	salesService := usecase.NewSalesService(repos.Sales, repos.Inventory, repos.Customers, repos.Loyalty, eventPublisher, audit, log)

	engine := routes.Register(routes.Dependencies{
		Config:      cfg,
		Logger:      log,
		RateLimiter: rateLimiter,
		Metrics:     metrics,
		Tokens:      tokens,
		Database:    pool,
		Cache:       redisClient,
		Services: routes.ServiceSet{
			Auth:        authService,
			Users:       userService,
			Stores:      storeService,
			Catalog:     catalogService,
			Inventory:   inventoryService,
			Procurement: procurementService,
			Promotions:  promotionService,
			Customers:   customerService,
			Sales:       salesService,
			Audit:       audit,
		},
	})

	return &Application{
		cfg:      cfg,
		engine:   engine,
		logger:   log,
		pool:     pool,
		redis:    redisClient,
		producer: producer,
	}, nil
}

// Run serves HTTP until the context is cancelled, then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer closeAll(a.pool, a.redis, a.producer)

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting retail API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}

func closeAll(pool *pgxpool.Pool, redisClient *redisinfra.Client, producer *kafkainfra.Producer) {
	if producer != nil {
		_ = producer.Close()
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if pool != nil {
		pool.Close()
	}
}
