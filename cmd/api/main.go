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

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"finance-tracker/internal/app"
	"finance-tracker/internal/config"
	"finance-tracker/internal/events"
	apihttp "finance-tracker/internal/http"
	"finance-tracker/internal/service"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := app.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	stores, err := app.OpenStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer stores.Close()

	rateWindow := time.Duration(cfg.LoginRateWindowMinutes) * time.Minute
	var (
		loginLimiter = service.NewMemoryRateLimiter(rateWindow, cfg.LoginRateLimit)
		tokenStore   service.RefreshTokenStore
	)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory token store and limiter", zap.Error(err))
		} else {
			loginLimiter = service.NewRedisRateLimiter(redisClient, rateWindow, cfg.LoginRateLimit, logger)
			tokenStore = service.NewRedisRefreshTokenStore(redisClient)
		}
		cancel()
	}

	jwtSvc := service.NewJWTServiceWithStore(
		cfg.JWTSecret,
		time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute,
		time.Duration(cfg.JWTRefreshTTLMinutes)*time.Minute,
		tokenStore,
	)
	if cfg.JWTSecret == "" {
		logger.Warn("jwt secret not configured")
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.AMQPURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, logger)
		if err != nil {
			logger.Warn("amqp publisher init failed, expense events disabled", zap.Error(err))
		} else {
			publisher = amqpPublisher
		}
	}
	defer publisher.Close()

	userSvc := service.NewUserService(logger, stores.Users, service.NewBcryptHasher(0), loginLimiter)
	expenseSvc := service.NewExpenseService(logger, stores.Expenses, publisher)
	groupSvc := service.NewGroupService(logger, stores.Users, stores.Groups)

	router := apihttp.NewRouter(
		logger,
		cfg.CORSOrigins,
		jwtSvc,
		apihttp.NewUserHandler(logger, userSvc, jwtSvc),
		apihttp.NewExpenseHandler(logger, expenseSvc),
		apihttp.NewGroupHandler(logger, groupSvc),
		stores.Ready,
	)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting server",
			zap.String("port", cfg.HTTPPort),
			zap.String("storage", cfg.StorageBackend),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
