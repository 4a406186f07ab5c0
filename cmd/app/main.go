package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"insuretech-wallet/internal/config"
	"insuretech-wallet/internal/domain/ports/repository"
	"insuretech-wallet/internal/infra/api"
	"insuretech-wallet/internal/infra/api/apiv1"
	pg "insuretech-wallet/internal/infra/db/postgres"
	"insuretech-wallet/internal/infra/logging"
	"insuretech-wallet/internal/infra/metrics"
	red "insuretech-wallet/internal/infra/redis"
	"insuretech-wallet/internal/infra/sched"
	"insuretech-wallet/internal/usecase"
)

// Set with -ldflags "-X main.version=... -X main.commit=...".
var (
	version = "dev"
	commit  = "none"
)

func main() {
	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, debug level)")
	mintAdmin := flag.String("mint-admin-token", "", "print an admin bearer token for the given subject and exit")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if *mintAdmin != "" {
		token, err := api.NewAuthManager(cfg.Auth.JWTSecret, 24*time.Hour).Mint(*mintAdmin)
		if err != nil {
			log.Fatalf("mint admin token: %v", err)
		}
		fmt.Println(token)
		return
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("[DEV MODE] Enabled")
	}

	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("service stopped with error")
	}
	logger.Info().Msg("service stopped")
}

func run(cfg *config.Config, logger *zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pool.Close()

	// ---- Repositories ----
	userRepo := pg.NewPostgresUserRepo(pool)
	slotRepo := pg.NewPendingSlotRepo(pool)
	policyRepo := pg.NewPostgresPolicyRepo(pool)
	var productRepo repository.ProductRepository = pg.NewPostgresProductRepo(pool)
	var planRepo repository.PlanRepository = pg.NewPostgresPlanRepo(pool)
	tm := pg.NewTxManager(pool)

	// ---- Redis (optional) ----
	var (
		limiter api.Limiter
		locker  red.Locker
	)
	health := func(ctx context.Context) error { return pool.Ping(ctx) }
	if cfg.Redis.Enabled {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		defer redisClient.Close()

		productRepo = pg.NewProductRepoCacheDecorator(productRepo, redisClient, cfg.Redis.TTL, logger)
		planRepo = pg.NewPlanRepoCacheDecorator(planRepo, redisClient, cfg.Redis.TTL, logger)
		limiter = red.NewRateLimiter(redisClient)
		locker = red.NewLocker(redisClient)
		health = func(ctx context.Context) error {
			if err := pool.Ping(ctx); err != nil {
				return err
			}
			return redisClient.Ping(ctx)
		}
		logger.Info().Str("addr", cfg.Redis.URL).Msg("redis cache enabled")
	}

	// ---- Use cases ----
	txOpts := usecase.TxOptions(pg.IsoLevel(cfg.Database.Isolation))
	purchaseUC := usecase.NewPurchaseUseCase(userRepo, productRepo, planRepo, slotRepo, tm, txOpts, logger,
		usecase.WithMaxQuantity(cfg.Purchase.MaxQuantity))
	activationUC := usecase.NewActivationUseCase(slotRepo, planRepo, userRepo, policyRepo, tm, txOpts, logger,
		usecase.WithNumberAttempts(cfg.Activation.NumberAttempts))
	planUC := usecase.NewPlanUseCase(planRepo, slotRepo, logger)
	slotUC := usecase.NewSlotUseCase(slotRepo, logger)
	policyUC := usecase.NewPolicyUseCase(policyRepo, logger)
	productUC := usecase.NewProductUseCase(productRepo, logger)
	userUC := usecase.NewUserUseCase(userRepo, logger)

	// ---- HTTP ----
	handlers := apiv1.NewServer(purchaseUC, activationUC, planUC, slotUC, policyUC, productUC, userUC, logger)
	router := apiv1.NewRouter(handlers, apiv1.RouterConfig{
		Timeout:    cfg.HTTP.RequestTimeout,
		Limiter:    limiter,
		RateLimit:  cfg.RateLimit.Limit,
		RateWindow: cfg.RateLimit.Window,
		Auth:       api.NewAuthManager(cfg.Auth.JWTSecret, 0),
		Metrics:    metrics.Handler(),
		Health:     health,
	})
	server := api.NewServer(cfg.HTTP.Port, router, logger)

	// ---- Stats worker ----
	worker := sched.NewStatsWorker(cfg.Workers.StatsInterval, slotUC, func() { pg.ReportPoolStats(pool) }, locker, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error {
		if err := worker.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutdown requested")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
