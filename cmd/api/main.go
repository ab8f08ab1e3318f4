package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"freight_broker_backend/internal/carriers"
	"freight_broker_backend/internal/drivers"
	"freight_broker_backend/internal/email"
	"freight_broker_backend/internal/events"
	"freight_broker_backend/internal/exports"
	apphttp "freight_broker_backend/internal/http"
	"freight_broker_backend/internal/http/router"
	"freight_broker_backend/internal/inbound"
	"freight_broker_backend/internal/notification"
	"freight_broker_backend/internal/notification/outbox"
	"freight_broker_backend/internal/offers"
	offerrepo "freight_broker_backend/internal/offers/repository"
	offersvc "freight_broker_backend/internal/offers/service"
	"freight_broker_backend/internal/shipments"
	"freight_broker_backend/internal/sms"
	"freight_broker_backend/migrations"
	"freight_broker_backend/platform/config"
	"freight_broker_backend/platform/db"
	"freight_broker_backend/platform/logger"
	"freight_broker_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, migrations.FS)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// Outbound channels. Both fall back to no-ops when unconfigured so the
	// workflow API stays fully functional in local development.
	smsClient := sms.NewClient(cfg, log)
	if smsClient == nil {
		log.Warn("SMS_GATEWAY_URL not configured; outbound SMS disabled")
	}

	var emailSender email.Sender = email.NopSender{}
	if cfg.GetEmailEnabled() {
		emailSender = email.NewSMTPSender(cfg)
		log.Info("smtp email sender initialized", "host", cfg.GetSMTPHost())
	} else {
		log.Warn("EMAIL_ENABLED is false; outbound email disabled")
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	shipmentsModule := shipments.NewModule(pool, val)
	carriersModule := carriers.NewModule(pool, val)
	driversModule := drivers.NewModule(pool, val)

	offersModule := offers.NewModule(
		pool,
		val,
		offersvc.EligibilityFunc(carriersModule.Service().CheckTenderEligibility),
		offersvc.EligibilityFunc(driversModule.Service().CheckDispatchEligibility),
		eventBus,
		log,
	)

	inboundModule := inbound.NewModule(
		pool,
		offersModule.Service(),
		offerrepo.New(pool),
		eventBus,
		val,
		log,
	)

	// Notification module subscribes to domain events (not HTTP-facing)
	notificationModule := notification.New(
		outbox.New(pool),
		carriersModule.Service(),
		driversModule.Service(),
		shipmentsModule.Service(),
		offersModule.Service(),
		smsClient,
		emailSender,
		cfg,
		log,
	)
	notificationModule.RegisterHandlers(eventBus)

	var exportStore exports.ObjectStore
	if cfg.IsMinIOEnabled() {
		store, err := exports.NewMinIOStore(cfg)
		if err != nil {
			log.Error("failed to initialize export storage", "error", err)
			panic("failed to initialize export storage: " + err.Error())
		}
		exportStore = store
		log.Info("export storage initialized", "bucket", cfg.GetMinioBucketAuditExports())
	} else {
		log.Warn("MINIO_ENDPOINT not configured; audit exports disabled")
	}
	exportsModule := exports.NewModule(pool, val, exportStore, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   pool,
		EventBus: eventBus,
		Modules: []apphttp.Module{
			shipmentsModule,
			carriersModule,
			driversModule,
			offersModule,
			inboundModule,
			exportsModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
