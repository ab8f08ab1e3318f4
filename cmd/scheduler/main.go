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
	"freight_broker_backend/internal/notification"
	"freight_broker_backend/internal/notification/outbox"
	"freight_broker_backend/internal/offers"
	offersvc "freight_broker_backend/internal/offers/service"
	"freight_broker_backend/internal/scheduler"
	"freight_broker_backend/internal/shipments"
	"freight_broker_backend/internal/sms"
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
	log.Info("starting scheduler", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	eventBus := events.NewInMemoryBus(log)
	val := validator.New()

	smsClient := sms.NewClient(cfg, log)
	if smsClient == nil {
		log.Warn("SMS_GATEWAY_URL not configured; outbound SMS disabled")
	}

	var emailSender email.Sender = email.NopSender{}
	if cfg.GetEmailEnabled() {
		emailSender = email.NewSMTPSender(cfg)
	} else {
		log.Warn("EMAIL_ENABLED is false; outbound email disabled")
	}

	// Worker-side wiring; the HTTP handlers of these modules are not mounted.
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

	dispatcher, err := scheduler.NewNotificationOutboxDispatcher(cfg, pool, log)
	if err != nil {
		log.Error("failed to initialize outbox dispatcher", "error", err)
		panic("failed to initialize outbox dispatcher: " + err.Error())
	}
	defer func() { _ = dispatcher.Close() }()
	go dispatcher.Run(ctx)

	sweeper := scheduler.NewOfferExpirySweeper(cfg, offersModule.Service(), log)
	go sweeper.Run(ctx)

	worker, err := scheduler.NewWorker(cfg, eventBus, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
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
