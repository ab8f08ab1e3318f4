package scheduler

import (
	"context"
	"time"

	"freight_broker_backend/platform/config"
	"freight_broker_backend/platform/logger"
)

const expirySweepBatchSize = 200

// TenderExpirer is implemented by the offers service.
type TenderExpirer interface {
	ExpireDueTenders(ctx context.Context, limit int) (int, error)
}

// OfferExpirySweeper periodically moves overdue tenders to EXPIRED. Reads
// already treat an overdue offer as expired, so the sweeper only keeps
// listings, metrics, and carrier notifications from lagging behind.
type OfferExpirySweeper struct {
	offers   TenderExpirer
	log      *logger.Logger
	interval time.Duration
	enabled  bool
}

func NewOfferExpirySweeper(cfg config.SweeperConfig, offers TenderExpirer, log *logger.Logger) *OfferExpirySweeper {
	interval := cfg.GetExpirySweepInterval()
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	return &OfferExpirySweeper{
		offers:   offers,
		log:      log,
		interval: interval,
		enabled:  cfg.IsExpirySweepEnabled(),
	}
}

func (s *OfferExpirySweeper) Run(ctx context.Context) {
	if s == nil || s.offers == nil || !s.enabled {
		return
	}

	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *OfferExpirySweeper) sweep(ctx context.Context) {
	for {
		expired, err := s.offers.ExpireDueTenders(ctx, expirySweepBatchSize)
		if err != nil {
			s.log.Warn("offer expiry sweep failed", "error", err)
			return
		}
		if expired > 0 {
			s.log.Info("offer expiry sweep expired tenders", "expired", expired)
		}
		if expired < expirySweepBatchSize {
			return
		}
	}
}
