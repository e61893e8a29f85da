package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
	"bid-wiser.backend/internal/domain/repositories"
	"bid-wiser.backend/pkg/logger"
)

// OTPExpiryJob periodically clears verification codes that outlived their
// validity window, so stale OTPs do not linger on unverified accounts. The
// verification path enforces expiry on its own; this job is housekeeping.
type OTPExpiryJob struct {
	repo     repositories.UserRepository
	ttl      time.Duration
	interval time.Duration
	stop     chan struct{}
}

func NewOTPExpiryJob(repo repositories.UserRepository, ttl time.Duration) *OTPExpiryJob {
	return &OTPExpiryJob{
		repo:     repo,
		ttl:      ttl,
		interval: time.Minute,
		stop:     make(chan struct{}),
	}
}

func (j *OTPExpiryJob) Start(ctx context.Context) {
	logger.Info(ctx, "starting otp expiry job", zap.Duration("ttl", j.ttl), zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "otp expiry job stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "otp expiry job stopped")
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *OTPExpiryJob) Stop() {
	close(j.stop)
}

func (j *OTPExpiryJob) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-j.ttl)
	cleared, err := j.repo.ClearExpiredOTPs(ctx, cutoff)
	if err != nil {
		logger.Error(ctx, "failed to clear expired otps", zap.Error(err))
		return
	}
	if cleared > 0 {
		logger.Info(ctx, "cleared expired otps", zap.Int64("count", cleared))
	}
}
