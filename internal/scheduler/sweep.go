package scheduler

import (
	"context"
	"time"

	"lead_dashboard_backend/platform/logger"
)

const defaultFollowUpSweepInterval = time.Hour

// FollowUpSweep runs the follow-up check on a ticker inside the API process.
// It is used when no Redis is configured for the asynq worker.
type FollowUpSweep struct {
	checker  *FollowUpChecker
	log      *logger.Logger
	interval time.Duration
}

func NewFollowUpSweep(checker *FollowUpChecker, log *logger.Logger, interval time.Duration) *FollowUpSweep {
	if interval <= 0 {
		interval = defaultFollowUpSweepInterval
	}
	return &FollowUpSweep{checker: checker, log: log, interval: interval}
}

func (s *FollowUpSweep) Run(ctx context.Context) {
	if s == nil || s.checker == nil {
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

func (s *FollowUpSweep) sweep(ctx context.Context) {
	if _, err := s.checker.Check(ctx, time.Time{}); err != nil {
		s.log.Warn("follow-up sweep failed", "error", err)
	}
}
