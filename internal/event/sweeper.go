package event

import (
	"context"
	"time"

	"dishpatch-be/internal/logger"

	"go.uber.org/zap"
)

// Sweeper re-publishes events that never received a broker ack.
// Consumers must dedupe on the event id, since a slow ack can race a
// sweep and deliver the same event twice.
type Sweeper struct {
	ledger   Ledger
	pub      Publisher
	interval time.Duration
	minAge   time.Duration
}

func NewSweeper(ledger Ledger, pub Publisher, interval, minAge time.Duration) *Sweeper {
	return &Sweeper{
		ledger:   ledger,
		pub:      pub,
		interval: interval,
		minAge:   minAge,
	}
}

// Run sweeps until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweepOnce(ctx)
		}
	}
}

func (s *Sweeper) sweepOnce(ctx context.Context) {
	pending, err := s.ledger.Pending(ctx, s.minAge)
	if err != nil {
		logger.L().Warn("event sweep failed to list pending", zap.Error(err))
		return
	}

	for _, evt := range pending {
		if err := s.pub.Publish(ctx, evt); err != nil {
			logger.L().Warn("event re-publish failed",
				zap.String("event_id", evt.ID),
				zap.String("order_id", evt.OrderID),
				zap.Error(err),
			)
			continue
		}
		logger.L().Info("re-published unacknowledged event",
			zap.String("event_id", evt.ID),
			zap.String("order_id", evt.OrderID),
			zap.String("type", string(evt.Type)),
		)
	}
}
