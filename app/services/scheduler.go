package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/AziCodder/api-coddy-crm/app/config"
	"github.com/AziCodder/api-coddy-crm/app/database"
	"github.com/AziCodder/api-coddy-crm/app/logging"
	"github.com/AziCodder/api-coddy-crm/app/metrics"
	"github.com/AziCodder/api-coddy-crm/app/observability"
)

// StartOverdueSweep runs the overdue marker on a fixed interval until the
// context is cancelled. One sweep runs immediately at startup so a restart
// never leaves stale statuses waiting a full interval.
func StartOverdueSweep(ctx context.Context, interval time.Duration) {
	go func() {
		sweep()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				logging.L.Info("overdue sweep stopped")
				return
			case <-ticker.C:
				sweep()
			}
		}
	}()
}

func sweep() {
	metrics.OverdueSweeps.Inc()

	marked, err := database.MarkOverdue(config.GetDB())
	if err != nil {
		logging.L.Error("overdue sweep failed", zap.Error(err))
		observability.CaptureErr(err)
		return
	}
	metrics.OverdueMarked.Add(float64(marked))
	if marked > 0 {
		logging.L.Info("marked student tasks overdue", zap.Int64("count", marked))
	}
}
