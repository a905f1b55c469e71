package worker

import (
	"context"
	"time"

	"batchtrace/internal/service"

	"github.com/rs/zerolog/log"
)

// StartReportRetryCron periodically re-enqueues errored trace reports whose
// backoff window has elapsed. Runs until ctx is cancelled.
func StartReportRetryCron(ctx context.Context, reports service.ReportService, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := reports.Redispatch(ctx, 50)
				if err != nil {
					log.Error().Err(err).Msg("report retry sweep failed")
					continue
				}
				if n > 0 {
					log.Info().Int("redispatched", n).Msg("report retry sweep")
				}
			}
		}
	}()
}
