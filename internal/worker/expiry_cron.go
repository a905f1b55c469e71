package worker

import (
	"context"
	"time"

	"batchtrace/internal/service"

	"github.com/rs/zerolog/log"
)

// StartExpiryCron scans for batches nearing their best-before date once per
// interval and queues an alert mail to the quality inbox.
func StartExpiryCron(ctx context.Context, alerts service.AlertService, interval, window time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := alerts.ScanExpiring(ctx, window)
				if err != nil {
					log.Error().Err(err).Msg("expiry scan failed")
					continue
				}
				if n > 0 {
					log.Info().Int("expiring", n).Msg("expiry scan")
				}
			}
		}
	}()
}
