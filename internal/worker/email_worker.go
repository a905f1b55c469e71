package worker

import (
	"context"
	"encoding/json"

	"batchtrace/internal/infra"
	"batchtrace/internal/service"
)

// EmailHandler sends queued mail through the SMTP mailer behind a circuit
// breaker. While the breaker is open jobs fail fast and land in the DLQ
// rather than stacking up against a dead relay.
func EmailHandler(mailer infra.Mailer, breaker *infra.CircuitBreaker) Handler {
	return func(ctx context.Context, payload json.RawMessage) error {
		var job service.EmailJob
		if err := json.Unmarshal(payload, &job); err != nil {
			return err
		}
		return breaker.Execute(func() error {
			return mailer.Send(job.To, job.Subject, job.Body)
		})
	}
}
