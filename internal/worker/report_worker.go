package worker

import (
	"context"
	"encoding/json"

	"batchtrace/internal/service"

	"github.com/google/uuid"
)

// ReportHandler decodes a trace report job and hands it to the report
// service. Failures bubble up so the pool dead-letters the job; the retry
// cron independently re-enqueues based on the report row's backoff schedule.
func ReportHandler(reports service.ReportService) Handler {
	return func(ctx context.Context, payload json.RawMessage) error {
		var job service.ReportJob
		if err := json.Unmarshal(payload, &job); err != nil {
			return err
		}
		reportID, err := uuid.Parse(job.ReportID)
		if err != nil {
			return err
		}
		return reports.Process(ctx, reportID)
	}
}
