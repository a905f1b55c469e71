package service

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"batchtrace/internal/apierror"
	"batchtrace/internal/config"
	"batchtrace/internal/dto"
	"batchtrace/internal/infra"
	"batchtrace/internal/model"
	"batchtrace/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReportQueue is the Redis list the PDF generation jobs go through.
const ReportQueue = "queue:trace_reports"

// MaxReportRetries bounds the retry cron. A report that fails this many
// times stays in error state with next_retry_at cleared.
const MaxReportRetries = 5

// ReportJob is the queue payload. Everything else is loaded from the report
// row when the job runs.
type ReportJob struct {
	ReportID string `json:"report_id"`
}

// JobDispatcher pushes a job payload onto a named queue. The worker package
// provides the Redis implementation.
type JobDispatcher interface {
	Dispatch(ctx context.Context, queue string, payload interface{}) error
}

type ReportService interface {
	// Request records a pending report and enqueues its generation.
	Request(ctx context.Context, batchID uuid.UUID, direction string, requestedBy *uuid.UUID) (*dto.ReportResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ReportResponse, error)
	// FilePath returns the finished PDF's path on disk.
	FilePath(ctx context.Context, id uuid.UUID) (string, error)
	ListByBatch(ctx context.Context, batchID uuid.UUID) ([]dto.ReportResponse, error)
	// Process generates the PDF for one report. Called from the worker pool;
	// failures are recorded on the row with a backoff schedule for the
	// retry cron.
	Process(ctx context.Context, reportID uuid.UUID) error
	// Redispatch re-enqueues errored reports whose retry time has passed.
	Redispatch(ctx context.Context, batchSize int) (int, error)
}

type reportService struct {
	reports    repository.ReportRepository
	batches    repository.BatchRepository
	lineage    LineageService
	dispatcher JobDispatcher
	cfg        *config.Config
}

func NewReportService(
	reports repository.ReportRepository,
	batches repository.BatchRepository,
	lineage LineageService,
	dispatcher JobDispatcher,
	cfg *config.Config,
) ReportService {
	return &reportService{
		reports:    reports,
		batches:    batches,
		lineage:    lineage,
		dispatcher: dispatcher,
		cfg:        cfg,
	}
}

func (s *reportService) Request(ctx context.Context, batchID uuid.UUID, direction string, requestedBy *uuid.UUID) (*dto.ReportResponse, error) {
	if _, err := s.batches.FindByID(ctx, batchID); err != nil {
		return nil, translateNotFound(err, "batch", batchID.String())
	}

	report := &model.TraceReport{
		BatchID:     batchID,
		Direction:   direction,
		Status:      model.ReportPending,
		RequestedBy: requestedBy,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, err
	}

	if err := s.dispatcher.Dispatch(ctx, ReportQueue, ReportJob{ReportID: report.ID.String()}); err != nil {
		// The row exists; the retry cron will pick it up even if the
		// enqueue failed.
		log.Error().Err(err).Str("report_id", report.ID.String()).Msg("report enqueue failed")
		now := time.Now().Add(time.Minute)
		report.Status = model.ReportError
		msg := "enqueue failed: " + err.Error()
		report.LastError = &msg
		report.NextRetryAt = &now
		if uerr := s.reports.Update(ctx, report); uerr != nil {
			return nil, uerr
		}
	}

	return toReportResponse(report), nil
}

func (s *reportService) Get(ctx context.Context, id uuid.UUID) (*dto.ReportResponse, error) {
	report, err := s.reports.FindByID(ctx, id)
	if err != nil {
		return nil, translateNotFound(err, "report", id.String())
	}
	return toReportResponse(report), nil
}

func (s *reportService) FilePath(ctx context.Context, id uuid.UUID) (string, error) {
	report, err := s.reports.FindByID(ctx, id)
	if err != nil {
		return "", translateNotFound(err, "report", id.String())
	}
	if report.Status != model.ReportDone || report.PDFPath == nil {
		return "", apierror.NewDomainValidation("report %s is not finished", id.String())
	}
	return *report.PDFPath, nil
}

func (s *reportService) ListByBatch(ctx context.Context, batchID uuid.UUID) ([]dto.ReportResponse, error) {
	reports, err := s.reports.ListByBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReportResponse, 0, len(reports))
	for i := range reports {
		out = append(out, *toReportResponse(&reports[i]))
	}
	return out, nil
}

func (s *reportService) Process(ctx context.Context, reportID uuid.UUID) error {
	report, err := s.reports.FindByID(ctx, reportID)
	if err != nil {
		return translateNotFound(err, "report", reportID.String())
	}
	if report.Status == model.ReportDone {
		return nil
	}

	data, genErr := s.buildReportData(ctx, report)
	if genErr == nil {
		path := filepath.Join(s.cfg.PDFStoragePath, report.ID.String()+".pdf")
		if genErr = infra.RenderTraceReport(path, *data); genErr == nil {
			report.Status = model.ReportDone
			report.PDFPath = &path
			report.LastError = nil
			report.NextRetryAt = nil
			log.Info().Str("report_id", report.ID.String()).Str("path", path).Msg("trace report generated")
			return s.reports.Update(ctx, report)
		}
	}

	report.Status = model.ReportError
	report.RetryCount++
	msg := genErr.Error()
	report.LastError = &msg
	if report.RetryCount < MaxReportRetries {
		// Exponential backoff: 1, 2, 4, 8 minutes.
		next := time.Now().Add(time.Duration(1<<(report.RetryCount-1)) * time.Minute)
		report.NextRetryAt = &next
	} else {
		report.NextRetryAt = nil
		log.Error().Str("report_id", report.ID.String()).Int("retries", report.RetryCount).Msg("trace report gave up after max retries")
	}
	if uerr := s.reports.Update(ctx, report); uerr != nil {
		return uerr
	}
	return genErr
}

func (s *reportService) buildReportData(ctx context.Context, report *model.TraceReport) (*infra.TraceReportData, error) {
	data := &infra.TraceReportData{
		Direction:   report.Direction,
		GeneratedAt: time.Now(),
	}

	switch report.Direction {
	case model.TraceForward:
		trace, err := s.lineage.TraceForward(ctx, report.BatchID)
		if err != nil {
			return nil, err
		}
		data.BatchNumber = trace.Batch.BatchNumber
		data.ProductName = trace.Batch.ProductName
		for _, u := range trace.Usages {
			data.Rows = append(data.Rows, infra.TraceReportRow{
				BatchNumber: u.Destination.BatchNumber,
				ProductName: u.Destination.ProductName,
				Process:     u.ProcessType,
				Quantity:    u.Quantity.String(),
				Continues:   u.HasFurtherUsage,
			})
		}
	case model.TraceBackward:
		trace, err := s.lineage.TraceBackward(ctx, report.BatchID)
		if err != nil {
			return nil, err
		}
		data.BatchNumber = trace.Batch.BatchNumber
		data.ProductName = trace.Batch.ProductName
		for _, c := range trace.Components {
			data.Rows = append(data.Rows, infra.TraceReportRow{
				BatchNumber: c.Source.BatchNumber,
				ProductName: c.Source.ProductName,
				Process:     c.ProcessType,
				Quantity:    c.Quantity.String(),
				Continues:   c.HasFurtherComponents,
			})
		}
	default:
		return nil, fmt.Errorf("unknown trace direction %q", report.Direction)
	}
	return data, nil
}

func (s *reportService) Redispatch(ctx context.Context, batchSize int) (int, error) {
	reports, err := s.reports.ListPendingRetries(ctx, time.Now(), batchSize)
	if err != nil {
		return 0, err
	}

	dispatched := 0
	for i := range reports {
		report := &reports[i]
		report.Status = model.ReportPending
		report.NextRetryAt = nil
		if err := s.reports.Update(ctx, report); err != nil {
			log.Error().Err(err).Str("report_id", report.ID.String()).Msg("retry update failed")
			continue
		}
		if err := s.dispatcher.Dispatch(ctx, ReportQueue, ReportJob{ReportID: report.ID.String()}); err != nil {
			log.Error().Err(err).Str("report_id", report.ID.String()).Msg("retry enqueue failed")
			continue
		}
		dispatched++
	}
	return dispatched, nil
}

func toReportResponse(r *model.TraceReport) *dto.ReportResponse {
	resp := &dto.ReportResponse{
		ID:        r.ID.String(),
		BatchID:   r.BatchID.String(),
		Direction: r.Direction,
		Status:    r.Status,
		LastError: r.LastError,
		CreatedAt: r.CreatedAt.Format(time.RFC3339),
	}
	if r.PDFPath != nil && r.Status == model.ReportDone {
		url := fmt.Sprintf("/api/v1/reports/%s/pdf", r.ID.String())
		resp.PDFUrl = &url
	}
	return resp
}
