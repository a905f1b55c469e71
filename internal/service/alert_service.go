package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"batchtrace/internal/config"
	"batchtrace/internal/model"
	"batchtrace/internal/repository"

	"github.com/rs/zerolog/log"
)

// EmailQueue is the Redis list the outbound mail jobs go through.
const EmailQueue = "queue:emails"

type EmailJob struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
}

// AlertService watches batches approaching their best-before date and mails
// the quality inbox. Only batches still in circulation (new or released) are
// reported; blocked and consumed batches need no action.
type AlertService interface {
	ScanExpiring(ctx context.Context, within time.Duration) (int, error)
}

type alertService struct {
	batches    repository.BatchRepository
	dispatcher JobDispatcher
	cfg        *config.Config
}

func NewAlertService(batches repository.BatchRepository, dispatcher JobDispatcher, cfg *config.Config) AlertService {
	return &alertService{batches: batches, dispatcher: dispatcher, cfg: cfg}
}

func (s *alertService) ScanExpiring(ctx context.Context, within time.Duration) (int, error) {
	cutoff := time.Now().Add(within)
	statuses := []string{model.BatchStatusNew, model.BatchStatusReleased}

	batches, err := s.batches.ListExpired(ctx, cutoff, statuses, 200)
	if err != nil {
		return 0, err
	}
	if len(batches) == 0 {
		return 0, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d batch(es) reach their best-before date before %s:\n\n",
		len(batches), cutoff.Format("2006-01-02"))
	for i := range batches {
		batch := &batches[i]
		product := ""
		if batch.Product != nil {
			product = batch.Product.Name
		}
		fmt.Fprintf(&b, "  %s  %s  best before %s  (%s)\n",
			batch.BatchNumber, product, batch.BestBeforeDate.Format("2006-01-02"), batch.Status)
	}
	b.WriteString("\nPlease review and block or dispose as required.\n")

	job := EmailJob{
		To:      []string{s.cfg.QualityInbox},
		Subject: fmt.Sprintf("Best-before alert: %d batch(es) expiring", len(batches)),
		Body:    b.String(),
	}
	if err := s.dispatcher.Dispatch(ctx, EmailQueue, job); err != nil {
		return 0, err
	}

	log.Info().Int("batches", len(batches)).Msg("expiry alert queued")
	return len(batches), nil
}
