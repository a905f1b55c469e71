package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"batchtrace/internal/config"
	"batchtrace/internal/infra"
	"batchtrace/internal/router"
	"batchtrace/internal/service"
	"batchtrace/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// @title        batchtrace API
// @version      1.0
// @description  Batch traceability, movement ledger, stock reservations and lineage.
// @BasePath     /api/v1
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.Env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	db, err := infra.ConnectDatabase(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}

	rdb, err := infra.ConnectRedis(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}

	dispatcher := worker.NewRedisDispatcher(rdb)
	deps := router.BuildDeps(cfg, db, rdb, dispatcher)

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	mailer := infra.NewSMTPMailer(cfg)
	pool := worker.NewPool(rdb, cfg.WorkerPoolSize)
	pool.Register(service.ReportQueue, worker.ReportHandler(deps.Reports))
	pool.Register(service.EmailQueue, worker.EmailHandler(mailer, deps.MailBreaker))
	pool.Start(workerCtx)

	worker.StartReportRetryCron(workerCtx, deps.Reports, time.Minute)
	worker.StartExpiryCron(workerCtx, deps.Alerts, 24*time.Hour, 14*24*time.Hour)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router.New(deps),
	}

	go func() {
		log.Info().Int("port", cfg.Port).Str("env", cfg.Env).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}

	stopWorkers()
	pool.Wait()
	log.Info().Msg("stopped")
}
