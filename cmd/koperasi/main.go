package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/koperasi-erp/koperasi-erp/internal/app"
	"github.com/koperasi-erp/koperasi-erp/internal/loans"
	"github.com/koperasi-erp/koperasi-erp/internal/members"
	"github.com/koperasi-erp/koperasi-erp/internal/observability"
	"github.com/koperasi-erp/koperasi-erp/internal/period"
	periodhttp "github.com/koperasi-erp/koperasi-erp/internal/period/http"
	"github.com/koperasi-erp/koperasi-erp/internal/platform/cache"
	"github.com/koperasi-erp/koperasi-erp/internal/platform/db"
	"github.com/koperasi-erp/koperasi-erp/internal/shared"
	"github.com/koperasi-erp/koperasi-erp/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	// Redis backs both the period mutex and the job queue.
	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := asynqClient.Close(); err != nil {
			logger.Warn("asynq close", slog.Any("error", err))
		}
	}()

	auditLogger := shared.NewAuditLogger(dbpool)
	periodMutex := shared.NewRedisMutex(redisClient)
	journalPoster := jobs.NewAsynqPoster(asynqClient)

	periodRepo := period.NewRepository(dbpool)
	periodService := period.NewService(logger, periodRepo, auditLogger, journalPoster, periodMutex)

	metrics := observability.NewMetrics()
	periodHandler := periodhttp.NewHandler(logger, periodService, metrics)

	memberDirectory := members.NewRepository(dbpool)
	loanRecorder := loans.NewRecorder(memberDirectory, nil)
	loanRepo := loans.NewRepository(dbpool)
	loansHandler := loans.NewHandler(logger, loanRecorder, loanRepo)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:        logger,
		Config:        cfg,
		PeriodHandler: periodHandler,
		LoansHandler:  loansHandler,
		JobHandler:    jobHandler,
		Metrics:       metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
