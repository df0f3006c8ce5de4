package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mahefa-ra/agentwatch/internal/api/handlers"
	"github.com/mahefa-ra/agentwatch/internal/api/router"
	"github.com/mahefa-ra/agentwatch/internal/config"
	"github.com/mahefa-ra/agentwatch/internal/detector"
	"github.com/mahefa-ra/agentwatch/internal/domain/threshold"
	"github.com/mahefa-ra/agentwatch/internal/pkg/logger"
	"github.com/mahefa-ra/agentwatch/internal/pkg/validator"
	"github.com/mahefa-ra/agentwatch/internal/repository/postgres"
	"github.com/mahefa-ra/agentwatch/internal/services"
	"github.com/mahefa-ra/agentwatch/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	db, err := postgres.New(cfg.Database)
	if err != nil {
		log.ErrorWithErr(err, "Failed to connect to database")
		os.Exit(1)
	}
	defer db.Close()

	log.WithFields(map[string]interface{}{
		"driver": cfg.Database.Driver,
	}).Info("Connected to database")

	loc, err := time.LoadLocation(cfg.Detector.Timezone)
	if err != nil {
		log.ErrorWithErr(err, "Invalid detector timezone")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Repositories
	auditRepo := postgres.NewAuditRepository(db)
	thresholdRepo := postgres.NewThresholdRepository(db)
	dismissalRepo := postgres.NewDismissalRepository(db)
	agentRepo := postgres.NewAgentRepository(db)

	// Services
	val := validator.New()
	auditSvc := services.NewAuditService(auditRepo, log)
	thresholdSvc := services.NewThresholdService(thresholdRepo, val, log)
	dismissalSvc, err := services.NewDismissalService(ctx, dismissalRepo, log)
	if err != nil {
		log.ErrorWithErr(err, "Failed to load dismissals")
		os.Exit(1)
	}

	detectionSvc := services.NewDetectionService(
		detector.New(log, loc),
		auditSvc,
		thresholdSvc,
		dismissalSvc,
		agentRepo,
		log,
	)

	// Evaluation worker: periodic tick plus ingest/threshold triggers
	evaluator := worker.NewEvaluator(detectionSvc, cfg.Detector.EvalInterval, log)
	thresholdSvc.OnChanged(func(threshold.Config) {
		evaluator.Trigger("threshold_change")
	})
	go evaluator.Start(ctx)

	// HTTP server
	h := &router.Handlers{
		Health:    handlers.NewHealthHandler(db.DB, log),
		Alert:     handlers.NewAlertHandler(detectionSvc, evaluator, log),
		Threshold: handlers.NewThresholdHandler(thresholdSvc, log, val),
		Audit:     handlers.NewAuditHandler(auditSvc, evaluator, log, val),
		Agent:     handlers.NewAgentHandler(agentRepo, log),
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.New(cfg, log, h),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.WithFields(map[string]interface{}{
			"addr": srv.Addr,
		}).Info("Starting HTTP server")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.ErrorWithErr(err, "HTTP server failed")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.ErrorWithErr(err, "Server shutdown failed")
	}

	log.Info("Shutdown complete")
}
