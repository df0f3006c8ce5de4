package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mahefa-ra/agentwatch/internal/pkg/errors"
	"github.com/mahefa-ra/agentwatch/internal/pkg/logger"
	"github.com/mahefa-ra/agentwatch/internal/services"
)

// Evaluator drives the detection service: a periodic tick plus on-demand
// triggers from audit ingestion and threshold changes. Triggers coalesce,
// and a newer trigger cancels the in-flight cycle so only the latest
// snapshot's result is ever published.
type Evaluator struct {
	detection *services.DetectionService
	interval  time.Duration
	logger    *logger.Logger

	triggers chan string

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewEvaluator creates a new evaluation worker
func NewEvaluator(detection *services.DetectionService, interval time.Duration, log *logger.Logger) *Evaluator {
	return &Evaluator{
		detection: detection,
		interval:  interval,
		logger:    log,
		triggers:  make(chan string, 1),
	}
}

// Trigger requests a re-evaluation. Non-blocking: if a trigger is already
// pending the new one coalesces into it, since both would run over the
// same (newer) audit snapshot anyway.
func (w *Evaluator) Trigger(reason string) {
	select {
	case w.triggers <- reason:
	default:
	}
}

// Start runs the evaluation loop until ctx is cancelled. The first cycle
// runs immediately so the API never serves an empty set longer than one
// evaluation takes.
func (w *Evaluator) Start(ctx context.Context) {
	w.logger.WithFields(map[string]interface{}{
		"interval": w.interval.String(),
	}).Info("Starting evaluation worker")

	c := cron.New()
	_, err := c.AddFunc(fmt.Sprintf("@every %s", w.interval), func() {
		w.Trigger("schedule")
	})
	if err != nil {
		w.logger.ErrorWithErr(err, "Failed to schedule evaluation tick")
		return
	}
	c.Start()
	defer c.Stop()

	w.launch(ctx, "startup")

	for {
		select {
		case reason := <-w.triggers:
			w.launch(ctx, reason)
		case <-ctx.Done():
			w.logger.Info("Evaluation worker stopped")
			return
		}
	}
}

// launch starts one cycle, cancelling any cycle still in flight; its
// result would describe an older snapshot than this one.
func (w *Evaluator) launch(parent context.Context, reason string) {
	w.mu.Lock()
	if w.cancel != nil {
		w.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	w.cancel = cancel
	w.mu.Unlock()

	go w.run(ctx, cancel, reason)
}

func (w *Evaluator) run(ctx context.Context, cancel context.CancelFunc, reason string) {
	defer cancel()

	err := w.detection.Evaluate(ctx, time.Now().UTC(), reason)
	switch {
	case err == nil:
	case ctx.Err() != nil:
		w.logger.With("trigger", reason).Debug("Evaluation cycle superseded")
	case errors.IsRetryable(err):
		w.logger.WithError(err).Warn("Evaluation failed, serving previous result until retry")
	default:
		w.logger.ErrorWithErr(err, "Evaluation cycle failed")
	}
}
