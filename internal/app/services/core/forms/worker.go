package forms

import (
	"context"
	"fhirstarter-service/internal/app/contracts"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SweepWorker periodically drops idle form sessions.
type SweepWorker struct {
	log         *zap.Logger
	formUsecase contracts.FormUsecase
	interval    int
	cron        *cron.Cron
	runCtx      context.Context
	cancel      context.CancelFunc
}

func NewSweepWorker(log *zap.Logger, formUsecase contracts.FormUsecase, intervalInSeconds int) *SweepWorker {
	return &SweepWorker{log: log, formUsecase: formUsecase, interval: intervalInSeconds}
}

func (w *SweepWorker) Start(ctx context.Context) {
	w.runCtx, w.cancel = context.WithCancel(ctx)
	interval := w.interval
	if interval <= 0 {
		interval = 60
	}

	c := cron.New()
	_, err := c.AddFunc(fmt.Sprintf("@every %ds", interval), func() { w.runOnce(w.runCtx) })
	if err != nil {
		w.log.Warn("forms.worker: failed to schedule session sweep; falling back to @every 1m", zap.Error(err))
		c = cron.New()
		_, _ = c.AddFunc("@every 1m", func() { w.runOnce(w.runCtx) })
	}
	c.Start()
	w.cron = c
}

// Stop waits for a running sweep to finish.
func (w *SweepWorker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	if w.cron != nil {
		ctx := w.cron.Stop()
		<-ctx.Done()
	}
}

func (w *SweepWorker) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	removed := w.formUsecase.SweepExpiredSessions(ctx)
	if removed > 0 {
		w.log.Info("forms.worker: expired sessions removed", zap.Int("count", removed))
	}
}
