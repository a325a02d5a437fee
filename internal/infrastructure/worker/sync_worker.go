package worker

import (
	"context"
	"fmt"
	"time"

	"cryptorates-service/internal/application"
	"cryptorates-service/internal/infrastructure/metrics"

	"go.uber.org/zap"
)

var _ application.Worker = (*SyncWorker)(nil)

// Syncer runs one price sync pass.
type Syncer interface {
	Sync(ctx context.Context) (application.SyncReport, error)
}

// SyncWorker runs a pass every Interval and whenever Trigger is called.
// Passes never overlap; triggers arriving during a pass collapse into one.
type SyncWorker struct {
	Sync       Syncer
	Interval   time.Duration
	RunOnStart bool
	Log        *zap.Logger

	trigger chan struct{}
}

func NewSyncWorker(s Syncer, interval time.Duration, log *zap.Logger) *SyncWorker {
	return &SyncWorker{Sync: s, Interval: interval, RunOnStart: true, Log: log, trigger: make(chan struct{}, 1)}
}

// Trigger requests a pass without blocking.
func (w *SyncWorker) Trigger() {
	select {
	case w.trigger <- struct{}{}:
	default:
	}
}

func (w *SyncWorker) Start(ctx context.Context) {
	log := w.Log
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("worker", "sync"))
	if w.Interval <= 0 {
		w.Interval = 5 * time.Minute
	}
	if w.trigger == nil {
		w.trigger = make(chan struct{}, 1)
	}

	t := time.NewTicker(w.Interval)
	defer t.Stop()

	log.Info("sync_worker.started", zap.Duration("interval", w.Interval))
	if w.RunOnStart {
		w.runOnce(ctx, log)
	}
	for {
		select {
		case <-ctx.Done():
			log.Info("sync_worker.stopped")
			return
		case <-t.C:
			w.runOnce(ctx, log)
		case <-w.trigger:
			w.runOnce(ctx, log)
		}
	}
}

func (w *SyncWorker) runOnce(ctx context.Context, log *zap.Logger) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("sync_worker.panic", zap.String("panic", fmt.Sprint(r)))
			metrics.ObserveSync(0, 0, true)
		}
	}()
	start := time.Now()
	rep, err := w.Sync.Sync(ctx)
	if err != nil {
		metrics.ObserveSync(0, 0, true)
		log.Warn("sync_worker.pass_failed", zap.Error(err))
		return
	}
	metrics.ObserveSync(len(rep.Updated), len(rep.Skipped), false)
	log.Info("sync_worker.pass_done",
		zap.Int("updated", len(rep.Updated)),
		zap.Int("skipped", len(rep.Skipped)),
		zap.Duration("took", time.Since(start)),
	)
}
