package cronrunner

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"tradejournal/internal/service"
)

// Runner schedules the periodic platform snapshot. Specs use the
// standard five-field cron format or @every descriptors.
type Runner struct {
	cron    *cron.Cron
	logger  *zap.Logger
	baseCtx context.Context
}

func New(logger *zap.Logger, baseCtx context.Context) *Runner {
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	return &Runner{
		cron:    cron.New(),
		logger:  logger,
		baseCtx: baseCtx,
	}
}

// AddSnapshotJob registers a recurring Capture of platform-wide stats.
func (r *Runner) AddSnapshotJob(spec string, snapshots *service.SnapshotService) (cron.EntryID, error) {
	return r.Add(spec, func(ctx context.Context) {
		start := time.Now()
		if err := snapshots.Capture(ctx); err != nil {
			if r.logger != nil {
				r.logger.Error("platform snapshot failed", zap.Error(err))
			}
			return
		}
		if r.logger != nil {
			r.logger.Info("platform snapshot captured", zap.Duration("took", time.Since(start)))
		}
	})
}

func (r *Runner) Add(spec string, job func(context.Context)) (cron.EntryID, error) {
	return r.cron.AddFunc(spec, func() {
		if r == nil || r.baseCtx == nil {
			job(context.Background())
			return
		}
		job(r.baseCtx)
	})
}

func (r *Runner) Start() {
	if r.logger != nil {
		r.logger.Info("cron started")
	}
	r.cron.Start()
}

func (r *Runner) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	if r.logger != nil {
		r.logger.Info("cron stopped")
	}
}
