package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// UnconvertedFinder is the read side of the raw lead repository.
type UnconvertedFinder interface {
	FindUnconvertedOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]*entity.RawLead, error)
}

// ReconcileWorker reports raw leads that stayed unconverted past the
// threshold. It never converts or mutates them.
type ReconcileWorker struct {
	repo         UnconvertedFinder
	olderThan    time.Duration
	tickInterval time.Duration
	batchSize    int
	report       func(n int)
	logger       *zap.Logger
	now          func() time.Time
}

func NewReconcileWorker(repo UnconvertedFinder, olderThan, tickInterval time.Duration, batchSize int, report func(n int), logger *zap.Logger) *ReconcileWorker {
	if olderThan <= 0 {
		olderThan = 30 * time.Minute
	}
	if tickInterval <= 0 {
		tickInterval = time.Minute
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	if report == nil {
		report = func(int) {}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReconcileWorker{
		repo:         repo,
		olderThan:    olderThan,
		tickInterval: tickInterval,
		batchSize:    batchSize,
		report:       report,
		logger:       logger.With(zap.String("component", "reconcile_worker")),
		now:          time.Now,
	}
}

func (w *ReconcileWorker) Start(ctx context.Context) {
	w.logger.Info("reconcile worker started",
		zap.Duration("older_than", w.olderThan),
		zap.Duration("interval", w.tickInterval),
	)

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("reconcile worker stopped")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce returns how many stale raw leads were found, capped at the batch size.
func (w *ReconcileWorker) RunOnce(ctx context.Context) int {
	cutoff := w.now().UTC().Add(-w.olderThan)

	raws, err := w.repo.FindUnconvertedOlderThan(ctx, cutoff, w.batchSize)
	if err != nil {
		w.logger.Error("failed to list unconverted raw leads", zap.Error(err))
		return 0
	}

	for _, raw := range raws {
		w.logger.Warn("raw lead not converted",
			zap.String("raw_lead_id", raw.ID),
			zap.String("external_lead_id", raw.ExternalLeadID),
			zap.String("organization_id", raw.OrganizationID),
			zap.String("branch_id", raw.BranchID),
			zap.Duration("age", w.now().Sub(raw.CreatedAt).Round(time.Minute)),
		)
	}

	w.report(len(raws))
	if len(raws) > 0 {
		w.logger.Info("stale raw leads found", zap.Int("count", len(raws)))
	}
	return len(raws)
}
