package cron

import (
	"context"
	"fmt"

	"github.com/globetrotter-app/globetrotter-backend/pkg/logger"
	"go.uber.org/multierr"
)

const (
	defaultShareExpiryBatch = 200
	maxShareExpiryBatches   = 50
)

type shareExpirer interface {
	ExpireShares(ctx context.Context, batch int) (int64, error)
}

// ShareExpiryJobParams configure the share expiry sweeper.
type ShareExpiryJobParams struct {
	Logger    *logger.Logger
	Trips     shareExpirer
	BatchSize int
}

// NewShareExpiryJob builds the cron job that flips trips whose share window
// has lapsed back to private. Readers already treat lapsed shares as private,
// so the sweeper only reconciles the stored visibility flag.
func NewShareExpiryJob(params ShareExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Trips == nil {
		return nil, fmt.Errorf("trips repository required")
	}
	batch := params.BatchSize
	if batch <= 0 {
		batch = defaultShareExpiryBatch
	}
	return &shareExpiryJob{
		logg:  params.Logger,
		trips: params.Trips,
		batch: batch,
	}, nil
}

type shareExpiryJob struct {
	logg  *logger.Logger
	trips shareExpirer
	batch int
}

func (j *shareExpiryJob) Name() string { return "share-expiry" }

func (j *shareExpiryJob) Run(ctx context.Context) error {
	var errs []error
	var total int64

	// Batches bound each UPDATE; the cap keeps a runaway backlog from
	// pinning the worker for a whole cycle.
	for i := 0; i < maxShareExpiryBatches; i++ {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		expired, err := j.trips.ExpireShares(ctx, j.batch)
		if err != nil {
			errs = append(errs, fmt.Errorf("expire shares batch: %w", err))
			break
		}
		total += expired
		if expired < int64(j.batch) {
			break
		}
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{"expired": total})
	j.logg.Info(logCtx, "share expiry sweep complete")
	return multierr.Combine(errs...)
}
