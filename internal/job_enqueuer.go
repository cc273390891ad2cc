package internal

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/carrier/pkg/job"
)

// JobEnqueuer inserts background jobs. *job.Enqueuer and *job.Manager
// implement it.
type JobEnqueuer interface {
	Enqueue(ctx context.Context, name string, payload any, opts ...job.EnqueueOption) error
	EnqueueTx(ctx context.Context, tx pgx.Tx, name string, payload any, opts ...job.EnqueueOption) error
}

// WithJobEnqueuer enables c.Enqueue without running workers in this
// process. Workers must run elsewhere.
//
//	e, err := job.NewEnqueuer(pool, log)
//	carrier.New(carrier.WithJobEnqueuer(e))
func WithJobEnqueuer(e JobEnqueuer) Option {
	return func(a *App) {
		a.jobEnqueuer = e
	}
}
