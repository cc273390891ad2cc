package internal

import (
	"context"
	"errors"

	"github.com/dmitrymomot/carrier/pkg/job"
)

// JobWorker processes jobs in the background. App.Run starts it before
// serving and stops it after the server drains.
type JobWorker interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// WithJobs enables both enqueueing and processing with m.
// Tasks are registered when m is created.
//
//	m, err := job.NewManager(pool,
//	    job.WithTask[mailer.Message](mailer.NewSendTask(ml)),
//	    job.WithScheduledTask(settings.RefreshTask(log)),
//	)
//	carrier.New(carrier.WithJobs(m))
func WithJobs(m *job.Manager) Option {
	return func(a *App) {
		if m == nil {
			return
		}
		a.jobEnqueuer = m
		a.jobWorker = m
	}
}

// WithJobWorker runs w with the server without enabling c.Enqueue.
func WithJobWorker(w JobWorker) Option {
	return func(a *App) {
		a.jobWorker = w
	}
}

// stopWorker tolerates a worker that never started, which happens when a
// later startup hook failed.
func stopWorker(w JobWorker) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := w.Stop(ctx); err != nil && !errors.Is(err, job.ErrNotStarted) {
			return err
		}
		return nil
	}
}
