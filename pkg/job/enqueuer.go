package job

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
)

// Enqueuer inserts jobs without running workers. Web processes that hand
// work to a separate worker process use it directly.
type Enqueuer struct {
	pool   *pgxpool.Pool
	client *river.Client[pgx.Tx]
	logger *slog.Logger
	known  func(name string) bool
}

// NewEnqueuer creates an insert-only River client.
func NewEnqueuer(pool *pgxpool.Pool, logger *slog.Logger) (*Enqueuer, error) {
	if pool == nil {
		return nil, ErrPoolRequired
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("job: create enqueuer: %w", err)
	}
	return &Enqueuer{pool: pool, client: client, logger: logger}, nil
}

// Enqueue inserts a job for task name.
func (e *Enqueuer) Enqueue(ctx context.Context, name string, payload any, opts ...EnqueueOption) error {
	args, io, err := e.prepare(name, payload, opts)
	if err != nil {
		return err
	}
	res, err := e.client.Insert(ctx, args, io)
	if err != nil {
		return fmt.Errorf("job: enqueue %s: %w", name, err)
	}
	e.logInserted(ctx, name, res.Job.ID, res.UniqueSkippedAsDuplicate)
	return nil
}

// EnqueueTx inserts a job inside tx. Workers only see it after commit.
func (e *Enqueuer) EnqueueTx(ctx context.Context, tx pgx.Tx, name string, payload any, opts ...EnqueueOption) error {
	args, io, err := e.prepare(name, payload, opts)
	if err != nil {
		return err
	}
	res, err := e.client.InsertTx(ctx, tx, args, io)
	if err != nil {
		return fmt.Errorf("job: enqueue %s in tx: %w", name, err)
	}
	e.logInserted(ctx, name, res.Job.ID, res.UniqueSkippedAsDuplicate)
	return nil
}

func (e *Enqueuer) prepare(name string, payload any, opts []EnqueueOption) (taskArgs, *river.InsertOpts, error) {
	if e == nil || e.client == nil {
		return taskArgs{}, nil, ErrNotConfigured
	}
	if e.known != nil && !e.known(name) {
		return taskArgs{}, nil, fmt.Errorf("%w: %s", ErrUnknownTask, name)
	}
	return buildInsert(name, payload, opts...)
}

func (e *Enqueuer) logInserted(ctx context.Context, name string, id int64, skipped bool) {
	e.logger.DebugContext(ctx, "job enqueued",
		slog.String("task", name),
		slog.Int64("job_id", id),
		slog.Bool("duplicate", skipped),
	)
}
