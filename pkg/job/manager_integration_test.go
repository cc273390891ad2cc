package job_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/carrier/pkg/db"
	"github.com/dmitrymomot/carrier/pkg/job"
)

type echoPayload struct {
	Value string `json:"value"`
}

type echoTask chan string

func (echoTask) Name() string { return "echo" }

func (t echoTask) Handle(_ context.Context, p echoPayload) error {
	t <- p.Value
	return nil
}

func TestManager_Integration(t *testing.T) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := db.Connect(ctx, db.Config{URL: url, RetryAttempts: 1})
	require.NoError(t, err)
	defer pool.Close()

	require.NoError(t, job.Migrate(ctx, pool, nil))

	done := make(echoTask, 2)
	m, err := job.NewManager(pool, job.WithTask[echoPayload](done), job.WithMaxWorkers(2))
	require.NoError(t, err)
	assert.Equal(t, []string{"echo"}, m.Tasks())

	err = m.Enqueue(ctx, "unknown", nil)
	require.ErrorIs(t, err, job.ErrUnknownTask)

	require.NoError(t, m.Enqueue(ctx, "echo", echoPayload{Value: "direct"}))
	require.NoError(t, db.WithTx(ctx, pool, func(tx pgx.Tx) error {
		return m.EnqueueTx(ctx, tx, "echo", echoPayload{Value: "tx"})
	}))

	require.NoError(t, m.Start(ctx))
	require.ErrorIs(t, m.Start(ctx), job.ErrAlreadyStarted)
	require.NoError(t, job.Healthcheck(m)(ctx))

	got := map[string]bool{}
	for range 2 {
		select {
		case v := <-done:
			got[v] = true
		case <-ctx.Done():
			t.Fatal("jobs were not processed")
		}
	}
	assert.Equal(t, map[string]bool{"direct": true, "tx": true}, got)

	require.NoError(t, m.Stop(ctx))
	require.ErrorIs(t, m.Stop(ctx), job.ErrNotStarted)
}
