package appsetting_test

import (
	"context"
	"errors"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/carrier/domain"
	"github.com/dmitrymomot/carrier/domain/appsetting"
	"github.com/dmitrymomot/carrier/migrations"
	"github.com/dmitrymomot/carrier/pkg/db"
)

type fakeLoader struct {
	rows  map[string]string
	calls atomic.Int32
	fail  error
}

func (f *fakeLoader) RetrieveAll(context.Context) ([]appsetting.AppSetting, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	out := make([]appsetting.AppSetting, 0, len(f.rows))
	for k, v := range f.rows {
		out = append(out, appsetting.AppSetting{ShortName: k, Value: v})
	}
	return out, nil
}

func (f *fakeLoader) RetrieveByShortName(_ context.Context, key string) (*appsetting.AppSetting, error) {
	f.calls.Add(1)
	v, ok := f.rows[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &appsetting.AppSetting{ShortName: key, Value: v}, nil
}

func TestStore_Value(t *testing.T) {
	t.Parallel()

	loader := &fakeLoader{rows: map[string]string{"support-phone": "900100200"}}
	st := appsetting.NewStore(loader, nil, time.Minute)
	ctx := context.Background()

	v, err := st.Value(ctx, "support-phone", "")
	require.NoError(t, err)
	assert.Equal(t, "900100200", v)

	_, err = st.Value(ctx, "support-phone", "")
	require.NoError(t, err)
	assert.Equal(t, int32(1), loader.calls.Load())

	v, err = st.Value(ctx, "missing", "def")
	require.NoError(t, err)
	assert.Equal(t, "def", v)
}

func TestRefreshTask(t *testing.T) {
	t.Parallel()

	loader := &fakeLoader{rows: map[string]string{"a": "1", "b": "2"}}
	st := appsetting.NewStore(loader, nil, time.Minute)
	task := &appsetting.RefreshTask{Store: st}

	assert.Equal(t, "appsetting.refresh", task.Name())
	assert.Equal(t, "*/5 * * * *", task.Schedule())
	require.NoError(t, task.Handle(context.Background()))

	v, err := st.Value(context.Background(), "b", "")
	require.NoError(t, err)
	assert.Equal(t, "2", v)
	assert.Zero(t, loader.calls.Load())

	loader.fail = errors.New("db down")
	require.Error(t, task.Handle(context.Background()))
}

func TestRepository(t *testing.T) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := db.Connect(ctx, db.Config{URL: url, RetryAttempts: 1})
	require.NoError(t, err)
	defer pool.Close()
	require.NoError(t, db.Migrate(ctx, pool, migrations.FS, "carrier_migrations", nil))

	tx, err := pool.Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback(ctx) }()
	repo := appsetting.NewRepository(tx)

	s := &appsetting.AppSetting{ShortName: "test-footer", FullName: "Pie", Value: "on"}
	id, err := repo.Insert(ctx, s)
	require.NoError(t, err)

	require.NoError(t, repo.SetValue(ctx, "test-footer", "off"))
	got, err := repo.RetrieveByShortName(ctx, "test-footer")
	require.NoError(t, err)
	assert.Equal(t, "off", got.Value)

	got.FullName = "Pie de página"
	require.NoError(t, repo.Update(ctx, got))

	reasons, err := repo.VerifyConstraintsByID(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, reasons)

	all, err := repo.RetrieveAll(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, all)

	require.NoError(t, repo.DeleteByID(ctx, id))
	ok, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)

	require.ErrorIs(t, repo.DeleteByID(ctx, id), domain.ErrNotFound)
	require.ErrorIs(t, repo.SetValue(ctx, "test-footer", "x"), domain.ErrNotFound)
	_, err = repo.RetrieveByID(ctx, id)
	require.ErrorIs(t, err, domain.ErrNotFound)
}
