package job

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type greetPayload struct {
	Name string `json:"name"`
}

type greetTask struct {
	got  []string
	fail error
}

func (*greetTask) Name() string { return "greet" }

func (t *greetTask) Handle(_ context.Context, p greetPayload) error {
	t.got = append(t.got, p.Name)
	return t.fail
}

type tickTask struct {
	schedule string
	ticks    int
}

func (*tickTask) Name() string       { return "tick" }
func (t *tickTask) Schedule() string { return t.schedule }
func (t *tickTask) Handle(context.Context) error {
	t.ticks++
	return nil
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	greet := &greetTask{}
	cfg := &config{registry: newRegistry(), queues: map[string]int{}}
	WithTask[greetPayload](greet)(cfg)
	WithScheduledTask(&tickTask{schedule: "@hourly"})(cfg)
	WithTask[greetPayload](greet)(cfg)

	require.Len(t, cfg.errs, 1)
	assert.ErrorIs(t, cfg.errs[0], ErrDuplicateTask)
	assert.Equal(t, []string{"greet", "tick"}, cfg.registry.names())
	assert.Len(t, cfg.schedules, 1)

	run, ok := cfg.registry.get("greet")
	require.True(t, ok)
	require.NoError(t, run(context.Background(), json.RawMessage(`{"name":"Ana"}`)))
	require.NoError(t, run(context.Background(), nil))
	assert.Equal(t, []string{"Ana", ""}, greet.got)

	err := run(context.Background(), json.RawMessage(`{"name":`))
	assert.ErrorIs(t, err, ErrInvalidPayload)

	_, ok = cfg.registry.get("missing")
	assert.False(t, ok)
}

func TestTypedExecutor_PropagatesError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	run := typed[greetPayload](&greetTask{fail: boom})
	assert.ErrorIs(t, run(context.Background(), nil), boom)
}

func TestBuildInsert(t *testing.T) {
	t.Parallel()

	at := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	args, opts, err := buildInsert("greet", greetPayload{Name: "Ana"},
		InQueue("email"),
		ScheduledAt(at),
		MaxAttempts(3),
		Priority(2),
		Tags("a", "b"),
		Unique("user-1", time.Hour),
	)
	require.NoError(t, err)

	assert.Equal(t, "carrier:task", args.Kind())
	assert.Equal(t, "greet", args.Task)
	assert.JSONEq(t, `{"name":"Ana"}`, string(args.Payload))
	assert.Equal(t, "user-1", args.UniqueKey)
	assert.Equal(t, "email", opts.Queue)
	assert.Equal(t, at, opts.ScheduledAt)
	assert.Equal(t, 3, opts.MaxAttempts)
	assert.Equal(t, 2, opts.Priority)
	assert.Equal(t, []string{"a", "b"}, opts.Tags)
	assert.True(t, opts.UniqueOpts.ByArgs)
	assert.Equal(t, time.Hour, opts.UniqueOpts.ByPeriod)
}

func TestBuildInsert_Defaults(t *testing.T) {
	t.Parallel()

	args, opts, err := buildInsert("tick", nil, InQueue(""), MaxAttempts(0), Priority(-1))
	require.NoError(t, err)
	assert.Empty(t, args.Payload)
	assert.Empty(t, args.UniqueKey)
	assert.Empty(t, opts.Queue)
	assert.Zero(t, opts.MaxAttempts)
	assert.Zero(t, opts.Priority)
	assert.True(t, opts.UniqueOpts.ByPeriod == 0)

	_, _, err = buildInsert("bad", make(chan int))
	assert.Error(t, err)
}

func TestScheduledIn(t *testing.T) {
	t.Parallel()

	var c insertConfig
	before := time.Now()
	ScheduledIn(time.Minute)(&c)
	assert.WithinDuration(t, before.Add(time.Minute), c.scheduledAt, time.Second)
}

func TestPeriodicJobs(t *testing.T) {
	t.Parallel()

	jobs, err := periodicJobs([]ScheduledTask{&tickTask{schedule: "*/5 * * * *"}, &tickTask{schedule: "@daily"}})
	require.NoError(t, err)
	assert.Len(t, jobs, 2)

	_, err = periodicJobs([]ScheduledTask{&tickTask{schedule: "every minute"}})
	assert.ErrorIs(t, err, ErrInvalidSchedule)
}

func TestNewManager_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewManager(nil)
	assert.ErrorIs(t, err, ErrPoolRequired)

	_, err = NewEnqueuer(nil, nil)
	assert.ErrorIs(t, err, ErrPoolRequired)

	assert.ErrorIs(t, Migrate(context.Background(), nil, nil), ErrPoolRequired)
}

func TestEnqueuer_NotConfigured(t *testing.T) {
	t.Parallel()

	var e *Enqueuer
	err := e.Enqueue(context.Background(), "greet", nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestHealthcheck(t *testing.T) {
	t.Parallel()

	err := Healthcheck(nil)(context.Background())
	assert.ErrorIs(t, err, ErrHealthcheckFailed)

	err = Healthcheck(&Manager{registry: newRegistry()})(context.Background())
	assert.ErrorIs(t, err, ErrNotStarted)
}
