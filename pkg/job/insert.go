package job

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/riverqueue/river"
)

// taskArgs is the single River job kind. The task name selects the handler.
type taskArgs struct {
	Task      string          `json:"task" river:"unique"`
	UniqueKey string          `json:"unique_key,omitempty" river:"unique"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

func (taskArgs) Kind() string { return "carrier:task" }

type insertConfig struct {
	queue       string
	scheduledAt time.Time
	maxAttempts int
	priority    int
	tags        []string
	uniqueFor   time.Duration
	uniqueKey   string
}

// EnqueueOption tunes a single insert.
type EnqueueOption func(*insertConfig)

// InQueue routes the job to a named queue.
func InQueue(name string) EnqueueOption {
	return func(c *insertConfig) {
		if name != "" {
			c.queue = name
		}
	}
}

// ScheduledAt delays the job until t.
func ScheduledAt(t time.Time) EnqueueOption {
	return func(c *insertConfig) { c.scheduledAt = t }
}

// ScheduledIn delays the job by d.
func ScheduledIn(d time.Duration) EnqueueOption {
	return func(c *insertConfig) { c.scheduledAt = time.Now().Add(d) }
}

// MaxAttempts caps retries. River's default applies when unset.
func MaxAttempts(n int) EnqueueOption {
	return func(c *insertConfig) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// Priority orders jobs within a queue, 1 being the most urgent.
func Priority(p int) EnqueueOption {
	return func(c *insertConfig) {
		if p > 0 {
			c.priority = p
		}
	}
}

// Tags attaches free-form labels to the job.
func Tags(tags ...string) EnqueueOption {
	return func(c *insertConfig) { c.tags = append(c.tags, tags...) }
}

// Unique skips the insert when a job with the same task and key was
// inserted within d.
func Unique(key string, d time.Duration) EnqueueOption {
	return func(c *insertConfig) {
		c.uniqueKey = key
		c.uniqueFor = d
	}
}

func buildInsert(name string, payload any, opts ...EnqueueOption) (taskArgs, *river.InsertOpts, error) {
	args := taskArgs{Task: name}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return args, nil, fmt.Errorf("job: marshal payload of %s: %w", name, err)
		}
		args.Payload = raw
	}

	var c insertConfig
	for _, opt := range opts {
		opt(&c)
	}

	io := &river.InsertOpts{
		Queue:       c.queue,
		ScheduledAt: c.scheduledAt,
		MaxAttempts: c.maxAttempts,
		Priority:    c.priority,
		Tags:        c.tags,
	}
	if c.uniqueFor > 0 {
		args.UniqueKey = c.uniqueKey
		io.UniqueOpts = river.UniqueOpts{ByArgs: true, ByPeriod: c.uniqueFor}
	}
	return args, io, nil
}
