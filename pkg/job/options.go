package job

import (
	"fmt"
	"log/slog"
)

const defaultMaxWorkers = 10

type config struct {
	registry   *registry
	schedules  []ScheduledTask
	queues     map[string]int
	logger     *slog.Logger
	maxWorkers int
	errs       []error
}

// Option configures a Manager.
type Option func(*config)

// WithTask registers task under task.Name().
//
//	job.WithTask[mailer.SendPayload](mailer.NewSendTask(m))
func WithTask[P any](task Task[P]) Option {
	return func(c *config) {
		if err := c.registry.add(task.Name(), typed(task)); err != nil {
			c.errs = append(c.errs, fmt.Errorf("%w: %s", err, task.Name()))
		}
	}
}

// WithScheduledTask registers a periodic task. Schedule() is parsed when
// the manager is created.
func WithScheduledTask(task ScheduledTask) Option {
	return func(c *config) {
		if err := c.registry.add(task.Name(), untyped(task)); err != nil {
			c.errs = append(c.errs, fmt.Errorf("%w: %s", err, task.Name()))
			return
		}
		c.schedules = append(c.schedules, task)
	}
}

// WithQueue adds a named queue served by workers goroutines.
func WithQueue(name string, workers int) Option {
	return func(c *config) {
		if name != "" && workers > 0 {
			c.queues[name] = workers
		}
	}
}

// WithMaxWorkers sets the worker count of the default queue.
func WithMaxWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxWorkers = n
		}
	}
}

// WithLogger sets the logger used by the manager and by River.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}
