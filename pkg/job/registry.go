package job

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"sync"
)

// Task is any type with a name and a typed handler. The payload type is
// inferred from Handle, so tasks never import this package.
type Task[P any] interface {
	Name() string
	Handle(context.Context, P) error
}

// ScheduledTask runs on a five field cron schedule and takes no payload.
type ScheduledTask interface {
	Name() string
	Schedule() string
	Handle(context.Context) error
}

type executor func(ctx context.Context, payload json.RawMessage) error

type registry struct {
	mu    sync.RWMutex
	tasks map[string]executor
}

func newRegistry() *registry {
	return &registry{tasks: make(map[string]executor)}
}

func (r *registry) add(name string, ex executor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[name]; ok {
		return ErrDuplicateTask
	}
	r.tasks[name] = ex
	return nil
}

func (r *registry) get(name string) (executor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ex, ok := r.tasks[name]
	return ex, ok
}

func (r *registry) has(name string) bool {
	_, ok := r.get(name)
	return ok
}

func (r *registry) names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.tasks))
	for name := range r.tasks {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

func typed[P any](task Task[P]) executor {
	return func(ctx context.Context, raw json.RawMessage) error {
		var payload P
		if len(raw) > 0 && string(raw) != "null" {
			if err := json.Unmarshal(raw, &payload); err != nil {
				return errors.Join(ErrInvalidPayload, err)
			}
		}
		return task.Handle(ctx, payload)
	}
}

func untyped(task ScheduledTask) executor {
	return func(ctx context.Context, _ json.RawMessage) error {
		return task.Handle(ctx)
	}
}
