package mailer

import (
	"context"

	"github.com/dmitrymomot/carrier/pkg/job"
)

// SendTaskName is the job name of SendTask.
const SendTaskName = "mailer.send"

// SendTask delivers a Message from a background worker.
type SendTask struct {
	mailer *Mailer
}

// NewSendTask creates the task. Register it with job.WithTask[Message].
func NewSendTask(m *Mailer) *SendTask {
	return &SendTask{mailer: m}
}

func (*SendTask) Name() string { return SendTaskName }

func (t *SendTask) Handle(ctx context.Context, msg Message) error {
	return t.mailer.Send(ctx, msg)
}

// Enqueuer is the part of job.Manager used to queue messages.
type Enqueuer interface {
	Enqueue(ctx context.Context, name string, payload any, opts ...job.EnqueueOption) error
}

// Queue validates that msg renders and schedules its delivery. Rendering
// errors surface to the caller instead of failing in the worker.
func (m *Mailer) Queue(ctx context.Context, q Enqueuer, msg Message, opts ...job.EnqueueOption) error {
	if _, err := m.Build(msg); err != nil {
		return err
	}
	return q.Enqueue(ctx, SendTaskName, msg, append([]job.EnqueueOption{job.MaxAttempts(5)}, opts...)...)
}
