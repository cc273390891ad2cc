// Package job runs background tasks on River, a Postgres backed queue.
//
// Tasks are plain types with Name and Handle methods; the payload type is
// taken from Handle. All tasks share one River job kind, carrier:task, and
// a single worker dispatches by name.
//
//	type sendWelcome struct{ m *mailer.Mailer }
//
//	func (sendWelcome) Name() string { return "users.welcome" }
//	func (t sendWelcome) Handle(ctx context.Context, p WelcomePayload) error { ... }
//
//	jobs, err := job.NewManager(pool,
//		job.WithTask[WelcomePayload](sendWelcome{m}),
//		job.WithScheduledTask(settingsRefresh),
//		job.WithLogger(log),
//	)
//
// Enqueue validates the task name against the registry. EnqueueTx inserts
// inside a pgx transaction so the job exists only if the transaction commits.
package job
