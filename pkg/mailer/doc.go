// Package mailer renders markdown email templates and delivers them through
// a pluggable Sender.
//
// Templates live in an fs.FS as name.md files with optional YAML frontmatter.
// The subject may use template actions. Every template receives the base
// filling app-name, app-url and user-first-name, merged with Message.Data:
//
//	---
//	subject: Bienvenido a {{index . "app-name"}}
//	---
//	Hola {{index . "user-first-name"}}, tu cuenta está lista.
//
// In dev mode use LogSender so nothing is delivered. Production uses the
// resend subpackage. Delivery normally runs in a worker through SendTask:
//
//	jobs, _ := job.NewManager(pool, job.WithTask[mailer.Message](mailer.NewSendTask(m)))
//	err := m.Queue(ctx, jobs, mailer.Message{To: to, Template: "welcome.md"})
package mailer
