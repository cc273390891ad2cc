// Command carrier runs the demo application: a home page with a contact
// form, a login page and a permission group viewer with its JSON API.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/carrier"
	"github.com/dmitrymomot/carrier/cmd/carrier/emails"
	"github.com/dmitrymomot/carrier/cmd/carrier/handlers"
	"github.com/dmitrymomot/carrier/cmd/carrier/static"
	"github.com/dmitrymomot/carrier/domain/appsetting"
	"github.com/dmitrymomot/carrier/domain/permissiongroup"
	"github.com/dmitrymomot/carrier/middlewares"
	"github.com/dmitrymomot/carrier/migrations"
	"github.com/dmitrymomot/carrier/pkg/cache"
	"github.com/dmitrymomot/carrier/pkg/config"
	"github.com/dmitrymomot/carrier/pkg/db"
	"github.com/dmitrymomot/carrier/pkg/job"
	"github.com/dmitrymomot/carrier/pkg/logger"
	"github.com/dmitrymomot/carrier/pkg/mailer"
	"github.com/dmitrymomot/carrier/pkg/mailer/resend"
	"github.com/dmitrymomot/carrier/pkg/redis"
	"github.com/dmitrymomot/carrier/pkg/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log, middlewares.RequestIDExtractor())
	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.App, log *slog.Logger) error {
	pool, err := db.Connect(ctx, cfg.DB)
	if err != nil {
		return err
	}
	if err := db.Migrate(ctx, pool, migrations.FS, cfg.DB.MigrationsTable, log); err != nil {
		return err
	}
	if err := job.Migrate(ctx, pool, log); err != nil {
		return err
	}

	// Redis is optional: without it sessions and cached settings stay in memory.
	var (
		rdb      *goredis.Client
		sessions carrier.SessionStore
		settingC cache.Cache[string]
	)
	if cfg.Redis.URL != "" {
		if rdb, err = redis.Open(ctx, cfg.Redis); err != nil {
			return err
		}
		sessions = session.NewRedisStore(rdb, cfg.Redis.Prefix)
		settingC = cache.NewRedis[string](rdb, cache.JSONMarshaler[string]{},
			cache.WithPrefix(cfg.Redis.Prefix+":settings:"))
	} else {
		sessions = session.NewMemoryStore()
		settingC = cache.NewMemory[string]()
	}

	settings := appsetting.NewStore(appsetting.NewRepository(pool), settingC, 10*time.Minute)
	groups := permissiongroup.NewRepository(pool)

	mailCfg := cfg.Email.Mailer
	mailCfg.AppName = cfg.Name
	mailCfg.AppURL = cfg.URL
	var sender mailer.Sender = mailer.LogSender{Logger: log.With("component", "mailer"), Body: true}
	if !cfg.DevMode {
		if sender, err = resend.New(cfg.Email.Resend); err != nil {
			return err
		}
	}
	mail := mailer.New(sender, mailer.NewRenderer(emails.FS, "layouts"), mailCfg)

	jobs, err := job.NewManager(pool,
		job.WithTask(mailer.NewSendTask(mail)),
		job.WithScheduledTask(&appsetting.RefreshTask{Store: settings, Logger: log}),
		job.WithMaxWorkers(cfg.Jobs.Workers),
		job.WithLogger(log.With("component", "jobs")),
	)
	if err != nil {
		return err
	}

	metrics := middlewares.NewMetrics(prometheus.DefaultRegisterer, "carrier")
	formLog := log.With("component", "forms")

	contact := handlers.NewContactForm(&handlers.ContactProvider{
		Mailer:  mail,
		Queue:   jobs,
		Support: mailer.Recipient{Email: cfg.Setting("support-email", mailCfg.From)},
		Logger:  formLog,
	}, cfg.PathBase+handlers.AjaxPath)
	group := handlers.NewGroupForm(&handlers.GroupProvider{Groups: groups}, formLog)

	auth := &handlers.Auth{Settings: settings, DevMode: cfg.DevMode, DisableCSRF: cfg.DisableCSRF}

	readiness := []carrier.HealthOption{
		carrier.WithReadinessCheck("postgres", db.Healthcheck(pool)),
	}
	if rdb != nil {
		readiness = append(readiness, carrier.WithReadinessCheck("redis", redis.Healthcheck(rdb)))
	}
	jobOpt := carrier.WithJobEnqueuer(jobs)
	if cfg.Jobs.Enabled {
		jobOpt = carrier.WithJobs(jobs)
		readiness = append(readiness, carrier.WithReadinessCheck("jobs", carrier.JobHealthcheck(jobs)))
	}

	app := carrier.New(
		carrier.WithName(cfg.Name),
		carrier.WithPathBase(cfg.PathBase),
		carrier.WithDevMode(cfg.DevMode),
		carrier.WithLogger(log, "web"),
		carrier.WithHTTPMiddleware(middleware.RealIP),
		carrier.WithMiddleware(handlers.Middleware(metrics, cfg.Limits.RateLimit, cfg.Limits.RateBurst)...),
		carrier.WithCookieOptions(
			carrier.WithCookieSecret(cfg.SessionSecret),
			carrier.WithCookieDomain(cfg.CookieDomain),
			carrier.WithCookieSecure(!cfg.DevMode),
		),
		carrier.WithSession(sessions, carrier.WithSessionMaxAge(cfg.SessionTTL)),
		carrier.WithHandlers(
			&handlers.Pages{Contact: contact, Group: group, Groups: groups, Auth: auth},
			auth,
			&handlers.GroupAPI{Groups: groups, Logger: log.With("component", "api")},
		),
		carrier.WithStaticFiles(handlers.AssetsPath+"/", static.FS, "."),
		carrier.WithMount("/metrics", promhttp.Handler()),
		carrier.WithHealthChecks(readiness...),
		jobOpt,
	)

	runOpts := []carrier.RunOption{
		carrier.Logger(log),
		carrier.WithContext(ctx),
		carrier.ShutdownTimeout(cfg.ShutdownTimeout),
		carrier.StartupHook(func(ctx context.Context) error {
			n, err := settings.Refresh(ctx)
			if err != nil {
				return err
			}
			log.InfoContext(ctx, "app settings loaded", slog.Int("count", n))
			return nil
		}),
		carrier.ShutdownHook(db.Shutdown(pool)),
	}
	if rdb != nil {
		runOpts = append(runOpts, carrier.ShutdownHook(redis.Shutdown(rdb)))
	}

	return app.Run(cfg.Addr, runOpts...)
}
