// Package db opens and maintains the PostgreSQL pool used by repositories.
//
// It wraps [github.com/jackc/pgx/v5/pgxpool] with startup retries, a health
// check, goose migrations read from an [io/fs.FS], and a transaction helper.
//
//	cfg := db.Config{URL: os.Getenv("DATABASE_URL")}
//	pool, err := db.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	if err := db.Migrate(ctx, pool, migrations.FS, cfg.MigrationsTable, log); err != nil {
//		return err
//	}
//
// Repositories accept a [DBTX] so they can run inside [WithTx]:
//
//	err := db.WithTx(ctx, pool, func(tx pgx.Tx) error {
//		return repo.With(tx).Insert(ctx, group)
//	})
package db
