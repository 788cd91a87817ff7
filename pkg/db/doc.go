// Package db opens pgx connection pools and runs goose migrations.
//
//	pool, err := db.Open(ctx, cfg.DatabaseURL, db.WithMaxConns(20))
//	if err != nil {
//		return err
//	}
//	if err := db.Migrate(ctx, pool, migrations, "schema_migrations", log); err != nil {
//		return err
//	}
//
// [Open] pings the pool before returning it and retries failed attempts with a
// linear backoff. [Healthcheck] and [Shutdown] adapt a pool to readiness
// checks and shutdown hooks.
//
// Errors are wrapped with [errors.Join]:
//
//   - [ErrEmptyConnectionURL] - no URL given
//   - [ErrFailedToParseDBConfig] - invalid connection string
//   - [ErrFailedToOpenDBConnection] - every attempt failed
//   - [ErrHealthcheckFailed] - ping failed
//   - [ErrSetDialect], [ErrApplyMigrations] - migration failures
package db
