// Package session defines server-side sessions and their stores.
//
// A [Session] is identified by an opaque cookie token and expires after an
// idle timeout that restarts on every request. Three [Store] backends are
// provided:
//
//   - [MemoryStore] for single-instance deployments and tests
//   - [RedisStore] backed by go-redis, with keys expiring with the session
//   - [PostgresStore] backed by pgx, with goose migrations from [Migrations]
//
// Values round-trip through JSON in the Redis and PostgreSQL stores, so
// numbers come back as float64. [Value] converts them back to the requested
// type:
//
//	count, err := session.Value[int](sess, "visits")
package session
