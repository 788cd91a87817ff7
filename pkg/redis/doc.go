// Package redis opens go-redis clients with pool defaults and startup retries.
//
//	client, err := redis.Open(ctx, cfg.RedisURL,
//		redis.WithPoolSize(20),
//		redis.WithRetry(5, time.Second),
//	)
//	if err != nil {
//		return err
//	}
//
// [Healthcheck] adapts the client to a readiness check and [Shutdown] to a
// shutdown hook:
//
//	sitekit.WithShutdownHook(redis.Shutdown(client))
//
// Errors are wrapped with [errors.Join] so callers can match the sentinels
// [ErrEmptyConnectionURL], [ErrFailedToParseURL], [ErrConnectionFailed] and
// [ErrHealthcheckFailed].
package redis
