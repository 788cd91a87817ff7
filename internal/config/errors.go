package config

import "errors"

// Configuration errors returned by Load and Validate.
var (
	ErrInvalidEnvironment  = errors.New("config: environment must be Development or Production")
	ErrInvalidSessionStore = errors.New("config: session store must be memory, redis or postgres")
	ErrMissingRedisURL     = errors.New("config: redis url is required by the redis session store")
	ErrMissingDatabaseURL  = errors.New("config: database url is required by the postgres session store")
	ErrInvalidCookieSecret = errors.New("config: cookie secret must be at least 32 bytes")
	ErrInvalidTrustedProxy = errors.New("config: invalid trusted proxy")
	ErrReadFile            = errors.New("config: failed to read config file")
	ErrParseEnv            = errors.New("config: failed to parse environment")
)
