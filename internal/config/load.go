package config

import (
	"errors"
	"fmt"
	"os"

	"dario.cat/mergo"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/sitekit/pkg/forwarded"
	"github.com/dmitrymomot/sitekit/pkg/id"
)

// FileVar names the variable holding the optional YAML config file path.
const FileVar = "CONFIG_FILE"

const minSecretLen = 32

// Load builds the configuration from the process environment.
// See FromEnv for the layering rules.
func Load() (Config, error) {
	return FromEnv(env.ToMap(os.Environ()))
}

// FromEnv builds the configuration in three layers, each overriding the
// previous: Default, the YAML file named by CONFIG_FILE, then environment
// variables. The result is validated.
//
// A development config without a cookie secret gets a random one, so auth
// cookies do not survive a restart.
func FromEnv(environ map[string]string) (Config, error) {
	cfg := Default()

	if path := environ[FileVar]; path != "" {
		fileCfg, err := readFile(path)
		if err != nil {
			return Config{}, err
		}
		if err := mergo.Merge(&cfg, fileCfg, mergo.WithOverride); err != nil {
			return Config{}, fmt.Errorf("config: merge %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Config{}, errors.Join(ErrParseEnv, err)
	}

	if e, ok := cfg.Environment.normalize(); ok {
		cfg.Environment = e
	}

	if cfg.Environment.IsDevelopment() && cfg.Cookie.Secret == "" {
		secret, err := id.NewToken(minSecretLen)
		if err != nil {
			return Config{}, fmt.Errorf("config: generate cookie secret: %w", err)
		}
		cfg.Cookie.Secret = secret
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Join(ErrReadFile, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %s: %w", ErrReadFile, path, err)
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error

	if _, ok := c.Environment.normalize(); !ok {
		errs = append(errs, fmt.Errorf("%w: got %q", ErrInvalidEnvironment, c.Environment))
	}

	switch c.Session.Store {
	case StoreMemory:
	case StoreRedis:
		if c.RedisURL == "" {
			errs = append(errs, ErrMissingRedisURL)
		}
	case StorePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, ErrMissingDatabaseURL)
		}
	default:
		errs = append(errs, fmt.Errorf("%w: got %q", ErrInvalidSessionStore, c.Session.Store))
	}

	if len(c.Cookie.Secret) < minSecretLen {
		errs = append(errs, ErrInvalidCookieSecret)
	}

	if _, err := forwarded.ParseProxies(c.TrustedProxies...); err != nil {
		errs = append(errs, errors.Join(ErrInvalidTrustedProxy, err))
	}

	return errors.Join(errs...)
}
