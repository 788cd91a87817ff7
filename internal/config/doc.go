// Package config loads the process configuration and resolves the
// environment-dependent Policy.
//
//	_ = godotenv.Load()
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Error("invalid configuration", "error", err)
//	    os.Exit(1)
//	}
//	policy := cfg.Policy()
//
// Values come from Default, an optional YAML file named by CONFIG_FILE and the
// environment, in that order. APP_ENV defaults to Production.
package config
