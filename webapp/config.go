package webapp

import (
	"errors"
	"fmt"
	"os"

	_ "embed"

	"github.com/ashep/go-mvc/cfgloader"
)

//go:embed config_schema.json
var configSchema []byte

type Config struct {
	Name               string `yaml:"name" json:"name" envconfig:"NAME"`
	DefaultController  string `yaml:"default_controller" json:"default_controller" envconfig:"DEFAULT_CONTROLLER"`
	DefaultAction      string `yaml:"default_action" json:"default_action" envconfig:"DEFAULT_ACTION"`
	NotFoundController string `yaml:"not_found_controller" json:"not_found_controller" envconfig:"NOT_FOUND_CONTROLLER"`
	NotFoundAction     string `yaml:"not_found_action" json:"not_found_action" envconfig:"NOT_FOUND_ACTION"`
	SessionCookie      string `yaml:"session_cookie" json:"session_cookie" envconfig:"SESSION_COOKIE"`
	ForwardLimit       int    `yaml:"forward_limit" json:"forward_limit" envconfig:"FORWARD_LIMIT"`
}

func DefaultConfig() Config {
	return Config{
		Name:               "app",
		DefaultController:  "index",
		DefaultAction:      "index",
		NotFoundController: "error",
		NotFoundAction:     "notFound",
		SessionCookie:      "session_id",
		ForwardLimit:       16,
	}
}

func (c Config) Validate() error {
	if c.DefaultController == "" || c.DefaultAction == "" {
		return fmt.Errorf("default controller and action must not be empty")
	}

	if c.NotFoundController == "" || c.NotFoundAction == "" {
		return fmt.Errorf("not-found controller and action must not be empty")
	}

	if c.ForwardLimit < 1 {
		return fmt.Errorf("forward limit must be positive")
	}

	return nil
}

// LoadConfig layers configuration: defaults, then an optional yaml/json file
// validated against the embedded schema, then APP_* environment variables.
// A missing file is not an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		err := cfgloader.LoadFromPath(path, &cfg, configSchema)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("config file load failed: %w", err)
		}
	}

	if err := cfgloader.LoadFromEnv("APP", &cfg); err != nil {
		return cfg, fmt.Errorf("load config from env vars failed: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}
