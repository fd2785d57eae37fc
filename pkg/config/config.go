package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/johnsaigle/repo-showcase/pkg/cache"
	"github.com/johnsaigle/repo-showcase/pkg/github"
	"github.com/johnsaigle/repo-showcase/pkg/session"
)

// DefaultPath is read when no --config flag is given.
const DefaultPath = "repo-showcase.yaml"

// AccountEnv supplies the account when neither the file nor a flag does.
const AccountEnv = "REPO_SHOWCASE_ACCOUNT"

type Config struct {
	Account   string         `yaml:"account"`
	LogLevel  string         `yaml:"log_level"`
	LogFormat string         `yaml:"log_format"`
	API       APIConfig      `yaml:"api"`
	Cache     CacheConfig    `yaml:"cache"`
	Session   session.Config `yaml:"session"`
}

type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type CacheConfig struct {
	Duration time.Duration `yaml:"duration"`
}

// Load reads path, expanding ${VAR} references from the environment and an
// optional .env file. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config file: %w", err)
		default:
			expanded := os.ExpandEnv(string(data))
			if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values that have a closed set of choices.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log_format %q", c.LogFormat)
	}

	switch session.Backend(strings.ToLower(string(c.Session.Backend))) {
	case session.BackendMemory, session.BackendFile, session.BackendRedis, session.BackendBolt:
	default:
		return fmt.Errorf("invalid session.backend %q", c.Session.Backend)
	}

	if c.API.Timeout < 0 || c.Cache.Duration < 0 {
		return errors.New("durations must not be negative")
	}

	return nil
}

func (c *Config) setDefaults() {
	if c.Account == "" {
		c.Account = os.Getenv(AccountEnv)
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = github.DefaultBaseURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = github.DefaultTimeout
	}
	if c.Cache.Duration == 0 {
		c.Cache.Duration = cache.DefaultDuration
	}
	if c.Session.Backend == "" {
		c.Session.Backend = session.BackendFile
	}
	if c.Session.Redis.Addr == "" {
		c.Session.Redis.Addr = "localhost:6379"
	}
}
