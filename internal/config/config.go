package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"catalog-cli/internal/model"

	"gopkg.in/yaml.v3"
)

// Config is the client configuration: defaults, then the YAML file, then environment.
type Config struct {
	API struct {
		BaseURL      string        `yaml:"base_url"`
		Timeout      time.Duration `yaml:"timeout"`
		SessionToken string        `yaml:"session_token,omitempty"`
	} `yaml:"api"`

	Query struct {
		PageSize      int           `yaml:"page_size"`
		Debounce      time.Duration `yaml:"debounce"`
		DefaultSort   string        `yaml:"default_sort"`
		ClearOnSubmit bool          `yaml:"clear_on_submit"`
	} `yaml:"query"`

	Logging struct {
		Level string `yaml:"level"`
		File  string `yaml:"file,omitempty"`
	} `yaml:"logging"`

	TUI struct {
		NoColor bool `yaml:"no_color"`
	} `yaml:"tui"`
}

// Default returns the built-in configuration.
func Default() *Config {
	c := &Config{}
	c.API.BaseURL = "http://localhost:8080"
	c.API.Timeout = 20 * time.Second
	c.Query.PageSize = model.DefaultPageSize
	c.Query.Debounce = 300 * time.Millisecond
	c.Query.DefaultSort = model.DefaultSort
	c.Logging.Level = "warn"
	return c
}

func Dir() (string, error) {
	// Keeps tests away from the real home directory.
	if v := strings.TrimSpace(os.Getenv("CATALOG_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".catalog"), nil
}

func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads path (or the default path when empty). A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if strings.TrimSpace(path) == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := strings.TrimSpace(os.Getenv("CATALOG_API_BASE")); v != "" {
		c.API.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("CATALOG_SESSION")); v != "" {
		c.API.SessionToken = v
	}
	if v := strings.TrimSpace(os.Getenv("CATALOG_PAGE_SIZE")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CATALOG_PAGE_SIZE: %w", err)
		}
		c.Query.PageSize = n
	}
	if v := strings.TrimSpace(os.Getenv("CATALOG_DEBOUNCE")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CATALOG_DEBOUNCE: %w", err)
		}
		c.Query.Debounce = d
	}
	if v := strings.TrimSpace(os.Getenv("CATALOG_LOG_LEVEL")); v != "" {
		c.Logging.Level = v
	}
	if v := strings.TrimSpace(os.Getenv("CATALOG_LOG_FILE")); v != "" {
		c.Logging.File = v
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		c.TUI.NoColor = true
	}
	return nil
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api.base_url must be an http(s) URL, got %q", c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return errors.New("api.timeout must be positive")
	}
	if c.Query.PageSize < 1 || c.Query.PageSize > 100 {
		return fmt.Errorf("query.page_size must be in [1, 100], got %d", c.Query.PageSize)
	}
	if c.Query.Debounce < 0 {
		return errors.New("query.debounce must not be negative")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug|info|warn|error, got %q", c.Logging.Level)
	}
	return nil
}

// Redacted returns a copy safe to print.
func (c *Config) Redacted() *Config {
	out := *c
	if out.API.SessionToken != "" {
		out.API.SessionToken = "***"
	}
	return &out
}

// Save writes c as YAML, creating the directory if needed.
func Save(path string, c *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}
