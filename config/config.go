package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all loan-engine configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Redis     RedisConfig     `yaml:"redis"`
	Limits    LimitsConfig    `yaml:"limits"`
	Mortgage  MortgageConfig  `yaml:"mortgage"`
	Advisor   AdvisorConfig   `yaml:"advisor"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig configures the HTTP listener. Durations use time.ParseDuration syntax.
type ServerConfig struct {
	Addr            string `yaml:"addr"`
	ReadTimeout     string `yaml:"read_timeout"`
	WriteTimeout    string `yaml:"write_timeout"`
	IdleTimeout     string `yaml:"idle_timeout"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
}

// RateLimitConfig configures per-client request limits.
type RateLimitConfig struct {
	Capacity int    `yaml:"capacity"`
	Window   string `yaml:"window"`
	Backend  string `yaml:"backend"` // memory, window, redis
}

// RedisConfig is used when RateLimit.Backend is "redis".
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// LimitsConfig bounds request sizes so a single call stays cheap.
type LimitsConfig struct {
	MaxLoanAmount        float64 `yaml:"max_loan_amount"`
	MaxInterestRate      float64 `yaml:"max_interest_rate"`
	MaxTermMonths        int     `yaml:"max_term_months"`
	MaxDebtAmount        float64 `yaml:"max_debt_amount"`
	MaxDebtsPerRequest   int     `yaml:"max_debts_per_request"`
	MaxDebtPayoffMonths  int     `yaml:"max_debt_payoff_months"`
	DebtBalanceTolerance float64 `yaml:"debt_balance_tolerance"`
	MaxTermRangeMonths   int     `yaml:"max_term_range_months"`
}

// MortgageConfig holds mortgage calculator defaults.
type MortgageConfig struct {
	PMIRemovalThresholdPercent float64 `yaml:"pmi_removal_threshold_percent"`
}

// AdvisorConfig configures the optional LLM explanation service.
type AdvisorConfig struct {
	Enabled bool   `yaml:"enabled"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	URL     string `yaml:"url"`
	Timeout string `yaml:"timeout"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     "15s",
			WriteTimeout:    "15s",
			IdleTimeout:     "60s",
			ShutdownTimeout: "10s",
		},
		RateLimit: RateLimitConfig{
			Capacity: 5,
			Window:   "1m",
			Backend:  "memory",
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Limits: DefaultLimits(),
		Mortgage: MortgageConfig{
			PMIRemovalThresholdPercent: 78,
		},
		Advisor: AdvisorConfig{
			Model:   "gpt-4o-mini",
			URL:     "https://api.openai.com/v1/chat/completions",
			Timeout: "30s",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// DefaultLimits returns the request ceilings used when no config file sets them.
func DefaultLimits() LimitsConfig {
	return LimitsConfig{
		MaxLoanAmount:        1_000_000_000.0,
		MaxInterestRate:      1000.0, // percent per year
		MaxTermMonths:        600,
		MaxDebtAmount:        100_000_000.0,
		MaxDebtsPerRequest:   50,
		MaxDebtPayoffMonths:  600,
		DebtBalanceTolerance: 0.01,
		MaxTermRangeMonths:   120,
	}
}

// Load reads the config at path. A missing file yields the defaults.
// Environment overrides are applied after the file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to path as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("LOAN_ENGINE_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("LOAN_ENGINE_REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("LOAN_ENGINE_RATE_LIMIT_BACKEND"); v != "" {
		c.RateLimit.Backend = v
	}
	if v := os.Getenv("LOAN_ENGINE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.Advisor.APIKey = v
		c.Advisor.Enabled = true
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	for name, d := range map[string]string{
		"server.read_timeout":     c.Server.ReadTimeout,
		"server.write_timeout":    c.Server.WriteTimeout,
		"server.idle_timeout":     c.Server.IdleTimeout,
		"server.shutdown_timeout": c.Server.ShutdownTimeout,
		"rate_limit.window":       c.RateLimit.Window,
		"advisor.timeout":         c.Advisor.Timeout,
	} {
		if _, err := time.ParseDuration(d); err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, d, err)
		}
	}
	if c.RateLimit.Capacity <= 0 {
		return fmt.Errorf("rate_limit.capacity must be positive, got %d", c.RateLimit.Capacity)
	}
	switch c.RateLimit.Backend {
	case "memory", "window", "redis":
	default:
		return fmt.Errorf("unknown rate_limit.backend %q", c.RateLimit.Backend)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown logging.level %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("unknown logging.format %q", c.Logging.Format)
	}
	if t := c.Mortgage.PMIRemovalThresholdPercent; t <= 0 || t > 100 {
		return fmt.Errorf("mortgage.pmi_removal_threshold_percent must be in (0, 100], got %v", t)
	}
	l := c.Limits
	if l.MaxLoanAmount <= 0 || l.MaxInterestRate <= 0 || l.MaxTermMonths <= 0 ||
		l.MaxDebtAmount <= 0 || l.MaxDebtsPerRequest <= 0 || l.MaxDebtPayoffMonths <= 0 ||
		l.DebtBalanceTolerance < 0 || l.MaxTermRangeMonths <= 0 {
		return errors.New("limits must be positive")
	}
	return nil
}

func mustDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return d
}

func (s ServerConfig) ReadTimeoutDuration() time.Duration     { return mustDuration(s.ReadTimeout) }
func (s ServerConfig) WriteTimeoutDuration() time.Duration    { return mustDuration(s.WriteTimeout) }
func (s ServerConfig) IdleTimeoutDuration() time.Duration     { return mustDuration(s.IdleTimeout) }
func (s ServerConfig) ShutdownTimeoutDuration() time.Duration { return mustDuration(s.ShutdownTimeout) }

func (r RateLimitConfig) WindowDuration() time.Duration { return mustDuration(r.Window) }

func (a AdvisorConfig) TimeoutDuration() time.Duration { return mustDuration(a.Timeout) }
