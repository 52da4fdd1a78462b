package infra

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"minecalc/internal/domain"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultUserAgent identifies this service to upstream APIs
	DefaultUserAgent = "minecalc/1.0 (+https://github.com/minecalc)"

	// DefaultConfigPath is used when no --config flag is given
	DefaultConfigPath = "configs/config.yaml"

	// DefaultStatsURL is the public blockchain statistics endpoint
	DefaultStatsURL = "https://api.blockchain.info/stats"
)

// Block reward sources for the network fetcher.
const (
	RewardSourceSubsidy = "subsidy"
	RewardSourceRevenue = "revenue"
)

// Config holds every setting of the application.
// Values are layered: defaults, then the YAML file, then .env and environment variables.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Server struct {
		Host               string   `yaml:"host"`
		Port               int      `yaml:"port"`
		AllowedOrigins     []string `yaml:"allowed_origins"`
		ShutdownTimeoutSec int      `yaml:"shutdown_timeout_sec"`
	} `yaml:"server"`

	Network struct {
		StatsURL          string `yaml:"stats_url"`
		TimeoutSec        int    `yaml:"timeout_sec"`
		MaxRetries        int    `yaml:"max_retries"`
		BlockRewardSource string `yaml:"block_reward_source"`
	} `yaml:"network"`

	Logging struct {
		Level      string `yaml:"level"`
		Dir        string `yaml:"dir"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
	} `yaml:"logging"`

	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.App.Name = "minecalc"
	cfg.App.Version = "1.0.0"

	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 8000
	cfg.Server.AllowedOrigins = []string{"*"}
	cfg.Server.ShutdownTimeoutSec = 10

	cfg.Network.StatsURL = DefaultStatsURL
	cfg.Network.TimeoutSec = 10
	cfg.Network.MaxRetries = 3
	cfg.Network.BlockRewardSource = RewardSourceSubsidy

	cfg.Logging.Level = "info"
	cfg.Logging.Dir = "logs"
	cfg.Logging.MaxSizeMB = 10
	cfg.Logging.MaxBackups = 3
	cfg.Logging.MaxAgeDays = 28

	cfg.Metrics.Enabled = true
	cfg.Metrics.Path = "/metrics"
	return cfg
}

// LoadConfig reads the YAML file at path on top of the defaults.
// A missing file is not an error; the defaults are used instead.
func LoadConfig(path string) (*Config, error) {
	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read .env: %w", err)
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// defaults only
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	overrideWithEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return &domain.ConfigError{Field: "server.port", Err: fmt.Errorf("out of range: %d", c.Server.Port)}
	}
	if !strings.HasPrefix(c.Network.StatsURL, "http://") && !strings.HasPrefix(c.Network.StatsURL, "https://") {
		return &domain.ConfigError{Field: "network.stats_url", Err: fmt.Errorf("not an http(s) URL: %q", c.Network.StatsURL)}
	}
	if c.Network.TimeoutSec <= 0 {
		return &domain.ConfigError{Field: "network.timeout_sec", Err: errors.New("must be positive")}
	}
	if c.Network.MaxRetries < 1 {
		return &domain.ConfigError{Field: "network.max_retries", Err: errors.New("must be at least 1")}
	}
	switch c.Network.BlockRewardSource {
	case RewardSourceSubsidy, RewardSourceRevenue:
	default:
		return &domain.ConfigError{Field: "network.block_reward_source", Err: fmt.Errorf("unknown source %q", c.Network.BlockRewardSource)}
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return &domain.ConfigError{Field: "metrics.path", Err: fmt.Errorf("must start with '/': %q", c.Metrics.Path)}
	}
	return nil
}

// Addr returns the host:port the HTTP server listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// NetworkTimeout returns the per-request timeout for the stats endpoint.
func (c *Config) NetworkTimeout() time.Duration {
	return time.Duration(c.Network.TimeoutSec) * time.Second
}

// ShutdownTimeout returns the graceful shutdown deadline.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Server.ShutdownTimeoutSec) * time.Second
}

// overrideWithEnv overwrites settings with MINECALC_* environment variables when present.
func overrideWithEnv(cfg *Config) {
	if val := os.Getenv("MINECALC_HOST"); val != "" {
		cfg.Server.Host = val
	}
	if val := os.Getenv("MINECALC_PORT"); val != "" {
		if p, err := strconv.Atoi(val); err == nil {
			cfg.Server.Port = p
		}
	}
	if val := os.Getenv("MINECALC_ALLOWED_ORIGINS"); val != "" {
		parts := strings.Split(val, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		cfg.Server.AllowedOrigins = parts
	}
	if val := os.Getenv("MINECALC_STATS_URL"); val != "" {
		cfg.Network.StatsURL = val
	}
	if val := os.Getenv("MINECALC_NETWORK_TIMEOUT"); val != "" {
		if p, err := strconv.Atoi(val); err == nil {
			cfg.Network.TimeoutSec = p
		}
	}
	if val := os.Getenv("MINECALC_MAX_RETRIES"); val != "" {
		if p, err := strconv.Atoi(val); err == nil {
			cfg.Network.MaxRetries = p
		}
	}
	if val := os.Getenv("MINECALC_BLOCK_REWARD_SOURCE"); val != "" {
		cfg.Network.BlockRewardSource = val
	}
	if val := os.Getenv("MINECALC_LOG_LEVEL"); val != "" {
		cfg.Logging.Level = val
	}
	if val := os.Getenv("MINECALC_LOG_DIR"); val != "" {
		cfg.Logging.Dir = val
	}
	if val := os.Getenv("MINECALC_METRICS_ENABLED"); val != "" {
		cfg.Metrics.Enabled = val == "true" || val == "1"
	}
}
