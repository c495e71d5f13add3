package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

// ServiceConfig describes one downstream HTTP dependency. The base URL may
// omit the scheme; resolution defaults to https. An empty URL means the
// dependency is not configured, which is fatal only for required services.
type ServiceConfig struct {
	URL                string        `yaml:"url"`
	Timeout            time.Duration `yaml:"timeout" default:"10s"`
	InsecureSkipVerify bool          `yaml:"insecure_skip_verify"`
}

type Config struct {
	Environment string `yaml:"environment" default:"development"`
	Server      struct {
		Port            int           `yaml:"port" default:"5000"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"15s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"30s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		RateLimitRPS    float64       `yaml:"rate_limit_rps"`
		RateLimitBurst  int           `yaml:"rate_limit_burst" default:"20"`
	} `yaml:"server"`
	Logging struct {
		Level      string `yaml:"level" default:"info"`
		Format     string `yaml:"format" default:"json"`
		Output     string `yaml:"output" default:"stdout"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
	} `yaml:"logging"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Services struct {
		SubscriberMatcher ServiceConfig `yaml:"subscriber_matcher"`
		AISignal          ServiceConfig `yaml:"ai_signal"`
		NewsAI            ServiceConfig `yaml:"news_ai"`
		Telegram          ServiceConfig `yaml:"telegram"`
	} `yaml:"services"`
	Dispatch struct {
		RequiredFields           []string      `yaml:"required_fields" default:"[\"symbol\",\"action\"]"`
		RequiredServices         []string      `yaml:"required_services" default:"[\"telegram\"]"`
		RequireDownstreamSuccess bool          `yaml:"require_downstream_success"`
		HealthProbeTimeout       time.Duration `yaml:"health_probe_timeout" default:"3s"`
		MatchCacheTTL            time.Duration `yaml:"match_cache_ttl"`
	} `yaml:"dispatch"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Kafka struct {
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic" default:"signal-dispatches"`
		LogTopic     string   `yaml:"log_topic" default:"signal-processor-errors"`
		RequiredAcks int      `yaml:"required_acks" default:"1"`
		Compression  string   `yaml:"compression"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchBytes   int           `yaml:"batch_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply config defaults: %w", err)
	}

	// Validate required fields
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment
// variables. The variable names match the original deployment surface so
// existing compose files keep working. A missing file is not an error:
// env-only deployments carry no YAML at all.
func LoadWithEnv(path string) (*Config, error) {
	var c Config
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Override with environment variables
	if v := os.Getenv("ENVIRONMENT"); v != "" {
		c.Environment = v
	}
	if v := os.Getenv("PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parse PORT: %w", err)
		}
		c.Server.Port = p
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("SUBSCRIBER_MATCHER_URL"); v != "" {
		c.Services.SubscriberMatcher.URL = v
	}
	if v := os.Getenv("AI_SIGNAL_SERVICE_URL"); v != "" {
		c.Services.AISignal.URL = v
	}
	if v := os.Getenv("NEWS_AI_SERVICE_URL"); v != "" {
		c.Services.NewsAI.URL = v
	}
	if v := os.Getenv("TELEGRAM_SERVICE_URL"); v != "" {
		c.Services.Telegram.URL = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Enabled = true
		c.Redis.Addr = v
	}

	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply config defaults: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// Service returns the configuration block for a logical service name.
func (c *Config) Service(name string) (ServiceConfig, bool) {
	switch name {
	case "subscriber_matcher":
		return c.Services.SubscriberMatcher, true
	case "ai_signal":
		return c.Services.AISignal, true
	case "news_ai":
		return c.Services.NewsAI, true
	case "telegram":
		return c.Services.Telegram, true
	}
	return ServiceConfig{}, false
}

// envVarFor maps a logical service name to its override variable, used to
// make missing-address errors actionable.
func envVarFor(name string) string {
	switch name {
	case "subscriber_matcher":
		return "SUBSCRIBER_MATCHER_URL"
	case "ai_signal":
		return "AI_SIGNAL_SERVICE_URL"
	case "news_ai":
		return "NEWS_AI_SERVICE_URL"
	case "telegram":
		return "TELEGRAM_SERVICE_URL"
	}
	return ""
}

// Validate checks if the configuration is valid. A required service without
// an address is a startup error, never a per-request one.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	for _, name := range c.Dispatch.RequiredServices {
		svc, ok := c.Service(name)
		if !ok {
			return fmt.Errorf("dispatch.required_services: unknown service '%s'", name)
		}
		if svc.URL == "" {
			return fmt.Errorf("services.%s.url is required (set %s)", name, envVarFor(name))
		}
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required when redis is enabled")
	}
	return nil
}
