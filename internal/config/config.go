package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"csfloat/market/internal/domain"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	CSFloat CSFloatConfig `mapstructure:"csfloat"`
	Log     LogConfig     `mapstructure:"log"`
}

// CSFloatConfig holds CSFloat API configuration
type CSFloatConfig struct {
	BaseURL              string        `mapstructure:"base_url"`
	APIKey               string        `mapstructure:"api_key"`
	UserAgent            string        `mapstructure:"user_agent"`
	Timeout              time.Duration `mapstructure:"timeout"`
	ConnectTimeout       time.Duration `mapstructure:"connect_timeout"`
	MaxRetries           int           `mapstructure:"max_retries"`
	MaxRequestsPerSecond int           `mapstructure:"max_requests_per_second"`
	Proxies              []string      `mapstructure:"proxies"`

	// Skips backoff waits between retries. Only meant for tests.
	TestNoSleep bool `mapstructure:"test_no_sleep"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text or json
}

const (
	DefaultBaseURL        = "https://csfloat.com"
	DefaultUserAgent      = "csfloat-market-client/0.1 (+https://csfloat.com)"
	DefaultTimeout        = 10 * time.Second
	DefaultConnectTimeout = 5 * time.Second
	DefaultMaxRetries     = 3
)

// Load reads configuration from defaults, an optional YAML file, .env and
// the environment, in increasing order of precedence. Every call reads the
// sources again; nothing is cached.
func Load(configFile string) (*Config, error) {
	if os.Getenv("CSFLOAT_IGNORE_DOTENV") != "1" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Warnf("Could not load .env file: %v", err)
		}
	}

	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.CSFloat.Validate(); err != nil {
		return nil, err
	}
	cfg.CSFloat.BaseURL = strings.TrimRight(cfg.CSFloat.BaseURL, "/")

	return &cfg, nil
}

// Validate reports a *domain.ConfigError for settings the client cannot run with.
func (c CSFloatConfig) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return &domain.ConfigError{Key: "csfloat.base_url", Message: fmt.Sprintf("cannot parse %q: %v", c.BaseURL, err)}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return &domain.ConfigError{Key: "csfloat.base_url", Message: fmt.Sprintf("must be http(s), got %q", c.BaseURL)}
	}
	if u.Host == "" {
		return &domain.ConfigError{Key: "csfloat.base_url", Message: fmt.Sprintf("missing host in %q", c.BaseURL)}
	}
	if c.MaxRetries < 0 {
		return &domain.ConfigError{Key: "csfloat.max_retries", Message: "must not be negative"}
	}
	if c.MaxRequestsPerSecond < 0 {
		return &domain.ConfigError{Key: "csfloat.max_requests_per_second", Message: "must not be negative"}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("csfloat.base_url", DefaultBaseURL)
	v.SetDefault("csfloat.api_key", "")
	v.SetDefault("csfloat.user_agent", DefaultUserAgent)
	v.SetDefault("csfloat.timeout", DefaultTimeout)
	v.SetDefault("csfloat.connect_timeout", DefaultConnectTimeout)
	v.SetDefault("csfloat.max_retries", DefaultMaxRetries)
	v.SetDefault("csfloat.max_requests_per_second", 0)
	v.SetDefault("csfloat.proxies", []string{})
	v.SetDefault("csfloat.test_no_sleep", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// bindEnv maps keys whose environment names do not follow the key path.
func bindEnv(v *viper.Viper) {
	bindings := map[string]string{
		"csfloat.base_url": "CSFLOAT_BASE",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			log.Warnf("Could not bind env var %s for key %s: %v", env, key, err)
		}
	}
}
