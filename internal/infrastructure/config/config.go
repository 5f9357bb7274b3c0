package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all client configuration
type Config struct {
	App        AppConfig
	API        APIConfig
	Storage    StorageConfig
	Log        LogConfig
	MockServer MockServerConfig
	Metrics    MetricsConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
}

// APIConfig holds backend access and dispatch settings
type APIConfig struct {
	BaseURL   string        // Real backend base URL, e.g. http://localhost:8080/api
	Timeout   time.Duration // Per-request timeout for the real backend
	UseMock   bool          // Route non allow-listed paths to the mock router
	RealPaths []string      // Path prefixes that always reach the real backend
}

// StorageConfig holds session persistence settings
type StorageConfig struct {
	Driver              string // memory, bolt, redis
	Path                string // bbolt file path
	KeyPrefix           string // Redis key prefix
	AllowMemoryFallback bool
	Redis               RedisConfig
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// MockServerConfig holds settings for the standalone mock backend
type MockServerConfig struct {
	Port         string
	JWTSecret    string
	TokenTTL     time.Duration
	Issuer       string
	DemoUsername string
	DemoPassword string
}

// MetricsConfig holds Prometheus settings
type MetricsConfig struct {
	Enabled   bool
	Namespace string
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with ERP_ prefix (e.g., ERP_API_BASE_URL)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	return LoadWithViper(viper.New(), "")
}

// LoadFile loads configuration from an explicit file path
func LoadFile(path string) (*Config, error) {
	return LoadWithViper(viper.New(), path)
}

// LoadWithViper loads configuration using the given viper instance.
// An empty path searches the default locations for config.toml.
func LoadWithViper(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Defaults that cannot be expressed as zero values
	v.SetDefault("api.use_mock", true)
	v.SetDefault("storage.allow_memory_fallback", true)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("ERP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
		},
		API: APIConfig{
			BaseURL:   v.GetString("api.base_url"),
			Timeout:   v.GetDuration("api.timeout"),
			UseMock:   v.GetBool("api.use_mock"),
			RealPaths: v.GetStringSlice("api.real_paths"),
		},
		Storage: StorageConfig{
			Driver:              v.GetString("storage.driver"),
			Path:                v.GetString("storage.path"),
			KeyPrefix:           v.GetString("storage.key_prefix"),
			AllowMemoryFallback: v.GetBool("storage.allow_memory_fallback"),
			Redis: RedisConfig{
				Host:     v.GetString("storage.redis.host"),
				Port:     v.GetInt("storage.redis.port"),
				Password: v.GetString("storage.redis.password"),
				DB:       v.GetInt("storage.redis.db"),
			},
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		MockServer: MockServerConfig{
			Port:         v.GetString("mock_server.port"),
			JWTSecret:    v.GetString("mock_server.jwt_secret"),
			TokenTTL:     v.GetDuration("mock_server.token_ttl"),
			Issuer:       v.GetString("mock_server.issuer"),
			DemoUsername: v.GetString("mock_server.demo_username"),
			DemoPassword: v.GetString("mock_server.demo_password"),
		},
		Metrics: MetricsConfig{
			Enabled:   v.GetBool("metrics.enabled"),
			Namespace: v.GetString("metrics.namespace"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "erp-client"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "http://localhost:8080/api"
	}
	if cfg.API.Timeout == 0 {
		cfg.API.Timeout = 15 * time.Second
	}
	if len(cfg.API.RealPaths) == 0 {
		cfg.API.RealPaths = []string{"/auth/login", "/auth/logout"}
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "memory"
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = "session.db"
	}
	if cfg.Storage.KeyPrefix == "" {
		cfg.Storage.KeyPrefix = "erp:session:"
	}
	if cfg.Storage.Redis.Host == "" {
		cfg.Storage.Redis.Host = "localhost"
	}
	if cfg.Storage.Redis.Port == 0 {
		cfg.Storage.Redis.Port = 6379
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stderr"
	}
	if cfg.MockServer.Port == "" {
		cfg.MockServer.Port = "8080"
	}
	if cfg.MockServer.TokenTTL == 0 {
		cfg.MockServer.TokenTTL = 2 * time.Hour
	}
	if cfg.MockServer.Issuer == "" {
		cfg.MockServer.Issuer = "erp-mockserver"
	}
	if cfg.MockServer.DemoUsername == "" {
		cfg.MockServer.DemoUsername = "zhangsan"
	}
	if cfg.MockServer.DemoPassword == "" {
		cfg.MockServer.DemoPassword = "123456"
	}
	if cfg.MockServer.JWTSecret == "" && cfg.App.Env != "production" {
		cfg.MockServer.JWTSecret = "erp-mockserver-development-secret"
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = "erp_client"
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("api.base_url is invalid: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.base_url must be an absolute http(s) URL, got %q", c.API.BaseURL)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout cannot be negative")
	}

	switch c.Storage.Driver {
	case "memory", "bolt", "redis":
	default:
		return fmt.Errorf("storage.driver must be one of memory, bolt, redis; got %q", c.Storage.Driver)
	}

	for _, p := range c.API.RealPaths {
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("api.real_paths entries must start with '/', got %q", p)
		}
	}

	if c.App.Env == "production" {
		if c.MockServer.JWTSecret == "" {
			return fmt.Errorf("mock_server.jwt_secret is required in production")
		}
		if len(c.MockServer.JWTSecret) < 32 {
			return fmt.Errorf("mock_server.jwt_secret must be at least 32 characters in production")
		}
	}

	return nil
}

// Addr returns the Redis address in host:port form
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}
