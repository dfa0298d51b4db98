package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Upstream  UpstreamConfig
	Cache     CacheConfig
	Log       LogConfig
	HTTP      HTTPConfig
	Swagger   SwaggerConfig
	Telemetry TelemetryConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// UpstreamConfig holds the connection settings for the upstream ERP API
type UpstreamConfig struct {
	BaseURL     string        // e.g. "http://erp.internal:8080"
	Timeout     time.Duration // per-request timeout
	APIKey      string        // optional bearer token
	PageSizeMax int           // hard cap applied to forwarded page_size values
}

// CacheConfig holds upstream page cache settings
type CacheConfig struct {
	Backend     string // memory, redis
	ActivityTTL time.Duration
	CatalogTTL  time.Duration
	TradeTTL    time.Duration
	Redis       RedisConfig
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host        string
	Port        int
	Password    string
	DB          int
	DialTimeout time.Duration
}

// Addr returns the host:port address for the Redis client
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
	MaxBodySize       int64
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration
	CORSAllowOrigins  []string
	CORSAllowMethods  []string
	CORSAllowHeaders  []string
	TrustedProxies    []string
}

// SwaggerConfig holds Swagger documentation endpoint configuration
type SwaggerConfig struct {
	Enabled    bool     // Whether to enable Swagger endpoint
	AllowedIPs []string // IP whitelist (empty = allow all)
}

// TelemetryConfig holds OpenTelemetry and profiling configuration
type TelemetryConfig struct {
	ServiceName       string // Service name reported on every signal
	CollectorEndpoint string // OTEL Collector endpoint (e.g., "localhost:4317")
	Insecure          bool   // Use insecure (non-TLS) connection (development only)
	Traces            TracesConfig
	Metrics           MetricsConfig
	Logs              LogsConfig
	Profiling         ProfilingConfig
}

// TracesConfig holds distributed tracing settings
type TracesConfig struct {
	Enabled       bool
	SamplingRatio float64 // Sampling ratio (0.0-1.0, 1.0 = 100%)
}

// MetricsConfig holds metrics export settings
type MetricsConfig struct {
	Enabled        bool
	ExportInterval time.Duration
}

// LogsConfig holds OTEL log export settings
type LogsConfig struct {
	Enabled bool
}

// ProfilingConfig holds Pyroscope continuous profiling settings
type ProfilingConfig struct {
	Enabled           bool
	ServerAddress     string
	ApplicationName   string
	BasicAuthUser     string
	BasicAuthPassword string
	ProfileCPU        bool
	ProfileAllocSpace bool
	ProfileInuseSpace bool
	ProfileGoroutines bool
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with STOREADMIN_ prefix (e.g., STOREADMIN_UPSTREAM_BASE_URL)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	// Set config file settings
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/storeadmin")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	// Enable environment variable override
	v.SetEnvPrefix("STOREADMIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Build config struct
	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Upstream: UpstreamConfig{
			BaseURL:     v.GetString("upstream.base_url"),
			Timeout:     v.GetDuration("upstream.timeout"),
			APIKey:      v.GetString("upstream.api_key"),
			PageSizeMax: v.GetInt("upstream.page_size_max"),
		},
		Cache: CacheConfig{
			Backend:     v.GetString("cache.backend"),
			ActivityTTL: v.GetDuration("cache.activity_ttl"),
			CatalogTTL:  v.GetDuration("cache.catalog_ttl"),
			TradeTTL:    v.GetDuration("cache.trade_ttl"),
			Redis: RedisConfig{
				Host:        v.GetString("cache.redis.host"),
				Port:        v.GetInt("cache.redis.port"),
				Password:    v.GetString("cache.redis.password"),
				DB:          v.GetInt("cache.redis.db"),
				DialTimeout: v.GetDuration("cache.redis.dial_timeout"),
			},
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:       v.GetDuration("http.read_timeout"),
			WriteTimeout:      v.GetDuration("http.write_timeout"),
			IdleTimeout:       v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:    v.GetInt("http.max_header_bytes"),
			MaxBodySize:       v.GetInt64("http.max_body_size"),
			RateLimitEnabled:  v.GetBool("http.rate_limit_enabled"),
			RateLimitRequests: v.GetInt("http.rate_limit_requests"),
			RateLimitWindow:   v.GetDuration("http.rate_limit_window"),
			CORSAllowOrigins:  v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods:  v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders:  v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:    v.GetStringSlice("http.trusted_proxies"),
		},
		Swagger: SwaggerConfig{
			Enabled:    v.GetBool("swagger.enabled"),
			AllowedIPs: v.GetStringSlice("swagger.allowed_ips"),
		},
		Telemetry: TelemetryConfig{
			ServiceName:       v.GetString("telemetry.service_name"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			Insecure:          v.GetBool("telemetry.insecure"),
			Traces: TracesConfig{
				Enabled:       v.GetBool("telemetry.traces.enabled"),
				SamplingRatio: v.GetFloat64("telemetry.traces.sampling_ratio"),
			},
			Metrics: MetricsConfig{
				Enabled:        v.GetBool("telemetry.metrics.enabled"),
				ExportInterval: v.GetDuration("telemetry.metrics.export_interval"),
			},
			Logs: LogsConfig{
				Enabled: v.GetBool("telemetry.logs.enabled"),
			},
			Profiling: ProfilingConfig{
				Enabled:           v.GetBool("telemetry.profiling.enabled"),
				ServerAddress:     v.GetString("telemetry.profiling.server_address"),
				ApplicationName:   v.GetString("telemetry.profiling.application_name"),
				BasicAuthUser:     v.GetString("telemetry.profiling.basic_auth_user"),
				BasicAuthPassword: v.GetString("telemetry.profiling.basic_auth_password"),
				ProfileCPU:        v.GetBool("telemetry.profiling.profile_cpu"),
				ProfileAllocSpace: v.GetBool("telemetry.profiling.profile_alloc_space"),
				ProfileInuseSpace: v.GetBool("telemetry.profiling.profile_inuse_space"),
				ProfileGoroutines: v.GetBool("telemetry.profiling.profile_goroutines"),
			},
		},
	}

	// Apply defaults for empty values
	applyDefaults(cfg)

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "storeadmin-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Upstream.BaseURL == "" {
		cfg.Upstream.BaseURL = "http://localhost:8081"
	}
	if cfg.Upstream.Timeout == 0 {
		cfg.Upstream.Timeout = 10 * time.Second
	}
	if cfg.Upstream.PageSizeMax == 0 {
		cfg.Upstream.PageSizeMax = 100
	}
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = "memory"
	}
	if cfg.Cache.ActivityTTL == 0 {
		cfg.Cache.ActivityTTL = 30 * time.Second
	}
	if cfg.Cache.CatalogTTL == 0 {
		cfg.Cache.CatalogTTL = 5 * time.Minute
	}
	if cfg.Cache.TradeTTL == 0 {
		cfg.Cache.TradeTTL = time.Minute
	}
	if cfg.Cache.Redis.Host == "" {
		cfg.Cache.Redis.Host = "localhost"
	}
	if cfg.Cache.Redis.Port == 0 {
		cfg.Cache.Redis.Port = 6379
	}
	if cfg.Cache.Redis.DialTimeout == 0 {
		cfg.Cache.Redis.DialTimeout = 5 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 1 << 20 // 1MB; the console only sends queries
	}
	if cfg.HTTP.RateLimitRequests == 0 {
		cfg.HTTP.RateLimitRequests = 100
	}
	if cfg.HTTP.RateLimitWindow == 0 {
		cfg.HTTP.RateLimitWindow = time.Minute
	}
	// NOTE: CORS origins are intentionally not given a default fallback to "*".
	// An empty list means no cross-origin requests are allowed until explicitly
	// configured. In development, set the console origin in config.toml,
	// e.g. ["http://localhost:3000"].
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "X-Request-ID"}
	}
	// Telemetry defaults
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "storeadmin-backend"
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317" // Default gRPC endpoint
	}
	if cfg.Telemetry.Traces.SamplingRatio == 0 {
		cfg.Telemetry.Traces.SamplingRatio = 1.0 // 100% in development
	}
	if cfg.Telemetry.Metrics.ExportInterval == 0 {
		cfg.Telemetry.Metrics.ExportInterval = 60 * time.Second
	}
	if cfg.Telemetry.Profiling.ApplicationName == "" {
		cfg.Telemetry.Profiling.ApplicationName = cfg.Telemetry.ServiceName
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if _, err := url.ParseRequestURI(c.Upstream.BaseURL); err != nil {
		return fmt.Errorf("upstream.base_url is not a valid URL: %w", err)
	}
	if c.Upstream.PageSizeMax <= 0 {
		return fmt.Errorf("upstream.page_size_max must be positive")
	}
	if c.Cache.Backend != "memory" && c.Cache.Backend != "redis" {
		return fmt.Errorf("cache.backend must be 'memory' or 'redis', got %q", c.Cache.Backend)
	}

	// Production-specific validations
	if c.App.Env == "production" {
		// CORS must not use wildcard
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
		// Swagger must be disabled or IP-restricted in production
		if c.Swagger.Enabled && len(c.Swagger.AllowedIPs) == 0 {
			return fmt.Errorf("swagger endpoint must be disabled or have IP restriction in production")
		}
	}

	// Validate telemetry configuration (all environments)
	if c.Telemetry.Traces.SamplingRatio < 0.0 || c.Telemetry.Traces.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.traces.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.Traces.SamplingRatio)
	}
	if c.Telemetry.Profiling.Enabled && c.Telemetry.Profiling.ServerAddress == "" {
		return fmt.Errorf("telemetry.profiling.server_address is required when profiling is enabled")
	}

	return nil
}

// IsProduction returns true when the app runs with the production environment
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
