package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "storeadmin-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.False(t, cfg.IsProduction())

	assert.Equal(t, "http://localhost:8081", cfg.Upstream.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, 100, cfg.Upstream.PageSizeMax)
	assert.Empty(t, cfg.Upstream.APIKey)

	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 30*time.Second, cfg.Cache.ActivityTTL)
	assert.Equal(t, 5*time.Minute, cfg.Cache.CatalogTTL)
	assert.Equal(t, time.Minute, cfg.Cache.TradeTTL)
	assert.Equal(t, "localhost:6379", cfg.Cache.Redis.Addr())
	assert.Equal(t, 5*time.Second, cfg.Cache.Redis.DialTimeout)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "stdout", cfg.Log.Output)

	assert.Equal(t, 15*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.HTTP.WriteTimeout)
	assert.Equal(t, 60*time.Second, cfg.HTTP.IdleTimeout)
	assert.Equal(t, 1<<20, cfg.HTTP.MaxHeaderBytes)
	assert.Equal(t, int64(1<<20), cfg.HTTP.MaxBodySize)
	assert.False(t, cfg.HTTP.RateLimitEnabled)
	assert.Equal(t, 100, cfg.HTTP.RateLimitRequests)
	assert.Equal(t, time.Minute, cfg.HTTP.RateLimitWindow)

	// No implicit wildcard: cross-origin stays off until configured.
	assert.Empty(t, cfg.HTTP.CORSAllowOrigins)
	assert.Equal(t, []string{"GET", "OPTIONS"}, cfg.HTTP.CORSAllowMethods)
	assert.Equal(t, []string{"Content-Type", "X-Request-ID"}, cfg.HTTP.CORSAllowHeaders)

	assert.False(t, cfg.Swagger.Enabled)

	assert.Equal(t, "storeadmin-backend", cfg.Telemetry.ServiceName)
	assert.Equal(t, "localhost:4317", cfg.Telemetry.CollectorEndpoint)
	assert.False(t, cfg.Telemetry.Traces.Enabled)
	assert.Equal(t, 1.0, cfg.Telemetry.Traces.SamplingRatio)
	assert.Equal(t, 60*time.Second, cfg.Telemetry.Metrics.ExportInterval)
	assert.False(t, cfg.Telemetry.Logs.Enabled)
	assert.False(t, cfg.Telemetry.Profiling.Enabled)
	assert.Equal(t, "storeadmin-backend", cfg.Telemetry.Profiling.ApplicationName)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Setenv("STOREADMIN_APP_ENV", "staging")
	t.Setenv("STOREADMIN_APP_PORT", "9090")
	t.Setenv("STOREADMIN_UPSTREAM_BASE_URL", "http://erp.internal:8080")
	t.Setenv("STOREADMIN_UPSTREAM_API_KEY", "secret-token")
	t.Setenv("STOREADMIN_UPSTREAM_TIMEOUT", "3s")
	t.Setenv("STOREADMIN_UPSTREAM_PAGE_SIZE_MAX", "50")
	t.Setenv("STOREADMIN_CACHE_BACKEND", "redis")
	t.Setenv("STOREADMIN_CACHE_REDIS_HOST", "cache.internal")
	t.Setenv("STOREADMIN_CACHE_REDIS_PORT", "6380")
	t.Setenv("STOREADMIN_CACHE_ACTIVITY_TTL", "10s")
	t.Setenv("STOREADMIN_LOG_LEVEL", "debug")
	t.Setenv("STOREADMIN_LOG_FORMAT", "json")
	t.Setenv("STOREADMIN_HTTP_RATE_LIMIT_ENABLED", "true")
	t.Setenv("STOREADMIN_TELEMETRY_TRACES_ENABLED", "true")
	t.Setenv("STOREADMIN_TELEMETRY_TRACES_SAMPLING_RATIO", "0.25")
	t.Setenv("STOREADMIN_TELEMETRY_COLLECTOR_ENDPOINT", "otel.internal:4317")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.App.Env)
	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "http://erp.internal:8080", cfg.Upstream.BaseURL)
	assert.Equal(t, "secret-token", cfg.Upstream.APIKey)
	assert.Equal(t, 3*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, 50, cfg.Upstream.PageSizeMax)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, "cache.internal:6380", cfg.Cache.Redis.Addr())
	assert.Equal(t, 10*time.Second, cfg.Cache.ActivityTTL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.True(t, cfg.HTTP.RateLimitEnabled)
	assert.True(t, cfg.Telemetry.Traces.Enabled)
	assert.Equal(t, 0.25, cfg.Telemetry.Traces.SamplingRatio)
	assert.Equal(t, "otel.internal:4317", cfg.Telemetry.CollectorEndpoint)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := `
[app]
name = "storeadmin-gateway"
env = "development"

[upstream]
base_url = "http://erp.test:8080"
timeout = "4s"

[cache]
backend = "memory"
catalog_ttl = "2m"

[log]
level = "warn"

[http]
cors_allow_origins = ["http://localhost:3000"]

[swagger]
enabled = true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o644))
	t.Chdir(dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "storeadmin-gateway", cfg.App.Name)
	assert.Equal(t, "http://erp.test:8080", cfg.Upstream.BaseURL)
	assert.Equal(t, 4*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, 2*time.Minute, cfg.Cache.CatalogTTL)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.HTTP.CORSAllowOrigins)
	assert.True(t, cfg.Swagger.Enabled)

	// Defaults still fill the sections the file does not set.
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 100, cfg.Upstream.PageSizeMax)
}

func TestLoad_EnvBeatsConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := `
[log]
level = "warn"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o644))
	t.Chdir(dir)
	t.Setenv("STOREADMIN_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "malformed upstream url",
			env:     map[string]string{"STOREADMIN_UPSTREAM_BASE_URL": ":bad"},
			wantErr: "upstream.base_url",
		},
		{
			name:    "unknown cache backend",
			env:     map[string]string{"STOREADMIN_CACHE_BACKEND": "memcached"},
			wantErr: "cache.backend",
		},
		{
			name:    "sampling ratio above one",
			env:     map[string]string{"STOREADMIN_TELEMETRY_TRACES_SAMPLING_RATIO": "1.5"},
			wantErr: "sampling_ratio",
		},
		{
			name:    "profiling without server address",
			env:     map[string]string{"STOREADMIN_TELEMETRY_PROFILING_ENABLED": "true"},
			wantErr: "server_address",
		},
		{
			name: "wildcard cors in production",
			env: map[string]string{
				"STOREADMIN_APP_ENV":                 "production",
				"STOREADMIN_HTTP_CORS_ALLOW_ORIGINS": "*",
			},
			wantErr: "cors_allow_origins",
		},
		{
			name: "open swagger in production",
			env: map[string]string{
				"STOREADMIN_APP_ENV":         "production",
				"STOREADMIN_SWAGGER_ENABLED": "true",
			},
			wantErr: "swagger",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_ProductionWithRestrictedSwagger(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STOREADMIN_APP_ENV", "production")
	t.Setenv("STOREADMIN_SWAGGER_ENABLED", "true")
	t.Setenv("STOREADMIN_SWAGGER_ALLOWED_IPS", "10.0.0.5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.Swagger.Enabled)
	assert.Equal(t, []string{"10.0.0.5"}, cfg.Swagger.AllowedIPs)
}

func TestRedisConfig_Addr(t *testing.T) {
	r := RedisConfig{Host: "redis.internal", Port: 6379}
	assert.Equal(t, "redis.internal:6379", r.Addr())
}
