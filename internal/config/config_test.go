package config

import (
	"os"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	chdir(t, t.TempDir())

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, 300*time.Second, cfg.Cache.LeadsTTL)
	assert.Equal(t, 600*time.Second, cfg.Cache.StatsTTL)
	assert.Equal(t, CacheBackendMemory, cfg.Cache.Backend)
	assert.Equal(t, 15*time.Second, cfg.Webhook.Timeout)
	assert.Equal(t, "*/30 * * * * *", cfg.StageSync.CronSchedule)
	assert.Equal(t, 10, cfg.StageSync.MaxAttempts)
	assert.Equal(t, []string{"*"}, cfg.Server.CorsAllowedOrigins)
}

func TestNewConfig_FromEnv(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	chdir(t, t.TempDir())

	t.Setenv("CACHE_BACKEND", " Redis ")
	t.Setenv("LEADS_CACHE_TTL", "1m")
	t.Setenv("WEBHOOK_LEADS_URL", "https://hooks.example.com/leads")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com,https://b.example.com")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, CacheBackendRedis, cfg.Cache.Backend)
	assert.Equal(t, time.Minute, cfg.Cache.LeadsTTL)
	assert.Equal(t, "https://hooks.example.com/leads", cfg.Webhook.LeadsURL)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Server.CorsAllowedOrigins)
}

func chdir(t *testing.T, dir string) {
	t.Helper()

	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
