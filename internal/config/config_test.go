package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.App.HTTPAddr)
	assert.Equal(t, 500, cfg.App.DefaultLimit)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.App.CORSOrigins)
	assert.Equal(t, []string{"binance", "bybit"}, cfg.App.ExchangePriority)
	assert.Equal(t, []string{"USDT", "USDC", "TUSD", "BUSD", "USD"}, cfg.App.QuotePriority)
	assert.Equal(t, "http://localhost:8080", cfg.Market.BaseURL)
	assert.Equal(t, 20*time.Second, cfg.Market.HTTPTimeout)
	assert.Equal(t, 30*time.Second, cfg.Market.CandleCacheTTL)
	assert.Equal(t, "gemini-2.5-flash", cfg.Narrative.Model)
	assert.Equal(t, 300, cfg.Narrative.MaxTokens)
	assert.Equal(t, 10, cfg.Narrative.RateLimit)
	assert.Equal(t, 60*time.Second, cfg.Narrative.RateWindow)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("AI_MARKET_DATA_BACKEND_URL", "http://market:9000")
	t.Setenv("AI_APP_EXCHANGE_PRIORITY", "bybit,okx")
	t.Setenv("AI_APP_CORS_ORIGINS", "http://a.example,http://b.example")
	t.Setenv("AI_APP_DEFAULT_LIMIT", "200")
	t.Setenv("AI_NARRATIVE_RATE_WINDOW", "30s")
	t.Setenv("GEMINI_API_KEY", "secret")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "http://market:9000", cfg.Market.BaseURL)
	assert.Equal(t, []string{"bybit", "okx"}, cfg.App.ExchangePriority)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.App.CORSOrigins)
	assert.Equal(t, 200, cfg.App.DefaultLimit)
	assert.Equal(t, 30*time.Second, cfg.Narrative.RateWindow)
	assert.Equal(t, "secret", cfg.Narrative.APIKey, "접두사 없는 GEMINI_API_KEY 허용")
}

func TestLoadConfig_DotenvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("AI_REDIS_ADDR=localhost:6379\nAI_LOG_LEVEL=debug\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("AI_REDIS_ADDR")
		os.Unsetenv("AI_LOG_LEVEL")
	})

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("AI_APP_DEFAULT_LIMIT", "20")
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		var cfg Config
		cfg.App.DefaultLimit = 500
		cfg.App.ExchangePriority = []string{"binance"}
		cfg.App.QuotePriority = []string{"USDT"}
		cfg.Market.BaseURL = "http://localhost:8080"
		cfg.Market.HTTPTimeout = time.Second
		cfg.Narrative.RateLimit = 10
		cfg.Narrative.RateWindow = time.Minute
		cfg.Narrative.MaxTokens = 300
		return &cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"유효한 설정", func(*Config) {}, false},
		{"limit 상한 초과", func(c *Config) { c.App.DefaultLimit = 1001 }, true},
		{"빈 거래소 우선순위", func(c *Config) { c.App.ExchangePriority = nil }, true},
		{"빈 quote 우선순위", func(c *Config) { c.App.QuotePriority = nil }, true},
		{"빈 백엔드 URL", func(c *Config) { c.Market.BaseURL = "" }, true},
		{"타임아웃 0", func(c *Config) { c.Market.HTTPTimeout = 0 }, true},
		{"허용량 0", func(c *Config) { c.Narrative.RateLimit = 0 }, true},
		{"윈도우 0", func(c *Config) { c.Narrative.RateWindow = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := ValidateConfig(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
