package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfig(t, "{}"))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8000", cfg.HTTP.Address)
	require.Less(t, cfg.HTTP.RequestTimeout, cfg.HTTP.WriteTimeout)
	require.Equal(t, 10*time.Second, cfg.Weather.Timeout)
	require.Equal(t, 60*time.Second, cfg.LLM.Timeout)
	require.Equal(t, 1.0, cfg.Alerts.RainThresholdMM)
	require.Equal(t, 14, cfg.Alerts.PesticideWindowDays)
	require.Equal(t, 3, cfg.Advisory.MaxAttempts)
	require.Equal(t, 2*time.Second, cfg.Advisory.Backoff)
	require.Equal(t, 20*time.Second, cfg.Chat.Backoff)
	require.False(t, cfg.SMS.Enabled())

	loc, err := cfg.Alerts.Location()
	require.NoError(t, err)
	require.Equal(t, "Asia/Kolkata", loc.String())
}

func TestLoadFileThenEnv(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfig(t, `
http:
  address: ":9090"
weather:
  timeout: 5s
  breaker:
    consecutiveFailures: 2
chat:
  backoff: 1s
`))
	t.Setenv("HTTP_ADDRESS", ":7070")
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("VISUAL_CROSSING_API_KEY", "vc-key")
	t.Setenv("TWILIO_ACCOUNT_SID", "AC123")
	t.Setenv("TWILIO_AUTH_TOKEN", "token")
	t.Setenv("TWILIO_NUMBER", "+15005550006")
	t.Setenv("HTTP_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":7070", cfg.HTTP.Address)
	require.Equal(t, 5*time.Second, cfg.Weather.Timeout)
	require.Equal(t, uint32(2), cfg.Weather.Breaker.ConsecutiveFailures)
	require.Equal(t, time.Second, cfg.Chat.Backoff)
	require.Equal(t, "gemini-key", cfg.LLM.APIKey)
	require.Equal(t, "vc-key", cfg.Weather.APIKey)
	require.True(t, cfg.SMS.Enabled())
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.AllowedOrigins)
}

func TestLLMKeyPrefersGenericName(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfig(t, "{}"))
	t.Setenv("LLM_API_KEY", "primary")
	t.Setenv("GEMINI_API_KEY", "fallback")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "primary", cfg.LLM.APIKey)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"empty address":      func(c *Config) { c.HTTP.Address = "" },
		"no request timeout": func(c *Config) { c.HTTP.RequestTimeout = 0 },
		"request outlives write": func(c *Config) {
			c.HTTP.WriteTimeout = 90 * time.Second
			c.HTTP.RequestTimeout = 90 * time.Second
		},
		"zero threshold":       func(c *Config) { c.Alerts.RainThresholdMM = 0 },
		"unknown timezone":     func(c *Config) { c.Alerts.Timezone = "Mars/Olympus" },
		"no advisory attempts": func(c *Config) { c.Advisory.MaxAttempts = 0 },
		"reports without bucket": func(c *Config) {
			c.Reports.Enabled = true
			c.Reports.Endpoint = "http://minio:9000"
		},
		"metrics path": func(c *Config) { c.Metrics.Path = "metrics" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := defaultConfig()
			mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
	require.NoError(t, defaultConfig().Validate())
}

func TestLoadRejectsBadYAML(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfig(t, "http: [unterminated"))
	_, err := Load()
	require.Error(t, err)
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}
