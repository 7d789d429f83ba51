package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	LLM         LLMConfig         `yaml:"llm"`
	Weather     WeatherConfig     `yaml:"weather"`
	SMS         SMSConfig         `yaml:"sms"`
	Alerts      AlertsConfig      `yaml:"alerts"`
	Advisory    AdvisoryConfig    `yaml:"advisory"`
	Chat        ChatConfig        `yaml:"chat"`
	DispatchLog DispatchLogConfig `yaml:"dispatchLog"`
	Reports     ReportsConfig     `yaml:"reports"`
	Metrics     MetricsConfig     `yaml:"metrics"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address      string        `yaml:"address"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
	// RequestTimeout bounds handler work so errors are written before WriteTimeout.
	RequestTimeout time.Duration `yaml:"requestTimeout"`
	AllowedOrigins []string      `yaml:"allowedOrigins"`
}

// LLMConfig contains settings for the OpenAI compatible generative provider.
type LLMConfig struct {
	APIKey      string        `yaml:"apiKey"`
	BaseURL     string        `yaml:"baseUrl"`
	Model       string        `yaml:"model"`
	Temperature float32       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
}

// WeatherConfig points at the Visual Crossing timeline API.
type WeatherConfig struct {
	APIKey  string        `yaml:"apiKey"`
	BaseURL string        `yaml:"baseUrl"`
	Timeout time.Duration `yaml:"timeout"`
	Breaker BreakerConfig `yaml:"breaker"`
}

// BreakerConfig trips the weather circuit after consecutive failures.
type BreakerConfig struct {
	ConsecutiveFailures uint32        `yaml:"consecutiveFailures"`
	OpenTimeout         time.Duration `yaml:"openTimeout"`
}

// SMSConfig holds Twilio credentials. Delivery is disabled when any is missing.
type SMSConfig struct {
	AccountSID string        `yaml:"accountSid"`
	AuthToken  string        `yaml:"authToken"`
	FromNumber string        `yaml:"fromNumber"`
	Timeout    time.Duration `yaml:"timeout"`
}

// Enabled reports whether every Twilio credential is present.
func (c SMSConfig) Enabled() bool {
	return strings.TrimSpace(c.AccountSID) != "" &&
		strings.TrimSpace(c.AuthToken) != "" &&
		strings.TrimSpace(c.FromNumber) != ""
}

// Location resolves the alerts timezone.
func (c AlertsConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// AlertsConfig drives the rule thresholds.
type AlertsConfig struct {
	RainThresholdMM     float64 `yaml:"rainThresholdMm"`
	PesticideWindowDays int     `yaml:"pesticideWindowDays"`
	Timezone            string  `yaml:"timezone"`
}

// AdvisoryConfig controls the advisory generator retry policy.
type AdvisoryConfig struct {
	Model       string        `yaml:"model"`
	MaxAttempts int           `yaml:"maxAttempts"`
	Backoff     time.Duration `yaml:"backoff"`
}

// ChatConfig controls the chat responder.
type ChatConfig struct {
	Model       string        `yaml:"model"`
	Language    string        `yaml:"language"`
	MaxAttempts int           `yaml:"maxAttempts"`
	Backoff     time.Duration `yaml:"backoff"`
}

// DispatchLogConfig selects where SMS dispatch records go. An empty DSN keeps them in memory.
type DispatchLogConfig struct {
	Postgres PostgresConfig `yaml:"postgres"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// ReportsConfig enables archiving rendered advisories to S3 compatible storage.
type ReportsConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Endpoint      string `yaml:"endpoint"`
	AccessKey     string `yaml:"accessKey"`
	SecretKey     string `yaml:"secretKey"`
	Bucket        string `yaml:"bucket"`
	Region        string `yaml:"region"`
	PublicBaseURL string `yaml:"publicBaseUrl"`
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}

	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	} else if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.LLM.Temperature = float32(parsed)
		}
	}
	if v := os.Getenv("LLM_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.LLM.Timeout = parsed
		}
	}

	if v := os.Getenv("VISUAL_CROSSING_API_KEY"); v != "" {
		cfg.Weather.APIKey = v
	}
	if v := os.Getenv("WEATHER_BASE_URL"); v != "" {
		cfg.Weather.BaseURL = v
	}
	if v := os.Getenv("WEATHER_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Weather.Timeout = parsed
		}
	}

	if v := os.Getenv("TWILIO_ACCOUNT_SID"); v != "" {
		cfg.SMS.AccountSID = v
	}
	if v := os.Getenv("TWILIO_AUTH_TOKEN"); v != "" {
		cfg.SMS.AuthToken = v
	}
	if v := os.Getenv("TWILIO_NUMBER"); v != "" {
		cfg.SMS.FromNumber = v
	}

	if v := os.Getenv("ALERTS_RAIN_THRESHOLD_MM"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Alerts.RainThresholdMM = parsed
		}
	}
	if v := os.Getenv("ALERTS_TIMEZONE"); v != "" {
		cfg.Alerts.Timezone = v
	}

	if v := os.Getenv("CHAT_LANGUAGE"); v != "" {
		cfg.Chat.Language = v
	}
	if v := os.Getenv("CHAT_BACKOFF"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Chat.Backoff = parsed
		}
	}

	if v := os.Getenv("DISPATCH_LOG_POSTGRES_DSN"); v != "" {
		cfg.DispatchLog.Postgres.DSN = v
	}

	if v := os.Getenv("REPORTS_ENABLED"); v != "" {
		cfg.Reports.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("REPORTS_ENDPOINT"); v != "" {
		cfg.Reports.Endpoint = v
	}
	if v := os.Getenv("REPORTS_ACCESS_KEY"); v != "" {
		cfg.Reports.AccessKey = v
	}
	if v := os.Getenv("REPORTS_SECRET_KEY"); v != "" {
		cfg.Reports.SecretKey = v
	}
	if v := os.Getenv("REPORTS_BUCKET"); v != "" {
		cfg.Reports.Bucket = v
	}
	if v := os.Getenv("REPORTS_PUBLIC_BASE_URL"); v != "" {
		cfg.Reports.PublicBaseURL = v
	}

	if v := os.Getenv("METRICS_ENABLED"); v != "" {
		cfg.Metrics.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if clean := strings.TrimSpace(p); clean != "" {
			out = append(out, clean)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:        ":8000",
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   165 * time.Second,
			RequestTimeout: 150 * time.Second,
			AllowedOrigins: []string{
				"http://localhost:5173",
				"http://localhost:8080",
			},
		},
		LLM: LLMConfig{
			Model:       "gemini-1.5-flash",
			Temperature: 0.2,
			Timeout:     60 * time.Second,
		},
		Weather: WeatherConfig{
			BaseURL: "https://weather.visualcrossing.com/VisualCrossingWebServices/rest/services/timeline",
			Timeout: 10 * time.Second,
			Breaker: BreakerConfig{
				ConsecutiveFailures: 5,
				OpenTimeout:         30 * time.Second,
			},
		},
		SMS: SMSConfig{
			Timeout: 15 * time.Second,
		},
		Alerts: AlertsConfig{
			RainThresholdMM:     1.0,
			PesticideWindowDays: 14,
			Timezone:            "Asia/Kolkata",
		},
		Advisory: AdvisoryConfig{
			MaxAttempts: 3,
			Backoff:     2 * time.Second,
		},
		Chat: ChatConfig{
			Language:    "Marathi",
			MaxAttempts: 3,
			Backoff:     20 * time.Second,
		},
		DispatchLog: DispatchLogConfig{
			Postgres: PostgresConfig{
				MaxConns: 4,
			},
		},
		Reports: ReportsConfig{
			Region: "auto",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RequestTimeout <= 0 {
		return errors.New("http.requestTimeout must be positive")
	}
	if c.HTTP.WriteTimeout > 0 && c.HTTP.RequestTimeout >= c.HTTP.WriteTimeout {
		return errors.New("http.requestTimeout must be shorter than http.writeTimeout")
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		return errors.New("llm.model cannot be empty")
	}
	if c.LLM.Timeout <= 0 {
		return errors.New("llm.timeout must be positive")
	}
	if strings.TrimSpace(c.Weather.BaseURL) == "" {
		return errors.New("weather.baseUrl cannot be empty")
	}
	if c.Weather.Timeout <= 0 {
		return errors.New("weather.timeout must be positive")
	}
	if c.SMS.Timeout <= 0 {
		return errors.New("sms.timeout must be positive")
	}
	if c.Alerts.RainThresholdMM <= 0 {
		return errors.New("alerts.rainThresholdMm must be positive")
	}
	if c.Alerts.PesticideWindowDays <= 0 {
		return errors.New("alerts.pesticideWindowDays must be positive")
	}
	if _, err := c.Alerts.Location(); err != nil {
		return fmt.Errorf("alerts.timezone: %w", err)
	}
	if c.Advisory.MaxAttempts <= 0 {
		return errors.New("advisory.maxAttempts must be positive")
	}
	if c.Advisory.Backoff < 0 {
		return errors.New("advisory.backoff cannot be negative")
	}
	if c.Chat.MaxAttempts <= 0 {
		return errors.New("chat.maxAttempts must be positive")
	}
	if c.Chat.Backoff < 0 {
		return errors.New("chat.backoff cannot be negative")
	}
	if c.Reports.Enabled {
		if strings.TrimSpace(c.Reports.Endpoint) == "" {
			return errors.New("reports.endpoint cannot be empty when reports are enabled")
		}
		if strings.TrimSpace(c.Reports.Bucket) == "" {
			return errors.New("reports.bucket cannot be empty when reports are enabled")
		}
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return errors.New("metrics.path must start with /")
	}
	return nil
}
