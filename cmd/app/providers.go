package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Niraj555-droid/Smart-Krishi-Advisor/internal/domain/advisory"
	"github.com/Niraj555-droid/Smart-Krishi-Advisor/internal/domain/alerts"
	"github.com/Niraj555-droid/Smart-Krishi-Advisor/internal/domain/chat"
	"github.com/Niraj555-droid/Smart-Krishi-Advisor/internal/infra/config"
	"github.com/Niraj555-droid/Smart-Krishi-Advisor/internal/infra/dispatchlog"
	"github.com/Niraj555-droid/Smart-Krishi-Advisor/internal/infra/llm/chatgpt"
	"github.com/Niraj555-droid/Smart-Krishi-Advisor/internal/infra/reportstore"
	"github.com/Niraj555-droid/Smart-Krishi-Advisor/internal/infra/sms"
	"github.com/Niraj555-droid/Smart-Krishi-Advisor/internal/infra/weather/visualcrossing"
	"github.com/Niraj555-droid/Smart-Krishi-Advisor/pkg/metrics"
)

func provideChatGPTClient(cfg *config.Config) (*chatgpt.Client, error) {
	return chatgpt.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Timeout)
}

func provideWeatherClient(cfg *config.Config, logger *slog.Logger) *visualcrossing.Client {
	if strings.TrimSpace(cfg.Weather.APIKey) == "" {
		logger.Warn("VISUAL_CROSSING_API_KEY not set; alerts will report weather errors")
	}
	return visualcrossing.NewClient(cfg.Weather.BaseURL, cfg.Weather.APIKey, cfg.Weather.Timeout, visualcrossing.BreakerConfig{
		ConsecutiveFailures: cfg.Weather.Breaker.ConsecutiveFailures,
		OpenTimeout:         cfg.Weather.Breaker.OpenTimeout,
	}, logger)
}

func provideNotifier(cfg *config.Config, logger *slog.Logger) alerts.Notifier {
	if !cfg.SMS.Enabled() {
		logger.Info("twilio credentials not set, sms delivery disabled")
		return sms.NewDisabledNotifier(logger)
	}
	notifier, err := sms.NewTwilioNotifier(sms.Config{
		AccountSID: cfg.SMS.AccountSID,
		AuthToken:  cfg.SMS.AuthToken,
		FromNumber: cfg.SMS.FromNumber,
		Timeout:    cfg.SMS.Timeout,
	}, logger)
	if err != nil {
		logger.Error("twilio notifier init failed, sms delivery disabled", "error", err)
		return sms.NewDisabledNotifier(logger)
	}
	return notifier
}

func provideDispatchLog(cfg *config.Config, logger *slog.Logger) (alerts.DispatchLog, func()) {
	fallback := dispatchlog.NewMemoryLog()
	noop := func() {}
	dsn := strings.TrimSpace(cfg.DispatchLog.Postgres.DSN)
	if dsn == "" {
		logger.Info("dispatch log postgres dsn not set, using memory log")
		return fallback, noop
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory log", "error", err)
		return fallback, noop
	}
	if cfg.DispatchLog.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.DispatchLog.Postgres.MaxConns
	}
	if cfg.DispatchLog.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.DispatchLog.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory log", "error", err)
		return fallback, noop
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory log", "error", err)
		pool.Close()
		return fallback, noop
	}
	store := dispatchlog.NewPostgresLog(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		logger.Error("dispatch log schema setup failed, using memory log", "error", err)
		pool.Close()
		return fallback, noop
	}
	logger.Info("dispatch log postgres store enabled")
	return store, pool.Close
}

func provideReportArchive(cfg *config.Config, logger *slog.Logger) advisory.ReportArchive {
	if !cfg.Reports.Enabled {
		return nil
	}
	archive, err := reportstore.NewMinioArchive(reportstore.Config{
		Endpoint:      cfg.Reports.Endpoint,
		AccessKey:     cfg.Reports.AccessKey,
		SecretKey:     cfg.Reports.SecretKey,
		Bucket:        cfg.Reports.Bucket,
		Region:        cfg.Reports.Region,
		PublicBaseURL: cfg.Reports.PublicBaseURL,
	}, logger)
	if err != nil {
		logger.Error("report archive init failed, archiving disabled", "error", err)
		return nil
	}
	logger.Info("advisory report archive enabled", "bucket", cfg.Reports.Bucket)
	return archive
}

func provideAlertsConfig(cfg *config.Config) (alerts.Config, error) {
	loc, err := cfg.Alerts.Location()
	if err != nil {
		return alerts.Config{}, fmt.Errorf("load alerts timezone: %w", err)
	}
	return alerts.Config{
		RainThresholdMM:     cfg.Alerts.RainThresholdMM,
		PesticideWindowDays: cfg.Alerts.PesticideWindowDays,
		Location:            loc,
	}, nil
}

func provideAdvisoryConfig(cfg *config.Config) advisory.Config {
	return advisory.Config{
		Model:       firstNonEmpty(cfg.Advisory.Model, cfg.LLM.Model),
		Temperature: cfg.LLM.Temperature,
		MaxAttempts: cfg.Advisory.MaxAttempts,
		Backoff:     cfg.Advisory.Backoff,
	}
}

func provideChatConfig(cfg *config.Config) chat.Config {
	return chat.Config{
		Model:       firstNonEmpty(cfg.Chat.Model, cfg.LLM.Model),
		Temperature: cfg.LLM.Temperature,
		Language:    cfg.Chat.Language,
		MaxAttempts: cfg.Chat.MaxAttempts,
		Backoff:     cfg.Chat.Backoff,
	}
}

func provideMetricsRecorder() *metrics.Recorder {
	return metrics.NewRecorder()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
