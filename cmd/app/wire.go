//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/Niraj555-droid/Smart-Krishi-Advisor/internal/bootstrap"
	"github.com/Niraj555-droid/Smart-Krishi-Advisor/internal/domain/advisory"
	"github.com/Niraj555-droid/Smart-Krishi-Advisor/internal/domain/alerts"
	"github.com/Niraj555-droid/Smart-Krishi-Advisor/internal/domain/chat"
	"github.com/Niraj555-droid/Smart-Krishi-Advisor/internal/infra/config"
	"github.com/Niraj555-droid/Smart-Krishi-Advisor/internal/infra/llm/chatgpt"
	"github.com/Niraj555-droid/Smart-Krishi-Advisor/internal/infra/weather/visualcrossing"
	httpiface "github.com/Niraj555-droid/Smart-Krishi-Advisor/internal/interface/http"
	"github.com/Niraj555-droid/Smart-Krishi-Advisor/pkg/logger"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		provideMetricsRecorder,
		provideAlertsConfig,
		provideAdvisoryConfig,
		provideChatConfig,
		provideChatGPTClient,
		provideWeatherClient,
		provideNotifier,
		provideDispatchLog,
		provideReportArchive,
		alerts.NewService,
		advisory.NewService,
		chat.NewService,
		wire.Bind(new(alerts.WeatherClient), new(*visualcrossing.Client)),
		wire.Bind(new(advisory.ChatClient), new(*chatgpt.Client)),
		wire.Bind(new(chat.ChatClient), new(*chatgpt.Client)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
