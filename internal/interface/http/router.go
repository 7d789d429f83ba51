package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Niraj555-droid/Smart-Krishi-Advisor/internal/infra/config"
	"github.com/Niraj555-droid/Smart-Krishi-Advisor/pkg/metrics"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler, recorder *metrics.Recorder) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestIDMiddleware(),
		requestLogger(handler.logger, recorder),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		errorHandlingMiddleware(handler.logger),
		requestTimeoutMiddleware(cfg.HTTP.RequestTimeout),
	)

	router.GET("/healthz", handler.Health)
	if cfg.Metrics.Enabled && recorder != nil {
		router.GET(cfg.Metrics.Path, gin.WrapH(promhttp.HandlerFor(recorder.Registry(), promhttp.HandlerOpts{})))
	}

	api := router.Group("/api")
	{
		api.POST("/alerts", handler.GetAlerts)
		api.POST("/generate-advisory", handler.GenerateAdvisory)
		api.POST("/chat", handler.Chat)
	}
	// path used by the original chat widget
	router.POST("/chat", handler.Chat)

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
